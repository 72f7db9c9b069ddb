/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

const (
	Version          = "0.4.0"
	UserAgent        = "pickleball-round-robin/" + Version + " (+https://github.com/rpmurphy2/pickleball-round-robin)"
	DefaultStoreURL  = "file://.rrstore"
	DefaultPrefix    = "rr:"
	DefaultListen    = ":8080"
	EditTokenIssuer  = "pickleball-round-robin"
	ScheduleUpdated  = "SCHEDULE_UPDATED"
	RosterFetchMaxMB = 1
)
