/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roundrobin

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownMode     = errors.New("unknown tournament mode")
	ErrUnknownRole     = errors.New("unknown player role")
	ErrTooFewUnits     = errors.New("at least 2 teams are needed to generate a schedule")
	ErrTooFewPlayers   = errors.New("not enough players to generate a schedule")
	ErrSelfMatchup     = errors.New("a team cannot play itself")
	ErrUnknownUnit     = errors.New("unknown team")
	ErrRoundOutOfRange = errors.New("round out of range")
	ErrDoubleBooked    = errors.New("a team cannot play multiple matches in the same round")
	ErrDuplicateMatch  = errors.New("duplicate matchup")
	ErrRoundFull       = errors.New("round has no room for another match")
	ErrNoByes          = errors.New("byes only exist with an odd number of teams")
	ErrByeTaken        = errors.New("team already has a bye in another round")
	ErrByeConflict     = errors.New("team has a pinned match in that round")
	ErrPinConflict     = errors.New("pinned match conflicts with another pinned match")

	// ErrNoSchedule means the search space was exhausted without finding a
	// complete schedule for the given locks.
	ErrNoSchedule = errors.New("no valid schedule exists for these locks")
	// ErrSearchBudgetExceeded means the search gave up before finishing.
	ErrSearchBudgetExceeded = errors.New("schedule search budget exceeded")

	ErrModeUnsupported = errors.New("operation not supported in this mode")
	ErrNotGenerated    = errors.New("no schedule has been generated")
	ErrMatchNotFound   = errors.New("match not found")
	ErrScoringDisabled = errors.New("scoring is disabled")
	ErrInvalidScore    = errors.New("scores must be non-negative")
	ErrInvalidCourts   = errors.New("number of courts must be positive")
)

// LockConflictError reports a locked round that cannot be honored. It names
// the offending round and matchup and unwraps to one of the sentinel errors
// above.
type LockConflictError struct {
	Round   int
	Matchup string
	Err     error
}

func (e *LockConflictError) Error() string {
	if e.Matchup == "" {
		return fmt.Sprintf("Round %v: %v", e.Round, e.Err)
	}
	if errors.Is(e.Err, ErrDuplicateMatch) {
		return fmt.Sprintf("Duplicate matchup: %v appears more than once.", e.Matchup)
	}
	return fmt.Sprintf("Round %v: %v: %v", e.Round, e.Matchup, e.Err)
}

func (e *LockConflictError) Unwrap() error { return e.Err }

// PinConflictError reports a rejected round or bye pin together with the
// already-pinned entries it collides with.
type PinConflictError struct {
	Round     int
	Subject   string
	Conflicts []string
	Err       error
}

func (e *PinConflictError) Error() string {
	msg := fmt.Sprintf("cannot pin %v to round %v: %v", e.Subject, e.Round, e.Err)
	if len(e.Conflicts) > 0 {
		msg += fmt.Sprintf(" (conflicts with %v)", strings.Join(e.Conflicts, ", "))
	}
	return msg
}

func (e *PinConflictError) Unwrap() error { return e.Err }
