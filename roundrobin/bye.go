/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roundrobin

// AssignByes fills the bye slot of every round of an odd fixed-partner
// field. A pinned bye wins when its unit is idle that round; otherwise the
// first idle unit in list order sits out. Even fields are left untouched.
func AssignByes(s *Schedule, pinned map[int]UnitID) {
	if !s.HasByes() {
		return
	}

	for _, r := range s.Rounds {
		r.PinnedBye = pinned[r.Number]
		if id := r.PinnedBye; id != 0 && !r.Uses(id) {
			r.Bye = id
			r.ByePinned = true
			continue
		}
		r.Bye = 0
		r.ByePinned = false
		for _, u := range s.Units {
			if !r.Uses(u.ID()) {
				r.Bye = u.ID()
				break
			}
		}
	}
}

// pinnedByes collects the bye pins of a lock set keyed by round number.
func pinnedByes(locks []LockedRound) map[int]UnitID {
	out := make(map[int]UnitID)
	for _, lr := range locks {
		if lr.Bye != 0 {
			out[lr.Number] = lr.Bye
		}
	}
	return out
}
