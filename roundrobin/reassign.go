/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roundrobin

import (
	"fmt"
	"sort"
)

// PinMatch binds the match for key to round so the next regeneration keeps
// it there. Only other pinned entries are checked; unpinned matches are
// free to move. round 0 clears the pin. The schedule is unchanged when an
// error is returned.
func (s *Schedule) PinMatch(key MatchupKey, round int) error {
	if s.Mode != ModeFixed && s.Mode != "" {
		return ErrModeUnsupported
	}
	_, match := s.Find(key)
	if match == nil {
		return fmt.Errorf("%w: %v", ErrMatchNotFound, key)
	}
	if round == 0 {
		match.Pinned = 0
		return nil
	}
	if round < 1 || round > len(s.Rounds) {
		return fmt.Errorf("%w: %v not in 1-%v", ErrRoundOutOfRange, round,
			len(s.Rounds))
	}

	var conflicts []string
	for _, r := range s.Rounds {
		for _, other := range r.Matches {
			if other == match || other.Pinned != round {
				continue
			}
			if other.Has(match.A) || other.Has(match.B) {
				conflicts = append(conflicts, s.MatchName(other.Key))
			}
		}
	}
	if len(conflicts) > 0 {
		return &PinConflictError{Round: round, Subject: s.MatchName(key),
			Conflicts: conflicts, Err: ErrPinConflict}
	}
	if r := s.Round(round); r.PinnedBye != 0 && match.Has(r.PinnedBye) {
		return &PinConflictError{Round: round, Subject: s.MatchName(key),
			Conflicts: []string{"bye for " + s.UnitName(r.PinnedBye)},
			Err:       ErrByeConflict}
	}

	match.Pinned = round
	return nil
}

// PinBye makes unit sit out round on the next regeneration. unit 0 clears
// the round's bye pin. A unit may hold only one pinned bye and may not sit
// out a round it has a pinned match in. The displayed bye keeps its computed
// value until the schedule is regenerated.
func (s *Schedule) PinBye(round int, unit UnitID) error {
	if s.Mode != ModeFixed && s.Mode != "" {
		return ErrModeUnsupported
	}
	if !s.HasByes() {
		return ErrNoByes
	}
	r := s.Round(round)
	if r == nil {
		return fmt.Errorf("%w: %v not in 1-%v", ErrRoundOutOfRange, round,
			len(s.Rounds))
	}
	if unit == 0 {
		r.PinnedBye = 0
		r.ByePinned = false
		return nil
	}
	if s.Unit(unit) == nil {
		return fmt.Errorf("%w #%v", ErrUnknownUnit, unit)
	}

	subject := "bye for " + s.UnitName(unit)
	for _, other := range s.Rounds {
		if other.Number != round && other.PinnedBye == unit {
			return &PinConflictError{Round: round, Subject: subject,
				Conflicts: []string{fmt.Sprintf("round %v bye", other.Number)},
				Err:       ErrByeTaken}
		}
	}
	var conflicts []string
	for _, other := range s.Rounds {
		for _, m := range other.Matches {
			if m.Pinned == round && m.Has(unit) {
				conflicts = append(conflicts, s.MatchName(m.Key))
			}
		}
	}
	if len(conflicts) > 0 {
		return &PinConflictError{Round: round, Subject: subject,
			Conflicts: conflicts, Err: ErrByeConflict}
	}

	r.PinnedBye = unit
	r.ByePinned = r.Bye == unit
	return nil
}

// Locks gathers every pinned match and bye into a lock set grouped by target
// round and sorted by round number, ready to be fed back into Solve.
func (s *Schedule) Locks() []LockedRound {
	byRound := make(map[int]*LockedRound)
	get := func(n int) *LockedRound {
		lr, ok := byRound[n]
		if !ok {
			lr = &LockedRound{Number: n}
			byRound[n] = lr
		}
		return lr
	}

	for _, r := range s.Rounds {
		for _, m := range r.Matches {
			if m.Pinned != 0 {
				lr := get(m.Pinned)
				lr.Matchups = append(lr.Matchups, m.Key)
			}
		}
		if r.PinnedBye != 0 {
			get(r.Number).Bye = r.PinnedBye
		}
	}

	locks := make([]LockedRound, 0, len(byRound))
	for _, lr := range byRound {
		sort.Slice(lr.Matchups, func(i, j int) bool {
			return lr.Matchups[i].less(lr.Matchups[j])
		})
		locks = append(locks, *lr)
	}
	sort.Slice(locks, func(i, j int) bool {
		return locks[i].Number < locks[j].Number
	})

	return locks
}
