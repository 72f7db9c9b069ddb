/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roundrobin

import (
	"fmt"
)

// LockedRound binds matchups (and optionally a bye) to a round before the
// solver runs.
type LockedRound struct {
	Number   int          `json:"round"`
	Matchups []MatchupKey `json:"matchups"`
	Bye      UnitID       `json:"bye,omitempty"`
}

// ValidateLocks rejects lock sets that no schedule could honor. Nothing is
// scheduled when it returns an error.
func ValidateLocks(units []Unit, locks []LockedRound) error {
	n := len(units)
	if n < 2 {
		return ErrTooFewUnits
	}
	known := make(map[UnitID]Unit, n)
	for _, u := range units {
		known[u.ID()] = u
	}
	name := func(id UnitID) string {
		if u, ok := known[id]; ok {
			return u.Name()
		}
		return fmt.Sprintf("#%v", id)
	}
	matchName := func(k MatchupKey) string {
		return fmt.Sprintf("%v vs %v", name(k.Lo), name(k.Hi))
	}

	totalRounds := RoundCount(n)
	capacity := MatchesPerRound(n)
	used := make(map[int]map[UnitID]bool)
	count := make(map[int]int)
	placed := make(map[MatchupKey]int)

	for _, lr := range locks {
		if lr.Number < 1 || lr.Number > totalRounds {
			return &LockConflictError{Round: lr.Number, Err: fmt.Errorf("%w: 1-%v",
				ErrRoundOutOfRange, totalRounds)}
		}
		if used[lr.Number] == nil {
			used[lr.Number] = make(map[UnitID]bool)
		}
		for _, k := range lr.Matchups {
			k = NewMatchupKey(k.Lo, k.Hi)
			if k.Lo == k.Hi {
				return &LockConflictError{Round: lr.Number, Matchup: matchName(k),
					Err: ErrSelfMatchup}
			}
			if _, ok := known[k.Lo]; !ok {
				return &LockConflictError{Round: lr.Number, Matchup: k.String(),
					Err: fmt.Errorf("%w #%v", ErrUnknownUnit, k.Lo)}
			}
			if _, ok := known[k.Hi]; !ok {
				return &LockConflictError{Round: lr.Number, Matchup: k.String(),
					Err: fmt.Errorf("%w #%v", ErrUnknownUnit, k.Hi)}
			}
			if used[lr.Number][k.Lo] || used[lr.Number][k.Hi] {
				return &LockConflictError{Round: lr.Number, Matchup: matchName(k),
					Err: ErrDoubleBooked}
			}
			if _, ok := placed[k]; ok {
				return &LockConflictError{Round: lr.Number, Matchup: matchName(k),
					Err: ErrDuplicateMatch}
			}
			if count[lr.Number] >= capacity {
				return &LockConflictError{Round: lr.Number, Matchup: matchName(k),
					Err: ErrRoundFull}
			}
			used[lr.Number][k.Lo] = true
			used[lr.Number][k.Hi] = true
			placed[k] = lr.Number
			count[lr.Number]++
		}
	}

	byeRound := make(map[UnitID]int)
	roundBye := make(map[int]UnitID)
	for _, lr := range locks {
		if lr.Bye == 0 {
			continue
		}
		if n%2 == 0 {
			return &LockConflictError{Round: lr.Number, Err: ErrNoByes}
		}
		if _, ok := known[lr.Bye]; !ok {
			return &LockConflictError{Round: lr.Number,
				Err: fmt.Errorf("%w #%v", ErrUnknownUnit, lr.Bye)}
		}
		if used[lr.Number][lr.Bye] {
			return &LockConflictError{Round: lr.Number, Matchup: name(lr.Bye),
				Err: ErrByeConflict}
		}
		if prev, ok := byeRound[lr.Bye]; ok && prev != lr.Number {
			return &LockConflictError{Round: lr.Number, Matchup: name(lr.Bye),
				Err: fmt.Errorf("%w (round %v)", ErrByeTaken, prev)}
		}
		if prev, ok := roundBye[lr.Number]; ok && prev != lr.Bye {
			return &LockConflictError{Round: lr.Number, Matchup: name(lr.Bye),
				Err: fmt.Errorf("%w: round already gives %v the bye", ErrByeConflict,
					name(prev))}
		}
		byeRound[lr.Bye] = lr.Number
		roundBye[lr.Number] = lr.Bye
	}

	return nil
}
