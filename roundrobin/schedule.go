/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roundrobin

import (
	"fmt"
)

type Score struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Match is a Matchup placed into a round.
type Match struct {
	Matchup
	Court int `json:"court"`
	// Pinned is the round the user bound this match to; 0 when unpinned.
	Pinned int    `json:"pinned,omitempty"`
	Score  *Score `json:"score,omitempty"`
}

func (m *Match) Has(id UnitID) bool {
	return m.Key.Has(id)
}

// Round is one numbered stage of the tournament.
type Round struct {
	Number  int      `json:"number"`
	Matches []*Match `json:"matches"`
	// Bye is the unit sitting out this round; 0 when there is none.
	Bye       UnitID `json:"bye,omitempty"`
	ByePinned bool   `json:"byePinned,omitempty"`
	// PinnedBye is the unit asked to sit out this round from the next
	// regeneration on. It differs from Bye until that regeneration runs.
	PinnedBye UnitID   `json:"pinnedBye,omitempty"`
	Resting   []Player `json:"resting,omitempty"`
}

// Uses reports whether unit id already plays in this round.
func (r *Round) Uses(id UnitID) bool {
	for _, m := range r.Matches {
		if m.Has(id) {
			return true
		}
	}
	return false
}

// HasPins reports whether any user-locked content lives in this round.
func (r *Round) HasPins() bool {
	if r.PinnedBye != 0 {
		return true
	}
	for _, m := range r.Matches {
		if m.Pinned != 0 {
			return true
		}
	}
	return false
}

func (r *Round) match(key MatchupKey) *Match {
	for _, m := range r.Matches {
		if m.Key == key {
			return m
		}
	}
	return nil
}

type Schedule struct {
	Mode    Mode     `json:"mode"`
	Units   []Unit   `json:"units"`
	Players []Player `json:"players,omitempty"`
	Rounds  []*Round `json:"rounds"`
	Courts  int      `json:"courts"`
}

// RoundCount is the number of rounds a fixed-partner field of n units
// needs: n-1 when n is even, n when n is odd.
func RoundCount(n int) int {
	if n < 2 {
		return 0
	}
	if n%2 == 0 {
		return n - 1
	}
	return n
}

// MatchesPerRound is the fixed-partner round capacity, floor(n/2).
func MatchesPerRound(n int) int {
	return n / 2
}

func (s *Schedule) Unit(id UnitID) Unit {
	for _, u := range s.Units {
		if u.ID() == id {
			return u
		}
	}
	return nil
}

// UnitName returns the display name of id or a placeholder if unknown.
func (s *Schedule) UnitName(id UnitID) string {
	if u := s.Unit(id); u != nil {
		return u.Name()
	}
	return fmt.Sprintf("#%v", id)
}

func (s *Schedule) MatchName(key MatchupKey) string {
	return fmt.Sprintf("%v vs %v", s.UnitName(key.Lo), s.UnitName(key.Hi))
}

// Find locates the match for key along with the round holding it.
func (s *Schedule) Find(key MatchupKey) (*Round, *Match) {
	for _, r := range s.Rounds {
		if m := r.match(key); m != nil {
			return r, m
		}
	}
	return nil, nil
}

func (s *Schedule) Round(number int) *Round {
	if number < 1 || number > len(s.Rounds) {
		return nil
	}
	return s.Rounds[number-1]
}

func (s *Schedule) TotalMatches() int {
	total := 0
	for _, r := range s.Rounds {
		total += len(r.Matches)
	}
	return total
}

// Capacity is the maximum number of matches a round may hold.
func (s *Schedule) Capacity() int {
	if s.Mode == ModeFixed || s.Mode == "" {
		return MatchesPerRound(len(s.Units))
	}
	return len(s.Players) / 4
}

func (s *Schedule) HasByes() bool {
	return (s.Mode == ModeFixed || s.Mode == "") && len(s.Units)%2 == 1
}

// Check verifies the structural invariants of a schedule: no unit or player
// plays twice in a round, round capacity is respected, fixed-mode matchups
// never repeat and every unit holds at most one bye.
func (s *Schedule) Check() error {
	capacity := s.Capacity()
	seen := make(map[MatchupKey]int)
	byes := make(map[UnitID]int)
	for _, r := range s.Rounds {
		if len(r.Matches) > capacity {
			return fmt.Errorf("round %v holds %v matches, capacity is %v",
				r.Number, len(r.Matches), capacity)
		}
		units := make(map[UnitID]bool)
		players := make(map[PlayerID]bool)
		for _, m := range r.Matches {
			for _, id := range []UnitID{m.A, m.B} {
				if units[id] {
					return fmt.Errorf("round %v: %v plays twice", r.Number, s.UnitName(id))
				}
				units[id] = true
				if u := s.Unit(id); u != nil && u.Kind() != KindFixedTeam {
					for _, p := range u.Members() {
						if players[p.ID] {
							return fmt.Errorf("round %v: player %v plays twice",
								r.Number, p.Name)
						}
						players[p.ID] = true
					}
				}
			}
			if s.Mode == ModeFixed || s.Mode == "" {
				if prev, ok := seen[m.Key]; ok {
					return fmt.Errorf("%v is played in rounds %v and %v",
						s.MatchName(m.Key), prev, r.Number)
				}
				seen[m.Key] = r.Number
			}
		}
		if r.Bye != 0 {
			if units[r.Bye] {
				return fmt.Errorf("round %v: bye %v also plays", r.Number,
					s.UnitName(r.Bye))
			}
			if prev, ok := byes[r.Bye]; ok {
				return fmt.Errorf("%v has byes in rounds %v and %v",
					s.UnitName(r.Bye), prev, r.Number)
			}
			byes[r.Bye] = r.Number
		}
	}

	return nil
}

func (s *Schedule) clone() *Schedule {
	out := *s
	out.Rounds = make([]*Round, len(s.Rounds))
	for i, r := range s.Rounds {
		rc := *r
		rc.Matches = make([]*Match, len(r.Matches))
		for j, m := range r.Matches {
			mc := *m
			if m.Score != nil {
				sc := *m.Score
				mc.Score = &sc
			}
			rc.Matches[j] = &mc
		}
		rc.Resting = append([]Player(nil), r.Resting...)
		out.Rounds[i] = &rc
	}
	return &out
}
