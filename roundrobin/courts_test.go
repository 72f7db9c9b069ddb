/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roundrobin

import (
	"context"
	"fmt"
	"testing"
)

func courtsOf(s *Schedule) []string {
	var out []string
	for _, r := range s.Rounds {
		for _, m := range r.Matches {
			out = append(out, fmt.Sprintf("%v:%v@%v", r.Number, m.Key, m.Court))
		}
	}
	return out
}

func TestBalanceCourtsIdempotent(t *testing.T) {
	tests := []struct {
		n, courts int
	}{
		{n: 4, courts: 2},
		{n: 7, courts: 2},
		{n: 8, courts: 2},
		{n: 8, courts: 4},
		{n: 9, courts: 3},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v teams %v courts", tt.n, tt.courts), func(t *testing.T) {
			s, err := Solve(context.Background(), SolveInput{Units: testUnits(tt.n),
				Budget: DefaultBudget})
			if err != nil {
				t.Fatalf("solve failed: %v", err)
			}
			BalanceCourts(s, tt.courts)
			first := courtsOf(s)
			BalanceCourts(s, tt.courts)
			second := courtsOf(s)

			if len(first) != len(second) {
				t.Fatalf("match count changed: %v vs %v", len(first), len(second))
			}
			for i := range first {
				if first[i] != second[i] {
					t.Errorf("assignment %v changed: %v vs %v", i, first[i], second[i])
				}
			}
		})
	}
}

func TestBalanceCourtsReusesCourts(t *testing.T) {
	s, err := Solve(context.Background(), SolveInput{Units: testUnits(8),
		Budget: DefaultBudget})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	BalanceCourts(s, 2)

	for _, r := range s.Rounds {
		perCourt := make(map[int]int)
		for _, m := range r.Matches {
			perCourt[m.Court]++
		}
		if perCourt[1] != 2 || perCourt[2] != 2 {
			t.Errorf("round %v: expected 2 matches per court, got %v", r.Number,
				perCourt)
		}
		for i := 1; i < len(r.Matches); i++ {
			if r.Matches[i-1].Court > r.Matches[i].Court {
				t.Errorf("round %v: matches not sorted by court", r.Number)
			}
		}
	}
}

func TestBalanceCourtsSpreadsUsage(t *testing.T) {
	const n, courts = 8, 4
	s, err := Solve(context.Background(), SolveInput{Units: testUnits(n),
		Budget: DefaultBudget})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	BalanceCourts(s, courts)

	usage := make(map[UnitID][]int)
	for _, u := range s.Units {
		usage[u.ID()] = make([]int, courts)
	}
	for _, r := range s.Rounds {
		seen := make(map[int]bool)
		for _, m := range r.Matches {
			if seen[m.Court] {
				t.Errorf("round %v: court %v used twice", r.Number, m.Court)
			}
			seen[m.Court] = true
			usage[m.A][m.Court-1]++
			usage[m.B][m.Court-1]++
		}
	}
	for id, counts := range usage {
		lo, hi := counts[0], counts[0]
		for _, c := range counts {
			lo = min(lo, c)
			hi = max(hi, c)
		}
		if hi-lo > 3 {
			t.Errorf("team %v court usage too uneven: %v", id, counts)
		}
	}
}

func TestBalanceCourtsPerPlayerInRotatingMode(t *testing.T) {
	s, err := GenerateRotating(testPlayers(8))
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	BalanceCourts(s, 2)
	if s.Courts != 2 {
		t.Errorf("expected 2 courts, got %v", s.Courts)
	}
	for _, r := range s.Rounds {
		if len(r.Matches) != 2 {
			t.Fatalf("round %v: expected 2 matches, got %v", r.Number, len(r.Matches))
		}
		if r.Matches[0].Court != 1 || r.Matches[1].Court != 2 {
			t.Errorf("round %v: expected courts 1 and 2, got %v and %v", r.Number,
				r.Matches[0].Court, r.Matches[1].Court)
		}
	}
}

func TestBalanceCourtsClampsCourtCount(t *testing.T) {
	for _, courts := range []int{0, -3} {
		s, err := Solve(context.Background(), SolveInput{Units: testUnits(5),
			Budget: DefaultBudget})
		if err != nil {
			t.Fatalf("solve failed: %v", err)
		}
		BalanceCourts(s, courts)
		if s.Courts != 1 {
			t.Errorf("courts=%v: expected 1 court, got %v", courts, s.Courts)
		}
		for _, r := range s.Rounds {
			for _, m := range r.Matches {
				if m.Court != 1 {
					t.Errorf("courts=%v: round %v match %v on court %v", courts,
						r.Number, m.Key, m.Court)
				}
			}
		}
	}
}
