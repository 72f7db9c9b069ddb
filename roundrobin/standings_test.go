/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roundrobin

import (
	"testing"
)

func scored(a, b UnitID, sa, sb int) *Match {
	return &Match{Matchup: newMatchup(a, b), Score: &Score{A: sa, B: sb}}
}

func TestComputeStandingsMargin(t *testing.T) {
	s := &Schedule{
		Mode:  ModeFixed,
		Units: testUnits(3),
		Rounds: []*Round{
			{Number: 1, Matches: []*Match{scored(1, 2, 11, 5)}},
			{Number: 2, Matches: []*Match{scored(1, 2, 8, 11)}},
			{Number: 3, Matches: []*Match{{Matchup: newMatchup(1, 3)}}},
		},
	}

	standings := ComputeStandings(s)
	if len(standings) != 3 {
		t.Fatalf("expected 3 rows, got %v", len(standings))
	}
	a := standings[0]
	if a.ID != 1 {
		t.Fatalf("expected team 1 first, got %+v", standings)
	}
	if a.Played != 2 || a.Wins != 1 || a.Losses != 1 {
		t.Errorf("unexpected record for team 1: %+v", a)
	}
	if a.PointsFor != 19 || a.PointsAgainst != 16 || a.MarginTotal != 3 {
		t.Errorf("unexpected points for team 1: %+v", a)
	}
	if a.AvgMargin != 1.5 {
		t.Errorf("expected average margin 1.5, got %v", a.AvgMargin)
	}

	b := standings[1]
	if b.ID != 2 || b.AvgMargin != -1.5 {
		t.Errorf("expected team 2 second with -1.5, got %+v", b)
	}
	c := standings[2]
	if c.ID != 3 || c.Played != 0 || c.AvgMargin != 0 {
		t.Errorf("unscored match must not count: %+v", c)
	}
}

func TestComputeStandingsTiesAndOrder(t *testing.T) {
	s := &Schedule{
		Mode:  ModeFixed,
		Units: testUnits(4),
		Rounds: []*Round{
			{Number: 1, Matches: []*Match{scored(1, 2, 9, 9), scored(3, 4, 11, 2)}},
		},
	}

	standings := ComputeStandings(s)
	wantOrder := []int{3, 1, 2, 4}
	for i, id := range wantOrder {
		if standings[i].ID != id {
			t.Fatalf("position %v: expected %v, got %+v", i, id, standings)
		}
	}
	if standings[1].Ties != 1 || standings[2].Ties != 1 {
		t.Errorf("expected both tied teams to record a tie: %+v", standings)
	}
}

func TestComputeStandingsPerPlayer(t *testing.T) {
	s, err := GenerateRotating(testPlayers(4))
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	m := s.Rounds[0].Matches[0]
	m.Score = &Score{A: 11, B: 4}

	standings := ComputeStandings(s)
	if len(standings) != 4 {
		t.Fatalf("expected one row per player, got %v", len(standings))
	}
	winners := make(map[int]bool)
	for _, p := range s.Unit(m.A).Members() {
		winners[int(p.ID)] = true
	}
	for i, st := range standings {
		if st.Played != 1 {
			t.Errorf("player %v: expected 1 played, got %v", st.ID, st.Played)
		}
		if i < 2 {
			if !winners[st.ID] || st.Wins != 1 || st.AvgMargin != 7 {
				t.Errorf("expected winner in position %v, got %+v", i, st)
			}
		} else if winners[st.ID] || st.Losses != 1 {
			t.Errorf("expected loser in position %v, got %+v", i, st)
		}
	}
}
