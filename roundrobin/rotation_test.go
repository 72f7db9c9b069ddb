/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roundrobin

import (
	"errors"
	"fmt"
	"testing"
)

type partnerKey struct {
	lo, hi PlayerID
}

func newPartnerKey(a, b PlayerID) partnerKey {
	if a > b {
		a, b = b, a
	}
	return partnerKey{lo: a, hi: b}
}

// checkRotation verifies every round seats each player exactly once, either
// on court or resting, and returns how often each partnership occurred.
func checkRotation(t *testing.T, s *Schedule) map[partnerKey]int {
	t.Helper()

	partners := make(map[partnerKey]int)
	for _, r := range s.Rounds {
		if len(r.Matches) != len(s.Players)/4 {
			t.Errorf("round %v: expected %v matches, got %v", r.Number,
				len(s.Players)/4, len(r.Matches))
		}
		seen := make(map[PlayerID]int)
		for _, m := range r.Matches {
			for _, id := range []UnitID{m.A, m.B} {
				members := s.Unit(id).Members()
				partners[newPartnerKey(members[0].ID, members[1].ID)]++
				for _, p := range members {
					seen[p.ID]++
				}
			}
		}
		for _, p := range r.Resting {
			seen[p.ID]++
		}
		for _, p := range s.Players {
			if seen[p.ID] != 1 {
				t.Errorf("round %v: player %v seated %v times", r.Number, p.Name,
					seen[p.ID])
			}
		}
	}
	if err := s.Check(); err != nil {
		t.Errorf("schedule check failed: %v", err)
	}
	return partners
}

func TestGenerateRotating(t *testing.T) {
	for n := 4; n <= 12; n++ {
		t.Run(fmt.Sprintf("%v players", n), func(t *testing.T) {
			s, err := GenerateRotating(testPlayers(n))
			if err != nil {
				t.Fatalf("generate failed: %v", err)
			}
			if want := n + n%2 - 1; len(s.Rounds) != want {
				t.Errorf("expected %v rounds, got %v", want, len(s.Rounds))
			}
			for k, count := range checkRotation(t, s) {
				if count > 1 {
					t.Errorf("partnership %v repeated %v times", k, count)
				}
			}
		})
	}
}

func TestGenerateRotatingEveryPartnerWhenDivisible(t *testing.T) {
	s, err := GenerateRotating(testPlayers(8))
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	partners := checkRotation(t, s)
	if len(partners) != 8*7/2 {
		t.Errorf("expected all %v partnerships, got %v", 8*7/2, len(partners))
	}
}

func TestGenerateMixed(t *testing.T) {
	tests := []struct {
		men, women int
	}{
		{men: 4, women: 4},
		{men: 2, women: 2},
		{men: 3, women: 5},
		{men: 6, women: 4},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%vM%vF", tt.men, tt.women), func(t *testing.T) {
			s, err := GenerateMixed(testMixedPlayers(tt.men, tt.women))
			if err != nil {
				t.Fatalf("generate failed: %v", err)
			}
			if want := max(tt.men, tt.women); len(s.Rounds) != want {
				t.Errorf("expected %v rounds, got %v", want, len(s.Rounds))
			}

			partners := make(map[partnerKey]int)
			for _, r := range s.Rounds {
				for _, m := range r.Matches {
					for _, id := range []UnitID{m.A, m.B} {
						mp, ok := s.Unit(id).(MixedPairing)
						if !ok {
							t.Fatalf("expected mixed pairing, got %T", s.Unit(id))
						}
						if mp.Male.Role != RoleMale || mp.Female.Role != RoleFemale {
							t.Errorf("pairing %v is not mixed", mp.Name())
						}
						partners[newPartnerKey(mp.Male.ID, mp.Female.ID)]++
					}
				}
			}
			for k, count := range partners {
				if count > 1 {
					t.Errorf("partnership %v repeated %v times", k, count)
				}
			}
			if tt.men == tt.women && tt.men%2 == 0 &&
				len(partners) != tt.men*tt.women {
				t.Errorf("expected all %v cross pairs, got %v", tt.men*tt.women,
					len(partners))
			}
		})
	}
}

func TestGenerateErrors(t *testing.T) {
	if _, err := GenerateRotating(testPlayers(3)); !errors.Is(err, ErrTooFewPlayers) {
		t.Errorf("expected ErrTooFewPlayers, got %v", err)
	}
	if _, err := GenerateMixed(testMixedPlayers(1, 4)); !errors.Is(err, ErrTooFewPlayers) {
		t.Errorf("expected ErrTooFewPlayers, got %v", err)
	}
	players := append(testMixedPlayers(2, 2), Player{ID: 99, Name: "Sam"})
	if _, err := GenerateMixed(players); !errors.Is(err, ErrUnknownRole) {
		t.Errorf("expected ErrUnknownRole, got %v", err)
	}
}

func TestCircleRounds(t *testing.T) {
	for n := 2; n <= 9; n++ {
		rounds := circleRounds(n)
		total := n + n%2
		if len(rounds) != total-1 {
			t.Errorf("n=%v: expected %v rounds, got %v", n, total-1, len(rounds))
		}
		seen := make(map[[2]int]bool)
		for _, pairs := range rounds {
			for _, p := range pairs {
				k := p
				if k[0] > k[1] {
					k[0], k[1] = k[1], k[0]
				}
				if seen[k] {
					t.Errorf("n=%v: pair %v repeated", n, k)
				}
				seen[k] = true
			}
		}
		if len(seen) != total*(total-1)/2 {
			t.Errorf("n=%v: expected %v pairs, got %v", n, total*(total-1)/2,
				len(seen))
		}
	}
}
