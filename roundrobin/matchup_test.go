/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roundrobin

import (
	"errors"
	"testing"
)

func TestGenerateMatchups(t *testing.T) {
	for n := 0; n <= 8; n++ {
		matchups := GenerateMatchups(testUnits(n))
		if len(matchups) != n*(n-1)/2 {
			t.Errorf("n=%v: expected %v matchups, got %v", n, n*(n-1)/2,
				len(matchups))
		}
		seen := make(map[MatchupKey]bool)
		for _, m := range matchups {
			if seen[m.Key] {
				t.Errorf("n=%v: duplicate matchup %v", n, m.Key)
			}
			seen[m.Key] = true
			if m.A >= m.B {
				t.Errorf("n=%v: matchup %v not in list order", n, m.Key)
			}
			if m.Key != NewMatchupKey(m.B, m.A) {
				t.Errorf("n=%v: key %v is not canonical", n, m.Key)
			}
		}
	}
}

func TestParseMatchupKey(t *testing.T) {
	tests := []struct {
		in      string
		want    MatchupKey
		wantErr bool
	}{
		{in: "1-2", want: key(1, 2)},
		{in: "7-3", want: key(3, 7)},
		{in: " 4 - 5 ", want: key(4, 5)},
		{in: "3-3", wantErr: true},
		{in: "1", wantErr: true},
		{in: "a-b", wantErr: true},
		{in: "1-2-3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMatchupKey(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			if got.String() != tt.want.String() {
				t.Errorf("expected string %v, got %v", tt.want, got)
			}
		})
	}

	if _, err := ParseMatchupKey("2-2"); !errors.Is(err, ErrSelfMatchup) {
		t.Errorf("expected ErrSelfMatchup, got %v", err)
	}
}

func TestParseMode(t *testing.T) {
	tests := map[string]Mode{
		"":         ModeFixed,
		"fixed":    ModeFixed,
		"Rotating": ModeRotating,
		" mixed ":  ModeMixed,
	}
	for in, want := range tests {
		got, err := ParseMode(in)
		if err != nil {
			t.Errorf("ParseMode(%q): unexpected error %v", in, err)
		}
		if got != want {
			t.Errorf("ParseMode(%q): expected %v, got %v", in, want, got)
		}
	}
	if _, err := ParseMode("king of the court"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
}

func TestTeamName(t *testing.T) {
	team := Team{TeamID: 1, Players: [2]Player{{Name: "Ann"}, {Name: "Ben"}}}
	if team.Name() != "Ann & Ben" {
		t.Errorf("expected 'Ann & Ben', got %q", team.Name())
	}
	if team.Kind() != KindFixedTeam {
		t.Errorf("expected fixed team kind, got %v", team.Kind())
	}
}
