/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roster

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gregjones/httpcache"

	"github.com/rpmurphy2/pickleball-round-robin/roundrobin"
)

func TestAddRemoveTeamKeepsIDs(t *testing.T) {
	r := New()
	for _, names := range [][2]string{{"Ann", "Ben"}, {"Cat", "Dan"}, {"Eve", "Fay"}} {
		if _, err := r.AddTeam(names[0], names[1]); err != nil {
			t.Fatalf("add team failed: %v", err)
		}
	}
	if err := r.RemoveTeam(2); err != nil {
		t.Fatalf("remove team failed: %v", err)
	}
	team, err := r.AddTeam("Gus", "Hal")
	if err != nil {
		t.Fatalf("add team failed: %v", err)
	}

	if team.TeamID != 4 {
		t.Errorf("expected new team id 4, got %v", team.TeamID)
	}
	var ids []roundrobin.UnitID
	for _, tm := range r.Teams {
		ids = append(ids, tm.TeamID)
	}
	want := []roundrobin.UnitID{1, 3, 4}
	if len(ids) != len(want) {
		t.Fatalf("expected ids %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("expected ids %v, got %v", want, ids)
		}
	}
	if team.Name() != "Gus & Hal" {
		t.Errorf("unexpected team name %q", team.Name())
	}

	if err := r.RemoveTeam(2); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAddTeamRejectsBlankNames(t *testing.T) {
	r := New()
	if _, err := r.AddTeam("Ann", "  "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
	if _, err := r.AddPlayer("", roundrobin.RoleNone); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
	if len(r.Teams) != 0 || len(r.Players) != 0 {
		t.Errorf("rejected entries were stored")
	}
}

func TestQuickAddTeams(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    int
		wantErr error
	}{
		{name: "two lines", text: "Ann, Ben\nCat,Dan\n", want: 2},
		{name: "skips bad lines", text: "Ann, Ben\nsolo\n, Dan\nA,B,C\nEve , Fay", want: 2},
		{name: "nothing valid", text: "solo\n\n", wantErr: ErrMalformedQuickAdd},
		{name: "empty", text: "", wantErr: ErrMalformedQuickAdd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			added, err := r.QuickAddTeams(tt.text)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(added) != tt.want || len(r.Teams) != tt.want {
				t.Errorf("expected %v teams, got %v added / %v stored", tt.want,
					len(added), len(r.Teams))
			}
			for _, team := range added {
				for _, p := range team.Players {
					if p.Name == "" || p.Name != strings.TrimSpace(p.Name) {
						t.Errorf("unexpected player name %q", p.Name)
					}
				}
			}
		})
	}
}

func TestQuickAddPlayers(t *testing.T) {
	r := New()
	added, err := r.QuickAddPlayers("Ann, F\nBen,m\nCat\nDan, X\n ,F\n")
	if err != nil {
		t.Fatalf("quick add failed: %v", err)
	}
	want := []roundrobin.Player{
		{Name: "Ann", Role: roundrobin.RoleFemale},
		{Name: "Ben", Role: roundrobin.RoleMale},
		{Name: "Cat", Role: roundrobin.RoleNone},
	}
	if len(added) != len(want) {
		t.Fatalf("expected %v players, got %+v", len(want), added)
	}
	for i, p := range added {
		if p.Name != want[i].Name || p.Role != want[i].Role {
			t.Errorf("player %v: expected %+v, got %+v", i, want[i], p)
		}
	}

	if _, err := r.QuickAddPlayers("Dan, X"); !errors.Is(err, ErrMalformedQuickAdd) {
		t.Errorf("expected ErrMalformedQuickAdd, got %v", err)
	}
	if err := r.RemovePlayer(added[1].ID); err != nil {
		t.Errorf("remove player failed: %v", err)
	}
	if len(r.Entrants().Players) != 2 {
		t.Errorf("expected 2 players after removal, got %v", len(r.Entrants().Players))
	}
}

func TestSaveRestore(t *testing.T) {
	ctx := context.Background()
	cache := httpcache.NewMemoryCache()

	r := New()
	if _, err := r.QuickAddTeams("Ann, Ben\nCat, Dan\nEve, Fay"); err != nil {
		t.Fatalf("quick add failed: %v", err)
	}
	if _, err := r.AddPlayer("Gus", roundrobin.RoleMale); err != nil {
		t.Fatalf("add player failed: %v", err)
	}
	if err := r.RemoveTeam(3); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := r.Save(ctx, cache, "club:"); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got := Restore(ctx, cache, "club:")
	if len(got.Teams) != 2 || len(got.Players) != 1 {
		t.Fatalf("unexpected restore: %+v", got)
	}
	if got.Players[0].Role != roundrobin.RoleMale {
		t.Errorf("role lost on restore: %+v", got.Players[0])
	}
	team, err := got.AddTeam("Hal", "Ivy")
	if err != nil {
		t.Fatalf("add team failed: %v", err)
	}
	if team.TeamID != 4 {
		t.Errorf("removed id reused after restore: got %v", team.TeamID)
	}

	other := Restore(ctx, cache, "other:")
	if len(other.Teams) != 0 || len(other.Players) != 0 {
		t.Errorf("expected empty roster for unknown prefix")
	}
}

func TestRestoreIgnoresMalformedData(t *testing.T) {
	ctx := context.Background()
	cache := httpcache.NewMemoryCache()
	cache.Set(TeamsKey, []byte("{not json"))
	cache.Set(PlayersKey, []byte(`[{"id":7,"name":"Ann","role":"F"}]`))

	r := Restore(ctx, cache, "")
	if len(r.Teams) != 0 {
		t.Errorf("malformed teams should be ignored, got %+v", r.Teams)
	}
	if len(r.Players) != 1 {
		t.Fatalf("expected players to load, got %+v", r.Players)
	}
	p, err := r.AddPlayer("Ben", roundrobin.RoleMale)
	if err != nil {
		t.Fatalf("add player failed: %v", err)
	}
	if p.ID != 8 {
		t.Errorf("expected next id 8, got %v", p.ID)
	}
}
