/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package roster keeps the competitor lists a tournament is built from:
// fixed-partner teams and individual players. Ids are handed out once and
// never reused or renumbered, so locks and pins that name a team stay
// valid after other teams are removed.
package roster

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/gregjones/httpcache"
	"golang.org/x/sync/errgroup"

	"github.com/rpmurphy2/pickleball-round-robin/roundrobin"
)

const (
	TeamsKey   = "pickleballTeams"
	PlayersKey = "pickleballPlayers"
	IDsKey     = "pickleballIds"
)

var (
	ErrEmptyName         = errors.New("player names cannot be empty")
	ErrMalformedQuickAdd = errors.New("no valid entries found")
	ErrNotFound          = errors.New("no such entry")
)

type nextIDs struct {
	Team   roundrobin.UnitID   `json:"team"`
	Player roundrobin.PlayerID `json:"player"`
}

type Roster struct {
	Teams   []roundrobin.Team   `json:"teams"`
	Players []roundrobin.Player `json:"players"`

	nextTeam   roundrobin.UnitID
	nextPlayer roundrobin.PlayerID
}

func New() *Roster {
	return &Roster{nextTeam: 1, nextPlayer: 1}
}

func cleanName(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyName
	}
	return s, nil
}

// playerID hands out ids for team members. Team members and individual
// players share one id space so a player never collides with a team member.
func (r *Roster) playerID() roundrobin.PlayerID {
	id := r.nextPlayer
	r.nextPlayer++
	return id
}

func (r *Roster) AddTeam(p1, p2 string) (roundrobin.Team, error) {
	n1, err := cleanName(p1)
	if err != nil {
		return roundrobin.Team{}, err
	}
	n2, err := cleanName(p2)
	if err != nil {
		return roundrobin.Team{}, err
	}

	team := roundrobin.Team{
		TeamID: r.nextTeam,
		Players: [2]roundrobin.Player{
			{ID: r.playerID(), Name: n1},
			{ID: r.playerID(), Name: n2},
		},
	}
	r.nextTeam++
	r.Teams = append(r.Teams, team)

	return team, nil
}

func (r *Roster) RemoveTeam(id roundrobin.UnitID) error {
	idx := slices.IndexFunc(r.Teams, func(t roundrobin.Team) bool {
		return t.TeamID == id
	})
	if idx < 0 {
		return fmt.Errorf("%w: team #%v", ErrNotFound, id)
	}
	r.Teams = slices.Delete(r.Teams, idx, idx+1)
	return nil
}

func (r *Roster) AddPlayer(name string,
	role roundrobin.Role) (roundrobin.Player, error) {

	n, err := cleanName(name)
	if err != nil {
		return roundrobin.Player{}, err
	}
	p := roundrobin.Player{ID: r.playerID(), Name: n, Role: role}
	r.Players = append(r.Players, p)

	return p, nil
}

func (r *Roster) RemovePlayer(id roundrobin.PlayerID) error {
	idx := slices.IndexFunc(r.Players, func(p roundrobin.Player) bool {
		return p.ID == id
	})
	if idx < 0 {
		return fmt.Errorf("%w: player #%v", ErrNotFound, id)
	}
	r.Players = slices.Delete(r.Players, idx, idx+1)
	return nil
}

// QuickAddTeams adds one team per line of text, each line holding two
// comma separated names. Lines that do not hold exactly two non-empty
// names are skipped. The added teams are returned.
func (r *Roster) QuickAddTeams(text string) ([]roundrobin.Team, error) {
	var added []roundrobin.Team

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		parts := strings.Split(scanner.Text(), ",")
		if len(parts) != 2 {
			continue
		}
		team, err := r.AddTeam(parts[0], parts[1])
		if err != nil {
			continue
		}
		added = append(added, team)
	}
	if err := scanner.Err(); err != nil {
		return added, fmt.Errorf("roster.quickadd: %w", err)
	}
	if len(added) == 0 {
		return nil, ErrMalformedQuickAdd
	}

	return added, nil
}

// QuickAddPlayers adds one player per line of text, either "Name" or
// "Name, M|F". Lines with an empty name or unknown role are skipped.
func (r *Roster) QuickAddPlayers(text string) ([]roundrobin.Player, error) {
	var added []roundrobin.Player

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		parts := strings.Split(scanner.Text(), ",")
		role := roundrobin.RoleNone
		switch len(parts) {
		case 1:
		case 2:
			var err error
			role, err = roundrobin.ParseRole(parts[1])
			if err != nil {
				continue
			}
		default:
			continue
		}
		p, err := r.AddPlayer(parts[0], role)
		if err != nil {
			continue
		}
		added = append(added, p)
	}
	if err := scanner.Err(); err != nil {
		return added, fmt.Errorf("roster.quickadd: %w", err)
	}
	if len(added) == 0 {
		return nil, ErrMalformedQuickAdd
	}

	return added, nil
}

// Reset drops every team and player. Ids keep counting up.
func (r *Roster) Reset() {
	r.Teams = nil
	r.Players = nil
}

// Entrants returns a copy of the current lists for schedule generation.
func (r *Roster) Entrants() roundrobin.Entrants {
	return roundrobin.Entrants{
		Teams:   slices.Clone(r.Teams),
		Players: slices.Clone(r.Players),
	}
}

func (r *Roster) Team(id roundrobin.UnitID) (roundrobin.Team, bool) {
	for _, t := range r.Teams {
		if t.TeamID == id {
			return t, true
		}
	}
	return roundrobin.Team{}, false
}

// Save writes the teams and players as JSON under prefix+TeamsKey and
// prefix+PlayersKey, plus the id counters under prefix+IDsKey.
func (r *Roster) Save(ctx context.Context, store httpcache.Cache,
	prefix string) error {

	teams, err := json.Marshal(r.Teams)
	if err != nil {
		return fmt.Errorf("roster.save: failed to marshal teams: %w", err)
	}
	players, err := json.Marshal(r.Players)
	if err != nil {
		return fmt.Errorf("roster.save: failed to marshal players: %w", err)
	}
	ids, err := json.Marshal(nextIDs{Team: r.nextTeam, Player: r.nextPlayer})
	if err != nil {
		return fmt.Errorf("roster.save: failed to marshal ids: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	store.Set(prefix+TeamsKey, teams)
	store.Set(prefix+PlayersKey, players)
	store.Set(prefix+IDsKey, ids)

	return nil
}

// Restore loads a roster saved with Save. Restoring is best effort: a
// missing or malformed list is logged and comes back empty.
func Restore(ctx context.Context, store httpcache.Cache, prefix string) *Roster {
	r := New()

	var ids nextIDs
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if data, ok := store.Get(prefix + IDsKey); ok {
			if err := json.Unmarshal(data, &ids); err != nil {
				log.Printf("roster.restore: ignoring malformed %v: %v",
					prefix+IDsKey, err)
			}
		}
		return ctx.Err()
	})
	g.Go(func() error {
		r.Teams = load[roundrobin.Team](store, prefix+TeamsKey)
		return ctx.Err()
	})
	g.Go(func() error {
		r.Players = load[roundrobin.Player](store, prefix+PlayersKey)
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		log.Printf("roster.restore: %v", err)
	}

	r.nextTeam = max(r.nextTeam, ids.Team)
	r.nextPlayer = max(r.nextPlayer, ids.Player)
	for _, t := range r.Teams {
		r.nextTeam = max(r.nextTeam, t.TeamID+1)
		for _, p := range t.Players {
			r.nextPlayer = max(r.nextPlayer, p.ID+1)
		}
	}
	for _, p := range r.Players {
		r.nextPlayer = max(r.nextPlayer, p.ID+1)
	}

	return r
}

func load[T any](store httpcache.Cache, key string) []T {
	data, ok := store.Get(key)
	if !ok || len(data) == 0 {
		return nil
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		log.Printf("roster.restore: ignoring malformed %v: %v", key, err)
		return nil
	}
	return out
}
