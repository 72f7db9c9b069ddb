/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/rpmurphy2/pickleball-round-robin/internal"
	"github.com/rpmurphy2/pickleball-round-robin/roundrobin"
)

type configRequest struct {
	Courts       *int    `json:"courts"`
	Mode         *string `json:"mode"`
	Scoring      *bool   `json:"scoring"`
	StartTime    *string `json:"startTime"`
	RoundMinutes *int    `json:"roundMinutes"`
}

// apply overlays the fields present in the request onto cfg.
func (req *configRequest) apply(cfg roundrobin.Config) (roundrobin.Config, error) {
	if req == nil {
		return cfg, nil
	}
	if req.Courts != nil {
		if *req.Courts < 1 {
			return cfg, fmt.Errorf("%w: %v", roundrobin.ErrInvalidCourts, *req.Courts)
		}
		cfg.Courts = *req.Courts
	}
	if req.Mode != nil {
		mode, err := roundrobin.ParseMode(*req.Mode)
		if err != nil {
			return cfg, err
		}
		cfg.Mode = mode
	}
	if req.Scoring != nil {
		cfg.Scoring = *req.Scoring
	}
	if req.StartTime != nil {
		start, err := internal.ParseDateOrZero(strings.TrimSpace(*req.StartTime))
		if err != nil {
			return cfg, fmt.Errorf("bad startTime: %w", err)
		}
		cfg.StartTime = start
	}
	if req.RoundMinutes != nil {
		if *req.RoundMinutes < 0 {
			return cfg, fmt.Errorf("roundMinutes cannot be negative")
		}
		cfg.RoundDuration = time.Duration(*req.RoundMinutes) * time.Minute
	}
	return cfg, nil
}

type lockRequest struct {
	Round    int      `json:"round"`
	Matchups []string `json:"matchups"`
	Bye      int      `json:"bye"`
}

func parseLocks(reqs []lockRequest) ([]roundrobin.LockedRound, error) {
	locks := make([]roundrobin.LockedRound, 0, len(reqs))
	for _, lr := range reqs {
		lock := roundrobin.LockedRound{Number: lr.Round,
			Bye: roundrobin.UnitID(lr.Bye)}
		for _, m := range lr.Matchups {
			key, err := roundrobin.ParseMatchupKey(m)
			if err != nil {
				return nil, err
			}
			lock.Matchups = append(lock.Matchups, key)
		}
		locks = append(locks, lock)
	}
	return locks, nil
}

type matchView struct {
	Key    roundrobin.MatchupKey `json:"key"`
	A      roundrobin.UnitID     `json:"a"`
	B      roundrobin.UnitID     `json:"b"`
	Name   string                `json:"name"`
	Court  int                   `json:"court"`
	Pinned int                   `json:"pinned,omitempty"`
	Score  *roundrobin.Score     `json:"score,omitempty"`
}

type roundView struct {
	Number    int               `json:"number"`
	Start     *time.Time        `json:"start,omitempty"`
	Matches   []matchView       `json:"matches"`
	Bye       roundrobin.UnitID `json:"bye,omitempty"`
	ByeName   string            `json:"byeName,omitempty"`
	ByePinned bool              `json:"byePinned,omitempty"`
	PinnedBye roundrobin.UnitID `json:"pinnedBye,omitempty"`
	Resting   []string          `json:"resting,omitempty"`
}

type sessionView struct {
	ID        string                `json:"id"`
	Title     string                `json:"title"`
	Config    roundrobin.Config     `json:"config"`
	Summary   roundrobin.Summary    `json:"summary"`
	Teams     []roundrobin.Team     `json:"teams"`
	Players   []roundrobin.Player   `json:"players"`
	Rounds    []roundView           `json:"rounds"`
	Standings []roundrobin.Standing `json:"standings"`
}

func scheduleView(sess *roundrobin.Session) []roundView {
	s := sess.Schedule()
	if s == nil {
		return []roundView{}
	}

	rounds := make([]roundView, 0, len(s.Rounds))
	for _, r := range s.Rounds {
		rv := roundView{Number: r.Number, Matches: []matchView{}}
		if start := sess.RoundStart(r.Number); !start.IsZero() {
			rv.Start = &start
		}
		for _, m := range r.Matches {
			rv.Matches = append(rv.Matches, matchView{
				Key:    m.Key,
				A:      m.A,
				B:      m.B,
				Name:   s.MatchName(m.Key),
				Court:  m.Court,
				Pinned: m.Pinned,
				Score:  m.Score,
			})
		}
		if r.Bye != 0 {
			rv.Bye = r.Bye
			rv.ByeName = s.UnitName(r.Bye)
			rv.ByePinned = r.ByePinned
		}
		rv.PinnedBye = r.PinnedBye
		for _, p := range r.Resting {
			rv.Resting = append(rv.Resting, p.Name)
		}
		rounds = append(rounds, rv)
	}
	return rounds
}

// view snapshots an entry for the api. Callers hold e.mu.
func (e *entry) view() sessionView {
	standings := e.session.Standings()
	if standings == nil {
		standings = []roundrobin.Standing{}
	}
	entrants := e.roster.Entrants()
	if entrants.Teams == nil {
		entrants.Teams = []roundrobin.Team{}
	}
	if entrants.Players == nil {
		entrants.Players = []roundrobin.Player{}
	}

	return sessionView{
		ID:        e.id,
		Title:     e.title,
		Config:    e.session.Config(),
		Summary:   e.session.Summary(),
		Teams:     entrants.Teams,
		Players:   entrants.Players,
		Rounds:    scheduleView(e.session),
		Standings: standings,
	}
}
