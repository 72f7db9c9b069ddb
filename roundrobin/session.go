/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roundrobin

import (
	"context"
	"fmt"
	"time"
)

const DefaultCourts = 2

type Config struct {
	Courts  int    `json:"courts"`
	Mode    Mode   `json:"mode"`
	Scoring bool   `json:"scoring"`
	Budget  Budget `json:"budget"`
	// StartTime and RoundDuration drive RoundStart; both are optional.
	StartTime     time.Time     `json:"startTime,omitempty"`
	RoundDuration time.Duration `json:"roundDuration,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Courts:  DefaultCourts,
		Mode:    ModeFixed,
		Scoring: true,
		Budget:  DefaultBudget,
	}
}

func (c Config) validate() (Config, error) {
	if c.Courts == 0 {
		c.Courts = DefaultCourts
	}
	if c.Courts < 0 {
		return c, fmt.Errorf("%w: %v", ErrInvalidCourts, c.Courts)
	}
	if c.Mode == "" {
		c.Mode = ModeFixed
	}
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return c, err
	}
	return c, nil
}

// Build runs the whole pipeline for one set of entrants: round assignment
// (solver for fixed partners, rotation for the other modes), byes and court
// balancing.
func Build(ctx context.Context, cfg Config, e Entrants,
	locks []LockedRound) (*Schedule, error) {

	cfg, err := cfg.validate()
	if err != nil {
		return nil, err
	}

	var sched *Schedule
	switch cfg.Mode {
	case ModeFixed:
		units := e.units()
		if len(units) < 2 {
			return nil, ErrTooFewUnits
		}
		sched, err = Solve(ctx, SolveInput{Units: units, Locks: locks,
			Budget: cfg.Budget})
		if err != nil {
			return nil, err
		}
		AssignByes(sched, pinnedByes(locks))
	case ModeRotating, ModeMixed:
		if len(locks) > 0 {
			return nil, fmt.Errorf("locked matchups: %w", ErrModeUnsupported)
		}
		if cfg.Mode == ModeRotating {
			sched, err = GenerateRotating(e.Players)
		} else {
			sched, err = GenerateMixed(e.Players)
		}
		if err != nil {
			return nil, err
		}
	}

	BalanceCourts(sched, cfg.Courts)
	if err := sched.Check(); err != nil {
		return nil, fmt.Errorf("roundrobin.build: generated schedule is invalid: %w", err)
	}

	return sched, nil
}

// Session owns the mutable state of one tournament: the entrants the current
// schedule was built from, the schedule itself with its pins and scores,
// and the configuration. It is not safe for concurrent use.
type Session struct {
	cfg      Config
	entrants Entrants
	sched    *Schedule
}

func NewSession(cfg Config) (*Session, error) {
	cfg, err := cfg.validate()
	if err != nil {
		return nil, err
	}
	return &Session{cfg: cfg}, nil
}

func (s *Session) Config() Config { return s.cfg }

// Configure replaces the configuration used by later generations.
func (s *Session) Configure(cfg Config) error {
	cfg, err := cfg.validate()
	if err != nil {
		return err
	}
	s.cfg = cfg
	return nil
}

// Schedule returns the current schedule or nil before the first Generate.
func (s *Session) Schedule() *Schedule { return s.sched }

// Generate builds a fresh schedule. On error the previous schedule stays.
func (s *Session) Generate(ctx context.Context, e Entrants,
	locks []LockedRound) (*Schedule, error) {

	sched, err := Build(ctx, s.cfg, e, locks)
	if err != nil {
		return nil, err
	}
	s.entrants = e
	s.sched = sched
	return sched, nil
}

func (s *Session) PinMatch(key MatchupKey, round int) error {
	if s.sched == nil {
		return ErrNotGenerated
	}
	return s.sched.PinMatch(key, round)
}

func (s *Session) PinBye(round int, unit UnitID) error {
	if s.sched == nil {
		return ErrNotGenerated
	}
	return s.sched.PinBye(round, unit)
}

// Regenerate re-solves from scratch with every current pin as a lock.
// Unpinned matches may move. Recorded scores follow their matchup. On error
// the current schedule, pins included, is kept.
func (s *Session) Regenerate(ctx context.Context) (*Schedule, error) {
	if s.sched == nil {
		return nil, ErrNotGenerated
	}
	next, err := Build(ctx, s.cfg, s.entrants, s.sched.Locks())
	if err != nil {
		return nil, err
	}
	for _, r := range s.sched.Rounds {
		for _, m := range r.Matches {
			if m.Score == nil {
				continue
			}
			if _, nm := next.Find(m.Key); nm != nil {
				sc := *m.Score
				if nm.A != m.A {
					sc.A, sc.B = sc.B, sc.A
				}
				nm.Score = &sc
			}
		}
	}
	s.sched = next
	return next, nil
}

// RecordScore stores the points of key.Lo and key.Hi for that match.
func (s *Session) RecordScore(key MatchupKey, lo, hi int) error {
	if !s.cfg.Scoring {
		return ErrScoringDisabled
	}
	if s.sched == nil {
		return ErrNotGenerated
	}
	if lo < 0 || hi < 0 {
		return ErrInvalidScore
	}
	_, m := s.sched.Find(key)
	if m == nil {
		return fmt.Errorf("%w: %v", ErrMatchNotFound, key)
	}
	if m.A == key.Lo {
		m.Score = &Score{A: lo, B: hi}
	} else {
		m.Score = &Score{A: hi, B: lo}
	}
	return nil
}

func (s *Session) ClearScore(key MatchupKey) error {
	if s.sched == nil {
		return ErrNotGenerated
	}
	_, m := s.sched.Find(key)
	if m == nil {
		return fmt.Errorf("%w: %v", ErrMatchNotFound, key)
	}
	m.Score = nil
	return nil
}

func (s *Session) Standings() []Standing {
	if s.sched == nil {
		return nil
	}
	return ComputeStandings(s.sched)
}

// RoundStart is the planned start of round n, or the zero time when no
// start time is configured.
func (s *Session) RoundStart(n int) time.Time {
	if s.cfg.StartTime.IsZero() || n < 1 {
		return time.Time{}
	}
	return s.cfg.StartTime.Add(time.Duration(n-1) * s.cfg.RoundDuration)
}

type Summary struct {
	Rounds  int `json:"rounds"`
	Matches int `json:"matches"`
	Courts  int `json:"courts"`
}

func (s *Session) Summary() Summary {
	if s.sched == nil {
		return Summary{Courts: s.cfg.Courts}
	}
	return Summary{
		Rounds:  len(s.sched.Rounds),
		Matches: s.sched.TotalMatches(),
		Courts:  s.sched.Courts,
	}
}

// Snapshot returns a deep copy of the current schedule for readers that
// outlive the caller's lock.
func (s *Session) Snapshot() *Schedule {
	if s.sched == nil {
		return nil
	}
	return s.sched.clone()
}
