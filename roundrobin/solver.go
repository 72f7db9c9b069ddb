/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roundrobin

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"time"
)

// Budget bounds the backtracking search. Zero fields mean unlimited.
type Budget struct {
	MaxNodes int           `json:"maxNodes,omitempty"`
	Timeout  time.Duration `json:"timeout,omitempty"`
}

var DefaultBudget = Budget{
	MaxNodes: 5_000_000,
	Timeout:  10 * time.Second,
}

type SolveInput struct {
	Units  []Unit
	Locks  []LockedRound
	Budget Budget
}

type placement struct {
	matchup int
	locked  bool
}

type solverRound struct {
	placed []placement
	// use counts matches (and a pinned bye) per unit index; a unit is
	// free while its count is zero.
	use   []int
	bye   int
	dirty bool
}

type solver struct {
	ctx      context.Context
	units    []Unit
	matchups []Matchup
	ends     [][2]int
	rounds   []*solverRound
	capacity int
	budget   Budget
	deadline time.Time
	nodes    int
}

// Solve places every matchup of a fixed-partner field into a round so that
// no unit plays twice in a round, every round holds exactly floor(N/2)
// matches and every lock is kept where it was put. Byes and courts are
// left for AssignByes and BalanceCourts.
//
// The circle method is tried first, with units seated so the locks land
// in their rounds; without locks it always succeeds. Otherwise a greedy
// most-constrained-first pass runs, and when that gets stuck the non-locked
// placements are discarded and an exhaustive backtracking search runs
// within in.Budget. ErrNoSchedule means the search finished without a
// solution, ErrSearchBudgetExceeded means it stopped early.
func Solve(ctx context.Context, in SolveInput) (*Schedule, error) {
	if err := ValidateLocks(in.Units, in.Locks); err != nil {
		return nil, err
	}

	s := newSolver(ctx, in)
	if err := s.seed(in.Locks); err != nil {
		return nil, err
	}

	if s.circle(in.Locks) {
		return s.schedule(), nil
	}

	remaining := s.unplaced()
	if !s.greedy(append([]int(nil), remaining...)) {
		log.Printf("roundrobin.solve: greedy pass stuck for %v teams; backtracking",
			len(in.Units))
		s.reset()
		remaining = s.unplaced()
		sort.SliceStable(remaining, func(i, j int) bool {
			return s.options(remaining[i]) < s.options(remaining[j])
		})
		ok, err := s.search(remaining)
		if err != nil {
			log.Printf("roundrobin.solve: gave up after %v nodes: %v", s.nodes, err)
			return nil, err
		}
		if !ok {
			return nil, ErrNoSchedule
		}
	}

	return s.schedule(), nil
}

func newSolver(ctx context.Context, in SolveInput) *solver {
	n := len(in.Units)
	s := &solver{
		ctx:      ctx,
		units:    in.Units,
		matchups: GenerateMatchups(in.Units),
		capacity: MatchesPerRound(n),
		budget:   in.Budget,
	}
	if in.Budget.Timeout > 0 {
		s.deadline = time.Now().Add(in.Budget.Timeout)
	}

	index := make(map[UnitID]int, n)
	for i, u := range in.Units {
		index[u.ID()] = i
	}
	s.ends = make([][2]int, len(s.matchups))
	for i, m := range s.matchups {
		s.ends[i] = [2]int{index[m.A], index[m.B]}
	}
	s.rounds = make([]*solverRound, RoundCount(n))
	for i := range s.rounds {
		s.rounds[i] = &solverRound{use: make([]int, n), bye: -1}
	}

	return s
}

func (s *solver) unitIndex(id UnitID) int {
	for i, u := range s.units {
		if u.ID() == id {
			return i
		}
	}
	return -1
}

func (s *solver) matchupIndex(key MatchupKey) int {
	for i, m := range s.matchups {
		if m.Key == key {
			return i
		}
	}
	return -1
}

// seed places locked matchups and marks pinned bye units as busy.
func (s *solver) seed(locks []LockedRound) error {
	for _, lr := range locks {
		r := s.rounds[lr.Number-1]
		r.dirty = true
		for _, k := range lr.Matchups {
			m := s.matchupIndex(NewMatchupKey(k.Lo, k.Hi))
			if m < 0 {
				return fmt.Errorf("%w: %v", ErrUnknownUnit, k)
			}
			s.place(m, lr.Number-1, true)
		}
		if lr.Bye != 0 {
			u := s.unitIndex(lr.Bye)
			r.bye = u
			r.use[u]++
		}
	}
	return nil
}

func (s *solver) fits(m, r int) bool {
	round := s.rounds[r]
	if len(round.placed) >= s.capacity {
		return false
	}
	a, b := s.ends[m][0], s.ends[m][1]
	return round.use[a] == 0 && round.use[b] == 0
}

func (s *solver) compatible(m, r int) bool {
	round := s.rounds[r]
	a, b := s.ends[m][0], s.ends[m][1]
	return round.use[a] == 0 && round.use[b] == 0
}

func (s *solver) place(m, r int, locked bool) {
	round := s.rounds[r]
	round.placed = append(round.placed, placement{matchup: m, locked: locked})
	round.use[s.ends[m][0]]++
	round.use[s.ends[m][1]]++
}

// remove undoes place. Decrementing the use count leaves marks that other
// matches or a pinned bye still hold.
func (s *solver) remove(m, r int) {
	round := s.rounds[r]
	for i := len(round.placed) - 1; i >= 0; i-- {
		if round.placed[i].matchup == m && !round.placed[i].locked {
			round.placed = append(round.placed[:i], round.placed[i+1:]...)
			round.use[s.ends[m][0]]--
			round.use[s.ends[m][1]]--
			return
		}
	}
}

// reset discards every non-locked placement.
func (s *solver) reset() {
	for r, round := range s.rounds {
		var drop []int
		for _, p := range round.placed {
			if !p.locked {
				drop = append(drop, p.matchup)
			}
		}
		for _, m := range drop {
			s.remove(m, r)
		}
	}
}

func (s *solver) unplaced() []int {
	done := make([]bool, len(s.matchups))
	for _, round := range s.rounds {
		for _, p := range round.placed {
			done[p.matchup] = true
		}
	}
	var out []int
	for m := range s.matchups {
		if !done[m] {
			out = append(out, m)
		}
	}
	return out
}

// options counts the rounds matchup m could still legally occupy.
func (s *solver) options(m int) int {
	count := 0
	for r := range s.rounds {
		if s.fits(m, r) {
			count++
		}
	}
	return count
}

func (s *solver) full() bool {
	for _, round := range s.rounds {
		if len(round.placed) != s.capacity {
			return false
		}
	}
	return true
}

// greedy repeatedly fills the most constrained round with its most
// constrained compatible matchup. It reports whether every matchup was
// placed and every round filled.
func (s *solver) greedy(remaining []int) bool {
	type roundOrder struct {
		index, need, options int
	}

	for len(remaining) > 0 {
		var order []roundOrder
		for r, round := range s.rounds {
			need := s.capacity - len(round.placed)
			if need <= 0 {
				continue
			}
			opts := 0
			for _, m := range remaining {
				if s.compatible(m, r) {
					opts++
				}
			}
			order = append(order, roundOrder{index: r, need: need, options: opts})
		}
		sort.SliceStable(order, func(i, j int) bool {
			if order[i].options != order[j].options {
				return order[i].options < order[j].options
			}
			return order[i].need > order[j].need
		})

		placed := false
		for _, ro := range order {
			best, bestOptions := -1, math.MaxInt
			for i, m := range remaining {
				if !s.compatible(m, ro.index) {
					continue
				}
				if opts := s.options(m); opts < bestOptions {
					best, bestOptions = i, opts
				}
			}
			if best >= 0 {
				s.place(remaining[best], ro.index, false)
				remaining = append(remaining[:best], remaining[best+1:]...)
				placed = true
				break
			}
		}
		if !placed {
			break
		}
	}

	return len(remaining) == 0 && s.full()
}

func (s *solver) tick() error {
	s.nodes++
	if s.budget.MaxNodes > 0 && s.nodes > s.budget.MaxNodes {
		return fmt.Errorf("%w: more than %v nodes", ErrSearchBudgetExceeded,
			s.budget.MaxNodes)
	}
	if s.nodes%256 == 1 {
		if err := s.ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrSearchBudgetExceeded, err)
		}
		if !s.deadline.IsZero() && time.Now().After(s.deadline) {
			return fmt.Errorf("%w: exceeded %v", ErrSearchBudgetExceeded,
				s.budget.Timeout)
		}
	}
	return nil
}

// search is the exhaustive fallback. At each step it branches on the
// unplaced matchup with the fewest legal rounds (earliest in unplaced order
// on ties) and prunes as soon as a matchup or a round can no longer be
// completed.
func (s *solver) search(unplaced []int) (bool, error) {
	if err := s.tick(); err != nil {
		return false, err
	}
	if len(unplaced) == 0 {
		return s.full(), nil
	}

	best, bestOptions := -1, math.MaxInt
	for i, m := range unplaced {
		opts := s.options(m)
		if opts == 0 {
			return false, nil
		}
		if opts < bestOptions {
			best, bestOptions = i, opts
		}
	}
	if !s.roundsCompletable(unplaced) {
		return false, nil
	}

	m := unplaced[best]
	rest := make([]int, 0, len(unplaced)-1)
	rest = append(rest, unplaced[:best]...)
	rest = append(rest, unplaced[best+1:]...)

	triedEmpty := false
	for r, round := range s.rounds {
		if !s.fits(m, r) {
			continue
		}
		// untouched empty rounds are interchangeable
		if len(round.placed) == 0 && !round.dirty {
			if triedEmpty {
				continue
			}
			triedEmpty = true
		}
		s.place(m, r, false)
		ok, err := s.search(rest)
		if err != nil || ok {
			return ok, err
		}
		s.remove(m, r)
	}

	return false, nil
}

// roundsCompletable reports whether each round that still needs matches
// has at least that many compatible unplaced matchups.
func (s *solver) roundsCompletable(unplaced []int) bool {
	for r, round := range s.rounds {
		need := s.capacity - len(round.placed)
		if need <= 0 {
			continue
		}
		avail := 0
		for _, m := range unplaced {
			if s.compatible(m, r) {
				avail++
				if avail >= need {
					break
				}
			}
		}
		if avail < need {
			return false
		}
	}
	return true
}

func (s *solver) schedule() *Schedule {
	sched := &Schedule{
		Mode:   ModeFixed,
		Units:  s.units,
		Rounds: make([]*Round, len(s.rounds)),
	}
	for r, round := range s.rounds {
		out := &Round{Number: r + 1}
		for _, p := range round.placed {
			m := &Match{Matchup: s.matchups[p.matchup]}
			if p.locked {
				m.Pinned = r + 1
			}
			out.Matches = append(out.Matches, m)
		}
		if round.bye >= 0 {
			out.Bye = s.units[round.bye].ID()
			out.ByePinned = true
			out.PinnedBye = out.Bye
		}
		sched.Rounds[r] = out
	}
	for _, u := range s.units {
		sched.Players = append(sched.Players, u.Members()...)
	}

	return sched
}
