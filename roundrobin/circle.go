/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roundrobin

import (
	"log"
	"sort"
)

// circleSearchNodes bounds the seat search. Past it the solver moves on to
// its general search.
const circleSearchNodes = 200_000

// lockedPair is one locked meeting of two seats' occupants in a target
// round. b is the phantom index on a pinned bye.
type lockedPair struct {
	round int
	a, b  int
}

// circleFit seats units around the circle method so that every locked
// matchup of a target round falls into a single circle round and no two
// target rounds share one. Units without locks take the leftover seats.
type circleFit struct {
	solver  *solver
	n       int
	phantom int
	// pairRound[x][y] is the circle round in which seats x and y meet.
	pairRound [][]int
	seatOf    []int
	taken     []bool
	pairs     []lockedPair
	order     []int
	owner     []int
	nodes     int
}

func newCircleFit(s *solver, locks []LockedRound) (*circleFit, bool) {
	n := len(s.units)
	total := n + n%2
	f := &circleFit{
		solver:  s,
		n:       n,
		phantom: -1,
		seatOf:  make([]int, total),
		taken:   make([]bool, total),
	}
	if n%2 == 1 {
		f.phantom = n
	}

	f.pairRound = make([][]int, total)
	for i := range f.pairRound {
		f.pairRound[i] = make([]int, total)
	}
	rounds := circleRounds(n)
	for r, seats := range rounds {
		for _, p := range seats {
			f.pairRound[p[0]][p[1]] = r
			f.pairRound[p[1]][p[0]] = r
		}
	}
	f.owner = make([]int, len(rounds))

	for i := range f.seatOf {
		f.seatOf[i] = -1
	}
	if f.phantom >= 0 {
		f.seatOf[f.phantom] = f.phantom
		f.taken[f.phantom] = true
	}

	degree := make([]int, n)
	for _, lr := range locks {
		for _, k := range lr.Matchups {
			k = NewMatchupKey(k.Lo, k.Hi)
			a, b := s.unitIndex(k.Lo), s.unitIndex(k.Hi)
			if a < 0 || b < 0 {
				return nil, false
			}
			f.pairs = append(f.pairs, lockedPair{round: lr.Number - 1, a: a, b: b})
			degree[a]++
			degree[b]++
		}
		if lr.Bye != 0 {
			u := s.unitIndex(lr.Bye)
			if u < 0 || f.phantom < 0 {
				return nil, false
			}
			f.pairs = append(f.pairs, lockedPair{round: lr.Number - 1, a: u,
				b: f.phantom})
			degree[u]++
		}
	}
	for u := 0; u < n; u++ {
		if degree[u] > 0 {
			f.order = append(f.order, u)
		}
	}
	sort.SliceStable(f.order, func(i, j int) bool {
		return degree[f.order[i]] > degree[f.order[j]]
	})

	return f, true
}

// consistent reports whether the seated pairs still map each target round
// onto its own circle round. It leaves that mapping in f.owner.
func (f *circleFit) consistent() bool {
	for i := range f.owner {
		f.owner[i] = -1
	}
	target := make(map[int]int)
	for _, p := range f.pairs {
		sa, sb := f.seatOf[p.a], f.seatOf[p.b]
		if sa < 0 || sb < 0 {
			continue
		}
		c := f.pairRound[sa][sb]
		if prev, ok := target[p.round]; ok && prev != c {
			return false
		}
		if f.owner[c] >= 0 && f.owner[c] != p.round {
			return false
		}
		target[p.round] = c
		f.owner[c] = p.round
	}
	return true
}

func (f *circleFit) assign(i int) bool {
	f.nodes++
	if f.nodes > circleSearchNodes {
		return false
	}
	if f.nodes%256 == 0 && f.solver.ctx.Err() != nil {
		return false
	}
	if i == len(f.order) {
		return f.consistent()
	}

	u := f.order[i]
	for seat := 0; seat < f.n; seat++ {
		if f.taken[seat] {
			continue
		}
		f.seatOf[u] = seat
		f.taken[seat] = true
		if f.consistent() && f.assign(i+1) {
			return true
		}
		f.seatOf[u] = -1
		f.taken[seat] = false
	}
	return false
}

// circle tries to fill every round from a circle-method schedule whose
// seats are chosen to respect the locks already seeded. It reports false,
// leaving only the locked placements, when no seating was found.
func (s *solver) circle(locks []LockedRound) bool {
	f, ok := newCircleFit(s, locks)
	if !ok || !f.assign(0) {
		if f != nil && f.nodes > circleSearchNodes {
			log.Printf("roundrobin.circle: no seating within %v nodes",
				circleSearchNodes)
		}
		return false
	}
	f.consistent()

	next := 0
	for u := 0; u < f.n; u++ {
		if f.seatOf[u] >= 0 {
			continue
		}
		for f.taken[next] {
			next++
		}
		f.seatOf[u] = next
		f.taken[next] = true
	}
	unitAt := make([]int, len(f.seatOf))
	for u, seat := range f.seatOf {
		unitAt[seat] = u
	}

	// circle rounds without a lock fill the free target rounds in order
	claimed := make([]bool, len(s.rounds))
	for _, t := range f.owner {
		if t >= 0 {
			claimed[t] = true
		}
	}
	free := 0
	targetOf := make([]int, len(f.owner))
	for c, t := range f.owner {
		if t < 0 {
			for claimed[free] {
				free++
			}
			t = free
			claimed[free] = true
		}
		targetOf[c] = t
	}

	index := make(map[[2]int]int, len(s.ends))
	for m, e := range s.ends {
		index[e] = m
		index[[2]int{e[1], e[0]}] = m
	}
	locked := make(map[int]bool)
	for _, round := range s.rounds {
		for _, p := range round.placed {
			locked[p.matchup] = true
		}
	}

	for c, seats := range circleRounds(f.n) {
		for _, p := range seats {
			a, b := unitAt[p[0]], unitAt[p[1]]
			if a == f.phantom || b == f.phantom {
				continue
			}
			m := index[[2]int{a, b}]
			if locked[m] {
				continue
			}
			if !s.fits(m, targetOf[c]) {
				s.reset()
				return false
			}
			s.place(m, targetOf[c], false)
		}
	}

	if !s.full() || len(s.unplaced()) != 0 {
		s.reset()
		return false
	}
	return true
}
