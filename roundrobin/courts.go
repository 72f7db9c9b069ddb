/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roundrobin

import (
	"math"
	"sort"
)

// courtUsage counts court appearances per participant: the unit in fixed
// mode, each member player otherwise.
type courtUsage map[int][]int

func (cu courtUsage) counts(p int, courts int) []int {
	c, ok := cu[p]
	if !ok {
		c = make([]int, courts)
		cu[p] = c
	}
	return c
}

// imbalance is the spread between a participant's most and least used
// courts.
func (cu courtUsage) imbalance(p int, courts int) int {
	c := cu.counts(p, courts)
	lo, hi := c[0], c[0]
	for _, v := range c[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return hi - lo
}

// BalanceCourts assigns court numbers 1..courts so every participant's court
// appearances stay as even as possible over the tournament. Rounds are
// handled in order; inside a round the most lopsided matches choose first.
// When a round has more matches than courts, courts are reused for a second
// wave. The result depends only on the schedule's rounds and matchups, so
// running it twice yields the same assignment.
func BalanceCourts(s *Schedule, courts int) {
	if courts < 1 {
		courts = 1
	}
	s.Courts = courts
	usage := make(courtUsage)

	participants := func(id UnitID) []int {
		u := s.Unit(id)
		if u == nil || u.Kind() == KindFixedTeam {
			return []int{int(id)}
		}
		var out []int
		for _, p := range u.Members() {
			out = append(out, int(p.ID))
		}
		return out
	}
	imbalance := func(m *Match) int {
		total := 0
		for _, id := range []UnitID{m.A, m.B} {
			for _, p := range participants(id) {
				total += usage.imbalance(p, courts)
			}
		}
		return total
	}
	cost := func(m *Match, court int) int {
		total := 0
		for _, id := range []UnitID{m.A, m.B} {
			for _, p := range participants(id) {
				total += usage.counts(p, courts)[court]
			}
		}
		return total
	}

	for _, r := range s.Rounds {
		type ranked struct {
			m         *Match
			imbalance int
		}
		order := make([]ranked, len(r.Matches))
		for i, m := range r.Matches {
			order[i] = ranked{m: m, imbalance: imbalance(m)}
		}
		sort.Slice(order, func(i, j int) bool {
			if order[i].imbalance != order[j].imbalance {
				return order[i].imbalance > order[j].imbalance
			}
			return order[i].m.Key.less(order[j].m.Key)
		})

		used := make([]bool, courts)
		free := courts
		for _, o := range order {
			if free == 0 {
				used = make([]bool, courts)
				free = courts
			}
			best, bestCost := -1, math.MaxInt
			for c := 0; c < courts; c++ {
				if used[c] {
					continue
				}
				if v := cost(o.m, c); v < bestCost {
					best, bestCost = c, v
				}
			}
			if best < 0 {
				// free > 0 leaves at least one unused court
				panic("roundrobin.BalanceCourts: no free court")
			}
			used[best] = true
			free--
			o.m.Court = best + 1
			for _, id := range []UnitID{o.m.A, o.m.B} {
				for _, p := range participants(id) {
					usage.counts(p, courts)[best]++
				}
			}
		}

		sort.SliceStable(r.Matches, func(i, j int) bool {
			if r.Matches[i].Court != r.Matches[j].Court {
				return r.Matches[i].Court < r.Matches[j].Court
			}
			return r.Matches[i].Key.less(r.Matches[j].Key)
		})
	}
}
