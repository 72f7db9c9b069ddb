/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roundrobin

import (
	"fmt"
	"slices"
)

// circleRounds returns the partner pairs of every round of the circle
// method over n seats. Seat 0 stays put while the others rotate; an odd n
// gets a phantom seat numbered n, and whoever draws it sits out.
func circleRounds(n int) [][][2]int {
	total := n + n%2
	top := make([]int, total/2)
	bottom := make([]int, total/2)
	for i := 0; i < total; i++ {
		if i < total/2 {
			top[i] = i
		} else {
			bottom[total-i-1] = i
		}
	}

	var rounds [][][2]int
	for r := 0; r < total-1; r++ {
		pairs := make([][2]int, len(top))
		for i := range top {
			pairs[i] = [2]int{top[i], bottom[i]}
		}
		rounds = append(rounds, pairs)

		lastIdx := len(top) - 1
		last := top[lastIdx]
		top = slices.Insert(top, 1, bottom[0])[:lastIdx+1]
		bottom = append(bottom, last)[1:]
	}

	return rounds
}

type rotationBuilder struct {
	sched  *Schedule
	nextID UnitID
	rests  map[PlayerID]int
}

func newRotationBuilder(mode Mode, players []Player) *rotationBuilder {
	return &rotationBuilder{
		sched: &Schedule{
			Mode:    mode,
			Players: players,
		},
		nextID: 1,
		rests:  make(map[PlayerID]int),
	}
}

func (b *rotationBuilder) rest(r *Round, players ...Player) {
	for _, p := range players {
		b.rests[p.ID]++
		r.Resting = append(r.Resting, p)
	}
}

// addRound turns a round's partner pairs into matches. With an odd number
// of pairs the pair that has rested least sits this round out.
func (b *rotationBuilder) addRound(pairs []Unit, resting []Player) {
	r := &Round{Number: len(b.sched.Rounds) + 1}
	b.rest(r, resting...)

	if len(pairs)%2 == 1 {
		out, outRests := 0, -1
		for i, p := range pairs {
			n := 0
			for _, m := range p.Members() {
				n += b.rests[m.ID]
			}
			if outRests < 0 || n < outRests {
				out, outRests = i, n
			}
		}
		b.rest(r, pairs[out].Members()...)
		pairs = append(pairs[:out:out], pairs[out+1:]...)
	}

	for i := 0; i+1 < len(pairs); i += 2 {
		b.sched.Units = append(b.sched.Units, pairs[i], pairs[i+1])
		r.Matches = append(r.Matches,
			&Match{Matchup: newMatchup(pairs[i].ID(), pairs[i+1].ID())})
	}
	b.sched.Rounds = append(b.sched.Rounds, r)
}

func (b *rotationBuilder) id() UnitID {
	id := b.nextID
	b.nextID++
	return id
}

// GenerateRotating builds a rotating-partner schedule in which every player
// partners every other player exactly once. Each match takes four players,
// so a round holds floor(players/4) matches and the rest sit out.
func GenerateRotating(players []Player) (*Schedule, error) {
	n := len(players)
	if n < 4 {
		return nil, fmt.Errorf("%w: rotating partners needs at least 4, have %v",
			ErrTooFewPlayers, n)
	}

	b := newRotationBuilder(ModeRotating, players)
	for _, seats := range circleRounds(n) {
		var pairs []Unit
		var resting []Player
		for _, s := range seats {
			switch {
			case s[0] >= n:
				resting = append(resting, players[s[1]])
			case s[1] >= n:
				resting = append(resting, players[s[0]])
			default:
				pairs = append(pairs, RotatingPairing{PairID: b.id(),
					Players: [2]Player{players[s[0]], players[s[1]]}})
			}
		}
		b.addRound(pairs, resting)
	}

	return b.sched, nil
}

// GenerateMixed builds a mixed-doubles schedule. Over k rounds, where k is
// the size of the larger gender group, every player of the smaller group
// partners every player of the larger group once.
func GenerateMixed(players []Player) (*Schedule, error) {
	var males, females []Player
	for _, p := range players {
		switch p.Role {
		case RoleMale:
			males = append(males, p)
		case RoleFemale:
			females = append(females, p)
		default:
			return nil, fmt.Errorf("%w: %v needs M or F for mixed doubles",
				ErrUnknownRole, p.Name)
		}
	}
	if len(males) < 2 || len(females) < 2 {
		return nil, fmt.Errorf("%w: mixed doubles needs at least 2 men and 2 women, have %v and %v",
			ErrTooFewPlayers, len(males), len(females))
	}

	small, large := males, females
	if len(males) > len(females) {
		small, large = females, males
	}
	k := len(large)

	b := newRotationBuilder(ModeMixed, players)
	for r := 0; r < k; r++ {
		partnered := make([]bool, k)
		var pairs []Unit
		for i, p := range small {
			j := (i + r) % k
			partnered[j] = true
			pair := MixedPairing{PairID: b.id(), Male: p, Female: large[j]}
			if p.Role == RoleFemale {
				pair.Male, pair.Female = large[j], p
			}
			pairs = append(pairs, pair)
		}
		var resting []Player
		for j, p := range large {
			if !partnered[j] {
				resting = append(resting, p)
			}
		}
		b.addRound(pairs, resting)
	}

	return b.sched, nil
}
