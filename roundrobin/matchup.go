/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roundrobin

import (
	"fmt"
	"strconv"
	"strings"
)

// MatchupKey identifies an unordered pair of units; Lo is always the
// smaller id so (a,b) and (b,a) compare equal.
type MatchupKey struct {
	Lo UnitID
	Hi UnitID
}

func NewMatchupKey(a, b UnitID) MatchupKey {
	if a > b {
		a, b = b, a
	}
	return MatchupKey{Lo: a, Hi: b}
}

func (k MatchupKey) String() string {
	return fmt.Sprintf("%v-%v", k.Lo, k.Hi)
}

func (k MatchupKey) Has(id UnitID) bool {
	return k.Lo == id || k.Hi == id
}

func (k MatchupKey) less(o MatchupKey) bool {
	if k.Lo != o.Lo {
		return k.Lo < o.Lo
	}
	return k.Hi < o.Hi
}

// ParseMatchupKey parses "a-b" (either order) into a canonical key.
func ParseMatchupKey(s string) (MatchupKey, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return MatchupKey{}, fmt.Errorf("invalid matchup %q: expected <id>-<id>", s)
	}
	a, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return MatchupKey{}, fmt.Errorf("invalid matchup %q: %w", s, err)
	}
	b, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return MatchupKey{}, fmt.Errorf("invalid matchup %q: %w", s, err)
	}
	if a == b {
		return MatchupKey{}, fmt.Errorf("invalid matchup %q: %w", s, ErrSelfMatchup)
	}

	return NewMatchupKey(UnitID(a), UnitID(b)), nil
}

func (k MatchupKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *MatchupKey) UnmarshalText(text []byte) error {
	parsed, err := ParseMatchupKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Matchup is a candidate meeting between two units. A precedes B in the
// unit list the matchup was generated from.
type Matchup struct {
	Key MatchupKey `json:"key"`
	A   UnitID     `json:"a"`
	B   UnitID     `json:"b"`
}

func newMatchup(a, b UnitID) Matchup {
	return Matchup{Key: NewMatchupKey(a, b), A: a, B: b}
}

// GenerateMatchups returns all C(N,2) unordered matchups of units in list
// order.
func GenerateMatchups(units []Unit) []Matchup {
	matchups := make([]Matchup, 0, len(units)*(len(units)-1)/2)
	for i := 0; i < len(units); i++ {
		for j := i + 1; j < len(units); j++ {
			matchups = append(matchups, newMatchup(units[i].ID(), units[j].ID()))
		}
	}

	return matchups
}
