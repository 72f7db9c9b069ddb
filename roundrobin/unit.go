/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roundrobin

import (
	"fmt"
	"strings"
)

type UnitID int
type PlayerID int

type Mode string

const (
	ModeFixed    Mode = "fixed"
	ModeRotating Mode = "rotating"
	ModeMixed    Mode = "mixed"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeFixed:
		return ModeFixed, nil
	case ModeRotating:
		return ModeRotating, nil
	case ModeMixed:
		return ModeMixed, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

type Role int

const (
	RoleNone Role = iota
	RoleMale
	RoleFemale
)

func (r Role) String() string {
	switch r {
	case RoleMale:
		return "M"
	case RoleFemale:
		return "F"
	default:
		return ""
	}
}

// ParseRole accepts M/F (or male/female) in any case; empty means RoleNone.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return RoleNone, nil
	case "m", "male":
		return RoleMale, nil
	case "f", "female":
		return RoleFemale, nil
	}

	return RoleNone, fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	role, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = role
	return nil
}

type Player struct {
	ID   PlayerID `json:"id"`
	Name string   `json:"name"`
	Role Role     `json:"role,omitempty"`
}

type Kind int

const (
	KindFixedTeam Kind = iota
	KindRotatingPairing
	KindMixedPairing
)

func (k Kind) String() string {
	switch k {
	case KindRotatingPairing:
		return "rotating"
	case KindMixedPairing:
		return "mixed"
	default:
		return "team"
	}
}

// Unit is anything that takes one side of a match. The solver, court
// balancer and standings only ever see this surface.
type Unit interface {
	ID() UnitID
	Name() string
	Members() []Player
	Kind() Kind
}

// Team is a fixed partnership entered before the tournament starts.
type Team struct {
	TeamID  UnitID    `json:"id"`
	Players [2]Player `json:"players"`
}

func (t Team) ID() UnitID        { return t.TeamID }
func (t Team) Members() []Player { return t.Players[:] }
func (t Team) Kind() Kind        { return KindFixedTeam }
func (t Team) Name() string {
	return pairName(t.Players[0], t.Players[1])
}

// RotatingPairing is two players partnered for a single match.
type RotatingPairing struct {
	PairID  UnitID
	Players [2]Player
}

func (p RotatingPairing) ID() UnitID        { return p.PairID }
func (p RotatingPairing) Members() []Player { return p.Players[:] }
func (p RotatingPairing) Kind() Kind        { return KindRotatingPairing }
func (p RotatingPairing) Name() string {
	return pairName(p.Players[0], p.Players[1])
}

// MixedPairing is a male and a female player partnered for a single match.
type MixedPairing struct {
	PairID UnitID
	Male   Player
	Female Player
}

func (p MixedPairing) ID() UnitID        { return p.PairID }
func (p MixedPairing) Members() []Player { return []Player{p.Male, p.Female} }
func (p MixedPairing) Kind() Kind        { return KindMixedPairing }
func (p MixedPairing) Name() string {
	return pairName(p.Male, p.Female)
}

func pairName(p1, p2 Player) string {
	return fmt.Sprintf("%v & %v", p1.Name, p2.Name)
}

// Entrants is the immutable competitor snapshot consumed at generate time.
// Teams are used in fixed mode, Players in rotating and mixed modes.
type Entrants struct {
	Teams   []Team
	Players []Player
}

func (e Entrants) units() []Unit {
	units := make([]Unit, 0, len(e.Teams))
	for _, t := range e.Teams {
		units = append(units, t)
	}
	return units
}
