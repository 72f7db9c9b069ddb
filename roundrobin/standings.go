/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roundrobin

import (
	"sort"
)

// Standing is one row of the standings table. ID is a UnitID in fixed mode
// and a PlayerID in rotating and mixed modes.
type Standing struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Played        int     `json:"played"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties"`
	PointsFor     int     `json:"pointsFor"`
	PointsAgainst int     `json:"pointsAgainst"`
	MarginTotal   int     `json:"marginTotal"`
	AvgMargin     float64 `json:"avgMargin"`
}

func (st *Standing) record(pointsFor, pointsAgainst int) {
	st.Played++
	st.PointsFor += pointsFor
	st.PointsAgainst += pointsAgainst
	st.MarginTotal += pointsFor - pointsAgainst
	switch {
	case pointsFor > pointsAgainst:
		st.Wins++
	case pointsFor < pointsAgainst:
		st.Losses++
	default:
		st.Ties++
	}
}

// ComputeStandings ranks every unit (fixed mode) or player (rotating and
// mixed modes) by wins, then average margin, then entry order. Only
// matches with a recorded score count.
func ComputeStandings(s *Schedule) []Standing {
	var rows []*Standing
	byKey := make(map[int]*Standing)
	perPlayer := s.Mode == ModeRotating || s.Mode == ModeMixed

	if perPlayer {
		for _, p := range s.Players {
			st := &Standing{ID: int(p.ID), Name: p.Name}
			rows = append(rows, st)
			byKey[st.ID] = st
		}
	} else {
		for _, u := range s.Units {
			st := &Standing{ID: int(u.ID()), Name: u.Name()}
			rows = append(rows, st)
			byKey[st.ID] = st
		}
	}

	credit := func(id UnitID, pointsFor, pointsAgainst int) {
		if !perPlayer {
			if st, ok := byKey[int(id)]; ok {
				st.record(pointsFor, pointsAgainst)
			}
			return
		}
		u := s.Unit(id)
		if u == nil {
			return
		}
		for _, p := range u.Members() {
			if st, ok := byKey[int(p.ID)]; ok {
				st.record(pointsFor, pointsAgainst)
			}
		}
	}

	for _, r := range s.Rounds {
		for _, m := range r.Matches {
			if m.Score == nil {
				continue
			}
			credit(m.A, m.Score.A, m.Score.B)
			credit(m.B, m.Score.B, m.Score.A)
		}
	}

	out := make([]Standing, len(rows))
	for i, st := range rows {
		if st.Played > 0 {
			st.AvgMargin = float64(st.MarginTotal) / float64(st.Played)
		}
		out[i] = *st
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		return out[i].AvgMargin > out[j].AvgMargin
	})

	return out
}
