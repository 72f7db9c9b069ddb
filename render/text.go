/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package render turns schedules, standings and rosters into aligned text
// tables for the CLI and the discord bot, and into HTML for the web page.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/rpmurphy2/pickleball-round-robin/roundrobin"
)

const timeLayout = "3:04 PM"

// writeTable writes rows under header with every column padded to its
// widest cell. The last column is not padded.
func writeTable(sb *strings.Builder, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, r := range rows {
		for i, cell := range r {
			if l := len(cell); l > widths[i] {
				widths[i] = l
			}
		}
	}

	writeRow := func(cells []string) {
		var line strings.Builder
		for i, cell := range cells {
			if i > 0 {
				line.WriteString("  ")
			}
			if i == len(cells)-1 {
				line.WriteString(cell)
			} else {
				line.WriteString(fmt.Sprintf("%-*s", widths[i], cell))
			}
		}
		sb.WriteString(strings.TrimRight(line.String(), " "))
		sb.WriteString("\n")
	}

	writeRow(header)
	for _, r := range rows {
		writeRow(r)
	}
}

func scoreCell(m *roundrobin.Match) string {
	if m.Score == nil {
		return "-"
	}
	return fmt.Sprintf("%v-%v", m.Score.A, m.Score.B)
}

func names(players []roundrobin.Player) string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.Name
	}
	return strings.Join(out, ", ")
}

// RoundHeader is "Round N", followed by the planned start when start is
// not zero.
func RoundHeader(n int, start time.Time) string {
	if start.IsZero() {
		return fmt.Sprintf("Round %v", n)
	}
	return fmt.Sprintf("Round %v (%v)", n, start.Format(timeLayout))
}

// BuildScheduleOutput formats every round as a court table. startOf may be
// nil; otherwise it supplies each round's planned start time. Pinned
// matches and byes are marked with '*'.
func BuildScheduleOutput(s *roundrobin.Schedule,
	startOf func(round int) time.Time) string {

	if s == nil || len(s.Rounds) == 0 {
		return "No schedule generated yet.\n"
	}

	var sb strings.Builder
	for _, r := range s.Rounds {
		var start time.Time
		if startOf != nil {
			start = startOf(r.Number)
		}
		sb.WriteString(RoundHeader(r.Number, start))
		sb.WriteString("\n")

		var rows [][]string
		for _, m := range r.Matches {
			pin := ""
			if m.Pinned != 0 {
				pin = "*"
			}
			rows = append(rows, []string{
				fmt.Sprintf("%v.", m.Court),
				s.MatchName(m.Key) + pin,
				m.Key.String(),
				scoreCell(m),
			})
		}
		writeTable(&sb, []string{"Court", "Match", "Id", "Score"}, rows)

		if r.Bye != 0 {
			pin := ""
			if r.ByePinned {
				pin = "*"
			}
			sb.WriteString(fmt.Sprintf("Bye: %v%v\n", s.UnitName(r.Bye), pin))
		}
		if len(r.Resting) > 0 {
			sb.WriteString(fmt.Sprintf("Resting: %v\n", names(r.Resting)))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// BuildRoundOutput formats a single round in the same layout as
// BuildScheduleOutput.
func BuildRoundOutput(s *roundrobin.Schedule, n int, start time.Time) string {
	r := s.Round(n)
	if r == nil {
		return fmt.Sprintf("No round %v.\n", n)
	}
	one := *s
	one.Rounds = []*roundrobin.Round{r}
	return BuildScheduleOutput(&one, func(int) time.Time { return start })
}

// BuildStandingsOutput formats standings with shared places for rows that
// tie on wins and average margin.
func BuildStandingsOutput(standings []roundrobin.Standing) string {
	if len(standings) == 0 {
		return "No standings yet.\n"
	}

	var rows [][]string
	for idx, st := range standings {
		place := ""
		if idx == 0 || st.Wins != standings[idx-1].Wins ||
			st.AvgMargin != standings[idx-1].AvgMargin {
			place = fmt.Sprintf("%v.", idx+1)
		}
		rows = append(rows, []string{
			place,
			st.Name,
			fmt.Sprintf("%v", st.Played),
			fmt.Sprintf("%v-%v-%v", st.Wins, st.Losses, st.Ties),
			fmt.Sprintf("%v", st.PointsFor),
			fmt.Sprintf("%v", st.PointsAgainst),
			fmt.Sprintf("%+.2f", st.AvgMargin),
		})
	}

	var sb strings.Builder
	writeTable(&sb, []string{"Place", "Name", "Played", "W-L-T", "PF", "PA",
		"Avg"}, rows)
	return sb.String()
}

func BuildSummaryOutput(sum roundrobin.Summary) string {
	return fmt.Sprintf("%v rounds, %v matches, %v courts\n", sum.Rounds,
		sum.Matches, sum.Courts)
}

// BuildTeamsOutput lists teams by id in entry order.
func BuildTeamsOutput(teams []roundrobin.Team) string {
	if len(teams) == 0 {
		return "No teams entered.\n"
	}
	var rows [][]string
	for _, t := range teams {
		rows = append(rows, []string{fmt.Sprintf("%v.", t.TeamID),
			t.Players[0].Name, t.Players[1].Name})
	}

	var sb strings.Builder
	writeTable(&sb, []string{"Id", "Player 1", "Player 2"}, rows)
	return sb.String()
}

func BuildPlayersOutput(players []roundrobin.Player) string {
	if len(players) == 0 {
		return "No players entered.\n"
	}
	var rows [][]string
	for _, p := range players {
		rows = append(rows, []string{fmt.Sprintf("%v.", p.ID), p.Name,
			p.Role.String()})
	}

	var sb strings.Builder
	writeTable(&sb, []string{"Id", "Name", "Role"}, rows)
	return sb.String()
}
