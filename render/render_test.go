/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package render

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/rpmurphy2/pickleball-round-robin/roundrobin"
)

func testSchedule() *roundrobin.Schedule {
	teams := []roundrobin.Team{
		{TeamID: 1, Players: [2]roundrobin.Player{{ID: 1, Name: "Ann"}, {ID: 2, Name: "Ben"}}},
		{TeamID: 2, Players: [2]roundrobin.Player{{ID: 3, Name: "Cat"}, {ID: 4, Name: "Dan"}}},
		{TeamID: 3, Players: [2]roundrobin.Player{{ID: 5, Name: "<Eve>"}, {ID: 6, Name: "Fay"}}},
	}
	units := make([]roundrobin.Unit, len(teams))
	for i, t := range teams {
		units[i] = t
	}
	return &roundrobin.Schedule{
		Mode:   roundrobin.ModeFixed,
		Units:  units,
		Courts: 1,
		Rounds: []*roundrobin.Round{
			{Number: 1, Bye: 3, Matches: []*roundrobin.Match{{
				Matchup: roundrobin.Matchup{Key: roundrobin.NewMatchupKey(1, 2), A: 1, B: 2},
				Court:   1, Pinned: 1, Score: &roundrobin.Score{A: 11, B: 5},
			}}},
			{Number: 2, Bye: 2, ByePinned: true, Matches: []*roundrobin.Match{{
				Matchup: roundrobin.Matchup{Key: roundrobin.NewMatchupKey(1, 3), A: 1, B: 3},
				Court:   1,
			}}},
		},
	}
}

func TestBuildScheduleOutput(t *testing.T) {
	start := time.Date(2025, 6, 7, 9, 0, 0, 0, time.UTC)
	out := BuildScheduleOutput(testSchedule(), func(n int) time.Time {
		return start.Add(time.Duration(n-1) * 20 * time.Minute)
	})

	for _, want := range []string{
		"Round 1 (9:00 AM)",
		"Round 2 (9:20 AM)",
		"Court  Match",
		"1.     Ann & Ben vs Cat & Dan*  1-2  11-5",
		"Bye: <Eve> & Fay\n",
		"Bye: Cat & Dan*\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%v", want, out)
		}
	}

	if got := BuildScheduleOutput(nil, nil); got != "No schedule generated yet.\n" {
		t.Errorf("unexpected empty output %q", got)
	}
}

func TestBuildRoundOutput(t *testing.T) {
	out := BuildRoundOutput(testSchedule(), 2, time.Time{})
	if strings.Contains(out, "Round 1") || !strings.Contains(out, "Round 2\n") {
		t.Errorf("expected only round 2:\n%v", out)
	}
	if got := BuildRoundOutput(testSchedule(), 7, time.Time{}); got != "No round 7.\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestBuildStandingsOutput(t *testing.T) {
	standings := []roundrobin.Standing{
		{ID: 1, Name: "Ann & Ben", Played: 2, Wins: 1, Losses: 1, PointsFor: 19,
			PointsAgainst: 16, MarginTotal: 3, AvgMargin: 1.5},
		{ID: 3, Name: "Eve & Fay", Played: 0},
		{ID: 4, Name: "Gus & Hal", Played: 0},
	}
	out := BuildStandingsOutput(standings)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %v:\n%v", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "1.     Ann & Ben") || !strings.HasSuffix(lines[1], "+1.50") {
		t.Errorf("unexpected first row %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "2.") {
		t.Errorf("expected place 2, got %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], "       Gus & Hal") {
		t.Errorf("tied row should share the place, got %q", lines[3])
	}
}

func TestBuildRosterOutput(t *testing.T) {
	teams := []roundrobin.Team{
		{TeamID: 1, Players: [2]roundrobin.Player{{Name: "Ann"}, {Name: "Ben"}}},
		{TeamID: 12, Players: [2]roundrobin.Player{{Name: "Cat"}, {Name: "Dan"}}},
	}
	want := "Id   Player 1  Player 2\n" +
		"1.   Ann       Ben\n" +
		"12.  Cat       Dan\n"
	if got := BuildTeamsOutput(teams); got != want {
		t.Errorf("expected:\n%v\ngot:\n%v", want, got)
	}

	players := []roundrobin.Player{{ID: 1, Name: "Ann", Role: roundrobin.RoleFemale},
		{ID: 2, Name: "Ben"}}
	out := BuildPlayersOutput(players)
	if !strings.Contains(out, "1.  Ann   F\n") || !strings.Contains(out, "2.  Ben\n") {
		t.Errorf("unexpected players output:\n%v", out)
	}
	if BuildTeamsOutput(nil) != "No teams entered.\n" {
		t.Errorf("unexpected empty teams output")
	}
}

func TestSessionPage(t *testing.T) {
	s := testSchedule()
	page := Page{
		Title:     "Saturday Social",
		SessionID: "abc",
		Summary:   roundrobin.Summary{Rounds: 2, Matches: 2, Courts: 1},
		Schedule:  s,
		Standings: roundrobin.ComputeStandings(s),
	}

	var buf bytes.Buffer
	if err := SessionPage(page).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if got := doc.Find("h1").Text(); got != "Saturday Social" {
		t.Errorf("unexpected title %q", got)
	}
	if got := doc.Find(".round").Length(); got != 2 {
		t.Errorf("expected 2 rounds, got %v", got)
	}
	if got := doc.Find("tr.pinned").Length(); got != 1 {
		t.Errorf("expected 1 pinned match, got %v", got)
	}
	if got := doc.Find(`tr[data-key="1-2"] td`).Last().Text(); got != "11-5" {
		t.Errorf("expected score 11-5, got %q", got)
	}
	if got := doc.Find(".round").First().Find(".bye").Text(); got != "Bye: <Eve> & Fay" {
		t.Errorf("bye not escaped correctly: %q", got)
	}
	if got := doc.Find("tr.standing").Length(); got != 3 {
		t.Errorf("expected 3 standings rows, got %v", got)
	}
	if got := doc.Find("tr.standing td").Eq(1).Text(); got != "Ann & Ben" {
		t.Errorf("expected leader Ann & Ben, got %q", got)
	}
	if doc.Find("script").Length() != 1 {
		t.Errorf("expected live reload script")
	}
}

func TestEmptyComponents(t *testing.T) {
	var buf bytes.Buffer
	if err := ScheduleTable(nil, nil).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if err := StandingsTable(nil).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := doc.Find(".empty").Length(); got != 2 {
		t.Errorf("expected 2 empty placeholders, got %v", got)
	}
}
