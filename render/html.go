/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package render

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/rpmurphy2/pickleball-round-robin/roundrobin"
)

// Page is everything the session page shows.
type Page struct {
	Title     string
	SessionID string
	Summary   roundrobin.Summary
	Schedule  *roundrobin.Schedule
	Standings []roundrobin.Standing
	StartOf   func(round int) time.Time
}

const pageStyle = `body{font-family:sans-serif;margin:2em}` +
	`table{border-collapse:collapse;margin-bottom:1em}` +
	`td,th{border:1px solid #ccc;padding:.25em .75em;text-align:left}` +
	`.pinned{font-weight:bold}.bye,.resting{color:#666}`

// livePageScript reloads the page whenever the session's websocket reports a
// schedule change.
const livePageScript = `<script>(function(){` +
	`var p=location.protocol==="https:"?"wss://":"ws://";` +
	`var ws=new WebSocket(p+location.host+location.pathname+"/ws");` +
	`ws.onmessage=function(e){try{if(JSON.parse(e.data).type==="SCHEDULE_UPDATED"){location.reload()}}catch(_){}};` +
	`})();</script>`

func SessionPage(p Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		title := html.EscapeString(p.Title)
		b.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8">`)
		b.WriteString(fmt.Sprintf(`<title>%v</title><style>%v</style></head><body>`,
			title, pageStyle))
		b.WriteString(fmt.Sprintf(`<h1>%v</h1>`, title))
		b.WriteString(fmt.Sprintf(`<p class="summary">%v</p>`,
			html.EscapeString(strings.TrimSpace(BuildSummaryOutput(p.Summary)))))
		b.WriteString(`<section id="schedule"><h2>Schedule</h2>`)
		if err := ScheduleTable(p.Schedule, p.StartOf).Render(ctx, &b); err != nil {
			return err
		}
		b.WriteString(`</section><section id="standings"><h2>Standings</h2>`)
		if err := StandingsTable(p.Standings).Render(ctx, &b); err != nil {
			return err
		}
		b.WriteString(`</section>`)
		if p.SessionID != "" {
			b.WriteString(livePageScript)
		}
		b.WriteString(`</body></html>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func ScheduleTable(s *roundrobin.Schedule,
	startOf func(round int) time.Time) templ.Component {

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if s == nil || len(s.Rounds) == 0 {
			_, err := io.WriteString(w, `<p class="empty">No schedule generated yet.</p>`)
			return err
		}

		var b strings.Builder
		for _, r := range s.Rounds {
			var start time.Time
			if startOf != nil {
				start = startOf(r.Number)
			}
			b.WriteString(fmt.Sprintf(`<div class="round" data-round="%v"><h3>%v</h3>`,
				r.Number, html.EscapeString(RoundHeader(r.Number, start))))
			b.WriteString(`<table><thead><tr><th>Court</th><th>Match</th><th>Score</th></tr></thead><tbody>`)
			for _, m := range r.Matches {
				class := "match"
				if m.Pinned != 0 {
					class += " pinned"
				}
				b.WriteString(fmt.Sprintf(`<tr class="%v" data-key="%v"><td>%v</td><td>%v</td><td>%v</td></tr>`,
					class, m.Key, m.Court, html.EscapeString(s.MatchName(m.Key)),
					scoreCell(m)))
			}
			b.WriteString(`</tbody></table>`)
			if r.Bye != 0 {
				b.WriteString(fmt.Sprintf(`<p class="bye">Bye: %v</p>`,
					html.EscapeString(s.UnitName(r.Bye))))
			}
			if len(r.Resting) > 0 {
				b.WriteString(fmt.Sprintf(`<p class="resting">Resting: %v</p>`,
					html.EscapeString(names(r.Resting))))
			}
			b.WriteString(`</div>`)
		}

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func StandingsTable(standings []roundrobin.Standing) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(standings) == 0 {
			_, err := io.WriteString(w, `<p class="empty">No standings yet.</p>`)
			return err
		}

		var b strings.Builder
		b.WriteString(`<table><thead><tr><th>#</th><th>Name</th><th>W-L-T</th><th>PF</th><th>PA</th><th>Avg</th></tr></thead><tbody>`)
		for i, st := range standings {
			b.WriteString(fmt.Sprintf(`<tr class="standing"><td>%v</td><td>%v</td><td>%v-%v-%v</td><td>%v</td><td>%v</td><td>%+.2f</td></tr>`,
				i+1, html.EscapeString(st.Name), st.Wins, st.Losses, st.Ties,
				st.PointsFor, st.PointsAgainst, st.AvgMargin))
		}
		b.WriteString(`</tbody></table>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}
