// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dashboard renders the static history page. Rendering is a
// pure transform of the record list plus a render timestamp; it never
// touches the store or the filesystem.
package dashboard

import (
	_ "embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/buildboard-dev/buildboard/internal/history"
)

//go:embed dashboard.tmpl
var pageSource string

var pageTemplate = template.Must(template.New("dashboard").Parse(pageSource))

// GridSlots is the fixed width of the status grid. Fewer records pad
// with empty cells so the page layout never shifts between runs.
const GridSlots = 10

// minBarPct keeps zero-length and unknown durations visible in the chart.
const minBarPct = 4

type page struct {
	Title       string
	GeneratedAt string
	Cells       []cell
	Rows        []row
	Bars        []bar
	HasRecords  bool
}

type cell struct {
	Filled    bool
	Status    history.Status
	ShortSHA  string
	RunNumber int
	ReportURL string
	Tooltip   string
}

type row struct {
	ShortSHA  string
	Message   string
	RunNumber int
	RunID     string
	Status    history.Status
	When      string
	Age       string
	Duration  string
	ReportURL string
}

type bar struct {
	Label     string
	Duration  string
	HeightPct int
}

// Render produces the complete dashboard document for the given records
// (newest first, as the store hands them out) at the given moment.
func Render(records []history.Record, now time.Time, title string) (string, error) {
	var b strings.Builder
	if err := pageTemplate.Execute(&b, buildPage(records, now, title)); err != nil {
		return "", fmt.Errorf("rendering dashboard: %w", err)
	}
	return b.String(), nil
}

func buildPage(records []history.Record, now time.Time, title string) page {
	p := page{
		Title:       title,
		GeneratedAt: now.UTC().Format(time.RFC3339),
		HasRecords:  len(records) > 0,
	}

	for i := 0; i < GridSlots; i++ {
		if i >= len(records) {
			p.Cells = append(p.Cells, cell{})
			continue
		}
		r := records[i]
		p.Cells = append(p.Cells, cell{
			Filled:    true,
			Status:    r.Status,
			ShortSHA:  r.ShortSHA(),
			RunNumber: r.RunNumber,
			ReportURL: r.ReportURL,
			Tooltip:   fmt.Sprintf("#%d %s (%s)", r.RunNumber, r.ShortSHA(), r.Status),
		})
	}

	for _, r := range records {
		p.Rows = append(p.Rows, row{
			ShortSHA:  r.ShortSHA(),
			Message:   r.CommitMessage,
			RunNumber: r.RunNumber,
			RunID:     r.RunID,
			Status:    r.Status,
			When:      r.Timestamp,
			Age:       age(r, now),
			Duration:  r.Duration,
			ReportURL: r.ReportURL,
		})
	}

	p.Bars = buildBars(records)
	return p
}

func age(r history.Record, now time.Time) string {
	t := r.Time()
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// buildBars lays the duration chart out oldest to newest, scaled against
// the slowest run. The parsed seconds are advisory display state only.
func buildBars(records []history.Record) []bar {
	maxSeconds := 0
	for _, r := range records {
		if s := history.ParseDuration(r.Duration); s > maxSeconds {
			maxSeconds = s
		}
	}

	bars := make([]bar, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		seconds := history.ParseDuration(r.Duration)
		pct := minBarPct
		if maxSeconds > 0 {
			if p := seconds * 100 / maxSeconds; p > pct {
				pct = p
			}
		}
		bars = append(bars, bar{
			Label:     fmt.Sprintf("#%d", r.RunNumber),
			Duration:  r.Duration,
			HeightPct: pct,
		})
	}
	return bars
}
