// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history maintains the rolling build-result history that backs the
// dashboard: a bounded, newest-first list of records persisted as a JSON
// array next to the published site.
package history

import (
	"strings"
	"time"
)

// Status is the persisted outcome of a build.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusUnknown Status = "unknown"
)

// Record is one test-run outcome. Field names are part of the on-disk
// format; changing them breaks previously written history files.
type Record struct {
	CommitSHA     string `json:"commit_sha"`
	CommitMessage string `json:"commit_message"`
	RunNumber     int    `json:"run_number"`
	RunID         string `json:"run_id"`
	Timestamp     string `json:"timestamp"`
	ReportURL     string `json:"report_url"`
	Status        Status `json:"status"`
	Duration      string `json:"duration"`
}

// ShortSHA returns the abbreviated commit identifier used for display.
func (r Record) ShortSHA() string {
	if len(r.CommitSHA) > 8 {
		return r.CommitSHA[:8]
	}
	return r.CommitSHA
}

// ParseStatus maps a raw CI conclusion string onto the persisted enum.
// The four conclusions GitHub-style runners emit (success, failure,
// cancelled, skipped) are recognized case-insensitively; cancelled and
// skipped runs carry no verdict about the tests themselves and land on
// unknown. The boolean reports whether the input was recognized so the
// caller can warn about genuinely unexpected values.
func ParseStatus(raw string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "success":
		return StatusSuccess, true
	case "failure":
		return StatusFailure, true
	case "cancelled", "skipped":
		return StatusUnknown, true
	default:
		return StatusUnknown, false
	}
}

// Timestamp format for new records. Existing records are kept verbatim.
const timestampLayout = time.RFC3339

// NewRecord stamps a record with the current time. The report URL is
// relative to the site root so the dashboard can be served from any prefix.
func NewRecord(sha, message string, runNumber int, runID string, status Status, duration string, reportURL string) Record {
	return Record{
		CommitSHA:     sha,
		CommitMessage: message,
		RunNumber:     runNumber,
		RunID:         runID,
		Timestamp:     time.Now().UTC().Format(timestampLayout),
		ReportURL:     reportURL,
		Status:        status,
		Duration:      duration,
	}
}

// Time parses the record's timestamp, returning the zero time when the
// stored value is not RFC 3339 (hand-edited history files exist).
func (r Record) Time() time.Time {
	t, err := time.Parse(timestampLayout, r.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}
