// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/buildboard-dev/buildboard/cmd/buildboard/internal/clierr"
	"github.com/buildboard-dev/buildboard/internal/dashboard"
	"github.com/buildboard-dev/buildboard/internal/history"
	"github.com/buildboard-dev/buildboard/internal/log"
	"github.com/buildboard-dev/buildboard/internal/site"
)

// NewUpdateCommand builds the main pipeline command: ingest one build
// result, persist the trimmed history, publish the report artifacts,
// sweep stale report directories, and regenerate the dashboard.
//
// Flag defaults come from the environment so a CI step usually needs no
// arguments at all.
func NewUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Record a build result and regenerate the dashboard",
		Long: `Merge one build result into the rolling history, copy the generated
report into the published site, prune reports that fell out of the
history, and rewrite the dashboard page.`,
		RunE: runUpdate,
	}

	cmd.Flags().String("sha", envOr("", "BUILDBOARD_SHA", "GITHUB_SHA"), "commit SHA of the build")
	cmd.Flags().String("message", envOr("", "BUILDBOARD_COMMIT_MESSAGE"), "commit message")
	cmd.Flags().String("run-number", envOr("", "BUILDBOARD_RUN_NUMBER", "GITHUB_RUN_NUMBER"), "CI run number")
	cmd.Flags().String("run-id", envOr("", "BUILDBOARD_RUN_ID", "GITHUB_RUN_ID"), "CI run identifier")
	cmd.Flags().String("status", envOr("", "BUILDBOARD_STATUS"), "build status (success/failure/cancelled/skipped)")
	cmd.Flags().String("duration", envOr("", "BUILDBOARD_DURATION_SECONDS"), "build duration in seconds")
	cmd.Flags().String("report-dir", envOr("", "BUILDBOARD_REPORT_DIR"), "directory of generated report files")
	cmd.Flags().String("site-dir", envOr("", "BUILDBOARD_SITE_DIR"), "site output directory (overrides config)")

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return clierr.Wrap(1, "update", err)
	}

	sha, _ := cmd.Flags().GetString("sha")
	if sha == "" {
		return clierr.New(1, "update: commit SHA is required (--sha or BUILDBOARD_SHA)")
	}
	message, _ := cmd.Flags().GetString("message")
	runID, _ := cmd.Flags().GetString("run-id")

	runNumber := parseRunNumber(flagString(cmd, "run-number"))
	status := parseStatus(flagString(cmd, "status"))
	duration := parseDurationSeconds(flagString(cmd, "duration"))

	siteDir := cfg.SiteDir
	if v := flagString(cmd, "site-dir"); v != "" {
		siteDir = v
	}
	reportDir := cfg.ReportDir
	if v := flagString(cmd, "report-dir"); v != "" {
		reportDir = v
	}
	historyPath := filepath.Join(siteDir, cfg.HistoryFile)

	store, err := history.Load(historyPath, cfg.Capacity)
	if err != nil {
		return clierr.Wrap(1, "update: loading history", err)
	}

	rec := history.NewRecord(sha, message, runNumber, runID, status, duration, site.ReportURL(sha))
	store.Merge(rec)

	if err := store.Save(historyPath); err != nil {
		return clierr.Wrap(1, "update: saving history", err)
	}
	log.Infof("recorded run #%d (%s, %s), history now holds %d run(s)", runNumber, rec.ShortSHA(), status, store.Len())

	if err := site.Materialize(reportDir, siteDir, sha, runNumber); err != nil {
		return clierr.Wrap(1, "update: publishing report", err)
	}

	removed, err := site.Sweep(siteDir, store.SHAs())
	if err != nil {
		return clierr.Wrap(1, "update: pruning stale reports", err)
	}
	for _, name := range removed {
		log.Debugf("removed stale report %s", name)
	}

	if err := renderDashboard(store, siteDir, cfg.Title); err != nil {
		return clierr.Wrap(1, "update", err)
	}
	return nil
}

// renderDashboard writes <site>/index.html from the store. The history
// file is already persisted by the time this runs, so a render failure
// costs the page, not the data.
func renderDashboard(store *history.Store, siteDir, title string) error {
	html, err := dashboard.Render(store.Records(), time.Now(), title)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(siteDir, 0o750); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(siteDir, "index.html"), []byte(html), 0o644)
}

func flagString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

// Malformed environment input never aborts the pipeline; it degrades to
// a default and leaves the raw value in the log.

func parseRunNumber(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		log.Warnf("invalid run number %q, using 0", raw)
		return 0
	}
	return n
}

func parseStatus(raw string) history.Status {
	status, ok := history.ParseStatus(raw)
	if !ok && raw != "" {
		log.Warnf("unrecognized build status %q, using %s", raw, history.StatusUnknown)
	}
	return status
}

func parseDurationSeconds(raw string) string {
	if raw == "" {
		return history.NoDuration
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		log.Warnf("invalid duration %q, omitting", raw)
		return history.NoDuration
	}
	return history.FormatDuration(seconds)
}
