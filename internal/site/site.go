// SPDX-License-Identifier: AGPL-3.0-or-later

// Package site manages the published directory tree: per-commit report
// copies under runs/ and the retention sweep that keeps them in step
// with the history.
package site

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/otiai10/copy"

	"github.com/buildboard-dev/buildboard/internal/log"
)

// RunsDir is the subdirectory of the site root that holds one report
// directory per commit SHA.
const RunsDir = "runs"

// ReportURL is the site-relative entry page for a commit's report.
func ReportURL(sha string) string {
	return filepath.ToSlash(filepath.Join(RunsDir, sha, "index.html"))
}

// Materialize places the report for one commit under <site>/runs/<sha>.
// If srcDir holds generated report files they are copied verbatim;
// otherwise a minimal placeholder page naming the run is written so the
// dashboard link never 404s. Re-running for the same SHA replaces the
// previous contents.
func Materialize(srcDir, siteDir, sha string, runNumber int) error {
	dest := filepath.Join(siteDir, RunsDir, sha)
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("clearing report dir %s: %w", dest, err)
	}
	if err := os.MkdirAll(dest, 0o750); err != nil {
		return fmt.Errorf("creating report dir %s: %w", dest, err)
	}

	if srcDir != "" {
		if fi, err := os.Stat(srcDir); err == nil && fi.IsDir() {
			if err := copy.Copy(srcDir, dest); err != nil {
				return fmt.Errorf("copying report from %s: %w", srcDir, err)
			}
			return nil
		}
		log.Warnf("report source %s not found, writing placeholder", srcDir)
	}

	page := fmt.Sprintf(placeholderPage, runNumber)
	if err := os.WriteFile(filepath.Join(dest, "index.html"), []byte(page), 0o644); err != nil {
		return fmt.Errorf("writing placeholder page: %w", err)
	}
	return nil
}

const placeholderPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>No report</title></head>
<body>
<h1>No report was generated for run #%d</h1>
<p>The test step produced no report artifacts.</p>
</body>
</html>
`

// Sweep deletes report directories whose SHA is no longer in the
// history. An empty keep list means the history could not be read this
// run, so nothing is deleted; wiping every report over a transient read
// failure is worse than keeping a few stale directories.
func Sweep(siteDir string, keep []string) ([]string, error) {
	if len(keep) == 0 {
		return nil, nil
	}
	keepSet := make(map[string]struct{}, len(keep))
	for _, sha := range keep {
		keepSet[sha] = struct{}{}
	}

	runsPath := filepath.Join(siteDir, RunsDir)
	entries, err := os.ReadDir(runsPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", runsPath, err)
	}

	var removed []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, ok := keepSet[e.Name()]; ok {
			continue
		}
		if err := os.RemoveAll(filepath.Join(runsPath, e.Name())); err != nil {
			return removed, fmt.Errorf("removing stale report %s: %w", e.Name(), err)
		}
		removed = append(removed, e.Name())
	}
	return removed, nil
}
