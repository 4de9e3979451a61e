// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/buildboard-dev/buildboard/cmd/buildboard/internal/clierr"
	"github.com/buildboard-dev/buildboard/internal/history"
)

// NewRenderCommand regenerates the dashboard from the history already
// on disk, without recording anything. Useful after a template change
// or a hand edit to the history file.
func NewRenderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Regenerate the dashboard from the existing history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return clierr.Wrap(1, "render", err)
			}

			siteDir := cfg.SiteDir
			if v := flagString(cmd, "site-dir"); v != "" {
				siteDir = v
			}

			store, err := history.Load(filepath.Join(siteDir, cfg.HistoryFile), cfg.Capacity)
			if err != nil {
				return clierr.Wrap(1, "render: loading history", err)
			}
			if err := renderDashboard(store, siteDir, cfg.Title); err != nil {
				return clierr.Wrap(1, "render", err)
			}
			return nil
		},
	}

	cmd.Flags().String("site-dir", "", "site output directory (overrides config)")

	return cmd
}
