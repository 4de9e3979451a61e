// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/buildboard-dev/buildboard/cmd/buildboard/internal/clierr"
	"github.com/buildboard-dev/buildboard/internal/history"
)

// NewHistoryCommand prints the recorded runs, for poking at the state
// from a shell without opening the dashboard.
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the recorded run history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return clierr.Wrap(1, "history", err)
			}

			store, err := history.Load(filepath.Join(cfg.SiteDir, cfg.HistoryFile), cfg.Capacity)
			if err != nil {
				return clierr.Wrap(1, "history: loading history", err)
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(store.Records())
			}

			if store.Len() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return nil
			}
			for _, r := range store.Records() {
				fmt.Fprintf(cmd.OutOrStdout(), "#%-4d %s  %-7s  %s  %s  %s\n",
					r.RunNumber, r.ShortSHA(), r.Status, r.Timestamp, r.Duration, r.CommitMessage)
			}
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "output the history as JSON")

	return cmd
}
