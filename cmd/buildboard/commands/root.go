// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands holds the buildboard Cobra command tree.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/buildboard-dev/buildboard/internal/config"
	"github.com/buildboard-dev/buildboard/internal/log"
)

// NewRootCmd constructs the buildboard root Cobra command.
func NewRootCmd() *cobra.Command {
	version := os.Getenv("BUILDBOARD_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	cmd := &cobra.Command{
		Use:           "buildboard",
		Short:         "buildboard - rolling test report history for CI",
		Long:          "buildboard maintains a bounded history of CI test runs, publishes per-commit report artifacts, and renders a static HTML dashboard.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().String("config", config.DefaultPath, "path to YAML config file")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of buildboard",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "buildboard version %s\n", version)
		},
	})

	cmd.AddCommand(NewUpdateCommand())
	cmd.AddCommand(NewRenderCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}

// loadConfig resolves the --config flag and applies the logging level.
// An explicitly named file must exist; the default path is optional.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(path, cmd.Flags().Changed("config"))
	if err != nil {
		return cfg, err
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		log.SetLevel("debug")
	} else {
		log.SetLevel(cfg.LogLevel)
	}
	return cfg, nil
}

// envOr returns the first non-empty environment value among keys, else def.
func envOr(def string, keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}
