// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads the optional YAML settings file. Flags and
// environment variables override whatever the file says; the file
// exists so a repository can pin its site layout without per-workflow
// flag soup.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/buildboard-dev/buildboard/internal/history"
)

// DefaultPath is where Load looks when no --config flag is given.
const DefaultPath = ".buildboard.yaml"

type Config struct {
	SiteDir     string `yaml:"site_dir"`
	ReportDir   string `yaml:"report_dir"`
	HistoryFile string `yaml:"history_file"`
	Capacity    int    `yaml:"capacity"`
	Title       string `yaml:"title"`
	LogLevel    string `yaml:"log_level"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		SiteDir:     "site",
		HistoryFile: "history.json",
		Capacity:    history.DefaultCapacity,
		Title:       "Test Report History",
		LogLevel:    "info",
	}
}

// Load reads the file at path over the defaults. A missing file at the
// default path is fine; a missing file the operator pointed at
// explicitly is an error, as is any file that does not parse — a
// malformed config was written on purpose and should not be silently
// ignored.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if explicit {
			return cfg, fmt.Errorf("config file %s not found", path)
		}
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = history.DefaultCapacity
	}
	return cfg, nil
}
