// Package config defines the pipeline configuration and its loading rules.
// Config values are built here and passed into pipeline entry points
// explicitly; no package reads configuration from process-wide state.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Config holds every tunable of a pipeline run.
type Config struct {
	// Env selects the logging encoder: "local", "dev", "prod".
	Env string `koanf:"env"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// RawDir is the directory of per-(entity, season) source files.
	RawDir string `koanf:"raw_dir"`

	// ProcessedDir is where exported tables are written by default.
	ProcessedDir string `koanf:"processed_dir"`

	// DBPath is the canonical event log database. Overridable via --db.
	DBPath string `koanf:"db_path"`

	// Seasons restricts ingestion to the listed season labels. Empty = all.
	Seasons []string `koanf:"seasons"`

	// Workers bounds the fixture-query worker pool.
	Workers int `koanf:"workers"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Env:          "local",
		LogLevel:     "info",
		RawDir:       filepath.Join("raw_data", "h2h"),
		ProcessedDir: "processed_data",
		DBPath:       defaultDBPath(),
		Workers:      runtime.NumCPU(),
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".h2hpipe", "events.db")
}

// SeasonAllowed reports whether a season label passes the whitelist.
func (c *Config) SeasonAllowed(label string) bool {
	if len(c.Seasons) == 0 {
		return true
	}
	for _, s := range c.Seasons {
		if s == label {
			return true
		}
	}
	return false
}
