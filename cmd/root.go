package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lmoreno/h2hpipe/internal/config"
	"github.com/lmoreno/h2hpipe/internal/logger"
)

var (
	dbPath  string
	cfgPath string
)

var rootCmd = &cobra.Command{
	Use:   "h2hpipe",
	Short: "Head-to-head match history feature pipeline",
	Long: "Reconcile per-team match-log files into a canonical event log and\n" +
		"derive leakage-free historical features for match modeling.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite event log (overrides config)")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(exportCmd)
}

// loadConfig layers the config file and env over defaults and applies the
// --db override.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New("h2hpipe", cfg.Env, cfg.LogLevel)
}

// resolveOut places bare output filenames under the configured processed dir,
// creating it if needed. Paths that carry a directory are used as given.
func resolveOut(cfg *config.Config, out string) (string, error) {
	if out == "" || strings.ContainsAny(out, `/\`) {
		return out, nil
	}
	if err := os.MkdirAll(cfg.ProcessedDir, 0o755); err != nil {
		return "", fmt.Errorf("create processed dir: %w", err)
	}
	return filepath.Join(cfg.ProcessedDir, out), nil
}
