package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lmoreno/h2hpipe/internal/report"
	"github.com/lmoreno/h2hpipe/internal/storage"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the canonical event log as CSV",
	Long: `Writes the deduplicated event log sorted by (season, date, pair).
Re-running after an ingest of unchanged sources produces a byte-identical
file.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path; bare filenames land in processed_dir (stdout if omitted)")
}

func runExport(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	events, err := db.ListEvents()
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}
	if len(events) == 0 {
		return fmt.Errorf("event log is empty; run ingest first")
	}

	out, err := resolveOut(cfg, exportOut)
	if err != nil {
		return err
	}
	if out == "" {
		return report.WriteEventsCSV(os.Stdout, events)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()
	if err := report.WriteEventsCSV(f, events); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %d event(s) to %s\n", len(events), out)
	return nil
}
