package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lmoreno/h2hpipe/internal/feature"
	"github.com/lmoreno/h2hpipe/internal/h2h"
	"github.com/lmoreno/h2hpipe/internal/storage"
)

var (
	featFixtures string
	featTable    string
	featOut      string
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Join as-of head-to-head aggregates onto a per-record table",
	Long: `For every fixture, computes home- and away-perspective aggregates over
events dated strictly before the fixture date, reduces them to one summary
row per (season, team), and left-joins those summaries onto the external
table on (Season, Squad). Unmatched rows get explicit zeros in the four
appended columns; every other column passes through untouched.

Example:
  h2hpipe features \
    --fixtures processed_data/fixtures_master.csv \
    --table    processed_data/master_player_stats.csv \
    --out      processed_data/master_player_stats_h2h.csv`,
	RunE: runFeatures,
}

func init() {
	featuresCmd.Flags().StringVar(&featFixtures, "fixtures", "", "fixture CSV file (required)")
	featuresCmd.Flags().StringVar(&featTable, "table", "", "per-record CSV table to enrich (required)")
	featuresCmd.Flags().StringVar(&featOut, "out", "", "output path; bare filenames land in processed_dir (stdout if omitted)")
	_ = featuresCmd.MarkFlagRequired("fixtures")
	_ = featuresCmd.MarkFlagRequired("table")
}

func runFeatures(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

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
	ix := h2h.NewIndex(events)

	fixtures, err := feature.LoadFixtures(featFixtures, log)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Querying %d fixtures against %d events (%d workers)...\n",
		len(fixtures), ix.Size(), cfg.Workers)

	feats := feature.BuildFixtureFeatures(ix, fixtures, cfg.Workers)
	summaries := feature.Summarize(feats)
	fmt.Fprintf(os.Stderr, "Reduced to %d (season, team) summaries\n", len(summaries))

	table, err := feature.LoadTable(featTable)
	if err != nil {
		return err
	}
	joined, err := feature.JoinSummaries(table, summaries)
	if err != nil {
		return fmt.Errorf("join: %w", err)
	}

	out, err := resolveOut(cfg, featOut)
	if err != nil {
		return err
	}
	if out == "" {
		return joined.Write(os.Stdout)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()
	if err := joined.Write(f); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %d rows to %s\n", len(joined.Rows), out)
	return nil
}
