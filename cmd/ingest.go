package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lmoreno/h2hpipe/internal/dedupe"
	"github.com/lmoreno/h2hpipe/internal/ingest"
	"github.com/lmoreno/h2hpipe/internal/report"
	"github.com/lmoreno/h2hpipe/internal/storage"
)

var ingestRawDir string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Canonicalize and deduplicate raw match-log files into the event log",
	Long: `Reads every {Entity}_{season}.csv match-log file in the raw directory,
normalizes both-perspective records into canonical events, collapses
duplicates (first-seen wins) and rebuilds the SQLite event log from scratch.

Example:
  h2hpipe ingest --raw-dir raw_data/h2h`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestRawDir, "raw-dir", "", "source directory (overrides config raw_dir)")
}

func runIngest(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	rawDir := cfg.RawDir
	if ingestRawDir != "" {
		rawDir = ingestRawDir
	}

	observations, infos, rep, err := ingest.ReadAll(rawDir, cfg.SeasonAllowed, log)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", rawDir, err)
	}

	res := dedupe.Collapse(observations)
	rep.RecordsKept = len(res.Events)
	rep.DuplicatesRemoved = res.DuplicatesRemoved
	if res.Conflicts > 0 {
		log.Warn("conflicting duplicates resolved first-seen",
			zap.Int("conflicts", res.Conflicts))
	}

	// Every downstream query against an empty log would report fake all-zero
	// history, so this is the one fatal condition of the pipeline.
	if len(res.Events) == 0 {
		return fmt.Errorf("no canonical events produced from %s", rawDir)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	if err := db.ReplaceEvents(res.Events); err != nil {
		return fmt.Errorf("store events: %w", err)
	}
	if err := db.ReplaceSources(infos); err != nil {
		return fmt.Errorf("store source audit: %w", err)
	}

	log.Info("ingest complete",
		zap.Int("files", rep.FilesRead),
		zap.Int("events", rep.RecordsKept),
		zap.Int("duplicates_removed", rep.DuplicatesRemoved),
		zap.Int("malformed", rep.RecordsMalformed))

	report.PrintIngestSummary(os.Stdout, rep, infos)
	return nil
}
