package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lmoreno/h2hpipe/internal/h2h"
	"github.com/lmoreno/h2hpipe/internal/model"
	"github.com/lmoreno/h2hpipe/internal/report"
	"github.com/lmoreno/h2hpipe/internal/storage"
)

var queryAsOf string

var queryCmd = &cobra.Command{
	Use:   "query ENTITY_A ENTITY_B",
	Short: "Show head-to-head history for a pair strictly before a date",
	Args:  cobra.ExactArgs(2),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryAsOf, "as-of", "", "cutoff date YYYY-MM-DD (required)")
	_ = queryCmd.MarkFlagRequired("as-of")
}

func runQuery(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	asOf, err := time.Parse(model.DateLayout, queryAsOf)
	if err != nil {
		return fmt.Errorf("invalid --as-of %q: %w", queryAsOf, err)
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

	ix := h2h.NewIndex(events)
	x, y := args[0], args[1]
	report.PrintQueryResult(os.Stdout, x, y, queryAsOf,
		ix.Query(x, y, asOf), ix.Query(y, x, asOf))
	return nil
}
