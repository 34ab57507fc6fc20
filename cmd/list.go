package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lmoreno/h2hpipe/internal/report"
	"github.com/lmoreno/h2hpipe/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored seasons and their event coverage",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := storage.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer db.Close()

		seasons, err := db.ListSeasons()
		if err != nil {
			return fmt.Errorf("list seasons: %w", err)
		}
		if len(seasons) == 0 {
			fmt.Println("no events stored; run ingest first")
			return nil
		}
		report.PrintSeasonList(os.Stdout, seasons)
		return nil
	},
}
