package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/lmoreno/h2hpipe/internal/model"
	"github.com/lmoreno/h2hpipe/internal/storage"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintIngestSummary prints the run counters followed by a per-file table.
func PrintIngestSummary(w io.Writer, rep model.IngestReport, infos []model.SourceFileInfo) {
	fmt.Fprintf(w, "\nFiles: %d read, %d skipped  |  Records: %d kept, %d malformed  |  Duplicates removed: %d\n\n",
		rep.FilesRead, rep.FilesSkipped, rep.RecordsKept, rep.RecordsMalformed, rep.DuplicatesRemoved)

	table := newTable(w)
	table.Header("FILE", "ENTITY", "SEASON", "ROWS", "DROPPED")
	for _, s := range infos {
		table.Append(s.Name, s.Entity, s.SeasonLabel,
			strconv.Itoa(s.Rows), strconv.Itoa(s.Dropped))
	}
	table.Render()
}

// PrintQueryResult prints both perspective aggregates of one pair query.
func PrintQueryResult(w io.Writer, entityX, entityY, asOf string, x, y model.AggregateStats) {
	fmt.Fprintf(w, "\n%s vs %s  |  history strictly before %s\n\n", entityX, entityY, asOf)

	table := newTable(w)
	table.Header("PERSPECTIVE", "MATCHES", "WIN_RATE", "AVG_GOALS")
	table.Append(entityX, strconv.Itoa(x.MatchesPlayed),
		fmt.Sprintf("%.3f", x.WinRate), fmt.Sprintf("%.2f", x.AvgGoals))
	table.Append(entityY, strconv.Itoa(y.MatchesPlayed),
		fmt.Sprintf("%.3f", y.WinRate), fmt.Sprintf("%.2f", y.AvgGoals))
	table.Render()
}

// PrintSeasonList prints stored event coverage per season.
func PrintSeasonList(w io.Writer, seasons []storage.SeasonSummary) {
	table := newTable(w)
	table.Header("SEASON", "EVENTS", "PAIRS", "FIRST", "LAST")
	for _, s := range seasons {
		table.Append(s.SeasonLabel, strconv.Itoa(s.Events), strconv.Itoa(s.Pairs),
			s.FirstDate, s.LastDate)
	}
	table.Render()
}
