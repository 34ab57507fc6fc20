package feature

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// FeatureColumns are the four numeric columns appended by the join, in output
// order. Their names are a contract with downstream model prep.
var FeatureColumns = []string{
	"h2h_win_rate_home",
	"h2h_avg_goals_home",
	"h2h_win_rate_away",
	"h2h_avg_goals_away",
}

// Table is an external per-record table held as opaque cells. Rows are never
// reinterpreted or rewritten; the join can only append new cells, so original
// columns survive byte-identical.
type Table struct {
	Header []string
	Rows   [][]string
}

// LoadTable reads a CSV table, preserving every cell verbatim.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read table header: %w", err)
	}
	t := &Table{Header: header}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read table row: %w", err)
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// Write emits the table as CSV.
func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// JoinSummaries left-joins the summaries onto the table on (Season, Squad)
// and appends the four feature columns. Every input row appears exactly once
// in the output; rows without a matching summary get explicit zeros in the
// new columns only. Pre-existing cells are carried over untouched; filling
// a whole row's empty cells here would corrupt unrelated categorical columns.
func JoinSummaries(t *Table, summaries []Summary) (*Table, error) {
	seasonIdx, squadIdx := -1, -1
	for i, h := range t.Header {
		switch strings.TrimSpace(h) {
		case "Season":
			seasonIdx = i
		case "Squad":
			squadIdx = i
		}
	}
	if seasonIdx < 0 || squadIdx < 0 {
		return nil, fmt.Errorf("table header missing join columns Season/Squad")
	}
	for _, h := range t.Header {
		for _, fc := range FeatureColumns {
			if strings.TrimSpace(h) == fc {
				return nil, fmt.Errorf("table already has feature column %q", fc)
			}
		}
	}

	type joinKey struct{ season, entity string }
	bySeasonEntity := make(map[joinKey]Summary, len(summaries))
	for _, s := range summaries {
		bySeasonEntity[joinKey{s.SeasonLabel, s.Entity}] = s
	}

	out := &Table{
		Header: append(append([]string{}, t.Header...), FeatureColumns...),
		Rows:   make([][]string, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		cell := func(i int) string {
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		// Missing join key falls through to the zero-valued Summary.
		s := bySeasonEntity[joinKey{cell(seasonIdx), cell(squadIdx)}]

		joined := append(append([]string{}, row...),
			formatFeature(s.WinRateHome),
			formatFeature(s.AvgGoalsHome),
			formatFeature(s.WinRateAway),
			formatFeature(s.AvgGoalsAway),
		)
		out.Rows = append(out.Rows, joined)
	}
	return out, nil
}

// formatFeature renders a feature value deterministically; zero is "0", never
// an empty or sentinel cell.
func formatFeature(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
