package feature

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lmoreno/h2hpipe/internal/model"
)

// fixtureSchema is the column contract for the fixture file. Only these four
// are interpreted; any further columns (goals, xG, week number) are ignored.
var fixtureSchema = []string{"Season", "Date", "Home", "Away"}

// fixtureDateLayouts mirrors the ingest whitelist: ISO first, then day-first.
var fixtureDateLayouts = []string{"2006-01-02", "02/01/2006", "02-01-2006", "Jan 2, 2006"}

// LoadFixtures reads the fixture table. Rows that cannot be queried against
// (bad date, empty team name) are skipped with a warning; the file failing
// its header contract is an error.
func LoadFixtures(path string, log *zap.Logger) ([]model.FixtureRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixtures: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read fixtures header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, name := range fixtureSchema {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("fixtures header missing required columns %v", missing)
	}

	var fixtures []model.FixtureRow
	line := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read fixtures row: %w", err)
		}
		line++

		cell := func(name string) string {
			i := idx[name]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		home, away := cell("Home"), cell("Away")
		if home == "" || away == "" {
			log.Warn("skipping fixture with empty team", zap.Int("row", line))
			continue
		}
		date, ok := parseFixtureDate(cell("Date"))
		if !ok {
			log.Warn("skipping fixture with unparseable date",
				zap.Int("row", line), zap.String("date", cell("Date")))
			continue
		}
		fixtures = append(fixtures, model.FixtureRow{
			SeasonLabel: cell("Season"),
			Date:        date,
			HomeEntity:  home,
			AwayEntity:  away,
		})
	}
	return fixtures, nil
}

func parseFixtureDate(s string) (time.Time, bool) {
	for _, layout := range fixtureDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
