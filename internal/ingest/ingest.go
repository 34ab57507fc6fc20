// Package ingest reads per-(entity, season) match-log files and normalizes
// them into RawObservations. Files that fail the structural contract are
// skipped; rows that fail validation are dropped and counted, never coerced
// into values that could pass for real zeros.
package ingest

import (
	"crypto/sha256"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lmoreno/h2hpipe/internal/model"
)

// ErrNoSources is returned when the raw directory yields no usable files.
var ErrNoSources = errors.New("no source files found")

// matchLogSchema is the versioned column contract for match-log sources.
// Columns are matched by exact name after trimming; a file whose header does
// not carry all of them is rejected whole, nothing is inferred from partial
// or lookalike headers.
var matchLogSchema = []string{"Date", "Competition", "Opponent", "Result", "Goals_For", "Goals_Against"}

// dateLayouts is the whitelist of accepted date formats: ISO first, then the
// day-first forms and the long form seen in scraped exports. Day-first order
// is fixed here rather than guessed per value.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"Jan 2, 2006",
}

// Source identifies one raw file and the entity/season encoded in its name.
type Source struct {
	Path        string
	Entity      string
	SeasonLabel string
}

// ParseSourceName decodes a `{Entity_Name}_{season}.csv` filename. Underscores
// in the entity part stand for spaces; the season is the last underscore
// token. A legacy `_h2h` suffix before the extension is tolerated.
func ParseSourceName(name string) (entity, season string, err error) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.TrimSuffix(base, "_h2h")
	parts := strings.Split(base, "_")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("filename %q does not encode entity_season", name)
	}
	season = parts[len(parts)-1]
	entity = strings.Join(parts[:len(parts)-1], " ")
	if entity == "" || season == "" {
		return "", "", fmt.Errorf("filename %q has empty entity or season", name)
	}
	return entity, season, nil
}

// ScanDir lists the usable sources under dir in deterministic (name) order.
// The order matters: it fixes which duplicate record is first-seen downstream.
func ScanDir(dir string, seasonAllowed func(string) bool) ([]Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read raw dir %s: %w", dir, err)
	}

	var sources []Source
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		entity, season, err := ParseSourceName(e.Name())
		if err != nil {
			continue // not a match-log file
		}
		if seasonAllowed != nil && !seasonAllowed(season) {
			continue
		}
		sources = append(sources, Source{
			Path:        filepath.Join(dir, e.Name()),
			Entity:      entity,
			SeasonLabel: season,
		})
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].Path < sources[j].Path })
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSources, dir)
	}
	return sources, nil
}

// FileResult is one source file's normalized rows plus its audit counters.
type FileResult struct {
	Observations []model.RawObservation
	Info         model.SourceFileInfo
}

// ReadSource parses one source file. A structural failure (unreadable file,
// missing contract columns) returns an error and no rows; the caller decides
// whether that aborts the run. Row-level failures drop the row only.
func ReadSource(src Source, log *zap.Logger) (FileResult, error) {
	res := FileResult{Info: model.SourceFileInfo{
		Name:        filepath.Base(src.Path),
		Entity:      src.Entity,
		SeasonLabel: src.SeasonLabel,
	}}

	f, err := os.Open(src.Path)
	if err != nil {
		return res, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	// Hash file content for the audit table.
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return res, fmt.Errorf("hash source: %w", err)
	}
	res.Info.Hash = fmt.Sprintf("%x", h.Sum(nil))
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return res, fmt.Errorf("rewind source: %w", err)
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows are handled per-row

	header, err := r.Read()
	if err != nil {
		return res, fmt.Errorf("read header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return res, err
	}

	line := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read row: %w", err)
		}
		line++
		res.Info.Rows++

		obs, reason := normalizeRow(src, rec, cols, line)
		if reason != "" {
			res.Info.Dropped++
			log.Warn("dropping malformed record",
				zap.String("file", res.Info.Name),
				zap.Int("row", line),
				zap.String("reason", reason))
			continue
		}
		res.Observations = append(res.Observations, obs)
	}
	return res, nil
}

// mapColumns resolves the schema contract against a header row.
func mapColumns(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	cols := make(map[string]int, len(matchLogSchema))
	var missing []string
	for _, name := range matchLogSchema {
		i, ok := idx[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		cols[name] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("header missing required columns %v", missing)
	}
	return cols, nil
}

// normalizeRow validates and converts one data row. The returned reason is
// empty on success; otherwise it names the first failed check.
func normalizeRow(src Source, rec []string, cols map[string]int, line int) (model.RawObservation, string) {
	cell := func(name string) string {
		i := cols[name]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	opponent := cell("Opponent")
	if src.Entity == "" {
		return model.RawObservation{}, "empty observing entity"
	}
	if opponent == "" {
		return model.RawObservation{}, "empty opposing entity"
	}

	rawDate := cell("Date")
	if rawDate == "" || rawDate == "Date" { // repeated in-file header row
		return model.RawObservation{}, "missing date"
	}
	date, ok := parseDate(rawDate)
	if !ok {
		return model.RawObservation{}, fmt.Sprintf("unparseable date %q", rawDate)
	}

	outcome := model.ParseOutcome(cell("Result"))
	if outcome == model.OutcomeUnknown {
		return model.RawObservation{}, fmt.Sprintf("unparseable result %q", cell("Result"))
	}

	gf, ok := parseGoals(cell("Goals_For"))
	if !ok {
		return model.RawObservation{}, fmt.Sprintf("unparseable goals_for %q", cell("Goals_For"))
	}
	ga, ok := parseGoals(cell("Goals_Against"))
	if !ok {
		return model.RawObservation{}, fmt.Sprintf("unparseable goals_against %q", cell("Goals_Against"))
	}

	return model.RawObservation{
		ObservingEntity: src.Entity,
		OpposingEntity:  opponent,
		Date:            date,
		Outcome:         outcome,
		GoalsFor:        gf,
		GoalsAgainst:    ga,
		Competition:     cell("Competition"),
		SeasonLabel:     src.SeasonLabel,
		SourceFile:      filepath.Base(src.Path),
		Line:            line,
	}, ""
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseGoals reads the leading integer of a goals cell. Some exports annotate
// shootout results like "1 (4)"; the part after the first space is ignored.
func parseGoals(s string) (int, bool) {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// ReadAll scans dir and parses every usable source. Structurally broken files
// are skipped with a warning; partial coverage degrades precision but does not
// invalidate the run. The returned report carries file and row counters;
// duplicate counts are filled in later by the dedupe stage.
func ReadAll(dir string, seasonAllowed func(string) bool, log *zap.Logger) ([]model.RawObservation, []model.SourceFileInfo, model.IngestReport, error) {
	var (
		report model.IngestReport
		infos  []model.SourceFileInfo
		all    []model.RawObservation
	)

	sources, err := ScanDir(dir, seasonAllowed)
	if err != nil {
		return nil, nil, report, err
	}

	for _, src := range sources {
		res, err := ReadSource(src, log)
		if err != nil {
			report.FilesSkipped++
			log.Warn("skipping source file",
				zap.String("file", filepath.Base(src.Path)),
				zap.Error(err))
			continue
		}
		report.FilesRead++
		report.RecordsMalformed += res.Info.Dropped
		all = append(all, res.Observations...)
		infos = append(infos, res.Info)
	}
	return all, infos, report, nil
}
