package model

import (
	"strings"
	"time"
)

// DateLayout is the canonical date format used across storage and exports.
const DateLayout = "2006-01-02"

// Outcome is a match result from one entity's perspective.
type Outcome int

const (
	OutcomeUnknown Outcome = 0
	OutcomeWin     Outcome = 1
	OutcomeDraw    Outcome = 2
	OutcomeLoss    Outcome = 3
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "W"
	case OutcomeDraw:
		return "D"
	case OutcomeLoss:
		return "L"
	default:
		return "?"
	}
}

// ParseOutcome reads the leading outcome letter of a Result cell. Source
// exports append annotations after the letter ("W (pens)", "L 1-3"), so only
// the first rune counts.
func ParseOutcome(s string) Outcome {
	s = strings.TrimSpace(s)
	if s == "" {
		return OutcomeUnknown
	}
	switch s[0] {
	case 'W', 'w':
		return OutcomeWin
	case 'D', 'd':
		return OutcomeDraw
	case 'L', 'l':
		return OutcomeLoss
	default:
		return OutcomeUnknown
	}
}

// Invert flips the perspective: the observer's win is the opponent's loss.
func (o Outcome) Invert() Outcome {
	switch o {
	case OutcomeWin:
		return OutcomeLoss
	case OutcomeLoss:
		return OutcomeWin
	default:
		return o
	}
}

// ---- Raw records produced by ingestion ----

// RawObservation is one match as recorded in one entity's source file. The
// same real match appears twice across the input set, once per participant.
type RawObservation struct {
	ObservingEntity string
	OpposingEntity  string
	Date            time.Time
	Outcome         Outcome // from the observing entity's perspective
	GoalsFor        int
	GoalsAgainst    int
	Competition     string
	SeasonLabel     string

	SourceFile string // basename, for drop diagnostics
	Line       int    // 1-based data row within the file
}

// Canonical normalizes the observation into a perspective-independent event:
// entities in lexicographic order, goals and outcome re-expressed for EntityA.
func (o RawObservation) Canonical() CanonicalEvent {
	e := CanonicalEvent{
		EntityA:     o.ObservingEntity,
		EntityB:     o.OpposingEntity,
		Date:        o.Date,
		SeasonLabel: o.SeasonLabel,
		Competition: o.Competition,
		GoalsA:      o.GoalsFor,
		GoalsB:      o.GoalsAgainst,
		OutcomeA:    o.Outcome,
	}
	if e.EntityB < e.EntityA {
		e.EntityA, e.EntityB = e.EntityB, e.EntityA
		e.GoalsA, e.GoalsB = e.GoalsB, e.GoalsA
		e.OutcomeA = e.OutcomeA.Invert()
	}
	return e
}

// ---- Canonical event log ----

// CanonicalEvent is the deduplicated record of one real match. EntityA sorts
// lexicographically before EntityB; OutcomeA and GoalsA/GoalsB are expressed
// from EntityA's perspective.
type CanonicalEvent struct {
	EntityA     string
	EntityB     string
	Date        time.Time
	SeasonLabel string
	Competition string
	GoalsA      int
	GoalsB      int
	OutcomeA    Outcome
}

// IdentityKey is the symmetric duplicate-detection key: sorted entity pair
// plus date. Both perspective records of the same match map to the same key;
// the season label is excluded so overlapping season files still collapse.
func (e CanonicalEvent) IdentityKey() string {
	return IdentityKey(e.EntityA, e.EntityB, e.Date)
}

// IdentityKey builds the symmetric key for any entity pair and date.
func IdentityKey(x, y string, date time.Time) string {
	if y < x {
		x, y = y, x
	}
	return x + "|" + y + "|" + date.Format(DateLayout)
}

// GoalsOf returns the goals scored by the named entity in this event, and
// whether the entity took part at all.
func (e CanonicalEvent) GoalsOf(entity string) (int, bool) {
	switch entity {
	case e.EntityA:
		return e.GoalsA, true
	case e.EntityB:
		return e.GoalsB, true
	default:
		return 0, false
	}
}

// WonBy reports whether the named entity is on the winning side of this event.
func (e CanonicalEvent) WonBy(entity string) bool {
	switch entity {
	case e.EntityA:
		return e.OutcomeA == OutcomeWin
	case e.EntityB:
		return e.OutcomeA == OutcomeLoss
	default:
		return false
	}
}

// ---- Aggregates ----

// AggregateStats is the answer to one as-of query. A pair with no qualifying
// history yields the zero value, never a missing result.
type AggregateStats struct {
	MatchesPlayed int
	WinRate       float64 // wins of the queried entity / MatchesPlayed, 0 when empty
	AvgGoals      float64 // mean goals of the queried entity, 0 when empty
}

// FixtureRow is one match to be enriched. Consumed read-only; only these four
// fields are interpreted, everything else in the fixture file is ignored.
type FixtureRow struct {
	SeasonLabel string
	Date        time.Time
	HomeEntity  string
	AwayEntity  string
}

// FixtureFeatures pairs a fixture with its two perspective aggregates.
// Historical context is asymmetric, so home and away are computed separately.
type FixtureFeatures struct {
	Fixture FixtureRow
	Home    AggregateStats // as seen by the home entity
	Away    AggregateStats // as seen by the away entity
}

// ---- Ingest audit ----

// IngestReport accumulates the observable side effects of one ingest run.
// Dropped and duplicate counts are part of the pipeline contract, not debug
// output.
type IngestReport struct {
	FilesRead         int
	FilesSkipped      int
	RecordsKept       int
	RecordsMalformed  int
	DuplicatesRemoved int
}

// SourceFileInfo describes one ingested source file for the audit table.
type SourceFileInfo struct {
	Name        string
	Entity      string
	SeasonLabel string
	Hash        string // sha256 of the file content
	Rows        int
	Dropped     int
}
