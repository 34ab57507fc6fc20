package h2h

import (
	"testing"
	"time"

	"github.com/lmoreno/h2hpipe/internal/model"
)

func date(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// event builds a canonical event where winner beat loser wg-lg on day d.
// Entity order is normalized the same way ingestion does it.
func event(winner, loser string, wg, lg int, d string) model.CanonicalEvent {
	obs := model.RawObservation{
		ObservingEntity: winner, OpposingEntity: loser,
		Date: date(d), Outcome: model.OutcomeWin,
		GoalsFor: wg, GoalsAgainst: lg,
		SeasonLabel: "2023-2024",
	}
	return obs.Canonical()
}

// Concrete scenario: A beats B 3-1 on 2024-01-10.
func TestQuery_BothPerspectives(t *testing.T) {
	ix := NewIndex([]model.CanonicalEvent{event("A", "B", 3, 1, "2024-01-10")})

	got := ix.Query("A", "B", date("2024-02-01"))
	if got.MatchesPlayed != 1 || got.WinRate != 1.0 || got.AvgGoals != 3.0 {
		t.Errorf("A's perspective = %+v, want {1 1.0 3.0}", got)
	}

	got = ix.Query("B", "A", date("2024-02-01"))
	if got.MatchesPlayed != 1 || got.WinRate != 0.0 || got.AvgGoals != 1.0 {
		t.Errorf("B's perspective = %+v, want {1 0.0 1.0}", got)
	}
}

// An event dated exactly on the as-of date is the match being predicted;
// including it would leak its own outcome.
func TestQuery_AsOfBoundaryExcluded(t *testing.T) {
	ix := NewIndex([]model.CanonicalEvent{event("A", "B", 3, 1, "2024-01-10")})

	got := ix.Query("A", "B", date("2024-01-10"))
	if got.MatchesPlayed != 0 || got.WinRate != 0 || got.AvgGoals != 0 {
		t.Errorf("same-day event leaked into query: %+v", got)
	}

	// One day later the event qualifies.
	got = ix.Query("A", "B", date("2024-01-11"))
	if got.MatchesPlayed != 1 {
		t.Errorf("event strictly before as-of not counted: %+v", got)
	}
}

func TestQuery_NoHistoryIsZero(t *testing.T) {
	ix := NewIndex([]model.CanonicalEvent{event("A", "B", 3, 1, "2024-01-10")})

	// Pair never met.
	got := ix.Query("A", "C", date("2024-02-01"))
	if got != (model.AggregateStats{}) {
		t.Errorf("unknown pair should yield zero stats, got %+v", got)
	}

	// Pair met, but only after the as-of date.
	got = ix.Query("A", "B", date("2023-12-01"))
	if got != (model.AggregateStats{}) {
		t.Errorf("future-only history should yield zero stats, got %+v", got)
	}
}

func TestQuery_MultipleEventsMean(t *testing.T) {
	events := []model.CanonicalEvent{
		event("A", "B", 3, 1, "2024-01-10"), // A wins, scores 3
		event("B", "A", 2, 0, "2024-02-14"), // B wins, A scores 0
		event("A", "B", 1, 0, "2024-03-20"), // A wins, scores 1
	}
	ix := NewIndex(events)

	got := ix.Query("A", "B", date("2024-04-01"))
	if got.MatchesPlayed != 3 {
		t.Fatalf("MatchesPlayed = %d, want 3", got.MatchesPlayed)
	}
	if want := 2.0 / 3.0; got.WinRate != want {
		t.Errorf("WinRate = %v, want %v", got.WinRate, want)
	}
	if want := 4.0 / 3.0; got.AvgGoals != want {
		t.Errorf("AvgGoals = %v, want %v", got.AvgGoals, want)
	}

	// Mid-window cut only sees the first event.
	got = ix.Query("A", "B", date("2024-02-14"))
	if got.MatchesPlayed != 1 || got.WinRate != 1.0 {
		t.Errorf("mid-window query = %+v, want 1 match, all won", got)
	}
}

func TestQuery_SymmetricLookup(t *testing.T) {
	ix := NewIndex([]model.CanonicalEvent{event("B", "A", 2, 0, "2024-01-10")})

	// The pair is found regardless of argument order; the stats follow the
	// first argument's perspective.
	fromA := ix.Query("A", "B", date("2024-02-01"))
	fromB := ix.Query("B", "A", date("2024-02-01"))
	if fromA.MatchesPlayed != 1 || fromB.MatchesPlayed != 1 {
		t.Fatalf("symmetric lookup failed: %+v / %+v", fromA, fromB)
	}
	if fromA.WinRate != 0.0 || fromB.WinRate != 1.0 {
		t.Errorf("perspective wrong: A=%v B=%v", fromA.WinRate, fromB.WinRate)
	}
}

func TestQuery_DrawCountsPlayedNotWon(t *testing.T) {
	obs := model.RawObservation{
		ObservingEntity: "A", OpposingEntity: "B",
		Date: date("2024-01-10"), Outcome: model.OutcomeDraw,
		GoalsFor: 2, GoalsAgainst: 2, SeasonLabel: "2023-2024",
	}
	ix := NewIndex([]model.CanonicalEvent{obs.Canonical()})

	got := ix.Query("A", "B", date("2024-02-01"))
	if got.MatchesPlayed != 1 || got.WinRate != 0 || got.AvgGoals != 2.0 {
		t.Errorf("draw handling wrong: %+v", got)
	}
}

func TestIndex_Size(t *testing.T) {
	ix := NewIndex([]model.CanonicalEvent{
		event("A", "B", 1, 0, "2024-01-10"),
		event("C", "D", 2, 1, "2024-01-11"),
	})
	if ix.Size() != 2 {
		t.Errorf("Size = %d, want 2", ix.Size())
	}
}
