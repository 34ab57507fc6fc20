package report

import (
	"bytes"
	"strings"
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

func TestWriteEventsCSV(t *testing.T) {
	events := []model.CanonicalEvent{
		{
			EntityA: "Arsenal", EntityB: "West Ham", Date: date("2024-01-10"),
			SeasonLabel: "2023-2024", Competition: "Premier League",
			GoalsA: 3, GoalsB: 1, OutcomeA: model.OutcomeWin,
		},
	}

	var buf bytes.Buffer
	if err := WriteEventsCSV(&buf, events); err != nil {
		t.Fatalf("WriteEventsCSV: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if lines[0] != "Entity_A,Entity_B,Date,Season,Competition,Goals_A,Goals_B,Outcome_A" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "Arsenal,West Ham,2024-01-10,2023-2024,Premier League,3,1,W" {
		t.Errorf("row = %q", lines[1])
	}
}

// Same events, same bytes: the export must be reproducible.
func TestWriteEventsCSV_Idempotent(t *testing.T) {
	events := []model.CanonicalEvent{
		{
			EntityA: "Arsenal", EntityB: "Chelsea", Date: date("2024-01-10"),
			SeasonLabel: "2023-2024", GoalsA: 3, GoalsB: 1, OutcomeA: model.OutcomeWin,
		},
		{
			EntityA: "Chelsea", EntityB: "Spurs", Date: date("2024-02-01"),
			SeasonLabel: "2023-2024", GoalsA: 2, GoalsB: 2, OutcomeA: model.OutcomeDraw,
		},
	}

	var b1, b2 bytes.Buffer
	if err := WriteEventsCSV(&b1, events); err != nil {
		t.Fatal(err)
	}
	if err := WriteEventsCSV(&b2, events); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b1.Bytes(), b2.Bytes()) {
		t.Error("repeated exports differ")
	}
}

func TestWriteEventsCSV_EmptyLogHasHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEventsCSV(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(buf.String(), "\n"); got != 1 {
		t.Errorf("expected header line only, got %d lines", got)
	}
}
