package model

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParseOutcome(t *testing.T) {
	cases := []struct {
		in   string
		want Outcome
	}{
		{"W", OutcomeWin},
		{"L", OutcomeLoss},
		{"D", OutcomeDraw},
		{"W (pens)", OutcomeWin},    // trailing annotation text
		{"  l 1-3 ", OutcomeLoss},   // lowercase, surrounding noise
		{"", OutcomeUnknown},
		{"X", OutcomeUnknown},
	}
	for _, c := range cases {
		if got := ParseOutcome(c.in); got != c.want {
			t.Errorf("ParseOutcome(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestCanonical_ObserverAlreadyFirst(t *testing.T) {
	obs := RawObservation{
		ObservingEntity: "Arsenal",
		OpposingEntity:  "Chelsea",
		Date:            date("2024-01-10"),
		Outcome:         OutcomeWin,
		GoalsFor:        3,
		GoalsAgainst:    1,
		SeasonLabel:     "2023-2024",
	}
	ev := obs.Canonical()
	if ev.EntityA != "Arsenal" || ev.EntityB != "Chelsea" {
		t.Fatalf("entities not in canonical order: %s vs %s", ev.EntityA, ev.EntityB)
	}
	if ev.GoalsA != 3 || ev.GoalsB != 1 || ev.OutcomeA != OutcomeWin {
		t.Errorf("payload changed without a flip: goals %d-%d outcome %v", ev.GoalsA, ev.GoalsB, ev.OutcomeA)
	}
}

func TestCanonical_FlipsPerspective(t *testing.T) {
	// Chelsea's file records the same match: they lost 1-3.
	obs := RawObservation{
		ObservingEntity: "Chelsea",
		OpposingEntity:  "Arsenal",
		Date:            date("2024-01-10"),
		Outcome:         OutcomeLoss,
		GoalsFor:        1,
		GoalsAgainst:    3,
	}
	ev := obs.Canonical()
	if ev.EntityA != "Arsenal" || ev.EntityB != "Chelsea" {
		t.Fatalf("entities not reordered: %s vs %s", ev.EntityA, ev.EntityB)
	}
	if ev.GoalsA != 3 || ev.GoalsB != 1 {
		t.Errorf("goals not flipped with entities: %d-%d", ev.GoalsA, ev.GoalsB)
	}
	if ev.OutcomeA != OutcomeWin {
		t.Errorf("outcome not inverted: got %v, want W", ev.OutcomeA)
	}
}

func TestIdentityKey_Symmetric(t *testing.T) {
	d := date("2024-01-10")
	k1 := IdentityKey("Arsenal", "Chelsea", d)
	k2 := IdentityKey("Chelsea", "Arsenal", d)
	if k1 != k2 {
		t.Errorf("identity key not symmetric: %q vs %q", k1, k2)
	}

	// Same pair on a different date is a different event.
	k3 := IdentityKey("Arsenal", "Chelsea", date("2024-01-11"))
	if k1 == k3 {
		t.Error("identity key ignores the date")
	}
}

func TestWonByAndGoalsOf(t *testing.T) {
	ev := CanonicalEvent{
		EntityA: "Arsenal", EntityB: "Chelsea",
		Date: date("2024-01-10"), GoalsA: 3, GoalsB: 1, OutcomeA: OutcomeWin,
	}
	if !ev.WonBy("Arsenal") {
		t.Error("Arsenal should be the winning side")
	}
	if ev.WonBy("Chelsea") {
		t.Error("Chelsea should not be the winning side")
	}
	if ev.WonBy("Spurs") {
		t.Error("non-participant cannot win")
	}

	if g, ok := ev.GoalsOf("Chelsea"); !ok || g != 1 {
		t.Errorf("GoalsOf(Chelsea) = %d,%v; want 1,true", g, ok)
	}
	if _, ok := ev.GoalsOf("Spurs"); ok {
		t.Error("GoalsOf should report non-participation")
	}
}

func TestWonBy_DrawIsNotAWin(t *testing.T) {
	ev := CanonicalEvent{
		EntityA: "Arsenal", EntityB: "Chelsea",
		Date: date("2024-01-10"), GoalsA: 2, GoalsB: 2, OutcomeA: OutcomeDraw,
	}
	if ev.WonBy("Arsenal") || ev.WonBy("Chelsea") {
		t.Error("a draw has no winning side")
	}
}
