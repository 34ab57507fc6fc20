// Package dedupe collapses perspective-duplicate observations into the
// canonical event log.
package dedupe

import (
	"sort"

	"github.com/lmoreno/h2hpipe/internal/model"
)

// Result is the canonical event log plus its audit counters.
type Result struct {
	Events []model.CanonicalEvent

	// DuplicatesRemoved counts observations discarded because an earlier
	// observation already claimed the identity key. With clean two-perspective
	// input this is exactly half the observations.
	DuplicatesRemoved int

	// Conflicts counts removed duplicates whose payload (goals or outcome)
	// disagreed with the retained record. These are kept first-seen, never
	// reconciled by voting or averaging.
	Conflicts int
}

// Collapse maps each observation to its identity key and keeps the first
// record seen per key, in input order. Input order is deterministic (files
// sorted by name, rows in file order), so the retained record is too.
// Events are returned sorted by (season, date, entity_a, entity_b).
func Collapse(observations []model.RawObservation) Result {
	var res Result
	seen := make(map[string]model.CanonicalEvent, len(observations)/2+1)
	order := make([]string, 0, len(observations)/2+1)

	for _, obs := range observations {
		ev := obs.Canonical()
		key := ev.IdentityKey()
		prev, dup := seen[key]
		if !dup {
			seen[key] = ev
			order = append(order, key)
			continue
		}
		res.DuplicatesRemoved++
		if prev.GoalsA != ev.GoalsA || prev.GoalsB != ev.GoalsB || prev.OutcomeA != ev.OutcomeA {
			res.Conflicts++
		}
	}

	res.Events = make([]model.CanonicalEvent, 0, len(order))
	for _, key := range order {
		res.Events = append(res.Events, seen[key])
	}
	sort.Slice(res.Events, func(i, j int) bool {
		a, b := res.Events[i], res.Events[j]
		if a.SeasonLabel != b.SeasonLabel {
			return a.SeasonLabel < b.SeasonLabel
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.EntityA != b.EntityA {
			return a.EntityA < b.EntityA
		}
		return a.EntityB < b.EntityB
	})
	return res
}
