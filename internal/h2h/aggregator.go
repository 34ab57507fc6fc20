// Package h2h answers as-of historical queries over the canonical event log.
package h2h

import (
	"sort"
	"time"

	"github.com/lmoreno/h2hpipe/internal/model"
)

// Index is a frozen view of the canonical event log, keyed by unordered
// entity pair with events sorted by date. Build it once after deduplication
// has converged; it is never mutated afterwards, so Query is safe for
// concurrent use without locking.
type Index struct {
	byPair map[string][]model.CanonicalEvent
	size   int
}

// NewIndex builds the pair index from a finalized event log.
func NewIndex(events []model.CanonicalEvent) *Index {
	ix := &Index{
		byPair: make(map[string][]model.CanonicalEvent),
		size:   len(events),
	}
	for _, ev := range events {
		key := pairKey(ev.EntityA, ev.EntityB)
		ix.byPair[key] = append(ix.byPair[key], ev)
	}
	for key := range ix.byPair {
		evs := ix.byPair[key]
		sort.Slice(evs, func(i, j int) bool { return evs[i].Date.Before(evs[j].Date) })
	}
	return ix
}

// Size returns the number of indexed events.
func (ix *Index) Size() int { return ix.size }

// Query computes the aggregate history of the (entityX, entityY) pair from
// entityX's perspective, over events dated strictly before asOf. A match on
// the as-of date itself is excluded: it is the match being predicted, and
// including it would leak its outcome into its own features. No history
// yields the zero-valued stats, not an error.
func (ix *Index) Query(entityX, entityY string, asOf time.Time) model.AggregateStats {
	evs := ix.byPair[pairKey(entityX, entityY)]

	// Events are date-sorted; cut at the first event not strictly before asOf.
	cut := sort.Search(len(evs), func(i int) bool { return !evs[i].Date.Before(asOf) })
	evs = evs[:cut]

	var stats model.AggregateStats
	if len(evs) == 0 {
		return stats
	}

	wins := 0
	goals := 0
	for _, ev := range evs {
		if ev.WonBy(entityX) {
			wins++
		}
		g, _ := ev.GoalsOf(entityX)
		goals += g
	}
	stats.MatchesPlayed = len(evs)
	stats.WinRate = float64(wins) / float64(len(evs))
	stats.AvgGoals = float64(goals) / float64(len(evs))
	return stats
}

func pairKey(x, y string) string {
	if y < x {
		x, y = y, x
	}
	return x + "|" + y
}
