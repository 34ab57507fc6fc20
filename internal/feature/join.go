// Package feature turns the canonical event log into per-record model
// features: per-fixture as-of aggregates, (season, entity) summaries, and a
// left join onto an external table with fill restricted to the new columns.
package feature

import (
	"sort"
	"sync"

	"github.com/lmoreno/h2hpipe/internal/h2h"
	"github.com/lmoreno/h2hpipe/internal/model"
)

// BuildFixtureFeatures runs the two perspective queries for every fixture.
// Queries only read the frozen index, so they fan out across a bounded worker
// pool; results land at the fixture's own position, keeping output order
// independent of scheduling.
func BuildFixtureFeatures(ix *h2h.Index, fixtures []model.FixtureRow, workers int) []model.FixtureFeatures {
	if workers < 1 {
		workers = 1
	}
	out := make([]model.FixtureFeatures, len(fixtures))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fx := fixtures[i]
				out[i] = model.FixtureFeatures{
					Fixture: fx,
					Home:    ix.Query(fx.HomeEntity, fx.AwayEntity, fx.Date),
					Away:    ix.Query(fx.AwayEntity, fx.HomeEntity, fx.Date),
				}
			}
		}()
	}
	for i := range fixtures {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return out
}

// Summary is one (season, entity) reduction of the per-fixture aggregates:
// the mean of the entity's home-perspective stats over its home fixtures and
// of its away-perspective stats over its away fixtures.
type Summary struct {
	SeasonLabel string
	Entity      string

	WinRateHome  float64
	AvgGoalsHome float64
	WinRateAway  float64
	AvgGoalsAway float64
}

// Summarize groups fixture features by (season, entity) and reduces each
// group to a mean. An entity that only appears on one side of fixtures keeps
// explicit zeros for the other side. Output is sorted by (season, entity).
func Summarize(features []model.FixtureFeatures) []Summary {
	type groupKey struct{ season, entity string }
	type acc struct {
		winHome, goalsHome float64
		nHome              int
		winAway, goalsAway float64
		nAway              int
	}

	groups := make(map[groupKey]*acc)
	get := func(season, entity string) *acc {
		k := groupKey{season, entity}
		a, ok := groups[k]
		if !ok {
			a = &acc{}
			groups[k] = a
		}
		return a
	}

	for _, ff := range features {
		home := get(ff.Fixture.SeasonLabel, ff.Fixture.HomeEntity)
		home.winHome += ff.Home.WinRate
		home.goalsHome += ff.Home.AvgGoals
		home.nHome++

		away := get(ff.Fixture.SeasonLabel, ff.Fixture.AwayEntity)
		away.winAway += ff.Away.WinRate
		away.goalsAway += ff.Away.AvgGoals
		away.nAway++
	}

	summaries := make([]Summary, 0, len(groups))
	for k, a := range groups {
		s := Summary{SeasonLabel: k.season, Entity: k.entity}
		if a.nHome > 0 {
			s.WinRateHome = a.winHome / float64(a.nHome)
			s.AvgGoalsHome = a.goalsHome / float64(a.nHome)
		}
		if a.nAway > 0 {
			s.WinRateAway = a.winAway / float64(a.nAway)
			s.AvgGoalsAway = a.goalsAway / float64(a.nAway)
		}
		summaries = append(summaries, s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].SeasonLabel != summaries[j].SeasonLabel {
			return summaries[i].SeasonLabel < summaries[j].SeasonLabel
		}
		return summaries[i].Entity < summaries[j].Entity
	})
	return summaries
}
