package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/lmoreno/h2hpipe/internal/model"
)

// eventColumns is the export header for the canonical event log.
var eventColumns = []string{
	"Entity_A", "Entity_B", "Date", "Season", "Competition",
	"Goals_A", "Goals_B", "Outcome_A",
}

// WriteEventsCSV writes the canonical event log as CSV in the order given.
// Callers pass the storage export order, so identical inputs always produce
// byte-identical files.
func WriteEventsCSV(w io.Writer, events []model.CanonicalEvent) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(eventColumns); err != nil {
		return err
	}
	for _, ev := range events {
		rec := []string{
			ev.EntityA,
			ev.EntityB,
			ev.Date.Format(model.DateLayout),
			ev.SeasonLabel,
			ev.Competition,
			strconv.Itoa(ev.GoalsA),
			strconv.Itoa(ev.GoalsB),
			ev.OutcomeA.String(),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
