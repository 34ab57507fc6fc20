package storage

import (
	"fmt"
	"time"

	"github.com/lmoreno/h2hpipe/internal/model"
)

// ReplaceEvents rebuilds the event log from scratch in one transaction. The
// log is never mutated incrementally; each ingest run replaces it whole, so
// re-running on unchanged sources is byte-for-byte idempotent.
func (db *DB) ReplaceEvents(events []model.CanonicalEvent) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM events`); err != nil {
		return fmt.Errorf("clear events: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO events(
			identity_key, entity_a, entity_b, event_date,
			season_label, competition, goals_a, goals_b, outcome_a
		) VALUES (?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ev := range events {
		_, err = stmt.Exec(
			ev.IdentityKey(), ev.EntityA, ev.EntityB, ev.Date.Format(model.DateLayout),
			ev.SeasonLabel, ev.Competition, ev.GoalsA, ev.GoalsB, ev.OutcomeA.String(),
		)
		if err != nil {
			return fmt.Errorf("insert event %s: %w", ev.IdentityKey(), err)
		}
	}
	return tx.Commit()
}

// ReplaceSources rebuilds the per-file audit table alongside the event log.
func (db *DB) ReplaceSources(infos []model.SourceFileInfo) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM sources`); err != nil {
		return fmt.Errorf("clear sources: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO sources(name, entity, season_label, content_hash, row_count, dropped_count)
		VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range infos {
		if _, err := stmt.Exec(s.Name, s.Entity, s.SeasonLabel, s.Hash, s.Rows, s.Dropped); err != nil {
			return fmt.Errorf("insert source %s: %w", s.Name, err)
		}
	}
	return tx.Commit()
}

// ListEvents returns the full canonical log ordered by
// (season, date, entity_a, entity_b), the stable export order.
func (db *DB) ListEvents() ([]model.CanonicalEvent, error) {
	rows, err := db.conn.Query(`
		SELECT entity_a, entity_b, event_date, season_label, competition,
		       goals_a, goals_b, outcome_a
		FROM events
		ORDER BY season_label, event_date, entity_a, entity_b`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CanonicalEvent
	for rows.Next() {
		var ev model.CanonicalEvent
		var dateStr, outcomeStr string
		if err := rows.Scan(&ev.EntityA, &ev.EntityB, &dateStr, &ev.SeasonLabel,
			&ev.Competition, &ev.GoalsA, &ev.GoalsB, &outcomeStr); err != nil {
			return nil, err
		}
		ev.Date, err = time.Parse(model.DateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("stored event has bad date %q: %w", dateStr, err)
		}
		ev.OutcomeA = model.ParseOutcome(outcomeStr)
		out = append(out, ev)
	}
	return out, rows.Err()
}

// EventCount returns the number of stored canonical events.
func (db *DB) EventCount() (int, error) {
	var n int
	err := db.conn.QueryRow(`SELECT COUNT(1) FROM events`).Scan(&n)
	return n, err
}

// SeasonSummary is one row of the list command: per-season event coverage.
type SeasonSummary struct {
	SeasonLabel string
	Events      int
	Pairs       int
	FirstDate   string
	LastDate    string
}

// ListSeasons summarizes stored events per season label.
func (db *DB) ListSeasons() ([]SeasonSummary, error) {
	rows, err := db.conn.Query(`
		SELECT season_label,
		       COUNT(1),
		       COUNT(DISTINCT entity_a || '|' || entity_b),
		       MIN(event_date),
		       MAX(event_date)
		FROM events
		GROUP BY season_label
		ORDER BY season_label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SeasonSummary
	for rows.Next() {
		var s SeasonSummary
		if err := rows.Scan(&s.SeasonLabel, &s.Events, &s.Pairs, &s.FirstDate, &s.LastDate); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
