// Package store provides SQLite-backed persistence for analysis runs and
// their extracted crash events.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/setevik/crashlens/internal/event"
)

// DB wraps an SQLite connection for run/event storage.
type DB struct {
	db *sql.DB
}

// Run is one persisted analysis run. ReportJSON holds the serialized
// compatibility-shape report; the events table holds its crash events.
type Run struct {
	ID              string
	CreatedAt       time.Time
	Source          string
	TotalCrashes    int
	SeverityScore   int
	OverallSeverity string
	ReportJSON      string
}

// StoredEvent is a crash event row joined to its run.
type StoredEvent struct {
	ID    string
	RunID string
	event.CrashEvent
}

// Open opens or creates an SQLite database at the given path.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Single writer connection to avoid SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// SaveRun stores one analysis run and its events in a single transaction.
// The run's ID is generated here; stored timestamps are UTC RFC3339Nano.
func (d *DB) SaveRun(run *Run, events []event.CrashEvent) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, created_at, source, total_crashes, severity_score, overall_severity, report_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
		run.Source,
		run.TotalCrashes,
		run.SeverityScore,
		run.OverallSeverity,
		run.ReportJSON,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	for _, ev := range events {
		var ts sql.NullString
		if ev.Timestamp != nil {
			ts = sql.NullString{String: ev.Timestamp.UTC().Format(time.RFC3339Nano), Valid: true}
		}

		_, err = tx.Exec(`
			INSERT INTO events (id, run_id, timestamp, pid, command, signal, raw_text)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(),
			run.ID,
			ts,
			ev.PID,
			ev.Command,
			ev.Signal,
			ev.RawText,
		)
		if err != nil {
			return fmt.Errorf("inserting event: %w", err)
		}
	}

	return tx.Commit()
}

// RunFilter controls which runs are returned by Runs.
type RunFilter struct {
	Since time.Time
	Until time.Time
	Limit int
}

// Runs returns runs matching the filter, newest first.
func (d *DB) Runs(f RunFilter) ([]*Run, error) {
	query := `SELECT id, created_at, source, total_crashes, severity_score, overall_severity, report_json
		FROM runs WHERE 1=1`
	var args []interface{}

	if !f.Since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, f.Since.UTC().Format(time.RFC3339Nano))
	}
	if !f.Until.IsZero() {
		query += " AND created_at <= ?"
		args = append(args, f.Until.UTC().Format(time.RFC3339Nano))
	}

	query += " ORDER BY created_at DESC"

	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var run Run
		var createdAt string
		if err := rows.Scan(&run.ID, &createdAt, &run.Source, &run.TotalCrashes,
			&run.SeverityScore, &run.OverallSeverity, &run.ReportJSON); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		parsed, perr := time.Parse(time.RFC3339Nano, createdAt)
		if perr != nil {
			slog.Warn("run has unparseable created_at", "run_id", run.ID, "value", createdAt)
		}
		run.CreatedAt = parsed
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// EventFilter controls which events are returned by Events.
type EventFilter struct {
	Since   time.Time
	Until   time.Time
	Signal  int
	Command string
	RunID   string
	Limit   int
}

// Events returns stored crash events matching the filter, newest first.
// Events without a timestamp sort last.
func (d *DB) Events(f EventFilter) ([]*StoredEvent, error) {
	query := `SELECT id, run_id, timestamp, pid, command, signal, raw_text
		FROM events WHERE 1=1`
	var args []interface{}

	if !f.Since.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, f.Since.UTC().Format(time.RFC3339Nano))
	}
	if !f.Until.IsZero() {
		query += " AND timestamp <= ?"
		args = append(args, f.Until.UTC().Format(time.RFC3339Nano))
	}
	if f.Signal != 0 {
		query += " AND signal = ?"
		args = append(args, f.Signal)
	}
	if f.Command != "" {
		query += " AND command = ?"
		args = append(args, f.Command)
	}
	if f.RunID != "" {
		query += " AND run_id = ?"
		args = append(args, f.RunID)
	}

	query += " ORDER BY timestamp IS NULL, timestamp DESC"

	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []*StoredEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Purge deletes runs (and their events) older than the retention duration.
// It returns the number of runs removed.
func (d *DB) Purge(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).UTC().Format(time.RFC3339Nano)

	if _, err := d.db.Exec(
		`DELETE FROM events WHERE run_id IN (SELECT id FROM runs WHERE created_at < ?)`, cutoff); err != nil {
		return 0, fmt.Errorf("purging old events: %w", err)
	}

	result, err := d.db.Exec(`DELETE FROM runs WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging old runs: %w", err)
	}
	return result.RowsAffected()
}

// Counts returns the total number of stored runs and events.
func (d *DB) Counts() (runs, events int, err error) {
	if err = d.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&runs); err != nil {
		return 0, 0, fmt.Errorf("counting runs: %w", err)
	}
	if err = d.db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&events); err != nil {
		return 0, 0, fmt.Errorf("counting events: %w", err)
	}
	return runs, events, nil
}

func scanEvent(rows *sql.Rows) (*StoredEvent, error) {
	var ev StoredEvent
	var ts sql.NullString

	err := rows.Scan(&ev.ID, &ev.RunID, &ts, &ev.PID, &ev.Command, &ev.Signal, &ev.RawText)
	if err != nil {
		return nil, fmt.Errorf("scanning event row: %w", err)
	}

	if ts.Valid {
		parsed, err := time.Parse(time.RFC3339Nano, ts.String)
		if err != nil {
			slog.Warn("event has unparseable timestamp", "event_id", ev.ID, "value", ts.String)
		} else {
			ev.Timestamp = &parsed
		}
	}
	return &ev, nil
}

func migrate(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id               TEXT PRIMARY KEY,
			created_at       TEXT NOT NULL,
			source           TEXT,
			total_crashes    INTEGER NOT NULL,
			severity_score   INTEGER NOT NULL,
			overall_severity TEXT NOT NULL,
			report_json      TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id        TEXT PRIMARY KEY,
			run_id    TEXT NOT NULL REFERENCES runs(id),
			timestamp TEXT,
			pid       INTEGER NOT NULL,
			command   TEXT NOT NULL,
			signal    INTEGER NOT NULL,
			raw_text  TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_events_ts ON events(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_events_signal ON events(signal, timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	slog.Debug("database schema up to date")
	return nil
}
