// Package sqlite implements repository.SeriesStore on a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"netpulse/internal/domain"

	_ "modernc.org/sqlite"
)

// Store persists metric history series in SQLite
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at the given path
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS history (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		resource_id TEXT NOT NULL,
		ts TEXT NOT NULL,
		value REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_history_resource ON history(resource_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// AppendSample appends one sample to the resource's series
func (s *Store) AppendSample(ctx context.Context, resourceID string, sample domain.Sample) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history (resource_id, ts, value) VALUES (?, ?, ?)
	`, resourceID, sample.Timestamp.Format(time.RFC3339Nano), sample.Value)

	if err != nil {
		return fmt.Errorf("failed to append sample for %s: %w", resourceID, err)
	}
	return nil
}

// LoadSeries returns the most recent `limit` samples for the resource in
// append order. A malformed row degrades the whole series to empty; the
// caller starts over rather than working from a partial history.
func (s *Store) LoadSeries(ctx context.Context, resourceID string, limit int) ([]domain.Sample, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ts, value FROM (
			SELECT seq, ts, value FROM history
			WHERE resource_id = ?
			ORDER BY seq DESC
			LIMIT ?
		) ORDER BY seq ASC
	`, resourceID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history for %s: %w", resourceID, err)
	}
	defer rows.Close()

	samples := make([]domain.Sample, 0, limit)
	for rows.Next() {
		var (
			ts    string
			value float64
		)
		if err := rows.Scan(&ts, &value); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}

		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			log.Printf("Malformed history timestamp for %s (%q), discarding series", resourceID, ts)
			return []domain.Sample{}, nil
		}

		samples = append(samples, domain.Sample{Timestamp: parsed, Value: value})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history for %s: %w", resourceID, err)
	}

	return samples, nil
}

// LastValue returns the most recently appended value for the resource
func (s *Store) LastValue(ctx context.Context, resourceID string) (float64, bool, error) {
	var value float64
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM history WHERE resource_id = ? ORDER BY seq DESC LIMIT 1
	`, resourceID).Scan(&value)

	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to query last value for %s: %w", resourceID, err)
	}
	return value, true, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
