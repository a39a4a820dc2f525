// Package sqlite stores the record cache in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/agentstation/halloffame/pkg/errors"
	"github.com/agentstation/halloffame/pkg/projects"
)

// Store keeps one row per record. The record is stored as its JSON
// snapshot; id and validity are indexed columns.
type Store struct {
	db *sql.DB
}

// New opens or creates the database at path.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		valid INTEGER NOT NULL DEFAULT 1,
		data JSON NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_records_valid ON records(valid);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Load returns the records in the order they were saved.
func (s *Store) Load(ctx context.Context) ([]*projects.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, data FROM records ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*projects.Record
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		var snap projects.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, errors.NewParseError("json", id, "invalid record data", err)
		}
		snap.ID = id
		records = append(records, snap.Record())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}
	return records, nil
}

// Save replaces all stored records in one transaction.
func (s *Store) Save(ctx context.Context, records []*projects.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records (id, position, valid, data, updated_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for i, rec := range records {
		data, err := json.Marshal(rec.Snapshot())
		if err != nil {
			return errors.WrapResource("encode", "record", rec.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, i, boolToInt(rec.Valid()), string(data), now); err != nil {
			return fmt.Errorf("failed to insert record %s: %w", rec.ID, err)
		}
	}
	return tx.Commit()
}

// Invalid returns the ids of stored invalid records.
func (s *Store) Invalid(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM records WHERE valid = 0 ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
