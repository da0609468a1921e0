// Package mirror persists put events received from a database stream into a
// local SQLite database, giving a watch session a durable, queryable record
// of every change it observed. Writes are decoupled from the stream hot path
// by an asynchronous worker pool.
package mirror

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one observed put event as stored in the mirror.
type Record struct {
	ID         string
	Path       string
	Document   map[string]any
	ReceivedAt time.Time
}

// Store is a SQLite-backed mirror of observed put events.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the mirror database at dbPath and runs
// migrations. Use ":memory:" for an ephemeral mirror.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening mirror database: %w", err)
	}

	// SQLite permits one writer at a time; funneling every connection
	// through a single handle avoids lock errors under concurrent workers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating mirror database: %w", err)
	}

	return s, nil
}

// migrate creates the necessary tables if they don't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS puts (
		id TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		document TEXT NOT NULL,
		received_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_puts_path ON puts(path);
	CREATE INDEX IF NOT EXISTS idx_puts_received_at ON puts(received_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SavePut stores one observed put event.
func (s *Store) SavePut(ctx context.Context, rec Record) error {
	doc, err := json.Marshal(rec.Document)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	query := `INSERT INTO puts (id, path, document, received_at) VALUES (?, ?, ?, ?)`

	if _, err := s.db.ExecContext(ctx, query, rec.ID, rec.Path, string(doc), rec.ReceivedAt.UTC()); err != nil {
		return fmt.Errorf("inserting put record: %w", err)
	}

	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT id, path, document, received_at FROM puts ORDER BY received_at DESC, id LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying put records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var doc string
		if err := rows.Scan(&rec.ID, &rec.Path, &doc, &rec.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scanning put record: %w", err)
		}
		if err := json.Unmarshal([]byte(doc), &rec.Document); err != nil {
			return nil, fmt.Errorf("decoding stored document: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Count reports how many put records the mirror holds.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM puts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting put records: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
