// internal/services/index_service.go
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// IndexService maintains a sqlite index of scenario metadata so listing and
// searching do not require loading every document from disk. The documents
// themselves stay in JSON files; the index can always be rebuilt from them.
type IndexService struct {
	db *sql.DB
}

// IndexEntry is one row of the scenario index.
type IndexEntry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	MapID     string    `json:"map_id"`
	States    int       `json:"states"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewIndexService opens (or creates) the index database at path.
func NewIndexService(path string) (*IndexService, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open index db: %w", err)
	}

	// Single writer with WAL keeps the index usable alongside the server's
	// concurrent readers.
	db.SetMaxOpenConns(1)
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}

	const schema = `
CREATE TABLE IF NOT EXISTS scenarios (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	map_id     TEXT NOT NULL DEFAULT '',
	states     INTEGER NOT NULL DEFAULT 0,
	updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scenarios_updated_at ON scenarios(updated_at);
`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index schema: %w", err)
	}

	return &IndexService{db: db}, nil
}

// Upsert inserts or refreshes the entry for a scenario.
func (s *IndexService) Upsert(ctx context.Context, entry IndexEntry) error {
	const query = `
INSERT INTO scenarios (id, title, map_id, states, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	title = excluded.title,
	map_id = excluded.map_id,
	states = excluded.states,
	updated_at = excluded.updated_at;
`
	_, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.Title, entry.MapID, entry.States, entry.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("upsert scenario %s: %w", entry.ID, err)
	}
	return nil
}

// Delete removes a scenario from the index. Missing rows are fine.
func (s *IndexService) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM scenarios WHERE id = ?;`, id); err != nil {
		return fmt.Errorf("delete scenario %s from index: %w", id, err)
	}
	return nil
}

// List returns all indexed scenarios, most recently updated first.
func (s *IndexService) List(ctx context.Context) ([]IndexEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, map_id, states, updated_at FROM scenarios ORDER BY updated_at DESC;`)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	defer rows.Close()

	var entries []IndexEntry
	for rows.Next() {
		var e IndexEntry
		if err := rows.Scan(&e.ID, &e.Title, &e.MapID, &e.States, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan index row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns one indexed entry.
func (s *IndexService) Get(ctx context.Context, id string) (IndexEntry, bool, error) {
	var e IndexEntry
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, map_id, states, updated_at FROM scenarios WHERE id = ?;`, id).
		Scan(&e.ID, &e.Title, &e.MapID, &e.States, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return IndexEntry{}, false, nil
	}
	if err != nil {
		return IndexEntry{}, false, fmt.Errorf("get scenario %s from index: %w", id, err)
	}
	return e, true, nil
}

// Close releases the database handle.
func (s *IndexService) Close() error {
	return s.db.Close()
}
