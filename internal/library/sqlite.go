// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paperscout/pkg/types"
)

// SQLiteStore keeps the library in a SQLite database. The full record is
// stored as JSON; title_key and year carry the duplicate rule.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens or creates the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating library directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS library (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			title_key TEXT NOT NULL,
			year INTEGER,
			saved_at TEXT NOT NULL,
			paper TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_library_title_year ON library(title_key, year)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, saved_at, paper FROM library ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying library: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e              Entry
			savedAt, paper string
		)
		if err := rows.Scan(&e.ID, &savedAt, &paper); err != nil {
			return nil, fmt.Errorf("scanning library row: %w", err)
		}
		if e.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt); err != nil {
			return nil, fmt.Errorf("parsing saved_at for %s: %w", e.ID, err)
		}
		if err := json.Unmarshal([]byte(paper), &e.Paper); err != nil {
			return nil, fmt.Errorf("decoding paper %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Add(ctx context.Context, p types.Paper) (bool, string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var year any
	if y, ok := p.YearValue(); ok {
		year = y
	}

	var existing string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM library WHERE title_key = ? AND year IS ? LIMIT 1`,
		titleKey(p), year,
	).Scan(&existing)
	switch {
	case err == nil:
		return false, MsgAlreadySaved, nil
	case !errors.Is(err, sql.ErrNoRows):
		return false, "", fmt.Errorf("checking duplicates: %w", err)
	}

	e := newEntry(p, s.now())
	paper, err := json.Marshal(e.Paper)
	if err != nil {
		return false, "", fmt.Errorf("encoding paper: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO library (id, title_key, year, saved_at, paper) VALUES (?, ?, ?, ?, ?)`,
		e.ID, titleKey(p), year, e.SavedAt.Format(time.RFC3339Nano), string(paper),
	); err != nil {
		return false, "", fmt.Errorf("inserting paper: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, "", fmt.Errorf("committing: %w", err)
	}
	return true, MsgSaved, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM library`); err != nil {
		return fmt.Errorf("clearing library: %w", err)
	}
	return nil
}
