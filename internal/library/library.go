// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library persists papers the user chose to keep. Two records are
// the same entry when their trimmed titles and years are equal.
package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/paperscout/pkg/types"
)

// ErrUnknownBackend is returned by Open for a backend other than json or sqlite.
var ErrUnknownBackend = errors.New("unknown library backend")

// Messages returned by Add.
const (
	MsgSaved        = "saved"
	MsgAlreadySaved = "already saved"
)

// Entry is one saved paper.
type Entry struct {
	ID      string    `json:"id" yaml:"id"`
	SavedAt time.Time `json:"saved_at" yaml:"saved_at"`

	types.Paper `yaml:",inline"`
}

// Store is a saved-paper collection.
type Store interface {
	// Load returns entries in the order they were saved.
	Load(ctx context.Context) ([]Entry, error)

	// Add saves p unless an entry with the same title and year exists, in
	// which case it returns (false, MsgAlreadySaved, nil).
	Add(ctx context.Context, p types.Paper) (accepted bool, message string, err error)

	// Clear removes every entry.
	Clear(ctx context.Context) error

	Close() error
}

// Open returns the Store selected by cfg.Backend.
func Open(cfg types.LibraryConfig) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "json", "":
		return NewFileStore(cfg.Path), nil
	case "sqlite", "sqlite3":
		return NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// titleKey is the title half of the duplicate rule.
func titleKey(p types.Paper) string {
	return strings.TrimSpace(p.Title)
}

func sameEntry(a, b types.Paper) bool {
	if titleKey(a) != titleKey(b) {
		return false
	}
	ya, okA := a.YearValue()
	yb, okB := b.YearValue()
	return okA == okB && ya == yb
}

func newEntry(p types.Paper, now time.Time) Entry {
	return Entry{ID: uuid.NewString(), SavedAt: now.UTC(), Paper: p}
}
