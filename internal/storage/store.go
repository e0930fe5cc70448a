package storage

import (
	"context"
	"errors"
	"time"

	"spendy/internal/core"
)

// ErrNotFound is returned when a snapshot or icon id has no record.
var ErrNotFound = errors.New("not found")

// Snapshot is one archived analysis: the full classified transaction list at
// save time together with the derived persona and totals. Immutable after
// creation; deleted only by explicit user action.
type Snapshot struct {
	ID           string                  `json:"id"`
	CreatedAt    time.Time               `json:"createdAt"`
	Transactions []core.Transaction      `json:"data"`
	Persona      core.Category           `json:"persona"`
	Totals       map[core.Category]int64 `json:"analysis"`
}

// PersonaIcon is a generated icon image for a persona category, produced
// asynchronously by the icon worker.
type PersonaIcon struct {
	Category    core.Category
	Prompt      string
	Image       []byte
	GeneratedAt time.Time
}

// Ports for snapshot persistence.
type (
	// SnapshotStore archives analysis snapshots. Save is an upsert: writing
	// an id that already exists replaces the stored snapshot rather than
	// duplicating it. List returns snapshots newest-first by creation time.
	SnapshotStore interface {
		Save(ctx context.Context, s Snapshot) error
		Get(ctx context.Context, id string) (Snapshot, error)
		List(ctx context.Context) ([]Snapshot, error)
		Delete(ctx context.Context, id string) error
	}

	// IconStore persists generated persona icons, keyed by category.
	IconStore interface {
		SaveIcon(ctx context.Context, icon PersonaIcon) error
		GetIcon(ctx context.Context, category core.Category) (PersonaIcon, error)
	}
)
