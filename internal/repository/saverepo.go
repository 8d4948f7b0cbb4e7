// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/ladybyron/playroom/internal/model"
)

// SaveRepository provides per-slot save records with optimistic concurrency.
type SaveRepository interface {
	// List returns save summaries for one user and game, ordered by slot ascending.
	List(ctx context.Context, userID uuid.UUID, gameSlug string) ([]model.SaveSummary, error)

	// Get returns a single save record or errs.ErrNotFound.
	Get(ctx context.Context, userID uuid.UUID, gameSlug, slot string) (*model.SaveRecord, error)

	// Upsert creates the record at rev 0 or, if present, applies a
	// compare-and-increment write. On rev mismatch it returns the current
	// record together with errs.ErrRevConflict so callers can reconcile.
	Upsert(ctx context.Context, userID uuid.UUID, gameSlug string, up model.UpsertSave) (*model.SaveRecord, error)

	// Delete removes a save slot and returns the number of rows deleted (0 or 1).
	Delete(ctx context.Context, userID uuid.UUID, gameSlug, slot string) (int64, error)
}
