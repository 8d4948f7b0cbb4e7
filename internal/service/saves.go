// Package service holds validation and business rules in front of the repositories.
package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/ladybyron/playroom/internal/errs"
	"github.com/ladybyron/playroom/internal/model"
	"github.com/ladybyron/playroom/internal/repository"
	"github.com/ladybyron/playroom/internal/slug"
)

// DefaultMaxStateBytes bounds the serialized game state accepted per save.
const DefaultMaxStateBytes = 1 << 20

// SaveService defines operations over per-slot game saves.
type SaveService interface {
	// List returns save summaries for one user and game, slot ascending.
	List(ctx context.Context, userID uuid.UUID, gameSlug string) ([]model.SaveSummary, error)
	// Get returns a single save record.
	Get(ctx context.Context, userID uuid.UUID, gameSlug, slot string) (*model.SaveRecord, error)
	// Upsert creates or updates one save slot with optimistic concurrency.
	Upsert(ctx context.Context, userID uuid.UUID, gameSlug string, up model.UpsertSave) (*model.SaveRecord, error)
	// Delete removes one save slot and returns the number of rows deleted.
	Delete(ctx context.Context, userID uuid.UUID, gameSlug, slot string) (int64, error)
}

type SaveServiceImpl struct {
	repo          repository.SaveRepository
	maxStateBytes int
}

// NewSaveService constructs SaveService with a state payload ceiling.
func NewSaveService(repo repository.SaveRepository, maxStateBytes int) *SaveServiceImpl {
	if maxStateBytes <= 0 {
		maxStateBytes = DefaultMaxStateBytes
	}
	return &SaveServiceImpl{repo: repo, maxStateBytes: maxStateBytes}
}

// List validates the slug and delegates to the repository.
func (s *SaveServiceImpl) List(ctx context.Context, userID uuid.UUID, gameSlug string) ([]model.SaveSummary, error) {
	if err := checkKey(userID, gameSlug); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, userID, gameSlug)
}

// Get validates the key tuple and delegates to the repository.
func (s *SaveServiceImpl) Get(ctx context.Context, userID uuid.UUID, gameSlug, slot string) (*model.SaveRecord, error) {
	if err := checkKey(userID, gameSlug); err != nil {
		return nil, err
	}
	if !slug.ValidSlot(slot) {
		return nil, fmt.Errorf("validation: bad slot: %w", errs.ErrInvalidInput)
	}
	return s.repo.Get(ctx, userID, gameSlug, slot)
}

// Upsert validates input and delegates the atomic write to the repository.
// Validation rules:
// - slug/slot match the shared grammar
// - state present and within the ceiling
// - expected rev, when supplied, non-negative
func (s *SaveServiceImpl) Upsert(
	ctx context.Context, userID uuid.UUID, gameSlug string, up model.UpsertSave,
) (*model.SaveRecord, error) {
	if err := checkKey(userID, gameSlug); err != nil {
		return nil, err
	}
	if !slug.ValidSlot(up.Slot) {
		return nil, fmt.Errorf("validation: bad slot: %w", errs.ErrInvalidInput)
	}
	if len(up.StateJSON) == 0 {
		return nil, fmt.Errorf("validation: empty state: %w", errs.ErrInvalidInput)
	}
	if len(up.StateJSON) > s.maxStateBytes {
		return nil, fmt.Errorf("state %d bytes exceeds limit %d: %w", len(up.StateJSON), s.maxStateBytes, errs.ErrPayloadTooLarge)
	}
	if up.ExpectedRev != nil && *up.ExpectedRev < 0 {
		return nil, fmt.Errorf("validation: negative expected rev: %w", errs.ErrInvalidInput)
	}
	return s.repo.Upsert(ctx, userID, gameSlug, up)
}

// Delete validates the key tuple and delegates to the repository.
// Deleting an absent tuple is not an error; the zero count is reported
// to the caller.
func (s *SaveServiceImpl) Delete(ctx context.Context, userID uuid.UUID, gameSlug, slot string) (int64, error) {
	if err := checkKey(userID, gameSlug); err != nil {
		return 0, err
	}
	if !slug.ValidSlot(slot) {
		return 0, fmt.Errorf("validation: bad slot: %w", errs.ErrInvalidInput)
	}
	return s.repo.Delete(ctx, userID, gameSlug, slot)
}

func checkKey(userID uuid.UUID, gameSlug string) error {
	if userID == uuid.Nil {
		return fmt.Errorf("validation: empty userID: %w", errs.ErrInvalidInput)
	}
	if !slug.ValidSlug(gameSlug) {
		return fmt.Errorf("validation: bad slug: %w", errs.ErrInvalidInput)
	}
	return nil
}
