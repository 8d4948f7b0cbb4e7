package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/ladybyron/playroom/internal/errs"
	"github.com/ladybyron/playroom/internal/model"
)

// SaveRepo implements SaveRepository using PostgreSQL.
type SaveRepo struct{ db *DB }

// NewSaveRepo constructs a save repository.
func NewSaveRepo(db *DB) *SaveRepo { return &SaveRepo{db: db} }

// List returns save summaries for one user and game ordered by slot ASC.
// The state payload is intentionally not selected to bound response size.
func (r *SaveRepo) List(ctx context.Context, userID uuid.UUID, gameSlug string) ([]model.SaveSummary, error) {
	const q = `
SELECT id, slot, rev, meta_json, story_hash, created_at, updated_at
FROM game_saves
WHERE user_id=$1 AND game_slug=$2
ORDER BY slot ASC`
	rows, err := r.db.Pool.Query(ctx, q, userID, gameSlug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.SaveSummary{}
	for rows.Next() {
		var (
			s    model.SaveSummary
			meta *string
			hash *string
		)
		if err = rows.Scan(&s.ID, &s.Slot, &s.Rev, &meta, &hash, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		if meta != nil {
			s.MetaJSON = json.RawMessage(*meta)
		}
		if hash != nil {
			s.StoryHash = *hash
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Get returns a single save record by its key tuple.
func (r *SaveRepo) Get(ctx context.Context, userID uuid.UUID, gameSlug, slot string) (*model.SaveRecord, error) {
	const q = `
SELECT id, rev, state_json, meta_json, story_hash, created_at, updated_at
FROM game_saves
WHERE user_id=$1 AND game_slug=$2 AND slot=$3`
	rec, err := scanRecord(r.db.Pool.QueryRow(ctx, q, userID, gameSlug, slot), userID, gameSlug, slot)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// Upsert creates the record at rev 0, or applies a compare-and-increment
// write inside a single-row transaction. Two writers racing to create the
// same tuple serialize on the unique index: the loser retries once and
// lands on the CAS path against the winner's row.
func (r *SaveRepo) Upsert(
	ctx context.Context, userID uuid.UUID, gameSlug string, up model.UpsertSave,
) (*model.SaveRecord, error) {
	rec, err := r.upsertTx(ctx, userID, gameSlug, up)
	if err != nil && isUniqueViolation(err) {
		rec, err = r.upsertTx(ctx, userID, gameSlug, up)
	}
	return rec, err
}

func (r *SaveRepo) upsertTx(
	ctx context.Context, userID uuid.UUID, gameSlug string, up model.UpsertSave,
) (rec *model.SaveRecord, err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	const sel = `
SELECT id, rev, state_json, meta_json, story_hash, created_at, updated_at
FROM game_saves
WHERE user_id=$1 AND game_slug=$2 AND slot=$3 FOR UPDATE`

	cur, scanErr := scanRecord(tx.QueryRow(ctx, sel, userID, gameSlug, up.Slot), userID, gameSlug, up.Slot)
	switch {
	case scanErr == nil:
		if up.ExpectedRev != nil && *up.ExpectedRev != cur.Rev {
			// Surface the server-side record so the client can reconcile.
			return cur, errs.ErrRevConflict
		}
		newRev := cur.Rev + 1
		const upd = `
UPDATE game_saves
SET state_json=$4, meta_json=$5, story_hash=$6, rev=$7, updated_at=now()
WHERE user_id=$1 AND game_slug=$2 AND slot=$3
RETURNING updated_at`
		var updatedAt time.Time
		if err = tx.QueryRow(ctx, upd,
			userID, gameSlug, up.Slot,
			string(up.StateJSON), jsonOrNil(up.MetaJSON), textOrNil(up.StoryHash), newRev,
		).Scan(&updatedAt); err != nil {
			return nil, err
		}
		return &model.SaveRecord{
			ID: cur.ID, UserID: userID, GameSlug: gameSlug, Slot: up.Slot,
			Rev: newRev, StateJSON: up.StateJSON, MetaJSON: up.MetaJSON, StoryHash: up.StoryHash,
			CreatedAt: cur.CreatedAt, UpdatedAt: updatedAt,
		}, nil
	case errors.Is(scanErr, pgx.ErrNoRows):
		// First write for the tuple: rev starts at 0, expected_rev is ignored.
		const ins = `
INSERT INTO game_saves (user_id, game_slug, slot, rev, state_json, meta_json, story_hash)
VALUES ($1,$2,$3,0,$4,$5,$6)
RETURNING id, created_at, updated_at`
		var (
			id        int64
			createdAt time.Time
			updatedAt time.Time
		)
		if err = tx.QueryRow(ctx, ins,
			userID, gameSlug, up.Slot,
			string(up.StateJSON), jsonOrNil(up.MetaJSON), textOrNil(up.StoryHash),
		).Scan(&id, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		return &model.SaveRecord{
			ID: id, UserID: userID, GameSlug: gameSlug, Slot: up.Slot,
			Rev: 0, StateJSON: up.StateJSON, MetaJSON: up.MetaJSON, StoryHash: up.StoryHash,
			CreatedAt: createdAt, UpdatedAt: updatedAt,
		}, nil
	default:
		return nil, scanErr
	}
}

// Delete removes a save slot and returns the number of rows deleted.
func (r *SaveRepo) Delete(ctx context.Context, userID uuid.UUID, gameSlug, slot string) (int64, error) {
	const q = `DELETE FROM game_saves WHERE user_id=$1 AND game_slug=$2 AND slot=$3`
	tag, err := r.db.Pool.Exec(ctx, q, userID, gameSlug, slot)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// scanRecord reads the shared column set of Get and the upsert SELECT.
func scanRecord(row pgx.Row, userID uuid.UUID, gameSlug, slot string) (*model.SaveRecord, error) {
	var (
		rec   model.SaveRecord
		state string
		meta  *string
		hash  *string
	)
	if err := row.Scan(&rec.ID, &rec.Rev, &state, &meta, &hash, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.UserID, rec.GameSlug, rec.Slot = userID, gameSlug, slot
	rec.StateJSON = json.RawMessage(state)
	if meta != nil {
		rec.MetaJSON = json.RawMessage(*meta)
	}
	if hash != nil {
		rec.StoryHash = *hash
	}
	return &rec, nil
}

func textOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func jsonOrNil(b json.RawMessage) *string {
	if len(b) == 0 {
		return nil
	}
	s := string(b)
	return &s
}
