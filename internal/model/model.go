// Package model defines domain entities used by services, repositories and the catalog.
package model

import (
	"encoding/json"
	"time"

	"github.com/gofrs/uuid/v5"
)

// Engine identifiers reported by format detectors.
const (
	EngineInk     = "ink"
	EngineTwine   = "twine"
	EngineUnknown = "unknown"
)

// Shape describes the on-disk packaging form of a game.
type Shape string

// Packaging forms.
const (
	ShapeDirectory  Shape = "directory"
	ShapeLegacyFile Shape = "legacy-file"
	ShapeAbsent     Shape = "absent"
)

// SaveRecord is one persisted save slot, including the opaque state payload.
type SaveRecord struct {
	ID        int64           `db:"id" json:"id"`
	UserID    uuid.UUID       `db:"user_id" json:"userId"`
	GameSlug  string          `db:"game_slug" json:"gameSlug"`
	Slot      string          `db:"slot" json:"slot"`
	Rev       int64           `db:"rev" json:"rev"` // starts at 0, +1 per accepted write
	StateJSON json.RawMessage `db:"state_json" json:"stateJson"`
	MetaJSON  json.RawMessage `db:"meta_json" json:"metaJson,omitempty"`
	StoryHash string          `db:"story_hash" json:"storyHash,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
}

// SaveSummary is a SaveRecord without the state payload, for bounded listings.
type SaveSummary struct {
	ID        int64           `json:"id"`
	Slot      string          `json:"slot"`
	Rev       int64           `json:"rev"`
	MetaJSON  json.RawMessage `json:"metaJson,omitempty"`
	StoryHash string          `json:"storyHash,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// UpsertSave is a client write intent for one save slot.
// ExpectedRev == nil means last-writer-wins; otherwise the write is
// accepted only if it matches the current rev of the tuple.
type UpsertSave struct {
	Slot        string
	StateJSON   json.RawMessage
	MetaJSON    json.RawMessage
	StoryHash   string
	ExpectedRev *int64
}

// GameDescriptor reports how a slug resolves against the game root.
// It is derived on every resolution call and never persisted.
type GameDescriptor struct {
	Slug   string `json:"slug"`
	Engine string `json:"engine"`
	Shape  Shape  `json:"shape"`
	Exists bool   `json:"exists"`
}

// GameMeta is the parsed metadata sidecar of one game
// (<slug>/meta.json or <slug>.json for legacy single-file games).
type GameMeta struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	Author      string   `json:"author"`
	Size        string   `json:"size"`
	Length      *int     `json:"length"` // nil when the sidecar omits it
	Status      string   `json:"status"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Color       string   `json:"color"`
	StripColor  string   `json:"stripColor"`
}

// CatalogEntry is one game in the catalog listing, built from a
// GameDescriptor merged with its metadata sidecar.
type CatalogEntry struct {
	ID          int      `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	Author      string   `json:"author"`
	Size        string   `json:"size"`
	Length      int      `json:"length"` // clamped to [1,5]
	Status      string   `json:"status"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Color       string   `json:"color"`
	StripColor  string   `json:"stripColor"`
	Engine      string   `json:"engine"`
	Shape       Shape    `json:"shape"`
	PlayURL     string   `json:"playUrl"`
}
