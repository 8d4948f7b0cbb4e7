// Package catalog builds the listing of installed games from the game root.
package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ladybyron/playroom/internal/engine"
	"github.com/ladybyron/playroom/internal/gamesfs"
	"github.com/ladybyron/playroom/internal/model"
)

// DefaultTTL is the freshness window of a built listing.
const DefaultTTL = 300 * time.Second

// Sidecar defaults applied when fields are missing from meta.json.
const (
	defaultAuthor     = "Unknown"
	defaultLength     = 3
	defaultColor      = "text-amber-500"
	defaultStripColor = "bg-amber-600"
)

// skipNames are reserved children of the game root that are never games.
var skipNames = map[string]bool{
	"assets": true,
	"ping":   true,
	"index":  true,
}

// Catalog scans the game root and serves a cached, ordered listing.
//
// The listing is rebuilt at most once at a time; a stale snapshot keeps
// being served while a rebuild is in flight, and readers never observe
// a partially built list (build-then-swap).
type Catalog struct {
	root     *gamesfs.Root
	chain    *engine.Chain
	playBase string
	ttl      time.Duration
	log      *zap.Logger

	mu   sync.RWMutex // guards snap
	snap snapshot

	rebuildMu sync.Mutex // held by the single in-flight scan
}

type snapshot struct {
	items   []model.CatalogEntry
	builtAt time.Time
}

// New constructs a catalog. playBase is the URL prefix a game is played
// under (playUrl = playBase + slug). ttl <= 0 selects DefaultTTL.
func New(root *gamesfs.Root, chain *engine.Chain, playBase string, ttl time.Duration, log *zap.Logger) *Catalog {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Catalog{
		root:     root,
		chain:    chain,
		playBase: strings.TrimRight(playBase, "/") + "/",
		ttl:      ttl,
		log:      log,
	}
}

// List returns the catalog, rebuilding it when the cache is stale.
// Scan failures fail closed: the previous snapshot is served if one
// exists, otherwise an empty list. The returned slice is never nil.
func (c *Catalog) List(ctx context.Context) []model.CatalogEntry {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()

	if !snap.builtAt.IsZero() && time.Since(snap.builtAt) < c.ttl {
		return snap.items
	}

	if !c.rebuildMu.TryLock() {
		// Another request is already scanning; serve stale rather than block.
		if snap.items != nil {
			return snap.items
		}
		return []model.CatalogEntry{}
	}
	defer c.rebuildMu.Unlock()

	items, err := c.scan(ctx)
	if err != nil {
		c.log.Warn("catalog scan failed", zap.Error(err))
		if snap.items != nil {
			return snap.items
		}
		return []model.CatalogEntry{}
	}

	c.mu.Lock()
	c.snap = snapshot{items: items, builtAt: time.Now()}
	c.mu.Unlock()
	return items
}

// Invalidate marks the cached listing stale so the next List rescans.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	c.snap.builtAt = time.Time{}
	c.mu.Unlock()
}

// scan enumerates the game root once and builds the full listing.
// An unreadable root is an empty catalog, not an error; only context
// cancellation aborts the build.
func (c *Catalog) scan(ctx context.Context) ([]model.CatalogEntry, error) {
	dirs, legacy, err := c.root.Children()
	if err != nil {
		c.log.Warn("game root unreadable", zap.String("dir", c.root.Dir()), zap.Error(err))
		return []model.CatalogEntry{}, nil
	}

	items := []model.CatalogEntry{}
	seen := make(map[string]bool, len(dirs))
	autoID := 1

	// Directory-form games take precedence over a legacy file of the same slug.
	for _, s := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lower := strings.ToLower(s)
		if skipNames[lower] {
			continue
		}
		desc := c.chain.Locate(s)
		if !desc.Exists {
			continue
		}
		meta, err := c.root.DirMeta(s)
		if err != nil {
			// A game without a readable, parseable sidecar is not listed.
			c.log.Debug("skipping game without metadata", zap.String("slug", s), zap.Error(err))
			continue
		}
		items = append(items, c.buildEntry(s, meta, desc, &autoID))
		seen[lower] = true
	}

	for _, s := range legacy {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lower := strings.ToLower(s)
		if skipNames[lower] || seen[lower] {
			continue
		}
		desc := c.chain.Locate(s)
		if !desc.Exists {
			continue
		}
		meta, err := c.root.LegacyMeta(s)
		if err != nil {
			c.log.Debug("skipping game without metadata", zap.String("slug", s), zap.Error(err))
			continue
		}
		items = append(items, c.buildEntry(s, meta, desc, &autoID))
	}

	// Total order: id ascending, ties by title (ordinal).
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ID != items[j].ID {
			return items[i].ID < items[j].ID
		}
		return items[i].Title < items[j].Title
	})
	return items, nil
}

func (c *Catalog) buildEntry(s string, meta model.GameMeta, desc model.GameDescriptor, autoID *int) model.CatalogEntry {
	id := meta.ID
	if id <= 0 {
		id = *autoID
		*autoID++
	}

	length := defaultLength
	if meta.Length != nil {
		length = clamp(*meta.Length, 1, 5)
	}

	tags := meta.Tags
	if tags == nil {
		tags = []string{}
	}

	return model.CatalogEntry{
		ID:          id,
		Slug:        s,
		Title:       orDefault(meta.Title, s),
		Subtitle:    meta.Subtitle,
		Author:      orDefault(meta.Author, defaultAuthor),
		Size:        meta.Size,
		Length:      length,
		Status:      meta.Status,
		Description: meta.Description,
		Tags:        tags,
		Color:       orDefault(meta.Color, defaultColor),
		StripColor:  orDefault(meta.StripColor, defaultStripColor),
		Engine:      desc.Engine,
		Shape:       desc.Shape,
		PlayURL:     c.playBase + s,
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
