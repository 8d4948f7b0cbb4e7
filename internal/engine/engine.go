// Package engine classifies installed games by packaging shape and authoring engine.
//
// Each detector claims a slug from filesystem presence alone (does the
// entry point exist, is it a directory or a single file); no file
// contents are read, which keeps resolution cheap enough to run once
// per candidate on every catalog scan.
package engine

import (
	"os"
	"path/filepath"

	"github.com/ladybyron/playroom/internal/model"
)

// Detector decides from on-disk layout whether it claims a slug.
type Detector interface {
	// Matches reports whether the detector's entry point exists for slug.
	Matches(slug string) bool
	// Describe returns the descriptor the detector would report for slug.
	Describe(slug string) model.GameDescriptor
}

// Chain resolves a slug through an ordered list of detectors.
//
// The order is a deliberate tie-break policy: when a slug exists in
// both directory and legacy single-file form, the earlier detector
// wins. Callers are expected to have validated the slug grammar.
type Chain struct {
	detectors []Detector
}

// NewChain builds a chain preserving the given priority order.
func NewChain(detectors ...Detector) *Chain {
	return &Chain{detectors: detectors}
}

// Default returns the standard chain for a game root: Ink directories
// first, then Twine single files.
func Default(root string) *Chain {
	return NewChain(NewInk(root), NewTwine(root))
}

// Locate returns the first matching detector's verdict, or an absent
// descriptor when no detector claims the slug.
func (c *Chain) Locate(slug string) model.GameDescriptor {
	for _, d := range c.detectors {
		if d.Matches(slug) {
			return d.Describe(slug)
		}
	}
	return model.GameDescriptor{
		Slug:   slug,
		Engine: model.EngineUnknown,
		Shape:  model.ShapeAbsent,
		Exists: false,
	}
}

// isRegularFile reports whether path exists and is a regular file.
// Probe failures (including permission errors) count as "no".
func isRegularFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// entryPath joins root with path elements; kept as a helper so both
// detectors build paths the same way.
func entryPath(root string, elem ...string) string {
	return filepath.Join(append([]string{root}, elem...)...)
}
