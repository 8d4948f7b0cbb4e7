// Package gamesfs is a read-only repository over the game root directory.
//
// The game root doubles as the implicit catalog: each slug-named child
// directory or <slug>.html file is a candidate game, with a metadata
// sidecar next to it. This package owns all direct filesystem access so
// the catalog and resolver never walk the tree ad hoc.
package gamesfs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/ladybyron/playroom/internal/model"
	"github.com/ladybyron/playroom/internal/slug"
)

// Root wraps the game root directory path.
type Root struct{ dir string }

// NewRoot constructs a repository over dir.
func NewRoot(dir string) *Root { return &Root{dir: dir} }

// Dir returns the root directory path.
func (r *Root) Dir() string { return r.dir }

// Children enumerates immediate children of the root exactly once and
// classifies them: directories whose name is a valid slug, and legacy
// <slug>.html files. Anything else is ignored.
func (r *Root) Children() (dirs, legacy []string, err error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, nil, err
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			if slug.ValidSlug(name) {
				dirs = append(dirs, name)
			}
			continue
		}
		base, ok := strings.CutSuffix(name, ".html")
		if ok && slug.ValidSlug(base) {
			legacy = append(legacy, base)
		}
	}
	return dirs, legacy, nil
}

// DirMeta loads the metadata sidecar of a directory-form game (<slug>/meta.json).
func (r *Root) DirMeta(s string) (model.GameMeta, error) {
	return readMeta(filepath.Join(r.dir, s, "meta.json"))
}

// LegacyMeta loads the metadata sidecar of a legacy single-file game (<slug>.json).
func (r *Root) LegacyMeta(s string) (model.GameMeta, error) {
	return readMeta(filepath.Join(r.dir, s+".json"))
}

func readMeta(path string) (model.GameMeta, error) {
	var m model.GameMeta
	raw, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return model.GameMeta{}, err
	}
	return m, nil
}
