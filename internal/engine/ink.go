package engine

import "github.com/ladybyron/playroom/internal/model"

// Ink claims directory-form games: <root>/<slug>/index.html.
type Ink struct{ root string }

// NewInk constructs the Ink detector over a game root.
func NewInk(root string) *Ink { return &Ink{root: root} }

// Matches reports whether the directory entry point exists.
func (d *Ink) Matches(slug string) bool {
	return isRegularFile(entryPath(d.root, slug, "index.html"))
}

// Describe reports the directory-shape verdict for slug.
func (d *Ink) Describe(slug string) model.GameDescriptor {
	return model.GameDescriptor{
		Slug:   slug,
		Engine: model.EngineInk,
		Shape:  model.ShapeDirectory,
		Exists: true,
	}
}
