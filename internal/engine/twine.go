package engine

import "github.com/ladybyron/playroom/internal/model"

// Twine claims legacy single-file games: <root>/<slug>.html.
type Twine struct{ root string }

// NewTwine constructs the Twine detector over a game root.
func NewTwine(root string) *Twine { return &Twine{root: root} }

// Matches reports whether the single-file entry point exists.
func (d *Twine) Matches(slug string) bool {
	return isRegularFile(entryPath(d.root, slug+".html"))
}

// Describe reports the legacy-file verdict for slug.
func (d *Twine) Describe(slug string) model.GameDescriptor {
	return model.GameDescriptor{
		Slug:   slug,
		Engine: model.EngineTwine,
		Shape:  model.ShapeLegacyFile,
		Exists: true,
	}
}
