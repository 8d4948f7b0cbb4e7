// Package slug validates the identifier grammar shared by game slugs and save slots.
package slug

// Length caps match the storage schema (game_slug VARCHAR(100), slot VARCHAR(50)).
const (
	MaxSlugLen = 100
	MaxSlotLen = 50
)

// Valid reports whether s matches ^[a-z0-9_-]+$ case-insensitively
// and does not exceed max bytes.
func Valid(s string, max int) bool {
	if s == "" || len(s) > max {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '-':
		default:
			return false
		}
	}
	return true
}

// ValidSlug reports whether s is a well-formed game slug.
func ValidSlug(s string) bool { return Valid(s, MaxSlugLen) }

// ValidSlot reports whether s is a well-formed save slot name.
func ValidSlot(s string) bool { return Valid(s, MaxSlotLen) }
