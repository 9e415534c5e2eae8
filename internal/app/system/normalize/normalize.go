// Package normalize canonicalizes user-supplied values before validation and storage.
package normalize

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
)

// Email trims and lowercases an address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace and collapses inner runs of whitespace. Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Category trims and lowercases a spot category so filters match regardless of input case.
func Category(s string) string {
	return strings.ToLower(Name(s))
}

// Amenities trims each label, drops empties, and removes duplicates compared
// case- and diacritics-insensitively. The first spelling and order are kept.
func Amenities(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, a := range in {
		a = Name(a)
		if a == "" {
			continue
		}
		key := text.Fold(a)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	return out
}

// Images trims each reference and drops empties. Order is significant and kept.
func Images(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
