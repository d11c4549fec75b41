// internal/app/system/slug/slug.go
//
// Slugs are URL-safe identifiers derived from service names. The grammar is
// fixed: lowercase ASCII letters, digits, and single hyphens, no leading or
// trailing hyphen. Derivation is deterministic, so the same name always maps
// to the same slug; uniqueness is enforced by the services collection index,
// not here.
package slug

import "strings"

// Make derives a slug from name: lowercase, drop everything outside
// [a-z0-9 -], collapse whitespace to hyphens, collapse hyphen runs, and trim
// edge hyphens. Make(Make(x)) == Make(x) for any input.
func Make(name string) string {
	lower := strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '-':
			b.WriteRune(r)
		}
	}

	// Whitespace runs become a single hyphen, then hyphen runs collapse.
	fields := strings.Fields(b.String())
	s := strings.Join(fields, "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}
