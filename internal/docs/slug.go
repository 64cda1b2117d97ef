package docs

import (
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify converts one path segment into its URL form: lower case,
// diacritics removed, whitespace runs collapsed to '-', and characters other
// than letters, digits, '-', '_' and '.' dropped.
func Slugify(segment string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, segment)
	if err != nil {
		folded = segment
	}

	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(folded)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.':
			sb.WriteRune(r)
			dash = false
		case r == '-' || unicode.IsSpace(r):
			if !dash {
				sb.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.Trim(sb.String(), "-")
}

// SlugFromPath derives a document slug from its slash-separated path relative
// to the content root. "index" files collapse onto their directory; the root
// index has the empty slug.
func SlugFromPath(rel string) string {
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	parts := strings.Split(rel, "/")
	if strings.EqualFold(parts[len(parts)-1], "index") {
		parts = parts[:len(parts)-1]
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := Slugify(p); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "/")
}

// CanonicalSlug maps a slug as written in configuration onto the form used
// by the index. "index" and "/" both name the root page.
func CanonicalSlug(slug string) string {
	slug = strings.Trim(strings.TrimSpace(slug), "/")
	if slug == "index" {
		return ""
	}
	return strings.TrimSuffix(slug, "/index")
}
