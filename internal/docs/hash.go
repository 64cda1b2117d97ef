package docs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Hash computes a deterministic hash of the discovered content: every
// document's slug, path and bytes, and every asset's path and size. Two
// discoveries of an unchanged tree produce the same hash.
func (s *Set) Hash() string {
	h := sha256.New()
	if len(s.Documents) == 0 && len(s.Assets) == 0 {
		h.Write([]byte("empty-content-set"))
		return hex.EncodeToString(h.Sum(nil))
	}
	for _, d := range s.Documents {
		fmt.Fprintf(h, "doc\x00%s\x00%s\x00%d\x00", d.Slug, d.RelPath, len(d.Frontmatter))
		h.Write(d.Frontmatter)
		h.Write(d.Body)
		h.Write([]byte{0})
	}
	for _, a := range s.Assets {
		fmt.Fprintf(h, "asset\x00%s\x00%d\x00", a.RelPath, a.Size)
	}
	return hex.EncodeToString(h.Sum(nil))
}
