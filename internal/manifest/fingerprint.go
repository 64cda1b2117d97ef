package manifest

import (
	"strings"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsite/internal/frontmatter"
)

// fingerprintExcludedKeys never contribute to a page fingerprint.
var fingerprintExcludedKeys = []string{mdfp.FingerprintField, "lastUpdated", "lastmod"}

// Fingerprint computes the canonical content fingerprint of a page from its
// raw frontmatter and body. Frontmatter is re-serialized with sorted keys and
// LF newlines, so formatting-only edits keep the fingerprint stable.
func Fingerprint(rawFrontmatter, body []byte) (string, error) {
	fields, err := frontmatter.ParseYAML(rawFrontmatter)
	if err != nil {
		return "", err
	}
	for _, k := range fingerprintExcludedKeys {
		delete(fields, k)
	}

	fm := ""
	if len(fields) > 0 {
		out, err := yaml.Marshal(fields)
		if err != nil {
			return "", err
		}
		fm = strings.TrimSuffix(string(out), "\n")
	}
	return mdfp.CalculateFingerprintFromParts(fm, strings.ReplaceAll(string(body), "\r\n", "\n")), nil
}
