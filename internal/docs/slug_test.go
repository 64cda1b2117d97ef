package docs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"getting_started": "getting_started",
		"Getting Started": "getting-started",
		"Über  Setup":     "uber-setup",
		"café--crème":     "cafe-creme",
		"v1.2":            "v1.2",
		"what?!":          "what",
		" -trim- ":        "trim",
	}
	for in, want := range tests {
		require.Equal(t, want, Slugify(in), in)
	}
}

func TestSlugFromPath(t *testing.T) {
	tests := map[string]string{
		"index.md":                "",
		"getting_started.md":      "getting_started",
		"guides/index.mdx":        "guides",
		"guides/Install Guide.md": "guides/install-guide",
		"reference/API/Index.md":  "reference/api",
	}
	for in, want := range tests {
		require.Equal(t, want, SlugFromPath(in), in)
	}
}

func TestCanonicalSlug(t *testing.T) {
	require.Equal(t, "", CanonicalSlug("index"))
	require.Equal(t, "", CanonicalSlug("/"))
	require.Equal(t, "guides", CanonicalSlug("/guides/"))
	require.Equal(t, "guides", CanonicalSlug("guides/index"))
}
