package docs

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/docsite/internal/docs/errors"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func TestDiscover(t *testing.T) {
	root := writeTree(t, map[string]string{
		"index.mdx":            "---\ntitle: Welcome\n---\nHello\n",
		"getting_started.md":   "---\ntitle: Getting started\n---\n# Install\n",
		"guides/index.md":      "Guides overview\n",
		"guides/Über Setup.md": "x\n",
		"reference/api.md":     "---\nslug: /api/\n---\nAPI\n",
		"reference/draft.md":   "---\ndraft: true\n---\nWIP\n",
		"images/logo.png":      "png",
		".hidden/secret.md":    "nope",
		"_partials/snippet.md": "nope",
		"guides/.DS_Store":     "nope",
	})

	set, err := Discover(root, false)
	require.NoError(t, err)

	var slugs []string
	for _, d := range set.Documents {
		slugs = append(slugs, d.Slug)
	}
	require.Equal(t, []string{"", "api", "getting_started", "guides", "guides/uber-setup"}, slugs)
	require.Equal(t, 1, set.Drafts)
	require.Len(t, set.Assets, 1)
	require.Equal(t, "images/logo.png", set.Assets[0].RelPath)
	require.EqualValues(t, 3, set.Assets[0].Size)

	doc, ok := set.Lookup("getting_started")
	require.True(t, ok)
	require.Equal(t, "Getting started", doc.Title())
	require.Equal(t, "# Install\n", string(doc.Body))
	require.Equal(t, "", doc.Dir)

	require.True(t, set.HasSlug("index"), "index names the root page")
	require.True(t, set.HasSlug("/guides/"))
	require.False(t, set.HasSlug("reference/draft"))
	require.True(t, set.HasDirectory("guides"))
	require.True(t, set.HasDirectory("reference"), "api.md keeps its directory despite the slug override")
	require.False(t, set.HasDirectory("images"))
}

func TestDiscover_IncludeDrafts(t *testing.T) {
	root := writeTree(t, map[string]string{"draft.md": "---\ndraft: true\n---\nWIP\n"})
	set, err := Discover(root, true)
	require.NoError(t, err)
	require.True(t, set.HasSlug("draft"))
	require.Zero(t, set.Drafts)
}

func TestDiscover_DuplicateSlug(t *testing.T) {
	root := writeTree(t, map[string]string{
		"guides.md":       "a\n",
		"guides/index.md": "b\n",
	})
	_, err := Discover(root, false)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryDocs))
	require.True(t, stderrors.Is(err, derrors.ErrDuplicateSlug))
}

func TestDiscover_InvalidFrontmatter(t *testing.T) {
	root := writeTree(t, map[string]string{"bad.md": "---\ntitle: [oops\n---\nx\n"})
	_, err := Discover(root, false)
	require.Error(t, err)
	require.True(t, stderrors.Is(err, derrors.ErrInvalidFrontmatter))

	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	file, _ := ce.Context().GetString("file")
	require.Equal(t, "bad.md", file)
}

func TestDiscover_MissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing"), false)
	require.Error(t, err)
	require.True(t, stderrors.Is(err, derrors.ErrContentDirNotFound))
}

func TestSet_InDirectory(t *testing.T) {
	root := writeTree(t, map[string]string{
		"reference/zeta.md":    "---\ntitle: Zeta\n---\n",
		"reference/alpha.md":   "---\ntitle: Alpha\n---\n",
		"reference/first.md":   "---\ntitle: Last alphabetically\nsidebar:\n  order: 1\n---\n",
		"reference/hidden.md":  "---\nsidebar:\n  hidden: true\n---\n",
		"reference/cli/run.md": "---\ntitle: Run\n---\n",
		"guides/outside.md":    "x\n",
	})
	set, err := Discover(root, false)
	require.NoError(t, err)

	var labels []string
	for _, d := range set.InDirectory("reference") {
		labels = append(labels, d.SidebarLabel())
	}
	require.Equal(t, []string{"Last alphabetically", "Alpha", "Zeta", "Run"}, labels)
}

func TestSet_Hash(t *testing.T) {
	files := map[string]string{"a.md": "A\n", "img.png": "x"}
	a, err := Discover(writeTree(t, files), false)
	require.NoError(t, err)
	b, err := Discover(writeTree(t, files), false)
	require.NoError(t, err)
	require.Equal(t, a.Hash(), b.Hash())

	files["a.md"] = "changed\n"
	c, err := Discover(writeTree(t, files), false)
	require.NoError(t, err)
	require.NotEqual(t, a.Hash(), c.Hash())
}
