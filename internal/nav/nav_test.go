package nav

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/docs"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

func discover(t *testing.T, files map[string]string) *docs.Set {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	set, err := docs.Discover(root, false)
	require.NoError(t, err)
	return set
}

func TestHref(t *testing.T) {
	require.Equal(t, "/python-package-template/getting_started/", Href("/python-package-template", "getting_started"))
	require.Equal(t, "/python-package-template/", Href("/python-package-template", ""))
	require.Equal(t, "/getting_started/", Href("/", "getting_started"))
	require.Equal(t, "/", Href("/", ""))
}

func TestBuild_ConfiguredSidebar(t *testing.T) {
	set := discover(t, map[string]string{
		"index.md":               "---\ntitle: Home\n---\n",
		"getting_started.md":     "---\ntitle: Getting started\n---\n",
		"reference/api.md":       "---\ntitle: API\nsidebar:\n  order: 1\n---\n",
		"reference/cli/run.md":   "---\ntitle: Run\n---\n",
		"reference/changelog.md": "---\ntitle: Changelog\n---\n",
	})
	entries := []config.SidebarEntry{
		{Label: "Guides", Items: []config.SidebarEntry{
			{Label: "Getting started", Slug: "getting_started"},
			{Slug: "index"},
		}},
		{Label: "Reference", Collapsed: true, Autogenerate: &config.AutogenerateConfig{Directory: "reference"}},
		{Label: "PyPI", Link: "https://pypi.org"},
	}

	sb, err := Build(entries, set, "/python-package-template")
	require.NoError(t, err)
	require.Len(t, sb.Items, 3)

	guides := sb.Items[0]
	require.True(t, guides.IsGroup())
	require.Equal(t, "/python-package-template/getting_started/", guides.Items[0].Href)
	require.Equal(t, "Home", guides.Items[1].Label, "label falls back to the document title")
	require.Equal(t, "/python-package-template/", guides.Items[1].Href)

	ref := sb.Items[1]
	require.True(t, ref.Collapsed)
	require.Len(t, ref.Items, 3)
	require.Equal(t, "API", ref.Items[0].Label)
	require.Equal(t, "Changelog", ref.Items[1].Label)
	require.Equal(t, "Cli", ref.Items[2].Label)
	require.Equal(t, "/python-package-template/reference/cli/run/", ref.Items[2].Items[0].Href)

	require.True(t, sb.Items[2].External)
	require.False(t, sb.Items[2].Page)

	var slugs []string
	for _, p := range sb.Pages() {
		slugs = append(slugs, p.Slug)
	}
	require.Equal(t, []string{"getting_started", "", "reference/api", "reference/changelog", "reference/cli/run"}, slugs)
}

func TestBuild_MissingSlug(t *testing.T) {
	set := discover(t, map[string]string{"index.md": "x\n"})
	_, err := Build([]config.SidebarEntry{{Label: "Getting started", Slug: "getting_started"}}, set, "/")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestBuild_EmptyConfigListsEverything(t *testing.T) {
	set := discover(t, map[string]string{
		"index.md":        "---\ntitle: Home\n---\n",
		"guides/intro.md": "---\ntitle: Intro\n---\n",
	})
	sb, err := Build(nil, set, "/")
	require.NoError(t, err)
	require.Len(t, sb.Items, 2)
	require.Equal(t, "Home", sb.Items[0].Label)
	require.Equal(t, "Guides", sb.Items[1].Label)
	require.Equal(t, "/guides/intro/", sb.Items[1].Items[0].Href)
}

func TestSidebar_ForPageAndPrevNext(t *testing.T) {
	set := discover(t, map[string]string{
		"a.md": "---\ntitle: A\n---\n",
		"b.md": "---\ntitle: B\n---\n",
		"c.md": "---\ntitle: C\n---\n",
	})
	entries := []config.SidebarEntry{
		{Slug: "a"},
		{Label: "More", Collapsed: true, Items: []config.SidebarEntry{{Slug: "b"}, {Slug: "c"}}},
	}
	sb, err := Build(entries, set, "/")
	require.NoError(t, err)

	items := sb.ForPage("b")
	require.False(t, items[0].Current)
	require.False(t, items[1].Collapsed, "group holding the current page is expanded")
	require.True(t, items[1].Items[0].Current)
	require.True(t, sb.Items[1].Collapsed, "shared tree is untouched")
	require.False(t, sb.Items[1].Items[0].Current)

	prev, next := sb.PrevNext("b")
	require.Equal(t, "a", prev.Slug)
	require.Equal(t, "c", next.Slug)

	prev, next = sb.PrevNext("a")
	require.Nil(t, prev)
	require.Equal(t, "b", next.Slug)

	prev, next = sb.PrevNext("missing")
	require.Nil(t, prev)
	require.Nil(t, next)
}
