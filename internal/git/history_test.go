package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

func commitFile(t *testing.T, repo *git.Repository, repoPath, rel, content string, when time.Time) {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)
	p := filepath.Join(repoPath, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	_, err = wt.Add(rel)
	require.NoError(t, err)
	_, err = wt.Commit("update "+rel, &git.CommitOptions{Author: &object.Signature{Name: "tester", Email: "t@example.com", When: when}})
	require.NoError(t, err)
}

func TestHistory_LastModified(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	first := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)
	commitFile(t, repo, dir, "docs/getting_started.md", "v1", first)
	commitFile(t, repo, dir, "docs/other.md", "x", first.Add(time.Hour))
	commitFile(t, repo, dir, "docs/getting_started.md", "v2", second)

	h, err := OpenHistory(filepath.Join(dir, "docs"))
	require.NoError(t, err)

	when, ok, err := h.LastModified(filepath.Join(dir, "docs", "getting_started.md"))
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, second.Equal(when), "got %s", when)

	when, ok, err = h.LastModified(filepath.Join(dir, "docs", "other.md"))
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, first.Add(time.Hour).Equal(when))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs", "untracked.md"), []byte("x"), 0o644))
	_, ok, err = h.LastModified(filepath.Join(dir, "docs", "untracked.md"))
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = h.LastModified(filepath.Join(t.TempDir(), "elsewhere.md"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHistory_EmptyRepository(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("x"), 0o644))

	h, err := OpenHistory(dir)
	require.NoError(t, err)
	_, ok, err := h.LastModified(filepath.Join(dir, "a.md"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOpenHistory_NoRepository(t *testing.T) {
	_, err := OpenHistory(t.TempDir())
	require.ErrorIs(t, err, ErrNoRepository)
}
