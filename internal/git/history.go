package git

import (
	stderrors "errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// History answers last-modified queries against one repository. go-git
// repositories are not safe for concurrent use, so queries are serialized
// and cached.
type History struct {
	repo *git.Repository
	root string

	mu    sync.Mutex
	cache map[string]time.Time
}

// OpenHistory opens the repository containing path, searching parent
// directories. It returns ErrNoRepository when there is none.
func OpenHistory(path string) (*History, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if stderrors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNoRepository
		}
		return nil, classifyGitError(err, "open", path)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, classifyGitError(err, "worktree", path)
	}
	root, err := filepath.EvalSymlinks(wt.Filesystem.Root())
	if err != nil {
		root = wt.Filesystem.Root()
	}
	return &History{repo: repo, root: root, cache: make(map[string]time.Time)}, nil
}

// Root returns the worktree root.
func (h *History) Root() string { return h.root }

// LastModified returns the committer time of the newest commit touching the
// file at absPath. ok is false for files outside the worktree, untracked
// files and repositories without commits.
func (h *History) LastModified(absPath string) (when time.Time, ok bool, err error) {
	rel, inside := h.relative(absPath)
	if !inside {
		return time.Time{}, false, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if t, hit := h.cache[rel]; hit {
		return t, !t.IsZero(), nil
	}

	iter, err := h.repo.Log(&git.LogOptions{FileName: &rel, Order: git.LogOrderCommitterTime})
	if err != nil {
		if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
			h.cache[rel] = time.Time{}
			return time.Time{}, false, nil
		}
		return time.Time{}, false, classifyGitError(err, "log", rel)
	}
	defer iter.Close()

	commit, err := iter.Next()
	if err != nil {
		// io.EOF: no commit touches the file.
		h.cache[rel] = time.Time{}
		return time.Time{}, false, nil
	}
	h.cache[rel] = commit.Committer.When
	return commit.Committer.When, true, nil
}

func (h *History) relative(absPath string) (string, bool) {
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		resolved = absPath
	}
	rel, err := filepath.Rel(h.root, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
