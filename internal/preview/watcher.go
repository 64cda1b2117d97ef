package preview

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// DefaultDebounce is the quiet period after the last change before a rebuild.
const DefaultDebounce = 300 * time.Millisecond

// setupFileWatcher watches the content tree recursively and the directory
// holding the configuration file.
func setupFileWatcher(contentDir, configDir string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.RuntimeError("failed to create file watcher").WithCause(err).Build()
	}
	if err := addDirsRecursive(watcher, contentDir); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	if configDir != "" {
		if err := watcher.Add(configDir); err != nil {
			_ = watcher.Close()
			return nil, errors.RuntimeError("failed to watch configuration directory").
				WithCause(err).
				WithContext("path", configDir).
				Build()
		}
	}
	return watcher, nil
}

// retargetWatch moves the recursive content watch from one tree to another.
// The configuration directory stays watched.
func retargetWatch(w *fsnotify.Watcher, from, to, configDir string) {
	for _, p := range w.WatchList() {
		if p != configDir && isUnder(p, from) {
			_ = w.Remove(p)
		}
	}
	if err := addDirsRecursive(w, to); err != nil {
		slog.Warn("Failed to watch content directory", logfields.Path(to), logfields.Error(err))
	}
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && shouldIgnoreEvent(path) {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				slog.Warn("Failed to watch directory", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for filesystem events that should not trigger rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	// Hidden files, including editor lock files such as .#name.
	if strings.HasPrefix(base, ".") {
		return true
	}

	// Editor temp/swap files
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	return base == "Thumbs.db"
}

// debouncer coalesces bursts of triggers into one signal on C.
type debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
	C     chan struct{}
}

func newDebouncer(delay time.Duration) *debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &debouncer{delay: delay, C: make(chan struct{}, 1)}
}

// trigger restarts the quiet period.
func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		select {
		case d.C <- struct{}{}:
		default:
		}
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
