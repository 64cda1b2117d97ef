// Package preview serves a built site locally and rebuilds it when content
// or configuration changes.
package preview

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/eventstore"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/site"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:4321"

// Options configures a preview server.
type Options struct {
	Addr       string
	ConfigPath string // reloaded on change when set
	Debounce   time.Duration
	Store      eventstore.Store
}

// Server builds the site, serves it and rebuilds on change. Requests keep
// being answered from the last good output while a rebuild runs or after
// one failed.
type Server struct {
	opts Options
	// cfg produced the output being served. pending was reloaded but has not
	// built successfully yet; it is retried by the next rebuild.
	cfg      atomic.Pointer[config.Config]
	pending  atomic.Pointer[config.Config]
	registry *prom.Registry
	recorder metrics.Recorder
	status   buildStatus

	buildMu sync.Mutex
}

// New returns a server for cfg.
func New(cfg *config.Config, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	reg := prom.NewRegistry()
	reg.MustRegister(promcollect.NewGoCollector(), promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))
	s := &Server{
		opts:     opts,
		registry: reg,
		recorder: metrics.NewPrometheusRecorder(reg),
	}
	s.cfg.Store(cfg)
	return s
}

// Config returns the configuration of the output being served.
func (s *Server) Config() *config.Config { return s.cfg.Load() }

// nextConfig returns the configuration the next rebuild uses.
func (s *Server) nextConfig() *config.Config {
	if cfg := s.pending.Load(); cfg != nil {
		return cfg
	}
	return s.cfg.Load()
}

// Handler returns the HTTP handler serving the site, metrics and status.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(MetricsPath, metrics.HTTPHandler(s.registry))
	mux.HandleFunc(StatusPath, s.handleStatus)
	mux.Handle("/", siteHandler{server: s})
	return mux
}

// Rebuild reloads the configuration when reloadConfig is set and builds the
// site. A configuration that fails to load is ignored. A reloaded one only
// replaces the served configuration once a build with it succeeds, so a
// failed build never points requests at an unbuilt output directory.
func (s *Server) Rebuild(ctx context.Context, reloadConfig bool) error {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	cfg := s.nextConfig()
	if reloadConfig && s.opts.ConfigPath != "" {
		loaded, err := config.Load(s.opts.ConfigPath)
		if err != nil {
			s.status.setError(err)
			return err
		}
		cfg = loaded
		s.pending.Store(loaded)
		slog.Info("Configuration reloaded", logfields.Path(s.opts.ConfigPath))
	}

	builder := site.NewBuilder(cfg,
		site.WithRecorder(s.recorder),
		site.WithEventStore(s.opts.Store),
		site.WithTrigger(site.TriggerPreview))
	report, err := builder.Build(ctx)
	if err != nil {
		s.status.setError(err)
		return err
	}
	s.cfg.Store(cfg)
	s.pending.Store(nil)
	s.status.setSuccess(report.BuildID)
	return nil
}

// Run builds once, then serves and watches until ctx is canceled. A failed
// initial build is reported but the server still starts, so the status
// endpoint can explain the failure.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Rebuild(ctx, false); err != nil {
		slog.Error("Initial build failed", logfields.Error(err))
	}

	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return errors.RuntimeError("failed to listen").
			WithCause(err).
			WithContext("addr", s.opts.Addr).
			Build()
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	slog.Info("Preview server listening",
		logfields.Addr(ln.Addr().String()),
		logfields.URL("http://"+ln.Addr().String()+s.Config().Site.BasePath))

	configDir := ""
	if s.opts.ConfigPath != "" {
		configDir = filepath.Dir(s.opts.ConfigPath)
	}
	watched := s.nextConfig().Content.Dir
	watcher, err := setupFileWatcher(watched, configDir)
	if err != nil {
		_ = srv.Close()
		return err
	}
	defer func() { _ = watcher.Close() }()

	deb := newDebouncer(s.opts.Debounce)
	defer deb.stop()
	var reload atomic.Bool

	for {
		select {
		case <-ctx.Done():
			return s.shutdown(srv)
		case err, ok := <-serveErr:
			if ok && err != nil {
				return errors.RuntimeError("preview server stopped").WithCause(err).Build()
			}
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return s.shutdown(srv)
			}
			if s.handleFileEvent(watcher, ev, &reload) {
				deb.trigger()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return s.shutdown(srv)
			}
			slog.Warn("File watcher error", logfields.Error(err))
		case <-deb.C:
			slog.Info("Change detected; rebuilding site")
			if err := s.Rebuild(ctx, reload.Swap(false)); err != nil {
				slog.Warn("Rebuild failed; serving last good output", logfields.Error(err))
			}
			if next := s.nextConfig().Content.Dir; next != watched {
				retargetWatch(watcher, watched, next, configDir)
				slog.Info("Watching new content directory", logfields.Path(next))
				watched = next
			}
		}
	}
}

// handleFileEvent reports whether ev should trigger a rebuild. Events in
// the configuration directory only count for configuration and .env files.
func (s *Server) handleFileEvent(w *fsnotify.Watcher, ev fsnotify.Event, reload *atomic.Bool) bool {
	if s.opts.ConfigPath != "" && filepath.Dir(ev.Name) == filepath.Dir(s.opts.ConfigPath) {
		name := filepath.Base(ev.Name)
		if ev.Name == s.opts.ConfigPath || name == ".env" || name == ".env.local" {
			reload.Store(true)
			slog.Debug("Configuration change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			return true
		}
		if !isUnder(ev.Name, s.nextConfig().Content.Dir) {
			return false
		}
	}
	if shouldIgnoreEvent(ev.Name) {
		return false
	}
	if ev.Op.Has(fsnotify.Create) {
		if isDir, err := statDir(ev.Name); err == nil && isDir {
			_ = addDirsRecursive(w, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	return true
}

func (s *Server) shutdown(srv *http.Server) error {
	slog.Info("Shutting down preview server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	return nil
}
