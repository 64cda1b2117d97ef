package preview

import (
	"encoding/json"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/site"
)

// Reserved paths served next to the site.
const (
	MetricsPath = "/metrics"
	StatusPath  = "/_docsite/status"
)

// siteHandler serves the output directory under the base path the way a
// static host would: directories map to index.html and missing files get
// 404.html.
type siteHandler struct {
	server *Server
}

func (h siteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cfg := h.server.Config()
	base := cfg.Site.BasePath
	if base != "/" {
		if r.URL.Path == "/" || r.URL.Path == base {
			http.Redirect(w, r, base+"/", http.StatusFound)
			return
		}
		if !strings.HasPrefix(r.URL.Path, base+"/") {
			h.notFound(w, cfg.Output.Directory)
			return
		}
	}

	rel := path.Clean("/" + strings.TrimPrefix(r.URL.Path, strings.TrimSuffix(base, "/")))
	file := filepath.Join(cfg.Output.Directory, filepath.FromSlash(rel))
	fi, err := os.Stat(file)
	if err == nil && fi.IsDir() {
		if !strings.HasSuffix(r.URL.Path, "/") {
			http.Redirect(w, r, r.URL.Path+"/", http.StatusMovedPermanently)
			return
		}
		file = filepath.Join(file, "index.html")
		fi, err = os.Stat(file)
	}
	if err != nil || fi.IsDir() {
		h.notFound(w, cfg.Output.Directory)
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, file)
}

func (h siteHandler) notFound(w http.ResponseWriter, outputDir string) {
	data, err := os.ReadFile(filepath.Join(outputDir, site.NotFoundPage))
	if err != nil {
		http.NotFound(w, nil)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(data)
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	v := s.status.view()
	w.Header().Set("Content-Type", "application/json")
	if !v.OK {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(v)
}
