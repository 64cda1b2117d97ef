// Package linkverify checks emitted HTML: external links inside page content
// must carry the configured target and rel attributes, and internal links
// should resolve to generated files.
package linkverify

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/markdown"
)

// Kind classifies a violation.
type Kind string

const (
	KindMissingTarget  Kind = "missing_target"
	KindMissingRel     Kind = "missing_rel"
	KindBrokenInternal Kind = "broken_internal"
)

// Violation is one problem found in an emitted page.
type Violation struct {
	File   string // path relative to the output root
	URL    string
	Kind   Kind
	Detail string
}

// Report summarizes a verification run.
type Report struct {
	Pages      int
	Anchors    int
	Violations []Violation
}

// Errors returns the violations that fail a build: external links missing
// required attributes.
func (r *Report) Errors() []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Kind != KindBrokenInternal {
			out = append(out, v)
		}
	}
	return out
}

// Warnings returns violations that are reported but tolerated.
func (r *Report) Warnings() []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Kind == KindBrokenInternal {
			out = append(out, v)
		}
	}
	return out
}

// Err returns a build error describing the first failing violation, or nil.
func (r *Report) Err() error {
	errs := r.Errors()
	if len(errs) == 0 {
		return nil
	}
	first := errs[0]
	return errors.BuildError("emitted HTML contains external links without the required attributes").
		WithContext("violations", len(errs)).
		WithContext("file", first.File).
		WithContext("url", first.URL).
		WithContext("detail", first.Detail).
		Build()
}

// Verifier checks generated pages against a link rewrite rule.
type Verifier struct {
	rule     markdown.LinkRewriteRule
	basePath string
}

// New returns a verifier for a site served under basePath.
func New(rule markdown.LinkRewriteRule, basePath string) *Verifier {
	return &Verifier{rule: rule, basePath: strings.TrimRight(basePath, "/")}
}

// VerifySite checks every .html file under root using up to concurrency
// workers.
func (v *Verifier) VerifySite(ctx context.Context, root string, concurrency int) (*Report, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(p), ".html") {
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to walk output directory").
			WithContext("path", root).
			Build()
	}
	sort.Strings(files)

	if concurrency <= 0 {
		concurrency = 1
	}
	report := &Report{Pages: len(files)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, rel := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			anchors, violations, err := v.VerifyFile(root, rel)
			if err != nil {
				return err
			}
			mu.Lock()
			report.Anchors += anchors
			report.Violations = append(report.Violations, violations...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(report.Violations, func(i, j int) bool {
		a, b := report.Violations[i], report.Violations[j]
		if a.File != b.File {
			return a.File < b.File
		}
		return a.URL < b.URL
	})
	for _, w := range report.Warnings() {
		slog.Warn("Internal link does not resolve", logfields.File(w.File), logfields.URL(w.URL))
	}
	return report, nil
}

// VerifyFile checks one page at rel (slash-separated) below root and returns
// the number of anchors seen and any violations.
func (v *Verifier) VerifyFile(root, rel string) (int, []Violation, error) {
	links, err := ExtractLinks(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return 0, nil, err
	}
	pageURL := v.pageURL(rel)

	var out []Violation
	for _, l := range links {
		if !l.InContent {
			continue
		}
		if v.rule.AppliesWhen(l.URL) {
			out = append(out, v.checkAttributes(rel, l)...)
			continue
		}
		if local, ok := v.localPath(pageURL, l.URL); ok {
			if !exists(filepath.Join(root, filepath.FromSlash(local))) {
				out = append(out, Violation{File: rel, URL: l.URL, Kind: KindBrokenInternal, Detail: "no generated file at " + local})
			}
		}
	}
	return len(links), out, nil
}

func (v *Verifier) checkAttributes(rel string, l *Link) []Violation {
	var out []Violation
	if want := v.rule.Target(); want != "" && l.Target != want {
		out = append(out, Violation{
			File:   rel,
			URL:    l.URL,
			Kind:   KindMissingTarget,
			Detail: fmt.Sprintf("target=%q, want %q", l.Target, want),
		})
	}
	have := make(map[string]bool, len(l.Rel))
	for _, tok := range l.Rel {
		have[strings.ToLower(tok)] = true
	}
	var missing []string
	for _, tok := range v.rule.Rel() {
		if !have[strings.ToLower(tok)] {
			missing = append(missing, tok)
		}
	}
	if len(missing) > 0 {
		out = append(out, Violation{
			File:   rel,
			URL:    l.URL,
			Kind:   KindMissingRel,
			Detail: "rel lacks " + strings.Join(missing, " "),
		})
	}
	return out
}

// pageURL returns the site-relative URL a generated file is served at.
func (v *Verifier) pageURL(rel string) *url.URL {
	p := v.basePath + "/" + rel
	if path.Base(p) == "index.html" {
		p = strings.TrimSuffix(p, "index.html")
	}
	return &url.URL{Path: p}
}

// localPath maps a same-site href onto a file path below the output root.
func (v *Verifier) localPath(page *url.URL, href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil || u.Opaque != "" {
		return "", false
	}
	if u.Scheme != "" || u.Host != "" {
		// Absolute same-origin links carry the full path.
		if u.Scheme != "http" && u.Scheme != "https" && u.Scheme != "" {
			return "", false
		}
		u = &url.URL{Path: u.Path}
	}
	if u.Path == "" {
		return "", false
	}
	resolved := page.ResolveReference(u).Path
	base := v.basePath + "/"
	if !strings.HasPrefix(resolved, base) && resolved != v.basePath {
		return "", false
	}
	local := strings.TrimPrefix(strings.TrimPrefix(resolved, v.basePath), "/")
	if local == "" || strings.HasSuffix(local, "/") {
		return local + "index.html", true
	}
	if path.Ext(local) == "" {
		return local + "/index.html", true
	}
	return local, true
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
