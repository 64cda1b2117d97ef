package site

import (
	"context"
	stdErrors "errors"
	"html/template"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/docsite/internal/docs"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/git"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/manifest"
)

// NotFoundPage is written at the output root for static hosts.
const NotFoundPage = "404.html"

// OutputPath returns the slash-separated output file for a page slug.
func OutputPath(slug string) string {
	if slug == "" {
		return "index.html"
	}
	return path.Join(slug, "index.html")
}

// stageRenderPages renders every document concurrently, bounded by
// build.concurrency. Transforms are stateless, so page order is irrelevant.
func stageRenderPages(ctx context.Context, bs *buildState) error {
	history := bs.openHistory()

	n := bs.cfg.Build.Concurrency
	bs.recorder.SetRenderConcurrency(n)
	pages := make([]manifest.Page, len(bs.set.Documents))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(n)
	for i, doc := range bs.set.Documents {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			page, err := bs.renderDocument(doc, history)
			if err != nil {
				return err
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	links := 0
	for _, p := range pages {
		links += p.ExternalLinks
	}
	bs.pages = pages
	bs.report.Pages = len(pages)
	bs.report.LinksRewritten = links
	bs.recorder.AddPagesRendered(len(pages))
	bs.recorder.AddExternalLinksRewritten(links)

	return bs.renderNotFound()
}

func (bs *buildState) renderDocument(doc *docs.Document, history *git.History) (manifest.Page, error) {
	out, err := bs.renderer.Render(doc.Body)
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return manifest.Page{}, ce.WithContext("file", doc.RelPath)
		}
		return manifest.Page{}, err
	}

	fp, err := manifest.Fingerprint(doc.Frontmatter, doc.Body)
	if err != nil {
		return manifest.Page{}, errors.WrapError(err, errors.CategoryDocs, "failed to fingerprint document").
			WithContext("file", doc.RelPath).
			Build()
	}

	v := bs.baseView()
	v.Title = doc.Title()
	if doc.Meta.Description != "" {
		v.Description = doc.Meta.Description
	}
	v.Canonical = canonicalURL(bs.cfg, doc.Slug)
	v.Sidebar = bs.sidebar.ForPage(doc.Slug)
	v.Content = template.HTML(out.HTML) // #nosec G203 -- rendered from trusted site content
	if doc.Meta.ShowTableOfContents() {
		v.Headings = out.Headings
	}
	prev, next := bs.sidebar.PrevNext(doc.Slug)
	if doc.Meta.ShowPrev() {
		v.Prev = prev
	}
	if doc.Meta.ShowNext() {
		v.Next = next
	}

	page := manifest.Page{
		Slug:          doc.Slug,
		Source:        doc.RelPath,
		Output:        OutputPath(doc.Slug),
		Fingerprint:   fp,
		ExternalLinks: out.RewrittenLinks,
	}
	if when, ok := bs.lastUpdated(history, doc); ok {
		v.LastUpdated = newDateView(when)
		page.LastUpdated = &when
	}

	html, err := bs.layout.render(v)
	if err != nil {
		return manifest.Page{}, err
	}
	if err := bs.writeFile(page.Output, html); err != nil {
		return manifest.Page{}, err
	}
	slog.Debug("Rendered page", logfields.Slug(doc.Slug), logfields.File(doc.RelPath), logfields.Count(out.RewrittenLinks))
	return page, nil
}

func (bs *buildState) renderNotFound() error {
	v := bs.baseView()
	v.Title = "404"
	v.Sidebar = bs.sidebar.Items
	v.Content = template.HTML("<p>Page not found. Check the URL or try using the search bar.</p>")
	html, err := bs.layout.render(v)
	if err != nil {
		return err
	}
	return bs.writeFile(NotFoundPage, html)
}

// openHistory opens the git repository holding the content when
// build.last_updated is set. A missing repository disables dates.
func (bs *buildState) openHistory() *git.History {
	if !bs.cfg.Build.LastUpdated {
		return nil
	}
	h, err := git.OpenHistory(bs.cfg.Content.Dir)
	if err != nil {
		if stdErrors.Is(err, git.ErrNoRepository) {
			slog.Info("Content is not in a git repository; last updated dates disabled", logfields.Path(bs.cfg.Content.Dir))
		} else {
			slog.Warn("Failed to open git history; last updated dates disabled", logfields.Error(err))
		}
		return nil
	}
	return h
}

func (bs *buildState) lastUpdated(h *git.History, doc *docs.Document) (time.Time, bool) {
	if h == nil {
		return time.Time{}, false
	}
	when, ok, err := h.LastModified(doc.Path)
	if err != nil {
		slog.Warn("Failed to read git history", logfields.File(doc.RelPath), logfields.Error(err))
		return time.Time{}, false
	}
	return when, ok
}

func (bs *buildState) writeFile(rel string, data []byte) error {
	dst := filepath.Join(bs.stageDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fsError(err, "failed to create output directory", filepath.Dir(dst))
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fsError(err, "failed to write output file", dst)
	}
	return nil
}
