package docs

import (
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	derrors "git.home.luguber.info/inful/docsite/internal/docs/errors"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/frontmatter"
	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// Document is a discovered Markdown page.
type Document struct {
	Path        string // absolute source path
	RelPath     string // slash-separated, relative to the content root
	Slug        string // "" for the root page
	Dir         string // slugified directory of RelPath, used by autogenerated groups
	Meta        frontmatter.PageMeta
	Frontmatter []byte
	Body        []byte
	ModTime     time.Time
}

// Title returns the frontmatter title, falling back to the file name.
func (d *Document) Title() string {
	if d.Meta.Title != "" {
		return d.Meta.Title
	}
	name := strings.TrimSuffix(path.Base(d.RelPath), path.Ext(d.RelPath))
	if strings.EqualFold(name, "index") && d.Dir != "" {
		name = path.Base(d.Dir)
	}
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// SidebarLabel returns the label used in autogenerated sidebar groups.
func (d *Document) SidebarLabel() string {
	if d.Meta.Sidebar.Label != "" {
		return d.Meta.Sidebar.Label
	}
	return d.Title()
}

// Asset is a non-Markdown file copied verbatim to the output.
type Asset struct {
	Path    string
	RelPath string
	Size    int64
}

// Set is the result of discovery: documents ordered by slug plus assets.
type Set struct {
	Root      string
	Documents []*Document
	Assets    []Asset
	Drafts    int

	bySlug map[string]*Document
	dirs   map[string]bool
}

// Discover walks root and loads every Markdown document and asset under it.
// Hidden entries and entries starting with '_' are skipped. Draft documents
// are left out unless includeDrafts is set.
func Discover(root string, includeDrafts bool) (*Set, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, errors.DocsError("content directory not found").
			WithCause(derrors.ErrContentDirNotFound).
			WithContext("path", root).
			Build()
	}

	set := &Set{
		Root:   root,
		bySlug: make(map[string]*Document),
		dirs:   map[string]bool{"": true},
	}

	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != root && skipName(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if !isMarkdownFile(rel) {
			fi, err := d.Info()
			if err != nil {
				return err
			}
			set.Assets = append(set.Assets, Asset{Path: p, RelPath: rel, Size: fi.Size()})
			slog.Debug("Discovered asset", logfields.File(rel))
			return nil
		}

		doc, err := loadDocument(p, rel)
		if err != nil {
			return err
		}
		if doc.Meta.Draft && !includeDrafts {
			set.Drafts++
			slog.Debug("Skipping draft", logfields.File(rel))
			return nil
		}
		return set.add(doc)
	})
	if walkErr != nil {
		if errors.IsClassified(walkErr) {
			return nil, walkErr
		}
		return nil, errors.WrapError(walkErr, errors.CategoryDocs, derrors.ErrContentWalkFailed.Error()).
			Fatal().
			WithContext("path", root).
			Build()
	}

	sort.Slice(set.Documents, func(i, j int) bool { return set.Documents[i].Slug < set.Documents[j].Slug })
	sort.Slice(set.Assets, func(i, j int) bool { return set.Assets[i].RelPath < set.Assets[j].RelPath })

	slog.Info("Content discovered",
		logfields.Path(root),
		logfields.Count(len(set.Documents)),
		slog.Int("assets", len(set.Assets)),
		slog.Int("drafts", set.Drafts))
	return set, nil
}

func loadDocument(absPath, rel string) (*Document, error) {
	fi, err := os.Stat(absPath)
	if err != nil {
		return nil, readError(err, rel)
	}
	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, readError(err, rel)
	}

	split, err := frontmatter.Split(content)
	if err != nil {
		return nil, frontmatterError(err, rel)
	}
	meta, err := frontmatter.ParseMeta(split.Frontmatter)
	if err != nil {
		return nil, frontmatterError(err, rel)
	}

	dir := SlugFromPath(path.Join(path.Dir(rel), "index"))
	slug := SlugFromPath(rel)
	if meta.Slug != "" {
		slug = CanonicalSlug(meta.Slug)
	}

	return &Document{
		Path:        absPath,
		RelPath:     rel,
		Slug:        slug,
		Dir:         dir,
		Meta:        meta,
		Frontmatter: split.Frontmatter,
		Body:        split.Body,
		ModTime:     fi.ModTime(),
	}, nil
}

func (s *Set) add(doc *Document) error {
	if prev, ok := s.bySlug[doc.Slug]; ok {
		return errors.DocsError("two documents resolve to the same slug").
			WithCause(derrors.ErrDuplicateSlug).
			WithContext("slug", doc.Slug).
			WithContext("first", prev.RelPath).
			WithContext("second", doc.RelPath).
			Build()
	}
	s.bySlug[doc.Slug] = doc
	s.Documents = append(s.Documents, doc)
	for dir := doc.Dir; dir != "" && !s.dirs[dir]; dir = parentDir(dir) {
		s.dirs[dir] = true
	}
	slog.Debug("Discovered document", logfields.File(doc.RelPath), logfields.Slug(doc.Slug))
	return nil
}

// Lookup returns the document for slug. "index" names the root page.
func (s *Set) Lookup(slug string) (*Document, bool) {
	d, ok := s.bySlug[CanonicalSlug(slug)]
	return d, ok
}

// HasSlug reports whether a document with slug exists.
func (s *Set) HasSlug(slug string) bool {
	_, ok := s.Lookup(slug)
	return ok
}

// HasDirectory reports whether any document lives under dir.
func (s *Set) HasDirectory(dir string) bool {
	return s.dirs[strings.Trim(dir, "/")]
}

// InDirectory returns the documents below dir, recursively, excluding those
// hidden from the sidebar. Documents are ordered by directory, then
// sidebar order (unset last), then label.
func (s *Set) InDirectory(dir string) []*Document {
	dir = strings.Trim(dir, "/")
	var out []*Document
	for _, d := range s.Documents {
		if d.Meta.Sidebar.Hidden {
			continue
		}
		if dir == "" || d.Dir == dir || strings.HasPrefix(d.Dir, dir+"/") {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Dir != b.Dir {
			return a.Dir < b.Dir
		}
		ao, bo := a.Meta.Sidebar.Order, b.Meta.Sidebar.Order
		switch {
		case ao != nil && bo != nil && *ao != *bo:
			return *ao < *bo
		case ao != nil && bo == nil:
			return true
		case ao == nil && bo != nil:
			return false
		}
		return a.SidebarLabel() < b.SidebarLabel()
	})
	return out
}

func parentDir(dir string) string {
	if i := strings.LastIndexByte(dir, '/'); i >= 0 {
		return dir[:i]
	}
	return ""
}

func skipName(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

// isMarkdownFile reports whether rel is a Markdown or MDX document.
func isMarkdownFile(rel string) bool {
	switch strings.ToLower(path.Ext(rel)) {
	case ".md", ".mdx", ".markdown":
		return true
	}
	return false
}

func readError(err error, rel string) error {
	return errors.DocsError("failed to read document").
		WithCause(stderrors.Join(derrors.ErrFileReadFailed, err)).
		WithContext("file", rel).
		Build()
}

func frontmatterError(err error, rel string) error {
	return errors.DocsError("failed to parse frontmatter").
		WithCause(stderrors.Join(derrors.ErrInvalidFrontmatter, err)).
		WithContext("file", rel).
		Build()
}
