package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// Heading is an entry of a page's table of contents.
type Heading struct {
	Level int
	ID    string
	Text  string
}

// Rendered is the output of rendering one Markdown body.
type Rendered struct {
	HTML           string
	Headings       []Heading
	RewrittenLinks int
}

// Renderer turns Markdown bodies into HTML. It is safe for concurrent use.
type Renderer struct {
	md       goldmark.Markdown
	pipeline *Pipeline
}

// NewRenderer returns a renderer with GitHub Flavored Markdown, automatic
// heading IDs, raw HTML passthrough and the given transform pipeline.
func NewRenderer(p *Pipeline) *Renderer {
	if p == nil {
		p = NewPipeline()
	}
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, p),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Renderer{md: md, pipeline: p}
}

// Pipeline returns the transform pipeline in use.
func (r *Renderer) Pipeline() *Pipeline { return r.pipeline }

// Render parses body (frontmatter already removed), runs the pipeline and
// renders HTML.
func (r *Renderer) Render(body []byte) (*Rendered, error) {
	pc := parser.NewContext()
	doc := r.md.Parser().Parse(text.NewReader(body), parser.WithContext(pc))

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, body, doc); err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "failed to render markdown").Build()
	}
	return &Rendered{
		HTML:           buf.String(),
		Headings:       collectHeadings(doc, body),
		RewrittenLinks: RewrittenLinks(pc),
	}, nil
}

// collectHeadings returns level 2 and 3 headings in document order.
func collectHeadings(doc ast.Node, source []byte) []Heading {
	var out []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if h.Level >= 2 && h.Level <= 3 {
			var id string
			if v, ok := h.AttributeString("id"); ok {
				if b, ok := v.([]byte); ok {
					id = string(b)
				}
			}
			out = append(out, Heading{Level: h.Level, ID: id, Text: plainText(h, source)})
		}
		return ast.WalkSkipChildren, nil
	})
	return out
}

func plainText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		case *ast.CodeSpan:
			for cc := t.FirstChild(); cc != nil; cc = cc.NextSibling() {
				if tt, ok := cc.(*ast.Text); ok {
					sb.Write(tt.Segment.Value(source))
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
