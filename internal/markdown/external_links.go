package markdown

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Transform names.
const (
	ExternalLinksName = "external_links"
	BasePathLinksName = "base_path_links"
)

var rewrittenLinksKey = parser.NewContextKey()

// ExternalLinks applies a LinkRewriteRule to every link in a document,
// including anchors written as raw HTML.
type ExternalLinks struct {
	rule LinkRewriteRule
}

// NewExternalLinks wraps rule as a pipeline transform.
func NewExternalLinks(rule LinkRewriteRule) *ExternalLinks {
	return &ExternalLinks{rule: rule}
}

// Name implements Transform.
func (e *ExternalLinks) Name() string { return ExternalLinksName }

// Rule returns the wrapped rule.
func (e *ExternalLinks) Rule() LinkRewriteRule { return e.rule }

// Transform implements parser.ASTTransformer.
func (e *ExternalLinks) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	count := 0
	var raw []ast.Node
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindLink, ast.KindAutoLink:
			if e.rule.Apply(n, source) {
				count++
			}
		case ast.KindRawHTML, ast.KindHTMLBlock:
			raw = append(raw, n)
		}
		return ast.WalkContinue, nil
	})
	// Replacing during the walk would cut it short at the replaced node.
	for _, n := range raw {
		b, _ := rawHTML(n, source)
		if out, k := e.rule.RewriteHTML(b); k > 0 {
			replaceRawHTML(n, out)
			count += k
		}
	}
	if pc != nil {
		pc.Set(rewrittenLinksKey, RewrittenLinks(pc)+count)
	}
}

// RewrittenLinks returns how many links the external link transform rewrote
// while parsing the document associated with pc.
func RewrittenLinks(pc parser.Context) int {
	if pc == nil {
		return 0
	}
	n, _ := pc.Get(rewrittenLinksKey).(int)
	return n
}
