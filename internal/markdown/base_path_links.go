package markdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// BasePathLinks prefixes root-relative link and image destinations with the
// site base path, so content can be written as if served from "/".
type BasePathLinks struct {
	base string
}

// NewBasePathLinks returns a transform for basePath. A base path of "/" makes
// the transform a no-op.
func NewBasePathLinks(basePath string) *BasePathLinks {
	return &BasePathLinks{base: strings.TrimRight(basePath, "/")}
}

// Name implements Transform.
func (b *BasePathLinks) Name() string { return BasePathLinksName }

// Transform implements parser.ASTTransformer.
func (b *BasePathLinks) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	if b.base == "" {
		return
	}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Link:
			node.Destination = b.prefix(node.Destination)
		case *ast.Image:
			node.Destination = b.prefix(node.Destination)
		}
		return ast.WalkContinue, nil
	})
}

func (b *BasePathLinks) prefix(dest []byte) []byte {
	s := string(dest)
	if !strings.HasPrefix(s, "/") || strings.HasPrefix(s, "//") {
		return dest
	}
	if s == b.base || strings.HasPrefix(s, b.base+"/") || strings.HasPrefix(s, b.base+"?") || strings.HasPrefix(s, b.base+"#") {
		return dest
	}
	return []byte(b.base + s)
}
