package markdown

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// KindHTMLFragment is the node kind of HTMLFragment and HTMLBlockFragment.
var KindHTMLFragment = ast.NewNodeKind("HTMLFragment")

// HTMLFragment replaces an inline raw HTML node whose markup a transform
// changed. Value is written verbatim.
type HTMLFragment struct {
	ast.BaseInline
	Value []byte
}

// Kind implements ast.Node.
func (n *HTMLFragment) Kind() ast.NodeKind { return KindHTMLFragment }

// IsRaw implements ast.Node.
func (n *HTMLFragment) IsRaw() bool { return true }

// Dump implements ast.Node.
func (n *HTMLFragment) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Value": string(n.Value)}, nil)
}

// HTMLBlockFragment replaces an HTML block whose markup a transform changed.
type HTMLBlockFragment struct {
	ast.BaseBlock
	Value []byte
}

// Kind implements ast.Node.
func (n *HTMLBlockFragment) Kind() ast.NodeKind { return KindHTMLFragment }

// IsRaw implements ast.Node.
func (n *HTMLBlockFragment) IsRaw() bool { return true }

// Dump implements ast.Node.
func (n *HTMLBlockFragment) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Value": string(n.Value)}, nil)
}

// rawHTML returns the source bytes of a raw HTML node.
func rawHTML(n ast.Node, source []byte) ([]byte, bool) {
	switch node := n.(type) {
	case *ast.RawHTML:
		return node.Segments.Value(source), true
	case *ast.HTMLBlock:
		b := node.Lines().Value(source)
		if node.HasClosure() {
			b = append(b, node.ClosureLine.Value(source)...)
		}
		return b, true
	}
	return nil, false
}

// replaceRawHTML swaps n for a fragment node holding value.
func replaceRawHTML(n ast.Node, value []byte) {
	parent := n.Parent()
	if parent == nil {
		return
	}
	var repl ast.Node
	if n.Type() == ast.TypeBlock {
		b := &HTMLBlockFragment{Value: value}
		b.SetBlankPreviousLines(n.HasBlankPreviousLines())
		repl = b
	} else {
		repl = &HTMLFragment{Value: value}
	}
	parent.ReplaceChild(parent, n, repl)
}

type fragmentRenderer struct{}

// RegisterFuncs implements renderer.NodeRenderer.
func (fragmentRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindHTMLFragment, renderFragment)
}

func renderFragment(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	switch n := node.(type) {
	case *HTMLFragment:
		_, _ = w.Write(n.Value)
	case *HTMLBlockFragment:
		_, _ = w.Write(n.Value)
	}
	return ast.WalkSkipChildren, nil
}
