package markdown

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Transform is one named step of the Markdown post-processing pipeline.
type Transform interface {
	parser.ASTTransformer
	Name() string
}

// Pipeline runs transforms over each parsed document in the order they were
// added. It is registered with goldmark as a single AST transformer, so the
// order never depends on goldmark priorities.
type Pipeline struct {
	transforms []Transform
}

// NewPipeline returns a pipeline running ts in order.
func NewPipeline(ts ...Transform) *Pipeline {
	return &Pipeline{transforms: append([]Transform(nil), ts...)}
}

// Append returns a new pipeline with ts added after the existing transforms.
// The receiver is not modified.
func (p *Pipeline) Append(ts ...Transform) *Pipeline {
	out := make([]Transform, 0, p.Len()+len(ts))
	if p != nil {
		out = append(out, p.transforms...)
	}
	return &Pipeline{transforms: append(out, ts...)}
}

// Len returns the number of transforms.
func (p *Pipeline) Len() int {
	if p == nil {
		return 0
	}
	return len(p.transforms)
}

// Names returns the transform names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, 0, p.Len())
	if p == nil {
		return names
	}
	for _, t := range p.transforms {
		names = append(names, t.Name())
	}
	return names
}

// Transform implements parser.ASTTransformer.
func (p *Pipeline) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	if p == nil {
		return
	}
	for _, t := range p.transforms {
		t.Transform(doc, reader, pc)
	}
}

// Extend implements goldmark.Extender.
func (p *Pipeline) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(util.Prioritized(p, 200)))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(util.Prioritized(fragmentRenderer{}, 500)))
}
