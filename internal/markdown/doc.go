// Package markdown renders Markdown documents with goldmark and applies the
// site's ordered list of AST transforms, including the external link
// rewriter.
package markdown
