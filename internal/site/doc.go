// Package site builds the static documentation site: it discovers content,
// checks the sidebar against it, renders every page through the Markdown
// transform pipeline and writes the result to the output directory.
//
// A build runs as a fixed sequence of stages. Output is written to a staging
// directory next to the output directory and promoted only after every stage
// succeeded, so a failed build never replaces a previously good site.
package site
