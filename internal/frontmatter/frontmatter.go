package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// Document is a Markdown file split into its YAML frontmatter and body.
type Document struct {
	Frontmatter []byte // raw YAML without delimiters
	Body        []byte
	Had         bool   // the file started with a frontmatter block
	Newline     string // "\n" or "\r\n", detected from the first line break
}

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Split separates `---` delimited YAML frontmatter from the Markdown body.
//
// A document without an opening delimiter is returned whole as Body.
func Split(content []byte) (Document, error) {
	nl := detectNewline(content)
	doc := Document{Newline: nl}

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		doc.Body = content
		return doc, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		doc.Frontmatter = []byte{}
		doc.Body = content[start+len(open):]
		doc.Had = true
		return doc, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing delimiter on the last line without a trailing newline.
		tail := []byte(nl + "---")
		if !bytes.HasSuffix(content, tail) {
			return Document{}, ErrMissingClosingDelimiter
		}
		doc.Frontmatter = content[start : len(content)-len(tail)+len(nl)]
		doc.Body = []byte{}
		doc.Had = true
		return doc, nil
	}

	doc.Frontmatter = content[start : start+idx+len(nl)]
	doc.Body = content[start+idx+len(closeSeq):]
	doc.Had = true
	return doc, nil
}

// Join reassembles a document split by Split.
func (d Document) Join() []byte {
	if !d.Had {
		return d.Body
	}
	nl := d.Newline
	if nl == "" {
		nl = "\n"
	}
	delim := []byte("---" + nl)
	out := make([]byte, 0, 2*len(delim)+len(d.Frontmatter)+len(d.Body))
	out = append(out, delim...)
	out = append(out, d.Frontmatter...)
	out = append(out, delim...)
	out = append(out, d.Body...)
	return out
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
