package linkverify

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// ContentClass marks the element holding rendered Markdown. Only anchors
// inside it are subject to the external link attribute checks.
const ContentClass = "sl-markdown-content"

// Link represents an anchor extracted from HTML content.
type Link struct {
	URL       string   // href value
	Text      string   // anchor text
	Target    string   // target attribute
	Rel       []string // rel tokens
	InContent bool     // inside the rendered Markdown container
	Line      int      // approximate element index in the document
}

// ExtractLinks extracts all anchors from an HTML file.
func ExtractLinks(htmlPath string) ([]*Link, error) {
	file, err := os.Open(filepath.Clean(htmlPath))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to open HTML file").
			WithSeverity(errors.SeverityError).
			WithContext("html_path", htmlPath).
			Build()
	}
	defer func() {
		_ = file.Close()
	}()

	return ExtractLinksFromReader(file)
}

// ExtractLinksFromReader extracts all anchors from an HTML reader.
func ExtractLinksFromReader(r io.Reader) ([]*Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse HTML").
			WithSeverity(errors.SeverityError).
			Build()
	}

	var links []*Link
	var lineNum int

	var extract func(n *html.Node, inContent bool)
	extract = func(n *html.Node, inContent bool) {
		if n.Type == html.ElementNode {
			lineNum++
			if hasClass(n, ContentClass) {
				inContent = true
			}
			if n.Data == "a" {
				if href, ok := getAttr(n, "href"); ok {
					target, _ := getAttr(n, "target")
					rel, _ := getAttr(n, "rel")
					links = append(links, &Link{
						URL:       href,
						Text:      extractText(n),
						Target:    target,
						Rel:       strings.Fields(rel),
						InContent: inContent,
						Line:      lineNum,
					})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c, inContent)
		}
	}

	extract(doc, false)
	return links, nil
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	v, ok := getAttr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// extractText extracts text content from an HTML node and its children.
func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}
	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text.WriteString(extractText(c))
	}
	return strings.TrimSpace(text.String())
}
