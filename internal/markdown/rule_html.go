package markdown

import (
	"bytes"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RewriteHTML applies the rule to every <a href> start tag in a raw HTML
// fragment. Matching tags are re-serialized with target and rel replaced;
// all other bytes are copied unchanged. It returns the fragment and the
// number of anchors rewritten. A fragment the tokenizer cannot consume
// completely is returned as is.
func (r LinkRewriteRule) RewriteHTML(fragment []byte) ([]byte, int) {
	if r.site.Scheme == "" || !bytes.Contains(bytes.ToLower(fragment), []byte("<a")) {
		return fragment, 0
	}

	z := html.NewTokenizer(bytes.NewReader(fragment))
	var out bytes.Buffer
	consumed, count := 0, 0
	for {
		tt := z.Next()
		// Token lower-cases the tag buffer in place, so copy the raw bytes first.
		raw := append([]byte(nil), z.Raw()...)
		consumed += len(raw)
		if tt == html.ErrorToken {
			out.Write(raw)
			break
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			out.Write(raw)
			continue
		}
		tok := z.Token()
		if tok.DataAtom != atom.A {
			out.Write(raw)
			continue
		}
		href, ok := attrValue(tok.Attr, "href")
		if !ok || !r.AppliesWhen(href) {
			out.Write(raw)
			continue
		}
		tok.Attr = r.anchorAttrs(tok.Attr)
		out.WriteString(tok.String())
		count++
	}
	if consumed != len(fragment) || count == 0 {
		return fragment, 0
	}
	return out.Bytes(), count
}

func (r LinkRewriteRule) anchorAttrs(attrs []html.Attribute) []html.Attribute {
	out := make([]html.Attribute, 0, len(attrs)+2)
	for _, a := range attrs {
		if (a.Key == "target" && r.target != "") || (a.Key == "rel" && r.relVal != "") {
			continue
		}
		out = append(out, a)
	}
	if r.target != "" {
		out = append(out, html.Attribute{Key: "target", Val: r.target})
	}
	if r.relVal != "" {
		out = append(out, html.Attribute{Key: "rel", Val: r.relVal})
	}
	return out
}

func attrValue(attrs []html.Attribute, key string) (string, bool) {
	for _, a := range attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
