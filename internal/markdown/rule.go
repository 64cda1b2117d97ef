package markdown

import (
	"net/url"
	"strings"

	"github.com/yuin/goldmark/ast"
)

var (
	attrTarget = []byte("target")
	attrRel    = []byte("rel")
)

// LinkRewriteRule decides which links leave the site and which attributes
// they receive. The zero value matches nothing. A rule is immutable and safe
// for concurrent use.
type LinkRewriteRule struct {
	site   Origin
	target string
	rel    []string
	relVal string
}

// NewLinkRewriteRule builds a rule for a site whose canonical URL is siteURL.
// Duplicate rel tokens are dropped, keeping the first occurrence.
func NewLinkRewriteRule(siteURL, target string, rel []string) (LinkRewriteRule, error) {
	site, err := ParseOrigin(siteURL)
	if err != nil {
		return LinkRewriteRule{}, err
	}
	tokens := dedupe(rel)
	return LinkRewriteRule{
		site:   site,
		target: target,
		rel:    tokens,
		relVal: strings.Join(tokens, " "),
	}, nil
}

// Target returns the target attribute value set on matching links.
func (r LinkRewriteRule) Target() string { return r.target }

// Rel returns a copy of the rel tokens set on matching links.
func (r LinkRewriteRule) Rel() []string { return append([]string(nil), r.rel...) }

// SiteOrigin returns the origin links are compared against.
func (r LinkRewriteRule) SiteOrigin() Origin { return r.site }

// AppliesWhen reports whether href points to an http(s) origin other than the
// site's. Relative, same-origin, malformed and non-web URLs never match.
func (r LinkRewriteRule) AppliesWhen(href string) bool {
	if r.site.Scheme == "" {
		return false
	}
	href = strings.TrimSpace(href)
	if href == "" {
		return false
	}
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	o, ok := originOf(u, r.site.Scheme)
	if !ok {
		return false
	}
	return o != r.site
}

// Apply sets target and rel on a link or autolink node whose destination
// matches. Existing values are replaced, so applying twice changes nothing.
// It reports whether the node was rewritten.
func (r LinkRewriteRule) Apply(n ast.Node, source []byte) bool {
	var href string
	switch node := n.(type) {
	case *ast.Link:
		href = string(node.Destination)
	case *ast.AutoLink:
		if node.AutoLinkType != ast.AutoLinkURL {
			return false
		}
		href = string(node.URL(source))
	default:
		return false
	}
	if !r.AppliesWhen(href) {
		return false
	}
	if r.target != "" {
		n.SetAttribute(attrTarget, []byte(r.target))
	}
	if r.relVal != "" {
		n.SetAttribute(attrRel, []byte(r.relVal))
	}
	return true
}

func dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
