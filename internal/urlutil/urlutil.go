// ABOUTME: URL normalization for guids, links, enclosures, and embedded content URLs
// ABOUTME: Fails soft on malformed input, returning the original URL unchanged

package urlutil

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// appScheme is the host application's internal scheme, which leaks into feed
// content captured inside the app.
const appScheme = "app://"

// ToAbsolute resolves a possibly-relative URL against a base URL.
//   - app:// is rewritten to https://
//   - protocol-relative //host/path gets an https: prefix
//   - absolute http(s) URLs pass through unchanged
//   - root-relative /path is joined to the base's scheme and host
//   - anything else resolves per standard relative resolution
//
// On malformed input it returns raw unchanged; it never fails to the caller.
func ToAbsolute(raw, base string) string {
	if raw == "" {
		return raw
	}
	if strings.HasPrefix(raw, appScheme) {
		return "https://" + strings.TrimPrefix(raw, appScheme)
	}
	if strings.HasPrefix(raw, "//") {
		return "https:" + raw
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}

	b, err := url.Parse(base)
	if err != nil || b.Scheme == "" || b.Host == "" {
		return raw
	}
	if strings.HasPrefix(raw, "/") {
		return b.Scheme + "://" + b.Host + raw
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return b.ResolveReference(ref).String()
}

// RewriteSrcset resolves every candidate URL in a srcset value, preserving
// the width/density descriptor suffixes.
func RewriteSrcset(srcset, base string) string {
	parts := strings.Split(srcset, ",")
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			parts[i] = part
			continue
		}
		fields := strings.Fields(part)
		fields[0] = ToAbsolute(fields[0], base)
		parts[i] = strings.Join(fields, " ")
	}
	return strings.Join(parts, ", ")
}

// urlAttrs are the attributes rewritten inside extracted content HTML.
var urlAttrs = map[string]bool{
	"href": true,
	"src":  true,
}

// RewriteContentURLs resolves href, src, and srcset attributes inside an HTML
// fragment against the base URL. On parse failure the fragment is returned
// unchanged.
func RewriteContentURLs(content, base string) string {
	if content == "" || !strings.Contains(content, "<") {
		return content
	}
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(content), ctx)
	if err != nil {
		return content
	}

	var b strings.Builder
	for _, n := range nodes {
		rewriteNode(n, base)
		if err := html.Render(&b, n); err != nil {
			return content
		}
	}
	return b.String()
}

func rewriteNode(n *html.Node, base string) {
	if n.Type == html.ElementNode {
		for i, attr := range n.Attr {
			switch {
			case urlAttrs[attr.Key]:
				n.Attr[i].Val = ToAbsolute(attr.Val, base)
			case attr.Key == "srcset":
				n.Attr[i].Val = RewriteSrcset(attr.Val, base)
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c, base)
	}
}
