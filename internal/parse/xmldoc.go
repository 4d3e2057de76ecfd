// ABOUTME: Lenient XML element tree built from encoding/xml tokens
// ABOUTME: Non-strict decoding with charset fallback and prefix-qualified lowercase names

package parse

import (
	"io"
	"strings"

	"encoding/xml"

	"golang.org/x/net/html/charset"
)

// node is one element of a parsed document. Names and attribute keys are
// lowercased and prefix-qualified ("dc:creator", "itunes:image") regardless
// of whether the source declared the namespace.
type node struct {
	name string
	attr map[string]string
	kids []*node
	text string
}

// knownNamespaces maps namespace URIs back to the conventional prefix, so a
// declared xmlns:dc and a bare dc: prefix both qualify to "dc:".
var knownNamespaces = map[string]string{
	"http://purl.org/dc/elements/1.1/":              "dc",
	"http://purl.org/rss/1.0/modules/content/":      "content",
	"http://www.itunes.com/dtds/podcast-1.0.dtd":    "itunes",
	"http://search.yahoo.com/mrss/":                 "media",
	"http://www.w3.org/1999/02/22-rdf-syntax-ns#":   "rdf",
	"http://purl.org/rss/1.0/":                      "",
	"http://www.w3.org/2005/Atom":                   "",
	"http://www.w3.org/1999/xhtml":                  "",
	"http://purl.org/rss/1.0/modules/syndication/":  "sy",
	"http://wellformedweb.org/CommentAPI/":          "wfw",
	"http://www.georss.org/georss":                  "georss",
	"http://www.rssboard.org/media-rss":             "media",
	"http://purl.org/rss/1.0/modules/slash/":        "slash",
	"http://a9.com/-/spec/opensearchrss/1.0/":       "opensearch",
	"http://www.w3.org/2003/01/geo/wgs84_pos#":      "geo",
	"http://purl.org/syndication/thread/1.0":        "thr",
	"http://rssnamespace.org/feedburner/ext/1.0":    "feedburner",
	"https://www.ieee.org/":                         "ieee",
}

// qualify converts an xml.Name to a lowercase, prefix-qualified string.
// Space is either a resolved namespace URI (declared) or the raw prefix
// (undeclared); both collapse to the conventional prefix.
func qualify(n xml.Name) string {
	local := strings.ToLower(n.Local)
	if n.Space == "" {
		return local
	}
	prefix, known := knownNamespaces[n.Space]
	if !known {
		if strings.ContainsAny(n.Space, "/:") {
			// Unknown namespace URI: fall back to its last path segment,
			// which for publisher extensions is the prefix in practice.
			seg := strings.Trim(n.Space, "/")
			if i := strings.LastIndexAny(seg, "/:"); i >= 0 {
				seg = seg[i+1:]
			}
			prefix = strings.ToLower(seg)
		} else {
			prefix = strings.ToLower(n.Space)
		}
	}
	if prefix == "" || prefix == "xmlns" {
		return local
	}
	return prefix + ":" + local
}

// buildTree parses XML text into an element tree. The decoder runs in
// non-strict mode with charset conversion; a structural error still surfaces
// so callers can fall through to the second-chance and recovery paths.
func buildTree(text string) (*node, error) {
	dec := xml.NewDecoder(strings.NewReader(text))
	dec.Strict = false
	dec.CharsetReader = func(cs string, input io.Reader) (io.Reader, error) {
		r, err := charset.NewReaderLabel(cs, input)
		if err != nil {
			// Unknown charset: read it as-is rather than failing the parse.
			return input, nil
		}
		return r, nil
	}

	root := &node{name: "#document"}
	stack := []*node{root}

	for {
		tok, err := dec.Token()
		if tok == nil || err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &node{name: qualify(t.Name)}
			if len(t.Attr) > 0 {
				el.attr = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					el.attr[qualify(a.Name)] = a.Value
				}
			}
			parent := stack[len(stack)-1]
			parent.kids = append(parent.kids, el)
			stack = append(stack, el)
		case xml.EndElement:
			// Close the nearest matching open element. A stray end tag with
			// no open counterpart is dropped; an end tag arriving above an
			// unclosed child (an item closing over a bare <link>) unwinds
			// the stack through the child.
			name := qualify(t.Name)
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].name == name {
					stack = stack[:i]
					break
				}
			}
		case xml.CharData:
			stack[len(stack)-1].text += string(t)
		}
	}

	if len(root.kids) == 0 {
		return nil, errEmptyDocument
	}
	return root, nil
}

// firstElement returns the document's first element child.
func (n *node) firstElement() *node {
	if len(n.kids) == 0 {
		return nil
	}
	return n.kids[0]
}

// child returns the first direct child with the given qualified name.
func (n *node) child(name string) *node {
	for _, k := range n.kids {
		if k.name == name {
			return k
		}
	}
	return nil
}

// childText returns the text content of the first direct child with the
// given name, trimmed. Returns "" when absent.
func (n *node) childText(name string) string {
	if c := n.child(name); c != nil {
		return strings.TrimSpace(c.textContent())
	}
	return ""
}

// textContent returns the element's own character data followed by that of
// its descendants, so wrapped payloads (Atom xhtml content) are not lost.
func (n *node) textContent() string {
	if len(n.kids) == 0 {
		return n.text
	}
	var b strings.Builder
	b.WriteString(n.text)
	for _, k := range n.kids {
		b.WriteString(k.textContent())
	}
	return b.String()
}

// firstText returns the trimmed text of the first child matching any of the
// given names, in the order listed.
func (n *node) firstText(names ...string) string {
	for _, name := range names {
		if s := n.childText(name); s != "" {
			return s
		}
	}
	return ""
}

// all returns every direct child with the given name.
func (n *node) all(name string) []*node {
	var out []*node
	for _, k := range n.kids {
		if k.name == name {
			out = append(out, k)
		}
	}
	return out
}

// find does a depth-first search for the first element with the given name.
func (n *node) find(name string) *node {
	for _, k := range n.kids {
		if k.name == name {
			return k
		}
		if found := k.find(name); found != nil {
			return found
		}
	}
	return nil
}
