// ABOUTME: Atom dialect parser with rel=alternate link selection
// ABOUTME: Prefers published over updated dates and content over summary

package parse

import (
	"github.com/harper/feedvault/internal/entities"
	"github.com/harper/feedvault/internal/models"
)

func parseAtom(root *node) (*models.ParsedFeed, error) {
	doc := root.find("feed")
	if doc == nil {
		return nil, errNoFeedRoot
	}

	feed := &models.ParsedFeed{
		Type:        models.TypeAtom,
		Title:       entities.Decode(doc.childText("title")),
		Description: cleanBody(doc.childText("subtitle")),
		Link:        atomLink(doc),
		Author:      atomAuthor(doc),
	}
	if u := doc.firstText("logo", "icon"); u != "" {
		feed.Image = &models.Image{URL: u}
	}

	for _, entry := range doc.all("entry") {
		feed.Items = append(feed.Items, parseAtomEntry(entry))
	}
	return feed, nil
}

func parseAtomEntry(entry *node) models.ParsedItem {
	link := atomLink(entry)
	content := cleanBody(entry.childText("content"))
	summary := cleanBody(entry.childText("summary"))

	p := models.ParsedItem{
		Title:       entities.Decode(entry.childText("title")),
		Link:        link,
		Description: summary,
		PubDate:     entry.firstText("published", "updated"),
		GUID:        entry.childText("id"),
		Author:      atomAuthor(entry),
		Content:     content,
	}
	if p.GUID == "" {
		p.GUID = link
	}
	if p.Content == "" {
		p.Content = summary
	}
	if cat := entry.child("category"); cat != nil {
		p.Category = cat.attr["term"]
	}
	if enc := atomEnclosure(entry); enc != nil {
		p.Enclosure = enc
	}
	p.Itunes = parseItunesBlock(entry)
	p.Image = itemImage(entry, p.Content, p.Description)
	return p
}

// atomLink selects the best link of a feed or entry: rel=alternate with
// type=text/html first, then any rel=alternate, then any href-bearing link.
func atomLink(n *node) string {
	links := n.all("link")
	for _, l := range links {
		if l.attr["rel"] == "alternate" && l.attr["type"] == "text/html" && l.attr["href"] != "" {
			return l.attr["href"]
		}
	}
	for _, l := range links {
		if l.attr["rel"] == "alternate" && l.attr["href"] != "" {
			return l.attr["href"]
		}
	}
	for _, l := range links {
		if l.attr["rel"] == "enclosure" {
			continue
		}
		if l.attr["href"] != "" {
			return l.attr["href"]
		}
	}
	return ""
}

// atomEnclosure maps a rel=enclosure link to the RSS enclosure shape.
func atomEnclosure(n *node) *models.Enclosure {
	for _, l := range n.all("link") {
		if l.attr["rel"] == "enclosure" && l.attr["href"] != "" {
			return &models.Enclosure{
				URL:    l.attr["href"],
				Type:   l.attr["type"],
				Length: l.attr["length"],
			}
		}
	}
	return nil
}

func atomAuthor(n *node) string {
	if a := n.child("author"); a != nil {
		if name := a.childText("name"); name != "" {
			return entities.Decode(name)
		}
		return entities.Decode(a.text)
	}
	return ""
}
