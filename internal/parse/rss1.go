// ABOUTME: RSS 1.0 / RDF dialect parser with Dublin Core field handling
// ABOUTME: Item identity from rdf:about, multiple dc:creator elements joined

package parse

import (
	"strings"

	"github.com/harper/feedvault/internal/entities"
	"github.com/harper/feedvault/internal/models"
)

func parseRSS1(root *node) (*models.ParsedFeed, error) {
	doc := root.firstElement()
	if doc == nil {
		return nil, errNoFeedRoot
	}
	channel := doc.child("channel")
	if channel == nil {
		channel = root.find("channel")
	}
	if channel == nil {
		return nil, errNoChannel
	}

	feed := &models.ParsedFeed{
		Type:        models.TypeRSS,
		Title:       entities.Decode(channel.firstText("dc:title", "title")),
		Description: cleanBody(channel.childText("description")),
		Link:        entities.StripCDATA(channel.childText("link")),
		Author:      joinCreators(channel),
	}

	// RDF puts the image reference on the channel as rdf:resource, or as a
	// sibling <image> element with a nested <url>.
	if img := channel.child("image"); img != nil {
		if res := img.attr["rdf:resource"]; res != "" {
			feed.Image = &models.Image{URL: res}
		}
	}
	if feed.Image == nil {
		if img := doc.child("image"); img != nil {
			if u := img.firstText("url"); u != "" {
				feed.Image = &models.Image{URL: u}
			} else if res := img.attr["rdf:about"]; res != "" {
				feed.Image = &models.Image{URL: res}
			}
		}
	}

	// RDF items are siblings of the channel, not children of it.
	items := doc.all("item")
	if len(items) == 0 {
		items = channel.all("item")
	}
	for _, item := range items {
		feed.Items = append(feed.Items, parseRSS1Item(item))
	}

	return feed, nil
}

func parseRSS1Item(item *node) models.ParsedItem {
	link := entities.StripCDATA(item.childText("link"))

	p := models.ParsedItem{
		Title:       entities.Decode(item.firstText("dc:title", "title")),
		Link:        link,
		Description: cleanBody(item.firstText("description", "dc:description")),
		PubDate:     item.firstText("dc:date", "pubdate"),
		GUID:        item.attr["rdf:about"],
		Author:      joinCreators(item),
		Content:     cleanBody(item.childText("content:encoded")),
		Category:    entities.Decode(item.firstText("dc:subject", "category")),
	}
	if p.GUID == "" {
		p.GUID = link
	}
	if p.Content == "" {
		p.Content = p.Description
	}
	p.Image = itemImage(item, p.Content, p.Description)
	p.Biblio = parseBiblio(item)
	return p
}

// joinCreators joins multiple dc:creator elements with commas, falling back
// to the plain author tag.
func joinCreators(n *node) string {
	var names []string
	for _, c := range n.all("dc:creator") {
		if name := entities.Decode(strings.TrimSpace(c.text)); name != "" {
			names = append(names, name)
		}
	}
	if len(names) > 0 {
		return strings.Join(names, ", ")
	}
	return entities.Decode(n.childText("author"))
}
