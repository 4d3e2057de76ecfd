// ABOUTME: RSS 2.0 dialect parser over the lenient element tree
// ABOUTME: Extracts channel metadata, itunes blocks, enclosures, and bibliographic fields

package parse

import (
	"regexp"
	"strings"

	"github.com/harper/feedvault/internal/entities"
	"github.com/harper/feedvault/internal/models"
)

// publisherRewrite is a host-specific link normalization. Rules are a small
// fixed table tuned against specific publishers; no rules are invented beyond
// the ones observed in the wild.
type publisherRewrite struct {
	hostPattern string
	from, to    string
}

var linkRewrites = []publisherRewrite{
	// SAGE journals serve abstracts at /doi/abs/ but the readable article at
	// /doi/full/.
	{hostPattern: "sagepub.com", from: "/doi/abs/", to: "/doi/full/"},
}

// rewriteLink applies the publisher rewrite table to a link.
func rewriteLink(link string) string {
	for _, r := range linkRewrites {
		if strings.Contains(link, r.hostPattern) && strings.Contains(link, r.from) {
			return strings.Replace(link, r.from, r.to, 1)
		}
	}
	return link
}

var imgSrcPattern = regexp.MustCompile(`(?i)<img[^>]+src=["']?([^"'\s>]+)`)

// firstImgSrc scrapes the first <img> src out of an HTML fragment.
func firstImgSrc(html string) string {
	if m := imgSrcPattern.FindStringSubmatch(html); m != nil {
		return m[1]
	}
	return ""
}

// cleanBody prepares a description or content body: CDATA unwrapped, the
// literal string "null" (emitted by broken PHP serializers) treated as empty.
func cleanBody(s string) string {
	s = strings.TrimSpace(entities.StripCDATA(s))
	if s == "null" {
		return ""
	}
	return s
}

func parseRSS2(root *node) (*models.ParsedFeed, error) {
	channel := root.find("channel")
	if channel == nil {
		return nil, errNoChannel
	}

	feed := &models.ParsedFeed{
		Type:        models.TypeRSS,
		Title:       entities.Decode(channel.childText("title")),
		Description: cleanBody(channel.childText("description")),
		Link:        rewriteLink(entities.StripCDATA(channel.childText("link"))),
		Author:      entities.Decode(channel.firstText("author", "dc:creator", "itunes:author")),
	}

	if img := channel.child("image"); img != nil {
		if u := img.childText("url"); u != "" {
			feed.Image = &models.Image{URL: u}
		}
	}
	if it := channel.child("itunes:image"); it != nil {
		if href := it.attr["href"]; href != "" {
			feed.ItunesImage = &models.Image{URL: href}
		}
	}

	for _, item := range channel.all("item") {
		feed.Items = append(feed.Items, parseRSS2Item(item))
	}
	// Some malformed feeds float items outside the channel.
	if len(feed.Items) == 0 {
		if rss := root.find("rss"); rss != nil {
			for _, item := range rss.all("item") {
				feed.Items = append(feed.Items, parseRSS2Item(item))
			}
		}
	}

	return feed, nil
}

func parseRSS2Item(item *node) models.ParsedItem {
	link := rewriteLink(entities.StripCDATA(item.childText("link")))
	content := cleanBody(item.childText("content:encoded"))
	description := cleanBody(item.childText("description"))

	p := models.ParsedItem{
		Title:       entities.Decode(item.childText("title")),
		Link:        link,
		Description: description,
		PubDate:     item.firstText("pubdate", "dc:date"),
		GUID:        entities.StripCDATA(item.childText("guid")),
		Author:      entities.Decode(item.firstText("author", "dc:creator", "itunes:author")),
		Content:     content,
		Category:    entities.Decode(item.childText("category")),
	}
	if p.GUID == "" {
		p.GUID = link
	}
	if p.Content == "" {
		p.Content = description
	}

	if enc := item.child("enclosure"); enc != nil && enc.attr["url"] != "" {
		p.Enclosure = &models.Enclosure{
			URL:    enc.attr["url"],
			Type:   enc.attr["type"],
			Length: enc.attr["length"],
		}
	}

	p.Itunes = parseItunesBlock(item)
	p.Image = itemImage(item, p.Content, p.Description)
	p.Biblio = parseBiblio(item)
	return p
}

// itemImage resolves a per-item image: an <image> element, a media:content
// attachment, or the first <img> inside the content HTML.
func itemImage(item *node, content, description string) string {
	if img := item.child("image"); img != nil {
		if u := img.childText("url"); u != "" {
			return u
		}
		if u := strings.TrimSpace(img.text); u != "" {
			return u
		}
	}
	for _, mc := range item.all("media:content") {
		u := mc.attr["url"]
		if u == "" {
			continue
		}
		medium := mc.attr["medium"]
		mime := mc.attr["type"]
		if medium == "image" || strings.HasPrefix(mime, "image/") || (medium == "" && mime == "") {
			return u
		}
	}
	if mt := item.child("media:thumbnail"); mt != nil && mt.attr["url"] != "" {
		return mt.attr["url"]
	}
	if u := firstImgSrc(content); u != "" {
		return u
	}
	return firstImgSrc(description)
}

func parseItunesBlock(item *node) *models.ItunesMeta {
	meta := &models.ItunesMeta{
		Duration:    item.childText("itunes:duration"),
		Explicit:    item.childText("itunes:explicit"),
		Summary:     item.childText("itunes:summary"),
		EpisodeType: item.childText("itunes:episodetype"),
		Season:      item.childText("itunes:season"),
		Episode:     item.childText("itunes:episode"),
	}
	if img := item.child("itunes:image"); img != nil {
		meta.Image = img.attr["href"]
	}
	if cat := item.child("itunes:category"); cat != nil {
		if meta.Category = cat.attr["text"]; meta.Category == "" {
			meta.Category = strings.TrimSpace(cat.text)
		}
	}
	if *meta == (models.ItunesMeta{}) {
		return nil
	}
	return meta
}

// parseBiblio extracts the ieee:* bibliographic block used by academic
// publisher feeds.
func parseBiblio(item *node) *models.Bibliographic {
	b := &models.Bibliographic{
		PubYear:  item.childText("ieee:pubyear"),
		Volume:   item.childText("ieee:volume"),
		Issue:    item.childText("ieee:issue"),
		Pages:    item.childText("ieee:pages"),
		FileSize: item.childText("ieee:filesize"),
		Authors:  entities.Decode(item.childText("ieee:authors")),
	}
	if *b == (models.Bibliographic{}) {
		return nil
	}
	return b
}
