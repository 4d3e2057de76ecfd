// ABOUTME: Feed auto-discovery from HTML pages via link elements and anchor scanning
// ABOUTME: Resolves relative hrefs against the page URL and validates every candidate

package resolve

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/harper/feedvault/internal/parse"
	"github.com/harper/feedvault/internal/urlutil"
)

// discoveryStrategy fetches the feed URL's base page as HTML and scans it for
// an advertised feed: <link type="application/*+xml"> elements first, then
// anchors whose href looks feed-shaped.
type discoveryStrategy struct {
	client Client
}

func (s *discoveryStrategy) Name() string { return "auto-discovery" }

func (s *discoveryStrategy) Attempt(ctx context.Context, feedURL string) (string, bool) {
	base, err := url.Parse(feedURL)
	if err != nil || base.Host == "" {
		return "", false
	}
	pageURL := base.Scheme + "://" + base.Host

	page, status, err := s.client.Request(ctx, pageURL, map[string]string{
		"User-Agent": userAgent,
		"Accept":     "text/html,application/xhtml+xml",
	})
	if err != nil || status != 200 {
		return "", false
	}

	candidates := extractFeedLinks(page, pageURL)
	if len(candidates) == 0 {
		candidates = extractFeedAnchors(page, pageURL)
	}

	for _, candidate := range candidates {
		if candidate == feedURL {
			continue
		}
		if text, ok := get(ctx, s.client, candidate); ok && parse.IsValidFeed(text) {
			return text, true
		}
	}
	return "", false
}

// isFeedLinkType matches the MIME types of advertised feed links.
func isFeedLinkType(linkType string) bool {
	linkType = strings.ToLower(linkType)
	for _, t := range []string{"application/rss+xml", "application/atom+xml", "application/rdf+xml", "application/xml"} {
		if strings.Contains(linkType, t) {
			return true
		}
	}
	return false
}

// extractFeedLinks returns feed URLs advertised by <link> elements, resolved
// against the page URL.
func extractFeedLinks(page, pageURL string) []string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil
	}

	var feeds []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "link" {
			var linkType, href string
			for _, attr := range n.Attr {
				switch attr.Key {
				case "type":
					linkType = attr.Val
				case "href":
					href = attr.Val
				}
			}
			if href != "" && isFeedLinkType(linkType) {
				feeds = append(feeds, urlutil.ToAbsolute(href, pageURL))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return feeds
}

// feedHrefHints are the substrings that make an anchor href a feed candidate.
var feedHrefHints = []string{"feed", "rss", "atom", "rdf", "xml"}

// extractFeedAnchors is the fallback scan over <a> tags when the page
// advertises no link elements.
func extractFeedAnchors(page, pageURL string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil
	}

	var feeds []string
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		lower := strings.ToLower(href)
		for _, hint := range feedHrefHints {
			if strings.Contains(lower, hint) {
				abs := urlutil.ToAbsolute(href, pageURL)
				if !seen[abs] {
					seen[abs] = true
					feeds = append(feeds, abs)
				}
				break
			}
		}
	})
	return feeds
}
