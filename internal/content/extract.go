// ABOUTME: Main-content extraction from full article pages
// ABOUTME: Selector waterfall from semantic article containers down to body

package content

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/harper/feedvault/internal/urlutil"
)

// contentSelectors is the extraction waterfall, most specific first.
var contentSelectors = []string{
	"article",
	"main",
	"#content",
	".post-content",
	".entry-content",
}

// PageExtractor extracts article HTML from a full page using a fixed
// selector waterfall, resolving relative URLs against the page URL.
type PageExtractor struct{}

var _ Extractor = PageExtractor{}

// Extract returns the best-effort article HTML of a page. Falls back to the
// whole body when no content container matches.
func (PageExtractor) Extract(rawHTML, baseURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}
	doc.Find("script, style, nav, header, footer, aside").Remove()

	for _, selector := range contentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if fragment := selectionHTML(sel); fragment != "" {
			return urlutil.RewriteContentURLs(fragment, baseURL), nil
		}
	}

	body := selectionHTML(doc.Find("body").First())
	if body == "" {
		return "", fmt.Errorf("no content found in page")
	}
	return urlutil.RewriteContentURLs(body, baseURL), nil
}

func selectionHTML(sel *goquery.Selection) string {
	fragment, err := sel.Html()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(fragment)
}
