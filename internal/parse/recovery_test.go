// ABOUTME: Test suite for the regex recovery parser
// ABOUTME: Feeds that defeat structural XML parsing must still yield usable items

package parse_test

import (
	"testing"

	"github.com/harper/feedvault/internal/parse"
)

func TestRecovery_BareAmpersandAndUnclosedItem(t *testing.T) {
	// A raw '<' in text breaks the structural parse; the last item is also
	// missing its closing tag. The well-formed leading item must survive.
	doc := `<rss version="2.0"><channel>
<title>Broken Feed</title>
<link>https://broken.example.com</link>
<item><title>Good One</title><link>https://broken.example.com/1</link><description>AT&T report & more</description></item>
<item><title>Bad < One</title><description>second & truncated</description>
</channel></rss>`

	feed, err := parse.ParseString(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if feed.Title != "Broken Feed" {
		t.Errorf("expected non-empty channel title, got %q", feed.Title)
	}
	if len(feed.Items) < 1 {
		t.Fatal("expected at least the well-formed leading item")
	}
	first := feed.Items[0]
	if first.Title != "Good One" {
		t.Errorf("expected first item recovered, got %q", first.Title)
	}
	if first.GUID != "https://broken.example.com/1" {
		t.Errorf("expected guid defaulted to link, got %q", first.GUID)
	}
	if first.PubDate == "" {
		t.Error("expected pubDate defaulted, got empty")
	}
}

func TestRecovery_NoClosingItemTags(t *testing.T) {
	// Zero <item>...</item> spans: the scanner falls back to start tags and
	// cuts each span at the next item or channel boundary.
	doc := `<rss version="2.0"><channel>
<title>No Closers < broken</title>
<item><title>Alpha</title><link>https://x.example.com/a</link>
<item><title>Beta</title><link>https://x.example.com/b</link>
</channel></rss>`

	feed, err := parse.ParseString(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(feed.Items) != 2 {
		t.Fatalf("expected 2 recovered items, got %d", len(feed.Items))
	}
	if feed.Items[0].Title != "Alpha" || feed.Items[1].Title != "Beta" {
		t.Errorf("unexpected items: %q, %q", feed.Items[0].Title, feed.Items[1].Title)
	}
	if feed.Items[0].Link != "https://x.example.com/a" {
		t.Errorf("expected link cut at item boundary, got %q", feed.Items[0].Link)
	}
}

func TestRecovery_TitleLessItemDropped(t *testing.T) {
	doc := `<rss version="2.0"><channel>
<title>Feed < broken</title>
<item><title>Kept</title><link>https://x.example.com/kept</link></item>
<item><link>https://x.example.com/dropped</link><description>no title</description></item>
</channel></rss>`

	feed, err := parse.ParseString(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(feed.Items) != 1 {
		t.Fatalf("expected the title-less item dropped, got %d items", len(feed.Items))
	}
	if feed.Items[0].Title != "Kept" {
		t.Errorf("unexpected surviving item %q", feed.Items[0].Title)
	}
}

func TestRecovery_AuthorVariants(t *testing.T) {
	doc := `<rss version="2.0"><channel>
<title>Authors < broken</title>
<item><title>A</title><dc:creator><![CDATA[Creator Name]]></dc:creator></item>
<item><title>B</title><author>Plain Author</author></item>
</channel></rss>`

	feed, err := parse.ParseString(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(feed.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(feed.Items))
	}
	if feed.Items[0].Author != "Creator Name" {
		t.Errorf("expected CDATA dc:creator, got %q", feed.Items[0].Author)
	}
	if feed.Items[1].Author != "Plain Author" {
		t.Errorf("expected plain author, got %q", feed.Items[1].Author)
	}
}
