// ABOUTME: Test suite for multi-dialect feed parsing
// ABOUTME: Inline XML/JSON fixtures covering RSS 2.0, RSS 1.0, Atom, and JSON Feed

package parse_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/harper/feedvault/internal/models"
	"github.com/harper/feedvault/internal/parse"
)

const rss20XML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd">
  <channel>
    <title>Test RSS Feed</title>
    <link>https://example.com</link>
    <description>A test RSS feed</description>
    <image><url>https://example.com/logo.png</url></image>
    <itunes:image href="https://example.com/itunes.png"/>
    <item>
      <guid>https://example.com/post/1</guid>
      <title>First &amp; Best Post</title>
      <link>https://example.com/post/1</link>
      <dc:creator><![CDATA[John Doe]]></dc:creator>
      <pubDate>Mon, 02 Jan 2006 15:04:05 MST</pubDate>
      <description>First post description</description>
      <content:encoded><![CDATA[<p>Full <b>content</b> here <img src="/img/cover.jpg"></p>]]></content:encoded>
      <category>tech</category>
      <enclosure url="https://example.com/ep1.mp3" type="audio/mpeg" length="1024"/>
      <itunes:duration>30:00</itunes:duration>
      <itunes:episode>7</itunes:episode>
    </item>
    <item>
      <title>Second Post</title>
      <link>https://example.com/post/2</link>
      <pubDate>Tue, 03 Jan 2006 15:04:05 MST</pubDate>
      <description>null</description>
    </item>
  </channel>
</rss>`

func TestParseString_RSS2(t *testing.T) {
	feed, err := parse.ParseString(rss20XML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if feed.Type != models.TypeRSS {
		t.Errorf("expected type rss, got %q", feed.Type)
	}
	if feed.Title != "Test RSS Feed" {
		t.Errorf("expected feed title, got %q", feed.Title)
	}
	if feed.Image == nil || feed.Image.URL != "https://example.com/logo.png" {
		t.Errorf("expected channel image, got %+v", feed.Image)
	}
	if feed.ItunesImage == nil || feed.ItunesImage.URL != "https://example.com/itunes.png" {
		t.Errorf("expected itunes image, got %+v", feed.ItunesImage)
	}
	if len(feed.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(feed.Items))
	}

	first := feed.Items[0]
	if first.Title != "First & Best Post" {
		t.Errorf("expected decoded title, got %q", first.Title)
	}
	if first.GUID != "https://example.com/post/1" {
		t.Errorf("unexpected guid %q", first.GUID)
	}
	if first.Author != "John Doe" {
		t.Errorf("expected dc:creator author, got %q", first.Author)
	}
	if !strings.Contains(first.Content, "<b>content</b>") {
		t.Errorf("expected content:encoded preferred, got %q", first.Content)
	}
	if first.Enclosure == nil || first.Enclosure.Type != "audio/mpeg" {
		t.Errorf("expected audio enclosure, got %+v", first.Enclosure)
	}
	if first.Itunes == nil || first.Itunes.Duration != "30:00" || first.Itunes.Episode != "7" {
		t.Errorf("expected itunes block, got %+v", first.Itunes)
	}
	if first.Image != "/img/cover.jpg" {
		t.Errorf("expected first img fallback, got %q", first.Image)
	}

	second := feed.Items[1]
	if second.GUID != "https://example.com/post/2" {
		t.Errorf("expected guid fallback to link, got %q", second.GUID)
	}
	if second.Description != "" {
		t.Errorf("literal 'null' description should be empty, got %q", second.Description)
	}
}

func TestParseString_SageRewrite(t *testing.T) {
	xml := `<rss version="2.0"><channel>
	  <title>Journal</title>
	  <link>https://journals.sagepub.com/doi/abs/10.1177/feed</link>
	  <item>
	    <title>Paper</title>
	    <link>https://journals.sagepub.com/doi/abs/10.1177/12345</link>
	  </item>
	</channel></rss>`

	feed, err := parse.ParseString(xml)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(feed.Link, "/doi/full/") {
		t.Errorf("feed link not rewritten: %q", feed.Link)
	}
	if !strings.Contains(feed.Items[0].Link, "/doi/full/") {
		t.Errorf("item link not rewritten: %q", feed.Items[0].Link)
	}
}

func TestParseString_IEEEBiblio(t *testing.T) {
	xml := `<rss version="2.0" xmlns:ieee="https://www.ieee.org/"><channel>
	  <title>IEEE Journal</title>
	  <item>
	    <title>Paper</title>
	    <link>https://ieee.example.com/doc/1</link>
	    <ieee:pubyear>2024</ieee:pubyear>
	    <ieee:volume>12</ieee:volume>
	    <ieee:pages>100-110</ieee:pages>
	    <ieee:authors>A. Author; B. Writer</ieee:authors>
	  </item>
	</channel></rss>`

	feed, err := parse.ParseString(xml)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b := feed.Items[0].Biblio
	if b == nil {
		t.Fatal("expected bibliographic block")
	}
	if b.PubYear != "2024" || b.Volume != "12" || b.Pages != "100-110" {
		t.Errorf("unexpected biblio %+v", b)
	}
}

const atomXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Test Atom Feed</title>
  <subtitle>An atom feed</subtitle>
  <link rel="self" href="https://example.com/feed.atom"/>
  <link rel="alternate" type="text/html" href="https://example.com"/>
  <entry>
    <id>tag:example.com,2006:entry-1</id>
    <title>First Entry</title>
    <link rel="alternate" type="text/html" href="https://example.com/entry/1"/>
    <link rel="enclosure" type="audio/mpeg" href="https://example.com/e1.mp3"/>
    <author><name>Jane Smith</name></author>
    <published>2006-01-02T15:04:05Z</published>
    <updated>2006-01-02T16:04:05Z</updated>
    <content type="html">First entry content</content>
    <summary>First entry summary</summary>
    <category term="science"/>
  </entry>
  <entry>
    <title>Second Entry</title>
    <link href="https://example.com/entry/2"/>
    <updated>2006-01-03T15:04:05Z</updated>
    <summary>Second entry summary</summary>
  </entry>
</feed>`

func TestParseString_Atom(t *testing.T) {
	feed, err := parse.ParseString(atomXML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if feed.Type != models.TypeAtom {
		t.Errorf("expected type atom, got %q", feed.Type)
	}
	if feed.Link != "https://example.com" {
		t.Errorf("expected alternate link preferred over self, got %q", feed.Link)
	}
	if len(feed.Items) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(feed.Items))
	}

	first := feed.Items[0]
	if first.GUID != "tag:example.com,2006:entry-1" {
		t.Errorf("expected atom id as guid, got %q", first.GUID)
	}
	if first.Link != "https://example.com/entry/1" {
		t.Errorf("expected alternate html link, got %q", first.Link)
	}
	if first.PubDate != "2006-01-02T15:04:05Z" {
		t.Errorf("expected published preferred over updated, got %q", first.PubDate)
	}
	if first.Content != "First entry content" {
		t.Errorf("expected content preferred over summary, got %q", first.Content)
	}
	if first.Author != "Jane Smith" {
		t.Errorf("expected author name, got %q", first.Author)
	}
	if first.Category != "science" {
		t.Errorf("expected category term, got %q", first.Category)
	}
	if first.Enclosure == nil || first.Enclosure.URL != "https://example.com/e1.mp3" {
		t.Errorf("expected enclosure link mapped, got %+v", first.Enclosure)
	}

	second := feed.Items[1]
	if second.GUID != "https://example.com/entry/2" {
		t.Errorf("expected guid fallback to link, got %q", second.GUID)
	}
	if second.PubDate != "2006-01-03T15:04:05Z" {
		t.Errorf("expected updated as date fallback, got %q", second.PubDate)
	}
	if second.Content != "Second entry summary" {
		t.Errorf("expected summary as content fallback, got %q", second.Content)
	}
}

const rss10XML = `<?xml version="1.0" encoding="UTF-8"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#" xmlns="http://purl.org/rss/1.0/" xmlns:dc="http://purl.org/dc/elements/1.1/">
  <channel rdf:about="https://example.org/">
    <title>RDF Feed</title>
    <link>https://example.org</link>
    <description>An RSS 1.0 feed</description>
    <image rdf:resource="https://example.org/logo.gif"/>
  </channel>
  <item rdf:about="https://example.org/item/1">
    <dc:title>RDF Item</dc:title>
    <link>https://example.org/item/1</link>
    <description>rdf description</description>
    <dc:date>2006-01-02T15:04:05Z</dc:date>
    <dc:creator>Alice</dc:creator>
    <dc:creator>Bob</dc:creator>
  </item>
</rdf:RDF>`

func TestParseString_RSS1(t *testing.T) {
	feed, err := parse.ParseString(rss10XML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if feed.Title != "RDF Feed" {
		t.Errorf("expected feed title, got %q", feed.Title)
	}
	if feed.Image == nil || feed.Image.URL != "https://example.org/logo.gif" {
		t.Errorf("expected rdf:resource image, got %+v", feed.Image)
	}
	if len(feed.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(feed.Items))
	}

	item := feed.Items[0]
	if item.GUID != "https://example.org/item/1" {
		t.Errorf("expected rdf:about as guid, got %q", item.GUID)
	}
	if item.Title != "RDF Item" {
		t.Errorf("expected dc:title, got %q", item.Title)
	}
	if item.PubDate != "2006-01-02T15:04:05Z" {
		t.Errorf("expected dc:date, got %q", item.PubDate)
	}
	if item.Author != "Alice, Bob" {
		t.Errorf("expected joined creators, got %q", item.Author)
	}
}

const jsonFeedDoc = `{
  "version": "https://jsonfeed.org/version/1.1",
  "title": "JSON Feed Test",
  "home_page_url": "https://example.net",
  "items": [
    {
      "id": "https://example.net/1",
      "url": "https://example.net/1",
      "title": "JSON Item",
      "summary": "A summary",
      "date_published": "2006-01-02T15:04:05Z",
      "content_html": "<p>html content</p>",
      "authors": [{"name": "Carol"}],
      "tags": ["news", "extra"]
    },
    {
      "url": "https://example.net/2",
      "title": "No ID Item",
      "content_text": "plain content"
    }
  ]
}`

func TestParseString_JSONFeed(t *testing.T) {
	feed, err := parse.ParseString(jsonFeedDoc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if feed.Type != models.TypeJSON {
		t.Errorf("expected type json, got %q", feed.Type)
	}
	if len(feed.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(feed.Items))
	}
	first := feed.Items[0]
	if first.Author != "Carol" {
		t.Errorf("expected authors[0].name, got %q", first.Author)
	}
	if first.Category != "news" {
		t.Errorf("expected tags[0] as category, got %q", first.Category)
	}
	if first.Content != "<p>html content</p>" {
		t.Errorf("expected content_html, got %q", first.Content)
	}
	second := feed.Items[1]
	if second.GUID != "https://example.net/2" {
		t.Errorf("expected guid fallback to url, got %q", second.GUID)
	}
	if second.Content != "plain content" {
		t.Errorf("expected content_text fallback, got %q", second.Content)
	}
}

func TestParseString_JSONBadVersion(t *testing.T) {
	_, err := parse.ParseString(`{"version": "2.0", "title": "nope", "items": []}`)
	if !errors.Is(err, parse.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseString_LeadingGarbage(t *testing.T) {
	// PHP warnings before and after the envelope are discarded by
	// re-anchoring on the rss span.
	doc := `<br />
<b>Warning</b>: Undefined variable $foo in <b>/var/www/feed.php</b> on line 12
` + rss20XML + `
<b>Notice</b>: trailing garbage`

	feed, err := parse.ParseString(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if feed.Title != "Test RSS Feed" {
		t.Errorf("expected feed parsed despite garbage, got title %q", feed.Title)
	}
	if len(feed.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(feed.Items))
	}
}

func TestParseString_Unsupported(t *testing.T) {
	_, err := parse.ParseString("<html><body>not a feed</body></html>")
	if err == nil {
		t.Fatal("expected an error for non-feed HTML")
	}
}

func TestIsValidFeed(t *testing.T) {
	valid := []string{
		`<rss version="2.0"><channel></channel></rss>`,
		`<?xml version="1.0"?><feed xmlns="http://www.w3.org/2005/Atom"></feed>`,
		`<rdf:RDF xmlns="http://purl.org/rss/1.0/"></rdf:RDF>`,
	}
	for _, v := range valid {
		if !parse.IsValidFeed(v) {
			t.Errorf("expected valid: %q", v)
		}
	}

	invalid := []string{
		"",
		"<html><head></head></html>",
		"Fatal error: Uncaught Error in feed.php",
	}
	for _, v := range invalid {
		if parse.IsValidFeed(v) {
			t.Errorf("expected invalid: %q", v)
		}
	}
}

func TestEscapeBareAmpersands(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"fish & chips", "fish &amp; chips"},
		{"a &amp; b", "a &amp; b"},
		{"x &#39; y", "x &#39; y"},
		{"x &#x27; y", "x &#x27; y"},
		{"x &#ff; y", "x &amp;#ff; y"},
		{"<![CDATA[a & b]]>", "<![CDATA[a & b]]>"},
		{"q=a&b=c", "q=a&amp;b=c"},
	}
	for _, c := range cases {
		if got := parse.EscapeBareAmpersands(c.in); got != c.want {
			t.Errorf("EscapeBareAmpersands(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseString_ByteOrderMark(t *testing.T) {
	feed, err := parse.ParseString("\uFEFF" + rss20XML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if feed.Title != "Test RSS Feed" {
		t.Errorf("expected BOM stripped before parsing, got title %q", feed.Title)
	}
	if len(feed.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(feed.Items))
	}
}

func TestParseString_StrayEndTag(t *testing.T) {
	// A close tag with no open counterpart must not desynchronize the tree:
	// items after it still land under the channel.
	doc := `<rss version="2.0"><channel>
<title>Stray</title></p>
<item><title>After</title><link>https://s.example.com/1</link></item>
</channel></rss>`

	feed, err := parse.ParseString(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(feed.Items) != 1 || feed.Items[0].Title != "After" {
		t.Fatalf("expected the item after the stray end tag, got %+v", feed.Items)
	}
}

func TestParseString_ModuleNamespacesStayRSS2(t *testing.T) {
	// The content and syndication module namespaces share the RSS 1.0 URI
	// prefix but the feed is ordinary RSS 2.0: enclosures must survive.
	doc := `<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:sy="http://purl.org/rss/1.0/modules/syndication/"><channel>
<title>Modules</title>
<item><title>Episode</title><link>https://m.example.com/1</link>
<enclosure url="https://m.example.com/1.mp3" type="audio/mpeg" length="1"/></item>
</channel></rss>`

	feed, err := parse.ParseString(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if feed.Type != models.TypeRSS {
		t.Errorf("expected type rss, got %q", feed.Type)
	}
	if len(feed.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(feed.Items))
	}
	if feed.Items[0].Enclosure == nil || feed.Items[0].Enclosure.URL != "https://m.example.com/1.mp3" {
		t.Errorf("expected enclosure preserved, got %+v", feed.Items[0].Enclosure)
	}
}

func TestParseString_AtomXHTMLContent(t *testing.T) {
	doc := `<feed xmlns="http://www.w3.org/2005/Atom">
<title>XHTML Content</title>
<entry><id>tag:x,2024:1</id><title>Entry</title>
<link rel="alternate" type="text/html" href="https://x.example.com/1"/>
<content type="xhtml"><div xmlns="http://www.w3.org/1999/xhtml"><p>Nested <em>body</em> text</p></div></content>
</entry></feed>`

	feed, err := parse.ParseString(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(feed.Items) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(feed.Items))
	}
	c := feed.Items[0].Content
	if !strings.Contains(c, "Nested") || !strings.Contains(c, "body") {
		t.Errorf("expected wrapped xhtml text extracted, got %q", c)
	}
}
