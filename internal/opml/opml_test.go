// ABOUTME: Test suite for OPML import/export
// ABOUTME: Covers folder grouping, custom attributes, and round-trip integrity

package opml

import (
	"bytes"
	"strings"
	"testing"

	"github.com/harper/feedvault/internal/models"
)

func TestParseGroupedOutlines(t *testing.T) {
	data := `<?xml version="1.0" encoding="UTF-8"?>
<opml version="2.0">
  <head><title>My Feeds</title></head>
  <body>
    <outline text="News">
      <outline type="rss" text="Hacker News" xmlUrl="https://hnrss.org/frontpage" />
      <outline type="rss" text="TechCrunch" xmlUrl="https://techcrunch.com/feed/" />
    </outline>
    <outline type="rss" text="Root Feed" xmlUrl="https://example.com/feed" />
  </body>
</opml>`

	doc, err := Parse(bytes.NewBufferString(data))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.Title != "My Feeds" {
		t.Errorf("Title = %q", doc.Title)
	}

	metas := doc.Subscriptions()
	if len(metas) != 3 {
		t.Fatalf("Subscriptions() returned %d records, want 3", len(metas))
	}

	grouped := 0
	for _, meta := range metas {
		if meta.Folder == "News" {
			grouped++
		}
	}
	if grouped != 2 {
		t.Errorf("expected 2 records with folder News, got %d", grouped)
	}

	folders := doc.Folders()
	if len(folders) != 1 || folders[0] != "News" {
		t.Errorf("Folders() = %v", folders)
	}
}

func TestParseCustomAttributes(t *testing.T) {
	data := `<?xml version="1.0"?>
<opml version="2.0">
  <head><title>t</title></head>
  <body>
    <outline type="rss" text="Pod" xmlUrl="https://example.com/pod"
      mediaType="podcast" autoDeleteDuration="30" maxItemsLimit="50" scanInterval="120" />
  </body>
</opml>`

	doc, err := Parse(bytes.NewBufferString(data))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	metas := doc.Subscriptions()
	if len(metas) != 1 {
		t.Fatalf("want 1 record, got %d", len(metas))
	}
	meta := metas[0]
	if meta.MediaType != models.MediaPodcast {
		t.Errorf("MediaType = %q", meta.MediaType)
	}
	if meta.AutoDeleteDuration != 30 || meta.MaxItemsLimit != 50 || meta.ScanInterval != 120 {
		t.Errorf("retention attrs = %d %d %d", meta.AutoDeleteDuration, meta.MaxItemsLimit, meta.ScanInterval)
	}
}

func TestParseTolerantOfBadNumericAttrs(t *testing.T) {
	data := `<?xml version="1.0"?>
<opml version="2.0"><head><title>t</title></head><body>
<outline type="rss" text="F" xmlUrl="https://example.com/f" maxItemsLimit="lots" />
</body></opml>`

	doc, err := Parse(bytes.NewBufferString(data))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.Subscriptions()[0].MaxItemsLimit != 0 {
		t.Error("malformed numeric attr should fall back to zero")
	}
}

func TestExportRoundTrip(t *testing.T) {
	settings := &models.Settings{Feeds: []*models.Feed{
		{Title: "Hacker News", URL: "https://hnrss.org/frontpage", Folder: "News"},
		{Title: "TechCrunch", URL: "https://techcrunch.com/feed/", Folder: "News"},
		{Title: "Pod", URL: "https://example.com/pod", MediaType: models.MediaPodcast, ScanInterval: 120},
	}}

	var buf bytes.Buffer
	if err := FromSettings("Subscriptions", settings).Write(&buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `text="News"`) {
		t.Errorf("export should group by folder:\n%s", out)
	}
	if !strings.Contains(out, `mediaType="podcast"`) || !strings.Contains(out, `scanInterval="120"`) {
		t.Errorf("export should carry custom attrs:\n%s", out)
	}

	doc, err := Parse(&buf)
	if err != nil {
		t.Fatalf("re-Parse() error = %v", err)
	}
	metas := doc.Subscriptions()
	if len(metas) != 3 {
		t.Fatalf("round trip lost records: %d", len(metas))
	}
	for _, meta := range metas {
		if meta.URL == "https://hnrss.org/frontpage" && meta.Folder != "News" {
			t.Errorf("folder lost in round trip: %+v", meta)
		}
		if meta.URL == "https://example.com/pod" && meta.ScanInterval != 120 {
			t.Errorf("scanInterval lost in round trip: %+v", meta)
		}
	}
}
