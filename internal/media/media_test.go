// ABOUTME: Test suite for media classification and per-item enrichment
// ABOUTME: Covers video-host URLs, enclosure sniffing, podcast heuristics, cover suppression

package media_test

import (
	"testing"

	"github.com/harper/feedvault/internal/media"
	"github.com/harper/feedvault/internal/models"
)

func TestClassifyVideoHostURLWithZeroItems(t *testing.T) {
	c := media.Classify("https://www.youtube.com/channel/UCabc123def4", &models.ParsedFeed{})
	if c.Type != models.MediaVideo {
		t.Errorf("expected video, got %s", c.Type)
	}
	if !c.VideoByURL {
		t.Error("expected VideoByURL for a channel URL")
	}
}

func TestClassifyVideoByEnclosure(t *testing.T) {
	feed := &models.ParsedFeed{Items: []models.ParsedItem{
		{Title: "Clip", Enclosure: &models.Enclosure{URL: "https://example.com/clip.mp4", Type: "video/mp4"}},
	}}
	c := media.Classify("https://example.com/feed.xml", feed)
	if c.Type != models.MediaVideo || c.VideoByURL {
		t.Errorf("expected enclosure-detected video, got %+v", c)
	}
}

func TestClassifyPodcastByAudioEnclosures(t *testing.T) {
	item := models.ParsedItem{
		Title:     "Ep",
		Enclosure: &models.Enclosure{URL: "https://example.com/ep.mp3", Type: "audio/mpeg"},
	}
	feed := &models.ParsedFeed{Items: []models.ParsedItem{item, item, item}}
	if c := media.Classify("https://example.com/feed.xml", feed); c.Type != models.MediaPodcast {
		t.Errorf("expected podcast, got %s", c.Type)
	}
}

func TestClassifyPodcastByAuthorHint(t *testing.T) {
	feed := &models.ParsedFeed{
		Author: "The Nightly Radio Show",
		Items:  []models.ParsedItem{{Title: "Show 1"}},
	}
	if c := media.Classify("https://example.com/feed.xml", feed); c.Type != models.MediaPodcast {
		t.Errorf("expected podcast, got %s", c.Type)
	}
}

func TestClassifySniffStopsAfterThreeItems(t *testing.T) {
	// The podcast signal is on the fourth item only, so it must not trip.
	items := []models.ParsedItem{
		{Title: "a"}, {Title: "b"}, {Title: "c"},
		{Title: "d", Enclosure: &models.Enclosure{URL: "https://example.com/d.mp3", Type: "audio/mpeg"}},
	}
	feed := &models.ParsedFeed{Items: items}
	if c := media.Classify("https://example.com/feed.xml", feed); c.Type != models.MediaArticle {
		t.Errorf("expected article, got %s", c.Type)
	}
}

func TestClassifyDefaultsToArticle(t *testing.T) {
	feed := &models.ParsedFeed{Items: []models.ParsedItem{{Title: "Essay", Description: "Thoughts on tea"}}}
	if c := media.Classify("https://example.com/feed.xml", feed); c.Type != models.MediaArticle {
		t.Errorf("expected article, got %s", c.Type)
	}
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		link string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?list=PL1&v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://example.com/post/1", ""},
	}
	for _, tt := range tests {
		if got := media.ExtractVideoID(tt.link); got != tt.want {
			t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.link, got, tt.want)
		}
	}
}

func TestEnrichVideoItem(t *testing.T) {
	var item models.FeedItem
	parsed := models.ParsedItem{Title: "Clip", Link: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"}
	media.EnrichItem(&item, parsed, &models.ParsedFeed{}, media.Classification{Type: models.MediaVideo, VideoByURL: true})

	if item.MediaType != models.MediaVideo {
		t.Errorf("media type = %s", item.MediaType)
	}
	if item.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("video id = %q", item.VideoID)
	}
	if item.CoverImage != "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg" {
		t.Errorf("cover = %q", item.CoverImage)
	}
}

func TestEnrichPodcastAudioURLOrder(t *testing.T) {
	feed := &models.ParsedFeed{}
	c := media.Classification{Type: models.MediaPodcast}

	var fromEnclosure models.FeedItem
	media.EnrichItem(&fromEnclosure, models.ParsedItem{
		Enclosure: &models.Enclosure{URL: "https://example.com/enc.mp3", Type: "audio/mpeg"},
		Link:      "https://example.com/ep.mp3",
	}, feed, c)
	if fromEnclosure.AudioURL != "https://example.com/enc.mp3" {
		t.Errorf("enclosure should win: %q", fromEnclosure.AudioURL)
	}

	var fromLink models.FeedItem
	media.EnrichItem(&fromLink, models.ParsedItem{Link: "https://example.com/ep.mp3"}, feed, c)
	if fromLink.AudioURL != "https://example.com/ep.mp3" {
		t.Errorf("mp3 link fallback: %q", fromLink.AudioURL)
	}

	var fromBody models.FeedItem
	media.EnrichItem(&fromBody, models.ParsedItem{
		Link:        "https://example.com/ep",
		Description: `Listen at https://cdn.example.com/audio/ep7.m4a today`,
	}, feed, c)
	if fromBody.AudioURL != "https://cdn.example.com/audio/ep7.m4a" {
		t.Errorf("description scrape fallback: %q", fromBody.AudioURL)
	}
}

func TestResolveCoverImageWaterfall(t *testing.T) {
	feed := &models.ParsedFeed{
		ItunesImage: &models.Image{URL: "https://example.com/feed-itunes.png"},
		Image:       &models.Image{URL: "https://example.com/feed.png"},
	}

	itemItunes := models.ParsedItem{Itunes: &models.ItunesMeta{Image: "https://example.com/item-itunes.png"}, Image: "https://example.com/item.png"}
	if got := media.ResolveCoverImage(itemItunes, feed); got != "https://example.com/item-itunes.png" {
		t.Errorf("item itunes image should win: %q", got)
	}

	if got := media.ResolveCoverImage(models.ParsedItem{Image: "https://example.com/item.png"}, feed); got != "https://example.com/item.png" {
		t.Errorf("item image next: %q", got)
	}

	if got := media.ResolveCoverImage(models.ParsedItem{}, feed); got != "https://example.com/feed-itunes.png" {
		t.Errorf("feed itunes image next: %q", got)
	}

	body := models.ParsedItem{Content: `<p><img src="https://example.com/inline.jpg"></p>`}
	if got := media.ResolveCoverImage(body, &models.ParsedFeed{}); got != "https://example.com/inline.jpg" {
		t.Errorf("inline img fallback: %q", got)
	}
}

func TestSuppressDominantCover(t *testing.T) {
	logo := "https://example.com/show-logo.png"
	feed := &models.ParsedFeed{ItunesImage: &models.Image{URL: logo}}
	items := []models.FeedItem{
		{Title: "1", CoverImage: logo},
		{Title: "2", CoverImage: logo},
		{Title: "3", CoverImage: logo},
		{Title: "4", CoverImage: logo},
		{Title: "5", CoverImage: "https://example.com/custom-art.png"},
	}
	media.SuppressDominantCover(items, feed)

	for i := 0; i < 4; i++ {
		if items[i].CoverImage != "" {
			t.Errorf("item %d cover should be suppressed, got %q", i, items[i].CoverImage)
		}
	}
	if items[4].CoverImage != "https://example.com/custom-art.png" {
		t.Errorf("custom art must survive: %q", items[4].CoverImage)
	}
}

func TestSuppressDominantCoverBelowShare(t *testing.T) {
	logo := "https://example.com/show-logo.png"
	feed := &models.ParsedFeed{Image: &models.Image{URL: logo}}
	items := []models.FeedItem{
		{Title: "1", CoverImage: logo},
		{Title: "2", CoverImage: logo},
		{Title: "3", CoverImage: "https://example.com/a.png"},
		{Title: "4", CoverImage: "https://example.com/b.png"},
	}
	media.SuppressDominantCover(items, feed)
	if items[0].CoverImage != logo {
		t.Errorf("50%% share must not be suppressed: %q", items[0].CoverImage)
	}
}

func TestSuppressNonLogoCoverKept(t *testing.T) {
	cover := "https://example.com/every-episode.png"
	items := []models.FeedItem{
		{Title: "1", CoverImage: cover},
		{Title: "2", CoverImage: cover},
	}
	media.SuppressDominantCover(items, &models.ParsedFeed{})
	if items[0].CoverImage != cover {
		t.Error("cover not matching a feed logo must be kept")
	}
}

func TestApplyTags(t *testing.T) {
	items := []models.FeedItem{{Title: "a"}, {Title: "b", Tags: []models.Tag{{ID: "x", Name: "podcast"}}}}
	media.ApplyTags(items, media.Classification{Type: models.MediaPodcast})

	if !items[0].HasTag("podcast") {
		t.Error("first item should gain the podcast tag")
	}
	if len(items[1].Tags) != 1 {
		t.Errorf("existing tag must not be duplicated: %v", items[1].Tags)
	}

	media.ApplyTags(items, media.Classification{Type: models.MediaVideo, VideoByURL: true})
	if !items[0].HasTag("youtube") {
		t.Error("URL-detected video feeds use the youtube tag")
	}

	plain := []models.FeedItem{{Title: "c"}}
	media.ApplyTags(plain, media.Classification{Type: models.MediaVideo})
	if !plain[0].HasTag("video") {
		t.Error("enclosure-detected video feeds use the video tag")
	}
}
