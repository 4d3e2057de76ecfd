// ABOUTME: Media classifier: decides article/video/podcast and derives media fields
// ABOUTME: Pure transforms over parsed feeds, no I/O

package media

import (
	"strings"

	"github.com/harper/feedvault/internal/models"
)

// Classification is the outcome of classifying a feed: the media type plus
// whether the video verdict came from the feed URL itself (which selects the
// youtube tag over the generic video tag).
type Classification struct {
	Type       models.MediaType
	VideoByURL bool
}

// Classify decides the media type of a whole feed. A video-host feed URL is
// unconditionally video; otherwise any video enclosure makes it video; then
// the podcast sniff runs; everything else is an article feed.
func Classify(feedURL string, feed *models.ParsedFeed) Classification {
	if IsVideoHostURL(feedURL) {
		return Classification{Type: models.MediaVideo, VideoByURL: true}
	}
	if feed != nil {
		for _, item := range feed.Items {
			if item.Enclosure != nil && strings.HasPrefix(item.Enclosure.Type, "video/") {
				return Classification{Type: models.MediaVideo}
			}
		}
		if looksLikePodcast(feed) {
			return Classification{Type: models.MediaPodcast}
		}
	}
	return Classification{Type: models.MediaArticle}
}

// EnrichItem fills the media-derived fields of a feed item from its parse
// result, according to the feed's classification.
func EnrichItem(item *models.FeedItem, parsed models.ParsedItem, feed *models.ParsedFeed, c Classification) {
	item.MediaType = c.Type
	item.CoverImage = ResolveCoverImage(parsed, feed)
	if parsed.Itunes != nil {
		item.Duration = parsed.Itunes.Duration
		if parsed.Itunes.Summary != "" {
			item.Summary = parsed.Itunes.Summary
		}
	}

	switch c.Type {
	case models.MediaVideo:
		if id := ExtractVideoID(parsed.Link); id != "" {
			item.VideoID = id
			if item.CoverImage == "" {
				item.CoverImage = ThumbnailURL(id)
			}
		}
		if parsed.Enclosure != nil && strings.HasPrefix(parsed.Enclosure.Type, "video/") {
			item.VideoURL = parsed.Enclosure.URL
		}
	case models.MediaPodcast:
		item.AudioURL = ResolveAudioURL(parsed)
	}
}

// tagNameFor returns the vocabulary tag applied to items of a classified
// feed, or "" for article feeds.
func tagNameFor(c Classification) string {
	switch c.Type {
	case models.MediaVideo:
		if c.VideoByURL {
			return "youtube"
		}
		return "video"
	case models.MediaPodcast:
		return "podcast"
	}
	return ""
}

// ApplyTags stamps the classification tag on every item. Idempotent: items
// already carrying a tag of the same name are left alone.
func ApplyTags(items []models.FeedItem, c Classification) {
	name := tagNameFor(c)
	if name == "" {
		return
	}
	for i := range items {
		if !items[i].HasTag(name) {
			items[i].AddTag(models.NewTag(name))
		}
	}
}
