// ABOUTME: Podcast detection heuristics and per-episode audio/cover resolution
// ABOUTME: Sniffs the first three items; cover art falls through a fixed waterfall

package media

import (
	"regexp"
	"strings"

	"github.com/harper/feedvault/internal/content"
	"github.com/harper/feedvault/internal/models"
)

// podcastSniffLimit caps how many leading items the detector inspects.
const podcastSniffLimit = 3

// podcastAuthorHints mark a feed author string as podcast-like.
var podcastAuthorHints = []string{"podcast", "radio", "audio"}

// podcastDescriptionHints mark an item description as podcast-like.
var podcastDescriptionHints = []string{"podcast", "episode", "duration", "length"}

var audioLinkPattern = regexp.MustCompile(`(?i)https?://[^\s"'<>]+\.(?:mp3|m4a|ogg|wav|aac)\b`)

// looksLikePodcast applies the sniff heuristics to up to the first three
// parsed items plus the feed author string.
func looksLikePodcast(feed *models.ParsedFeed) bool {
	author := strings.ToLower(feed.Author)
	for _, hint := range podcastAuthorHints {
		if strings.Contains(author, hint) {
			return true
		}
	}

	for i, item := range feed.Items {
		if i >= podcastSniffLimit {
			break
		}
		if item.Enclosure != nil && strings.HasPrefix(item.Enclosure.Type, "audio/") {
			return true
		}
		if item.Itunes != nil && item.Itunes.Duration != "" {
			return true
		}
		if descriptionLooksLikePodcast(item.Description) {
			return true
		}
	}
	return false
}

func descriptionLooksLikePodcast(description string) bool {
	if description == "" {
		return false
	}
	lower := strings.ToLower(description)
	if strings.Contains(lower, "<enclosure") || strings.Contains(lower, "<audio") {
		return true
	}
	if audioLinkPattern.MatchString(description) {
		return true
	}
	for _, hint := range podcastDescriptionHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// ResolveAudioURL finds an episode's audio URL: enclosure first, then an
// audio-suffixed item link, then a URL scraped from the description.
func ResolveAudioURL(item models.ParsedItem) string {
	if item.Enclosure != nil && item.Enclosure.URL != "" {
		return item.Enclosure.URL
	}
	if strings.HasSuffix(strings.ToLower(item.Link), ".mp3") {
		return item.Link
	}
	if m := audioLinkPattern.FindString(item.Description); m != "" {
		return m
	}
	return ""
}

// ResolveCoverImage walks the cover art waterfall: item itunes image, item
// image, feed itunes image, feed image, first img tag in content or
// description.
func ResolveCoverImage(item models.ParsedItem, feed *models.ParsedFeed) string {
	if item.Itunes != nil && item.Itunes.Image != "" {
		return item.Itunes.Image
	}
	if item.Image != "" {
		return item.Image
	}
	if feed != nil {
		if feed.ItunesImage != nil && feed.ItunesImage.URL != "" {
			return feed.ItunesImage.URL
		}
		if feed.Image != nil && feed.Image.URL != "" {
			return feed.Image.URL
		}
	}
	for _, body := range []string{item.Content, item.Description} {
		if src := content.FirstImage(body); src != "" {
			return src
		}
	}
	return ""
}

// feedLogoCandidates returns the feed-level image URLs a recurring cover may
// be suppressed against.
func feedLogoCandidates(feed *models.ParsedFeed) []string {
	if feed == nil {
		return nil
	}
	var logos []string
	if feed.ItunesImage != nil && feed.ItunesImage.URL != "" {
		logos = append(logos, feed.ItunesImage.URL)
	}
	if feed.Image != nil && feed.Image.URL != "" {
		logos = append(logos, feed.Image.URL)
	}
	return logos
}

// SuppressDominantCover clears a cover image URL that recurs across at least
// 80% of items (minimum 2) and matches a feed-level logo candidate. Such a
// cover is the host's generic placeholder, not per-episode art.
func SuppressDominantCover(items []models.FeedItem, feed *models.ParsedFeed) {
	if len(items) == 0 {
		return
	}
	counts := make(map[string]int)
	for i := range items {
		if items[i].CoverImage != "" {
			counts[items[i].CoverImage]++
		}
	}

	logos := feedLogoCandidates(feed)
	for cover, n := range counts {
		if n < 2 || n*5 < len(items)*4 {
			continue
		}
		matchesLogo := false
		for _, logo := range logos {
			if cover == logo {
				matchesLogo = true
				break
			}
		}
		if !matchesLogo {
			continue
		}
		for i := range items {
			if items[i].CoverImage == cover {
				items[i].CoverImage = ""
			}
		}
	}
}
