// ABOUTME: YouTube URL detection, video id extraction, and thumbnail construction
// ABOUTME: Video ids are always 11 characters; URL shapes are tried in a fixed order

package media

import "regexp"

// videoHostPatterns match feed URLs that are unconditionally video feeds:
// channel, user, playlist, watch, handle, and short-link shapes.
var videoHostPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)youtube\.com/channel/`),
	regexp.MustCompile(`(?i)youtube\.com/user/`),
	regexp.MustCompile(`(?i)youtube\.com/playlist`),
	regexp.MustCompile(`(?i)youtube\.com/watch`),
	regexp.MustCompile(`(?i)youtube\.com/feeds/videos\.xml`),
	regexp.MustCompile(`(?i)youtube\.com/@`),
	regexp.MustCompile(`(?i)youtu\.be/`),
}

// IsVideoHostURL reports whether the feed URL matches a known video-host
// URL shape.
func IsVideoHostURL(feedURL string) bool {
	for _, p := range videoHostPatterns {
		if p.MatchString(feedURL) {
			return true
		}
	}
	return false
}

// videoIDPatterns extract the 11-character video id from item links, tried
// in order.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[?&]v=([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/shorts/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/v/([A-Za-z0-9_-]{11})`),
}

// ExtractVideoID returns the 11-character video id embedded in a link, or ""
// when no URL shape matches.
func ExtractVideoID(link string) string {
	for _, p := range videoIDPatterns {
		if m := p.FindStringSubmatch(link); m != nil {
			return m[1]
		}
	}
	return ""
}

// thumbnailQualities is the quality waterfall for constructed thumbnail URLs.
var thumbnailQualities = []string{
	"maxresdefault",
	"hqdefault",
	"mqdefault",
	"sddefault",
	"default",
}

// ThumbnailURL builds a thumbnail URL for a video id, taking the first
// quality level of the waterfall.
func ThumbnailURL(videoID string) string {
	if videoID == "" {
		return ""
	}
	return "https://img.youtube.com/vi/" + videoID + "/" + thumbnailQualities[0] + ".jpg"
}
