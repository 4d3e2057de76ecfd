// ABOUTME: Individual fetch remediation strategies: direct, scheme toggle, mirrors, WordPress paths
// ABOUTME: Each strategy validates its result with the feed sniffer before accepting it

package resolve

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/harper/feedvault/internal/parse"
)

// directStrategy is the plain GET with the URL's original scheme.
type directStrategy struct {
	client Client
}

func (s *directStrategy) Name() string { return "direct" }

func (s *directStrategy) Attempt(ctx context.Context, feedURL string) (string, bool) {
	text, ok := get(ctx, s.client, feedURL)
	if !ok || !parse.IsValidFeed(text) {
		return "", false
	}
	// Stub envelopes and script error pages are handed to later strategies.
	if looksLikeStub(text) || looksLikeScriptError(text) {
		return "", false
	}
	return text, true
}

// feedburnerStrategy forces XML output from feed-aggregation redirectors that
// otherwise serve an HTML landing page.
type feedburnerStrategy struct {
	client Client
}

// feedburnerVariants are query parameters known to force XML output.
var feedburnerVariants = []string{"format=xml", "fmt=xml", "type=xml"}

func (s *feedburnerStrategy) Name() string { return "feedburner" }

func (s *feedburnerStrategy) Attempt(ctx context.Context, feedURL string) (string, bool) {
	u, err := url.Parse(feedURL)
	if err != nil || !strings.Contains(u.Host, "feedburner.com") {
		return "", false
	}
	for _, variant := range feedburnerVariants {
		candidate := feedURL
		if strings.Contains(candidate, "?") {
			candidate += "&" + variant
		} else {
			candidate += "?" + variant
		}
		if text, ok := get(ctx, s.client, candidate); ok && parse.IsValidFeed(text) {
			return text, true
		}
	}
	return "", false
}

// schemeToggleStrategy retries with the opposite scheme. Some origins serve
// feeds only over http, others redirect http to a broken landing page.
type schemeToggleStrategy struct {
	client Client
}

func (s *schemeToggleStrategy) Name() string { return "scheme-toggle" }

func (s *schemeToggleStrategy) Attempt(ctx context.Context, feedURL string) (string, bool) {
	var toggled string
	switch {
	case strings.HasPrefix(feedURL, "https://"):
		toggled = "http://" + strings.TrimPrefix(feedURL, "https://")
	case strings.HasPrefix(feedURL, "http://"):
		toggled = "https://" + strings.TrimPrefix(feedURL, "http://")
	default:
		return "", false
	}
	text, ok := get(ctx, s.client, toggled)
	if !ok || !parse.IsValidFeed(text) {
		return "", false
	}
	return text, true
}

// mirrorStrategy handles stub envelopes: a valid feed with zero items whose
// channel link points at a known secondary mirror of the real feed.
type mirrorStrategy struct {
	client Client
}

// stubMirrorHosts are domains observed serving the full item list when the
// primary host returns an empty envelope.
var stubMirrorHosts = []string{
	"feedpress.me",
	"feeds2.feedburner.com",
	"export.arxiv.org",
}

var channelLinkPattern = regexp.MustCompile(`(?is)<link[^>]*>\s*(https?://[^<\s]+)\s*</link>|<link[^>]*href=["'](https?://[^"']+)["']`)

func (s *mirrorStrategy) Name() string { return "stub-mirror" }

func (s *mirrorStrategy) Attempt(ctx context.Context, feedURL string) (string, bool) {
	text, ok := get(ctx, s.client, feedURL)
	if !ok || !looksLikeStub(text) {
		return "", false
	}

	m := channelLinkPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	link := m[1]
	if link == "" {
		link = m[2]
	}
	u, err := url.Parse(link)
	if err != nil {
		return "", false
	}
	for _, host := range stubMirrorHosts {
		if strings.HasSuffix(u.Host, host) {
			refetched, ok := get(ctx, s.client, link)
			if ok && parse.IsValidFeed(refetched) && !looksLikeStub(refetched) {
				return refetched, true
			}
			return "", false
		}
	}
	return "", false
}

// wordpressStrategy tries the well-known alternate feed paths of WordPress
// and similar CMSes. It applies both when the direct fetch failed outright
// (404s) and when it returned a server-side script error page.
type wordpressStrategy struct {
	client Client
}

// alternateFeedPaths is the fixed ordered list of fallback endpoints.
var alternateFeedPaths = []string{
	"/feed/",
	"/feed/rss2/",
	"/rss.xml",
	"/?feed=rss2",
	"/feed/atom/",
	"/atom.xml",
	"/index.xml",
}

func (s *wordpressStrategy) Name() string { return "wordpress-paths" }

func (s *wordpressStrategy) Attempt(ctx context.Context, feedURL string) (string, bool) {
	u, err := url.Parse(feedURL)
	if err != nil || u.Host == "" {
		return "", false
	}

	// Only remediate when the direct response was unusable: an error status,
	// non-feed content, or a script error page.
	text, ok := get(ctx, s.client, feedURL)
	if ok && parse.IsValidFeed(text) && !looksLikeScriptError(text) {
		return "", false
	}

	origin := u.Scheme + "://" + u.Host
	for _, path := range alternateFeedPaths {
		candidate := origin + path
		if candidate == feedURL {
			continue
		}
		if text, ok := get(ctx, s.client, candidate); ok && parse.IsValidFeed(text) {
			return text, true
		}
	}
	return "", false
}

// preprintStrategy substitutes the mirror domain of one academic preprint
// host whose primary frontend rate-limits feed readers.
type preprintStrategy struct {
	client Client
}

func (s *preprintStrategy) Name() string { return "preprint-mirror" }

func (s *preprintStrategy) Attempt(ctx context.Context, feedURL string) (string, bool) {
	if !strings.Contains(feedURL, "arxiv.org") || strings.Contains(feedURL, "export.arxiv.org") {
		return "", false
	}
	mirror := strings.Replace(feedURL, "arxiv.org", "export.arxiv.org", 1)
	text, ok := get(ctx, s.client, mirror)
	if !ok || !parse.IsValidFeed(text) {
		return "", false
	}
	return text, true
}
