// ABOUTME: Multi-strategy fetch resolver: an ordered cascade from direct GET to proxies
// ABOUTME: Each strategy is attempted sequentially and validated before acceptance

package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harper/feedvault/internal/parse"
)

// Browser-like request headers. Some origins serve error pages or CAPTCHA
// interstitials to obvious bot agents.
const (
	userAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	acceptFeeds = "application/rss+xml, application/atom+xml, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.7"
)

// ErrFetchExhausted means every remediation strategy failed.
var ErrFetchExhausted = errors.New("exhausted all fetch strategies")

// Strategy is one remediation attempt. A false result means "not applicable
// or failed, try the next one"; it is never an error the caller sees.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, feedURL string) (string, bool)
}

// Options configures the resolver cascade.
type Options struct {
	// EnableProxies gates the third-party CORS proxy fallbacks. Off on
	// platforms that block proxy egress.
	EnableProxies bool
	// Proxies overrides the default public proxy list (used by tests).
	Proxies []ProxySpec
	// ConvertEndpoint overrides the feed-to-JSON conversion API base.
	ConvertEndpoint string
}

// Resolver walks the strategy cascade in order. Later strategies are
// progressively more expensive and less trustworthy, so order matters and
// attempts are strictly sequential.
type Resolver struct {
	client     Client
	strategies []Strategy
}

// New builds a resolver with the standard cascade.
func New(client Client, opts Options) *Resolver {
	strategies := []Strategy{
		&directStrategy{client: client},
		&feedburnerStrategy{client: client},
		&schemeToggleStrategy{client: client},
		&mirrorStrategy{client: client},
		&wordpressStrategy{client: client},
		&discoveryStrategy{client: client},
		&preprintStrategy{client: client},
	}
	if opts.EnableProxies {
		proxies := opts.Proxies
		if proxies == nil {
			proxies = defaultProxies
		}
		for _, p := range proxies {
			strategies = append(strategies, &proxyStrategy{client: client, spec: p})
		}
	}
	endpoint := opts.ConvertEndpoint
	if endpoint == "" {
		endpoint = defaultConvertEndpoint
	}
	strategies = append(strategies, &convertStrategy{client: client, endpoint: endpoint})

	return &Resolver{client: client, strategies: strategies}
}

// FetchFeedXML retrieves valid feed text for a URL, trying each strategy in
// order and failing only after the whole cascade is exhausted.
func (r *Resolver) FetchFeedXML(ctx context.Context, feedURL string) (string, error) {
	for _, s := range r.strategies {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if text, ok := s.Attempt(ctx, feedURL); ok {
			return text, nil
		}
	}
	return "", fmt.Errorf("%w: could not fetch a valid feed from %s", ErrFetchExhausted, feedURL)
}

// get performs a feed-accepting GET, returning ok only for a 200.
func get(ctx context.Context, client Client, url string) (string, bool) {
	text, status, err := client.Request(ctx, url, map[string]string{
		"User-Agent": userAgent,
		"Accept":     acceptFeeds,
	})
	if err != nil || status != 200 {
		return text, false
	}
	return text, true
}

// looksLikeStub reports whether text is a valid feed envelope with no items.
func looksLikeStub(text string) bool {
	if !parse.IsValidFeed(text) {
		return false
	}
	lower := strings.ToLower(text)
	return !strings.Contains(lower, "<item") && !strings.Contains(lower, "<entry")
}

// scriptErrorMarkers flag server-side script failures masquerading as feeds.
var scriptErrorMarkers = []string{
	"<?php",
	"fatal error",
	"parse error",
	"warning:",
	"wp-content",
	"wordpress",
	"undefined variable",
}

// looksLikeScriptError reports whether text is a PHP/WordPress error page
// rather than feed content.
func looksLikeScriptError(text string) bool {
	if parse.IsValidFeed(text) {
		return false
	}
	lower := strings.ToLower(text)
	for _, marker := range scriptErrorMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
