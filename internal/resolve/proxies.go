// ABOUTME: CORS-bypass proxy fallbacks tried after every direct strategy has failed
// ABOUTME: Ordered from JSON-wrapping to raw passthrough; each result is re-validated

package resolve

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/harper/feedvault/internal/parse"
)

// ProxySpec describes one public proxy endpoint. JSONWrapped proxies return
// {"contents": "..."} and need unwrapping; the rest pass the body through.
type ProxySpec struct {
	Name        string
	Prefix      string
	EncodeURL   bool
	JSONWrapped bool
}

// defaultProxies is the fixed cascade order: a JSON-wrapping proxy, a raw
// passthrough on the same service, a generic proxy, a git-CORS proxy, and a
// second raw proxy.
var defaultProxies = []ProxySpec{
	{Name: "allorigins-json", Prefix: "https://api.allorigins.win/get?url=", EncodeURL: true, JSONWrapped: true},
	{Name: "allorigins-raw", Prefix: "https://api.allorigins.win/raw?url=", EncodeURL: true},
	{Name: "corsproxy", Prefix: "https://corsproxy.io/?", EncodeURL: true},
	{Name: "isomorphic-git", Prefix: "https://cors.isomorphic-git.org/"},
	{Name: "thingproxy", Prefix: "https://thingproxy.freeboard.io/fetch/"},
}

type proxyStrategy struct {
	client Client
	spec   ProxySpec
}

func (s *proxyStrategy) Name() string { return "proxy-" + s.spec.Name }

func (s *proxyStrategy) Attempt(ctx context.Context, feedURL string) (string, bool) {
	target := feedURL
	if s.spec.EncodeURL {
		target = url.QueryEscape(feedURL)
	}
	text, ok := get(ctx, s.client, s.spec.Prefix+target)
	if !ok {
		return "", false
	}

	if s.spec.JSONWrapped {
		var wrapper struct {
			Contents string `json:"contents"`
		}
		if err := json.Unmarshal([]byte(text), &wrapper); err != nil || wrapper.Contents == "" {
			return "", false
		}
		text = wrapper.Contents
	}

	if !parse.IsValidFeed(text) {
		return "", false
	}
	return text, true
}
