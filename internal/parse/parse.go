// ABOUTME: Top-level feed parsing: format sniffing, preprocessing, and dialect dispatch
// ABOUTME: Falls through structural parsing to second-chance extraction and regex recovery

package parse

import (
	"errors"
	"regexp"
	"strings"

	"github.com/harper/feedvault/internal/models"
)

// Errors surfaced by the parsing layer. ErrUnsupportedFormat is fatal to one
// parse call but callers (the fetch resolver, the orchestrator) catch it and
// fall back further.
var (
	ErrUnsupportedFormat = errors.New("unsupported feed format")
	errEmptyDocument     = errors.New("empty document")
	errNoChannel         = errors.New("no channel element")
	errNoFeedRoot        = errors.New("no feed root element")
)

// sniffWindow bounds the cheap format check to the head of the document.
const sniffWindow = 2048

// IsValidFeed reports whether text looks like a syndication feed. It is a
// cheap sniff over the first ~2KB, used to gate every fetch remediation
// branch before full parsing.
func IsValidFeed(text string) bool {
	head := strings.TrimSpace(text)
	if head == "" {
		return false
	}
	if head[0] == '{' {
		return strings.Contains(head[:min(len(head), sniffWindow)], "jsonfeed.org/version/")
	}
	if len(head) > sniffWindow {
		head = head[:sniffWindow]
	}
	head = strings.ToLower(head)
	return strings.Contains(head, "<rss") ||
		strings.Contains(head, "<feed") ||
		strings.Contains(head, "<rdf:rdf") ||
		strings.Contains(head, "<rdf") ||
		strings.Contains(head, "http://purl.org/rss/1.0/")
}

// ParseString parses raw feed text in any supported dialect into the
// normalized ParsedFeed shape.
func ParseString(text string) (*models.ParsedFeed, error) {
	trimmed := strings.TrimSpace(stripBOM(text))
	if trimmed == "" {
		return nil, ErrUnsupportedFormat
	}
	if trimmed[0] == '{' {
		return parseJSONFeed(trimmed)
	}

	pre := preprocess(trimmed)
	if hasBareAngleBracket(pre) {
		// A raw '<' in text means whatever tree the lenient decoder builds
		// is untrustworthy. Go straight to the recovery parser.
		return parseRecovery(pre)
	}
	root, err := buildTree(pre)
	if err != nil {
		if rescued, ok := secondChance(pre); ok {
			root, err = buildTree(rescued)
		}
	}
	if err != nil {
		return parseRecovery(pre)
	}

	doc := root.firstElement()
	if doc == nil {
		return parseRecovery(pre)
	}

	var feed *models.ParsedFeed
	switch {
	case doc.name == "rdf:rdf" || doc.name == "rdf" || isRSS1Namespace(pre):
		feed, err = parseRSS1(root)
	case root.find("rss") != nil || doc.name == "rss":
		feed, err = parseRSS2(root)
	case root.find("feed") != nil:
		feed, err = parseAtom(root)
	default:
		return parseRecovery(pre)
	}
	if err != nil {
		// Structural dialect failure (missing channel, bare items): the
		// recovery parser gets a chance before the caller sees an error.
		return parseRecovery(pre)
	}
	if len(feed.Items) == 0 && recItemOpen.MatchString(pre) {
		// The lenient decoder accepted the document but every item was lost
		// to broken markup. The raw text still carries item tags, so the
		// recovery parser gets a chance to salvage them.
		if rec, rerr := parseRecovery(pre); rerr == nil && len(rec.Items) > 0 {
			return rec, nil
		}
	}
	return feed, nil
}

// isRSS1Namespace reports whether the document declares the RSS 1.0 core
// namespace as a default namespace. Module namespaces that share the prefix
// (content, syndication) appear in ordinary RSS 2.0 feeds and do not count.
func isRSS1Namespace(text string) bool {
	head := text
	if len(head) > sniffWindow {
		head = head[:sniffWindow]
	}
	return strings.Contains(head, `xmlns="http://purl.org/rss/1.0/"`) ||
		strings.Contains(head, `xmlns='http://purl.org/rss/1.0/'`)
}

// stripBOM removes a UTF-8 byte order mark.
func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}

// hasBareAngleBracket reports whether the text contains a '<' that cannot
// start a tag, a comment, or a declaration. CDATA sections and comments are
// skipped, so markup embedded there does not count.
func hasBareAngleBracket(text string) bool {
	for i := 0; i < len(text); {
		if strings.HasPrefix(text[i:], "<![CDATA[") {
			end := strings.Index(text[i:], "]]>")
			if end < 0 {
				return false
			}
			i += end + len("]]>")
			continue
		}
		if strings.HasPrefix(text[i:], "<!--") {
			end := strings.Index(text[i:], "-->")
			if end < 0 {
				return false
			}
			i += end + len("-->")
			continue
		}
		if text[i] != '<' {
			i++
			continue
		}
		if i+1 >= len(text) {
			return true
		}
		switch c := text[i+1]; {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z',
			c == '/', c == '!', c == '?', c == '_', c == ':':
			i++
		default:
			return true
		}
	}
	return false
}

var processingInstruction = regexp.MustCompile(`<\?[a-zA-Z][a-zA-Z0-9_-]*[^>]*\?>`)

// preprocess defends the XML decoder against the common corruptions of
// real-world feeds: stray processing instructions, leading and trailing
// garbage around the rss envelope (PHP warnings), and bare ampersands.
func preprocess(text string) string {
	text = processingInstruction.ReplaceAllStringFunc(text, func(pi string) string {
		if strings.HasPrefix(pi, "<?xml ") || strings.HasPrefix(pi, "<?xml?") {
			return pi
		}
		return ""
	})

	// Re-anchor on the rss envelope when present, dropping anything a broken
	// server printed before or after it.
	lower := strings.ToLower(text)
	if start := strings.Index(lower, "<rss"); start >= 0 {
		if end := strings.LastIndex(lower, "</rss>"); end > start {
			text = text[start : end+len("</rss>")]
		} else {
			text = text[start:]
		}
	}

	return EscapeBareAmpersands(text)
}

// EscapeBareAmpersands replaces '&' characters that do not begin a valid
// named or numeric character reference with '&amp;'. CDATA sections are
// protected verbatim.
func EscapeBareAmpersands(text string) string {
	if !strings.ContainsRune(text, '&') {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + 16)
	for i := 0; i < len(text); {
		if strings.HasPrefix(text[i:], "<![CDATA[") {
			end := strings.Index(text[i:], "]]>")
			if end < 0 {
				b.WriteString(text[i:])
				break
			}
			b.WriteString(text[i : i+end+len("]]>")])
			i += end + len("]]>")
			continue
		}
		c := text[i]
		if c != '&' {
			b.WriteByte(c)
			i++
			continue
		}
		if entityWidth(text[i:]) > 0 {
			b.WriteByte(c)
		} else {
			b.WriteString("&amp;")
		}
		i++
	}
	return b.String()
}

// entityWidth returns the length of a valid character reference starting at
// the '&', or 0 when the ampersand is bare.
func entityWidth(s string) int {
	end := strings.IndexByte(s, ';')
	if end <= 1 || end > 12 {
		return 0
	}
	body := s[1:end]
	if body[0] == '#' {
		digits := body[1:]
		hex := false
		if len(digits) > 1 && (digits[0] == 'x' || digits[0] == 'X') {
			hex = true
			digits = digits[1:]
		}
		if digits == "" {
			return 0
		}
		for _, r := range digits {
			if hex && !isHexDigit(byte(r)) {
				return 0
			}
			if !hex && (r < '0' || r > '9') {
				return 0
			}
		}
		return end + 1
	}
	for i := 0; i < len(body); i++ {
		c := body[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' && i > 0) {
			return 0
		}
	}
	return end + 1
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

var (
	rssSpan     = regexp.MustCompile(`(?is)<rss[\s>].*</rss>`)
	channelSpan = regexp.MustCompile(`(?is)<channel[\s>].*</channel>`)
	titleScrape = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	descScrape  = regexp.MustCompile(`(?is)<description[^>]*>(.*?)</description>`)
	linkScrape  = regexp.MustCompile(`(?is)<link[^>]*>(.*?)</link>`)
	itemSpan    = regexp.MustCompile(`(?is)<item[\s>].*?</item>`)
)

// secondChance extracts or synthesizes an rss envelope from a document whose
// structural parse failed: the rss span itself, a bare channel, or loose item
// tags plus scraped channel metadata.
func secondChance(text string) (string, bool) {
	if span := rssSpan.FindString(text); span != "" && span != text {
		return span, true
	}
	if span := channelSpan.FindString(text); span != "" {
		return "<rss version=\"2.0\">" + span + "</rss>", true
	}

	items := itemSpan.FindAllString(text, -1)
	if len(items) == 0 {
		return "", false
	}
	var b strings.Builder
	b.WriteString(`<rss version="2.0"><channel>`)
	if m := titleScrape.FindStringSubmatch(text); m != nil {
		b.WriteString("<title>" + m[1] + "</title>")
	}
	if m := descScrape.FindStringSubmatch(text); m != nil {
		b.WriteString("<description>" + m[1] + "</description>")
	}
	if m := linkScrape.FindStringSubmatch(text); m != nil {
		b.WriteString("<link>" + m[1] + "</link>")
	}
	for _, it := range items {
		b.WriteString(it)
	}
	b.WriteString("</channel></rss>")
	synthesized := b.String()
	if !IsValidFeed(synthesized) {
		return "", false
	}
	return synthesized, true
}
