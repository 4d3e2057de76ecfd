// ABOUTME: HTML/XML character reference decoding and CDATA stripping for feed text
// ABOUTME: Single left-to-right pass so substituted output is never re-matched

package entities

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	cdataOpen  = "<![CDATA["
	cdataClose = "]]>"

	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Decode replaces named and numeric character references with their literal
// characters, strips CDATA delimiters, collapses whitespace runs to single
// spaces, and trims the result. Decoding is a single left-to-right scan:
// characters produced by a substitution are emitted verbatim and never matched
// again, so "&amp;amp;" decodes to "&amp;", not "&", and already-decoded text
// passes through unchanged.
func Decode(text string) string {
	if text == "" {
		return ""
	}
	text = StripCDATA(text)

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		c := text[i]
		if c != '&' {
			b.WriteByte(c)
			i++
			continue
		}
		repl, width := matchEntity(text[i:])
		if width == 0 {
			b.WriteByte(c)
			i++
			continue
		}
		b.WriteString(repl)
		i += width
	}

	out := whitespaceRun.ReplaceAllString(b.String(), " ")
	return strings.TrimSpace(out)
}

// StripCDATA removes CDATA delimiters while keeping their content. An
// unterminated CDATA section loses only its opening marker.
func StripCDATA(text string) string {
	if !strings.Contains(text, cdataOpen) {
		return text
	}
	text = strings.ReplaceAll(text, cdataOpen, "")
	return strings.ReplaceAll(text, cdataClose, "")
}

// matchEntity inspects a string starting with '&' and returns the replacement
// plus the number of input bytes consumed, or ("", 0) when the prefix is not
// a recognized character reference.
func matchEntity(s string) (string, int) {
	// Numeric references: &#39; and &#x27; forms.
	if strings.HasPrefix(s, "&#") {
		end := strings.IndexByte(s, ';')
		if end < 0 || end > 12 {
			return "", 0
		}
		body := s[2:end]
		base := 10
		if len(body) > 1 && (body[0] == 'x' || body[0] == 'X') {
			base = 16
			body = body[1:]
		}
		n, err := strconv.ParseInt(body, base, 32)
		if err != nil || n <= 0 {
			return "", 0
		}
		return string(rune(n)), end + 1
	}

	end := strings.IndexByte(s, ';')
	if end < 0 || end > maxEntityLen {
		return "", 0
	}
	if repl, ok := namedEntities[s[1:end]]; ok {
		return repl, end + 1
	}
	return "", 0
}
