// ABOUTME: Regex-based recovery parser for feeds whose XML is beyond structural repair
// ABOUTME: Every field has a safe default; an item without a title is dropped

package parse

import (
	"regexp"
	"strings"
	"time"

	"github.com/harper/feedvault/internal/entities"
	"github.com/harper/feedvault/internal/models"
)

var (
	recTitle    = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	recDesc     = regexp.MustCompile(`(?is)<description[^>]*>(.*?)</description>`)
	recLink     = regexp.MustCompile(`(?is)<link[^>]*>(.*?)</link>`)
	recPubDate  = regexp.MustCompile(`(?is)<pubdate[^>]*>(.*?)</pubdate>`)
	recGUID     = regexp.MustCompile(`(?is)<guid[^>]*>(.*?)</guid>`)
	recCategory = regexp.MustCompile(`(?is)<category[^>]*>(.*?)</category>`)
	recItemSpan = regexp.MustCompile(`(?is)<item[\s>].*?</item>`)
	recItemOpen = regexp.MustCompile(`(?i)<item[\s>]`)

	// Author tag variants observed in broken feeds, tried in order. The
	// CDATA-wrapped dc:creator form is matched explicitly because the generic
	// pattern stops at the first ']' otherwise.
	recAuthors = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<dc:creator[^>]*>\s*<!\[CDATA\[(.*?)\]\]>\s*</dc:creator>`),
		regexp.MustCompile(`(?is)<dc:creator[^>]*>(.*?)</dc:creator>`),
		regexp.MustCompile(`(?is)<author[^>]*>(.*?)</author>`),
		regexp.MustCompile(`(?is)<itunes:author[^>]*>(.*?)</itunes:author>`),
	}

	recBiblio = map[string]*regexp.Regexp{
		"pubyear":  regexp.MustCompile(`(?is)<ieee:pubyear[^>]*>(.*?)</ieee:pubyear>`),
		"volume":   regexp.MustCompile(`(?is)<ieee:volume[^>]*>(.*?)</ieee:volume>`),
		"issue":    regexp.MustCompile(`(?is)<ieee:issue[^>]*>(.*?)</ieee:issue>`),
		"pages":    regexp.MustCompile(`(?is)<ieee:pages[^>]*>(.*?)</ieee:pages>`),
		"filesize": regexp.MustCompile(`(?is)<ieee:filesize[^>]*>(.*?)</ieee:filesize>`),
		"authors":  regexp.MustCompile(`(?is)<ieee:authors[^>]*>(.*?)</ieee:authors>`),
	}
)

// parseRecovery extracts a feed from text that structural parsing could not
// handle. It never fails on absent fields; it only errors when not even a
// channel title can be found.
func parseRecovery(text string) (*models.ParsedFeed, error) {
	feed := &models.ParsedFeed{Type: models.TypeRSS}

	if m := recTitle.FindStringSubmatch(text); m != nil {
		feed.Title = entities.Decode(m[1])
	}
	if m := recDesc.FindStringSubmatch(text); m != nil {
		feed.Description = entities.Decode(m[1])
	}
	if m := recLink.FindStringSubmatch(text); m != nil {
		feed.Link = strings.TrimSpace(entities.StripCDATA(m[1]))
	}

	for _, span := range recoverItemSpans(text) {
		if item, ok := recoverItem(span); ok {
			feed.Items = append(feed.Items, item)
		}
	}

	if feed.Title == "" && len(feed.Items) == 0 {
		return nil, ErrUnsupportedFormat
	}
	return feed, nil
}

// recoverItemSpans finds item blocks. When the non-greedy span match comes up
// empty (an unclosed trailing item), it falls back to scanning start tags and
// cutting each span at the next item, channel close, rss close, or EOF.
func recoverItemSpans(text string) []string {
	if spans := recItemSpan.FindAllString(text, -1); len(spans) > 0 {
		// A trailing unclosed item is invisible to the span regex; pick it up
		// separately so well-formed leading items are not the whole result.
		last := recItemSpan.FindAllStringIndex(text, -1)
		tail := text[last[len(last)-1][1]:]
		if loc := recItemOpen.FindStringIndex(tail); loc != nil {
			spans = append(spans, cutItemSpan(tail[loc[0]:]))
		}
		return spans
	}

	locs := recItemOpen.FindAllStringIndex(text, -1)
	spans := make([]string, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		spans = append(spans, cutItemSpan(text[loc[0]:end]))
	}
	return spans
}

// cutItemSpan trims a candidate span at the nearest structural boundary.
func cutItemSpan(span string) string {
	lower := strings.ToLower(span)
	end := len(span)
	for _, marker := range []string{"</channel>", "</rss>"} {
		if i := strings.Index(lower, marker); i >= 0 && i < end {
			end = i
		}
	}
	if i := recItemOpen.FindStringIndex(lower[1:]); i != nil && i[0]+1 < end {
		end = i[0] + 1
	}
	return span[:end]
}

// recoverItem extracts one item from a span. A title-less entry is not
// recoverable and is dropped.
func recoverItem(span string) (models.ParsedItem, bool) {
	var item models.ParsedItem

	m := recTitle.FindStringSubmatch(span)
	if m == nil {
		return item, false
	}
	item.Title = entities.Decode(m[1])
	if item.Title == "" {
		return item, false
	}

	if m := recLink.FindStringSubmatch(span); m != nil {
		item.Link = rewriteLink(strings.TrimSpace(entities.StripCDATA(m[1])))
	}
	if m := recDesc.FindStringSubmatch(span); m != nil {
		item.Description = cleanBody(m[1])
	}
	item.Content = item.Description

	if m := recPubDate.FindStringSubmatch(span); m != nil {
		item.PubDate = strings.TrimSpace(m[1])
	} else {
		item.PubDate = time.Now().Format(time.RFC1123Z)
	}

	if m := recGUID.FindStringSubmatch(span); m != nil {
		item.GUID = strings.TrimSpace(entities.StripCDATA(m[1]))
	}
	if item.GUID == "" {
		item.GUID = item.Link
	}

	for _, re := range recAuthors {
		if m := re.FindStringSubmatch(span); m != nil {
			item.Author = entities.Decode(m[1])
			break
		}
	}
	if m := recCategory.FindStringSubmatch(span); m != nil {
		item.Category = entities.Decode(m[1])
	}

	item.Image = firstImgSrc(item.Description)
	item.Biblio = recoverBiblio(span)
	return item, true
}

func recoverBiblio(span string) *models.Bibliographic {
	get := func(key string) string {
		if m := recBiblio[key].FindStringSubmatch(span); m != nil {
			return strings.TrimSpace(m[1])
		}
		return ""
	}
	b := &models.Bibliographic{
		PubYear:  get("pubyear"),
		Volume:   get("volume"),
		Issue:    get("issue"),
		Pages:    get("pages"),
		FileSize: get("filesize"),
		Authors:  entities.Decode(get("authors")),
	}
	if *b == (models.Bibliographic{}) {
		return nil
	}
	return b
}
