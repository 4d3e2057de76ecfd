// ABOUTME: Incremental merge engine reconciling parsed items against stored feed state
// ABOUTME: Keyed by guid normalized to an absolute URL; user annotations always survive

package merge

import (
	"sort"
	"strings"
	"time"

	"github.com/harper/feedvault/internal/media"
	"github.com/harper/feedvault/internal/models"
	"github.com/harper/feedvault/internal/timeutil"
	"github.com/harper/feedvault/internal/urlutil"
)

// contentBase picks the URL that relative links inside item content resolve
// against: the item's own page when it is absolute, else the feed URL.
func contentBase(link, feedURL string) string {
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	return feedURL
}

// itemKey normalizes a guid (or link fallback) to an absolute URL so that a
// feed switching between relative and absolute guids still matches.
func itemKey(guid, link, feedURL string) string {
	id := guid
	if id == "" {
		id = link
	}
	if id == "" {
		return ""
	}
	return urlutil.ToAbsolute(id, feedURL)
}

// Merge reconciles freshly parsed items against the prior feed state and
// returns the feed's new authoritative value. existing may be nil (first
// fetch). The input feed is never mutated; the caller owns persistence.
//
// Output ordering: existing items the new parse no longer lists, then
// updated items, then brand-new items, both in parsed order.
func Merge(existing *models.Feed, parsed *models.ParsedFeed, feedURL string) *models.Feed {
	out := &models.Feed{
		Title: parsed.Title,
		URL:   feedURL,
	}
	if existing != nil {
		out.Folder = existing.Folder
		out.MaxItemsLimit = existing.MaxItemsLimit
		out.AutoDeleteDuration = existing.AutoDeleteDuration
		out.ScanInterval = existing.ScanInterval
		if out.Title == "" {
			out.Title = existing.Title
		}
	}

	classification := media.Classify(feedURL, parsed)
	out.MediaType = classification.Type

	byKey := make(map[string]*models.FeedItem)
	matched := make(map[string]bool)
	if existing != nil {
		for i := range existing.Items {
			item := &existing.Items[i]
			if key := itemKey(item.GUID, item.Link, feedURL); key != "" {
				byKey[key] = item
			}
		}
	}

	var updated, fresh []models.FeedItem
	for _, p := range parsed.Items {
		key := itemKey(p.GUID, p.Link, feedURL)
		if key == "" {
			continue
		}
		if prior, ok := byKey[key]; ok && !matched[key] {
			matched[key] = true
			updated = append(updated, refreshItem(*prior, p, parsed, out.Title, feedURL, classification))
		} else if !ok {
			fresh = append(fresh, newItem(p, parsed, out.Title, feedURL, key, classification))
		}
	}

	var retained []models.FeedItem
	if existing != nil {
		for i := range existing.Items {
			item := existing.Items[i]
			if key := itemKey(item.GUID, item.Link, feedURL); key == "" || !matched[key] {
				retained = append(retained, item)
			}
		}
	}

	items := make([]models.FeedItem, 0, len(retained)+len(updated)+len(fresh))
	items = append(items, retained...)
	items = append(items, updated...)
	items = append(items, fresh...)

	media.SuppressDominantCover(items, parsed)
	media.ApplyTags(items, classification)

	out.Items = applyFeedLimits(items, out.MaxItemsLimit, out.AutoDeleteDuration, time.Now())
	out.LastUpdated = time.Now()
	return out
}

// refreshItem carries the prior item's user state forward while refreshing
// every parse-derived field. read, starred, saved, and tags are preserved
// unconditionally.
func refreshItem(prior models.FeedItem, p models.ParsedItem, feed *models.ParsedFeed, feedTitle, feedURL string, c media.Classification) models.FeedItem {
	item := prior
	item.Title = p.Title
	item.Link = p.Link
	item.Description = p.Description
	item.Content = urlutil.RewriteContentURLs(p.Content, contentBase(p.Link, feedURL))
	item.PubDate = p.PubDate
	item.Author = p.Author
	item.Category = p.Category
	item.Enclosure = p.Enclosure
	item.Itunes = p.Itunes
	item.Biblio = p.Biblio
	item.Image = p.Image
	item.FeedTitle = feedTitle
	item.FeedURL = feedURL

	priorCover := prior.CoverImage
	media.EnrichItem(&item, p, feed, c)
	if item.CoverImage == "" {
		item.CoverImage = priorCover
	}
	return item
}

// newItem builds a first-seen item with fresh user state.
func newItem(p models.ParsedItem, feed *models.ParsedFeed, feedTitle, feedURL, key string, c media.Classification) models.FeedItem {
	item := models.FeedItem{
		Title:       p.Title,
		Link:        p.Link,
		Description: p.Description,
		Content:     urlutil.RewriteContentURLs(p.Content, contentBase(p.Link, feedURL)),
		PubDate:     p.PubDate,
		GUID:        key,
		Author:      p.Author,
		Category:    p.Category,
		Enclosure:   p.Enclosure,
		Itunes:      p.Itunes,
		Biblio:      p.Biblio,
		Image:       p.Image,
		FeedTitle:   feedTitle,
		FeedURL:     feedURL,
	}
	media.EnrichItem(&item, p, feed, c)
	return item
}

// applyFeedLimits enforces per-feed retention. Read items are exempt from
// both count-based and age-based trimming; only unread overflow is evicted,
// newest-first for the count limit.
func applyFeedLimits(items []models.FeedItem, maxItems, maxAgeDays int, now time.Time) []models.FeedItem {
	if maxAgeDays > 0 {
		cutoff := now.AddDate(0, 0, -maxAgeDays)
		kept := items[:0:0]
		for _, item := range items {
			if item.Read {
				kept = append(kept, item)
				continue
			}
			pub := timeutil.PubDateOrZero(item.PubDate)
			if pub.IsZero() || pub.After(cutoff) {
				kept = append(kept, item)
			}
		}
		items = kept
	}

	if maxItems > 0 && len(items) > maxItems {
		readCount := 0
		for _, item := range items {
			if item.Read {
				readCount++
			}
		}
		budget := maxItems - readCount
		if budget < 0 {
			budget = 0
		}

		type candidate struct {
			index int
			pub   time.Time
		}
		var unread []candidate
		for i, item := range items {
			if !item.Read {
				unread = append(unread, candidate{index: i, pub: timeutil.PubDateOrZero(item.PubDate)})
			}
		}
		sort.SliceStable(unread, func(a, b int) bool {
			return unread[a].pub.After(unread[b].pub)
		})

		keepUnread := make(map[int]bool, budget)
		for i := 0; i < budget && i < len(unread); i++ {
			keepUnread[unread[i].index] = true
		}

		kept := items[:0:0]
		for i, item := range items {
			if item.Read || keepUnread[i] {
				kept = append(kept, item)
			}
		}
		items = kept
	}
	return items
}
