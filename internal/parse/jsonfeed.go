// ABOUTME: JSON Feed parser mapping items to the normalized feed shape
// ABOUTME: Validates the version URI before accepting the document

package parse

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harper/feedvault/internal/models"
)

// jsonFeedVersionPrefix anchors version validation; any 1.x stream is accepted.
const jsonFeedVersionPrefix = "https://jsonfeed.org/version/"

type jsonFeedDoc struct {
	Version     string           `json:"version"`
	Title       string           `json:"title"`
	HomePageURL string           `json:"home_page_url"`
	Description string           `json:"description"`
	Icon        string           `json:"icon"`
	Favicon     string           `json:"favicon"`
	Authors     []jsonFeedAuthor `json:"authors"`
	Author      *jsonFeedAuthor  `json:"author"`
	Items       []jsonFeedItem   `json:"items"`
}

type jsonFeedAuthor struct {
	Name string `json:"name"`
}

type jsonFeedItem struct {
	ID            string               `json:"id"`
	URL           string               `json:"url"`
	Title         string               `json:"title"`
	Summary       string               `json:"summary"`
	ContentHTML   string               `json:"content_html"`
	ContentText   string               `json:"content_text"`
	DatePublished string               `json:"date_published"`
	Image         string               `json:"image"`
	Tags          []string             `json:"tags"`
	Authors       []jsonFeedAuthor     `json:"authors"`
	Author        *jsonFeedAuthor      `json:"author"`
	Attachments   []jsonFeedAttachment `json:"attachments"`
}

type jsonFeedAttachment struct {
	URL         string `json:"url"`
	MimeType    string `json:"mime_type"`
	SizeInBytes int64  `json:"size_in_bytes"`
}

func parseJSONFeed(text string) (*models.ParsedFeed, error) {
	var doc jsonFeedDoc
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if !strings.HasPrefix(doc.Version, jsonFeedVersionPrefix) {
		return nil, fmt.Errorf("%w: unrecognized json feed version %q", ErrUnsupportedFormat, doc.Version)
	}

	feed := &models.ParsedFeed{
		Type:        models.TypeJSON,
		Title:       doc.Title,
		Description: doc.Description,
		Link:        doc.HomePageURL,
		Author:      jsonAuthorName(doc.Authors, doc.Author),
	}
	if doc.Icon != "" {
		feed.Image = &models.Image{URL: doc.Icon}
	} else if doc.Favicon != "" {
		feed.Image = &models.Image{URL: doc.Favicon}
	}

	for _, it := range doc.Items {
		item := models.ParsedItem{
			Title:       it.Title,
			Link:        it.URL,
			Description: it.Summary,
			PubDate:     it.DatePublished,
			GUID:        it.ID,
			Author:      jsonAuthorName(it.Authors, it.Author),
			Image:       it.Image,
		}
		if item.GUID == "" {
			item.GUID = it.URL
		}
		if it.ContentHTML != "" {
			item.Content = it.ContentHTML
		} else {
			item.Content = it.ContentText
		}
		if item.Content == "" {
			item.Content = it.Summary
		}
		if len(it.Tags) > 0 {
			item.Category = it.Tags[0]
		}
		if len(it.Attachments) > 0 && it.Attachments[0].URL != "" {
			att := it.Attachments[0]
			item.Enclosure = &models.Enclosure{URL: att.URL, Type: att.MimeType}
			if att.SizeInBytes > 0 {
				item.Enclosure.Length = fmt.Sprintf("%d", att.SizeInBytes)
			}
		}
		feed.Items = append(feed.Items, item)
	}

	return feed, nil
}

func jsonAuthorName(authors []jsonFeedAuthor, single *jsonFeedAuthor) string {
	if len(authors) > 0 && authors[0].Name != "" {
		return authors[0].Name
	}
	if single != nil {
		return single.Name
	}
	return ""
}
