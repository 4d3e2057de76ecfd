// ABOUTME: Core data model for feeds, items, and parse results
// ABOUTME: Persistent Feed/FeedItem types plus the ephemeral ParsedFeed/ParsedItem shapes

package models

import (
	"time"

	"github.com/google/uuid"
)

// MediaType classifies a feed or item as article, video, or podcast.
type MediaType string

const (
	MediaArticle MediaType = "article"
	MediaVideo   MediaType = "video"
	MediaPodcast MediaType = "podcast"
)

// FeedType identifies the source dialect of a parsed feed.
type FeedType string

const (
	TypeRSS  FeedType = "rss"
	TypeAtom FeedType = "atom"
	TypeJSON FeedType = "json"
)

// Image is a structured image reference. Parsers always normalize to this
// shape; nothing downstream branches on string-vs-object.
type Image struct {
	URL string `json:"url"`
}

// Enclosure is an RSS enclosure: a binary media attachment with MIME type.
type Enclosure struct {
	URL    string `json:"url"`
	Type   string `json:"type,omitempty"`
	Length string `json:"length,omitempty"`
}

// ItunesMeta carries the itunes:* podcast extension fields of an item.
type ItunesMeta struct {
	Duration    string `json:"duration,omitempty"`
	Explicit    string `json:"explicit,omitempty"`
	Image       string `json:"image,omitempty"`
	Category    string `json:"category,omitempty"`
	Summary     string `json:"summary,omitempty"`
	EpisodeType string `json:"episode_type,omitempty"`
	Season      string `json:"season,omitempty"`
	Episode     string `json:"episode,omitempty"`
}

// Bibliographic carries the ieee:* fields used by academic publisher feeds.
type Bibliographic struct {
	PubYear  string `json:"pub_year,omitempty"`
	Volume   string `json:"volume,omitempty"`
	Issue    string `json:"issue,omitempty"`
	Pages    string `json:"pages,omitempty"`
	FileSize string `json:"file_size,omitempty"`
	Authors  string `json:"authors,omitempty"`
}

// ParsedItem is the normalized output of one item from any dialect parser.
// Ephemeral: it has no identity beyond the parse call that produced it.
type ParsedItem struct {
	Title       string
	Link        string
	Description string
	PubDate     string
	GUID        string
	Author      string
	Content     string
	Category    string
	Image       string
	Enclosure   *Enclosure
	Itunes      *ItunesMeta
	Biblio      *Bibliographic
}

// ParsedFeed is the normalized output of one parse call.
type ParsedFeed struct {
	Title       string
	Description string
	Link        string
	Author      string
	Type        FeedType
	Image       *Image // channel-level image
	ItunesImage *Image // feed-level itunes:image logo candidate
	Items       []ParsedItem
}

// Tag is a user-assigned label on an item.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewTag creates a tag with a generated id.
func NewTag(name string) Tag {
	return Tag{ID: uuid.New().String(), Name: name}
}

// FeedItem is the persistent superset of ParsedItem: parse output plus user
// state and classification-derived media fields. GUID (normalized to an
// absolute URL) is the stable identity key within a feed.
type FeedItem struct {
	Title       string         `json:"title"`
	Link        string         `json:"link,omitempty"`
	Description string         `json:"description,omitempty"`
	Content     string         `json:"content,omitempty"`
	PubDate     string         `json:"pub_date,omitempty"`
	GUID        string         `json:"guid"`
	Author      string         `json:"author,omitempty"`
	Category    string         `json:"category,omitempty"`
	Enclosure   *Enclosure     `json:"enclosure,omitempty"`
	Itunes      *ItunesMeta    `json:"itunes,omitempty"`
	Biblio      *Bibliographic `json:"biblio,omitempty"`

	Read          bool   `json:"read"`
	Starred       bool   `json:"starred"`
	Saved         bool   `json:"saved"`
	SavedFilePath string `json:"saved_file_path,omitempty"`
	Tags          []Tag  `json:"tags,omitempty"`

	FeedTitle  string    `json:"feed_title,omitempty"`
	FeedURL    string    `json:"feed_url,omitempty"`
	CoverImage string    `json:"cover_image,omitempty"`
	MediaType  MediaType `json:"media_type,omitempty"`
	VideoID    string    `json:"video_id,omitempty"`
	VideoURL   string    `json:"video_url,omitempty"`
	AudioURL   string    `json:"audio_url,omitempty"`
	Duration   string    `json:"duration,omitempty"`
	Image      string    `json:"image,omitempty"`
	Summary    string    `json:"summary,omitempty"`
}

// MarkRead marks the item as read.
func (i *FeedItem) MarkRead() {
	i.Read = true
}

// MarkUnread marks the item as unread.
func (i *FeedItem) MarkUnread() {
	i.Read = false
}

// ToggleStar flips the starred flag and returns the new value.
func (i *FeedItem) ToggleStar() bool {
	i.Starred = !i.Starred
	return i.Starred
}

// HasTag reports whether the item carries a tag with the given name.
func (i *FeedItem) HasTag(name string) bool {
	for _, t := range i.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

// AddTag appends a tag by name if not already present (idempotent).
func (i *FeedItem) AddTag(tag Tag) {
	if i.HasTag(tag.Name) {
		return
	}
	i.Tags = append(i.Tags, tag)
}

// Feed is a persistent subscription: identity is the URL, unique across the
// settings document. Mutated only by replacing it with the merge engine's
// output; the core never persists it itself.
type Feed struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Folder      string     `json:"folder,omitempty"`
	Items       []FeedItem `json:"items"`
	LastUpdated time.Time  `json:"last_updated"`
	MediaType   MediaType  `json:"media_type,omitempty"`

	// Retention policy. Zero values mean "no limit" / "use global default".
	MaxItemsLimit      int `json:"max_items_limit,omitempty"`
	AutoDeleteDuration int `json:"auto_delete_duration,omitempty"` // days
	ScanInterval       int `json:"scan_interval,omitempty"`        // minutes
}

// UnreadCount returns the number of unread items.
func (f *Feed) UnreadCount() int {
	n := 0
	for i := range f.Items {
		if !f.Items[i].Read {
			n++
		}
	}
	return n
}

// DisplayName returns the feed title, falling back to the URL.
func (f *Feed) DisplayName() string {
	if f.Title != "" {
		return f.Title
	}
	return f.URL
}

// FeedMeta is the subscription metadata carried by an OPML outline entry,
// used to seed feeds during import before their first fetch.
type FeedMeta struct {
	Title              string
	URL                string
	Folder             string
	MediaType          MediaType
	AutoDeleteDuration int
	MaxItemsLimit      int
	ScanInterval       int
}

// Settings is the persistent document owned by the settings store. The core
// only returns updated values; the store is the single mutation point.
type Settings struct {
	Feeds   []*Feed  `json:"feeds"`
	Folders []string `json:"folders,omitempty"`
}

// FindFeed returns the feed with the given URL, or nil.
func (s *Settings) FindFeed(url string) *Feed {
	for _, f := range s.Feeds {
		if f.URL == url {
			return f
		}
	}
	return nil
}

// ReplaceFeed swaps the stored feed with the same URL for the given one,
// appending it if no feed with that URL exists.
func (s *Settings) ReplaceFeed(feed *Feed) {
	for i, f := range s.Feeds {
		if f.URL == feed.URL {
			s.Feeds[i] = feed
			return
		}
	}
	s.Feeds = append(s.Feeds, feed)
}

// RemoveFeed deletes the feed with the given URL, reporting whether it existed.
func (s *Settings) RemoveFeed(url string) bool {
	for i, f := range s.Feeds {
		if f.URL == url {
			s.Feeds = append(s.Feeds[:i], s.Feeds[i+1:]...)
			return true
		}
	}
	return false
}

// AddFolder records a folder name if not already present.
func (s *Settings) AddFolder(name string) {
	if name == "" {
		return
	}
	for _, f := range s.Folders {
		if f == name {
			return
		}
	}
	s.Folders = append(s.Folders, name)
}
