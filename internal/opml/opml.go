// ABOUTME: OPML import/export for feed subscriptions with per-feed retention attributes
// ABOUTME: Folder groups become outline nesting; custom attrs round-trip through export

package opml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/harper/feedvault/internal/models"
)

// Document is a parsed OPML subscription list.
type Document struct {
	Title    string
	Outlines []Outline
}

// Outline is one node of the OPML tree: a folder (Children) or a feed
// subscription (XMLURL plus the optional per-feed attributes).
type Outline struct {
	Text               string
	Title              string
	Type               string
	XMLURL             string
	MediaType          string
	AutoDeleteDuration int
	MaxItemsLimit      int
	ScanInterval       int
	Children           []Outline
}

type opmlXML struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    headXML  `xml:"head"`
	Body    bodyXML  `xml:"body"`
}

type headXML struct {
	Title string `xml:"title"`
}

type bodyXML struct {
	Outlines []outlineXML `xml:"outline"`
}

type outlineXML struct {
	Text               string       `xml:"text,attr"`
	Title              string       `xml:"title,attr,omitempty"`
	Type               string       `xml:"type,attr,omitempty"`
	XMLURL             string       `xml:"xmlUrl,attr,omitempty"`
	MediaType          string       `xml:"mediaType,attr,omitempty"`
	AutoDeleteDuration string       `xml:"autoDeleteDuration,attr,omitempty"`
	MaxItemsLimit      string       `xml:"maxItemsLimit,attr,omitempty"`
	ScanInterval       string       `xml:"scanInterval,attr,omitempty"`
	Children           []outlineXML `xml:"outline,omitempty"`
}

// Parse reads OPML data from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	var raw opmlXML
	if err := xml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode OPML: %w", err)
	}

	doc := &Document{
		Title:    raw.Head.Title,
		Outlines: make([]Outline, len(raw.Body.Outlines)),
	}
	for i, outline := range raw.Body.Outlines {
		doc.Outlines[i] = outlineFromXML(outline)
	}
	return doc, nil
}

// ParseFile reads OPML data from a file.
func ParseFile(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Subscriptions flattens the outline tree into feed metadata records. Feeds
// nested under a folder outline carry that folder's name.
func (d *Document) Subscriptions() []models.FeedMeta {
	metas := make([]models.FeedMeta, 0, len(d.Outlines))
	for _, outline := range d.Outlines {
		metas = append(metas, collectSubscriptions(outline, "")...)
	}
	return metas
}

// Folders returns the folder names in outline order.
func (d *Document) Folders() []string {
	var folders []string
	for _, outline := range d.Outlines {
		if outline.XMLURL == "" && outline.Text != "" {
			folders = append(folders, outline.Text)
		}
	}
	return folders
}

// FromSettings builds an exportable document from the stored subscriptions,
// grouping feeds by folder and carrying retention attributes.
func FromSettings(title string, settings *models.Settings) *Document {
	doc := &Document{Title: title}
	folderIndex := make(map[string]int)

	for _, feed := range settings.Feeds {
		outline := feedOutline(feed)
		if feed.Folder == "" {
			doc.Outlines = append(doc.Outlines, outline)
			continue
		}
		i, ok := folderIndex[feed.Folder]
		if !ok {
			doc.Outlines = append(doc.Outlines, Outline{Text: feed.Folder, Title: feed.Folder})
			i = len(doc.Outlines) - 1
			folderIndex[feed.Folder] = i
		}
		doc.Outlines[i].Children = append(doc.Outlines[i].Children, outline)
	}
	return doc
}

// Write serializes the document as OPML 2.0.
func (d *Document) Write(w io.Writer) error {
	raw := opmlXML{
		Version: "2.0",
		Head:    headXML{Title: d.Title},
		Body:    bodyXML{Outlines: make([]outlineXML, len(d.Outlines))},
	}
	for i, outline := range d.Outlines {
		raw.Body.Outlines[i] = outlineToXML(outline)
	}

	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return fmt.Errorf("failed to write XML header: %w", err)
	}
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(raw); err != nil {
		return fmt.Errorf("failed to encode OPML: %w", err)
	}
	return nil
}

// WriteFile writes the document to a file, creating parent directories.
func (d *Document) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return d.Write(file)
}

func collectSubscriptions(outline Outline, folder string) []models.FeedMeta {
	var metas []models.FeedMeta

	if outline.XMLURL != "" {
		metas = append(metas, models.FeedMeta{
			Title:              outlineTitle(outline),
			URL:                outline.XMLURL,
			Folder:             folder,
			MediaType:          models.MediaType(outline.MediaType),
			AutoDeleteDuration: outline.AutoDeleteDuration,
			MaxItemsLimit:      outline.MaxItemsLimit,
			ScanInterval:       outline.ScanInterval,
		})
	}

	childFolder := folder
	if outline.XMLURL == "" && outline.Text != "" {
		childFolder = outline.Text
	}
	for _, child := range outline.Children {
		metas = append(metas, collectSubscriptions(child, childFolder)...)
	}
	return metas
}

func feedOutline(feed *models.Feed) Outline {
	return Outline{
		Text:               feed.DisplayName(),
		Title:              feed.DisplayName(),
		Type:               "rss",
		XMLURL:             feed.URL,
		MediaType:          string(feed.MediaType),
		AutoDeleteDuration: feed.AutoDeleteDuration,
		MaxItemsLimit:      feed.MaxItemsLimit,
		ScanInterval:       feed.ScanInterval,
	}
}

func outlineTitle(outline Outline) string {
	if outline.Title != "" {
		return outline.Title
	}
	return outline.Text
}

func outlineFromXML(x outlineXML) Outline {
	o := Outline{
		Text:               x.Text,
		Title:              x.Title,
		Type:               x.Type,
		XMLURL:             x.XMLURL,
		MediaType:          x.MediaType,
		AutoDeleteDuration: atoiOrZero(x.AutoDeleteDuration),
		MaxItemsLimit:      atoiOrZero(x.MaxItemsLimit),
		ScanInterval:       atoiOrZero(x.ScanInterval),
		Children:           make([]Outline, len(x.Children)),
	}
	for i, child := range x.Children {
		o.Children[i] = outlineFromXML(child)
	}
	return o
}

func outlineToXML(o Outline) outlineXML {
	x := outlineXML{
		Text:               o.Text,
		Title:              o.Title,
		Type:               o.Type,
		XMLURL:             o.XMLURL,
		MediaType:          o.MediaType,
		AutoDeleteDuration: itoaOrEmpty(o.AutoDeleteDuration),
		MaxItemsLimit:      itoaOrEmpty(o.MaxItemsLimit),
		ScanInterval:       itoaOrEmpty(o.ScanInterval),
		Children:           make([]outlineXML, len(o.Children)),
	}
	for i, child := range o.Children {
		x.Children[i] = outlineToXML(child)
	}
	return x
}

// atoiOrZero tolerates malformed numeric attributes rather than failing the
// whole import.
func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func itoaOrEmpty(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}
