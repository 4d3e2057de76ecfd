// ABOUTME: Note composition: feed items rendered as markdown with YAML frontmatter
// ABOUTME: Filenames are slugged titles; collisions gain a numeric suffix

package vault

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/harper/feedvault/internal/content"
	"github.com/harper/feedvault/internal/models"
)

// noteFrontmatter is the YAML header of an archived item note.
type noteFrontmatter struct {
	Title  string   `yaml:"title"`
	Feed   string   `yaml:"feed,omitempty"`
	Link   string   `yaml:"link,omitempty"`
	Date   string   `yaml:"date,omitempty"`
	Author string   `yaml:"author,omitempty"`
	Tags   []string `yaml:"tags,omitempty"`
}

// ComposeNote renders a feed item as a markdown note. The body prefers the
// item's full content over its description, converted to markdown when it is
// HTML.
func ComposeNote(item *models.FeedItem) (string, error) {
	fm := noteFrontmatter{
		Title:  item.Title,
		Feed:   item.FeedTitle,
		Link:   item.Link,
		Date:   item.PubDate,
		Author: item.Author,
	}
	for _, tag := range item.Tags {
		fm.Tags = append(fm.Tags, tag.Name)
	}

	header, err := yaml.Marshal(&fm)
	if err != nil {
		return "", fmt.Errorf("failed to marshal frontmatter: %w", err)
	}

	body := item.Content
	if body == "" {
		body = item.Description
	}
	body = content.ToMarkdown(body)

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString("# " + item.Title + "\n\n")
	if body != "" {
		b.WriteString(body)
		b.WriteString("\n")
	}
	return b.String(), nil
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slug turns a title into a safe filename stem.
func Slug(title string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(title), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "untitled"
	}
	if len(s) > 80 {
		s = strings.Trim(s[:80], "-")
	}
	return s
}

// NotePath picks a vault-relative path for an item's note under folder,
// appending a numeric suffix until the path is free in v.
func NotePath(v Vault, folder string, item *models.FeedItem) string {
	stem := Slug(item.Title)
	base := stem + ".md"
	if folder != "" {
		base = folder + "/" + base
	}
	if !v.Exists(base) {
		return base
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d.md", stem, i)
		if folder != "" {
			candidate = folder + "/" + candidate
		}
		if !v.Exists(candidate) {
			return candidate
		}
	}
}

// SaveItem archives an item into the vault and returns the note path.
func SaveItem(v Vault, folder string, item *models.FeedItem) (string, error) {
	note, err := ComposeNote(item)
	if err != nil {
		return "", err
	}
	path := NotePath(v, folder, item)
	if err := v.Create(path, note); err != nil {
		return "", err
	}
	return path, nil
}
