// ABOUTME: Test suite for the note vault and note composition
// ABOUTME: Covers CRUD, path safety, slugging, and frontmatter rendering

package vault

import (
	"strings"
	"testing"

	"github.com/harper/feedvault/internal/models"
)

func TestDirVaultCRUD(t *testing.T) {
	v := NewDirVault(t.TempDir())

	if err := v.Create("News/post.md", "# hello"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !v.Exists("News/post.md") {
		t.Fatal("note should exist after Create")
	}

	got, err := v.Read("News/post.md")
	if err != nil || got != "# hello" {
		t.Fatalf("Read() = %q, %v", got, err)
	}

	if err := v.Rename("News/post.md", "Archive/post.md"); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if v.Exists("News/post.md") || !v.Exists("Archive/post.md") {
		t.Fatal("rename should move the note")
	}

	if err := v.Delete("Archive/post.md"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if v.Exists("Archive/post.md") {
		t.Fatal("note should be gone after Delete")
	}
}

func TestDirVaultRejectsEscapingPaths(t *testing.T) {
	v := NewDirVault(t.TempDir())
	if err := v.Create("../outside.md", "x"); err == nil {
		t.Error("path traversal must be rejected")
	}
	if err := v.Create("/etc/absolute.md", "x"); err == nil {
		t.Error("absolute paths must be rejected")
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello-world"},
		{"  spaces  everywhere  ", "spaces-everywhere"},
		{"///", "untitled"},
		{"Ünïcode Tïtle", "n-code-t-tle"},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestComposeNote(t *testing.T) {
	item := &models.FeedItem{
		Title:     "Big News",
		Link:      "https://example.com/big",
		FeedTitle: "Example Feed",
		PubDate:   "Mon, 02 Jan 2006 15:04:05 MST",
		Content:   "<p>Something <strong>happened</strong></p>",
		Tags:      []models.Tag{{ID: "1", Name: "news"}},
	}
	note, err := ComposeNote(item)
	if err != nil {
		t.Fatalf("ComposeNote() error = %v", err)
	}

	if !strings.HasPrefix(note, "---\n") {
		t.Error("note must open with frontmatter")
	}
	for _, want := range []string{"title: Big News", "feed: Example Feed", "- news", "# Big News", "**happened**"} {
		if !strings.Contains(note, want) {
			t.Errorf("note missing %q:\n%s", want, note)
		}
	}
}

func TestSaveItemCollisionSuffix(t *testing.T) {
	v := NewDirVault(t.TempDir())
	item := &models.FeedItem{Title: "Same Title", Content: "one"}

	first, err := SaveItem(v, "Clips", item)
	if err != nil {
		t.Fatalf("SaveItem() error = %v", err)
	}
	second, err := SaveItem(v, "Clips", item)
	if err != nil {
		t.Fatalf("SaveItem() error = %v", err)
	}

	if first != "Clips/same-title.md" {
		t.Errorf("first path = %q", first)
	}
	if second != "Clips/same-title-2.md" {
		t.Errorf("second path = %q", second)
	}
}
