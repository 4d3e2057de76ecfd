// ABOUTME: Tests for MCP server tools and input validation
// ABOUTME: Exercises handlers against a temp settings store and vault

package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/feedvault/internal/models"
	"github.com/harper/feedvault/internal/refresh"
	"github.com/harper/feedvault/internal/store"
	"github.com/harper/feedvault/internal/vault"
)

type stubFetcher struct {
	body string
}

func (f *stubFetcher) FetchFeedXML(_ context.Context, _ string) (string, error) {
	return f.body, nil
}

func setupTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	dir := t.TempDir()
	st := store.New(filepath.Join(dir, "settings.json"))
	fetcher := &stubFetcher{body: `<rss version="2.0"><channel>
<title>Fetched Feed</title><link>https://example.com</link>
<item><title>Post</title><link>https://example.com/post/1</link></item>
</channel></rss>`}
	v := vault.NewDirVault(filepath.Join(dir, "vault"))
	return NewServer(st, refresh.NewService(fetcher), v), st
}

func makeRequest(t *testing.T, input any) mcp.CallToolRequest {
	t.Helper()
	data, err := json.Marshal(input)
	if err != nil {
		t.Fatal(err)
	}
	var args map[string]interface{}
	if err := json.Unmarshal(data, &args); err != nil {
		t.Fatal(err)
	}
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("expected content in result")
	}
	textContent, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return textContent.Text
}

func seedItem(t *testing.T, st *store.Store) {
	t.Helper()
	settings := &models.Settings{Feeds: []*models.Feed{{
		Title:  "Seeded",
		URL:    "https://example.com/feed.xml",
		Folder: "News",
		Items: []models.FeedItem{{
			Title:     "Seeded Post",
			GUID:      "https://example.com/post/1",
			Link:      "https://example.com/post/1",
			FeedTitle: "Seeded",
			Content:   "<p>Body <strong>here</strong></p>",
		}},
	}}}
	if err := st.Save(settings); err != nil {
		t.Fatal(err)
	}
}

func TestHandleAddFeedRejectsBadScheme(t *testing.T) {
	server, _ := setupTestServer(t)
	req := makeRequest(t, AddFeedInput{URL: "ftp://example.com/feed"})
	if _, err := server.handleAddFeed(context.Background(), req); err == nil {
		t.Error("expected error for non-http scheme")
	}
}

func TestHandleAddFeedAndList(t *testing.T) {
	server, _ := setupTestServer(t)
	req := makeRequest(t, AddFeedInput{URL: "https://example.com/feed.xml"})
	result, err := server.handleAddFeed(context.Background(), req)
	if err != nil {
		t.Fatalf("handleAddFeed: %v", err)
	}
	if !strings.Contains(resultText(t, result), "Fetched Feed") {
		t.Error("added feed should carry its fetched title")
	}

	listResult, err := server.handleListFeeds(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleListFeeds: %v", err)
	}
	var output ListFeedsOutput
	if err := json.Unmarshal([]byte(resultText(t, listResult)), &output); err != nil {
		t.Fatal(err)
	}
	if output.Count != 1 || output.Feeds[0].ItemCount != 1 {
		t.Errorf("unexpected list output: %+v", output)
	}
}

func TestHandleAddFeedDuplicate(t *testing.T) {
	server, st := setupTestServer(t)
	seedItem(t, st)
	req := makeRequest(t, AddFeedInput{URL: "https://example.com/feed.xml"})
	if _, err := server.handleAddFeed(context.Background(), req); err == nil {
		t.Error("expected error for duplicate feed")
	}
}

func TestHandleMarkReadPersists(t *testing.T) {
	server, st := setupTestServer(t)
	seedItem(t, st)

	req := makeRequest(t, MarkReadInput{GUID: "https://example.com/post/1"})
	if _, err := server.handleMarkRead(context.Background(), req); err != nil {
		t.Fatalf("handleMarkRead: %v", err)
	}

	settings, err := st.Load()
	if err != nil {
		t.Fatal(err)
	}
	if !settings.Feeds[0].Items[0].Read {
		t.Error("read state must persist through the store")
	}
}

func TestHandleMarkReadUnknownGUID(t *testing.T) {
	server, st := setupTestServer(t)
	seedItem(t, st)
	req := makeRequest(t, MarkReadInput{GUID: "https://example.com/nope"})
	if _, err := server.handleMarkRead(context.Background(), req); err == nil {
		t.Error("expected error for unknown guid")
	}
}

func TestHandleSaveNoteWritesVaultFile(t *testing.T) {
	server, st := setupTestServer(t)
	seedItem(t, st)

	req := makeRequest(t, SaveNoteInput{GUID: "https://example.com/post/1"})
	result, err := server.handleSaveNote(context.Background(), req)
	if err != nil {
		t.Fatalf("handleSaveNote: %v", err)
	}

	var output SaveNoteOutput
	if err := json.Unmarshal([]byte(resultText(t, result)), &output); err != nil {
		t.Fatal(err)
	}
	if output.NotePath != "News/seeded-post.md" {
		t.Errorf("note path = %q", output.NotePath)
	}

	note, err := server.vault.Read(output.NotePath)
	if err != nil {
		t.Fatalf("vault.Read: %v", err)
	}
	if !strings.Contains(note, "title: Seeded Post") || !strings.Contains(note, "**here**") {
		t.Errorf("note content:\n%s", note)
	}

	settings, _ := st.Load()
	item := settings.Feeds[0].Items[0]
	if !item.Saved || item.SavedFilePath != output.NotePath {
		t.Errorf("saved state must persist: %+v", item)
	}
}

func TestHandleGetItemConvertsContent(t *testing.T) {
	server, st := setupTestServer(t)
	seedItem(t, st)

	req := makeRequest(t, GetItemInput{GUID: "https://example.com/post/1"})
	result, err := server.handleGetItem(context.Background(), req)
	if err != nil {
		t.Fatalf("handleGetItem: %v", err)
	}
	var output GetItemOutput
	if err := json.Unmarshal([]byte(resultText(t, result)), &output); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(output.Content, "**here**") {
		t.Errorf("content should be markdown: %q", output.Content)
	}
}

func TestHandleListItemsFilters(t *testing.T) {
	server, st := setupTestServer(t)
	settings := &models.Settings{Feeds: []*models.Feed{{
		URL: "https://example.com/feed.xml",
		Items: []models.FeedItem{
			{Title: "Unread", GUID: "g1"},
			{Title: "Read", GUID: "g2", Read: true},
			{Title: "Starred", GUID: "g3", Read: true, Starred: true},
		},
	}}}
	if err := st.Save(settings); err != nil {
		t.Fatal(err)
	}

	unreadOnly := true
	req := makeRequest(t, ListItemsInput{UnreadOnly: &unreadOnly})
	result, err := server.handleListItems(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	var output ListItemsOutput
	if err := json.Unmarshal([]byte(resultText(t, result)), &output); err != nil {
		t.Fatal(err)
	}
	if output.Count != 1 || output.Items[0].Title != "Unread" {
		t.Errorf("unread filter: %+v", output)
	}

	starred := true
	req = makeRequest(t, ListItemsInput{Starred: &starred})
	result, err = server.handleListItems(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &output); err != nil {
		t.Fatal(err)
	}
	if output.Count != 1 || output.Items[0].Title != "Starred" {
		t.Errorf("starred filter: %+v", output)
	}
}
