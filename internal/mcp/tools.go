// ABOUTME: MCP tool definitions and handlers for feed, item, and note operations
// ABOUTME: Tools load settings, apply one change, and save through the single store

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/feedvault/internal/content"
	"github.com/harper/feedvault/internal/models"
	"github.com/harper/feedvault/internal/vault"
)

// Type definitions for input/output structures

type FeedOutput struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Folder      string `json:"folder,omitempty"`
	MediaType   string `json:"media_type,omitempty"`
	ItemCount   int    `json:"item_count"`
	UnreadCount int    `json:"unread_count"`
}

type ListFeedsOutput struct {
	Feeds   []FeedOutput `json:"feeds"`
	Count   int          `json:"count"`
	Folders []string     `json:"folders"`
}

type AddFeedInput struct {
	URL    string  `json:"url"`
	Title  *string `json:"title,omitempty"`
	Folder *string `json:"folder,omitempty"`
}

type RemoveFeedInput struct {
	URL string `json:"url"`
}

type RemoveFeedOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	URL     string `json:"url"`
}

type MoveFeedInput struct {
	URL    string `json:"url"`
	Folder string `json:"folder"`
}

type MoveFeedOutput struct {
	Success   bool   `json:"success"`
	URL       string `json:"url"`
	OldFolder string `json:"old_folder"`
	NewFolder string `json:"new_folder"`
}

type RefreshFeedsInput struct {
	URL   *string `json:"url,omitempty"`
	Force *bool   `json:"force,omitempty"`
}

type RefreshResult struct {
	FeedURL   string  `json:"feed_url"`
	FeedTitle string  `json:"feed_title"`
	NewItems  int     `json:"new_items"`
	Skipped   bool    `json:"skipped"`
	Error     *string `json:"error,omitempty"`
}

type RefreshFeedsOutput struct {
	Results     []RefreshResult `json:"results"`
	TotalFeeds  int             `json:"total_feeds"`
	TotalNew    int             `json:"total_new"`
	TotalErrors int             `json:"total_errors"`
}

type ListItemsInput struct {
	FeedURL    *string `json:"feed_url,omitempty"`
	UnreadOnly *bool   `json:"unread_only,omitempty"`
	Starred    *bool   `json:"starred,omitempty"`
	Limit      *int    `json:"limit,omitempty"`
}

type ItemOutput struct {
	GUID      string `json:"guid"`
	Title     string `json:"title"`
	Link      string `json:"link,omitempty"`
	FeedTitle string `json:"feed_title,omitempty"`
	FeedURL   string `json:"feed_url,omitempty"`
	PubDate   string `json:"pub_date,omitempty"`
	MediaType string `json:"media_type,omitempty"`
	Summary   string `json:"summary,omitempty"`
	Read      bool   `json:"read"`
	Starred   bool   `json:"starred"`
	Saved     bool   `json:"saved"`
}

type ListItemsOutput struct {
	Items []ItemOutput `json:"items"`
	Count int          `json:"count"`
}

type GetItemInput struct {
	GUID string `json:"guid"`
}

type GetItemOutput struct {
	ItemOutput
	Author   string `json:"author,omitempty"`
	Content  string `json:"content,omitempty"`
	AudioURL string `json:"audio_url,omitempty"`
	VideoID  string `json:"video_id,omitempty"`
	Duration string `json:"duration,omitempty"`
}

type MarkReadInput struct {
	GUID string `json:"guid"`
}

type MarkUnreadInput struct {
	GUID string `json:"guid"`
}

type StarItemInput struct {
	GUID string `json:"guid"`
}

type StarItemOutput struct {
	GUID    string `json:"guid"`
	Starred bool   `json:"starred"`
}

type SaveNoteInput struct {
	GUID   string  `json:"guid"`
	Folder *string `json:"folder,omitempty"`
}

type SaveNoteOutput struct {
	GUID     string `json:"guid"`
	NotePath string `json:"note_path"`
}

// Tool registration

func (s *Server) registerTools() {
	s.registerListFeedsTool()
	s.registerAddFeedTool()
	s.registerRemoveFeedTool()
	s.registerMoveFeedTool()
	s.registerRefreshFeedsTool()
	s.registerListItemsTool()
	s.registerGetItemTool()
	s.registerMarkReadTool()
	s.registerMarkUnreadTool()
	s.registerStarItemTool()
	s.registerSaveNoteTool()
}

func (s *Server) registerListFeedsTool() {
	tool := mcp.Tool{
		Name:        "list_feeds",
		Description: "Retrieve all subscribed feeds with their metadata: URL, title, folder, media type (article/video/podcast), and item/unread counts. Use this to see all subscriptions before performing other operations.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
	s.mcpServer.AddTool(tool, s.handleListFeeds)
}

func (s *Server) registerAddFeedTool() {
	tool := mcp.Tool{
		Name:        "add_feed",
		Description: "Subscribe to a new RSS/Atom/JSON feed. The feed is fetched and parsed immediately; the resolved title is used unless a title is given. Optionally place it in a folder.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"url": map[string]interface{}{
					"type":        "string",
					"description": "The feed URL. Example: 'https://example.com/feed.xml'",
				},
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Optional feed title overriding the one in the feed metadata.",
				},
				"folder": map[string]interface{}{
					"type":        "string",
					"description": "Optional folder for organization. Example: 'Tech Blogs'",
				},
			},
			Required: []string{"url"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleAddFeed)
}

func (s *Server) registerRemoveFeedTool() {
	tool := mcp.Tool{
		Name:        "remove_feed",
		Description: "Unsubscribe from a feed. All of its items, including read/starred state, are removed from the settings store. Saved notes in the vault are kept. This action cannot be undone.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"url": map[string]interface{}{
					"type":        "string",
					"description": "The feed URL to remove. Must match exactly.",
				},
			},
			Required: []string{"url"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleRemoveFeed)
}

func (s *Server) registerMoveFeedTool() {
	tool := mcp.Tool{
		Name:        "move_feed",
		Description: "Move a feed to a different folder. The folder is created if it does not exist. Use an empty string to move the feed to the root level.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"url": map[string]interface{}{
					"type":        "string",
					"description": "The feed URL to move. Must match exactly.",
				},
				"folder": map[string]interface{}{
					"type":        "string",
					"description": "Target folder name, or '' for root level.",
				},
			},
			Required: []string{"url", "folder"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleMoveFeed)
}

func (s *Server) registerRefreshFeedsTool() {
	tool := mcp.Tool{
		Name:        "refresh_feeds",
		Description: "Fetch new items. If url is provided, refreshes only that feed. Otherwise refreshes all feeds, honoring each feed's scan interval unless force=true. A failing feed keeps its previous items; the batch always completes.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"url": map[string]interface{}{
					"type":        "string",
					"description": "Optional feed URL to refresh only that feed.",
				},
				"force": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, ignores per-feed scan intervals. Default: false",
				},
			},
		},
	}
	s.mcpServer.AddTool(tool, s.handleRefreshFeeds)
}

func (s *Server) registerListItemsTool() {
	tool := mcp.Tool{
		Name:        "list_items",
		Description: "List feed items, newest first, with optional filters: feed_url for one feed, unread_only, starred, and limit. Use get_item to read full content.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"feed_url": map[string]interface{}{
					"type":        "string",
					"description": "Optional feed URL to list only that feed's items.",
				},
				"unread_only": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, returns only unread items.",
				},
				"starred": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, returns only starred items.",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of items to return.",
				},
			},
		},
	}
	s.mcpServer.AddTool(tool, s.handleListItems)
}

func (s *Server) registerGetItemTool() {
	tool := mcp.Tool{
		Name:        "get_item",
		Description: "Get one item's full details including its content, converted from HTML to Markdown for readability. Items are addressed by guid as returned from list_items.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"guid": map[string]interface{}{
					"type":        "string",
					"description": "The item guid from list_items.",
				},
			},
			Required: []string{"guid"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleGetItem)
}

func (s *Server) registerMarkReadTool() {
	tool := mcp.Tool{
		Name:        "mark_read",
		Description: "Mark an item as read. Read state survives refreshes.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"guid": map[string]interface{}{
					"type":        "string",
					"description": "The item guid.",
				},
			},
			Required: []string{"guid"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleMarkRead)
}

func (s *Server) registerMarkUnreadTool() {
	tool := mcp.Tool{
		Name:        "mark_unread",
		Description: "Mark an item as unread.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"guid": map[string]interface{}{
					"type":        "string",
					"description": "The item guid.",
				},
			},
			Required: []string{"guid"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleMarkUnread)
}

func (s *Server) registerStarItemTool() {
	tool := mcp.Tool{
		Name:        "star_item",
		Description: "Toggle an item's starred flag and return the new value.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"guid": map[string]interface{}{
					"type":        "string",
					"description": "The item guid.",
				},
			},
			Required: []string{"guid"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleStarItem)
}

func (s *Server) registerSaveNoteTool() {
	tool := mcp.Tool{
		Name:        "save_note",
		Description: "Archive an item into the note vault as a markdown file with YAML frontmatter. Returns the vault-relative note path. The item is marked as saved.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"guid": map[string]interface{}{
					"type":        "string",
					"description": "The item guid.",
				},
				"folder": map[string]interface{}{
					"type":        "string",
					"description": "Optional vault folder for the note. Defaults to the feed's folder, or the vault root.",
				},
			},
			Required: []string{"guid"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleSaveNote)
}

// Handlers

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

const summaryLimit = 200

// itemSummary produces a one-line plain-text summary for list output.
func itemSummary(item *models.FeedItem) string {
	s := item.Summary
	if s == "" {
		s = content.Plain(item.Description)
	}
	if len(s) > summaryLimit {
		cut := summaryLimit
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "…"
	}
	return s
}

// findItem locates an item by guid across all feeds.
func findItem(settings *models.Settings, guid string) (*models.Feed, *models.FeedItem) {
	for _, feed := range settings.Feeds {
		for i := range feed.Items {
			if feed.Items[i].GUID == guid {
				return feed, &feed.Items[i]
			}
		}
	}
	return nil, nil
}

func (s *Server) handleListFeeds(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	settings, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	feeds := make([]FeedOutput, 0, len(settings.Feeds))
	for _, feed := range settings.Feeds {
		feeds = append(feeds, FeedOutput{
			Title:       feed.DisplayName(),
			URL:         feed.URL,
			Folder:      feed.Folder,
			MediaType:   string(feed.MediaType),
			ItemCount:   len(feed.Items),
			UnreadCount: feed.UnreadCount(),
		})
	}

	return jsonResult(ListFeedsOutput{
		Feeds:   feeds,
		Count:   len(feeds),
		Folders: settings.Folders,
	})
}

func (s *Server) handleAddFeed(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input AddFeedInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	parsedURL, err := url.Parse(input.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid feed URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("feed URL must use http or https scheme, got: %s", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return nil, fmt.Errorf("feed URL must have a host")
	}

	settings, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if settings.FindFeed(input.URL) != nil {
		return nil, fmt.Errorf("feed already exists: %s", input.URL)
	}

	feed, err := s.service.ParseFeed(ctx, input.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to add feed: %w", err)
	}
	if input.Title != nil && *input.Title != "" {
		feed.Title = *input.Title
	}
	if input.Folder != nil {
		feed.Folder = *input.Folder
		settings.AddFolder(*input.Folder)
	}

	settings.ReplaceFeed(feed)
	if err := s.store.Save(settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	return jsonResult(FeedOutput{
		Title:       feed.DisplayName(),
		URL:         feed.URL,
		Folder:      feed.Folder,
		MediaType:   string(feed.MediaType),
		ItemCount:   len(feed.Items),
		UnreadCount: feed.UnreadCount(),
	})
}

func (s *Server) handleRemoveFeed(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input RemoveFeedInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	settings, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if !settings.RemoveFeed(input.URL) {
		return nil, fmt.Errorf("feed not found: %s", input.URL)
	}
	if err := s.store.Save(settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	return jsonResult(RemoveFeedOutput{
		Success: true,
		Message: "feed removed",
		URL:     input.URL,
	})
}

func (s *Server) handleMoveFeed(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input MoveFeedInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	settings, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	feed := settings.FindFeed(input.URL)
	if feed == nil {
		return nil, fmt.Errorf("feed not found: %s", input.URL)
	}

	oldFolder := feed.Folder
	feed.Folder = input.Folder
	settings.AddFolder(input.Folder)
	if err := s.store.Save(settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	return jsonResult(MoveFeedOutput{
		Success:   true,
		URL:       input.URL,
		OldFolder: oldFolder,
		NewFolder: input.Folder,
	})
}

func (s *Server) handleRefreshFeeds(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input RefreshFeedsInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	settings, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	feeds := settings.Feeds
	if input.URL != nil && *input.URL != "" {
		feed := settings.FindFeed(*input.URL)
		if feed == nil {
			return nil, fmt.Errorf("feed not found: %s", *input.URL)
		}
		feeds = []*models.Feed{feed}
	}
	force := input.Force != nil && *input.Force
	if input.URL != nil {
		// An explicit single-feed refresh is always intentional.
		force = true
	}

	results := s.service.RefreshAll(ctx, feeds, force)

	output := RefreshFeedsOutput{TotalFeeds: len(results)}
	for _, r := range results {
		prior := settings.FindFeed(r.Feed.URL)
		priorCount := 0
		if prior != nil {
			priorCount = len(prior.Items)
		}

		entry := RefreshResult{
			FeedURL:   r.Feed.URL,
			FeedTitle: r.Feed.DisplayName(),
			Skipped:   r.Skipped,
		}
		if r.Err != nil {
			msg := r.Err.Error()
			entry.Error = &msg
			output.TotalErrors++
		} else if !r.Skipped {
			if n := len(r.Feed.Items) - priorCount; n > 0 {
				entry.NewItems = n
				output.TotalNew += n
			}
			settings.ReplaceFeed(r.Feed)
		}
		output.Results = append(output.Results, entry)
	}

	if err := s.store.Save(settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	return jsonResult(output)
}

func (s *Server) handleListItems(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ListItemsInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	settings, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	limit := 0
	if input.Limit != nil && *input.Limit > 0 {
		limit = *input.Limit
	}

	var items []ItemOutput
	for _, feed := range settings.Feeds {
		if limit > 0 && len(items) >= limit {
			break
		}
		if input.FeedURL != nil && *input.FeedURL != feed.URL {
			continue
		}
		// Merge appends fresh items last; walk backwards for newest first.
		for i := len(feed.Items) - 1; i >= 0; i-- {
			item := &feed.Items[i]
			if input.UnreadOnly != nil && *input.UnreadOnly && item.Read {
				continue
			}
			if input.Starred != nil && *input.Starred && !item.Starred {
				continue
			}
			items = append(items, ItemOutput{
				GUID:      item.GUID,
				Title:     item.Title,
				Link:      item.Link,
				FeedTitle: item.FeedTitle,
				FeedURL:   feed.URL,
				PubDate:   item.PubDate,
				MediaType: string(item.MediaType),
				Summary:   itemSummary(item),
				Read:      item.Read,
				Starred:   item.Starred,
				Saved:     item.Saved,
			})
			if limit > 0 && len(items) >= limit {
				break
			}
		}
	}

	return jsonResult(ListItemsOutput{Items: items, Count: len(items)})
}

func (s *Server) handleGetItem(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input GetItemInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	settings, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	feed, item := findItem(settings, input.GUID)
	if item == nil {
		return nil, fmt.Errorf("item not found: %s", input.GUID)
	}

	body := item.Content
	if body == "" {
		body = item.Description
	}

	return jsonResult(GetItemOutput{
		ItemOutput: ItemOutput{
			GUID:      item.GUID,
			Title:     item.Title,
			Link:      item.Link,
			FeedTitle: item.FeedTitle,
			FeedURL:   feed.URL,
			PubDate:   item.PubDate,
			MediaType: string(item.MediaType),
			Summary:   itemSummary(item),
			Read:      item.Read,
			Starred:   item.Starred,
			Saved:     item.Saved,
		},
		Author:   item.Author,
		Content:  content.ToMarkdown(body),
		AudioURL: item.AudioURL,
		VideoID:  item.VideoID,
		Duration: item.Duration,
	})
}

func (s *Server) setRead(guid string, read bool) (*mcp.CallToolResult, error) {
	settings, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	_, item := findItem(settings, guid)
	if item == nil {
		return nil, fmt.Errorf("item not found: %s", guid)
	}
	if read {
		item.MarkRead()
	} else {
		item.MarkUnread()
	}
	if err := s.store.Save(settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	return jsonResult(map[string]any{"guid": guid, "read": read})
}

func (s *Server) handleMarkRead(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input MarkReadInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	return s.setRead(input.GUID, true)
}

func (s *Server) handleMarkUnread(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input MarkUnreadInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	return s.setRead(input.GUID, false)
}

func (s *Server) handleStarItem(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input StarItemInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	settings, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	_, item := findItem(settings, input.GUID)
	if item == nil {
		return nil, fmt.Errorf("item not found: %s", input.GUID)
	}
	starred := item.ToggleStar()
	if err := s.store.Save(settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	return jsonResult(StarItemOutput{GUID: input.GUID, Starred: starred})
}

func (s *Server) handleSaveNote(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input SaveNoteInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	settings, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	feed, item := findItem(settings, input.GUID)
	if item == nil {
		return nil, fmt.Errorf("item not found: %s", input.GUID)
	}

	folder := feed.Folder
	if input.Folder != nil {
		folder = *input.Folder
	}

	path, err := vault.SaveItem(s.vault, folder, item)
	if err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}
	item.Saved = true
	item.SavedFilePath = path
	if err := s.store.Save(settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	return jsonResult(SaveNoteOutput{GUID: input.GUID, NotePath: path})
}
