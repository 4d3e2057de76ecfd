// ABOUTME: Read command for viewing item content
// ABOUTME: Renders markdown in the terminal and marks the item as read

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/feedvault/internal/content"
	"github.com/harper/feedvault/internal/models"
)

// findItemByGUID matches a full guid first, then a unique suffix so users
// can paste the trailing path segment of an item URL.
func findItemByGUID(doc *models.Settings, ref string) (*models.Feed, *models.FeedItem, error) {
	for _, feed := range doc.Feeds {
		for i := range feed.Items {
			if feed.Items[i].GUID == ref {
				return feed, &feed.Items[i], nil
			}
		}
	}

	var foundFeed *models.Feed
	var found *models.FeedItem
	for _, feed := range doc.Feeds {
		for i := range feed.Items {
			if strings.HasSuffix(feed.Items[i].GUID, ref) {
				if found != nil {
					return nil, nil, fmt.Errorf("ambiguous item reference: %s", ref)
				}
				foundFeed, found = feed, &feed.Items[i]
			}
		}
	}
	if found == nil {
		return nil, nil, fmt.Errorf("item not found: %s", ref)
	}
	return foundFeed, found, nil
}

var readCmd = &cobra.Command{
	Use:   "read <guid>",
	Short: "Read an item",
	Long:  "Display the full content of an item and mark it as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noMark, _ := cmd.Flags().GetBool("no-mark")

		doc, err := settings.Load()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		_, item, err := findItemByGUID(doc, args[0])
		if err != nil {
			return err
		}

		bold := color.New(color.Bold).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		fmt.Println(strings.Repeat("─", 60))
		fmt.Printf("%s\n\n", bold(item.Title))
		if item.FeedTitle != "" {
			fmt.Printf("%s %s\n", faint("Feed:"), item.FeedTitle)
		}
		if item.Author != "" {
			fmt.Printf("%s %s\n", faint("Author:"), item.Author)
		}
		if item.PubDate != "" {
			fmt.Printf("%s %s\n", faint("Date:"), item.PubDate)
		}
		if item.Link != "" {
			fmt.Printf("%s %s\n", faint("Link:"), cyan(item.Link))
		}
		if item.AudioURL != "" {
			fmt.Printf("%s %s\n", faint("Audio:"), cyan(item.AudioURL))
		}
		fmt.Println(strings.Repeat("─", 60))

		body := item.Content
		if body == "" {
			body = item.Description
		}
		markdown := content.ToMarkdown(body)

		rendered, err := glamour.Render(markdown, "dark")
		if err != nil {
			// Fall back to raw markdown if rendering fails
			fmt.Println(markdown)
		} else {
			fmt.Print(rendered)
		}

		if !noMark && !item.Read {
			item.MarkRead()
			if err := settings.Save(doc); err != nil {
				return fmt.Errorf("failed to save settings: %w", err)
			}
		}
		return nil
	},
}

func init() {
	readCmd.Flags().Bool("no-mark", false, "do not mark the item as read")
	rootCmd.AddCommand(readCmd)
}
