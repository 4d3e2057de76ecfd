// ABOUTME: Add command for subscribing to a feed
// ABOUTME: Fetches and parses immediately so a bad URL fails at add time

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Subscribe to a feed",
	Long: `Subscribe to an RSS, Atom, or JSON feed. The feed is fetched and
parsed immediately; if the URL does not serve a valid feed directly, the
fetch fallbacks (alternate paths, auto-discovery, mirrors) are tried before
giving up.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := args[0]
		title, _ := cmd.Flags().GetString("title")
		folder, _ := cmd.Flags().GetString("folder")

		doc, err := settings.Load()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		if doc.FindFeed(url) != nil {
			return fmt.Errorf("feed already exists: %s", url)
		}

		feed, err := service.ParseFeed(cmd.Context(), url, nil)
		if err != nil {
			return fmt.Errorf("failed to add feed: %w", err)
		}
		if title != "" {
			feed.Title = title
		}
		if folder != "" {
			feed.Folder = folder
			doc.AddFolder(folder)
		}

		doc.ReplaceFeed(feed)
		if err := settings.Save(doc); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}

		color.Green("Added %s", feed.DisplayName())
		fmt.Printf("  %d items", len(feed.Items))
		if feed.MediaType != "" {
			fmt.Printf(" (%s)", feed.MediaType)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	addCmd.Flags().String("title", "", "override the feed's own title")
	addCmd.Flags().String("folder", "", "folder for the feed")
	rootCmd.AddCommand(addCmd)
}
