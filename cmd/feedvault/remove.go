// ABOUTME: Remove and folder commands for managing subscriptions
// ABOUTME: Removal drops all item state; saved notes in the vault are kept

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <url>",
	Short: "Unsubscribe from a feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := settings.Load()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		if !doc.RemoveFeed(args[0]) {
			return fmt.Errorf("feed not found: %s", args[0])
		}
		if err := settings.Save(doc); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		color.Green("Removed %s", args[0])
		return nil
	},
}

var folderCmd = &cobra.Command{
	Use:   "folder <url> [folder]",
	Short: "Move a feed to a folder",
	Long:  "Move a feed to a folder. Omit the folder to move the feed to the root level.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := settings.Load()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		feed := doc.FindFeed(args[0])
		if feed == nil {
			return fmt.Errorf("feed not found: %s", args[0])
		}

		folder := ""
		if len(args) == 2 {
			folder = args[1]
		}
		feed.Folder = folder
		doc.AddFolder(folder)
		if err := settings.Save(doc); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}

		if folder == "" {
			fmt.Printf("Moved %s to root\n", feed.DisplayName())
		} else {
			fmt.Printf("Moved %s to %s\n", feed.DisplayName(), folder)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(folderCmd)
}
