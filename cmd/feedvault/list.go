// ABOUTME: List commands for feeds and items
// ABOUTME: Items are addressed by guid; unread items are shown bold

package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/feedvault/internal/timeutil"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List subscribed feeds",
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := settings.Load()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		if len(doc.Feeds) == 0 {
			fmt.Println("No feeds. Add one with 'feedvault add <url>'.")
			return nil
		}

		faint := color.New(color.Faint).SprintFunc()
		for _, feed := range doc.Feeds {
			unread := feed.UnreadCount()
			line := fmt.Sprintf("%s (%d/%d unread)", feed.DisplayName(), unread, len(feed.Items))
			if feed.Folder != "" {
				line += faint(" [" + feed.Folder + "]")
			}
			if feed.MediaType != "" && feed.MediaType != "article" {
				line += faint(" " + string(feed.MediaType))
			}
			fmt.Println(line)
			fmt.Println(faint("  " + feed.URL))
		}
		return nil
	},
}

var itemsCmd = &cobra.Command{
	Use:   "items [feed-url]",
	Short: "List items, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		unreadOnly, _ := cmd.Flags().GetBool("unread")
		starredOnly, _ := cmd.Flags().GetBool("starred")
		limit, _ := cmd.Flags().GetInt("limit")
		since, _ := cmd.Flags().GetString("since")

		var cutoff time.Time
		if since != "" {
			c, ok := timeutil.ParsePeriod(since)
			if !ok {
				return fmt.Errorf("invalid period %q (use today, yesterday, week, or month)", since)
			}
			cutoff = c
		}

		doc, err := settings.Load()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		bold := color.New(color.Bold).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()

		shown := 0
		for _, feed := range doc.Feeds {
			if len(args) == 1 && feed.URL != args[0] {
				continue
			}
			for i := len(feed.Items) - 1; i >= 0; i-- {
				item := &feed.Items[i]
				if unreadOnly && item.Read {
					continue
				}
				if starredOnly && !item.Starred {
					continue
				}
				if !cutoff.IsZero() {
					pub := timeutil.PubDateOrZero(item.PubDate)
					if pub.IsZero() || pub.Before(cutoff) {
						continue
					}
				}
				title := item.Title
				if !item.Read {
					title = bold(title)
				}
				marker := " "
				if item.Starred {
					marker = yellow("*")
				}
				fmt.Printf("%s %s %s\n", marker, title, faint(item.FeedTitle))
				fmt.Println(faint("   " + item.GUID))
				shown++
				if limit > 0 && shown >= limit {
					return nil
				}
			}
		}
		if shown == 0 {
			fmt.Println("No items.")
		}
		return nil
	},
}

func init() {
	itemsCmd.Flags().Bool("unread", false, "only unread items")
	itemsCmd.Flags().Bool("starred", false, "only starred items")
	itemsCmd.Flags().Int("limit", 0, "maximum items to show")
	itemsCmd.Flags().String("since", "", "only items published since a period: today, yesterday, week, month")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(itemsCmd)
}
