// ABOUTME: OPML import and export commands
// ABOUTME: Import runs through the paced queue with progress; export groups by folder

package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/feedvault/internal/models"
	"github.com/harper/feedvault/internal/opml"
	"github.com/harper/feedvault/internal/refresh"
)

var importCmd = &cobra.Command{
	Use:   "import <file.opml>",
	Short: "Import subscriptions from OPML",
	Long: `Import an OPML subscription list. Feeds are fetched one at a time
with a pause between them; progress is saved every few feeds, so an
interrupted import keeps what it finished. Already-subscribed URLs are
skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := opml.ParseFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to parse OPML: %w", err)
		}

		current, err := settings.Load()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		var pending []models.FeedMeta
		skipped := 0
		for _, meta := range doc.Subscriptions() {
			if current.FindFeed(meta.URL) != nil {
				skipped++
				continue
			}
			pending = append(pending, meta)
		}
		if len(pending) == 0 {
			fmt.Printf("Nothing to import (%d already subscribed).\n", skipped)
			return nil
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("Importing %d feeds", len(pending))
		if skipped > 0 {
			fmt.Printf(" (%d already subscribed)", skipped)
		}
		fmt.Println()

		for _, folder := range doc.Folders() {
			current.AddFolder(folder)
		}

		queue := refresh.NewQueue(service, time.Duration(cfg.GetImportDelay())*time.Second)
		queue.Enqueue(pending)
		queue.Checkpoint = func(feeds []*models.Feed) error {
			for _, feed := range feeds {
				current.ReplaceFeed(feed)
				current.AddFolder(feed.Folder)
			}
			return settings.Save(current)
		}

		imported := queue.Drain(cmd.Context())
		for _, feed := range imported {
			fmt.Printf("  %s %s (%d items)\n", green("ok"), feed.DisplayName(), len(feed.Items))
		}

		failures := 0
		for _, task := range queue.Tasks() {
			if task.State == refresh.TaskFailed {
				failures++
				color.Red("  fail %s: %v", task.Meta.URL, task.Err)
			}
		}

		fmt.Printf("\nImported %d feeds", len(imported))
		if failures > 0 {
			fmt.Printf(", %d failed", failures)
		}
		fmt.Println()
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file.opml>",
	Short: "Export subscriptions to OPML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := settings.Load()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		doc := opml.FromSettings("feedvault subscriptions", current)
		if err := doc.WriteFile(args[0]); err != nil {
			return fmt.Errorf("failed to write OPML: %w", err)
		}

		color.Green("Exported %d feeds to %s", len(current.Feeds), args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}
