// ABOUTME: Refresh command fetching new items for one feed or all feeds
// ABOUTME: Prints per-feed progress and a summary; failures never abort the batch

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/feedvault/internal/models"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh [url]",
	Short: "Fetch new items",
	Long: `Refresh one feed (by URL) or all feeds. Feeds with their own scan
interval are skipped until it elapses unless --force is given. A feed that
fails keeps its previous items.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		doc, err := settings.Load()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		feeds := doc.Feeds
		if len(args) == 1 {
			feed := doc.FindFeed(args[0])
			if feed == nil {
				return fmt.Errorf("feed not found: %s", args[0])
			}
			feeds = []*models.Feed{feed}
			force = true
		}
		if len(feeds) == 0 {
			fmt.Println("No feeds. Add one with 'feedvault add <url>'.")
			return nil
		}

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()

		results := service.RefreshAll(cmd.Context(), feeds, force)

		totalNew, failures := 0, 0
		for _, r := range results {
			name := r.Feed.DisplayName()
			switch {
			case r.Skipped:
				fmt.Printf("  %s %s\n", faint("skip"), name)
			case r.Err != nil:
				failures++
				fmt.Printf("  %s %s: %v\n", red("fail"), name, r.Err)
			default:
				prior := doc.FindFeed(r.Feed.URL)
				newItems := len(r.Feed.Items)
				if prior != nil {
					newItems -= len(prior.Items)
				}
				if newItems < 0 {
					newItems = 0
				}
				totalNew += newItems
				fmt.Printf("  %s %s (%d new)\n", green("ok"), name, newItems)
				doc.ReplaceFeed(r.Feed)
			}
		}

		if err := settings.Save(doc); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}

		fmt.Printf("\n%d feeds, %d new items", len(results), totalNew)
		if failures > 0 {
			fmt.Printf(", %s", red(fmt.Sprintf("%d failed", failures)))
		}
		fmt.Println()
		return nil
	},
}

func init() {
	refreshCmd.Flags().Bool("force", false, "ignore per-feed scan intervals")
	rootCmd.AddCommand(refreshCmd)
}
