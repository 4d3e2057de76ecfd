// ABOUTME: Save command archiving an item into the note vault
// ABOUTME: Notes default to the feed's folder; the item records its note path

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/feedvault/internal/content"
	"github.com/harper/feedvault/internal/models"
	"github.com/harper/feedvault/internal/vault"
)

var saveCmd = &cobra.Command{
	Use:   "save <guid>",
	Short: "Archive an item as a note",
	Long: `Write an item into the note vault as a markdown file with YAML
frontmatter (title, feed, link, date, tags). The note lands in the feed's
folder unless --folder overrides it. With --full, the item's page is fetched
and its main content archived instead of the feed-supplied excerpt.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folderFlag, _ := cmd.Flags().GetString("folder")
		full, _ := cmd.Flags().GetBool("full")

		doc, err := settings.Load()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		feed, item, err := findItemByGUID(doc, args[0])
		if err != nil {
			return err
		}

		folder := feed.Folder
		if cmd.Flags().Changed("folder") {
			folder = folderFlag
		}

		toSave := item
		if full {
			article, err := fetchArticle(cmd, item)
			if err != nil {
				return err
			}
			copied := *item
			copied.Content = article
			toSave = &copied
		}

		path, err := vault.SaveItem(noteVault, folder, toSave)
		if err != nil {
			return fmt.Errorf("failed to save note: %w", err)
		}
		item.Saved = true
		item.SavedFilePath = path
		if err := settings.Save(doc); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}

		color.Green("Saved %s", path)
		return nil
	},
}

// fetchArticle retrieves the item's page and extracts its main content.
func fetchArticle(cmd *cobra.Command, item *models.FeedItem) (string, error) {
	if item.Link == "" {
		return "", fmt.Errorf("item has no link to fetch")
	}
	page, status, err := httpClient.Request(cmd.Context(), item.Link, map[string]string{
		"Accept": "text/html,application/xhtml+xml",
	})
	if err != nil {
		return "", fmt.Errorf("failed to fetch article: %w", err)
	}
	if status != 200 {
		return "", fmt.Errorf("failed to fetch article: status %d", status)
	}

	var extractor content.PageExtractor
	article, err := extractor.Extract(page, item.Link)
	if err != nil {
		return "", fmt.Errorf("failed to extract article content: %w", err)
	}
	return article, nil
}

func init() {
	saveCmd.Flags().String("folder", "", "vault folder for the note")
	saveCmd.Flags().Bool("full", false, "fetch the item's page and archive its main content")
	rootCmd.AddCommand(saveCmd)
}
