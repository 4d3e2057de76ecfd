// ABOUTME: Star, mark-read, and mark-unread commands for item state
// ABOUTME: State changes persist immediately through the settings store

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var starCmd = &cobra.Command{
	Use:   "star <guid>",
	Short: "Toggle an item's star",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := settings.Load()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		_, item, err := findItemByGUID(doc, args[0])
		if err != nil {
			return err
		}

		starred := item.ToggleStar()
		if err := settings.Save(doc); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}

		if starred {
			color.Yellow("Starred: %s", item.Title)
		} else {
			fmt.Printf("Unstarred: %s\n", item.Title)
		}
		return nil
	},
}

var markReadCmd = &cobra.Command{
	Use:   "mark-read <guid>",
	Short: "Mark an item as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setRead(args[0], true)
	},
}

var markUnreadCmd = &cobra.Command{
	Use:   "mark-unread <guid>",
	Short: "Mark an item as unread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setRead(args[0], false)
	},
}

func setRead(ref string, read bool) error {
	doc, err := settings.Load()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	_, item, err := findItemByGUID(doc, ref)
	if err != nil {
		return err
	}

	if read {
		item.MarkRead()
	} else {
		item.MarkUnread()
	}
	if err := settings.Save(doc); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	state := "unread"
	if read {
		state = "read"
	}
	fmt.Printf("Marked %s: %s\n", state, item.Title)
	return nil
}

func init() {
	rootCmd.AddCommand(starCmd)
	rootCmd.AddCommand(markReadCmd)
	rootCmd.AddCommand(markUnreadCmd)
}
