// ABOUTME: Config command showing effective settings and writing a starter file
// ABOUTME: init persists the current effective values so they are easy to edit

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/feedvault/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		faint := color.New(color.Faint).SprintFunc()

		path := configPath
		if path == "" {
			path = config.GetConfigPath()
		}
		fmt.Printf("%s %s\n", faint("config:"), path)
		fmt.Printf("%s %s\n", faint("vault:"), cfg.GetVaultDir())
		fmt.Printf("%s %s\n", faint("settings:"), settings.Path())
		fmt.Printf("%s %d minutes\n", faint("refresh interval:"), cfg.GetRefreshInterval())
		fmt.Printf("%s %d seconds\n", faint("import delay:"), cfg.GetImportDelay())
		fmt.Printf("%s %v\n", faint("proxies:"), cfg.EnableProxies)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current effective configuration to the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		seeded := &config.Config{
			VaultDir:        cfg.GetVaultDir(),
			SettingsPath:    cfg.GetSettingsPath(),
			RefreshInterval: cfg.GetRefreshInterval(),
			ImportDelay:     cfg.GetImportDelay(),
			EnableProxies:   cfg.EnableProxies,
		}

		path := configPath
		var err error
		if path == "" {
			path = config.GetConfigPath()
			err = seeded.Save()
		} else {
			err = seeded.SaveTo(path)
		}
		if err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		color.Green("Wrote %s", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
