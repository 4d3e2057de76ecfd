// ABOUTME: Root Cobra command and global flags
// ABOUTME: Sets up CLI structure and initializes config, settings store, and fetcher

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/feedvault/internal/config"
	"github.com/harper/feedvault/internal/refresh"
	"github.com/harper/feedvault/internal/resolve"
	"github.com/harper/feedvault/internal/store"
	"github.com/harper/feedvault/internal/vault"
)

var (
	configPath   string
	settingsPath string
	vaultDir     string

	cfg        *config.Config
	settings   *store.Store
	noteVault  *vault.DirVault
	service    *refresh.Service
	httpClient *resolve.HTTPClient
)

var rootCmd = &cobra.Command{
	Use:   "feedvault",
	Short: "Feed reader that archives items as notes in a markdown vault",
	Long: `feedvault follows RSS, Atom, and JSON feeds, classifies items as
articles, videos, or podcasts, and archives the ones you keep as markdown
notes with YAML frontmatter.

Feeds survive the messy real world: malformed XML, PHP error pages, dead
endpoints with working alternates, and feeds only reachable through a
mirror. Read and starred state always survives a refresh.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.LoadFrom(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		path := settingsPath
		if path == "" {
			path = cfg.GetSettingsPath()
		}
		settings = store.New(path)

		dir := vaultDir
		if dir == "" {
			dir = cfg.GetVaultDir()
		}
		noteVault = vault.NewDirVault(dir)

		httpClient = resolve.NewHTTPClient(30 * time.Second)
		resolver := resolve.New(httpClient, resolve.Options{EnableProxies: cfg.EnableProxies})
		service = refresh.NewService(resolver)
		service.DefaultInterval = cfg.GetRefreshInterval()
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: ~/.config/feedvault/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "settings file path (default: ~/.local/share/feedvault/settings.json)")
	rootCmd.PersistentFlags().StringVar(&vaultDir, "vault", "", "note vault directory (default: ~/Documents/feedvault)")
}
