// ABOUTME: MCP server command exposing feedvault to AI agents over stdio
// ABOUTME: Reuses the same store, fetcher, and vault as the CLI commands

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/feedvault/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server on stdio",
	Long: `Run feedvault as an MCP (Model Context Protocol) server over stdio,
exposing feed management, item reading, and note archiving as tools for AI
agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server := mcp.NewServer(settings, service, noteVault)
		if err := server.ServeStdio(); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
