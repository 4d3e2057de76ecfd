// ABOUTME: MCP server implementation for feedvault
// ABOUTME: Exposes feed subscriptions, items, and note archiving to AI agents

package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/harper/feedvault/internal/refresh"
	"github.com/harper/feedvault/internal/store"
	"github.com/harper/feedvault/internal/vault"
)

// Server wraps the MCP server with feedvault-specific context
type Server struct {
	mcpServer *server.MCPServer
	store     *store.Store
	service   *refresh.Service
	vault     vault.Vault
}

// NewServer creates a new MCP server instance
func NewServer(st *store.Store, service *refresh.Service, v vault.Vault) *Server {
	s := &Server{
		store:   st,
		service: service,
		vault:   v,
	}

	s.mcpServer = server.NewMCPServer(
		"feedvault",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerTools()
	return s
}

// ServeStdio starts the MCP server on stdio
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
