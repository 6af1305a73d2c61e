// Package mcptools exposes the quote operations as MCP tools over stdio.
//
// Each tool follows the same shape:
//   - a struct holding its dependencies, built by a constructor
//   - Definition() returns the mcp.Tool schema
//   - Handle() runs the operation and returns a tool result
//
// Domain failures are returned as tool errors, never as protocol errors.
package mcptools

import (
	"context"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jsamuelsen/quotebox/internal/app"
)

// Session is the session id every MCP call runs under.
const Session = "mcp"

// Deps are the services the tools call into. Sync may be nil when
// syncing is disabled, in which case sync_quotes is not registered.
type Deps struct {
	Quotes  *app.QuoteService
	Sync    *app.SyncService
	Version string
}

// NewServer builds an MCP server with every quote tool registered.
func NewServer(deps Deps) *server.MCPServer {
	if deps.Quotes == nil {
		panic("mcptools: quote service is required")
	}

	version := deps.Version
	if version == "" {
		version = "dev"
	}

	s := server.NewMCPServer(
		"quotebox",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions("Quotebox keeps a categorized list of quotes. "+
			"Use random_quote to show one, add_quote to grow the list and sync_quotes to reconcile with the server."),
	)

	for _, tool := range Tools(deps) {
		s.AddTool(tool.Definition(), tool.Handle)
	}

	return s
}

// Tool is one MCP tool handler.
type Tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// Tools returns the tools NewServer registers, in registration order.
func Tools(deps Deps) []Tool {
	tools := []Tool{
		NewRandomQuoteTool(deps.Quotes),
		NewAddQuoteTool(deps.Quotes),
		NewListCategoriesTool(deps.Quotes),
		NewFilterQuotesTool(deps.Quotes),
		NewExportQuotesTool(deps.Quotes),
		NewImportQuotesTool(deps.Quotes),
	}

	if deps.Sync != nil {
		tools = append(tools, NewSyncQuotesTool(deps.Sync))
	}

	return tools
}

// Serve speaks MCP over in/out until ctx is cancelled or in is closed.
func Serve(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s).Listen(ctx, in, out)
}
