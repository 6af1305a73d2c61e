package mcptools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jsamuelsen/quotebox/internal/app"
)

// SyncQuotesTool handles the sync_quotes MCP tool.
type SyncQuotesTool struct {
	sync *app.SyncService
}

// NewSyncQuotesTool creates a SyncQuotesTool.
func NewSyncQuotesTool(sync *app.SyncService) *SyncQuotesTool {
	return &SyncQuotesTool{sync: sync}
}

// Definition returns the MCP tool definition for sync_quotes.
func (t *SyncQuotesTool) Definition() mcp.Tool {
	return mcp.NewTool("sync_quotes",
		mcp.WithDescription("Reconcile the list with the server now. Server quotes are placed first and duplicates dropped."),
	)
}

// Handle processes the sync_quotes tool call.
func (t *SyncQuotesTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := t.sync.Sync(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s (%s)", status.Message, status.Error)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s %d fetched, %d total.", status.Message, status.Fetched, status.Total)), nil
}
