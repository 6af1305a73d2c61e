package mcptools

import (
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jsamuelsen/quotebox/internal/domain"
)

// toolError turns err into a tool result the model can read.
func toolError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(userMessage(err))
}

// userMessage prefers the user-facing text carried by domain errors.
func userMessage(err error) string {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}

	return err.Error()
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("encoding result: " + err.Error()), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}
