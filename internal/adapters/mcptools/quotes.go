package mcptools

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jsamuelsen/quotebox/internal/app"
	"github.com/jsamuelsen/quotebox/internal/domain"
)

// RandomQuoteTool handles the random_quote MCP tool.
type RandomQuoteTool struct {
	quotes *app.QuoteService
}

// NewRandomQuoteTool creates a RandomQuoteTool.
func NewRandomQuoteTool(quotes *app.QuoteService) *RandomQuoteTool {
	return &RandomQuoteTool{quotes: quotes}
}

// Definition returns the MCP tool definition for random_quote.
func (t *RandomQuoteTool) Definition() mcp.Tool {
	return mcp.NewTool("random_quote",
		mcp.WithDescription("Show a random quote from the currently selected category."),
		mcp.WithString("category",
			mcp.Description("Switch the selection to this category first (use \"all\" for every quote)"),
		),
	)
}

// Handle processes the random_quote tool call.
func (t *RandomQuoteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	quote, err := t.quotes.FilterQuotes(ctx, Session, strings.TrimSpace(req.GetString("category", "")))
	if err != nil {
		return toolError(err), nil
	}

	return mcp.NewToolResultText(quote.Render()), nil
}

// AddQuoteTool handles the add_quote MCP tool.
type AddQuoteTool struct {
	quotes *app.QuoteService
}

// NewAddQuoteTool creates an AddQuoteTool.
func NewAddQuoteTool(quotes *app.QuoteService) *AddQuoteTool {
	return &AddQuoteTool{quotes: quotes}
}

// Definition returns the MCP tool definition for add_quote.
func (t *AddQuoteTool) Definition() mcp.Tool {
	return mcp.NewTool("add_quote",
		mcp.WithDescription("Append a quote to the list. Both fields must contain text."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The quote itself"),
		),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("A single category label, e.g. Motivation"),
		),
	)
}

// Handle processes the add_quote tool call.
func (t *AddQuoteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := t.quotes.AddQuote(ctx, Session, req.GetString("text", ""), req.GetString("category", ""))
	if err != nil {
		return toolError(err), nil
	}

	response := fmt.Sprintf("Quote added (%d total).", result.Total)
	if result.Shown != nil {
		response += "\n\n" + result.Shown.Render()
	}

	return mcp.NewToolResultText(response), nil
}

// ListCategoriesTool handles the list_categories MCP tool.
type ListCategoriesTool struct {
	quotes *app.QuoteService
}

// NewListCategoriesTool creates a ListCategoriesTool.
func NewListCategoriesTool(quotes *app.QuoteService) *ListCategoriesTool {
	return &ListCategoriesTool{quotes: quotes}
}

// Definition returns the MCP tool definition for list_categories.
func (t *ListCategoriesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_categories",
		mcp.WithDescription("List the categories in first-seen order, starting with \"all\", and the current selection."),
	)
}

// Handle processes the list_categories tool call.
func (t *ListCategoriesTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	view, err := t.quotes.Categories(ctx)
	if err != nil {
		return toolError(err), nil
	}

	return jsonResult(view)
}

// FilterQuotesTool handles the filter_quotes MCP tool.
type FilterQuotesTool struct {
	quotes *app.QuoteService
}

// NewFilterQuotesTool creates a FilterQuotesTool.
func NewFilterQuotesTool(quotes *app.QuoteService) *FilterQuotesTool {
	return &FilterQuotesTool{quotes: quotes}
}

// Definition returns the MCP tool definition for filter_quotes.
func (t *FilterQuotesTool) Definition() mcp.Tool {
	return mcp.NewTool("filter_quotes",
		mcp.WithDescription("Select a category and show a random quote from it. The selection is remembered."),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("Category to select, or \"all\""),
		),
	)
}

// Handle processes the filter_quotes tool call.
func (t *FilterQuotesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := strings.TrimSpace(req.GetString("category", ""))
	if category == "" {
		return mcp.NewToolResultError("'category' is required"), nil
	}

	quote, err := t.quotes.FilterQuotes(ctx, Session, category)
	if err != nil {
		return toolError(err), nil
	}

	return mcp.NewToolResultText(quote.Render()), nil
}

// ExportQuotesTool handles the export_quotes MCP tool.
type ExportQuotesTool struct {
	quotes *app.QuoteService
}

// NewExportQuotesTool creates an ExportQuotesTool.
func NewExportQuotesTool(quotes *app.QuoteService) *ExportQuotesTool {
	return &ExportQuotesTool{quotes: quotes}
}

// Definition returns the MCP tool definition for export_quotes.
func (t *ExportQuotesTool) Definition() mcp.Tool {
	return mcp.NewTool("export_quotes",
		mcp.WithDescription("Export the whole list as a JSON array. Written to path when given, returned otherwise."),
		mcp.WithString("path",
			mcp.Description("File to write, e.g. ./"+domain.ExportFileName),
		),
	)
}

// Handle processes the export_quotes tool call.
func (t *ExportQuotesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var buf bytes.Buffer

	err := t.quotes.ExportJSON(ctx, &buf)
	if err != nil {
		return toolError(err), nil
	}

	path := strings.TrimSpace(req.GetString("path", ""))
	if path == "" {
		return mcp.NewToolResultText(buf.String()), nil
	}

	err = os.WriteFile(path, buf.Bytes(), 0o600)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("writing %s: %v", path, err)), nil
	}

	return mcp.NewToolResultText("Quotes exported to " + path), nil
}

// ImportQuotesTool handles the import_quotes MCP tool.
type ImportQuotesTool struct {
	quotes *app.QuoteService
}

// NewImportQuotesTool creates an ImportQuotesTool.
func NewImportQuotesTool(quotes *app.QuoteService) *ImportQuotesTool {
	return &ImportQuotesTool{quotes: quotes}
}

// Definition returns the MCP tool definition for import_quotes.
func (t *ImportQuotesTool) Definition() mcp.Tool {
	return mcp.NewTool("import_quotes",
		mcp.WithDescription("Append quotes from a JSON array of {text, category} objects. Duplicates are kept."),
		mcp.WithString("path",
			mcp.Description("File to read"),
		),
		mcp.WithString("json",
			mcp.Description("Inline JSON document, used when path is empty"),
		),
	)
}

// Handle processes the import_quotes tool call.
func (t *ImportQuotesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := strings.TrimSpace(req.GetString("path", ""))
	inline := req.GetString("json", "")

	var data []byte

	switch {
	case path != "":
		b, err := os.ReadFile(path) //nolint:gosec // path is chosen by the caller
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("reading %s: %v", path, err)), nil
		}

		data = b
	case inline != "":
		data = []byte(inline)
	default:
		return mcp.NewToolResultError("either 'path' or 'json' is required"), nil
	}

	n, err := t.quotes.ImportJSON(ctx, bytes.NewReader(data))
	if err != nil {
		return toolError(err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s (%d added)", domain.ImportedMessage, n)), nil
}
