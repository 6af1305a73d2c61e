// Package domain contains core business entities and rules.
package domain

import (
	"strings"
)

// AllCategories is the category selection that matches every quote.
const AllCategories = "all"

// NoQuotesMessage is shown when a category selection matches nothing.
const NoQuotesMessage = "No quotes found for this category."

// Quote is a piece of text tagged with a single category.
// Quotes are values: the collection only ever grows by append or is
// replaced wholesale by a sync.
type Quote struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// QuoteKey identifies duplicate quotes during sync.
type QuoteKey struct {
	Text     string
	Category string
}

// NewQuote trims both fields and validates the result.
func NewQuote(text, category string) (Quote, error) {
	q := Quote{
		Text:     strings.TrimSpace(text),
		Category: strings.TrimSpace(category),
	}

	err := q.Validate()
	if err != nil {
		return Quote{}, err
	}

	return q, nil
}

// Validate reports whether both fields carry non-blank text.
func (q Quote) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return NewValidationError("text", MissingFieldsMessage)
	}

	if strings.TrimSpace(q.Category) == "" {
		return NewValidationError("category", MissingFieldsMessage)
	}

	return nil
}

// Key returns the (text, category) pair used for de-duplication.
func (q Quote) Key() QuoteKey {
	return QuoteKey{Text: q.Text, Category: q.Category}
}

// Render formats the quote the way the display region shows it.
func (q Quote) Render() string {
	return `"` + q.Text + `"` + "\nCategory: " + q.Category
}

// MissingFieldsMessage is the user-facing warning for an incomplete add.
const MissingFieldsMessage = "Please enter both quote and category."

// DefaultQuotes returns the seed list used when nothing usable is persisted.
// A fresh slice is returned on every call.
func DefaultQuotes() []Quote {
	return []Quote{
		{Text: "The best way to predict the future is to create it.", Category: "Motivation"},
		{Text: "Code is like humor. When you have to explain it, it’s bad.", Category: "Programming"},
		{Text: "Simplicity is the soul of efficiency.", Category: "Wisdom"},
	}
}

// Import outcome messages.
const (
	ImportedMessage      = "Quotes imported successfully!"
	InvalidImportMessage = "Invalid JSON file."
)

// ExportFileName is the suggested name for an exported quote list.
const ExportFileName = "quotes.json"
