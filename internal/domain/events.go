package domain

// Event types published after state changes.
const (
	EventQuoteAdded     = "quote.added"
	EventQuotesImported = "quotes.imported"
	EventQuotesSynced   = "quotes.synced"
	EventSyncFailed     = "sync.failed"
)
