// Package ports defines the contracts between the quote application core and
// its adapters. The core depends only on these interfaces.
//
// Conventions:
//   - Context is always the first parameter
//   - Methods accept and return domain types, never transport DTOs
//   - Failures use domain error types (ErrNotFound, ErrUnavailable, ...)
package ports

import (
	"context"

	"github.com/jsamuelsen/quotebox/internal/domain"
)

// RemoteQuoteSource is the remote endpoint the local list is reconciled with.
type RemoteQuoteSource interface {
	// FetchQuotes returns at most limit quotes mapped from the remote records.
	// Returns domain.ErrUnavailable when the endpoint cannot be reached.
	FetchQuotes(ctx context.Context, limit int) ([]domain.Quote, error)

	// PushQuotes sends the full list to the remote endpoint.
	// The response body is ignored.
	PushQuotes(ctx context.Context, quotes []domain.Quote) error
}

// QuoteDisplay mirrors every shown quote to an additional output.
// Failures are logged by the caller and never fail the operation.
type QuoteDisplay interface {
	Show(ctx context.Context, quote domain.Quote) error
}

// EventPublisher publishes domain events on a best-effort basis.
type EventPublisher interface {
	// Publish sends an event to the configured destination.
	// Returns domain.ErrUnavailable if the messaging system is unreachable.
	Publish(ctx context.Context, event Event) error
}

// Event represents a domain event that can be published.
type Event interface {
	// EventType returns the type identifier for routing.
	EventType() string

	// Payload returns the event data for serialization.
	Payload() any
}

// QuoteEvent is the Event emitted by the quote services.
type QuoteEvent struct {
	Type  string         `json:"type"`
	Count int            `json:"count"`
	Total int            `json:"total"`
	Quote *domain.Quote  `json:"quote,omitempty"`
	Error string         `json:"error,omitempty"`
	Extra map[string]any `json:"extra,omitempty"`
}

// EventType implements Event.
func (e QuoteEvent) EventType() string { return e.Type }

// Payload implements Event.
func (e QuoteEvent) Payload() any { return e }

// NopPublisher discards events.
type NopPublisher struct{}

// Publish implements EventPublisher.
func (NopPublisher) Publish(context.Context, Event) error { return nil }
