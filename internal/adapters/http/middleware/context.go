// Package middleware holds the gin middleware of the quote API.
package middleware

import "context"

// RequestIDs are the ids a quote API request carries. The remote quote
// client forwards Request and Correlation; Session keys the last shown quote.
type RequestIDs struct {
	Request     string
	Correlation string
	Session     string
}

type idsKey struct{}

// IDsFromContext returns the ids stored on ctx. Missing ids are empty.
func IDsFromContext(ctx context.Context) RequestIDs {
	if ctx == nil {
		return RequestIDs{}
	}

	ids, _ := ctx.Value(idsKey{}).(RequestIDs)

	return ids
}

// RequestIDFromContext returns the request id on ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	return IDsFromContext(ctx).Request
}

// CorrelationIDFromContext returns the correlation id on ctx, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return IDsFromContext(ctx).Correlation
}

// SessionIDFromContext returns the quote session on ctx, or "".
func SessionIDFromContext(ctx context.Context) string {
	return IDsFromContext(ctx).Session
}

// ContextWithRequestID stores the request id on ctx.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return withID(ctx, requestIDKind, id)
}

// ContextWithCorrelationID stores the correlation id on ctx.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return withID(ctx, correlationIDKind, id)
}

// ContextWithSessionID stores the quote session on ctx.
func ContextWithSessionID(ctx context.Context, id string) context.Context {
	return withID(ctx, sessionIDKind, id)
}

func withID(ctx context.Context, kind idKind, id string) context.Context {
	ids := IDsFromContext(ctx)

	switch kind {
	case requestIDKind:
		ids.Request = id
	case correlationIDKind:
		ids.Correlation = id
	case sessionIDKind:
		ids.Session = id
	}

	return context.WithValue(ctx, idsKey{}, ids)
}
