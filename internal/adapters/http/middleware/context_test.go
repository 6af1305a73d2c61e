package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDsFromContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, RequestIDs{}, IDsFromContext(ctx))

	ctx = ContextWithRequestID(ctx, "req-123")
	ctx = ContextWithSessionID(ctx, "alice")
	ctx = ContextWithCorrelationID(ctx, "txn-456")

	assert.Equal(t, RequestIDs{Request: "req-123", Correlation: "txn-456", Session: "alice"}, IDsFromContext(ctx))
	assert.Equal(t, "req-123", RequestIDFromContext(ctx))
	assert.Equal(t, "txn-456", CorrelationIDFromContext(ctx))
	assert.Equal(t, "alice", SessionIDFromContext(ctx))
}

func TestContextWithSessionID_DoesNotLeakToParent(t *testing.T) {
	parent := ContextWithSessionID(context.Background(), "alice")
	child := ContextWithSessionID(parent, "bob")

	assert.Equal(t, "alice", SessionIDFromContext(parent))
	assert.Equal(t, "bob", SessionIDFromContext(child))
}

func TestIDsFromContext_Nil(t *testing.T) {
	assert.Equal(t, RequestIDs{}, IDsFromContext(nil)) //nolint:staticcheck // nil guard
}
