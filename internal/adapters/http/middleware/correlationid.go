package middleware

import "github.com/gin-gonic/gin"

const (
	// HeaderCorrelationID spans a whole transaction across services rather
	// than one request.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyCorrelationID is the gin context key for the correlation ID.
	ContextKeyCorrelationID = "correlation_id"
)

// CorrelationID is RequestID for the X-Correlation-ID header.
func CorrelationID() gin.HandlerFunc {
	return carryID(correlationIDKind)
}

// GetCorrelationID returns the correlation ID, or "" outside CorrelationID.
func GetCorrelationID(c *gin.Context) string {
	return ginID(c, correlationIDKind)
}
