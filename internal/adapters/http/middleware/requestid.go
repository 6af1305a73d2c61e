package middleware

import "github.com/gin-gonic/gin"

const (
	// HeaderRequestID is the header name for request ID.
	HeaderRequestID = "X-Request-ID"

	// ContextKeyRequestID is the gin context key for the request ID.
	ContextKeyRequestID = "request_id"
)

// RequestID takes the X-Request-ID header or makes a new UUID. The remote
// quote client forwards it from the request context.
func RequestID() gin.HandlerFunc {
	return carryID(requestIDKind)
}

// GetRequestID returns the request ID, or "" outside RequestID.
func GetRequestID(c *gin.Context) string {
	return ginID(c, requestIDKind)
}
