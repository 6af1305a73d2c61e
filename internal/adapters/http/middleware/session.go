package middleware

import "github.com/gin-gonic/gin"

const (
	// HeaderSessionID identifies the caller's quote session. The last shown
	// quote is remembered per session.
	HeaderSessionID = "X-Session-ID"

	// ContextKeySessionID is the gin context key for the session ID.
	ContextKeySessionID = "session_id"
)

// Session takes the X-Session-ID header or starts a new session with a fresh
// UUID. Clients keep the echoed header to stay in the same session.
func Session() gin.HandlerFunc {
	return carryID(sessionIDKind)
}

// GetSessionID returns the session of the request, or "" outside Session.
func GetSessionID(c *gin.Context) string {
	return ginID(c, sessionIDKind)
}
