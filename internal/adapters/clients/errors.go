// Package clients provides the instrumented HTTP client used to reach the
// remote quote endpoint.
package clients

import "errors"

// Client errors are transport failures. The acl package translates them to
// domain errors before they reach the application core.
var (
	// ErrCircuitOpen is returned without contacting the server while the
	// circuit breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last failure once every attempt is spent.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
