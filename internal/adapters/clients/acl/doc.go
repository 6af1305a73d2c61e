// Package acl is the anti-corruption layer between the remote quote endpoint
// and the domain.
//
// The remote speaks its own record shape (a list of posts with a title and a
// body). Nothing outside this package sees that shape: records are decoded
// into unexported DTOs, translated to [domain.Quote], and every transport or
// status failure is mapped to a domain error before it leaves.
//
// Error mapping:
//   - 404 Not Found → [domain.ErrNotFound]
//   - 400/422 → [domain.ErrValidation]
//   - 401/403 → [domain.ErrForbidden]
//   - 429, 5xx and network errors → [domain.ErrUnavailable]
//
// Client-level errors ([clients.ErrCircuitOpen], [clients.ErrMaxRetriesExceeded])
// also become [domain.ErrUnavailable].
package acl
