package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// DefaultLimit is the default number of quotes per page.
const DefaultLimit = 20

// MaxLimit is the maximum allowed quotes per page.
const MaxLimit = 100

// ErrInvalidCursor is returned when a cursor does not decode to a list position.
var ErrInvalidCursor = errors.New("invalid cursor")

// PageRequest holds the pagination query of the quote list.
type PageRequest struct {
	// Cursor is an opaque string from a previous page's NextCursor.
	Cursor string `form:"cursor"`

	// Limit is the maximum number of quotes to return (1-100, default 20).
	Limit int `form:"limit" validate:"omitempty,gte=1,lte=100"`
}

// GetLimit returns the limit with defaults applied.
func (p *PageRequest) GetLimit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}

	return min(p.Limit, MaxLimit)
}

// Offset returns the list position the page starts at: 0 without a cursor,
// otherwise one past the position the cursor points at.
func (p *PageRequest) Offset() (int, error) {
	if p.Cursor == "" {
		return 0, nil
	}

	pos, err := DecodeCursor(p.Cursor)
	if err != nil {
		return 0, err
	}

	return pos + 1, nil
}

// Page is one page of the quote list.
type Page[T any] struct {
	Items []T `json:"items"`

	// NextCursor points after the last item. Empty on the last page.
	NextCursor string `json:"nextCursor,omitempty"`

	HasMore bool `json:"hasMore"`
}

// NewPage builds the page that starts at offset. Pass up to limit+1 items so
// a following page can be detected.
func NewPage[T any](items []T, offset, limit int) *Page[T] {
	if items == nil {
		items = []T{}
	}

	hasMore := len(items) > limit
	if !hasMore {
		return &Page[T]{Items: items}
	}

	items = items[:limit]

	return &Page[T]{
		Items:      items,
		NextCursor: EncodeCursor(offset + len(items) - 1),
		HasMore:    true,
	}
}

// cursor is the encoded form of a list position. The list only grows by
// append, so a position stays valid until a sync replaces the list.
type cursor struct {
	Position int `json:"p"`
}

// EncodeCursor encodes a list position.
func EncodeCursor(position int) string {
	data, err := json.Marshal(cursor{Position: position})
	if err != nil {
		return ""
	}

	return base64.URLEncoding.EncodeToString(data)
}

// DecodeCursor returns the list position encoded in s.
func DecodeCursor(s string) (int, error) {
	data, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return 0, ErrInvalidCursor
	}

	var c *cursor

	err = json.Unmarshal(data, &c)
	if err != nil || c == nil || c.Position < 0 {
		return 0, ErrInvalidCursor
	}

	return c.Position, nil
}
