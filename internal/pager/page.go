package pager

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/desertthunder/spotkit/internal/shared"
)

// Pageable is one decoded page of a paginated resource.
type Pageable[T any] interface {
	// NextLink returns the absolute URL of the following page, or nil on the last page.
	NextLink() (*url.URL, error)
	IntoItems() []T
}

// Page is an offset-paginated response.
type Page[T any] struct {
	Href     string  `json:"href"`
	Items    []T     `json:"items"`
	Limit    uint32  `json:"limit"`
	Next     *string `json:"next"`
	Offset   uint32  `json:"offset"`
	Previous *string `json:"previous"`
	Total    uint32  `json:"total"`
}

func (p Page[T]) NextLink() (*url.URL, error) { return parseNext(p.Next) }
func (p Page[T]) IntoItems() []T              { return p.Items }

// Cursor marks the position after the last item of a [CursorBasedPage].
type Cursor struct {
	After *string `json:"after"`
}

// CursorBasedPage is a cursor-paginated response.
type CursorBasedPage[T any] struct {
	Href    string  `json:"href"`
	Items   []T     `json:"items"`
	Limit   uint32  `json:"limit"`
	Next    *string `json:"next"`
	Cursors Cursor  `json:"cursors"`
	Total   *uint32 `json:"total,omitempty"`
}

func (p CursorBasedPage[T]) NextLink() (*url.URL, error) { return parseNext(p.Next) }
func (p CursorBasedPage[T]) IntoItems() []T              { return p.Items }

// parseNext validates a next link. Links are followed verbatim, so they must be absolute.
func parseNext(next *string) (*url.URL, error) {
	if next == nil || *next == "" {
		return nil, nil
	}
	u, err := url.Parse(*next)
	if err != nil {
		return nil, fmt.Errorf("%w: next link %q: %v", shared.ErrURL, *next, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: next link %q is not absolute", shared.ErrURL, *next)
	}
	return u, nil
}

// DecodeFunc decodes a response body into a page.
type DecodeFunc[T any] func(body []byte) (Pageable[T], error)

// DecodePage decodes an offset page.
func DecodePage[T any](body []byte) (Pageable[T], error) {
	var p Page[T]
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDecode, err)
	}
	return p, nil
}

// DecodeCursorPage decodes a cursor page.
func DecodeCursorPage[T any](body []byte) (Pageable[T], error) {
	var p CursorBasedPage[T]
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDecode, err)
	}
	return p, nil
}

// DecodePageIn returns a decoder for offset pages nested under key,
// e.g. {"albums": {...}} for new releases.
func DecodePageIn[T any](key string) DecodeFunc[T] {
	return nested[T](key, DecodePage[T])
}

// DecodeCursorPageIn returns a decoder for cursor pages nested under key,
// e.g. {"artists": {...}} for followed artists.
func DecodeCursorPageIn[T any](key string) DecodeFunc[T] {
	return nested[T](key, DecodeCursorPage[T])
}

func nested[T any](key string, decode DecodeFunc[T]) DecodeFunc[T] {
	return func(body []byte) (Pageable[T], error) {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(body, &wrapper); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrDecode, err)
		}
		inner, ok := wrapper[key]
		if !ok {
			return nil, fmt.Errorf("%w: response has no %q object", shared.ErrDecode, key)
		}
		return decode(inner)
	}
}
