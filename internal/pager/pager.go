package pager

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/spotkit/internal/client"
	"github.com/desertthunder/spotkit/internal/shared"
)

// Done is returned by [Pager.Next] when the sequence is exhausted.
var Done = errors.New("no more items in pager")

const (
	// defaultCapacity is the largest page size the Web API serves.
	defaultCapacity = 50
	// maxCapacity bounds the buffer preallocated from a server-supplied limit.
	maxCapacity = 500
)

// Sender sends an authorized request. [*client.Dispatcher] satisfies it.
type Sender interface {
	SendAuthorized(req *http.Request) (*http.Response, error)
}

// Pager walks a paginated resource one item at a time.
//
// The next page is requested only once every buffered item has been consumed, so at
// most one page is held and at most one request is outstanding. A Pager has a single
// consumer; concurrent calls to Next are not supported.
//
// After Next returns an error other than Done, every later call returns the same error.
type Pager[T any] struct {
	sender  Sender
	decode  DecodeFunc[T]
	items   []T
	pos     int
	next    *url.URL
	err     error
	fetches int
}

// New creates a Pager seeded with the first page's items and next link.
// A nil next means the seed page is the last one.
func New[T any](s Sender, items []T, next *url.URL, decode DecodeFunc[T]) *Pager[T] {
	hint := min(max(defaultCapacity, limitOf(next)), maxCapacity)
	buf := make([]T, 0, max(hint, len(items)))
	return &Pager[T]{
		sender: s,
		decode: decode,
		items:  append(buf, items...),
		next:   next,
	}
}

// FromPage creates a Pager from an offset page.
func FromPage[T any](s Sender, page Page[T]) (*Pager[T], error) {
	return FromPageWith(s, page, DecodePage[T])
}

// FromPageWith creates a Pager from an offset page whose following pages are read by decode.
func FromPageWith[T any](s Sender, page Page[T], decode DecodeFunc[T]) (*Pager[T], error) {
	next, err := page.NextLink()
	if err != nil {
		return nil, err
	}
	return New(s, page.Items, next, decode), nil
}

// FromCursorPage creates a Pager from a cursor page. decode reads every following page;
// nil means plain [DecodeCursorPage].
func FromCursorPage[T any](s Sender, page CursorBasedPage[T], decode DecodeFunc[T]) (*Pager[T], error) {
	next, err := page.NextLink()
	if err != nil {
		return nil, err
	}
	if decode == nil {
		decode = DecodeCursorPage[T]
	}
	return New(s, page.Items, next, decode), nil
}

func limitOf(u *url.URL) int {
	if u == nil {
		return 0
	}
	n, err := strconv.Atoi(u.Query().Get("limit"))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// Next returns the next item, fetching the following page when the buffer is empty.
func (p *Pager[T]) Next(ctx context.Context) (T, error) {
	var zero T
	for {
		if p.err != nil {
			return zero, p.err
		}

		if p.pos < len(p.items) {
			item := p.items[p.pos]
			p.items[p.pos] = zero
			p.pos++
			return item, nil
		}

		if p.next == nil {
			return zero, Done
		}

		if err := p.fetch(ctx); err != nil {
			p.err = err
			p.next = nil
			return zero, err
		}
	}
}

func (p *Pager[T]) fetch(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.next.String(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrURL, err)
	}
	req.Header.Set("Accept", "application/json")

	p.fetches++
	resp, err := p.sender.SendAuthorized(req)
	if err != nil {
		return err
	}

	body, err := client.ReadBody(resp)
	if err != nil {
		return err
	}

	page, err := p.decode(body)
	if err != nil {
		if !errors.Is(err, shared.ErrDecode) {
			err = fmt.Errorf("%w: %w", shared.ErrDecode, err)
		}
		return err
	}

	next, err := page.NextLink()
	if err != nil {
		return err
	}

	p.next = next
	p.items, p.pos = page.IntoItems(), 0
	return nil
}

// All returns an iterator over the remaining items. Iteration stops after the first error,
// which is yielded with a zero item.
func (p *Pager[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			item, err := p.Next(ctx)
			if errors.Is(err, Done) {
				return
			}
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !yield(item, nil) {
				return
			}
		}
	}
}

// Collect gathers up to limit remaining items, or all of them when limit is zero or less.
// Only the pages needed to satisfy limit are fetched.
func (p *Pager[T]) Collect(ctx context.Context, limit int) ([]T, error) {
	var out []T
	for limit <= 0 || len(out) < limit {
		item, err := p.Next(ctx)
		if errors.Is(err, Done) {
			break
		}
		if err != nil {
			return out, err
		}
		out = append(out, item)
	}
	return out, nil
}

// Fetches reports how many page requests the Pager has issued.
func (p *Pager[T]) Fetches() int {
	return p.fetches
}

// Buffered reports how many items are held without further requests.
func (p *Pager[T]) Buffered() int {
	return len(p.items) - p.pos
}
