// Package api wraps Web API endpoints as typed calls over an authorized sender.
//
// Every call issues exactly one request through [client.Sender.SendAuthorized]. Paged
// endpoints return the first page; their Pager variants return a [pager.Pager] seeded
// with it.
//
// API reference: https://developer.spotify.com/documentation/web-api/reference/
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/spotkit/internal/client"
	"github.com/desertthunder/spotkit/internal/pager"
	"github.com/desertthunder/spotkit/internal/shared"
)

// DefaultBaseURL is the production Web API root.
const DefaultBaseURL = "https://api.spotify.com/v1"

// Sender sends authorized requests. It satisfies both [client.Sender] and [pager.Sender].
type Sender interface {
	SendAuthorized(req *http.Request) (*http.Response, error)
}

// Client issues Web API calls.
type Client struct {
	sender  Sender
	baseURL string
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL points the client at another API root, e.g. an [httptest.Server].
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// New creates a Client sending through s.
func New(s Sender, opts ...Option) *Client {
	c := &Client{sender: s, baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sender returns the sender used for requests and pagers.
func (c *Client) Sender() Sender {
	return c.sender
}

// Params builds a query string. Unset values are omitted.
type Params struct {
	values url.Values
}

// NewParams returns an empty parameter set.
func NewParams() *Params {
	return &Params{values: url.Values{}}
}

// Set adds key=value when value is not empty.
func (p *Params) Set(key, value string) *Params {
	if value != "" {
		p.values.Set(key, value)
	}
	return p
}

// SetInt adds key=value when value is positive.
func (p *Params) SetInt(key string, value int) *Params {
	if value > 0 {
		p.values.Set(key, strconv.Itoa(value))
	}
	return p
}

// SetBool adds key=true|false when value is not nil.
func (p *Params) SetBool(key string, value *bool) *Params {
	if value != nil {
		p.values.Set(key, strconv.FormatBool(*value))
	}
	return p
}

// SetJoined adds key=a,b,c when values is not empty.
func (p *Params) SetJoined(key string, values []string) *Params {
	if len(values) > 0 {
		p.values.Set(key, strings.Join(values, ","))
	}
	return p
}

// Encode returns the URL-encoded query, sorted by key.
func (p *Params) Encode() string {
	if p == nil {
		return ""
	}
	return p.values.Encode()
}

// PageOptions are the common paging parameters. Zero values are omitted.
type PageOptions struct {
	Limit  int
	Offset int
	Market string
}

func (o PageOptions) params() *Params {
	return NewParams().SetInt("limit", o.Limit).SetInt("offset", o.Offset).Set("market", o.Market)
}

func (c *Client) endpoint(path string, p *Params) string {
	u := c.baseURL + path
	if q := p.Encode(); q != "" {
		u += "?" + q
	}
	return u
}

func get[T any](ctx context.Context, c *Client, path string, p *Params) (T, error) {
	var out T
	if err := client.GetJSON(ctx, c.sender, c.endpoint(path, p), &out); err != nil {
		return out, err
	}
	return out, nil
}

func send(ctx context.Context, c *Client, method, path string, p *Params, body any) error {
	return client.SendJSON(ctx, c.sender, method, c.endpoint(path, p), body, nil)
}

func requireID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: %s id", shared.ErrMissingArgument, kind)
	}
	return nil
}

func requireIDs(kind string, ids []string, limit int) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: no %s IDs provided", shared.ErrMissingArgument, kind)
	}
	if len(ids) > limit {
		return fmt.Errorf("%w: maximum %d %s IDs allowed", shared.ErrInvalidArgument, limit, kind)
	}
	return nil
}

func seg(id string) string {
	return url.PathEscape(id)
}

func offsetPager[T any](c *Client, page pager.Page[T], err error) (*pager.Pager[T], error) {
	if err != nil {
		return nil, err
	}
	return pager.FromPage(c.sender, page)
}
