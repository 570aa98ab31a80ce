package client

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotkit/internal/oauth"
	"github.com/desertthunder/spotkit/internal/shared"
)

// Doer sends a single HTTP request. [*http.Client] satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Sender sends a request with the current access token attached.
type Sender interface {
	SendAuthorized(req *http.Request) (*http.Response, error)
}

// Option configures a [Dispatcher].
type Option func(*Dispatcher)

// WithLogger sets the logger used for request tracing.
func WithLogger(l *log.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// Dispatcher pairs a transport with a token cache.
//
// It never retries, never refreshes and never inspects token expiry: a rejected
// token surfaces as the server's response.
type Dispatcher struct {
	transport Doer
	cache     oauth.TokenCache
	logger    *log.Logger
}

// New creates a Dispatcher that reads credentials from cache on every call.
func New(transport Doer, cache oauth.TokenCache, opts ...Option) *Dispatcher {
	d := &Dispatcher{transport: transport, cache: cache, logger: shared.DiscardLogger()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Cache returns the token cache backing the dispatcher.
func (d *Dispatcher) Cache() oauth.TokenCache {
	return d.cache
}

// Do forwards req to the transport unchanged.
func (d *Dispatcher) Do(req *http.Request) (*http.Response, error) {
	return d.send(req)
}

// SendAuthorized attaches a bearer token from the cache and forwards the request.
//
// An empty cache yields [shared.ErrMissingToken] without touching the transport.
// The caller's request is not modified.
func (d *Dispatcher) SendAuthorized(req *http.Request) (*http.Response, error) {
	token := d.cache.Current()
	if token == nil {
		return nil, shared.ErrMissingToken
	}

	authed := req.Clone(req.Context())
	authed.Header.Set("Authorization", "Bearer "+token.AccessToken)
	return d.send(authed)
}

func (d *Dispatcher) send(req *http.Request) (*http.Response, error) {
	resp, err := d.transport.Do(req)
	if err != nil {
		d.logger.Debug("request failed", "method", req.Method, "url", req.URL.Redacted(), "error", err)
		return nil, fmt.Errorf("%w: %w", shared.ErrTransport, err)
	}

	d.logger.Debug("request", "method", req.Method, "url", req.URL.Redacted(), "status", resp.StatusCode)
	return resp, nil
}
