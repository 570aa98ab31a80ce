package client

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotkit/internal/oauth"
	"github.com/desertthunder/spotkit/internal/shared"
)

// Refresher renews a token. [*oauth.Exchanger] satisfies it.
type Refresher interface {
	Refresh(ctx context.Context, token oauth.Token) (oauth.Token, error)
}

// RefreshingDispatcher retries a request once after refreshing the token when the
// server answers 401. It is a separate policy layered over [Dispatcher].
type RefreshingDispatcher struct {
	*Dispatcher
	refresher Refresher
	logger    *log.Logger
}

// NewRefreshing wraps d with refresh-on-401 behaviour.
func NewRefreshing(d *Dispatcher, r Refresher) *RefreshingDispatcher {
	return &RefreshingDispatcher{Dispatcher: d, refresher: r, logger: d.logger}
}

// SendAuthorized behaves like [Dispatcher.SendAuthorized], except that a 401 triggers a
// single refresh, cache update and retry. Requests whose body cannot be replayed are
// returned as-is.
func (r *RefreshingDispatcher) SendAuthorized(req *http.Request) (*http.Response, error) {
	resp, err := r.Dispatcher.SendAuthorized(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		return resp, nil
	}

	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	token := r.cache.Current()
	if token == nil {
		return nil, shared.ErrMissingToken
	}
	if token.RefreshToken == "" {
		return nil, shared.ErrMissingRefreshToken
	}

	r.logger.Info("access token rejected, refreshing")
	fresh, err := r.refresher.Refresh(req.Context(), *token)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	if err := r.cache.Update(req.Context(), fresh); err != nil {
		return nil, err
	}

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("failed to replay request body: %w", err)
		}
		retry.Body = body
	}
	return r.Dispatcher.SendAuthorized(retry)
}
