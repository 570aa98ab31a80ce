package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotkit/internal/oauth"
	"github.com/desertthunder/spotkit/internal/shared"
)

// CallbackServer serves a [CallbackHandler] on the redirect URI's address.
type CallbackServer struct {
	handler  *CallbackHandler
	server   *http.Server
	listener net.Listener
	logger   *log.Logger
	errs     chan error
}

// NewCallbackServer prepares a server for redirectURI. An empty addr binds the
// redirect URI's host and port.
func NewCallbackServer(a Authorizer, state, redirectURI, addr string, logger *log.Logger) (*CallbackServer, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("%w: redirect_uri: %v", shared.ErrURL, err)
	}
	if addr == "" {
		addr = u.Host
	}
	if logger == nil {
		logger = shared.DiscardLogger()
	}

	handler := NewCallbackHandler(a, state, u.Path)

	router := NewBasicRouter()
	router.Use(Recover(logger), Logging(logger))
	router.Handler(handler)

	return &CallbackServer{
		handler: handler,
		server:  &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 10 * time.Second},
		logger:  logger,
		errs:    make(chan error, 1),
	}, nil
}

// Start binds the address and serves in the background.
func (s *CallbackServer) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	s.listener = ln

	go func() {
		s.logger.Info("starting OAuth callback server", "addr", ln.Addr().String())
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errs <- err
		}
	}()
	return nil
}

// Addr returns the bound address once started.
func (s *CallbackServer) Addr() string {
	if s.listener == nil {
		return s.server.Addr
	}
	return s.listener.Addr().String()
}

// Wait blocks until the callback completes, the server fails, ctx ends or timeout
// passes, and then shuts the server down.
func (s *CallbackServer) Wait(ctx context.Context, timeout time.Duration) (oauth.Token, error) {
	defer s.shutdown()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-s.handler.Result():
		if res.Err != nil {
			return oauth.Token{}, fmt.Errorf("authorization failed: %w", res.Err)
		}
		return res.Token, nil
	case err := <-s.errs:
		return oauth.Token{}, fmt.Errorf("server error: %w", err)
	case <-timer.C:
		return oauth.Token{}, fmt.Errorf("%w: authorization timed out after %s", shared.ErrTimeout, timeout)
	case <-ctx.Done():
		return oauth.Token{}, ctx.Err()
	}
}

func (s *CallbackServer) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Warn("error shutting down server", "error", err)
	}
}
