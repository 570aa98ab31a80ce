package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/spotkit/internal/oauth"
	"github.com/desertthunder/spotkit/internal/server"
	"github.com/desertthunder/spotkit/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultAuthTimeout = 2 * time.Minute

// AuthLogin runs the authorization code flow and stores the resulting token in the cache.
//
// By default a local callback server receives the redirect. With --paste the user copies
// the redirected URL from the browser instead, which works when the redirect URI is not local.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	exchanger, err := r.oauthExchanger()
	if err != nil {
		return err
	}
	cache, err := r.tokenCache(ctx)
	if err != nil {
		return err
	}

	state, err := shared.GenerateState()
	if err != nil {
		return fmt.Errorf("failed to generate state token: %w", err)
	}

	authOpts := oauth.AuthorizeOptions{State: state, Scope: r.config.Credentials.Spotify.Scope}
	if cmd.Bool("show-dialog") {
		show := true
		authOpts.ShowDialog = &show
	}
	authURL := exchanger.AuthorizeURL(authOpts)

	var token oauth.Token
	if cmd.Bool("paste") {
		token, err = r.pasteAuthorize(ctx, exchanger, authURL, state, !cmd.Bool("no-browser"))
	} else {
		token, err = r.serveAuthorize(ctx, exchanger, authURL, state, !cmd.Bool("no-browser"), cmd.Duration("timeout"))
	}
	if err != nil {
		return err
	}

	if err := cache.Update(ctx, token); err != nil {
		return fmt.Errorf("failed to cache token: %w", err)
	}

	r.logger.Info("authorization successful", "scope", token.Scope, "expires_at", token.Expiry())
	r.writePlain("✓ Authorization successful\n")
	return r.writePlain("Token expires at %s\n", token.Expiry().Format(time.RFC1123))
}

func (r *Runner) serveAuthorize(ctx context.Context, exchanger *oauth.Exchanger, authURL, state string, browser bool, timeout time.Duration) (oauth.Token, error) {
	addr := ""
	if r.config.Server.Port != 0 {
		addr = r.config.Server.Addr()
	}

	srv, err := server.NewCallbackServer(exchanger, state, r.config.Credentials.Spotify.RedirectURI, addr, r.logger)
	if err != nil {
		return oauth.Token{}, err
	}
	if err := srv.Start(); err != nil {
		return oauth.Token{}, err
	}
	r.logger.Infof("started callback server at %v", srv.Addr())

	r.openAuthURL(authURL, browser)

	if timeout <= 0 {
		timeout = defaultAuthTimeout
	}
	r.writePlain("→ Waiting for authorization (%s timeout)...\n", timeout)

	token, err := srv.Wait(ctx, timeout)
	if err != nil {
		return oauth.Token{}, fmt.Errorf("authorization failed: %w", err)
	}
	return token, nil
}

func (r *Runner) pasteAuthorize(ctx context.Context, exchanger *oauth.Exchanger, authURL, state string, browser bool) (oauth.Token, error) {
	r.openAuthURL(authURL, browser)
	r.writePlain("→ Paste the URL you were redirected to: ")

	scanner := bufio.NewScanner(r.input)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return oauth.Token{}, fmt.Errorf("failed to read redirect URL: %w", err)
		}
		return oauth.Token{}, fmt.Errorf("%w: no redirect URL given", shared.ErrMissingArgument)
	}

	code, err := oauth.CodeFromRedirect(strings.TrimSpace(scanner.Text()), state)
	if err != nil {
		return oauth.Token{}, err
	}

	token, err := exchanger.Authorize(ctx, code)
	if err != nil {
		return oauth.Token{}, fmt.Errorf("authorization failed: %w", err)
	}
	return token, nil
}

func (r *Runner) openAuthURL(authURL string, browser bool) {
	if browser {
		r.writePlain("→ Opening browser for Spotify authorization...\n")
		err := shared.OpenBrowser(authURL)
		if err == nil {
			return
		}
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
	}
	r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
}

// AuthRefresh exchanges the cached refresh token and stores the new token.
func (r *Runner) AuthRefresh(ctx context.Context, cmd *cli.Command) error {
	exchanger, err := r.oauthExchanger()
	if err != nil {
		return err
	}
	cache, err := r.tokenCache(ctx)
	if err != nil {
		return err
	}

	current := cache.Current()
	if current == nil {
		return fmt.Errorf("%w: run 'spotkit auth login' first", shared.ErrMissingToken)
	}

	token, err := exchanger.Refresh(ctx, *current)
	if err != nil {
		return fmt.Errorf("failed to refresh token: %w", err)
	}
	if err := cache.Update(ctx, token); err != nil {
		return fmt.Errorf("failed to cache token: %w", err)
	}

	r.logger.Info("token refreshed", "expires_at", token.Expiry())
	return r.writePlain("✓ Token refreshed, expires at %s\n", token.Expiry().Format(time.RFC1123))
}

// tokenStatus is the redacted view of the cached token.
type tokenStatus struct {
	Backend      string    `json:"backend"`
	Present      bool      `json:"present"`
	Expired      bool      `json:"expired"`
	ExpiresAt    time.Time `json:"expires_at,omitzero"`
	Scope        string    `json:"scope,omitempty"`
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken bool      `json:"has_refresh_token"`
}

// AuthStatus reports whether a token is cached and when it expires, without printing secrets.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	cache, err := r.tokenCache(ctx)
	if err != nil {
		return err
	}

	status := tokenStatus{Backend: r.config.Cache.Backend}
	if b, ok := cache.(interface{ Backend() string }); ok {
		status.Backend = b.Backend()
	}
	if token := cache.Current(); token != nil {
		status.Present = true
		status.Expired = token.Expired(r.clock)
		status.ExpiresAt = token.Expiry()
		status.Scope = token.Scope
		status.AccessToken = shared.RedactSecret(token.AccessToken)
		status.RefreshToken = token.RefreshToken != ""
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, cmd.Bool("pretty"))
	}

	r.writePlain("Cache: %s\n", status.Backend)
	if !status.Present {
		r.writePlain("✗ Not authorized, run 'spotkit auth login'\n")
		return nil
	}

	if status.Expired {
		r.writePlain("⚠ Access token expired at %s\n", status.ExpiresAt.Format(time.RFC1123))
	} else {
		r.writePlain("✓ Access token valid until %s\n", status.ExpiresAt.Format(time.RFC1123))
	}
	r.writePlain("Access token: %s\n", status.AccessToken)
	r.writePlain("Refresh token: %v\n", status.RefreshToken)
	return r.writePlain("Scope: %s\n", status.Scope)
}
