package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/spotkit/internal/clock"
	"github.com/desertthunder/spotkit/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
)

// Endpoint holds the accounts service URLs.
type Endpoint struct {
	AuthURL  string
	TokenURL string
}

// SpotifyEndpoint is the production accounts service.
var SpotifyEndpoint = Endpoint{AuthURL: spotifyAuthURL, TokenURL: spotifyTokenURL}

// Doer sends a single HTTP request. [*http.Client] satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// AuthorizeOptions are the optional consent URL parameters. Empty strings and a nil ShowDialog are omitted.
type AuthorizeOptions struct {
	State      string
	Scope      string
	ShowDialog *bool
}

// ExchangeError is a non-2xx response from the token endpoint.
type ExchangeError struct {
	StatusCode  int
	Code        string // OAuth error code, e.g. "invalid_grant"
	Description string
}

func (e *ExchangeError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("token endpoint returned status %d", e.StatusCode)
	}
	if e.Description == "" {
		return fmt.Sprintf("token endpoint returned status %d: %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("token endpoint returned status %d: %s: %s", e.StatusCode, e.Code, e.Description)
}

func (e *ExchangeError) Unwrap() error {
	return shared.ErrAuthFailed
}

// tokenResponse is the token endpoint body. RefreshToken is optional on refresh responses.
type tokenResponse struct {
	AccessToken  string  `json:"access_token"`
	TokenType    string  `json:"token_type"`
	Scope        string  `json:"scope"`
	ExpiresIn    uint32  `json:"expires_in"`
	RefreshToken *string `json:"refresh_token"`
}

func (r tokenResponse) refreshToken() (string, bool) {
	if r.RefreshToken == nil || *r.RefreshToken == "" {
		return "", false
	}
	return *r.RefreshToken, true
}

// Exchanger performs token exchanges against an [Endpoint].
type Exchanger struct {
	Transport   Doer
	Clock       clock.Clock
	Credentials ClientCredentials
	Endpoint    Endpoint
}

// NewExchanger returns an Exchanger for the production endpoint.
func NewExchanger(transport Doer, c clock.Clock, creds ClientCredentials) *Exchanger {
	return &Exchanger{Transport: transport, Clock: c, Credentials: creds, Endpoint: SpotifyEndpoint}
}

// AuthorizeURL builds the consent URL for the configured credentials and endpoint.
func (e *Exchanger) AuthorizeURL(opts AuthorizeOptions) string {
	cfg := &oauth2.Config{
		ClientID:     e.Credentials.ClientID,
		ClientSecret: e.Credentials.ClientSecret,
		RedirectURL:  e.Credentials.RedirectURI,
		Endpoint: oauth2.Endpoint{
			AuthURL:   e.Endpoint.AuthURL,
			TokenURL:  e.Endpoint.TokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
	if opts.Scope != "" {
		cfg.Scopes = []string{opts.Scope}
	}

	// AuthCodeURL drops an empty RedirectURL; the parameter is sent regardless.
	params := []oauth2.AuthCodeOption{oauth2.SetAuthURLParam("redirect_uri", e.Credentials.RedirectURI)}
	if opts.ShowDialog != nil {
		params = append(params, oauth2.SetAuthURLParam("show_dialog", strconv.FormatBool(*opts.ShowDialog)))
	}

	return cfg.AuthCodeURL(opts.State, params...)
}

// Authorize exchanges an authorization code for a token.
//
// The response must carry a refresh token; otherwise [shared.ErrMissingRefreshToken] is returned.
func (e *Exchanger) Authorize(ctx context.Context, code string) (Token, error) {
	form := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {e.Credentials.RedirectURI},
	}

	resp, err := e.exchange(ctx, form)
	if err != nil {
		return Token{}, err
	}

	refresh, ok := resp.refreshToken()
	if !ok {
		return Token{}, shared.ErrMissingRefreshToken
	}

	return NewToken(e.Clock, resp.AccessToken, resp.TokenType, resp.ExpiresIn, refresh, resp.Scope), nil
}

// Refresh renews token. When the response omits a refresh token the previous one is kept verbatim.
func (e *Exchanger) Refresh(ctx context.Context, token Token) (Token, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {token.RefreshToken},
	}

	resp, err := e.exchange(ctx, form)
	if err != nil {
		return Token{}, err
	}

	refresh, ok := resp.refreshToken()
	if !ok {
		refresh = token.RefreshToken
	}

	return NewToken(e.Clock, resp.AccessToken, resp.TokenType, resp.ExpiresIn, refresh, resp.Scope), nil
}

func (e *Exchanger) exchange(ctx context.Context, form url.Values) (*tokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.Endpoint.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: token endpoint: %v", shared.ErrURL, err)
	}
	req.Header.Set("Authorization", e.Credentials.AuthorizationHeader())
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := e.Transport.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read token response: %w", shared.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		exErr := &ExchangeError{StatusCode: resp.StatusCode}
		var payload struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		if json.Unmarshal(body, &payload) == nil {
			exErr.Code = payload.Error
			exErr.Description = payload.ErrorDescription
		}
		return nil, exErr
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("%w: token response: %v", shared.ErrDecode, err)
	}

	return &tr, nil
}

// AuthorizeURL builds the production consent URL.
func AuthorizeURL(creds ClientCredentials, opts AuthorizeOptions) string {
	e := Exchanger{Credentials: creds, Endpoint: SpotifyEndpoint}
	return e.AuthorizeURL(opts)
}

// Authorize exchanges code against the production token endpoint.
func Authorize(ctx context.Context, transport Doer, c clock.Clock, creds ClientCredentials, code string) (Token, error) {
	return NewExchanger(transport, c, creds).Authorize(ctx, code)
}

// Refresh renews token against the production token endpoint.
func Refresh(ctx context.Context, transport Doer, c clock.Clock, creds ClientCredentials, token Token) (Token, error) {
	return NewExchanger(transport, c, creds).Refresh(ctx, token)
}
