package oauth

import (
	"encoding/base64"
	"time"

	"github.com/desertthunder/spotkit/internal/clock"
	"golang.org/x/oauth2"
)

// ClientCredentials identify the application to the accounts service.
type ClientCredentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RedirectURI  string `json:"redirect_uri"`
}

// AuthorizationHeader returns the HTTP Basic header value for the token endpoint.
func (c ClientCredentials) AuthorizationHeader() string {
	s := base64.StdEncoding.EncodeToString([]byte(c.ClientID + ":" + c.ClientSecret))
	return "Basic " + s
}

// Token is an access credential with its refresh credential and absolute expiry.
type Token struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    uint32 `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"` // unix seconds
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
}

// NewToken builds a Token whose ExpiresAt is the clock's current unix second plus expiresIn.
func NewToken(c clock.Clock, accessToken, tokenType string, expiresIn uint32, refreshToken, scope string) Token {
	return Token{
		AccessToken:  accessToken,
		TokenType:    tokenType,
		ExpiresIn:    expiresIn,
		ExpiresAt:    c.Now().Unix() + int64(expiresIn),
		RefreshToken: refreshToken,
		Scope:        scope,
	}
}

// Expiry returns ExpiresAt as a [time.Time].
func (t Token) Expiry() time.Time {
	return time.Unix(t.ExpiresAt, 0)
}

// Expired reports whether the access token has expired according to c.
func (t Token) Expired(c clock.Clock) bool {
	return c.Now().Unix() >= t.ExpiresAt
}

// OAuth2 converts the token for use with [oauth2.TokenSource] consumers.
func (t Token) OAuth2() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
		Expiry:       t.Expiry(),
	}
}
