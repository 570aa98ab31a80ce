package oauth

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/spotkit/internal/shared"
)

// CodeFromQuery extracts the authorization code from callback query parameters.
//
// When state is non-empty the callback's state must match it exactly.
func CodeFromQuery(q url.Values, state string) (string, error) {
	if state != "" && q.Get("state") != state {
		return "", fmt.Errorf("%w: state parameter mismatch", shared.ErrAuthFailed)
	}

	code := q.Get("code")
	if code == "" {
		if e := q.Get("error"); e != "" {
			return "", fmt.Errorf("%w: %s", shared.ErrAuthFailed, e)
		}
		return "", fmt.Errorf("%w: redirect URL missing auth code", shared.ErrAuthFailed)
	}
	return code, nil
}

// CodeFromRedirect parses a pasted redirect URL and extracts its authorization code.
func CodeFromRedirect(raw, state string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrURL, err)
	}
	return CodeFromQuery(u.Query(), state)
}
