// Package oauth implements the Spotify authorization-code and refresh exchanges and the [Token] they produce.
//
// # Tokens
//
// A [Token] is an immutable value. Its ExpiresAt field is always computed from an injected
// [clock.Clock] when the token is built ([NewToken]); the server only reports a relative
// expires_in. Refreshing produces a new Token.
//
// # Token cache
//
// [TokenCache] is the single-slot store consulted on every authorized request.
// [MemoryCache] keeps the token in process; persistent backends live in the tokencache package.
//
// # Exchanges
//
// [AuthorizeURL] builds the consent URL, [Authorize] trades an authorization code for a token
// and [Refresh] renews one. The code exchange must return a refresh token
// ([shared.ErrMissingRefreshToken] otherwise); a refresh response that omits one keeps the
// previous refresh token.
package oauth
