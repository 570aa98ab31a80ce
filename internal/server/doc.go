// Package server runs the local HTTP endpoint that receives the OAuth redirect.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation registers method-qualified patterns on an [http.ServeMux].
//
// # Callback Handler
//
// [CallbackHandler] validates the state parameter, exchanges the authorization code for a token
// and delivers exactly one result on a channel. Later callbacks are rejected.
//
// # Callback Server
//
// [CallbackServer] binds the redirect URI's host and port, serves the callback route and shuts
// down once a result arrives, the context ends or the timeout passes.
package server
