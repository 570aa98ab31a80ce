// Package client turns a plain HTTP transport into one that sends authorized requests.
//
// A [Dispatcher] reads the current token from an [oauth.TokenCache] on every call and
// attaches it as a bearer header. Response helpers ([DecodeJSON], [GetJSON]) convert
// non-2xx responses into [*StatusError] values.
package client
