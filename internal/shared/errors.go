package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed          = fmt.Errorf("authentication failed")
	ErrMissingToken        = fmt.Errorf("client was asked to send an authorized request, but no token was available")
	ErrMissingRefreshToken = fmt.Errorf("no refresh token was provided")
	ErrTokenExpired        = fmt.Errorf("access token expired")
	ErrTimeout             = fmt.Errorf("operation timed out")

	// Transport and decoding errors
	ErrTransport  = fmt.Errorf("transport failure")
	ErrDecode     = fmt.Errorf("failed to decode response")
	ErrURL        = fmt.Errorf("invalid URL")
	ErrAPIRequest = fmt.Errorf("API request failed")

	// Token cache errors
	ErrCache = fmt.Errorf("token cache failure")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
