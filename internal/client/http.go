package client

import (
	"net/http"

	"github.com/desertthunder/spotkit/internal/shared"
	"golang.org/x/time/rate"
)

// NewHTTPClient builds the raw transport described by cfg.
//
// A positive RequestsPerSecond paces outgoing requests through a token bucket.
// Pacing waits honour the request context.
func NewHTTPClient(cfg shared.HTTPConfig) *http.Client {
	var rt http.RoundTripper = http.DefaultTransport
	if cfg.RequestsPerSecond > 0 {
		rt = NewThrottledTransport(rt, cfg.RequestsPerSecond, cfg.Burst)
	}
	return &http.Client{Timeout: cfg.Timeout.Duration, Transport: rt}
}

// ThrottledTransport is a [http.RoundTripper] that waits on a rate limiter before each request.
type ThrottledTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

// NewThrottledTransport wraps base so that at most rps requests per second are sent,
// with bursts of up to burst. A burst below one is treated as one.
func NewThrottledTransport(base http.RoundTripper, rps float64, burst int) *ThrottledTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if burst < 1 {
		burst = 1
	}
	return &ThrottledTransport{base: base, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (t *ThrottledTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}
