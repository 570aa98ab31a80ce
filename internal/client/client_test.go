package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/spotkit/internal/oauth"
	"github.com/desertthunder/spotkit/internal/shared"
	tu "github.com/desertthunder/spotkit/internal/testing"
)

const meURL = "https://api.spotify.com/v1/me"

func TestDispatcher(t *testing.T) {
	ctx := context.Background()

	t.Run("missing token makes no transport call", func(t *testing.T) {
		tr := tu.NewTransport(t)
		d := New(tr, &oauth.MemoryCache{})

		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, meURL, nil)
		resp, err := d.SendAuthorized(req)
		if !errors.Is(err, shared.ErrMissingToken) {
			t.Fatalf("expected ErrMissingToken, got %v", err)
		}
		if resp != nil {
			t.Error("expected nil response")
		}
		if tr.Calls() != 0 {
			t.Errorf("expected 0 transport calls, got %d", tr.Calls())
		}
	})

	t.Run("attaches bearer header", func(t *testing.T) {
		tr := tu.NewTransport(t).On(meURL, tu.Reply{Body: `{}`})
		d := New(tr, oauth.NewMemoryCache(&oauth.Token{AccessToken: "abc"}))

		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, meURL, nil)
		req.Header.Set("X-Custom", "kept")

		resp, err := d.SendAuthorized(req)
		if err != nil {
			t.Fatalf("SendAuthorized() error = %v", err)
		}
		resp.Body.Close()

		sent := tr.LastRequest()
		if got := sent.Header.Get("Authorization"); got != "Bearer abc" {
			t.Errorf("expected Bearer abc, got %q", got)
		}
		if sent.Header.Get("X-Custom") != "kept" || sent.Method != http.MethodGet || sent.URL.String() != meURL {
			t.Error("expected request to be forwarded unchanged")
		}
		if req.Header.Get("Authorization") != "" {
			t.Error("caller's request should not be modified")
		}
	})

	t.Run("reads the cache on every call", func(t *testing.T) {
		tr := tu.NewTransport(t).On(meURL, tu.Reply{Body: `{}`})
		cache := oauth.NewMemoryCache(&oauth.Token{AccessToken: "first"})
		d := New(tr, cache)

		for _, want := range []string{"first", "second"} {
			if want == "second" {
				cache.Update(ctx, oauth.Token{AccessToken: "second"})
			}
			req, _ := http.NewRequestWithContext(ctx, http.MethodGet, meURL, nil)
			resp, err := d.SendAuthorized(req)
			if err != nil {
				t.Fatalf("SendAuthorized() error = %v", err)
			}
			resp.Body.Close()
			if got := tr.LastRequest().Header.Get("Authorization"); got != "Bearer "+want {
				t.Errorf("expected Bearer %s, got %q", want, got)
			}
		}
	})

	t.Run("does not retry on 401", func(t *testing.T) {
		tr := tu.NewTransport(t).On(meURL, tu.Reply{Status: http.StatusUnauthorized, Body: `{"error":{"status":401,"message":"The access token expired"}}`})
		d := New(tr, oauth.NewMemoryCache(&oauth.Token{AccessToken: "stale"}))

		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, meURL, nil)
		resp, err := d.SendAuthorized(req)
		if err != nil {
			t.Fatalf("SendAuthorized() error = %v", err)
		}
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401 to be returned, got %d", resp.StatusCode)
		}
		resp.Body.Close()
		if tr.Calls() != 1 {
			t.Errorf("expected exactly 1 call, got %d", tr.Calls())
		}
	})

	t.Run("transport error is wrapped", func(t *testing.T) {
		boom := errors.New("dial tcp: refused")
		tr := tu.NewTransport(t).On(meURL, tu.Reply{Err: boom})
		d := New(tr, oauth.NewMemoryCache(&oauth.Token{AccessToken: "abc"}))

		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, meURL, nil)
		_, err := d.SendAuthorized(req)
		if !errors.Is(err, shared.ErrTransport) || !errors.Is(err, boom) {
			t.Errorf("expected wrapped transport error, got %v", err)
		}
	})

	t.Run("Do is a passthrough", func(t *testing.T) {
		tr := tu.NewTransport(t).On(meURL, tu.Reply{Body: `{}`})
		d := New(tr, &oauth.MemoryCache{})

		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, meURL, nil)
		resp, err := d.Do(req)
		if err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		resp.Body.Close()
		if tr.LastRequest().Header.Get("Authorization") != "" {
			t.Error("Do should not attach credentials")
		}
	})
}

func TestDecodeJSON(t *testing.T) {
	ctx := context.Background()
	cache := oauth.NewMemoryCache(&oauth.Token{AccessToken: "abc"})

	tc := []struct {
		name    string
		reply   tu.Reply
		wantErr error
		status  int
	}{
		{name: "success", reply: tu.Reply{Body: `{"id":"me"}`}},
		{name: "not found", reply: tu.Reply{Status: 404, Body: `{"error":{"status":404,"message":"Not found."}}`}, wantErr: shared.ErrAPIRequest, status: 404},
		{name: "unauthorized", reply: tu.Reply{Status: 401, Body: `{"error":{"status":401,"message":"expired"}}`}, wantErr: shared.ErrTokenExpired, status: 401},
		{name: "non-json error", reply: tu.Reply{Status: 502, Body: `bad gateway`}, wantErr: shared.ErrAPIRequest, status: 502},
		{name: "malformed body", reply: tu.Reply{Body: `{"id":`}, wantErr: shared.ErrDecode},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			tr := tu.NewTransport(t).On(meURL, tt.reply)
			d := New(tr, cache)

			var out struct {
				ID string `json:"id"`
			}
			err := GetJSON(ctx, d, meURL, &out)

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("GetJSON() error = %v", err)
				}
				if out.ID != "me" {
					t.Errorf("expected id me, got %q", out.ID)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.status != 0 {
				var se *StatusError
				if !errors.As(err, &se) || se.StatusCode != tt.status {
					t.Errorf("expected StatusError %d, got %v", tt.status, err)
				}
			}
		})
	}
}

func TestSendJSON(t *testing.T) {
	tr := tu.NewTransport(t).Otherwise(tu.Reply{})
	d := New(tr, oauth.NewMemoryCache(&oauth.Token{AccessToken: "abc"}))

	err := SendJSON(context.Background(), d, http.MethodPut, "https://api.spotify.com/v1/playlists/p1/followers", map[string]bool{"public": false}, nil)
	if err != nil {
		t.Fatalf("SendJSON() error = %v", err)
	}

	req := tr.LastRequest()
	if req.Method != http.MethodPut {
		t.Errorf("expected PUT, got %s", req.Method)
	}
	if req.Header.Get("Content-Type") != "application/json" {
		t.Errorf("unexpected content type %q", req.Header.Get("Content-Type"))
	}
	if body := tu.MustReadBody(t, req); body != `{"public":false}` {
		t.Errorf("unexpected body %s", body)
	}
}

type fakeRefresher struct {
	calls int
	next  oauth.Token
	err   error
}

func (f *fakeRefresher) Refresh(_ context.Context, token oauth.Token) (oauth.Token, error) {
	f.calls++
	if f.err != nil {
		return oauth.Token{}, f.err
	}
	out := f.next
	if out.RefreshToken == "" {
		out.RefreshToken = token.RefreshToken
	}
	return out, nil
}

func TestRefreshingDispatcher(t *testing.T) {
	ctx := context.Background()

	t.Run("refreshes and retries once", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{"id":"me"}`))
		}))
		defer srv.Close()

		cache := oauth.NewMemoryCache(&oauth.Token{AccessToken: "stale", RefreshToken: "r"})
		ref := &fakeRefresher{next: oauth.Token{AccessToken: "fresh"}}
		d := NewRefreshing(New(srv.Client(), cache), ref)

		var out struct {
			ID string `json:"id"`
		}
		if err := GetJSON(ctx, d, srv.URL, &out); err != nil {
			t.Fatalf("GetJSON() error = %v", err)
		}
		if out.ID != "me" {
			t.Errorf("expected me, got %q", out.ID)
		}
		if ref.calls != 1 || calls.Load() != 2 {
			t.Errorf("expected 1 refresh and 2 requests, got %d and %d", ref.calls, calls.Load())
		}
		if got := cache.Current(); got.AccessToken != "fresh" || got.RefreshToken != "r" {
			t.Errorf("expected cache to hold refreshed token, got %+v", got)
		}
	})

	t.Run("second 401 is returned", func(t *testing.T) {
		tr := tu.NewTransport(t).On(meURL, tu.Reply{Status: http.StatusUnauthorized})
		cache := oauth.NewMemoryCache(&oauth.Token{AccessToken: "stale", RefreshToken: "r"})
		ref := &fakeRefresher{next: oauth.Token{AccessToken: "still-bad"}}
		d := NewRefreshing(New(tr, cache), ref)

		err := GetJSON(ctx, d, meURL, nil)
		var se *StatusError
		if !errors.As(err, &se) || se.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401 StatusError, got %v", err)
		}
		if tr.Calls() != 2 || ref.calls != 1 {
			t.Errorf("expected a single retry, got %d calls and %d refreshes", tr.Calls(), ref.calls)
		}
	})

	t.Run("no refresh token", func(t *testing.T) {
		tr := tu.NewTransport(t).On(meURL, tu.Reply{Status: http.StatusUnauthorized})
		d := NewRefreshing(New(tr, oauth.NewMemoryCache(&oauth.Token{AccessToken: "stale"})), &fakeRefresher{})

		err := GetJSON(ctx, d, meURL, nil)
		if !errors.Is(err, shared.ErrMissingRefreshToken) {
			t.Errorf("expected ErrMissingRefreshToken, got %v", err)
		}
	})

	t.Run("refresh failure", func(t *testing.T) {
		tr := tu.NewTransport(t).On(meURL, tu.Reply{Status: http.StatusUnauthorized})
		boom := errors.New("invalid_grant")
		cache := oauth.NewMemoryCache(&oauth.Token{AccessToken: "stale", RefreshToken: "r"})
		d := NewRefreshing(New(tr, cache), &fakeRefresher{err: boom})

		err := GetJSON(ctx, d, meURL, nil)
		if !errors.Is(err, boom) {
			t.Errorf("expected refresh error, got %v", err)
		}
		if cache.Current().AccessToken != "stale" {
			t.Error("cache should be unchanged after a failed refresh")
		}
	})
}

func TestThrottledTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	t.Run("waits are bounded by the request context", func(t *testing.T) {
		rt := NewThrottledTransport(srv.Client().Transport, 0.001, 1)
		client := &http.Client{Transport: rt}

		req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("first request should use the burst: %v", err)
		}
		resp.Body.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		req, _ = http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
		if _, err := client.Do(req); err == nil {
			t.Error("expected second request to fail waiting on the limiter")
		}
	})

	t.Run("NewHTTPClient", func(t *testing.T) {
		c := NewHTTPClient(shared.HTTPConfig{Timeout: shared.Duration{Duration: 5 * time.Second}, RequestsPerSecond: 10, Burst: 2})
		if c.Timeout != 5*time.Second {
			t.Errorf("expected 5s timeout, got %v", c.Timeout)
		}
		if _, ok := c.Transport.(*ThrottledTransport); !ok {
			t.Errorf("expected throttled transport, got %T", c.Transport)
		}

		plain := NewHTTPClient(shared.HTTPConfig{})
		if _, ok := plain.Transport.(*ThrottledTransport); ok {
			t.Error("expected no throttling when requests_per_second is unset")
		}
	})
}

func TestStatusErrorMessage(t *testing.T) {
	err := (&StatusError{StatusCode: 404, Message: "Not found."}).Error()
	if !strings.Contains(err, "404") || !strings.Contains(err, "Not found.") {
		t.Errorf("unexpected message %q", err)
	}
}

func TestRoundTripperFailures(t *testing.T) {
	ctx := context.Background()
	cache := oauth.NewMemoryCache(&oauth.Token{AccessToken: "abc"})

	t.Run("transport error is wrapped", func(t *testing.T) {
		httpClient := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
		d := New(httpClient, cache)

		err := GetJSON(ctx, d, meURL, nil)
		if !errors.Is(err, shared.ErrTransport) {
			t.Fatalf("expected ErrTransport, got %v", err)
		}
	})

	t.Run("body read failure", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: http.Header{}}
		httpClient := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}
		d := New(httpClient, cache)

		var out map[string]any
		err := GetJSON(ctx, d, meURL, &out)
		if !errors.Is(err, shared.ErrTransport) {
			t.Fatalf("expected ErrTransport, got %v", err)
		}
		if !strings.Contains(err.Error(), "read failed") {
			t.Errorf("expected read failure in error, got %v", err)
		}
	})
}
