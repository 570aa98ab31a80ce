package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/spotkit/internal/oauth"
	"github.com/desertthunder/spotkit/internal/shared"
)

type fakeAuthorizer struct {
	token oauth.Token
	err   error
	codes []string
}

func (f *fakeAuthorizer) Authorize(_ context.Context, code string) (oauth.Token, error) {
	f.codes = append(f.codes, code)
	return f.token, f.err
}

func TestBasicRouter(t *testing.T) {
	t.Run("middleware applied in registration order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mark("first"), mark("second"))
		router.Handle("get", "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		want := []string{"first", "second", "handler"}
		if strings.Join(order, ",") != strings.Join(want, ",") {
			t.Errorf("expected order %v, got %v", want, order)
		}
	})

	t.Run("wrong method rejected", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("recover middleware", func(t *testing.T) {
		router := NewBasicRouter()
		router.Use(Recover(shared.DiscardLogger()), Logging(shared.DiscardLogger()))
		router.Handle(http.MethodGet, "/boom", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})
}

func TestCallbackHandler(t *testing.T) {
	token := oauth.Token{AccessToken: "access", RefreshToken: "refresh"}

	t.Run("successful callback", func(t *testing.T) {
		auth := &fakeAuthorizer{token: token}
		h := NewCallbackHandler(auth, "xyz", "/callback")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?code=abc&state=xyz", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Authorization Successful") {
			t.Errorf("expected success page, got %q", rec.Body.String())
		}
		if len(auth.codes) != 1 || auth.codes[0] != "abc" {
			t.Errorf("expected code abc to be exchanged, got %v", auth.codes)
		}

		res := <-h.Result()
		if res.Err != nil {
			t.Fatalf("unexpected error: %v", res.Err)
		}
		if res.Token.AccessToken != "access" {
			t.Errorf("expected access token, got %q", res.Token.AccessToken)
		}
	})

	t.Run("state mismatch leaves the attempt open", func(t *testing.T) {
		auth := &fakeAuthorizer{token: token}
		h := NewCallbackHandler(auth, "xyz", "/callback")

		for _, target := range []string{"/callback?code=abc&state=other", "/callback", "/callback?error=access_denied"} {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("%s: expected 400, got %d", target, rec.Code)
			}
		}
		if len(auth.codes) != 0 {
			t.Errorf("expected no exchange, got %v", auth.codes)
		}
		select {
		case res := <-h.Result():
			t.Fatalf("expected no result yet, got %+v", res)
		default:
		}

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?code=abc&state=xyz", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for the real callback, got %d", rec.Code)
		}
		if res := <-h.Result(); res.Err != nil || res.Token.AccessToken != "access" {
			t.Errorf("unexpected result %+v", res)
		}
	})

	t.Run("provider error with matching state", func(t *testing.T) {
		auth := &fakeAuthorizer{token: token}
		h := NewCallbackHandler(auth, "xyz", "/callback")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?error=access_denied&state=xyz", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		res := <-h.Result()
		if !errors.Is(res.Err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", res.Err)
		}
	})

	t.Run("exchange failure", func(t *testing.T) {
		auth := &fakeAuthorizer{err: shared.ErrAuthFailed}
		h := NewCallbackHandler(auth, "xyz", "/callback")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?code=abc&state=xyz", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		res := <-h.Result()
		if !errors.Is(res.Err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", res.Err)
		}
	})

	t.Run("second callback rejected", func(t *testing.T) {
		auth := &fakeAuthorizer{token: token}
		h := NewCallbackHandler(auth, "xyz", "/callback")

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/callback?code=abc&state=xyz", nil))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?code=def&state=xyz", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if len(auth.codes) != 1 {
			t.Errorf("expected one exchange, got %d", len(auth.codes))
		}
	})

	t.Run("routes", func(t *testing.T) {
		h := NewCallbackHandler(&fakeAuthorizer{}, "s", "")
		if got := h.Routes(); len(got) != 1 || got[0] != "GET /callback" {
			t.Errorf("unexpected routes %v", got)
		}
	})
}

func TestCallbackServer(t *testing.T) {
	t.Run("delivers token", func(t *testing.T) {
		auth := &fakeAuthorizer{token: oauth.Token{AccessToken: "access", RefreshToken: "refresh"}}
		srv, err := NewCallbackServer(auth, "xyz", "http://127.0.0.1:8888/callback", "127.0.0.1:0", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := srv.Start(); err != nil {
			t.Fatalf("failed to start: %v", err)
		}

		go func() {
			resp, err := http.Get("http://" + srv.Addr() + "/callback?code=abc&state=xyz")
			if err == nil {
				resp.Body.Close()
			}
		}()

		token, err := srv.Wait(context.Background(), 5*time.Second)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token.AccessToken != "access" {
			t.Errorf("expected access token, got %q", token.AccessToken)
		}
	})

	t.Run("times out", func(t *testing.T) {
		srv, err := NewCallbackServer(&fakeAuthorizer{}, "xyz", "http://127.0.0.1:8888/callback", "127.0.0.1:0", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := srv.Start(); err != nil {
			t.Fatalf("failed to start: %v", err)
		}

		_, err = srv.Wait(context.Background(), 10*time.Millisecond)
		if !errors.Is(err, shared.ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
	})

	t.Run("invalid redirect", func(t *testing.T) {
		if _, err := NewCallbackServer(&fakeAuthorizer{}, "s", "://bad", "", nil); !errors.Is(err, shared.ErrURL) {
			t.Errorf("expected ErrURL, got %v", err)
		}
	})
}
