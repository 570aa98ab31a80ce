package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/spotkit/internal/clock"
	"github.com/desertthunder/spotkit/internal/oauth"
	"github.com/desertthunder/spotkit/internal/shared"
	"github.com/desertthunder/spotkit/internal/tasks"
	tu "github.com/desertthunder/spotkit/internal/testing"
	"github.com/urfave/cli/v3"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// newTestRunner wires a Runner to tr with a cached token that is valid at testNow.
func newTestRunner(t *testing.T, tr *tu.Transport, token *oauth.Token) (*Runner, *bytes.Buffer) {
	t.Helper()
	output := &bytes.Buffer{}
	config := shared.DefaultConfig()
	config.Database.Path = filepath.Join(t.TempDir(), "history.db")

	r := NewRunner(RunnerOpts{
		Config:     config,
		HTTPClient: &http.Client{Transport: tr},
		Clock:      clock.NewFixed(testNow),
		Logger:     shared.DiscardLogger(),
		Output:     output,
		Input:      strings.NewReader(""),
		Cache:      oauth.NewMemoryCache(token),
	})
	t.Cleanup(func() { r.Close() })
	return r, output
}

func validToken() *oauth.Token {
	return &oauth.Token{AccessToken: "abc", TokenType: "Bearer", ExpiresAt: testNow.Add(time.Hour).Unix(), RefreshToken: "R"}
}

func run(r *Runner, args ...string) error {
	app := &cli.Command{Name: "spotkit", Commands: r.register()}
	return app.Run(context.Background(), append([]string{"spotkit"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			cache := oauth.NewMemoryCache(nil)

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Cache:      cache,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient || !runner.customHTTP {
				t.Error("expected httpClient to be set")
			}
			if runner.cache != cache {
				t.Error("expected cache to be set")
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.input != os.Stdin {
				t.Error("expected input to default to os.Stdin")
			}
			if runner.httpClient == nil || runner.customHTTP {
				t.Error("expected an http client built from the config")
			}
			if runner.httpClient.Timeout != runner.config.HTTP.Timeout.Duration {
				t.Errorf("expected timeout %s, got %s", runner.config.HTTP.Timeout.Duration, runner.httpClient.Timeout)
			}
			if _, ok := runner.clock.(clock.System); !ok {
				t.Error("expected system clock")
			}
		})

		t.Run("with configPath sets field", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				ConfigPath: "/test/path/config.toml",
			})

			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Run("missing optional file uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: shared.DiscardLogger()})
			if err := runner.LoadConfig(filepath.Join(t.TempDir(), "none.toml"), false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if runner.config.Cache.Backend != "file" {
				t.Errorf("expected default cache backend, got %q", runner.config.Cache.Backend)
			}
		})

		t.Run("missing required file", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: shared.DiscardLogger()})
			err := runner.LoadConfig(filepath.Join(t.TempDir(), "none.toml"), true)
			if !errors.Is(err, shared.ErrMissingConfig) {
				t.Errorf("expected ErrMissingConfig, got %v", err)
			}
		})

		t.Run("applies file settings", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			data := "[http]\ntimeout = \"5s\"\n\n[log]\nlevel = \"debug\"\n"
			if err := os.WriteFile(path, []byte(data), 0600); err != nil {
				t.Fatal(err)
			}

			runner := NewRunner(RunnerOpts{Logger: shared.DiscardLogger()})
			if err := runner.LoadConfig(path, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if runner.configPath != path {
				t.Errorf("expected configPath %s, got %s", path, runner.configPath)
			}
			if runner.httpClient.Timeout != 5*time.Second {
				t.Errorf("expected rebuilt client with 5s timeout, got %s", runner.httpClient.Timeout)
			}
			if runner.logger.GetLevel().String() != "debug" {
				t.Errorf("expected debug level, got %s", runner.logger.GetLevel())
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if result := output.String(); result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result := output.String(); result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		seen := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			if seen[cmd.Name] {
				t.Errorf("duplicate command %q", cmd.Name)
			}
			seen[cmd.Name] = true
		}
	})
}

func TestClient(t *testing.T) {
	const tokenURL = "https://accounts.spotify.com/api/token"

	t.Run("requires a cached token", func(t *testing.T) {
		r, _ := newTestRunner(t, tu.NewTransport(t), nil)

		_, err := r.client(context.Background())
		if !errors.Is(err, shared.ErrMissingToken) {
			t.Errorf("expected ErrMissingToken, got %v", err)
		}
	})

	t.Run("requires credentials", func(t *testing.T) {
		r, _ := newTestRunner(t, tu.NewTransport(t), validToken())
		r.config.Credentials.Spotify.ClientSecret = ""

		_, err := r.client(context.Background())
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("refreshes an expired token first", func(t *testing.T) {
		tr := tu.NewTransport(t).On(tokenURL, tu.Reply{
			Body: `{"access_token":"fresh","token_type":"Bearer","scope":"s","expires_in":3600}`,
		})
		expired := validToken()
		expired.ExpiresAt = testNow.Add(-time.Minute).Unix()
		r, _ := newTestRunner(t, tr, expired)

		if _, err := r.client(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if tr.Calls() != 1 {
			t.Fatalf("expected one refresh request, got %d", tr.Calls())
		}
		got := r.cache.Current()
		if got.AccessToken != "fresh" || got.RefreshToken != "R" {
			t.Errorf("expected refreshed token keeping the refresh token, got %+v", got)
		}
	})

	t.Run("reuses the client", func(t *testing.T) {
		r, _ := newTestRunner(t, tu.NewTransport(t), validToken())

		a, err := r.client(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		b, _ := r.client(context.Background())
		if a != b {
			t.Error("expected the same client on every call")
		}
	})
}

func TestCommands(t *testing.T) {
	const api = "https://api.spotify.com/v1"

	t.Run("playlists list stops at the limit", func(t *testing.T) {
		tr := tu.NewTransport(t).On(api+"/me/playlists?limit=50", tu.Reply{Body: `{
			"items":[
				{"id":"p1","name":"Mix","owner":{"id":"u1"},"public":true,"tracks":{"total":3}},
				{"id":"p2","name":"Other","owner":{"id":"u1"},"public":false,"tracks":{"total":1}}
			],
			"next":"` + api + `/me/playlists?limit=50&offset=50"}`})
		r, output := newTestRunner(t, tr, validToken())

		if err := run(r, "playlists", "list", "--format", "csv", "--limit", "1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := "Name,Owner,Tracks,Visibility,ID\nMix,u1,3,Public,p1\n"
		if output.String() != want {
			t.Errorf("expected %q, got %q", want, output.String())
		}
		if tr.Calls() != 1 {
			t.Errorf("expected a single page request, got %d", tr.Calls())
		}
		if got := tr.LastRequest().Header.Get("Authorization"); got != "Bearer abc" {
			t.Errorf("expected bearer header, got %q", got)
		}
	})

	t.Run("library contains", func(t *testing.T) {
		tr := tu.NewTransport(t).On(api+"/me/tracks/contains?ids=a%2Cb", tu.Reply{Body: `[true,false]`})
		r, output := newTestRunner(t, tr, validToken())

		if err := run(r, "library", "contains", "tracks", "a", "b"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "✓ a\n✗ b\n" {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("library rejects unknown types", func(t *testing.T) {
		r, _ := newTestRunner(t, tu.NewTransport(t), validToken())

		err := run(r, "library", "save", "podcasts", "x")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("album tracks requires an id", func(t *testing.T) {
		r, _ := newTestRunner(t, tu.NewTransport(t), validToken())

		err := run(r, "albums", "tracks")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("auth status", func(t *testing.T) {
		r, output := newTestRunner(t, tu.NewTransport(t), validToken())

		if err := run(r, "auth", "status"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "✓ Access token valid until") {
			t.Errorf("expected valid token status, got %q", output.String())
		}
		if !strings.Contains(output.String(), "Access token: ***\n") {
			t.Errorf("expected redacted access token, got %q", output.String())
		}
	})

	t.Run("auth status without token", func(t *testing.T) {
		r, output := newTestRunner(t, tu.NewTransport(t), nil)

		if err := run(r, "auth", "status"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Not authorized") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("auth login with pasted redirect", func(t *testing.T) {
		tr := tu.NewTransport(t).On("https://accounts.spotify.com/api/token", tu.Reply{
			Body: `{"access_token":"new","token_type":"Bearer","scope":"s","expires_in":3600,"refresh_token":"R2"}`,
		})
		r, output := newTestRunner(t, tr, nil)
		// The state is random, so a redirect with the wrong state must be rejected before any exchange.
		r.input = strings.NewReader("http://127.0.0.1:3000/callback?code=c&state=wrong\n")

		err := run(r, "auth", "login", "--paste", "--no-browser")
		if err == nil {
			t.Fatal("expected state mismatch error")
		}
		if tr.Calls() != 0 {
			t.Errorf("expected no token request, got %d", tr.Calls())
		}
		if !strings.Contains(output.String(), "https://accounts.spotify.com/authorize?") {
			t.Errorf("expected the authorization URL to be printed, got %q", output.String())
		}
	})

	t.Run("history list is empty", func(t *testing.T) {
		r, output := newTestRunner(t, tu.NewTransport(t), validToken())

		if err := run(r, "history", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "No export runs recorded\n" {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("export records history", func(t *testing.T) {
		tr := tu.NewTransport(t).On(api+"/albums/a1/tracks?limit=50", tu.Reply{
			Body: `{"items":[{"name":"One","track_number":1,"duration_ms":1000,"artists":[]}],"next":null}`,
		})
		r, output := newTestRunner(t, tr, validToken())
		dir := t.TempDir()

		if err := run(r, "export", "--quiet", "--format", "csv", "--output-dir", dir, "album-tracks:a1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "1/1 jobs succeeded, 1 items") {
			t.Errorf("unexpected summary %q", output.String())
		}
		if _, err := os.Stat(filepath.Join(dir, "album-tracks_a1.csv")); err != nil {
			t.Errorf("expected export file: %v", err)
		}

		output.Reset()
		if err := run(r, "history", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "album-tracks:a1") {
			t.Errorf("expected recorded run, got %q", output.String())
		}
	})

	t.Run("export rejects invalid jobs", func(t *testing.T) {
		r, _ := newTestRunner(t, tu.NewTransport(t), validToken())

		if err := run(r, "export"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if err := run(r, "export", "album-tracks"); err == nil {
			t.Error("expected error for job missing its id")
		}
	})
}

func TestTake(t *testing.T) {
	tests := []struct {
		name  string
		items []int
		n     int
		want  int
	}{
		{"fewer than n", []int{1, 2}, 5, 2},
		{"exactly n", []int{1, 2, 3}, 3, 3},
		{"more than n", []int{1, 2, 3, 4}, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := 0
			for _, err := range take(sliceSeq(tt.items), tt.n) {
				if err != nil {
					t.Fatal(err)
				}
				got++
			}
			if got != tt.want {
				t.Errorf("expected %d items, got %d", tt.want, got)
			}
		})
	}
}

func TestParseJobs(t *testing.T) {
	jobs, err := parseJobs([]string{"saved-tracks", "playlist-tracks:p1"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := []tasks.Job{{Kind: tasks.SavedTracks}, {Kind: tasks.PlaylistTracks, ResourceID: "p1"}}
	for i := range want {
		if jobs[i] != want[i] {
			t.Errorf("job %d: expected %+v, got %+v", i, want[i], jobs[i])
		}
	}

	if _, err := parseJobs(nil); !errors.Is(err, shared.ErrMissingArgument) {
		t.Errorf("expected ErrMissingArgument, got %v", err)
	}
}
