package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"github.com/desertthunder/spotkit/internal/oauth"
)

// Authorizer exchanges an authorization code. [*oauth.Exchanger] satisfies it.
type Authorizer interface {
	Authorize(ctx context.Context, code string) (oauth.Token, error)
}

// CallbackResult is the outcome of one authorization callback.
type CallbackResult struct {
	Token oauth.Token
	Err   error
}

// CallbackHandler receives the OAuth redirect for a single login attempt.
type CallbackHandler struct {
	authorizer Authorizer
	state      string
	path       string

	mu      sync.Mutex
	handled bool
	results chan CallbackResult
}

// NewCallbackHandler creates a handler for path that only accepts callbacks carrying state.
func NewCallbackHandler(a Authorizer, state, path string) *CallbackHandler {
	if path == "" {
		path = "/callback"
	}
	return &CallbackHandler{
		authorizer: a,
		state:      state,
		path:       path,
		results:    make(chan CallbackResult, 1),
	}
}

// Routes returns the callback pattern.
func (h *CallbackHandler) Routes() []string {
	return []string{http.MethodGet + " " + h.path}
}

// ServeHTTP validates the callback, exchanges its code and publishes the result.
//
// Requests without the expected state are rejected and leave the attempt open, so a stray
// request cannot abort the login. The first request carrying the state consumes it.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if h.state != "" && q.Get("state") != h.state {
		renderPage(w, http.StatusBadRequest, "Authorization Failed", "State parameter mismatch.")
		return
	}

	h.mu.Lock()
	if h.handled {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.handled = true
	h.mu.Unlock()

	code, err := oauth.CodeFromQuery(q, h.state)
	if err != nil {
		h.publish(CallbackResult{Err: err})
		renderPage(w, http.StatusBadRequest, "Authorization Failed", err.Error())
		return
	}

	token, err := h.authorizer.Authorize(r.Context(), code)
	if err != nil {
		h.publish(CallbackResult{Err: fmt.Errorf("token exchange failed: %w", err)})
		renderPage(w, http.StatusInternalServerError, "Authorization Failed", "The token exchange failed. Check the terminal for details.")
		return
	}

	h.publish(CallbackResult{Token: token})
	renderPage(w, http.StatusOK, "Authorization Successful", "You can close this window and return to the terminal.")
}

func (h *CallbackHandler) publish(res CallbackResult) {
	h.results <- res
	close(h.results)
}

// Result receives exactly one result and is then closed.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.results
}

var page = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: {{if .OK}}#1DB954{{else}}#E22134{{end}}; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>{{.Title}}</h1>
        <p>{{.Message}}</p>
    </div>
</body>
</html>
`))

func renderPage(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	page.Execute(w, struct {
		Title   string
		Message string
		OK      bool
	}{title, message, status == http.StatusOK})
}
