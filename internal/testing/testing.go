// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter passes the first n writes through to w and fails the rest.
type LimitedWriter struct {
	remaining int
	w         io.Writer
}

func NewLimitedWriter(n int, w io.Writer) LimitedWriter {
	return LimitedWriter{remaining: n, w: w}
}

func (l *LimitedWriter) Write(p []byte) (int, error) {
	if l.remaining <= 0 {
		return 0, errors.New("write limit reached")
	}
	l.remaining--
	return l.w.Write(p)
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// Reply is one canned response for [Transport].
type Reply struct {
	Status int
	Body   string
	Header http.Header
	Err    error
}

// Transport is a Do-style test double that answers requests by URL and records every call.
//
// It fails the test if two requests are ever in flight at the same time.
type Transport struct {
	t        *testing.T
	mu       sync.Mutex
	replies  map[string]Reply
	fallback *Reply
	requests []*http.Request
	inFlight atomic.Int32
}

// NewTransport returns a Transport that fails the test for any URL without a reply.
func NewTransport(t *testing.T) *Transport {
	t.Helper()
	return &Transport{t: t, replies: make(map[string]Reply)}
}

// On registers the reply for an exact request URL.
func (tr *Transport) On(url string, r Reply) *Transport {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.replies[url] = r
	return tr
}

// Otherwise registers the reply for any URL without a specific one.
func (tr *Transport) Otherwise(r Reply) *Transport {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.fallback = &r
	return tr
}

// Do implements the transport capability used by the client packages.
func (tr *Transport) Do(req *http.Request) (*http.Response, error) {
	if n := tr.inFlight.Add(1); n > 1 {
		tr.t.Errorf("concurrent requests in flight: %d", n)
	}
	defer tr.inFlight.Add(-1)

	tr.mu.Lock()
	tr.requests = append(tr.requests, req)
	reply, ok := tr.replies[req.URL.String()]
	if !ok && tr.fallback != nil {
		reply, ok = *tr.fallback, true
	}
	tr.mu.Unlock()

	if !ok {
		tr.t.Errorf("unexpected request: %s %s", req.Method, req.URL)
		return nil, errors.New("no reply registered")
	}
	if reply.Err != nil {
		return nil, reply.Err
	}

	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	header := reply.Header
	if header == nil {
		header = http.Header{"Content-Type": {"application/json"}}
	}

	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(reply.Body)),
		Request:    req,
	}, nil
}

// RoundTrip lets a Transport back an [http.Client].
func (tr *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	return tr.Do(req)
}

// Calls returns the number of requests received.
func (tr *Transport) Calls() int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return len(tr.requests)
}

// Requests returns the recorded requests in arrival order.
func (tr *Transport) Requests() []*http.Request {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	out := make([]*http.Request, len(tr.requests))
	copy(out, tr.requests)
	return out
}

// LastRequest returns the most recent request, failing the test when there is none.
func (tr *Transport) LastRequest() *http.Request {
	tr.t.Helper()
	reqs := tr.Requests()
	if len(reqs) == 0 {
		tr.t.Fatal("no requests recorded")
	}
	return reqs[len(reqs)-1]
}

// MustReadBody reads and returns the request body.
func MustReadBody(t *testing.T, req *http.Request) string {
	t.Helper()
	if req.Body == nil {
		return ""
	}
	b, err := io.ReadAll(req.Body)
	if err != nil {
		t.Fatalf("failed to read request body: %v", err)
	}
	return string(b)
}
