package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/desertthunder/spotkit/internal/shared"
)

// StatusError is a non-2xx response from the Web API.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("spotify API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("spotify API error: status %d: %s", e.StatusCode, e.Message)
}

// Unwrap exposes [shared.ErrAPIRequest], plus [shared.ErrTokenExpired] for 401 responses.
func (e *StatusError) Unwrap() []error {
	if e.StatusCode == http.StatusUnauthorized {
		return []error{shared.ErrAPIRequest, shared.ErrTokenExpired}
	}
	return []error{shared.ErrAPIRequest}
}

// ReadBody drains and closes resp.Body, converting non-2xx responses to a [*StatusError].
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", shared.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, body)
	}
	return body, nil
}

func statusError(code int, body []byte) *StatusError {
	se := &StatusError{StatusCode: code}
	var payload struct {
		Error struct {
			Status  int    `json:"status"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		se.Message = payload.Error.Message
	}
	return se
}

// DecodeJSON reads resp and decodes its body into v. A nil v discards the body.
func DecodeJSON(resp *http.Response, v any) error {
	body, err := ReadBody(resp)
	if err != nil {
		return err
	}
	if v == nil || (resp.StatusCode == http.StatusNoContent && len(bytes.TrimSpace(body)) == 0) {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrDecode, err)
	}
	return nil
}

// GetJSON issues an authorized GET for rawURL and decodes the response into v.
func GetJSON(ctx context.Context, s Sender, rawURL string, v any) error {
	return SendJSON(ctx, s, http.MethodGet, rawURL, nil, v)
}

// SendJSON issues an authorized request with an optional JSON body and decodes the response into v.
func SendJSON(ctx context.Context, s Sender, method, rawURL string, body, v any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, r)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrURL, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.SendAuthorized(req)
	if err != nil {
		return err
	}
	return DecodeJSON(resp, v)
}
