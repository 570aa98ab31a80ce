package tokencache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/spotkit/internal/oauth"
	"github.com/desertthunder/spotkit/internal/shared"
)

// FileStore keeps the token as JSON in a single file.
type FileStore struct {
	path string
}

// NewFileStore returns a store for path, creating an empty file (mode 0600) when none exists.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: token file path must be set", shared.ErrInvalidConfig)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, &Error{Backend: "file", Op: "open", Err: err}
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, &Error{Backend: "file", Op: "open", Err: err}
	}
	f.Close()

	return &FileStore{path: path}, nil
}

func (s *FileStore) Name() string { return "file" }

// Path returns the token file location.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(context.Context) (*oauth.Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return decodeToken(data)
}

// Save writes to a temporary file in the same directory and renames it over the
// target, so readers see either the old or the new token.
func (s *FileStore) Save(_ context.Context, token oauth.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".token-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set token file mode: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write token: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync token: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace token file: %w", err)
	}
	return nil
}

// decodeToken parses stored JSON. Empty input means no token.
func decodeToken(data []byte) (*oauth.Token, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var token oauth.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDecode, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: stored token has no access_token", shared.ErrDecode)
	}
	return &token, nil
}
