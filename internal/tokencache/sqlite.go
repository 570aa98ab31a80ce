package tokencache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/spotkit/internal/oauth"
	"github.com/desertthunder/spotkit/internal/shared"
)

// SQLiteStore keeps the token in the single-row tokens table.
type SQLiteStore struct {
	db    *sql.DB
	owned bool
}

// NewSQLiteStore uses an existing, migrated database. The caller keeps ownership of db.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// OpenSQLiteStore opens and migrates the database described by cfg.
func OpenSQLiteStore(ctx context.Context, cfg shared.DatabaseConfig) (*SQLiteStore, error) {
	db, err := shared.OpenDatabase(ctx, cfg)
	if err != nil {
		return nil, &Error{Backend: "sqlite", Op: "open", Err: err}
	}
	return &SQLiteStore{db: db, owned: true}, nil
}

func (s *SQLiteStore) Name() string { return "sqlite" }

// DB exposes the underlying handle so other tables can share it.
func (s *SQLiteStore) DB() *sql.DB { return s.db }

func (s *SQLiteStore) Load(ctx context.Context) (*oauth.Token, error) {
	query := `SELECT access_token, token_type, expires_in, expires_at, refresh_token, scope
		FROM tokens WHERE slot = 1`

	var t oauth.Token
	err := s.db.QueryRowContext(ctx, query).Scan(
		&t.AccessToken, &t.TokenType, &t.ExpiresIn, &t.ExpiresAt, &t.RefreshToken, &t.Scope,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}
	if t.AccessToken == "" {
		return nil, fmt.Errorf("%w: stored token has no access_token", shared.ErrDecode)
	}
	return &t, nil
}

func (s *SQLiteStore) Save(ctx context.Context, token oauth.Token) error {
	query := `
		INSERT INTO tokens (slot, access_token, token_type, expires_in, expires_at, refresh_token, scope, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(slot) DO UPDATE SET
			access_token = excluded.access_token,
			token_type = excluded.token_type,
			expires_in = excluded.expires_in,
			expires_at = excluded.expires_at,
			refresh_token = excluded.refresh_token,
			scope = excluded.scope,
			updated_at = CURRENT_TIMESTAMP`

	_, err := s.db.ExecContext(ctx, query,
		token.AccessToken, token.TokenType, token.ExpiresIn, token.ExpiresAt, token.RefreshToken, token.Scope,
	)
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// Close closes the database when the store opened it.
func (s *SQLiteStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}
