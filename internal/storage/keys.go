package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// APIKey is a stored serving/reporting key. Only the sha256 hash of the key
// material is persisted.
type APIKey struct {
	ID        string
	UserID    string
	Scopes    []string
	ExpiresAt time.Time // zero when non-expiring
	Revoked   bool
}

// LookupAPIKey resolves a key hash to its record. Revoked and expired keys
// return ErrNotFound. last_used_at is bumped best-effort.
func (s *Store) LookupAPIKey(ctx context.Context, keyHash string) (APIKey, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var (
		k       APIKey
		expires sql.NullTime
		revoked sql.NullTime
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_id, scopes, expires_at, revoked_at
		FROM api_keys
		WHERE key_hash = $1
	`, keyHash).Scan(&k.ID, &k.UserID, &k.Scopes, &expires, &revoked)
	if errors.Is(err, pgx.ErrNoRows) {
		return APIKey{}, ErrNotFound
	}
	if err != nil {
		return APIKey{}, fmt.Errorf("query api key: %w", err)
	}

	if revoked.Valid {
		return APIKey{}, ErrNotFound
	}
	if expires.Valid {
		k.ExpiresAt = expires.Time
		if k.ExpiresAt.Before(time.Now().UTC()) {
			return APIKey{}, ErrNotFound
		}
	}

	if _, err := s.pool.Exec(ctx, `UPDATE api_keys SET last_used_at = now() WHERE id = $1`, k.ID); err != nil {
		log.Debug().Err(err).Str("key_id", k.ID).Msg("bump last_used_at failed")
	}
	return k, nil
}
