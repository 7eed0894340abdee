// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SessionStore is the key/value storage of one session, backed by the
// session_kv table. Entries expire ttl after their last write, which
// stands in for a browser tab being closed.
type SessionStore struct {
	db        *sql.DB
	sessionID string
	ttl       time.Duration
	now       func() time.Time
}

func NewSessionStore(db *sql.DB, sessionID string, ttl time.Duration) *SessionStore {
	return &SessionStore{db: db, sessionID: sessionID, ttl: ttl, now: time.Now}
}

// Get returns the value for key; expired entries read as absent.
func (s *SessionStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM session_kv
		WHERE session_id = $1 AND key = $2 AND expires_at > $3
	`, s.sessionID, key, s.now().UnixMilli()).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Set writes key, replacing any earlier value and refreshing its expiry.
func (s *SessionStore) Set(ctx context.Context, key, value string) error {
	return s.upsert(ctx, s.db, key, value)
}

// Delete removes key. Removing a missing key is not an error.
func (s *SessionStore) Delete(ctx context.Context, key string) error {
	return s.remove(ctx, s.db, key)
}

// Replace writes every entry in one transaction; an empty value deletes
// its key. Either all entries land or none do.
func (s *SessionStore) Replace(ctx context.Context, entries map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for key, value := range entries {
		if value == "" {
			err = s.remove(ctx, tx, key)
		} else {
			err = s.upsert(ctx, tx, key, value)
		}
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session storage: %w", err)
	}
	return nil
}

func (s *SessionStore) upsert(ctx context.Context, ex execer, key, value string) error {
	now := s.now()
	_, err := ex.ExecContext(ctx, `
		INSERT INTO session_kv (session_id, key, value, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id, key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at,
			expires_at = EXCLUDED.expires_at
	`, s.sessionID, key, value, now.UnixMilli(), now.Add(s.ttl).UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *SessionStore) remove(ctx context.Context, ex execer, key string) error {
	_, err := ex.ExecContext(ctx, `
		DELETE FROM session_kv WHERE session_id = $1 AND key = $2
	`, s.sessionID, key)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// SweepExpired deletes every entry that expired before now and returns
// how many rows were removed.
func SweepExpired(ctx context.Context, db *sql.DB, now time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, `
		DELETE FROM session_kv WHERE expires_at <= $1
	`, now.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep session storage: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count swept rows: %w", err)
	}
	return n, nil
}
