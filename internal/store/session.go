package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/absurd-industries/guild/internal/cache"
	"github.com/absurd-industries/guild/internal/model"
)

// DefaultSessionExpiry is the session lifetime.
const DefaultSessionExpiry = 30 * 24 * time.Hour

// SessionStore persists sessions in two tiers: a durable sqlite row (the
// system of record) and a cache entry with a TTL derived from the same
// expiry instant. The cache is advisory; every hit is re-checked against
// the stored expiry, and correctness never depends on the cache alone.
type SessionStore struct {
	db     *sql.DB
	cache  cache.SessionCache
	users  *UserStore
	logger *slog.Logger
}

func NewSessionStore(db *sql.DB, c cache.SessionCache, users *UserStore, logger *slog.Logger) *SessionStore {
	return &SessionStore{db: db, cache: c, users: users, logger: logger}
}

func scanSession(scanner interface{ Scan(...any) error }) (*model.Session, error) {
	var sess model.Session
	err := scanner.Scan(&sess.ID, &sess.UserID, &sess.ExpiresAt, &sess.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

const sessionCols = `id, user_id, expires_at, created_at`

// Create writes the durable row, then mirrors it into the cache. A cache
// write failure is logged and swallowed: the session is still valid, reads
// just fall through to sqlite until the cache is repopulated.
func (s *SessionStore) Create(ctx context.Context, userID int64, sessionID string, expiry time.Duration) (*model.Session, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(expiry)

	_, err := s.db.Exec(
		`INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)`,
		sessionID, userID, expiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	if s.cache != nil {
		data := cache.SessionData{UserID: userID, ExpiresAt: expiresAt}
		if err := s.cache.Set(ctx, sessionID, data, expiry); err != nil {
			s.logger.Warn("session cache write failed", "error", err)
		}
	}

	row := s.db.QueryRow(`SELECT `+sessionCols+` FROM sessions WHERE id = ?`, sessionID)
	return scanSession(row)
}

// Resolve returns the active user owning a live session, or nil. Lookup
// order: cache first, durable row on miss or cache failure. An expired
// session found by either path is deleted from both tiers.
func (s *SessionStore) Resolve(ctx context.Context, sessionID string) (*model.User, error) {
	var userID int64
	var expiresAt time.Time
	found := false

	if s.cache != nil {
		data, err := s.cache.Get(ctx, sessionID)
		if err != nil {
			// Cache backend unreachable; the durable tier still answers.
			s.logger.Warn("session cache read failed", "error", err)
		} else if data != nil {
			userID = data.UserID
			expiresAt = data.ExpiresAt
			found = true
		}
	}

	if !found {
		row := s.db.QueryRow(`SELECT `+sessionCols+` FROM sessions WHERE id = ?`, sessionID)
		sess, err := scanSession(row)
		if err == sql.ErrNoRows {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("get session: %w", err)
		}
		userID = sess.UserID
		expiresAt = sess.ExpiresAt

		// Repopulate the cache for the remaining lifetime.
		if s.cache != nil {
			if ttl := time.Until(expiresAt); ttl > 0 {
				data := cache.SessionData{UserID: userID, ExpiresAt: expiresAt}
				if err := s.cache.Set(ctx, sessionID, data, ttl); err != nil {
					s.logger.Warn("session cache repopulate failed", "error", err)
				}
			}
		}
	}

	// TTL eviction is not guaranteed to be prompt, so the expiry is checked
	// here regardless of which tier answered.
	if !expiresAt.After(time.Now()) {
		if err := s.Delete(ctx, sessionID); err != nil {
			s.logger.Warn("expired session cleanup failed", "error", err)
		}
		return nil, nil
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("get session user: %w", err)
	}
	// GetByID already filters inactive users; a session for a deactivated
	// user resolves to nil.
	return user, nil
}

// Delete removes a session from both tiers. Idempotent.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if s.cache != nil {
		if err := s.cache.Delete(ctx, sessionID); err != nil {
			s.logger.Warn("session cache delete failed", "error", err)
		}
	}
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Get returns the durable row, or nil. Used by tests and cleanup tooling.
func (s *SessionStore) Get(sessionID string) (*model.Session, error) {
	row := s.db.QueryRow(`SELECT `+sessionCols+` FROM sessions WHERE id = ?`, sessionID)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// DeleteExpired sweeps expired durable rows; their cache entries age out
// via TTL.
func (s *SessionStore) DeleteExpired() (int64, error) {
	result, err := s.db.Exec(`DELETE FROM sessions WHERE expires_at <= datetime('now')`)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}
