package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/absurd-industries/guild/internal/model"
)

// DefaultMagicLinkExpiry is how long a magic link stays valid. Multiple
// outstanding links per email are allowed; expiry is the only abuse defense.
const DefaultMagicLinkExpiry = 15 * time.Minute

type MagicLinkStore struct {
	db *sql.DB
}

func NewMagicLinkStore(db *sql.DB) *MagicLinkStore {
	return &MagicLinkStore{db: db}
}

func scanMagicLink(scanner interface{ Scan(...any) error }) (*model.MagicLink, error) {
	var ml model.MagicLink
	var usedAt sql.NullTime

	err := scanner.Scan(&ml.ID, &ml.Email, &ml.Token, &ml.ExpiresAt, &usedAt, &ml.CreatedAt)
	if err != nil {
		return nil, err
	}
	if usedAt.Valid {
		ml.UsedAt = &usedAt.Time
	}
	return &ml, nil
}

const magicLinkCols = `id, email, token, expires_at, used_at, created_at`

// Create inserts a new magic link for the email, expiring after the given
// duration. Earlier links for the same email remain independently valid.
func (s *MagicLinkStore) Create(email, token string, expiry time.Duration) (*model.MagicLink, error) {
	expiresAt := time.Now().UTC().Add(expiry)

	result, err := s.db.Exec(
		`INSERT INTO magic_links (email, token, expires_at) VALUES (?, ?, ?)`,
		email, token, expiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert magic link: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+magicLinkCols+` FROM magic_links WHERE id = ?`, id)
	return scanMagicLink(row)
}

// Consume validates and marks a token used in one conditional write, so two
// concurrent attempts with the same token cannot both succeed. Returns the
// owning email and true on success; not-found, expired, and already-used all
// come back as a plain false.
func (s *MagicLinkStore) Consume(token string) (string, bool, error) {
	result, err := s.db.Exec(
		`UPDATE magic_links SET used_at = datetime('now')
		 WHERE token = ? AND used_at IS NULL AND expires_at > datetime('now')`,
		token,
	)
	if err != nil {
		return "", false, fmt.Errorf("consume magic link: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return "", false, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return "", false, nil
	}

	var email string
	if err := s.db.QueryRow(`SELECT email FROM magic_links WHERE token = ?`, token).Scan(&email); err != nil {
		return "", false, fmt.Errorf("read consumed magic link: %w", err)
	}
	return email, true, nil
}

// GetByToken returns the link row regardless of validity, or nil. Used by
// tests and diagnostics; consumption goes through Consume.
func (s *MagicLinkStore) GetByToken(token string) (*model.MagicLink, error) {
	row := s.db.QueryRow(`SELECT `+magicLinkCols+` FROM magic_links WHERE token = ?`, token)
	ml, err := scanMagicLink(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get magic link by token: %w", err)
	}
	return ml, nil
}

// CountByEmail returns how many link rows exist for an email.
func (s *MagicLinkStore) CountByEmail(email string) (int64, error) {
	var n int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM magic_links WHERE email = ?`, email).Scan(&n); err != nil {
		return 0, fmt.Errorf("count magic links: %w", err)
	}
	return n, nil
}

// DeleteExpired removes rows past their expiry. Purely a storage-growth
// concern: expired rows are already excluded from consumption.
func (s *MagicLinkStore) DeleteExpired() (int64, error) {
	result, err := s.db.Exec(`DELETE FROM magic_links WHERE expires_at <= datetime('now')`)
	if err != nil {
		return 0, fmt.Errorf("delete expired magic links: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}
