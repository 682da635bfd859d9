package store

import (
	"database/sql"
	"fmt"

	"github.com/absurd-industries/guild/internal/model"
)

type ProfileLinkStore struct {
	db *sql.DB
}

func NewProfileLinkStore(db *sql.DB) *ProfileLinkStore {
	return &ProfileLinkStore{db: db}
}

const profileLinkCols = `id, user_id, title, url, created_at`

func scanProfileLink(scanner interface{ Scan(...any) error }) (*model.ProfileLink, error) {
	var l model.ProfileLink
	if err := scanner.Scan(&l.ID, &l.UserID, &l.Title, &l.URL, &l.CreatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *ProfileLinkStore) Create(userID int64, title, url string) (*model.ProfileLink, error) {
	result, err := s.db.Exec(
		`INSERT INTO profile_links (user_id, title, url) VALUES (?, ?, ?)`,
		userID, title, url,
	)
	if err != nil {
		return nil, fmt.Errorf("insert profile link: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+profileLinkCols+` FROM profile_links WHERE id = ?`, id)
	return scanProfileLink(row)
}

func (s *ProfileLinkStore) ListByUser(userID int64) ([]*model.ProfileLink, error) {
	rows, err := s.db.Query(
		`SELECT `+profileLinkCols+` FROM profile_links WHERE user_id = ? ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list profile links: %w", err)
	}
	defer rows.Close()

	var links []*model.ProfileLink
	for rows.Next() {
		l, err := scanProfileLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile link: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (s *ProfileLinkStore) Delete(userID, linkID int64) error {
	_, err := s.db.Exec(`DELETE FROM profile_links WHERE id = ? AND user_id = ?`, linkID, userID)
	if err != nil {
		return fmt.Errorf("delete profile link: %w", err)
	}
	return nil
}
