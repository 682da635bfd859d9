package store

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/absurd-industries/guild/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	var displayName, makerName, bio, tagline, avatarURL, avatarKey sql.NullString

	err := scanner.Scan(
		&u.ID, &u.Email, &displayName, &makerName, &bio, &tagline,
		&avatarURL, &avatarKey, &u.IsMaker, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.DisplayName = displayName.String
	u.MakerName = makerName.String
	u.Bio = bio.String
	u.Tagline = tagline.String
	u.AvatarURL = avatarURL.String
	u.AvatarKey = avatarKey.String
	return &u, nil
}

const userCols = `id, email, display_name, maker_name, bio, tagline, avatar_url, avatar_key, is_maker, is_active, created_at, updated_at`

// Create inserts a user with only an email; everything else is filled in
// later through profile setup.
func (s *UserStore) Create(email string) (*model.User, error) {
	result, err := s.db.Exec(`INSERT INTO users (email) VALUES (?)`, email)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetByID returns the active user with the given id, or nil.
func (s *UserStore) GetByID(id int64) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ? AND is_active = 1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetByEmail returns the active user with the given email, or nil.
func (s *UserStore) GetByEmail(email string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE email = ? AND is_active = 1`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// GetByMakerName returns the active maker with the given public name, or nil.
func (s *UserStore) GetByMakerName(makerName string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE maker_name = ? AND is_maker = 1 AND is_active = 1`, makerName)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by maker name: %w", err)
	}
	return u, nil
}

// makerNamePattern: lowercase letters and hyphens, starting with a letter.
var makerNamePattern = regexp.MustCompile(`^[a-z][a-z-]*$`)

// ValidateMakerName checks the public maker-name format. Returns a
// user-facing message when invalid, empty string when valid.
func ValidateMakerName(makerName string) string {
	switch {
	case len(makerName) < 2:
		return "Maker name must be at least 2 characters long"
	case len(makerName) > 50:
		return "Maker name must be less than 50 characters"
	case !makerNamePattern.MatchString(makerName):
		return "Maker name can only contain lowercase letters and hyphens, and must start with a letter"
	case strings.HasSuffix(makerName, "-"):
		return "Maker name cannot end with a hyphen"
	case strings.Contains(makerName, "--"):
		return "Maker name cannot contain consecutive hyphens"
	}
	return ""
}

// IsMakerNameAvailable reports whether no other user holds the maker name.
func (s *UserStore) IsMakerNameAvailable(makerName string, excludeUserID int64) (bool, error) {
	var id int64
	err := s.db.QueryRow(
		`SELECT id FROM users WHERE maker_name = ? AND id != ?`,
		makerName, excludeUserID,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("check maker name: %w", err)
	}
	return false, nil
}

// MakerProfileData carries the profile fields set during maker setup.
type MakerProfileData struct {
	MakerName   string
	DisplayName string
	Bio         string
	Tagline     string
	AvatarURL   string
	AvatarKey   string
}

// CreateMakerProfile converts a user into a maker. The maker name must
// already be validated and available.
func (s *UserStore) CreateMakerProfile(userID int64, data MakerProfileData) (*model.User, error) {
	_, err := s.db.Exec(
		`UPDATE users SET
			is_maker = 1, maker_name = ?, display_name = ?, bio = ?, tagline = ?,
			avatar_url = ?, avatar_key = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		data.MakerName, data.DisplayName, data.Bio, data.Tagline,
		data.AvatarURL, data.AvatarKey, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("create maker profile: %w", err)
	}
	return s.GetByID(userID)
}

// UpdateProfile updates the editable profile fields.
func (s *UserStore) UpdateProfile(userID int64, displayName, bio, tagline, avatarURL, avatarKey string) (*model.User, error) {
	_, err := s.db.Exec(
		`UPDATE users SET
			display_name = ?, bio = ?, tagline = ?, avatar_url = ?, avatar_key = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		displayName, bio, tagline, avatarURL, avatarKey, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.GetByID(userID)
}

// Deactivate soft-deletes a user. Rows are never hard-deleted; sessions for
// a deactivated user stop resolving.
func (s *UserStore) Deactivate(userID int64) error {
	_, err := s.db.Exec(
		`UPDATE users SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	return nil
}

// ListMakers returns active makers, newest first.
func (s *UserStore) ListMakers(limit, offset int) ([]*model.User, error) {
	rows, err := s.db.Query(
		`SELECT `+userCols+` FROM users WHERE is_maker = 1 AND is_active = 1 ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list makers: %w", err)
	}
	defer rows.Close()

	var makers []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan maker: %w", err)
		}
		makers = append(makers, u)
	}
	return makers, rows.Err()
}
