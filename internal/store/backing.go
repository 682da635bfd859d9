package store

import (
	"database/sql"
	"fmt"

	"github.com/absurd-industries/guild/internal/model"
)

type BackingStore struct {
	db *sql.DB
}

func NewBackingStore(db *sql.DB) *BackingStore {
	return &BackingStore{db: db}
}

func scanBacking(scanner interface{ Scan(...any) error }) (*model.Backing, error) {
	var b model.Backing
	err := scanner.Scan(
		&b.ID, &b.CampaignID, &b.BackerID, &b.RewardTitle, &b.RewardPrice,
		&b.CommitmentAmount, &b.ShippingName, &b.ShippingAddress, &b.ShippingCity,
		&b.ShippingState, &b.ShippingPincode, &b.ShippingPhone, &b.Status, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

const backingCols = `id, campaign_id, backer_id, reward_title, reward_price, commitment_amount, shipping_name, shipping_address, shipping_city, shipping_state, shipping_pincode, shipping_phone, status, created_at`

// BackingData carries the fields collected on the backing form. The
// commitment amount is computed by the caller from the campaign's
// commitment percentage; the remainder is charged on delivery.
type BackingData struct {
	RewardTitle      string
	RewardPrice      int64
	CommitmentAmount int64
	ShippingName     string
	ShippingAddress  string
	ShippingCity     string
	ShippingState    string
	ShippingPincode  string
	ShippingPhone    string
}

// Create records a backing commitment.
func (s *BackingStore) Create(campaignID, backerID int64, data BackingData) (*model.Backing, error) {
	result, err := s.db.Exec(
		`INSERT INTO backings (
			campaign_id, backer_id, reward_title, reward_price, commitment_amount,
			shipping_name, shipping_address, shipping_city, shipping_state,
			shipping_pincode, shipping_phone
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		campaignID, backerID, data.RewardTitle, data.RewardPrice, data.CommitmentAmount,
		data.ShippingName, data.ShippingAddress, data.ShippingCity, data.ShippingState,
		data.ShippingPincode, data.ShippingPhone,
	)
	if err != nil {
		return nil, fmt.Errorf("insert backing: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+backingCols+` FROM backings WHERE id = ?`, id)
	return scanBacking(row)
}

// ListByCampaign returns a campaign's backings, newest first.
func (s *BackingStore) ListByCampaign(campaignID int64) ([]*model.Backing, error) {
	return s.list(
		`SELECT `+backingCols+` FROM backings WHERE campaign_id = ? ORDER BY created_at DESC`,
		campaignID,
	)
}

// ListByBacker returns a user's backings, newest first.
func (s *BackingStore) ListByBacker(backerID int64) ([]*model.Backing, error) {
	return s.list(
		`SELECT `+backingCols+` FROM backings WHERE backer_id = ? ORDER BY created_at DESC`,
		backerID,
	)
}

func (s *BackingStore) list(query string, args ...any) ([]*model.Backing, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list backings: %w", err)
	}
	defer rows.Close()

	var backings []*model.Backing
	for rows.Next() {
		b, err := scanBacking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan backing: %w", err)
		}
		backings = append(backings, b)
	}
	return backings, rows.Err()
}

// TotalCommitted sums the committed amounts for a campaign.
func (s *BackingStore) TotalCommitted(campaignID int64) (int64, error) {
	var total int64
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(commitment_amount), 0) FROM backings WHERE campaign_id = ?`,
		campaignID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total committed: %w", err)
	}
	return total, nil
}
