package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/absurd-industries/guild/internal/model"
	"github.com/absurd-industries/guild/internal/video"
)

type CampaignStore struct {
	db *sql.DB
}

func NewCampaignStore(db *sql.DB) *CampaignStore {
	return &CampaignStore{db: db}
}

func scanCampaign(scanner interface{ Scan(...any) error }) (*model.Campaign, error) {
	var c model.Campaign
	var description, shortDescription, heroVideoURL, heroVideoEmbed sql.NullString
	var heroVideoThumbnail, storyContent, category, shippingDate sql.NullString
	var endsAt sql.NullTime

	err := scanner.Scan(
		&c.ID, &c.CreatorID, &c.Title, &c.Slug, &description, &shortDescription,
		&heroVideoURL, &heroVideoEmbed, &heroVideoThumbnail, &storyContent,
		&c.FundingGoal, &c.CurrentFunding, &c.CommitmentPercentage, &c.Status,
		&category, &shippingDate, &endsAt, &c.ViewsCount, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Description = description.String
	c.ShortDescription = shortDescription.String
	c.HeroVideoURL = heroVideoURL.String
	c.HeroVideoEmbed = heroVideoEmbed.String
	c.HeroVideoThumbnail = heroVideoThumbnail.String
	c.StoryContent = storyContent.String
	c.Category = category.String
	c.EstimatedShippingDate = shippingDate.String
	if endsAt.Valid {
		c.EndsAt = &endsAt.Time
	}
	return &c, nil
}

const campaignCols = `id, creator_id, title, slug, description, short_description, hero_video_url, hero_video_embed, hero_video_thumbnail, story_content, funding_goal, current_funding, commitment_percentage, status, category, estimated_shipping_date, ends_at, views_count, created_at, updated_at`

// CampaignData carries the writable campaign fields.
type CampaignData struct {
	Title                 string
	Slug                  string
	Description           string
	ShortDescription      string
	HeroVideoURL          string
	StoryContent          string
	FundingGoal           int64
	CommitmentPercentage  int
	Category              string
	EstimatedShippingDate string
	EndsAt                *time.Time
}

// Create inserts a draft campaign. A hero video URL, when present, is parsed
// into embed and thumbnail URLs; an unrecognized URL is stored as-is with no
// embed.
func (s *CampaignStore) Create(creatorID int64, data CampaignData) (*model.Campaign, error) {
	slug := data.Slug
	if slug == "" {
		slug = Slugify(data.Title)
	}
	if slug == "" {
		return nil, fmt.Errorf("campaign title produces empty slug")
	}

	available, err := s.IsSlugAvailable(slug, 0)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, fmt.Errorf("a campaign with this slug already exists")
	}

	pct := data.CommitmentPercentage
	if pct <= 0 {
		pct = 40
	}

	var embedURL, thumbnailURL string
	if data.HeroVideoURL != "" {
		if vd := video.Parse(data.HeroVideoURL); vd != nil {
			embedURL = vd.EmbedURL
			thumbnailURL = vd.ThumbnailURL
		}
	}

	result, err := s.db.Exec(
		`INSERT INTO campaigns (
			creator_id, title, slug, description, short_description,
			hero_video_url, hero_video_embed, hero_video_thumbnail,
			story_content, funding_goal, commitment_percentage, category,
			estimated_shipping_date, ends_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		creatorID, data.Title, slug, data.Description, data.ShortDescription,
		data.HeroVideoURL, embedURL, thumbnailURL,
		data.StoryContent, data.FundingGoal, pct, data.Category,
		data.EstimatedShippingDate, data.EndsAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert campaign: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

// Update rewrites the editable fields of a campaign owned by the creator.
func (s *CampaignStore) Update(creatorID, campaignID int64, data CampaignData) (*model.Campaign, error) {
	existing, err := s.GetByID(campaignID)
	if err != nil {
		return nil, err
	}
	if existing == nil || existing.CreatorID != creatorID {
		return nil, fmt.Errorf("campaign not found")
	}

	slug := existing.Slug
	if data.Title != "" && data.Title != existing.Title {
		slug = Slugify(data.Title)
		available, err := s.IsSlugAvailable(slug, campaignID)
		if err != nil {
			return nil, err
		}
		if !available {
			return nil, fmt.Errorf("a campaign with this slug already exists")
		}
	}

	// A form that omits the percentage must not zero it out; a campaign
	// with pct 0 would commit nothing and could never reach its goal.
	pct := data.CommitmentPercentage
	if pct <= 0 {
		pct = existing.CommitmentPercentage
	}

	var embedURL, thumbnailURL string
	if data.HeroVideoURL != "" {
		if vd := video.Parse(data.HeroVideoURL); vd != nil {
			embedURL = vd.EmbedURL
			thumbnailURL = vd.ThumbnailURL
		}
	}

	_, err = s.db.Exec(
		`UPDATE campaigns SET
			title = ?, slug = ?, description = ?, short_description = ?,
			hero_video_url = ?, hero_video_embed = ?, hero_video_thumbnail = ?,
			story_content = ?, funding_goal = ?, commitment_percentage = ?,
			category = ?, estimated_shipping_date = ?, ends_at = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND creator_id = ?`,
		data.Title, slug, data.Description, data.ShortDescription,
		data.HeroVideoURL, embedURL, thumbnailURL,
		data.StoryContent, data.FundingGoal, pct,
		data.Category, data.EstimatedShippingDate, data.EndsAt,
		campaignID, creatorID,
	)
	if err != nil {
		return nil, fmt.Errorf("update campaign: %w", err)
	}
	return s.GetByID(campaignID)
}

// UpdateStatus applies a guarded status transition.
func (s *CampaignStore) UpdateStatus(creatorID, campaignID int64, status string) error {
	existing, err := s.GetByID(campaignID)
	if err != nil {
		return err
	}
	if existing == nil || existing.CreatorID != creatorID {
		return fmt.Errorf("campaign not found")
	}
	if !model.CanTransition(existing.Status, status) {
		return fmt.Errorf("cannot move campaign from %s to %s", existing.Status, status)
	}

	_, err = s.db.Exec(
		`UPDATE campaigns SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, campaignID,
	)
	if err != nil {
		return fmt.Errorf("update campaign status: %w", err)
	}
	return nil
}

// GetByID returns a campaign, or nil.
func (s *CampaignStore) GetByID(id int64) (*model.Campaign, error) {
	row := s.db.QueryRow(`SELECT `+campaignCols+` FROM campaigns WHERE id = ?`, id)
	c, err := scanCampaign(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	return c, nil
}

// GetBySlug returns a campaign by its public slug, or nil.
func (s *CampaignStore) GetBySlug(slug string) (*model.Campaign, error) {
	row := s.db.QueryRow(`SELECT `+campaignCols+` FROM campaigns WHERE slug = ?`, slug)
	c, err := scanCampaign(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign by slug: %w", err)
	}
	return c, nil
}

// ListActive returns active campaigns, newest first.
func (s *CampaignStore) ListActive(limit, offset int) ([]*model.Campaign, error) {
	return s.list(
		`SELECT `+campaignCols+` FROM campaigns WHERE status = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		model.CampaignStatusActive, limit, offset,
	)
}

// ListByCreator returns a creator's campaigns in every status, newest first.
func (s *CampaignStore) ListByCreator(creatorID int64, limit, offset int) ([]*model.Campaign, error) {
	return s.list(
		`SELECT `+campaignCols+` FROM campaigns WHERE creator_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		creatorID, limit, offset,
	)
}

func (s *CampaignStore) list(query string, args ...any) ([]*model.Campaign, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []*model.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// IsSlugAvailable reports whether no other campaign holds the slug.
func (s *CampaignStore) IsSlugAvailable(slug string, excludeID int64) (bool, error) {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM campaigns WHERE slug = ? AND id != ?`, slug, excludeID).Scan(&id)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("check campaign slug: %w", err)
	}
	return false, nil
}

// IncrementViews bumps the view counter.
func (s *CampaignStore) IncrementViews(campaignID int64) error {
	_, err := s.db.Exec(`UPDATE campaigns SET views_count = views_count + 1 WHERE id = ?`, campaignID)
	if err != nil {
		return fmt.Errorf("increment campaign views: %w", err)
	}
	return nil
}

// AddFunding adds a committed amount to an active campaign's funding total
// and flips the status to funded in the same statement once the goal is
// reached. Returns the refreshed campaign.
func (s *CampaignStore) AddFunding(campaignID, amount int64) (*model.Campaign, error) {
	result, err := s.db.Exec(
		`UPDATE campaigns SET
			current_funding = current_funding + ?,
			status = CASE WHEN current_funding + ? >= funding_goal THEN ? ELSE status END,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?`,
		amount, amount, model.CampaignStatusFunded, campaignID, model.CampaignStatusActive,
	)
	if err != nil {
		return nil, fmt.Errorf("add campaign funding: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("campaign is not accepting funding")
	}
	return s.GetByID(campaignID)
}
