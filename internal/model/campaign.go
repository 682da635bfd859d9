package model

import "time"

// Campaign statuses.
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusActive    = "active"
	CampaignStatusFunded    = "funded"
	CampaignStatusShipped   = "shipped"
	CampaignStatusCancelled = "cancelled"
)

// campaignTransitions lists the allowed status moves. Funded is normally
// reached automatically when the funding total hits the goal.
var campaignTransitions = map[string][]string{
	CampaignStatusDraft:  {CampaignStatusActive, CampaignStatusCancelled},
	CampaignStatusActive: {CampaignStatusFunded, CampaignStatusCancelled},
	CampaignStatusFunded: {CampaignStatusShipped},
}

// CanTransition reports whether a campaign may move between the two statuses.
func CanTransition(from, to string) bool {
	for _, allowed := range campaignTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type Campaign struct {
	ID                    int64      `json:"id"`
	CreatorID             int64      `json:"creator_id"`
	Title                 string     `json:"title"`
	Slug                  string     `json:"slug"`
	Description           string     `json:"description"`
	ShortDescription      string     `json:"short_description"`
	HeroVideoURL          string     `json:"hero_video_url"`
	HeroVideoEmbed        string     `json:"hero_video_embed"`
	HeroVideoThumbnail    string     `json:"hero_video_thumbnail"`
	StoryContent          string     `json:"story_content"`
	FundingGoal           int64      `json:"funding_goal"` // paise
	CurrentFunding        int64      `json:"current_funding"`
	CommitmentPercentage  int        `json:"commitment_percentage"`
	Status                string     `json:"status"`
	Category              string     `json:"category"`
	EstimatedShippingDate string     `json:"estimated_shipping_date"`
	EndsAt                *time.Time `json:"ends_at"`
	ViewsCount            int64      `json:"views_count"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

type Backing struct {
	ID               int64     `json:"id"`
	CampaignID       int64     `json:"campaign_id"`
	BackerID         int64     `json:"backer_id"`
	RewardTitle      string    `json:"reward_title"`
	RewardPrice      int64     `json:"reward_price"`
	CommitmentAmount int64     `json:"commitment_amount"`
	ShippingName     string    `json:"shipping_name"`
	ShippingAddress  string    `json:"shipping_address"`
	ShippingCity     string    `json:"shipping_city"`
	ShippingState    string    `json:"shipping_state"`
	ShippingPincode  string    `json:"shipping_pincode"`
	ShippingPhone    string    `json:"shipping_phone"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}
