package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/absurd-industries/guild/internal/auth"
	"github.com/absurd-industries/guild/internal/campaign"
	"github.com/absurd-industries/guild/internal/model"
	"github.com/absurd-industries/guild/internal/store"
	"github.com/absurd-industries/guild/internal/websocket"
)

type CampaignHandler struct {
	campaigns *store.CampaignStore
	backings  *store.BackingStore
	products  *store.ProductStore
	users     *store.UserStore
	hub       *websocket.Hub
	templates *template.Template
	logger    *slog.Logger
}

func NewCampaignHandler(campaigns *store.CampaignStore, backings *store.BackingStore, products *store.ProductStore, users *store.UserStore, hub *websocket.Hub, logger *slog.Logger) *CampaignHandler {
	return &CampaignHandler{
		campaigns: campaigns,
		backings:  backings,
		products:  products,
		users:     users,
		hub:       hub,
		templates: loadTemplates(),
		logger:    logger,
	}
}

// List renders all active campaigns.
func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.campaigns.ListActive(50, 0)
	if err != nil {
		h.logger.Error("list campaigns", "error", err)
		http.Error(w, "failed to load campaigns", http.StatusInternalServerError)
		return
	}

	render(w, h.templates, h.logger, "campaigns.html", map[string]any{
		"Title":     "Campaigns",
		"User":      auth.UserFromContext(r.Context()),
		"Campaigns": campaigns,
	})
}

// Show renders a campaign page and bumps its view counter.
func (h *CampaignHandler) Show(w http.ResponseWriter, r *http.Request) {
	c, err := h.campaigns.GetBySlug(r.PathValue("slug"))
	if err != nil {
		h.logger.Error("get campaign", "slug", r.PathValue("slug"), "error", err)
		http.Error(w, "failed to load campaign", http.StatusInternalServerError)
		return
	}
	if c == nil {
		http.NotFound(w, r)
		return
	}

	if err := h.campaigns.IncrementViews(c.ID); err != nil {
		h.logger.Warn("increment views", "campaign_id", c.ID, "error", err)
	}

	creator, err := h.users.GetByID(c.CreatorID)
	if err != nil {
		h.logger.Error("campaign creator", "campaign_id", c.ID, "error", err)
		http.Error(w, "failed to load campaign", http.StatusInternalServerError)
		return
	}

	backings, err := h.backings.ListByCampaign(c.ID)
	if err != nil {
		h.logger.Error("campaign backings", "campaign_id", c.ID, "error", err)
		http.Error(w, "failed to load campaign", http.StatusInternalServerError)
		return
	}

	render(w, h.templates, h.logger, "campaign_show.html", map[string]any{
		"Title":        c.Title,
		"User":         auth.UserFromContext(r.Context()),
		"Campaign":     c,
		"Creator":      creator,
		"BackerCount":  len(backings),
		"CanBack":      c.Status == model.CampaignStatusActive,
	})
}

// NewPage renders the create-campaign form.
func (h *CampaignHandler) NewPage(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if !user.IsMaker {
		http.Redirect(w, r, "/profile/setup", http.StatusSeeOther)
		return
	}
	render(w, h.templates, h.logger, "campaign_form.html", map[string]any{
		"Title": "New Campaign",
		"User":  user,
	})
}

// Create handles the create-campaign form submission.
func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if !user.IsMaker {
		http.Redirect(w, r, "/profile/setup", http.StatusSeeOther)
		return
	}

	data, msg := h.parseForm(r)
	if msg != "" {
		render(w, h.templates, h.logger, "campaign_form.html", map[string]any{
			"Title": "New Campaign",
			"User":  user,
			"Error": msg,
		})
		return
	}

	c, err := h.campaigns.Create(user.ID, data)
	if err != nil {
		h.logger.Error("create campaign", "user_id", user.ID, "error", err)
		render(w, h.templates, h.logger, "campaign_form.html", map[string]any{
			"Title": "New Campaign",
			"User":  user,
			"Error": "Failed to create campaign. A campaign with this title may already exist.",
		})
		return
	}

	h.logger.Info("campaign created", "user_id", user.ID, "campaign_id", c.ID, "slug", c.Slug)
	http.Redirect(w, r, "/campaigns/"+c.Slug, http.StatusSeeOther)
}

// EditPage renders the edit-campaign form.
func (h *CampaignHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	c, err := h.ownedCampaign(w, r, user.ID)
	if c == nil || err != nil {
		return
	}

	render(w, h.templates, h.logger, "campaign_form.html", map[string]any{
		"Title":    "Edit Campaign",
		"User":     user,
		"Campaign": c,
	})
}

// Update handles the edit-campaign form submission.
func (h *CampaignHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	c, err := h.ownedCampaign(w, r, user.ID)
	if c == nil || err != nil {
		return
	}

	data, msg := h.parseForm(r)
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	updated, err := h.campaigns.Update(user.ID, c.ID, data)
	if err != nil {
		h.logger.Error("update campaign", "campaign_id", c.ID, "error", err)
		http.Error(w, "failed to update campaign", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/campaigns/"+updated.Slug, http.StatusSeeOther)
}

// UpdateStatus applies a campaign status transition, e.g. launching a draft.
func (h *CampaignHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	c, err := h.ownedCampaign(w, r, user.ID)
	if c == nil || err != nil {
		return
	}

	status := r.FormValue("status")
	if err := h.campaigns.UpdateStatus(user.ID, c.ID, status); err != nil {
		h.logger.Error("campaign status", "campaign_id", c.ID, "status", status, "error", err)
		http.Error(w, "failed to update campaign status", http.StatusBadRequest)
		return
	}

	http.Redirect(w, r, "/campaigns/"+c.Slug, http.StatusSeeOther)
}

// BackPage renders the backing form with the maker's rewards.
func (h *CampaignHandler) BackPage(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	c, err := h.activeCampaign(w, r)
	if c == nil || err != nil {
		return
	}

	rewards, err := h.products.ListReady(c.CreatorID)
	if err != nil {
		h.logger.Error("backing rewards", "campaign_id", c.ID, "error", err)
		http.Error(w, "failed to load rewards", http.StatusInternalServerError)
		return
	}

	render(w, h.templates, h.logger, "campaign_back.html", map[string]any{
		"Title":    "Back " + c.Title,
		"User":     user,
		"Campaign": c,
		"Rewards":  rewards,
	})
}

// Back records a backing commitment, updates the campaign's funding total and
// pushes the new total to open campaign pages.
func (h *CampaignHandler) Back(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	c, err := h.activeCampaign(w, r)
	if c == nil || err != nil {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	productID, err := strconv.ParseInt(r.FormValue("reward_id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid reward", http.StatusBadRequest)
		return
	}
	reward, err := h.products.Get(c.CreatorID, productID)
	if err != nil {
		h.logger.Error("backing reward", "campaign_id", c.ID, "product_id", productID, "error", err)
		http.Error(w, "failed to load reward", http.StatusInternalServerError)
		return
	}
	if reward == nil || !reward.IsReadyForSale() {
		http.Error(w, "reward not available", http.StatusBadRequest)
		return
	}

	data := store.BackingData{
		RewardTitle:      reward.Title,
		RewardPrice:      reward.Price,
		CommitmentAmount: campaign.CommitmentAmount(reward.Price, c.CommitmentPercentage),
		ShippingName:     strings.TrimSpace(r.FormValue("shipping_name")),
		ShippingAddress:  strings.TrimSpace(r.FormValue("shipping_address")),
		ShippingCity:     strings.TrimSpace(r.FormValue("shipping_city")),
		ShippingState:    strings.TrimSpace(r.FormValue("shipping_state")),
		ShippingPincode:  strings.TrimSpace(r.FormValue("shipping_pincode")),
		ShippingPhone:    strings.TrimSpace(r.FormValue("shipping_phone")),
	}
	if data.ShippingName == "" || data.ShippingAddress == "" || data.ShippingCity == "" ||
		data.ShippingState == "" || data.ShippingPincode == "" {
		render(w, h.templates, h.logger, "campaign_back.html", map[string]any{
			"Title":    "Back " + c.Title,
			"User":     user,
			"Campaign": c,
			"Error":    "All shipping fields except phone are required",
		})
		return
	}

	backing, err := h.backings.Create(c.ID, user.ID, data)
	if err != nil {
		h.logger.Error("create backing", "campaign_id", c.ID, "user_id", user.ID, "error", err)
		http.Error(w, "failed to record backing", http.StatusInternalServerError)
		return
	}

	updated, err := h.campaigns.AddFunding(c.ID, data.CommitmentAmount)
	if err != nil {
		h.logger.Error("add funding", "campaign_id", c.ID, "error", err)
		http.Error(w, "campaign is not accepting funding", http.StatusConflict)
		return
	}

	h.hub.Broadcast(websocket.NewFundingUpdate(
		updated.ID, updated.Slug, updated.CurrentFunding,
		campaign.Progress(updated.CurrentFunding, updated.FundingGoal), updated.Status,
	))

	h.logger.Info("backing recorded",
		"campaign_id", c.ID, "backing_id", backing.ID,
		"commitment", data.CommitmentAmount, "status", updated.Status)

	render(w, h.templates, h.logger, "campaign_back_success.html", map[string]any{
		"Title":     "You're in!",
		"User":      user,
		"Campaign":  updated,
		"Backing":   backing,
		"Remainder": campaign.RemainderAmount(reward.Price, c.CommitmentPercentage),
	})
}

// ownedCampaign loads the campaign in the id path segment and verifies the
// caller owns it. Writes the error response itself on failure.
func (h *CampaignHandler) ownedCampaign(w http.ResponseWriter, r *http.Request, userID int64) (*model.Campaign, error) {
	campaignID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return nil, err
	}
	c, err := h.campaigns.GetByID(campaignID)
	if err != nil {
		h.logger.Error("get campaign", "campaign_id", campaignID, "error", err)
		http.Error(w, "failed to load campaign", http.StatusInternalServerError)
		return nil, err
	}
	if c == nil || c.CreatorID != userID {
		http.NotFound(w, r)
		return nil, nil
	}
	return c, nil
}

// activeCampaign loads the campaign in the slug path segment and verifies it
// accepts backings. Writes the error response itself on failure.
func (h *CampaignHandler) activeCampaign(w http.ResponseWriter, r *http.Request) (*model.Campaign, error) {
	c, err := h.campaigns.GetBySlug(r.PathValue("slug"))
	if err != nil {
		h.logger.Error("get campaign", "slug", r.PathValue("slug"), "error", err)
		http.Error(w, "failed to load campaign", http.StatusInternalServerError)
		return nil, err
	}
	if c == nil {
		http.NotFound(w, r)
		return nil, nil
	}
	if c.Status != model.CampaignStatusActive {
		http.Error(w, "campaign is not accepting backings", http.StatusConflict)
		return nil, nil
	}
	return c, nil
}

// parseForm reads the campaign form. Returns a user-facing message when the
// form is invalid.
func (h *CampaignHandler) parseForm(r *http.Request) (store.CampaignData, string) {
	if err := r.ParseForm(); err != nil {
		return store.CampaignData{}, "Invalid form submission"
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		return store.CampaignData{}, "Title is required"
	}

	goal, err := parsePrice(r.FormValue("funding_goal"))
	if err != nil || goal <= 0 {
		return store.CampaignData{}, "Funding goal must be a positive amount"
	}

	data := store.CampaignData{
		Title:                 title,
		Description:           strings.TrimSpace(r.FormValue("description")),
		ShortDescription:      strings.TrimSpace(r.FormValue("short_description")),
		HeroVideoURL:          strings.TrimSpace(r.FormValue("hero_video_url")),
		StoryContent:          r.FormValue("story_content"),
		FundingGoal:           goal,
		Category:              strings.TrimSpace(r.FormValue("category")),
		EstimatedShippingDate: strings.TrimSpace(r.FormValue("estimated_shipping_date")),
	}

	if raw := strings.TrimSpace(r.FormValue("commitment_percentage")); raw != "" {
		pct, err := strconv.Atoi(raw)
		if err != nil || pct < 1 || pct > 100 {
			return store.CampaignData{}, "Commitment percentage must be between 1 and 100"
		}
		data.CommitmentPercentage = pct
	}

	if raw := strings.TrimSpace(r.FormValue("ends_at")); raw != "" {
		endsAt, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return store.CampaignData{}, "End date must be in YYYY-MM-DD format"
		}
		data.EndsAt = &endsAt
	}

	return data, ""
}
