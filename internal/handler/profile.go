package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/absurd-industries/guild/internal/auth"
	"github.com/absurd-industries/guild/internal/store"
)

type ProfileHandler struct {
	users     *store.UserStore
	products  *store.ProductStore
	campaigns *store.CampaignStore
	links     *store.ProfileLinkStore
	templates *template.Template
	logger    *slog.Logger
}

func NewProfileHandler(users *store.UserStore, products *store.ProductStore, campaigns *store.CampaignStore, links *store.ProfileLinkStore, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		users:     users,
		products:  products,
		campaigns: campaigns,
		links:     links,
		templates: loadTemplates(),
		logger:    logger,
	}
}

// Dashboard renders the signed-in user's profile page.
func (h *ProfileHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	links, err := h.links.ListByUser(user.ID)
	if err != nil {
		h.logger.Error("profile links", "user_id", user.ID, "error", err)
		http.Error(w, "failed to load profile", http.StatusInternalServerError)
		return
	}

	data := map[string]any{
		"Title": "Your Profile",
		"User":  user,
		"Links": links,
	}

	if user.IsMaker {
		products, err := h.products.ListByCreator(user.ID)
		if err != nil {
			h.logger.Error("profile products", "user_id", user.ID, "error", err)
			http.Error(w, "failed to load products", http.StatusInternalServerError)
			return
		}
		campaigns, err := h.campaigns.ListByCreator(user.ID, 50, 0)
		if err != nil {
			h.logger.Error("profile campaigns", "user_id", user.ID, "error", err)
			http.Error(w, "failed to load campaigns", http.StatusInternalServerError)
			return
		}
		data["Products"] = products
		data["Campaigns"] = campaigns
	}

	render(w, h.templates, h.logger, "profile.html", data)
}

// SetupPage renders the become-a-maker form.
func (h *ProfileHandler) SetupPage(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user.IsMaker {
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}
	render(w, h.templates, h.logger, "profile_setup.html", map[string]any{
		"Title": "Become a Maker",
		"User":  user,
	})
}

// Setup handles the become-a-maker form submission.
func (h *ProfileHandler) Setup(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user.IsMaker {
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	makerName := strings.TrimSpace(r.FormValue("maker_name"))
	displayName := strings.TrimSpace(r.FormValue("display_name"))

	renderError := func(msg string) {
		render(w, h.templates, h.logger, "profile_setup.html", map[string]any{
			"Title":       "Become a Maker",
			"User":        user,
			"Error":       msg,
			"MakerName":   makerName,
			"DisplayName": displayName,
		})
	}

	if displayName == "" {
		renderError("Display name is required")
		return
	}
	if msg := store.ValidateMakerName(makerName); msg != "" {
		renderError(msg)
		return
	}
	available, err := h.users.IsMakerNameAvailable(makerName, user.ID)
	if err != nil {
		h.logger.Error("maker name check", "error", err)
		http.Error(w, "failed to check maker name", http.StatusInternalServerError)
		return
	}
	if !available {
		renderError("That maker name is already taken")
		return
	}

	_, err = h.users.CreateMakerProfile(user.ID, store.MakerProfileData{
		MakerName:   makerName,
		DisplayName: displayName,
		Bio:         strings.TrimSpace(r.FormValue("bio")),
		Tagline:     strings.TrimSpace(r.FormValue("tagline")),
		AvatarURL:   strings.TrimSpace(r.FormValue("avatar_url")),
		AvatarKey:   strings.TrimSpace(r.FormValue("avatar_key")),
	})
	if err != nil {
		h.logger.Error("create maker profile", "user_id", user.ID, "error", err)
		http.Error(w, "failed to create maker profile", http.StatusInternalServerError)
		return
	}

	h.logger.Info("maker profile created", "user_id", user.ID, "maker_name", makerName)
	http.Redirect(w, r, "/m/"+makerName, http.StatusSeeOther)
}

// Update handles profile field edits.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	avatarURL := strings.TrimSpace(r.FormValue("avatar_url"))
	avatarKey := strings.TrimSpace(r.FormValue("avatar_key"))
	if avatarURL == "" {
		avatarURL = user.AvatarURL
		avatarKey = user.AvatarKey
	}

	_, err := h.users.UpdateProfile(
		user.ID,
		strings.TrimSpace(r.FormValue("display_name")),
		strings.TrimSpace(r.FormValue("bio")),
		strings.TrimSpace(r.FormValue("tagline")),
		avatarURL,
		avatarKey,
	)
	if err != nil {
		h.logger.Error("update profile", "user_id", user.ID, "error", err)
		http.Error(w, "failed to update profile", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// AddLink adds an external link to the user's profile.
func (h *ProfileHandler) AddLink(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	url := strings.TrimSpace(r.FormValue("url"))
	if title == "" || url == "" {
		http.Error(w, "title and url are required", http.StatusBadRequest)
		return
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	if _, err := h.links.Create(user.ID, title, url); err != nil {
		h.logger.Error("add profile link", "user_id", user.ID, "error", err)
		http.Error(w, "failed to add link", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// DeleteLink removes one of the user's profile links.
func (h *ProfileHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	linkID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid link id", http.StatusBadRequest)
		return
	}

	if err := h.links.Delete(user.ID, linkID); err != nil {
		h.logger.Error("delete profile link", "user_id", user.ID, "error", err)
		http.Error(w, "failed to delete link", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}
