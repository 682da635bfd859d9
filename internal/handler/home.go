package handler

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/absurd-industries/guild/internal/auth"
	"github.com/absurd-industries/guild/internal/store"
)

type HomeHandler struct {
	campaigns *store.CampaignStore
	users     *store.UserStore
	templates *template.Template
	logger    *slog.Logger
}

func NewHomeHandler(campaigns *store.CampaignStore, users *store.UserStore, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{
		campaigns: campaigns,
		users:     users,
		templates: loadTemplates(),
		logger:    logger,
	}
}

func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.campaigns.ListActive(6, 0)
	if err != nil {
		h.logger.Error("home campaigns", "error", err)
		http.Error(w, "failed to load campaigns", http.StatusInternalServerError)
		return
	}

	makers, err := h.users.ListMakers(8, 0)
	if err != nil {
		h.logger.Error("home makers", "error", err)
		http.Error(w, "failed to load makers", http.StatusInternalServerError)
		return
	}

	render(w, h.templates, h.logger, "home.html", map[string]any{
		"Title":     "Absurd Industries",
		"User":      auth.UserFromContext(r.Context()),
		"Campaigns": campaigns,
		"Makers":    makers,
	})
}

func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
