package handler

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/absurd-industries/guild/internal/auth"
	"github.com/absurd-industries/guild/internal/store"
)

type MakerHandler struct {
	users     *store.UserStore
	products  *store.ProductStore
	campaigns *store.CampaignStore
	links     *store.ProfileLinkStore
	templates *template.Template
	logger    *slog.Logger
}

func NewMakerHandler(users *store.UserStore, products *store.ProductStore, campaigns *store.CampaignStore, links *store.ProfileLinkStore, logger *slog.Logger) *MakerHandler {
	return &MakerHandler{
		users:     users,
		products:  products,
		campaigns: campaigns,
		links:     links,
		templates: loadTemplates(),
		logger:    logger,
	}
}

// Show renders the public maker page at /m/{makerName}.
func (h *MakerHandler) Show(w http.ResponseWriter, r *http.Request) {
	makerName := r.PathValue("makerName")

	maker, err := h.users.GetByMakerName(makerName)
	if err != nil {
		h.logger.Error("maker lookup", "maker_name", makerName, "error", err)
		http.Error(w, "failed to load maker", http.StatusInternalServerError)
		return
	}
	if maker == nil {
		http.NotFound(w, r)
		return
	}

	products, err := h.products.ListByCreator(maker.ID)
	if err != nil {
		h.logger.Error("maker products", "maker_name", makerName, "error", err)
		http.Error(w, "failed to load products", http.StatusInternalServerError)
		return
	}

	campaigns, err := h.campaigns.ListByCreator(maker.ID, 50, 0)
	if err != nil {
		h.logger.Error("maker campaigns", "maker_name", makerName, "error", err)
		http.Error(w, "failed to load campaigns", http.StatusInternalServerError)
		return
	}

	links, err := h.links.ListByUser(maker.ID)
	if err != nil {
		h.logger.Error("maker links", "maker_name", makerName, "error", err)
		http.Error(w, "failed to load links", http.StatusInternalServerError)
		return
	}

	render(w, h.templates, h.logger, "maker.html", map[string]any{
		"Title":     maker.DisplayName,
		"User":      auth.UserFromContext(r.Context()),
		"Maker":     maker,
		"Products":  products,
		"Campaigns": campaigns,
		"Links":     links,
	})
}
