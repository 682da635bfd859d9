package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/absurd-industries/guild/internal/auth"
	"github.com/absurd-industries/guild/internal/model"
	"github.com/absurd-industries/guild/internal/store"
)

type ProductHandler struct {
	products  *store.ProductStore
	templates *template.Template
	logger    *slog.Logger
}

func NewProductHandler(products *store.ProductStore, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		products:  products,
		templates: loadTemplates(),
		logger:    logger,
	}
}

// List renders the signed-in maker's products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if !user.IsMaker {
		http.Redirect(w, r, "/profile/setup", http.StatusSeeOther)
		return
	}

	products, err := h.products.ListByCreator(user.ID)
	if err != nil {
		h.logger.Error("list products", "user_id", user.ID, "error", err)
		http.Error(w, "failed to load products", http.StatusInternalServerError)
		return
	}

	render(w, h.templates, h.logger, "products.html", map[string]any{
		"Title":    "Your Products",
		"User":     user,
		"Products": products,
	})
}

// NewPage renders the create-product form.
func (h *ProductHandler) NewPage(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if !user.IsMaker {
		http.Redirect(w, r, "/profile/setup", http.StatusSeeOther)
		return
	}
	render(w, h.templates, h.logger, "product_form.html", map[string]any{
		"Title":    "New Product",
		"User":     user,
		"Statuses": productStatuses,
	})
}

// Create handles the create-product form submission.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if !user.IsMaker {
		http.Redirect(w, r, "/profile/setup", http.StatusSeeOther)
		return
	}

	data, msg := h.parseForm(r)
	if msg != "" {
		render(w, h.templates, h.logger, "product_form.html", map[string]any{
			"Title":    "New Product",
			"User":     user,
			"Error":    msg,
			"Statuses": productStatuses,
		})
		return
	}

	product, err := h.products.Create(user.ID, data)
	if err != nil {
		h.logger.Error("create product", "user_id", user.ID, "error", err)
		render(w, h.templates, h.logger, "product_form.html", map[string]any{
			"Title":    "New Product",
			"User":     user,
			"Error":    "Failed to create product. A product with this title may already exist.",
			"Statuses": productStatuses,
		})
		return
	}

	h.logger.Info("product created", "user_id", user.ID, "product_id", product.ID, "slug", product.Slug)
	http.Redirect(w, r, "/profile/products", http.StatusSeeOther)
}

// EditPage renders the edit-product form.
func (h *ProductHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	productID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	product, err := h.products.Get(user.ID, productID)
	if err != nil {
		h.logger.Error("get product", "user_id", user.ID, "product_id", productID, "error", err)
		http.Error(w, "failed to load product", http.StatusInternalServerError)
		return
	}
	if product == nil {
		http.NotFound(w, r)
		return
	}

	render(w, h.templates, h.logger, "product_form.html", map[string]any{
		"Title":    "Edit Product",
		"User":     user,
		"Product":  product,
		"Statuses": productStatuses,
	})
}

// Update handles the edit-product form submission.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	productID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	data, msg := h.parseForm(r)
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	if _, err := h.products.Update(user.ID, productID, data); err != nil {
		h.logger.Error("update product", "user_id", user.ID, "product_id", productID, "error", err)
		http.Error(w, "failed to update product", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/profile/products", http.StatusSeeOther)
}

// Delete soft-deletes a product.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	productID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	if err := h.products.Delete(user.ID, productID); err != nil {
		h.logger.Error("delete product", "user_id", user.ID, "product_id", productID, "error", err)
		http.Error(w, "failed to delete product", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/profile/products", http.StatusSeeOther)
}

var productStatuses = []string{
	model.ProductStatusActive,
	model.ProductStatusConcept,
	model.ProductStatusPrototype,
	model.ProductStatusDevelopment,
	model.ProductStatusTesting,
}

// parseForm reads the product form. Returns a user-facing message when the
// form is invalid.
func (h *ProductHandler) parseForm(r *http.Request) (store.ProductData, string) {
	if err := r.ParseForm(); err != nil {
		return store.ProductData{}, "Invalid form submission"
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		return store.ProductData{}, "Title is required"
	}

	price, err := parsePrice(r.FormValue("price"))
	if err != nil {
		return store.ProductData{}, "Price must be a valid amount"
	}

	data := store.ProductData{
		Title:            title,
		Description:      strings.TrimSpace(r.FormValue("description")),
		Price:            price,
		ShopifyURL:       strings.TrimSpace(r.FormValue("shopify_url")),
		ImageURL:         strings.TrimSpace(r.FormValue("image_url")),
		ImageKey:         strings.TrimSpace(r.FormValue("image_key")),
		Category:         strings.TrimSpace(r.FormValue("category")),
		Status:           r.FormValue("status"),
		Images:           splitLines(r.FormValue("images")),
		Features:         splitLines(r.FormValue("features")),
		IsOpenSource:     r.FormValue("is_open_source") == "on",
		GithubRepo:       strings.TrimSpace(r.FormValue("github_repo")),
		DocumentationURL: strings.TrimSpace(r.FormValue("documentation_url")),
	}

	if raw := strings.TrimSpace(r.FormValue("stock_quantity")); raw != "" {
		qty, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || qty < 0 {
			return store.ProductData{}, "Stock quantity must be a non-negative number"
		}
		data.StockQuantity = &qty
	}

	return data, ""
}

// parsePrice converts a rupee amount like "1499.50" to paise.
func parsePrice(raw string) (int64, error) {
	rupees, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || rupees < 0 {
		return 0, strconv.ErrSyntax
	}
	return int64(rupees*100 + 0.5), nil
}

// splitLines turns a textarea value into a list, one entry per line.
func splitLines(raw string) []string {
	var items []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			items = append(items, line)
		}
	}
	return items
}
