package model

import "time"

// Product statuses. Anything other than "active" is a development project
// shown on the maker page's projects section rather than the shop section.
const (
	ProductStatusActive      = "active"
	ProductStatusConcept     = "concept"
	ProductStatusPrototype   = "prototype"
	ProductStatusDevelopment = "development"
	ProductStatusTesting     = "testing"
)

// ProjectStatuses are the in-development statuses, in pipeline order.
var ProjectStatuses = []string{
	ProductStatusConcept,
	ProductStatusPrototype,
	ProductStatusDevelopment,
	ProductStatusTesting,
}

type Product struct {
	ID               int64     `json:"id"`
	CreatorID        int64     `json:"creator_id"`
	Title            string    `json:"title"`
	Slug             string    `json:"slug"`
	Description      string    `json:"description"`
	Price            int64     `json:"price"` // paise
	ShopifyURL       string    `json:"shopify_url"`
	ImageURL         string    `json:"image_url"`
	ImageKey         string    `json:"image_key"`
	Category         string    `json:"category"`
	Status           string    `json:"status"`
	Images           []string  `json:"images"`
	Features         []string  `json:"features"`
	IsOpenSource     bool      `json:"is_open_source"`
	GithubRepo       string    `json:"github_repo"`
	DocumentationURL string    `json:"documentation_url"`
	StockQuantity    *int64    `json:"stock_quantity"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IsProject reports whether the product is still in development.
func (p *Product) IsProject() bool {
	for _, s := range ProjectStatuses {
		if p.Status == s {
			return true
		}
	}
	return false
}

// IsReadyForSale reports whether the product can appear in the shop section.
func (p *Product) IsReadyForSale() bool {
	return p.Status == ProductStatusActive
}
