package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/absurd-industries/guild/internal/model"
)

type ProductStore struct {
	db *sql.DB
}

func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

func scanProduct(scanner interface{ Scan(...any) error }) (*model.Product, error) {
	var p model.Product
	var description, imageURL, imageKey, category, images, features sql.NullString
	var githubRepo, documentationURL sql.NullString
	var stockQuantity sql.NullInt64

	err := scanner.Scan(
		&p.ID, &p.CreatorID, &p.Title, &p.Slug, &description, &p.Price,
		&p.ShopifyURL, &imageURL, &imageKey, &category, &p.Status,
		&images, &features, &p.IsOpenSource, &githubRepo, &documentationURL,
		&stockQuantity, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Description = description.String
	p.ImageURL = imageURL.String
	p.ImageKey = imageKey.String
	p.Category = category.String
	p.GithubRepo = githubRepo.String
	p.DocumentationURL = documentationURL.String
	if stockQuantity.Valid {
		p.StockQuantity = &stockQuantity.Int64
	}
	if images.String != "" {
		json.Unmarshal([]byte(images.String), &p.Images)
	}
	if features.String != "" {
		json.Unmarshal([]byte(features.String), &p.Features)
	}
	return &p, nil
}

const productCols = `id, creator_id, title, slug, description, price, shopify_url, image_url, image_key, category, status, images, features, is_open_source, github_repo, documentation_url, stock_quantity, is_active, created_at, updated_at`

func marshalList(items []string) any {
	if len(items) == 0 {
		return nil
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil
	}
	return string(raw)
}

// ProductData carries the writable product fields.
type ProductData struct {
	Title            string
	Description      string
	Price            int64
	ShopifyURL       string
	ImageURL         string
	ImageKey         string
	Category         string
	Status           string
	Images           []string
	Features         []string
	IsOpenSource     bool
	GithubRepo       string
	DocumentationURL string
	StockQuantity    *int64
}

// Create inserts a product for the creator. The slug is derived from the
// title and must be unique per creator.
func (s *ProductStore) Create(creatorID int64, data ProductData) (*model.Product, error) {
	slug := Slugify(data.Title)
	if slug == "" {
		return nil, fmt.Errorf("product title produces empty slug")
	}

	available, err := s.isSlugAvailable(creatorID, slug, 0)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, fmt.Errorf("a product with this title already exists")
	}

	status := data.Status
	if status == "" {
		status = model.ProductStatusActive
	}

	result, err := s.db.Exec(
		`INSERT INTO products (
			creator_id, title, slug, description, price, shopify_url,
			image_url, image_key, category, status, images, features,
			is_open_source, github_repo, documentation_url, stock_quantity
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		creatorID, data.Title, slug, data.Description, data.Price, data.ShopifyURL,
		data.ImageURL, data.ImageKey, data.Category, status,
		marshalList(data.Images), marshalList(data.Features),
		data.IsOpenSource, data.GithubRepo, data.DocumentationURL, data.StockQuantity,
	)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return scanProduct(row)
}

// Update rewrites the writable fields of a product owned by the creator.
func (s *ProductStore) Update(creatorID, productID int64, data ProductData) (*model.Product, error) {
	existing, err := s.Get(creatorID, productID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("product not found")
	}

	slug := existing.Slug
	if data.Title != "" && data.Title != existing.Title {
		slug = Slugify(data.Title)
		available, err := s.isSlugAvailable(creatorID, slug, productID)
		if err != nil {
			return nil, err
		}
		if !available {
			return nil, fmt.Errorf("a product with this title already exists")
		}
	}

	_, err = s.db.Exec(
		`UPDATE products SET
			title = ?, slug = ?, description = ?, price = ?, shopify_url = ?,
			image_url = ?, image_key = ?, category = ?, status = ?,
			images = ?, features = ?, is_open_source = ?, github_repo = ?,
			documentation_url = ?, stock_quantity = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND creator_id = ?`,
		data.Title, slug, data.Description, data.Price, data.ShopifyURL,
		data.ImageURL, data.ImageKey, data.Category, data.Status,
		marshalList(data.Images), marshalList(data.Features),
		data.IsOpenSource, data.GithubRepo, data.DocumentationURL, data.StockQuantity,
		productID, creatorID,
	)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return s.Get(creatorID, productID)
}

// Get returns an active product owned by the creator, or nil.
func (s *ProductStore) Get(creatorID, productID int64) (*model.Product, error) {
	row := s.db.QueryRow(
		`SELECT `+productCols+` FROM products WHERE id = ? AND creator_id = ? AND is_active = 1`,
		productID, creatorID,
	)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// ListByCreator returns all active products of a creator, newest first.
func (s *ProductStore) ListByCreator(creatorID int64) ([]*model.Product, error) {
	return s.list(
		`SELECT `+productCols+` FROM products WHERE creator_id = ? AND is_active = 1 ORDER BY created_at DESC`,
		creatorID,
	)
}

// ListReady returns the creator's products that are ready for sale.
func (s *ProductStore) ListReady(creatorID int64) ([]*model.Product, error) {
	return s.list(
		`SELECT `+productCols+` FROM products WHERE creator_id = ? AND is_active = 1 AND status = ? ORDER BY created_at DESC`,
		creatorID, model.ProductStatusActive,
	)
}

// ListProjects returns the creator's in-development products.
func (s *ProductStore) ListProjects(creatorID int64) ([]*model.Product, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(model.ProjectStatuses)), ",")
	args := []any{creatorID}
	for _, st := range model.ProjectStatuses {
		args = append(args, st)
	}
	return s.list(
		`SELECT `+productCols+` FROM products WHERE creator_id = ? AND is_active = 1 AND status IN (`+placeholders+`) ORDER BY created_at DESC`,
		args...,
	)
}

func (s *ProductStore) list(query string, args ...any) ([]*model.Product, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Delete soft-deletes a product owned by the creator.
func (s *ProductStore) Delete(creatorID, productID int64) error {
	_, err := s.db.Exec(
		`UPDATE products SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND creator_id = ?`,
		productID, creatorID,
	)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func (s *ProductStore) isSlugAvailable(creatorID int64, slug string, excludeID int64) (bool, error) {
	var id int64
	err := s.db.QueryRow(
		`SELECT id FROM products WHERE slug = ? AND creator_id = ? AND id != ?`,
		slug, creatorID, excludeID,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("check product slug: %w", err)
	}
	return false, nil
}
