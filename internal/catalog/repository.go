// Package catalog lit le catalogue produits dans ScyllaDB.
package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"aurastore_back_end/internal/apperr"
	"aurastore_back_end/internal/models"
)

const selectColumns = `product_id, name, description, price, original_price, stock, category, image_urls, tags, rating, review_count, is_flash_sale, created_at, updated_at`

type Repository struct {
	session *gocql.Session
}

func NewRepository(session *gocql.Session) *Repository {
	return &Repository{session: session}
}

// List retourne tout le catalogue. Si la table est vide, elle est
// ensemencée avec les produits de démo (comportement du premier
// démarrage de la boutique).
func (r *Repository) List() ([]models.Product, error) {
	products, err := r.scanAll()
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		if err := r.Seed(); err != nil {
			return nil, err
		}
		return r.scanAll()
	}
	return products, nil
}

func (r *Repository) scanAll() ([]models.Product, error) {
	iter := r.session.Query(fmt.Sprintf("SELECT %s FROM products", selectColumns)).Iter()

	var products []models.Product
	for {
		p, ok, err := scanProduct(iter)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		products = append(products, p)
	}
	if err := iter.Close(); err != nil {
		return nil, apperr.Remote("scylla products", err)
	}
	return products, nil
}

// GetByID retourne le produit, ou apperr.ErrNotFound.
func (r *Repository) GetByID(productID string) (models.Product, error) {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return models.Product{}, apperr.ErrNotFound
	}

	iter := r.session.Query(
		fmt.Sprintf("SELECT %s FROM products WHERE product_id = ?", selectColumns),
		gocql.UUID(pid),
	).Iter()

	p, ok, scanErr := scanProduct(iter)
	closeErr := iter.Close()
	if scanErr != nil {
		return models.Product{}, scanErr
	}
	if closeErr != nil {
		return models.Product{}, apperr.Remote("scylla product", closeErr)
	}
	if !ok {
		return models.Product{}, apperr.ErrNotFound
	}
	return p, nil
}

// GetByIDs récupère les produits un par un (écran wishlist). Les ids
// inconnus sont ignorés, pas d'erreur.
func (r *Repository) GetByIDs(productIDs []string) ([]models.Product, error) {
	products := make([]models.Product, 0, len(productIDs))
	for _, id := range productIDs {
		p, err := r.GetByID(id)
		if errors.Is(err, apperr.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// Create insère le produit et retourne son id généré.
func (r *Repository) Create(p models.Product) (models.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	pid, err := uuid.Parse(p.ID)
	if err != nil {
		return models.Product{}, fmt.Errorf("id produit invalide: %v", err)
	}

	now := time.Now().UTC()
	p.CreatedAt = &now
	p.UpdatedAt = &now

	price, _ := p.Price.Float64()
	var originalPrice *float64
	if p.OriginalPrice != nil {
		v, _ := p.OriginalPrice.Float64()
		originalPrice = &v
	}

	err = r.session.Query(`
		INSERT INTO products (product_id, name, description, price, original_price, stock, category, image_urls, tags, rating, review_count, is_flash_sale, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, gocql.UUID(pid), p.Name, p.Description, price, originalPrice, p.Stock, p.Category,
		p.ImageURLs, p.Tags, p.Rating, p.ReviewCount, p.IsFlashSale, now, now).Exec()
	if err != nil {
		return models.Product{}, apperr.Remote("scylla insert product", err)
	}
	return p, nil
}

func scanProduct(iter *gocql.Iter) (models.Product, bool, error) {
	var (
		pid                  gocql.UUID
		name, description    string
		category             string
		price                float64
		originalPrice        *float64
		stock, reviewCount   int
		imageURLs, tags      []string
		rating               float64
		isFlashSale          bool
		createdAt, updatedAt *time.Time
	)

	if !iter.Scan(&pid, &name, &description, &price, &originalPrice, &stock, &category,
		&imageURLs, &tags, &rating, &reviewCount, &isFlashSale, &createdAt, &updatedAt) {
		return models.Product{}, false, nil
	}

	p := models.Product{
		ID:          pid.String(),
		Name:        name,
		Description: description,
		Price:       decimal.NewFromFloat(price),
		Stock:       stock,
		Category:    category,
		ImageURLs:   imageURLs,
		Tags:        tags,
		Rating:      rating,
		ReviewCount: reviewCount,
		IsFlashSale: isFlashSale,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
	if originalPrice != nil {
		op := decimal.NewFromFloat(*originalPrice)
		p.OriginalPrice = &op
	}
	return p, true, nil
}
