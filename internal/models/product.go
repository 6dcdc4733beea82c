package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	ImageURLs     []string         `json:"image_urls"`
	Category      string           `json:"category"`
	Tags          []string         `json:"tags"`
	Rating        float64          `json:"rating"`
	ReviewCount   int              `json:"review_count"`
	IsFlashSale   bool             `json:"is_flash_sale"`
	Stock         int              `json:"stock"`
	CreatedAt     *time.Time       `json:"created_at,omitempty"`
	UpdatedAt     *time.Time       `json:"updated_at,omitempty"`
}

// FirstImage retourne la première image pour l'aperçu panier.
func (p Product) FirstImage() string {
	if len(p.ImageURLs) > 0 {
		return p.ImageURLs[0]
	}
	return ""
}
