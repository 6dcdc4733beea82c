package catalog

import (
	"log"

	"github.com/shopspring/decimal"

	"aurastore_back_end/internal/models"
)

// Seed insère les produits de démonstration (catalogue vide au premier
// démarrage de la boutique).
func (r *Repository) Seed() error {
	samples := []models.Product{
		{
			Name:        "Aura Wireless Headphones",
			Description: "Casque à réduction de bruit premium, 30h d'autonomie.",
			Price:       decimal.RequireFromString("299.99"),
			ImageURLs:   []string{"https://images.unsplash.com/photo-1505740420928-5e560c06d30e"},
			Category:    "Electronics",
			Tags:        []string{"audio", "wireless"},
			Stock:       100,
		},
		{
			Name:        "Mechanical Keyboard",
			Description: "Clavier mécanique RGB au retour tactile net.",
			Price:       decimal.RequireFromString("149.99"),
			ImageURLs:   []string{"https://images.unsplash.com/photo-1511467687858-23d96c32e4ae"},
			Category:    "Electronics",
			Tags:        []string{"keyboard", "rgb"},
			Stock:       100,
		},
		{
			Name:        "Smart Watch Series 7",
			Description: "Suivi santé et fitness avancé.",
			Price:       decimal.RequireFromString("399.99"),
			ImageURLs:   []string{"https://images.unsplash.com/photo-1546868871-7041f2a55e12"},
			Category:    "Wearables",
			Tags:        []string{"watch", "fitness"},
			Stock:       100,
		},
		{
			Name:        "Modern Desk Lamp",
			Description: "Lampe LED minimaliste à luminosité réglable.",
			Price:       decimal.RequireFromString("45.00"),
			ImageURLs:   []string{"https://images.unsplash.com/photo-1507473888900-52e1adad54cd"},
			Category:    "Home",
			Tags:        []string{"lamp", "led"},
			Stock:       100,
		},
	}

	for _, p := range samples {
		if _, err := r.Create(p); err != nil {
			return err
		}
	}
	log.Printf("✅ Catalogue ensemencé avec %d produits de démo", len(samples))
	return nil
}
