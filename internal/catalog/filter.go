package catalog

import (
	"strings"

	"aurastore_back_end/internal/models"
)

// FilterByCategory garde les produits dont la catégorie contient le
// terme (insensible à la casse) — c'est le filtre de l'écran d'accueil,
// "All" ou terme vide retournent tout.
func FilterByCategory(products []models.Product, category string) []models.Product {
	term := strings.ToLower(strings.TrimSpace(category))
	if term == "" || term == "all" {
		return products
	}

	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Category), term) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
