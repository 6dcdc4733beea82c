package models

import "time"

// Wishlist est l'ensemble des produits favoris d'un utilisateur.
// ProductIDs se comporte comme un set : pas de doublons.
type Wishlist struct {
	UserID     string    `json:"user_id"`
	ProductIDs []string  `json:"product_ids"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Contains indique si le produit est présent dans la wishlist.
func (w Wishlist) Contains(productID string) bool {
	for _, id := range w.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}
