package models

import "github.com/shopspring/decimal"

// CartLine est une ligne du panier : un produit + sa quantité.
// Invariant : Quantity > 0, une ligne qui tombe à 0 est supprimée du store.
type CartLine struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	ImageRef    string          `json:"image_ref"`
}

// Subtotal retourne UnitPrice × Quantity en arithmétique décimale exacte.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartTotal additionne les sous-totaux de toutes les lignes.
func CartTotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
