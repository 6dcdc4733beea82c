package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending        OrderStatus = "Pending"
	StatusConfirmed      OrderStatus = "Confirmed"
	StatusShipped        OrderStatus = "Shipped"
	StatusOutForDelivery OrderStatus = "Out for Delivery"
	StatusDelivered      OrderStatus = "Delivered"
	StatusCancelled      OrderStatus = "Cancelled"
)

// statusNext décrit les transitions autorisées du cycle de vie d'une commande.
var statusNext = map[OrderStatus][]OrderStatus{
	StatusPending:        {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusShipped, StatusCancelled},
	StatusShipped:        {StatusOutForDelivery},
	StatusOutForDelivery: {StatusDelivered},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

// CanTransitionTo vérifie qu'un passage de statut est légal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range statusNext[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order est immuable une fois créée, à l'exception du statut et de
// l'historique de suivi (append-only).
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Lines           []CartLine      `json:"items"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	TrackingHistory []string        `json:"tracking_history"`
	ShippingAddress string          `json:"shipping_address"`
}
