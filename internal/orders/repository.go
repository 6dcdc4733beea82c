// Package orders persiste les commandes dans la collection "orders" du
// document store. Une commande est créée exactement une fois par
// checkout ; seuls le statut et l'historique de suivi évoluent ensuite.
package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"aurastore_back_end/internal/apperr"
	"aurastore_back_end/internal/docstore"
	"aurastore_back_end/internal/models"
)

const collection = "orders"

type Repository struct {
	docs docstore.Store
}

func NewRepository(docs docstore.Store) *Repository {
	return &Repository{docs: docs}
}

// Create persiste la commande. L'id est généré par l'appelant (le
// workflow de checkout) ; écraser une commande existante est un bug.
func (r *Repository) Create(ctx context.Context, order models.Order) error {
	return r.docs.Update(ctx, collection, order.ID, func(current []byte) ([]byte, error) {
		if current != nil {
			return nil, errDuplicate
		}
		return json.Marshal(order)
	})
}

func (r *Repository) GetByID(ctx context.Context, orderID string) (models.Order, error) {
	raw, err := r.docs.Get(ctx, collection, orderID)
	if err != nil {
		return models.Order{}, err
	}
	var order models.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return models.Order{}, apperr.Remote("décodage commande", err)
	}
	return order, nil
}

// ListByUser retourne les commandes de l'utilisateur, la plus récente
// d'abord. La collection est requêtée entière puis filtrée par userId —
// le prédicat du query vit ici, pas dans le store.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	if userID == "" {
		return nil, apperr.ErrUnauthenticated
	}

	docs, err := r.docs.Query(ctx, collection)
	if err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0)
	for _, raw := range docs {
		var order models.Order
		if err := json.Unmarshal(raw, &order); err != nil {
			return nil, apperr.Remote("décodage commande", err)
		}
		if order.UserID == userID {
			orders = append(orders, order)
		}
	}

	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

// UpdateStatus fait avancer le statut et ajoute l'étiquette au suivi,
// atomiquement. Les transitions illégales sont refusées.
func (r *Repository) UpdateStatus(ctx context.Context, orderID string, next models.OrderStatus) error {
	return r.docs.Update(ctx, collection, orderID, func(current []byte) ([]byte, error) {
		if current == nil {
			return nil, apperr.ErrNotFound
		}
		var order models.Order
		if err := json.Unmarshal(current, &order); err != nil {
			return nil, apperr.Remote("décodage commande", err)
		}
		if !order.Status.CanTransitionTo(next) {
			return nil, fmt.Errorf("transition de statut interdite : %s → %s", order.Status, next)
		}
		order.Status = next
		order.TrackingHistory = append(order.TrackingHistory, string(next))
		return json.Marshal(order)
	})
}

type ordersError string

func (e ordersError) Error() string { return string(e) }

const errDuplicate = ordersError("commande déjà existante")
