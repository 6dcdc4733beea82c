// Package wishlist gère le set de produits favoris par utilisateur.
// Le toggle est une différence symétrique atomique côté store : deux
// toggles concurrents ne peuvent pas se marcher dessus.
package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"aurastore_back_end/internal/apperr"
	"aurastore_back_end/internal/docstore"
	"aurastore_back_end/internal/models"
)

const collection = "wishlists"

type Service struct {
	docs docstore.Store
}

func NewService(docs docstore.Store) *Service {
	return &Service{docs: docs}
}

// Toggle ajoute le produit s'il est absent, le retire sinon, et retourne
// l'état résultant (true = maintenant présent). Le document est créé au
// premier toggle si l'utilisateur n'en a pas encore.
func (s *Service) Toggle(ctx context.Context, userID, productID string) (bool, error) {
	if userID == "" {
		return false, apperr.ErrUnauthenticated
	}

	var present bool
	err := s.docs.Update(ctx, collection, userID, func(current []byte) ([]byte, error) {
		w := models.Wishlist{UserID: userID}
		if current != nil {
			if err := json.Unmarshal(current, &w); err != nil {
				return nil, apperr.Remote("décodage wishlist", err)
			}
		}

		if w.Contains(productID) {
			kept := w.ProductIDs[:0]
			for _, id := range w.ProductIDs {
				if id != productID {
					kept = append(kept, id)
				}
			}
			w.ProductIDs = kept
			present = false
		} else {
			w.ProductIDs = append(w.ProductIDs, productID)
			present = true
		}
		w.UpdatedAt = time.Now().UTC()
		return json.Marshal(w)
	})
	if err != nil {
		return false, err
	}
	return present, nil
}

// Contains vérifie l'appartenance ; wishlist inexistante = absent.
func (s *Service) Contains(ctx context.Context, userID, productID string) (bool, error) {
	w, err := s.get(ctx, userID)
	if err != nil {
		return false, err
	}
	return w.Contains(productID), nil
}

// List retourne les ids de produits de la wishlist.
func (s *Service) List(ctx context.Context, userID string) ([]string, error) {
	w, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return w.ProductIDs, nil
}

func (s *Service) get(ctx context.Context, userID string) (models.Wishlist, error) {
	if userID == "" {
		return models.Wishlist{}, apperr.ErrUnauthenticated
	}

	raw, err := s.docs.Get(ctx, collection, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		return models.Wishlist{UserID: userID}, nil
	}
	if err != nil {
		return models.Wishlist{}, err
	}

	var w models.Wishlist
	if err := json.Unmarshal(raw, &w); err != nil {
		return models.Wishlist{}, apperr.Remote("décodage wishlist", err)
	}
	return w, nil
}
