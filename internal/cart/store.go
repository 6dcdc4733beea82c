// Package cart maintient l'état du panier par utilisateur au-dessus du
// document store, avec vue temps réel et mutations atomiques. L'identité
// de l'appelant est passée explicitement à chaque opération : elle est
// résolue une seule fois à l'entrée HTTP, jamais lue depuis un état
// global de session.
package cart

import (
	"context"
	"encoding/json"
	"sort"

	"aurastore_back_end/internal/apperr"
	"aurastore_back_end/internal/docstore"
	"aurastore_back_end/internal/models"
	"aurastore_back_end/internal/resource"
)

type Store struct {
	docs docstore.Store
}

func NewStore(docs docstore.Store) *Store {
	return &Store{docs: docs}
}

// collectionFor : un hash "cart:<user>" par utilisateur, un champ par
// produit — même clé que le canal de synchro temps réel.
func collectionFor(userID string) string {
	return "cart:" + userID
}

// Observe retourne un flux de snapshots complets du panier : un snapshot
// initial, puis un nouveau à chaque changement distant. Une erreur du
// listener est émise comme Resource d'erreur sans terminer le flux.
// L'annulation du contexte détache l'abonnement et ferme le canal.
func (s *Store) Observe(ctx context.Context, userID string) <-chan resource.Resource[[]models.CartLine] {
	out := make(chan resource.Resource[[]models.CartLine], 1)

	if userID == "" {
		out <- resource.Failure[[]models.CartLine](apperr.ErrUnauthenticated)
		close(out)
		return out
	}

	go func() {
		defer close(out)

		sub, err := s.docs.Subscribe(ctx, collectionFor(userID))
		if err != nil {
			emit(ctx, out, resource.Failure[[]models.CartLine](err))
			return
		}
		defer sub.Close()

		// Snapshot initial avant la boucle d'écoute.
		if !emit(ctx, out, s.snapshotResource(ctx, userID)) {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub.Events():
				if !ok {
					return
				}
				if ev.Err != nil {
					// Erreur transport du listener : on la signale et on
					// continue d'écouter.
					if !emit(ctx, out, resource.Failure[[]models.CartLine](ev.Err)) {
						return
					}
					continue
				}
				if !emit(ctx, out, s.snapshotResource(ctx, userID)) {
					return
				}
			}
		}
	}()

	return out
}

func emit(ctx context.Context, out chan<- resource.Resource[[]models.CartLine], r resource.Resource[[]models.CartLine]) bool {
	select {
	case out <- r:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Store) snapshotResource(ctx context.Context, userID string) resource.Resource[[]models.CartLine] {
	lines, err := s.Snapshot(ctx, userID)
	if err != nil {
		return resource.Failure[[]models.CartLine](err)
	}
	return resource.Success(lines)
}

// Snapshot est la lecture unitaire du panier : une valeur, maintenant.
// C'est la primitive que le checkout doit utiliser — jamais une valeur
// extraite d'un flux Observe encore ouvert.
func (s *Store) Snapshot(ctx context.Context, userID string) ([]models.CartLine, error) {
	if userID == "" {
		return nil, apperr.ErrUnauthenticated
	}

	docs, err := s.docs.Query(ctx, collectionFor(userID))
	if err != nil {
		return nil, err
	}

	lines := make([]models.CartLine, 0, len(docs))
	for _, raw := range docs {
		var line models.CartLine
		if err := json.Unmarshal(raw, &line); err != nil {
			return nil, apperr.Remote("décodage ligne panier", err)
		}
		lines = append(lines, line)
	}

	// Ordre déterministe pour les snapshots et les lignes de commande.
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines, nil
}

// Add insère la ligne, ou cumule la quantité si le produit est déjà dans
// le panier. Lecture + écriture se font dans la même transaction du
// store : deux Add concurrents sur le même produit ne perdent pas de
// mise à jour.
func (s *Store) Add(ctx context.Context, userID string, line models.CartLine) error {
	if userID == "" {
		return apperr.ErrUnauthenticated
	}
	if line.Quantity <= 0 {
		return ErrInvalidQuantity
	}

	return s.docs.Update(ctx, collectionFor(userID), line.ProductID, func(current []byte) ([]byte, error) {
		if current == nil {
			return json.Marshal(line)
		}
		var existing models.CartLine
		if err := json.Unmarshal(current, &existing); err != nil {
			return nil, apperr.Remote("décodage ligne panier", err)
		}
		// Cumul, pas écrasement : on garde le nom/prix déjà stockés.
		existing.Quantity += line.Quantity
		return json.Marshal(existing)
	})
}

// SetQuantity écrase la quantité stockée. qty ≤ 0 équivaut à Remove.
func (s *Store) SetQuantity(ctx context.Context, userID, productID string, qty int) error {
	if userID == "" {
		return apperr.ErrUnauthenticated
	}
	if qty <= 0 {
		return s.Remove(ctx, userID, productID)
	}

	return s.docs.Update(ctx, collectionFor(userID), productID, func(current []byte) ([]byte, error) {
		if current == nil {
			return nil, apperr.ErrNotFound
		}
		var existing models.CartLine
		if err := json.Unmarshal(current, &existing); err != nil {
			return nil, apperr.Remote("décodage ligne panier", err)
		}
		existing.Quantity = qty
		return json.Marshal(existing)
	})
}

// Remove supprime la ligne ; succès silencieux si elle est absente.
func (s *Store) Remove(ctx context.Context, userID, productID string) error {
	if userID == "" {
		return apperr.ErrUnauthenticated
	}
	return s.docs.Delete(ctx, collectionFor(userID), productID)
}

// Clear vide le panier en un seul batch : soit toutes les lignes sont
// supprimées, soit aucune (à la frontière d'atomicité du store). Panier
// déjà vide = no-op.
func (s *Store) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return apperr.ErrUnauthenticated
	}

	docs, err := s.docs.Query(ctx, collectionFor(userID))
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}

	batch := s.docs.Batch()
	for id := range docs {
		batch.Delete(collectionFor(userID), id)
	}
	return batch.Commit(ctx)
}

type cartError string

func (e cartError) Error() string { return string(e) }

// ErrInvalidQuantity : Add exige une quantité strictement positive (la
// validation d'entrée reste côté handler, ceci est le garde-fou).
const ErrInvalidQuantity = cartError("quantité invalide")
