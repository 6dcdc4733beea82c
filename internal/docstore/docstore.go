// Package docstore est la frontière avec le document store distant :
// lectures/écritures unitaires, requêtes de collection, abonnements push
// et batch tout-ou-rien. Le cœur (panier, commandes, wishlist) ne parle
// qu'à cette interface, jamais au client Redis directement.
package docstore

import "context"

// Store expose les primitives du document store. Get/Set/Update/Delete
// travaillent sur un document (collection + id), Query retourne la
// collection entière, Subscribe pousse une notification à chaque
// mutation de la collection jusqu'à Close.
type Store interface {
	// Get retourne le document brut, ou apperr.ErrNotFound s'il est absent.
	Get(ctx context.Context, collection, id string) ([]byte, error)
	Set(ctx context.Context, collection, id string, value []byte) error

	// Update applique mutate de façon atomique (lecture + écriture dans la
	// même transaction). current vaut nil si le document n'existe pas ;
	// retourner next == nil supprime le document. Une erreur de mutate
	// annule la transaction et remonte telle quelle.
	Update(ctx context.Context, collection, id string, mutate func(current []byte) (next []byte, err error)) error

	// Delete est un no-op silencieux si le document est absent.
	Delete(ctx context.Context, collection, id string) error

	// Query retourne tous les documents de la collection, indexés par id.
	Query(ctx context.Context, collection string) (map[string][]byte, error)

	// Subscribe s'abonne aux changements de la collection. L'abonnement
	// doit être libéré via Subscription.Close sur chaque chemin de sortie.
	Subscribe(ctx context.Context, collection string) (Subscription, error)

	// Batch prépare un lot d'écritures committé en tout-ou-rien.
	Batch() Batch
}

// Batch accumule des opérations et les applique atomiquement au Commit.
// Soit toutes les opérations passent, soit aucune n'est visible.
type Batch interface {
	Set(collection, id string, value []byte)
	Delete(collection, id string)
	Commit(ctx context.Context) error
}

// Event signale qu'une collection a changé. Err est renseigné quand le
// transport de l'abonnement lui-même a échoué ; l'abonnement reste actif.
type Event struct {
	Collection string
	Payload    string
	Err        error
}

// Subscription est le handle d'un abonnement push.
type Subscription interface {
	// Events se ferme quand l'abonnement est clos.
	Events() <-chan Event
	Close() error
}
