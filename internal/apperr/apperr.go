// Package apperr définit la taxonomie d'erreurs du cœur métier.
// Aucune panique ne traverse la frontière publique : chaque opération
// retourne soit un résultat, soit exactement une de ces erreurs.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated : aucune session utilisateur.
	ErrUnauthenticated = errors.New("utilisateur non authentifié")

	// ErrEmptyCart : checkout tenté sur un panier sans lignes.
	ErrEmptyCart = errors.New("panier vide")

	// ErrNotFound : lecture par id qui ne retourne rien.
	ErrNotFound = errors.New("introuvable")
)

// RemoteError enveloppe un échec transport/backend en conservant le
// message du collaborateur. Le cœur ne retente jamais lui-même.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Remote construit une RemoteError pour l'opération donnée.
func Remote(op string, err error) error {
	return &RemoteError{Op: op, Err: err}
}

// IsRemote indique si err est (ou enveloppe) une RemoteError.
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}
