// Package checkout implémente le workflow de passage de commande : une
// machine à états mono-coup Idle → Loading → {Succeeded, Failed} qui
// fige le panier, calcule le total exact, persiste la commande puis vide
// le panier en best-effort.
package checkout

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"aurastore_back_end/internal/apperr"
	"aurastore_back_end/internal/models"
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateSucceeded
	StateFailed
)

// UnknownAddress est la sentinelle stockée quand l'adresse est vide.
const UnknownAddress = "Unknown Address"

// clearRetries borne les tentatives de vidage du panier après une
// commande créée : la commande est la transaction de référence, le
// nettoyage du panier n'est que du best-effort (politique décidée :
// retries bornés puis abandon loggé).
const (
	clearRetries = 3
	clearBackoff = 200 * time.Millisecond
)

// CartSource est la vue du panier dont le workflow a besoin : une
// lecture unitaire (jamais un flux) et le vidage.
type CartSource interface {
	Snapshot(ctx context.Context, userID string) ([]models.CartLine, error)
	Clear(ctx context.Context, userID string) error
}

// OrderSink persiste la commande immuable.
type OrderSink interface {
	Create(ctx context.Context, order models.Order) error
}

type EventKind int

const (
	EventOrderPlaced EventKind = iota
	EventFailed
)

// Event est l'événement terminal, émis exactement une fois par invocation.
type Event struct {
	Kind    EventKind
	Order   models.Order
	Message string
}

// Placement est une invocation du workflow. Mono-coup : une fois Place
// appelé, l'instance atteint un état terminal et n'en bouge plus ; un
// nouveau checkout démarre un nouveau Placement.
type Placement struct {
	carts  CartSource
	orders OrderSink

	mu    sync.Mutex
	state State

	events    chan Event
	emitOnce  sync.Once
	placeOnce sync.Once
}

func NewPlacement(carts CartSource, orders OrderSink) *Placement {
	return &Placement{
		carts:  carts,
		orders: orders,
		state:  StateIdle,
		events: make(chan Event, 1),
	}
}

func (p *Placement) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Events délivre l'événement terminal (OrderPlaced ou message d'erreur).
func (p *Placement) Events() <-chan Event { return p.events }

func (p *Placement) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

func (p *Placement) emit(ev Event) {
	p.emitOnce.Do(func() {
		p.events <- ev
		close(p.events)
	})
}

// ErrAlreadyPlaced : Place rappelé sur une instance déjà consommée.
var ErrAlreadyPlaced = placementError("checkout déjà exécuté, créer un nouveau Placement")

type placementError string

func (e placementError) Error() string { return string(e) }

// Place exécute le workflow séquentiellement — chaque étape dépend du
// résultat de la précédente, aucune sous-étape concurrente. Pas
// d'annulation en vol : une fois Loading entamé, on court jusqu'à un
// état terminal.
func (p *Placement) Place(ctx context.Context, userID, address, payerName string) (models.Order, error) {
	var (
		order models.Order
		err   error
		ran   bool
	)
	p.placeOnce.Do(func() {
		ran = true
		order, err = p.run(ctx, userID, address, payerName)
	})
	if !ran {
		return models.Order{}, ErrAlreadyPlaced
	}
	return order, err
}

func (p *Placement) run(ctx context.Context, userID, address, payerName string) (models.Order, error) {
	p.setState(StateLoading)

	if userID == "" {
		return p.fail(apperr.ErrUnauthenticated, "Utilisateur non connecté")
	}

	// 1. Un seul snapshot du panier — lecture unitaire, jamais la
	//    première valeur d'un flux encore ouvert.
	lines, err := p.carts.Snapshot(ctx, userID)
	if err != nil {
		return p.fail(err, fmt.Sprintf("Échec lecture panier : %v", err))
	}

	// 2. Panier vide = échec, aucune commande créée.
	if len(lines) == 0 {
		return p.fail(apperr.ErrEmptyCart, "Panier vide")
	}

	// 3. Total en décimal exact : recalculer le même panier donne
	//    toujours le même montant.
	total := models.CartTotal(lines)

	shipping := strings.TrimSpace(address)
	if shipping == "" {
		shipping = UnknownAddress
	}
	if payer := strings.TrimSpace(payerName); payer != "" {
		shipping = fmt.Sprintf("%s (Titulaire : %s)", shipping, payer)
	}

	order := models.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Lines:           lines,
		TotalAmount:     total,
		Status:          models.StatusPending,
		CreatedAt:       time.Now().UTC(),
		TrackingHistory: []string{"Order Placed"},
		ShippingAddress: shipping,
	}

	// 4. Persistance : en cas d'échec le panier reste intact.
	if err := p.orders.Create(ctx, order); err != nil {
		return p.fail(err, fmt.Sprintf("Échec création commande : %v", err))
	}

	// 5. Vidage du panier en best-effort : la commande est durablement
	//    créée, un échec ici ne fait pas échouer le checkout.
	p.clearBestEffort(ctx, userID, order.ID)

	p.setState(StateSucceeded)
	p.emit(Event{Kind: EventOrderPlaced, Order: order})
	return order, nil
}

func (p *Placement) fail(err error, message string) (models.Order, error) {
	p.setState(StateFailed)
	p.emit(Event{Kind: EventFailed, Message: message})
	return models.Order{}, err
}

func (p *Placement) clearBestEffort(ctx context.Context, userID, orderID string) {
	var err error
	for attempt := 1; attempt <= clearRetries; attempt++ {
		if err = p.carts.Clear(ctx, userID); err == nil {
			return
		}
		if attempt < clearRetries {
			select {
			case <-time.After(clearBackoff):
			case <-ctx.Done():
				attempt = clearRetries
			}
		}
	}
	log.Printf("⚠️ Panier de %s non vidé après la commande %s: %v", userID, orderID, err)
}
