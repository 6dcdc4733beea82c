package docstore

import (
	"context"
	"sync"

	"aurastore_back_end/internal/apperr"
)

// Memory est une implémentation en mémoire de Store, avec le même
// contrat que RedisStore (mutations atomiques, batch tout-ou-rien,
// notifications par collection). Sert de doublure dans les tests.
type Memory struct {
	mu          sync.Mutex
	collections map[string]map[string][]byte
	subscribers map[string][]*memorySubscription

	// FailNextOp force l'échec de la prochaine opération avec une
	// RemoteError portant ce message (simulation de panne transport).
	FailNextOp string
}

func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]map[string][]byte),
		subscribers: make(map[string][]*memorySubscription),
	}
}

func (m *Memory) failure(op string) error {
	if m.FailNextOp == "" {
		return nil
	}
	msg := m.FailNextOp
	m.FailNextOp = ""
	return apperr.Remote(op, errRemote(msg))
}

type errRemote string

func (e errRemote) Error() string { return string(e) }

func (m *Memory) Get(_ context.Context, collection, id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("memory get"); err != nil {
		return nil, err
	}
	doc, ok := m.collections[collection][id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return append([]byte(nil), doc...), nil
}

func (m *Memory) Set(_ context.Context, collection, id string, value []byte) error {
	m.mu.Lock()
	if err := m.failure("memory set"); err != nil {
		m.mu.Unlock()
		return err
	}
	m.put(collection, id, value)
	m.mu.Unlock()
	m.notify(collection)
	return nil
}

func (m *Memory) Update(_ context.Context, collection, id string, mutate func([]byte) ([]byte, error)) error {
	m.mu.Lock()
	if err := m.failure("memory update"); err != nil {
		m.mu.Unlock()
		return err
	}

	var current []byte
	if doc, ok := m.collections[collection][id]; ok {
		current = append([]byte(nil), doc...)
	}

	next, err := mutate(current)
	if err != nil {
		m.mu.Unlock()
		return err
	}

	if next == nil {
		delete(m.collections[collection], id)
	} else {
		m.put(collection, id, next)
	}
	m.mu.Unlock()
	m.notify(collection)
	return nil
}

func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	if err := m.failure("memory delete"); err != nil {
		m.mu.Unlock()
		return err
	}
	delete(m.collections[collection], id)
	m.mu.Unlock()
	m.notify(collection)
	return nil
}

func (m *Memory) Query(_ context.Context, collection string) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("memory query"); err != nil {
		return nil, err
	}
	docs := make(map[string][]byte, len(m.collections[collection]))
	for id, doc := range m.collections[collection] {
		docs[id] = append([]byte(nil), doc...)
	}
	return docs, nil
}

func (m *Memory) Subscribe(_ context.Context, collection string) (Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("memory subscribe"); err != nil {
		return nil, err
	}
	sub := &memorySubscription{
		store:      m,
		collection: collection,
		events:     make(chan Event, 16),
	}
	m.subscribers[collection] = append(m.subscribers[collection], sub)
	return sub, nil
}

func (m *Memory) Batch() Batch {
	return &memoryBatch{store: m}
}

// EmitListenerError simule une erreur transport poussée par le listener
// sans fermer l'abonnement.
func (m *Memory) EmitListenerError(collection string, err error) {
	m.mu.Lock()
	subs := append([]*memorySubscription(nil), m.subscribers[collection]...)
	m.mu.Unlock()
	for _, sub := range subs {
		sub.send(Event{Collection: collection, Err: err})
	}
}

func (m *Memory) put(collection, id string, value []byte) {
	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string][]byte)
	}
	m.collections[collection][id] = append([]byte(nil), value...)
}

func (m *Memory) notify(collection string) {
	m.mu.Lock()
	subs := append([]*memorySubscription(nil), m.subscribers[collection]...)
	m.mu.Unlock()
	for _, sub := range subs {
		sub.send(Event{Collection: collection, Payload: "updated"})
	}
}

func (m *Memory) unsubscribe(target *memorySubscription) {
	m.mu.Lock()
	defer m.mu.Unlock()
	subs := m.subscribers[target.collection]
	for i, sub := range subs {
		if sub == target {
			m.subscribers[target.collection] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
}

type memorySubscription struct {
	store      *Memory
	collection string
	events     chan Event

	mu     sync.Mutex
	closed bool
}

func (s *memorySubscription) send(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	// Coalescence : si le buffer est plein, une notification est déjà en
	// attente et l'observateur relira l'état complet de toute façon.
	select {
	case s.events <- ev:
	default:
	}
}

func (s *memorySubscription) Events() <-chan Event { return s.events }

func (s *memorySubscription) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.store.unsubscribe(s)
	close(s.events)
	return nil
}

type memoryBatch struct {
	store *Memory
	ops   []batchOp
}

func (b *memoryBatch) Set(collection, id string, value []byte) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id, value: append([]byte(nil), value...)})
}

func (b *memoryBatch) Delete(collection, id string) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id})
}

func (b *memoryBatch) Commit(_ context.Context) error {
	b.store.mu.Lock()
	if err := b.store.failure("memory batch commit"); err != nil {
		b.store.mu.Unlock()
		return err
	}
	touched := make(map[string]struct{})
	for _, op := range b.ops {
		if op.value == nil {
			delete(b.store.collections[op.collection], op.id)
		} else {
			b.store.put(op.collection, op.id, op.value)
		}
		touched[op.collection] = struct{}{}
	}
	b.store.mu.Unlock()
	for collection := range touched {
		b.store.notify(collection)
	}
	return nil
}
