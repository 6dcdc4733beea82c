package docstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"aurastore_back_end/internal/apperr"
)

// maxTxRetries borne les relectures optimistes quand un WATCH échoue
// à cause d'une écriture concurrente sur la même collection.
const maxTxRetries = 10

// RedisStore implémente Store sur Redis : un hash par collection, un
// champ par document (JSON), et le canal pub/sub de la collection pour
// les notifications de changement — même schéma que le panier temps
// réel historique (canal "cart:<user>").
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, collection, id string) ([]byte, error) {
	data, err := s.client.HGet(ctx, collection, id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, apperr.Remote("redis get "+collection, err)
	}
	return data, nil
}

func (s *RedisStore) Set(ctx context.Context, collection, id string, value []byte) error {
	if err := s.client.HSet(ctx, collection, id, value).Err(); err != nil {
		return apperr.Remote("redis set "+collection, err)
	}
	s.notify(ctx, collection, "updated")
	return nil
}

func (s *RedisStore) Update(ctx context.Context, collection, id string, mutate func([]byte) ([]byte, error)) error {
	txf := func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, collection, id).Bytes()
		if errors.Is(err, redis.Nil) {
			current = nil
		} else if err != nil {
			return err
		}

		next, err := mutate(current)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if next == nil {
				pipe.HDel(ctx, collection, id)
			} else {
				pipe.HSet(ctx, collection, id, next)
			}
			return nil
		})
		return err
	}

	// Transaction optimiste : WATCH sur le hash de la collection, relecture
	// tant qu'une écriture concurrente invalide la transaction.
	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, collection)
		switch {
		case err == nil:
			s.notify(ctx, collection, "updated")
			return nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		case errors.Is(err, apperr.ErrNotFound), apperr.IsRemote(err):
			// erreur métier remontée par mutate, ne pas ré-envelopper
			return err
		default:
			if isMutateError(err) {
				return err
			}
			return apperr.Remote("redis update "+collection, err)
		}
	}
	return apperr.Remote("redis update "+collection, errors.New("trop de conflits d'écriture concurrents"))
}

// isMutateError distingue les erreurs métier (renvoyées par le callback
// mutate) des erreurs transport Redis, qui seules méritent RemoteError.
func isMutateError(err error) bool {
	var rerr redis.Error
	return !errors.As(err, &rerr)
}

func (s *RedisStore) Delete(ctx context.Context, collection, id string) error {
	if err := s.client.HDel(ctx, collection, id).Err(); err != nil {
		return apperr.Remote("redis delete "+collection, err)
	}
	s.notify(ctx, collection, "updated")
	return nil
}

func (s *RedisStore) Query(ctx context.Context, collection string) (map[string][]byte, error) {
	values, err := s.client.HGetAll(ctx, collection).Result()
	if err != nil {
		return nil, apperr.Remote("redis query "+collection, err)
	}
	docs := make(map[string][]byte, len(values))
	for id, raw := range values {
		docs[id] = []byte(raw)
	}
	return docs, nil
}

func (s *RedisStore) Subscribe(ctx context.Context, collection string) (Subscription, error) {
	pubsub := s.client.Subscribe(ctx, collection)
	// Confirme l'abonnement avant de retourner le handle.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, apperr.Remote("redis subscribe "+collection, err)
	}

	sub := &redisSubscription{
		pubsub: pubsub,
		events: make(chan Event, 8),
	}
	go sub.run(collection, pubsub.Channel())
	return sub, nil
}

func (s *RedisStore) Batch() Batch {
	return &redisBatch{store: s}
}

// notify publie la notification de changement ; un échec de publication
// n'invalide pas l'écriture, les observateurs rattraperont au prochain
// événement.
func (s *RedisStore) notify(ctx context.Context, collection, payload string) {
	_ = s.client.Publish(ctx, collection, payload).Err()
}

type redisSubscription struct {
	pubsub *redis.PubSub
	events chan Event
}

func (s *redisSubscription) run(collection string, msgs <-chan *redis.Message) {
	defer close(s.events)
	for msg := range msgs {
		// Coalescence : buffer plein = une notification déjà en attente,
		// et l'observateur relit l'état complet à chaque événement. Ne
		// jamais bloquer ici — après Close, plus personne ne lit events.
		select {
		case s.events <- Event{Collection: collection, Payload: msg.Payload}:
		default:
		}
	}
}

func (s *redisSubscription) Events() <-chan Event { return s.events }

func (s *redisSubscription) Close() error { return s.pubsub.Close() }

type batchOp struct {
	collection string
	id         string
	value      []byte // nil = delete
}

// redisBatch committe via MULTI/EXEC : la frontière d'atomicité acceptée
// est celle de la transaction Redis.
type redisBatch struct {
	store *RedisStore
	ops   []batchOp
}

func (b *redisBatch) Set(collection, id string, value []byte) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id, value: value})
}

func (b *redisBatch) Delete(collection, id string) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id})
}

func (b *redisBatch) Commit(ctx context.Context) error {
	if len(b.ops) == 0 {
		return nil
	}

	pipe := b.store.client.TxPipeline()
	touched := make(map[string]struct{})
	for _, op := range b.ops {
		if op.value == nil {
			pipe.HDel(ctx, op.collection, op.id)
		} else {
			pipe.HSet(ctx, op.collection, op.id, op.value)
		}
		touched[op.collection] = struct{}{}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.Remote("redis batch commit", err)
	}
	for collection := range touched {
		b.store.notify(ctx, collection, "updated")
	}
	return nil
}
