package session

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"loan-advisor/internal/common/errors"

	"github.com/redis/go-redis/v9"
)

const redisMaxRetries = 5

// RedisStore keeps sessions as JSON values. Updates use WATCH/MULTI so
// concurrent writers to the same session are serialized across processes.
type RedisStore struct {
	client *redis.Client
	prefix string
	opts   options
}

func NewRedisStore(client *redis.Client, opts ...Option) *RedisStore {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &RedisStore{client: client, prefix: "chat:session:", opts: o}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

func (r *RedisStore) Create(ctx context.Context, profile *UserProfile) (*Session, error) {
	s := New(r.opts.newID(), profile, r.opts.now())

	raw, err := json.Marshal(s)
	if err != nil {
		return nil, errors.NewSessionStoreFailedError("create", err)
	}
	ok, err := r.client.SetNX(ctx, r.key(s.ID), raw, r.opts.ttl).Result()
	if err != nil {
		return nil, errors.NewSessionStoreFailedError("create", err)
	}
	if !ok {
		return nil, errors.NewSessionStoreFailedError("create", fmt.Errorf("session id %s already exists", s.ID))
	}
	return s, nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	return r.load(ctx, r.client, id)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *RedisStore) load(ctx context.Context, c getter, id string) (*Session, error) {
	raw, err := c.Get(ctx, r.key(id)).Bytes()
	if err == redis.Nil {
		return nil, errors.NewSessionNotFoundError(id)
	}
	if err != nil {
		return nil, errors.NewSessionStoreFailedError("get", err)
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, errors.NewSessionStoreFailedError("decode", err)
	}
	return &s, nil
}

func (r *RedisStore) Update(ctx context.Context, id string, fn func(s *Session) error) (*Session, error) {
	key := r.key(id)
	var updated *Session
	var fnErr error

	txf := func(tx *redis.Tx) error {
		s, err := r.load(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(s); err != nil {
			fnErr = err
			return err
		}
		s.ID = id

		raw, err := json.Marshal(s)
		if err != nil {
			return errors.NewSessionStoreFailedError("encode", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, r.opts.ttl)
			return nil
		})
		if err == nil {
			updated = s
		}
		return err
	}

	for i := 0; i < redisMaxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if fnErr != nil {
			return nil, fnErr
		}
		if stderrors.Is(err, redis.TxFailedErr) {
			continue
		}
		if _, ok := errors.AsStandardError(err); ok {
			return nil, err
		}
		return nil, errors.NewSessionStoreFailedError("update", err)
	}
	return nil, errors.NewSessionStoreFailedError("update", fmt.Errorf("session %s: too much contention", id))
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, r.key(id)).Result()
	if err != nil {
		return errors.NewSessionStoreFailedError("delete", err)
	}
	if n == 0 {
		return errors.NewSessionNotFoundError(id)
	}
	return nil
}
