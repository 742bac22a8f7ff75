package session

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/petrijr/stepform/pkg/api"
)

// RedisStore is an api.Store backed by Redis. Each session is one hash:
//
//	<prefix>sess:<session id>  =>  field per key, gob-encoded values
//
// Writes are staged in memory and flushed with a single pipeline by Save.
// The handle carries the request context it was created with, since the
// store contract itself is context-free.
type RedisStore struct {
	ctx       context.Context
	client    *redis.Client
	prefix    string
	sessionID string

	mu     sync.Mutex
	staged map[string]any
}

// Ensure RedisStore implements api.Store.
var _ api.Store = (*RedisStore)(nil)

// NewRedisStore creates a store handle scoped to sessionID.
// prefix is optional but recommended (e.g. "stepform:").
func NewRedisStore(ctx context.Context, client *redis.Client, sessionID, prefix string) (*RedisStore, error) {
	if sessionID == "" {
		return nil, errors.New("session id is required")
	}
	if prefix == "" {
		prefix = "stepform:"
	}
	return &RedisStore{
		ctx:       ctx,
		client:    client,
		prefix:    prefix,
		sessionID: sessionID,
		staged:    make(map[string]any),
	}, nil
}

func (s *RedisStore) key() string {
	return s.prefix + "sess:" + s.sessionID
}

func (s *RedisStore) Get(key string, def any) (any, error) {
	s.mu.Lock()
	if v, ok := s.staged[key]; ok {
		s.mu.Unlock()
		return v, nil
	}
	s.mu.Unlock()

	raw, err := s.client.HGet(s.ctx, s.key(), key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return def, nil
		}
		return nil, err
	}

	v, err := DecodeValue(raw)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return def, nil
	}
	return v, nil
}

func (s *RedisStore) Put(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.staged[key] = value
	return nil
}

func (s *RedisStore) Increment(key string) error {
	cur, err := s.Get(key, 0)
	if err != nil {
		return err
	}
	n, _ := asInt(cur)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.staged[key] = n + 1
	return nil
}

// Save flushes all staged writes with one HSET pipeline.
func (s *RedisStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.staged) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for key, value := range s.staged {
		raw, err := EncodeValue(value)
		if err != nil {
			return err
		}
		pipe.HSet(s.ctx, s.key(), key, raw)
	}

	if _, err := pipe.Exec(s.ctx); err != nil {
		return err
	}

	s.staged = make(map[string]any)
	return nil
}
