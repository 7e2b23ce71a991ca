package redis

import (
	"context"
	"fmt"

	redislib "github.com/redis/go-redis/v9"

	"github.com/sttmarket/backend/domain"
	"github.com/sttmarket/backend/repository"
)

type kvStore struct {
	client *redislib.Client
	prefix string
}

// NewKVStore creates a Redis-backed substrate for the merchant session store.
// Values are stored without TTL: logout is the only thing that removes a
// session, matching the durable-by-default storage contract.
func NewKVStore(client *redislib.Client, prefix string) repository.KVStore {
	return &kvStore{
		client: client,
		prefix: prefix,
	}
}

func (s *kvStore) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if err == redislib.Nil {
			return nil, domain.ErrKeyNotFound
		}
		return nil, err
	}
	return result, nil
}

func (s *kvStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.key(key), value, 0).Err()
}

func (s *kvStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

// Ping satisfies the connection monitor's health probe.
func (s *kvStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *kvStore) key(key string) string {
	if s.prefix == "" {
		return key
	}
	return fmt.Sprintf("%s%s", s.prefix, key)
}
