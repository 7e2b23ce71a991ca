package repository

import "context"

// KVStore is the storage substrate behind the merchant session store. Reads
// of absent keys return domain.ErrKeyNotFound; writes replace the whole value.
// The session store is the sole writer of its keys.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
