package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store mirrors the local key-value contract onto Redis so several gateway
// instances can share client identities and attempt records. Ban expiry is
// still reconciled lazily by the attempt manager; the optional TTL only
// garbage-collects records that went fully stale.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore wraps the client. ttl <= 0 keeps records until overwritten.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) Get(key string) ([]byte, bool) {
	value, err := s.client.Get(context.Background(), s.key(key)).Bytes()
	if err != nil {
		return nil, false
	}
	return value, true
}

func (s *Store) Set(key string, value []byte) error {
	return s.client.Set(context.Background(), s.key(key), value, s.ttl).Err()
}

func (s *Store) Delete(key string) {
	_ = s.client.Del(context.Background(), s.key(key)).Err()
}

func (s *Store) key(key string) string {
	return "securejoin:state:" + key
}
