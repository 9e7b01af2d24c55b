package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// NonceStore implements ports.NonceStore using Redis SET NX.
// Keys are "webhook:<scope>:<nonce>" so each webhook endpoint has its own namespace.
type NonceStore struct {
	client *goredis.Client
	prefix string
}

// NewNonceStore creates a new Redis-backed nonce store.
func NewNonceStore(client *goredis.Client) *NonceStore {
	return &NonceStore{
		client: client,
		prefix: "webhook:",
	}
}

func (s *NonceStore) key(scope, nonce string) string {
	return s.prefix + scope + ":" + nonce
}

// CheckAndSet records nonce if it has not been seen within ttl.
// Returns true for a first delivery, false for a replay.
func (s *NonceStore) CheckAndSet(ctx context.Context, scope string, nonce string, ttl time.Duration) (bool, error) {
	err := s.client.SetArgs(ctx, s.key(scope, nonce), time.Now().Unix(), goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Err()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis nonce check: %w", err)
	}
	return true, nil
}

// Release deletes the marker so the sender's retry is processed instead of
// being acknowledged as a duplicate.
func (s *NonceStore) Release(ctx context.Context, scope string, nonce string) error {
	if err := s.client.Del(ctx, s.key(scope, nonce)).Err(); err != nil {
		return fmt.Errorf("redis nonce release: %w", err)
	}
	return nil
}

// NoopNonceStore accepts every nonce. Used when Redis is disabled; replays are
// then absorbed by the idempotent payment upsert.
type NoopNonceStore struct{}

func (NoopNonceStore) CheckAndSet(context.Context, string, string, time.Duration) (bool, error) {
	return true, nil
}

func (NoopNonceStore) Release(context.Context, string, string) error { return nil }
