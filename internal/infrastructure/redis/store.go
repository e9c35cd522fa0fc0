package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/martijn/clientcrud/internal/infrastructure/cache"
	"github.com/redis/go-redis/v9"
)

// Store implements cache.Store on a Redis server.
type Store struct {
	cli *redis.Client
}

func NewStore(cli *redis.Client) *Store {
	return &Store{cli: cli}
}

// Connect dials addr and verifies the server answers PING.
func Connect(ctx context.Context, addr, password string, db int) (*Store, error) {
	cli := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := cli.Ping(ctx).Err(); err != nil {
		cli.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return NewStore(cli), nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.cli.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cache.ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.cli.Set(ctx, key, value, ttl).Err()
}

func (s *Store) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.cli.Del(ctx, keys...).Err()
}

func (s *Store) Close() error {
	return s.cli.Close()
}
