package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/cart"

	"github.com/redis/go-redis/v9"
)

// RedisOptions はRedis接続の設定
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient は接続して疎通確認まで行う
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// RedisCartStorage はカートのスナップショットをRedisに置く。
// ttl>0 なら保存のたびに期限を延ばす。
type RedisCartStorage struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisCartStorage(client redis.Cmdable, ttl time.Duration) *RedisCartStorage {
	return &RedisCartStorage{client: client, ttl: ttl}
}

func (s *RedisCartStorage) Load(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cart.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return b, nil
}

func (s *RedisCartStorage) Save(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisCartStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

var _ cart.Storage = (*RedisCartStorage)(nil)
