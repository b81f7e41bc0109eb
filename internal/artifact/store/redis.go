package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"churn-predictor/internal/common/config"
)

// RedisStore loads bundles from a Redis-backed registry. Bundle payloads
// live under <prefix>:bundle:<version>; <prefix>:current names the version
// to serve. The payload is a single document, so the pointer flip is the
// only publication step a trainer performs.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisStore(client *redis.Client, keyPrefix string) *RedisStore {
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

func NewRedisStoreFromConfig(cfg config.RedisConfig) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	return &RedisStore{client: rdb, keyPrefix: cfg.KeyPrefix}
}

func (s *RedisStore) Load(ctx context.Context) ([]byte, error) {
	version, err := s.client.Get(ctx, s.currentKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("no current bundle version at %s", s.currentKey())
		}
		return nil, fmt.Errorf("read current bundle version: %w", err)
	}

	payload, err := s.client.Get(ctx, s.bundleKey(version)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("bundle %s named by %s does not exist", version, s.currentKey())
		}
		return nil, fmt.Errorf("read bundle %s: %w", version, err)
	}
	return payload, nil
}

func (s *RedisStore) Describe() string {
	return fmt.Sprintf("redis:%s", s.keyPrefix)
}

func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

func (s *RedisStore) currentKey() string {
	return s.keyPrefix + ":current"
}

func (s *RedisStore) bundleKey(version string) string {
	return s.keyPrefix + ":bundle:" + version
}
