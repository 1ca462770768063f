package cache

import (
	"context"
	"fmt"

	"recipe-browser/internal/infrastructure/config"
	"recipe-browser/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

// Service is the redis-backed search result cache. Entries are opaque byte
// payloads; the caller owns the encoding so this package stays free of the
// catalog types.
type Service struct {
	client *redis.Client
	config *config.CacheConfig
}

// NewService connects to redis when the cache is enabled. A disabled cache
// yields a service whose operations report ErrCacheDisabled.
func NewService(cfg *config.CacheConfig) (*Service, error) {
	if !cfg.Enabled {
		return &Service{config: cfg}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Service{
		client: client,
		config: cfg,
	}, nil
}

// Get returns the cached payload for key.
func (s *Service) Get(ctx context.Context, key string) ([]byte, error) {
	if !s.config.Enabled || s.client == nil {
		return nil, common.ErrCacheDisabled
	}

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, common.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}
	return data, nil
}

// Set stores the payload under key with the configured TTL.
func (s *Service) Set(ctx context.Context, key string, data []byte) error {
	if !s.config.Enabled || s.client == nil {
		return nil
	}

	if err := s.client.Set(ctx, key, data, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Enabled reports whether the cache is active.
func (s *Service) Enabled() bool {
	return s != nil && s.config.Enabled && s.client != nil
}

// Close releases the redis connection.
func (s *Service) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}
