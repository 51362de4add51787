package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ikkim/hotel-admin-backend/config"
	"github.com/ikkim/hotel-admin-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	blacklistPrefix = "blacklist:"
	tagCatalogKey   = "cache:tags:catalog"
)

var client *redis.Client

// Init initializes the shared Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	c := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		_ = c.Close()
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	client = c
	logger.Info("Redis connection established successfully")
	return nil
}

// GetClient returns the shared Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the shared Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection")
		return client.Close()
	}
	return nil
}

// Store wraps a client with the key layouts used by the service:
// revoked tokens and the cached tag catalog.
type Store struct {
	c       *redis.Client
	observe func(event string)
}

// NewStore builds a Store over c. observe, when non-nil, receives cache
// events: hit, miss, set, del.
func NewStore(c *redis.Client, observe func(event string)) *Store {
	if observe == nil {
		observe = func(string) {}
	}
	return &Store{c: c, observe: observe}
}

// BlacklistToken revokes a token until it would have expired anyway
func (s *Store) BlacklistToken(ctx context.Context, token string, expiry time.Duration) error {
	if expiry <= 0 {
		// already expired; JWT validation rejects it on its own
		return nil
	}
	logger.Debug("Adding token to blacklist", map[string]interface{}{
		"expiry": expiry.String(),
	})

	if err := s.c.Set(ctx, blacklistPrefix+token, "revoked", expiry).Err(); err != nil {
		logger.Error("Failed to blacklist token", err)
		return err
	}
	return nil
}

// IsTokenBlacklisted checks if a token has been revoked
func (s *Store) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	val, err := s.c.Get(ctx, blacklistPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token blacklist", err)
		return false, err
	}
	return val == "revoked", nil
}

// GetJSON loads key into dst. found is false on a cache miss.
func (s *Store) GetJSON(ctx context.Context, key string, dst interface{}) (found bool, err error) {
	b, err := s.c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		s.observe("miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		// treat a corrupt entry as a miss and drop it
		s.observe("miss")
		_ = s.c.Del(ctx, key).Err()
		return false, nil
	}
	s.observe("hit")
	return true, nil
}

// SetJSON stores v under key for ttl
func (s *Store) SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.observe("set")
	return s.c.Set(ctx, key, b, ttl).Err()
}

// Del removes keys
func (s *Store) Del(ctx context.Context, keys ...string) error {
	s.observe("del")
	return s.c.Del(ctx, keys...).Err()
}

// TagCatalogKey returns the cache key for the tag catalog, optionally narrowed by category
func TagCatalogKey(category string) string {
	if category == "" {
		return tagCatalogKey
	}
	return tagCatalogKey + ":" + category
}

// InvalidateTagCatalog drops every cached catalog variant
func (s *Store) InvalidateTagCatalog(ctx context.Context) error {
	keys := []string{tagCatalogKey}
	iter := s.c.Scan(ctx, 0, tagCatalogKey+":*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return s.Del(ctx, keys...)
}
