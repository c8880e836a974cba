package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kseleznev/stayfit/config"
	"github.com/kseleznev/stayfit/internal/domain"
)

// RedisCache backs the listing and session-list read caches. Values are
// JSON blobs with a TTL; a miss returns (nil, nil) so callers fall
// through to the database.
type RedisCache struct {
	client      *redis.Client
	listingsTTL time.Duration
	sessionsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, listingsTTL, sessionsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		listingsTTL: listingsTTL,
		sessionsTTL: sessionsTTL,
	}
}

func (c *RedisCache) GetListings(ctx context.Context) ([]domain.Listing, error) {
	data, err := c.client.Get(ctx, listingsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var listings []domain.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (c *RedisCache) SetListings(ctx context.Context, listings []domain.Listing) error {
	payload, err := json.Marshal(listings)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listingsKey(), payload, c.listingsTTL).Err()
}

func (c *RedisCache) GetSessions(ctx context.Context, key string) ([]domain.SessionView, error) {
	data, err := c.client.Get(ctx, sessionsKey(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var views []domain.SessionView
	if err := json.Unmarshal(data, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (c *RedisCache) SetSessions(ctx context.Context, key string, views []domain.SessionView) error {
	payload, err := json.Marshal(views)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, sessionsKey(key), payload, c.sessionsTTL).Err()
}

// InvalidateSessions drops every cached session listing; called after
// materialization creates new sessions.
func (c *RedisCache) InvalidateSessions(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, sessionsKey("*"), 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func listingsKey() string {
	return "cache:listings"
}

func sessionsKey(key string) string {
	return fmt.Sprintf("cache:sessions:%s", key)
}
