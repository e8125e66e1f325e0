// Package feedcache caches provider feed responses in Redis.
//
// Cache decorates a ports.FeedClient: a hit skips the provider walk entirely, a
// miss fetches from the wrapped client and stores the events for the configured
// TTL. Failed and incomplete fetches are never cached, and Redis errors degrade
// to a pass-through.
package feedcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tracking/internal/core/domain/model/feed"
	"tracking/internal/core/ports"
	"tracking/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "tracking:feed"

// Cache is a read-through Redis cache in front of a feed client.
type Cache struct {
	client *redis.Client
	next   ports.FeedClient
	ttl    time.Duration
	sink   metrics.Sink
	logger *slog.Logger
}

// New wraps next with a cache whose entries live for ttl.
func New(client *redis.Client, next ports.FeedClient, ttl time.Duration, sink metrics.Sink, logger *slog.Logger) *Cache {
	if sink == nil {
		sink = metrics.NewNoopSink()
	}
	return &Cache{
		client: client,
		next:   next,
		ttl:    ttl,
		sink:   sink,
		logger: logger.With("component", "feed-cache"),
	}
}

// FetchFeed returns cached events for the transaction or fetches and caches them.
func (c *Cache) FetchFeed(ctx context.Context, transactionID string, kind feed.Kind) ([]feed.TaskEvent, error) {
	if transactionID == "" {
		return c.next.FetchFeed(ctx, transactionID, kind)
	}

	key := buildKey(kind, transactionID)

	events, found, err := c.load(ctx, key)
	switch {
	case err != nil:
		c.sink.FeedCacheLookup(kind.String(), metrics.CacheError)
		c.logger.WarnContext(ctx, "feed cache read failed", "key", key, "error", err)
	case found:
		c.sink.FeedCacheLookup(kind.String(), metrics.CacheHit)
		return events, nil
	default:
		c.sink.FeedCacheLookup(kind.String(), metrics.CacheMiss)
	}

	events, err = c.next.FetchFeed(ctx, transactionID, kind)
	if errors.Is(err, feed.ErrFeedIncomplete) {
		c.logger.DebugContext(ctx, "incomplete feed not cached", "key", key)
		return events, err
	}
	if err != nil {
		return nil, err
	}

	if err := c.store(ctx, key, events); err != nil {
		c.logger.WarnContext(ctx, "feed cache write failed", "key", key, "error", err)
	}

	return events, nil
}

func (c *Cache) load(ctx context.Context, key string) ([]feed.TaskEvent, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var dtos []taskEventDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		return nil, false, fmt.Errorf("decode cached feed: %w", err)
	}

	return toDomain(dtos), true, nil
}

func (c *Cache) store(ctx context.Context, key string, events []feed.TaskEvent) error {
	raw, err := json.Marshal(fromDomain(events))
	if err != nil {
		return fmt.Errorf("encode feed: %w", err)
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func buildKey(kind feed.Kind, transactionID string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, kind, transactionID)
}
