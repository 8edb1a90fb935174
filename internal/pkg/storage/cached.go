package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedURLStorage decorates a FileStorage with a Redis cache of presigned read
// URLs. A cached URL is kept for expiry minus margin, so a URL served from the
// cache is always valid for at least margin. Cache failures never fail a call.
type CachedURLStorage struct {
	inner     FileStorage
	rdb       *redis.Client
	margin    time.Duration
	namespace string
}

// NewCachedURLStorage wraps inner. A zero margin defaults to 5 minutes and an
// empty namespace to "presigned".
func NewCachedURLStorage(inner FileStorage, rdb *redis.Client, margin time.Duration, namespace string) *CachedURLStorage {
	if margin <= 0 {
		margin = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "presigned"
	}
	return &CachedURLStorage{
		inner:     inner,
		rdb:       rdb,
		margin:    margin,
		namespace: namespace,
	}
}

func (c *CachedURLStorage) Upload(ctx context.Context, file io.Reader, size int64, path string, contentType string) (string, error) {
	key, err := c.inner.Upload(ctx, file, size, path, contentType)
	if err != nil {
		return "", err
	}
	c.evict(ctx, path)
	return key, nil
}

func (c *CachedURLStorage) Delete(ctx context.Context, path string) error {
	if err := c.inner.Delete(ctx, path); err != nil {
		return err
	}
	c.evict(ctx, path)
	return nil
}

func (c *CachedURLStorage) GetURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	ttl := expiry - c.margin
	if c.rdb == nil || ttl <= 0 {
		return c.inner.GetURL(ctx, path, expiry)
	}

	key := c.cacheKey(path, expiry)

	cached, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil && cached != "":
		return cached, nil
	case err != nil && !errors.Is(err, redis.Nil):
		slog.Warn("presigned url cache read failed", "key", path, "error", err)
	}

	url, err := c.inner.GetURL(ctx, path, expiry)
	if err != nil {
		return "", err
	}

	if err := c.rdb.Set(ctx, key, url, ttl).Err(); err != nil {
		slog.Warn("presigned url cache write failed", "key", path, "error", err)
	}
	return url, nil
}

// PresignUpload is never cached; each call signs a fresh URL.
func (c *CachedURLStorage) PresignUpload(ctx context.Context, path string, contentType string, expiry time.Duration) (string, error) {
	return c.inner.PresignUpload(ctx, path, contentType, expiry)
}

func (c *CachedURLStorage) Exists(ctx context.Context, path string) (bool, error) {
	return c.inner.Exists(ctx, path)
}

// evict drops every cached URL for path, whatever expiry it was signed with.
func (c *CachedURLStorage) evict(ctx context.Context, path string) {
	if c.rdb == nil {
		return
	}

	pattern := c.cacheKeyPrefix(path) + "*"
	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			slog.Warn("presigned url cache eviction failed", "key", path, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("presigned url cache eviction failed", "key", path, "error", err)
				return
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}

func (c *CachedURLStorage) cacheKey(path string, expiry time.Duration) string {
	return fmt.Sprintf("%s%d", c.cacheKeyPrefix(path), int64(expiry/time.Second))
}

func (c *CachedURLStorage) cacheKeyPrefix(path string) string {
	return fmt.Sprintf("%s:%s:", c.namespace, safe(path))
}

// safe escapes characters that would break key layout or SCAN patterns.
func safe(s string) string {
	return strings.NewReplacer(
		" ", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"[", "_",
		"]", "_",
	).Replace(s)
}
