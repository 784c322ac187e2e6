package transcription

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cachePrefix     = "transcript:"
	defaultCacheTTL = 24 * time.Hour
)

// Cache remembers transcripts by the SHA-256 of the audio bytes.
type Cache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCache(redisClient *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{redis: redisClient, ttl: ttl}
}

func Key(data []byte) string {
	sum := sha256.Sum256(data)
	return cachePrefix + hex.EncodeToString(sum[:])
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	text, err := c.redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

func (c *Cache) Set(ctx context.Context, key, text string) error {
	return c.redis.Set(ctx, key, text, c.ttl).Err()
}

// CachedTranscriber consults the cache before calling the wrapped
// Transcriber. Cache failures are logged and never fail a request.
type CachedTranscriber struct {
	next  Transcriber
	cache *Cache
	log   *slog.Logger

	// OnLookup, if set, is told whether each lookup hit.
	OnLookup func(hit bool)
}

func NewCachedTranscriber(next Transcriber, cache *Cache, log *slog.Logger) *CachedTranscriber {
	if log == nil {
		log = slog.Default()
	}
	return &CachedTranscriber{next: next, cache: cache, log: log}
}

func (t *CachedTranscriber) Transcribe(ctx context.Context, audio Audio) (string, error) {
	key := Key(audio.Data)

	text, hit, err := t.cache.Get(ctx, key)
	if err != nil {
		t.log.Warn("transcript cache lookup failed", "error", err)
	}
	if t.OnLookup != nil {
		t.OnLookup(hit)
	}
	if hit {
		t.log.Debug("transcript cache hit", "key", key)
		return text, nil
	}

	text, err = t.next.Transcribe(ctx, audio)
	if err != nil {
		return "", err
	}
	if err := t.cache.Set(ctx, key, text); err != nil {
		t.log.Warn("transcript cache store failed", "error", err)
	}
	return text, nil
}
