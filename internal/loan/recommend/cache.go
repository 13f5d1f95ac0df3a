package recommend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"loan-advisor/internal/common/logger"
	"loan-advisor/internal/loan/profile"

	"github.com/redis/go-redis/v9"
)

// Cache stores generated lists keyed by a hash of the answers and engine settings.
type Cache interface {
	Get(ctx context.Context, key string) ([]Recommendation, bool, error)
	Set(ctx context.Context, key string, recs []Recommendation) error
}

// RedisCache keeps recommendation lists as JSON with a TTL.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: "loan:recommendations:", ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]Recommendation, bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var recs []Recommendation
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, false, fmt.Errorf("decode cached recommendations: %w", err)
	}
	return recs, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, recs []Recommendation) error {
	raw, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encode recommendations: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// CachedEngine answers repeated questionnaires from a Cache. Cache failures
// are logged and fall through to the engine.
type CachedEngine struct {
	engine      *Engine
	cache       Cache
	log         logger.Logger
	fingerprint string
}

func NewCachedEngine(engine *Engine, cache Cache, log logger.Logger) *CachedEngine {
	return &CachedEngine{
		engine:      engine,
		cache:       cache,
		log:         log.WithFields(map[string]interface{}{"component": "recommendation-cache"}),
		fingerprint: engine.fingerprint(),
	}
}

func (c *CachedEngine) Generate(ctx context.Context, answers profile.Answers) []Recommendation {
	key := c.key(answers)

	if recs, ok, err := c.cache.Get(ctx, key); err != nil {
		c.log.Warn("recommendation cache read failed", map[string]interface{}{"error": err.Error()})
	} else if ok {
		return recs
	}

	recs := c.engine.Generate(answers)
	if err := c.cache.Set(ctx, key, recs); err != nil {
		c.log.Warn("recommendation cache write failed", map[string]interface{}{"error": err.Error()})
	}
	return recs
}

func (c *CachedEngine) Recommend(ctx context.Context, answers profile.Answers) []Recommendation {
	return c.Generate(ctx, answers)
}

func (c *CachedEngine) key(answers profile.Answers) string {
	raw, _ := json.Marshal(answers)
	sum := sha256.Sum256(append([]byte(c.fingerprint), raw...))
	return hex.EncodeToString(sum[:])
}

// fingerprint changes whenever the catalog or settings that shape results change.
func (e *Engine) fingerprint() string {
	raw, _ := json.Marshal(struct {
		Products   interface{}
		TermYears  int
		MaxResults int
		Threshold  float64
	}{e.catalog.Products(), e.termYears, e.maxResults, e.threshold})
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:8])
}
