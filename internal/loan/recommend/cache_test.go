package recommend

import (
	"context"
	"fmt"
	"testing"
	"time"

	"loan-advisor/internal/common/logger"
	"loan-advisor/internal/loan/catalog"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisCache_RoundTrip(t *testing.T) {
	mr, client := setupMiniredis(t)
	cache := NewRedisCache(client, time.Minute)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	recs := NewEngine(catalog.Builtin()).Generate(scenarioAnswers())
	require.NoError(t, cache.Set(ctx, "k", recs))

	got, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, recs, got)

	assert.Equal(t, time.Minute, mr.TTL("loan:recommendations:k"))

	mr.FastForward(2 * time.Minute)
	_, ok, err = cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_CorruptEntry(t *testing.T) {
	mr, client := setupMiniredis(t)
	require.NoError(t, mr.Set("loan:recommendations:bad", "{not json"))

	_, ok, err := NewRedisCache(client, time.Minute).Get(context.Background(), "bad")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisCache_Errors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCache(client, time.Minute)

	mock.ExpectGet("loan:recommendations:k").SetErr(fmt.Errorf("connection reset"))
	_, _, err := cache.Get(context.Background(), "k")
	assert.ErrorContains(t, err, "connection reset")

	mock.ExpectSet("loan:recommendations:k", []byte("[]"), time.Minute).SetErr(fmt.Errorf("OOM"))
	err = cache.Set(context.Background(), "k", []Recommendation{})
	assert.ErrorContains(t, err, "OOM")

	assert.NoError(t, mock.ExpectationsWereMet())
}

type countingCache struct {
	entries map[string][]Recommendation
	gets    int
	sets    int
	failGet bool
}

func (c *countingCache) Get(_ context.Context, key string) ([]Recommendation, bool, error) {
	c.gets++
	if c.failGet {
		return nil, false, fmt.Errorf("unavailable")
	}
	recs, ok := c.entries[key]
	return recs, ok, nil
}

func (c *countingCache) Set(_ context.Context, key string, recs []Recommendation) error {
	c.sets++
	c.entries[key] = recs
	return nil
}

func TestCachedEngine(t *testing.T) {
	engine := NewEngine(catalog.Builtin())
	cache := &countingCache{entries: map[string][]Recommendation{}}
	cached := NewCachedEngine(engine, cache, logger.NewTestLogger(t))
	ctx := context.Background()

	first := cached.Generate(ctx, scenarioAnswers())
	second := cached.Generate(ctx, scenarioAnswers())

	assert.Equal(t, engine.Generate(scenarioAnswers()), first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 2, cache.gets)

	other := scenarioAnswers()
	other.CreditHistory = catalog.CreditMedium
	cached.Generate(ctx, other)
	assert.Equal(t, 2, cache.sets)
	assert.Len(t, cache.entries, 2)
}

func TestCachedEngine_ReadFailureFallsThrough(t *testing.T) {
	engine := NewEngine(catalog.Builtin())
	cache := &countingCache{entries: map[string][]Recommendation{}, failGet: true}
	cached := NewCachedEngine(engine, cache, logger.NewTestLogger(t))

	recs := cached.Generate(context.Background(), scenarioAnswers())
	assert.Equal(t, engine.Generate(scenarioAnswers()), recs)
}

func TestFingerprint_DependsOnSettings(t *testing.T) {
	a := NewEngine(catalog.Builtin())
	b := NewEngine(catalog.Builtin(), WithTermYears(3))
	assert.Equal(t, a.fingerprint(), NewEngine(catalog.Builtin()).fingerprint())
	assert.NotEqual(t, a.fingerprint(), b.fingerprint())
}
