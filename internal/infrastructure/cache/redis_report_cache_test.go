package cache

import (
	"context"
	"os"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type report struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

func TestVersionedKey(t *testing.T) {
	assert.Equal(t, "retail:reports:0:daily:2024-03-11", versioned(0, "daily:2024-03-11"))
	assert.Equal(t, "retail:reports:42:dashboard:2024-03-11", versioned(42, "dashboard:2024-03-11"))
}

func TestGet_UnreachableRedisReturnsError(t *testing.T) {
	c := NewRedisReportCache("127.0.0.1:1", "", 0, nil)
	defer c.Close()

	var dst report
	hit, _, err := c.Get(t.Context(), "daily:x", &dst)
	assert.Error(t, err)
	assert.False(t, hit)

	assert.NotPanics(t, func() { c.Invalidate(t.Context()) })
}

// newTestCache usa RETAIL_TEST_REDIS_ADDR; sin la variable el test se omite.
func newTestCache(t *testing.T) *RedisReportCache {
	t.Helper()
	addr := os.Getenv("RETAIL_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("RETAIL_TEST_REDIS_ADDR no definido")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	require.NoError(t, client.FlushDB(t.Context()).Err())
	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})
	return NewRedisReportCacheFromClient(client, nil)
}

func TestRedisReportCache_Generations(t *testing.T) {
	c := newTestCache(t)
	ctx := t.Context()

	var got report
	hit, gen, err := c.Get(ctx, "daily:2024-03-11", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Zero(t, gen)

	require.NoError(t, c.Set(ctx, gen, "daily:2024-03-11", report{Label: "2024-03-11", Count: 2}, time.Minute))
	hit, _, err = c.Get(ctx, "daily:2024-03-11", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, report{Label: "2024-03-11", Count: 2}, got)

	c.Invalidate(ctx)
	hit, newGen, err := c.Get(ctx, "daily:2024-03-11", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, gen+1, newGen)

	// Un reporte calculado antes de la invalidación queda en la generación vieja.
	require.NoError(t, c.Set(ctx, gen, "daily:2024-03-11", report{Count: 99}, time.Minute))
	hit, _, err = c.Get(ctx, "daily:2024-03-11", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}
