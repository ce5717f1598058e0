package cache_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ledger-api/internal/application/dto"
	"github.com/jhoicas/retail-ledger-api/internal/application/ports"
	"github.com/jhoicas/retail-ledger-api/internal/application/reporting"
	"github.com/jhoicas/retail-ledger-api/internal/application/usecase"
	"github.com/jhoicas/retail-ledger-api/internal/infrastructure/cache"
	"github.com/jhoicas/retail-ledger-api/internal/infrastructure/memory"
)

func newMiniCache(t *testing.T) (*cache.RedisReportCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	c := cache.NewRedisReportCacheFromClient(client, nil)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestInvalidate_FailedIncrSkipsCacheUntilRetried(t *testing.T) {
	c, mr := newMiniCache(t)
	ctx := t.Context()

	require.NoError(t, c.Set(ctx, 0, "daily:2024-03-11", map[string]int{"count": 1}, time.Minute))

	mr.SetError("LOADING redis se está reiniciando")
	c.Invalidate(ctx)

	var got map[string]int
	_, _, err := c.Get(ctx, "daily:2024-03-11", &got)
	require.Error(t, err, "con Redis caído y la invalidación pendiente Get no puede responder")

	mr.SetError("")
	hit, gen, err := c.Get(ctx, "daily:2024-03-11", &got)
	require.NoError(t, err)
	assert.False(t, hit, "el reporte previo a la mutación no debe servirse")
	assert.Equal(t, int64(1), gen)

	// Ya aplicada, la caché vuelve a funcionar con normalidad.
	require.NoError(t, c.Set(ctx, gen, "daily:2024-03-11", map[string]int{"count": 2}, time.Minute))
	hit, _, err = c.Get(ctx, "daily:2024-03-11", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 2, got["count"])
}

func TestDailyReport_SeesExpenseCommittedWhileRedisWasDown(t *testing.T) {
	c, mr := newMiniCache(t)
	ctx := t.Context()
	ist := time.FixedZone("IST", 5*3600+1800)

	store := memory.New()
	reports := reporting.NewService(store.Products(), store.Sales(), store.Expenses(), ist, c, 5*time.Minute, nil)
	expenses := usecase.NewExpenseUseCase(store.Expenses(), ports.NopActivityRecorder{}, c)

	before, err := reports.DailyReport(ctx, "2024-03-11")
	require.NoError(t, err)
	assert.Zero(t, before.ExpensesCount)

	mr.SetError("LOADING redis se está reiniciando")
	day := time.Date(2024, 3, 11, 12, 0, 0, 0, ist)
	_, err = expenses.Create(ctx, dto.CreateExpenseRequest{Title: "Luz", Amount: decimal.NewFromInt(500), ExpenseDate: &day})
	require.NoError(t, err, "la caché no participa en la mutación")
	mr.SetError("")

	after, err := reports.DailyReport(ctx, "2024-03-11")
	require.NoError(t, err)
	assert.Equal(t, 1, after.ExpensesCount)
	assert.True(t, after.ExpensesTotal.Equal(decimal.NewFromInt(500)))
}
