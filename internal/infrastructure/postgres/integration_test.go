package postgres_test

import (
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ledger-api/internal/application/auth"
	"github.com/jhoicas/retail-ledger-api/internal/application/dto"
	"github.com/jhoicas/retail-ledger-api/internal/bootstrap"
	"github.com/jhoicas/retail-ledger-api/internal/domain"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
	"github.com/jhoicas/retail-ledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/retail-ledger-api/pkg/config"
)

// newTestPool usa RETAIL_TEST_DATABASE_URL (una base descartable); sin la variable se omite.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("RETAIL_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("RETAIL_TEST_DATABASE_URL no definido")
	}
	pool, err := postgres.NewPool(t.Context(), config.DBConfig{DatabaseURL: url, OpTimeout: 5 * time.Second})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(t.Context(), pool))
	_, err = pool.Exec(t.Context(), `TRUNCATE activity_logs, sales, stock_movements, expenses, suppliers, products, users`)
	require.NoError(t, err)
	return pool
}

func newContainer(t *testing.T) *bootstrap.Container {
	t.Helper()
	pool := newTestPool(t)
	return bootstrap.New(bootstrap.PostgresStores(pool, 5*time.Second), bootstrap.Options{
		JWT: auth.JWTConfig{Secret: "integration-secret"},
	})
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPostgres_SaleLifecycle(t *testing.T) {
	c := newContainer(t)
	ctx := t.Context()

	p, err := c.Products.Create(ctx, dto.CreateProductRequest{SKU: "PONNI-1", Name: "Ponni Rice", PricePerKg: dec("60"), AvailableStockKg: dec("100"), LowStockThreshold: dec("10")})
	require.NoError(t, err)
	_, err = c.Ledger.StockIn(ctx, dto.StockInRequest{ProductID: p.ID, QuantityKg: dec("50"), PurchaseCostPerKg: dec("40")})
	require.NoError(t, err)

	sale, err := c.Sales.Create(ctx, dto.CreateSaleRequest{ProductID: p.ID, QuantityKg: dec("30")})
	require.NoError(t, err)
	assert.True(t, sale.Total.Equal(dec("1800")))

	stock, err := c.Ledger.CurrentStock(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stock.Equal(dec("120")))

	require.NoError(t, c.Sales.Delete(ctx, sale.ID))
	assert.ErrorIs(t, c.Sales.Delete(ctx, sale.ID), domain.ErrNotFound)

	var sources []string
	for m, err := range c.Ledger.History(ctx, repository.MovementFilter{ProductID: p.ID}) {
		require.NoError(t, err)
		sources = append(sources, m.Source)
	}
	assert.Equal(t, []string{
		entity.MovementSourceAdjustment,
		entity.MovementSourcePurchase,
		entity.MovementSourceSale,
		entity.MovementSourceSaleReversal,
	}, sources)

	v, err := c.Ledger.Verify(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, v.Consistent)
	assert.True(t, v.LedgerStockKg.Equal(dec("150")))
}

func TestPostgres_ConcurrentSalesRowLock(t *testing.T) {
	c := newContainer(t)
	ctx := t.Context()

	p, err := c.Products.Create(ctx, dto.CreateProductRequest{SKU: "RACE-1", Name: "Race", PricePerKg: dec("1"), AvailableStockKg: dec("100")})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = c.Sales.Create(ctx, dto.CreateSaleRequest{ProductID: p.ID, QuantityKg: dec("60")})
		}()
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			assert.True(t, errors.Is(err, domain.ErrInsufficientStock), err.Error())
			failed++
		}
	}
	assert.Equal(t, 1, failed)

	stock, err := c.Ledger.CurrentStock(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stock.Equal(dec("40")))
}

func TestPostgres_DuplicateSKU(t *testing.T) {
	c := newContainer(t)
	_, err := c.Products.Create(t.Context(), dto.CreateProductRequest{SKU: "DUP-1", Name: "A"})
	require.NoError(t, err)
	_, err = c.Products.Create(t.Context(), dto.CreateProductRequest{SKU: "dup-1", Name: "B"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}
