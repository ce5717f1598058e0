package ledger_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ledger-api/internal/application/dto"
	"github.com/jhoicas/retail-ledger-api/internal/application/ledger"
	"github.com/jhoicas/retail-ledger-api/internal/application/ports"
	"github.com/jhoicas/retail-ledger-api/internal/domain"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
	"github.com/jhoicas/retail-ledger-api/internal/infrastructure/memory"
)

type recordedEntry struct {
	action, objectType, objectID string
}

type spyRecorder struct {
	mu      sync.Mutex
	entries []recordedEntry
}

func (s *spyRecorder) Record(_ context.Context, action, objectType, objectID string, _, _ any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, recordedEntry{action, objectType, objectID})
}

type countingCache struct {
	ports.NopReportCache
	mu          sync.Mutex
	invalidated int
}

func (c *countingCache) Invalidate(context.Context) {
	c.mu.Lock()
	c.invalidated++
	c.mu.Unlock()
}

type fixture struct {
	store *memory.Store
	svc   *ledger.Service
	audit *spyRecorder
	cache *countingCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.New()
	audit := &spyRecorder{}
	cache := &countingCache{}
	return &fixture{
		store: st,
		svc:   ledger.NewService(st, st.Products(), st.Movements(), st.Suppliers(), audit, cache),
		audit: audit,
		cache: cache,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// product crea un producto con el stock inicial cargado como ajuste.
func (f *fixture) product(t *testing.T, stock string) *entity.Product {
	t.Helper()
	now := time.Now().UTC()
	p := &entity.Product{
		ID:                uuid.New().String(),
		SKU:               "SKU-" + uuid.New().String()[:8],
		Name:              "Ponni Rice",
		PricePerKg:        dec("60"),
		PurchaseCostPerKg: dec("30"),
		LowStockThreshold: dec("10"),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	require.NoError(t, f.store.Products().Create(t.Context(), p))
	if s := dec(stock); s.IsPositive() {
		_, err := f.svc.RecordMovement(t.Context(), ledger.MovementInput{
			ProductID:  p.ID,
			Type:       entity.MovementTypeIN,
			Source:     entity.MovementSourceAdjustment,
			QuantityKg: s,
		})
		require.NoError(t, err)
	}
	return p
}

func (f *fixture) stock(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	s, err := f.svc.CurrentStock(t.Context(), productID)
	require.NoError(t, err)
	return s
}

func (f *fixture) movementCount(t *testing.T, productID string) int {
	t.Helper()
	n, err := f.store.Movements().CountByProduct(t.Context(), productID)
	require.NoError(t, err)
	return n
}

func out(productID, qty string) ledger.MovementInput {
	return ledger.MovementInput{
		ProductID:  productID,
		Type:       entity.MovementTypeOUT,
		Source:     entity.MovementSourceSale,
		QuantityKg: dec(qty),
	}
}

func TestRecordMovement_ValidationHasNoEffect(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "100")

	tests := []struct {
		name    string
		in      ledger.MovementInput
		wantErr error
	}{
		{"cantidad cero", ledger.MovementInput{ProductID: p.ID, Type: entity.MovementTypeIN, Source: entity.MovementSourcePurchase}, domain.ErrInvalidQuantity},
		{"cantidad negativa", ledger.MovementInput{ProductID: p.ID, Type: entity.MovementTypeIN, Source: entity.MovementSourcePurchase, QuantityKg: dec("-1")}, domain.ErrInvalidQuantity},
		{"tipo inválido", ledger.MovementInput{ProductID: p.ID, Type: "MOVE", Source: entity.MovementSourcePurchase, QuantityKg: dec("1")}, domain.ErrInvalidInput},
		{"origen inválido", ledger.MovementInput{ProductID: p.ID, Type: entity.MovementTypeIN, Source: "GIFT", QuantityKg: dec("1")}, domain.ErrInvalidInput},
		{"producto inexistente", out(uuid.New().String(), "1"), domain.ErrUnknownProduct},
		{"sin stock suficiente", out(p.ID, "100.001"), domain.ErrInsufficientStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := f.svc.RecordMovement(t.Context(), tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, id)
		})
	}

	assert.True(t, f.stock(t, p.ID).Equal(dec("100")))
	assert.Equal(t, 1, f.movementCount(t, p.ID))
}

func TestRecordMovement_OutToZero(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "12.5")

	_, err := f.svc.RecordMovement(t.Context(), out(p.ID, "12.5"))
	require.NoError(t, err)
	assert.True(t, f.stock(t, p.ID).IsZero())

	_, err = f.svc.RecordMovement(t.Context(), out(p.ID, "0.001"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestRecordMovement_RecordsActorAuditAndInvalidatesCache(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "10")
	before := f.cache.invalidated

	ctx := domain.WithActor(t.Context(), domain.Actor{UserID: "u-1", Username: "caja1"})
	id, err := f.svc.RecordMovement(ctx, out(p.ID, "4"))
	require.NoError(t, err)

	m, err := f.store.Movements().GetByID(t.Context(), id)
	require.NoError(t, err)
	assert.Equal(t, "u-1", m.CreatedBy)
	assert.Equal(t, entity.MovementTypeOUT, m.Type)
	assert.Greater(t, f.cache.invalidated, before)
	assert.Contains(t, f.audit.entries, recordedEntry{entity.ActionCreate, entity.ObjectStock, id})
}

func TestRecordMovement_ArchivedProductOnlyAcceptsReversal(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "10")
	require.NoError(t, f.store.Products().Archive(t.Context(), p.ID, time.Now().UTC()))

	_, err := f.svc.RecordMovement(t.Context(), ledger.MovementInput{
		ProductID: p.ID, Type: entity.MovementTypeIN, Source: entity.MovementSourcePurchase, QuantityKg: dec("5"),
	})
	assert.ErrorIs(t, err, domain.ErrUnknownProduct)

	_, err = f.svc.RecordMovement(t.Context(), ledger.MovementInput{
		ProductID: p.ID, Type: entity.MovementTypeIN, Source: entity.MovementSourceSaleReversal, QuantityKg: dec("5"),
	})
	require.NoError(t, err)
	assert.True(t, f.stock(t, p.ID).Equal(dec("15")))
}

func TestConcurrentOutsNeverOversell(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "100")

	var (
		wg   sync.WaitGroup
		errs = make([]error, 2)
	)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.svc.RecordMovement(t.Context(), out(p.ID, "60"))
		}()
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)
	assert.True(t, f.stock(t, p.ID).Equal(dec("40")))

	v, err := f.svc.Verify(t.Context(), p.ID)
	require.NoError(t, err)
	assert.True(t, v.Consistent)
}

func TestReplayMatchesCacheAfterRandomWalk(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "50")
	rng := rand.New(rand.NewPCG(7, 11))

	for range 300 {
		qty := decimal.New(int64(rng.IntN(20000)+1), -3) // 0.001 .. 20.000
		in := ledger.MovementInput{ProductID: p.ID, Type: entity.MovementTypeIN, Source: entity.MovementSourcePurchase, QuantityKg: qty}
		if rng.IntN(2) == 0 {
			in.Type, in.Source = entity.MovementTypeOUT, entity.MovementSourceSale
		}
		_, err := f.svc.RecordMovement(t.Context(), in)
		if err != nil {
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
		assert.False(t, f.stock(t, p.ID).IsNegative())
	}

	v, err := f.svc.Verify(t.Context(), p.ID)
	require.NoError(t, err)
	assert.True(t, v.Consistent, "cache %s ledger %s", v.CachedStockKg, v.LedgerStockKg)
}

func TestHistory_PaginatesAndIsRestartable(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "1000")
	for range 450 {
		_, err := f.svc.RecordMovement(t.Context(), out(p.ID, "1"))
		require.NoError(t, err)
	}

	seq := f.svc.History(t.Context(), repository.MovementFilter{ProductID: p.ID})
	collect := func() []entity.StockMovement {
		var rows []entity.StockMovement
		for m, err := range seq {
			require.NoError(t, err)
			rows = append(rows, m)
		}
		return rows
	}

	first := collect()
	require.Len(t, first, 451)
	assert.Equal(t, entity.MovementSourceAdjustment, first[0].Source)
	for i := 1; i < len(first); i++ {
		assert.Less(t, first[i-1].Seq, first[i].Seq)
	}
	assert.Equal(t, first, collect())

	limited := 0
	for _, err := range f.svc.History(t.Context(), repository.MovementFilter{ProductID: p.ID, Limit: 205}) {
		require.NoError(t, err)
		limited++
	}
	assert.Equal(t, 205, limited)

	replayed, err := f.svc.Replay(t.Context(), p.ID)
	require.NoError(t, err)
	assert.True(t, replayed.Equal(dec("550")))
}

func TestHistoryList_FiltersBySource(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "20")
	_, err := f.svc.RecordMovement(t.Context(), out(p.ID, "5"))
	require.NoError(t, err)

	rows, err := f.svc.HistoryList(t.Context(), repository.MovementFilter{Source: entity.MovementSourceSale})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ponni Rice", rows[0].ProductName)
	assert.True(t, rows[0].QuantityKg.Equal(dec("5")))
}

func TestRecordInTx_CancelledContextRollsBack(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "100")

	ctx, cancel := context.WithCancel(t.Context())
	err := f.store.Run(ctx, func(r ports.TxRepos) error {
		_, _, err := f.svc.RecordInTx(ctx, r, out(p.ID, "30"))
		require.NoError(t, err)
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, f.stock(t, p.ID).Equal(dec("100")))
	assert.Equal(t, 1, f.movementCount(t, p.ID))
}

func TestRecordInTx_ErrorRollsBackEarlierMovements(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "10")
	b := f.product(t, "1")

	err := f.store.Run(t.Context(), func(r ports.TxRepos) error {
		if _, _, err := f.svc.RecordInTx(t.Context(), r, out(a.ID, "5")); err != nil {
			return err
		}
		_, _, err := f.svc.RecordInTx(t.Context(), r, out(b.ID, "2"))
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.stock(t, a.ID).Equal(dec("10")))
	assert.Equal(t, 1, f.movementCount(t, a.ID))
}

func TestStockIn_WeightedAverageCost(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "100") // costo 30

	res, err := f.svc.StockIn(t.Context(), dto.StockInRequest{
		ProductID:         p.ID,
		QuantityKg:        dec("50"),
		PurchaseCostPerKg: dec("45"),
		InvoiceRef:        "F-001",
	})
	require.NoError(t, err)
	assert.True(t, res.AvailableStockKg.Equal(dec("150")))
	assert.Equal(t, entity.MovementSourcePurchase, res.Movement.Source)
	require.NotNil(t, res.Movement.PurchaseCostPerKg)

	got, err := f.store.Products().GetByID(t.Context(), p.ID)
	require.NoError(t, err)
	// (100*30 + 50*45) / 150 = 35
	assert.True(t, got.PurchaseCostPerKg.Equal(dec("35")), got.PurchaseCostPerKg.String())
}

func TestStockIn_UnknownSupplier(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "0")

	_, err := f.svc.StockIn(t.Context(), dto.StockInRequest{
		ProductID: p.ID, QuantityKg: dec("5"), SupplierID: uuid.New().String(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, f.movementCount(t, p.ID))
}

func TestAdjust(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "10")

	_, err := f.svc.Adjust(t.Context(), dto.AdjustStockRequest{ProductID: p.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	res, err := f.svc.Adjust(t.Context(), dto.AdjustStockRequest{ProductID: p.ID, DeltaKg: dec("-2.5"), Notes: "merma"})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeOUT, res.Movement.Type)
	assert.True(t, res.Movement.QuantityKg.Equal(dec("2.5")))
	assert.True(t, res.AvailableStockKg.Equal(dec("7.5")))

	_, err = f.svc.Adjust(t.Context(), dto.AdjustStockRequest{ProductID: p.ID, DeltaKg: dec("-8")})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}
