package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ledger-api/internal/application/ports"
	"github.com/jhoicas/retail-ledger-api/internal/domain"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/infrastructure/memory"
)

func seedProduct(t *testing.T, st *memory.Store) *entity.Product {
	t.Helper()
	p := &entity.Product{ID: "p-1", SKU: "RICE-1", Name: "Ponni Rice", AvailableStockKg: decimal.NewFromInt(100)}
	require.NoError(t, st.Products().Create(t.Context(), p))
	return p
}

// holdWriter ocupa el turno de escritura hasta que se cierre release.
func holdWriter(t *testing.T, st *memory.Store) (release chan struct{}, done chan error) {
	t.Helper()
	started := make(chan struct{})
	release = make(chan struct{})
	done = make(chan error, 1)
	go func() {
		done <- st.Run(context.Background(), func(ports.TxRepos) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started
	return release, done
}

func TestRun_BusyWriterFailsFastWithUnavailable(t *testing.T) {
	st := memory.New(memory.WithOpTimeout(50 * time.Millisecond))
	release, done := holdWriter(t, st)

	start := time.Now()
	err := st.Run(t.Context(), func(ports.TxRepos) error {
		t.Fatal("no debe ejecutarse sin el turno de escritura")
		return nil
	})
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.True(t, domain.IsRetryable(err))
	assert.Less(t, elapsed, time.Second)

	close(release)
	require.NoError(t, <-done)
}

func TestRun_CancelledCallerIsNotUnavailable(t *testing.T) {
	st := memory.New()
	release, done := holdWriter(t, st)
	defer func() {
		close(release)
		<-done
	}()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	err := st.Run(ctx, func(ports.TxRepos) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, domain.ErrUnavailable))
}

func TestRun_CancelledBeforeCommitPublishesNothing(t *testing.T) {
	st := memory.New()
	p := seedProduct(t, st)

	ctx, cancel := context.WithCancel(t.Context())
	err := st.Run(ctx, func(r ports.TxRepos) error {
		if err := r.Products.SetStock(ctx, p.ID, decimal.NewFromInt(40)); err != nil {
			return err
		}
		if err := r.Movements.Create(ctx, &entity.StockMovement{
			ID: "m-1", ProductID: p.ID, Type: entity.MovementTypeOUT, Source: entity.MovementSourceSale,
			QuantityKg: decimal.NewFromInt(60), CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		cancel()
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)

	got, err := st.Products().GetByID(t.Context(), p.ID)
	require.NoError(t, err)
	assert.True(t, got.AvailableStockKg.Equal(decimal.NewFromInt(100)))
	n, err := st.Movements().CountByProduct(t.Context(), p.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRun_ErrorRollsBack(t *testing.T) {
	st := memory.New()
	p := seedProduct(t, st)
	boom := errors.New("boom")

	err := st.Run(t.Context(), func(r ports.TxRepos) error {
		require.NoError(t, r.Products.SetStock(t.Context(), p.ID, decimal.Zero))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := st.Products().GetByID(t.Context(), p.ID)
	require.NoError(t, err)
	assert.True(t, got.AvailableStockKg.Equal(decimal.NewFromInt(100)))
}

func TestRun_ReadersDoNotSeeUncommittedWork(t *testing.T) {
	st := memory.New()
	p := seedProduct(t, st)

	err := st.Run(t.Context(), func(r ports.TxRepos) error {
		if err := r.Products.SetStock(t.Context(), p.ID, decimal.NewFromInt(40)); err != nil {
			return err
		}
		outside, err := st.Products().GetByID(t.Context(), p.ID)
		require.NoError(t, err)
		assert.True(t, outside.AvailableStockKg.Equal(decimal.NewFromInt(100)))
		return nil
	})
	require.NoError(t, err)

	got, err := st.Products().GetByID(t.Context(), p.ID)
	require.NoError(t, err)
	assert.True(t, got.AvailableStockKg.Equal(decimal.NewFromInt(40)))
}
