package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ledger-api/internal/application/dto"
	"github.com/jhoicas/retail-ledger-api/internal/application/ledger"
	"github.com/jhoicas/retail-ledger-api/internal/application/ports"
	"github.com/jhoicas/retail-ledger-api/internal/application/sales"
	"github.com/jhoicas/retail-ledger-api/internal/application/usecase"
	"github.com/jhoicas/retail-ledger-api/internal/domain"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
	"github.com/jhoicas/retail-ledger-api/internal/infrastructure/memory"
)

type catalog struct {
	store    *memory.Store
	ledger   *ledger.Service
	products *usecase.ProductUseCase
}

func newCatalog() *catalog {
	st := memory.New()
	l := ledger.NewService(st, st.Products(), st.Movements(), st.Suppliers(), ports.NopActivityRecorder{}, ports.NopReportCache{})
	return &catalog{
		store:    st,
		ledger:   l,
		products: usecase.NewProductUseCase(st, l, st.Products(), ports.NopActivityRecorder{}, ports.NopReportCache{}),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

func (c *catalog) movements(t *testing.T, productID string) []entity.StockMovement {
	t.Helper()
	var rows []entity.StockMovement
	for m, err := range c.ledger.History(t.Context(), repository.MovementFilter{ProductID: productID}) {
		require.NoError(t, err)
		rows = append(rows, m)
	}
	return rows
}

func TestProductCreate_InitialStockGoesThroughLedger(t *testing.T) {
	c := newCatalog()

	p, err := c.products.Create(t.Context(), dto.CreateProductRequest{
		SKU:               " rice-01 ",
		Name:              "  Ponni Rice ",
		PricePerKg:        dec("60"),
		AvailableStockKg:  dec("100"),
		LowStockThreshold: dec("10"),
	})
	require.NoError(t, err)
	assert.Equal(t, "RICE-01", p.SKU)
	assert.Equal(t, "Ponni Rice", p.Name)
	assert.True(t, p.AvailableStockKg.Equal(dec("100")))
	assert.False(t, p.LowStock)

	rows := c.movements(t, p.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.MovementTypeIN, rows[0].Type)
	assert.Equal(t, entity.MovementSourceAdjustment, rows[0].Source)
	assert.True(t, rows[0].QuantityKg.Equal(dec("100")))
}

func TestProductCreate_ZeroStockHasNoMovement(t *testing.T) {
	c := newCatalog()
	p, err := c.products.Create(t.Context(), dto.CreateProductRequest{Name: "Toor Dal"})
	require.NoError(t, err)
	assert.Regexp(t, `^PRD-[0-9A-F]{8}$`, p.SKU)
	assert.Empty(t, c.movements(t, p.ID))
}

func TestProductCreate_Rejects(t *testing.T) {
	c := newCatalog()
	_, err := c.products.Create(t.Context(), dto.CreateProductRequest{SKU: "RICE-01", Name: "Ponni Rice"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		in      dto.CreateProductRequest
		wantErr error
	}{
		{"sin nombre", dto.CreateProductRequest{Name: "   "}, domain.ErrInvalidInput},
		{"stock negativo", dto.CreateProductRequest{Name: "X", AvailableStockKg: dec("-1")}, domain.ErrInvalidQuantity},
		{"precio negativo", dto.CreateProductRequest{Name: "X", PricePerKg: dec("-0.01")}, domain.ErrInvalidInput},
		{"sku duplicado sin distinguir mayúsculas", dto.CreateProductRequest{SKU: "rice-01", Name: "Otro"}, domain.ErrDuplicate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.products.Create(t.Context(), tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	list, err := c.products.List(t.Context(), usecase.ProductListQuery{})
	require.NoError(t, err)
	assert.Len(t, list.Products, 1)
}

func TestProductUpdate_StockChangeIsAdjustment(t *testing.T) {
	c := newCatalog()
	p, err := c.products.Create(t.Context(), dto.CreateProductRequest{Name: "Ponni Rice", AvailableStockKg: dec("50")})
	require.NoError(t, err)

	updated, err := c.products.Update(t.Context(), p.ID, dto.UpdateProductRequest{
		Name:             ptr("Ponni Rice 25kg"),
		PricePerKg:       ptr(dec("62.5")),
		AvailableStockKg: ptr(dec("42.25")),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ponni Rice 25kg", updated.Name)
	assert.True(t, updated.PricePerKg.Equal(dec("62.5")))
	assert.True(t, updated.AvailableStockKg.Equal(dec("42.25")))

	rows := c.movements(t, p.ID)
	require.Len(t, rows, 2)
	assert.Equal(t, entity.MovementTypeOUT, rows[1].Type)
	assert.True(t, rows[1].QuantityKg.Equal(dec("7.75")))

	// mismo stock: no genera movimiento
	_, err = c.products.Update(t.Context(), p.ID, dto.UpdateProductRequest{AvailableStockKg: ptr(dec("42.25"))})
	require.NoError(t, err)
	assert.Len(t, c.movements(t, p.ID), 2)

	v, err := c.ledger.Verify(t.Context(), p.ID)
	require.NoError(t, err)
	assert.True(t, v.Consistent)
}

func TestProductUpdate_DuplicateSKURollsBack(t *testing.T) {
	c := newCatalog()
	_, err := c.products.Create(t.Context(), dto.CreateProductRequest{SKU: "A-1", Name: "A"})
	require.NoError(t, err)
	b, err := c.products.Create(t.Context(), dto.CreateProductRequest{SKU: "B-1", Name: "B"})
	require.NoError(t, err)

	_, err = c.products.Update(t.Context(), b.ID, dto.UpdateProductRequest{SKU: ptr("a-1"), Name: ptr("B2")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := c.products.GetByID(t.Context(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Name)
	assert.Equal(t, "B-1", got.SKU)
}

func TestProductDelete_ArchivesWhenReferenced(t *testing.T) {
	c := newCatalog()
	clean, err := c.products.Create(t.Context(), dto.CreateProductRequest{Name: "Sin historial"})
	require.NoError(t, err)
	used, err := c.products.Create(t.Context(), dto.CreateProductRequest{Name: "Con historial", AvailableStockKg: dec("5")})
	require.NoError(t, err)

	res, err := c.products.Delete(t.Context(), clean.ID)
	require.NoError(t, err)
	assert.False(t, res.Archived)
	_, err = c.products.GetByID(t.Context(), clean.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	res, err = c.products.Delete(t.Context(), used.ID)
	require.NoError(t, err)
	assert.True(t, res.Archived)

	_, err = c.products.GetByID(t.Context(), used.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, c.movements(t, used.ID), 1, "el historial del archivado se conserva")

	list, err := c.products.List(t.Context(), usecase.ProductListQuery{})
	require.NoError(t, err)
	assert.Empty(t, list.Products)

	_, err = c.products.Delete(t.Context(), used.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = c.products.Update(t.Context(), used.ID, dto.UpdateProductRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestProductDelete_ArchivedKeepsSaleReversible(t *testing.T) {
	c := newCatalog()
	salesSvc := sales.NewService(c.store, c.ledger, c.store.Sales(), ports.NopActivityRecorder{}, ports.NopReportCache{})
	p, err := c.products.Create(t.Context(), dto.CreateProductRequest{Name: "Basmati", PricePerKg: dec("90"), AvailableStockKg: dec("10")})
	require.NoError(t, err)
	sale, err := salesSvc.Create(t.Context(), dto.CreateSaleRequest{ProductID: p.ID, QuantityKg: dec("4")})
	require.NoError(t, err)

	_, err = c.products.Delete(t.Context(), p.ID)
	require.NoError(t, err)
	_, err = salesSvc.Create(t.Context(), dto.CreateSaleRequest{ProductID: p.ID, QuantityKg: dec("1")})
	assert.ErrorIs(t, err, domain.ErrUnknownProduct)

	require.NoError(t, salesSvc.Delete(t.Context(), sale.ID))
	stock, err := c.ledger.CurrentStock(t.Context(), p.ID)
	require.NoError(t, err)
	assert.True(t, stock.Equal(dec("10")))
}

func TestProductList_SearchAndLowStock(t *testing.T) {
	c := newCatalog()
	for _, in := range []dto.CreateProductRequest{
		{SKU: "RICE-1", Name: "Ponni Rice", Category: "Arroz", AvailableStockKg: dec("5"), LowStockThreshold: dec("10")},
		{SKU: "RICE-2", Name: "Basmati", Category: "Arroz", AvailableStockKg: dec("10"), LowStockThreshold: dec("10")},
		{SKU: "DAL-1", Name: "Toor Dal", Category: "Legumbres", AvailableStockKg: dec("1"), LowStockThreshold: dec("2")},
	} {
		_, err := c.products.Create(t.Context(), in)
		require.NoError(t, err)
	}

	got, err := c.products.List(t.Context(), usecase.ProductListQuery{Search: "arroz"})
	require.NoError(t, err)
	assert.Len(t, got.Products, 2)

	got, err = c.products.List(t.Context(), usecase.ProductListQuery{LowStock: true})
	require.NoError(t, err)
	names := []string{}
	for _, p := range got.Products {
		names = append(names, p.Name)
		assert.True(t, p.LowStock)
	}
	assert.ElementsMatch(t, []string{"Ponni Rice", "Toor Dal"}, names)

	got, err = c.products.List(t.Context(), usecase.ProductListQuery{Size: 1, Offset: 1})
	require.NoError(t, err)
	assert.Len(t, got.Products, 1)
}

func TestProductImport(t *testing.T) {
	c := newCatalog()
	_, err := c.products.Create(t.Context(), dto.CreateProductRequest{SKU: "RICE-1", Name: "Ponni Rice"})
	require.NoError(t, err)

	out, err := c.products.Import(t.Context(), []dto.CreateProductRequest{
		{SKU: "RICE-1", Name: "Ponni Rice"},
		{SKU: "DAL-1", Name: "Toor Dal", AvailableStockKg: dec("20")},
		{SKU: "BAD-1", Name: ""},
		{SKU: "ATTA-1", Name: "Atta", PricePerKg: dec("45")},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Created)
	assert.Equal(t, 1, out.Skipped)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, 4, out.Errors[0].Row)

	list, err := c.products.List(t.Context(), usecase.ProductListQuery{Search: "dal"})
	require.NoError(t, err)
	require.Len(t, list.Products, 1)
	assert.True(t, list.Products[0].AvailableStockKg.Equal(dec("20")))
}

func TestProductImport_StopsOnCancelledContext(t *testing.T) {
	c := newCatalog()
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	out, err := c.products.Import(ctx, []dto.CreateProductRequest{{Name: "A"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, out.Created)
}

func TestExpenseCreate_Defaults(t *testing.T) {
	st := memory.New()
	uc := usecase.NewExpenseUseCase(st.Expenses(), ports.NopActivityRecorder{}, ports.NopReportCache{})

	e, err := uc.Create(t.Context(), dto.CreateExpenseRequest{Title: " Luz ", Amount: dec("1234.567")})
	require.NoError(t, err)
	assert.Equal(t, "Luz", e.Title)
	assert.Equal(t, entity.DefaultExpenseCategory, e.Category)
	assert.True(t, e.Amount.Equal(dec("1234.57")))
	assert.WithinDuration(t, time.Now(), e.ExpenseDate, time.Minute)

	_, err = uc.Create(t.Context(), dto.CreateExpenseRequest{Title: "x", Amount: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	day := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	_, err = uc.Create(t.Context(), dto.CreateExpenseRequest{Title: "Alquiler", Amount: dec("5000"), Category: "Local", ExpenseDate: &day})
	require.NoError(t, err)

	from, to := day.Add(-time.Hour), day.Add(time.Hour)
	list, err := uc.List(t.Context(), &from, &to, 0)
	require.NoError(t, err)
	require.Len(t, list.Expenses, 1)
	assert.Equal(t, "Local", list.Expenses[0].Category)
}
