// Package reporting deriva el dashboard y los reportes diario/mensual de las ventas,
// los gastos y el catálogo. Solo lee: nunca modifica el ledger ni las ventas.
package reporting

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger-api/internal/application/dto"
	"github.com/jhoicas/retail-ledger-api/internal/application/ports"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
	"github.com/jhoicas/retail-ledger-api/pkg/logger"
)

const (
	dashboardTopSellers = 5 // productos en el widget de más vendidos

	// Stock ideal al reponer, como múltiplo del umbral de stock bajo.
	reorderFactor = "1.5"
)

// Service casos de uso de reportes.
type Service struct {
	products repository.ProductRepository
	sales    repository.SaleRepository
	expenses repository.ExpenseRepository
	loc      *time.Location
	cache    ports.ReportCache
	ttl      time.Duration
	log      *logger.Logger
}

// NewService construye el servicio. loc es la zona horaria de la tienda; nil usa UTC.
func NewService(
	products repository.ProductRepository,
	sales repository.SaleRepository,
	expenses repository.ExpenseRepository,
	loc *time.Location,
	cache ports.ReportCache,
	ttl time.Duration,
	log *logger.Logger,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if cache == nil {
		cache = ports.NopReportCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		products: products,
		sales:    sales,
		expenses: expenses,
		loc:      loc,
		cache:    cache,
		ttl:      ttl,
		log:      log,
	}
}

// Location zona horaria usada para las ventanas.
func (s *Service) Location() *time.Location { return s.loc }

// DashboardSummary construye el resumen del día y del mes que contienen now.
//
// Tres lecturas en paralelo:
//  1. ventas del mes (de ahí salen también las de hoy y los más vendidos)
//  2. gastos del mes
//  3. productos con stock bajo
func (s *Service) DashboardSummary(ctx context.Context, now time.Time) (*dto.DashboardSummaryResponse, error) {
	day := DayWindow(now, s.loc)
	month := MonthWindow(now, s.loc)

	key := "dashboard:" + day.Start.Format(dayLayout)
	var cached dto.DashboardSummaryResponse
	hit, gen := s.cached(ctx, key, &cached)
	if hit {
		return &cached, nil
	}

	type salesResult struct {
		rows []entity.Sale
		err  error
	}
	type expensesResult struct {
		rows []entity.Expense
		err  error
	}
	type productsResult struct {
		rows []*entity.Product
		err  error
	}

	salesCh := make(chan salesResult, 1)
	expensesCh := make(chan expensesResult, 1)
	lowCh := make(chan productsResult, 1)

	go func() {
		rows, err := s.salesIn(ctx, month)
		salesCh <- salesResult{rows, err}
	}()
	go func() {
		rows, err := s.expensesIn(ctx, month)
		expensesCh <- expensesResult{rows, err}
	}()
	go func() {
		rows, err := s.products.List(ctx, repository.ProductFilter{LowStockOnly: true})
		lowCh <- productsResult{rows, err}
	}()

	monthSales := <-salesCh
	monthExpenses := <-expensesCh
	low := <-lowCh

	if monthSales.err != nil {
		return nil, fmt.Errorf("dashboard: ventas del mes: %w", monthSales.err)
	}
	if monthExpenses.err != nil {
		return nil, fmt.Errorf("dashboard: gastos del mes: %w", monthExpenses.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}

	var todaySales, todayExpenses, monthSalesTotal, monthExpensesTotal decimal.Decimal
	for _, sale := range monthSales.rows {
		monthSalesTotal = monthSalesTotal.Add(sale.Total)
		if day.Contains(sale.SaleDate) {
			todaySales = todaySales.Add(sale.Total)
		}
	}
	for _, e := range monthExpenses.rows {
		monthExpensesTotal = monthExpensesTotal.Add(e.Amount)
		if day.Contains(e.ExpenseDate) {
			todayExpenses = todayExpenses.Add(e.Amount)
		}
	}

	out := &dto.DashboardSummaryResponse{
		Date:             day.Start.Format(dayLayout),
		Month:            monthLabel(month.Start),
		Today:            totals(todaySales, todayExpenses),
		MonthTotals:      totals(monthSalesTotal, monthExpensesTotal),
		LowStockProducts: LowStock(low.rows),
		BestSellers:      BestSellers(monthSales.rows, dashboardTopSellers),
	}
	s.store(ctx, gen, key, out)
	return out, nil
}

// DailyReport reporte del día date ("YYYY-MM-DD", hora local de la tienda).
func (s *Service) DailyReport(ctx context.Context, date string) (*dto.ReportResponse, error) {
	w, err := ParseDay(date, s.loc)
	if err != nil {
		return nil, err
	}
	return s.report(ctx, "daily", w.Start.Format(dayLayout), w)
}

// MonthlyReport reporte del mes month ("YYYY-MM").
func (s *Service) MonthlyReport(ctx context.Context, month string) (*dto.ReportResponse, error) {
	w, err := ParseMonth(month, s.loc)
	if err != nil {
		return nil, err
	}
	return s.report(ctx, "monthly", w.Start.Format(monthLayout), w)
}

func (s *Service) report(ctx context.Context, period, label string, w Window) (*dto.ReportResponse, error) {
	key := "report:" + period + ":" + label
	var cached dto.ReportResponse
	hit, gen := s.cached(ctx, key, &cached)
	if hit {
		return &cached, nil
	}

	sales, err := s.salesIn(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("reporte %s %s: ventas: %w", period, label, err)
	}
	expenses, err := s.expensesIn(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("reporte %s %s: gastos: %w", period, label, err)
	}

	out := &dto.ReportResponse{
		Period:        period,
		Label:         label,
		Start:         w.Start,
		End:           w.End,
		SalesCount:    len(sales),
		SalesTotal:    decimal.Zero,
		QuantityKg:    decimal.Zero,
		ExpensesCount: len(expenses),
		ExpensesTotal: decimal.Zero,
	}
	for _, sale := range sales {
		out.SalesTotal = out.SalesTotal.Add(sale.Total)
		out.QuantityKg = out.QuantityKg.Add(sale.QuantityKg)
	}
	for _, e := range expenses {
		out.ExpensesTotal = out.ExpensesTotal.Add(e.Amount)
	}
	out.SalesTotal = out.SalesTotal.Round(2)
	out.ExpensesTotal = out.ExpensesTotal.Round(2)
	out.Profit = out.SalesTotal.Sub(out.ExpensesTotal)

	s.store(ctx, gen, key, out)
	return out, nil
}

// SalesIn ventas vigentes de la ventana, ordenadas por (SaleDate, ID). Lo usan las exportaciones.
func (s *Service) SalesIn(ctx context.Context, w Window) ([]entity.Sale, error) {
	return s.salesIn(ctx, w)
}

func (s *Service) salesIn(ctx context.Context, w Window) ([]entity.Sale, error) {
	from, to := w.Start.UTC(), w.End.UTC()
	return s.sales.List(ctx, repository.SaleFilter{From: &from, To: &to})
}

func (s *Service) expensesIn(ctx context.Context, w Window) ([]entity.Expense, error) {
	from, to := w.Start.UTC(), w.End.UTC()
	return s.expenses.List(ctx, repository.ExpenseFilter{From: &from, To: &to})
}

// cached devuelve hit y la generación leída. Con la caché caída el reporte se calcula
// igual; gen = -1 evita guardarlo.
func (s *Service) cached(ctx context.Context, key string, dst any) (bool, int64) {
	ok, gen, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("caché de reportes no disponible")
		return false, -1
	}
	return ok, gen
}

func (s *Service) store(ctx context.Context, gen int64, key string, v any) {
	if gen < 0 {
		return
	}
	if err := s.cache.Set(ctx, gen, key, v, s.ttl); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar el reporte en caché")
	}
}

func totals(sales, expenses decimal.Decimal) dto.PeriodTotals {
	sales, expenses = sales.Round(2), expenses.Round(2)
	return dto.PeriodTotals{Sales: sales, Expenses: expenses, Profit: sales.Sub(expenses)}
}

// LowStock filtra los productos con stock estrictamente menor al umbral, ordenados por
// nombre, con la cantidad sugerida para volver a 1.5 veces el umbral.
func LowStock(products []*entity.Product) []dto.LowStockProductDTO {
	factor := decimal.RequireFromString(reorderFactor)
	out := make([]dto.LowStockProductDTO, 0, len(products))
	for _, p := range products {
		if p.IsArchived() || !p.IsLowStock() {
			continue
		}
		suggested := p.LowStockThreshold.Mul(factor).Sub(p.AvailableStockKg)
		if suggested.IsNegative() {
			suggested = decimal.Zero
		}
		out = append(out, dto.LowStockProductDTO{
			ID:                p.ID,
			SKU:               p.SKU,
			Name:              p.Name,
			ImageURL:          p.ImageURL,
			AvailableStockKg:  p.AvailableStockKg,
			LowStockThreshold: p.LowStockThreshold,
			SuggestedOrderKg:  suggested.Round(3),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// BestSellers agrupa las ventas por producto y ordena por cantidad vendida; empate:
// mayor ingreso y luego nombre. limit <= 0 devuelve todos.
func BestSellers(sales []entity.Sale, limit int) []dto.BestSellerDTO {
	byProduct := make(map[string]*dto.BestSellerDTO)
	for _, sale := range sales {
		b, ok := byProduct[sale.ProductID]
		if !ok {
			b = &dto.BestSellerDTO{ProductID: sale.ProductID, Quantity: decimal.Zero, Revenue: decimal.Zero}
			byProduct[sale.ProductID] = b
		}
		if sale.ProductName != "" {
			b.Name = sale.ProductName
		}
		b.Quantity = b.Quantity.Add(sale.QuantityKg)
		b.Revenue = b.Revenue.Add(sale.Total)
	}

	out := make([]dto.BestSellerDTO, 0, len(byProduct))
	for _, b := range byProduct {
		b.Revenue = b.Revenue.Round(2)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Quantity.Equal(b.Quantity) {
			return a.Quantity.GreaterThan(b.Quantity)
		}
		if !a.Revenue.Equal(b.Revenue) {
			return a.Revenue.GreaterThan(b.Revenue)
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ProductID < b.ProductID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
