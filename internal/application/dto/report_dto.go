package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodTotals ventas, gastos y utilidad (ventas - gastos) de una ventana.
type PeriodTotals struct {
	Sales    decimal.Decimal `json:"sales"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"`
}

// LowStockProductDTO producto con stock por debajo del umbral.
type LowStockProductDTO struct {
	ID                string          `json:"id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	ImageURL          string          `json:"image_url"`
	AvailableStockKg  decimal.Decimal `json:"available_stock_kg"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	SuggestedOrderKg  decimal.Decimal `json:"suggested_order_kg"`
}

// BestSellerDTO producto más vendido del mes (cantidad en kg).
type BestSellerDTO struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// DashboardSummaryResponse respuesta de GET /api/dashboard/summary.
type DashboardSummaryResponse struct {
	Date             string               `json:"date"`
	Month            string               `json:"month_label"`
	Today            PeriodTotals         `json:"today"`
	MonthTotals      PeriodTotals         `json:"month"`
	LowStockProducts []LowStockProductDTO `json:"low_stock_products"`
	BestSellers      []BestSellerDTO      `json:"best_sellers"`
}

// ReportResponse reporte diario o mensual sobre la ventana [Start, End).
type ReportResponse struct {
	Period        string          `json:"period"` // daily | monthly
	Label         string          `json:"label"`
	Start         time.Time       `json:"start"`
	End           time.Time       `json:"end"`
	SalesCount    int             `json:"sales_count"`
	SalesTotal    decimal.Decimal `json:"sales_total"`
	QuantityKg    decimal.Decimal `json:"quantity_kg"`
	ExpensesCount int             `json:"expenses_count"`
	ExpensesTotal decimal.Decimal `json:"expenses_total"`
	Profit        decimal.Decimal `json:"profit"`
}

// ActivityLogResponse entrada de la bitácora.
type ActivityLogResponse struct {
	ID         string    `json:"id"`
	ActionType string    `json:"action_type"`
	ObjectType string    `json:"object_type"`
	ObjectID   string    `json:"object_id"`
	OldValue   string    `json:"old_value,omitempty"`
	NewValue   string    `json:"new_value,omitempty"`
	Actor      string    `json:"actor"`
	Timestamp  time.Time `json:"timestamp"`
}

// ActivityLogListResponse envoltura de GET /api/activity-logs.
type ActivityLogListResponse struct {
	Logs []ActivityLogResponse `json:"logs"`
}

// ExportRequest body de POST /api/exports/{pdf|excel}.
type ExportRequest struct {
	ExportType string `json:"export_type" validate:"required,oneof=sales products"`
}
