package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockInRequest body de POST /api/stock/in (compra).
type StockInRequest struct {
	ProductID         string          `json:"product_id" validate:"required"`
	QuantityKg        decimal.Decimal `json:"quantity_kg"`
	PurchaseCostPerKg decimal.Decimal `json:"purchase_cost_per_kg" validate:"gte=0"`
	SupplierID        string          `json:"supplier_id"`
	InvoiceRef        string          `json:"invoice_ref" validate:"max=100"`
	Notes             string          `json:"notes" validate:"max=1000"`
}

// AdjustStockRequest body de POST /api/stock/adjust. DeltaKg positivo suma, negativo resta.
type AdjustStockRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	DeltaKg   decimal.Decimal `json:"delta_kg"`
	Notes     string          `json:"notes" validate:"max=1000"`
}

// MovementResponse salida de un movimiento del ledger.
type MovementResponse struct {
	ID                string           `json:"id"`
	ProductID         string           `json:"product_id"`
	ProductName       string           `json:"product_name,omitempty"`
	Type              string           `json:"type"`
	Source            string           `json:"source"`
	QuantityKg        decimal.Decimal  `json:"quantity_kg"`
	PurchaseCostPerKg *decimal.Decimal `json:"purchase_cost_per_kg,omitempty"`
	ReferenceID       string           `json:"reference_id,omitempty"`
	SupplierID        string           `json:"supplier_id,omitempty"`
	InvoiceRef        string           `json:"invoice_ref,omitempty"`
	Notes             string           `json:"notes,omitempty"`
	CreatedBy         string           `json:"created_by,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}

// StockInResponse movimiento registrado y stock resultante.
type StockInResponse struct {
	Movement         MovementResponse `json:"movement"`
	AvailableStockKg decimal.Decimal  `json:"available_stock_kg"`
	Message          string           `json:"message"`
}

// HistoryResponse envoltura de GET /api/stock/history.
type HistoryResponse struct {
	History []MovementResponse `json:"history"`
}

// StockVerificationResponse compara la caché del producto con la suma del ledger.
type StockVerificationResponse struct {
	ProductID     string          `json:"product_id"`
	CachedStockKg decimal.Decimal `json:"cached_stock_kg"`
	LedgerStockKg decimal.Decimal `json:"ledger_stock_kg"`
	Consistent    bool            `json:"consistent"`
}
