package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest body de POST /api/sales. Sin rate_per_kg se usa el precio del producto.
type CreateSaleRequest struct {
	ProductID    string           `json:"product_id" validate:"required"`
	QuantityKg   decimal.Decimal  `json:"quantity_kg"`
	RatePerKg    *decimal.Decimal `json:"rate_per_kg"`
	PaymentType  string           `json:"payment_type" validate:"omitempty,max=20"`
	CustomerName string           `json:"customer_name" validate:"max=200"`
	Notes        string           `json:"notes" validate:"max=1000"`
	SaleDate     *time.Time       `json:"sale_date"`
}

// UpdateSaleRequest body de PUT /api/sales/:id. Version activa el control optimista.
type UpdateSaleRequest struct {
	ProductID    *string          `json:"product_id" validate:"omitempty,min=1"`
	QuantityKg   *decimal.Decimal `json:"quantity_kg"`
	RatePerKg    *decimal.Decimal `json:"rate_per_kg"`
	PaymentType  *string          `json:"payment_type" validate:"omitempty,max=20"`
	CustomerName *string          `json:"customer_name" validate:"omitempty,max=200"`
	Notes        *string          `json:"notes" validate:"omitempty,max=1000"`
	SaleDate     *time.Time       `json:"sale_date"`
	Version      *int             `json:"version"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	QuantityKg   decimal.Decimal `json:"quantity_kg"`
	RatePerKg    decimal.Decimal `json:"rate_per_kg"`
	Total        decimal.Decimal `json:"total"`
	PaymentType  string          `json:"payment_type"`
	CustomerName string          `json:"customer_name"`
	Notes        string          `json:"notes"`
	Status       string          `json:"status"`
	MovementID   string          `json:"movement_id"`
	Version      int             `json:"version"`
	SaleDate     time.Time       `json:"sale_date"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    *time.Time      `json:"deleted_at,omitempty"`
}

// SaleListResponse envoltura de GET /api/sales.
type SaleListResponse struct {
	Sales []SaleResponse `json:"sales"`
}
