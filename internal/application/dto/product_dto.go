package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// AvailableStockKg es el stock inicial; se registra como movimiento ADJUSTMENT.
type CreateProductRequest struct {
	SKU               string          `json:"sku" validate:"omitempty,max=100"`
	Name              string          `json:"name" validate:"required,min=1,max=200"`
	Category          string          `json:"category" validate:"max=100"`
	Description       string          `json:"description" validate:"max=2000"`
	ImageURL          string          `json:"image_url" validate:"omitempty,url"`
	PricePerKg        decimal.Decimal `json:"price_per_kg" validate:"gte=0"`
	PurchaseCostPerKg decimal.Decimal `json:"purchase_cost_per_kg" validate:"gte=0"`
	AvailableStockKg  decimal.Decimal `json:"available_stock_kg" validate:"gte=0"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold" validate:"gte=0"`
}

// UpdateProductRequest campos opcionales. Un cambio de AvailableStockKg se registra
// como ajuste (delta) en el ledger, nunca como escritura directa.
type UpdateProductRequest struct {
	SKU               *string          `json:"sku" validate:"omitempty,min=1,max=100"`
	Name              *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Category          *string          `json:"category" validate:"omitempty,max=100"`
	Description       *string          `json:"description" validate:"omitempty,max=2000"`
	ImageURL          *string          `json:"image_url" validate:"omitempty"`
	PricePerKg        *decimal.Decimal `json:"price_per_kg" validate:"omitempty,gte=0"`
	AvailableStockKg  *decimal.Decimal `json:"available_stock_kg" validate:"omitempty,gte=0"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold" validate:"omitempty,gte=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                string          `json:"id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Description       string          `json:"description"`
	ImageURL          string          `json:"image_url"`
	PricePerKg        decimal.Decimal `json:"price_per_kg"`
	PurchaseCostPerKg decimal.Decimal `json:"purchase_cost_per_kg"`
	AvailableStockKg  decimal.Decimal `json:"available_stock_kg"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	LowStock          bool            `json:"low_stock"`
	Archived          bool            `json:"archived"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ProductListResponse envoltura de GET /api/products.
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
}

// DeleteProductResponse indica si el producto se borró o se archivó.
type DeleteProductResponse struct {
	ID       string `json:"id"`
	Archived bool   `json:"archived"`
	Message  string `json:"message"`
}

// ImportProductsResponse resultado de una importación masiva de productos.
type ImportProductsResponse struct {
	Created int              `json:"created"`
	Skipped int              `json:"skipped"`
	Errors  []ImportRowError `json:"errors"`
}

// ImportRowError fila rechazada durante la importación (Row empieza en 2: la 1 es la cabecera).
type ImportRowError struct {
	Row     int    `json:"row"`
	Name    string `json:"name"`
	Message string `json:"message"`
}
