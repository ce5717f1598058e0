package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto vendido por kilogramo.
// AvailableStockKg es una caché del ledger: solo la escribe el camino de escritura del ledger.
type Product struct {
	ID                string
	SKU               string // único, en mayúsculas
	Name              string
	Category          string
	Description       string
	ImageURL          string
	PricePerKg        decimal.Decimal
	PurchaseCostPerKg decimal.Decimal // costo promedio ponderado de las compras
	AvailableStockKg  decimal.Decimal
	LowStockThreshold decimal.Decimal
	ArchivedAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsArchived indica si el producto fue archivado (no acepta movimientos nuevos).
func (p *Product) IsArchived() bool {
	return p.ArchivedAt != nil
}

// IsLowStock stock estrictamente por debajo del umbral.
func (p *Product) IsLowStock() bool {
	return p.AvailableStockKg.LessThan(p.LowStockThreshold)
}
