package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del ledger.
const (
	MovementTypeIN  = "IN"
	MovementTypeOUT = "OUT"
)

// Orígenes de movimiento.
const (
	MovementSourcePurchase     = "PURCHASE"
	MovementSourceSale         = "SALE"
	MovementSourceSaleReversal = "SALE_REVERSAL"
	MovementSourceAdjustment   = "ADJUSTMENT"
)

// StockMovement entrada inmutable del ledger de stock.
// Las correcciones se hacen agregando una entrada compensatoria, nunca editando.
type StockMovement struct {
	ID          string
	Seq         int64 // orden de inserción; desempata movimientos con el mismo CreatedAt
	ProductID   string
	Type        string // IN | OUT
	Source      string // PURCHASE | SALE | SALE_REVERSAL | ADJUSTMENT
	QuantityKg  decimal.Decimal
	UnitCost    *decimal.Decimal // solo IN
	ReferenceID string           // venta, movimiento revertido o proveedor
	SupplierID  string
	InvoiceRef  string
	Notes       string
	CreatedBy   string
	CreatedAt   time.Time
}

// Signed cantidad con signo: positiva para IN, negativa para OUT.
func (m StockMovement) Signed() decimal.Decimal {
	if m.Type == MovementTypeOUT {
		return m.QuantityKg.Neg()
	}
	return m.QuantityKg
}

// ValidMovementType indica si t es IN u OUT.
func ValidMovementType(t string) bool {
	return t == MovementTypeIN || t == MovementTypeOUT
}

// ValidMovementSource indica si s es un origen conocido.
func ValidMovementSource(s string) bool {
	switch s {
	case MovementSourcePurchase, MovementSourceSale, MovementSourceSaleReversal, MovementSourceAdjustment:
		return true
	}
	return false
}
