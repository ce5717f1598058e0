package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
// DRAFT → POSTED → (EDITED | REVERSED); EDITED puede editarse de nuevo o revertirse.
const (
	SaleStatusDraft    = "DRAFT"
	SaleStatusPosted   = "POSTED"
	SaleStatusEdited   = "EDITED"
	SaleStatusReversed = "REVERSED"
)

// Medios de pago aceptados.
const (
	PaymentCash = "Cash"
	PaymentUPI  = "UPI"
	PaymentCard = "Card"
)

// Sale venta de un producto. Es dueña de exactamente un movimiento OUT vigente (MovementID).
type Sale struct {
	ID           string
	ProductID    string
	ProductName  string // copia del nombre al momento de la venta
	QuantityKg   decimal.Decimal
	RatePerKg    decimal.Decimal
	Total        decimal.Decimal
	PaymentType  string
	CustomerName string
	Notes        string
	Status       string
	MovementID   string
	Version      int
	SaleDate     time.Time
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// SaleTotal total = cantidad × tarifa, redondeado a 2 decimales.
func SaleTotal(qty, rate decimal.Decimal) decimal.Decimal {
	return qty.Mul(rate).Round(2)
}

// AffectsStock solo las ventas contabilizadas mueven stock y cuentan en reportes.
func (s *Sale) AffectsStock() bool {
	return s.Status == SaleStatusPosted || s.Status == SaleStatusEdited
}

// CanTransition valida la máquina de estados.
func (s *Sale) CanTransition(to string) bool {
	switch s.Status {
	case SaleStatusDraft:
		return to == SaleStatusPosted
	case SaleStatusPosted, SaleStatusEdited:
		return to == SaleStatusEdited || to == SaleStatusReversed
	}
	return false
}

// ValidPaymentType indica si p es Cash, UPI o Card.
func ValidPaymentType(p string) bool {
	return p == PaymentCash || p == PaymentUPI || p == PaymentCard
}
