// Package inventory reglas puras del ledger de stock (sin I/O).
package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger-api/internal/domain"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
)

// WeightedAverageCost costo promedio ponderado tras una compra.
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func WeightedAverageCost(stock, cost, qtyIn, costIn decimal.Decimal) decimal.Decimal {
	sum := stock.Add(qtyIn)
	if sum.LessThanOrEqual(decimal.Zero) {
		return costIn
	}
	if stock.LessThan(decimal.Zero) {
		stock = decimal.Zero
	}
	num := stock.Mul(cost).Add(qtyIn.Mul(costIn))
	return num.Div(stock.Add(qtyIn)).Round(4)
}

// Apply calcula el stock resultante de aplicar un movimiento.
// Un OUT mayor que el stock disponible falla con ErrInsufficientStock.
func Apply(stock decimal.Decimal, movementType string, qty decimal.Decimal) (decimal.Decimal, error) {
	if !qty.GreaterThan(decimal.Zero) {
		return stock, domain.ErrInvalidQuantity
	}
	switch movementType {
	case entity.MovementTypeIN:
		return stock.Add(qty), nil
	case entity.MovementTypeOUT:
		if stock.LessThan(qty) {
			return stock, domain.ErrInsufficientStock
		}
		return stock.Sub(qty), nil
	}
	return stock, domain.ErrInvalidInput
}

// Balance acumula el stock a partir de movimientos (suma de IN menos suma de OUT).
type Balance struct {
	In  decimal.Decimal
	Out decimal.Decimal
}

// Add suma un movimiento al balance.
func (b *Balance) Add(m entity.StockMovement) {
	if m.Type == entity.MovementTypeOUT {
		b.Out = b.Out.Add(m.QuantityKg)
		return
	}
	b.In = b.In.Add(m.QuantityKg)
}

// Stock stock neto.
func (b Balance) Stock() decimal.Decimal {
	return b.In.Sub(b.Out)
}
