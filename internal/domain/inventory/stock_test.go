package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/retail-ledger-api/internal/domain"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestWeightedAverageCost(t *testing.T) {
	tests := []struct {
		name                     string
		stock, cost, qty, costIn string
		want                     string
	}{
		{"sin stock previo", "0", "0", "50", "40", "40"},
		{"promedio", "100", "30", "50", "40", "33.3333"},
		{"stock negativo se ignora", "-5", "30", "10", "20", "20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inventory.WeightedAverageCost(d(tt.stock), d(tt.cost), d(tt.qty), d(tt.costIn))
			assert.True(t, d(tt.want).Equal(got), "esperado %s, obtenido %s", tt.want, got)
		})
	}
}

func TestApply(t *testing.T) {
	got, err := inventory.Apply(d("100"), entity.MovementTypeOUT, d("60"))
	assert.NoError(t, err)
	assert.True(t, d("40").Equal(got))

	got, err = inventory.Apply(d("40"), entity.MovementTypeOUT, d("60"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, d("40").Equal(got), "un OUT rechazado no altera el stock")

	got, err = inventory.Apply(d("40"), entity.MovementTypeOUT, d("40"))
	assert.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = inventory.Apply(d("40"), entity.MovementTypeIN, d("0"))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = inventory.Apply(d("40"), "TRANSFER", d("1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBalance(t *testing.T) {
	var b inventory.Balance
	b.Add(entity.StockMovement{Type: entity.MovementTypeIN, QuantityKg: d("100")})
	b.Add(entity.StockMovement{Type: entity.MovementTypeIN, QuantityKg: d("50.25")})
	b.Add(entity.StockMovement{Type: entity.MovementTypeOUT, QuantityKg: d("30.10")})

	assert.True(t, d("120.15").Equal(b.Stock()))
}
