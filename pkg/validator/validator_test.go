package validator_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/retail-ledger-api/pkg/validator"
)

type sample struct {
	Name   string          `json:"name" validate:"required,max=10"`
	Amount decimal.Decimal `json:"amount" validate:"gte=0"`
	Kind   string          `json:"kind" validate:"omitempty,oneof=Cash UPI Card"`
}

func TestValidate(t *testing.T) {
	v := validator.New()

	tests := []struct {
		name    string
		in      sample
		wantErr string
	}{
		{name: "válido", in: sample{Name: "arroz", Amount: decimal.RequireFromString("10.50"), Kind: "UPI"}},
		{name: "nombre faltante", in: sample{Amount: decimal.Zero}, wantErr: "name: es obligatorio"},
		{name: "monto negativo", in: sample{Name: "arroz", Amount: decimal.RequireFromString("-0.01")}, wantErr: "amount: debe ser mayor o igual a 0"},
		{name: "tipo desconocido", in: sample{Name: "arroz", Kind: "Cheque"}, wantErr: "kind: debe ser uno de [Cash UPI Card]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.in)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
