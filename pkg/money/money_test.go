package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"1800", "1,800.00"},
		{"1234567.891", "1,234,567.89"},
		{"-2500.5", "-2,500.50"},
		{"999.999", "1,000.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestKg(t *testing.T) {
	assert.Equal(t, "1,250.500", Kg(decimal.RequireFromString("1250.5")))
	assert.Equal(t, "0.125", Kg(decimal.RequireFromString("0.125")))
}
