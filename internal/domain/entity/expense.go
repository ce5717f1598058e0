package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultExpenseCategory categoría cuando no se indica una.
const DefaultExpenseCategory = "General"

// Expense gasto operativo de la tienda. No toca el ledger.
type Expense struct {
	ID          string
	Title       string
	Amount      decimal.Decimal
	Category    string
	Notes       string
	ExpenseDate time.Time
	CreatedBy   string
	CreatedAt   time.Time
}
