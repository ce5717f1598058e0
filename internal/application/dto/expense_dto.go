package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateExpenseRequest body de POST /api/expenses.
type CreateExpenseRequest struct {
	Title       string          `json:"title" validate:"required,min=1,max=200"`
	Amount      decimal.Decimal `json:"amount" validate:"gte=0"`
	Category    string          `json:"category" validate:"max=100"`
	Notes       string          `json:"notes" validate:"max=1000"`
	ExpenseDate *time.Time      `json:"expense_date"`
}

// ExpenseResponse salida de un gasto.
type ExpenseResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Notes       string          `json:"notes"`
	ExpenseDate time.Time       `json:"expense_date"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ExpenseListResponse envoltura de GET /api/expenses.
type ExpenseListResponse struct {
	Expenses []ExpenseResponse `json:"expenses"`
}

// CreateSupplierRequest body de POST /api/suppliers.
type CreateSupplierRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=200"`
	Phone         string `json:"phone" validate:"max=30"`
	ItemsSupplied string `json:"items_supplied" validate:"max=1000"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	ItemsSupplied string    `json:"items_supplied"`
	CreatedAt     time.Time `json:"created_at"`
}

// SupplierListResponse envoltura de GET /api/suppliers.
type SupplierListResponse struct {
	Suppliers []SupplierResponse `json:"suppliers"`
}
