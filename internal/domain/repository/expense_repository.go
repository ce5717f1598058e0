package repository

import (
	"context"
	"time"

	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
)

// ExpenseFilter ventana [From, To) sobre ExpenseDate.
type ExpenseFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

// ExpenseRepository persistencia de gastos.
type ExpenseRepository interface {
	Create(ctx context.Context, e *entity.Expense) error
	GetByID(ctx context.Context, id string) (*entity.Expense, error)
	List(ctx context.Context, f ExpenseFilter) ([]entity.Expense, error)
	Delete(ctx context.Context, id string) error
}
