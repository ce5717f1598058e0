package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/retail-ledger-api/internal/domain"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
)

var (
	_ repository.ExpenseRepository     = (*ExpenseRepo)(nil)
	_ repository.SupplierRepository    = (*SupplierRepo)(nil)
	_ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)
)

// ExpenseRepo gastos sobre PostgreSQL.
type ExpenseRepo struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository construye el adaptador.
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepo {
	return &ExpenseRepo{pool: pool}
}

func (r *ExpenseRepo) Create(ctx context.Context, e *entity.Expense) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO expenses (id, title, amount, category, notes, expense_date, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.Title, e.Amount, e.Category, e.Notes, e.ExpenseDate, e.CreatedBy, e.CreatedAt,
	)
	return mapError("insert expense", err)
}

func (r *ExpenseRepo) GetByID(ctx context.Context, id string) (*entity.Expense, error) {
	var e entity.Expense
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, amount, category, notes, expense_date, created_by, created_at
		FROM expenses WHERE id = $1`, id,
	).Scan(&e.ID, &e.Title, &e.Amount, &e.Category, &e.Notes, &e.ExpenseDate, &e.CreatedBy, &e.CreatedAt)
	if err != nil {
		return nil, mapError("get expense", err)
	}
	return &e, nil
}

// List gastos en [From, To) ordenados por (expense_date, id).
func (r *ExpenseRepo) List(ctx context.Context, f repository.ExpenseFilter) ([]entity.Expense, error) {
	query := `SELECT id, title, amount, category, notes, expense_date, created_by, created_at FROM expenses WHERE 1=1`
	var args []any
	pos := 1
	if f.From != nil {
		query += fmt.Sprintf(` AND expense_date >= $%d`, pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(` AND expense_date < $%d`, pos)
		args = append(args, *f.To)
		pos++
	}
	query += ` ORDER BY expense_date, id`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, pos)
		args = append(args, f.Limit)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list expenses", err)
	}
	defer rows.Close()
	var list []entity.Expense
	for rows.Next() {
		var e entity.Expense
		if err := rows.Scan(&e.ID, &e.Title, &e.Amount, &e.Category, &e.Notes, &e.ExpenseDate, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, mapError("scan expense", err)
		}
		list = append(list, e)
	}
	return list, mapError("list expenses", rows.Err())
}

func (r *ExpenseRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return mapError("delete expense", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SupplierRepo proveedores sobre PostgreSQL.
type SupplierRepo struct {
	pool *pgxpool.Pool
}

// NewSupplierRepository construye el adaptador.
func NewSupplierRepository(pool *pgxpool.Pool) *SupplierRepo {
	return &SupplierRepo{pool: pool}
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO suppliers (id, name, phone, items_supplied, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.Name, s.Phone, s.ItemsSupplied, s.CreatedAt,
	)
	return mapError("insert supplier", err)
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	var s entity.Supplier
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, phone, items_supplied, created_at FROM suppliers WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.Phone, &s.ItemsSupplied, &s.CreatedAt)
	if err != nil {
		return nil, mapError("get supplier", err)
	}
	return &s, nil
}

func (r *SupplierRepo) List(ctx context.Context) ([]entity.Supplier, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, phone, items_supplied, created_at FROM suppliers ORDER BY name, id`)
	if err != nil {
		return nil, mapError("list suppliers", err)
	}
	defer rows.Close()
	var list []entity.Supplier
	for rows.Next() {
		var s entity.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Phone, &s.ItemsSupplied, &s.CreatedAt); err != nil {
			return nil, mapError("scan supplier", err)
		}
		list = append(list, s)
	}
	return list, mapError("list suppliers", rows.Err())
}

func (r *SupplierRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return mapError("delete supplier", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ActivityLogRepo bitácora sobre PostgreSQL. Solo INSERT y SELECT.
type ActivityLogRepo struct {
	pool *pgxpool.Pool
}

// NewActivityLogRepository construye el adaptador.
func NewActivityLogRepository(pool *pgxpool.Pool) *ActivityLogRepo {
	return &ActivityLogRepo{pool: pool}
}

func (r *ActivityLogRepo) Append(ctx context.Context, e *entity.ActivityLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO activity_logs (id, action_type, object_type, object_id, old_value, new_value, actor, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.ActionType, e.ObjectType, e.ObjectID, e.OldValue, e.NewValue, e.Actor, e.Timestamp,
	)
	return mapError("insert activity log", err)
}

// List más recientes primero.
func (r *ActivityLogRepo) List(ctx context.Context, limit int) ([]entity.ActivityLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, action_type, object_type, object_id, old_value, new_value, actor, timestamp
		FROM activity_logs ORDER BY seq DESC LIMIT $1`, limit)
	if err != nil {
		return nil, mapError("list activity logs", err)
	}
	defer rows.Close()
	var list []entity.ActivityLog
	for rows.Next() {
		var e entity.ActivityLog
		if err := rows.Scan(&e.ID, &e.ActionType, &e.ObjectType, &e.ObjectID, &e.OldValue, &e.NewValue, &e.Actor, &e.Timestamp); err != nil {
			return nil, mapError("scan activity log", err)
		}
		list = append(list, e)
	}
	return list, mapError("list activity logs", rows.Err())
}
