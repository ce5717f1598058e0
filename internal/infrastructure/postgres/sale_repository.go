package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-ledger-api/internal/domain"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, product_id, product_name, quantity_kg, rate_per_kg, total, payment_type, customer_name,
	notes, status, movement_id, version, sale_date, created_by, created_at, updated_at, deleted_at`

// SaleRepo ventas sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.ProductID, s.ProductName, s.QuantityKg, s.RatePerKg, s.Total, s.PaymentType, s.CustomerName,
		s.Notes, s.Status, s.MovementID, s.Version, s.SaleDate, s.CreatedBy, s.CreatedAt, s.UpdatedAt, s.DeletedAt,
	)
	return mapError("insert sale", err)
}

// GetByID obtiene una venta (incluidas las borradas).
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		return nil, mapError("get sale", err)
	}
	return s, nil
}

// GetForUpdate obtiene la venta bloqueando la fila.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, mapError("get sale for update", err)
	}
	return s, nil
}

// Update persiste la venta solo si la versión almacenada es expectedVersion.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale, expectedVersion int) error {
	query := `
		UPDATE sales SET product_id = $2, product_name = $3, quantity_kg = $4, rate_per_kg = $5, total = $6,
			payment_type = $7, customer_name = $8, notes = $9, status = $10, movement_id = $11, version = $12,
			sale_date = $13, updated_at = $14, deleted_at = $15
		WHERE id = $1 AND version = $16`
	cmd, err := r.q.Exec(ctx, query,
		s.ID, s.ProductID, s.ProductName, s.QuantityKg, s.RatePerKg, s.Total,
		s.PaymentType, s.CustomerName, s.Notes, s.Status, s.MovementID, s.Version,
		s.SaleDate, s.UpdatedAt, s.DeletedAt, expectedVersion,
	)
	if err != nil {
		return mapError("update sale", err)
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sales WHERE id = $1)`, s.ID).Scan(&exists); err != nil {
			return mapError("update sale", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	return nil
}

// List lista ventas ordenadas por (sale_date, id).
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE 1=1`
	var args []any
	pos := 1
	add := func(cond string, v any) {
		query += fmt.Sprintf(cond, pos)
		args = append(args, v)
		pos++
	}
	if !f.IncludeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	if f.ProductID != "" {
		add(` AND product_id = $%d`, f.ProductID)
	}
	if f.From != nil {
		add(` AND sale_date >= $%d`, *f.From)
	}
	if f.To != nil {
		add(` AND sale_date < $%d`, *f.To)
	}
	if f.NewestFirst {
		query += ` ORDER BY sale_date DESC, id DESC`
	} else {
		query += ` ORDER BY sale_date, id`
	}
	if f.Limit > 0 {
		add(` LIMIT $%d`, f.Limit)
	}
	if f.Offset > 0 {
		add(` OFFSET $%d`, f.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list sales", err)
	}
	defer rows.Close()
	var list []entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, mapError("scan sale", err)
		}
		list = append(list, *s)
	}
	return list, mapError("list sales", rows.Err())
}

// CountByProduct ventas (incluidas las borradas) que referencian el producto.
func (r *SaleRepo) CountByProduct(ctx context.Context, productID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM sales WHERE product_id = $1`, productID).Scan(&n); err != nil {
		return 0, mapError("count sales", err)
	}
	return n, nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(
		&s.ID, &s.ProductID, &s.ProductName, &s.QuantityKg, &s.RatePerKg, &s.Total, &s.PaymentType, &s.CustomerName,
		&s.Notes, &s.Status, &s.MovementID, &s.Version, &s.SaleDate, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
