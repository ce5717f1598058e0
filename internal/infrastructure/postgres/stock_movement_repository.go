package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, seq, product_id, type, source, quantity_kg, unit_cost, reference_id,
	supplier_id, invoice_ref, notes, created_by, created_at`

// StockMovementRepo ledger sobre PostgreSQL. No existe UPDATE ni DELETE: la tabla es solo inserción.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta el movimiento y completa m.Seq con el valor asignado por la base.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, type, source, quantity_kg, unit_cost, reference_id,
			supplier_id, invoice_ref, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		m.ID, m.ProductID, m.Type, m.Source, m.QuantityKg, m.UnitCost, m.ReferenceID,
		m.SupplierID, m.InvoiceRef, m.Notes, m.CreatedBy, m.CreatedAt,
	).Scan(&m.Seq)
	return mapError("insert stock movement", err)
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	row := r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM stock_movements WHERE id = $1`, id)
	m, err := scanMovement(row)
	if err != nil {
		return nil, mapError("get stock movement", err)
	}
	return m, nil
}

// List devuelve movimientos en orden (created_at, seq). After pagina por cursor.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE 1=1`
	var args []any
	pos := 1
	add := func(cond string, v any) {
		query += fmt.Sprintf(cond, pos)
		args = append(args, v)
		pos++
	}
	if f.ProductID != "" {
		add(` AND product_id = $%d`, f.ProductID)
	}
	if f.Type != "" {
		add(` AND type = $%d`, f.Type)
	}
	if f.Source != "" {
		add(` AND source = $%d`, f.Source)
	}
	if f.ReferenceID != "" {
		add(` AND reference_id = $%d`, f.ReferenceID)
	}
	if f.From != nil {
		add(` AND created_at >= $%d`, *f.From)
	}
	if f.To != nil {
		add(` AND created_at < $%d`, *f.To)
	}
	if f.After != nil {
		query += fmt.Sprintf(` AND (created_at, seq) > ($%d, $%d)`, pos, pos+1)
		args = append(args, f.After.CreatedAt, f.After.Seq)
		pos += 2
	}
	query += ` ORDER BY created_at, seq`
	if f.Limit > 0 {
		add(` LIMIT $%d`, f.Limit)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list stock movements", err)
	}
	defer rows.Close()
	var list []entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, mapError("scan stock movement", err)
		}
		list = append(list, *m)
	}
	return list, mapError("list stock movements", rows.Err())
}

// CountByProduct cantidad de movimientos del producto.
func (r *StockMovementRepo) CountByProduct(ctx context.Context, productID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM stock_movements WHERE product_id = $1`, productID).Scan(&n)
	if err != nil {
		return 0, mapError("count stock movements", err)
	}
	return n, nil
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := row.Scan(
		&m.ID, &m.Seq, &m.ProductID, &m.Type, &m.Source, &m.QuantityKg, &m.UnitCost, &m.ReferenceID,
		&m.SupplierID, &m.InvoiceRef, &m.Notes, &m.CreatedBy, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
