package repository

import (
	"context"
	"time"

	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
)

// MovementCursor posición (CreatedAt, Seq) del último movimiento leído.
type MovementCursor struct {
	CreatedAt time.Time
	Seq       int64
}

// MovementFilter filtros del historial. From/To forman una ventana semiabierta [From, To).
type MovementFilter struct {
	ProductID   string
	Type        string
	Source      string
	ReferenceID string
	From        *time.Time
	To          *time.Time
	After       *MovementCursor // paginación por cursor
	Limit       int
}

// StockMovementRepository ledger de movimientos: solo inserción y lectura.
// List ordena por (CreatedAt, Seq) ascendente.
type StockMovementRepository interface {
	Create(ctx context.Context, m *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	List(ctx context.Context, f MovementFilter) ([]entity.StockMovement, error)
	CountByProduct(ctx context.Context, productID string) (int, error)
}
