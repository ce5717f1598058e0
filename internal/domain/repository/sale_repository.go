package repository

import (
	"context"
	"time"

	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
)

// SaleFilter filtros de ventas. From/To sobre SaleDate, ventana [From, To).
type SaleFilter struct {
	ProductID      string
	From           *time.Time
	To             *time.Time
	IncludeDeleted bool
	NewestFirst    bool
	Limit          int
	Offset         int
}

// SaleRepository persistencia de ventas. List ordena por (SaleDate, ID), ascendente salvo NewestFirst.
type SaleRepository interface {
	Create(ctx context.Context, s *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	// Update persiste la venta si la versión almacenada es expectedVersion; si no, domain.ErrConflict.
	Update(ctx context.Context, s *entity.Sale, expectedVersion int) error
	List(ctx context.Context, f SaleFilter) ([]entity.Sale, error)
	CountByProduct(ctx context.Context, productID string) (int, error)
}
