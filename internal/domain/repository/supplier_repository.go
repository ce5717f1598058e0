package repository

import (
	"context"

	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
)

// SupplierRepository persistencia de proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	List(ctx context.Context) ([]entity.Supplier, error)
	Delete(ctx context.Context, id string) error
}
