package ports

import (
	"context"

	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
)

// DocumentRenderer genera un documento exportable (PDF, XLSX) con ventas o productos.
type DocumentRenderer interface {
	RenderSales(ctx context.Context, sales []entity.Sale) ([]byte, error)
	RenderProducts(ctx context.Context, products []*entity.Product) ([]byte, error)
	ContentType() string
	Extension() string
}
