// Package export arma los documentos descargables (PDF, XLSX) de ventas y productos.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/retail-ledger-api/internal/application/ports"
	"github.com/jhoicas/retail-ledger-api/internal/domain"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
)

// Tipos de exportación.
const (
	TypeSales    = "sales"
	TypeProducts = "products"
)

// maxRows tope de filas por documento.
const maxRows = 10000

// File documento generado.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// UseCase exportaciones. Cada formato ("pdf", "excel") tiene su renderer.
type UseCase struct {
	products  repository.ProductRepository
	sales     repository.SaleRepository
	renderers map[string]ports.DocumentRenderer
	now       func() time.Time
}

// NewUseCase construye el caso de uso con los renderers por formato.
func NewUseCase(
	products repository.ProductRepository,
	sales repository.SaleRepository,
	renderers map[string]ports.DocumentRenderer,
) *UseCase {
	return &UseCase{products: products, sales: sales, renderers: renderers, now: time.Now}
}

// Export genera el documento exportType (sales | products) en el formato pedido.
func (uc *UseCase) Export(ctx context.Context, format, exportType string) (*File, error) {
	r, ok := uc.renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: formato %q", domain.ErrInvalidInput, format)
	}

	var (
		data []byte
		err  error
	)
	switch exportType {
	case TypeSales:
		var rows []entity.Sale
		rows, err = uc.sales.List(ctx, repository.SaleFilter{NewestFirst: true, Limit: maxRows})
		if err != nil {
			return nil, err
		}
		data, err = r.RenderSales(ctx, rows)
	case TypeProducts:
		var rows []*entity.Product
		rows, err = uc.products.List(ctx, repository.ProductFilter{Limit: maxRows})
		if err != nil {
			return nil, err
		}
		data, err = r.RenderProducts(ctx, rows)
	default:
		return nil, fmt.Errorf("%w: export_type %q (sales | products)", domain.ErrInvalidInput, exportType)
	}
	if err != nil {
		return nil, fmt.Errorf("export %s %s: %w", format, exportType, err)
	}

	return &File{
		Name:        fmt.Sprintf("%s_%s.%s", exportType, uc.now().Format("20060102_150405"), r.Extension()),
		ContentType: r.ContentType(),
		Data:        data,
	}, nil
}
