package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger-api/internal/application/dto"
	"github.com/jhoicas/retail-ledger-api/internal/application/ledger"
	"github.com/jhoicas/retail-ledger-api/internal/application/ports"
	"github.com/jhoicas/retail-ledger-api/internal/domain"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. Stock y costo se manejan vía movimientos.
type ProductUseCase struct {
	tx     ports.TxRunner
	ledger *ledger.Service
	repo   repository.ProductRepository
	audit  ports.ActivityRecorder
	cache  ports.ReportCache
	now    func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	tx ports.TxRunner,
	ledgerSvc *ledger.Service,
	repo repository.ProductRepository,
	audit ports.ActivityRecorder,
	cache ports.ReportCache,
) *ProductUseCase {
	return &ProductUseCase{tx: tx, ledger: ledgerSvc, repo: repo, audit: audit, cache: cache, now: time.Now}
}

// ProductListQuery parámetros de GET /api/products.
type ProductListQuery struct {
	Search   string
	LowStock bool
	Size     int
	Offset   int
}

// Create crea un producto. El stock inicial entra al ledger como ADJUSTMENT IN en la
// misma transacción; la caché nunca se escribe directamente.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name es obligatorio", domain.ErrInvalidInput)
	}
	if in.AvailableStockKg.IsNegative() {
		return nil, domain.ErrInvalidQuantity
	}
	if in.PricePerKg.IsNegative() || in.PurchaseCostPerKg.IsNegative() || in.LowStockThreshold.IsNegative() {
		return nil, fmt.Errorf("%w: precio, costo y umbral no pueden ser negativos", domain.ErrInvalidInput)
	}
	sku := normalizeSKU(in.SKU)
	if sku == "" {
		sku = generateSKU()
	}
	now := uc.now().UTC()
	product := &entity.Product{
		ID:                uuid.New().String(),
		SKU:               sku,
		Name:              strings.TrimSpace(in.Name),
		Category:          strings.TrimSpace(in.Category),
		Description:       in.Description,
		ImageURL:          in.ImageURL,
		PricePerKg:        in.PricePerKg,
		PurchaseCostPerKg: in.PurchaseCostPerKg,
		AvailableStockKg:  decimal.Zero,
		LowStockThreshold: in.LowStockThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err := uc.tx.Run(ctx, func(r ports.TxRepos) error {
		if _, err := r.Products.GetBySKU(ctx, sku); err == nil {
			return fmt.Errorf("%w: sku %s", domain.ErrDuplicate, sku)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if err := r.Products.Create(ctx, product); err != nil {
			return err
		}
		if in.AvailableStockKg.IsPositive() {
			_, updated, err := uc.ledger.RecordInTx(ctx, r, ledger.MovementInput{
				ProductID:  product.ID,
				Type:       entity.MovementTypeIN,
				Source:     entity.MovementSourceAdjustment,
				QuantityKg: in.AvailableStockKg,
				Notes:      "stock inicial",
			})
			if err != nil {
				return err
			}
			product = updated
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := dto.ToProductResponse(product)
	uc.audit.Record(ctx, entity.ActionCreate, entity.ObjectProduct, product.ID, nil, out)
	uc.cache.Invalidate(ctx)
	return &out, nil
}

// GetByID obtiene un producto activo. Un archivado responde ErrNotFound, igual que
// Delete; su historial sigue visible en el ledger.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.IsArchived() {
		return nil, fmt.Errorf("%w: producto archivado", domain.ErrNotFound)
	}
	out := dto.ToProductResponse(product)
	return &out, nil
}

// List lista productos activos con búsqueda y filtro de stock bajo.
func (uc *ProductUseCase) List(ctx context.Context, q ProductListQuery) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		Search:       q.Search,
		LowStockOnly: q.LowStock,
		Limit:        q.Size,
		Offset:       q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.ToProductResponse(p))
	}
	return &dto.ProductListResponse{Products: items}, nil
}

// Update actualiza datos de catálogo. Un AvailableStockKg distinto al actual se registra
// como ajuste por la diferencia, en la misma transacción.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.AvailableStockKg != nil && in.AvailableStockKg.IsNegative() {
		return nil, domain.ErrInvalidQuantity
	}
	var before, after dto.ProductResponse
	err := uc.tx.Run(ctx, func(r ports.TxRepos) error {
		product, err := r.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product.IsArchived() {
			return fmt.Errorf("%w: el producto está archivado", domain.ErrConflict)
		}
		before = dto.ToProductResponse(product)

		if in.SKU != nil {
			sku := normalizeSKU(*in.SKU)
			if sku == "" {
				return fmt.Errorf("%w: sku vacío", domain.ErrInvalidInput)
			}
			if other, err := r.Products.GetBySKU(ctx, sku); err == nil && other.ID != product.ID {
				return fmt.Errorf("%w: sku %s", domain.ErrDuplicate, sku)
			}
			product.SKU = sku
		}
		if in.Name != nil {
			product.Name = strings.TrimSpace(*in.Name)
		}
		if in.Category != nil {
			product.Category = strings.TrimSpace(*in.Category)
		}
		if in.Description != nil {
			product.Description = *in.Description
		}
		if in.ImageURL != nil {
			product.ImageURL = *in.ImageURL
		}
		if in.PricePerKg != nil {
			product.PricePerKg = *in.PricePerKg
		}
		if in.LowStockThreshold != nil {
			product.LowStockThreshold = *in.LowStockThreshold
		}
		product.UpdatedAt = uc.now().UTC()
		if err := r.Products.Update(ctx, product); err != nil {
			return err
		}

		if in.AvailableStockKg != nil {
			delta := in.AvailableStockKg.Sub(product.AvailableStockKg)
			if !delta.IsZero() {
				typ := entity.MovementTypeIN
				if delta.IsNegative() {
					typ = entity.MovementTypeOUT
				}
				_, updated, err := uc.ledger.RecordInTx(ctx, r, ledger.MovementInput{
					ProductID:  product.ID,
					Type:       typ,
					Source:     entity.MovementSourceAdjustment,
					QuantityKg: delta.Abs(),
					Notes:      "ajuste desde edición de producto",
				})
				if err != nil {
					return err
				}
				product = updated
			}
		}
		after = dto.ToProductResponse(product)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, entity.ActionUpdate, entity.ObjectProduct, id, before, after)
	uc.cache.Invalidate(ctx)
	return &after, nil
}

// Delete borra el producto si nada lo referencia; si tiene movimientos o ventas lo
// archiva para conservar la integridad del ledger.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) (*dto.DeleteProductResponse, error) {
	var (
		before   dto.ProductResponse
		archived bool
	)
	err := uc.tx.Run(ctx, func(r ports.TxRepos) error {
		product, err := r.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product.IsArchived() {
			return domain.ErrNotFound
		}
		before = dto.ToProductResponse(product)

		movements, err := r.Movements.CountByProduct(ctx, id)
		if err != nil {
			return err
		}
		sales, err := r.Sales.CountByProduct(ctx, id)
		if err != nil {
			return err
		}
		if movements > 0 || sales > 0 {
			archived = true
			return r.Products.Archive(ctx, id, uc.now().UTC())
		}
		return r.Products.Delete(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	action, msg := entity.ActionDelete, "producto eliminado"
	if archived {
		action, msg = entity.ActionArchive, "producto archivado: tiene historial de stock o ventas"
	}
	uc.audit.Record(ctx, action, entity.ObjectProduct, id, before, nil)
	uc.cache.Invalidate(ctx)
	return &dto.DeleteProductResponse{ID: id, Archived: archived, Message: msg}, nil
}

func normalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

func generateSKU() string {
	return "PRD-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

// Import crea los productos fila por fila. Un SKU existente se omite; cualquier otro
// error se reporta por fila y la importación continúa. Row asume cabecera en la fila 1.
func (uc *ProductUseCase) Import(ctx context.Context, rows []dto.CreateProductRequest) (*dto.ImportProductsResponse, error) {
	out := &dto.ImportProductsResponse{Errors: []dto.ImportRowError{}}
	for i, in := range rows {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		_, err := uc.Create(ctx, in)
		switch {
		case err == nil:
			out.Created++
		case errors.Is(err, domain.ErrDuplicate):
			out.Skipped++
		case errors.Is(err, domain.ErrUnavailable):
			return out, err
		default:
			out.Errors = append(out.Errors, dto.ImportRowError{Row: i + 2, Name: in.Name, Message: err.Error()})
		}
	}
	return out, nil
}
