// Package ledger registra movimientos de stock (IN/OUT) de forma transaccional.
// El ledger es la única fuente de verdad del stock: la caché AvailableStockKg del
// producto solo se escribe aquí, dentro de la misma transacción que inserta el movimiento.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger-api/internal/application/dto"
	"github.com/jhoicas/retail-ledger-api/internal/application/ports"
	"github.com/jhoicas/retail-ledger-api/internal/domain"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/domain/inventory"
	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
)

// Service casos de uso del ledger de stock.
type Service struct {
	tx        ports.TxRunner
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	suppliers repository.SupplierRepository
	audit     ports.ActivityRecorder
	cache     ports.ReportCache
	now       func() time.Time
}

// NewService construye el servicio.
func NewService(
	tx ports.TxRunner,
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	suppliers repository.SupplierRepository,
	audit ports.ActivityRecorder,
	cache ports.ReportCache,
) *Service {
	return &Service{
		tx:        tx,
		products:  products,
		movements: movements,
		suppliers: suppliers,
		audit:     audit,
		cache:     cache,
		now:       time.Now,
	}
}

// MovementInput entrada de RecordMovement. UnitCost solo aplica a IN.
type MovementInput struct {
	ProductID   string
	Type        string
	Source      string
	QuantityKg  decimal.Decimal
	UnitCost    *decimal.Decimal
	ReferenceID string
	SupplierID  string
	InvoiceRef  string
	Notes       string
}

// ValidateMovement rechaza la entrada antes de tocar cualquier estado.
func ValidateMovement(in MovementInput) error {
	if in.ProductID == "" {
		return fmt.Errorf("%w: product_id es obligatorio", domain.ErrInvalidInput)
	}
	if !entity.ValidMovementType(in.Type) {
		return fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, in.Type)
	}
	if !entity.ValidMovementSource(in.Source) {
		return fmt.Errorf("%w: origen de movimiento %q", domain.ErrInvalidInput, in.Source)
	}
	if !in.QuantityKg.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidQuantity
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return fmt.Errorf("%w: el costo unitario no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}

// RecordMovement registra un movimiento en su propia transacción y devuelve su ID.
func (s *Service) RecordMovement(ctx context.Context, in MovementInput) (string, error) {
	mov, _, err := s.record(ctx, in)
	if err != nil {
		return "", err
	}
	s.audit.Record(ctx, entity.ActionCreate, entity.ObjectStock, mov.ID, nil, dto.ToMovementResponse(mov, ""))
	s.cache.Invalidate(ctx)
	return mov.ID, nil
}

func (s *Service) record(ctx context.Context, in MovementInput) (*entity.StockMovement, *entity.Product, error) {
	if err := ValidateMovement(in); err != nil {
		return nil, nil, err
	}
	var (
		mov     *entity.StockMovement
		product *entity.Product
	)
	err := s.tx.Run(ctx, func(r ports.TxRepos) error {
		var err error
		mov, product, err = s.RecordInTx(ctx, r, in)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return mov, product, nil
}

// RecordInTx aplica el movimiento con los repositorios de la transacción del llamador.
// Bloquea la fila del producto (SELECT FOR UPDATE), así la verificación de stock y el
// descuento son un solo paso por producto. Devuelve el movimiento y el producto actualizado.
func (s *Service) RecordInTx(ctx context.Context, r ports.TxRepos, in MovementInput) (*entity.StockMovement, *entity.Product, error) {
	if err := ValidateMovement(in); err != nil {
		return nil, nil, err
	}
	product, err := r.Products.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrUnknownProduct
		}
		return nil, nil, err
	}
	// Un producto archivado solo acepta la reversión de ventas previas.
	if product.IsArchived() && in.Source != entity.MovementSourceSaleReversal {
		return nil, nil, domain.ErrUnknownProduct
	}

	newStock, err := inventory.Apply(product.AvailableStockKg, in.Type, in.QuantityKg)
	if err != nil {
		return nil, nil, err
	}

	var unitCost *decimal.Decimal
	if in.Type == entity.MovementTypeIN && in.UnitCost != nil {
		c := *in.UnitCost
		unitCost = &c
		if in.Source == entity.MovementSourcePurchase {
			cost := inventory.WeightedAverageCost(product.AvailableStockKg, product.PurchaseCostPerKg, in.QuantityKg, c)
			if err := r.Products.UpdateCost(ctx, product.ID, cost); err != nil {
				return nil, nil, err
			}
			product.PurchaseCostPerKg = cost
		}
	}

	if err := r.Products.SetStock(ctx, product.ID, newStock); err != nil {
		return nil, nil, err
	}
	product.AvailableStockKg = newStock

	mov := &entity.StockMovement{
		ID:          uuid.New().String(),
		ProductID:   product.ID,
		Type:        in.Type,
		Source:      in.Source,
		QuantityKg:  in.QuantityKg,
		UnitCost:    unitCost,
		ReferenceID: in.ReferenceID,
		SupplierID:  in.SupplierID,
		InvoiceRef:  in.InvoiceRef,
		Notes:       in.Notes,
		CreatedBy:   domain.ActorID(ctx),
		CreatedAt:   s.now().UTC(),
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, nil, err
	}
	return mov, product, nil
}

// StockIn registra una compra (IN / PURCHASE).
func (s *Service) StockIn(ctx context.Context, in dto.StockInRequest) (*dto.StockInResponse, error) {
	if in.SupplierID != "" && s.suppliers != nil {
		if _, err := s.suppliers.GetByID(ctx, in.SupplierID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: proveedor %s no existe", domain.ErrInvalidInput, in.SupplierID)
			}
			return nil, err
		}
	}
	cost := in.PurchaseCostPerKg
	mov, product, err := s.record(ctx, MovementInput{
		ProductID:   in.ProductID,
		Type:        entity.MovementTypeIN,
		Source:      entity.MovementSourcePurchase,
		QuantityKg:  in.QuantityKg,
		UnitCost:    &cost,
		ReferenceID: in.SupplierID,
		SupplierID:  in.SupplierID,
		InvoiceRef:  in.InvoiceRef,
		Notes:       in.Notes,
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToMovementResponse(mov, product.Name)
	s.audit.Record(ctx, entity.ActionStockIn, entity.ObjectStock, mov.ID, nil, out)
	s.cache.Invalidate(ctx)
	return &dto.StockInResponse{
		Movement:         out,
		AvailableStockKg: product.AvailableStockKg,
		Message:          "stock actualizado",
	}, nil
}

// Adjust registra un ajuste manual: delta positivo es IN, negativo es OUT.
func (s *Service) Adjust(ctx context.Context, in dto.AdjustStockRequest) (*dto.StockInResponse, error) {
	if in.DeltaKg.IsZero() {
		return nil, domain.ErrInvalidQuantity
	}
	typ := entity.MovementTypeIN
	if in.DeltaKg.IsNegative() {
		typ = entity.MovementTypeOUT
	}
	mov, product, err := s.record(ctx, MovementInput{
		ProductID:  in.ProductID,
		Type:       typ,
		Source:     entity.MovementSourceAdjustment,
		QuantityKg: in.DeltaKg.Abs(),
		Notes:      in.Notes,
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToMovementResponse(mov, product.Name)
	s.audit.Record(ctx, entity.ActionAdjust, entity.ObjectStock, mov.ID, nil, out)
	s.cache.Invalidate(ctx)
	return &dto.StockInResponse{
		Movement:         out,
		AvailableStockKg: product.AvailableStockKg,
		Message:          "stock ajustado",
	}, nil
}

// CurrentStock devuelve la caché de stock del producto.
func (s *Service) CurrentStock(ctx context.Context, productID string) (decimal.Decimal, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	return p.AvailableStockKg, nil
}
