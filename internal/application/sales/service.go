// Package sales motor de ventas. Cada mutación de una venta y sus movimientos de
// stock se ejecutan en una sola transacción: o se aplica todo o nada.
package sales

import (
	"context"
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

// Service casos de uso de ventas.
type Service struct {
	tx     ports.TxRunner
	ledger *ledger.Service
	sales  repository.SaleRepository
	audit  ports.ActivityRecorder
	cache  ports.ReportCache
	now    func() time.Time
}

// NewService construye el motor de ventas.
func NewService(
	tx ports.TxRunner,
	ledgerSvc *ledger.Service,
	sales repository.SaleRepository,
	audit ports.ActivityRecorder,
	cache ports.ReportCache,
) *Service {
	return &Service{tx: tx, ledger: ledgerSvc, sales: sales, audit: audit, cache: cache, now: time.Now}
}

// Create registra la venta y su OUT/SALE en la misma transacción.
// InsufficientStock se propaga sin efecto parcial.
func (s *Service) Create(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if !in.QuantityKg.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	if in.RatePerKg != nil && in.RatePerKg.IsNegative() {
		return nil, fmt.Errorf("%w: rate_per_kg no puede ser negativo", domain.ErrInvalidInput)
	}
	payment, err := normalizePayment(in.PaymentType)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	sale := &entity.Sale{
		ID:           uuid.New().String(),
		ProductID:    in.ProductID,
		QuantityKg:   in.QuantityKg,
		PaymentType:  payment,
		CustomerName: strings.TrimSpace(in.CustomerName),
		Notes:        in.Notes,
		Status:       entity.SaleStatusDraft,
		Version:      1,
		SaleDate:     now,
		CreatedBy:    domain.ActorID(ctx),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.SaleDate != nil {
		sale.SaleDate = in.SaleDate.UTC()
	}

	err = s.tx.Run(ctx, func(r ports.TxRepos) error {
		mov, product, err := s.ledger.RecordInTx(ctx, r, ledger.MovementInput{
			ProductID:   in.ProductID,
			Type:        entity.MovementTypeOUT,
			Source:      entity.MovementSourceSale,
			QuantityKg:  in.QuantityKg,
			ReferenceID: sale.ID,
		})
		if err != nil {
			return err
		}
		rate := product.PricePerKg
		if in.RatePerKg != nil {
			rate = *in.RatePerKg
		}
		sale.ProductName = product.Name
		sale.RatePerKg = rate
		sale.Total = entity.SaleTotal(sale.QuantityKg, rate)
		sale.MovementID = mov.ID
		sale.Status = entity.SaleStatusPosted
		return r.Sales.Create(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	out := dto.ToSaleResponse(sale)
	s.audit.Record(ctx, entity.ActionCreate, entity.ObjectSale, sale.ID, nil, out)
	s.cache.Invalidate(ctx)
	return &out, nil
}

// Update revierte el OUT vigente con un IN/SALE_REVERSAL que lo referencia y registra
// un OUT nuevo con los datos actualizados. Nunca edita movimientos existentes.
// Con Version informado, una versión distinta a la almacenada devuelve ErrConflict.
func (s *Service) Update(ctx context.Context, id string, in dto.UpdateSaleRequest) (*dto.SaleResponse, error) {
	if in.QuantityKg != nil && !in.QuantityKg.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	if in.RatePerKg != nil && in.RatePerKg.IsNegative() {
		return nil, fmt.Errorf("%w: rate_per_kg no puede ser negativo", domain.ErrInvalidInput)
	}
	var payment string
	if in.PaymentType != nil {
		p, err := normalizePayment(*in.PaymentType)
		if err != nil {
			return nil, err
		}
		payment = p
	}

	var before, after dto.SaleResponse
	err := s.tx.Run(ctx, func(r ports.TxRepos) error {
		sale, err := r.Sales.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale.DeletedAt != nil {
			return domain.ErrNotFound
		}
		if in.Version != nil && *in.Version != sale.Version {
			return domain.ErrConflict
		}
		if !sale.CanTransition(entity.SaleStatusEdited) {
			return fmt.Errorf("%w: la venta está en estado %s", domain.ErrConflict, sale.Status)
		}
		before = dto.ToSaleResponse(sale)
		expected := sale.Version

		if _, _, err := s.ledger.RecordInTx(ctx, r, ledger.MovementInput{
			ProductID:   sale.ProductID,
			Type:        entity.MovementTypeIN,
			Source:      entity.MovementSourceSaleReversal,
			QuantityKg:  sale.QuantityKg,
			ReferenceID: sale.MovementID,
			Notes:       "edición de venta " + sale.ID,
		}); err != nil {
			return err
		}

		productChanged := in.ProductID != nil && *in.ProductID != sale.ProductID
		if productChanged {
			sale.ProductID = *in.ProductID
		}
		if in.QuantityKg != nil {
			sale.QuantityKg = *in.QuantityKg
		}
		mov, product, err := s.ledger.RecordInTx(ctx, r, ledger.MovementInput{
			ProductID:   sale.ProductID,
			Type:        entity.MovementTypeOUT,
			Source:      entity.MovementSourceSale,
			QuantityKg:  sale.QuantityKg,
			ReferenceID: sale.ID,
		})
		if err != nil {
			return err
		}

		switch {
		case in.RatePerKg != nil:
			sale.RatePerKg = *in.RatePerKg
		case productChanged:
			sale.RatePerKg = product.PricePerKg
		}
		if payment != "" {
			sale.PaymentType = payment
		}
		if in.CustomerName != nil {
			sale.CustomerName = strings.TrimSpace(*in.CustomerName)
		}
		if in.Notes != nil {
			sale.Notes = *in.Notes
		}
		if in.SaleDate != nil {
			sale.SaleDate = in.SaleDate.UTC()
		}
		sale.ProductName = product.Name
		sale.Total = entity.SaleTotal(sale.QuantityKg, sale.RatePerKg)
		sale.MovementID = mov.ID
		sale.Status = entity.SaleStatusEdited
		sale.Version++
		sale.UpdatedAt = s.now().UTC()
		if err := r.Sales.Update(ctx, sale, expected); err != nil {
			return err
		}
		after = dto.ToSaleResponse(sale)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, entity.ActionUpdate, entity.ObjectSale, id, before, after)
	s.cache.Invalidate(ctx)
	return &after, nil
}

// Delete registra un IN/SALE_REVERSAL por la cantidad completa y marca la venta
// como REVERSED (borrado lógico). Una venta ya borrada devuelve ErrNotFound.
func (s *Service) Delete(ctx context.Context, id string) error {
	var before, after dto.SaleResponse
	err := s.tx.Run(ctx, func(r ports.TxRepos) error {
		sale, err := r.Sales.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale.DeletedAt != nil {
			return domain.ErrNotFound
		}
		if !sale.CanTransition(entity.SaleStatusReversed) {
			return fmt.Errorf("%w: la venta está en estado %s", domain.ErrConflict, sale.Status)
		}
		before = dto.ToSaleResponse(sale)
		expected := sale.Version

		if _, _, err := s.ledger.RecordInTx(ctx, r, ledger.MovementInput{
			ProductID:   sale.ProductID,
			Type:        entity.MovementTypeIN,
			Source:      entity.MovementSourceSaleReversal,
			QuantityKg:  sale.QuantityKg,
			ReferenceID: sale.MovementID,
			Notes:       "venta eliminada " + sale.ID,
		}); err != nil {
			return err
		}

		now := s.now().UTC()
		sale.Status = entity.SaleStatusReversed
		sale.DeletedAt = &now
		sale.UpdatedAt = now
		sale.Version++
		if err := r.Sales.Update(ctx, sale, expected); err != nil {
			return err
		}
		after = dto.ToSaleResponse(sale)
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, entity.ActionDelete, entity.ObjectSale, id, before, after)
	s.cache.Invalidate(ctx)
	return nil
}

// Get devuelve una venta vigente.
func (s *Service) Get(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := s.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale.DeletedAt != nil {
		return nil, domain.ErrNotFound
	}
	out := dto.ToSaleResponse(sale)
	return &out, nil
}

// List lista ventas; las más recientes primero.
func (s *Service) List(ctx context.Context, f repository.SaleFilter) (*dto.SaleListResponse, error) {
	f.NewestFirst = true
	rows, err := s.sales.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.ToSaleResponse(&rows[i]))
	}
	return &dto.SaleListResponse{Sales: out}, nil
}

func normalizePayment(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return entity.PaymentCash, nil
	}
	for _, valid := range []string{entity.PaymentCash, entity.PaymentUPI, entity.PaymentCard} {
		if strings.EqualFold(p, valid) {
			return valid, nil
		}
	}
	return "", fmt.Errorf("%w: payment_type %q (Cash | UPI | Card)", domain.ErrInvalidInput, p)
}
