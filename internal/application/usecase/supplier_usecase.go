package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/retail-ledger-api/internal/application/dto"
	"github.com/jhoicas/retail-ledger-api/internal/application/ports"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
)

// SupplierUseCase CRUD de proveedores.
type SupplierUseCase struct {
	repo  repository.SupplierRepository
	audit ports.ActivityRecorder
	now   func() time.Time
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository, audit ports.ActivityRecorder) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, audit: audit, now: time.Now}
}

// Create registra un proveedor.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	s := &entity.Supplier{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(in.Name),
		Phone:         strings.TrimSpace(in.Phone),
		ItemsSupplied: in.ItemsSupplied,
		CreatedAt:     uc.now().UTC(),
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	out := dto.ToSupplierResponse(s)
	uc.audit.Record(ctx, entity.ActionCreate, entity.ObjectSupplier, s.ID, nil, out)
	return &out, nil
}

// GetByID obtiene un proveedor.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.ToSupplierResponse(s)
	return &out, nil
}

// List lista proveedores por nombre.
func (uc *SupplierUseCase) List(ctx context.Context) (*dto.SupplierListResponse, error) {
	rows, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplierResponse, 0, len(rows))
	for i := range rows {
		items = append(items, dto.ToSupplierResponse(&rows[i]))
	}
	return &dto.SupplierListResponse{Suppliers: items}, nil
}

// Delete elimina un proveedor. Los movimientos que lo referencian conservan su ID.
func (uc *SupplierUseCase) Delete(ctx context.Context, id string) error {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.audit.Record(ctx, entity.ActionDelete, entity.ObjectSupplier, id, dto.ToSupplierResponse(s), nil)
	return nil
}
