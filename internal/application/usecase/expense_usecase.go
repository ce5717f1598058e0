package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/retail-ledger-api/internal/application/dto"
	"github.com/jhoicas/retail-ledger-api/internal/application/ports"
	"github.com/jhoicas/retail-ledger-api/internal/domain"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
)

// ExpenseUseCase gastos operativos. No tocan el ledger; solo alimentan los reportes.
type ExpenseUseCase struct {
	repo  repository.ExpenseRepository
	audit ports.ActivityRecorder
	cache ports.ReportCache
	now   func() time.Time
}

// NewExpenseUseCase construye el caso de uso.
func NewExpenseUseCase(repo repository.ExpenseRepository, audit ports.ActivityRecorder, cache ports.ReportCache) *ExpenseUseCase {
	return &ExpenseUseCase{repo: repo, audit: audit, cache: cache, now: time.Now}
}

// Create registra un gasto. Sin fecha se usa el momento actual.
func (uc *ExpenseUseCase) Create(ctx context.Context, in dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	if in.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount no puede ser negativo", domain.ErrInvalidInput)
	}
	now := uc.now().UTC()
	e := &entity.Expense{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(in.Title),
		Amount:      in.Amount.Round(2),
		Category:    strings.TrimSpace(in.Category),
		Notes:       in.Notes,
		ExpenseDate: now,
		CreatedBy:   domain.ActorID(ctx),
		CreatedAt:   now,
	}
	if e.Category == "" {
		e.Category = entity.DefaultExpenseCategory
	}
	if in.ExpenseDate != nil {
		e.ExpenseDate = in.ExpenseDate.UTC()
	}
	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	out := dto.ToExpenseResponse(e)
	uc.audit.Record(ctx, entity.ActionCreate, entity.ObjectExpense, e.ID, nil, out)
	uc.cache.Invalidate(ctx)
	return &out, nil
}

// GetByID obtiene un gasto.
func (uc *ExpenseUseCase) GetByID(ctx context.Context, id string) (*dto.ExpenseResponse, error) {
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.ToExpenseResponse(e)
	return &out, nil
}

// List lista gastos, opcionalmente dentro de [from, to).
func (uc *ExpenseUseCase) List(ctx context.Context, from, to *time.Time, limit int) (*dto.ExpenseListResponse, error) {
	rows, err := uc.repo.List(ctx, repository.ExpenseFilter{From: from, To: to, Limit: limit})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ExpenseResponse, 0, len(rows))
	for i := range rows {
		items = append(items, dto.ToExpenseResponse(&rows[i]))
	}
	return &dto.ExpenseListResponse{Expenses: items}, nil
}

// Delete elimina un gasto.
func (uc *ExpenseUseCase) Delete(ctx context.Context, id string) error {
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.audit.Record(ctx, entity.ActionDelete, entity.ObjectExpense, id, dto.ToExpenseResponse(e), nil)
	uc.cache.Invalidate(ctx)
	return nil
}
