package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/retail-ledger-api/internal/domain"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
)

var (
	_ repository.StockMovementRepository = (*MovementRepo)(nil)
	_ repository.SaleRepository          = (*SaleRepo)(nil)
)

// MovementRepo ledger en memoria (solo inserción).
type MovementRepo struct {
	s  *Store
	tx *ledgerState
}

func (r *MovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	return r.s.mutate(ctx, r.tx, func(st *ledgerState) error {
		st.seq++
		m.Seq = st.seq
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	var out *entity.StockMovement
	err := r.s.view(r.tx, func(st *ledgerState) error {
		for _, m := range st.movements {
			if m.ID == id {
				out = &m
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	_ = r.s.view(r.tx, func(st *ledgerState) error {
		for _, m := range st.movements {
			if matchMovement(m, f) {
				out = append(out, m)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Seq < out[j].Seq
	})
	return page(out, 0, f.Limit), nil
}

func matchMovement(m entity.StockMovement, f repository.MovementFilter) bool {
	switch {
	case f.ProductID != "" && m.ProductID != f.ProductID:
		return false
	case f.Type != "" && m.Type != f.Type:
		return false
	case f.Source != "" && m.Source != f.Source:
		return false
	case f.ReferenceID != "" && m.ReferenceID != f.ReferenceID:
		return false
	case f.From != nil && m.CreatedAt.Before(*f.From):
		return false
	case f.To != nil && !m.CreatedAt.Before(*f.To):
		return false
	}
	if c := f.After; c != nil {
		if m.CreatedAt.Before(c.CreatedAt) {
			return false
		}
		if m.CreatedAt.Equal(c.CreatedAt) && m.Seq <= c.Seq {
			return false
		}
	}
	return true
}

func (r *MovementRepo) CountByProduct(_ context.Context, productID string) (int, error) {
	n := 0
	_ = r.s.view(r.tx, func(st *ledgerState) error {
		for _, m := range st.movements {
			if m.ProductID == productID {
				n++
			}
		}
		return nil
	})
	return n, nil
}

// SaleRepo ventas en memoria.
type SaleRepo struct {
	s  *Store
	tx *ledgerState
}

func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	return r.s.mutate(ctx, r.tx, func(st *ledgerState) error {
		if _, ok := st.sales[s.ID]; ok {
			return domain.ErrDuplicate
		}
		st.sales[s.ID] = *s
		return nil
	})
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.s.view(r.tx, func(st *ledgerState) error {
		s, ok := st.sales[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &s
		return nil
	})
	return out, err
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale, expectedVersion int) error {
	return r.s.mutate(ctx, r.tx, func(st *ledgerState) error {
		cur, ok := st.sales[s.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if cur.Version != expectedVersion {
			return domain.ErrConflict
		}
		st.sales[s.ID] = *s
		return nil
	})
}

func (r *SaleRepo) List(_ context.Context, f repository.SaleFilter) ([]entity.Sale, error) {
	var out []entity.Sale
	_ = r.s.view(r.tx, func(st *ledgerState) error {
		for _, s := range st.sales {
			switch {
			case !f.IncludeDeleted && s.DeletedAt != nil:
				continue
			case f.ProductID != "" && s.ProductID != f.ProductID:
				continue
			case f.From != nil && s.SaleDate.Before(*f.From):
				continue
			case f.To != nil && !s.SaleDate.Before(*f.To):
				continue
			}
			out = append(out, s)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if f.NewestFirst {
			a, b = b, a
		}
		if !a.SaleDate.Equal(b.SaleDate) {
			return a.SaleDate.Before(b.SaleDate)
		}
		return a.ID < b.ID
	})
	return page(out, f.Offset, f.Limit), nil
}

func (r *SaleRepo) CountByProduct(_ context.Context, productID string) (int, error) {
	n := 0
	_ = r.s.view(r.tx, func(st *ledgerState) error {
		for _, s := range st.sales {
			if s.ProductID == productID {
				n++
			}
		}
		return nil
	})
	return n, nil
}
