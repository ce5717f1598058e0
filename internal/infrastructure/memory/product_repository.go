package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger-api/internal/domain"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct {
	s  *Store
	tx *ledgerState
}

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	return r.s.mutate(ctx, r.tx, func(st *ledgerState) error {
		if _, ok := st.products[p.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, existing := range st.products {
			if strings.EqualFold(existing.SKU, p.SKU) {
				return domain.ErrDuplicate
			}
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.view(r.tx, func(st *ledgerState) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

// GetForUpdate dentro de una transacción el turno de escritura ya es exclusivo.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.view(r.tx, func(st *ledgerState) error {
		for _, p := range st.products {
			if strings.EqualFold(p.SKU, sku) {
				out = &p
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	return r.s.mutate(ctx, r.tx, func(st *ledgerState) error {
		cur, ok := st.products[p.ID]
		if !ok {
			return domain.ErrNotFound
		}
		for id, existing := range st.products {
			if id != p.ID && strings.EqualFold(existing.SKU, p.SKU) {
				return domain.ErrDuplicate
			}
		}
		cur.SKU = p.SKU
		cur.Name = p.Name
		cur.Category = p.Category
		cur.Description = p.Description
		cur.ImageURL = p.ImageURL
		cur.PricePerKg = p.PricePerKg
		cur.LowStockThreshold = p.LowStockThreshold
		cur.UpdatedAt = p.UpdatedAt
		st.products[p.ID] = cur
		return nil
	})
}

func (r *ProductRepo) SetStock(ctx context.Context, id string, stock decimal.Decimal) error {
	return r.s.mutate(ctx, r.tx, func(st *ledgerState) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		p.AvailableStockKg = stock
		p.UpdatedAt = time.Now()
		st.products[id] = p
		return nil
	})
}

func (r *ProductRepo) UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error {
	return r.s.mutate(ctx, r.tx, func(st *ledgerState) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		p.PurchaseCostPerKg = cost
		st.products[id] = p
		return nil
	})
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	search := strings.ToLower(strings.TrimSpace(f.Search))
	err := r.s.view(r.tx, func(st *ledgerState) error {
		for _, p := range st.products {
			if p.IsArchived() && !f.IncludeArchived {
				continue
			}
			if f.LowStockOnly && !p.IsLowStock() {
				continue
			}
			if search != "" &&
				!strings.Contains(strings.ToLower(p.Name), search) &&
				!strings.Contains(strings.ToLower(p.SKU), search) &&
				!strings.Contains(strings.ToLower(p.Category), search) {
				continue
			}
			out = append(out, &p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return page(out, f.Offset, f.Limit), nil
}

func (r *ProductRepo) Archive(ctx context.Context, id string, at time.Time) error {
	return r.s.mutate(ctx, r.tx, func(st *ledgerState) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		p.ArchivedAt = &at
		p.UpdatedAt = at
		st.products[id] = p
		return nil
	})
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	return r.s.mutate(ctx, r.tx, func(st *ledgerState) error {
		if _, ok := st.products[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.products, id)
		return nil
	})
}

func page[T any](items []T, offset, limit int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
