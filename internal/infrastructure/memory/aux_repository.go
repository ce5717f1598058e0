package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/retail-ledger-api/internal/domain"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
)

var (
	_ repository.ExpenseRepository     = (*ExpenseRepo)(nil)
	_ repository.SupplierRepository    = (*SupplierRepo)(nil)
	_ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)
	_ repository.UserRepository        = (*UserRepo)(nil)
)

// ExpenseRepo gastos en memoria.
type ExpenseRepo struct{ s *Store }

func (r *ExpenseRepo) Create(_ context.Context, e *entity.Expense) error {
	r.s.auxMu.Lock()
	defer r.s.auxMu.Unlock()
	r.s.expenses[e.ID] = *e
	return nil
}

func (r *ExpenseRepo) GetByID(_ context.Context, id string) (*entity.Expense, error) {
	r.s.auxMu.RLock()
	defer r.s.auxMu.RUnlock()
	e, ok := r.s.expenses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

func (r *ExpenseRepo) List(_ context.Context, f repository.ExpenseFilter) ([]entity.Expense, error) {
	r.s.auxMu.RLock()
	out := make([]entity.Expense, 0, len(r.s.expenses))
	for _, e := range r.s.expenses {
		if f.From != nil && e.ExpenseDate.Before(*f.From) {
			continue
		}
		if f.To != nil && !e.ExpenseDate.Before(*f.To) {
			continue
		}
		out = append(out, e)
	}
	r.s.auxMu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExpenseDate.Equal(out[j].ExpenseDate) {
			return out[i].ExpenseDate.Before(out[j].ExpenseDate)
		}
		return out[i].ID < out[j].ID
	})
	return page(out, 0, f.Limit), nil
}

func (r *ExpenseRepo) Delete(_ context.Context, id string) error {
	r.s.auxMu.Lock()
	defer r.s.auxMu.Unlock()
	if _, ok := r.s.expenses[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.expenses, id)
	return nil
}

// SupplierRepo proveedores en memoria.
type SupplierRepo struct{ s *Store }

func (r *SupplierRepo) Create(_ context.Context, sp *entity.Supplier) error {
	r.s.auxMu.Lock()
	defer r.s.auxMu.Unlock()
	r.s.suppliers[sp.ID] = *sp
	return nil
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	r.s.auxMu.RLock()
	defer r.s.auxMu.RUnlock()
	sp, ok := r.s.suppliers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &sp, nil
}

func (r *SupplierRepo) List(_ context.Context) ([]entity.Supplier, error) {
	r.s.auxMu.RLock()
	out := make([]entity.Supplier, 0, len(r.s.suppliers))
	for _, sp := range r.s.suppliers {
		out = append(out, sp)
	}
	r.s.auxMu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *SupplierRepo) Delete(_ context.Context, id string) error {
	r.s.auxMu.Lock()
	defer r.s.auxMu.Unlock()
	if _, ok := r.s.suppliers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.suppliers, id)
	return nil
}

// ActivityLogRepo bitácora en memoria.
type ActivityLogRepo struct{ s *Store }

func (r *ActivityLogRepo) Append(_ context.Context, e *entity.ActivityLog) error {
	r.s.auxMu.Lock()
	defer r.s.auxMu.Unlock()
	r.s.logs = append(r.s.logs, *e)
	return nil
}

func (r *ActivityLogRepo) List(_ context.Context, limit int) ([]entity.ActivityLog, error) {
	r.s.auxMu.RLock()
	defer r.s.auxMu.RUnlock()
	out := make([]entity.ActivityLog, 0, len(r.s.logs))
	for i := len(r.s.logs) - 1; i >= 0; i-- {
		out = append(out, r.s.logs[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// UserRepo usuarios en memoria.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.auxMu.Lock()
	defer r.s.auxMu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return domain.ErrDuplicate
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.auxMu.RLock()
	defer r.s.auxMu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.auxMu.RLock()
	defer r.s.auxMu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Username, username) {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepo) UpdatePassword(_ context.Context, id, hash string, forceChange bool) error {
	r.s.auxMu.Lock()
	defer r.s.auxMu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.ForcePasswordChange = forceChange
	r.s.users[id] = u
	return nil
}

func (r *UserRepo) UpdateProfile(_ context.Context, u *entity.User) error {
	r.s.auxMu.Lock()
	defer r.s.auxMu.Unlock()
	current, ok := r.s.users[u.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	current.Name, current.Phone, current.Email = u.Name, u.Phone, u.Email
	current.UpdatedAt = u.UpdatedAt
	r.s.users[u.ID] = current
	return nil
}

func (r *UserRepo) Count(_ context.Context) (int, error) {
	r.s.auxMu.RLock()
	defer r.s.auxMu.RUnlock()
	return len(r.s.users), nil
}
