// Package memory implementa todos los repositorios y el TxRunner en memoria.
// Se usa en tests y con STORAGE_DRIVER=memory para demos sin PostgreSQL.
//
// Las transacciones trabajan sobre una copia del estado del ledger (productos,
// movimientos y ventas) y la publican completa al confirmar. Las escrituras del
// ledger se serializan con un semáforo que respeta el contexto, así que un
// llamador con deadline falla rápido en lugar de quedarse esperando.
package memory

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/jhoicas/retail-ledger-api/internal/application/ports"
	"github.com/jhoicas/retail-ledger-api/internal/domain"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
)

var _ ports.TxRunner = (*Store)(nil)

// ledgerState tablas que participan en transacciones.
type ledgerState struct {
	products  map[string]entity.Product
	movements []entity.StockMovement
	sales     map[string]entity.Sale
	seq       int64
}

func newLedgerState() *ledgerState {
	return &ledgerState{
		products: make(map[string]entity.Product),
		sales:    make(map[string]entity.Sale),
	}
}

func (s *ledgerState) clone() *ledgerState {
	return &ledgerState{
		products:  maps.Clone(s.products),
		movements: slices.Clone(s.movements),
		sales:     maps.Clone(s.sales),
		seq:       s.seq,
	}
}

// Store almacén en memoria.
type Store struct {
	mu   sync.RWMutex // protege el puntero core
	core *ledgerState
	sem  chan struct{} // un escritor del ledger a la vez

	opTimeout time.Duration

	auxMu     sync.RWMutex
	expenses  map[string]entity.Expense
	suppliers map[string]entity.Supplier
	logs      []entity.ActivityLog
	users     map[string]entity.User
}

// Option configura el Store.
type Option func(*Store)

// WithOpTimeout limita cuánto espera una transacción por el turno de escritura.
func WithOpTimeout(d time.Duration) Option {
	return func(s *Store) { s.opTimeout = d }
}

// New construye un Store vacío.
func New(opts ...Option) *Store {
	s := &Store{
		core:      newLedgerState(),
		sem:       make(chan struct{}, 1),
		expenses:  make(map[string]entity.Expense),
		suppliers: make(map[string]entity.Supplier),
		users:     make(map[string]entity.User),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Run ejecuta fn sobre una copia del ledger y la publica solo si fn termina sin
// error y el contexto no fue cancelado.
func (s *Store) Run(ctx context.Context, fn func(repos ports.TxRepos) error) error {
	if s.opTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opTimeout)
		defer cancel()
	}
	if err := s.acquire(ctx); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer s.release()

	s.mu.RLock()
	work := s.core.clone()
	s.mu.RUnlock()

	if err := fn(s.reposFor(work)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit transaction: %w", ctxErr(err))
	}

	s.mu.Lock()
	s.core = work
	s.mu.Unlock()
	return nil
}

func (s *Store) reposFor(st *ledgerState) ports.TxRepos {
	return ports.TxRepos{
		Products:  &ProductRepo{s: s, tx: st},
		Movements: &MovementRepo{s: s, tx: st},
		Sales:     &SaleRepo{s: s, tx: st},
	}
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Movements repositorio del ledger fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }

// Sales repositorio de ventas fuera de transacción.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{s: s} }

// Expenses repositorio de gastos.
func (s *Store) Expenses() *ExpenseRepo { return &ExpenseRepo{s: s} }

// Suppliers repositorio de proveedores.
func (s *Store) Suppliers() *SupplierRepo { return &SupplierRepo{s: s} }

// ActivityLogs bitácora.
func (s *Store) ActivityLogs() *ActivityLogRepo { return &ActivityLogRepo{s: s} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

func (s *Store) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return ctxErr(err)
	}
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctxErr(ctx.Err())
	}
}

func (s *Store) release() { <-s.sem }

// view ejecuta fn con el estado de la transacción o, fuera de ella, con un read lock.
func (s *Store) view(tx *ledgerState, fn func(st *ledgerState) error) error {
	if tx != nil {
		return fn(tx)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.core)
}

// mutate fuera de transacción toma el turno de escritura como una tx de una sola sentencia.
func (s *Store) mutate(ctx context.Context, tx *ledgerState, fn func(st *ledgerState) error) error {
	if tx != nil {
		return fn(tx)
	}
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.core)
}

// ctxErr traduce un deadline vencido a ErrUnavailable; la cancelación se propaga tal cual.
func ctxErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
	}
	return err
}
