package ledger

import (
	"context"
	"iter"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger-api/internal/application/dto"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/domain/inventory"
	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
)

const historyPageSize = 200

// History devuelve una secuencia perezosa de movimientos ordenados por (CreatedAt, Seq).
// Cada recorrido vuelve a consultar desde el inicio, así que la secuencia es reiterable.
// f.Limit acota el total de elementos (0 = todos). Un error corta la secuencia.
func (s *Service) History(ctx context.Context, f repository.MovementFilter) iter.Seq2[entity.StockMovement, error] {
	return func(yield func(entity.StockMovement, error) bool) {
		pageFilter := f
		pageFilter.After = nil
		pageFilter.Limit = historyPageSize
		emitted := 0
		for {
			rows, err := s.movements.List(ctx, pageFilter)
			if err != nil {
				yield(entity.StockMovement{}, err)
				return
			}
			for _, m := range rows {
				if !yield(m, nil) {
					return
				}
				emitted++
				if f.Limit > 0 && emitted >= f.Limit {
					return
				}
			}
			if len(rows) < historyPageSize {
				return
			}
			last := rows[len(rows)-1]
			pageFilter.After = &repository.MovementCursor{CreatedAt: last.CreatedAt, Seq: last.Seq}
		}
	}
}

// HistoryList materializa History con el nombre de cada producto, para la API.
func (s *Service) HistoryList(ctx context.Context, f repository.MovementFilter) ([]dto.MovementResponse, error) {
	names := make(map[string]string)
	out := make([]dto.MovementResponse, 0)
	for m, err := range s.History(ctx, f) {
		if err != nil {
			return nil, err
		}
		name, ok := names[m.ProductID]
		if !ok {
			if p, err := s.products.GetByID(ctx, m.ProductID); err == nil {
				name = p.Name
			}
			names[m.ProductID] = name
		}
		out = append(out, dto.ToMovementResponse(&m, name))
	}
	return out, nil
}

// Replay recalcula el stock de un producto sumando todo su historial.
func (s *Service) Replay(ctx context.Context, productID string) (decimal.Decimal, error) {
	var b inventory.Balance
	for m, err := range s.History(ctx, repository.MovementFilter{ProductID: productID}) {
		if err != nil {
			return decimal.Zero, err
		}
		b.Add(m)
	}
	return b.Stock(), nil
}

// Verify compara la caché del producto con el ledger reconstruido.
func (s *Service) Verify(ctx context.Context, productID string) (*dto.StockVerificationResponse, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	replayed, err := s.Replay(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &dto.StockVerificationResponse{
		ProductID:     productID,
		CachedStockKg: p.AvailableStockKg,
		LedgerStockKg: replayed,
		Consistent:    p.AvailableStockKg.Equal(replayed),
	}, nil
}
