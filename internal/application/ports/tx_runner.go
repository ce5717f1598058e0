package ports

import (
	"context"

	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Products  repository.ProductRepository
	Movements repository.StockMovementRepository
	Sales     repository.SaleRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil y el
// contexto sigue vivo; Rollback en cualquier otro caso. Nada es visible antes del Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
