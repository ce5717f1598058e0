// Package bootstrap arma el grafo de casos de uso sobre un backend de almacenamiento
// (PostgreSQL o memoria). Lo usan cmd/api y los tests HTTP.
package bootstrap

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/retail-ledger-api/internal/application/activity"
	"github.com/jhoicas/retail-ledger-api/internal/application/auth"
	"github.com/jhoicas/retail-ledger-api/internal/application/export"
	"github.com/jhoicas/retail-ledger-api/internal/application/ledger"
	"github.com/jhoicas/retail-ledger-api/internal/application/ports"
	"github.com/jhoicas/retail-ledger-api/internal/application/reporting"
	"github.com/jhoicas/retail-ledger-api/internal/application/sales"
	"github.com/jhoicas/retail-ledger-api/internal/application/usecase"
	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
	"github.com/jhoicas/retail-ledger-api/internal/infrastructure/excel"
	"github.com/jhoicas/retail-ledger-api/internal/infrastructure/memory"
	"github.com/jhoicas/retail-ledger-api/internal/infrastructure/pdf"
	"github.com/jhoicas/retail-ledger-api/internal/infrastructure/postgres"
	apphttp "github.com/jhoicas/retail-ledger-api/internal/interfaces/http"
	"github.com/jhoicas/retail-ledger-api/pkg/logger"
)

// Stores repositorios y TxRunner de un backend.
type Stores struct {
	Tx           ports.TxRunner
	Products     repository.ProductRepository
	Movements    repository.StockMovementRepository
	Sales        repository.SaleRepository
	Expenses     repository.ExpenseRepository
	Suppliers    repository.SupplierRepository
	ActivityLogs repository.ActivityLogRepository
	Users        repository.UserRepository
}

// PostgresStores repositorios sobre el pool. opTimeout acota cada transacción.
func PostgresStores(pool *pgxpool.Pool, opTimeout time.Duration) Stores {
	return Stores{
		Tx:           postgres.NewTxRunner(pool, opTimeout),
		Products:     postgres.NewProductRepository(pool),
		Movements:    postgres.NewStockMovementRepository(pool),
		Sales:        postgres.NewSaleRepository(pool),
		Expenses:     postgres.NewExpenseRepository(pool),
		Suppliers:    postgres.NewSupplierRepository(pool),
		ActivityLogs: postgres.NewActivityLogRepository(pool),
		Users:        postgres.NewUserRepository(pool),
	}
}

// MemoryStores repositorios en memoria (tests y STORAGE_DRIVER=memory).
func MemoryStores(s *memory.Store) Stores {
	return Stores{
		Tx:           s,
		Products:     s.Products(),
		Movements:    s.Movements(),
		Sales:        s.Sales(),
		Expenses:     s.Expenses(),
		Suppliers:    s.Suppliers(),
		ActivityLogs: s.ActivityLogs(),
		Users:        s.Users(),
	}
}

// Options parámetros de armado.
type Options struct {
	JWT        auth.JWTConfig
	Location   *time.Location
	ShopName   string
	Cache      ports.ReportCache // nil = sin caché
	CacheTTL   time.Duration
	BcryptCost int // 0 = bcrypt.DefaultCost
	Log        *logger.Logger
}

// Container casos de uso listos para exponer.
type Container struct {
	Auth      *auth.AuthUseCase
	Activity  *activity.Logger
	Ledger    *ledger.Service
	Sales     *sales.Service
	Reporting *reporting.Service
	Products  *usecase.ProductUseCase
	Expenses  *usecase.ExpenseUseCase
	Suppliers *usecase.SupplierUseCase
	Export    *export.UseCase

	jwtSecret string
	loc       *time.Location
}

// New arma el grafo.
func New(st Stores, opts Options) *Container {
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	cache := opts.Cache
	if cache == nil {
		cache = ports.NopReportCache{}
	}

	audit := activity.NewLogger(st.ActivityLogs, opts.Log)
	ledgerSvc := ledger.NewService(st.Tx, st.Products, st.Movements, st.Suppliers, audit, cache)
	authUC := auth.NewAuthUseCase(st.Users, audit, opts.JWT)
	if opts.BcryptCost > 0 {
		authUC.WithBcryptCost(opts.BcryptCost)
	}

	return &Container{
		Auth:      authUC,
		Activity:  audit,
		Ledger:    ledgerSvc,
		Sales:     sales.NewService(st.Tx, ledgerSvc, st.Sales, audit, cache),
		Reporting: reporting.NewService(st.Products, st.Sales, st.Expenses, opts.Location, cache, opts.CacheTTL, opts.Log),
		Products:  usecase.NewProductUseCase(st.Tx, ledgerSvc, st.Products, audit, cache),
		Expenses:  usecase.NewExpenseUseCase(st.Expenses, audit, cache),
		Suppliers: usecase.NewSupplierUseCase(st.Suppliers, audit),
		Export: export.NewUseCase(st.Products, st.Sales, map[string]ports.DocumentRenderer{
			"pdf":   pdf.NewMarotoPDFGenerator(opts.ShopName, opts.Location),
			"excel": excel.NewExporter(opts.Location),
		}),
		jwtSecret: opts.JWT.Secret,
		loc:       opts.Location,
	}
}

// RouterDeps dependencias para apphttp.Router.
func (c *Container) RouterDeps() apphttp.RouterDeps {
	return apphttp.RouterDeps{
		ProductUC:     c.Products,
		ExpenseUC:     c.Expenses,
		SupplierUC:    c.Suppliers,
		Ledger:        c.Ledger,
		Sales:         c.Sales,
		Reporting:     c.Reporting,
		Activity:      c.Activity,
		Export:        c.Export,
		AuthUC:        c.Auth,
		ProductParser: excel.ParseProductsFile,
		Location:      c.loc,
		JWTSecret:     c.jwtSecret,
	}
}
