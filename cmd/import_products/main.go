// import_products carga el catálogo desde una planilla (.xlsx) o un CSV exportado por
// Excel (coma o punto y coma, UTF-8 o Windows-1252). El stock inicial de cada fila entra
// al ledger como ajuste; los SKU que ya existen se omiten.
//
// Uso: go run ./cmd/import_products [ruta/productos.xlsx]
// Por defecto busca productos.xlsx en el directorio actual.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/retail-ledger-api/internal/application/auth"
	"github.com/jhoicas/retail-ledger-api/internal/bootstrap"
	"github.com/jhoicas/retail-ledger-api/internal/domain"
	"github.com/jhoicas/retail-ledger-api/internal/infrastructure/cache"
	"github.com/jhoicas/retail-ledger-api/internal/infrastructure/excel"
	"github.com/jhoicas/retail-ledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/retail-ledger-api/pkg/config"
	"github.com/jhoicas/retail-ledger-api/pkg/logger"
)

func main() {
	path := "productos.xlsx"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir archivo: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := excel.ParseProductsFile(path, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer productos: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = domain.WithActor(ctx, domain.Actor{UserID: "import", Username: "import_products"})

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	opts := bootstrap.Options{
		JWT: auth.JWTConfig{Secret: cfg.JWT.Secret},
		Log: log,
	}
	// Invalida los reportes cacheados por la API.
	if cfg.Redis.Addr != "" {
		rc := cache.NewRedisReportCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		defer rc.Close()
		opts.Cache = rc
	}
	container := bootstrap.New(bootstrap.PostgresStores(pool, cfg.DB.OpTimeout), opts)
	out, err := container.Products.Import(ctx, rows)
	if err != nil {
		log.Error().Err(err).Msg("importación interrumpida")
	}
	if out != nil {
		for _, e := range out.Errors {
			log.Warn().Int("row", e.Row).Str("name", e.Name).Msg(e.Message)
		}
		fmt.Printf("Leídas %d filas: %d creadas, %d omitidas (SKU existente), %d con error\n",
			len(rows), out.Created, out.Skipped, len(out.Errors))
	}
	if err != nil {
		pool.Close()
		os.Exit(1)
	}
}
