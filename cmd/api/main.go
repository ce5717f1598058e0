package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger-api/internal/application/auth"
	"github.com/jhoicas/retail-ledger-api/internal/application/ports"
	"github.com/jhoicas/retail-ledger-api/internal/bootstrap"
	"github.com/jhoicas/retail-ledger-api/internal/infrastructure/cache"
	"github.com/jhoicas/retail-ledger-api/internal/infrastructure/memory"
	"github.com/jhoicas/retail-ledger-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/retail-ledger-api/internal/interfaces/http"
	"github.com/jhoicas/retail-ledger-api/pkg/config"
	"github.com/jhoicas/retail-ledger-api/pkg/logger"
)

// @title                       Retail Ledger API
// @version                     1.0
// @description                 Inventario por kilo con ledger de movimientos, ventas, gastos y reportes.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 "Bearer <token>"
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	// Montos y pesos viajan como números JSON, no como strings.
	decimal.MarshalJSONWithoutQuotes = true

	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria")
	}

	ctx := context.Background()

	var stores bootstrap.Stores
	switch cfg.App.Storage {
	case "memory":
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		stores = bootstrap.MemoryStores(memory.New(memory.WithOpTimeout(cfg.DB.OpTimeout)))
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Msg("migraciones aplicadas")
		}
		stores = bootstrap.PostgresStores(pool, cfg.DB.OpTimeout)
	}

	// Caché de reportes: opcional, solo si REDIS_ADDR está definido.
	var reportCache ports.ReportCache = ports.NopReportCache{}
	if cfg.Redis.Addr != "" {
		rc := cache.NewRedisReportCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		defer rc.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no responde; los reportes se calculan sin caché hasta que vuelva")
		}
		cancel()
		reportCache = rc
	}

	container := bootstrap.New(stores, bootstrap.Options{
		JWT: auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
		Location: loc,
		ShopName: cfg.App.Name,
		Cache:    reportCache,
		CacheTTL: cfg.Redis.TTL,
		Log:      log,
	})

	if cfg.Seed.AdminPassword != "" {
		created, err := container.Auth.EnsureSeedAdmin(ctx, cfg.Seed.AdminUsername, cfg.Seed.AdminPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("crear usuario admin inicial")
		}
		if created {
			log.Info().Str("username", cfg.Seed.AdminUsername).Msg("usuario admin inicial creado; debe cambiar la contraseña al ingresar")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: strings.Join([]string{fiber.HeaderOrigin, fiber.HeaderContentType, fiber.HeaderAccept, fiber.HeaderAuthorization}, ","),
	}))
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Retail Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, container.RouterDeps())

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
