package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-ledger-api/internal/application/activity"
	"github.com/jhoicas/retail-ledger-api/internal/application/auth"
	"github.com/jhoicas/retail-ledger-api/internal/application/export"
	"github.com/jhoicas/retail-ledger-api/internal/application/ledger"
	"github.com/jhoicas/retail-ledger-api/internal/application/reporting"
	"github.com/jhoicas/retail-ledger-api/internal/application/sales"
	"github.com/jhoicas/retail-ledger-api/internal/application/usecase"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC     *usecase.ProductUseCase
	ExpenseUC     *usecase.ExpenseUseCase
	SupplierUC    *usecase.SupplierUseCase
	Ledger        *ledger.Service
	Sales         *sales.Service
	Reporting     *reporting.Service
	Activity      *activity.Logger
	Export        *export.UseCase
	AuthUC        *auth.AuthUseCase
	ProductParser ProductFileParser
	Location      *time.Location
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	api := app.Group("/api")

	// Auth (login público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)

	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/auth/change-password", authHandler.ChangePassword)
	protected.Put("/settings", authHandler.UpdateProfile)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.ProductParser)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Post("/import", productHandler.Import)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Stock ledger
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.Ledger, loc)
	stock.Post("/in", stockHandler.StockIn)
	stock.Post("/adjust", stockHandler.Adjust)
	stock.Get("/history", stockHandler.History)
	stock.Get("/verify/:id", stockHandler.Verify)

	// Sales
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.Sales, loc)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Put("/:id", saleHandler.Update)
	salesGroup.Delete("/:id", saleHandler.Delete)

	// Expenses
	expenses := protected.Group("/expenses")
	expenseHandler := NewExpenseHandler(deps.ExpenseUC, loc)
	expenses.Post("/", expenseHandler.Create)
	expenses.Get("/", expenseHandler.List)
	expenses.Get("/:id", expenseHandler.GetByID)
	expenses.Delete("/:id", expenseHandler.Delete)

	// Suppliers
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Delete("/:id", supplierHandler.Delete)

	// Dashboard y reportes (solo lectura)
	dashboardHandler := NewDashboardHandler(deps.Reporting)
	protected.Get("/dashboard/summary", dashboardHandler.GetSummary)
	protected.Get("/reports/daily", dashboardHandler.Daily)
	protected.Get("/reports/monthly", dashboardHandler.Monthly)

	// Bitácora (admin)
	activityHandler := NewActivityHandler(deps.Activity)
	protected.Get("/activity-logs", adminOnly, activityHandler.List)

	// Exportaciones
	exportHandler := NewExportHandler(deps.Export)
	protected.Post("/exports/pdf", exportHandler.Export("pdf"))
	protected.Post("/exports/excel", exportHandler.Export("excel"))
}

// RequestLogger registra cada petición con zerolog: método, ruta, status y latencia.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error().Err(err)
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		requestID, _ := c.Locals("requestid").(string)
		ev.Str("request_id", requestID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Msg("http")
		return err
	}
}
