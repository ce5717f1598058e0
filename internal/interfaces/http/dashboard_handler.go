package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-ledger-api/internal/application/reporting"
)

// DashboardHandler maneja el resumen del dashboard y los reportes diario/mensual.
// Solo lee: nunca modifica el ledger ni las ventas.
type DashboardHandler struct {
	svc *reporting.Service
	now func() time.Time
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(svc *reporting.Service) *DashboardHandler {
	return &DashboardHandler{svc: svc, now: time.Now}
}

// GetSummary devuelve ventas, gastos y utilidad del día y del mes en curso,
// los productos con stock bajo y los más vendidos del mes.
// Las fechas se calculan en la zona horaria de la tienda.
//
// @Summary      Resumen del dashboard
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	out, err := h.svc.DashboardSummary(c.UserContext(), h.now())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Daily godoc
// @Summary      Reporte diario
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "YYYY-MM-DD (por defecto hoy)"
// @Success      200   {object}  dto.ReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/daily [get]
func (h *DashboardHandler) Daily(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		date = h.now().In(h.svc.Location()).Format("2006-01-02")
	}
	out, err := h.svc.DailyReport(c.UserContext(), date)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Monthly godoc
// @Summary      Reporte mensual
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        month  query  string  false  "YYYY-MM (por defecto el mes actual)"
// @Success      200    {object}  dto.ReportResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/reports/monthly [get]
func (h *DashboardHandler) Monthly(c *fiber.Ctx) error {
	month := c.Query("month")
	if month == "" {
		month = h.now().In(h.svc.Location()).Format("2006-01")
	}
	out, err := h.svc.MonthlyReport(c.UserContext(), month)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
