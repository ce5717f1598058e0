package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-ledger-api/internal/application/dto"
	"github.com/jhoicas/retail-ledger-api/internal/application/ledger"
	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
)

// StockHandler maneja el ledger de stock: compras, ajustes, historial y verificación.
type StockHandler struct {
	ledger *ledger.Service
	loc    *time.Location
}

// NewStockHandler construye el handler. loc define los límites de día de los filtros.
func NewStockHandler(svc *ledger.Service, loc *time.Location) *StockHandler {
	return &StockHandler{ledger: svc, loc: loc}
}

// StockIn godoc
// @Summary      Registrar compra (stock-in)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockInRequest  true  "product_id, quantity_kg, purchase_cost_per_kg, supplier_id, invoice_ref, notes"
// @Success      201   {object}  dto.StockInResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/stock/in [post]
func (h *StockHandler) StockIn(c *fiber.Ctx) error {
	var in dto.StockInRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.ledger.StockIn(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Adjust godoc
// @Summary      Ajuste manual de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "delta_kg positivo suma, negativo resta"
// @Success      201   {object}  dto.StockInResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.ledger.Adjust(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// History godoc
// @Summary      Historial del ledger
// @Description  Movimientos en orden cronológico ascendente.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Producto"
// @Param        type        query  string  false  "IN | OUT"
// @Param        source      query  string  false  "PURCHASE | SALE | SALE_REVERSAL | ADJUSTMENT"
// @Param        from        query  string  false  "YYYY-MM-DD (inclusive)"
// @Param        to          query  string  false  "YYYY-MM-DD (inclusive)"
// @Param        limit       query  int     false  "Límite"  default(500)
// @Success      200  {object}  dto.HistoryResponse
// @Router       /api/stock/history [get]
func (h *StockHandler) History(c *fiber.Ctx) error {
	from, err := queryDay(c, "from", h.loc, false)
	if err != nil {
		return writeError(c, err)
	}
	to, err := queryDay(c, "to", h.loc, true)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.ledger.HistoryList(c.UserContext(), repository.MovementFilter{
		ProductID: c.Query("product_id"),
		Type:      c.Query("type"),
		Source:    c.Query("source"),
		From:      from,
		To:        to,
		Limit:     clampLimit(c.QueryInt("limit", 0), 500, 5000),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.HistoryResponse{History: out})
}

// Verify godoc
// @Summary      Verificar stock contra el ledger
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockVerificationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/verify/{id} [get]
func (h *StockHandler) Verify(c *fiber.Ctx) error {
	out, err := h.ledger.Verify(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
