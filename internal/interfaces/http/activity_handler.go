package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-ledger-api/internal/application/activity"
	"github.com/jhoicas/retail-ledger-api/internal/application/dto"
)

// ActivityHandler expone la bitácora (solo admin).
type ActivityHandler struct {
	log *activity.Logger
}

func NewActivityHandler(log *activity.Logger) *ActivityHandler {
	return &ActivityHandler{log: log}
}

// List godoc
// @Summary      Bitácora de actividad
// @Description  Entradas más recientes primero.
// @Tags         activity
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Límite"  default(100)
// @Success      200    {object}  dto.ActivityLogListResponse
// @Failure      403    {object}  dto.ErrorResponse
// @Router       /api/activity-logs [get]
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	rows, err := h.log.List(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ActivityLogResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.ToActivityLogResponse(&rows[i]))
	}
	return c.JSON(dto.ActivityLogListResponse{Logs: out})
}
