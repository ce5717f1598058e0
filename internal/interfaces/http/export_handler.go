package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-ledger-api/internal/application/dto"
	"github.com/jhoicas/retail-ledger-api/internal/application/export"
)

// ExportHandler descarga de ventas o productos en PDF / XLSX.
type ExportHandler struct {
	uc *export.UseCase
}

// NewExportHandler construye el handler.
func NewExportHandler(uc *export.UseCase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

// Export devuelve el handler para un formato ("pdf" o "excel").
//
// @Summary      Exportar ventas o productos
// @Tags         exports
// @Security     Bearer
// @Accept       json
// @Produce      application/pdf
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        body  body  dto.ExportRequest  true  "export_type: sales | products"
// @Success      200
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/exports/pdf [post]
// @Router       /api/exports/excel [post]
func (h *ExportHandler) Export(format string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in dto.ExportRequest
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
		file, err := h.uc.Export(c.UserContext(), format, in.ExportType)
		if err != nil {
			return writeError(c, err)
		}
		c.Attachment(file.Name)
		c.Set(fiber.HeaderContentType, file.ContentType)
		return c.Send(file.Data)
	}
}
