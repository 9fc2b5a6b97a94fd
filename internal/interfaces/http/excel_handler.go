package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/comercio-api/internal/application/dto"
	appexcel "github.com/jhoicas/comercio-api/internal/application/excel"
	xlsx "github.com/jhoicas/comercio-api/internal/infrastructure/excel"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExcelHandler importación y exportación masiva por planillas.
type ExcelHandler struct {
	svc      *appexcel.Service
	exporter *appexcel.Exporter
}

// NewExcelHandler construye el handler.
func NewExcelHandler(svc *appexcel.Service, exporter *appexcel.Exporter) *ExcelHandler {
	return &ExcelHandler{svc: svc, exporter: exporter}
}

// Process godoc
// @Summary      Importar o actualizar en lote desde .xlsx
// @Tags         excel
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        entity  path      string  true   "products | customers | suppliers | categories | orders | purchases"
// @Param        file    formData  file    true   "Workbook .xlsx"
// @Param        mode    formData  string  true   "import | update"
// @Success      200     {object}  dto.ImportReport
// @Failure      402     {object}  dto.ErrorResponse  "lote rechazado antes de procesar"
// @Failure      500     {object}  dto.ImportReport   "lote revertido, reporte adjunto"
// @Router       /api/excel/{entity} [post]
func (h *ExcelHandler) Process(c *fiber.Ctx) error {
	entity := c.Params("entity")
	mode := c.FormValue("mode")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "archivo .xlsx requerido en el campo file"})
	}
	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo abrir el archivo"})
	}
	defer f.Close()

	sheet, err := xlsx.ReadFirstSheet(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: err.Error()})
	}

	report, err := h.svc.Process(c.Context(), GetTenantID(c), GetUserID(c), entity, mode, sheet)
	if err != nil {
		// Errores de fila: todo revertido, el reporte viaja con el error.
		if errors.Is(err, appexcel.ErrBatchFailed) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"code":    "BATCH_FAILED",
				"message": "importación fallida: cambios revertidos",
				"report":  report,
			})
		}
		return handleError(c, err)
	}
	return c.JSON(report)
}

// Export godoc
// @Summary      Exportar filas actuales a .xlsx
// @Tags         excel
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        entity  path  string  true  "Entidad a exportar"
// @Success      200
// @Router       /api/excel/export/{entity} [get]
func (h *ExcelHandler) Export(c *fiber.Ctx) error {
	entity := c.Params("entity")
	data, err := h.exporter.Export(GetTenantID(c), entity)
	if err != nil {
		return handleError(c, err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s.xlsx", entity))
	return c.Send(data)
}

// Example godoc
// @Summary      Descargar plantilla de ejemplo para importar
// @Tags         excel
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        entity  path  string  true  "Entidad de la plantilla"
// @Success      200
// @Router       /api/excel/example/{entity} [get]
func (h *ExcelHandler) Example(c *fiber.Ctx) error {
	entity := c.Params("entity")
	data, err := h.exporter.Example(GetTenantID(c), entity)
	if err != nil {
		return handleError(c, err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s-ejemplo.xlsx", entity))
	return c.Send(data)
}
