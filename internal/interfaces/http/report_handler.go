package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/reports"
	"github.com/jhoicas/Comercio-api/internal/domain"
)

// ReportHandler maneja los reportes de inventario (protegido).
type ReportHandler struct {
	valuation *reports.ValuationUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(valuation *reports.ValuationUseCase) *ReportHandler {
	return &ReportHandler{valuation: valuation}
}

// Valuation godoc
// @Summary      Reporte de valorización de inventario
// @Description  Existencias valorizadas al costo unitario del producto,
//
//	agrupadas por bodega.
//
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega. Vacío = todas."
// @Success      200  {object}  dto.ValuationReportResponse
// @Router       /api/reports/valuation [get]
func (h *ReportHandler) Valuation(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	report, err := h.valuation.Build(c.Context(), companyID, c.Query("warehouse_id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	rows := make([]dto.ValuationRowDTO, 0, len(report.Rows))
	for _, r := range report.Rows {
		rows = append(rows, dto.ValuationRowDTO{
			WarehouseID:   r.WarehouseID,
			WarehouseName: r.WarehouseName,
			ProductID:     r.ProductID,
			SKU:           r.SKU,
			ProductName:   r.ProductName,
			Quantity:      r.Quantity,
			UnitCost:      r.UnitCost,
			TotalValue:    r.TotalValue,
		})
	}
	return c.JSON(dto.ValuationReportResponse{
		CompanyID:   report.CompanyID,
		WarehouseID: report.WarehouseID,
		GeneratedAt: report.GeneratedAt,
		Rows:        rows,
		TotalValue:  report.TotalValue,
	})
}

// ValuationPDF godoc
// @Summary      Descargar reporte de valorización en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        warehouse_id  query  string  false  "Filtrar por bodega. Vacío = todas."
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/valuation/pdf [get]
func (h *ReportHandler) ValuationPDF(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	pdfBytes, filename, err := h.valuation.DownloadPDF(c.Context(), companyID, c.Query("warehouse_id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "empresa no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
