// Package reports genera los reportes de inventario: valorización al costo
// y stock bajo.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

// ValuationPDFGenerator puerto para la representación gráfica (PDF) del
// reporte de valorización.
type ValuationPDFGenerator interface {
	GenerateValuationPDF(ctx context.Context, company *entity.Company, report *ValuationReport) ([]byte, error)
}

// ValuationReport reporte de valorización: existencias por bodega al costo
// unitario del producto.
type ValuationReport struct {
	CompanyID   string
	WarehouseID string // vacío = todas las bodegas
	GeneratedAt time.Time
	Rows        []*entity.ValuationRow
	TotalValue  decimal.Decimal
}

// ValuationUseCase arma el reporte de valorización de inventario.
type ValuationUseCase struct {
	stockRepo   repository.StockEntryRepository
	companyRepo repository.CompanyRepository
	generator   ValuationPDFGenerator
}

// NewValuationUseCase construye el caso de uso.
func NewValuationUseCase(
	stockRepo repository.StockEntryRepository,
	companyRepo repository.CompanyRepository,
	generator ValuationPDFGenerator,
) *ValuationUseCase {
	return &ValuationUseCase{stockRepo: stockRepo, companyRepo: companyRepo, generator: generator}
}

// Build arma el reporte de valorización para la empresa, opcionalmente
// limitado a una bodega.
func (uc *ValuationUseCase) Build(ctx context.Context, companyID, warehouseID string) (*ValuationReport, error) {
	rows, err := uc.stockRepo.ListValuation(companyID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("reporte: consultar valorización: %w", err)
	}
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.TotalValue)
	}
	return &ValuationReport{
		CompanyID:   companyID,
		WarehouseID: warehouseID,
		GeneratedAt: time.Now().UTC(),
		Rows:        rows,
		TotalValue:  total,
	}, nil
}

// DownloadPDF arma el reporte y genera su PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si la empresa no existe.
func (uc *ValuationUseCase) DownloadPDF(ctx context.Context, companyID, warehouseID string) (pdfBytes []byte, filename string, err error) {
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, "", domain.ErrNotFound
	}
	report, err := uc.Build(ctx, companyID, warehouseID)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GenerateValuationPDF(ctx, company, report)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generar pdf: %w", err)
	}
	filename = fmt.Sprintf("valorizacion-%s.pdf", report.GeneratedAt.Format("20060102-150405"))
	return pdfBytes, filename, nil
}
