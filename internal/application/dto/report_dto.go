package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValuationRowDTO fila del reporte de valorización de inventario.
type ValuationRowDTO struct {
	WarehouseID   string          `json:"warehouse_id"`
	WarehouseName string          `json:"warehouse_name"`
	ProductID     string          `json:"product_id"`
	SKU           string          `json:"sku"`
	ProductName   string          `json:"product_name"`
	Quantity      int64           `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

// ValuationReportResponse reporte de valorización completo.
type ValuationReportResponse struct {
	CompanyID   string            `json:"company_id"`
	WarehouseID string            `json:"warehouse_id,omitempty"`
	GeneratedAt time.Time         `json:"generated_at"`
	Rows        []ValuationRowDTO `json:"rows"`
	TotalValue  decimal.Decimal   `json:"total_value"`
}
