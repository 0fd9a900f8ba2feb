package entity

import "github.com/shopspring/decimal"

// ValuationRow fila del reporte de valorización de inventario:
// existencia por bodega valorizada al costo unitario del producto.
type ValuationRow struct {
	WarehouseID   string
	WarehouseName string
	ProductID     string
	SKU           string
	ProductName   string
	Quantity      int64
	UnitCost      decimal.Decimal
	TotalValue    decimal.Decimal // Quantity * UnitCost
}
