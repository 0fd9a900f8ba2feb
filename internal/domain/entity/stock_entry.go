package entity

import "time"

// StockEntry representa la existencia actual de un producto en una bodega.
// Única por (ProductID, WarehouseID). Quantity nunca es negativa y solo se
// modifica a través del libro de ajustes (ApplyDelta), nunca directamente.
type StockEntry struct {
	ProductID   string
	WarehouseID string
	Quantity    int64
	UpdatedAt   time.Time
}

// LowStockItem fila del reporte de stock bajo (existencia por debajo del mínimo del producto).
type LowStockItem struct {
	ProductID     string
	SKU           string
	ProductName   string
	WarehouseID   string
	WarehouseName string
	Quantity      int64
	MinStock      int64
	Shortage      int64 // MinStock - Quantity
}
