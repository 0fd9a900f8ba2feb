package repository

import "github.com/jhoicas/Comercio-api/internal/domain/entity"

// StockEntryRepository define el puerto para consultar/actualizar existencias
// por producto+bodega. Get y GetForUpdate devuelven nil (sin error) cuando no
// existe la fila: la entrada se crea con la primera recepción de stock.
type StockEntryRepository interface {
	Get(productID, warehouseID string) (*entity.StockEntry, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para serializar los
	// ajustes concurrentes sobre la misma clave.
	GetForUpdate(productID, warehouseID string) (*entity.StockEntry, error)
	Upsert(entry *entity.StockEntry) error
	ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockEntry, error)
	// ListLowStock devuelve las existencias por debajo del mínimo del producto.
	// warehouseID vacío = todas las bodegas de la empresa.
	ListLowStock(companyID, warehouseID string) ([]*entity.LowStockItem, error)
	// ListValuation devuelve las existencias valorizadas al costo del producto.
	ListValuation(companyID, warehouseID string) ([]*entity.ValuationRow, error)
}
