package repository

import (
	"time"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// StockAdjustmentRepository define el puerto de persistencia del historial de
// ajustes. Solo inserta y consulta: el historial es append-only.
type StockAdjustmentRepository interface {
	Create(adjustment *entity.StockAdjustment) error
	GetByID(id string) (*entity.StockAdjustment, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockAdjustment, error)
	ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockAdjustment, error)
}
