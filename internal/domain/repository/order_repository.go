package repository

import "github.com/jhoicas/Comercio-api/internal/domain/entity"

// OrderRepository define el puerto de persistencia para órdenes de venta.
// GetByID y GetForUpdate devuelven la orden con sus líneas ordenadas por
// line_no para que el cumplimiento sea determinista.
type OrderRepository interface {
	// Create persiste la orden y sus líneas.
	Create(order *entity.Order) error
	GetByID(id string) (*entity.Order, error)
	GetByNumber(companyID, orderNumber string) (*entity.Order, error)
	// GetForUpdate bloquea la fila de la orden (SELECT FOR UPDATE) para que la
	// transición de estado y los descuentos de stock sean atómicos y un
	// reintento concurrente no duplique ajustes.
	GetForUpdate(id string) (*entity.Order, error)
	UpdateStatus(id, status string) error
	ListByCompany(companyID, status string, limit, offset int) ([]*entity.Order, error)
}
