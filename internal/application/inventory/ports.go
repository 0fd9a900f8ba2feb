package inventory

import (
	"context"

	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

// TxRunner ejecuta funciones dentro de una transacción de base de datos.
// Los repositorios que recibe el callback están ligados a la transacción:
// todo lo que hagan se confirma o revierte en bloque.
type TxRunner interface {
	// Run ejecuta fn con los repositorios del libro de inventario.
	Run(ctx context.Context, fn func(adjRepo repository.StockAdjustmentRepository, stockRepo repository.StockEntryRepository) error) error
	// RunOrder ejecuta fn con los repositorios que participan en el
	// cumplimiento de una orden (inventario + orden + cliente + promoción).
	RunOrder(ctx context.Context, fn func(
		adjRepo repository.StockAdjustmentRepository,
		stockRepo repository.StockEntryRepository,
		orderRepo repository.OrderRepository,
		productRepo repository.ProductRepository,
		customerRepo repository.CustomerRepository,
		promotionRepo repository.PromotionRepository,
	) error) error
}
