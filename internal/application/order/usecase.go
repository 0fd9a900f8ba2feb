// Package order implementa el ciclo de vida de órdenes de venta: creación,
// cumplimiento (descuento de inventario todo-o-nada) y cancelación.
package order

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercio-api/internal/application/inventory"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

// CreateOrderItemInput línea de una orden nueva.
type CreateOrderItemInput struct {
	ProductID string
	Quantity  int64
	// UnitPrice opcional; nil usa el precio vigente del producto.
	UnitPrice *decimal.Decimal
}

// CreateOrderInput parámetros para crear una orden.
type CreateOrderInput struct {
	CompanyID     string
	WarehouseID   string
	CustomerID    string
	PromotionCode string
	Notes         string
	CreatedBy     string
	Items         []CreateOrderItemInput
}

// UseCase orquesta órdenes de venta sobre el libro de inventario.
type UseCase struct {
	txRunner      inventory.TxRunner
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	customerRepo  repository.CustomerRepository
	promotionRepo repository.PromotionRepository
}

// NewUseCase crea el caso de uso de órdenes. Los repositorios recibidos son
// los ligados al pool; las escrituras transaccionales van por txRunner.
func NewUseCase(
	txRunner inventory.TxRunner,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	customerRepo repository.CustomerRepository,
	promotionRepo repository.PromotionRepository,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		customerRepo:  customerRepo,
		promotionRepo: promotionRepo,
	}
}

// generateOrderNumber produce un consecutivo legible: ORD-20260831153000-a1b2c3.
func generateOrderNumber(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:6]
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102150405"), suffix)
}

// Create registra una orden en estado PENDING. No afecta inventario: el
// descuento ocurre en Fulfill. Valida bodega, cliente y promoción, toma
// precio e impuesto del producto y calcula los totales.
func (uc *UseCase) Create(ctx context.Context, input CreateOrderInput) (*entity.Order, error) {
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: la orden requiere al menos una línea", domain.ErrInvalidInput)
	}
	warehouse, err := uc.warehouseRepo.GetByID(input.WarehouseID)
	if err != nil {
		return nil, fmt.Errorf("error consultando bodega: %w", err)
	}
	if warehouse == nil || warehouse.CompanyID != input.CompanyID {
		return nil, fmt.Errorf("bodega %s: %w", input.WarehouseID, domain.ErrNotFound)
	}
	if input.CustomerID != "" {
		customer, err := uc.customerRepo.GetByID(input.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("error consultando cliente: %w", err)
		}
		if customer == nil || customer.CompanyID != input.CompanyID {
			return nil, fmt.Errorf("cliente %s: %w", input.CustomerID, domain.ErrNotFound)
		}
	}

	now := time.Now().UTC()
	order := &entity.Order{
		ID:            uuid.New().String(),
		CompanyID:     input.CompanyID,
		OrderNumber:   generateOrderNumber(now),
		WarehouseID:   input.WarehouseID,
		CustomerID:    input.CustomerID,
		Status:        entity.OrderStatusPending,
		PromotionCode: input.PromotionCode,
		Notes:         input.Notes,
		CreatedBy:     input.CreatedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	for i, line := range input.Items {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: la cantidad de la línea %d debe ser positiva", domain.ErrInvalidInput, i+1)
		}
		product, err := uc.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("error consultando producto: %w", err)
		}
		if product == nil || product.CompanyID != input.CompanyID {
			return nil, fmt.Errorf("producto %s: %w", line.ProductID, domain.ErrNotFound)
		}
		unitPrice := product.Price
		if line.UnitPrice != nil {
			unitPrice = *line.UnitPrice
		}
		lineSubtotal := unitPrice.Mul(decimal.NewFromInt(line.Quantity))
		lineTax := lineSubtotal.Mul(product.TaxRate).Div(decimal.NewFromInt(100)).Round(2)

		order.Items = append(order.Items, entity.OrderItem{
			ID:          uuid.New().String(),
			OrderID:     order.ID,
			LineNo:      i + 1,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   unitPrice,
			Subtotal:    lineSubtotal,
			TaxRate:     product.TaxRate,
			TaxAmount:   lineTax,
		})
		subtotal = subtotal.Add(lineSubtotal)
		taxTotal = taxTotal.Add(lineTax)
	}

	discount := decimal.Zero
	if input.PromotionCode != "" {
		promo, err := uc.promotionRepo.GetByCompanyAndCode(input.CompanyID, input.PromotionCode)
		if err != nil {
			return nil, fmt.Errorf("error consultando promoción: %w", err)
		}
		if promo == nil || !promo.IsValid(now) {
			return nil, fmt.Errorf("promoción %q: %w", input.PromotionCode, domain.ErrPromotionInvalid)
		}
		discount = promo.CalculateDiscount(subtotal)
	}

	order.Subtotal = subtotal
	order.DiscountAmount = discount
	order.TaxAmount = taxTotal
	order.TotalAmount = subtotal.Sub(discount).Add(taxTotal)

	if err := uc.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("error creando orden: %w", err)
	}
	return order, nil
}

// Fulfill cumple una orden PENDING: descuenta el inventario de todas sus
// líneas y marca la orden FULFILLED, todo en una sola transacción. Si alguna
// línea no tiene stock suficiente, nada cambia (todo-o-nada). Una orden que
// no está en PENDING devuelve ErrConflict, de modo que un reintento tras un
// cumplimiento exitoso nunca descuenta dos veces.
func (uc *UseCase) Fulfill(ctx context.Context, companyID, orderID, actorID string) (*entity.Order, error) {
	var fulfilled *entity.Order
	err := uc.txRunner.RunOrder(ctx, func(
		adjRepo repository.StockAdjustmentRepository,
		stockRepo repository.StockEntryRepository,
		orderRepo repository.OrderRepository,
		productRepo repository.ProductRepository,
		customerRepo repository.CustomerRepository,
		promotionRepo repository.PromotionRepository,
	) error {
		order, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return fmt.Errorf("error bloqueando orden: %w", err)
		}
		if order == nil || order.CompanyID != companyID {
			return fmt.Errorf("orden %s: %w", orderID, domain.ErrNotFound)
		}
		if order.Status != entity.OrderStatusPending {
			return fmt.Errorf("orden %s en estado %s: %w", orderID, order.Status, domain.ErrConflict)
		}

		now := time.Now().UTC()

		// Las líneas se procesan siempre por line_no ascendente para que el
		// resultado sea determinista ante reintentos.
		items := make([]entity.OrderItem, len(order.Items))
		copy(items, order.Items)
		sort.Slice(items, func(i, j int) bool { return items[i].LineNo < items[j].LineNo })

		for _, item := range items {
			_, err := inventory.ApplyDeltaInTx(adjRepo, stockRepo, inventory.ApplyDeltaInput{
				CompanyID:     companyID,
				ActorID:       actorID,
				ProductID:     item.ProductID,
				WarehouseID:   order.WarehouseID,
				Delta:         -item.Quantity,
				Reason:        entity.ReasonOrderFulfillment,
				ReferenceType: "order",
				ReferenceID:   order.ID,
			}, now)
			if err != nil {
				return fmt.Errorf("línea %d (producto %s): %w", item.LineNo, item.ProductID, err)
			}
		}

		if err := orderRepo.UpdateStatus(order.ID, entity.OrderStatusFulfilled); err != nil {
			return fmt.Errorf("error actualizando estado de la orden: %w", err)
		}
		if order.PromotionCode != "" {
			promo, err := promotionRepo.GetByCompanyAndCode(order.CompanyID, order.PromotionCode)
			if err != nil {
				return fmt.Errorf("error consultando promoción: %w", err)
			}
			if promo != nil {
				if err := promotionRepo.IncrementUsage(promo.ID); err != nil {
					return fmt.Errorf("error registrando uso de promoción: %w", err)
				}
			}
		}
		if order.CustomerID != "" {
			if err := customerRepo.AddSpending(order.CustomerID, order.TotalAmount); err != nil {
				return fmt.Errorf("error acumulando gasto del cliente: %w", err)
			}
		}

		order.Status = entity.OrderStatusFulfilled
		order.UpdatedAt = now
		fulfilled = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fulfilled, nil
}

// Cancel cancela una orden PENDING. Una orden ya cumplida o cancelada
// devuelve ErrConflict.
func (uc *UseCase) Cancel(ctx context.Context, companyID, orderID string) (*entity.Order, error) {
	var cancelled *entity.Order
	err := uc.txRunner.RunOrder(ctx, func(
		_ repository.StockAdjustmentRepository,
		_ repository.StockEntryRepository,
		orderRepo repository.OrderRepository,
		_ repository.ProductRepository,
		_ repository.CustomerRepository,
		_ repository.PromotionRepository,
	) error {
		order, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return fmt.Errorf("error bloqueando orden: %w", err)
		}
		if order == nil || order.CompanyID != companyID {
			return fmt.Errorf("orden %s: %w", orderID, domain.ErrNotFound)
		}
		if order.Status != entity.OrderStatusPending {
			return fmt.Errorf("orden %s en estado %s: %w", orderID, order.Status, domain.ErrConflict)
		}
		if err := orderRepo.UpdateStatus(order.ID, entity.OrderStatusCancelled); err != nil {
			return fmt.Errorf("error actualizando estado de la orden: %w", err)
		}
		order.Status = entity.OrderStatusCancelled
		order.UpdatedAt = time.Now().UTC()
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// GetByID devuelve una orden con sus líneas.
func (uc *UseCase) GetByID(ctx context.Context, companyID, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("error consultando orden: %w", err)
	}
	if order == nil || order.CompanyID != companyID {
		return nil, fmt.Errorf("orden %s: %w", orderID, domain.ErrNotFound)
	}
	return order, nil
}

// GetByNumber devuelve una orden por su número legible.
func (uc *UseCase) GetByNumber(ctx context.Context, companyID, orderNumber string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByNumber(companyID, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("error consultando orden: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("orden %s: %w", orderNumber, domain.ErrNotFound)
	}
	return order, nil
}

// List devuelve las órdenes de la empresa, opcionalmente filtradas por estado.
func (uc *UseCase) List(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	return uc.orderRepo.ListByCompany(companyID, status, limit, offset)
}
