package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

// ApplyDeltaInput parámetros de un ajuste de inventario.
type ApplyDeltaInput struct {
	CompanyID     string
	ActorID       string
	ProductID     string
	WarehouseID   string
	Delta         int64
	Reason        string
	ReferenceType string
	ReferenceID   string
}

// ListAdjustmentsInput filtros del historial de ajustes. ProductID y
// WarehouseID son excluyentes: se filtra por el que venga informado.
type ListAdjustmentsInput struct {
	ProductID   string
	WarehouseID string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// LedgerUseCase implementa el libro de inventario: ajustes atómicos sobre
// existencias con historial append-only e invariante de cantidad no negativa.
type LedgerUseCase struct {
	txRunner      TxRunner
	stockRepo     repository.StockEntryRepository
	adjRepo       repository.StockAdjustmentRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
}

// NewLedgerUseCase crea el caso de uso del libro de inventario. stockRepo y
// adjRepo son los repositorios ligados al pool, para lecturas fuera de
// transacción.
func NewLedgerUseCase(
	txRunner TxRunner,
	stockRepo repository.StockEntryRepository,
	adjRepo repository.StockAdjustmentRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:      txRunner,
		stockRepo:     stockRepo,
		adjRepo:       adjRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
	}
}

// GetQuantity devuelve la cantidad actual de un producto en una bodega.
// Un par producto+bodega sin existencias registradas devuelve 0, no error.
func (uc *LedgerUseCase) GetQuantity(ctx context.Context, productID, warehouseID string) (int64, error) {
	entry, err := uc.stockRepo.Get(productID, warehouseID)
	if err != nil {
		return 0, fmt.Errorf("error consultando existencias: %w", err)
	}
	if entry == nil {
		return 0, nil
	}
	return entry.Quantity, nil
}

// ApplyDelta aplica un ajuste de inventario de forma atómica: bloquea la fila
// de existencias, valida que la cantidad resultante no sea negativa, actualiza
// la existencia y registra el ajuste en el historial, todo en una transacción.
func (uc *LedgerUseCase) ApplyDelta(ctx context.Context, input ApplyDeltaInput) (*entity.StockAdjustment, error) {
	if input.Delta == 0 {
		return nil, fmt.Errorf("%w: el delta no puede ser cero", domain.ErrInvalidInput)
	}
	if !entity.ValidReason(input.Reason) {
		return nil, fmt.Errorf("%w: motivo desconocido %q", domain.ErrInvalidInput, input.Reason)
	}

	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, fmt.Errorf("error consultando producto: %w", err)
	}
	if product == nil || product.CompanyID != input.CompanyID {
		return nil, fmt.Errorf("producto %s: %w", input.ProductID, domain.ErrNotFound)
	}
	warehouse, err := uc.warehouseRepo.GetByID(input.WarehouseID)
	if err != nil {
		return nil, fmt.Errorf("error consultando bodega: %w", err)
	}
	if warehouse == nil || warehouse.CompanyID != input.CompanyID {
		return nil, fmt.Errorf("bodega %s: %w", input.WarehouseID, domain.ErrNotFound)
	}

	var adjustment *entity.StockAdjustment
	err = uc.txRunner.Run(ctx, func(adjRepo repository.StockAdjustmentRepository, stockRepo repository.StockEntryRepository) error {
		adj, err := ApplyDeltaInTx(adjRepo, stockRepo, input, time.Now().UTC())
		if err != nil {
			return err
		}
		adjustment = adj
		return nil
	})
	if err != nil {
		return nil, err
	}
	return adjustment, nil
}

// ApplyDeltaInTx ejecuta un ajuste dentro de una transacción ya abierta.
// Lo comparte ApplyDelta con el cumplimiento de órdenes, que descuenta varias
// líneas en una sola transacción.
//
// Reglas:
//   - La fila de existencias se bloquea con SELECT FOR UPDATE.
//   - Si no existe y el delta es negativo: ErrNotFound (no hay nada que descontar).
//   - Si no existe y el delta es positivo: se crea con cantidad 0.
//   - Si la cantidad resultante sería negativa: ErrInsufficientStock.
func ApplyDeltaInTx(
	adjRepo repository.StockAdjustmentRepository,
	stockRepo repository.StockEntryRepository,
	input ApplyDeltaInput,
	now time.Time,
) (*entity.StockAdjustment, error) {
	entry, err := stockRepo.GetForUpdate(input.ProductID, input.WarehouseID)
	if err != nil {
		return nil, fmt.Errorf("error bloqueando existencias: %w", err)
	}
	if entry == nil {
		if input.Delta < 0 {
			return nil, fmt.Errorf("sin existencias para producto %s en bodega %s: %w",
				input.ProductID, input.WarehouseID, domain.ErrNotFound)
		}
		entry = &entity.StockEntry{
			ProductID:   input.ProductID,
			WarehouseID: input.WarehouseID,
			Quantity:    0,
		}
	}

	before := entry.Quantity
	after := before + input.Delta
	if after < 0 {
		return nil, fmt.Errorf("producto %s en bodega %s: disponible %d, solicitado %d: %w",
			input.ProductID, input.WarehouseID, before, -input.Delta, domain.ErrInsufficientStock)
	}

	entry.Quantity = after
	entry.UpdatedAt = now
	if err := stockRepo.Upsert(entry); err != nil {
		return nil, fmt.Errorf("error actualizando existencias: %w", err)
	}

	adjustment := &entity.StockAdjustment{
		ID:             uuid.New().String(),
		ProductID:      input.ProductID,
		WarehouseID:    input.WarehouseID,
		Delta:          input.Delta,
		Reason:         input.Reason,
		ActorID:        input.ActorID,
		BeforeQuantity: before,
		AfterQuantity:  after,
		ReferenceType:  input.ReferenceType,
		ReferenceID:    input.ReferenceID,
		CreatedAt:      now,
	}
	if err := adjRepo.Create(adjustment); err != nil {
		return nil, fmt.Errorf("error registrando ajuste: %w", err)
	}
	return adjustment, nil
}

// ListAdjustments devuelve el historial de ajustes filtrado por producto o
// por bodega, del más reciente al más antiguo.
func (uc *LedgerUseCase) ListAdjustments(ctx context.Context, input ListAdjustmentsInput) ([]*entity.StockAdjustment, error) {
	if input.Limit <= 0 {
		input.Limit = 50
	}
	switch {
	case input.ProductID != "":
		return uc.adjRepo.ListByProduct(input.ProductID, input.From, input.To, input.Limit, input.Offset)
	case input.WarehouseID != "":
		return uc.adjRepo.ListByWarehouse(input.WarehouseID, input.From, input.To, input.Limit, input.Offset)
	default:
		return nil, fmt.Errorf("%w: se requiere product_id o warehouse_id", domain.ErrInvalidInput)
	}
}

// GetAdjustment devuelve un ajuste del historial por su ID.
func (uc *LedgerUseCase) GetAdjustment(ctx context.Context, id string) (*entity.StockAdjustment, error) {
	adj, err := uc.adjRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("error consultando ajuste: %w", err)
	}
	if adj == nil {
		return nil, fmt.Errorf("ajuste %s: %w", id, domain.ErrNotFound)
	}
	return adj, nil
}

// LowStock devuelve los productos con existencias por debajo de su mínimo.
// warehouseID vacío cubre todas las bodegas de la empresa.
func (uc *LedgerUseCase) LowStock(ctx context.Context, companyID, warehouseID string) ([]*entity.LowStockItem, error) {
	items, err := uc.stockRepo.ListLowStock(companyID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("error consultando stock bajo: %w", err)
	}
	return items, nil
}

// ListByWarehouse devuelve las existencias de una bodega.
func (uc *LedgerUseCase) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.StockEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	return uc.stockRepo.ListByWarehouse(warehouseID, limit, offset)
}
