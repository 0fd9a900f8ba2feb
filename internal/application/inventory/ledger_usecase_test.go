package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comercio-api/internal/application/inventory"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

// ledgerStore simula la base de datos del libro de inventario. El TxRunner
// fake toma un snapshot antes de cada "transacción" y lo restaura si la
// función devuelve error, imitando el rollback de PostgreSQL.
type ledgerStore struct {
	mu          sync.Mutex
	stocks      map[string]*entity.StockEntry // clave productID+"|"+warehouseID
	adjustments []*entity.StockAdjustment
	products    map[string]*entity.Product
	warehouses  map[string]*entity.Warehouse
}

func newLedgerStore() *ledgerStore {
	return &ledgerStore{
		stocks:     make(map[string]*entity.StockEntry),
		products:   make(map[string]*entity.Product),
		warehouses: make(map[string]*entity.Warehouse),
	}
}

func stockKey(productID, warehouseID string) string {
	return productID + "|" + warehouseID
}

func (s *ledgerStore) snapshot() (map[string]*entity.StockEntry, []*entity.StockAdjustment) {
	stocks := make(map[string]*entity.StockEntry, len(s.stocks))
	for k, v := range s.stocks {
		cp := *v
		stocks[k] = &cp
	}
	adjustments := make([]*entity.StockAdjustment, len(s.adjustments))
	copy(adjustments, s.adjustments)
	return stocks, adjustments
}

type fakeStockRepo struct{ s *ledgerStore }

func (r *fakeStockRepo) Get(productID, warehouseID string) (*entity.StockEntry, error) {
	entry, ok := r.s.stocks[stockKey(productID, warehouseID)]
	if !ok {
		return nil, nil
	}
	cp := *entry
	return &cp, nil
}

func (r *fakeStockRepo) GetForUpdate(productID, warehouseID string) (*entity.StockEntry, error) {
	return r.Get(productID, warehouseID)
}

func (r *fakeStockRepo) Upsert(entry *entity.StockEntry) error {
	cp := *entry
	r.s.stocks[stockKey(entry.ProductID, entry.WarehouseID)] = &cp
	return nil
}

func (r *fakeStockRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockEntry, error) {
	var out []*entity.StockEntry
	for _, e := range r.s.stocks {
		if e.WarehouseID == warehouseID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeStockRepo) ListLowStock(companyID, warehouseID string) ([]*entity.LowStockItem, error) {
	var out []*entity.LowStockItem
	for _, e := range r.s.stocks {
		p, ok := r.s.products[e.ProductID]
		if !ok || p.CompanyID != companyID || p.MinStock <= 0 || e.Quantity >= p.MinStock {
			continue
		}
		if warehouseID != "" && e.WarehouseID != warehouseID {
			continue
		}
		out = append(out, &entity.LowStockItem{
			ProductID:   e.ProductID,
			SKU:         p.SKU,
			ProductName: p.Name,
			WarehouseID: e.WarehouseID,
			Quantity:    e.Quantity,
			MinStock:    p.MinStock,
			Shortage:    p.MinStock - e.Quantity,
		})
	}
	return out, nil
}

func (r *fakeStockRepo) ListValuation(companyID, warehouseID string) ([]*entity.ValuationRow, error) {
	return nil, nil
}

type fakeAdjustmentRepo struct{ s *ledgerStore }

func (r *fakeAdjustmentRepo) Create(adjustment *entity.StockAdjustment) error {
	cp := *adjustment
	r.s.adjustments = append(r.s.adjustments, &cp)
	return nil
}

func (r *fakeAdjustmentRepo) GetByID(id string) (*entity.StockAdjustment, error) {
	for _, a := range r.s.adjustments {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAdjustmentRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockAdjustment, error) {
	var out []*entity.StockAdjustment
	for _, a := range r.s.adjustments {
		if a.ProductID == productID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeAdjustmentRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockAdjustment, error) {
	var out []*entity.StockAdjustment
	for _, a := range r.s.adjustments {
		if a.WarehouseID == warehouseID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeProductRepo struct{ s *ledgerStore }

func (r *fakeProductRepo) Create(p *entity.Product) error { r.s.products[p.ID] = p; return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}
func (r *fakeProductRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.CompanyID == companyID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}
func (r *fakeProductRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}
func (r *fakeProductRepo) Update(p *entity.Product) error { r.s.products[p.ID] = p; return nil }
func (r *fakeProductRepo) Delete(id string) error         { delete(r.s.products, id); return nil }

type fakeWarehouseRepo struct{ s *ledgerStore }

func (r *fakeWarehouseRepo) Create(w *entity.Warehouse) error { r.s.warehouses[w.ID] = w; return nil }
func (r *fakeWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return r.s.warehouses[id], nil
}
func (r *fakeWarehouseRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	return nil, nil
}
func (r *fakeWarehouseRepo) Update(w *entity.Warehouse) error { r.s.warehouses[w.ID] = w; return nil }

// fakeTxRunner ejecuta la función con repos sobre el mismo store y restaura el
// estado previo si devuelve error (semántica de rollback).
type fakeTxRunner struct{ s *ledgerStore }

func (t *fakeTxRunner) Run(ctx context.Context, fn func(adjRepo repository.StockAdjustmentRepository, stockRepo repository.StockEntryRepository) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	stocks, adjustments := t.s.snapshot()
	if err := fn(&fakeAdjustmentRepo{t.s}, &fakeStockRepo{t.s}); err != nil {
		t.s.stocks = stocks
		t.s.adjustments = adjustments
		return err
	}
	return nil
}

func (t *fakeTxRunner) RunOrder(ctx context.Context, fn func(
	adjRepo repository.StockAdjustmentRepository,
	stockRepo repository.StockEntryRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	promotionRepo repository.PromotionRepository,
) error) error {
	panic("no usado en estos tests")
}

// ──────────────────────────────────────────────────────────────────────────────
// Setup
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCompanyID   = "company-1"
	testProductID   = "product-1"
	testWarehouseID = "warehouse-1"
)

func newLedger(t *testing.T) (*inventory.LedgerUseCase, *ledgerStore) {
	t.Helper()
	s := newLedgerStore()
	s.products[testProductID] = &entity.Product{
		ID:        testProductID,
		CompanyID: testCompanyID,
		SKU:       "SKU-001",
		Name:      "Café 500g",
		MinStock:  5,
	}
	s.warehouses[testWarehouseID] = &entity.Warehouse{
		ID:        testWarehouseID,
		CompanyID: testCompanyID,
		Name:      "Bodega Principal",
	}
	uc := inventory.NewLedgerUseCase(
		&fakeTxRunner{s},
		&fakeStockRepo{s},
		&fakeAdjustmentRepo{s},
		&fakeProductRepo{s},
		&fakeWarehouseRepo{s},
	)
	return uc, s
}

func seedStock(s *ledgerStore, quantity int64) {
	s.stocks[stockKey(testProductID, testWarehouseID)] = &entity.StockEntry{
		ProductID:   testProductID,
		WarehouseID: testWarehouseID,
		Quantity:    quantity,
	}
}

func adjustment(companyID string, delta int64, reason string) inventory.ApplyDeltaInput {
	return inventory.ApplyDeltaInput{
		CompanyID:   companyID,
		ActorID:     "user-1",
		ProductID:   testProductID,
		WarehouseID: testWarehouseID,
		Delta:       delta,
		Reason:      reason,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestGetQuantity_ParDesconocidoDevuelveCero(t *testing.T) {
	uc, _ := newLedger(t)

	qty, err := uc.GetQuantity(context.Background(), testProductID, testWarehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), qty, "un par producto+bodega sin existencias debe reportar 0, no error")
}

func TestApplyDelta_EntradaCreaExistencia(t *testing.T) {
	uc, s := newLedger(t)

	adj, err := uc.ApplyDelta(context.Background(), adjustment(testCompanyID, 10, entity.ReasonPurchaseReceipt))
	require.NoError(t, err)

	assert.Equal(t, int64(0), adj.BeforeQuantity)
	assert.Equal(t, int64(10), adj.AfterQuantity)
	assert.Equal(t, entity.ReasonPurchaseReceipt, adj.Reason)
	assert.Equal(t, "user-1", adj.ActorID)

	qty, err := uc.GetQuantity(context.Background(), testProductID, testWarehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), qty)
	assert.Len(t, s.adjustments, 1, "debe quedar exactamente un registro en el historial")
}

func TestApplyDelta_SecuenciaAcumulada(t *testing.T) {
	uc, s := newLedger(t)
	ctx := context.Background()

	deltas := []struct {
		delta  int64
		reason string
	}{
		{10, entity.ReasonPurchaseReceipt},
		{-3, entity.ReasonManualAdjustment},
		{5, entity.ReasonSalesReturn},
	}
	var expected int64
	for _, d := range deltas {
		adj, err := uc.ApplyDelta(ctx, adjustment(testCompanyID, d.delta, d.reason))
		require.NoError(t, err)
		assert.Equal(t, expected, adj.BeforeQuantity, "BeforeQuantity debe encadenar con el ajuste anterior")
		expected += d.delta
		assert.Equal(t, expected, adj.AfterQuantity)
	}

	qty, err := uc.GetQuantity(ctx, testProductID, testWarehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(12), qty, "la cantidad debe ser la suma de los deltas aplicados")
	assert.Len(t, s.adjustments, len(deltas))
}

func TestApplyDelta_StockInsuficiente(t *testing.T) {
	uc, s := newLedger(t)
	seedStock(s, 3)

	_, err := uc.ApplyDelta(context.Background(), adjustment(testCompanyID, -5, entity.ReasonManualAdjustment))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// El estado no debe cambiar: ni la existencia ni el historial.
	qty, _ := uc.GetQuantity(context.Background(), testProductID, testWarehouseID)
	assert.Equal(t, int64(3), qty, "un ajuste rechazado no debe modificar la existencia")
	assert.Empty(t, s.adjustments, "un ajuste rechazado no debe dejar rastro en el historial")
}

func TestApplyDelta_SalidaSinExistenciaPrevia(t *testing.T) {
	uc, _ := newLedger(t)

	_, err := uc.ApplyDelta(context.Background(), adjustment(testCompanyID, -1, entity.ReasonManualAdjustment))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound, "descontar de un par sin existencias debe ser not found")
}

func TestApplyDelta_DeltaCeroRechazado(t *testing.T) {
	uc, _ := newLedger(t)

	_, err := uc.ApplyDelta(context.Background(), adjustment(testCompanyID, 0, entity.ReasonManualAdjustment))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApplyDelta_MotivoDesconocidoRechazado(t *testing.T) {
	uc, _ := newLedger(t)

	_, err := uc.ApplyDelta(context.Background(), adjustment(testCompanyID, 5, "porque_si"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApplyDelta_ProductoDeOtraEmpresa(t *testing.T) {
	uc, _ := newLedger(t)

	_, err := uc.ApplyDelta(context.Background(), adjustment("otra-empresa", 5, entity.ReasonPurchaseReceipt))
	assert.ErrorIs(t, err, domain.ErrNotFound, "el ajuste no debe cruzar empresas")
}

func TestListAdjustments_RequiereFiltro(t *testing.T) {
	uc, _ := newLedger(t)

	_, err := uc.ListAdjustments(context.Background(), inventory.ListAdjustmentsInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "se exige product_id o warehouse_id")
}

// Ajustes concurrentes sobre la misma clave: el TxRunner serializa las
// transacciones, así que ningún incremento se pierde.
func TestApplyDelta_ConcurrenciaSinPerdidas(t *testing.T) {
	uc, s := newLedger(t)
	seedStock(s, 0)
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := uc.ApplyDelta(ctx, adjustment(testCompanyID, 1, entity.ReasonPurchaseReceipt))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	qty, err := uc.GetQuantity(ctx, testProductID, testWarehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(workers), qty, "todos los incrementos concurrentes deben quedar aplicados")
	assert.Len(t, s.adjustments, workers)

	// El historial debe encadenar before/after sin huecos aunque el orden de
	// llegada de los workers sea arbitrario.
	seen := make(map[int64]bool)
	for _, adj := range s.adjustments {
		assert.Equal(t, adj.BeforeQuantity+1, adj.AfterQuantity)
		assert.False(t, seen[adj.AfterQuantity], "cada AfterQuantity debe ser único")
		seen[adj.AfterQuantity] = true
	}
}

func TestLowStock_ReportaFaltante(t *testing.T) {
	uc, s := newLedger(t)
	seedStock(s, 2) // MinStock del producto es 5

	items, err := uc.LowStock(context.Background(), testCompanyID, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(3), items[0].Shortage)
}
