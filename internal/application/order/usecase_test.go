package order_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comercio-api/internal/application/order"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria con semántica de rollback
// ──────────────────────────────────────────────────────────────────────────────

type store struct {
	mu          sync.Mutex
	stocks      map[string]*entity.StockEntry // clave productID+"|"+warehouseID
	adjustments []*entity.StockAdjustment
	orders      map[string]*entity.Order
	products    map[string]*entity.Product
	warehouses  map[string]*entity.Warehouse
	customers   map[string]*entity.Customer
	promotions  map[string]*entity.Promotion
}

func newStore() *store {
	return &store{
		stocks:     make(map[string]*entity.StockEntry),
		orders:     make(map[string]*entity.Order),
		products:   make(map[string]*entity.Product),
		warehouses: make(map[string]*entity.Warehouse),
		customers:  make(map[string]*entity.Customer),
		promotions: make(map[string]*entity.Promotion),
	}
}

func key(productID, warehouseID string) string { return productID + "|" + warehouseID }

// snapshot copia el estado mutable por una "transacción" (stocks, historial,
// órdenes, clientes y promociones).
func (s *store) snapshot() *store {
	cp := newStore()
	for k, v := range s.stocks {
		e := *v
		cp.stocks[k] = &e
	}
	cp.adjustments = make([]*entity.StockAdjustment, len(s.adjustments))
	copy(cp.adjustments, s.adjustments)
	for k, v := range s.orders {
		o := *v
		o.Items = append([]entity.OrderItem(nil), v.Items...)
		cp.orders[k] = &o
	}
	for k, v := range s.customers {
		c := *v
		cp.customers[k] = &c
	}
	for k, v := range s.promotions {
		p := *v
		cp.promotions[k] = &p
	}
	return cp
}

func (s *store) restore(snap *store) {
	s.stocks = snap.stocks
	s.adjustments = snap.adjustments
	s.orders = snap.orders
	s.customers = snap.customers
	s.promotions = snap.promotions
}

type stockRepo struct{ s *store }

func (r *stockRepo) Get(productID, warehouseID string) (*entity.StockEntry, error) {
	e, ok := r.s.stocks[key(productID, warehouseID)]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}
func (r *stockRepo) GetForUpdate(productID, warehouseID string) (*entity.StockEntry, error) {
	return r.Get(productID, warehouseID)
}
func (r *stockRepo) Upsert(e *entity.StockEntry) error {
	cp := *e
	r.s.stocks[key(e.ProductID, e.WarehouseID)] = &cp
	return nil
}
func (r *stockRepo) ListByWarehouse(string, int, int) ([]*entity.StockEntry, error) { return nil, nil }
func (r *stockRepo) ListLowStock(string, string) ([]*entity.LowStockItem, error)   { return nil, nil }
func (r *stockRepo) ListValuation(string, string) ([]*entity.ValuationRow, error)  { return nil, nil }

type adjustmentRepo struct{ s *store }

func (r *adjustmentRepo) Create(a *entity.StockAdjustment) error {
	cp := *a
	r.s.adjustments = append(r.s.adjustments, &cp)
	return nil
}
func (r *adjustmentRepo) GetByID(string) (*entity.StockAdjustment, error) { return nil, nil }
func (r *adjustmentRepo) ListByProduct(string, *time.Time, *time.Time, int, int) ([]*entity.StockAdjustment, error) {
	return nil, nil
}
func (r *adjustmentRepo) ListByWarehouse(string, *time.Time, *time.Time, int, int) ([]*entity.StockAdjustment, error) {
	return nil, nil
}

type orderRepo struct{ s *store }

func (r *orderRepo) Create(o *entity.Order) error {
	cp := *o
	cp.Items = append([]entity.OrderItem(nil), o.Items...)
	r.s.orders[o.ID] = &cp
	return nil
}
func (r *orderRepo) GetByID(id string) (*entity.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	cp.Items = append([]entity.OrderItem(nil), o.Items...)
	return &cp, nil
}
func (r *orderRepo) GetByNumber(companyID, orderNumber string) (*entity.Order, error) {
	for _, o := range r.s.orders {
		if o.CompanyID == companyID && o.OrderNumber == orderNumber {
			return r.GetByID(o.ID)
		}
	}
	return nil, nil
}
func (r *orderRepo) GetForUpdate(id string) (*entity.Order, error) { return r.GetByID(id) }
func (r *orderRepo) UpdateStatus(id, status string) error {
	if o, ok := r.s.orders[id]; ok {
		o.Status = status
	}
	return nil
}
func (r *orderRepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.s.orders {
		if o.CompanyID == companyID && (status == "" || o.Status == status) {
			out = append(out, o)
		}
	}
	return out, nil
}

type productRepo struct{ s *store }

func (r *productRepo) Create(p *entity.Product) error { r.s.products[p.ID] = p; return nil }
func (r *productRepo) GetByID(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}
func (r *productRepo) GetByCompanyAndSKU(string, string) (*entity.Product, error) { return nil, nil }
func (r *productRepo) ListByCompany(string, int, int) ([]*entity.Product, error)  { return nil, nil }
func (r *productRepo) Update(p *entity.Product) error                             { return nil }
func (r *productRepo) Delete(string) error                                        { return nil }

type warehouseRepo struct{ s *store }

func (r *warehouseRepo) Create(w *entity.Warehouse) error { r.s.warehouses[w.ID] = w; return nil }
func (r *warehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return r.s.warehouses[id], nil
}
func (r *warehouseRepo) ListByCompany(string, int, int) ([]*entity.Warehouse, error) {
	return nil, nil
}
func (r *warehouseRepo) Update(*entity.Warehouse) error { return nil }

type customerRepo struct{ s *store }

func (r *customerRepo) Create(c *entity.Customer) error { r.s.customers[c.ID] = c; return nil }
func (r *customerRepo) GetByID(id string) (*entity.Customer, error) {
	return r.s.customers[id], nil
}
func (r *customerRepo) ListByCompany(string, int, int) ([]*entity.Customer, error) { return nil, nil }
func (r *customerRepo) Update(*entity.Customer) error                              { return nil }
func (r *customerRepo) AddSpending(id string, amount decimal.Decimal) error {
	if c, ok := r.s.customers[id]; ok {
		c.TotalSpending = c.TotalSpending.Add(amount)
	}
	return nil
}

type promotionRepo struct{ s *store }

func (r *promotionRepo) Create(p *entity.Promotion) error { r.s.promotions[p.ID] = p; return nil }
func (r *promotionRepo) GetByID(id string) (*entity.Promotion, error) {
	return r.s.promotions[id], nil
}
func (r *promotionRepo) GetByCompanyAndCode(companyID, code string) (*entity.Promotion, error) {
	for _, p := range r.s.promotions {
		if p.CompanyID == companyID && p.Code == code {
			return p, nil
		}
	}
	return nil, nil
}
func (r *promotionRepo) ListByCompany(string, int, int) ([]*entity.Promotion, error) {
	return nil, nil
}
func (r *promotionRepo) Update(*entity.Promotion) error { return nil }
func (r *promotionRepo) IncrementUsage(id string) error {
	if p, ok := r.s.promotions[id]; ok {
		p.UsedCount++
	}
	return nil
}

type txRunner struct{ s *store }

func (t *txRunner) Run(ctx context.Context, fn func(repository.StockAdjustmentRepository, repository.StockEntryRepository) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	snap := t.s.snapshot()
	if err := fn(&adjustmentRepo{t.s}, &stockRepo{t.s}); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

func (t *txRunner) RunOrder(ctx context.Context, fn func(
	repository.StockAdjustmentRepository,
	repository.StockEntryRepository,
	repository.OrderRepository,
	repository.ProductRepository,
	repository.CustomerRepository,
	repository.PromotionRepository,
) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	snap := t.s.snapshot()
	err := fn(&adjustmentRepo{t.s}, &stockRepo{t.s}, &orderRepo{t.s},
		&productRepo{t.s}, &customerRepo{t.s}, &promotionRepo{t.s})
	if err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Setup
// ──────────────────────────────────────────────────────────────────────────────

const (
	companyID   = "company-1"
	warehouseID = "warehouse-1"
	customerID  = "customer-1"
	productA    = "product-a"
	productB    = "product-b"
	actorID     = "user-1"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// newOrderUseCase arma el caso de uso con dos productos (IVA 19% y 0%),
// bodega, cliente y una promoción del 10%.
func newOrderUseCase(t *testing.T) (*order.UseCase, *store) {
	t.Helper()
	s := newStore()
	s.warehouses[warehouseID] = &entity.Warehouse{ID: warehouseID, CompanyID: companyID, Name: "Principal"}
	s.customers[customerID] = &entity.Customer{ID: customerID, CompanyID: companyID, Name: "Acme S.A.S.", TotalSpending: decimal.Zero}
	s.products[productA] = &entity.Product{
		ID: productA, CompanyID: companyID, SKU: "SKU-A", Name: "Café 500g",
		Price: dec("10000"), Cost: dec("6000"), TaxRate: dec("19"),
	}
	s.products[productB] = &entity.Product{
		ID: productB, CompanyID: companyID, SKU: "SKU-B", Name: "Panela",
		Price: dec("3000"), Cost: dec("1500"), TaxRate: dec("0"),
	}
	s.promotions["promo-1"] = &entity.Promotion{
		ID: "promo-1", CompanyID: companyID, Code: "DIEZ",
		DiscountType: entity.DiscountTypePercentage, DiscountValue: dec("10"),
		MinPurchase: decimal.Zero,
		StartDate:   time.Now().Add(-24 * time.Hour),
		EndDate:     time.Now().Add(24 * time.Hour),
		IsActive:    true,
	}
	uc := order.NewUseCase(&txRunner{s}, &orderRepo{s}, &productRepo{s},
		&warehouseRepo{s}, &customerRepo{s}, &promotionRepo{s})
	return uc, s
}

func seed(s *store, productID string, quantity int64) {
	s.stocks[key(productID, warehouseID)] = &entity.StockEntry{
		ProductID: productID, WarehouseID: warehouseID, Quantity: quantity,
	}
}

func createTestOrder(t *testing.T, uc *order.UseCase, promoCode string) *entity.Order {
	t.Helper()
	o, err := uc.Create(context.Background(), order.CreateOrderInput{
		CompanyID:     companyID,
		WarehouseID:   warehouseID,
		CustomerID:    customerID,
		PromotionCode: promoCode,
		CreatedBy:     actorID,
		Items: []order.CreateOrderItemInput{
			{ProductID: productA, Quantity: 2},
			{ProductID: productB, Quantity: 5},
		},
	})
	require.NoError(t, err)
	return o
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_CalculaTotales(t *testing.T) {
	uc, _ := newOrderUseCase(t)

	o := createTestOrder(t, uc, "")

	// 2 x 10000 + 5 x 3000 = 35000; IVA = 19% de 20000 = 3800.
	assert.Equal(t, entity.OrderStatusPending, o.Status)
	assert.True(t, dec("35000").Equal(o.Subtotal), "subtotal fue %s", o.Subtotal)
	assert.True(t, dec("3800").Equal(o.TaxAmount), "IVA fue %s", o.TaxAmount)
	assert.True(t, o.DiscountAmount.IsZero())
	assert.True(t, dec("38800").Equal(o.TotalAmount), "total fue %s", o.TotalAmount)
	require.Len(t, o.Items, 2)
	assert.Equal(t, 1, o.Items[0].LineNo)
	assert.Equal(t, 2, o.Items[1].LineNo)
	assert.Contains(t, o.OrderNumber, "ORD-")
}

func TestCreate_ConPromocion(t *testing.T) {
	uc, _ := newOrderUseCase(t)

	o := createTestOrder(t, uc, "DIEZ")

	// Descuento: 10% de 35000 = 3500. Total = 35000 - 3500 + 3800.
	assert.True(t, dec("3500").Equal(o.DiscountAmount), "descuento fue %s", o.DiscountAmount)
	assert.True(t, dec("35300").Equal(o.TotalAmount), "total fue %s", o.TotalAmount)
}

func TestCreate_PromocionInexistente(t *testing.T) {
	uc, _ := newOrderUseCase(t)

	_, err := uc.Create(context.Background(), order.CreateOrderInput{
		CompanyID:     companyID,
		WarehouseID:   warehouseID,
		PromotionCode: "NO-EXISTE",
		Items:         []order.CreateOrderItemInput{{ProductID: productA, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrPromotionInvalid)
}

func TestCreate_SinLineas(t *testing.T) {
	uc, _ := newOrderUseCase(t)

	_, err := uc.Create(context.Background(), order.CreateOrderInput{
		CompanyID:   companyID,
		WarehouseID: warehouseID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_NoDescuentaInventario(t *testing.T) {
	uc, s := newOrderUseCase(t)
	seed(s, productA, 10)
	seed(s, productB, 10)

	createTestOrder(t, uc, "")

	assert.Equal(t, int64(10), s.stocks[key(productA, warehouseID)].Quantity,
		"crear la orden no debe afectar inventario")
	assert.Empty(t, s.adjustments)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Fulfill
// ──────────────────────────────────────────────────────────────────────────────

func TestFulfill_DescuentaTodasLasLineas(t *testing.T) {
	uc, s := newOrderUseCase(t)
	seed(s, productA, 10)
	seed(s, productB, 10)
	o := createTestOrder(t, uc, "DIEZ")

	fulfilled, err := uc.Fulfill(context.Background(), companyID, o.ID, actorID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusFulfilled, fulfilled.Status)

	// Inventario descontado línea a línea.
	assert.Equal(t, int64(8), s.stocks[key(productA, warehouseID)].Quantity)
	assert.Equal(t, int64(5), s.stocks[key(productB, warehouseID)].Quantity)

	// Un ajuste por línea, con motivo y referencia a la orden.
	require.Len(t, s.adjustments, 2)
	for _, adj := range s.adjustments {
		assert.Equal(t, entity.ReasonOrderFulfillment, adj.Reason)
		assert.Equal(t, "order", adj.ReferenceType)
		assert.Equal(t, o.ID, adj.ReferenceID)
		assert.Equal(t, actorID, adj.ActorID)
		assert.Negative(t, adj.Delta)
	}
	// Las líneas se procesan por line_no ascendente.
	assert.Equal(t, productA, s.adjustments[0].ProductID)
	assert.Equal(t, productB, s.adjustments[1].ProductID)

	// Gasto del cliente y uso de la promoción, en la misma transacción.
	assert.True(t, o.TotalAmount.Equal(s.customers[customerID].TotalSpending))
	assert.Equal(t, 1, s.promotions["promo-1"].UsedCount)
}

func TestFulfill_StockInsuficienteEnUnaLineaNoCambiaNada(t *testing.T) {
	uc, s := newOrderUseCase(t)
	seed(s, productA, 10)
	seed(s, productB, 3) // la orden pide 5
	o := createTestOrder(t, uc, "")

	_, err := uc.Fulfill(context.Background(), companyID, o.ID, actorID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Todo-o-nada: la línea 1 que sí tenía stock tampoco debe haberse descontado.
	assert.Equal(t, int64(10), s.stocks[key(productA, warehouseID)].Quantity,
		"el rollback debe deshacer los descuentos de las líneas anteriores")
	assert.Equal(t, int64(3), s.stocks[key(productB, warehouseID)].Quantity)
	assert.Empty(t, s.adjustments, "un cumplimiento fallido no debe dejar ajustes")
	assert.Equal(t, entity.OrderStatusPending, s.orders[o.ID].Status,
		"la orden debe seguir PENDING para poder reintentar")
}

func TestFulfill_ReintentoDevuelveConflicto(t *testing.T) {
	uc, s := newOrderUseCase(t)
	seed(s, productA, 10)
	seed(s, productB, 10)
	o := createTestOrder(t, uc, "")

	_, err := uc.Fulfill(context.Background(), companyID, o.ID, actorID)
	require.NoError(t, err)

	_, err = uc.Fulfill(context.Background(), companyID, o.ID, actorID)
	assert.ErrorIs(t, err, domain.ErrConflict, "cumplir dos veces debe fallar")

	// El reintento no descuenta de nuevo.
	assert.Equal(t, int64(8), s.stocks[key(productA, warehouseID)].Quantity)
	assert.Len(t, s.adjustments, 2)
	assert.Equal(t, 1, s.promotions["promo-1"].UsedCount)
}

func TestFulfill_OrdenDeOtraEmpresa(t *testing.T) {
	uc, s := newOrderUseCase(t)
	seed(s, productA, 10)
	seed(s, productB, 10)
	o := createTestOrder(t, uc, "")

	_, err := uc.Fulfill(context.Background(), "otra-empresa", o.ID, actorID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, entity.OrderStatusPending, s.orders[o.ID].Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Cancel
// ──────────────────────────────────────────────────────────────────────────────

func TestCancel_OrdenPendiente(t *testing.T) {
	uc, s := newOrderUseCase(t)
	seed(s, productA, 10)
	seed(s, productB, 10)
	o := createTestOrder(t, uc, "")

	cancelled, err := uc.Cancel(context.Background(), companyID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, cancelled.Status)
	assert.Empty(t, s.adjustments, "cancelar no afecta inventario")
}

func TestCancel_OrdenCumplidaDevuelveConflicto(t *testing.T) {
	uc, s := newOrderUseCase(t)
	seed(s, productA, 10)
	seed(s, productB, 10)
	o := createTestOrder(t, uc, "")

	_, err := uc.Fulfill(context.Background(), companyID, o.ID, actorID)
	require.NoError(t, err)

	_, err = uc.Cancel(context.Background(), companyID, o.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, entity.OrderStatusFulfilled, s.orders[o.ID].Status)
}
