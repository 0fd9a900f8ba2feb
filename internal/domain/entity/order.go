package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de venta.
const (
	OrderStatusPending   = "PENDING"   // creada, sin afectar inventario
	OrderStatusFulfilled = "FULFILLED" // inventario descontado
	OrderStatusCancelled = "CANCELLED" // cancelada sin efecto sobre inventario
)

// Order representa una orden de venta. El inventario solo se afecta al pasar
// a FULFILLED, y la transición PENDING -> FULFILLED ocurre en la misma
// transacción que los descuentos de stock.
type Order struct {
	ID             string
	CompanyID      string
	OrderNumber    string
	WarehouseID    string // bodega que despacha la orden
	CustomerID     string // opcional
	Status         string
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	TotalAmount    decimal.Decimal
	PromotionCode  string // opcional
	Notes          string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Items          []OrderItem
}

// OrderItem es una línea de la orden. LineNo fija el orden de procesamiento
// para que el cumplimiento sea determinista entre reintentos.
type OrderItem struct {
	ID          string
	OrderID     string
	LineNo      int
	ProductID   string
	ProductName string // snapshot del nombre al crear la orden
	Quantity    int64
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
	TaxRate     decimal.Decimal
	TaxAmount   decimal.Decimal
}
