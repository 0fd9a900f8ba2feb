package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea de una orden nueva. UnitPrice opcional: si no se
// envía se usa el precio actual del producto.
type OrderItemRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  int64            `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	WarehouseID   string             `json:"warehouse_id"`
	CustomerID    string             `json:"customer_id,omitempty"`
	PromotionCode string             `json:"promotion_code,omitempty"`
	Notes         string             `json:"notes,omitempty"`
	Items         []OrderItemRequest `json:"items"`
}

// OrderItemResponse línea de la orden.
type OrderItemResponse struct {
	ID          string          `json:"id"`
	LineNo      int             `json:"line_no"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
}

// OrderResponse representación completa de una orden.
type OrderResponse struct {
	ID             string              `json:"id"`
	CompanyID      string              `json:"company_id"`
	OrderNumber    string              `json:"order_number"`
	WarehouseID    string              `json:"warehouse_id"`
	CustomerID     string              `json:"customer_id,omitempty"`
	Status         string              `json:"status"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	TaxAmount      decimal.Decimal     `json:"tax_amount"`
	TotalAmount    decimal.Decimal     `json:"total_amount"`
	PromotionCode  string              `json:"promotion_code,omitempty"`
	Notes          string              `json:"notes,omitempty"`
	CreatedBy      string              `json:"created_by,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	Items          []OrderItemResponse `json:"items"`
}

// OrderListResponse listado paginado de órdenes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
