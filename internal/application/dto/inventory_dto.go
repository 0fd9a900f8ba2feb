package dto

import "time"

// ApplyDeltaRequest body para POST /api/inventory/adjustments.
// Delta positivo es entrada, negativo salida.
type ApplyDeltaRequest struct {
	ProductID     string `json:"product_id"`
	WarehouseID   string `json:"warehouse_id"`
	Delta         int64  `json:"delta"`
	Reason        string `json:"reason"`
	ReferenceType string `json:"reference_type,omitempty"`
	ReferenceID   string `json:"reference_id,omitempty"`
}

// AdjustmentResponse representación de un ajuste del historial.
type AdjustmentResponse struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	WarehouseID    string    `json:"warehouse_id"`
	Delta          int64     `json:"delta"`
	Reason         string    `json:"reason"`
	ActorID        string    `json:"actor_id,omitempty"`
	BeforeQuantity int64     `json:"before_quantity"`
	AfterQuantity  int64     `json:"after_quantity"`
	ReferenceType  string    `json:"reference_type,omitempty"`
	ReferenceID    string    `json:"reference_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// AdjustmentListResponse listado paginado de ajustes.
type AdjustmentListResponse struct {
	Items []AdjustmentResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// QuantityResponse cantidad actual de un producto en una bodega.
type QuantityResponse struct {
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	Quantity    int64  `json:"quantity"`
}

// LowStockResponse fila del reporte de stock bajo.
type LowStockResponse struct {
	ProductID     string `json:"product_id"`
	SKU           string `json:"sku"`
	ProductName   string `json:"product_name"`
	WarehouseID   string `json:"warehouse_id"`
	WarehouseName string `json:"warehouse_name"`
	Quantity      int64  `json:"quantity"`
	MinStock      int64  `json:"min_stock"`
	Shortage      int64  `json:"shortage"`
}
