package entity

import "time"

// Motivos de ajuste de inventario.
const (
	ReasonPurchaseReceipt  = "purchase_receipt"  // recepción de compra
	ReasonOrderFulfillment = "order_fulfillment" // salida por orden de venta
	ReasonSalesReturn      = "sales_return"      // devolución de venta
	ReasonManualAdjustment = "manual_adjustment" // ajuste manual
	ReasonStockCount       = "stock_count"       // diferencia de conteo físico
	ReasonTransferIn       = "transfer_in"       // entrada por traslado
	ReasonTransferOut      = "transfer_out"      // salida por traslado
	ReasonDamage           = "damage"            // baja por daño
)

// ValidReason indica si el motivo es uno de los catalogados.
func ValidReason(reason string) bool {
	switch reason {
	case ReasonPurchaseReceipt, ReasonOrderFulfillment, ReasonSalesReturn,
		ReasonManualAdjustment, ReasonStockCount, ReasonTransferIn,
		ReasonTransferOut, ReasonDamage:
		return true
	}
	return false
}

// StockAdjustment es un registro inmutable del historial de inventario:
// un cambio de cantidad con su motivo, actor y cantidades antes/después.
// Append-only: nunca se actualiza ni se borra.
type StockAdjustment struct {
	ID             string
	ProductID      string
	WarehouseID    string
	Delta          int64 // positivo entrada, negativo salida
	Reason         string
	ActorID        string
	BeforeQuantity int64
	AfterQuantity  int64
	ReferenceType  string // documento origen: "order", "stock_count", etc.
	ReferenceID    string
	CreatedAt      time.Time
}
