package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo (multi-bodega).
// Las existencias se manejan por bodega en StockEntry; MinStock es el umbral
// para la alerta de stock bajo.
type Product struct {
	ID          string
	CompanyID   string
	CategoryID  string
	SKU         string // código único por empresa
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta
	Cost        decimal.Decimal // costo unitario para valorización
	TaxRate     decimal.Decimal // IVA: 0, 5 o 19 (%)
	MinStock    int64
	UnitMeasure string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
