package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de descuento de una promoción.
const (
	DiscountTypePercentage = "PERCENTAGE" // DiscountValue es un porcentaje (0-100)
	DiscountTypeFixed      = "FIXED"      // DiscountValue es un monto fijo
)

// Promotion representa una promoción por código aplicable a órdenes de venta.
type Promotion struct {
	ID            string
	CompanyID     string
	Code          string // único por empresa
	Name          string
	Description   string
	DiscountType  string
	DiscountValue decimal.Decimal
	MinPurchase   decimal.Decimal  // monto mínimo de compra para aplicar
	MaxDiscount   *decimal.Decimal // tope del descuento (nil = sin tope)
	StartDate     time.Time
	EndDate       time.Time
	IsActive      bool
	UsageLimit    *int // nil = ilimitado
	UsedCount     int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsValid indica si la promoción puede aplicarse en el instante dado:
// activa, dentro de la ventana de fechas y con cupo de uso disponible.
func (p *Promotion) IsValid(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if now.Before(p.StartDate) || now.After(p.EndDate) {
		return false
	}
	if p.UsageLimit != nil && p.UsedCount >= *p.UsageLimit {
		return false
	}
	return true
}

// CalculateDiscount calcula el descuento sobre un monto. Devuelve cero si el
// monto no alcanza MinPurchase; aplica MaxDiscount como tope si está definido.
func (p *Promotion) CalculateDiscount(amount decimal.Decimal) decimal.Decimal {
	if amount.LessThan(p.MinPurchase) {
		return decimal.Zero
	}
	var discount decimal.Decimal
	switch p.DiscountType {
	case DiscountTypePercentage:
		discount = amount.Mul(p.DiscountValue).Div(decimal.NewFromInt(100))
	case DiscountTypeFixed:
		discount = p.DiscountValue
	default:
		return decimal.Zero
	}
	if p.MaxDiscount != nil && discount.GreaterThan(*p.MaxDiscount) {
		discount = *p.MaxDiscount
	}
	if discount.GreaterThan(amount) {
		discount = amount
	}
	return discount
}
