package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func promocionBase() *Promotion {
	return &Promotion{
		ID:            "promo-1",
		CompanyID:     "company-1",
		Code:          "VERANO10",
		DiscountType:  DiscountTypePercentage,
		DiscountValue: dec("10"),
		MinPurchase:   dec("0"),
		StartDate:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC),
		IsActive:      true,
	}
}

func TestPromotion_IsValid(t *testing.T) {
	dentro := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("activa y dentro de la ventana", func(t *testing.T) {
		p := promocionBase()
		assert.True(t, p.IsValid(dentro))
	})

	t.Run("inactiva", func(t *testing.T) {
		p := promocionBase()
		p.IsActive = false
		assert.False(t, p.IsValid(dentro))
	})

	t.Run("antes de la fecha de inicio", func(t *testing.T) {
		p := promocionBase()
		assert.False(t, p.IsValid(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("después de la fecha de fin", func(t *testing.T) {
		p := promocionBase()
		assert.False(t, p.IsValid(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("límite de usos agotado", func(t *testing.T) {
		p := promocionBase()
		limit := 5
		p.UsageLimit = &limit
		p.UsedCount = 5
		assert.False(t, p.IsValid(dentro))
	})

	t.Run("con cupo disponible", func(t *testing.T) {
		p := promocionBase()
		limit := 5
		p.UsageLimit = &limit
		p.UsedCount = 4
		assert.True(t, p.IsValid(dentro))
	})
}

func TestPromotion_CalculateDiscount(t *testing.T) {
	t.Run("porcentaje sobre el monto", func(t *testing.T) {
		p := promocionBase() // 10%
		got := p.CalculateDiscount(dec("200000"))
		assert.True(t, dec("20000").Equal(got), "10%% de 200000 debe ser 20000, fue %s", got)
	})

	t.Run("monto fijo", func(t *testing.T) {
		p := promocionBase()
		p.DiscountType = DiscountTypeFixed
		p.DiscountValue = dec("15000")
		got := p.CalculateDiscount(dec("200000"))
		assert.True(t, dec("15000").Equal(got))
	})

	t.Run("no alcanza la compra mínima", func(t *testing.T) {
		p := promocionBase()
		p.MinPurchase = dec("100000")
		got := p.CalculateDiscount(dec("99999"))
		assert.True(t, got.IsZero())
	})

	t.Run("tope máximo de descuento", func(t *testing.T) {
		p := promocionBase() // 10%
		max := dec("5000")
		p.MaxDiscount = &max
		got := p.CalculateDiscount(dec("200000"))
		assert.True(t, dec("5000").Equal(got), "el descuento debe quedar topado en 5000, fue %s", got)
	})

	t.Run("descuento fijo mayor al monto queda topado al monto", func(t *testing.T) {
		p := promocionBase()
		p.DiscountType = DiscountTypeFixed
		p.DiscountValue = dec("50000")
		got := p.CalculateDiscount(dec("30000"))
		assert.True(t, dec("30000").Equal(got))
	})

	t.Run("tipo de descuento desconocido devuelve cero", func(t *testing.T) {
		p := promocionBase()
		p.DiscountType = "BOGO"
		assert.True(t, p.CalculateDiscount(dec("200000")).IsZero())
	})
}
