package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente de la empresa. TotalSpending acumula el total
// de órdenes cumplidas (se actualiza al cumplir la orden, misma transacción).
type Customer struct {
	ID            string
	CompanyID     string
	Name          string
	Email         string
	Phone         string
	Address       string
	TotalSpending decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
