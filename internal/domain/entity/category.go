package entity

import "time"

// Category agrupa productos del catálogo por empresa.
type Category struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
