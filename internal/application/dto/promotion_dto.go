package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePromotionRequest body para POST /api/promotions.
type CreatePromotionRequest struct {
	Code          string           `json:"code"`
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	DiscountType  string           `json:"discount_type"` // PERCENTAGE | FIXED
	DiscountValue decimal.Decimal  `json:"discount_value"`
	MinPurchase   decimal.Decimal  `json:"min_purchase,omitempty"`
	MaxDiscount   *decimal.Decimal `json:"max_discount,omitempty"`
	StartDate     time.Time        `json:"start_date"`
	EndDate       time.Time        `json:"end_date"`
	UsageLimit    *int             `json:"usage_limit,omitempty"`
}

// UpdatePromotionRequest body para PUT /api/promotions/{id}.
type UpdatePromotionRequest struct {
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	DiscountValue *decimal.Decimal `json:"discount_value,omitempty"`
	MinPurchase   *decimal.Decimal `json:"min_purchase,omitempty"`
	MaxDiscount   *decimal.Decimal `json:"max_discount,omitempty"`
	StartDate     *time.Time       `json:"start_date,omitempty"`
	EndDate       *time.Time       `json:"end_date,omitempty"`
	IsActive      *bool            `json:"is_active,omitempty"`
	UsageLimit    *int             `json:"usage_limit,omitempty"`
}

// PromotionResponse representación de una promoción.
type PromotionResponse struct {
	ID            string           `json:"id"`
	CompanyID     string           `json:"company_id"`
	Code          string           `json:"code"`
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	DiscountType  string           `json:"discount_type"`
	DiscountValue decimal.Decimal  `json:"discount_value"`
	MinPurchase   decimal.Decimal  `json:"min_purchase"`
	MaxDiscount   *decimal.Decimal `json:"max_discount,omitempty"`
	StartDate     time.Time        `json:"start_date"`
	EndDate       time.Time        `json:"end_date"`
	IsActive      bool             `json:"is_active"`
	UsageLimit    *int             `json:"usage_limit,omitempty"`
	UsedCount     int              `json:"used_count"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// PromotionListResponse listado paginado de promociones.
type PromotionListResponse struct {
	Items []PromotionResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
