package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

var _ repository.PromotionRepository = (*PromotionRepo)(nil)

// PromotionRepo implementación del puerto PromotionRepository sobre PostgreSQL
// (usable con pool o tx).
type PromotionRepo struct {
	q Querier
}

// NewPromotionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPromotionRepository(q Querier) *PromotionRepo {
	return &PromotionRepo{q: q}
}

const promotionColumns = `id, company_id, code, name, description, discount_type, discount_value, min_purchase, max_discount, start_date, end_date, is_active, usage_limit, used_count, created_at, updated_at`

// Create persiste una promoción. El código es único por empresa.
func (r *PromotionRepo) Create(promotion *entity.Promotion) error {
	query := `
		INSERT INTO promotions (` + promotionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		promotion.ID, promotion.CompanyID, promotion.Code, promotion.Name, promotion.Description,
		promotion.DiscountType, promotion.DiscountValue, promotion.MinPurchase, promotion.MaxDiscount,
		promotion.StartDate, promotion.EndDate, promotion.IsActive,
		promotion.UsageLimit, promotion.UsedCount, promotion.CreatedAt, promotion.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert promotion: %w", err)
	}
	return nil
}

// GetByID obtiene una promoción por ID.
func (r *PromotionRepo) GetByID(id string) (*entity.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions WHERE id = $1`
	p, err := scanPromotion(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get promotion: %w", err)
	}
	return p, nil
}

// GetByCompanyAndCode obtiene una promoción por empresa y código.
func (r *PromotionRepo) GetByCompanyAndCode(companyID, code string) (*entity.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions WHERE company_id = $1 AND code = $2`
	p, err := scanPromotion(r.q.QueryRow(context.Background(), query, companyID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get promotion by code: %w", err)
	}
	return p, nil
}

// ListByCompany lista promociones de una empresa con paginación.
func (r *PromotionRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Promotion, error) {
	query := `
		SELECT ` + promotionColumns + ` FROM promotions
		WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	defer rows.Close()

	var result []*entity.Promotion
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan promotion: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// Update actualiza una promoción. El código y el tipo de descuento no cambian.
func (r *PromotionRepo) Update(promotion *entity.Promotion) error {
	query := `
		UPDATE promotions SET name = $2, description = $3, discount_value = $4,
			min_purchase = $5, max_discount = $6, start_date = $7, end_date = $8,
			is_active = $9, usage_limit = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		promotion.ID, promotion.Name, promotion.Description, promotion.DiscountValue,
		promotion.MinPurchase, promotion.MaxDiscount, promotion.StartDate, promotion.EndDate,
		promotion.IsActive, promotion.UsageLimit, promotion.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update promotion: %w", err)
	}
	return nil
}

// IncrementUsage suma 1 al contador de usos (al consumirse en una orden).
func (r *PromotionRepo) IncrementUsage(id string) error {
	query := `UPDATE promotions SET used_count = used_count + 1, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("increment promotion usage: %w", err)
	}
	return nil
}

func scanPromotion(row pgxScanner) (*entity.Promotion, error) {
	var p entity.Promotion
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.Code, &p.Name, &p.Description,
		&p.DiscountType, &p.DiscountValue, &p.MinPurchase, &p.MaxDiscount,
		&p.StartDate, &p.EndDate, &p.IsActive,
		&p.UsageLimit, &p.UsedCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
