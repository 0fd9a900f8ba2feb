package repository

import "github.com/jhoicas/Comercio-api/internal/domain/entity"

// PromotionRepository define el puerto de persistencia para promociones.
type PromotionRepository interface {
	Create(promotion *entity.Promotion) error
	GetByID(id string) (*entity.Promotion, error)
	GetByCompanyAndCode(companyID, code string) (*entity.Promotion, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Promotion, error)
	Update(promotion *entity.Promotion) error
	// IncrementUsage suma 1 al contador de usos (al consumirse en una orden).
	IncrementUsage(id string) error
}
