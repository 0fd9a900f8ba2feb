package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

// PromotionUseCase casos de uso CRUD para promociones. El contador de usos lo
// incrementa el cumplimiento de órdenes, no este CRUD.
type PromotionUseCase struct {
	repo repository.PromotionRepository
}

// NewPromotionUseCase construye el caso de uso.
func NewPromotionUseCase(repo repository.PromotionRepository) *PromotionUseCase {
	return &PromotionUseCase{repo: repo}
}

// Create crea una promoción. El código es único por empresa.
func (uc *PromotionUseCase) Create(companyID string, in dto.CreatePromotionRequest) (*dto.PromotionResponse, error) {
	existing, _ := uc.repo.GetByCompanyAndCode(companyID, in.Code)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	switch in.DiscountType {
	case entity.DiscountTypePercentage, entity.DiscountTypeFixed:
	default:
		return nil, domain.ErrInvalidInput
	}
	if !in.EndDate.After(in.StartDate) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	promotion := &entity.Promotion{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		Code:          in.Code,
		Name:          in.Name,
		Description:   in.Description,
		DiscountType:  in.DiscountType,
		DiscountValue: in.DiscountValue,
		MinPurchase:   in.MinPurchase,
		MaxDiscount:   in.MaxDiscount,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		IsActive:      true,
		UsageLimit:    in.UsageLimit,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(promotion); err != nil {
		return nil, err
	}
	return toPromotionResponse(promotion), nil
}

// GetByID obtiene una promoción por ID.
func (uc *PromotionUseCase) GetByID(id string) (*dto.PromotionResponse, error) {
	promotion, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, nil
	}
	return toPromotionResponse(promotion), nil
}

// Update actualiza una promoción. El código y el tipo de descuento no cambian.
func (uc *PromotionUseCase) Update(id string, in dto.UpdatePromotionRequest) (*dto.PromotionResponse, error) {
	promotion, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, nil
	}
	if in.Name != nil {
		promotion.Name = *in.Name
	}
	if in.Description != nil {
		promotion.Description = *in.Description
	}
	if in.DiscountValue != nil {
		promotion.DiscountValue = *in.DiscountValue
	}
	if in.MinPurchase != nil {
		promotion.MinPurchase = *in.MinPurchase
	}
	if in.MaxDiscount != nil {
		promotion.MaxDiscount = in.MaxDiscount
	}
	if in.StartDate != nil {
		promotion.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		promotion.EndDate = *in.EndDate
	}
	if !promotion.EndDate.After(promotion.StartDate) {
		return nil, domain.ErrInvalidInput
	}
	if in.IsActive != nil {
		promotion.IsActive = *in.IsActive
	}
	if in.UsageLimit != nil {
		promotion.UsageLimit = in.UsageLimit
	}
	promotion.UpdatedAt = time.Now()
	if err := uc.repo.Update(promotion); err != nil {
		return nil, err
	}
	return toPromotionResponse(promotion), nil
}

// List lista promociones por empresa con paginación.
func (uc *PromotionUseCase) List(companyID string, limit, offset int) (*dto.PromotionListResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PromotionResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPromotionResponse(p))
	}
	return &dto.PromotionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toPromotionResponse(p *entity.Promotion) *dto.PromotionResponse {
	if p == nil {
		return nil
	}
	return &dto.PromotionResponse{
		ID:            p.ID,
		CompanyID:     p.CompanyID,
		Code:          p.Code,
		Name:          p.Name,
		Description:   p.Description,
		DiscountType:  p.DiscountType,
		DiscountValue: p.DiscountValue,
		MinPurchase:   p.MinPurchase,
		MaxDiscount:   p.MaxDiscount,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		IsActive:      p.IsActive,
		UsageLimit:    p.UsageLimit,
		UsedCount:     p.UsedCount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
