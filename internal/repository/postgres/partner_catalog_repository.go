package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"creatorMarket/domain"
)

type PartnerCatalogRepository struct {
	DB *gorm.DB
}

func NewPartnerCatalogRepository(db *gorm.DB) *PartnerCatalogRepository {
	return &PartnerCatalogRepository{DB: db}
}

func (r *PartnerCatalogRepository) EntityType() string {
	return domain.EntityPartner
}

func (r *PartnerCatalogRepository) Fetch(ctx context.Context, filter domain.CatalogFilter, limit int) ([]domain.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	q := r.DB.WithContext(ctx).
		Order("popularity DESC").
		Limit(limit)

	if filter.Country != "" {
		q = q.Where("country = ?", filter.Country)
	}

	var partners []domain.Partner
	if err := q.Find(&partners).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch partners: %w", err)
	}

	candidates := make([]domain.Candidate, 0, len(partners))
	for _, p := range partners {
		candidates = append(candidates, p.ToCandidate())
	}

	return candidates, nil
}

func (r *PartnerCatalogRepository) Get(ctx context.Context, id string) (domain.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return domain.Candidate{}, fmt.Errorf("context error: %w", err)
	}

	var partner domain.Partner
	err := r.DB.WithContext(ctx).First(&partner, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Candidate{}, fmt.Errorf("partner %s not found", id)
		}
		return domain.Candidate{}, fmt.Errorf("failed to load partner: %w", err)
	}

	return partner.ToCandidate(), nil
}
