package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"creatorMarket/domain"
)

type CreatorCatalogRepository struct {
	DB *gorm.DB
}

func NewCreatorCatalogRepository(db *gorm.DB) *CreatorCatalogRepository {
	return &CreatorCatalogRepository{DB: db}
}

func (r *CreatorCatalogRepository) EntityType() string {
	return domain.EntityCreator
}

func (r *CreatorCatalogRepository) Fetch(ctx context.Context, filter domain.CatalogFilter, limit int) ([]domain.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	q := r.DB.WithContext(ctx).
		Order("popularity DESC").
		Limit(limit)

	if filter.Country != "" {
		q = q.Where("country = ?", filter.Country)
	}
	if filter.MaxPrice > 0 {
		q = q.Where("rate_card <= ?", filter.MaxPrice)
	}

	var creators []domain.Creator
	if err := q.Find(&creators).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch creators: %w", err)
	}

	candidates := make([]domain.Candidate, 0, len(creators))
	for _, c := range creators {
		candidates = append(candidates, c.ToCandidate())
	}

	return candidates, nil
}

func (r *CreatorCatalogRepository) Get(ctx context.Context, id string) (domain.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return domain.Candidate{}, fmt.Errorf("context error: %w", err)
	}

	var creator domain.Creator
	err := r.DB.WithContext(ctx).First(&creator, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Candidate{}, fmt.Errorf("creator %s not found", id)
		}
		return domain.Candidate{}, fmt.Errorf("failed to load creator: %w", err)
	}

	return creator.ToCandidate(), nil
}
