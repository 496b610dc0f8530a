package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"creatorMarket/domain"
)

type OpportunityCatalogRepository struct {
	DB *gorm.DB
}

func NewOpportunityCatalogRepository(db *gorm.DB) *OpportunityCatalogRepository {
	return &OpportunityCatalogRepository{DB: db}
}

func (r *OpportunityCatalogRepository) EntityType() string {
	return domain.EntityOpportunity
}

// Fetch skips expired opportunities; they remain in the table for
// reporting but are never recommended.
func (r *OpportunityCatalogRepository) Fetch(ctx context.Context, filter domain.CatalogFilter, limit int) ([]domain.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	q := r.DB.WithContext(ctx).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Order("popularity DESC").
		Limit(limit)

	if filter.Country != "" {
		q = q.Where("country = ?", filter.Country)
	}
	if filter.MaxPrice > 0 {
		q = q.Where("budget <= ?", filter.MaxPrice)
	}

	var opportunities []domain.Opportunity
	if err := q.Find(&opportunities).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch opportunities: %w", err)
	}

	candidates := make([]domain.Candidate, 0, len(opportunities))
	for _, o := range opportunities {
		candidates = append(candidates, o.ToCandidate())
	}

	return candidates, nil
}

func (r *OpportunityCatalogRepository) Get(ctx context.Context, id string) (domain.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return domain.Candidate{}, fmt.Errorf("context error: %w", err)
	}

	var opportunity domain.Opportunity
	err := r.DB.WithContext(ctx).First(&opportunity, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Candidate{}, fmt.Errorf("opportunity %s not found", id)
		}
		return domain.Candidate{}, fmt.Errorf("failed to load opportunity: %w", err)
	}

	return opportunity.ToCandidate(), nil
}
