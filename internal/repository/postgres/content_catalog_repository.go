package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"creatorMarket/domain"
)

type ContentCatalogRepository struct {
	DB *gorm.DB
}

func NewContentCatalogRepository(db *gorm.DB) *ContentCatalogRepository {
	return &ContentCatalogRepository{DB: db}
}

func (r *ContentCatalogRepository) EntityType() string {
	return domain.EntityContent
}

func (r *ContentCatalogRepository) Fetch(ctx context.Context, _ domain.CatalogFilter, limit int) ([]domain.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var items []domain.ContentItem
	err := r.DB.WithContext(ctx).
		Order("popularity DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content items: %w", err)
	}

	candidates := make([]domain.Candidate, 0, len(items))
	for _, item := range items {
		candidates = append(candidates, item.ToCandidate())
	}

	return candidates, nil
}

func (r *ContentCatalogRepository) Get(ctx context.Context, id string) (domain.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return domain.Candidate{}, fmt.Errorf("context error: %w", err)
	}

	var item domain.ContentItem
	err := r.DB.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Candidate{}, fmt.Errorf("content item %s not found", id)
		}
		return domain.Candidate{}, fmt.Errorf("failed to load content item: %w", err)
	}

	return item.ToCandidate(), nil
}
