package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"creatorMarket/domain"
)

type BehaviorEventRepository struct {
	DB *gorm.DB
}

func NewBehaviorEventRepository(db *gorm.DB) *BehaviorEventRepository {
	return &BehaviorEventRepository{DB: db}
}

func (r *BehaviorEventRepository) Append(ctx context.Context, event domain.BehaviorEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("failed to save behavior event: %w", err)
	}

	return nil
}

// Query returns the newest events of a user inside the retention window,
// most recent first. An empty types list means all event types.
func (r *BehaviorEventRepository) Query(
	ctx context.Context,
	userID uint,
	windowDays, limit int,
	types ...string,
) ([]domain.BehaviorEvent, error) {

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -windowDays)

	q := r.DB.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, cutoff).
		Order("created_at DESC").
		Limit(limit)

	if len(types) > 0 {
		q = q.Where("event_type IN ?", types)
	}

	var events []domain.BehaviorEvent
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to query behavior events: %w", err)
	}

	return events, nil
}

// InteractedTargetIDs returns the distinct targets of the user's
// irreversible actions (purchase, applied) inside the retention window.
func (r *BehaviorEventRepository) InteractedTargetIDs(ctx context.Context, userID uint) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var targetIDs []string
	err := r.DB.WithContext(ctx).
		Model(&domain.BehaviorEvent{}).
		Where("user_id = ? AND event_type IN ? AND target_id <> ''",
			userID, []string{domain.EventPurchase, domain.EventApplied}).
		Distinct("target_id").
		Pluck("target_id", &targetIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query interacted targets: %w", err)
	}

	return targetIDs, nil
}

// ActiveUserIDs returns the distinct users with at least one event in the
// last sinceDays days.
func (r *BehaviorEventRepository) ActiveUserIDs(ctx context.Context, sinceDays, limit int) ([]uint, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -sinceDays)

	var userIDs []uint
	err := r.DB.WithContext(ctx).
		Model(&domain.BehaviorEvent{}).
		Where("created_at >= ?", cutoff).
		Distinct("user_id").
		Limit(limit).
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query active users: %w", err)
	}

	return userIDs, nil
}

// DeleteOlderThan removes events that fell out of the retention window.
func (r *BehaviorEventRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	res := r.DB.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&domain.BehaviorEvent{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete expired events: %w", res.Error)
	}

	return res.RowsAffected, nil
}
