package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Behavior event types tracked by the engine.
const (
	EventView       = "view"
	EventClick      = "click"
	EventSearch     = "search"
	EventScrollDeep = "scroll_deep"
	EventPurchase   = "purchase"
	EventApplied    = "applied"
	EventLike       = "like"
	EventShare      = "share"
)

// BehaviorEvent is an immutable, append-only behavior record.
// Retained in a rolling 30-day window; never mutated after creation.
type BehaviorEvent struct {
	ID         string            `gorm:"column:id;primaryKey" json:"id"`
	UserID     uint              `gorm:"column:user_id;not null;index" json:"user_id"`
	Type       string            `gorm:"column:event_type;not null" json:"type"`
	TargetID   string            `gorm:"column:target_id" json:"target_id"`
	TargetType string            `gorm:"column:target_type" json:"target_type"`
	Metadata   datatypes.JSONMap `gorm:"column:metadata;type:jsonb" json:"metadata"`
	SessionID  string            `gorm:"column:session_id" json:"session_id"`
	DeviceID   string            `gorm:"column:device_id" json:"device_id"`
	CreatedAt  time.Time         `gorm:"column:created_at;index" json:"created_at"`
}

func (BehaviorEvent) TableName() string {
	return "behavior_events"
}

// IsInteraction reports whether the event is an irreversible action
// (used by excludeInteracted filtering).
func (e BehaviorEvent) IsInteraction() bool {
	return e.Type == EventPurchase || e.Type == EventApplied
}

// IsHighSignal reports whether the event qualifies for a real-time
// boost of cached recommendations.
func (e BehaviorEvent) IsHighSignal() bool {
	switch e.Type {
	case EventClick, EventScrollDeep, EventPurchase, EventApplied:
		return true
	}
	return false
}
