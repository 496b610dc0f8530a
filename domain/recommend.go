package domain

import (
	"time"
)

// Current schema version of persisted RecommendationSet records. Bump when
// the cached layout changes so older entries can be detected and discarded.
const RecommendationSetVersion = 1

// UserProfile is fully derived from behavior events plus explicit account
// attributes. It is never a source of truth — safe to discard and rebuild.
type UserProfile struct {
	UserID uint `json:"user_id"`

	PreferredCategories []string           `json:"preferred_categories"`
	Interests           map[string]float64 `json:"interests"`

	AgeEstimate    int     `json:"age_estimate"`
	GenderEstimate string  `json:"gender_estimate"`
	BudgetEstimate float64 `json:"budget_estimate"`

	Skills []string `json:"skills"`

	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`

	ViewedIDs     map[string]bool `json:"viewed_ids"`
	ClickedIDs    map[string]bool `json:"clicked_ids"`
	InteractedIDs map[string]bool `json:"interacted_ids"`

	Confidence  float64   `json:"confidence"`
	LastUpdated time.Time `json:"last_updated"`
}

// HasSeen reports whether the user has already viewed the target.
func (p *UserProfile) HasSeen(targetID string) bool {
	return p.ViewedIDs[targetID] || p.ClickedIDs[targetID]
}

// HasLocation reports whether any location signal is known.
func (p *UserProfile) HasLocation() bool {
	return p.City != "" || p.Region != "" || p.Country != ""
}

// ScoredCandidate is the ephemeral output of one scorer invocation.
// Reproducible given identical profile, candidate and catalog snapshot.
type ScoredCandidate struct {
	Candidate     Candidate          `json:"candidate"`
	FeatureScores map[string]float64 `json:"feature_scores"`
	TotalScore    float64            `json:"total_score"`
	Explanation   string             `json:"explanation"`
	IsSurprise    bool               `json:"is_surprise,omitempty"`
}

// RecommendationSet is the cached artifact returned to callers.
// Flat, versioned record so older cached entries survive schema evolution.
type RecommendationSet struct {
	UserID      uint                         `json:"user_id"`
	PerType     map[string][]ScoredCandidate `json:"per_type"`
	MixedList   []ScoredCandidate            `json:"mixed_list"`
	GeneratedAt time.Time                    `json:"generated_at"`
	Version     int                          `json:"version"`
}

// RecommendationQuery are the caller-facing options of GetRecommendations.
type RecommendationQuery struct {
	Types             []string `json:"types"`
	Limit             int      `json:"limit"`
	ExcludeInteracted bool     `json:"exclude_interacted"`
	ForceRefresh      bool     `json:"force_refresh"`
}
