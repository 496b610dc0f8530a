package recommend

import (
	"time"

	"creatorMarket/domain"
)

// Feature score names. Every feature produces a value in [0,1].
const (
	FeatureCategoryMatch = "category_match"
	FeatureGeoMatch      = "geo_match"
	FeaturePerformance   = "performance"
	FeatureAudienceMatch = "audience_match"
	FeatureBehaviorMatch = "behavior_match"
	FeatureNovelty       = "novelty"
)

type Config struct {
	// behavior window & profile derivation
	WindowDays           int
	EventLimit           int
	TopKCategories       int
	MinEventsForProfile  int
	ConfidenceSaturation int
	ProfileTTL           time.Duration

	// candidate pools
	PoolSize    int
	MaxPoolSize int

	// serving
	DefaultLimit int
	MaxLimit     int
	CacheTTL     time.Duration

	// scoring
	Weights    map[string]map[string]float64 // entity type -> feature -> weight
	Thresholds map[string]float64            // entity type -> relevance threshold

	VerifiedBonus    float64
	PremiumBonus     float64
	NoveltySeenScore float64

	// diversification / exploration
	ExplorationPicks int
	ExplorationFloor float64

	// explanations
	NotableThreshold float64

	// real-time updates
	BoostFactor float64

	// background refresh
	RefreshInterval      time.Duration
	SchedulerConcurrency int
	ActiveWindowDays     int

	// sparse-data defaults
	DefaultBudget float64
}

const (
	defaultWindowDays           = 30
	defaultEventLimit           = 500
	defaultTopKCategories       = 5
	defaultMinEventsForProfile  = 5
	defaultConfidenceSaturation = 50
	defaultPoolSize             = 100
	defaultMaxPoolSize          = 200
	defaultLimit                = 10
	defaultMaxLimit             = 50
	defaultVerifiedBonus        = 1.10
	defaultPremiumBonus         = 1.05
	defaultNoveltySeenScore     = 0.15
	defaultExplorationPicks     = 2
	defaultExplorationFloor     = 0.30
	defaultNotableThreshold     = 0.70
	defaultBoostFactor          = 1.2
	defaultSchedulerConcurrency = 4
	defaultActiveWindowDays     = 1
	defaultBudget               = 500.0

	defaultCacheTTL        = 60 * time.Minute
	defaultProfileTTL      = 30 * time.Minute
	defaultRefreshInterval = 30 * time.Minute
)

func DefaultConfig() Config {
	return Config{
		WindowDays:           defaultWindowDays,
		EventLimit:           defaultEventLimit,
		TopKCategories:       defaultTopKCategories,
		MinEventsForProfile:  defaultMinEventsForProfile,
		ConfidenceSaturation: defaultConfidenceSaturation,
		ProfileTTL:           defaultProfileTTL,

		PoolSize:    defaultPoolSize,
		MaxPoolSize: defaultMaxPoolSize,

		DefaultLimit: defaultLimit,
		MaxLimit:     defaultMaxLimit,
		CacheTTL:     defaultCacheTTL,

		Weights:    defaultWeights(),
		Thresholds: defaultThresholds(),

		VerifiedBonus:    defaultVerifiedBonus,
		PremiumBonus:     defaultPremiumBonus,
		NoveltySeenScore: defaultNoveltySeenScore,

		ExplorationPicks: defaultExplorationPicks,
		ExplorationFloor: defaultExplorationFloor,

		NotableThreshold: defaultNotableThreshold,

		BoostFactor: defaultBoostFactor,

		RefreshInterval:      defaultRefreshInterval,
		SchedulerConcurrency: defaultSchedulerConcurrency,
		ActiveWindowDays:     defaultActiveWindowDays,

		DefaultBudget: defaultBudget,
	}
}

// Per-type weight vectors. Each vector sums to 1.0 so totalScore stays
// inside [0,1] before bonuses.
func defaultWeights() map[string]map[string]float64 {
	return map[string]map[string]float64{
		domain.EntityCreator: {
			FeatureCategoryMatch: 0.30,
			FeatureGeoMatch:      0.15,
			FeaturePerformance:   0.20,
			FeatureAudienceMatch: 0.15,
			FeatureBehaviorMatch: 0.10,
			FeatureNovelty:       0.10,
		},
		domain.EntityOpportunity: {
			FeatureCategoryMatch: 0.30,
			FeatureGeoMatch:      0.20,
			FeaturePerformance:   0.15,
			FeatureAudienceMatch: 0.05,
			FeatureBehaviorMatch: 0.15,
			FeatureNovelty:       0.15,
		},
		domain.EntityPartner: {
			FeatureCategoryMatch: 0.30,
			FeatureGeoMatch:      0.20,
			FeaturePerformance:   0.20,
			FeatureAudienceMatch: 0.10,
			FeatureBehaviorMatch: 0.10,
			FeatureNovelty:       0.10,
		},
		domain.EntityContent: {
			FeatureCategoryMatch: 0.35,
			FeatureGeoMatch:      0.05,
			FeaturePerformance:   0.20,
			FeatureAudienceMatch: 0.10,
			FeatureBehaviorMatch: 0.15,
			FeatureNovelty:       0.15,
		},
	}
}

// Candidates scoring below the per-type threshold are dropped before ranking.
func defaultThresholds() map[string]float64 {
	return map[string]float64{
		domain.EntityCreator:     0.35,
		domain.EntityOpportunity: 0.35,
		domain.EntityPartner:     0.35,
		domain.EntityContent:     0.30,
	}
}

// weightsFor returns the weight vector for an entity type, falling back to
// the creator vector for unknown types.
func (cfg Config) weightsFor(entityType string) map[string]float64 {
	if w, ok := cfg.Weights[entityType]; ok {
		return w
	}
	return cfg.Weights[domain.EntityCreator]
}

func (cfg Config) thresholdFor(entityType string) float64 {
	if t, ok := cfg.Thresholds[entityType]; ok {
		return t
	}
	return 0.35
}
