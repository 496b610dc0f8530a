package recommend

import (
	"context"

	"creatorMarket/domain"
	"creatorMarket/pkg/logger"
)

// Updater re-weights cached recommendation sets in place when a
// high-signal event arrives. It sits on the interactive hot path: all
// failures are swallowed after a log line, and a missing cached set is a
// no-op — the next request or scheduled refresh recomputes in full.
type Updater struct {
	cache     RecommendationCache
	providers *providerSet
	cfg       Config
}

func NewUpdater(cache RecommendationCache, providers *providerSet, cfg Config) *Updater {
	return &Updater{cache: cache, providers: providers, cfg: cfg}
}

// Apply boosts every cached candidate sharing a category with the event's
// target by cfg.BoostFactor (clipped to 1.0) and re-sorts the affected
// lists. The cache write preserves the remaining TTL: boosts never extend
// a set's lifetime.
func (u *Updater) Apply(ctx context.Context, event domain.BehaviorEvent) {
	if !event.IsHighSignal() || event.TargetID == "" || event.TargetType == "" {
		return
	}

	target, ok := u.providers.lookup(ctx, event.TargetType, event.TargetID)
	if !ok || len(target.Categories) == 0 {
		return
	}

	boostCats := make(map[string]bool, len(target.Categories))
	for _, cat := range target.Categories {
		boostCats[normalizeCategory(cat)] = true
	}

	err := u.cache.UpdateUser(ctx, event.UserID, func(set *domain.RecommendationSet) bool {
		changed := false

		for entityType, list := range set.PerType {
			if boostList(list, boostCats, u.cfg.BoostFactor) {
				sortScored(list)
				set.PerType[entityType] = list
				changed = true
			}
		}

		if boostList(set.MixedList, boostCats, u.cfg.BoostFactor) {
			sortScored(set.MixedList)
			changed = true
		}

		return changed
	})
	if err != nil {
		logger.Warn("realtime_boost_failed",
			"user_id", event.UserID,
			"target_id", event.TargetID,
			"error", err,
		)
		return
	}

	RealtimeBoostsTotal.Inc()
	logger.Debug("realtime_boost_applied",
		"user_id", event.UserID,
		"target_type", event.TargetType,
		"target_id", event.TargetID,
	)
}

// boostList multiplies matching scores in place; reports whether anything
// changed.
func boostList(list []domain.ScoredCandidate, boostCats map[string]bool, factor float64) bool {
	changed := false
	for i := range list {
		if !sharesCategory(list[i].Candidate.Categories, boostCats) {
			continue
		}
		boosted := clip01(list[i].TotalScore * factor)
		if boosted != list[i].TotalScore {
			list[i].TotalScore = boosted
			changed = true
		}
	}
	return changed
}

func sharesCategory(categories []string, set map[string]bool) bool {
	for _, cat := range categories {
		if set[normalizeCategory(cat)] {
			return true
		}
	}
	return false
}
