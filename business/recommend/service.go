package recommend

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"creatorMarket/domain"
	"creatorMarket/pkg/logger"
)

// ---- Repository interfaces ----

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type BehaviorRepository interface {
	Append(ctx context.Context, event domain.BehaviorEvent) error
	Query(ctx context.Context, userID uint, windowDays, limit int, types ...string) ([]domain.BehaviorEvent, error)
	InteractedTargetIDs(ctx context.Context, userID uint) ([]string, error)
	ActiveUserIDs(ctx context.Context, sinceDays, limit int) ([]uint, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ---- Service ----

// RecommendService is the exposed surface of the personalization engine:
// GetRecommendations, Invalidate and the scheduler's RefreshUser. It always
// returns a RecommendationSet — possibly a degraded popularity-based one —
// and never propagates internal failures to the caller.
type RecommendService struct {
	userRepo     UserRepository
	behaviorRepo BehaviorRepository
	cache        RecommendationCache
	profiles     *ProfileBuilder
	scorer       ScorerStrategy
	providers    *providerSet
	mixer        *mixer
	cfg          Config

	// concurrent recomputes for the same (user, query) coalesce here
	group singleflight.Group

	// generatedAt must be monotonically non-decreasing per user
	genMu         sync.Mutex
	lastGenerated map[uint]time.Time
	genSweptAt    time.Time
}

func NewRecommendService(
	userRepo UserRepository,
	behaviorRepo BehaviorRepository,
	cache RecommendationCache,
	catalogs []Catalog,
	scorer ScorerStrategy,
	cfg Config,
	rng *rand.Rand,
) *RecommendService {
	providers := newProviderSet(catalogs, cfg)

	return &RecommendService{
		userRepo:      userRepo,
		behaviorRepo:  behaviorRepo,
		cache:         cache,
		profiles:      NewProfileBuilder(userRepo, behaviorRepo, cache, cfg),
		scorer:        scorer,
		providers:     providers,
		mixer:         newMixer(cfg, rng),
		cfg:           cfg,
		lastGenerated: make(map[uint]time.Time),
	}
}

// Providers exposes the provider set for wiring the real-time updater.
func (s *RecommendService) Providers() *providerSet {
	return s.providers
}

// GetRecommendations serves from cache when possible and recomputes the
// full pipeline otherwise. The source of the returned set is reported via
// Source for metrics ("cache", "computed", "fallback").
func (s *RecommendService) GetRecommendations(
	ctx context.Context,
	userID uint,
	q domain.RecommendationQuery,
) (*domain.RecommendationSet, string, error) {

	if err := ctx.Err(); err != nil {
		return nil, "", fmt.Errorf("context error: %w", err)
	}

	q = s.normalizeQuery(q)
	key := CacheKey(userID, q)

	if !q.ForceRefresh {
		cached, err := s.cache.GetSet(ctx, key)
		switch {
		case err == nil && cached.Version == domain.RecommendationSetVersion:
			CacheLookupsTotal.WithLabelValues("hit").Inc()
			return cached, "cache", nil
		case err == nil:
			// older schema version: treat as a miss, recompute below
			CacheLookupsTotal.WithLabelValues("miss").Inc()
		case err == ErrCacheMiss:
			CacheLookupsTotal.WithLabelValues("miss").Inc()
		default:
			// cache unavailable: bypass and compute synchronously
			CacheLookupsTotal.WithLabelValues("error").Inc()
			logger.Warn("recommendation_cache_unavailable", "user_id", userID, "error", err)
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.compute(ctx, userID, q, key), nil
	})
	if err != nil {
		// singleflight only surfaces fn errors and compute never returns one
		return nil, "", err
	}

	set := v.(*domain.RecommendationSet)

	source := "computed"
	if len(set.MixedList) == 0 || allFallback(set) {
		source = "fallback"
	}
	return set, source, nil
}

// Invalidate drops every cached set of the user; the next call recomputes.
func (s *RecommendService) Invalidate(ctx context.Context, userID uint) error {
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		return fmt.Errorf("invalidate user %d: %w", userID, err)
	}
	return nil
}

// RefreshUser recomputes the default recommendation set for one user,
// rebuilding the profile first. Used by the background scheduler.
func (s *RecommendService) RefreshUser(ctx context.Context, userID uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	profile := s.profiles.Rebuild(ctx, userID)
	if err := s.cache.PutProfile(ctx, userID, profile, s.cfg.ProfileTTL); err != nil {
		logger.Warn("profile_cache_put_failed", "user_id", userID, "error", err)
	}

	q := s.normalizeQuery(domain.RecommendationQuery{ForceRefresh: true})
	key := CacheKey(userID, q)

	_, err, _ := s.group.Do(key, func() (any, error) {
		return s.compute(ctx, userID, q, key), nil
	})
	return err
}

// compute runs the full pipeline: profile -> candidate pools -> scoring ->
// diversified mix -> explanations -> cache write. It always returns a set.
func (s *RecommendService) compute(
	ctx context.Context,
	userID uint,
	q domain.RecommendationQuery,
	key string,
) *domain.RecommendationSet {

	start := time.Now()

	profile := s.profiles.Build(ctx, userID)

	// the cached profile can lag up to its TTL; merge in the live
	// interaction set so just-purchased targets are excluded immediately
	var exclude map[string]bool
	if q.ExcludeInteracted {
		exclude = make(map[string]bool, len(profile.InteractedIDs))
		for id := range profile.InteractedIDs {
			exclude[id] = true
		}
		if fresh, err := s.behaviorRepo.InteractedTargetIDs(ctx, userID); err == nil {
			for _, id := range fresh {
				exclude[id] = true
			}
		} else {
			logger.Warn("interacted_targets_unavailable", "user_id", userID, "error", err)
		}
	}

	pools := s.providers.fetchAll(ctx, q.Types, exclude)

	perType := make(map[string][]domain.ScoredCandidate, len(q.Types))
	total := 0
	for _, entityType := range q.Types {
		ranked := rankCandidates(s.scorer, s.cfg, profile, entityType, pools[entityType])
		perType[entityType] = ranked
		total += len(ranked)
	}

	// cold start / over-aggressive thresholds: fall back to a
	// popularity-based ranking so the caller always gets something
	if total == 0 {
		perType = popularityFallback(pools, q.Types)
	}

	mixed := s.mixer.Mix(perType, q.Limit)

	for entityType, list := range perType {
		for i := range list {
			list[i].Explanation = Explain(list[i], s.cfg.NotableThreshold)
		}
		perType[entityType] = list
	}
	for i := range mixed {
		mixed[i].Explanation = Explain(mixed[i], s.cfg.NotableThreshold)
	}

	set := &domain.RecommendationSet{
		UserID:      userID,
		PerType:     perType,
		MixedList:   mixed,
		GeneratedAt: s.nextGeneratedAt(userID),
		Version:     domain.RecommendationSetVersion,
	}

	if err := s.cache.PutSet(ctx, key, set, s.cfg.CacheTTL); err != nil {
		logger.Warn("recommendation_cache_put_failed", "user_id", userID, "error", err)
	}

	logger.Debug("recommendations_computed",
		"user_id", userID,
		"types", q.Types,
		"limit", q.Limit,
		"mixed", len(mixed),
		"confidence", profile.Confidence,
		"elapsed", time.Since(start).String(),
	)

	return set
}

func (s *RecommendService) normalizeQuery(q domain.RecommendationQuery) domain.RecommendationQuery {
	if len(q.Types) == 0 {
		q.Types = domain.AllEntityTypes()
	} else {
		valid := make([]string, 0, len(q.Types))
		known := make(map[string]bool)
		for _, t := range domain.AllEntityTypes() {
			known[t] = true
		}
		for _, t := range q.Types {
			if known[t] && !contains(valid, t) {
				valid = append(valid, t)
			}
		}
		if len(valid) == 0 {
			valid = domain.AllEntityTypes()
		}
		sort.Strings(valid)
		q.Types = valid
	}

	if q.Limit <= 0 {
		q.Limit = s.cfg.DefaultLimit
	}
	if q.Limit > s.cfg.MaxLimit {
		q.Limit = s.cfg.MaxLimit
	}

	return q
}

// nextGeneratedAt guards the per-user monotonicity of GeneratedAt against
// wall-clock regression. Entries older than the cache TTL are swept: every
// set they ordered has already expired, so they cannot affect a future read.
func (s *RecommendService) nextGeneratedAt(userID uint) time.Time {
	s.genMu.Lock()
	defer s.genMu.Unlock()

	now := time.Now().UTC()
	if last, ok := s.lastGenerated[userID]; ok && now.Before(last) {
		now = last
	}
	s.lastGenerated[userID] = now

	if now.Sub(s.genSweptAt) >= s.cfg.CacheTTL {
		cutoff := now.Add(-s.cfg.CacheTTL)
		for id, ts := range s.lastGenerated {
			if ts.Before(cutoff) {
				delete(s.lastGenerated, id)
			}
		}
		s.genSweptAt = now
	}
	return now
}

// popularityFallback scores pools by normalized catalog popularity — the
// degraded set served when personalization produced nothing.
func popularityFallback(pools map[string][]domain.Candidate, types []string) map[string][]domain.ScoredCandidate {
	perType := make(map[string][]domain.ScoredCandidate, len(types))

	for _, entityType := range types {
		pool := pools[entityType]

		maxPop := 0.0
		for _, c := range pool {
			if c.Popularity > maxPop {
				maxPop = c.Popularity
			}
		}
		if maxPop == 0 {
			maxPop = 1
		}

		ranked := make([]domain.ScoredCandidate, 0, len(pool))
		for _, c := range pool {
			ranked = append(ranked, domain.ScoredCandidate{
				Candidate: c,
				FeatureScores: map[string]float64{
					FeaturePerformance: clip01(c.Popularity / maxPop),
				},
				TotalScore: clip01(c.Popularity / maxPop),
			})
		}
		sortScored(ranked)
		perType[entityType] = ranked
	}

	return perType
}

func allFallback(set *domain.RecommendationSet) bool {
	for _, sc := range set.MixedList {
		if len(sc.FeatureScores) > 1 {
			return false
		}
	}
	return len(set.MixedList) > 0
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
