//go:build !integration

package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"creatorMarket/domain"
)

func seededSet(userID uint) (*fakeCache, string) {
	cache := newFakeCache()
	key := CacheKey(userID, domain.RecommendationQuery{Types: domain.AllEntityTypes(), Limit: 10})

	set := &domain.RecommendationSet{
		UserID:  userID,
		Version: domain.RecommendationSetVersion,
		PerType: map[string][]domain.ScoredCandidate{
			domain.EntityCreator: {
				{Candidate: domain.Candidate{ID: "cr-top", Type: domain.EntityCreator, Categories: []string{"food"}}, TotalScore: 0.70},
				{Candidate: domain.Candidate{ID: "cr-fit", Type: domain.EntityCreator, Categories: []string{"fitness"}}, TotalScore: 0.60},
			},
		},
		MixedList: []domain.ScoredCandidate{
			{Candidate: domain.Candidate{ID: "cr-top", Type: domain.EntityCreator, Categories: []string{"food"}}, TotalScore: 0.70},
			{Candidate: domain.Candidate{ID: "cr-fit", Type: domain.EntityCreator, Categories: []string{"fitness"}}, TotalScore: 0.60},
		},
	}
	_ = cache.PutSet(context.Background(), key, set, 0)
	return cache, key
}

func boostTestProviders(cfg Config) *providerSet {
	return newProviderSet([]Catalog{
		&fakeCatalog{
			entityType: domain.EntityCreator,
			candidates: []domain.Candidate{
				{ID: "cr-clicked", Type: domain.EntityCreator, Categories: []string{"fitness"}},
			},
		},
	}, cfg)
}

func TestApplyBoostsSharedCategoryAndResorts(t *testing.T) {
	cfg := DefaultConfig()
	cache, key := seededSet(9)
	updater := NewUpdater(cache, boostTestProviders(cfg), cfg)

	updater.Apply(context.Background(), domain.BehaviorEvent{
		UserID: 9, Type: domain.EventClick,
		TargetID: "cr-clicked", TargetType: domain.EntityCreator,
	})

	set, err := cache.GetSet(context.Background(), key)
	require.NoError(t, err)

	// fitness candidate boosted 0.60*1.2=0.72 and now leads both lists
	require.Equal(t, "cr-fit", set.MixedList[0].Candidate.ID)
	require.InDelta(t, 0.72, set.MixedList[0].TotalScore, 1e-9)
	require.Equal(t, "cr-fit", set.PerType[domain.EntityCreator][0].Candidate.ID)

	// the unrelated food candidate is untouched
	require.InDelta(t, 0.70, set.MixedList[1].TotalScore, 1e-9)
}

func TestApplyBoostClipsAtOne(t *testing.T) {
	cfg := DefaultConfig()
	cache := newFakeCache()
	key := CacheKey(4, domain.RecommendationQuery{Types: domain.AllEntityTypes(), Limit: 10})
	_ = cache.PutSet(context.Background(), key, &domain.RecommendationSet{
		UserID:  4,
		Version: domain.RecommendationSetVersion,
		PerType: map[string][]domain.ScoredCandidate{},
		MixedList: []domain.ScoredCandidate{
			{Candidate: domain.Candidate{ID: "cr-max", Type: domain.EntityCreator, Categories: []string{"fitness"}}, TotalScore: 0.95},
		},
	}, 0)

	updater := NewUpdater(cache, boostTestProviders(cfg), cfg)
	updater.Apply(context.Background(), domain.BehaviorEvent{
		UserID: 4, Type: domain.EventPurchase,
		TargetID: "cr-clicked", TargetType: domain.EntityCreator,
	})

	set, err := cache.GetSet(context.Background(), key)
	require.NoError(t, err)
	require.Equal(t, 1.0, set.MixedList[0].TotalScore)
}

func TestApplyIgnoresLowSignalEvents(t *testing.T) {
	cfg := DefaultConfig()
	cache, key := seededSet(9)
	updater := NewUpdater(cache, boostTestProviders(cfg), cfg)

	updater.Apply(context.Background(), domain.BehaviorEvent{
		UserID: 9, Type: domain.EventView,
		TargetID: "cr-clicked", TargetType: domain.EntityCreator,
	})

	set, err := cache.GetSet(context.Background(), key)
	require.NoError(t, err)
	require.Equal(t, "cr-top", set.MixedList[0].Candidate.ID, "view events must not boost")
	require.InDelta(t, 0.60, set.MixedList[1].TotalScore, 1e-9)
}

func TestApplyUnknownTargetIsNoOp(t *testing.T) {
	cfg := DefaultConfig()
	cache, key := seededSet(9)
	updater := NewUpdater(cache, boostTestProviders(cfg), cfg)

	updater.Apply(context.Background(), domain.BehaviorEvent{
		UserID: 9, Type: domain.EventClick,
		TargetID: "missing", TargetType: domain.EntityCreator,
	})

	set, err := cache.GetSet(context.Background(), key)
	require.NoError(t, err)
	require.InDelta(t, 0.70, set.MixedList[0].TotalScore, 1e-9)
	require.InDelta(t, 0.60, set.MixedList[1].TotalScore, 1e-9)
}
