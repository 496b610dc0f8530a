//go:build !integration

package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"creatorMarket/business/recommend"
	"creatorMarket/domain"
)

func testSet(userID uint, score float64) *domain.RecommendationSet {
	return &domain.RecommendationSet{
		UserID:  userID,
		Version: domain.RecommendationSetVersion,
		MixedList: []domain.ScoredCandidate{
			{Candidate: domain.Candidate{ID: "cr-1", Type: domain.EntityCreator}, TotalScore: score},
		},
		PerType:     map[string][]domain.ScoredCandidate{},
		GeneratedAt: time.Now(),
	}
}

func TestSetRoundTrip(t *testing.T) {
	cache := NewRecommendationCache()
	ctx := context.Background()
	key := recommend.CacheKey(1, domain.RecommendationQuery{Limit: 10})

	if _, err := cache.GetSet(ctx, key); !errors.Is(err, recommend.ErrCacheMiss) {
		t.Fatalf("empty cache: got %v, want ErrCacheMiss", err)
	}

	if err := cache.PutSet(ctx, key, testSet(1, 0.8), time.Minute); err != nil {
		t.Fatalf("PutSet: %v", err)
	}

	got, err := cache.GetSet(ctx, key)
	if err != nil {
		t.Fatalf("GetSet: %v", err)
	}
	if got.UserID != 1 || got.MixedList[0].TotalScore != 0.8 {
		t.Errorf("round trip mismatch: %+v", got)
	}

	// reads hand out copies: mutating the result must not affect the cache
	got.MixedList[0].TotalScore = 0
	again, _ := cache.GetSet(ctx, key)
	if again.MixedList[0].TotalScore != 0.8 {
		t.Error("cached value was mutated through a read copy")
	}
}

func TestSetExpiry(t *testing.T) {
	cache := NewRecommendationCache()
	ctx := context.Background()
	key := recommend.CacheKey(1, domain.RecommendationQuery{Limit: 10})

	if err := cache.PutSet(ctx, key, testSet(1, 0.8), 10*time.Millisecond); err != nil {
		t.Fatalf("PutSet: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	if _, err := cache.GetSet(ctx, key); !errors.Is(err, recommend.ErrCacheMiss) {
		t.Errorf("expired entry: got %v, want ErrCacheMiss", err)
	}
}

func TestUpdateUserTouchesOnlyThatUser(t *testing.T) {
	cache := NewRecommendationCache()
	ctx := context.Background()

	key1 := recommend.CacheKey(1, domain.RecommendationQuery{Limit: 10})
	key2 := recommend.CacheKey(2, domain.RecommendationQuery{Limit: 10})
	_ = cache.PutSet(ctx, key1, testSet(1, 0.5), time.Minute)
	_ = cache.PutSet(ctx, key2, testSet(2, 0.5), time.Minute)

	err := cache.UpdateUser(ctx, 1, func(set *domain.RecommendationSet) bool {
		set.MixedList[0].TotalScore = 0.9
		return true
	})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	got1, _ := cache.GetSet(ctx, key1)
	got2, _ := cache.GetSet(ctx, key2)
	if got1.MixedList[0].TotalScore != 0.9 {
		t.Errorf("user 1 not updated: %v", got1.MixedList[0].TotalScore)
	}
	if got2.MixedList[0].TotalScore != 0.5 {
		t.Errorf("user 2 must be untouched: %v", got2.MixedList[0].TotalScore)
	}
}

func TestUpdateUserSkipsUnchanged(t *testing.T) {
	cache := NewRecommendationCache()
	ctx := context.Background()
	key := recommend.CacheKey(1, domain.RecommendationQuery{Limit: 10})
	_ = cache.PutSet(ctx, key, testSet(1, 0.5), time.Minute)

	err := cache.UpdateUser(ctx, 1, func(set *domain.RecommendationSet) bool {
		set.MixedList[0].TotalScore = 0.9
		return false // report unchanged
	})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	got, _ := cache.GetSet(ctx, key)
	if got.MixedList[0].TotalScore != 0.5 {
		t.Errorf("unchanged set was written back: %v", got.MixedList[0].TotalScore)
	}
}

func TestInvalidateUser(t *testing.T) {
	cache := NewRecommendationCache()
	ctx := context.Background()

	key1 := recommend.CacheKey(1, domain.RecommendationQuery{Limit: 10})
	key2 := recommend.CacheKey(2, domain.RecommendationQuery{Limit: 10})
	_ = cache.PutSet(ctx, key1, testSet(1, 0.5), time.Minute)
	_ = cache.PutSet(ctx, key2, testSet(2, 0.5), time.Minute)

	if err := cache.InvalidateUser(ctx, 1); err != nil {
		t.Fatalf("InvalidateUser: %v", err)
	}

	if _, err := cache.GetSet(ctx, key1); !errors.Is(err, recommend.ErrCacheMiss) {
		t.Errorf("user 1 still cached after invalidation")
	}
	if _, err := cache.GetSet(ctx, key2); err != nil {
		t.Errorf("user 2 was collateral damage: %v", err)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	cache := NewRecommendationCache()
	ctx := context.Background()

	if _, err := cache.GetProfile(ctx, 1); !errors.Is(err, recommend.ErrCacheMiss) {
		t.Fatalf("empty cache: got %v, want ErrCacheMiss", err)
	}

	profile := &domain.UserProfile{UserID: 1, Confidence: 0.7, PreferredCategories: []string{"fitness"}}
	if err := cache.PutProfile(ctx, 1, profile, time.Minute); err != nil {
		t.Fatalf("PutProfile: %v", err)
	}

	got, err := cache.GetProfile(ctx, 1)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got.Confidence != 0.7 || len(got.PreferredCategories) != 1 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}
