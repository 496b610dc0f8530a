package recommend

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	"creatorMarket/domain"
)

// RecommendationCache is the injectable cache service backing the engine.
// Implementations: redis (production) and memory (tests, redis-less dev).
//
// UpdateUser must apply fn atomically per key (per-key lock or
// optimistic-retry loop) and preserve the remaining TTL — a boost never
// extends a cached set's lifetime.
type RecommendationCache interface {
	GetSet(ctx context.Context, key string) (*domain.RecommendationSet, error)
	PutSet(ctx context.Context, key string, set *domain.RecommendationSet, ttl time.Duration) error

	// UpdateUser applies fn to every cached set belonging to the user.
	// fn returns false to skip writing back an unchanged set.
	UpdateUser(ctx context.Context, userID uint, fn func(set *domain.RecommendationSet) bool) error

	InvalidateUser(ctx context.Context, userID uint) error

	GetProfile(ctx context.Context, userID uint) (*domain.UserProfile, error)
	PutProfile(ctx context.Context, userID uint, profile *domain.UserProfile, ttl time.Duration) error
}

// UserKeyPrefix is the key namespace holding all cached recommendation sets
// of one user; InvalidateUser and UpdateUser operate on this prefix.
func UserKeyPrefix(userID uint) string {
	return fmt.Sprintf("reco:user:%d:", userID)
}

// CacheKey builds the deterministic key for one (user, query) pair.
func CacheKey(userID uint, q domain.RecommendationQuery) string {
	types := append([]string{}, q.Types...)
	sort.Strings(types)

	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.Join(types, ",")))
	_, _ = fmt.Fprintf(h, "|limit=%d|excl=%t", q.Limit, q.ExcludeInteracted)

	return fmt.Sprintf("%s%08x", UserKeyPrefix(userID), h.Sum32())
}

// ProfileKey is the cache key of a derived user profile.
func ProfileKey(userID uint) string {
	return fmt.Sprintf("profile:user:%d", userID)
}
