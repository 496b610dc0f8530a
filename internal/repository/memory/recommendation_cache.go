package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"creatorMarket/business/recommend"
	"creatorMarket/domain"
)

type entry struct {
	raw       []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// RecommendationCache is the process-local cache used by tests and
// redis-less development setups. Values are stored as JSON so reads hand
// out copies, matching the redis implementation's semantics.
type RecommendationCache struct {
	mu      sync.Mutex
	entries map[string]entry
}

func NewRecommendationCache() *RecommendationCache {
	return &RecommendationCache{
		entries: make(map[string]entry),
	}
}

// ---- Recommendation sets ----

func (c *RecommendationCache) GetSet(_ context.Context, key string) (*domain.RecommendationSet, error) {
	raw, ok := c.get(key)
	if !ok {
		return nil, recommend.ErrCacheMiss
	}

	var set domain.RecommendationSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recommendation set: %w", err)
	}

	return &set, nil
}

func (c *RecommendationCache) PutSet(_ context.Context, key string, set *domain.RecommendationSet, ttl time.Duration) error {
	raw, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendation set: %w", err)
	}

	c.put(key, raw, ttl)
	return nil
}

func (c *RecommendationCache) UpdateUser(_ context.Context, userID uint, fn func(set *domain.RecommendationSet) bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := recommend.UserKeyPrefix(userID)
	now := time.Now()

	for key, e := range c.entries {
		if !strings.HasPrefix(key, prefix) || e.expired(now) {
			continue
		}

		var set domain.RecommendationSet
		if err := json.Unmarshal(e.raw, &set); err != nil {
			return fmt.Errorf("failed to unmarshal recommendation set: %w", err)
		}

		if !fn(&set) {
			continue
		}

		raw, err := json.Marshal(&set)
		if err != nil {
			return fmt.Errorf("failed to marshal recommendation set: %w", err)
		}

		// keep the original expiry: boosts never extend a set's lifetime
		c.entries[key] = entry{raw: raw, expiresAt: e.expiresAt}
	}

	return nil
}

func (c *RecommendationCache) InvalidateUser(_ context.Context, userID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := recommend.UserKeyPrefix(userID)
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}

	return nil
}

// ---- Derived profiles ----

func (c *RecommendationCache) GetProfile(_ context.Context, userID uint) (*domain.UserProfile, error) {
	raw, ok := c.get(recommend.ProfileKey(userID))
	if !ok {
		return nil, recommend.ErrCacheMiss
	}

	var profile domain.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return &profile, nil
}

func (c *RecommendationCache) PutProfile(_ context.Context, userID uint, profile *domain.UserProfile, ttl time.Duration) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	c.put(recommend.ProfileKey(userID), raw, ttl)
	return nil
}

// ---- internals ----

func (c *RecommendationCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if e.expired(time.Now()) {
		delete(c.entries, key)
		return nil, false
	}

	return e.raw, true
}

func (c *RecommendationCache) put(key string, raw []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	c.entries[key] = entry{raw: raw, expiresAt: expiresAt}
}
