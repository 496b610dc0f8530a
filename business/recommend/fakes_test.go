//go:build !integration

package recommend

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"creatorMarket/domain"
)

// In-test doubles. The memory cache implementation cannot be imported here
// (it depends on this package), so the tests carry their own.

type fakeCache struct {
	mu       sync.Mutex
	sets     map[string]*domain.RecommendationSet
	setTTLs  map[string]time.Duration
	profiles map[uint]*domain.UserProfile
	failing  bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		sets:     make(map[string]*domain.RecommendationSet),
		setTTLs:  make(map[string]time.Duration),
		profiles: make(map[uint]*domain.UserProfile),
	}
}

func (c *fakeCache) GetSet(_ context.Context, key string) (*domain.RecommendationSet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return nil, errors.New("cache down")
	}
	set, ok := c.sets[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return set, nil
}

func (c *fakeCache) PutSet(_ context.Context, key string, set *domain.RecommendationSet, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return errors.New("cache down")
	}
	c.sets[key] = set
	c.setTTLs[key] = ttl
	return nil
}

func (c *fakeCache) UpdateUser(_ context.Context, userID uint, fn func(set *domain.RecommendationSet) bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return errors.New("cache down")
	}
	prefix := UserKeyPrefix(userID)
	for key, set := range c.sets {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		fn(set)
	}
	return nil
}

func (c *fakeCache) InvalidateUser(_ context.Context, userID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return errors.New("cache down")
	}
	prefix := UserKeyPrefix(userID)
	for key := range c.sets {
		if strings.HasPrefix(key, prefix) {
			delete(c.sets, key)
			delete(c.setTTLs, key)
		}
	}
	return nil
}

func (c *fakeCache) GetProfile(_ context.Context, userID uint) (*domain.UserProfile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return nil, errors.New("cache down")
	}
	p, ok := c.profiles[userID]
	if !ok {
		return nil, ErrCacheMiss
	}
	return p, nil
}

func (c *fakeCache) PutProfile(_ context.Context, userID uint, profile *domain.UserProfile, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return errors.New("cache down")
	}
	c.profiles[userID] = profile
	return nil
}

func (c *fakeCache) setCount(userID uint) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for key := range c.sets {
		if strings.HasPrefix(key, UserKeyPrefix(userID)) {
			n++
		}
	}
	return n
}

type fakeUserRepo struct {
	users map[uint]domain.User
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return domain.User{}, errors.New("user not found")
}

type fakeBehaviorRepo struct {
	mu     sync.Mutex
	events []domain.BehaviorEvent
	err    error
}

func (r *fakeBehaviorRepo) Append(_ context.Context, event domain.BehaviorEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *fakeBehaviorRepo) Query(_ context.Context, userID uint, _, limit int, types ...string) ([]domain.BehaviorEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}

	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}

	var out []domain.BehaviorEvent
	for _, ev := range r.events {
		if ev.UserID != userID {
			continue
		}
		if len(typeSet) > 0 && !typeSet[ev.Type] {
			continue
		}
		out = append(out, ev)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeBehaviorRepo) InteractedTargetIDs(_ context.Context, userID uint) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}

	seen := make(map[string]bool)
	var out []string
	for _, ev := range r.events {
		if ev.UserID != userID || !ev.IsInteraction() || ev.TargetID == "" {
			continue
		}
		if seen[ev.TargetID] {
			continue
		}
		seen[ev.TargetID] = true
		out = append(out, ev.TargetID)
	}
	return out, nil
}

func (r *fakeBehaviorRepo) ActiveUserIDs(_ context.Context, _, limit int) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}

	seen := make(map[uint]bool)
	var out []uint
	for _, ev := range r.events {
		if seen[ev.UserID] {
			continue
		}
		seen[ev.UserID] = true
		out = append(out, ev.UserID)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeBehaviorRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}

	kept := r.events[:0]
	var deleted int64
	for _, ev := range r.events {
		if ev.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, ev)
	}
	r.events = kept
	return deleted, nil
}

type fakeCatalog struct {
	entityType string
	candidates []domain.Candidate
	err        error
	delay      time.Duration
}

func (c *fakeCatalog) EntityType() string { return c.entityType }

func (c *fakeCatalog) Fetch(_ context.Context, _ domain.CatalogFilter, limit int) ([]domain.Candidate, error) {
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	if c.err != nil {
		return nil, c.err
	}
	if limit > len(c.candidates) {
		limit = len(c.candidates)
	}
	return c.candidates[:limit], nil
}

func (c *fakeCatalog) Get(_ context.Context, id string) (domain.Candidate, error) {
	if c.err != nil {
		return domain.Candidate{}, c.err
	}
	for _, cand := range c.candidates {
		if cand.ID == id {
			return cand, nil
		}
	}
	return domain.Candidate{}, errors.New("not found")
}
