package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"creatorMarket/business/recommend"
	"creatorMarket/domain"
)

const updateUserMaxRetries = 3

// RecommendationCache stores recommendation sets and derived profiles as
// JSON values under per-user key prefixes. UpdateUser uses WATCH-based
// optimistic transactions with KEEPTTL so in-place boosts never extend a
// set's lifetime.
type RecommendationCache struct {
	client *redis.Client
}

func NewRecommendationCache(client *redis.Client) *RecommendationCache {
	return &RecommendationCache{
		client: client,
	}
}

// ---- Recommendation sets ----

func (r *RecommendationCache) GetSet(ctx context.Context, key string) (*domain.RecommendationSet, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, recommend.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get recommendation set: %w", err)
	}

	var set domain.RecommendationSet
	if err := json.Unmarshal([]byte(val), &set); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recommendation set: %w", err)
	}

	return &set, nil
}

func (r *RecommendationCache) PutSet(ctx context.Context, key string, set *domain.RecommendationSet, ttl time.Duration) error {
	raw, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendation set: %w", err)
	}

	if err := r.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store recommendation set: %w", err)
	}

	return nil
}

// UpdateUser applies fn to every cached set of the user. Each key is
// updated in its own WATCH transaction and retried on conflict, so a
// concurrent PutSet or boost never gets overwritten with stale data.
func (r *RecommendationCache) UpdateUser(ctx context.Context, userID uint, fn func(set *domain.RecommendationSet) bool) error {
	keys, err := r.userKeys(ctx, userID)
	if err != nil {
		return err
	}

	for _, key := range keys {
		if err := r.updateKey(ctx, key, fn); err != nil {
			return err
		}
	}

	return nil
}

func (r *RecommendationCache) updateKey(ctx context.Context, key string, fn func(set *domain.RecommendationSet) bool) error {
	txn := func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			// expired between SCAN and WATCH
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get recommendation set: %w", err)
		}

		var set domain.RecommendationSet
		if err := json.Unmarshal([]byte(val), &set); err != nil {
			return fmt.Errorf("failed to unmarshal recommendation set: %w", err)
		}

		if !fn(&set) {
			return nil
		}

		raw, err := json.Marshal(&set)
		if err != nil {
			return fmt.Errorf("failed to marshal recommendation set: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, redis.KeepTTL)
			return nil
		})
		return err
	}

	for i := 0; i < updateUserMaxRetries; i++ {
		err := r.client.Watch(ctx, txn, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return fmt.Errorf("failed to update %s: %w", key, err)
	}

	return fmt.Errorf("failed to update %s: too many conflicts", key)
}

func (r *RecommendationCache) InvalidateUser(ctx context.Context, userID uint) error {
	keys, err := r.userKeys(ctx, userID)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate user %d: %w", userID, err)
	}

	return nil
}

func (r *RecommendationCache) userKeys(ctx context.Context, userID uint) ([]string, error) {
	pattern := recommend.UserKeyPrefix(userID) + "*"

	var keys []string
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan keys for user %d: %w", userID, err)
	}

	return keys, nil
}

// ---- Derived profiles ----

func (r *RecommendationCache) GetProfile(ctx context.Context, userID uint) (*domain.UserProfile, error) {
	val, err := r.client.Get(ctx, recommend.ProfileKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, recommend.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var profile domain.UserProfile
	if err := json.Unmarshal([]byte(val), &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return &profile, nil
}

func (r *RecommendationCache) PutProfile(ctx context.Context, userID uint, profile *domain.UserProfile, ttl time.Duration) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := r.client.Set(ctx, recommend.ProfileKey(userID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store profile: %w", err)
	}

	return nil
}
