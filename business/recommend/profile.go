package recommend

import (
	"context"
	"math"
	"sort"
	"time"

	"creatorMarket/domain"
	"creatorMarket/pkg/logger"
)

// ProfileBuilder derives a UserProfile from the behavior window plus
// explicit account attributes. Profiles are cached and fully recomputable;
// losing one only costs a rebuild.
type ProfileBuilder struct {
	userRepo     UserRepository
	behaviorRepo BehaviorRepository
	cache        RecommendationCache
	cfg          Config

	// now is swappable for tests
	now func() time.Time
}

func NewProfileBuilder(
	userRepo UserRepository,
	behaviorRepo BehaviorRepository,
	cache RecommendationCache,
	cfg Config,
) *ProfileBuilder {
	return &ProfileBuilder{
		userRepo:     userRepo,
		behaviorRepo: behaviorRepo,
		cache:        cache,
		cfg:          cfg,
		now:          time.Now,
	}
}

// Build returns the cached profile when fresh, otherwise rebuilds from the
// event window. It never fails the overall call: sparse or missing data
// yields the default popularity profile with confidence near zero.
func (b *ProfileBuilder) Build(ctx context.Context, userID uint) *domain.UserProfile {
	if b.cache != nil {
		if cached, err := b.cache.GetProfile(ctx, userID); err == nil {
			return cached
		}
	}

	profile := b.Rebuild(ctx, userID)

	if b.cache != nil {
		if err := b.cache.PutProfile(ctx, userID, profile, b.cfg.ProfileTTL); err != nil {
			logger.Warn("profile_cache_put_failed", "user_id", userID, "error", err)
		}
	}

	return profile
}

// Rebuild always recomputes, bypassing the cached copy.
func (b *ProfileBuilder) Rebuild(ctx context.Context, userID uint) *domain.UserProfile {
	profile := defaultProfile(userID, b.now())

	// 1) explicit account attributes win over anything inferred
	var explicitCategories []string
	if b.userRepo != nil {
		if user, err := b.userRepo.FindByID(ctx, userID); err == nil {
			applyAccountAttributes(profile, user)
			explicitCategories = user.Interests
		}
	}

	// 2) windowed events
	events, err := b.behaviorRepo.Query(ctx, userID, b.cfg.WindowDays, b.cfg.EventLimit)
	if err != nil {
		logger.Warn("profile_events_unavailable", "user_id", userID, "error", err)
		ProfileFallbacksTotal.Inc()
		return profile
	}

	profile.Confidence = math.Min(1.0, float64(len(events))/float64(b.cfg.ConfidenceSaturation))

	if len(events) < b.cfg.MinEventsForProfile {
		if len(events) == 0 {
			profile.Confidence = 0
		}
		ProfileFallbacksTotal.Inc()
		b.applyEventSets(profile, events)
		return profile
	}

	// 3) recency-weighted category tally
	interests, meta := b.tallyEvents(profile, events)
	profile.Interests = interests

	if len(explicitCategories) > 0 {
		profile.PreferredCategories = normalizeAll(explicitCategories)
	} else {
		profile.PreferredCategories = topKCategories(interests, b.cfg.TopKCategories)
	}

	// 4) estimates from most frequent metadata values; defaults when sparse
	b.applyEstimates(profile, meta)

	b.applyEventSets(profile, events)

	return profile
}

// tallyEvents weights every event by 1/log2(ageDays+2) and accumulates
// category interest plus the metadata values used for estimation.
func (b *ProfileBuilder) tallyEvents(
	profile *domain.UserProfile,
	events []domain.BehaviorEvent,
) (map[string]float64, *metadataTally) {

	now := b.now()
	interests := make(map[string]float64)
	meta := newMetadataTally()

	for _, ev := range events {
		ageDays := now.Sub(ev.CreatedAt).Hours() / 24
		if ageDays < 0 {
			ageDays = 0
		}
		weight := 1.0 / math.Log2(ageDays+2)

		for _, cat := range eventCategories(ev) {
			interests[cat] += weight
		}

		meta.observe(ev, weight)
	}

	// normalize interests to [0,1] against the strongest signal
	maxWeight := 0.0
	for _, w := range interests {
		if w > maxWeight {
			maxWeight = w
		}
	}
	if maxWeight > 0 {
		for cat := range interests {
			interests[cat] /= maxWeight
		}
	}

	return interests, meta
}

func (b *ProfileBuilder) applyEstimates(profile *domain.UserProfile, meta *metadataTally) {
	if profile.BudgetEstimate == 0 {
		if budget, ok := meta.topBudget(); ok {
			profile.BudgetEstimate = budget
		} else {
			profile.BudgetEstimate = b.cfg.DefaultBudget
		}
	}

	if len(profile.Skills) == 0 {
		profile.Skills = meta.topSkills(b.cfg.TopKCategories)
	}

	if !profile.HasLocation() {
		profile.City, profile.Region, profile.Country = meta.topLocation()
	}
}

func (b *ProfileBuilder) applyEventSets(profile *domain.UserProfile, events []domain.BehaviorEvent) {
	for _, ev := range events {
		if ev.TargetID == "" {
			continue
		}
		switch ev.Type {
		case domain.EventView, domain.EventScrollDeep:
			profile.ViewedIDs[ev.TargetID] = true
		case domain.EventClick, domain.EventLike, domain.EventShare:
			profile.ClickedIDs[ev.TargetID] = true
		case domain.EventPurchase, domain.EventApplied:
			profile.ClickedIDs[ev.TargetID] = true
			profile.InteractedIDs[ev.TargetID] = true
		}
	}
}

func defaultProfile(userID uint, now time.Time) *domain.UserProfile {
	return &domain.UserProfile{
		UserID:              userID,
		PreferredCategories: []string{},
		Interests:           make(map[string]float64),
		Skills:              []string{},
		ViewedIDs:           make(map[string]bool),
		ClickedIDs:          make(map[string]bool),
		InteractedIDs:       make(map[string]bool),
		Confidence:          0,
		LastUpdated:         now,
	}
}

func applyAccountAttributes(profile *domain.UserProfile, user domain.User) {
	profile.City = user.City
	profile.Region = user.Region
	profile.Country = user.Country
	profile.GenderEstimate = user.Gender
	if user.BirthYear > 0 {
		profile.AgeEstimate = time.Now().Year() - user.BirthYear
	}
	if user.Budget > 0 {
		profile.BudgetEstimate = user.Budget
	}
	if len(user.Skills) > 0 {
		profile.Skills = normalizeAll(user.Skills)
	}
}

// eventCategories reads category signals out of event metadata. Both the
// single "category" key and the "categories" list are honored.
func eventCategories(ev domain.BehaviorEvent) []string {
	if ev.Metadata == nil {
		return nil
	}

	var out []string
	if v, ok := ev.Metadata["category"].(string); ok && v != "" {
		out = append(out, normalizeCategory(v))
	}
	if list, ok := ev.Metadata["categories"].([]any); ok {
		for _, item := range list {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, normalizeCategory(s))
			}
		}
	}
	return out
}

func topKCategories(interests map[string]float64, k int) []string {
	type pair struct {
		cat    string
		weight float64
	}

	pairs := make([]pair, 0, len(interests))
	for cat, w := range interests {
		pairs = append(pairs, pair{cat: cat, weight: w})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].weight == pairs[j].weight {
			return pairs[i].cat < pairs[j].cat
		}
		return pairs[i].weight > pairs[j].weight
	})

	if k > len(pairs) {
		k = len(pairs)
	}
	out := make([]string, 0, k)
	for i := 0; i < k; i++ {
		out = append(out, pairs[i].cat)
	}
	return out
}

func normalizeAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if n := normalizeCategory(s); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// ---- metadata tally ----

// metadataTally accumulates recency-weighted votes for the estimate fields.
type metadataTally struct {
	budgets   map[float64]float64
	skills    map[string]float64
	cities    map[string]float64
	regions   map[string]float64
	countries map[string]float64
}

func newMetadataTally() *metadataTally {
	return &metadataTally{
		budgets:   make(map[float64]float64),
		skills:    make(map[string]float64),
		cities:    make(map[string]float64),
		regions:   make(map[string]float64),
		countries: make(map[string]float64),
	}
}

func (t *metadataTally) observe(ev domain.BehaviorEvent, weight float64) {
	if ev.Metadata == nil {
		return
	}

	if v, ok := toFloat(ev.Metadata["budget"]); ok && v > 0 {
		t.budgets[v] += weight
	}
	if v, ok := ev.Metadata["skill"].(string); ok && v != "" {
		t.skills[normalizeCategory(v)] += weight
	}
	if v, ok := ev.Metadata["city"].(string); ok && v != "" {
		t.cities[v] += weight
	}
	if v, ok := ev.Metadata["region"].(string); ok && v != "" {
		t.regions[v] += weight
	}
	if v, ok := ev.Metadata["country"].(string); ok && v != "" {
		t.countries[v] += weight
	}
}

func (t *metadataTally) topBudget() (float64, bool) {
	var best float64
	var bestWeight float64
	for budget, w := range t.budgets {
		if w > bestWeight || (w == bestWeight && budget < best) {
			best, bestWeight = budget, w
		}
	}
	return best, bestWeight > 0
}

func (t *metadataTally) topSkills(k int) []string {
	return topKCategories(t.skills, k)
}

func (t *metadataTally) topLocation() (city, region, country string) {
	return topString(t.cities), topString(t.regions), topString(t.countries)
}

func topString(votes map[string]float64) string {
	var best string
	var bestWeight float64
	for v, w := range votes {
		if w > bestWeight || (w == bestWeight && (best == "" || v < best)) {
			best, bestWeight = v, w
		}
	}
	return best
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
