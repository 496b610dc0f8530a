package recommend

import (
	"math"
	"strings"

	"creatorMarket/domain"
)

// Feature functions are pure: identical inputs always produce identical
// outputs, so any randomness is forbidden here.

// categoryMatch is the directional overlap between candidate categories and
// the user's preferred categories: |intersection| / |preferred|.
// Neutral 0.5 when the profile has no preferences yet; 0 when the candidate
// carries no categories.
func categoryMatch(candidateCats, preferred []string) float64 {
	if len(preferred) == 0 {
		return 0.5
	}
	if len(candidateCats) == 0 {
		return 0
	}

	set := make(map[string]bool, len(candidateCats))
	for _, c := range candidateCats {
		set[normalizeCategory(c)] = true
	}

	hits := 0
	for _, p := range preferred {
		if set[normalizeCategory(p)] {
			hits++
		}
	}

	return float64(hits) / float64(len(preferred))
}

// geoMatch is tiered: exact city 1.0, same region 0.8, same country 0.6,
// no overlap 0.2. Either side unknown yields the neutral 0.5.
func geoMatch(p *domain.UserProfile, c domain.Candidate) float64 {
	candidateKnown := c.City != "" || c.Region != "" || c.Country != ""
	if !p.HasLocation() || !candidateKnown {
		return 0.5
	}

	switch {
	case p.City != "" && strings.EqualFold(p.City, c.City):
		return 1.0
	case p.Region != "" && strings.EqualFold(p.Region, c.Region):
		return 0.8
	case p.Country != "" && strings.EqualFold(p.Country, c.Country):
		return 0.6
	default:
		return 0.2
	}
}

// performanceScore combines engagement, rating and volume. Each sub-term is
// capped at 1.0 before weighting so no single metric dominates.
func performanceScore(c domain.Candidate) float64 {
	engagement := math.Min(1.0, c.EngagementRate*10) // 10%+ engagement saturates
	rating := math.Min(1.0, c.Rating/5.0)
	volume := math.Min(1.0, math.Log10(float64(c.Volume)+1)/3) // ~1000 saturates

	return clip01(0.40*engagement + 0.35*rating + 0.25*volume)
}

// audienceMatch averages the available sub-factors; missing sub-factors are
// skipped, not penalized. With nothing to compare it returns neutral 0.5.
func audienceMatch(p *domain.UserProfile, c domain.Candidate) float64 {
	var sum float64
	var n int

	// age delta decay
	if p.AgeEstimate > 0 && c.AudienceAgeCenter > 0 {
		delta := math.Abs(float64(p.AgeEstimate - c.AudienceAgeCenter))
		sum += math.Exp(-delta / 10.0)
		n++
	}

	// gender split overlap
	if share, ok := femaleShare(p.GenderEstimate); ok && c.AudienceFemaleShare > 0 {
		sum += 1.0 - math.Abs(share-c.AudienceFemaleShare)
		n++
	}

	// interest Jaccard
	if len(p.Skills) > 0 || len(p.PreferredCategories) > 0 {
		if len(c.AudienceInterests) > 0 {
			userInterests := append(append([]string{}, p.PreferredCategories...), p.Skills...)
			sum += jaccard(userInterests, c.AudienceInterests)
			n++
		}
	}

	if n == 0 {
		return 0.5
	}
	return clip01(sum / float64(n))
}

// behaviorMatch boosts candidates resembling entities the user engaged
// with: a direct click on the candidate scores 1.0, otherwise the strongest
// interest weight among its categories.
func behaviorMatch(p *domain.UserProfile, c domain.Candidate) float64 {
	if p.ClickedIDs[c.ID] {
		return 1.0
	}

	best := 0.0
	for _, cat := range c.Categories {
		if w, ok := p.Interests[normalizeCategory(cat)]; ok && w > best {
			best = w
		}
	}
	return clip01(best)
}

// noveltyScore is the anti-repetition signal: full score for unseen
// candidates, a small constant for seen ones.
func noveltyScore(p *domain.UserProfile, c domain.Candidate, seenScore float64) float64 {
	if p.HasSeen(c.ID) {
		return seenScore
	}
	return 1.0
}

// ---- helpers ----

func normalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func femaleShare(gender string) (float64, bool) {
	switch strings.ToLower(gender) {
	case "female":
		return 1.0, true
	case "male":
		return 0.0, true
	default:
		return 0, false
	}
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(a))
	for _, s := range a {
		setA[normalizeCategory(s)] = true
	}
	setB := make(map[string]bool, len(b))
	for _, s := range b {
		setB[normalizeCategory(s)] = true
	}

	inter := 0
	for s := range setA {
		if setB[s] {
			inter++
		}
	}

	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
