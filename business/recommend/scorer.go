package recommend

import (
	"sort"

	"creatorMarket/domain"
)

// ScorerStrategy computes one deterministic relevance score per candidate.
// The heuristic scorer below is the only implementation today; a learned
// model can replace it without touching callers.
type ScorerStrategy interface {
	Score(profile *domain.UserProfile, candidate domain.Candidate) domain.ScoredCandidate
}

type heuristicScorer struct {
	cfg Config
}

func NewHeuristicScorer(cfg Config) ScorerStrategy {
	return &heuristicScorer{cfg: cfg}
}

func (s *heuristicScorer) Score(profile *domain.UserProfile, candidate domain.Candidate) domain.ScoredCandidate {
	features := map[string]float64{
		FeatureCategoryMatch: categoryMatch(candidate.Categories, profile.PreferredCategories),
		FeatureGeoMatch:      geoMatch(profile, candidate),
		FeaturePerformance:   performanceScore(candidate),
		FeatureAudienceMatch: audienceMatch(profile, candidate),
		FeatureBehaviorMatch: behaviorMatch(profile, candidate),
		FeatureNovelty:       noveltyScore(profile, candidate, s.cfg.NoveltySeenScore),
	}

	weights := s.cfg.weightsFor(candidate.Type)

	total := 0.0
	for name, w := range weights {
		total += w * features[name]
	}

	// multiplicative bonuses, then clip
	if candidate.Verified {
		total *= s.cfg.VerifiedBonus
	}
	if candidate.Premium {
		total *= s.cfg.PremiumBonus
	}

	return domain.ScoredCandidate{
		Candidate:     candidate,
		FeatureScores: features,
		TotalScore:    clip01(total),
	}
}

// rankCandidates scores a pool, drops candidates below the per-type
// threshold and returns the survivors best-first. Ties break on candidate
// ID so identical inputs always produce identical orderings.
func rankCandidates(
	scorer ScorerStrategy,
	cfg Config,
	profile *domain.UserProfile,
	entityType string,
	pool []domain.Candidate,
) []domain.ScoredCandidate {

	threshold := cfg.thresholdFor(entityType)

	ranked := make([]domain.ScoredCandidate, 0, len(pool))
	for _, cand := range pool {
		scored := scorer.Score(profile, cand)
		if scored.TotalScore < threshold {
			continue
		}
		ranked = append(ranked, scored)
	}

	sortScored(ranked)
	return ranked
}

// sortScored orders by total score descending, candidate ID ascending on ties.
func sortScored(list []domain.ScoredCandidate) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].TotalScore == list[j].TotalScore {
			return list[i].Candidate.ID < list[j].Candidate.ID
		}
		return list[i].TotalScore > list[j].TotalScore
	})
}
