package recommend

import (
	"sort"
	"strings"

	"creatorMarket/domain"
)

// Fixed phrase table keyed by feature name. Kept short on purpose: the
// presentation layer renders these verbatim.
var explanationPhrases = map[string]string{
	FeatureCategoryMatch: "Matches your favorite categories",
	FeatureGeoMatch:      "Close to your location",
	FeaturePerformance:   "Strong track record",
	FeatureAudienceMatch: "Audience similar to yours",
	FeatureBehaviorMatch: "Similar to profiles you engaged with",
	FeatureNovelty:       "Something new for you",
}

const (
	genericExplanation  = "Recommended for you"
	surpriseExplanation = "A fresh pick outside your usual categories"
)

// Explain renders a short human-readable justification from the top 1-3
// feature scores above the notable threshold, falling back to a generic
// phrase. Pure function of its inputs.
func Explain(sc domain.ScoredCandidate, notableThreshold float64) string {
	if sc.IsSurprise {
		return surpriseExplanation
	}

	type scoredFeature struct {
		name  string
		score float64
	}

	notable := make([]scoredFeature, 0, len(sc.FeatureScores))
	for name, score := range sc.FeatureScores {
		if score > notableThreshold {
			if _, ok := explanationPhrases[name]; ok {
				notable = append(notable, scoredFeature{name: name, score: score})
			}
		}
	}

	if len(notable) == 0 {
		return genericExplanation
	}

	sort.Slice(notable, func(i, j int) bool {
		if notable[i].score == notable[j].score {
			return notable[i].name < notable[j].name
		}
		return notable[i].score > notable[j].score
	})

	if len(notable) > 3 {
		notable = notable[:3]
	}

	phrases := make([]string, 0, len(notable))
	for _, f := range notable {
		phrases = append(phrases, explanationPhrases[f.name])
	}

	return strings.Join(phrases, "; ")
}
