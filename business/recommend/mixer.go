package recommend

import (
	"math"
	"math/rand"

	"creatorMarket/domain"
)

// mixer merges per-type ranked lists into one capped, category-balanced
// list. This is the only component allowed nondeterminism: the exploration
// picks are driven by the injected rng, which is nil-able and seedable.
type mixer struct {
	cfg Config
	rng *rand.Rand
}

func newMixer(cfg Config, rng *rand.Rand) *mixer {
	return &mixer{cfg: cfg, rng: rng}
}

// Mix greedily admits candidates by score descending while no type exceeds
// ceil(limit/numTypes); once a type hits its cap or is exhausted, a second
// pass fills remaining slots from the leftovers.
func (m *mixer) Mix(perType map[string][]domain.ScoredCandidate, limit int) []domain.ScoredCandidate {
	if limit <= 0 || len(perType) == 0 {
		return []domain.ScoredCandidate{}
	}

	perTypeCap := int(math.Ceil(float64(limit) / float64(len(perType))))

	merged := make([]domain.ScoredCandidate, 0)
	for _, list := range perType {
		merged = append(merged, list...)
	}
	sortScored(merged)

	mixed := make([]domain.ScoredCandidate, 0, limit)
	admitted := make(map[string]bool, limit)
	typeCounts := make(map[string]int, len(perType))

	// pass 1: respect the per-type cap
	for _, sc := range merged {
		if len(mixed) == limit {
			break
		}
		if typeCounts[sc.Candidate.Type] >= perTypeCap {
			continue
		}
		mixed = append(mixed, sc)
		admitted[sc.Candidate.ID] = true
		typeCounts[sc.Candidate.Type]++
	}

	// pass 2: capped-out types may fill slots the exhausted ones left open
	if len(mixed) < limit {
		for _, sc := range merged {
			if len(mixed) == limit {
				break
			}
			if admitted[sc.Candidate.ID] {
				continue
			}
			mixed = append(mixed, sc)
			admitted[sc.Candidate.ID] = true
		}
	}

	return m.injectExploration(mixed, merged, admitted, limit)
}

// injectExploration swaps in up to cfg.ExplorationPicks candidates from
// categories absent from the mixed list, flagged IsSurprise with a fixed
// score floor. No rng configured means no exploration.
func (m *mixer) injectExploration(
	mixed, merged []domain.ScoredCandidate,
	admitted map[string]bool,
	limit int,
) []domain.ScoredCandidate {

	if m.rng == nil || m.cfg.ExplorationPicks <= 0 || len(mixed) == 0 {
		return mixed
	}

	represented := make(map[string]bool)
	for _, sc := range mixed {
		for _, cat := range sc.Candidate.Categories {
			represented[normalizeCategory(cat)] = true
		}
	}

	var fresh []domain.ScoredCandidate
	for _, sc := range merged {
		if admitted[sc.Candidate.ID] {
			continue
		}
		for _, cat := range sc.Candidate.Categories {
			if !represented[normalizeCategory(cat)] {
				fresh = append(fresh, sc)
				break
			}
		}
	}
	if len(fresh) == 0 {
		return mixed
	}

	picks := m.cfg.ExplorationPicks
	if picks > len(fresh) {
		picks = len(fresh)
	}

	for i := 0; i < picks; i++ {
		idx := m.rng.Intn(len(fresh))
		pick := fresh[idx]
		fresh = append(fresh[:idx], fresh[idx+1:]...)

		pick.IsSurprise = true
		if pick.TotalScore < m.cfg.ExplorationFloor {
			pick.TotalScore = m.cfg.ExplorationFloor
		}

		if len(mixed) < limit {
			mixed = append(mixed, pick)
		} else {
			// replace the weakest non-surprise entry from the tail
			replaced := false
			for j := len(mixed) - 1; j >= 0; j-- {
				if !mixed[j].IsSurprise {
					mixed[j] = pick
					replaced = true
					break
				}
			}
			if !replaced {
				break
			}
		}
	}

	return mixed
}
