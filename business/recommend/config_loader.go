package recommend

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// weightsFile is the on-disk override format for scoring weights and
// thresholds. Missing sections keep their defaults.
type weightsFile struct {
	Weights    map[string]map[string]float64 `yaml:"weights"`
	Thresholds map[string]float64            `yaml:"thresholds"`

	VerifiedBonus float64 `yaml:"verified_bonus"`
	PremiumBonus  float64 `yaml:"premium_bonus"`
	BoostFactor   float64 `yaml:"boost_factor"`
}

// LoadWeights overlays cfg with the YAML file at path. Weight vectors are
// validated to sum to 1.0 (±0.001); an invalid vector rejects the whole file
// so a bad deploy never skews scoring silently.
func LoadWeights(cfg Config, path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read weights file: %w", err)
	}

	var wf weightsFile
	if err := yaml.Unmarshal(raw, &wf); err != nil {
		return cfg, fmt.Errorf("parse weights file: %w", err)
	}

	for entityType, vector := range wf.Weights {
		sum := 0.0
		for _, w := range vector {
			if w < 0 {
				return cfg, fmt.Errorf("weights for %q: negative weight", entityType)
			}
			sum += w
		}
		if math.Abs(sum-1.0) > 0.001 {
			return cfg, fmt.Errorf("weights for %q sum to %.3f, want 1.0", entityType, sum)
		}
	}

	for entityType, vector := range wf.Weights {
		cfg.Weights[entityType] = vector
	}
	for entityType, threshold := range wf.Thresholds {
		cfg.Thresholds[entityType] = threshold
	}

	if wf.VerifiedBonus > 0 {
		cfg.VerifiedBonus = wf.VerifiedBonus
	}
	if wf.PremiumBonus > 0 {
		cfg.PremiumBonus = wf.PremiumBonus
	}
	if wf.BoostFactor > 0 {
		cfg.BoostFactor = wf.BoostFactor
	}

	return cfg, nil
}
