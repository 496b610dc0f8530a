//go:build !integration

package recommend

import (
	"os"
	"path/filepath"
	"testing"

	"creatorMarket/domain"
)

func writeWeights(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weights.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadWeightsOverlay(t *testing.T) {
	path := writeWeights(t, `
weights:
  creator:
    category_match: 0.5
    geo_match: 0.2
    performance: 0.3
thresholds:
  creator: 0.40
boost_factor: 1.5
`)

	cfg, err := LoadWeights(DefaultConfig(), path)
	if err != nil {
		t.Fatalf("LoadWeights: %v", err)
	}

	if cfg.Weights[domain.EntityCreator][FeatureCategoryMatch] != 0.5 {
		t.Errorf("creator weights not overlaid: %v", cfg.Weights[domain.EntityCreator])
	}
	// untouched types keep defaults
	if cfg.Weights[domain.EntityContent][FeatureCategoryMatch] != 0.35 {
		t.Errorf("content weights changed: %v", cfg.Weights[domain.EntityContent])
	}
	if cfg.Thresholds[domain.EntityCreator] != 0.40 {
		t.Errorf("threshold = %v, want 0.40", cfg.Thresholds[domain.EntityCreator])
	}
	if cfg.BoostFactor != 1.5 {
		t.Errorf("boost factor = %v, want 1.5", cfg.BoostFactor)
	}
}

func TestLoadWeightsRejectsBadSum(t *testing.T) {
	path := writeWeights(t, `
weights:
  creator:
    category_match: 0.9
    geo_match: 0.5
`)

	if _, err := LoadWeights(DefaultConfig(), path); err == nil {
		t.Error("weights summing to 1.4 must be rejected")
	}
}

func TestLoadWeightsRejectsNegative(t *testing.T) {
	path := writeWeights(t, `
weights:
  creator:
    category_match: 1.5
    geo_match: -0.5
`)

	if _, err := LoadWeights(DefaultConfig(), path); err == nil {
		t.Error("negative weights must be rejected")
	}
}

func TestLoadWeightsMissingFile(t *testing.T) {
	if _, err := LoadWeights(DefaultConfig(), "/nonexistent/weights.yaml"); err == nil {
		t.Error("missing file must be an error")
	}
}

func TestDefaultWeightVectorsSumToOne(t *testing.T) {
	for entityType, vector := range defaultWeights() {
		sum := 0.0
		for _, w := range vector {
			sum += w
		}
		if sum < 0.999 || sum > 1.001 {
			t.Errorf("%s weights sum to %v, want 1.0", entityType, sum)
		}
	}
}
