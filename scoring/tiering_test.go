package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundPercent(t *testing.T) {
	tests := []struct {
		name     string
		prob     float64
		expected float64
	}{
		{"zero", 0.0, 0.0},
		{"one", 1.0, 100.0},
		{"half", 0.5, 50.0},
		{"rounds down", 0.123449, 12.34},
		{"rounds up", 0.123451, 12.35},
		{"two decimals exact", 0.4, 40.0},
		{"just below boundary", 0.39994, 39.99},
		{"rounds onto boundary", 0.39996, 40.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, RoundPercent(tt.prob), 1e-9)
		})
	}
}

func TestTierForProbability(t *testing.T) {
	tests := []struct {
		name     string
		prob     float64
		expected RiskTier
	}{
		{"zero", 0.0, TierLikelyHuman},
		{"well below elevated", 0.25, TierLikelyHuman},
		{"just below elevated", 0.3999, TierLikelyHuman},
		{"exactly elevated boundary", 0.40, TierElevatedRisk},
		{"rounds onto elevated boundary", 0.399999, TierElevatedRisk},
		{"mid elevated", 0.55, TierElevatedRisk},
		{"just below high", 0.6999, TierElevatedRisk},
		{"exactly high boundary", 0.70, TierHighSynthetic},
		{"rounds onto high boundary", 0.699999, TierHighSynthetic},
		{"well above high", 0.95, TierHighSynthetic},
		{"one", 1.0, TierHighSynthetic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TierForProbability(tt.prob))
		})
	}
}

func TestTierForProbabilityMonotonic(t *testing.T) {
	prev := TierLikelyHuman
	for p := 0.0; p <= 1.0; p += 0.001 {
		tier := TierForProbability(p)
		assert.GreaterOrEqual(t, int(tier), int(prev), "tier regressed at probability %v", p)
		prev = tier
	}
}

func TestRiskTierLabels(t *testing.T) {
	assert.Equal(t, "Tier 1 - Likely Human Voice", TierLikelyHuman.Label())
	assert.Equal(t, "Tier 2 - Elevated Authenticity Risk", TierElevatedRisk.Label())
	assert.Equal(t, "Tier 3 - High Probability Synthetic Voice", TierHighSynthetic.Label())
	assert.Equal(t, "Unknown", RiskTier(0).Label())
}
