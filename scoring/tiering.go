package scoring

import "math"

// Risk tier boundaries, in percent of synthetic probability. Tiering compares
// the rounded-to-percent representation used for display, so a clip shown as
// exactly 40.00% always lands in Tier 2 and 70.00% in Tier 3, with no
// off-by-epsilon flips at the boundaries.
const (
	tierElevatedPercent = 40.0
	tierHighPercent     = 70.0
)

// RoundPercent converts a probability in [0,1] to a percentage rounded to
// two decimals, the representation used for display, tiering and the
// integrity hash
func RoundPercent(p float64) float64 {
	return math.Round(p*10000) / 100
}

// TierForProbability maps a synthetic probability onto its risk tier.
// Total and monotonic over [0,1].
func TierForProbability(syntheticProb float64) RiskTier {
	percent := RoundPercent(syntheticProb)
	switch {
	case percent < tierElevatedPercent:
		return TierLikelyHuman
	case percent < tierHighPercent:
		return TierElevatedRisk
	default:
		return TierHighSynthetic
	}
}
