package scoring

// FeatureVector is the ordered, fixed-length acoustic descriptor extracted
// from one clip: 40 MFCC means, 12 chroma means, 6 spectral contrast means,
// then rolloff, centroid, zero-crossing rate and RMS means (62 dimensions in
// the default configuration). Its length must match the dimensionality the
// persisted models were trained with.
type FeatureVector []float64

// ScaledFeatureVector is a FeatureVector after per-dimension standardization.
// Same length and ordering.
type ScaledFeatureVector []float64

// RiskTier is the ordinal bucketing of the synthetic probability
type RiskTier int

const (
	TierLikelyHuman RiskTier = iota + 1
	TierElevatedRisk
	TierHighSynthetic
)

// Label returns the human-readable tier label used in reports. The label is
// part of the integrity hash input, so it is fixed.
func (t RiskTier) Label() string {
	switch t {
	case TierLikelyHuman:
		return "Tier 1 - Likely Human Voice"
	case TierElevatedRisk:
		return "Tier 2 - Elevated Authenticity Risk"
	case TierHighSynthetic:
		return "Tier 3 - High Probability Synthetic Voice"
	default:
		return "Unknown"
	}
}

func (t RiskTier) String() string {
	return t.Label()
}

// FeatureAttribution is one feature's additive contribution to the boosted
// model's raw margin for a specific input
type FeatureAttribution struct {
	FeatureIndex int     `json:"feature_index"`
	FeatureName  string  `json:"feature_name,omitempty"`
	Contribution float64 `json:"contribution"`
}

// ScoringResult is the full assessment for one clip. The anomaly distance is
// a diagnostic signal only: it never feeds into the probability or the tier.
type ScoringResult struct {
	SyntheticProbability float64              `json:"synthetic_probability"` // in [0,1]
	HumanProbability     float64              `json:"human_probability"`     // 1 - synthetic
	SyntheticPercent     float64              `json:"synthetic_percent"`     // rounded to 2 decimals
	HumanPercent         float64              `json:"human_percent"`         // rounded to 2 decimals
	AnomalyDistance      float64              `json:"anomaly_distance"`      // Mahalanobis, >= 0
	RiskTier             RiskTier             `json:"risk_tier"`
	RiskTierLabel        string               `json:"risk_tier_label"`
	OutOfDistribution    bool                 `json:"out_of_distribution"` // advisory flag, see EngineConfig.AnomalyAlertThreshold
	Attributions         []FeatureAttribution `json:"feature_attributions"`
	AttributionBaseline  float64              `json:"attribution_baseline"` // expected margin; baseline + sum(contributions) = raw margin
}
