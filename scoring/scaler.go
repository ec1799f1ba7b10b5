package scoring

import "math"

// ScalingModel holds the per-dimension standardization transform fitted once
// offline. Immutable at inference time; loaded once per process and shared
// read-only across scoring calls.
type ScalingModel struct {
	FeatureDim int       `json:"feature_dim"`
	Means      []float64 `json:"means"`
	Scales     []float64 `json:"scales"`
}

// Validate checks internal consistency of a loaded scaling model
func (m *ScalingModel) Validate() error {
	if m.FeatureDim <= 0 {
		return configErrorf("scaler: feature dimension must be positive, got %d", m.FeatureDim)
	}
	if len(m.Means) != m.FeatureDim || len(m.Scales) != m.FeatureDim {
		return configErrorf("scaler: means/scales length %d/%d does not match feature dimension %d",
			len(m.Means), len(m.Scales), m.FeatureDim)
	}
	for i, s := range m.Scales {
		if s == 0 {
			return configErrorf("scaler: zero scale at dimension %d", i)
		}
		if !isFinite(s) || !isFinite(m.Means[i]) {
			return configErrorf("scaler: non-finite parameter at dimension %d", i)
		}
	}
	return nil
}

// Transform applies per-dimension standardization: (v[i] - mean[i]) / scale[i].
// A length mismatch is a fatal configuration error, never a silent
// truncation or pad.
func (m *ScalingModel) Transform(v FeatureVector) (ScaledFeatureVector, error) {
	if len(v) != m.FeatureDim {
		return nil, configErrorf("dimension mismatch: feature vector has %d dimensions, scaler expects %d",
			len(v), m.FeatureDim)
	}

	scaled := make(ScaledFeatureVector, len(v))
	for i, val := range v {
		scaled[i] = (val - m.Means[i]) / m.Scales[i]
	}

	for i, val := range scaled {
		if !isFinite(val) {
			return nil, numericErrorf("non-finite value at dimension %d after scaling", i)
		}
	}

	return scaled, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
