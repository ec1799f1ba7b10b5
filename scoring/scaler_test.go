package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalingModelValidate(t *testing.T) {
	tests := []struct {
		name    string
		model   ScalingModel
		wantErr bool
	}{
		{
			name:  "valid",
			model: ScalingModel{FeatureDim: 2, Means: []float64{1, 2}, Scales: []float64{0.5, 2}},
		},
		{
			name:    "zero dimension",
			model:   ScalingModel{FeatureDim: 0},
			wantErr: true,
		},
		{
			name:    "length mismatch",
			model:   ScalingModel{FeatureDim: 3, Means: []float64{1, 2}, Scales: []float64{1, 1, 1}},
			wantErr: true,
		},
		{
			name:    "zero scale",
			model:   ScalingModel{FeatureDim: 2, Means: []float64{0, 0}, Scales: []float64{1, 0}},
			wantErr: true,
		},
		{
			name:    "non-finite mean",
			model:   ScalingModel{FeatureDim: 2, Means: []float64{math.NaN(), 0}, Scales: []float64{1, 1}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.model.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScalingModelTransform(t *testing.T) {
	model := ScalingModel{
		FeatureDim: 3,
		Means:      []float64{10, -2, 0},
		Scales:     []float64{2, 4, 1},
	}

	scaled, err := model.Transform(FeatureVector{14, -2, 5})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, scaled[0], 1e-12)
	assert.InDelta(t, 0.0, scaled[1], 1e-12)
	assert.InDelta(t, 5.0, scaled[2], 1e-12)
}

func TestScalingModelTransformDimensionMismatch(t *testing.T) {
	model := ScalingModel{FeatureDim: 3, Means: []float64{0, 0, 0}, Scales: []float64{1, 1, 1}}

	_, err := model.Transform(FeatureVector{1, 2})
	assert.ErrorIs(t, err, ErrConfig)
}

func TestScalingModelTransformNonFinite(t *testing.T) {
	model := ScalingModel{FeatureDim: 2, Means: []float64{0, 0}, Scales: []float64{1, 1}}

	_, err := model.Transform(FeatureVector{1, math.Inf(1)})
	assert.ErrorIs(t, err, ErrNumeric)
	// numeric errors are a subclass of input errors
	assert.ErrorIs(t, err, ErrInput)
}
