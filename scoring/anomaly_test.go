package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityCovariance(n int) *CovarianceModel {
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		matrix[i][i] = 1
	}
	return &CovarianceModel{FeatureDim: n, Matrix: matrix}
}

func TestCovarianceModelValidate(t *testing.T) {
	tests := []struct {
		name    string
		model   CovarianceModel
		wantErr bool
	}{
		{"valid identity", *identityCovariance(3), false},
		{"zero dimension", CovarianceModel{FeatureDim: 0}, true},
		{
			"not square",
			CovarianceModel{FeatureDim: 2, Matrix: [][]float64{{1, 0, 0}, {0, 1, 0}}},
			true,
		},
		{
			"not symmetric",
			CovarianceModel{FeatureDim: 2, Matrix: [][]float64{{1, 0.5}, {0.2, 1}}},
			true,
		},
		{
			"non-finite entry",
			CovarianceModel{FeatureDim: 2, Matrix: [][]float64{{1, math.NaN()}, {math.NaN(), 1}}},
			true,
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

func TestAnomalyScorerIdentityCovarianceIsEuclidean(t *testing.T) {
	scorer, err := NewAnomalyScorer(identityCovariance(3))
	require.NoError(t, err)

	d, err := scorer.Distance(ScaledFeatureVector{3, 4, 0})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, d, 1e-9)
}

func TestAnomalyScorerZeroVector(t *testing.T) {
	scorer, err := NewAnomalyScorer(identityCovariance(4))
	require.NoError(t, err)

	d, err := scorer.Distance(ScaledFeatureVector{0, 0, 0, 0})
	require.NoError(t, err)
	assert.Zero(t, d)
}

func TestAnomalyScorerScaledCovariance(t *testing.T) {
	// variance 4 along the first axis halves the distance per unit
	model := &CovarianceModel{
		FeatureDim: 2,
		Matrix:     [][]float64{{4, 0}, {0, 1}},
	}
	scorer, err := NewAnomalyScorer(model)
	require.NoError(t, err)

	d, err := scorer.Distance(ScaledFeatureVector{2, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, d, 1e-9)

	d, err = scorer.Distance(ScaledFeatureVector{0, 2})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, d, 1e-9)
}

func TestAnomalyScorerSingularCovariance(t *testing.T) {
	// rank-deficient: the second axis carries no variance. The pseudo-inverse
	// ignores the null direction instead of failing.
	model := &CovarianceModel{
		FeatureDim: 2,
		Matrix:     [][]float64{{1, 0}, {0, 0}},
	}
	scorer, err := NewAnomalyScorer(model)
	require.NoError(t, err)

	d, err := scorer.Distance(ScaledFeatureVector{3, 100})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, d, 1e-9)
}

func TestAnomalyScorerNonNegative(t *testing.T) {
	model := &CovarianceModel{
		FeatureDim: 3,
		Matrix: [][]float64{
			{2.0, 0.3, -0.1},
			{0.3, 1.5, 0.2},
			{-0.1, 0.2, 0.8},
		},
	}
	scorer, err := NewAnomalyScorer(model)
	require.NoError(t, err)

	inputs := []ScaledFeatureVector{
		{1, 2, 3},
		{-5, 0.1, 2},
		{0.001, -0.001, 0},
	}
	for _, v := range inputs {
		d, err := scorer.Distance(v)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, d, 0.0)
		assert.False(t, math.IsNaN(d))
	}
}

func TestAnomalyScorerDimensionMismatch(t *testing.T) {
	scorer, err := NewAnomalyScorer(identityCovariance(3))
	require.NoError(t, err)

	_, err = scorer.Distance(ScaledFeatureVector{1, 2})
	assert.ErrorIs(t, err, ErrConfig)
}

func TestNewAnomalyScorerNilModel(t *testing.T) {
	_, err := NewAnomalyScorer(nil)
	assert.ErrorIs(t, err, ErrConfig)
}
