package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureModels builds a small but structurally complete model set at the
// given dimensionality: identity scaler, one boosted stump, one bagged stump,
// identity covariance
func fixtureModels(dim int) Models {
	scaler := &ScalingModel{
		FeatureDim: dim,
		Means:      make([]float64, dim),
		Scales:     make([]float64, dim),
	}
	for i := range scaler.Scales {
		scaler.Scales[i] = 1
	}

	return Models{
		Scaler: scaler,
		Boosted: &BoostedEnsemble{
			FeatureDim: dim,
			BaseMargin: -0.2,
			Trees:      []Tree{stump(0, 0.0, -1.5, 1.5)},
		},
		Bagged: &BaggedEnsemble{
			FeatureDim: dim,
			Trees:      []Tree{stump(1, 0.0, 0.2, 0.8)},
		},
		Covariance: identityCovariance(dim),
	}
}

func TestNewEngineValidation(t *testing.T) {
	cfg := DefaultEngineConfig()
	dim := cfg.FeatureDim()

	t.Run("valid", func(t *testing.T) {
		engine, err := NewEngine(cfg, fixtureModels(dim))
		require.NoError(t, err)
		assert.Equal(t, cfg, engine.Config())
	})

	t.Run("missing scaler", func(t *testing.T) {
		models := fixtureModels(dim)
		models.Scaler = nil
		_, err := NewEngine(cfg, models)
		assert.ErrorIs(t, err, ErrConfig)
	})

	t.Run("missing boosted model", func(t *testing.T) {
		models := fixtureModels(dim)
		models.Boosted = nil
		_, err := NewEngine(cfg, models)
		assert.ErrorIs(t, err, ErrConfig)
	})

	t.Run("missing bagged model", func(t *testing.T) {
		models := fixtureModels(dim)
		models.Bagged = nil
		_, err := NewEngine(cfg, models)
		assert.ErrorIs(t, err, ErrConfig)
	})

	t.Run("missing covariance", func(t *testing.T) {
		models := fixtureModels(dim)
		models.Covariance = nil
		_, err := NewEngine(cfg, models)
		assert.ErrorIs(t, err, ErrConfig)
	})

	t.Run("scaler dimension mismatch", func(t *testing.T) {
		models := fixtureModels(dim)
		wrong := fixtureModels(dim + 1)
		models.Scaler = wrong.Scaler
		_, err := NewEngine(cfg, models)
		assert.ErrorIs(t, err, ErrConfig)
	})

	t.Run("covariance dimension mismatch", func(t *testing.T) {
		models := fixtureModels(dim)
		models.Covariance = identityCovariance(dim - 1)
		_, err := NewEngine(cfg, models)
		assert.ErrorIs(t, err, ErrConfig)
	})
}

func TestEngineScoreEndToEnd(t *testing.T) {
	cfg := DefaultEngineConfig()
	engine, err := NewEngine(cfg, fixtureModels(cfg.FeatureDim()))
	require.NoError(t, err)

	samples := sineClip(440, cfg.SampleRate, 1.0)
	result, err := engine.Score(samples, cfg.SampleRate)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, result.SyntheticProbability, 0.0)
	assert.LessOrEqual(t, result.SyntheticProbability, 1.0)
	assert.InDelta(t, 1.0, result.SyntheticProbability+result.HumanProbability, 1e-12)
	assert.InDelta(t, RoundPercent(result.SyntheticProbability), result.SyntheticPercent, 1e-12)
	assert.InDelta(t, RoundPercent(result.HumanProbability), result.HumanPercent, 1e-12)
	assert.Equal(t, TierForProbability(result.SyntheticProbability), result.RiskTier)
	assert.Equal(t, result.RiskTier.Label(), result.RiskTierLabel)
	assert.GreaterOrEqual(t, result.AnomalyDistance, 0.0)
	assert.False(t, result.OutOfDistribution, "flag stays off when no alert threshold is set")
	assert.Len(t, result.Attributions, cfg.FeatureDim())
	assert.Equal(t, "mfcc_0", result.Attributions[0].FeatureName)
}

func TestEngineScoreAttributionConsistency(t *testing.T) {
	cfg := DefaultEngineConfig()
	models := fixtureModels(cfg.FeatureDim())
	engine, err := NewEngine(cfg, models)
	require.NoError(t, err)

	samples := sineClip(330, cfg.SampleRate, 0.75)
	result, err := engine.Score(samples, cfg.SampleRate)
	require.NoError(t, err)

	sum := result.AttributionBaseline
	for _, a := range result.Attributions {
		sum += a.Contribution
	}

	// reconstruct the boosted margin independently
	features, err := NewExtractorMust(t, cfg).Extract(samples, cfg.SampleRate)
	require.NoError(t, err)
	scaled, err := models.Scaler.Transform(features)
	require.NoError(t, err)
	margin, err := models.Boosted.RawMargin(scaled)
	require.NoError(t, err)

	assert.InDelta(t, margin, sum, 1e-9)
}

func TestEngineScoreDeterministic(t *testing.T) {
	cfg := DefaultEngineConfig()
	engine, err := NewEngine(cfg, fixtureModels(cfg.FeatureDim()))
	require.NoError(t, err)

	samples := sineClip(523.25, cfg.SampleRate, 0.5)

	first, err := engine.Score(samples, cfg.SampleRate)
	require.NoError(t, err)
	second, err := engine.Score(samples, cfg.SampleRate)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEngineScoreAnomalyAlertThreshold(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.AnomalyAlertThreshold = 1e-9
	engine, err := NewEngine(cfg, fixtureModels(cfg.FeatureDim()))
	require.NoError(t, err)

	samples := sineClip(440, cfg.SampleRate, 0.5)
	result, err := engine.Score(samples, cfg.SampleRate)
	require.NoError(t, err)

	// a real clip sits some distance from the zero reference, so the tiny
	// threshold must trip the advisory flag without touching the tier
	assert.True(t, result.OutOfDistribution)
	assert.Equal(t, TierForProbability(result.SyntheticProbability), result.RiskTier)
}

func TestEngineScorePropagatesInputErrors(t *testing.T) {
	cfg := DefaultEngineConfig()
	engine, err := NewEngine(cfg, fixtureModels(cfg.FeatureDim()))
	require.NoError(t, err)

	_, err = engine.Score(nil, cfg.SampleRate)
	assert.ErrorIs(t, err, ErrInput)

	_, err = engine.Score(sineClip(440, 16000, 1.0), 16000)
	assert.ErrorIs(t, err, ErrInput)
}

// NewExtractorMust is a test helper that fails the test on construction error
func NewExtractorMust(t *testing.T, cfg EngineConfig) *Extractor {
	t.Helper()
	extractor, err := NewExtractor(cfg)
	require.NoError(t, err)
	return extractor
}
