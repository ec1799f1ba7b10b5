package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sineClip(freq float64, sampleRate int, duration float64) []float64 {
	n := int(float64(sampleRate) * duration)
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return samples
}

func TestExtractorProducesFullVector(t *testing.T) {
	cfg := DefaultEngineConfig()
	extractor, err := NewExtractor(cfg)
	require.NoError(t, err)

	samples := sineClip(440, cfg.SampleRate, 1.0)
	features, err := extractor.Extract(samples, cfg.SampleRate)
	require.NoError(t, err)

	assert.Len(t, features, cfg.FeatureDim())
	for i, v := range features {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "feature %d is not finite", i)
	}
}

func TestExtractorDeterministic(t *testing.T) {
	cfg := DefaultEngineConfig()
	extractor, err := NewExtractor(cfg)
	require.NoError(t, err)

	samples := sineClip(220, cfg.SampleRate, 0.5)

	first, err := extractor.Extract(samples, cfg.SampleRate)
	require.NoError(t, err)
	second, err := extractor.Extract(samples, cfg.SampleRate)
	require.NoError(t, err)

	assert.Equal(t, first, second, "extraction must be bit-identical across runs")
}

func TestExtractorSilentClip(t *testing.T) {
	cfg := DefaultEngineConfig()
	extractor, err := NewExtractor(cfg)
	require.NoError(t, err)

	samples := make([]float64, cfg.SampleRate/2)
	features, err := extractor.Extract(samples, cfg.SampleRate)
	require.NoError(t, err, "silence is a valid input, not an error")

	require.Len(t, features, cfg.FeatureDim())
	for i, v := range features {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "feature %d is not finite for silence", i)
	}

	// RMS of silence is zero
	assert.Zero(t, features[cfg.FeatureDim()-1])
}

func TestExtractorRejectsBadInput(t *testing.T) {
	cfg := DefaultEngineConfig()
	extractor, err := NewExtractor(cfg)
	require.NoError(t, err)

	t.Run("empty clip", func(t *testing.T) {
		_, err := extractor.Extract(nil, cfg.SampleRate)
		assert.ErrorIs(t, err, ErrInput)
	})

	t.Run("sample rate mismatch", func(t *testing.T) {
		_, err := extractor.Extract(sineClip(440, 44100, 1.0), 44100)
		assert.ErrorIs(t, err, ErrInput)
	})

	t.Run("clip shorter than one window", func(t *testing.T) {
		_, err := extractor.Extract(make([]float64, cfg.WindowSize-1), cfg.SampleRate)
		assert.ErrorIs(t, err, ErrInput)
	})
}

func TestExtractorFeatureOrdering(t *testing.T) {
	cfg := DefaultEngineConfig()
	names := cfg.FeatureNames()

	require.Len(t, names, cfg.FeatureDim())
	assert.Equal(t, "mfcc_0", names[0])
	assert.Equal(t, "mfcc_39", names[39])
	assert.Equal(t, "chroma_0", names[40])
	assert.Equal(t, "chroma_11", names[51])
	assert.Equal(t, "contrast_0", names[52])
	assert.Equal(t, "contrast_5", names[57])
	assert.Equal(t, "rolloff", names[58])
	assert.Equal(t, "centroid", names[59])
	assert.Equal(t, "zcr", names[60])
	assert.Equal(t, "rms", names[61])
}

func TestNewExtractorRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.SampleRate = 0

	_, err := NewExtractor(cfg)
	assert.ErrorIs(t, err, ErrConfig)
}
