package scoring

import (
	"github.com/truthlens/truthlens/algorithms/chroma"
	"github.com/truthlens/truthlens/algorithms/common"
	"github.com/truthlens/truthlens/algorithms/spectral"
	"github.com/truthlens/truthlens/algorithms/temporal"
	"github.com/truthlens/truthlens/algorithms/windowing"
	"github.com/truthlens/truthlens/logging"
)

// Extractor turns a decoded mono clip into the fixed-length feature vector.
// Extraction is a pure function of the sample sequence and sample rate: no
// randomness, no wall-clock dependence. A constructed Extractor is immutable
// and safe for concurrent use.
type Extractor struct {
	cfg      EngineConfig
	stft     *spectral.STFT
	window   *windowing.Hann
	mfcc     *spectral.MFCC
	chroma   *chroma.ChromaSTFT
	contrast *spectral.SpectralContrast
	rolloff  *spectral.SpectralRolloff
	centroid *spectral.SpectralCentroid
	zcr      *spectral.ZeroCrossingRate
	energy   *temporal.Energy
	logger   logging.Logger
}

// NewExtractor creates a feature extractor for the given configuration.
// All frame-size dependent state is initialized here so that Extract never
// mutates the extractor.
func NewExtractor(cfg EngineConfig) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mfcc := spectral.NewMFCCWithParams(cfg.SampleRate, spectral.MFCCParams{
		NumCoefficients: cfg.MFCCCoefficients,
		NumMelFilters:   cfg.MelFilters,
	})
	if err := mfcc.Initialize(cfg.WindowSize); err != nil {
		return nil, configErrorf("mfcc setup failed: %v", err)
	}

	freqBins := cfg.WindowSize/2 + 1

	contrast := spectral.NewSpectralContrast(cfg.SampleRate, cfg.ContrastBands)
	contrast.Initialize(freqBins)

	rolloff := spectral.NewSpectralRolloff(cfg.SampleRate)
	rolloff.Initialize(freqBins)

	centroid := spectral.NewSpectralCentroid(cfg.SampleRate)
	centroid.Initialize(freqBins)

	return &Extractor{
		cfg:      cfg,
		stft:     spectral.NewSTFT(),
		window:   windowing.NewHann(cfg.WindowSize, false),
		mfcc:     mfcc,
		chroma:   chroma.NewChromaSTFTDefault(cfg.SampleRate),
		contrast: contrast,
		rolloff:  rolloff,
		centroid: centroid,
		zcr:      spectral.NewZeroCrossingRateWithParams(cfg.SampleRate, cfg.WindowSize, cfg.HopSize),
		energy:   temporal.NewEnergy(cfg.WindowSize, cfg.HopSize, cfg.SampleRate),
		logger: logging.WithFields(logging.Fields{
			"component": "feature_extractor",
		}),
	}, nil
}

// Extract computes the feature vector for a decoded mono clip: MFCC means,
// chroma means, spectral contrast means, then rolloff, centroid,
// zero-crossing rate and RMS means, concatenated in that fixed order.
func (e *Extractor) Extract(samples []float64, sampleRate int) (FeatureVector, error) {
	if len(samples) == 0 {
		return nil, inputErrorf("empty audio: no samples")
	}
	if sampleRate != e.cfg.SampleRate {
		return nil, inputErrorf("sample rate %d does not match engine rate %d; resample before scoring", sampleRate, e.cfg.SampleRate)
	}
	if len(samples) < e.cfg.WindowSize {
		return nil, inputErrorf("clip too short: %d samples, need at least %d for one analysis window", len(samples), e.cfg.WindowSize)
	}

	// One STFT pass shared by all spectral features
	stftResult, err := e.stft.ComputeWithWindow(samples, e.cfg.WindowSize, e.cfg.HopSize, sampleRate, e.window)
	if err != nil {
		return nil, inputErrorf("spectral analysis failed: %v", err)
	}

	features := make(FeatureVector, 0, e.cfg.FeatureDim())

	// MFCC: frame-wise coefficients, time-averaged per coefficient
	mfccFrames, err := e.mfcc.ComputeFrames(stftResult.Magnitude)
	if err != nil {
		return nil, inputErrorf("mfcc computation failed: %v", err)
	}
	features = append(features, meanPerColumn(mfccFrames, e.cfg.MFCCCoefficients)...)

	// Chroma: 12 pitch-class energies, time-averaged
	chromagram := e.chroma.ComputeFromSTFT(stftResult)
	features = append(features, e.chroma.ComputeMean(chromagram)...)

	// Spectral contrast: per-band peak/valley spread, time-averaged
	contrastFrames := e.contrast.ComputeFrames(stftResult.Magnitude)
	features = append(features, meanPerColumn(contrastFrames, e.cfg.ContrastBands)...)

	// Scalar statistics
	rolloffs := e.rolloff.ComputeFrames(stftResult.Magnitude, e.cfg.RolloffThreshold)
	features = append(features, common.Mean(rolloffs))

	centroids := e.centroid.ComputeFrames(stftResult.Magnitude)
	features = append(features, common.Mean(centroids))

	features = append(features, e.zcr.ComputeMean(samples))
	features = append(features, e.energy.ComputeMeanRMS(samples))

	if len(features) != e.cfg.FeatureDim() {
		return nil, configErrorf("extracted %d features, expected %d", len(features), e.cfg.FeatureDim())
	}

	// Fail fast rather than hand a poisoned vector downstream
	for i, v := range features {
		if !isFinite(v) {
			return nil, numericErrorf("non-finite value at feature %d (%s)", i, e.cfg.FeatureNames()[i])
		}
	}

	e.logger.Debug("features extracted", logging.Fields{
		"samples":  len(samples),
		"frames":   stftResult.TimeFrames,
		"features": len(features),
	})

	return features, nil
}

// Config returns the extractor's configuration
func (e *Extractor) Config() EngineConfig {
	return e.cfg
}

// meanPerColumn averages frame-wise feature rows into one value per column
func meanPerColumn(frames [][]float64, numColumns int) []float64 {
	means := make([]float64, numColumns)
	if len(frames) == 0 {
		return means
	}

	counts := make([]int, numColumns)
	for _, frame := range frames {
		for col := 0; col < numColumns && col < len(frame); col++ {
			means[col] += frame[col]
			counts[col]++
		}
	}
	for col := range means {
		if counts[col] > 0 {
			means[col] /= float64(counts[col])
		}
	}

	return means
}
