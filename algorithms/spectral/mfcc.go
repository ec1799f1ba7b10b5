package spectral

import (
	"fmt"
	"math"
)

// MFCC computes Mel-Frequency Cepstral Coefficients, the backbone of the
// authenticity feature vector
type MFCC struct {
	numCoefficients int
	numMelFilters   int
	sampleRate      int
	lowFreq         float64
	highFreq        float64

	melScale    *MelScale
	filterBank  [][]float64
	dctMatrix   [][]float64
	initialized bool
}

// MFCCParams contains parameters for MFCC computation
type MFCCParams struct {
	NumCoefficients int     `json:"num_coefficients"` // Number of MFCC coefficients
	NumMelFilters   int     `json:"num_mel_filters"`  // Number of mel filter bank filters
	LowFreq         float64 `json:"low_freq"`         // Low frequency bound (default: 0)
	HighFreq        float64 `json:"high_freq"`        // High frequency bound (default: sampleRate/2)
}

// NewMFCC creates a new MFCC computer. The filter bank must have at least as
// many filters as requested coefficients; NumMelFilters defaults accordingly.
func NewMFCC(sampleRate, numCoefficients int) *MFCC {
	params := MFCCParams{
		NumCoefficients: numCoefficients,
		NumMelFilters:   128,
		LowFreq:         0.0,
		HighFreq:        float64(sampleRate) / 2.0,
	}
	return NewMFCCWithParams(sampleRate, params)
}

// NewMFCCWithParams creates a new MFCC computer with custom parameters
func NewMFCCWithParams(sampleRate int, params MFCCParams) *MFCC {
	if params.NumCoefficients <= 0 {
		params.NumCoefficients = 13
	}
	if params.NumMelFilters <= 0 {
		params.NumMelFilters = 128
	}
	if params.NumMelFilters < params.NumCoefficients {
		params.NumMelFilters = params.NumCoefficients
	}
	if params.HighFreq <= 0 {
		params.HighFreq = float64(sampleRate) / 2.0
	}

	return &MFCC{
		numCoefficients: params.NumCoefficients,
		numMelFilters:   params.NumMelFilters,
		sampleRate:      sampleRate,
		lowFreq:         params.LowFreq,
		highFreq:        params.HighFreq,
		melScale:        NewMelScale(),
	}
}

// Initialize prepares the MFCC computer for the given FFT size
func (mfcc *MFCC) Initialize(fftSize int) error {
	if fftSize <= 0 {
		return fmt.Errorf("invalid FFT size: %d", fftSize)
	}

	mfcc.filterBank = mfcc.melScale.CreateMelFilterBank(
		mfcc.numMelFilters,
		fftSize,
		mfcc.sampleRate,
		mfcc.lowFreq,
		mfcc.highFreq,
	)

	if len(mfcc.filterBank) == 0 {
		return fmt.Errorf("failed to create mel filter bank")
	}

	mfcc.createDCTMatrix()

	mfcc.initialized = true
	return nil
}

// Compute calculates MFCC coefficients from a magnitude spectrum
func (mfcc *MFCC) Compute(magnitudeSpectrum []float64) ([]float64, error) {
	if len(magnitudeSpectrum) == 0 {
		return nil, fmt.Errorf("empty magnitude spectrum")
	}

	if !mfcc.initialized {
		// Auto-initialize based on spectrum size
		fftSize := (len(magnitudeSpectrum) - 1) * 2
		if err := mfcc.Initialize(fftSize); err != nil {
			return nil, fmt.Errorf("failed to initialize MFCC: %w", err)
		}
	}

	// Convert to power spectrum
	powerSpectrum := make([]float64, len(magnitudeSpectrum))
	for i, mag := range magnitudeSpectrum {
		powerSpectrum[i] = mag * mag
	}

	melSpectrum := mfcc.melScale.ApplyFilterBank(powerSpectrum, mfcc.filterBank)

	// Apply logarithm with floor to avoid log(0) on silent frames
	logMelSpectrum := make([]float64, len(melSpectrum))
	for i, mel := range melSpectrum {
		if mel > 0 {
			logMelSpectrum[i] = math.Log(mel)
		} else {
			logMelSpectrum[i] = math.Log(1e-10)
		}
	}

	return mfcc.applyDCT(logMelSpectrum), nil
}

// ComputeFrames processes multiple frames of magnitude spectra
func (mfcc *MFCC) ComputeFrames(spectrogram [][]float64) ([][]float64, error) {
	if len(spectrogram) == 0 {
		return [][]float64{}, nil
	}

	if !mfcc.initialized {
		fftSize := (len(spectrogram[0]) - 1) * 2
		if err := mfcc.Initialize(fftSize); err != nil {
			return nil, fmt.Errorf("failed to initialize MFCC: %w", err)
		}
	}

	mfccFrames := make([][]float64, len(spectrogram))

	for t, magnitudeSpectrum := range spectrogram {
		coeffs, err := mfcc.Compute(magnitudeSpectrum)
		if err != nil {
			return nil, fmt.Errorf("failed to compute MFCC for frame %d: %w", t, err)
		}
		mfccFrames[t] = coeffs
	}

	return mfccFrames, nil
}

// createDCTMatrix creates the Discrete Cosine Transform matrix (DCT-II,
// orthonormal)
func (mfcc *MFCC) createDCTMatrix() {
	mfcc.dctMatrix = make([][]float64, mfcc.numCoefficients)

	for k := 0; k < mfcc.numCoefficients; k++ {
		mfcc.dctMatrix[k] = make([]float64, mfcc.numMelFilters)

		for n := 0; n < mfcc.numMelFilters; n++ {
			mfcc.dctMatrix[k][n] = math.Cos(math.Pi * float64(k) * (float64(n) + 0.5) / float64(mfcc.numMelFilters))

			if k == 0 {
				mfcc.dctMatrix[k][n] *= math.Sqrt(1.0 / float64(mfcc.numMelFilters))
			} else {
				mfcc.dctMatrix[k][n] *= math.Sqrt(2.0 / float64(mfcc.numMelFilters))
			}
		}
	}
}

// applyDCT applies the Discrete Cosine Transform
func (mfcc *MFCC) applyDCT(logMelSpectrum []float64) []float64 {
	mfccCoeffs := make([]float64, mfcc.numCoefficients)

	for k := 0; k < mfcc.numCoefficients; k++ {
		sum := 0.0
		for n := 0; n < len(logMelSpectrum) && n < len(mfcc.dctMatrix[k]); n++ {
			sum += logMelSpectrum[n] * mfcc.dctMatrix[k][n]
		}
		mfccCoeffs[k] = sum
	}

	return mfccCoeffs
}

// GetParams returns the current MFCC parameters
func (mfcc *MFCC) GetParams() MFCCParams {
	return MFCCParams{
		NumCoefficients: mfcc.numCoefficients,
		NumMelFilters:   mfcc.numMelFilters,
		LowFreq:         mfcc.lowFreq,
		HighFreq:        mfcc.highFreq,
	}
}
