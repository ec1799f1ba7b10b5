package spectral

import (
	"math"
	"sort"
)

// SpectralContrast computes spectral contrast features: the difference in
// energy between peaks and valleys within logarithmically spaced bands.
// Synthetic voices tend to show flatter contrast in upper bands.
type SpectralContrast struct {
	sampleRate  int
	numBands    int
	freqBins    []float64
	bandEdges   []int
	initialized bool
}

// NewSpectralContrast creates a new spectral contrast calculator
func NewSpectralContrast(sampleRate int, numBands int) *SpectralContrast {
	return &SpectralContrast{
		sampleRate: sampleRate,
		numBands:   numBands,
	}
}

// Compute calculates spectral contrast for a single magnitude spectrum
func (sc *SpectralContrast) Compute(magnitudeSpectrum []float64) []float64 {
	if len(magnitudeSpectrum) == 0 {
		return []float64{}
	}

	if !sc.initialized || len(sc.freqBins) != len(magnitudeSpectrum) {
		sc.initializeBands(len(magnitudeSpectrum))
	}

	contrast := make([]float64, sc.numBands)

	for band := 0; band < sc.numBands; band++ {
		startBin := sc.bandEdges[band]
		endBin := sc.bandEdges[band+1]
		endBin = min(endBin, len(magnitudeSpectrum))

		if startBin >= endBin {
			contrast[band] = 0.0
			continue
		}

		bandSpectrum := magnitudeSpectrum[startBin:endBin]
		contrast[band] = sc.calculateBandContrast(bandSpectrum)
	}

	return contrast
}

// ComputeFrames processes multiple frames efficiently
func (sc *SpectralContrast) ComputeFrames(spectrogram [][]float64) [][]float64 {
	if len(spectrogram) == 0 {
		return [][]float64{}
	}

	contrasts := make([][]float64, len(spectrogram))

	for t, magnitudeSpectrum := range spectrogram {
		contrasts[t] = sc.Compute(magnitudeSpectrum)
	}

	return contrasts
}

// calculateBandContrast calculates peak/valley contrast for a frequency band
func (sc *SpectralContrast) calculateBandContrast(bandSpectrum []float64) float64 {
	if len(bandSpectrum) == 0 {
		return 0.0
	}

	// Convert to power spectrum
	powerSpectrum := make([]float64, len(bandSpectrum))
	for i, mag := range bandSpectrum {
		powerSpectrum[i] = mag * mag
	}

	sortedPower := make([]float64, len(powerSpectrum))
	copy(sortedPower, powerSpectrum)
	sort.Float64s(sortedPower)

	// Bottom 20% for valleys, top 20% for peaks
	valleyCount := int(0.2 * float64(len(sortedPower)))
	peakCount := int(0.2 * float64(len(sortedPower)))

	if valleyCount == 0 {
		valleyCount = 1
	}
	if peakCount == 0 {
		peakCount = 1
	}

	valleyEnergy := 0.0
	for i := 0; i < valleyCount; i++ {
		valleyEnergy += sortedPower[i]
	}
	valleyEnergy /= float64(valleyCount)

	peakEnergy := 0.0
	startIdx := len(sortedPower) - peakCount
	for i := startIdx; i < len(sortedPower); i++ {
		peakEnergy += sortedPower[i]
	}
	peakEnergy /= float64(peakCount)

	// Contrast in dB, with a floor so silent bands stay finite
	if valleyEnergy <= 0 {
		valleyEnergy = 1e-10
	}
	if peakEnergy <= 0 {
		return 0.0
	}

	return 10.0 * math.Log10(peakEnergy/valleyEnergy)
}

// Initialize pre-calculates band boundaries for the given spectrum size.
// Calling it up front makes subsequent Compute calls read-only and safe for
// concurrent use.
func (sc *SpectralContrast) Initialize(numBins int) {
	sc.initializeBands(numBins)
}

// initializeBands creates logarithmically spaced frequency band boundaries
func (sc *SpectralContrast) initializeBands(numBins int) {
	sc.freqBins = make([]float64, numBins)
	sc.bandEdges = make([]int, sc.numBands+1)

	nyquist := float64(sc.sampleRate) / 2.0
	for i := range numBins {
		sc.freqBins[i] = float64(i) * nyquist / float64(numBins-1)
	}

	minFreq := 200.0
	maxFreq := nyquist

	if maxFreq <= minFreq {
		maxFreq = minFreq * 2
	}

	logMinFreq := math.Log10(minFreq)
	logMaxFreq := math.Log10(maxFreq)
	logStep := (logMaxFreq - logMinFreq) / float64(sc.numBands)

	for i := 0; i <= sc.numBands; i++ {
		logFreq := logMinFreq + float64(i)*logStep
		freq := math.Pow(10.0, logFreq)

		binIdx := int(freq * float64(numBins-1) / nyquist)
		if binIdx >= numBins {
			binIdx = numBins - 1
		}
		if binIdx < 0 {
			binIdx = 0
		}

		sc.bandEdges[i] = binIdx
	}

	// Ensure monotonic increasing band edges
	for i := 1; i <= sc.numBands; i++ {
		if sc.bandEdges[i] <= sc.bandEdges[i-1] {
			sc.bandEdges[i] = sc.bandEdges[i-1] + 1
		}
	}

	sc.initialized = true
}

// GetNumBands returns the configured number of contrast bands
func (sc *SpectralContrast) GetNumBands() int {
	return sc.numBands
}
