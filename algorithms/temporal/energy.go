package temporal

import (
	"math"
)

// Energy computes frame-level energy features. The scoring pipeline uses the
// short-time RMS track averaged over the clip.
type Energy struct {
	frameSize  int
	hopSize    int
	sampleRate int
}

// NewEnergy creates a new energy calculator
func NewEnergy(frameSize, hopSize, sampleRate int) *Energy {
	return &Energy{
		frameSize:  frameSize,
		hopSize:    hopSize,
		sampleRate: sampleRate,
	}
}

// ComputeShortTimeEnergy calculates RMS energy for overlapping frames
func (e *Energy) ComputeShortTimeEnergy(signal []float64) []float64 {
	if len(signal) < e.frameSize || e.hopSize <= 0 || e.frameSize <= 0 {
		return []float64{}
	}

	numFrames := (len(signal)-e.frameSize)/e.hopSize + 1
	energies := make([]float64, numFrames)

	for i := range numFrames {
		startIdx := i * e.hopSize
		endIdx := startIdx + e.frameSize

		if endIdx > len(signal) {
			break
		}

		sumSquares := 0.0
		for j := startIdx; j < endIdx; j++ {
			sumSquares += signal[j] * signal[j]
		}
		energies[i] = math.Sqrt(sumSquares / float64(e.frameSize))
	}

	return energies
}

// ComputeMeanRMS calculates the clip-level mean of the short-time RMS track.
// Returns 0 for silent input.
func (e *Energy) ComputeMeanRMS(signal []float64) float64 {
	energies := e.ComputeShortTimeEnergy(signal)
	if len(energies) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, energy := range energies {
		sum += energy
	}
	return sum / float64(len(energies))
}
