package spectral

import (
	"gonum.org/v1/gonum/stat"
)

// ZeroCrossingRate calculates zero crossing rate over framed audio.
// High ZCR indicates fricatives/unvoiced speech, low ZCR indicates voiced speech.
type ZeroCrossingRate struct {
	sampleRate int
	frameSize  int
	hopSize    int
}

// NewZeroCrossingRate creates a new zero crossing rate calculator
func NewZeroCrossingRate(sampleRate int) *ZeroCrossingRate {
	return &ZeroCrossingRate{
		sampleRate: sampleRate,
		frameSize:  2048,
		hopSize:    512,
	}
}

// NewZeroCrossingRateWithParams creates a calculator with custom framing
func NewZeroCrossingRateWithParams(sampleRate, frameSize, hopSize int) *ZeroCrossingRate {
	return &ZeroCrossingRate{
		sampleRate: sampleRate,
		frameSize:  frameSize,
		hopSize:    hopSize,
	}
}

// ComputeNormalized calculates normalized ZCR (0-1 range) for a single frame:
// the fraction of adjacent sample pairs with a sign change
func (zcr *ZeroCrossingRate) ComputeNormalized(frame []float64) float64 {
	if len(frame) < 2 {
		return 0.0
	}

	crossings := 0
	for i := 1; i < len(frame); i++ {
		if (frame[i-1] >= 0 && frame[i] < 0) || (frame[i-1] < 0 && frame[i] >= 0) {
			crossings++
		}
	}

	maxCrossings := len(frame) - 1
	return float64(crossings) / float64(maxCrossings)
}

// ComputeFramesNormalized calculates normalized ZCR for overlapping frames
func (zcr *ZeroCrossingRate) ComputeFramesNormalized(signal []float64) []float64 {
	if len(signal) < zcr.frameSize {
		return []float64{}
	}

	numFrames := (len(signal)-zcr.frameSize)/zcr.hopSize + 1
	zcrValues := make([]float64, numFrames)

	for i := range numFrames {
		startIdx := i * zcr.hopSize
		endIdx := startIdx + zcr.frameSize

		if endIdx > len(signal) {
			break
		}

		zcrValues[i] = zcr.ComputeNormalized(signal[startIdx:endIdx])
	}

	return zcrValues
}

// ComputeMean calculates the clip-level mean ZCR using gonum
func (zcr *ZeroCrossingRate) ComputeMean(signal []float64) float64 {
	zcrValues := zcr.ComputeFramesNormalized(signal)
	if len(zcrValues) == 0 {
		return 0.0
	}
	return stat.Mean(zcrValues, nil)
}
