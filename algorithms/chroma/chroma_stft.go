package chroma

import (
	"math"

	"github.com/truthlens/truthlens/algorithms/spectral"
)

// ChromaSTFT computes a 12-bin chromagram from an STFT magnitude spectrogram.
// Frequencies are mapped to pitch classes (C through B), octave-folded, with
// each frame normalized to unit energy sum.
type ChromaSTFT struct {
	sampleRate int
	tuningFreq float64 // A4 frequency (default 440 Hz)
	chromaBins int     // Number of chroma bins (always 12)
	minFreq    float64 // Minimum frequency to consider
	maxFreq    float64 // Maximum frequency to consider
}

// NewChromaSTFT creates a new chromagram calculator
func NewChromaSTFT(sampleRate int, tuningFreq float64) *ChromaSTFT {
	return &ChromaSTFT{
		sampleRate: sampleRate,
		tuningFreq: tuningFreq,
		chromaBins: 12,
		minFreq:    80.0,   // Approximate E2
		maxFreq:    8000.0, // High enough for harmonics
	}
}

// NewChromaSTFTDefault creates a chromagram calculator with standard A4=440Hz tuning
func NewChromaSTFTDefault(sampleRate int) *ChromaSTFT {
	return NewChromaSTFT(sampleRate, 440.0)
}

// ComputeFromSTFT converts an already-computed STFT magnitude spectrogram to
// a chromagram. The scoring pipeline computes one STFT pass and shares it
// across all spectral features, so no signal-level entry point is needed.
func (cs *ChromaSTFT) ComputeFromSTFT(stftResult *spectral.STFTResult) [][]float64 {
	if stftResult == nil || stftResult.TimeFrames == 0 {
		return [][]float64{}
	}

	chromagram := make([][]float64, stftResult.TimeFrames)

	// Pre-calculate frequency to chroma bin mapping
	chromaMapping := cs.calculateChromaMapping(stftResult.FreqBins, stftResult.FreqResolution)

	for t := 0; t < stftResult.TimeFrames; t++ {
		chromagram[t] = make([]float64, cs.chromaBins)

		for f := 0; f < stftResult.FreqBins; f++ {
			magnitude := stftResult.Magnitude[t][f]
			chromaBin := chromaMapping[f]

			if chromaBin >= 0 && chromaBin < cs.chromaBins {
				// Use magnitude squared for energy
				chromagram[t][chromaBin] += magnitude * magnitude
			}
		}

		cs.normalizeChromaFrame(chromagram[t])
	}

	return chromagram
}

// ComputeMean calculates the clip-level mean chroma vector across frames
func (cs *ChromaSTFT) ComputeMean(chromagram [][]float64) []float64 {
	meanChroma := make([]float64, cs.chromaBins)
	if len(chromagram) == 0 {
		return meanChroma
	}

	for t := range chromagram {
		for bin := range chromagram[t] {
			meanChroma[bin] += chromagram[t][bin]
		}
	}
	for bin := range meanChroma {
		meanChroma[bin] /= float64(len(chromagram))
	}

	return meanChroma
}

// calculateChromaMapping maps FFT bins to chroma bins
func (cs *ChromaSTFT) calculateChromaMapping(freqBins int, freqResolution float64) []int {
	mapping := make([]int, freqBins)

	for f := range freqBins {
		frequency := float64(f) * freqResolution

		if frequency < cs.minFreq || frequency > cs.maxFreq {
			mapping[f] = -1 // Outside valid range
			continue
		}

		midiNote := cs.frequencyToMIDI(frequency)

		chromaBin := int(math.Round(midiNote)) % 12
		mapping[f] = chromaBin
	}

	return mapping
}

// frequencyToMIDI converts frequency to MIDI note number
// A4 (440 Hz) = MIDI note 69
func (cs *ChromaSTFT) frequencyToMIDI(frequency float64) float64 {
	if frequency <= 0 {
		return 0
	}

	return 69.0 + 12.0*math.Log2(frequency/cs.tuningFreq)
}

// normalizeChromaFrame normalizes a single chroma frame to unit sum.
// Silent frames are left at zero rather than dividing by zero.
func (cs *ChromaSTFT) normalizeChromaFrame(chromaFrame []float64) {
	totalEnergy := 0.0
	for _, energy := range chromaFrame {
		totalEnergy += energy
	}

	if totalEnergy > 1e-10 {
		for i := range chromaFrame {
			chromaFrame[i] /= totalEnergy
		}
	}
}

// GetChromaLabels returns the chroma bin labels
func (cs *ChromaSTFT) GetChromaLabels() []string {
	return []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
}
