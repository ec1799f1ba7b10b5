package scoring

import "fmt"

// EngineConfig holds the acoustic analysis parameters. The defaults mirror
// the configuration the persisted models were trained with; changing any
// dimension-bearing field requires retrained artifacts.
type EngineConfig struct {
	SampleRate       int     `json:"sample_rate" yaml:"sample_rate"`
	WindowSize       int     `json:"window_size" yaml:"window_size"`
	HopSize          int     `json:"hop_size" yaml:"hop_size"`
	MFCCCoefficients int     `json:"mfcc_coefficients" yaml:"mfcc_coefficients"`
	MelFilters       int     `json:"mel_filters" yaml:"mel_filters"`
	ChromaBins       int     `json:"chroma_bins" yaml:"chroma_bins"`
	ContrastBands    int     `json:"contrast_bands" yaml:"contrast_bands"`
	RolloffThreshold float64 `json:"rolloff_threshold" yaml:"rolloff_threshold"`

	// AnomalyAlertThreshold marks results with anomaly distance at or above
	// this value as out-of-distribution. Zero disables the flag. The flag is
	// advisory only and never overrides the risk tier.
	AnomalyAlertThreshold float64 `json:"anomaly_alert_threshold" yaml:"anomaly_alert_threshold"`
}

// DefaultEngineConfig returns the reference configuration (62 feature
// dimensions at 22050 Hz)
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		SampleRate:            22050,
		WindowSize:            2048,
		HopSize:               512,
		MFCCCoefficients:      40,
		MelFilters:            128,
		ChromaBins:            12,
		ContrastBands:         6,
		RolloffThreshold:      0.85,
		AnomalyAlertThreshold: 0,
	}
}

// FeatureDim returns the feature vector length this configuration produces:
// MFCC + chroma + contrast means plus the four scalar statistics (rolloff,
// centroid, zero-crossing rate, RMS)
func (c EngineConfig) FeatureDim() int {
	return c.MFCCCoefficients + c.ChromaBins + c.ContrastBands + 4
}

// Validate checks the analysis parameters
func (c EngineConfig) Validate() error {
	if c.SampleRate <= 0 {
		return configErrorf("sample rate must be positive, got %d", c.SampleRate)
	}
	if c.WindowSize <= 0 || c.HopSize <= 0 {
		return configErrorf("window size and hop size must be positive, got %d/%d", c.WindowSize, c.HopSize)
	}
	if c.MFCCCoefficients <= 0 || c.ContrastBands <= 0 {
		return configErrorf("feature counts must be positive")
	}
	// chroma is defined over the 12 pitch classes
	if c.ChromaBins != 12 {
		return configErrorf("chroma bins must be 12, got %d", c.ChromaBins)
	}
	if c.RolloffThreshold <= 0 || c.RolloffThreshold > 1 {
		return configErrorf("rolloff threshold must be in (0,1], got %v", c.RolloffThreshold)
	}
	if c.AnomalyAlertThreshold < 0 {
		return configErrorf("anomaly alert threshold must not be negative, got %v", c.AnomalyAlertThreshold)
	}
	return nil
}

// FeatureNames returns display names for every feature index, in vector order
func (c EngineConfig) FeatureNames() []string {
	names := make([]string, 0, c.FeatureDim())
	for i := range c.MFCCCoefficients {
		names = append(names, fmt.Sprintf("mfcc_%d", i))
	}
	for i := range c.ChromaBins {
		names = append(names, fmt.Sprintf("chroma_%d", i))
	}
	for i := range c.ContrastBands {
		names = append(names, fmt.Sprintf("contrast_%d", i))
	}
	names = append(names, "rolloff", "centroid", "zcr", "rms")
	return names
}
