package decode

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"os/exec"
	"time"

	"github.com/truthlens/truthlens/logging"
	"github.com/truthlens/truthlens/scoring"
)

// AudioData holds decoded PCM audio ready for feature extraction
type AudioData struct {
	PCM        []float64     `json:"-"`
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"`
	Duration   time.Duration `json:"duration"`
}

// Config holds decoder settings. Everything is resampled to the target rate
// and downmixed to mono so any container or codec ffmpeg can read produces
// input in the exact shape the analysis expects.
type Config struct {
	TargetSampleRate int           `json:"target_sample_rate"`
	FFmpegPath       string        `json:"ffmpeg_path"`
	Timeout          time.Duration `json:"timeout"`
	MaxDuration      time.Duration `json:"max_duration"` // zero means unlimited
}

// DefaultConfig returns decoder settings matching the analysis sample rate
func DefaultConfig() *Config {
	return &Config{
		TargetSampleRate: 22050,
		FFmpegPath:       "ffmpeg", // assume in PATH
		Timeout:          60 * time.Second,
		MaxDuration:      0,
	}
}

// Decoder decodes audio files to normalized mono PCM via ffmpeg
type Decoder struct {
	config *Config
	logger logging.Logger
}

// NewDecoder creates a decoder with the given config, or defaults when nil
func NewDecoder(config *Config) *Decoder {
	if config == nil {
		config = DefaultConfig()
	}
	return &Decoder{
		config: config,
		logger: logging.WithFields(logging.Fields{
			"component":   "audio_decoder",
			"sample_rate": config.TargetSampleRate,
		}),
	}
}

// CheckFFmpeg verifies the configured ffmpeg binary is runnable
func (d *Decoder) CheckFFmpeg() error {
	cmd := exec.Command(d.config.FFmpegPath, "-version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: ffmpeg not found at %s: %v", scoring.ErrConfig, d.config.FFmpegPath, err)
	}
	return nil
}

// DecodeFile decodes a local audio file to mono float64 PCM at the target
// sample rate
func (d *Decoder) DecodeFile(ctx context.Context, path string) (*AudioData, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: audio file %s: %v", scoring.ErrInput, path, err)
	}

	if d.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()
	}

	args := d.buildFFmpegArgs(path)
	d.logger.Debug("running ffmpeg", logging.Fields{
		"file": path,
		"args": args,
	})

	cmd := exec.CommandContext(ctx, d.config.FFmpegPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: decoding %s: %v", scoring.ErrInput, path, ctx.Err())
		}
		return nil, fmt.Errorf("%w: ffmpeg decode of %s failed: %v, stderr: %s",
			scoring.ErrInput, path, err, stderr.String())
	}

	audio, err := d.pcmFromBytes(stdout.Bytes())
	if err != nil {
		return nil, err
	}

	if d.config.MaxDuration > 0 && audio.Duration > d.config.MaxDuration {
		return nil, fmt.Errorf("%w: clip duration %v exceeds maximum %v",
			scoring.ErrInput, audio.Duration, d.config.MaxDuration)
	}

	d.logger.Debug("decoded audio file", logging.Fields{
		"file":     path,
		"samples":  len(audio.PCM),
		"duration": audio.Duration.String(),
	})

	return audio, nil
}

func (d *Decoder) buildFFmpegArgs(path string) []string {
	return []string{
		"-i", path,
		"-f", "f64le", // raw float64 little-endian
		"-acodec", "pcm_f64le",
		"-ac", "1", // downmix to mono
		"-ar", fmt.Sprintf("%d", d.config.TargetSampleRate),
		"-loglevel", "error",
		"pipe:1",
	}
}

// pcmFromBytes converts raw f64le output into samples
func (d *Decoder) pcmFromBytes(data []byte) (*AudioData, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: ffmpeg produced no audio data", scoring.ErrInput)
	}
	if len(data)%8 != 0 {
		return nil, fmt.Errorf("%w: truncated ffmpeg output, %d bytes is not a whole number of samples",
			scoring.ErrInput, len(data))
	}

	samples := make([]float64, len(data)/8)
	for i := range samples {
		bits := binary.LittleEndian.Uint64(data[i*8 : i*8+8])
		samples[i] = math.Float64frombits(bits)
	}

	duration := time.Duration(float64(len(samples)) / float64(d.config.TargetSampleRate) * float64(time.Second))
	return &AudioData{
		PCM:        samples,
		SampleRate: d.config.TargetSampleRate,
		Channels:   1,
		Duration:   duration,
	}, nil
}
