package decode

import (
	"context"
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truthlens/truthlens/scoring"
)

func encodeF64LE(samples []float64) []byte {
	data := make([]byte, len(samples)*8)
	for i, s := range samples {
		binary.LittleEndian.PutUint64(data[i*8:], math.Float64bits(s))
	}
	return data
}

func TestPCMFromBytes(t *testing.T) {
	d := NewDecoder(nil)
	samples := []float64{0, 0.5, -0.5, 1, -1}

	audio, err := d.pcmFromBytes(encodeF64LE(samples))
	require.NoError(t, err)

	assert.Equal(t, samples, audio.PCM)
	assert.Equal(t, 22050, audio.SampleRate)
	assert.Equal(t, 1, audio.Channels)
	expectedDuration := time.Duration(float64(len(samples)) / 22050 * float64(time.Second))
	assert.Equal(t, expectedDuration, audio.Duration)
}

func TestPCMFromBytesEmpty(t *testing.T) {
	d := NewDecoder(nil)
	_, err := d.pcmFromBytes(nil)
	assert.ErrorIs(t, err, scoring.ErrInput)
}

func TestPCMFromBytesTruncated(t *testing.T) {
	d := NewDecoder(nil)
	_, err := d.pcmFromBytes(make([]byte, 12))
	assert.ErrorIs(t, err, scoring.ErrInput)
}

func TestBuildFFmpegArgs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TargetSampleRate = 16000
	d := NewDecoder(cfg)

	args := d.buildFFmpegArgs("clip.wav")
	assert.Contains(t, args, "clip.wav")
	assert.Contains(t, args, "f64le")
	assert.Contains(t, args, "16000")
	assert.Contains(t, args, "pipe:1")
	// always downmixed to mono
	idx := -1
	for i, a := range args {
		if a == "-ac" {
			idx = i
		}
	}
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, "1", args[idx+1])
}

func TestDecodeFileMissing(t *testing.T) {
	d := NewDecoder(nil)
	_, err := d.DecodeFile(context.Background(), "/no/such/file.wav")
	assert.ErrorIs(t, err, scoring.ErrInput)
}
