package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truthlens/truthlens/scoring"
)

func sampleResult() *scoring.ScoringResult {
	return &scoring.ScoringResult{
		SyntheticProbability: 0.8351,
		HumanProbability:     0.1649,
		SyntheticPercent:     83.51,
		HumanPercent:         16.49,
		AnomalyDistance:      4.2,
		RiskTier:             scoring.TierHighSynthetic,
		RiskTierLabel:        scoring.TierHighSynthetic.Label(),
		Attributions: []scoring.FeatureAttribution{
			{FeatureIndex: 0, FeatureName: "mfcc_0", Contribution: 0.4},
		},
	}
}

func TestNewRecord(t *testing.T) {
	now := time.Date(2026, 3, 15, 9, 30, 45, 0, time.UTC)
	record := NewRecord(sampleResult(), now)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "2026-03-15 09:30:45", record.Timestamp)
	assert.Equal(t, 83.51, record.SyntheticPercent)
	assert.Equal(t, 16.49, record.HumanPercent)
	assert.Equal(t, 3, record.RiskTier)
	assert.Equal(t, scoring.TierHighSynthetic.Label(), record.RiskTierLabel)
	assert.Len(t, record.IntegrityHash, 64, "sha256 hex digest")
	assert.True(t, record.Verify())
}

func TestRecordIDsAreUnique(t *testing.T) {
	now := time.Now()
	first := NewRecord(sampleResult(), now)
	second := NewRecord(sampleResult(), now)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestIntegrityHashDeterministic(t *testing.T) {
	a := IntegrityHash(83.51, "Tier 3 - High Probability Synthetic Voice", "2026-03-15 09:30:45")
	b := IntegrityHash(83.51, "Tier 3 - High Probability Synthetic Voice", "2026-03-15 09:30:45")
	assert.Equal(t, a, b)

	c := IntegrityHash(83.52, "Tier 3 - High Probability Synthetic Voice", "2026-03-15 09:30:45")
	assert.NotEqual(t, a, c)
}

func TestVerifyDetectsTampering(t *testing.T) {
	record := NewRecord(sampleResult(), time.Now())
	require.True(t, record.Verify())

	t.Run("altered percent", func(t *testing.T) {
		tampered := *record
		tampered.SyntheticPercent = 12.34
		assert.False(t, tampered.Verify())
	})

	t.Run("altered tier label", func(t *testing.T) {
		tampered := *record
		tampered.RiskTierLabel = scoring.TierLikelyHuman.Label()
		assert.False(t, tampered.Verify())
	})

	t.Run("altered timestamp", func(t *testing.T) {
		tampered := *record
		tampered.Timestamp = "2020-01-01 00:00:00"
		assert.False(t, tampered.Verify())
	})

	t.Run("altered hash", func(t *testing.T) {
		tampered := *record
		tampered.IntegrityHash = "deadbeef"
		assert.False(t, tampered.Verify())
	})

	t.Run("anomaly distance not sealed", func(t *testing.T) {
		// the hash covers percent, tier label and timestamp only
		tampered := *record
		tampered.AnomalyDistance = 999
		assert.True(t, tampered.Verify())
	})
}

func TestRecordSurvivesJSONRoundTrip(t *testing.T) {
	record := NewRecord(sampleResult(), time.Now())

	data, err := json.Marshal(record)
	require.NoError(t, err)

	var decoded ForensicRecord
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, record.ID, decoded.ID)
	assert.Equal(t, record.IntegrityHash, decoded.IntegrityHash)
	assert.True(t, decoded.Verify())
}
