package report

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/truthlens/truthlens/scoring"
)

// TimestampLayout is the wall-clock format stored in the record. The hash is
// computed over this exact string form, so the layout is part of the record
// contract and must never change for existing records to stay verifiable.
const TimestampLayout = "2006-01-02 15:04:05"

// ForensicRecord is the persistable outcome of one scoring run. The integrity
// hash binds the displayed synthetic percentage, the tier label and the
// timestamp together; any later edit to one of them is detectable.
type ForensicRecord struct {
	ID                string                       `json:"id"`
	Timestamp         string                       `json:"timestamp"`
	SyntheticPercent  float64                      `json:"synthetic_percent"`
	HumanPercent      float64                      `json:"human_percent"`
	RiskTier          int                          `json:"risk_tier"`
	RiskTierLabel     string                       `json:"risk_tier_label"`
	AnomalyDistance   float64                      `json:"anomaly_distance"`
	OutOfDistribution bool                         `json:"out_of_distribution"`
	Attributions      []scoring.FeatureAttribution `json:"attributions,omitempty"`
	IntegrityHash     string                       `json:"integrity_hash"`
}

// IntegrityHash returns the SHA-256 hex digest over the concatenation of the
// synthetic percentage (two decimals), the tier label and the timestamp
// string
func IntegrityHash(syntheticPercent float64, tierLabel, timestamp string) string {
	payload := fmt.Sprintf("%.2f%s%s", syntheticPercent, tierLabel, timestamp)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// NewRecord assembles a sealed record from a scoring result at the given
// wall-clock time
func NewRecord(result *scoring.ScoringResult, now time.Time) *ForensicRecord {
	timestamp := now.Format(TimestampLayout)
	return &ForensicRecord{
		ID:                uuid.NewString(),
		Timestamp:         timestamp,
		SyntheticPercent:  result.SyntheticPercent,
		HumanPercent:      result.HumanPercent,
		RiskTier:          int(result.RiskTier),
		RiskTierLabel:     result.RiskTierLabel,
		AnomalyDistance:   result.AnomalyDistance,
		OutOfDistribution: result.OutOfDistribution,
		Attributions:      result.Attributions,
		IntegrityHash:     IntegrityHash(result.SyntheticPercent, result.RiskTierLabel, timestamp),
	}
}

// Verify recomputes the integrity hash from the record's own fields and
// reports whether it matches the stored hash
func (r *ForensicRecord) Verify() bool {
	return r.IntegrityHash == IntegrityHash(r.SyntheticPercent, r.RiskTierLabel, r.Timestamp)
}
