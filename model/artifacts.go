package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/truthlens/truthlens/logging"
	"github.com/truthlens/truthlens/scoring"
)

// Artifact filenames inside a model directory. A model directory is the unit
// of deployment: the four files are trained and exported together and are
// only meaningful as a set.
const (
	ScalerFile     = "scaler.json"
	BoostedFile    = "boosted.json"
	BaggedFile     = "bagged.json"
	CovarianceFile = "covariance.json"
)

// Bundle holds one complete set of model artifacts loaded from disk
type Bundle struct {
	Scaler     scoring.ScalingModel
	Boosted    scoring.BoostedEnsemble
	Bagged     scoring.BaggedEnsemble
	Covariance scoring.CovarianceModel
}

// LoadBundle reads and validates all four artifacts from dir. A missing or
// malformed file fails the whole load; there is no partial bundle.
func LoadBundle(dir string) (*Bundle, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "model_loader",
		"model_dir": dir,
	})

	var b Bundle
	if err := loadArtifact(dir, ScalerFile, &b.Scaler); err != nil {
		return nil, err
	}
	if err := loadArtifact(dir, BoostedFile, &b.Boosted); err != nil {
		return nil, err
	}
	if err := loadArtifact(dir, BaggedFile, &b.Bagged); err != nil {
		return nil, err
	}
	if err := loadArtifact(dir, CovarianceFile, &b.Covariance); err != nil {
		return nil, err
	}

	if err := b.Scaler.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ScalerFile, err)
	}
	if err := b.Boosted.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", BoostedFile, err)
	}
	if err := b.Bagged.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", BaggedFile, err)
	}
	if err := b.Covariance.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", CovarianceFile, err)
	}

	logger.Debug("model bundle loaded", logging.Fields{
		"feature_dim":   b.Scaler.FeatureDim,
		"boosted_trees": len(b.Boosted.Trees),
		"bagged_trees":  len(b.Bagged.Trees),
	})

	return &b, nil
}

// SaveBundle writes all four artifacts into dir, creating it if needed.
// Used by training exporters and test fixtures.
func SaveBundle(dir string, b *Bundle) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating model directory %s: %v", scoring.ErrConfig, dir, err)
	}

	if err := saveArtifact(dir, ScalerFile, &b.Scaler); err != nil {
		return err
	}
	if err := saveArtifact(dir, BoostedFile, &b.Boosted); err != nil {
		return err
	}
	if err := saveArtifact(dir, BaggedFile, &b.Bagged); err != nil {
		return err
	}
	return saveArtifact(dir, CovarianceFile, &b.Covariance)
}

// Models converts the bundle into the engine's model set
func (b *Bundle) Models() scoring.Models {
	return scoring.Models{
		Scaler:     &b.Scaler,
		Boosted:    &b.Boosted,
		Bagged:     &b.Bagged,
		Covariance: &b.Covariance,
	}
}

func loadArtifact(dir, name string, out any) error {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: reading model artifact %s: %v", scoring.ErrConfig, path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: parsing model artifact %s: %v", scoring.ErrConfig, path, err)
	}
	return nil
}

func saveArtifact(dir, name string, in any) error {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding model artifact %s: %v", scoring.ErrConfig, name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: writing model artifact %s: %v", scoring.ErrConfig, path, err)
	}
	return nil
}
