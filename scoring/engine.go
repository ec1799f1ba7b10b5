package scoring

import (
	"sync"

	"github.com/truthlens/truthlens/logging"
)

// Models bundles the four persisted artifacts the engine needs. All four
// must be present and dimensionally consistent; the engine refuses to
// construct otherwise, so a bad deployment fails at startup rather than per
// request.
type Models struct {
	Scaler     *ScalingModel
	Boosted    *BoostedEnsemble
	Bagged     *BaggedEnsemble
	Covariance *CovarianceModel
}

// Engine is the immutable scoring context: configuration, extractor and the
// loaded models. Construct once, share read-only across arbitrarily many
// concurrent scoring calls; nothing in the engine mutates after NewEngine
// returns. Multiple engines with different model versions can coexist in one
// process.
type Engine struct {
	cfg          EngineConfig
	featureNames []string
	extractor    *Extractor
	scaler       *ScalingModel
	classifier   *EnsembleClassifier
	anomaly      *AnomalyScorer
	logger       logging.Logger
}

// NewEngine validates the configuration and all four model artifacts and
// builds the scoring context. Any missing or dimensionally inconsistent
// artifact yields a configuration error.
func NewEngine(cfg EngineConfig, models Models) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if models.Scaler == nil {
		return nil, configErrorf("scaling model is not loaded")
	}
	if err := models.Scaler.Validate(); err != nil {
		return nil, err
	}

	classifier, err := NewEnsembleClassifier(models.Boosted, models.Bagged)
	if err != nil {
		return nil, err
	}
	if err := models.Boosted.Validate(); err != nil {
		return nil, err
	}
	if err := models.Bagged.Validate(); err != nil {
		return nil, err
	}

	anomaly, err := NewAnomalyScorer(models.Covariance)
	if err != nil {
		return nil, err
	}

	// Every artifact must agree with the configured feature dimensionality
	dim := cfg.FeatureDim()
	if models.Scaler.FeatureDim != dim {
		return nil, configErrorf("scaler dimension %d does not match configured feature dimension %d",
			models.Scaler.FeatureDim, dim)
	}
	if models.Boosted.FeatureDim != dim {
		return nil, configErrorf("boosted model dimension %d does not match configured feature dimension %d",
			models.Boosted.FeatureDim, dim)
	}
	if models.Bagged.FeatureDim != dim {
		return nil, configErrorf("bagged model dimension %d does not match configured feature dimension %d",
			models.Bagged.FeatureDim, dim)
	}
	if anomaly.Dim() != dim {
		return nil, configErrorf("covariance dimension %d does not match configured feature dimension %d",
			anomaly.Dim(), dim)
	}

	extractor, err := NewExtractor(cfg)
	if err != nil {
		return nil, err
	}

	logger := logging.WithFields(logging.Fields{
		"component":   "scoring_engine",
		"feature_dim": dim,
	})
	logger.Info("scoring engine ready", logging.Fields{
		"boosted_trees": len(models.Boosted.Trees),
		"bagged_trees":  len(models.Bagged.Trees),
	})

	return &Engine{
		cfg:          cfg,
		featureNames: cfg.FeatureNames(),
		extractor:    extractor,
		scaler:       models.Scaler,
		classifier:   classifier,
		anomaly:      anomaly,
		logger:       logger,
	}, nil
}

// Config returns the engine configuration
func (e *Engine) Config() EngineConfig {
	return e.cfg
}

// Score runs the full pipeline for one decoded mono clip: extract, scale,
// then classification and anomaly scoring (independent, run concurrently),
// then tiering and attribution. On any failure no partial result is
// returned. Deterministic: identical samples yield identical results.
func (e *Engine) Score(samples []float64, sampleRate int) (*ScoringResult, error) {
	features, err := e.extractor.Extract(samples, sampleRate)
	if err != nil {
		return nil, err
	}

	scaled, err := e.scaler.Transform(features)
	if err != nil {
		return nil, err
	}

	// Classification and anomaly distance share no state and no ordering
	// requirement
	var (
		wg            sync.WaitGroup
		syntheticProb float64
		probErr       error
		distance      float64
		distErr       error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		syntheticProb, probErr = e.classifier.Score(scaled)
	}()
	go func() {
		defer wg.Done()
		distance, distErr = e.anomaly.Distance(scaled)
	}()
	wg.Wait()

	if probErr != nil {
		return nil, probErr
	}
	if distErr != nil {
		return nil, distErr
	}

	tier := TierForProbability(syntheticProb)

	attributions, baseline, err := e.classifier.Boosted().Attribute(scaled, e.featureNames)
	if err != nil {
		return nil, err
	}

	result := &ScoringResult{
		SyntheticProbability: syntheticProb,
		HumanProbability:     1 - syntheticProb,
		SyntheticPercent:     RoundPercent(syntheticProb),
		HumanPercent:         RoundPercent(1 - syntheticProb),
		AnomalyDistance:      distance,
		RiskTier:             tier,
		RiskTierLabel:        tier.Label(),
		OutOfDistribution:    e.cfg.AnomalyAlertThreshold > 0 && distance >= e.cfg.AnomalyAlertThreshold,
		Attributions:         attributions,
		AttributionBaseline:  baseline,
	}

	e.logger.Debug("clip scored", logging.Fields{
		"synthetic_percent": result.SyntheticPercent,
		"anomaly_distance":  result.AnomalyDistance,
		"risk_tier":         int(result.RiskTier),
	})

	return result, nil
}
