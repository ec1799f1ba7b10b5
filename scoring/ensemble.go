package scoring

// EnsembleClassifier averages the class-1 probabilities of two structurally
// different tree ensembles (boosted and bagged). No learned meta-weighting:
// the score is the unweighted arithmetic mean. The anomaly distance is a
// separate signal and is never blended into this probability.
type EnsembleClassifier struct {
	boosted *BoostedEnsemble
	bagged  *BaggedEnsemble
}

// NewEnsembleClassifier builds the ensemble. Both member models must be
// present; a missing model is a configuration error, not a degraded mode.
func NewEnsembleClassifier(boosted *BoostedEnsemble, bagged *BaggedEnsemble) (*EnsembleClassifier, error) {
	if boosted == nil {
		return nil, configErrorf("boosted classifier model is not loaded")
	}
	if bagged == nil {
		return nil, configErrorf("bagged classifier model is not loaded")
	}
	if boosted.FeatureDim != bagged.FeatureDim {
		return nil, configErrorf("classifier dimension mismatch: boosted %d vs bagged %d",
			boosted.FeatureDim, bagged.FeatureDim)
	}

	return &EnsembleClassifier{
		boosted: boosted,
		bagged:  bagged,
	}, nil
}

// Score returns the ensemble synthetic probability in [0,1]. Scoring fails
// atomically: if either member fails, no partial score is returned.
func (ec *EnsembleClassifier) Score(v ScaledFeatureVector) (float64, error) {
	boostedProb, err := ec.boosted.PredictProbability(v)
	if err != nil {
		return 0, err
	}

	baggedProb, err := ec.bagged.PredictProbability(v)
	if err != nil {
		return 0, err
	}

	return (boostedProb + baggedProb) / 2.0, nil
}

// Boosted exposes the boosted member for attribution
func (ec *EnsembleClassifier) Boosted() *BoostedEnsemble {
	return ec.boosted
}
