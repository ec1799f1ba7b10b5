package scoring

import "math"

// The engine consumes already-fitted tree models through a stable artifact
// contract: each tree is an array of nodes. Internal nodes route on
// x[Feature] < Threshold (left) or >= Threshold (right). Leaf nodes carry
// Feature == -1. Value holds the leaf output; for internal nodes it holds
// the cover-weighted expected output of the subtree, which the attribution
// engine relies on. Cover is the number of training rows that reached the
// node.

// TreeNode is one node of an array-encoded binary decision tree
type TreeNode struct {
	Feature   int     `json:"feature"` // -1 marks a leaf
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
	Cover     float64 `json:"cover"`
}

// Tree is a single array-encoded decision tree
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// Predict routes the input to a leaf and returns its value. Read-only.
func (t *Tree) Predict(v []float64) float64 {
	idx := 0
	for {
		node := t.Nodes[idx]
		if node.Feature < 0 {
			return node.Value
		}
		if v[node.Feature] < node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
}

// validate checks structural consistency against the expected feature
// dimensionality
func (t *Tree) validate(featureDim int) error {
	if len(t.Nodes) == 0 {
		return configErrorf("tree has no nodes")
	}
	for i, node := range t.Nodes {
		if !isFinite(node.Value) || !isFinite(node.Threshold) {
			return configErrorf("tree node %d has non-finite parameters", i)
		}
		if node.Feature < 0 {
			continue // leaf
		}
		if node.Feature >= featureDim {
			return configErrorf("tree node %d splits on feature %d, model dimension is %d", i, node.Feature, featureDim)
		}
		if node.Left <= 0 || node.Left >= len(t.Nodes) || node.Right <= 0 || node.Right >= len(t.Nodes) {
			return configErrorf("tree node %d has out-of-range children %d/%d", i, node.Left, node.Right)
		}
	}
	return nil
}

// BoostedEnsemble is a gradient-boosted tree classifier. The raw margin is
// the base margin plus the sum of all tree outputs; the class-1 probability
// is the logistic transform of the margin.
type BoostedEnsemble struct {
	FeatureDim int     `json:"feature_dim"`
	BaseMargin float64 `json:"base_margin"`
	Trees      []Tree  `json:"trees"`
}

// Validate checks structural consistency of a loaded boosted model
func (m *BoostedEnsemble) Validate() error {
	if m.FeatureDim <= 0 {
		return configErrorf("boosted model: feature dimension must be positive, got %d", m.FeatureDim)
	}
	if len(m.Trees) == 0 {
		return configErrorf("boosted model: no trees")
	}
	if !isFinite(m.BaseMargin) {
		return configErrorf("boosted model: non-finite base margin")
	}
	for i := range m.Trees {
		if err := m.Trees[i].validate(m.FeatureDim); err != nil {
			return configErrorf("boosted model tree %d: %v", i, err)
		}
	}
	return nil
}

// RawMargin returns the pre-sigmoid output for the input
func (m *BoostedEnsemble) RawMargin(v ScaledFeatureVector) (float64, error) {
	if len(v) != m.FeatureDim {
		return 0, configErrorf("dimension mismatch: input has %d dimensions, boosted model expects %d", len(v), m.FeatureDim)
	}

	margin := m.BaseMargin
	for i := range m.Trees {
		margin += m.Trees[i].Predict(v)
	}
	return margin, nil
}

// PredictProbability returns the class-1 ("synthetic") probability in [0,1]
func (m *BoostedEnsemble) PredictProbability(v ScaledFeatureVector) (float64, error) {
	margin, err := m.RawMargin(v)
	if err != nil {
		return 0, err
	}
	return sigmoid(margin), nil
}

// BaggedEnsemble is a bagged-tree (random forest style) classifier. Each
// tree's leaf value is the class-1 fraction of training rows at that leaf;
// the ensemble probability is the unweighted mean across trees.
type BaggedEnsemble struct {
	FeatureDim int    `json:"feature_dim"`
	Trees      []Tree `json:"trees"`
}

// Validate checks structural consistency of a loaded bagged model
func (m *BaggedEnsemble) Validate() error {
	if m.FeatureDim <= 0 {
		return configErrorf("bagged model: feature dimension must be positive, got %d", m.FeatureDim)
	}
	if len(m.Trees) == 0 {
		return configErrorf("bagged model: no trees")
	}
	for i := range m.Trees {
		if err := m.Trees[i].validate(m.FeatureDim); err != nil {
			return configErrorf("bagged model tree %d: %v", i, err)
		}
		for j, node := range m.Trees[i].Nodes {
			if node.Feature < 0 && (node.Value < 0 || node.Value > 1) {
				return configErrorf("bagged model tree %d leaf %d: value %v outside [0,1]", i, j, node.Value)
			}
		}
	}
	return nil
}

// PredictProbability returns the class-1 ("synthetic") probability in [0,1]
func (m *BaggedEnsemble) PredictProbability(v ScaledFeatureVector) (float64, error) {
	if len(v) != m.FeatureDim {
		return 0, configErrorf("dimension mismatch: input has %d dimensions, bagged model expects %d", len(v), m.FeatureDim)
	}

	sum := 0.0
	for i := range m.Trees {
		sum += m.Trees[i].Predict(v)
	}
	return sum / float64(len(m.Trees)), nil
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
