package scoring

// Attribute computes additive per-feature contributions for the boosted
// model's prediction on one specific input, using decision-path attribution:
// while the input is routed through each tree, every split credits the
// feature it tested with the change in expected node value between parent
// and chosen child. Per tree the credits telescope to leaf value minus root
// expectation, so
//
//	baseline + sum(contributions) == RawMargin(v)
//
// holds exactly (up to floating-point rounding), where baseline is the base
// margin plus the sum of root expectations. This additive-consistency
// property is the correctness invariant of the component.
//
// The computation is read-only over the model. Only the boosted member of
// the ensemble is attributed; the bagged model is reported unattributed.
func (m *BoostedEnsemble) Attribute(v ScaledFeatureVector, names []string) ([]FeatureAttribution, float64, error) {
	if len(v) != m.FeatureDim {
		return nil, 0, configErrorf("dimension mismatch: input has %d dimensions, boosted model expects %d",
			len(v), m.FeatureDim)
	}

	contributions := make([]float64, m.FeatureDim)
	baseline := m.BaseMargin

	for i := range m.Trees {
		tree := &m.Trees[i]
		baseline += tree.Nodes[0].Value

		idx := 0
		for {
			node := tree.Nodes[idx]
			if node.Feature < 0 {
				break
			}

			child := node.Left
			if v[node.Feature] >= node.Threshold {
				child = node.Right
			}

			contributions[node.Feature] += tree.Nodes[child].Value - node.Value
			idx = child
		}
	}

	attributions := make([]FeatureAttribution, m.FeatureDim)
	for i, c := range contributions {
		attributions[i] = FeatureAttribution{
			FeatureIndex: i,
			Contribution: c,
		}
		if i < len(names) {
			attributions[i].FeatureName = names[i]
		}
	}

	return attributions, baseline, nil
}
