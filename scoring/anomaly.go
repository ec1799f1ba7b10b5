package scoring

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// CovarianceModel is the covariance matrix of the scaled training population,
// learned offline from reference (human) recordings. Square, symmetric,
// positive semi-definite, over the same dimensionality as the feature vector.
type CovarianceModel struct {
	FeatureDim int         `json:"feature_dim"`
	Matrix     [][]float64 `json:"matrix"`
}

// Validate checks shape, symmetry and finiteness of a loaded covariance model
func (m *CovarianceModel) Validate() error {
	if m.FeatureDim <= 0 {
		return configErrorf("covariance: feature dimension must be positive, got %d", m.FeatureDim)
	}
	if len(m.Matrix) != m.FeatureDim {
		return configErrorf("covariance: matrix has %d rows, expected %d", len(m.Matrix), m.FeatureDim)
	}
	for i, row := range m.Matrix {
		if len(row) != m.FeatureDim {
			return configErrorf("covariance: row %d has %d columns, expected %d", i, len(row), m.FeatureDim)
		}
		for j, val := range row {
			if !isFinite(val) {
				return configErrorf("covariance: non-finite entry at (%d,%d)", i, j)
			}
			if math.Abs(val-m.Matrix[j][i]) > 1e-8*math.Max(1, math.Abs(val)) {
				return configErrorf("covariance: matrix is not symmetric at (%d,%d)", i, j)
			}
		}
	}
	return nil
}

// AnomalyScorer computes the Mahalanobis distance between a scaled feature
// vector and the zero-vector reference mean. The pseudo-inverse of the
// covariance is derived once at construction: training covariances are often
// near-singular (correlated features, small reference sets), and the
// pseudo-inverse degrades gracefully where a true inverse would fail.
//
// The distance is a pure diagnostic. It flags inputs unlike the training
// population regardless of what the classifiers say, and it never alters the
// synthetic probability or the risk tier.
type AnomalyScorer struct {
	dim int
	inv *mat.Dense // pseudo-inverse covariance, read-only after construction
}

// NewAnomalyScorer derives the covariance pseudo-inverse via SVD
func NewAnomalyScorer(model *CovarianceModel) (*AnomalyScorer, error) {
	if model == nil {
		return nil, configErrorf("covariance model is not loaded")
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}

	n := model.FeatureDim
	cov := mat.NewDense(n, n, nil)
	for i, row := range model.Matrix {
		for j, val := range row {
			cov.Set(i, j, val)
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(cov, mat.SVDThin); !ok {
		return nil, configErrorf("covariance: SVD factorization failed")
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	// Singular values below the numerical rank tolerance are treated as zero
	maxValue := 0.0
	for _, s := range values {
		maxValue = math.Max(maxValue, s)
	}
	tol := float64(n) * maxValue * 1e-15

	sigmaInv := mat.NewDiagDense(len(values), nil)
	for i, s := range values {
		if s > tol {
			sigmaInv.SetDiag(i, 1.0/s)
		}
	}

	// pinv = V * Sigma+ * U^T
	var tmp, inv mat.Dense
	tmp.Mul(&v, sigmaInv)
	inv.Mul(&tmp, u.T())

	return &AnomalyScorer{
		dim: n,
		inv: &inv,
	}, nil
}

// Dim returns the expected feature dimensionality
func (a *AnomalyScorer) Dim() int {
	return a.dim
}

// Distance returns sqrt(v^T * covInverse * v), the Mahalanobis distance from
// the zero-mean reference. Always >= 0; exactly 0 for the zero vector.
func (a *AnomalyScorer) Distance(v ScaledFeatureVector) (float64, error) {
	if len(v) != a.dim {
		return 0, configErrorf("dimension mismatch: input has %d dimensions, covariance expects %d", len(v), a.dim)
	}

	vec := mat.NewVecDense(a.dim, []float64(v))
	var tmp mat.VecDense
	tmp.MulVec(a.inv, vec)
	d2 := mat.Dot(vec, &tmp)

	// The quadratic form of a PSD pseudo-inverse can go slightly negative
	// from floating-point error
	if d2 < 0 {
		if d2 < -1e-9 {
			return 0, numericErrorf("negative squared Mahalanobis distance %v", d2)
		}
		d2 = 0
	}

	return math.Sqrt(d2), nil
}
