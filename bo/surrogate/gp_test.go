package surrogate

import (
	"math"
	"testing"
)

func quadraticData() ([][]float64, [][]float64) {
	X := [][]float64{{-2}, {-1}, {0}, {1}, {2}}
	Y := make([][]float64, len(X))
	for i, x := range X {
		Y[i] = []float64{-x[0] * x[0]}
	}
	return X, Y
}

func TestNewSemiparametricRejectsNilMean(t *testing.T) {
	_, err := NewSemiparametric(RBFKernel{Variance: 1}, nil, nil, nil, 1)
	if err == nil {
		t.Fatal("expected InvalidModelError for a nil mean")
	}
}

func TestNonparametricUsesGP(t *testing.T) {
	m := NewNonparametric(RBFKernel{Variance: 1}, nil, nil, 1)
	if !m.UsesGP() {
		t.Error("expected a GP surrogate to report UsesGP() = true")
	}
	if m.Semiparametric() {
		t.Error("a pure nonparametric model must not report itself semiparametric")
	}
}

// TestGPInterpolatesTrainingPoints checks that for training points the
// posterior variance collapses to (near) zero, up to numerical jitter.
func TestGPInterpolatesTrainingPoints(t *testing.T) {
	X, Y := quadraticData()
	m := NewNonparametric(RBFKernel{Variance: 1}, nil, nil, 1)
	p := Params{Lambda: [][]float64{{1.0}}, Sigma2: []float64{1e-6}}

	for i, x := range X {
		pred, err := m.Predict(x, X, Y, p)
		if err != nil {
			t.Fatalf("unexpected error at training point %d: %v", i, err)
		}
		if pred.Var[0] > 1e-3 {
			t.Errorf("training point %d: posterior variance %v, want near zero", i, pred.Var[0])
		}
		if math.Abs(pred.Mean[0]-Y[i][0]) > 0.05 {
			t.Errorf("training point %d: posterior mean %v, want close to %v", i, pred.Mean[0], Y[i][0])
		}
	}
}

func TestGPPredictsHigherVarianceAwayFromData(t *testing.T) {
	X, Y := quadraticData()
	m := NewNonparametric(RBFKernel{Variance: 1}, nil, nil, 1)
	p := Params{Lambda: [][]float64{{1.0}}, Sigma2: []float64{1e-4}}

	near, err := m.Predict([]float64{0.5}, X, Y, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	far, err := m.Predict([]float64{20}, X, Y, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if far.Var[0] <= near.Var[0] {
		t.Errorf("expected higher variance far from training data: near=%v far=%v", near.Var[0], far.Var[0])
	}
}

func TestGPLogLikelihoodIsFiniteForWellConditionedData(t *testing.T) {
	X, Y := quadraticData()
	m := NewNonparametric(RBFKernel{Variance: 1}, nil, nil, 1)
	p := Params{Lambda: [][]float64{{1.0}}, Sigma2: []float64{0.1}}
	ll := m.LogLikelihood(X, Y, p)
	if math.IsInf(ll, -1) || math.IsNaN(ll) {
		t.Errorf("expected a finite log-likelihood, got %v", ll)
	}
}

func TestGPJitterEscalationRecoversFromDuplicatePoints(t *testing.T) {
	X := [][]float64{{0}, {0}, {0}}
	Y := [][]float64{{1}, {1}, {1}}
	m := NewNonparametric(RBFKernel{Variance: 1}, nil, nil, 1)
	p := Params{Lambda: [][]float64{{1.0}}, Sigma2: []float64{1e-8}}

	_, err := m.Predict([]float64{0}, X, Y, p)
	if err != nil {
		t.Errorf("expected jitter escalation to recover a PD covariance for duplicate points, got %v", err)
	}
}

func TestGPSemiparametricAddsFittedTrend(t *testing.T) {
	mean := func(x []float64, theta []float64) []float64 { return []float64{theta[0] + theta[1]*x[0]} }
	m, err := NewSemiparametric(RBFKernel{Variance: 1}, mean, nil, nil, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	X := [][]float64{{0}, {1}, {2}}
	Y := [][]float64{{1}, {3}, {5}}
	p := Params{Theta: []float64{1, 2}, Lambda: [][]float64{{1.0}}, Sigma2: []float64{1e-4}}

	pred, err := m.Predict([]float64{1}, X, Y, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(pred.Mean[0]-3) > 0.1 {
		t.Errorf("expected prediction near the training value 3, got %v", pred.Mean[0])
	}
	if !m.Semiparametric() {
		t.Error("expected a trend-carrying model to report itself semiparametric")
	}
}

// TestGPSemiparametricMultiOutputMeanUsesOwnComponent pins the
// per-output mean indexing: each output's GP residual is taken against
// its own trend component, not output 0's.
func TestGPSemiparametricMultiOutputMeanUsesOwnComponent(t *testing.T) {
	mean := func(x []float64, theta []float64) []float64 {
		return []float64{theta[0], theta[1] * x[0]}
	}
	m, err := NewSemiparametric(RBFKernel{Variance: 1}, mean, nil, nil, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	X := [][]float64{{0}, {1}, {2}}
	Y := [][]float64{{5, 0}, {5, 3}, {5, 6}} // output 0 constant 5, output 1 = 3x
	p := Params{
		Theta:  []float64{5, 3},
		Lambda: [][]float64{{1.0}, {1.0}},
		Sigma2: []float64{1e-4, 1e-4},
	}

	pred, err := m.Predict([]float64{1.5}, X, Y, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(pred.Mean[0]-5) > 0.1 {
		t.Errorf("output 0 mean = %v, want near the constant trend 5", pred.Mean[0])
	}
	if math.Abs(pred.Mean[1]-4.5) > 0.1 {
		t.Errorf("output 1 mean = %v, want near its own trend 4.5", pred.Mean[1])
	}
}
