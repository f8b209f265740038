package inference

import (
	"math"
	"testing"

	"github.com/scttfrdmn/boptimize/bo/priors"
	"github.com/scttfrdmn/boptimize/bo/surrogate"
)

func linePredict(x []float64, theta []float64) []float64 {
	return []float64{theta[0] + theta[1]*x[0]}
}

func TestBuildLayoutParametricSizesToThetaAndNoise(t *testing.T) {
	model := surrogate.NewParametric(linePredict,
		[]priors.Prior{priors.Normal{Mu: 0, Sigma: 10}, priors.Normal{Mu: 0, Sigma: 10}}, 1)
	noise := []priors.Prior{priors.LogNormal{Mu: 0, Sigma: 1}}
	l := buildLayout(model, noise)

	if l.thetaLen != 2 {
		t.Errorf("thetaLen = %d, want 2", l.thetaLen)
	}
	if l.lambdaDim != 0 {
		t.Errorf("lambdaDim = %d, want 0 for a parametric model", l.lambdaDim)
	}
	if got, want := l.size(), 3; got != want {
		t.Errorf("size() = %d, want %d (2 theta + 1 noise)", got, want)
	}
}

func TestBuildLayoutNonparametricIncludesLambdaPerOutput(t *testing.T) {
	lambdaPrior := priors.Independent{Marginals: []priors.Prior{priors.LogNormal{Mu: 0, Sigma: 1}}}
	model := surrogate.NewNonparametric(surrogate.RBFKernel{Variance: 1}, nil, lambdaPrior, 1)
	noise := []priors.Prior{priors.LogNormal{Mu: -2, Sigma: 1}}
	l := buildLayout(model, noise)

	if l.thetaLen != 0 {
		t.Errorf("thetaLen = %d, want 0 for a GP-only model", l.thetaLen)
	}
	if l.lambdaDim != 1 {
		t.Errorf("lambdaDim = %d, want 1", l.lambdaDim)
	}
	// outDim=1, lambdaDim=1 -> 1 lambda component + 1 noise component.
	if got, want := l.size(), 2; got != want {
		t.Errorf("size() = %d, want %d", got, want)
	}
}

func TestSplitFlattenRoundTrip(t *testing.T) {
	model := surrogate.NewParametric(linePredict,
		[]priors.Prior{priors.Normal{Mu: 0, Sigma: 10}, priors.Normal{Mu: 0, Sigma: 10}}, 1)
	noise := []priors.Prior{priors.LogNormal{Mu: 0, Sigma: 1}}
	l := buildLayout(model, noise)

	want := surrogate.Params{Theta: []float64{1.5, -2.3}, Sigma2: []float64{0.4}}
	flat := l.flatten(want)
	got := l.split(flat)

	if len(got.Theta) != len(want.Theta) || got.Theta[0] != want.Theta[0] || got.Theta[1] != want.Theta[1] {
		t.Errorf("split(flatten(p)).Theta = %v, want %v", got.Theta, want.Theta)
	}
	if got.Sigma2[0] != want.Sigma2[0] {
		t.Errorf("split(flatten(p)).Sigma2 = %v, want %v", got.Sigma2, want.Sigma2)
	}
}

func TestLayoutBoxClampsInfiniteBounds(t *testing.T) {
	model := surrogate.NewParametric(linePredict,
		[]priors.Prior{priors.Normal{Mu: 0, Sigma: 10}, priors.Normal{Mu: 0, Sigma: 10}}, 1)
	noise := []priors.Prior{priors.LogNormal{Mu: 0, Sigma: 1}}
	l := buildLayout(model, noise)

	lb, ub := l.box(50)
	for i, v := range lb {
		if math.IsInf(v, -1) {
			t.Errorf("lb[%d] still -Inf after clamping", i)
		}
	}
	for i, v := range ub {
		if math.IsInf(v, 1) {
			t.Errorf("ub[%d] still +Inf after clamping", i)
		}
	}
	// theta components come from Normal priors (unbounded support), so
	// they should be clamped to +/- the wide bound exactly.
	if lb[0] != -50 || ub[0] != 50 {
		t.Errorf("expected theta box [-50,50], got [%v,%v]", lb[0], ub[0])
	}
}
