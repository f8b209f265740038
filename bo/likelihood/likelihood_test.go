package likelihood

import (
	"math"
	"testing"

	"github.com/scttfrdmn/boptimize/bo/priors"
	"github.com/scttfrdmn/boptimize/bo/surrogate"
)

func linePredict(x []float64, theta []float64) []float64 {
	return []float64{theta[0] + theta[1]*x[0]}
}

func TestJointAddsDataTermAndPriors(t *testing.T) {
	model := surrogate.NewParametric(linePredict,
		[]priors.Prior{priors.Normal{Mu: 0, Sigma: 10}, priors.Normal{Mu: 0, Sigma: 10}}, 1)
	X := [][]float64{{0}, {1}, {2}}
	Y := [][]float64{{1}, {3}, {5}}
	noisePrior := []priors.Prior{priors.LogNormal{Mu: 0, Sigma: 1}}
	p := surrogate.Params{Theta: []float64{1, 2}, Sigma2: []float64{1}}

	got := Joint(model, X, Y, noisePrior, p)

	want := model.LogLikelihood(X, Y, p)
	want += priors.Normal{Mu: 0, Sigma: 10}.LogPDF(1)
	want += priors.Normal{Mu: 0, Sigma: 10}.LogPDF(2)
	want += priors.LogNormal{Mu: 0, Sigma: 1}.LogPDF(1)

	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Joint = %v, want %v", got, want)
	}
}

func TestJointCollapsesNonPositiveNoiseToNegInf(t *testing.T) {
	model := surrogate.NewParametric(linePredict, nil, 1)
	X := [][]float64{{0}}
	Y := [][]float64{{1}}
	p := surrogate.Params{Theta: []float64{1, 2}, Sigma2: []float64{0}}

	got := Joint(model, X, Y, nil, p)
	if !math.IsInf(got, -1) {
		t.Errorf("expected -Inf for a degenerate data term, got %v", got)
	}
}

func TestJointReturnsNegInfWhenPriorRejectsParameter(t *testing.T) {
	model := surrogate.NewParametric(linePredict,
		[]priors.Prior{priors.LogNormal{Mu: 0, Sigma: 1}, priors.Normal{Mu: 0, Sigma: 10}}, 1)
	X := [][]float64{{0}}
	Y := [][]float64{{1}}
	// theta[0] = -1 is outside LogNormal's support, driving its log-prior
	// to -Inf; combined with a finite data term the sum is -Inf.
	p := surrogate.Params{Theta: []float64{-1, 2}, Sigma2: []float64{1}}

	got := Joint(model, X, Y, nil, p)
	if !math.IsInf(got, -1) {
		t.Errorf("expected -Inf when a prior rejects its parameter, got %v", got)
	}
}

func TestJointSkipsLambdaPriorWhenModelHasNone(t *testing.T) {
	model := surrogate.NewParametric(linePredict, nil, 1)
	X := [][]float64{{0}, {1}}
	Y := [][]float64{{1}, {3}}
	p := surrogate.Params{Theta: []float64{1, 2}, Sigma2: []float64{1}}

	got := Joint(model, X, Y, nil, p)
	want := model.LogLikelihood(X, Y, p)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Joint = %v, want bare data term %v", got, want)
	}
}
