package surrogate

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/scttfrdmn/boptimize/bo/priors"
	"github.com/scttfrdmn/boptimize/boerrors"
)

// jitter escalation ladder: additive epsilon*I on the covariance
// diagonal, doubling from 1e-10 up to 1e-4 until the Cholesky
// factorization succeeds.
const (
	minJitter = 1e-10
	maxJitter = 1e-4
)

// GPModel is the nonparametric (and, with a non-nil Mean, semiparametric)
// surrogate: an independent Gaussian Process per output dimension, fit
// with a shared kernel family and per-output length scales and noise.
//
// The GP part never carries its own independent mean on top of Mean:
// callers build a pure-GP model via NewNonparametric (Mean nil or a
// fixed, parameter-free trend) or a semiparametric model via
// NewSemiparametric (Mean required, driven by Theta) -- there is no
// constructor that allows both a fitted parametric trend and a second,
// separate GP mean.
type GPModel struct {
	kernel       Kernel
	mean         Predictor // nil => zero mean
	thetaPriors  []priors.Prior
	lambdaPrior  priors.VectorPrior
	outDim       int
	semiparametric bool
}

// NewNonparametric builds a pure GP surrogate. mean may be nil (zero
// mean) or a fixed trend with no free parameters.
func NewNonparametric(kernel Kernel, mean Predictor, lambdaPrior priors.VectorPrior, outDim int) *GPModel {
	return &GPModel{
		kernel:      kernel,
		mean:        mean,
		lambdaPrior: lambdaPrior,
		outDim:      outDim,
	}
}

// NewSemiparametric builds a GP whose mean is a fitted parametric trend
// g(x, theta). It errors with InvalidModelError if mean is nil, since a
// semiparametric model without a trend degenerates to a plain
// nonparametric one and should be constructed with NewNonparametric
// instead.
func NewSemiparametric(kernel Kernel, mean Predictor, thetaPriors []priors.Prior, lambdaPrior priors.VectorPrior, outDim int) (*GPModel, error) {
	if mean == nil {
		return nil, boerrors.NewInvalidModelError("semiparametric model requires a non-nil parametric mean")
	}
	return &GPModel{
		kernel:         kernel,
		mean:           mean,
		thetaPriors:    thetaPriors,
		lambdaPrior:    lambdaPrior,
		outDim:         outDim,
		semiparametric: true,
	}, nil
}

func (m *GPModel) OutputDim() int                      { return m.outDim }
func (m *GPModel) ThetaPriors() []priors.Prior          { return m.thetaPriors }
func (m *GPModel) LambdaPrior() priors.VectorPrior      { return m.lambdaPrior }
func (m *GPModel) UsesGP() bool                         { return true }

// Semiparametric reports whether this model carries a fitted parametric
// trend as its GP mean.
func (m *GPModel) Semiparametric() bool { return m.semiparametric }

func (m *GPModel) meanAt(x []float64, theta []float64, j int) float64 {
	if m.mean == nil {
		return 0
	}
	return m.mean(x, theta)[j]
}

func (m *GPModel) meanVec(X [][]float64, theta []float64, j int) []float64 {
	out := make([]float64, len(X))
	if m.mean == nil {
		return out
	}
	for i, x := range X {
		out[i] = m.mean(x, theta)[j]
	}
	return out
}

// buildK constructs the training covariance for output j, escalating
// jitter on the diagonal until a Cholesky factorization succeeds or the
// maximum jitter is exhausted.
func (m *GPModel) buildK(X [][]float64, lambda []float64, sigma2 float64) (*mat.SymDense, *mat.Cholesky, error) {
	n := len(X)
	jitter := 0.0
	for {
		K := mat.NewSymDense(n, nil)
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				val := m.kernel.Eval(X[i], X[j], lambda)
				if i == j {
					val += sigma2 + jitter
				}
				K.SetSym(i, j, val)
			}
		}
		var chol mat.Cholesky
		if chol.Factorize(K) {
			return K, &chol, nil
		}
		if jitter == 0 {
			jitter = minJitter
		} else {
			jitter *= 2
		}
		if jitter > maxJitter {
			return nil, nil, boerrors.NewIllConditionedError("covariance not positive-definite after maximum jitter", jitter)
		}
	}
}

// Predict implements Model.Predict, fitting one independent GP per
// output dimension.
func (m *GPModel) Predict(x []float64, X [][]float64, Y [][]float64, p Params) (Prediction, error) {
	mean := make([]float64, m.outDim)
	variance := make([]float64, m.outDim)

	for j := 0; j < m.outDim; j++ {
		lambda := p.Lambda[j]
		sigma2 := p.Sigma2[j]
		yj := transposeColumn(Y, j)

		_, chol, err := m.buildK(X, lambda, sigma2)
		if err != nil {
			return Prediction{}, err
		}
		n := len(X)

		mu0X := m.meanVec(X, p.Theta, j)
		resid := make([]float64, n)
		for i := range resid {
			resid[i] = yj[i] - mu0X[i]
		}
		residVec := mat.NewVecDense(n, resid)
		alpha := mat.NewVecDense(n, nil)
		if err := chol.SolveVecTo(alpha, residVec); err != nil {
			return Prediction{}, boerrors.NewIllConditionedError("failed to solve for alpha", 0)
		}

		kStar := make([]float64, n)
		for i := range X {
			kStar[i] = m.kernel.Eval(x, X[i], lambda)
		}
		kStarVec := mat.NewVecDense(n, kStar)

		muPred := m.meanAt(x, p.Theta, j) + mat.Dot(kStarVec, alpha)

		v := mat.NewVecDense(n, nil)
		if err := chol.SolveVecTo(v, kStarVec); err != nil {
			return Prediction{}, boerrors.NewIllConditionedError("failed to solve for predictive variance", 0)
		}
		kxx := m.kernel.Eval(x, x, lambda)
		varPred := kxx - mat.Dot(kStarVec, v)
		if varPred < 0 {
			varPred = 0
		}
		mean[j] = muPred
		variance[j] = math.Max(varPred, 0)
	}

	return Prediction{Mean: mean, Var: variance}, nil
}

// LogLikelihood returns the GP data term sum_j log N(Y_j. ; mu0_j(X),
// K_j) using the training Cholesky factorization. Invalid (non-finite)
// results are mapped to -Inf so the sample is rejected.
func (m *GPModel) LogLikelihood(X [][]float64, Y [][]float64, p Params) float64 {
	total := 0.0
	n := len(X)
	for j := 0; j < m.outDim; j++ {
		lambda := p.Lambda[j]
		sigma2 := p.Sigma2[j]
		yj := transposeColumn(Y, j)

		_, chol, err := m.buildK(X, lambda, sigma2)
		if err != nil {
			return math.Inf(-1)
		}

		mu0X := m.meanVec(X, p.Theta, j)
		resid := make([]float64, n)
		for i := range resid {
			resid[i] = yj[i] - mu0X[i]
		}
		residVec := mat.NewVecDense(n, resid)
		alpha := mat.NewVecDense(n, nil)
		if err := chol.SolveVecTo(alpha, residVec); err != nil {
			return math.Inf(-1)
		}
		quad := mat.Dot(residVec, alpha)
		logDet := chol.LogDet()
		ll := -0.5*quad - 0.5*logDet - 0.5*float64(n)*math.Log(2*math.Pi)
		if math.IsNaN(ll) || math.IsInf(ll, 0) {
			return math.Inf(-1)
		}
		total += ll
	}
	return total
}
