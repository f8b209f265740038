// Package surrogate implements the parametric, Gaussian Process, and
// semiparametric posterior predictive models used as the Bayesian
// optimizer's surrogate for the black-box objective.
package surrogate

import (
	"github.com/scttfrdmn/boptimize/bo/priors"
	"github.com/scttfrdmn/boptimize/boerrors"
)

// Prediction is the posterior mean and variance at a candidate point,
// one entry per output dimension.
type Prediction struct {
	Mean []float64 // one entry per output dimension
	Var  []float64 // one entry per output dimension, >= 0
}

// Params is the flat, named parameter state a model consumes for a
// single posterior prediction: theta for the parametric trend, lambda
// for per-output GP length scales, and sigma2 for per-output noise
// variance. Any of the three may be nil for a model variant that does
// not use it.
type Params struct {
	Theta  []float64
	Lambda [][]float64 // one length-scale vector per output
	Sigma2 []float64
}

// Model is the capability interface every surrogate variant satisfies:
// posterior prediction given fitted parameters, and joint
// log-likelihood of those parameters against training data (used by
// inference, see package likelihood).
type Model interface {
	// OutputDim returns m, the number of output dimensions.
	OutputDim() int

	// Predict returns the posterior mean/variance at x given the
	// training data (X, Y) and fitted Params.
	Predict(x []float64, X [][]float64, Y [][]float64, p Params) (Prediction, error)

	// LogLikelihood returns the model's data term of the joint
	// log-likelihood (see package likelihood for prior terms), or
	// -Inf for a Params value that makes the data term undefined
	// (e.g. a non-positive-definite GP covariance).
	LogLikelihood(X [][]float64, Y [][]float64, p Params) float64

	// ThetaPriors, LambdaPrior and UsesGP are exposed so the
	// likelihood/inference layers can derive box constraints and
	// regularization terms without type-switching on the concrete
	// model.
	ThetaPriors() []priors.Prior
	LambdaPrior() priors.VectorPrior // nil if the model has no GP component
	UsesGP() bool
}

// Predictor is a deterministic parametric mean function g(x, theta) ->
// R^m.
type Predictor func(x []float64, theta []float64) []float64

func transposeColumn(Y [][]float64, j int) []float64 {
	out := make([]float64, len(Y))
	for i, row := range Y {
		out[i] = row[j]
	}
	return out
}

func validateOutputDim(m int, y []float64) error {
	if len(y) != m {
		return boerrors.NewInvalidModelError("output dimension mismatch")
	}
	return nil
}
