package bo

import (
	"context"

	"github.com/scttfrdmn/boptimize/bo/data"
	"github.com/scttfrdmn/boptimize/bo/inference"
	"github.com/scttfrdmn/boptimize/bo/priors"
	"github.com/scttfrdmn/boptimize/bo/surrogate"
)

// ModelFitter recomputes the posterior parameter state from scratch
// given the current dataset; fitted state is never carried over
// between iterations.
type ModelFitter interface {
	Fit(ctx context.Context, model surrogate.Model, X, Y [][]float64, noisePriors []priors.Prior) (data.ParamState, error)
}

// MLEFitter fits a single (theta, lambda, sigma2) tuple by maximum
// likelihood.
type MLEFitter struct {
	Cfg inference.MLEConfig
}

func (f MLEFitter) Fit(ctx context.Context, model surrogate.Model, X, Y [][]float64, noisePriors []priors.Prior) (data.ParamState, error) {
	params, _, err := inference.MLE(ctx, model, X, Y, noisePriors, f.Cfg)
	if err != nil {
		return data.ParamState{}, err
	}
	return data.ParamState{MLE: &params}, nil
}

// BIFitter samples the posterior with NUTS, producing a
// sample matrix rather than a single fitted tuple.
type BIFitter struct {
	Cfg inference.BIConfig
}

func (f BIFitter) Fit(ctx context.Context, model surrogate.Model, X, Y [][]float64, noisePriors []priors.Prior) (data.ParamState, error) {
	samples, err := inference.BI(ctx, model, X, Y, noisePriors, f.Cfg)
	if err != nil {
		return data.ParamState{}, err
	}
	return data.ParamState{Samples: samples}, nil
}
