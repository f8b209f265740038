package bo

import (
	"context"

	"github.com/scttfrdmn/boptimize/bo/data"
	"github.com/scttfrdmn/boptimize/bo/surrogate"
)

// Batch runs the sequential batching maximizer: it fits
// parameters once against the visible dataset, then repeats B times,
// each time maximizing the acquisition over a private fantasy copy of
// the dataset, appending the posterior mean at the chosen point as a
// fantasy observation to that copy only. The caller's visible dataset
// (p.Data) is never mutated; batching isolation holds by construction
// for every B, including B=1.
func Batch(ctx context.Context, p *Problem, fitter ModelFitter, maximizer AcqMaximizer, acq Acquisition, b int) ([][]float64, error) {
	if err := initialize(p); err != nil {
		return nil, err
	}
	if acq == nil {
		acq = EI{}
	}
	if b < 1 {
		b = 1
	}

	state, err := fitter.Fit(ctx, p.Model, p.Data.X, p.Data.Y, p.NoiseVarPrior)
	if err != nil {
		return nil, err
	}
	p.Params = state

	fantasy := p.Data.Clone()
	batch := make([][]float64, 0, b)
	for i := 0; i < b; i++ {
		view := *p
		view.Data = fantasy
		obj, err := acq.Objective(&view)
		if err != nil {
			return nil, err
		}
		x, _, err := maximizer.Maximize(ctx, p.Domain, obj)
		if err != nil {
			return nil, err
		}
		x = p.Domain.ProjectDiscrete(x)
		y := posteriorMean(p.Model, fantasy.X, fantasy.Y, p.Params, x)
		fantasy.Append(x, y)
		batch = append(batch, x)
	}
	return batch, nil
}

// posteriorMean returns the marginal posterior mean mu(x) used as a
// fantasy observation: the single MLE prediction's mean, or the
// average of the posterior-sample predictions' means under BI.
func posteriorMean(model surrogate.Model, X, Y [][]float64, state data.ParamState, x []float64) []float64 {
	outDim := model.OutputDim()
	if state.IsBI() {
		sum := make([]float64, outDim)
		n := 0
		for _, params := range state.Samples {
			pred, err := model.Predict(x, X, Y, params)
			if err != nil {
				continue
			}
			for j, v := range pred.Mean {
				sum[j] += v
			}
			n++
		}
		if n == 0 {
			return sum
		}
		for j := range sum {
			sum[j] /= float64(n)
		}
		return sum
	}
	if state.MLE == nil {
		return make([]float64, outDim)
	}
	pred, err := model.Predict(x, X, Y, *state.MLE)
	if err != nil {
		return make([]float64, outDim)
	}
	return pred.Mean
}
