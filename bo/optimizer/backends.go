package optimizer

import (
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"
)

// GradientBoxBackend maximizes smooth objectives over a box using
// L-BFGS, with a numerical-differentiation gradient provider (the AD
// provider seam described in the design notes) and the box enforced by
// clipping each evaluated point back onto [Lb, Ub] plus a penalty term
// so the gradient still points inward near the boundary, a lightweight
// stand-in for a true interior-point box method.
type GradientBoxBackend struct{}

func (GradientBoxBackend) Optimize(obj Objective, start []float64, c Constraints, opts Options) ([]float64, float64, error) {
	negObj := func(x []float64) float64 {
		clipped := clip(x, c)
		return -obj(clipped) + boxPenalty(x, c)
	}
	grad := func(g, x []float64) {
		fd.Gradient(g, negObj, x, nil)
	}

	problem := optimize.Problem{Func: negObj, Grad: grad}
	settings := &optimize.Settings{}
	if opts.MaxIterations > 0 {
		settings.MajorIterations = opts.MaxIterations
	}

	result, err := optimize.Minimize(problem, start, settings, &optimize.LBFGS{})
	if err != nil {
		return nil, 0, err
	}
	arg := clip(result.X, c)
	return arg, -result.F, nil
}

// NelderMeadBackend maximizes possibly non-smooth objectives with a
// derivative-free simplex search, box enforced purely via penalty.
type NelderMeadBackend struct{}

func (NelderMeadBackend) Optimize(obj Objective, start []float64, c Constraints, opts Options) ([]float64, float64, error) {
	negObj := func(x []float64) float64 {
		return -obj(clip(x, c)) + boxPenalty(x, c)
	}
	problem := optimize.Problem{Func: negObj}
	settings := &optimize.Settings{}
	if opts.MaxIterations > 0 {
		settings.MajorIterations = opts.MaxIterations
	}

	result, err := optimize.Minimize(problem, start, settings, &optimize.NelderMead{})
	if err != nil {
		return nil, 0, err
	}
	arg := clip(result.X, c)
	return arg, -result.F, nil
}

// CMAESBackend maximizes rugged, multimodal objectives with the
// Cholesky-form covariance matrix adaptation evolution strategy.
type CMAESBackend struct {
	// Population overrides the default population size; 0 uses the
	// backend default.
	Population int
}

func (b CMAESBackend) Optimize(obj Objective, start []float64, c Constraints, opts Options) ([]float64, float64, error) {
	negObj := func(x []float64) float64 {
		return -obj(clip(x, c)) + boxPenalty(x, c)
	}
	problem := optimize.Problem{Func: negObj}
	settings := &optimize.Settings{}
	if opts.MaxIterations > 0 {
		settings.MajorIterations = opts.MaxIterations
	}

	method := &optimize.CmaEsChol{}
	if b.Population > 0 {
		method.Population = b.Population
	}

	result, err := optimize.Minimize(problem, start, settings, method)
	if err != nil {
		return nil, 0, err
	}
	arg := clip(result.X, c)
	return arg, -result.F, nil
}
