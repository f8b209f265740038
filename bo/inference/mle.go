package inference

import (
	"context"
	"log/slog"
	"math/rand"

	"github.com/scttfrdmn/boptimize/bo/likelihood"
	"github.com/scttfrdmn/boptimize/bo/optimizer"
	"github.com/scttfrdmn/boptimize/bo/priors"
	"github.com/scttfrdmn/boptimize/bo/surrogate"
	"github.com/scttfrdmn/boptimize/observability"
)

// MLEConfig configures a maximum-likelihood fit.
type MLEConfig struct {
	Backend       optimizer.Backend
	NStarts       int // >= 1
	Parallel      bool
	MaxIterations int
	WideBound     float64 // box half-width substituted for +/-Inf support bounds; default 50
	Rng           *rand.Rand
	Logger        *slog.Logger
	Metrics       *observability.Metrics
}

// MLE fits (theta, lambda, sigma2) by maximizing the joint
// log-likelihood via constrained multistart optimization. Starts are
// seeded by sampling every free component from its own prior. When the
// configured backend is a GradientBoxBackend, the box
// derived from the priors' supports is passed straight to the
// optimizer; for any other backend, components with (0, +Inf) or
// bounded support are reparameterized (softplus / scaled logistic) so
// the optimizer can work in an effectively unconstrained space.
func MLE(ctx context.Context, model surrogate.Model, X, Y [][]float64, noisePriors []priors.Prior, cfg MLEConfig) (surrogate.Params, float64, error) {
	l := buildLayout(model, noisePriors)
	wide := cfg.WideBound
	if wide <= 0 {
		wide = 50
	}

	nStarts := cfg.NStarts
	if nStarts < 1 {
		nStarts = 1
	}
	rng := cfg.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	_, useBox := cfg.Backend.(optimizer.GradientBoxBackend)
	ts := l.transforms()

	samplePrior := func() []float64 {
		out := make([]float64, 0, l.size())
		for _, pr := range model.ThetaPriors() {
			out = append(out, pr.Sample(rng))
		}
		if lp := model.LambdaPrior(); lp != nil {
			for j := 0; j < l.outDim; j++ {
				out = append(out, lp.Sample(rng)...)
			}
		}
		for _, pr := range noisePriors {
			out = append(out, pr.Sample(rng))
		}
		return out
	}

	starts := make([][]float64, nStarts)
	for i := range starts {
		constrained := samplePrior()
		if useBox {
			starts[i] = constrained
		} else {
			starts[i] = constrainedToRaw(constrained, ts)
		}
	}

	obj := func(x []float64) float64 {
		var constrained []float64
		if useBox {
			constrained = x
		} else {
			constrained = rawToConstrained(x, ts)
		}
		return likelihood.Joint(model, X, Y, noisePriors, l.split(constrained))
	}

	var constraints optimizer.Constraints
	if useBox {
		constraints.Lb, constraints.Ub = l.box(wide)
	} else {
		constraints.Lb = make([]float64, l.size())
		constraints.Ub = make([]float64, l.size())
		for i := range constraints.Lb {
			constraints.Lb[i] = -wide
			constraints.Ub[i] = wide
		}
	}

	opts := optimizer.Options{MaxIterations: cfg.MaxIterations}
	onFailures := func(n int) { cfg.Metrics.RecordOptimizerFailures(ctx, int64(n)) }
	bestX, bestVal, err := optimizer.Multistart(ctx, cfg.Backend, obj, starts, constraints, opts, cfg.Parallel, cfg.Logger, onFailures)
	if err != nil {
		return surrogate.Params{}, 0, err
	}

	var constrained []float64
	if useBox {
		constrained = bestX
	} else {
		constrained = rawToConstrained(bestX, ts)
	}
	return l.split(constrained), bestVal, nil
}
