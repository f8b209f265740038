// Package bo implements the BO control loop: round
// orchestration over a Problem's evolving dataset and posterior
// parameter state, sequential fantasy batching, and termination, tying
// together domain, priors, surrogate, likelihood, inference, and
// acquisition into the public Solve/Recommend/Batch entry points.
package bo

import (
	"github.com/scttfrdmn/boptimize/bo/acquisition"
	"github.com/scttfrdmn/boptimize/bo/data"
	"github.com/scttfrdmn/boptimize/bo/domain"
	"github.com/scttfrdmn/boptimize/bo/priors"
	"github.com/scttfrdmn/boptimize/bo/surrogate"
	"github.com/scttfrdmn/boptimize/observability"
)

// Problem bundles everything the loop needs: the fitness projection,
// the (optional) black-box objective, output constraints, the input
// domain, the surrogate model, the noise-variance prior, and the
// evolving dataset/parameter state. F is nil for a recommend-only
// problem.
type Problem struct {
	Fitness       acquisition.Fitness
	F             func(x []float64) ([]float64, error)
	YMax          []float64
	Domain        *domain.Domain
	Model         surrogate.Model
	NoiseVarPrior []priors.Prior
	Data          *data.Dataset
	Params        data.ParamState
}

// Options configures a Solve/Recommend call. Every optional
// setting has an enumerated default; there is no global mutable
// configuration (design notes).
type Options struct {
	// Info enables structured logging of round boundaries and inference
	// completion via package observability. Optimizer and chain failures
	// are logged only through the Logger fields of MultistartMaximizer
	// and the inference configs, not through Info.
	Info bool
	// EpsSamples is the Monte Carlo sample count given to the default EI
	// when no Acquisition is passed; an Acquisition that is passed keeps
	// its own setting.
	EpsSamples int
	// PlotHook, if non-nil, is invoked with the problem state after
	// every successful iteration. Out of core scope; never invoked by
	// anything except the loop itself, purely for caller observation.
	PlotHook func(*Problem)
	// RejectFailedEvals treats a failed f(x) evaluation as a rejected
	// point: the candidate is dropped, the iteration still counts, and
	// the loop moves on. When false (the default) the failure surfaces
	// immediately as EvaluationFailedError.
	RejectFailedEvals bool
	// Metrics, if non-nil, receives round/inference/failure counters
	// and histograms through package observability's OpenTelemetry
	// instruments (see observability.NewMetrics). Nil disables metric
	// recording entirely; Info controls structured logging separately.
	Metrics *observability.Metrics
}
