package bo

import (
	"context"
	"log/slog"
	"time"

	"github.com/scttfrdmn/boptimize/bo/data"
	"github.com/scttfrdmn/boptimize/boerrors"
	"github.com/scttfrdmn/boptimize/observability"
)

// initialize enforces the pre-loop contract: prune dataset
// columns outside the domain, reject an empty result, validate y_max's
// arity, and rewrite the model once for discrete rounding if needed.
// Structural errors are raised eagerly here, never mid-loop.
func initialize(p *Problem) error {
	if p.Domain == nil {
		return boerrors.NewInvalidDomainError("problem has no domain", nil)
	}
	if p.Data == nil || p.Data.Columns() == 0 {
		return boerrors.NewInvalidDomainError("problem has no initial data", nil)
	}
	X, Y := p.Domain.ExcludeExterior(p.Data.X, p.Data.Y)
	if len(X) == 0 {
		return boerrors.NewInvalidDomainError("no interior points remain after exterior exclusion", nil)
	}
	p.Data = data.New(X, Y)

	if p.Model != nil && len(p.YMax) != 0 && len(p.YMax) != p.Model.OutputDim() {
		return boerrors.NewInvalidModelError("y_max arity does not match model output dimension")
	}

	if hasDiscrete(p.Domain) {
		p.Model = discretize(p.Model, p.Domain)
	}
	return nil
}

// step runs one fit-then-maximize pass: recompute parameters from
// scratch, build the acquisition objective against that state, and
// maximize it, projecting the winner back onto the discrete mask.
func step(ctx context.Context, p *Problem, fitter ModelFitter, maximizer AcqMaximizer, acq Acquisition, logger *slog.Logger, metrics *observability.Metrics) (x []float64, acqVal float64, err error) {
	start := time.Now()
	state, err := fitter.Fit(ctx, p.Model, p.Data.X, p.Data.Y, p.NoiseVarPrior)
	if err != nil {
		return nil, 0, err
	}
	p.Params = state
	inferenceElapsed := time.Since(start)
	mode := "mle"
	if state.IsBI() {
		mode = "bi"
	}
	metrics.RecordInference(ctx, mode, float64(inferenceElapsed.Milliseconds()))
	if logger != nil {
		ll := 0.0
		if !state.IsBI() && state.MLE != nil {
			ll = p.Model.LogLikelihood(p.Data.X, p.Data.Y, *state.MLE)
		}
		observability.LogInference(ctx, logger, mode, ll, inferenceElapsed)
	}

	obj, err := acq.Objective(p)
	if err != nil {
		return nil, 0, err
	}
	x, acqVal, err = maximizer.Maximize(ctx, p.Domain, obj)
	if err != nil {
		return nil, 0, err
	}
	return p.Domain.ProjectDiscrete(x), acqVal, nil
}

// Solve runs the BO control loop: repeat fit -> maximize -> evaluate
// f -> append, while term reports continue. It returns the
// problem with its dataset populated through termination.
func Solve(ctx context.Context, p *Problem, fitter ModelFitter, maximizer AcqMaximizer, acq Acquisition, term TermCond, opts Options) (*Problem, error) {
	if err := initialize(p); err != nil {
		return nil, err
	}
	if acq == nil {
		acq = EI{EpsSamples: opts.EpsSamples}
	}
	if term == nil {
		term = NewIterLimit(1)
	}
	var logger *slog.Logger
	if opts.Info {
		logger = observability.GetLoggerWithTrace()
	}

	iteration := 0
	for term.Continue(p) {
		roundStart := time.Now()
		x, acqVal, err := step(ctx, p, fitter, maximizer, acq, logger, opts.Metrics)
		if err != nil {
			return nil, err
		}
		if p.F == nil {
			return p, nil
		}
		y, err := p.F(x)
		if err != nil {
			if !opts.RejectFailedEvals {
				return nil, boerrors.NewEvaluationFailedError("objective evaluation raised", err)
			}
			if logger != nil {
				logger.WarnContext(ctx, "objective evaluation failed, point rejected", "error", err)
			}
			iteration++
			continue
		}
		p.Data.Append(x, y)
		iteration++
		opts.Metrics.RecordRound(ctx, float64(time.Since(roundStart).Milliseconds()))
		if logger != nil {
			best := bestFitnessSoFar(p)
			observability.LogRound(ctx, logger, iteration, best, acqVal)
		}
		if opts.PlotHook != nil {
			opts.PlotHook(p)
		}
	}
	return p, nil
}

// Recommend runs exactly one fit-then-maximize pass over a problem
// without an objective function and returns the chosen candidate,
// never evaluating or appending it.
func Recommend(ctx context.Context, p *Problem, fitter ModelFitter, maximizer AcqMaximizer, acq Acquisition, opts Options) ([]float64, error) {
	if err := initialize(p); err != nil {
		return nil, err
	}
	if acq == nil {
		acq = EI{EpsSamples: opts.EpsSamples}
	}
	var logger *slog.Logger
	if opts.Info {
		logger = observability.GetLoggerWithTrace()
	}
	x, _, err := step(ctx, p, fitter, maximizer, acq, logger, opts.Metrics)
	if err != nil {
		return nil, err
	}
	return x, nil
}

func bestFitnessSoFar(p *Problem) float64 {
	best := 0.0
	found := false
	for _, y := range p.Data.Y {
		v := p.Fitness.Eval(y)
		if !found || v > best {
			best = v
			found = true
		}
	}
	return best
}
