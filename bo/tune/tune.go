// Package tune is the agent-tuning front end's named entry point: a
// one-call wrapper around package evaluation's BayesianOptimizer for
// callers that don't need the optimizer handle itself.
package tune

import (
	"context"

	"github.com/scttfrdmn/boptimize/evaluation"
)

// Run builds a BayesianOptimizer over space and objective per cfg,
// then drives nIterations rounds of optimization, returning the same
// OptimizationResult Optimize would. SearchSpace and Objective on cfg,
// if set, are overridden by the space and objective arguments.
func Run(ctx context.Context, space *evaluation.SearchSpace, objective evaluation.ObjectiveFunc, cfg evaluation.BayesianOptimizerConfig, nIterations int) (*evaluation.OptimizationResult, error) {
	cfg.SearchSpace = space
	cfg.Objective = objective
	opt, err := evaluation.NewBayesianOptimizer(cfg)
	if err != nil {
		return nil, err
	}
	return opt.Optimize(ctx, nIterations)
}
