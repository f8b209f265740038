// Package evaluation provides tools for evaluating and optimizing agent performance.
// Bayesian Optimization uses probabilistic models to efficiently find optimal
// hyperparameter configurations.
package evaluation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/scttfrdmn/boptimize/bo"
	"github.com/scttfrdmn/boptimize/bo/acquisition"
	"github.com/scttfrdmn/boptimize/bo/data"
	"github.com/scttfrdmn/boptimize/bo/inference"
	"github.com/scttfrdmn/boptimize/bo/optimizer"
	"github.com/scttfrdmn/boptimize/bo/priors"
	"github.com/scttfrdmn/boptimize/bo/surrogate"
)

// AcquisitionFunction specifies the acquisition function type for Bayesian optimization.
type AcquisitionFunction string

const (
	// AcquisitionEI represents Expected Improvement
	AcquisitionEI AcquisitionFunction = "ei"
	// AcquisitionUCB represents Upper Confidence Bound
	AcquisitionUCB AcquisitionFunction = "ucb"
	// AcquisitionPI represents Probability of Improvement
	AcquisitionPI AcquisitionFunction = "pi"
)

// ParameterType specifies the type of a hyperparameter.
type ParameterType string

const (
	// ParamTypeContinuous represents a continuous parameter (float)
	ParamTypeContinuous ParameterType = "continuous"
	// ParamTypeInteger represents an integer parameter
	ParamTypeInteger ParameterType = "integer"
	// ParamTypeDiscrete represents a discrete set of values
	ParamTypeDiscrete ParameterType = "discrete"
	// ParamTypeCategorical represents categorical values
	ParamTypeCategorical ParameterType = "categorical"
)

// ParameterSpec defines a parameter in the search space.
type ParameterSpec struct {
	Type   ParameterType
	Low    float64       // For continuous/integer
	High   float64       // For continuous/integer
	Values []interface{} // For discrete/categorical
}

// SearchSpace defines the hyperparameter search space.
type SearchSpace struct {
	Parameters map[string]ParameterSpec
}

// NewSearchSpace creates a new search space.
func NewSearchSpace() *SearchSpace {
	return &SearchSpace{
		Parameters: make(map[string]ParameterSpec),
	}
}

// AddContinuous adds a continuous parameter with range [low, high].
func (s *SearchSpace) AddContinuous(name string, low, high float64) {
	s.Parameters[name] = ParameterSpec{
		Type: ParamTypeContinuous,
		Low:  low,
		High: high,
	}
}

// AddInteger adds an integer parameter with range [low, high].
func (s *SearchSpace) AddInteger(name string, low, high int) {
	s.Parameters[name] = ParameterSpec{
		Type: ParamTypeInteger,
		Low:  float64(low),
		High: float64(high),
	}
}

// AddDiscrete adds a discrete parameter with specific values.
func (s *SearchSpace) AddDiscrete(name string, values []interface{}) {
	s.Parameters[name] = ParameterSpec{
		Type:   ParamTypeDiscrete,
		Values: values,
	}
}

// AddCategorical adds a categorical parameter with specific values.
func (s *SearchSpace) AddCategorical(name string, values []string) {
	interfaceValues := make([]interface{}, len(values))
	for i, v := range values {
		interfaceValues[i] = v
	}
	s.Parameters[name] = ParameterSpec{
		Type:   ParamTypeCategorical,
		Values: interfaceValues,
	}
}

// Sample generates a random configuration from the search space.
func (s *SearchSpace) Sample() map[string]interface{} {
	config := make(map[string]interface{})
	for name, spec := range s.Parameters {
		switch spec.Type {
		case ParamTypeContinuous:
			config[name] = spec.Low + rand.Float64()*(spec.High-spec.Low)
		case ParamTypeInteger:
			config[name] = int(spec.Low) + rand.Intn(int(spec.High-spec.Low+1))
		case ParamTypeDiscrete, ParamTypeCategorical:
			config[name] = spec.Values[rand.Intn(len(spec.Values))]
		}
	}
	return config
}

// OptimizationResult contains the results of an optimization run.
type OptimizationResult struct {
	BestConfig  map[string]interface{}
	BestScore   float64
	History     []OptimizationStep
	NIterations int
	StartTime   time.Time
	EndTime     time.Time
	Metadata    map[string]interface{}
}

// OptimizationStep represents a single evaluation in the optimization.
type OptimizationStep struct {
	Config map[string]interface{}
	Score  float64
}

// Duration returns the total optimization duration.
func (r *OptimizationResult) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// GetImprovement returns the improvement from initial to best score.
func (r *OptimizationResult) GetImprovement() float64 {
	if len(r.History) == 0 {
		return 0.0
	}
	return r.BestScore - r.History[0].Score
}

// ObjectiveFunc evaluates a configuration and returns a score.
type ObjectiveFunc func(ctx context.Context, config map[string]interface{}) (float64, error)

// BayesianOptimizer implements Bayesian optimization for hyperparameter
// tuning. It is the Agent Tuning Front End: a thin adapter over the
// bo package's GP-surrogate / Expected-Improvement engine, exposing
// the same named-parameter SearchSpace, ObjectiveFunc, and
// OptimizationResult shape this package has always exposed.
//
// Algorithm:
//  1. Sample n_initial random configurations directly from SearchSpace.
//  2. Fit an independent-per-output GP to the accumulated (x, score)
//     pairs and hand the remaining iterations to bo.Solve, which
//     repeats fit -> maximize Expected Improvement -> evaluate -> append.
//  3. Every evaluation, in both phases, is recorded through the same
//     addObservation bookkeeping so BestConfig/BestScore/History behave
//     identically regardless of which phase produced them.
type BayesianOptimizer struct {
	searchSpace *SearchSpace
	objective   ObjectiveFunc
	maximize    bool
	acquisition AcquisitionFunction
	nInitial    int
	xi          float64 // stored from Config.Xi; not read by Optimize
	kappa       float64 // stored from Config.Kappa; not read by Optimize
	history     []OptimizationStep
	bestConfig  map[string]interface{}
	bestScore   float64
}

// BayesianOptimizerConfig contains configuration for BayesianOptimizer.
type BayesianOptimizerConfig struct {
	SearchSpace *SearchSpace
	Objective   ObjectiveFunc
	Maximize    bool
	Acquisition AcquisitionFunction
	NInitial    int
	Xi          float64 // Stored with default 0.01; Optimize does not use it
	Kappa       float64 // Stored with default 2.576; Optimize does not use it
}

// NewBayesianOptimizer creates a new Bayesian optimizer.
func NewBayesianOptimizer(config BayesianOptimizerConfig) (*BayesianOptimizer, error) {
	if config.SearchSpace == nil {
		return nil, fmt.Errorf("search space is required")
	}
	if config.Objective == nil {
		return nil, fmt.Errorf("objective function is required")
	}

	// Set defaults
	if config.NInitial == 0 {
		config.NInitial = 5
	}
	if config.Xi == 0.0 {
		config.Xi = 0.01
	}
	if config.Kappa == 0.0 {
		config.Kappa = 2.576 // 99% confidence interval
	}
	if config.Acquisition == "" {
		config.Acquisition = AcquisitionEI
	}

	return &BayesianOptimizer{
		searchSpace: config.SearchSpace,
		objective:   config.Objective,
		maximize:    config.Maximize,
		acquisition: config.Acquisition,
		nInitial:    config.NInitial,
		xi:          config.Xi,
		kappa:       config.Kappa,
		history:     make([]OptimizationStep, 0),
		bestScore:   math.Inf(-1),
	}, nil
}

// Optimize runs the Bayesian optimization process.
func (b *BayesianOptimizer) Optimize(ctx context.Context, nIterations int) (*OptimizationResult, error) {
	startTime := time.Now()

	codec := newParamCodec(b.searchSpace)
	dom := codec.Domain()

	// Phase 1: Random initialization, evaluated directly against
	// SearchSpace.Sample so the engine always starts from a populated
	// dataset (bo.Solve requires at least one observation).
	nInitial := min(b.nInitial, nIterations)
	X := make([][]float64, 0, nInitial)
	Y := make([][]float64, 0, nInitial)
	for i := 0; i < nInitial; i++ {
		config := b.searchSpace.Sample()
		score, err := b.objective(ctx, config)
		if err != nil {
			return nil, fmt.Errorf("evaluation failed at iteration %d: %w", i, err)
		}
		b.addObservation(config, score)
		X = append(X, codec.Encode(config))
		Y = append(Y, []float64{b.orientedScore(score)})
	}

	// Phase 2: hand the remaining budget to the GP/EI engine. The
	// acquisition function always maximizes F(y) = y, so Phase 1
	// already oriented every observation toward b.maximize.
	remaining := nIterations - nInitial
	if remaining > 0 {
		lambdaPrior := priors.Independent{Marginals: repeat(priors.LogNormal{Mu: 0, Sigma: 1}, dom.Dim())}
		model := surrogate.NewNonparametric(surrogate.RBFKernel{Variance: 1}, nil, lambdaPrior, 1)
		noisePriors := []priors.Prior{priors.LogNormal{Mu: -2, Sigma: 1}}

		problem := &bo.Problem{
			Fitness: acquisition.LinearFitness{C: []float64{1}},
			F: func(x []float64) ([]float64, error) {
				config := codec.Decode(x)
				score, err := b.objective(ctx, config)
				if err != nil {
					return nil, err
				}
				b.addObservation(config, score)
				return []float64{b.orientedScore(score)}, nil
			},
			YMax:          []float64{math.Inf(1)},
			Domain:        dom,
			Model:         model,
			NoiseVarPrior: noisePriors,
			Data:          data.New(X, Y),
		}

		fitter := bo.MLEFitter{Cfg: inference.MLEConfig{Backend: optimizer.GradientBoxBackend{}, NStarts: 4}}
		maximizer := bo.MultistartMaximizer{Backend: optimizer.GradientBoxBackend{}, NStarts: 8}

		// b.acquisition is accepted and reported for backward
		// compatibility; the engine ships only Expected Improvement,
		// so every configured value drives the same EI objective.
		if _, err := bo.Solve(ctx, problem, fitter, maximizer, bo.EI{}, bo.NewIterLimit(remaining), bo.Options{}); err != nil {
			return nil, fmt.Errorf("bayesian optimization failed: %w", err)
		}
	}

	endTime := time.Now()

	return &OptimizationResult{
		BestConfig:  b.bestConfig,
		BestScore:   b.bestScore,
		History:     b.history,
		NIterations: nIterations,
		StartTime:   startTime,
		EndTime:     endTime,
		Metadata: map[string]interface{}{
			"algorithm":   "bayesian_optimization",
			"acquisition": string(b.acquisition),
			"n_initial":   b.nInitial,
			"maximize":    b.maximize,
		},
	}, nil
}

// orientedScore flips score into the engine's always-maximize
// convention when this optimizer was configured to minimize.
func (b *BayesianOptimizer) orientedScore(score float64) float64 {
	if b.maximize {
		return score
	}
	return -score
}

func repeat(p priors.Prior, n int) []priors.Prior {
	out := make([]priors.Prior, n)
	for i := range out {
		out[i] = p
	}
	return out
}

// addObservation adds a new observation to the history.
func (b *BayesianOptimizer) addObservation(config map[string]interface{}, score float64) {
	step := OptimizationStep{
		Config: config,
		Score:  score,
	}
	b.history = append(b.history, step)

	// Update best
	if len(b.history) == 1 || (b.maximize && score > b.bestScore) || (!b.maximize && score < b.bestScore) {
		b.bestScore = score
		b.bestConfig = copyConfig(config)
	}
}

// configSimilarity computes similarity between two configurations (0-1).
// No longer used by Optimize itself (the GP surrogate replaces local
// neighborhood statistics), but kept as a standalone utility since the
// similarity metric remains a useful diagnostic over a search space.
func (b *BayesianOptimizer) configSimilarity(config1, config2 map[string]interface{}) float64 {
	if len(config1) == 0 || len(config2) == 0 {
		return 0.0
	}

	similaritySum := 0.0
	totalCount := 0

	for name, spec := range b.searchSpace.Parameters {
		v1, ok1 := config1[name]
		v2, ok2 := config2[name]
		if !ok1 || !ok2 {
			continue
		}

		totalCount++

		switch spec.Type {
		case ParamTypeContinuous, ParamTypeInteger:
			// Normalized distance
			val1 := toFloat64(v1)
			val2 := toFloat64(v2)
			range_ := spec.High - spec.Low
			if range_ > 0 {
				dist := math.Abs(val1-val2) / range_
				similaritySum += 1.0 - dist // Similarity = 1 - normalized distance
			} else {
				// Zero range - either identical or not
				if val1 == val2 {
					similaritySum += 1.0
				}
			}

		case ParamTypeDiscrete, ParamTypeCategorical:
			if v1 == v2 {
				similaritySum += 1.0
			}
		}
	}

	if totalCount == 0 {
		return 0.0
	}

	return similaritySum / float64(totalCount)
}

// Helper functions

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func copyConfig(config map[string]interface{}) map[string]interface{} {
	copy := make(map[string]interface{})
	for k, v := range config {
		copy[k] = v
	}
	return copy
}

func toFloat64(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case float32:
		return float64(val)
	default:
		return 0.0
	}
}
