// Package acquisition implements Expected Improvement, the engine's
// acquisition function, over a model's posterior predictive: an
// analytic closed form when the fitness is linear and the output
// unconstrained, Monte Carlo sampling otherwise, marginalized across
// posterior samples under Bayesian inference.
package acquisition

import (
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/scttfrdmn/boptimize/bo/domain"
	"github.com/scttfrdmn/boptimize/bo/surrogate"
)

// Fitness projects a multi-output observation y onto a scalar quality
// measure F(y). Linear exposes the projection coefficients c when
// F(y) = c.y, unlocking the closed-form EI fast path; a general
// nonlinear fitness returns (nil, false) and is evaluated only through
// Eval, inside the Monte Carlo estimator.
type Fitness interface {
	Eval(y []float64) float64
	Linear() (c []float64, ok bool)
}

// LinearFitness is F(y) = c.y.
type LinearFitness struct{ C []float64 }

func (f LinearFitness) Eval(y []float64) float64 {
	sum := 0.0
	for i, c := range f.C {
		sum += c * y[i]
	}
	return sum
}
func (f LinearFitness) Linear() ([]float64, bool) { return f.C, true }

// NonlinearFitness wraps an arbitrary F: R^m -> R.
type NonlinearFitness struct{ F func(y []float64) float64 }

func (f NonlinearFitness) Eval(y []float64) float64  { return f.F(y) }
func (f NonlinearFitness) Linear() ([]float64, bool) { return nil, false }

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// Admissible reports whether y meets every finite y_max bound; a +Inf
// bound disables the constraint for that output.
func Admissible(y, yMax []float64) bool {
	for j, ymax := range yMax {
		if j >= len(y) {
			break
		}
		if !math.IsInf(ymax, 1) && y[j] > ymax {
			return false
		}
	}
	return true
}

func allUnconstrained(yMax []float64) bool {
	for _, v := range yMax {
		if !math.IsInf(v, 1) {
			return false
		}
	}
	return true
}

// BestAdmissible computes F* = max{F(y_i) : y_i meets yMax} over the
// dataset's outputs, falling back to def when no column is admissible.
func BestAdmissible(fitness Fitness, Y [][]float64, yMax []float64, def float64) float64 {
	best := math.Inf(-1)
	found := false
	for _, y := range Y {
		if !Admissible(y, yMax) {
			continue
		}
		v := fitness.Eval(y)
		if !found || v > best {
			best = v
			found = true
		}
	}
	if !found {
		return def
	}
	return best
}

// safeRand guards a shared *rand.Rand so Monte Carlo EI can be called
// from concurrent optimizer starts without racing on the source's
// internal state (see bo/optimizer.Multistart).
type safeRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSafeRand wraps rng for concurrent use by acquisition objectives.
func NewSafeRand(rng *rand.Rand) *safeRand { return &safeRand{rng: rng} }

func (s *safeRand) normal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.NormFloat64()
}

// EI computes Expected Improvement from a single posterior predictive
// (mean, variance) -- no cross-output correlation, per the surrogate
// contract. It takes the analytic closed form for a linear,
// unconstrained fitness and falls back to an epsSamples-draw Monte
// Carlo estimate otherwise.
func EI(fitness Fitness, mean, variance, yMax []float64, fStar float64, epsSamples int, rng *safeRand) float64 {
	if c, ok := fitness.Linear(); ok && allUnconstrained(yMax) {
		return analyticEI(c, mean, variance, fStar)
	}
	return monteCarloEI(fitness, mean, variance, yMax, fStar, epsSamples, rng)
}

func analyticEI(c, mean, variance []float64, fStar float64) float64 {
	cm, cvc := 0.0, 0.0
	for i, ci := range c {
		cm += ci * mean[i]
		cvc += ci * ci * variance[i]
	}
	if cvc <= 0 {
		return 0
	}
	s := math.Sqrt(cvc)
	z := (cm - fStar) / s
	ei := s*stdNormal.Prob(z) + (cm-fStar)*stdNormal.CDF(z)
	if ei < 0 {
		return 0
	}
	return ei
}

func monteCarloEI(fitness Fitness, mean, variance, yMax []float64, fStar float64, epsSamples int, rng *safeRand) float64 {
	if epsSamples <= 0 {
		epsSamples = 1
	}
	total := 0.0
	y := make([]float64, len(mean))
	for s := 0; s < epsSamples; s++ {
		for i := range mean {
			sd := math.Sqrt(math.Max(variance[i], 0))
			y[i] = mean[i] + sd*rng.normal()
		}
		if !Admissible(y, yMax) {
			continue
		}
		imp := fitness.Eval(y) - fStar
		if imp > 0 {
			total += imp
		}
	}
	return total / float64(epsSamples)
}

// gate returns the value an out-of-domain candidate reports: 0 for
// plain EI, -Inf for a log-EI backend that cannot accept a zero.
func gate(logEI bool) float64 {
	if logEI {
		return math.Inf(-1)
	}
	return 0
}

func report(v float64, logEI bool) float64 {
	if !logEI {
		return v
	}
	if v <= 0 {
		return math.Inf(-1)
	}
	return math.Log(v)
}

// MLEObjective builds the candidate-maximizing objective for a single
// fitted parameter state (MLE mode): feasibility-gated EI against the
// model's posterior predictive.
func MLEObjective(model surrogate.Model, X, Y [][]float64, dom *domain.Domain, fitness Fitness, yMax []float64, params surrogate.Params, fStar float64, epsSamples int, rng *safeRand, logEI bool) func(x []float64) float64 {
	return func(x []float64) float64 {
		if !dom.InDomain(x) {
			return gate(logEI)
		}
		pred, err := model.Predict(x, X, Y, params)
		if err != nil {
			return gate(logEI)
		}
		return report(EI(fitness, pred.Mean, pred.Var, yMax, fStar, epsSamples, rng), logEI)
	}
}

// BIObjective marginalizes EI across a posterior sample matrix -- one
// surrogate.Params per draw -- reporting the average (1/S) sum_s EI_s(x).
func BIObjective(model surrogate.Model, X, Y [][]float64, dom *domain.Domain, fitness Fitness, yMax []float64, paramSamples []surrogate.Params, fStar float64, epsSamples int, rng *safeRand, logEI bool) func(x []float64) float64 {
	return func(x []float64) float64 {
		if !dom.InDomain(x) {
			return gate(logEI)
		}
		total, n := 0.0, 0
		for _, p := range paramSamples {
			pred, err := model.Predict(x, X, Y, p)
			if err != nil {
				continue
			}
			total += EI(fitness, pred.Mean, pred.Var, yMax, fStar, epsSamples, rng)
			n++
		}
		if n == 0 {
			return gate(logEI)
		}
		return report(total/float64(n), logEI)
	}
}
