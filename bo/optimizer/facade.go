// Package optimizer unifies several numerical-optimization backends
// (gradient, derivative-free, evolutionary) behind a single maximize
// contract, and implements multistart with isolated per-start failure
// handling.
package optimizer

import "math"

// Objective is a function to MAXIMIZE. Every backend internally
// minimizes its negation.
type Objective func(x []float64) float64

// Constraints is the only constraint kind the facade natively
// understands: a box [Lb, Ub]. Backends that cannot accept a box
// directly (Nelder-Mead, CMA-ES) enforce it through a penalty term
// added to the objective before the backend ever sees it.
type Constraints struct {
	Lb, Ub []float64
}

// Options configures a single optimize() call.
type Options struct {
	MaxIterations int // 0 means backend default
}

// Backend is a single optimization method: run from one start point,
// return the best point found and its objective value.
type Backend interface {
	Optimize(obj Objective, start []float64, c Constraints, opts Options) (arg []float64, val float64, err error)
}

func clip(x []float64, c Constraints) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		if v < c.Lb[i] {
			v = c.Lb[i]
		}
		if v > c.Ub[i] {
			v = c.Ub[i]
		}
		out[i] = v
	}
	return out
}

// boxPenalty returns a quadratic penalty for excursions outside the
// box, scaled so that it dominates a well-conditioned objective a
// moderate distance outside the bounds, nudging derivative-free/
// evolutionary backends back toward the feasible region without
// hard-rejecting out-of-box evaluations.
func boxPenalty(x []float64, c Constraints) float64 {
	penalty := 0.0
	for i, v := range x {
		if v < c.Lb[i] {
			d := c.Lb[i] - v
			penalty += 1e6 * d * d
		} else if v > c.Ub[i] {
			d := v - c.Ub[i]
			penalty += 1e6 * d * d
		}
	}
	return penalty
}

// Optimize runs a single backend from a single start, maximizing obj.
func Optimize(backend Backend, obj Objective, start []float64, c Constraints, opts Options) ([]float64, float64, error) {
	arg, val, err := backend.Optimize(obj, start, c, opts)
	if err != nil {
		return nil, math.Inf(-1), err
	}
	return arg, val, nil
}
