// Package domain implements the bound, discreteness, and feasibility
// contract that every candidate point and stored dataset column must
// satisfy.
package domain

import (
	"math"

	"github.com/scttfrdmn/boptimize/boerrors"
)

// Domain is a box [Lb, Ub] in R^n with an optional discrete-coordinate
// mask and an optional general feasibility predicate.
type Domain struct {
	Lb        []float64
	Ub        []float64
	Discrete  []bool                // nil means no coordinate is discrete
	Predicate func(x []float64) bool // nil means bounds+discreteness suffice
}

// New builds a Domain, defaulting Discrete to an all-false mask of the
// right length when nil is passed.
func New(lb, ub []float64, discrete []bool) *Domain {
	if discrete == nil {
		discrete = make([]bool, len(lb))
	}
	return &Domain{Lb: lb, Ub: ub, Discrete: discrete}
}

// Dim returns the dimensionality of the domain.
func (d *Domain) Dim() int { return len(d.Lb) }

// InDomain reports whether x satisfies the bounds, discreteness, and any
// general predicate.
func (d *Domain) InDomain(x []float64) bool {
	if len(x) != len(d.Lb) {
		return false
	}
	for i, v := range x {
		if v < d.Lb[i] || v > d.Ub[i] {
			return false
		}
		if i < len(d.Discrete) && d.Discrete[i] && v != math.Round(v) {
			return false
		}
	}
	if d.Predicate != nil && !d.Predicate(x) {
		return false
	}
	return true
}

// ProjectDiscrete rounds every coordinate flagged discrete to the nearest
// integer, clamped back into [Lb, Ub]. Continuous coordinates pass
// through unchanged.
func (d *Domain) ProjectDiscrete(x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	for i := range out {
		if i < len(d.Discrete) && d.Discrete[i] {
			v := math.Round(out[i])
			if v < d.Lb[i] {
				v = math.Ceil(d.Lb[i])
			}
			if v > d.Ub[i] {
				v = math.Floor(d.Ub[i])
			}
			out[i] = v
		}
	}
	return out
}

// ExcludeExterior drops every column of X (and the corresponding column
// of Y) that falls outside the domain, preserving the relative order of
// the survivors. X and Y are column-major: len(X) == len(Y) == number of
// points, and each X[k]/Y[k] is one column.
func (d *Domain) ExcludeExterior(X, Y [][]float64) ([][]float64, [][]float64) {
	keptX := make([][]float64, 0, len(X))
	keptY := make([][]float64, 0, len(Y))
	for k, x := range X {
		if d.InDomain(x) {
			keptX = append(keptX, x)
			keptY = append(keptY, Y[k])
		}
	}
	return keptX, keptY
}

// Interiorize moves x strictly inside [lb, ub] by at least alpha per
// component. It fails with InvalidDomainError if any interval is too
// narrow to admit an interior point with that margin.
func Interiorize(x, lb, ub []float64, alpha float64) ([]float64, error) {
	out := make([]float64, len(x))
	for i := range x {
		if ub[i]-lb[i] < 2*alpha {
			return nil, boerrors.NewInvalidDomainError(
				"box too narrow to interiorize", nil)
		}
		v := x[i]
		if v < lb[i]+alpha {
			v = lb[i] + alpha
		}
		if v > ub[i]-alpha {
			v = ub[i] - alpha
		}
		out[i] = v
	}
	return out, nil
}
