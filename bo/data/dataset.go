// Package data holds the BO engine's mutable state between rounds: the
// evolving (X, Y) dataset and the posterior parameter state produced by
// the most recent inference pass.
package data

import "github.com/scttfrdmn/boptimize/bo/surrogate"

// Dataset is D = (X, Y): k columns, each X[i] an input point and Y[i]
// its observed output vector. columns(X) == columns(Y) is maintained by
// construction; every exported mutator keeps the pair in lockstep.
type Dataset struct {
	X [][]float64
	Y [][]float64
}

// New builds a Dataset from existing columns. X and Y must already have
// matching length; callers that need bounds/feasibility filtering
// should run bo/domain.Domain.ExcludeExterior first.
func New(X, Y [][]float64) *Dataset {
	return &Dataset{X: X, Y: Y}
}

// Columns reports k, the current number of data points.
func (d *Dataset) Columns() int { return len(d.X) }

// Append adds one new observation, used at the end of each BO
// iteration once f(x) has been evaluated.
func (d *Dataset) Append(x, y []float64) {
	d.X = append(d.X, x)
	d.Y = append(d.Y, y)
}

// Clone returns a deep copy whose slices share no backing array with
// the receiver, so sequential batching can append fantasy observations
// to a private copy without ever mutating the caller's visible
// dataset.
func (d *Dataset) Clone() *Dataset {
	X := make([][]float64, len(d.X))
	Y := make([][]float64, len(d.Y))
	for i := range d.X {
		X[i] = append([]float64(nil), d.X[i]...)
		Y[i] = append([]float64(nil), d.Y[i]...)
	}
	return &Dataset{X: X, Y: Y}
}

// ParamState is the inference layer's output attached to a dataset
// snapshot: exactly one of MLE (a single fitted tuple) or Samples (a
// posterior sample matrix from BI) is populated.
type ParamState struct {
	MLE     *surrogate.Params
	Samples []surrogate.Params
}

// IsBI reports whether this state came from Bayesian inference rather
// than maximum-likelihood fitting.
func (p ParamState) IsBI() bool { return p.Samples != nil }
