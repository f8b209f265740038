// Package priors implements the univariate and product-of-marginals
// prior distributions used to regularize surrogate-model parameters and
// to derive box constraints for maximum-likelihood fitting.
package priors

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Prior is a one-dimensional prior distribution with sampling, log
// density, and support-bound queries. Min/Max feed the box constraints
// handed to the MLE optimizer.
type Prior interface {
	Sample(rng *rand.Rand) float64
	LogPDF(v float64) float64
	Min() float64
	Max() float64
}

// VectorPrior is a prior over a fixed-length vector, used for
// per-dimension length scales. It is a product of (possibly distinct)
// marginal priors.
type VectorPrior interface {
	Dim() int
	Sample(rng *rand.Rand) []float64
	LogPDF(v []float64) float64
	Min() []float64
	Max() []float64
}

// Normal is a Gaussian prior with unbounded support.
type Normal struct {
	Mu, Sigma float64
}

func (p Normal) dist(rng *rand.Rand) distuv.Normal {
	return distuv.Normal{Mu: p.Mu, Sigma: p.Sigma, Src: rng}
}

func (p Normal) Sample(rng *rand.Rand) float64 { return p.dist(rng).Rand() }
func (p Normal) LogPDF(v float64) float64      { return p.dist(nil).LogProb(v) }
func (p Normal) Min() float64                  { return math.Inf(-1) }
func (p Normal) Max() float64                  { return math.Inf(1) }

// LogNormal is a prior over strictly positive reals, the natural choice
// for length scales and noise variances.
type LogNormal struct {
	Mu, Sigma float64
}

func (p LogNormal) dist(rng *rand.Rand) distuv.LogNormal {
	return distuv.LogNormal{Mu: p.Mu, Sigma: p.Sigma, Src: rng}
}

func (p LogNormal) Sample(rng *rand.Rand) float64 { return p.dist(rng).Rand() }
func (p LogNormal) LogPDF(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return p.dist(nil).LogProb(v)
}
func (p LogNormal) Min() float64 { return 0 }
func (p LogNormal) Max() float64 { return math.Inf(1) }

// Uniform is a bounded, flat prior.
type Uniform struct {
	Lo, Hi float64
}

func (p Uniform) dist(rng *rand.Rand) distuv.Uniform {
	return distuv.Uniform{Min: p.Lo, Max: p.Hi, Src: rng}
}

func (p Uniform) Sample(rng *rand.Rand) float64 { return p.dist(rng).Rand() }
func (p Uniform) LogPDF(v float64) float64 {
	if v < p.Lo || v > p.Hi {
		return math.Inf(-1)
	}
	return p.dist(nil).LogProb(v)
}
func (p Uniform) Min() float64 { return p.Lo }
func (p Uniform) Max() float64 { return p.Hi }

// Gamma is an alternative strictly-positive prior, commonly used for
// noise variances when a heavier tail than LogNormal is wanted.
type Gamma struct {
	Alpha, Beta float64
}

func (p Gamma) dist(rng *rand.Rand) distuv.Gamma {
	return distuv.Gamma{Alpha: p.Alpha, Beta: p.Beta, Src: rng}
}

func (p Gamma) Sample(rng *rand.Rand) float64 { return p.dist(rng).Rand() }
func (p Gamma) LogPDF(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return p.dist(nil).LogProb(v)
}
func (p Gamma) Min() float64 { return 0 }
func (p Gamma) Max() float64 { return math.Inf(1) }

// Independent builds a VectorPrior as a product of per-dimension
// marginal priors; sampling and log density apply element-wise, the
// shape per-dimension length-scale vectors need.
type Independent struct {
	Marginals []Prior
}

func (p Independent) Dim() int { return len(p.Marginals) }

func (p Independent) Sample(rng *rand.Rand) []float64 {
	out := make([]float64, len(p.Marginals))
	for i, m := range p.Marginals {
		out[i] = m.Sample(rng)
	}
	return out
}

func (p Independent) LogPDF(v []float64) float64 {
	total := 0.0
	for i, m := range p.Marginals {
		total += m.LogPDF(v[i])
	}
	return total
}

func (p Independent) Min() []float64 {
	out := make([]float64, len(p.Marginals))
	for i, m := range p.Marginals {
		out[i] = m.Min()
	}
	return out
}

func (p Independent) Max() []float64 {
	out := make([]float64, len(p.Marginals))
	for i, m := range p.Marginals {
		out[i] = m.Max()
	}
	return out
}
