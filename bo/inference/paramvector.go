// Package inference implements the engine's two parameter-estimation
// modes: maximum-likelihood estimation via constrained
// multistart optimization, and Bayesian inference via parallel NUTS
// sampling.
package inference

import (
	"math"

	"github.com/scttfrdmn/boptimize/bo/priors"
	"github.com/scttfrdmn/boptimize/bo/surrogate"
)

// layout describes how a flat parameter vector p = [theta ; vec(lambda)
// ; sigma2] is carved up for a particular model + noise-prior
// configuration, and carries each flat component's prior support
// bounds so box constraints and reparameterizations can be derived
// uniformly.
type layout struct {
	thetaLen  int
	outDim    int
	lambdaDim int // 0 if the model has no GP component
	flatPrior []flatComponent
}

type flatComponent struct {
	lo, hi float64 // support bounds, possibly +/-Inf
}

func buildLayout(model surrogate.Model, noisePriors []priors.Prior) layout {
	l := layout{
		thetaLen: len(model.ThetaPriors()),
		outDim:   model.OutputDim(),
	}
	for _, pr := range model.ThetaPriors() {
		l.flatPrior = append(l.flatPrior, flatComponent{pr.Min(), pr.Max()})
	}
	if lp := model.LambdaPrior(); lp != nil {
		l.lambdaDim = lp.Dim()
		lo, hi := lp.Min(), lp.Max()
		for j := 0; j < l.outDim; j++ {
			for d := 0; d < l.lambdaDim; d++ {
				l.flatPrior = append(l.flatPrior, flatComponent{lo[d], hi[d]})
			}
		}
	}
	for _, pr := range noisePriors {
		l.flatPrior = append(l.flatPrior, flatComponent{pr.Min(), pr.Max()})
	}
	return l
}

func (l layout) size() int { return len(l.flatPrior) }

// split turns a flat constrained-space vector back into surrogate.Params.
func (l layout) split(p []float64) surrogate.Params {
	var out surrogate.Params
	offset := 0
	if l.thetaLen > 0 {
		out.Theta = append([]float64(nil), p[offset:offset+l.thetaLen]...)
		offset += l.thetaLen
	}
	if l.lambdaDim > 0 {
		out.Lambda = make([][]float64, l.outDim)
		for j := 0; j < l.outDim; j++ {
			out.Lambda[j] = append([]float64(nil), p[offset:offset+l.lambdaDim]...)
			offset += l.lambdaDim
		}
	}
	out.Sigma2 = append([]float64(nil), p[offset:offset+l.outDim]...)
	return out
}

// flatten is split's inverse: it turns a Params back into a flat
// constrained-space vector.
func (l layout) flatten(p surrogate.Params) []float64 {
	out := make([]float64, 0, l.size())
	out = append(out, p.Theta...)
	for _, lam := range p.Lambda {
		out = append(out, lam...)
	}
	out = append(out, p.Sigma2...)
	return out
}

// box returns the per-component [lo, hi] box constraint implied by the
// priors, clamping infinite bounds to a wide finite box so gradient
// backends have something to clip against; components with genuinely
// unbounded support (e.g. a Normal prior on theta) get a generously wide
// box rather than literal infinities, which still behave like "no
// constraint" for any realistic MLE fit.
func (l layout) box(wideBound float64) (lb, ub []float64) {
	lb = make([]float64, l.size())
	ub = make([]float64, l.size())
	for i, c := range l.flatPrior {
		lo, hi := c.lo, c.hi
		if math.IsInf(lo, -1) {
			lo = -wideBound
		}
		if math.IsInf(hi, 1) {
			hi = wideBound
		}
		lb[i], ub[i] = lo, hi
	}
	return lb, ub
}
