// Package likelihood assembles the joint log-likelihood that parameter
// inference (package inference) maximizes or samples from: the
// surrogate model's data term plus the log-prior of every free
// parameter group.
package likelihood

import (
	"math"

	"github.com/scttfrdmn/boptimize/bo/priors"
	"github.com/scttfrdmn/boptimize/bo/surrogate"
)

// Joint computes ell(theta, lambda, sigma2) = data-term(model) +
// sum log prior(theta) + sum log prior(lambda) + sum log prior(sigma2).
// Any NaN or infinite result collapses to -Inf so an invalid sample is
// rejected outright.
func Joint(model surrogate.Model, X, Y [][]float64, noisePrior []priors.Prior, p surrogate.Params) float64 {
	ll := model.LogLikelihood(X, Y, p)
	if math.IsInf(ll, -1) {
		return math.Inf(-1)
	}

	for i, pr := range model.ThetaPriors() {
		if i >= len(p.Theta) {
			break
		}
		ll += pr.LogPDF(p.Theta[i])
	}

	if lp := model.LambdaPrior(); lp != nil {
		for _, lambda := range p.Lambda {
			ll += lp.LogPDF(lambda)
		}
	}

	for i, pr := range noisePrior {
		if i >= len(p.Sigma2) {
			break
		}
		ll += pr.LogPDF(p.Sigma2[i])
	}

	if math.IsNaN(ll) || math.IsInf(ll, 1) {
		return math.Inf(-1)
	}
	return ll
}
