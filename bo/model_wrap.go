package bo

import (
	"github.com/scttfrdmn/boptimize/bo/domain"
	"github.com/scttfrdmn/boptimize/bo/priors"
	"github.com/scttfrdmn/boptimize/bo/surrogate"
)

// discretizedModel rewrites a surrogate model's Predict so candidate
// points are rounded through the domain's discrete mask before
// prediction, keeping discrete coordinates consistent no matter which
// component asks for a prediction.
type discretizedModel struct {
	inner surrogate.Model
	dom   *domain.Domain
}

func discretize(inner surrogate.Model, dom *domain.Domain) surrogate.Model {
	return &discretizedModel{inner: inner, dom: dom}
}

func (d *discretizedModel) OutputDim() int                      { return d.inner.OutputDim() }
func (d *discretizedModel) ThetaPriors() []priors.Prior         { return d.inner.ThetaPriors() }
func (d *discretizedModel) LambdaPrior() priors.VectorPrior     { return d.inner.LambdaPrior() }
func (d *discretizedModel) UsesGP() bool                        { return d.inner.UsesGP() }
func (d *discretizedModel) LogLikelihood(X, Y [][]float64, p surrogate.Params) float64 {
	return d.inner.LogLikelihood(X, Y, p)
}

func (d *discretizedModel) Predict(x []float64, X, Y [][]float64, p surrogate.Params) (surrogate.Prediction, error) {
	return d.inner.Predict(d.dom.ProjectDiscrete(x), X, Y, p)
}

func hasDiscrete(dom *domain.Domain) bool {
	for _, b := range dom.Discrete {
		if b {
			return true
		}
	}
	return false
}
