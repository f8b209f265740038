package bo

import (
	"math/rand"

	"github.com/scttfrdmn/boptimize/bo/acquisition"
	"github.com/scttfrdmn/boptimize/boerrors"
)

// Acquisition builds the candidate-maximizing objective for the
// current problem/parameter-state snapshot.
type Acquisition interface {
	Objective(p *Problem) (func(x []float64) float64, error)
}

// EI is the engine's only shipped acquisition: Expected Improvement,
// analytic for a linear unconstrained fitness, Monte Carlo otherwise,
// marginalized across posterior samples under BI.
type EI struct {
	EpsSamples  int
	LogEI       bool
	Rng         *rand.Rand
	DefaultBest float64 // F* fallback when no admissible point exists yet
}

func (e EI) Objective(p *Problem) (func([]float64) float64, error) {
	rng := e.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	sr := acquisition.NewSafeRand(rng)
	eps := e.EpsSamples
	if eps <= 0 {
		eps = 200
	}
	fStar := acquisition.BestAdmissible(p.Fitness, p.Data.Y, p.YMax, e.DefaultBest)

	if p.Params.IsBI() {
		if len(p.Params.Samples) == 0 {
			return nil, boerrors.NewInvalidModelError("no posterior samples available for acquisition")
		}
		return acquisition.BIObjective(p.Model, p.Data.X, p.Data.Y, p.Domain, p.Fitness, p.YMax, p.Params.Samples, fStar, eps, sr, e.LogEI), nil
	}
	if p.Params.MLE == nil {
		return nil, boerrors.NewInvalidModelError("no fitted parameters available for acquisition")
	}
	return acquisition.MLEObjective(p.Model, p.Data.X, p.Data.Y, p.Domain, p.Fitness, p.YMax, *p.Params.MLE, fStar, eps, sr, e.LogEI), nil
}
