package bo

import (
	"context"
	"log/slog"
	"math/rand"

	"github.com/scttfrdmn/boptimize/bo/domain"
	"github.com/scttfrdmn/boptimize/bo/optimizer"
	"github.com/scttfrdmn/boptimize/observability"
)

// AcqMaximizer maximizes an acquisition objective over a domain,
// returning the chosen candidate and its acquisition value.
type AcqMaximizer interface {
	Maximize(ctx context.Context, dom *domain.Domain, obj func([]float64) float64) ([]float64, float64, error)
}

// MultistartMaximizer is the default AcqMaximizer: it seeds Backend
// with NStarts Latin-Hypercube (or uniform, for NStarts<2) points over
// the domain box and runs package optimizer's isolated-failure
// multistart.
type MultistartMaximizer struct {
	Backend       optimizer.Backend
	NStarts       int
	Parallel      bool
	MaxIterations int
	Rng           *rand.Rand
	Logger        *slog.Logger
	Metrics       *observability.Metrics
}

func (m MultistartMaximizer) Maximize(ctx context.Context, dom *domain.Domain, obj func([]float64) float64) ([]float64, float64, error) {
	rng := m.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	n := m.NStarts
	if n < 1 {
		n = 1
	}
	starts := optimizer.Starts(n, dom.Lb, dom.Ub, rng)
	constraints := optimizer.Constraints{Lb: dom.Lb, Ub: dom.Ub}
	opts := optimizer.Options{MaxIterations: m.MaxIterations}
	onFailures := func(n int) { m.Metrics.RecordOptimizerFailures(ctx, int64(n)) }
	return optimizer.Multistart(ctx, m.Backend, obj, starts, constraints, opts, m.Parallel, m.Logger, onFailures)
}
