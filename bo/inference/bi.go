package inference

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/scttfrdmn/boptimize/bo/likelihood"
	"github.com/scttfrdmn/boptimize/bo/priors"
	"github.com/scttfrdmn/boptimize/bo/surrogate"
	"github.com/scttfrdmn/boptimize/boerrors"
	"github.com/scttfrdmn/boptimize/observability"
)

// BIConfig configures Bayesian inference by NUTS sampling.
type BIConfig struct {
	Chains          int // >= 1
	SamplesPerChain int // >= 1
	Warmup          int
	Leap            int     // thinning factor; 1 keeps every draw
	Parallel        bool
	TargetAccept    float64 // dual-averaging target, default 0.8
	MaxTreeDepth    int     // default 10
	StepSize        float64 // initial leapfrog step; <= 0 finds one heuristically
	Seed            int64
	Logger          *slog.Logger
	Metrics         *observability.Metrics
}

func (c BIConfig) withDefaults() BIConfig {
	if c.Chains < 1 {
		c.Chains = 1
	}
	if c.SamplesPerChain < 1 {
		c.SamplesPerChain = 1
	}
	if c.Leap < 1 {
		c.Leap = 1
	}
	if c.TargetAccept <= 0 {
		c.TargetAccept = 0.8
	}
	if c.MaxTreeDepth <= 0 {
		c.MaxTreeDepth = 10
	}
	return c
}

// BI samples the joint posterior over (theta, lambda, sigma2) with NUTS:
// chain_count independent chains (run in parallel when cfg.Parallel),
// each discarding cfg.Warmup draws, then keeping every cfg.Leap-th of
// the next cfg.Leap*cfg.SamplesPerChain draws. The returned slice is
// chain-major then within-chain-order, size chain_count *
// samples_per_chain when every chain succeeds; a chain that fails
// contributes no draws, so each failed chain shortens the slice by
// samples_per_chain.
func BI(ctx context.Context, model surrogate.Model, X, Y [][]float64, noisePriors []priors.Prior, cfg BIConfig) ([]surrogate.Params, error) {
	cfg = cfg.withDefaults()
	l := buildLayout(model, noisePriors)
	ts := l.transforms()
	dim := l.size()

	logDensity := func(raw []float64) float64 {
		constrained := rawToConstrained(raw, ts)
		ll := likelihood.Joint(model, X, Y, noisePriors, l.split(constrained))
		if math.IsInf(ll, -1) || math.IsNaN(ll) {
			return math.Inf(-1)
		}
		return ll + sumLogJacobian(raw, ts)
	}
	grad := func(raw []float64) []float64 {
		return numericalGradient(logDensity, raw)
	}

	seedRng := rand.New(rand.NewSource(baseSeed(cfg.Seed)))
	chainSeeds := make([]int64, cfg.Chains)
	for i := range chainSeeds {
		chainSeeds[i] = seedRng.Int63()
	}

	results := make([][]surrogate.Params, cfg.Chains)
	var failed int32
	var logMu sync.Mutex

	runChain := func(c int) error {
		rng := rand.New(rand.NewSource(chainSeeds[c]))
		init := initRaw(model, noisePriors, l, ts, rng)
		draws, err := runNUTS(logDensity, grad, init, dim, cfg, rng)
		if err != nil {
			atomic.AddInt32(&failed, 1)
			if cfg.Logger != nil {
				logMu.Lock()
				cfg.Logger.Warn("nuts chain failed", "chain", c, "error", err)
				logMu.Unlock()
			}
			return nil
		}
		out := make([]surrogate.Params, len(draws))
		for i, raw := range draws {
			out[i] = l.split(rawToConstrained(raw, ts))
		}
		results[c] = out
		return nil
	}

	if !cfg.Parallel || cfg.Chains <= 1 {
		for c := 0; c < cfg.Chains; c++ {
			_ = runChain(c)
		}
	} else {
		workers := runtime.NumCPU()
		if workers > cfg.Chains {
			workers = cfg.Chains
		}
		sem := make(chan struct{}, workers)
		g, _ := errgroup.WithContext(ctx)
		for c := 0; c < cfg.Chains; c++ {
			c := c
			g.Go(func() error {
				sem <- struct{}{}
				defer func() { <-sem }()
				return runChain(c)
			})
		}
		_ = g.Wait()
	}

	if failed > 0 {
		cfg.Metrics.RecordOptimizerFailures(ctx, int64(failed))
	}

	if int(failed) == cfg.Chains {
		return nil, boerrors.NewSamplingFailedError("every chain diverged or fell below minimum acceptance", cfg.Chains)
	}

	var out []surrogate.Params
	for c := 0; c < cfg.Chains; c++ {
		out = append(out, results[c]...)
	}
	return out, nil
}

func baseSeed(seed int64) int64 {
	if seed == 0 {
		return 1
	}
	return seed
}

// initRaw draws an initial raw-space point by sampling every free
// component from its own prior, then mapping to raw (unconstrained)
// space through the component's transform.
func initRaw(model surrogate.Model, noisePriors []priors.Prior, l layout, ts []transform, rng *rand.Rand) []float64 {
	constrained := make([]float64, 0, l.size())
	for _, pr := range model.ThetaPriors() {
		constrained = append(constrained, pr.Sample(rng))
	}
	if lp := model.LambdaPrior(); lp != nil {
		for j := 0; j < l.outDim; j++ {
			constrained = append(constrained, lp.Sample(rng)...)
		}
	}
	for _, pr := range noisePriors {
		constrained = append(constrained, pr.Sample(rng))
	}
	return constrainedToRaw(constrained, ts)
}

// numericalGradient computes a central-difference gradient of f at x,
// the concrete AD-provider seam the design notes call for.
func numericalGradient(f func([]float64) float64, x []float64) []float64 {
	const h = 1e-5
	g := make([]float64, len(x))
	xp := append([]float64(nil), x...)
	for i := range x {
		orig := xp[i]
		xp[i] = orig + h
		fp := f(xp)
		xp[i] = orig - h
		fm := f(xp)
		xp[i] = orig
		g[i] = (fp - fm) / (2 * h)
	}
	return g
}
