package optimizer

import (
	"context"
	"log/slog"
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/scttfrdmn/boptimize/boerrors"
)

// startResult holds one start's outcome; ok is false when that start
// raised (the facade isolates and counts these).
type startResult struct {
	arg []float64
	val float64
	ok  bool
}

// Multistart runs backend.Optimize independently from every column of
// starts, optionally in parallel across a fixed worker pool (one worker
// per logical CPU), and returns the best (arg, val) pair. Per-start
// failures are isolated: they're counted and logged (when logger is
// non-nil) and treated as -Inf, never propagated individually. Only
// aggregate failure -- every start failing -- raises
// OptimizationFailedError. Ties in the best value are broken by the
// lowest start index. onFailures, if
// non-nil, is called once with the total failed-start count after all
// starts complete -- callers use it to feed a metrics counter.
func Multistart(ctx context.Context, backend Backend, obj Objective, starts [][]float64, c Constraints, opts Options, parallel bool, logger *slog.Logger, onFailures func(int)) ([]float64, float64, error) {
	n := len(starts)
	results := make([]startResult, n)
	var failed int32
	var logMu sync.Mutex

	run := func(i int) error {
		arg, val, err := backend.Optimize(obj, starts[i], c, opts)
		if err != nil || arg == nil {
			atomic.AddInt32(&failed, 1)
			results[i] = startResult{val: math.Inf(-1), ok: false}
			if logger != nil {
				logMu.Lock()
				logger.Warn("multistart replicate failed", "start_index", i, "error", err)
				logMu.Unlock()
			}
			return nil
		}
		results[i] = startResult{arg: arg, val: val, ok: true}
		return nil
	}

	if !parallel || n <= 1 {
		for i := 0; i < n; i++ {
			if err := run(i); err != nil {
				return nil, 0, err
			}
		}
	} else {
		workers := runtime.NumCPU()
		if workers > n {
			workers = n
		}
		sem := make(chan struct{}, workers)
		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < n; i++ {
			i := i
			select {
			case <-gctx.Done():
			default:
			}
			g.Go(func() error {
				sem <- struct{}{}
				defer func() { <-sem }()
				return run(i)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, 0, err
		}
	}

	if onFailures != nil && failed > 0 {
		onFailures(int(failed))
	}

	if int(failed) == n {
		return nil, 0, boerrors.NewOptimizationFailedError("all multistart replicates failed", int(failed), n)
	}

	bestIdx := -1
	bestVal := math.Inf(-1)
	for i, r := range results {
		if !r.ok {
			continue
		}
		if r.val > bestVal {
			bestVal = r.val
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return nil, 0, boerrors.NewOptimizationFailedError("no multistart replicate produced a valid point", int(failed), n)
	}
	return results[bestIdx].arg, bestVal, nil
}
