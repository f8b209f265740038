package tune

import (
	"context"
	"math"
	"testing"

	"github.com/scttfrdmn/boptimize/evaluation"
)

// TestRunRecommendsNearOptimum tunes over a 2-continuous/
// 1-categorical search space with a noisy synthetic objective, checked
// against a dense grid search rather than an exact optimum (the GP/EI
// engine is stochastic, so this asserts "good", not "best").
func TestRunRecommendsNearOptimum(t *testing.T) {
	space := evaluation.NewSearchSpace()
	space.AddContinuous("x", -3.0, 3.0)
	space.AddContinuous("y", -3.0, 3.0)
	space.AddCategorical("bias", []string{"low", "high"})

	score := func(x, y float64, bias string) float64 {
		base := -(x*x + y*y)
		if bias == "high" {
			base += 1.0
		}
		return base
	}

	objective := func(ctx context.Context, config map[string]interface{}) (float64, error) {
		x := config["x"].(float64)
		y := config["y"].(float64)
		bias := config["bias"].(string)
		return score(x, y, bias), nil
	}

	result, err := Run(context.Background(), space, objective, evaluation.BayesianOptimizerConfig{
		Maximize: true,
		NInitial: 5,
	}, 20)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.BestConfig == nil {
		t.Fatal("expected non-nil best config")
	}

	gridBest := math.Inf(-1)
	for bx := -3.0; bx <= 3.0; bx += 0.25 {
		for by := -3.0; by <= 3.0; by += 0.25 {
			for _, bias := range []string{"low", "high"} {
				if v := score(bx, by, bias); v > gridBest {
					gridBest = v
				}
			}
		}
	}

	decile := gridBest - 0.1*math.Abs(gridBest)
	if result.BestScore < decile {
		t.Errorf("best score %v below top decile of grid search (grid best %v, decile floor %v)",
			result.BestScore, gridBest, decile)
	}
}

func TestRunPropagatesConstructionError(t *testing.T) {
	_, err := Run(context.Background(), nil, func(ctx context.Context, config map[string]interface{}) (float64, error) {
		return 0, nil
	}, evaluation.BayesianOptimizerConfig{}, 5)
	if err == nil {
		t.Fatal("expected error for nil search space")
	}
}
