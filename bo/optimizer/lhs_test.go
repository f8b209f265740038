package optimizer

import (
	"math/rand"
	"testing"
)

func TestLatinHypercubeStaysInBounds(t *testing.T) {
	lb := []float64{0, -1}
	ub := []float64{10, 1}
	rng := rand.New(rand.NewSource(1))
	points := LatinHypercube(8, lb, ub, rng)

	if len(points) != 8 {
		t.Fatalf("expected 8 points, got %d", len(points))
	}
	for i, p := range points {
		for j := range p {
			if p[j] < lb[j] || p[j] > ub[j] {
				t.Errorf("point %d dim %d = %v out of [%v,%v]", i, j, p[j], lb[j], ub[j])
			}
		}
	}
}

func TestLatinHypercubeStratifiesEachDimension(t *testing.T) {
	lb := []float64{0}
	ub := []float64{10}
	rng := rand.New(rand.NewSource(2))
	n := 10
	points := LatinHypercube(n, lb, ub, rng)

	buckets := make([]int, n)
	for _, p := range points {
		idx := int(p[0])
		if idx >= n {
			idx = n - 1
		}
		buckets[idx]++
	}
	for i, count := range buckets {
		if count != 1 {
			t.Errorf("expected exactly one point in bucket %d, got %d (stratification violated)", i, count)
		}
	}
}

func TestUniformStaysInBounds(t *testing.T) {
	lb := []float64{-5, 0}
	ub := []float64{5, 100}
	rng := rand.New(rand.NewSource(3))
	points := Uniform(20, lb, ub, rng)

	if len(points) != 20 {
		t.Fatalf("expected 20 points, got %d", len(points))
	}
	for _, p := range points {
		if p[0] < -5 || p[0] > 5 || p[1] < 0 || p[1] > 100 {
			t.Errorf("point %v out of bounds", p)
		}
	}
}

func TestStartsUsesUniformForSingleStart(t *testing.T) {
	lb := []float64{0}
	ub := []float64{1}
	rng := rand.New(rand.NewSource(4))
	starts := Starts(1, lb, ub, rng)
	if len(starts) != 1 {
		t.Fatalf("expected exactly one start, got %d", len(starts))
	}
}

func TestStartsUsesLatinHypercubeForMultipleStarts(t *testing.T) {
	lb := []float64{0}
	ub := []float64{10}
	rng := rand.New(rand.NewSource(5))
	n := 6
	starts := Starts(n, lb, ub, rng)
	if len(starts) != n {
		t.Fatalf("expected %d starts, got %d", n, len(starts))
	}
	buckets := make([]int, n)
	for _, p := range starts {
		idx := int((p[0] - lb[0]) / (ub[0] - lb[0]) * float64(n))
		if idx >= n {
			idx = n - 1
		}
		buckets[idx]++
	}
	for i, count := range buckets {
		if count != 1 {
			t.Errorf("expected LHS stratification in bucket %d, got %d points", i, count)
		}
	}
}
