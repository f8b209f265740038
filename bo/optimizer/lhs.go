package optimizer

import "math/rand"

// LatinHypercube draws n points over the box [lb, ub] using Latin
// Hypercube Sampling: each dimension is divided into n equal intervals,
// independently permuted, and jittered within its interval. n must be
// >= 2; multistart with fewer starts uses uniform random sampling
// instead (see Uniform).
func LatinHypercube(n int, lb, ub []float64, rng *rand.Rand) [][]float64 {
	dim := len(lb)
	points := make([][]float64, n)
	for i := range points {
		points[i] = make([]float64, dim)
	}

	for j := 0; j < dim; j++ {
		spacing := make([]float64, n)
		for i := 0; i < n; i++ {
			spacing[i] = float64(i) / float64(n)
		}
		for i := n - 1; i > 0; i-- {
			k := rng.Intn(i + 1)
			spacing[i], spacing[k] = spacing[k], spacing[i]
		}
		lo, hi := lb[j], ub[j]
		for i := 0; i < n; i++ {
			jitter := rng.Float64() / float64(n)
			points[i][j] = lo + (spacing[i]+jitter)*(hi-lo)
		}
	}
	return points
}

// Uniform draws n points independently uniformly over [lb, ub].
func Uniform(n int, lb, ub []float64, rng *rand.Rand) [][]float64 {
	dim := len(lb)
	points := make([][]float64, n)
	for i := range points {
		p := make([]float64, dim)
		for j := 0; j < dim; j++ {
			p[j] = lb[j] + rng.Float64()*(ub[j]-lb[j])
		}
		points[i] = p
	}
	return points
}

// Starts generates multistart seed points: LatinHypercube for n >= 2,
// a single uniform draw for n == 1.
func Starts(n int, lb, ub []float64, rng *rand.Rand) [][]float64 {
	if n >= 2 {
		return LatinHypercube(n, lb, ub, rng)
	}
	return Uniform(n, lb, ub, rng)
}
