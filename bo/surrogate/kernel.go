package surrogate

import "math"

// Kernel is a positive-definite covariance function parameterized by a
// per-dimension length-scale vector.
type Kernel interface {
	Eval(a, b []float64, lambda []float64) float64
}

// RBFKernel is the anisotropic squared-exponential kernel,
// k(a,b;lambda) = variance * exp(-1/2 sum_i (a_i-b_i)^2/lambda_i^2).
type RBFKernel struct {
	Variance float64 // signal variance sigma_f^2; defaults to 1 if <= 0
}

func (k RBFKernel) Eval(a, b []float64, lambda []float64) float64 {
	variance := k.Variance
	if variance <= 0 {
		variance = 1.0
	}
	sum := 0.0
	for i := range a {
		ls := lambda[i]
		if ls <= 0 {
			ls = 1e-6
		}
		d := (a[i] - b[i]) / ls
		sum += d * d
	}
	return variance * math.Exp(-0.5*sum)
}
