package inference

import (
	"fmt"
	"math"
	"math/rand"
)

// deltaMax bounds the allowed Hamiltonian divergence before a leapfrog
// trajectory is declared divergent (Hoffman & Gelman's Delta_max).
const deltaMax = 1000.0

// runNUTS draws warmup+leap*samplesPerChain iterations of the No-U-Turn
// Sampler from logDensity/grad, adapting the leapfrog step size by dual
// averaging during warmup (targeting cfg.TargetAccept), then returns
// every cfg.Leap-th post-warmup draw. It
// fails when the fraction of divergent trajectories exceeds 20%.
func runNUTS(logDensity func([]float64) float64, grad func([]float64) []float64, init []float64, dim int, cfg BIConfig, rng *rand.Rand) ([][]float64, error) {
	theta := append([]float64(nil), init...)

	eps := cfg.StepSize
	if eps <= 0 {
		eps = findReasonableEpsilon(logDensity, grad, theta, rng)
	}

	mu := math.Log(10 * eps)
	logEpsBar := 0.0
	hBar := 0.0
	const gamma = 0.05
	const t0 = 10.0
	const kappa = 0.75

	total := cfg.Warmup + cfg.Leap*cfg.SamplesPerChain
	divergences := 0
	draws := make([][]float64, 0, cfg.SamplesPerChain)

	for m := 1; m <= total; m++ {
		next, alphaStat, divergent := nutsStep(logDensity, grad, theta, eps, cfg.MaxTreeDepth, rng)
		theta = next
		if divergent {
			divergences++
		}

		if m <= cfg.Warmup {
			w := 1.0 / (float64(m) + t0)
			hBar = (1-w)*hBar + w*(cfg.TargetAccept-alphaStat)
			logEps := mu - math.Sqrt(float64(m))/gamma*hBar
			mw := math.Pow(float64(m), -kappa)
			logEpsBar = mw*logEps + (1-mw)*logEpsBar
			eps = math.Exp(logEps)
			if m == cfg.Warmup {
				eps = math.Exp(logEpsBar)
			}
		} else {
			idx := m - cfg.Warmup
			if idx%cfg.Leap == 0 {
				draws = append(draws, append([]float64(nil), theta...))
			}
		}
	}

	if total > 0 && float64(divergences)/float64(total) > 0.2 {
		return nil, fmt.Errorf("nuts: %d/%d iterations divergent", divergences, total)
	}
	return draws, nil
}

// findReasonableEpsilon implements Hoffman & Gelman's Algorithm 4:
// double or halve a trial step size until a single leapfrog step's
// acceptance probability crosses 0.5.
func findReasonableEpsilon(logDensity func([]float64) float64, grad func([]float64) []float64, theta []float64, rng *rand.Rand) float64 {
	eps := 1.0
	r := sampleMomentum(len(theta), rng)
	joint0 := logDensity(theta) - kinetic(r)
	thetaP, rP := leapfrog(logDensity, grad, theta, r, eps)
	jointP := safeLogDensity(logDensity, thetaP) - kinetic(rP)

	a := 1.0
	if jointP-joint0 <= math.Log(0.5) {
		a = -1.0
	}
	for i := 0; i < 50; i++ {
		ratio := jointP - joint0
		if a == 1 && ratio <= math.Log(0.5) {
			break
		}
		if a == -1 && ratio >= math.Log(0.5) {
			break
		}
		eps *= math.Pow(2, a)
		thetaP, rP = leapfrog(logDensity, grad, theta, r, eps)
		jointP = safeLogDensity(logDensity, thetaP) - kinetic(rP)
	}
	if eps <= 0 || math.IsNaN(eps) {
		eps = 0.1
	}
	return eps
}

func safeLogDensity(logDensity func([]float64) float64, theta []float64) float64 {
	v := logDensity(theta)
	if math.IsNaN(v) {
		return math.Inf(-1)
	}
	return v
}

func sampleMomentum(dim int, rng *rand.Rand) []float64 {
	r := make([]float64, dim)
	for i := range r {
		r[i] = rng.NormFloat64()
	}
	return r
}

func kinetic(r []float64) float64 {
	sum := 0.0
	for _, v := range r {
		sum += v * v
	}
	return 0.5 * sum
}

func leapfrog(logDensity func([]float64) float64, grad func([]float64) []float64, theta, r []float64, eps float64) ([]float64, []float64) {
	g := grad(theta)
	rHalf := make([]float64, len(r))
	for i := range r {
		rHalf[i] = r[i] + 0.5*eps*g[i]
	}
	thetaNew := make([]float64, len(theta))
	for i := range theta {
		thetaNew[i] = theta[i] + eps*rHalf[i]
	}
	gNew := grad(thetaNew)
	rNew := make([]float64, len(r))
	for i := range r {
		rNew[i] = rHalf[i] + 0.5*eps*gNew[i]
	}
	return thetaNew, rNew
}

// nutsStep draws one NUTS transition from theta via recursive
// trajectory doubling, returning the next state, the trajectory's
// average Metropolis acceptance statistic (fed to dual averaging), and
// whether any sub-tree diverged.
func nutsStep(logDensity func([]float64) float64, grad func([]float64) []float64, theta []float64, eps float64, maxDepth int, rng *rand.Rand) ([]float64, float64, bool) {
	r0 := sampleMomentum(len(theta), rng)
	joint0 := safeLogDensity(logDensity, theta) - kinetic(r0)
	logu := joint0 - rng.ExpFloat64()

	thetaMinus := append([]float64(nil), theta...)
	thetaPlus := append([]float64(nil), theta...)
	rMinus := append([]float64(nil), r0...)
	rPlus := append([]float64(nil), r0...)

	thetaM := append([]float64(nil), theta...)
	n := 1.0
	s := true
	j := 0
	alphaSum, nAlpha := 0.0, 0.0
	divergent := false

	for s && j < maxDepth {
		v := 1.0
		if rng.Float64() < 0.5 {
			v = -1.0
		}

		var thetaPrime []float64
		var nPrime, sPrime, alpha, nA float64
		var div bool
		if v < 0 {
			thetaMinus, rMinus, _, _, thetaPrime, nPrime, sPrime, alpha, nA, div = buildTree(logDensity, grad, thetaMinus, rMinus, logu, v, j, eps, joint0, rng)
		} else {
			_, _, thetaPlus, rPlus, thetaPrime, nPrime, sPrime, alpha, nA, div = buildTree(logDensity, grad, thetaPlus, rPlus, logu, v, j, eps, joint0, rng)
		}
		if div {
			divergent = true
		}
		alphaSum += alpha
		nAlpha += nA

		if sPrime > 0.5 && n > 0 && rng.Float64() < math.Min(1, nPrime/n) {
			thetaM = thetaPrime
		}
		n += nPrime
		s = sPrime > 0.5 && noUTurn(thetaMinus, thetaPlus, rMinus, rPlus)
		j++
	}

	if nAlpha <= 0 {
		return thetaM, 0, divergent
	}
	return thetaM, alphaSum / nAlpha, divergent
}

// buildTree implements the recursive half of NUTS (Hoffman & Gelman
// Algorithm 6): grows a balanced binary sub-trajectory of depth j in
// direction v, slice-sampling against logu, and reports the trajectory
// acceptance statistic (alpha, nAlpha) used by dual averaging.
func buildTree(logDensity func([]float64) float64, grad func([]float64) []float64, theta, r []float64, logu, v float64, j int, eps, joint0 float64, rng *rand.Rand) (thetaMinus, rMinus, thetaPlus, rPlus, thetaPrime []float64, nPrime, sPrime, alpha, nAlpha float64, divergent bool) {
	if j == 0 {
		thetaP, rP := leapfrog(logDensity, grad, theta, r, v*eps)
		jointP := safeLogDensity(logDensity, thetaP) - kinetic(rP)
		if math.IsNaN(jointP) {
			jointP = math.Inf(-1)
		}
		n := 0.0
		if logu <= jointP {
			n = 1.0
		}
		s := 1.0
		if logu >= jointP+deltaMax {
			s = 0.0
			divergent = true
		}
		a := math.Min(1, math.Exp(jointP-joint0))
		if math.IsNaN(a) {
			a = 0
		}
		return thetaP, rP, thetaP, rP, thetaP, n, s, a, 1, divergent
	}

	thetaMinus, rMinus, thetaPlus, rPlus, thetaPrime, nPrime, sPrime, alpha, nAlpha, divergent = buildTree(logDensity, grad, theta, r, logu, v, j-1, eps, joint0, rng)
	if sPrime > 0.5 {
		var thetaPrime2 []float64
		var nPrime2, sPrime2, alpha2, nAlpha2 float64
		var div2 bool
		if v < 0 {
			thetaMinus, rMinus, _, _, thetaPrime2, nPrime2, sPrime2, alpha2, nAlpha2, div2 = buildTree(logDensity, grad, thetaMinus, rMinus, logu, v, j-1, eps, joint0, rng)
		} else {
			_, _, thetaPlus, rPlus, thetaPrime2, nPrime2, sPrime2, alpha2, nAlpha2, div2 = buildTree(logDensity, grad, thetaPlus, rPlus, logu, v, j-1, eps, joint0, rng)
		}
		if div2 {
			divergent = true
		}
		total := nPrime + nPrime2
		if total > 0 && rng.Float64() < nPrime2/total {
			thetaPrime = thetaPrime2
		}
		sPrime = 0
		if sPrime2 > 0.5 && noUTurn(thetaMinus, thetaPlus, rMinus, rPlus) {
			sPrime = 1
		}
		alpha += alpha2
		nAlpha += nAlpha2
		nPrime = total
	}
	return thetaMinus, rMinus, thetaPlus, rPlus, thetaPrime, nPrime, sPrime, alpha, nAlpha, divergent
}

func noUTurn(thetaMinus, thetaPlus, rMinus, rPlus []float64) bool {
	dMinus, dPlus := 0.0, 0.0
	for i := range thetaMinus {
		diff := thetaPlus[i] - thetaMinus[i]
		dMinus += diff * rMinus[i]
		dPlus += diff * rPlus[i]
	}
	return dMinus >= 0 && dPlus >= 0
}
