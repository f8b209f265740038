package priors

import (
	"math"
	"math/rand"
	"testing"
)

func TestNormalSupport(t *testing.T) {
	p := Normal{Mu: 0, Sigma: 1}
	if !math.IsInf(p.Min(), -1) || !math.IsInf(p.Max(), 1) {
		t.Errorf("expected unbounded support, got [%v, %v]", p.Min(), p.Max())
	}
}

func TestNormalSampleIsDeterministicForSeed(t *testing.T) {
	p := Normal{Mu: 2, Sigma: 0.5}
	a := p.Sample(rand.New(rand.NewSource(7)))
	b := p.Sample(rand.New(rand.NewSource(7)))
	if a != b {
		t.Errorf("expected identical samples for identical seeds, got %v and %v", a, b)
	}
}

func TestLogNormalRejectsNonPositive(t *testing.T) {
	p := LogNormal{Mu: 0, Sigma: 1}
	if !math.IsInf(p.LogPDF(0), -1) {
		t.Error("expected -Inf log density at 0")
	}
	if !math.IsInf(p.LogPDF(-1), -1) {
		t.Error("expected -Inf log density for a negative value")
	}
	if math.IsInf(p.LogPDF(1), 0) {
		t.Error("expected finite log density for a positive value")
	}
	if p.Min() != 0 {
		t.Errorf("expected Min() = 0, got %v", p.Min())
	}
}

func TestUniformSupportAndDensity(t *testing.T) {
	p := Uniform{Lo: 1, Hi: 3}
	if p.Min() != 1 || p.Max() != 3 {
		t.Errorf("expected support [1,3], got [%v,%v]", p.Min(), p.Max())
	}
	if !math.IsInf(p.LogPDF(0), -1) {
		t.Error("expected -Inf density below the lower bound")
	}
	if !math.IsInf(p.LogPDF(4), -1) {
		t.Error("expected -Inf density above the upper bound")
	}
	if math.IsInf(p.LogPDF(2), 0) {
		t.Error("expected finite density inside the support")
	}
}

func TestGammaRejectsNonPositive(t *testing.T) {
	p := Gamma{Alpha: 2, Beta: 1}
	if !math.IsInf(p.LogPDF(0), -1) {
		t.Error("expected -Inf density at 0")
	}
	if math.IsInf(p.LogPDF(1), 0) {
		t.Error("expected finite density for a positive value")
	}
	if p.Min() != 0 || !math.IsInf(p.Max(), 1) {
		t.Errorf("expected support [0, +Inf), got [%v, %v]", p.Min(), p.Max())
	}
}

func TestIndependentIsProductOfMarginals(t *testing.T) {
	ip := Independent{Marginals: []Prior{
		Normal{Mu: 0, Sigma: 1},
		LogNormal{Mu: 0, Sigma: 1},
	}}

	if ip.Dim() != 2 {
		t.Fatalf("expected dim 2, got %d", ip.Dim())
	}

	v := []float64{0.5, 1.5}
	want := Normal{Mu: 0, Sigma: 1}.LogPDF(0.5) + LogNormal{Mu: 0, Sigma: 1}.LogPDF(1.5)
	if got := ip.LogPDF(v); math.Abs(got-want) > 1e-12 {
		t.Errorf("LogPDF = %v, want %v", got, want)
	}

	min := ip.Min()
	max := ip.Max()
	if !math.IsInf(min[0], -1) || min[1] != 0 {
		t.Errorf("unexpected Min() = %v", min)
	}
	if !math.IsInf(max[0], 1) || !math.IsInf(max[1], 1) {
		t.Errorf("unexpected Max() = %v", max)
	}
}

func TestIndependentSampleMatchesDim(t *testing.T) {
	ip := Independent{Marginals: []Prior{
		Uniform{Lo: 0, Hi: 1},
		Uniform{Lo: 0, Hi: 1},
		Uniform{Lo: 0, Hi: 1},
	}}
	rng := rand.New(rand.NewSource(3))
	s := ip.Sample(rng)
	if len(s) != 3 {
		t.Fatalf("expected sample of length 3, got %d", len(s))
	}
	for _, v := range s {
		if v < 0 || v > 1 {
			t.Errorf("sample %v out of [0,1] support", v)
		}
	}
}
