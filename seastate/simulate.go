package seastate

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// GenerateT returns n timestamps spaced by interval, ending one interval before nowFunc
// truncated to the minute.
func GenerateT(n int, interval time.Duration, nowFunc func() time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	ct := time.Unix(nowFunc().Unix()/60*60, 0).Add(-time.Duration(n) * interval).UTC()
	for i := 0; i < n; i++ {
		t = append(t, ct.Add(interval*time.Duration(i)))
	}
	return t
}

// GenerateBivariateNormal draws n correlated normal pairs
func GenerateBivariateNormal(rng *rand.Rand, n int, mu1, sigma1, mu2, sigma2, rho float64) ([]float64, []float64) {
	x1 := make([]float64, n)
	x2 := make([]float64, n)
	c := math.Sqrt(1 - rho*rho)
	for i := 0; i < n; i++ {
		z1 := rng.NormFloat64()
		z2 := rho*z1 + c*rng.NormFloat64()
		x1[i] = mu1 + sigma1*z1
		x2[i] = mu2 + sigma2*z2
	}
	return x1, x2
}

// GenerateSeaStates draws n (Hm0, Te) pairs. Hm0 is Weibull with the given shape and scale. Te is
// log-normal conditioned on Hm0 with ln-mean teMu + teSlope*ln(Hm0) and ln-sigma teSigma, a common
// shape for wind sea steepness.
func GenerateSeaStates(rng *rand.Rand, n int, hsShape, hsScale, teMu, teSlope, teSigma float64) ([]float64, []float64) {
	hs := distuv.Weibull{K: hsShape, Lambda: hsScale}
	hm0 := make([]float64, n)
	te := make([]float64, n)
	for i := 0; i < n; i++ {
		h := hs.Quantile(rng.Float64())
		for h <= 0 {
			h = hs.Quantile(rng.Float64())
		}
		hm0[i] = h
		te[i] = math.Exp(teMu + teSlope*math.Log(h) + teSigma*rng.NormFloat64())
	}
	return hm0, te
}

// NewSynthetic builds an hourly SampleSeries of n sea states with a fixed seed. It is meant for
// examples and tests that need realistic looking buoy records.
func NewSynthetic(n int, seed uint64) *SampleSeries {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	hm0, te := GenerateSeaStates(rng, n, 1.6, 2.2, 1.7, 0.3, 0.12)
	start := time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)
	t := make([]time.Time, n)
	for i := range t {
		t[i] = start.Add(time.Duration(i) * time.Hour)
	}
	return &SampleSeries{T: t, X1: hm0, X2: te}
}
