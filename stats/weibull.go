package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	weibullIterations = 200
	weibullTolerance  = 1e-10
)

// FitWeibull computes the two parameter maximum likelihood Weibull fit with location fixed at zero.
// The shape solves the profile likelihood equation with a bracketed Newton iteration on samples
// scaled by their maximum to keep x^k finite.
func FitWeibull(x []float64) (distuv.Weibull, error) {
	if len(x) == 0 {
		return distuv.Weibull{}, ErrNoSamples
	}
	for _, v := range x {
		if v <= 0 {
			return distuv.Weibull{}, ErrNonPositiveSample
		}
	}
	if HasZeroVariance(x) {
		return distuv.Weibull{}, ErrZeroVariance
	}

	xMax := floats.Max(x)
	logY := make([]float64, len(x))
	for i, v := range x {
		logY[i] = math.Log(v / xMax)
	}
	meanLogY := stat.Mean(logY, nil)

	// g(k) = sum(y^k ln y) / sum(y^k) - 1/k - mean(ln y), increasing in k
	g := func(k float64) (float64, float64) {
		var s0, s1, s2 float64
		for _, ly := range logY {
			yk := math.Exp(k * ly)
			s0 += yk
			s1 += yk * ly
			s2 += yk * ly * ly
		}
		val := s1/s0 - 1/k - meanLogY
		deriv := (s2*s0-s1*s1)/(s0*s0) + 1/(k*k)
		return val, deriv
	}

	// moment estimate from the spread of ln x
	k := 1.2
	if sd := stat.StdDev(logY, nil); sd > 0 {
		k = math.Pi / (math.Sqrt(6) * sd)
	}

	lo, hi := 0.0, k
	for i := 0; ; i++ {
		v, _ := g(hi)
		if v > 0 {
			break
		}
		lo = hi
		hi *= 2
		if i > 64 {
			return distuv.Weibull{}, fmt.Errorf("unable to bracket weibull shape, %w", ErrNoConvergence)
		}
	}

	converged := false
	for i := 0; i < weibullIterations; i++ {
		v, d := g(k)
		if v > 0 {
			hi = k
		} else {
			lo = k
		}
		next := k - v/d
		if next <= lo || next >= hi || math.IsNaN(next) {
			next = 0.5 * (lo + hi)
		}
		if math.Abs(next-k) <= weibullTolerance*k {
			k = next
			converged = true
			break
		}
		k = next
	}
	if !converged {
		return distuv.Weibull{}, fmt.Errorf("weibull shape after %d iterations, %w", weibullIterations, ErrNoConvergence)
	}

	var sk float64
	for _, ly := range logY {
		sk += math.Exp(k * ly)
	}
	lambda := xMax * math.Pow(sk/float64(len(logY)), 1/k)

	return distuv.Weibull{K: k, Lambda: lambda}, nil
}
