package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	quantileIterations = 200
	quantileTolerance  = 1e-12
)

// InverseGaussian is the Wald distribution with mean Mu and shape Lambda, located at zero.
type InverseGaussian struct {
	Mu     float64 `json:"mu"`
	Lambda float64 `json:"lambda"`
}

// FitInverseGaussian computes the closed form maximum likelihood estimate with location fixed at zero
func FitInverseGaussian(x []float64) (InverseGaussian, error) {
	if len(x) == 0 {
		return InverseGaussian{}, ErrNoSamples
	}
	if HasZeroVariance(x) {
		return InverseGaussian{}, ErrZeroVariance
	}

	mu := stat.Mean(x, nil)
	var invSum float64
	for _, v := range x {
		if v <= 0 {
			return InverseGaussian{}, ErrNonPositiveSample
		}
		invSum += 1/v - 1/mu
	}
	lambda := float64(len(x)) / invSum
	if lambda <= 0 || math.IsInf(lambda, 0) || math.IsNaN(lambda) {
		return InverseGaussian{}, fmt.Errorf("inverse gaussian shape %f, %w", lambda, ErrNoConvergence)
	}
	return InverseGaussian{Mu: mu, Lambda: lambda}, nil
}

// CDF returns P(X <= x)
func (ig InverseGaussian) CDF(x float64) float64 {
	if x <= 0 {
		return 0
	}
	if math.IsInf(x, 1) {
		return 1
	}
	a := math.Sqrt(ig.Lambda / x)
	t1 := distuv.UnitNormal.CDF(a * (x/ig.Mu - 1))
	t2 := math.Exp(2*ig.Lambda/ig.Mu + logNormCDF(-a*(x/ig.Mu+1)))
	return math.Min(math.Max(t1+t2, 0), 1)
}

// Quantile inverts the CDF by bisection after bracketing the probability from the mean upwards
func (ig InverseGaussian) Quantile(p float64) float64 {
	if p < 0 || p > 1 || math.IsNaN(p) {
		panic(ErrInvalidProbability)
	}
	if p == 0 {
		return 0
	}
	if p == 1 {
		return math.Inf(1)
	}

	lo, hi := 0.0, ig.Mu
	for ig.CDF(hi) < p {
		lo = hi
		hi *= 2
		if math.IsInf(hi, 1) {
			return hi
		}
	}
	for i := 0; i < quantileIterations; i++ {
		mid := 0.5 * (lo + hi)
		if ig.CDF(mid) < p {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo <= quantileTolerance*hi {
			break
		}
	}
	return 0.5 * (lo + hi)
}

// Survival returns P(X > x) without the cancellation of 1 - CDF in the upper tail
func (ig InverseGaussian) Survival(x float64) float64 {
	if x <= 0 {
		return 1
	}
	if math.IsInf(x, 1) {
		return 0
	}
	a := math.Sqrt(ig.Lambda / x)
	t1 := distuv.UnitNormal.CDF(a * (1 - x/ig.Mu))
	t2 := math.Exp(2*ig.Lambda/ig.Mu + logNormCDF(-a*(x/ig.Mu+1)))
	return math.Min(math.Max(t1-t2, 0), 1)
}

// SurvivalQuantile returns x such that P(X > x) = q. It keeps precision for upper tail
// probabilities too small to be represented as 1 - q.
func (ig InverseGaussian) SurvivalQuantile(q float64) float64 {
	if q < 0 || q > 1 || math.IsNaN(q) {
		panic(ErrInvalidProbability)
	}
	if q == 0 {
		return math.Inf(1)
	}
	if q == 1 {
		return 0
	}

	lo, hi := 0.0, ig.Mu
	for ig.Survival(hi) > q {
		lo = hi
		hi *= 2
		if math.IsInf(hi, 1) {
			return hi
		}
	}
	for i := 0; i < quantileIterations; i++ {
		mid := 0.5 * (lo + hi)
		if ig.Survival(mid) > q {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo <= quantileTolerance*hi {
			break
		}
	}
	return 0.5 * (lo + hi)
}

// Mean of the distribution
func (ig InverseGaussian) Mean() float64 {
	return ig.Mu
}

// Variance of the distribution
func (ig InverseGaussian) Variance() float64 {
	return ig.Mu * ig.Mu * ig.Mu / ig.Lambda
}
