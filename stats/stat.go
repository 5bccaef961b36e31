// Package stats fits the marginal and conditional distributions used to build environmental
// contours and holds the sample cleaning helpers callers apply before estimation.
package stats

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	ErrNoSamples          = errors.New("no samples to fit")
	ErrNonPositiveSample  = errors.New("distribution requires strictly positive samples")
	ErrZeroVariance       = errors.New("samples have zero variance")
	ErrNoConvergence      = errors.New("fit did not converge")
	ErrInvalidProbability = errors.New("probability must be within [0, 1]")
)

// DetectOutliers returns the indices of y lying outside the percentile range expanded by tukeyFactor
// times the inner range on either side.
func DetectOutliers(y []float64, lowerPerc, upperPerc, tukeyFactor float64) []int {
	if len(y) == 0 {
		return nil
	}
	lowerPerc = math.Max(lowerPerc, 0.0)
	upperPerc = math.Min(upperPerc, 1.0)
	tukeyFactor = math.Max(tukeyFactor, 0.0)

	yCopy := make([]float64, len(y))
	copy(yCopy, y)
	sort.Float64s(yCopy)
	lowerIdx := int(math.Floor(float64(len(yCopy)) * lowerPerc))
	upperIdx := int(math.Ceil(float64(len(yCopy)) * upperPerc))
	lowerIdx = min(lowerIdx, len(yCopy)-1)
	upperIdx = min(upperIdx, len(yCopy)-1)

	lower := yCopy[lowerIdx]
	upper := yCopy[upperIdx]
	innerRange := upper - lower
	lower -= innerRange * tukeyFactor
	upper += innerRange * tukeyFactor

	var outlierIdx []int
	for i := 0; i < len(y); i++ {
		if y[i] > upper || y[i] < lower {
			outlierIdx = append(outlierIdx, i)
		}
	}
	return outlierIdx
}

// Median returns the empirical median of x without modifying it
func Median(x []float64) float64 {
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}

// MedianAbsDeviation is the unscaled median of absolute deviations from the median
func MedianAbsDeviation(x []float64) (float64, error) {
	if len(x) == 0 {
		return 0, ErrNoSamples
	}
	med := Median(x)
	dev := make([]float64, len(x))
	for i, v := range x {
		dev[i] = math.Abs(v - med)
	}
	return Median(dev), nil
}

// FitNormal estimates the mean and maximum likelihood standard deviation
func FitNormal(x []float64) (distuv.Normal, error) {
	if len(x) == 0 {
		return distuv.Normal{}, ErrNoSamples
	}
	mu, sigma := stat.PopMeanStdDev(x, nil)
	if sigma == 0 || math.IsNaN(sigma) {
		return distuv.Normal{}, ErrZeroVariance
	}
	return distuv.Normal{Mu: mu, Sigma: sigma}, nil
}

// FitLogNormal fits a normal distribution to ln(x)
func FitLogNormal(x []float64) (distuv.LogNormal, error) {
	if len(x) == 0 {
		return distuv.LogNormal{}, ErrNoSamples
	}
	logX := make([]float64, len(x))
	for i, v := range x {
		if v <= 0 {
			return distuv.LogNormal{}, ErrNonPositiveSample
		}
		logX[i] = math.Log(v)
	}
	n, err := FitNormal(logX)
	if err != nil {
		return distuv.LogNormal{}, err
	}
	return distuv.LogNormal{Mu: n.Mu, Sigma: n.Sigma}, nil
}

// HasZeroVariance reports whether every value of x is identical
func HasZeroVariance(x []float64) bool {
	if len(x) == 0 {
		return true
	}
	return floats.Max(x) == floats.Min(x)
}

// logNormCDF is log(Φ(z)) that stays finite far into the lower tail
func logNormCDF(z float64) float64 {
	if z > -30 {
		return math.Log(0.5 * math.Erfc(-z/math.Sqrt2))
	}
	return -0.5*z*z - math.Log(-z) - 0.5*math.Log(2*math.Pi)
}
