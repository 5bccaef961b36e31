package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrGridTooSmall   = errors.New("kernel density grid needs at least 2 points")
	ErrInvalidGridMax = errors.New("kernel density grid maximum must be positive")
)

// KernelCDF is a cumulative distribution built from a gaussian kernel density evaluated on an
// evenly spaced grid starting at zero.
type KernelCDF struct {
	Bandwidth float64   `json:"bandwidth"`
	X         []float64 `json:"-"`
	PDF       []float64 `json:"-"`
	CDF       []float64 `json:"-"`
}

// SilvermanBandwidth returns MAD * (4 / 3n)^(1/5), the rule of thumb bandwidth using the median
// absolute deviation as the spread estimate.
func SilvermanBandwidth(x []float64) (float64, error) {
	mad, err := MedianAbsDeviation(x)
	if err != nil {
		return 0, err
	}
	if mad == 0 {
		return 0, fmt.Errorf("median absolute deviation is zero, %w", ErrZeroVariance)
	}
	return mad * math.Pow(4.0/(3.0*float64(len(x))), 0.2), nil
}

// NewKernelCDF evaluates the kernel density of x on n points spanning [0, gridMax] and accumulates
// it into a normalized cumulative distribution.
func NewKernelCDF(x []float64, gridMax float64, n int) (*KernelCDF, error) {
	if n < 2 {
		return nil, ErrGridTooSmall
	}
	if gridMax <= 0 || math.IsNaN(gridMax) || math.IsInf(gridMax, 0) {
		return nil, ErrInvalidGridMax
	}
	bw, err := SilvermanBandwidth(x)
	if err != nil {
		return nil, err
	}

	grid := make([]float64, n)
	floats.Span(grid, 0, gridMax)

	norm := 1.0 / (float64(len(x)) * bw * math.Sqrt(2*math.Pi))
	pdf := make([]float64, n)
	for i, g := range grid {
		var s float64
		for _, v := range x {
			z := (g - v) / bw
			s += math.Exp(-0.5 * z * z)
		}
		pdf[i] = s * norm
	}

	total := floats.Sum(pdf)
	if total == 0 {
		return nil, fmt.Errorf("kernel density vanishes on [0, %f], %w", gridMax, ErrNoConvergence)
	}
	cdf := make([]float64, n)
	floats.CumSum(cdf, pdf)
	floats.Scale(1/total, cdf)
	cdf[n-1] = 1

	return &KernelCDF{
		Bandwidth: bw,
		X:         grid,
		PDF:       pdf,
		CDF:       cdf,
	}, nil
}

// Quantile linearly interpolates the grid inverse of the cumulative distribution. Probabilities
// outside the grid coverage are clamped to the grid edges.
func (k *KernelCDF) Quantile(p float64) float64 {
	if p <= k.CDF[0] {
		return k.X[0]
	}
	last := len(k.CDF) - 1
	if p >= k.CDF[last] {
		return k.X[last]
	}

	i := sort.SearchFloat64s(k.CDF, p)
	f0, f1 := k.CDF[i-1], k.CDF[i]
	x0, x1 := k.X[i-1], k.X[i]
	if f1 == f0 {
		return x0
	}
	return x0 + (p-f0)*(x1-x0)/(f1-f0)
}
