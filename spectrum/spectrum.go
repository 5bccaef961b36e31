// Package spectrum derives sea state parameters from variance density spectra.
package spectrum

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate"
)

var (
	ErrTooFewFrequencies  = errors.New("spectrum needs at least 2 frequencies")
	ErrDensityLenMismatch = errors.New("frequency and density have different lengths")
	ErrNonIncreasing      = errors.New("frequencies must be strictly increasing")
	ErrNonPositiveFreq    = errors.New("negative moments need strictly positive frequencies")
	ErrZeroEnergy         = errors.New("spectrum has no energy")
)

// Moment integrates f^n * S(f) over the frequency grid with the trapezoidal rule
func Moment(freq, density []float64, n int) (float64, error) {
	if len(freq) < 2 {
		return 0, ErrTooFewFrequencies
	}
	if len(freq) != len(density) {
		return 0, fmt.Errorf("%d frequencies and %d densities, %w", len(freq), len(density), ErrDensityLenMismatch)
	}
	for i := 1; i < len(freq); i++ {
		if !(freq[i] > freq[i-1]) {
			return 0, fmt.Errorf("at index %d, %w", i, ErrNonIncreasing)
		}
	}
	if n < 0 && freq[0] <= 0 {
		return 0, ErrNonPositiveFreq
	}

	integrand := make([]float64, len(freq))
	for i, f := range freq {
		integrand[i] = math.Pow(f, float64(n)) * density[i]
	}
	return integrate.Trapezoidal(freq, integrand), nil
}

// SignificantWaveHeight is the spectral estimate Hm0 = 4 * sqrt(m0)
func SignificantWaveHeight(freq, density []float64) (float64, error) {
	m0, err := Moment(freq, density, 0)
	if err != nil {
		return 0, err
	}
	return 4 * math.Sqrt(m0), nil
}

// EnergyPeriod is Te = m-1 / m0
func EnergyPeriod(freq, density []float64) (float64, error) {
	m0, err := Moment(freq, density, 0)
	if err != nil {
		return 0, err
	}
	if m0 <= 0 {
		return 0, ErrZeroEnergy
	}
	mn1, err := Moment(freq, density, -1)
	if err != nil {
		return 0, err
	}
	return mn1 / m0, nil
}

// PiersonMoskowitz evaluates the fully developed sea spectrum with significant wave height hs and
// peak period tp at every frequency in Hz.
func PiersonMoskowitz(freq []float64, hs, tp float64) []float64 {
	fp := 1 / tp
	a := 5.0 / 16.0 * hs * hs * math.Pow(fp, 4)
	s := make([]float64, len(freq))
	for i, f := range freq {
		if f <= 0 {
			continue
		}
		s[i] = a * math.Pow(f, -5) * math.Exp(-1.25*math.Pow(fp/f, 4))
	}
	return s
}
