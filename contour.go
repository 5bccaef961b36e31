// Package contour estimates environmental contours, the closed curves in the space of two sea state
// variables such as significant wave height and energy period whose exceedance probability over a
// return period matches a target reliability.
package contour

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/aouyang1/go-contour/seastate"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnsupportedMethod = errors.New("unsupported contour method")
	ErrFitFailure        = errors.New("unable to fit contour")
)

const secondsPerYear = 365.25 * 24 * 3600

// Estimator computes contours with a fixed set of options. It holds no state between calls and is
// safe for concurrent use.
type Estimator struct {
	opt *Options
}

// New creates an Estimator using the provided options. If no options are provided a default is used.
func New(opt *Options) (*Estimator, error) {
	validated, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &Estimator{opt: validated}, nil
}

// Options returns a copy of the validated options
func (e *Estimator) Options() Options {
	return *e.opt
}

// Compute is a convenience wrapper creating an Estimator from opt and computing the contours
func Compute(x1, x2 []float64, dt, period float64, methods []Method, opt *Options) (*Results, error) {
	e, err := New(opt)
	if err != nil {
		return nil, err
	}
	return e.Compute(x1, x2, dt, period, methods)
}

// Compute returns one contour per distinct requested method for samples x1 and x2 recorded every dt
// seconds, targeting a return period in years. If any method fails the whole call fails with an
// error naming that method.
func (e *Estimator) Compute(x1, x2 []float64, dt, period float64, methods []Method) (*Results, error) {
	if err := validateSamples(x1, x2); err != nil {
		return nil, err
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("sampling interval must be positive, got %f, %w", dt, ErrInvalidInput)
	}
	if !(period > 0) || math.IsInf(period, 0) {
		return nil, fmt.Errorf("return period must be positive, got %f, %w", period, ErrInvalidInput)
	}
	methods, err := distinctMethods(methods)
	if err != nil {
		return nil, err
	}

	alpha, beta := exceedance(dt, period)
	sh, err := newShared(x1, x2, alpha, beta, methods, e.opt)
	if err != nil {
		return nil, err
	}

	res := &Results{Contours: make([]Contour, 0, len(methods))}
	for _, m := range methods {
		c, err := solve(m, sh)
		if err != nil {
			return nil, err
		}
		if !allFinite(c.X1) || !allFinite(c.X2) {
			return nil, fitFailure(m, "contour", errNonFiniteContour)
		}
		res.Contours = append(res.Contours, c)
	}

	if e.opt.ReturnFit {
		res.Fit = sh.fit()
	}
	e.opt.Logger.Debug("computed contours",
		"methods", methods, "samples", len(x1), "exceedance", alpha, "beta", beta)
	return res, nil
}

// ComputeSampleSeries computes contours for a timed sample series inferring the sampling interval
// from its timestamps.
func (e *Estimator) ComputeSampleSeries(s *seastate.SampleSeries, period float64, methods []Method) (*Results, error) {
	if s == nil {
		return nil, fmt.Errorf("no sample series, %w", ErrInvalidInput)
	}
	interval, err := s.Interval()
	if err != nil {
		return nil, fmt.Errorf("unable to infer sampling interval, %w: %w", ErrInvalidInput, err)
	}
	return e.Compute(s.X1, s.X2, interval.Seconds(), period, methods)
}

var errNonFiniteContour = errors.New("contour has non-finite points")

func solve(m Method, sh *shared) (Contour, error) {
	var x1, x2 []float64
	var err error
	switch m {
	case PCA:
		x1, x2, err = pcaContour(sh)
	case Gaussian:
		x1, x2, err = gaussianContour(sh)
	case Rosenblatt:
		x1, x2, err = rosenblattContour(sh)
	case Clayton:
		x1, x2, err = claytonContour(sh)
	case NonparametricGaussian:
		x1, x2, err = nonparametricGaussianContour(sh)
	default:
		return Contour{}, fmt.Errorf("%s, %w", m, ErrUnsupportedMethod)
	}
	if err != nil {
		return Contour{}, err
	}
	return Contour{Method: m, X1: x1, X2: x2}, nil
}

// exceedance converts the return period into the per sea state exceedance probability and the
// radius of the matching circle in standard normal space. Probabilities of one half or more
// collapse the circle to the median.
func exceedance(dt, period float64) (float64, float64) {
	nStates := period * secondsPerYear / dt
	alpha := math.Min(1, 1/nStates)
	beta := math.Max(0, -distuv.UnitNormal.Quantile(alpha))
	return alpha, beta
}

func validateSamples(x1, x2 []float64) error {
	if len(x1) == 0 {
		return fmt.Errorf("no samples, %w", ErrInvalidInput)
	}
	if len(x1) != len(x2) {
		return fmt.Errorf("x1 has length %d, but x2 has a length of %d, %w", len(x1), len(x2), ErrInvalidInput)
	}
	for i := range x1 {
		if !isFinite(x1[i]) || !isFinite(x2[i]) {
			return fmt.Errorf("non-finite sample at index %d, %w", i, ErrInvalidInput)
		}
	}
	return nil
}

// distinctMethods validates the requested methods and drops repeats keeping the first occurrence
func distinctMethods(methods []Method) ([]Method, error) {
	if len(methods) == 0 {
		return nil, fmt.Errorf("no contour methods requested, %w", ErrInvalidInput)
	}
	out := make([]Method, 0, len(methods))
	for _, m := range methods {
		if !m.Valid() {
			return nil, fmt.Errorf("%s, %w", m, ErrUnsupportedMethod)
		}
		if slices.Contains(out, m) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func fitFailure(m Method, what string, err error) error {
	return fmt.Errorf("%s contour, %s, %w: %w", m, what, ErrFitFailure, err)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func allFinite(x []float64) bool {
	for _, v := range x {
		if !isFinite(v) {
			return false
		}
	}
	return true
}
