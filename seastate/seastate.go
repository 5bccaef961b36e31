// Package seastate holds paired sea state observations, typically significant wave height and
// energy period, along with the timestamps they were recorded at.
package seastate

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrNoSamples          = errors.New("no sea state samples")
	ErrNonMonotonic       = errors.New("time is not strictly increasing")
	ErrSeriesLenMismatch  = errors.New("sea state series have different lengths")
	ErrCannotInferCadence = errors.New("need at least 2 samples to infer sampling interval")
)

// SampleSeries represents paired observations X1 and X2 at times T. T may be nil for untimed
// samples, otherwise all three share a length.
type SampleSeries struct {
	T  []time.Time
	X1 []float64
	X2 []float64
}

// NewSampleSeries copies and validates the input. Timestamps are optional but must be strictly
// increasing when present.
func NewSampleSeries(t []time.Time, x1, x2 []float64) (*SampleSeries, error) {
	if len(x1) == 0 {
		return nil, ErrNoSamples
	}
	if len(x1) != len(x2) {
		return nil, fmt.Errorf("x1 has length %d, but x2 has a length of %d, %w", len(x1), len(x2), ErrSeriesLenMismatch)
	}
	if t != nil && len(t) != len(x1) {
		return nil, fmt.Errorf("time has length %d, but values have a length of %d, %w", len(t), len(x1), ErrSeriesLenMismatch)
	}

	for i := 1; i < len(t); i++ {
		if !t[i].After(t[i-1]) {
			return nil, fmt.Errorf("non-monotonic at %d, %w", i, ErrNonMonotonic)
		}
	}

	s := &SampleSeries{
		X1: append([]float64(nil), x1...),
		X2: append([]float64(nil), x2...),
	}
	if t != nil {
		s.T = append([]time.Time(nil), t...)
	}
	return s, nil
}

// Len is the number of paired samples
func (s *SampleSeries) Len() int {
	return len(s.X1)
}

// Filter keeps only the rows for which keep returns true
func (s *SampleSeries) Filter(keep func(x1, x2 float64) bool) *SampleSeries {
	out := &SampleSeries{
		X1: make([]float64, 0, len(s.X1)),
		X2: make([]float64, 0, len(s.X2)),
	}
	if s.T != nil {
		out.T = make([]time.Time, 0, len(s.T))
	}
	for i := range s.X1 {
		if !keep(s.X1[i], s.X2[i]) {
			continue
		}
		out.X1 = append(out.X1, s.X1[i])
		out.X2 = append(out.X2, s.X2[i])
		if s.T != nil {
			out.T = append(out.T, s.T[i])
		}
	}
	return out
}

// DropIndices removes the rows at the given indices
func (s *SampleSeries) DropIndices(idx []int) *SampleSeries {
	drop := make(map[int]struct{}, len(idx))
	for _, i := range idx {
		drop[i] = struct{}{}
	}
	i := -1
	return s.Filter(func(_, _ float64) bool {
		i++
		_, exists := drop[i]
		return !exists
	})
}

// DropInvalid removes rows where either value is NaN or infinite
func (s *SampleSeries) DropInvalid() *SampleSeries {
	return s.Filter(func(x1, x2 float64) bool {
		return isFinite(x1) && isFinite(x2)
	})
}

// Interval estimates the sampling interval as the most common spacing between timestamps,
// preferring the shortest spacing on ties.
func (s *SampleSeries) Interval() (time.Duration, error) {
	if len(s.T) < 2 {
		return 0, ErrCannotInferCadence
	}

	counts := make(map[time.Duration]int)
	for i := 1; i < len(s.T); i++ {
		counts[s.T[i].Sub(s.T[i-1])]++
	}

	var maxCnt int
	best := time.Duration(math.MaxInt64)
	for delta, cnt := range counts {
		if cnt > maxCnt || (cnt == maxCnt && delta < best) {
			maxCnt = cnt
			best = delta
		}
	}
	return best, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
