// Package mat holds small dense matrix constructors on top of gonum used by the polynomial
// fits of the contour conditional laws.
package mat

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrColMismatch  = errors.New("column size mismatch")
	ErrInvalidOrder = errors.New("polynomial order must be at least 1")
	ErrNoSamples    = errors.New("no samples to build matrix")
)

// NewDenseFromArray builds a row major dense matrix where each inner slice is a row. All rows must
// have the same length.
func NewDenseFromArray(x [][]float64) (*mat.Dense, error) {
	m := len(x)

	n := -1
	for i, row := range x {
		if n >= 0 && len(row) != n {
			return nil, fmt.Errorf("at row %d, %w", i, ErrColMismatch)
		}
		if n < 0 {
			n = len(row)
		}
	}
	if n < 0 {
		n = 0
	}

	// flatten to row order
	data := make([]float64, 0, m*n)
	for _, row := range x {
		data = append(data, row...)
	}
	return mat.NewDense(m, n, data), nil
}

// Vandermonde returns the len(x) by order matrix whose columns are x, x^2, ... x^order. The
// constant column is left out since the least squares fit adds its own intercept.
func Vandermonde(x []float64, order int) (*mat.Dense, error) {
	if order < 1 {
		return nil, ErrInvalidOrder
	}
	if len(x) == 0 {
		return nil, ErrNoSamples
	}

	rows := make([][]float64, len(x))
	for i, v := range x {
		row := make([]float64, order)
		p := 1.0
		for j := 0; j < order; j++ {
			p *= v
			row[j] = p
		}
		rows[i] = row
	}
	return NewDenseFromArray(rows)
}
