package linearmodel

import (
	"errors"
	"fmt"
	"math"

	mat_ "github.com/aouyang1/go-contour/mat"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrNegativeOrder     = errors.New("negative polynomial order")
	ErrUnderdetermined   = errors.New("not enough points for polynomial order")
	ErrPolyInputMismatch = errors.New("x and y have different lengths")
)

// Polynomial holds coefficients in increasing order of power, p[i] multiplies x^i.
type Polynomial []float64

// Eval evaluates the polynomial at x using Horner's method
func (p Polynomial) Eval(x float64) float64 {
	var res float64
	for i := len(p) - 1; i >= 0; i-- {
		res = res*x + p[i]
	}
	return res
}

// EvalSlice evaluates the polynomial at every point of x
func (p Polynomial) EvalSlice(x []float64) []float64 {
	res := make([]float64, len(x))
	for i, v := range x {
		res[i] = p.Eval(v)
	}
	return res
}

// RSquared is the coefficient of determination of p over the points (x, y). It is 0 when y has no
// spread.
func RSquared(p Polynomial, x, y []float64) float64 {
	return finiteScore(stat.RSquaredFrom(p.EvalSlice(x), y, nil))
}

// Polyfit fits y ~ c0 + c1*x + ... + cn*x^n by least squares using the QR backed OLS regression.
func Polyfit(x, y []float64, order int) (Polynomial, error) {
	p, _, err := PolyfitScore(x, y, order)
	return p, err
}

// PolyfitScore is Polyfit that also reports the R² of the regression
func PolyfitScore(x, y []float64, order int) (Polynomial, float64, error) {
	if order < 0 {
		return nil, 0, ErrNegativeOrder
	}
	if len(x) != len(y) {
		return nil, 0, fmt.Errorf("x has %d points and y has %d, %w", len(x), len(y), ErrPolyInputMismatch)
	}
	if len(x) < order+1 {
		return nil, 0, fmt.Errorf("need %d points for order %d but got %d, %w", order+1, order, len(x), ErrUnderdetermined)
	}

	if order == 0 {
		return Polynomial{stat.Mean(y, nil)}, 0, nil
	}

	design, err := mat_.Vandermonde(x, order)
	if err != nil {
		return nil, 0, err
	}

	ols, err := NewOLSRegression(NewDefaultOLSOptions())
	if err != nil {
		return nil, 0, err
	}
	target := mat.NewDense(len(y), 1, append([]float64(nil), y...))
	if err := ols.Fit(design, target); err != nil {
		return nil, 0, err
	}
	score, err := ols.Score(design, target)
	if err != nil {
		return nil, 0, err
	}

	return append(Polynomial{ols.Intercept()}, ols.Coef()...), finiteScore(score), nil
}

func finiteScore(r float64) float64 {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}
