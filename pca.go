package contour

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/aouyang1/go-contour/linearmodel"
	"github.com/aouyang1/go-contour/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	ErrPrincipalComponents = errors.New("principal component decomposition failed")
	ErrSingularRotation    = errors.New("principal axes rotation is singular")
	ErrTooFewSamples       = errors.New("too few samples to bin")
	ErrStdLawNoConvergence = errors.New("constrained standard deviation law did not converge")
)

const (
	componentShiftPad = 0.1
	stdLawPenalty     = 1e6
)

// PCAFit is the modified I-FORM model. Samples are rotated onto their principal axes, the first
// component follows an inverse gaussian distribution and the second is normal with a mean linear in
// the first component and a standard deviation quadratic in it.
type PCAFit struct {
	// Rotation maps the row vector [x1 x2] onto [c1 c2-Shift]
	Rotation [2][2]float64 `json:"rotation"`
	Shift    float64       `json:"shift"`

	Component1 stats.InverseGaussian   `json:"component1"`
	MeanLaw    linearmodel.Polynomial `json:"mean_law"`
	StdLaw     linearmodel.Polynomial `json:"std_law"`
	MeanLawR2  float64                `json:"mean_law_r2"`
	StdLawR2   float64                `json:"std_law_r2"`
	BinSize    int                    `json:"bin_size"`
}

// FitPCA fits the principal component model to the samples. binSize is capped at a quarter of the
// samples, logging a warning when that happens.
func FitPCA(x1, x2 []float64, binSize int, logger *slog.Logger) (*PCAFit, error) {
	if logger == nil {
		logger = slog.Default()
	}
	n := len(x1)
	maxBinSize := n / 4
	if maxBinSize < 2 {
		return nil, fmt.Errorf("%d samples, %w", n, ErrTooFewSamples)
	}
	if binSize > maxBinSize {
		logger.Warn("pca bin size exceeds a quarter of the samples, reducing",
			"bin_size", binSize, "reduced_to", maxBinSize, "samples", n)
		binSize = maxBinSize
	}

	data := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		data.Set(i, 0, x1[i])
		data.Set(i, 1, x2[i])
	}
	var pc stat.PC
	if ok := pc.PrincipalComponents(data, nil); !ok {
		return nil, ErrPrincipalComponents
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)

	// the columns of vecs are the principal axes, take them as rows with non-negative entries and
	// flip the sign of the second axis' second entry
	fit := &PCAFit{
		Rotation: [2][2]float64{
			{math.Abs(vecs.At(0, 0)), math.Abs(vecs.At(1, 0))},
			{math.Abs(vecs.At(0, 1)), -math.Abs(vecs.At(1, 1))},
		},
		BinSize: binSize,
	}
	if math.Abs(fit.det()) < 1e-12 {
		return nil, ErrSingularRotation
	}

	c1 := make([]float64, n)
	c2 := make([]float64, n)
	for i := 0; i < n; i++ {
		c1[i], c2[i] = fit.Rotate(x1[i], x2[i])
	}
	fit.Shift = math.Abs(floats.Min(c2)) + componentShiftPad
	floats.AddConst(fit.Shift, c2)

	ig, err := stats.FitInverseGaussian(c1)
	if err != nil {
		return nil, fmt.Errorf("unable to fit first component, %w", err)
	}
	fit.Component1 = ig

	binC1, binMu, binSigma := binComponents(c1, c2, binSize)
	fit.MeanLaw, fit.MeanLawR2, err = linearmodel.PolyfitScore(binC1, binMu, 1)
	if err != nil {
		return nil, fmt.Errorf("unable to fit second component mean law, %w", err)
	}
	fit.StdLaw, err = fitStdLaw(binC1, binSigma)
	if err != nil {
		return nil, err
	}
	fit.StdLawR2 = linearmodel.RSquared(fit.StdLaw, binC1, binSigma)
	return fit, nil
}

// Rotate projects a sample onto the shifted principal components
func (p *PCAFit) Rotate(x1, x2 float64) (float64, float64) {
	r := p.Rotation
	return x1*r[0][0] + x2*r[1][0], x1*r[0][1] + x2*r[1][1] + p.Shift
}

// Unrotate maps shifted principal components back onto the sample axes
func (p *PCAFit) Unrotate(c1, c2 float64) (float64, float64) {
	r := p.Rotation
	c2 -= p.Shift
	det := p.det()
	return (c1*r[1][1] - c2*r[1][0]) / det, (c2*r[0][0] - c1*r[0][1]) / det
}

func (p *PCAFit) det() float64 {
	r := p.Rotation
	return r[0][0]*r[1][1] - r[0][1]*r[1][0]
}

// binComponents sorts by the first component and splits into bins of binSize samples. A remainder
// of two or more samples forms its own bin, a single leftover sample joins the last full bin.
func binComponents(c1, c2 []float64, binSize int) ([]float64, []float64, []float64) {
	n := len(c1)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return c1[idx[a]] < c1[idx[b]]
	})
	s1 := make([]float64, n)
	s2 := make([]float64, n)
	for i, j := range idx {
		s1[i] = c1[j]
		s2[i] = c2[j]
	}

	edges := make([]int, 0, n/binSize+2)
	for start := 0; start+binSize <= n; start += binSize {
		edges = append(edges, start)
	}
	if n-edges[len(edges)-1]-binSize >= 2 {
		edges = append(edges, edges[len(edges)-1]+binSize)
	}
	edges = append(edges, n)

	numBins := len(edges) - 1
	binC1 := make([]float64, numBins)
	binMu := make([]float64, numBins)
	binSigma := make([]float64, numBins)
	for b := 0; b < numBins; b++ {
		lo, hi := edges[b], edges[b+1]
		binC1[b] = stat.Mean(s1[lo:hi], nil)
		binMu[b], binSigma[b] = stat.PopMeanStdDev(s2[lo:hi], nil)
	}
	return binC1, binMu, binSigma
}

// fitStdLaw fits sigma ~ c0 + c1*x + c2*x^2 subject to c0 >= 0 and c0 - c1^2/(4*c2) >= 0. The
// unconstrained least squares fit is kept when it already satisfies both, otherwise a penalized
// least squares objective is minimized with Nelder-Mead from the constant fit.
func fitStdLaw(x, y []float64) (linearmodel.Polynomial, error) {
	if p, err := linearmodel.Polyfit(x, y, 2); err == nil && stdLawViolation(p) == 0 {
		return p, nil
	}

	problem := optimize.Problem{
		Func: func(c []float64) float64 {
			poly := linearmodel.Polynomial(c)
			var sse float64
			for i := range x {
				r := y[i] - poly.Eval(x[i])
				sse += r * r
			}
			v := stdLawViolation(poly)
			return sse + stdLawPenalty*v*v
		},
	}
	res, err := optimize.Minimize(problem, []float64{stat.Mean(y, nil), 0, 0}, nil, &optimize.NelderMead{})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStdLawNoConvergence, err)
	}
	if !allFinite(res.X) {
		return nil, ErrStdLawNoConvergence
	}

	p := linearmodel.Polynomial(append([]float64(nil), res.X...))
	p[0] = math.Max(p[0], 0)
	if p[2] > 0 {
		p[0] = math.Max(p[0], p[1]*p[1]/(4*p[2]))
	}
	return p, nil
}

// stdLawViolation is the total amount by which a quadratic breaks the non-negative intercept and
// non-negative vertex constraints
func stdLawViolation(p linearmodel.Polynomial) float64 {
	v := math.Max(0, -p[0])
	if p[2] > 0 {
		v += math.Max(0, p[1]*p[1]/(4*p[2])-p[0])
	}
	return v
}

// component1 maps a standard normal value through the first component distribution, inverting the
// upper tail for positive u so large radii stay finite
func (p *PCAFit) component1(u float64) float64 {
	if u > 0 {
		return p.Component1.SurvivalQuantile(distuv.UnitNormal.CDF(-u))
	}
	return p.Component1.Quantile(distuv.UnitNormal.CDF(u))
}

func pcaContour(sh *shared) ([]float64, []float64, error) {
	p := sh.pca
	x1 := make([]float64, len(sh.u1))
	x2 := make([]float64, len(sh.u1))
	for i := range sh.u1 {
		c1 := p.component1(sh.u1[i])
		c2 := p.MeanLaw.Eval(c1) + math.Max(0, p.StdLaw.Eval(c1))*sh.u2[i]
		a, b := p.Unrotate(c1, c2)
		x1[i] = math.Max(0, a)
		x2[i] = b
	}
	return x1, x2, nil
}
