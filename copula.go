package contour

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/aouyang1/go-contour/linearmodel"
	"github.com/aouyang1/go-contour/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	ErrTooFewBins         = errors.New("too few x1 bins for the conditional laws")
	ErrNonPositiveTau     = errors.New("clayton copula requires positive dependence")
	ErrDegenerateBinEdges = errors.New("bin step must grow the x1 bin edges")
)

const (
	conditionalMeanOrder = 3
	conditionalStdOrder  = 2
)

// ConditionalLogNormal models x2 given x1 as log-normal with the log mean cubic and the log
// standard deviation quadratic in x1, fitted to per bin log-normal parameters.
type ConditionalLogNormal struct {
	BinCenters []float64              `json:"bin_centers"`
	BinMu      []float64              `json:"bin_mu"`
	BinSigma   []float64              `json:"bin_sigma"`
	MeanLaw    linearmodel.Polynomial `json:"mean_law"`
	StdLaw     linearmodel.Polynomial `json:"std_law"`
	MeanLawR2  float64                `json:"mean_law_r2"`
	StdLawR2   float64                `json:"std_law_r2"`
}

// FitConditionalLogNormal sorts the samples by x1 and bins them on x1 thresholds. The first
// threshold starts at InitialBinMax and grows by BinStep until it covers MinBinCount samples, then
// thresholds advance by BinStep until the newest bin would hold fewer than MinBinCount samples.
// Each bin spans two threshold steps except the first two which start at zero and the last which
// runs to the largest sample. The work is bounded by the sample count, not by the scale of x1.
func FitConditionalLogNormal(x1, x2 []float64, opt CopulaOptions) (*ConditionalLogNormal, error) {
	n := len(x1)
	if n < opt.MinBinCount {
		return nil, fmt.Errorf("%d samples with a minimum bin count of %d, %w", n, opt.MinBinCount, ErrTooFewSamples)
	}
	if opt.BinStep <= 0 {
		return nil, ErrDegenerateBinEdges
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return x1[idx[a]] < x1[idx[b]]
	})
	s1 := make([]float64, n)
	s2 := make([]float64, n)
	for i, j := range idx {
		s1[i] = x1[j]
		s2[i] = x2[j]
	}

	countBelow := func(v float64) int {
		return sort.Search(n, func(i int) bool { return s1[i] > v })
	}

	// first threshold on the BinStep grid covering MinBinCount samples
	edge := opt.InitialBinMax
	if need := s1[opt.MinBinCount-1]; need > edge {
		edge += math.Ceil((need-edge)/opt.BinStep) * opt.BinStep
		if edge < need {
			edge = need
		}
	}
	ind := []int{countBelow(edge)}

	// every pass either adds MinBinCount samples or stops, so there are at most n/MinBinCount+1
	for len(ind) <= n/opt.MinBinCount+1 {
		edge += opt.BinStep
		next := countBelow(edge)
		ind = append(ind, next)
		if next-ind[len(ind)-2] < opt.MinBinCount {
			break
		}
	}

	numBins := len(ind)
	if numBins < conditionalMeanOrder+1 {
		return nil, fmt.Errorf("%d bins, need %d, %w", numBins, conditionalMeanOrder+1, ErrTooFewBins)
	}

	cond := &ConditionalLogNormal{
		BinCenters: make([]float64, numBins),
		BinMu:      make([]float64, numBins),
		BinSigma:   make([]float64, numBins),
	}
	for i := 0; i < numBins; i++ {
		var lo, hi int
		switch {
		case i == 0:
			lo, hi = 0, ind[0]
		case i == 1:
			lo, hi = 0, ind[1]
		case i == numBins-1:
			lo, hi = ind[numBins-2], n
		default:
			lo, hi = ind[i-2], ind[i]
		}
		ln, err := stats.FitLogNormal(s2[lo:hi])
		if err != nil {
			return nil, fmt.Errorf("unable to fit bin %d, %w", i, err)
		}
		cond.BinCenters[i] = stat.Mean(s1[lo:hi], nil)
		cond.BinMu[i] = ln.Mu
		cond.BinSigma[i] = ln.Sigma
	}

	var err error
	cond.MeanLaw, cond.MeanLawR2, err = linearmodel.PolyfitScore(cond.BinCenters, cond.BinMu, conditionalMeanOrder)
	if err != nil {
		return nil, fmt.Errorf("unable to fit log mean law, %w", err)
	}
	cond.StdLaw, cond.StdLawR2, err = linearmodel.PolyfitScore(cond.BinCenters, cond.BinSigma, conditionalStdOrder)
	if err != nil {
		return nil, fmt.Errorf("unable to fit log standard deviation law, %w", err)
	}
	return cond, nil
}

// Quantile maps the standard normal value u onto x2 given x1. Negative standard deviations from the fitted law
// are clamped to zero.
func (c *ConditionalLogNormal) Quantile(x1, u float64) float64 {
	sigma := math.Max(0, c.StdLaw.Eval(x1))
	return math.Exp(c.MeanLaw.Eval(x1) + sigma*u)
}

func gaussianContour(sh *shared) ([]float64, []float64, error) {
	x1 := make([]float64, len(sh.u1))
	x2 := make([]float64, len(sh.u1))
	for i := range sh.u1 {
		x1[i] = weibullQuantile(sh, sh.u1[i])
		x2[i] = math.Exp(sh.logNormal.Mu + sh.logNormal.Sigma*sh.z[i])
	}
	return x1, x2, nil
}

func rosenblattContour(sh *shared) ([]float64, []float64, error) {
	x1 := make([]float64, len(sh.u1))
	x2 := make([]float64, len(sh.u1))
	for i := range sh.u1 {
		x1[i] = weibullQuantile(sh, sh.u1[i])
		x2[i] = sh.conditional.Quantile(x1[i], sh.u2[i])
	}
	return x1, x2, nil
}

func claytonContour(sh *shared) ([]float64, []float64, error) {
	theta := claytonTheta(sh.tau)
	if !(theta > 0) || math.IsInf(theta, 0) {
		return nil, nil, fitFailure(Clayton, fmt.Sprintf("kendall tau %f", sh.tau), ErrNonPositiveTau)
	}

	x1 := make([]float64, len(sh.u1))
	x2 := make([]float64, len(sh.u1))
	for i := range sh.u1 {
		x1[i] = weibullQuantile(sh, sh.u1[i])

		// conditional inverse of the clayton copula given the first probability, in log space
		a := math.Exp(-theta * logNormalCDF(sh.u1[i]))
		lnZ2 := -math.Log1p(a*math.Expm1(-theta/(1+theta)*logNormalCDF(sh.u2[i]))) / theta
		x2[i] = math.Exp(sh.logNormal.Mu + sh.logNormal.Sigma*normalQuantileFromLog(lnZ2))
	}
	return x1, x2, nil
}

// logNormalCDF is log Φ(u), taken from the upper tail for positive u
func logNormalCDF(u float64) float64 {
	if u > 0 {
		return math.Log1p(-distuv.UnitNormal.CDF(-u))
	}
	return math.Log(distuv.UnitNormal.CDF(u))
}

// normalQuantileFromLog inverts logNormalCDF
func normalQuantileFromLog(lnP float64) float64 {
	if lnP < -math.Ln2 {
		return distuv.UnitNormal.Quantile(math.Exp(lnP))
	}
	return -distuv.UnitNormal.Quantile(-math.Expm1(lnP))
}

func claytonTheta(tau float64) float64 {
	return 2 * tau / (1 - tau)
}

// weibullQuantile maps a standard normal value through the x1 Weibull marginal. Working from the
// upper tail probability keeps precision for large u.
func weibullQuantile(sh *shared, u float64) float64 {
	w := sh.weibull
	logSurvival := math.Log(distuv.UnitNormal.CDF(-u))
	return w.Lambda * math.Pow(-logSurvival, 1/w.K)
}
