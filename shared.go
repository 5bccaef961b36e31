package contour

import (
	"math"

	"github.com/aouyang1/go-contour/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// shared holds every intermediate needed by more than one solver. It is built once per call from
// the requested methods and only read afterwards.
type shared struct {
	opt     *Options
	methods []Method
	x1, x2  []float64

	alpha float64
	beta  float64

	// iso probability circle in standard normal space, the last point repeats the first
	u1, u2 []float64
	p1     []float64

	weibull   *distuv.Weibull
	logNormal *distuv.LogNormal

	tau float64
	rho float64

	// correlated standard normal rho*u1 + sqrt(1-rho^2)*u2 and its probability
	z  []float64
	pz []float64

	conditional *ConditionalLogNormal
	kde1, kde2  *stats.KernelCDF
	pca         *PCAFit
}

func newShared(x1, x2 []float64, alpha, beta float64, methods []Method, opt *Options) (*shared, error) {
	sh := &shared{
		opt:     opt,
		methods: methods,
		x1:      x1,
		x2:      x2,
		alpha:   alpha,
		beta:    beta,
	}

	if stats.HasZeroVariance(x1) {
		return nil, fitFailure(methods[0], "x1", stats.ErrZeroVariance)
	}
	if stats.HasZeroVariance(x2) {
		return nil, fitFailure(methods[0], "x2", stats.ErrZeroVariance)
	}

	sh.u1, sh.u2 = isoCircle(beta, opt.NumPoints)
	sh.p1 = normalCDF(sh.u1)

	if m, ok := sh.firstNeeding(Method.needsWeibull); ok {
		w, err := stats.FitWeibull(x1)
		if err != nil {
			return nil, fitFailure(m, "x1 weibull marginal", err)
		}
		sh.weibull = &w
	}

	if m, ok := sh.firstNeeding(Method.needsLogNormal); ok {
		ln, err := stats.FitLogNormal(x2)
		if err != nil {
			return nil, fitFailure(m, "x2 log-normal marginal", err)
		}
		sh.logNormal = &ln
	}

	if m, ok := sh.firstNeeding(Method.needsKendallTau); ok {
		tau, err := stats.KendallTau(x1, x2)
		if err != nil {
			return nil, fitFailure(m, "kendall tau", err)
		}
		sh.tau = tau
	}

	if _, ok := sh.firstNeeding(Method.needsCorrelatedNormal); ok {
		sh.rho = math.Sin(math.Pi * sh.tau / 2)
		scale := math.Sqrt(1 - sh.rho*sh.rho)
		sh.z = make([]float64, len(sh.u1))
		for i := range sh.u1 {
			sh.z[i] = sh.rho*sh.u1[i] + scale*sh.u2[i]
		}
		sh.pz = normalCDF(sh.z)
	}

	if sh.requested(Rosenblatt) {
		cond, err := FitConditionalLogNormal(x1, x2, opt.Copula)
		if err != nil {
			return nil, fitFailure(Rosenblatt, "conditional log-normal", err)
		}
		sh.conditional = cond
	}

	if sh.requested(NonparametricGaussian) {
		var err error
		sh.kde1, err = stats.NewKernelCDF(x1, gridMax(x1, opt.Nonparametric.MaxX1), opt.Nonparametric.GridPoints)
		if err != nil {
			return nil, fitFailure(NonparametricGaussian, "x1 kernel density", err)
		}
		sh.kde2, err = stats.NewKernelCDF(x2, gridMax(x2, opt.Nonparametric.MaxX2), opt.Nonparametric.GridPoints)
		if err != nil {
			return nil, fitFailure(NonparametricGaussian, "x2 kernel density", err)
		}
	}

	if sh.requested(PCA) {
		fit, err := FitPCA(x1, x2, opt.PCA.BinSize, opt.Logger)
		if err != nil {
			return nil, fitFailure(PCA, "principal components", err)
		}
		sh.pca = fit
	}
	return sh, nil
}

func (sh *shared) requested(m Method) bool {
	for _, r := range sh.methods {
		if r == m {
			return true
		}
	}
	return false
}

// firstNeeding returns the first requested method relying on an intermediate so fit failures name it
func (sh *shared) firstNeeding(needs func(Method) bool) (Method, bool) {
	for _, m := range sh.methods {
		if needs(m) {
			return m, true
		}
	}
	return 0, false
}

func (sh *shared) fit() *Fit {
	f := &Fit{
		ExceedanceProbability: sh.alpha,
		Beta:                  sh.beta,
		PCA:                   sh.pca,
	}
	if sh.weibull != nil || sh.logNormal != nil || sh.conditional != nil {
		f.Copula = &CopulaFit{Conditional: sh.conditional}
		if sh.weibull != nil {
			f.Copula.Weibull = &WeibullParams{Shape: sh.weibull.K, Scale: sh.weibull.Lambda}
		}
		if sh.logNormal != nil {
			f.Copula.LogNormal = &LogNormalParams{Mu: sh.logNormal.Mu, Sigma: sh.logNormal.Sigma}
		}
		if _, ok := sh.firstNeeding(Method.needsKendallTau); ok {
			f.Copula.KendallTau = sh.tau
			f.Copula.Rho = sh.rho
			f.Copula.hasDependence = true
		}
		if sh.requested(Clayton) {
			f.Copula.ClaytonTheta = claytonTheta(sh.tau)
		}
	}
	if sh.kde1 != nil {
		f.Nonparametric = &NonparametricFit{
			KendallTau:  sh.tau,
			Rho:         sh.rho,
			BandwidthX1: sh.kde1.Bandwidth,
			BandwidthX2: sh.kde2.Bandwidth,
			GridMaxX1:   sh.kde1.X[len(sh.kde1.X)-1],
			GridMaxX2:   sh.kde2.X[len(sh.kde2.X)-1],
		}
	}
	return f
}

// isoCircle samples n points of the circle of radius beta. Angles step by 2*pi/(n-1) and the final
// point is a copy of the first so the curve closes exactly.
func isoCircle(beta float64, n int) ([]float64, []float64) {
	u1 := make([]float64, n)
	u2 := make([]float64, n)
	step := 2 * math.Pi / float64(n-1)
	for i := 0; i < n-1; i++ {
		theta := step * float64(i)
		u1[i] = beta * math.Cos(theta)
		u2[i] = beta * math.Sin(theta)
	}
	u1[n-1], u2[n-1] = u1[0], u2[0]
	return u1, u2
}

func normalCDF(u []float64) []float64 {
	p := make([]float64, len(u))
	for i, v := range u {
		p[i] = distuv.UnitNormal.CDF(v)
	}
	return p
}

func gridMax(x []float64, configured float64) float64 {
	if configured > 0 {
		return configured
	}
	return DefaultKernelGridMaxScale * floats.Max(x)
}
