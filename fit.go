package contour

// Fit reports the fitted models behind a set of contours. Only the parts used by the requested
// methods are populated.
type Fit struct {
	ExceedanceProbability float64 `json:"exceedance_probability"`
	Beta                  float64 `json:"beta"`

	PCA           *PCAFit           `json:"pca,omitempty"`
	Copula        *CopulaFit        `json:"copula,omitempty"`
	Nonparametric *NonparametricFit `json:"nonparametric,omitempty"`
}

type WeibullParams struct {
	Shape float64 `json:"shape"`
	Scale float64 `json:"scale"`
}

type LogNormalParams struct {
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
}

// CopulaFit holds the parametric marginals and dependence of the copula methods
type CopulaFit struct {
	Weibull      *WeibullParams        `json:"weibull,omitempty"`
	LogNormal    *LogNormalParams      `json:"log_normal,omitempty"`
	KendallTau   float64               `json:"kendall_tau,omitempty"`
	Rho          float64               `json:"rho,omitempty"`
	ClaytonTheta float64               `json:"clayton_theta,omitempty"`
	Conditional  *ConditionalLogNormal `json:"conditional,omitempty"`

	// set when a rank dependence was estimated, rosenblatt alone leaves it unset
	hasDependence bool
}

// NonparametricFit holds the kernel density settings of the nonparametric gaussian copula
type NonparametricFit struct {
	KendallTau  float64 `json:"kendall_tau"`
	Rho         float64 `json:"rho"`
	BandwidthX1 float64 `json:"bandwidth_x1"`
	BandwidthX2 float64 `json:"bandwidth_x2"`
	GridMaxX1   float64 `json:"grid_max_x1"`
	GridMaxX2   float64 `json:"grid_max_x2"`
}
