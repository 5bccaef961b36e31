package contour

import (
	"fmt"
	"log/slog"
)

const (
	DefaultNumPoints          = 1000
	MinNumPoints              = 3
	DefaultPCABinSize         = 250
	DefaultCopulaMinBinCount  = 40
	DefaultCopulaInitialBin   = 1.0
	DefaultCopulaBinStep      = 0.25
	DefaultKernelGridPoints   = 1000
	DefaultKernelGridMaxScale = 2.0
)

// PCAOptions configures the principal component contour
type PCAOptions struct {
	// BinSize is the number of samples per bin, sorted by the first principal component, used to fit
	// the conditional distribution of the second component. Capped at a quarter of the samples.
	BinSize int `json:"bin_size"`
}

// CopulaOptions configures the x1 binning used to fit the conditional log-normal law of x2
type CopulaOptions struct {
	// MinBinCount is the fewest samples a bin may hold. Binning stops at the first smaller bin.
	MinBinCount int `json:"min_bin_count"`

	// InitialBinMax is the upper x1 edge of the first bin. It grows by BinStep until the first bin
	// holds MinBinCount samples.
	InitialBinMax float64 `json:"initial_bin_max"`

	// BinStep is the x1 width of every following bin
	BinStep float64 `json:"bin_step"`
}

// NonparametricOptions configures the kernel density grids
type NonparametricOptions struct {
	// GridPoints is the number of evenly spaced points the density is evaluated on
	GridPoints int `json:"grid_points"`

	// MaxX1 and MaxX2 are the upper grid edges. Zero uses twice the sample maximum.
	MaxX1 float64 `json:"max_x1"`
	MaxX2 float64 `json:"max_x2"`
}

// Options configures contour estimation. Zero valued fields take their defaults on Validate.
type Options struct {
	// NumPoints is the number of points on each contour including the closing point which repeats
	// the first.
	NumPoints int `json:"num_points"`

	// ReturnFit attaches the fitted model parameters to the results
	ReturnFit bool `json:"return_fit"`

	PCA           PCAOptions           `json:"pca"`
	Copula        CopulaOptions        `json:"copula"`
	Nonparametric NonparametricOptions `json:"nonparametric"`

	Logger *slog.Logger `json:"-"`
}

// NewDefaultOptions returns a set of default contour options
func NewDefaultOptions() *Options {
	return &Options{
		NumPoints: DefaultNumPoints,
		PCA: PCAOptions{
			BinSize: DefaultPCABinSize,
		},
		Copula: CopulaOptions{
			MinBinCount:   DefaultCopulaMinBinCount,
			InitialBinMax: DefaultCopulaInitialBin,
			BinStep:       DefaultCopulaBinStep,
		},
		Nonparametric: NonparametricOptions{
			GridPoints: DefaultKernelGridPoints,
		},
	}
}

// Validate returns a copy of the options with defaults filled in, or an ErrInvalidInput error
// naming the offending field.
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}
	out := *o

	if out.NumPoints == 0 {
		out.NumPoints = DefaultNumPoints
	}
	if out.NumPoints < MinNumPoints {
		return nil, fmt.Errorf("num points must be at least %d, got %d, %w", MinNumPoints, out.NumPoints, ErrInvalidInput)
	}

	if out.PCA.BinSize == 0 {
		out.PCA.BinSize = DefaultPCABinSize
	}
	if out.PCA.BinSize < 2 {
		return nil, fmt.Errorf("pca bin size must be at least 2, got %d, %w", out.PCA.BinSize, ErrInvalidInput)
	}

	if out.Copula.MinBinCount == 0 {
		out.Copula.MinBinCount = DefaultCopulaMinBinCount
	}
	if out.Copula.MinBinCount < 2 {
		return nil, fmt.Errorf("copula min bin count must be at least 2, got %d, %w", out.Copula.MinBinCount, ErrInvalidInput)
	}
	if out.Copula.InitialBinMax == 0 {
		out.Copula.InitialBinMax = DefaultCopulaInitialBin
	}
	if out.Copula.BinStep == 0 {
		out.Copula.BinStep = DefaultCopulaBinStep
	}
	if out.Copula.BinStep < 0 {
		return nil, fmt.Errorf("copula bin step must be positive, got %f, %w", out.Copula.BinStep, ErrInvalidInput)
	}

	if out.Nonparametric.GridPoints == 0 {
		out.Nonparametric.GridPoints = DefaultKernelGridPoints
	}
	if out.Nonparametric.GridPoints < 2 {
		return nil, fmt.Errorf("kernel grid points must be at least 2, got %d, %w", out.Nonparametric.GridPoints, ErrInvalidInput)
	}
	if out.Nonparametric.MaxX1 < 0 || out.Nonparametric.MaxX2 < 0 {
		return nil, fmt.Errorf("kernel grid maximums must be non-negative, %w", ErrInvalidInput)
	}

	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return &out, nil
}
