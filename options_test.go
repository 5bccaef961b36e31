package contour

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsValidate(t *testing.T) {
	testData := map[string]struct {
		opt      *Options
		expected func() *Options
		err      error
	}{
		"nil uses defaults": {
			opt:      nil,
			expected: NewDefaultOptions,
		},
		"zero fields filled": {
			opt:      &Options{},
			expected: NewDefaultOptions,
		},
		"custom kept": {
			opt: &Options{NumPoints: 50, ReturnFit: true, PCA: PCAOptions{BinSize: 100}},
			expected: func() *Options {
				opt := NewDefaultOptions()
				opt.NumPoints = 50
				opt.ReturnFit = true
				opt.PCA.BinSize = 100
				return opt
			},
		},
		"too few points": {
			opt: &Options{NumPoints: 2},
			err: ErrInvalidInput,
		},
		"negative points": {
			opt: &Options{NumPoints: -5},
			err: ErrInvalidInput,
		},
		"bin size": {
			opt: &Options{PCA: PCAOptions{BinSize: 1}},
			err: ErrInvalidInput,
		},
		"min bin count": {
			opt: &Options{Copula: CopulaOptions{MinBinCount: -1}},
			err: ErrInvalidInput,
		},
		"bin step": {
			opt: &Options{Copula: CopulaOptions{BinStep: -0.25}},
			err: ErrInvalidInput,
		},
		"grid points": {
			opt: &Options{Nonparametric: NonparametricOptions{GridPoints: 1}},
			err: ErrInvalidInput,
		},
		"grid max": {
			opt: &Options{Nonparametric: NonparametricOptions{MaxX1: -1}},
			err: ErrInvalidInput,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			opt, err := td.opt.Validate()
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			require.NotNil(t, opt.Logger)

			expected := td.expected()
			expected.Logger = opt.Logger
			assert.Equal(t, expected, opt)
		})
	}
}

func TestOptionsValidateCopies(t *testing.T) {
	opt := &Options{NumPoints: 10}
	validated, err := opt.Validate()
	require.Nil(t, err)
	assert.Nil(t, opt.Logger)
	assert.Equal(t, 0, opt.PCA.BinSize)
	assert.Equal(t, DefaultPCABinSize, validated.PCA.BinSize)
}
