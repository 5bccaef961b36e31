package contour

import (
	"log/slog"
	"testing"

	"github.com/aouyang1/go-contour/linearmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitPCARoundTrip(t *testing.T) {
	x1, x2 := syntheticSamples(1000)
	fit, err := FitPCA(x1, x2, DefaultPCABinSize, slog.Default())
	require.Nil(t, err)

	assert.InDelta(t, 1.0, fit.Rotation[0][0]*fit.Rotation[0][0]+fit.Rotation[0][1]*fit.Rotation[0][1], 1e-9, "unit axis")
	assert.Less(t, fit.Rotation[1][1], 0.0)
	assert.Greater(t, fit.Shift, 0.0)

	for i := range x1 {
		c1, c2 := fit.Rotate(x1[i], x2[i])
		assert.Greater(t, c2, 0.0, "shifted second component is positive")
		r1, r2 := fit.Unrotate(c1, c2)
		assert.InDelta(t, x1[i], r1, 1e-9)
		assert.InDelta(t, x2[i], r2, 1e-9)
	}
}

func TestFitPCABinSize(t *testing.T) {
	testData := map[string]struct {
		n        int
		binSize  int
		expected int
		err      error
	}{
		"default": {
			n: 2000, binSize: 250, expected: 250,
		},
		"capped at a quarter": {
			n: 400, binSize: 250, expected: 100,
		},
		"too few samples": {
			n: 7, binSize: 250, err: ErrTooFewSamples,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			x1, x2 := syntheticSamples(td.n)
			fit, err := FitPCA(x1, x2, td.binSize, nil)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, fit.BinSize)
		})
	}
}

func TestBinComponents(t *testing.T) {
	testData := map[string]struct {
		c1       []float64
		c2       []float64
		binSize  int
		expC1    []float64
		expMu    []float64
		expSigma []float64
	}{
		"exact": {
			c1:       []float64{4, 3, 2, 1},
			c2:       []float64{8, 6, 2, 4},
			binSize:  2,
			expC1:    []float64{1.5, 3.5},
			expMu:    []float64{3, 7},
			expSigma: []float64{1, 1},
		},
		"remainder bin": {
			c1:       []float64{1, 2, 3, 4, 5, 6, 7, 8},
			c2:       []float64{1, 1, 2, 2, 3, 5, 7, 9},
			binSize:  3,
			expC1:    []float64{2, 5, 7.5},
			expMu:    []float64{4.0 / 3.0, 10.0 / 3.0, 8},
			expSigma: []float64{0.4714045207910317, 1.247219128924647, 1},
		},
		"single leftover merges": {
			c1:       []float64{1, 2, 3, 4, 5},
			c2:       []float64{1, 3, 2, 2, 2},
			binSize:  2,
			expC1:    []float64{1.5, 4},
			expMu:    []float64{2, 2},
			expSigma: []float64{1, 0},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			binC1, binMu, binSigma := binComponents(td.c1, td.c2, td.binSize)
			assert.InDeltaSlice(t, td.expC1, binC1, 1e-12)
			assert.InDeltaSlice(t, td.expMu, binMu, 1e-12)
			assert.InDeltaSlice(t, td.expSigma, binSigma, 1e-12)
		})
	}
}

func TestFitStdLaw(t *testing.T) {
	testData := map[string]struct {
		x []float64
		y []float64
	}{
		"feasible convex": {
			x: []float64{1, 2, 3, 4, 5},
			y: []float64{1.1, 1.4, 1.9, 2.6, 3.5},
		},
		"negative intercept": {
			x: []float64{1, 2, 3, 4, 5},
			y: []float64{0.2, 0.6, 1.0, 1.4, 1.8},
		},
		"negative vertex": {
			x: []float64{1, 2, 3, 4, 5},
			y: []float64{1.8, 0.3, -0.2, 0.3, 1.8},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			p, err := fitStdLaw(td.x, td.y)
			require.Nil(t, err)
			require.Len(t, p, 3)
			assert.Equal(t, 0.0, stdLawViolation(p))
			for _, v := range []float64{0, 0.5, 1, 2.5, 5} {
				assert.GreaterOrEqual(t, p.Eval(v), -1e-12)
			}
		})
	}

	// a feasible least squares fit is returned unchanged
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{1.1, 1.4, 1.9, 2.6, 3.5}
	ols, err := linearmodel.Polyfit(x, y, 2)
	require.Nil(t, err)
	p, err := fitStdLaw(x, y)
	require.Nil(t, err)
	assert.InDeltaSlice(t, ols, p, 1e-12)
}
