package stats

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestDetectOutliers(t *testing.T) {
	testData := map[string]struct {
		y           []float64
		lower       float64
		upper       float64
		tukeyFactor float64
		expected    []int
	}{
		"empty": {
			expected: nil,
		},
		"no outliers": {
			y:           []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			lower:       0.1,
			upper:       0.9,
			tukeyFactor: 1.0,
			expected:    nil,
		},
		"spike": {
			y:           []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 2, 3, 4, 5, 6, 7, 8, 9, 1, 100},
			lower:       0.1,
			upper:       0.9,
			tukeyFactor: 1.0,
			expected:    []int{19},
		},
		"full percentile range": {
			y:           []float64{1, 2, 3},
			lower:       0.0,
			upper:       1.0,
			tukeyFactor: 0.0,
			expected:    nil,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res := DetectOutliers(td.y, td.lower, td.upper, td.tukeyFactor)
			assert.Equal(t, td.expected, res)
		})
	}
}

func TestMedianAbsDeviation(t *testing.T) {
	mad, err := MedianAbsDeviation([]float64{1, 2, 3, 4, 100})
	require.Nil(t, err)
	assert.InDelta(t, 1.0, mad, 1e-12)

	_, err = MedianAbsDeviation(nil)
	assert.ErrorIs(t, err, ErrNoSamples)
}

func TestFitNormal(t *testing.T) {
	n, err := FitNormal([]float64{1, 2, 3, 4})
	require.Nil(t, err)
	assert.InDelta(t, 2.5, n.Mu, 1e-12)
	assert.InDelta(t, math.Sqrt(1.25), n.Sigma, 1e-12)

	_, err = FitNormal([]float64{2, 2, 2})
	assert.ErrorIs(t, err, ErrZeroVariance)
}

func TestFitLogNormal(t *testing.T) {
	x := []float64{math.E, math.E * math.E, math.E * math.E * math.E}
	ln, err := FitLogNormal(x)
	require.Nil(t, err)
	assert.InDelta(t, 2.0, ln.Mu, 1e-12)
	assert.InDelta(t, math.Sqrt(2.0/3.0), ln.Sigma, 1e-12)

	_, err = FitLogNormal([]float64{1, -1})
	assert.ErrorIs(t, err, ErrNonPositiveSample)
}

func TestFitWeibull(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	truth := distuv.Weibull{K: 1.8, Lambda: 2.5}

	x := make([]float64, 20000)
	for i := range x {
		x[i] = truth.Quantile(rng.Float64())
	}

	w, err := FitWeibull(x)
	require.Nil(t, err)
	assert.InDelta(t, truth.K, w.K, 0.05, "shape")
	assert.InDelta(t, truth.Lambda, w.Lambda, 0.05, "scale")
}

func TestFitWeibullErrors(t *testing.T) {
	testData := map[string]struct {
		x   []float64
		err error
	}{
		"empty":         {nil, ErrNoSamples},
		"non positive":  {[]float64{1, 0, 2}, ErrNonPositiveSample},
		"zero variance": {[]float64{3, 3, 3}, ErrZeroVariance},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := FitWeibull(td.x)
			assert.ErrorIs(t, err, td.err)
		})
	}
}

func TestLogNormCDF(t *testing.T) {
	assert.InDelta(t, math.Log(0.5), logNormCDF(0), 1e-12)
	assert.InDelta(t, logNormCDF(-29.999), logNormCDF(-30.001), 1e-2)
	assert.False(t, math.IsInf(logNormCDF(-100), 0))
}
