package stats

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSilvermanBandwidth(t *testing.T) {
	bw, err := SilvermanBandwidth([]float64{1, 2, 3, 4, 100})
	require.Nil(t, err)
	assert.InDelta(t, 0.7677, bw, 1e-4)

	_, err = SilvermanBandwidth([]float64{1, 1, 1, 5})
	assert.ErrorIs(t, err, ErrZeroVariance)
}

func TestNewKernelCDF(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	x := make([]float64, 2000)
	for i := range x {
		x[i] = 5 + rng.NormFloat64()
	}

	k, err := NewKernelCDF(x, 10, 1001)
	require.Nil(t, err)

	require.Len(t, k.X, 1001)
	assert.Equal(t, 0.0, k.X[0])
	assert.InDelta(t, 10.0, k.X[1000], 1e-12)
	assert.InDelta(t, 1.0, k.CDF[1000], 1e-12)
	for i := 1; i < len(k.CDF); i++ {
		assert.GreaterOrEqual(t, k.CDF[i], k.CDF[i-1])
	}

	assert.InDelta(t, 5.0, k.Quantile(0.5), 0.1)
	assert.Less(t, k.Quantile(0.1), k.Quantile(0.9))
	assert.Equal(t, 0.0, k.Quantile(0))
	assert.Equal(t, 10.0, k.Quantile(1))
}

func TestNewKernelCDFErrors(t *testing.T) {
	testData := map[string]struct {
		x       []float64
		gridMax float64
		n       int
		err     error
	}{
		"small grid":    {[]float64{1, 2, 3}, 5, 1, ErrGridTooSmall},
		"bad max":       {[]float64{1, 2, 3}, 0, 10, ErrInvalidGridMax},
		"zero spread":   {[]float64{1, 1, 1}, 5, 10, ErrZeroVariance},
		"empty samples": {nil, 5, 10, ErrNoSamples},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := NewKernelCDF(td.x, td.gridMax, td.n)
			assert.ErrorIs(t, err, td.err)
		})
	}
}
