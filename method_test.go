package contour

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	testData := map[string]struct {
		token    string
		expected Method
		err      error
	}{
		"pca":                    {token: "PCA", expected: PCA},
		"pca lower":              {token: "pca", expected: PCA},
		"gaussian":               {token: "gaussian", expected: Gaussian},
		"rosenblatt":             {token: "rosenblatt", expected: Rosenblatt},
		"clayton":                {token: "clayton", expected: Clayton},
		"nonparametric gaussian": {token: " nonparametric_gaussian ", expected: NonparametricGaussian},
		"bivariate kde":          {token: "bivariate_KDE", err: ErrUnsupportedMethod},
		"empty":                  {token: "", err: ErrUnsupportedMethod},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			m, err := ParseMethod(td.token)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, m)
		})
	}
}

func TestParseMethods(t *testing.T) {
	methods, err := ParseMethods([]string{"PCA", "clayton"})
	require.Nil(t, err)
	assert.Equal(t, []Method{PCA, Clayton}, methods)

	_, err = ParseMethods([]string{"PCA", "copula"})
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
}

func TestMethodText(t *testing.T) {
	for _, m := range AllMethods() {
		t.Run(m.String(), func(t *testing.T) {
			assert.True(t, m.Valid())
			text, err := m.MarshalText()
			require.Nil(t, err)

			var decoded Method
			require.Nil(t, decoded.UnmarshalText(text))
			assert.Equal(t, m, decoded)
		})
	}

	invalid := Method(42)
	assert.False(t, invalid.Valid())
	assert.Equal(t, "Method(42)", invalid.String())
	_, err := invalid.MarshalText()
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
}

func TestMethodJSON(t *testing.T) {
	var methods []Method
	require.Nil(t, json.Unmarshal([]byte(`["gaussian", "PCA"]`), &methods))
	assert.Equal(t, []Method{Gaussian, PCA}, methods)

	out, err := json.Marshal([]Method{Rosenblatt, NonparametricGaussian})
	require.Nil(t, err)
	assert.Equal(t, `["rosenblatt","nonparametric_gaussian"]`, string(out))
}
