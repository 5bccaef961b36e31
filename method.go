package contour

import (
	"fmt"
	"strings"
)

// Method selects the contour estimation technique
type Method int

const (
	// PCA is the modified I-FORM method fitting the principal components of the samples
	PCA Method = iota
	// Gaussian uses Weibull and log-normal marginals joined by a gaussian copula
	Gaussian
	// Rosenblatt uses a Weibull marginal and a log-normal distribution conditioned on x1
	Rosenblatt
	// Clayton uses Weibull and log-normal marginals joined by a Clayton copula
	Clayton
	// NonparametricGaussian uses kernel density marginals joined by a gaussian copula
	NonparametricGaussian

	numMethods
)

var methodTokens = [numMethods]string{
	PCA:                   "PCA",
	Gaussian:              "gaussian",
	Rosenblatt:            "rosenblatt",
	Clayton:               "clayton",
	NonparametricGaussian: "nonparametric_gaussian",
}

// AllMethods lists every supported method in declaration order
func AllMethods() []Method {
	out := make([]Method, 0, numMethods)
	for m := Method(0); m < numMethods; m++ {
		out = append(out, m)
	}
	return out
}

// Valid reports whether m is one of the declared methods
func (m Method) Valid() bool {
	return m >= 0 && m < numMethods
}

func (m Method) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methodTokens[m]
}

// ParseMethod converts a method token such as "PCA" or "nonparametric_gaussian". Matching is
// case insensitive.
func ParseMethod(s string) (Method, error) {
	for m, token := range methodTokens {
		if strings.EqualFold(token, strings.TrimSpace(s)) {
			return Method(m), nil
		}
	}
	return 0, fmt.Errorf("%q, %w", s, ErrUnsupportedMethod)
}

// ParseMethods converts every token, failing on the first unknown one
func ParseMethods(tokens []string) ([]Method, error) {
	methods := make([]Method, 0, len(tokens))
	for _, token := range tokens {
		m, err := ParseMethod(token)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, nil
}

// MarshalText encodes the method as its token
func (m Method) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%d, %w", int(m), ErrUnsupportedMethod)
	}
	return []byte(methodTokens[m]), nil
}

// UnmarshalText decodes a method token
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m Method) needsWeibull() bool {
	return m == Gaussian || m == Rosenblatt || m == Clayton
}

func (m Method) needsLogNormal() bool {
	return m == Gaussian || m == Clayton
}

func (m Method) needsKendallTau() bool {
	return m == Gaussian || m == Clayton || m == NonparametricGaussian
}

func (m Method) needsCorrelatedNormal() bool {
	return m == Gaussian || m == NonparametricGaussian
}
