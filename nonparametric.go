package contour

// nonparametricGaussianContour inverts the kernel CDFs on their grids. Probabilities closer to 0 or 1
// than the grid resolves clamp to the grid edges, so very large radii flatten against the grid
// maxima rather than diverging.
func nonparametricGaussianContour(sh *shared) ([]float64, []float64, error) {
	x1 := make([]float64, len(sh.u1))
	x2 := make([]float64, len(sh.u1))
	for i := range sh.u1 {
		x1[i] = sh.kde1.Quantile(sh.p1[i])
		x2[i] = sh.kde2.Quantile(sh.pz[i])
	}
	return x1, x2, nil
}
