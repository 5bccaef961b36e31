package contour_test

import (
	"fmt"
	"os"

	contour "github.com/aouyang1/go-contour"
	"github.com/aouyang1/go-contour/seastate"
)

func ExampleCompute() {
	s := seastate.NewSynthetic(8766, 1)

	opt := contour.NewDefaultOptions()
	opt.ReturnFit = true
	res, err := contour.Compute(s.X1, s.X2, 3600, 100,
		[]contour.Method{contour.PCA, contour.Gaussian, contour.NonparametricGaussian}, opt)
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := res.TablePrint(os.Stdout, "", "  "); err != nil {
		fmt.Println(err)
		return
	}

	file, err := os.Create("contours.html")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer file.Close()
	if err := contour.PlotContours(file, s.X1, s.X2, res); err != nil {
		fmt.Println(err)
	}
}
