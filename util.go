package contour

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ScatterContours generates an echart scatter of the samples with every contour overlaid as a line
// on shared value axes.
func ScatterContours(title string, x1, x2 []float64, res *Results) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "x1"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "x2"}),
	)

	n := min(len(x1), len(x2))
	scatterData := make([]opts.ScatterData, 0, n)
	for i := 0; i < n; i++ {
		scatterData = append(scatterData, opts.ScatterData{Value: []float64{x1[i], x2[i]}, SymbolSize: 3})
	}
	scatter.AddSeries("Samples", scatterData)

	if res == nil {
		return scatter
	}
	for _, c := range res.Contours {
		line := charts.NewLine()
		lineData := make([]opts.LineData, 0, len(c.X1))
		for i := range c.X1 {
			lineData = append(lineData, opts.LineData{Value: []float64{c.X1[i], c.X2[i]}})
		}
		line.AddSeries(c.Method.String(), lineData)
		scatter.Overlap(line)
	}
	return scatter
}

// PlotContours renders the samples and contours as an html page
func PlotContours(w io.Writer, x1, x2 []float64, res *Results) error {
	page := components.NewPage()
	page.AddCharts(
		ScatterContours("Environmental Contours", x1, x2, res),
	)
	return page.Render(w)
}
