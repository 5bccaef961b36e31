package contour

import (
	"fmt"
	"io"

	"github.com/aouyang1/go-contour/util"
	"github.com/goccy/go-json"
)

// Contour is one closed curve. X1 and X2 share a length and the last point repeats the first.
type Contour struct {
	Method Method    `json:"method"`
	X1     []float64 `json:"x1"`
	X2     []float64 `json:"x2"`
}

// Results holds the contours in the order they were requested and, when asked for, the fitted models
type Results struct {
	Contours []Contour `json:"contours"`
	Fit      *Fit      `json:"fit,omitempty"`
}

// Get returns the contour computed for method m
func (r *Results) Get(m Method) (Contour, bool) {
	for _, c := range r.Contours {
		if c.Method == m {
			return c, true
		}
	}
	return Contour{}, false
}

// Columns maps "{method}_x1" and "{method}_x2" onto the contour coordinates for table-like consumers
func (r *Results) Columns() map[string][]float64 {
	cols := make(map[string][]float64, 2*len(r.Contours))
	for _, c := range r.Contours {
		cols[c.Method.String()+"_x1"] = c.X1
		cols[c.Method.String()+"_x2"] = c.X2
	}
	return cols
}

// WriteJSON encodes the results as indented JSON
func (r *Results) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// TablePrint writes a human readable summary of the contours and any fitted models
func (r *Results) TablePrint(w io.Writer, prefix, indent string) error {
	if _, err := fmt.Fprintf(w, "%s%sContours:\n", prefix, util.IndentExpand(indent, 0)); err != nil {
		return err
	}
	for _, c := range r.Contours {
		x1Max, x2Max := maxOf(c.X1), maxOf(c.X2)
		if _, err := fmt.Fprintf(w, "%s%s%-24s points: %d    max x1: %.3f    max x2: %.3f\n",
			prefix, util.IndentExpand(indent, 1), c.Method, len(c.X1), x1Max, x2Max); err != nil {
			return err
		}
	}
	if r.Fit == nil {
		return nil
	}
	return r.Fit.TablePrint(w, prefix, indent)
}

// TablePrint writes the fitted parameters of every populated model
func (f *Fit) TablePrint(w io.Writer, prefix, indent string) error {
	if _, err := fmt.Fprintf(w, "%s%sFit:\n", prefix, util.IndentExpand(indent, 0)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sExceedance: %.4g    Beta: %.4f\n",
		prefix, util.IndentExpand(indent, 1), f.ExceedanceProbability, f.Beta); err != nil {
		return err
	}

	if p := f.PCA; p != nil {
		if _, err := fmt.Fprintf(w, "%s%sPCA:\n", prefix, util.IndentExpand(indent, 1)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s%sRotation: %v    Shift: %.4f    Bin Size: %d\n",
			prefix, util.IndentExpand(indent, 2), p.Rotation, p.Shift, p.BinSize); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s%sComponent 1: inverse gaussian mu %.4f lambda %.4f\n",
			prefix, util.IndentExpand(indent, 2), p.Component1.Mu, p.Component1.Lambda); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s%sComponent 2: mean %s (R2 %.3f), std %s (R2 %.3f)\n",
			prefix, util.IndentExpand(indent, 2),
			util.FormatPolynomial(p.MeanLaw, "c1"), p.MeanLawR2,
			util.FormatPolynomial(p.StdLaw, "c1"), p.StdLawR2); err != nil {
			return err
		}
	}

	if c := f.Copula; c != nil {
		if _, err := fmt.Fprintf(w, "%s%sCopula:\n", prefix, util.IndentExpand(indent, 1)); err != nil {
			return err
		}
		if c.Weibull != nil {
			if _, err := fmt.Fprintf(w, "%s%sx1 weibull: shape %.4f scale %.4f\n",
				prefix, util.IndentExpand(indent, 2), c.Weibull.Shape, c.Weibull.Scale); err != nil {
				return err
			}
		}
		if c.LogNormal != nil {
			if _, err := fmt.Fprintf(w, "%s%sx2 log-normal: mu %.4f sigma %.4f\n",
				prefix, util.IndentExpand(indent, 2), c.LogNormal.Mu, c.LogNormal.Sigma); err != nil {
				return err
			}
		}
		if c.hasDependence {
			if _, err := fmt.Fprintf(w, "%s%sKendall Tau: %.4f    Rho: %.4f\n",
				prefix, util.IndentExpand(indent, 2), c.KendallTau, c.Rho); err != nil {
				return err
			}
		}
		if c.ClaytonTheta != 0 {
			if _, err := fmt.Fprintf(w, "%s%sClayton Theta: %.4f\n",
				prefix, util.IndentExpand(indent, 2), c.ClaytonTheta); err != nil {
				return err
			}
		}
		if cond := c.Conditional; cond != nil {
			if _, err := fmt.Fprintf(w, "%s%sx2|x1 log mean %s (R2 %.3f), log std %s (R2 %.3f) over %d bins\n",
				prefix, util.IndentExpand(indent, 2),
				util.FormatPolynomial(cond.MeanLaw, "x1"), cond.MeanLawR2,
				util.FormatPolynomial(cond.StdLaw, "x1"), cond.StdLawR2,
				len(cond.BinCenters)); err != nil {
				return err
			}
		}
	}

	if np := f.Nonparametric; np != nil {
		if _, err := fmt.Fprintf(w, "%s%sNonparametric:\n", prefix, util.IndentExpand(indent, 1)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s%sBandwidth x1: %.4f x2: %.4f    Grid Max x1: %.3f x2: %.3f    Rho: %.4f\n",
			prefix, util.IndentExpand(indent, 2),
			np.BandwidthX1, np.BandwidthX2, np.GridMaxX1, np.GridMaxX2, np.Rho); err != nil {
			return err
		}
	}
	return nil
}

func maxOf(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	m := x[0]
	for _, v := range x[1:] {
		m = max(m, v)
	}
	return m
}
