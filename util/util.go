// Package util holds small formatting helpers shared by the table printers.
package util

import (
	"fmt"
	"strings"
)

// IndentExpand repeats indent growth times
func IndentExpand(indent string, growth int) string {
	indentByte := []byte(indent)
	out := make([]byte, 0, len(indent)*growth)
	for i := 0; i < growth; i++ {
		out = append(out, indentByte...)
	}
	return string(out)
}

// FormatPolynomial renders increasing power coefficients as "c0 + c1*x + c2*x^2"
func FormatPolynomial(coefs []float64, variable string) string {
	var sb strings.Builder
	for i, c := range coefs {
		if i > 0 {
			sb.WriteString(" + ")
		}
		fmt.Fprintf(&sb, "%.5g", c)
		switch {
		case i == 1:
			fmt.Fprintf(&sb, "*%s", variable)
		case i > 1:
			fmt.Fprintf(&sb, "*%s^%d", variable, i)
		}
	}
	return sb.String()
}
