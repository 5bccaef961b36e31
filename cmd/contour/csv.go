package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/aouyang1/go-contour/seastate"
)

var ErrCSVColumns = errors.New("csv needs hm0 and te columns with an optional leading time column")

// readCSV parses rows of time,hm0,te or hm0,te. Times are RFC 3339. A header row is skipped when
// its value columns are not numeric. Empty values become NaN.
func readCSV(r io.Reader) (*seastate.SampleSeries, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to read csv, %w", err)
	}
	if len(records) == 0 {
		return nil, seastate.ErrNoSamples
	}

	numCols := len(records[0])
	if numCols != 2 && numCols != 3 {
		return nil, fmt.Errorf("%d columns, %w", numCols, ErrCSVColumns)
	}
	timed := numCols == 3
	if _, err := parseValue(records[0][numCols-1]); err != nil {
		records = records[1:]
	}

	var t []time.Time
	x1 := make([]float64, 0, len(records))
	x2 := make([]float64, 0, len(records))
	for i, rec := range records {
		vals := rec
		if timed {
			ts, err := time.Parse(time.RFC3339, strings.TrimSpace(rec[0]))
			if err != nil {
				return nil, fmt.Errorf("row %d time, %w", i+1, err)
			}
			t = append(t, ts)
			vals = rec[1:]
		}
		h, err := parseValue(vals[0])
		if err != nil {
			return nil, fmt.Errorf("row %d hm0, %w", i+1, err)
		}
		e, err := parseValue(vals[1])
		if err != nil {
			return nil, fmt.Errorf("row %d te, %w", i+1, err)
		}
		x1 = append(x1, h)
		x2 = append(x2, e)
	}
	return seastate.NewSampleSeries(t, x1, x2)
}

func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return strconv.ParseFloat("NaN", 64)
	}
	return strconv.ParseFloat(s, 64)
}
