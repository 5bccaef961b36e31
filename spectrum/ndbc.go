package spectrum

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aouyang1/go-contour/seastate"
)

var (
	ErrNoHeader         = errors.New("no ndbc header line")
	ErrNoFrequencies    = errors.New("ndbc header has no frequency columns")
	ErrUnknownTimestamp = errors.New("unrecognized ndbc timestamp columns")
	ErrRowLenMismatch   = errors.New("ndbc row does not match the header")
)

// missing value markers used in ndbc historical and realtime files
var missingValues = map[string]bool{
	"MM":     true,
	"999":    true,
	"999.0":  true,
	"999.00": true,
}

// Spectra is a sequence of variance density spectra in m^2/Hz sharing a frequency grid
type Spectra struct {
	T         []time.Time
	Frequency []float64
	Density   [][]float64
}

// ReadNDBC parses an ndbc spectral wave density (swden) text file. The header lists the timestamp
// columns, YY or YYYY then MM DD hh and optionally mm, followed by the frequencies in Hz. Missing
// densities are stored as NaN.
func ReadNDBC(r io.Reader) (*Spectra, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	spec := new(Spectra)
	numTimeCols := 0
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if spec.Frequency == nil {
			if !isHeader(fields[0]) {
				return nil, fmt.Errorf("line %d, %w", line, ErrNoHeader)
			}
			var err error
			numTimeCols, spec.Frequency, err = parseHeader(fields)
			if err != nil {
				return nil, fmt.Errorf("line %d, %w", line, err)
			}
			continue
		}

		// realtime files carry a second header with units
		if strings.HasPrefix(fields[0], "#") {
			continue
		}
		if len(fields) != numTimeCols+len(spec.Frequency) {
			return nil, fmt.Errorf("line %d has %d columns, expected %d, %w",
				line, len(fields), numTimeCols+len(spec.Frequency), ErrRowLenMismatch)
		}

		t, err := parseTimestamp(fields[:numTimeCols])
		if err != nil {
			return nil, fmt.Errorf("line %d, %w", line, err)
		}
		density := make([]float64, len(spec.Frequency))
		for i, field := range fields[numTimeCols:] {
			if missingValues[field] {
				density[i] = math.NaN()
				continue
			}
			density[i], err = strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %d, %w", line, numTimeCols+i, err)
			}
		}
		spec.T = append(spec.T, t)
		spec.Density = append(spec.Density, density)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if spec.Frequency == nil {
		return nil, ErrNoHeader
	}
	return spec, nil
}

func isHeader(field string) bool {
	return strings.HasPrefix(field, "#") || strings.HasPrefix(field, "YY")
}

func parseHeader(fields []string) (int, []float64, error) {
	numTimeCols := 0
	for _, f := range fields {
		if _, err := strconv.ParseFloat(f, 64); err != nil {
			numTimeCols++
			continue
		}
		break
	}
	if numTimeCols < 4 || numTimeCols > 5 {
		return 0, nil, fmt.Errorf("%d timestamp columns, %w", numTimeCols, ErrUnknownTimestamp)
	}

	freq := make([]float64, 0, len(fields)-numTimeCols)
	for _, f := range fields[numTimeCols:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return 0, nil, fmt.Errorf("frequency %q, %w", f, err)
		}
		freq = append(freq, v)
	}
	if len(freq) == 0 {
		return 0, nil, ErrNoFrequencies
	}
	return numTimeCols, freq, nil
}

func parseTimestamp(fields []string) (time.Time, error) {
	parts := make([]int, 5)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return time.Time{}, fmt.Errorf("timestamp %q, %w", strings.Join(fields, " "), err)
		}
		parts[i] = v
	}
	year := parts[0]
	if year < 100 {
		year += 1900
	}
	return time.Date(year, time.Month(parts[1]), parts[2], parts[3], parts[4], 0, 0, time.UTC), nil
}

// Len is the number of spectra
func (s *Spectra) Len() int {
	return len(s.T)
}

// SeaStates computes Hm0 and Te for every spectrum. Spectra with missing densities or without
// energy yield NaN so the series can be cleaned with DropInvalid.
func (s *Spectra) SeaStates() (*seastate.SampleSeries, error) {
	hm0 := make([]float64, len(s.Density))
	te := make([]float64, len(s.Density))
	for i, density := range s.Density {
		hm0[i], te[i] = math.NaN(), math.NaN()
		if hasNaN(density) {
			continue
		}
		h, err := SignificantWaveHeight(s.Frequency, density)
		if err != nil {
			return nil, fmt.Errorf("spectrum at %s, %w", s.T[i], err)
		}
		hm0[i] = h

		e, err := EnergyPeriod(s.Frequency, density)
		if errors.Is(err, ErrZeroEnergy) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("spectrum at %s, %w", s.T[i], err)
		}
		te[i] = e
	}
	return seastate.NewSampleSeries(s.T, hm0, te)
}

func hasNaN(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
