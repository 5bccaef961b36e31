package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	contour "github.com/aouyang1/go-contour"
	"github.com/aouyang1/go-contour/config"
	"github.com/aouyang1/go-contour/seastate"
	"github.com/aouyang1/go-contour/spectrum"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReadCSV(t *testing.T) {
	t0 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	testData := map[string]struct {
		input    string
		expected *seastate.SampleSeries
		err      error
	}{
		"timed with header": {
			input: "time,hm0,te\n2020-01-01T00:00:00Z,1.5,6.2\n2020-01-01T01:00:00Z,1.7,6.8\n",
			expected: &seastate.SampleSeries{
				T:  []time.Time{t0, t0.Add(time.Hour)},
				X1: []float64{1.5, 1.7},
				X2: []float64{6.2, 6.8},
			},
		},
		"untimed without header": {
			input:    "1.5, 6.2\n1.7, 6.8\n",
			expected: &seastate.SampleSeries{X1: []float64{1.5, 1.7}, X2: []float64{6.2, 6.8}},
		},
		"comments skipped": {
			input:    "# station 46022\nhm0,te\n1.5,6.2\n",
			expected: &seastate.SampleSeries{X1: []float64{1.5}, X2: []float64{6.2}},
		},
		"bad column count": {
			input: "1,2,3,4\n",
			err:   ErrCSVColumns,
		},
		"empty": {
			input: "",
			err:   seastate.ErrNoSamples,
		},
		"header only": {
			input: "hm0,te\n",
			err:   seastate.ErrNoSamples,
		},
		"non monotonic": {
			input: "2020-01-01T01:00:00Z,1.5,6.2\n2020-01-01T00:00:00Z,1.7,6.8\n",
			err:   seastate.ErrNonMonotonic,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			s, err := readCSV(strings.NewReader(td.input))
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, s)
		})
	}
}

func TestReadCSVMissingValue(t *testing.T) {
	s, err := readCSV(strings.NewReader("1.5,6.2\n,6.8\n"))
	require.Nil(t, err)
	assert.True(t, math.IsNaN(s.X1[1]))
	assert.Equal(t, 1, s.DropInvalid().Len())
}

func TestClean(t *testing.T) {
	s := &seastate.SampleSeries{
		X1: []float64{1.0, 1.1, 1.2, 1.3, 1.4, 1.5, 1.6, 1.7, 1.8, 1.9, 2.0, math.NaN(), 25, 1.5},
		X2: []float64{6.0, 6.1, 6.2, 6.3, 6.4, 6.5, 6.6, 6.7, 6.8, 6.9, 7.0, 6.4, 6.6, 60},
	}
	testData := map[string]struct {
		cfg      config.CleanConfig
		expected int
	}{
		"invalid only": {
			cfg:      config.CleanConfig{},
			expected: 13,
		},
		"max hm0": {
			cfg:      config.CleanConfig{MaxHm0: 20},
			expected: 12,
		},
		"outliers": {
			cfg:      config.CleanConfig{Outliers: true, LowerPercentile: 0.25, UpperPercentile: 0.75, TukeyFactor: 3},
			expected: 11,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			out := clean(s, td.cfg, discardLogger())
			assert.Equal(t, td.expected, out.Len())
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)
	require.Nil(t, err)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"key":"value"`)

	_, err = newLogger(config.LoggingConfig{Level: "loud"}, &buf)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func writeSyntheticCSV(t *testing.T, dir string, n int) string {
	t.Helper()
	s := seastate.NewSynthetic(n, 5)
	var buf bytes.Buffer
	buf.WriteString("time,hm0,te\n")
	for i := range s.X1 {
		fmt.Fprintf(&buf, "%s,%.4f,%.4f\n", s.T[i].Format(time.RFC3339), s.X1[i], s.X2[i])
	}
	path := filepath.Join(dir, "samples.csv")
	require.Nil(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func writeSyntheticNDBC(t *testing.T, dir string, n int) string {
	t.Helper()
	s := seastate.NewSynthetic(n, 9)
	freq := make([]float64, 60)
	floats.Span(freq, 0.02, 0.6)

	var buf bytes.Buffer
	buf.WriteString("#YY  MM DD hh mm")
	for _, f := range freq {
		fmt.Fprintf(&buf, " %.4f", f)
	}
	buf.WriteString("\n")
	for i := range s.X1 {
		ts := s.T[i]
		fmt.Fprintf(&buf, "%04d %02d %02d %02d %02d", ts.Year(), ts.Month(), ts.Day(), ts.Hour(), ts.Minute())
		density := spectrum.PiersonMoskowitz(freq, s.X1[i], s.X2[i]/0.857)
		for j, d := range density {
			if i == 3 && j == 5 {
				buf.WriteString(" 999.00")
				continue
			}
			fmt.Fprintf(&buf, " %.6f", d)
		}
		buf.WriteString("\n")
	}
	path := filepath.Join(dir, "spectra.txt")
	require.Nil(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	testData := map[string]struct {
		input   config.InputConfig
		methods []string
	}{
		"csv inferred interval": {
			input:   config.InputConfig{Path: writeSyntheticCSV(t, dir, 1500), Format: "csv"},
			methods: []string{"PCA", "gaussian"},
		},
		"csv explicit interval": {
			input:   config.InputConfig{Path: writeSyntheticCSV(t, dir, 1500), Format: "csv", DT: 3600},
			methods: []string{"rosenblatt"},
		},
		"ndbc spectra": {
			input:   config.InputConfig{Path: writeSyntheticNDBC(t, dir, 800), Format: "ndbc"},
			methods: []string{"gaussian", "nonparametric_gaussian"},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			out := t.TempDir()
			cfg := &config.Config{
				Input: td.input,
				Contour: config.ContourConfig{
					Period:     100,
					Methods:    td.methods,
					NumPoints:  120,
					ReturnFit:  true,
					PCABinSize: contour.DefaultPCABinSize,
				},
				Clean:   config.CleanConfig{MaxHm0: 30},
				Output:  config.OutputConfig{JSON: filepath.Join(out, "contours.json"), Plot: filepath.Join(out, "contours.html")},
				Logging: config.LoggingConfig{Level: "info", Format: "text"},
			}
			require.Nil(t, cfg.Validate())

			var stdout bytes.Buffer
			require.Nil(t, run(cfg, discardLogger(), &stdout))
			assert.Contains(t, stdout.String(), "Contours:")

			raw, err := os.ReadFile(cfg.Output.JSON)
			require.Nil(t, err)
			var res contour.Results
			require.Nil(t, json.Unmarshal(raw, &res))
			require.Len(t, res.Contours, len(td.methods))
			for _, c := range res.Contours {
				assert.Len(t, c.X1, 120)
				assert.Len(t, c.X2, 120)
			}
			require.NotNil(t, res.Fit)

			html, err := os.ReadFile(cfg.Output.Plot)
			require.Nil(t, err)
			assert.Contains(t, string(html), "Environmental Contours")
		})
	}
}

func TestRunStdout(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Input:   config.InputConfig{Path: writeSyntheticCSV(t, dir, 600), Format: "csv"},
		Contour: config.ContourConfig{Period: 10, Methods: []string{"clayton"}, NumPoints: 50},
		Logging: config.LoggingConfig{Level: "info", Format: "text"},
	}

	var stdout bytes.Buffer
	require.Nil(t, run(cfg, discardLogger(), &stdout))

	var res contour.Results
	require.Nil(t, json.Unmarshal(stdout.Bytes(), &res))
	require.Len(t, res.Contours, 1)
	assert.Equal(t, contour.Clayton, res.Contours[0].Method)
	assert.Nil(t, res.Fit)
}

func TestRunMissingInput(t *testing.T) {
	cfg := &config.Config{
		Input:   config.InputConfig{Path: filepath.Join(t.TempDir(), "missing.csv"), Format: "csv"},
		Contour: config.ContourConfig{Period: 10, Methods: []string{"PCA"}, NumPoints: 50},
	}
	assert.NotNil(t, run(cfg, discardLogger(), io.Discard))
}
