// Command contour computes environmental contours from a CSV of sea states or an NDBC spectral wave
// density file and writes them as JSON with an optional html chart.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	contour "github.com/aouyang1/go-contour"
	"github.com/aouyang1/go-contour/config"
	"github.com/aouyang1/go-contour/seastate"
	"github.com/aouyang1/go-contour/spectrum"
	"github.com/aouyang1/go-contour/stats"
)

var configPath = flag.String("config", "", "Path to configuration file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Logging, os.Stderr)
	if err != nil {
		slog.Error("failed to create logger", "error", err)
		os.Exit(1)
	}
	logger.Info("configuration loaded", "path", *configPath)

	if err := run(cfg, logger, os.Stdout); err != nil {
		logger.Error("contour estimation failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.LoggingConfig, w io.Writer) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func run(cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	s, err := loadSamples(cfg.Input)
	if err != nil {
		return err
	}
	numRead := s.Len()

	s = clean(s, cfg.Clean, logger)
	logger.Info("samples loaded", "read", numRead, "kept", s.Len())

	opt, methods, err := cfg.ContourOptions(logger)
	if err != nil {
		return err
	}
	e, err := contour.New(opt)
	if err != nil {
		return err
	}

	var res *contour.Results
	if cfg.Input.DT > 0 {
		res, err = e.Compute(s.X1, s.X2, cfg.Input.DT, cfg.Contour.Period, methods)
	} else {
		res, err = e.ComputeSampleSeries(s, cfg.Contour.Period, methods)
	}
	if err != nil {
		return err
	}
	logger.Info("contours computed", "methods", methods, "period", cfg.Contour.Period)

	if res.Fit != nil && cfg.Output.JSON != "" {
		if err := res.TablePrint(stdout, "", "  "); err != nil {
			return err
		}
	}

	if err := writeJSON(cfg.Output.JSON, res, stdout); err != nil {
		return err
	}

	if cfg.Output.Plot != "" {
		file, err := os.Create(cfg.Output.Plot)
		if err != nil {
			return fmt.Errorf("unable to create plot file, %w", err)
		}
		defer file.Close()
		if err := contour.PlotContours(file, s.X1, s.X2, res); err != nil {
			return fmt.Errorf("unable to render plot, %w", err)
		}
		logger.Info("plot written", "path", cfg.Output.Plot)
	}
	return nil
}

func loadSamples(cfg config.InputConfig) (*seastate.SampleSeries, error) {
	file, err := os.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open input, %w", err)
	}
	defer file.Close()

	switch cfg.Format {
	case "ndbc":
		spec, err := spectrum.ReadNDBC(file)
		if err != nil {
			return nil, fmt.Errorf("unable to read ndbc spectra, %w", err)
		}
		return spec.SeaStates()
	default:
		return readCSV(file)
	}
}

// clean drops non-finite rows, rows above the wave height cap and, when enabled, Tukey outliers in
// either variable
func clean(s *seastate.SampleSeries, cfg config.CleanConfig, logger *slog.Logger) *seastate.SampleSeries {
	s = s.DropInvalid()
	if cfg.MaxHm0 > 0 {
		s = s.Filter(func(x1, _ float64) bool {
			return x1 <= cfg.MaxHm0
		})
	}
	if cfg.Outliers {
		idx := stats.DetectOutliers(s.X1, cfg.LowerPercentile, cfg.UpperPercentile, cfg.TukeyFactor)
		idx = append(idx, stats.DetectOutliers(s.X2, cfg.LowerPercentile, cfg.UpperPercentile, cfg.TukeyFactor)...)
		if len(idx) > 0 {
			logger.Warn("dropping outliers", "count", len(idx))
		}
		s = s.DropIndices(idx)
	}
	return s
}

func writeJSON(path string, res *contour.Results, stdout io.Writer) error {
	if path == "" {
		return res.WriteJSON(stdout)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create json output, %w", err)
	}
	defer file.Close()
	return res.WriteJSON(file)
}
