// Package config loads the contour command configuration from a YAML file and CONTOUR_ prefixed
// environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	contour "github.com/aouyang1/go-contour"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid configuration")

const envPrefix = "CONTOUR"

// Config represents the complete command configuration
type Config struct {
	Input   InputConfig   `mapstructure:"input"`
	Contour ContourConfig `mapstructure:"contour"`
	Clean   CleanConfig   `mapstructure:"clean"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// InputConfig describes where the sea state samples come from
type InputConfig struct {
	Path   string `mapstructure:"path"`
	Format string `mapstructure:"format"`
	// DT is the sampling interval in seconds, zero infers it from the timestamps
	DT float64 `mapstructure:"dt"`
}

// ContourConfig holds the estimation settings
type ContourConfig struct {
	Period     float64  `mapstructure:"period"`
	Methods    []string `mapstructure:"methods"`
	NumPoints  int      `mapstructure:"num_points"`
	ReturnFit  bool     `mapstructure:"return_fit"`
	PCABinSize int      `mapstructure:"pca_bin_size"`
}

// CleanConfig holds the sample cleaning applied before estimation
type CleanConfig struct {
	Outliers        bool    `mapstructure:"outliers"`
	LowerPercentile float64 `mapstructure:"lower_percentile"`
	UpperPercentile float64 `mapstructure:"upper_percentile"`
	TukeyFactor     float64 `mapstructure:"tukey_factor"`
	// MaxHm0 drops samples with a larger significant wave height, zero disables it
	MaxHm0 float64 `mapstructure:"max_hm0"`
}

// OutputConfig holds the output destinations. An empty JSON path writes to stdout and an empty plot
// path skips the chart.
type OutputConfig struct {
	JSON string `mapstructure:"json"`
	Plot string `mapstructure:"plot"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from an optional file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input.path", "")
	v.SetDefault("input.format", "csv")
	v.SetDefault("input.dt", 0.0)

	v.SetDefault("contour.period", 100.0)
	v.SetDefault("contour.methods", []string{"PCA"})
	v.SetDefault("contour.num_points", contour.DefaultNumPoints)
	v.SetDefault("contour.return_fit", false)
	v.SetDefault("contour.pca_bin_size", contour.DefaultPCABinSize)

	v.SetDefault("clean.outliers", false)
	v.SetDefault("clean.lower_percentile", 0.25)
	v.SetDefault("clean.upper_percentile", 0.75)
	v.SetDefault("clean.tukey_factor", 3.0)
	v.SetDefault("clean.max_hm0", 0.0)

	v.SetDefault("output.json", "")
	v.SetDefault("output.plot", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Input.Path == "" {
		return fmt.Errorf("input.path is required, %w", ErrInvalidConfig)
	}
	validFormats := map[string]bool{"csv": true, "ndbc": true}
	if !validFormats[c.Input.Format] {
		return fmt.Errorf("input.format must be one of: csv, ndbc, %w", ErrInvalidConfig)
	}
	if c.Input.DT < 0 {
		return fmt.Errorf("input.dt must not be negative, %w", ErrInvalidConfig)
	}

	if c.Contour.Period <= 0 {
		return fmt.Errorf("contour.period must be positive, %w", ErrInvalidConfig)
	}
	if len(c.Contour.Methods) == 0 {
		return fmt.Errorf("contour.methods must contain at least one method, %w", ErrInvalidConfig)
	}
	if _, err := contour.ParseMethods(c.Contour.Methods); err != nil {
		return fmt.Errorf("contour.methods, %w: %w", ErrInvalidConfig, err)
	}
	if c.Contour.NumPoints < contour.MinNumPoints {
		return fmt.Errorf("contour.num_points must be at least %d, %w", contour.MinNumPoints, ErrInvalidConfig)
	}

	if c.Clean.Outliers {
		if c.Clean.LowerPercentile < 0 || c.Clean.UpperPercentile > 1 || c.Clean.LowerPercentile >= c.Clean.UpperPercentile {
			return fmt.Errorf("clean percentiles must satisfy 0 <= lower < upper <= 1, %w", ErrInvalidConfig)
		}
		if c.Clean.TukeyFactor < 0 {
			return fmt.Errorf("clean.tukey_factor must not be negative, %w", ErrInvalidConfig)
		}
	}
	if c.Clean.MaxHm0 < 0 {
		return fmt.Errorf("clean.max_hm0 must not be negative, %w", ErrInvalidConfig)
	}

	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text, %w", ErrInvalidConfig)
	}
	return nil
}

// ContourOptions converts the contour settings into estimator options and methods
func (c *Config) ContourOptions(logger *slog.Logger) (*contour.Options, []contour.Method, error) {
	methods, err := contour.ParseMethods(c.Contour.Methods)
	if err != nil {
		return nil, nil, err
	}
	opt := contour.NewDefaultOptions()
	opt.NumPoints = c.Contour.NumPoints
	opt.ReturnFit = c.Contour.ReturnFit
	opt.PCA.BinSize = c.Contour.PCABinSize
	opt.Logger = logger
	return opt, methods, nil
}

// ParseLevel maps a logging level name onto its slog level
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("logging.level must be one of: debug, info, warn, error, %w", ErrInvalidConfig)
}
