// Package config handles atlastool configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/xatlas-go/pkg/xatlas"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all atlastool settings.
type Config struct {
	Chart   xatlas.ChartOptions `yaml:"chart"`
	Pack    xatlas.PackOptions  `yaml:"pack"`
	Output  OutputConfig        `yaml:"output"`
	Logging LoggingConfig       `yaml:"logging"`
}

// OutputConfig controls what unwrap writes and where.
type OutputConfig struct {
	Dir          string `yaml:"dir"`            // empty writes next to each input
	Image        bool   `yaml:"image"`          // also write a PNG of the chart layout
	ImageMaxSize int    `yaml:"image_max_size"` // 0 keeps the atlas resolution
	Workers      int    `yaml:"workers"`        // parallel OBJ readers; 0 uses GOMAXPROCS
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // console or json
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with the engine defaults and console logging.
func Default() *Config {
	return &Config{
		Chart: xatlas.DefaultChartOptions(),
		Pack:  xatlas.DefaultPackOptions(),
		Output: OutputConfig{
			Dir:          "",
			Image:        false,
			ImageMaxSize: 2048,
			Workers:      0,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			LogFile:    "",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}

// Validate rejects settings the engine or the tool cannot use.
func (c *Config) Validate() error {
	weights := []struct {
		name string
		v    float32
	}{
		{"chart.proxy_fit_metric_weight", c.Chart.ProxyFitMetricWeight},
		{"chart.roundness_metric_weight", c.Chart.RoundnessMetricWeight},
		{"chart.straightness_metric_weight", c.Chart.StraightnessMetricWeight},
		{"chart.normal_seam_metric_weight", c.Chart.NormalSeamMetricWeight},
		{"chart.texture_seam_metric_weight", c.Chart.TextureSeamMetricWeight},
		{"chart.max_chart_area", c.Chart.MaxChartArea},
		{"chart.max_boundary_length", c.Chart.MaxBoundaryLength},
		{"chart.max_threshold", c.Chart.MaxThreshold},
		{"pack.texels_per_unit", c.Pack.TexelsPerUnit},
	}
	for _, w := range weights {
		if w.v < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalid, w.name, w.v)
		}
	}
	if c.Chart.MaxIterations == 0 {
		return fmt.Errorf("%w: chart.max_iterations must be at least 1", ErrInvalid)
	}
	if c.Pack.Attempts < 0 {
		return fmt.Errorf("%w: pack.attempts must not be negative, got %d", ErrInvalid, c.Pack.Attempts)
	}
	if c.Output.ImageMaxSize < 0 {
		return fmt.Errorf("%w: output.image_max_size must not be negative, got %d", ErrInvalid, c.Output.ImageMaxSize)
	}
	if c.Output.Workers < 0 {
		return fmt.Errorf("%w: output.workers must not be negative, got %d", ErrInvalid, c.Output.Workers)
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return fmt.Errorf("%w: logging.level %q", ErrInvalid, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: logging.format must be console or json, got %q", ErrInvalid, c.Logging.Format)
	}
	return nil
}
