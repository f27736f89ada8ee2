package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"bench-chart/internal/logging"
	"bench-chart/internal/plot/comparison"
	"bench-chart/internal/plot/comparison/mappings"

	"gopkg.in/yaml.v3"
)

// Flux range starts: relative durations such as -30d or -12h, or RFC3339 times.
var fluxRangeStart = regexp.MustCompile(`^-(\d+(ns|us|ms|s|m|h|d|w|mo|y))+$|^\d{4}-\d{2}-\d{2}T[0-9:.]+(Z|[+-]\d{2}:\d{2})$`)

var aggregates = map[string]bool{
	"mean":   true,
	"median": true,
	"min":    true,
	"max":    true,
	"last":   true,
}

func LoadConfig(filepath string) (*ChartConfig, error) {
	logger := logging.GetLogger()

	data, err := os.ReadFile(filepath)
	if err != nil {
		logger.WithField("filepath", filepath).WithError(err).Error("Failed to read config file")
		return nil, err
	}

	config, err := ParseConfig(data)
	if err != nil {
		logger.WithField("filepath", filepath).WithError(err).Error("Failed to load config file")
		return nil, err
	}
	return config, nil
}

func ParseConfig(data []byte) (*ChartConfig, error) {
	expanded := expandEnvVars(string(data))

	var config ChartConfig
	decoder := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

func expandEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		envVar := strings.Trim(match, "${}")
		if value := os.Getenv(envVar); value != "" {
			return value
		}
		return match
	})
}

func applyDefaults(config *ChartConfig) {
	if config.Chart.Output.Path == "" {
		config.Chart.Output.Path = "plot.png"
	}
	if config.Chart.Bars.Opacity == 0 {
		config.Chart.Bars.Opacity = comparison.DefaultOpacity
	}

	if config.GetSourceType() != SourceInfluxDB {
		return
	}
	src := &config.Source.InfluxDB
	if src.Measurement == "" {
		src.Measurement = "proving_time"
	}
	if src.Field == "" {
		src.Field = "ms"
	}
	if src.SeriesTag == "" {
		src.SeriesTag = "backend"
	}
	if src.CategoryTag == "" {
		src.CategoryTag = "circuit"
	}
	if src.Aggregate == "" {
		src.Aggregate = "mean"
	}
	if src.Range == "" {
		src.Range = "-30d"
	}
}

func validateConfig(config *ChartConfig) error {
	if len(config.Categories) == 0 {
		return fmt.Errorf("at least one category is required")
	}
	if len(config.Series) == 0 {
		return fmt.Errorf("at least one series must be defined")
	}

	for i, series := range config.Series {
		if series.Name == "" {
			return fmt.Errorf("series %d: name is required", i)
		}
		if series.Color != "" {
			if _, err := mappings.ParseColor(series.Color); err != nil {
				return fmt.Errorf("series %s: %w", series.Name, err)
			}
		}
	}

	switch config.GetSourceType() {
	case SourceInline:
		for _, series := range config.Series {
			if len(series.Values) == 0 {
				return fmt.Errorf("series %s: values are required for the inline source", series.Name)
			}
		}
		// Inline charts are complete, so the renderer's own checks apply now.
		spec, err := config.ToChartSpec(nil)
		if err != nil {
			return err
		}
		return spec.Validate()

	case SourceInfluxDB:
		src := config.Source.InfluxDB
		for _, series := range config.Series {
			if len(series.Values) > 0 {
				return fmt.Errorf("series %s: values must not be set when reading from influxdb", series.Name)
			}
		}
		if !aggregates[src.Aggregate] {
			return fmt.Errorf("unknown influxdb aggregate %q", src.Aggregate)
		}
		if !fluxRangeStart.MatchString(src.Range) {
			return fmt.Errorf("invalid influxdb range %q", src.Range)
		}
		if src.SeriesTag == src.CategoryTag {
			return fmt.Errorf("influxdb series_tag and category_tag must differ")
		}
		return nil

	default:
		return fmt.Errorf("unknown source type %q", config.Source.Type)
	}
}

// ToChartSpec maps the config onto a renderer spec. values, keyed by series
// name, overrides the inline values of each series when non-nil.
func (c *ChartConfig) ToChartSpec(values map[string][]float64) (comparison.ChartSpec, error) {
	series := make([]comparison.Series, 0, len(c.Series))
	for _, s := range c.Series {
		entry := comparison.Series{
			Name:   s.Name,
			Values: s.Values,
		}
		if values != nil {
			entry.Values = values[s.Name]
		}
		if s.Color != "" {
			clr, err := mappings.ParseColor(s.Color)
			if err != nil {
				return comparison.ChartSpec{}, fmt.Errorf("series %s: %w", s.Name, err)
			}
			entry.Color = clr
		}
		series = append(series, entry)
	}

	return comparison.ChartSpec{
		Title:              c.Chart.Title,
		XLabel:             c.Chart.XLabel,
		YLabel:             c.Chart.YLabel,
		Categories:         c.Categories,
		Series:             series,
		BarWidth:           c.Chart.Bars.Width,
		Opacity:            c.Chart.Bars.Opacity,
		FigureWidth:        c.Chart.Output.Width,
		FigureHeight:       c.Chart.Output.Height,
		DPI:                c.Chart.Output.DPI,
		TickRotation:       c.GetTickRotation(),
		AnnotationRotation: c.GetValueRotation(),
		Legend:             comparison.LegendPosition(c.Chart.Legend),
		OutputPath:         c.Chart.Output.Path,
	}, nil
}
