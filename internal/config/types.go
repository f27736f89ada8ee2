package config

import (
	"bench-chart/internal/plot/comparison"
)

const (
	SourceInline   = "inline"
	SourceInfluxDB = "influxdb"
)

type ChartConfig struct {
	Chart      ChartInfo      `yaml:"chart"`
	Categories []string       `yaml:"categories"`
	Series     []SeriesConfig `yaml:"series"`
	Source     SourceConfig   `yaml:"source"`
}

type ChartInfo struct {
	Name     string       `yaml:"name"`
	Title    string       `yaml:"title"`
	XLabel   string       `yaml:"x_label"`
	YLabel   string       `yaml:"y_label"`
	LogLevel string       `yaml:"log_level"`
	Output   OutputConfig `yaml:"output"`
	Bars     BarConfig    `yaml:"bars"`
	Labels   LabelConfig  `yaml:"labels"`
	Legend   string       `yaml:"legend"`
}

type OutputConfig struct {
	Path   string  `yaml:"path"`
	DPI    int     `yaml:"dpi"`
	Width  float64 `yaml:"width"`  // inches
	Height float64 `yaml:"height"` // inches
}

type BarConfig struct {
	Width   float64 `yaml:"width"`
	Opacity float64 `yaml:"opacity"`
}

type LabelConfig struct {
	TickRotation  *float64 `yaml:"tick_rotation"`
	ValueRotation *float64 `yaml:"value_rotation"`
}

type SeriesConfig struct {
	Name   string    `yaml:"name"`
	Color  string    `yaml:"color,omitempty"`
	Tag    string    `yaml:"tag,omitempty"` // series tag value for the influxdb source, defaults to Name
	Values []float64 `yaml:"values,omitempty"`
}

type SourceConfig struct {
	Type     string         `yaml:"type"`
	InfluxDB InfluxDBSource `yaml:"influxdb"`
}

type InfluxDBSource struct {
	Measurement string            `yaml:"measurement"`
	Field       string            `yaml:"field"`
	SeriesTag   string            `yaml:"series_tag"`
	CategoryTag string            `yaml:"category_tag"`
	Aggregate   string            `yaml:"aggregate"`
	Range       string            `yaml:"range"`
	Filters     map[string]string `yaml:"filters,omitempty"`
}

// Value labels turn vertical once bars get too narrow to fit them flat.
const rotateValuesFromSeries = 4

func (c *ChartConfig) GetTickRotation() float64 {
	if c.Chart.Labels.TickRotation != nil {
		return *c.Chart.Labels.TickRotation
	}
	return comparison.DefaultTickRotation
}

func (c *ChartConfig) GetValueRotation() float64 {
	if c.Chart.Labels.ValueRotation != nil {
		return *c.Chart.Labels.ValueRotation
	}
	if len(c.Series) >= rotateValuesFromSeries {
		return 90
	}
	return 0
}

func (c *ChartConfig) GetSourceType() string {
	if c.Source.Type == "" {
		return SourceInline
	}
	return c.Source.Type
}

func (s SeriesConfig) GetTag() string {
	if s.Tag != "" {
		return s.Tag
	}
	return s.Name
}
