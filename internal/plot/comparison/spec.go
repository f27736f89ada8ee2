package comparison

import (
	"image/color"
	"math"

	"bench-chart/internal/plot/comparison/mappings"
)

type LegendPosition string

const (
	LegendTopLeft     LegendPosition = "top-left"
	LegendTopRight    LegendPosition = "top-right"
	LegendBottomLeft  LegendPosition = "bottom-left"
	LegendBottomRight LegendPosition = "bottom-right"
)

const (
	DefaultFigureWidth  = 12.0 // inches
	DefaultFigureHeight = 8.0  // inches
	DefaultDPI          = 100
	DefaultOpacity      = 0.7
	DefaultTickRotation = 45.0 // degrees
)

// Series is one named sequence of measurements, positionally aligned with
// ChartSpec.Categories.
type Series struct {
	Name   string
	Color  color.Color // nil selects a palette color by series position
	Values []float64   // milliseconds, strictly positive
}

// ChartSpec describes a single grouped, log-scaled comparison chart.
// Zero values for sizes, DPI, opacity, bar width and legend select defaults.
type ChartSpec struct {
	Title  string
	XLabel string
	YLabel string

	Categories []string
	Series     []Series

	BarWidth float64 // data units; 0 derives the width from the series count
	Opacity  float64 // bar fill opacity in (0, 1]

	FigureWidth  float64 // inches
	FigureHeight float64 // inches
	DPI          int

	TickRotation       float64 // degrees, category labels
	AnnotationRotation float64 // degrees, value labels above bars
	Legend             LegendPosition

	OutputPath string
}

// Validate checks the spec without drawing anything.
func (s ChartSpec) Validate() error {
	if len(s.Categories) == 0 {
		return newValidationError("at least one category is required")
	}
	if len(s.Series) == 0 {
		return newValidationError("at least one series is required")
	}
	if s.OutputPath == "" {
		return newValidationError("output path is required")
	}

	seen := make(map[string]bool, len(s.Series))
	for j, series := range s.Series {
		if series.Name == "" {
			return newValidationError("series %d has no name", j)
		}
		if seen[series.Name] {
			return newSeriesError(series.Name, -1, "duplicate series name")
		}
		seen[series.Name] = true

		if len(series.Values) != len(s.Categories) {
			return newSeriesError(series.Name, -1, "has %d values, expected %d (one per category)", len(series.Values), len(s.Categories))
		}
		for i, v := range series.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return newSeriesError(series.Name, i, "value %v is not finite", v)
			}
			if v <= 0 {
				return newSeriesError(series.Name, i, "value %v must be greater than 0 on a log scale", v)
			}
		}
	}

	if s.BarWidth < 0 {
		return newValidationError("bar width %v must not be negative", s.BarWidth)
	}
	if s.BarWidth*float64(len(s.Series)) > 1+1e-9 {
		return newValidationError("bar width %v is too wide for %d series (width x series must not exceed 1)", s.BarWidth, len(s.Series))
	}
	if s.Opacity < 0 || s.Opacity > 1 {
		return newValidationError("opacity %v must be within [0, 1]", s.Opacity)
	}
	if s.FigureWidth < 0 || s.FigureHeight < 0 {
		return newValidationError("figure size %vx%v must not be negative", s.FigureWidth, s.FigureHeight)
	}
	if s.DPI < 0 {
		return newValidationError("dpi %d must not be negative", s.DPI)
	}

	switch s.Legend {
	case "", LegendTopLeft, LegendTopRight, LegendBottomLeft, LegendBottomRight:
	default:
		return newValidationError("unknown legend position %q", s.Legend)
	}

	return nil
}

// withDefaults returns a copy with zero values replaced. The caller's series
// slice is not modified.
func (s ChartSpec) withDefaults() ChartSpec {
	if s.FigureWidth == 0 {
		s.FigureWidth = DefaultFigureWidth
	}
	if s.FigureHeight == 0 {
		s.FigureHeight = DefaultFigureHeight
	}
	if s.DPI == 0 {
		s.DPI = DefaultDPI
	}
	if s.Opacity == 0 {
		s.Opacity = DefaultOpacity
	}
	if s.Legend == "" {
		s.Legend = LegendTopLeft
	}
	s.BarWidth = BarWidth(len(s.Series), s.BarWidth)

	series := make([]Series, len(s.Series))
	for j, src := range s.Series {
		series[j] = src
		if series[j].Color == nil {
			series[j].Color = mappings.GetSeriesColor(j)
		}
	}
	s.Series = series
	return s
}

func (s ChartSpec) values() []float64 {
	var all []float64
	for _, series := range s.Series {
		all = append(all, series.Values...)
	}
	return all
}
