package plot

import (
	"context"
	"fmt"

	"bench-chart/internal/config"
	"bench-chart/internal/logging"
	"bench-chart/internal/plot/comparison"
	"bench-chart/internal/plot/database"

	"github.com/sirupsen/logrus"
)

// MeasurementSource supplies aggregated proving times for charts whose
// values live outside the config file.
type MeasurementSource interface {
	QueryMeasurements(ctx context.Context, q database.MeasurementQuery) ([]database.Measurement, error)
	Close()
}

type PlotManager struct {
	renderer  *comparison.Renderer
	newSource func(logger *logrus.Logger) (MeasurementSource, error)
	logger    *logrus.Logger
}

type RenderOverrides struct {
	OutputPath string
	DPI        int
}

func NewPlotManager() *PlotManager {
	logger := logging.GetLogger()

	return &PlotManager{
		renderer: comparison.NewRenderer(logger),
		newSource: func(logger *logrus.Logger) (MeasurementSource, error) {
			return database.NewPlotDBClient(logger)
		},
		logger: logger,
	}
}

// BuildChartSpec resolves the config's data source into a renderable spec.
func (pm *PlotManager) BuildChartSpec(ctx context.Context, cfg *config.ChartConfig, overrides RenderOverrides) (comparison.ChartSpec, error) {
	var values map[string][]float64

	if cfg.GetSourceType() == config.SourceInfluxDB {
		var err error
		values, err = pm.queryValues(ctx, cfg)
		if err != nil {
			return comparison.ChartSpec{}, err
		}
	}

	spec, err := cfg.ToChartSpec(values)
	if err != nil {
		return comparison.ChartSpec{}, err
	}

	if overrides.OutputPath != "" {
		spec.OutputPath = overrides.OutputPath
	}
	if overrides.DPI != 0 {
		spec.DPI = overrides.DPI
	}
	return spec, nil
}

func (pm *PlotManager) GenerateComparisonChart(ctx context.Context, cfg *config.ChartConfig, overrides RenderOverrides) (string, error) {
	pm.logger.WithFields(logrus.Fields{
		"chart":  cfg.Chart.Name,
		"source": cfg.GetSourceType(),
		"series": len(cfg.Series),
	}).Info("Generating comparison chart")

	spec, err := pm.BuildChartSpec(ctx, cfg, overrides)
	if err != nil {
		return "", err
	}

	if err := pm.renderer.Render(spec); err != nil {
		return "", fmt.Errorf("failed to render chart: %w", err)
	}
	return spec.OutputPath, nil
}

func (pm *PlotManager) queryValues(ctx context.Context, cfg *config.ChartConfig) (map[string][]float64, error) {
	source, err := pm.newSource(pm.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create database client: %w", err)
	}
	defer source.Close()

	src := cfg.Source.InfluxDB
	tags := make([]string, len(cfg.Series))
	for i, s := range cfg.Series {
		tags[i] = s.GetTag()
	}

	measurements, err := source.QueryMeasurements(ctx, database.MeasurementQuery{
		Measurement: src.Measurement,
		Field:       src.Field,
		SeriesTag:   src.SeriesTag,
		CategoryTag: src.CategoryTag,
		Aggregate:   src.Aggregate,
		Range:       src.Range,
		Filters:     src.Filters,
		Series:      tags,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query measurements: %w", err)
	}

	byTag, err := database.AlignMeasurements(measurements, tags, cfg.Categories)
	if err != nil {
		return nil, err
	}

	values := make(map[string][]float64, len(cfg.Series))
	for i, s := range cfg.Series {
		values[s.Name] = byTag[tags[i]]
	}
	return values, nil
}
