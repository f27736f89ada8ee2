package database

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/sirupsen/logrus"
)

// PlotDBClient reads benchmark results written by the benchmarking harness.
type PlotDBClient struct {
	client   influxdb2.Client
	queryAPI api.QueryAPI
	bucket   string
	org      string
	logger   *logrus.Logger
}

// Measurement is one aggregated proving time for a (series, category) pair.
type Measurement struct {
	Series   string
	Category string
	Value    float64
}

type MeasurementQuery struct {
	Measurement string
	Field       string
	SeriesTag   string
	CategoryTag string
	Aggregate   string // mean, median, min, max or last
	Range       string // flux range start, e.g. -30d
	Filters     map[string]string
	Series      []string // series tag values to keep
}

func NewPlotDBClient(logger *logrus.Logger) (*PlotDBClient, error) {
	host := os.Getenv("INFLUXDB_HOST")
	token := os.Getenv("INFLUXDB_TOKEN")
	org := os.Getenv("INFLUXDB_ORG")
	bucket := os.Getenv("INFLUXDB_BUCKET")

	if host == "" || token == "" || org == "" || bucket == "" {
		return nil, fmt.Errorf("missing required environment variables for InfluxDB connection")
	}

	return NewPlotDBClientWithOptions(host, token, org, bucket, logger), nil
}

func NewPlotDBClientWithOptions(host, token, org, bucket string, logger *logrus.Logger) *PlotDBClient {
	client := influxdb2.NewClient(host, token)

	return &PlotDBClient{
		client:   client,
		queryAPI: client.QueryAPI(org),
		bucket:   bucket,
		org:      org,
		logger:   logger,
	}
}

func (c *PlotDBClient) Close() {
	c.client.Close()
}

func (c *PlotDBClient) QueryMeasurements(ctx context.Context, q MeasurementQuery) ([]Measurement, error) {
	c.logger.WithFields(logrus.Fields{
		"measurement": q.Measurement,
		"field":       q.Field,
		"series":      q.Series,
		"aggregate":   q.Aggregate,
	}).Debug("Querying proving time measurements")

	result, err := c.queryAPI.Query(ctx, BuildMeasurementQuery(c.bucket, q))
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer result.Close()

	var measurements []Measurement
	for result.Next() {
		record := result.Record()

		series, _ := record.ValueByKey(q.SeriesTag).(string)
		category, _ := record.ValueByKey(q.CategoryTag).(string)
		if series == "" || category == "" {
			c.logger.WithField("record", record.Values()).Debug("Skipping record without series or category tag")
			continue
		}

		value, ok := toFloat(record.Value())
		if !ok {
			return nil, fmt.Errorf("series %s category %s: non-numeric value %v", series, category, record.Value())
		}

		measurements = append(measurements, Measurement{
			Series:   series,
			Category: category,
			Value:    value,
		})
	}

	if result.Err() != nil {
		return nil, fmt.Errorf("query parsing failed: %w", result.Err())
	}

	c.logger.WithField("measurements", len(measurements)).Debug("Query completed")
	return measurements, nil
}

// BuildMeasurementQuery renders the Flux query that aggregates one value per
// (series tag, category tag) group.
func BuildMeasurementQuery(bucket string, q MeasurementQuery) string {
	var b strings.Builder

	fmt.Fprintf(&b, "from(bucket: %s)\n", strconv.Quote(bucket))
	fmt.Fprintf(&b, "  |> range(start: %s)\n", q.Range)
	fmt.Fprintf(&b, "  |> filter(fn: (r) => r[\"_measurement\"] == %s)\n", strconv.Quote(q.Measurement))
	fmt.Fprintf(&b, "  |> filter(fn: (r) => r[\"_field\"] == %s)\n", strconv.Quote(q.Field))

	if len(q.Series) > 0 {
		var clauses []string
		for _, s := range q.Series {
			clauses = append(clauses, fmt.Sprintf("r[%s] == %s", strconv.Quote(q.SeriesTag), strconv.Quote(s)))
		}
		fmt.Fprintf(&b, "  |> filter(fn: (r) => %s)\n", strings.Join(clauses, " or "))
	}

	keys := make([]string, 0, len(q.Filters))
	for k := range q.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "  |> filter(fn: (r) => r[%s] == %s)\n", strconv.Quote(k), strconv.Quote(q.Filters[k]))
	}

	groupCols := fmt.Sprintf("%s, %s", strconv.Quote(q.SeriesTag), strconv.Quote(q.CategoryTag))
	fmt.Fprintf(&b, "  |> group(columns: [%s])\n", groupCols)
	fmt.Fprintf(&b, "  |> %s()\n", q.Aggregate)
	fmt.Fprintf(&b, "  |> keep(columns: [%s, \"_value\"])\n", groupCols)

	return b.String()
}

// AlignMeasurements orders measurements into one slice per series tag,
// positionally aligned with categories. Every pair must be present.
func AlignMeasurements(measurements []Measurement, series, categories []string) (map[string][]float64, error) {
	index := make(map[string]map[string]float64, len(series))
	for _, m := range measurements {
		if index[m.Series] == nil {
			index[m.Series] = make(map[string]float64)
		}
		index[m.Series][m.Category] = m.Value
	}

	aligned := make(map[string][]float64, len(series))
	for _, s := range series {
		values := make([]float64, len(categories))
		for i, category := range categories {
			v, ok := index[s][category]
			if !ok {
				return nil, fmt.Errorf("no measurement for series %s category %s", s, category)
			}
			values[i] = v
		}
		aligned[s] = values
	}
	return aligned, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
