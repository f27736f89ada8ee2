package comparison

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"bench-chart/internal/logging"
	"bench-chart/internal/plot/comparison/mappings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	titleFontSize      = 16
	axisLabelFontSize  = 14
	tickLabelFontSize  = 12
	legendFontSize     = 12
	annotationFontSize = 10

	// annotationOffset lifts value labels above the bar top in display
	// units, so the gap is the same at every height of the log axis.
	annotationOffset = 3  // points
	legendInset      = 10 // points
)

var gridColor = color.NRGBA{R: 128, G: 128, B: 128, A: 153}

// Renderer turns a ChartSpec into a grouped, log-scaled bar chart. It holds
// no per-chart state and can be reused for any number of specs.
type Renderer struct {
	logger *logrus.Logger
}

func NewRenderer(logger *logrus.Logger) *Renderer {
	return &Renderer{logger: logger}
}

// Render validates spec, draws it and writes the PNG to spec.OutputPath.
func Render(spec ChartSpec) error {
	return NewRenderer(logging.GetLogger()).Render(spec)
}

func (r *Renderer) Render(spec ChartSpec) error {
	p, err := r.Draw(spec)
	if err != nil {
		return err
	}
	spec = spec.withDefaults()

	if err := writeFileAtomic(spec.OutputPath, func(w io.Writer) error {
		return WritePNG(w, p, spec)
	}); err != nil {
		r.logger.WithField("output", spec.OutputPath).WithError(err).Error("Failed to write comparison chart")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"output":     spec.OutputPath,
		"categories": len(spec.Categories),
		"series":     len(spec.Series),
		"dpi":        spec.DPI,
	}).Info("Comparison chart written")
	return nil
}

// Draw validates spec and builds the chart without writing it anywhere.
func (r *Renderer) Draw(spec ChartSpec) (*plot.Plot, error) {
	if err := spec.Validate(); err != nil {
		r.logger.WithError(err).Warn("Rejected comparison chart spec")
		return nil, err
	}
	spec = spec.withDefaults()

	r.logger.WithFields(logrus.Fields{
		"title":      spec.Title,
		"categories": spec.Categories,
		"series":     len(spec.Series),
		"bar_width":  spec.BarWidth,
	}).Debug("Drawing comparison chart")

	p := plot.New()
	configureAxes(p, spec)

	grid := plotter.NewGrid()
	for _, l := range []*draw.LineStyle{&grid.Vertical, &grid.Horizontal} {
		l.Color = gridColor
		l.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	}
	p.Add(grid)

	offsets := Offsets(len(spec.Series), spec.BarWidth)
	var annotations []plot.Plotter
	for j, series := range spec.Series {
		bars := newSeriesBars(series.Values, offsets[j], spec.BarWidth, mappings.WithOpacity(series.Color, spec.Opacity))
		p.Add(bars)
		p.Legend.Add(series.Name, bars)

		labels, err := valueLabels(bars, spec.AnnotationRotation)
		if err != nil {
			return nil, fmt.Errorf("failed to annotate series %q: %w", series.Name, err)
		}
		annotations = append(annotations, labels)
	}
	// Labels go on last so no bar of a later series covers them.
	p.Add(annotations...)

	p.X.Min = -0.5
	p.X.Max = float64(len(spec.Categories)) - 0.5
	p.Y.Min, p.Y.Max = LogRange(spec.values())

	placeLegend(&p.Legend, spec.Legend)
	return p, nil
}

// WritePNG encodes p at the spec's figure size and DPI.
func WritePNG(w io.Writer, p *plot.Plot, spec ChartSpec) error {
	spec = spec.withDefaults()

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(spec.FigureWidth)*vg.Inch, vg.Length(spec.FigureHeight)*vg.Inch),
		vgimg.UseDPI(spec.DPI),
	)
	p.Draw(draw.New(c))

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

func configureAxes(p *plot.Plot, spec ChartSpec) {
	p.Title.Text = spec.Title
	p.Title.TextStyle.Font.Size = vg.Points(titleFontSize)
	p.Title.Padding = vg.Points(20)

	p.X.Label.Text = spec.XLabel
	p.X.Label.TextStyle.Font.Size = vg.Points(axisLabelFontSize)
	p.Y.Label.Text = spec.YLabel
	p.Y.Label.TextStyle.Font.Size = vg.Points(axisLabelFontSize)

	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.TickerFunc(logTicks)
	p.Y.Tick.Label.Font.Size = vg.Points(tickLabelFontSize)

	p.X.Tick.Marker = plot.ConstantTicks(categoryTicks(spec.Categories))
	p.X.Tick.Label.Font.Size = vg.Points(tickLabelFontSize)
	if spec.TickRotation != 0 {
		p.X.Tick.Label.Rotation = radians(spec.TickRotation)
		p.X.Tick.Label.XAlign = text.XRight
		p.X.Tick.Label.YAlign = text.YCenter
	}
}

// logTicks drops the ticks plot.LogTicks rounds past the axis, which
// overflow to +Inf when the range ends near math.MaxFloat64.
func logTicks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for _, t := range (plot.LogTicks{Prec: -1}).Ticks(min, max) {
		if math.IsInf(t.Value, 0) || t.Value < min || t.Value > max {
			continue
		}
		ticks = append(ticks, t)
	}
	return ticks
}

func categoryTicks(categories []string) []plot.Tick {
	ticks := make([]plot.Tick, len(categories))
	for i, category := range categories {
		ticks[i] = plot.Tick{Value: float64(i), Label: category}
	}
	return ticks
}

func valueLabels(bars *seriesBars, rotation float64) (*plotter.Labels, error) {
	xys := bars.tops()
	texts := make([]string, len(bars.values))
	for i, v := range bars.values {
		texts[i] = FormatValue(v)
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, err
	}
	labels.Offset = vg.Point{Y: vg.Points(annotationOffset)}

	for i := range labels.TextStyle {
		style := &labels.TextStyle[i]
		style.Font.Size = vg.Points(annotationFontSize)
		if rotation == 0 {
			style.XAlign = text.XCenter
			style.YAlign = text.YBottom
			continue
		}
		// Rotated labels start at the bar top and run along the rotation.
		style.Rotation = radians(rotation)
		style.XAlign = text.XLeft
		style.YAlign = text.YCenter
	}
	return labels, nil
}

func placeLegend(l *plot.Legend, pos LegendPosition) {
	l.TextStyle.Font.Size = vg.Points(legendFontSize)
	l.Top = pos == LegendTopLeft || pos == LegendTopRight
	l.Left = pos == LegendTopLeft || pos == LegendBottomLeft

	l.XOffs = vg.Points(legendInset)
	if !l.Left {
		l.XOffs = -l.XOffs
	}
	l.YOffs = vg.Points(legendInset)
	if l.Top {
		l.YOffs = -l.YOffs
	}
}
