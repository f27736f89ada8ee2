package comparison

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// seriesBars draws one series as a bar per category, shifted by the series'
// offset within the group. Bars rise from the bottom of the data area since
// a log axis has no zero baseline.
type seriesBars struct {
	values []float64
	offset float64
	width  float64
	color  color.Color
	line   draw.LineStyle
}

var (
	_ plot.Plotter     = (*seriesBars)(nil)
	_ plot.DataRanger  = (*seriesBars)(nil)
	_ plot.Thumbnailer = (*seriesBars)(nil)
)

func newSeriesBars(values []float64, offset, width float64, c color.Color) *seriesBars {
	return &seriesBars{
		values: values,
		offset: offset,
		width:  width,
		color:  c,
		line: draw.LineStyle{
			Color: color.Black,
			Width: vg.Points(0.5),
		},
	}
}

func (b *seriesBars) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	for i, v := range b.values {
		left, right := BarSpan(i, b.offset, b.width)
		x0, x1 := trX(left), trX(right)
		top := trY(v)

		pts := []vg.Point{
			{X: x0, Y: c.Min.Y},
			{X: x0, Y: top},
			{X: x1, Y: top},
			{X: x1, Y: c.Min.Y},
		}
		c.FillPolygon(b.color, c.ClipPolygonY(pts))
		if b.line.Width > 0 {
			c.StrokeLines(b.line, c.ClipLinesY(append(pts, pts[0]))...)
		}
	}
}

func (b *seriesBars) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin = -0.5
	xmax = float64(len(b.values)) - 0.5
	ymin, ymax = LogRange(b.values)
	return xmin, xmax, ymin, ymax
}

func (b *seriesBars) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(b.color, c.ClipPolygonY(pts))
	if b.line.Width > 0 {
		c.StrokeLines(b.line, c.ClipLinesY(append(pts, pts[0]))...)
	}
}

// tops returns the centre of each bar top, where its value label anchors.
func (b *seriesBars) tops() plotter.XYs {
	xys := make(plotter.XYs, len(b.values))
	for i, v := range b.values {
		xys[i].X = float64(i) + b.offset
		xys[i].Y = v
	}
	return xys
}
