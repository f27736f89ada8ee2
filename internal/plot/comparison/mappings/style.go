package mappings

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// SeriesColors is the fallback palette for series without an explicit color.
var SeriesColors = []color.RGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}, // blue
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}, // orange
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}, // green
	{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}, // red
	{R: 0x94, G: 0x67, B: 0xbd, A: 0xff}, // purple
	{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff}, // brown
	{R: 0xe3, G: 0x77, B: 0xc2, A: 0xff}, // pink
	{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff}, // gray
	{R: 0xbc, G: 0xbd, B: 0x22, A: 0xff}, // olive
	{R: 0x17, G: 0xbe, B: 0xcf, A: 0xff}, // cyan
}

func GetSeriesColor(seriesIndex int) color.Color {
	if seriesIndex < 0 {
		seriesIndex = 0
	}
	return SeriesColors[seriesIndex%len(SeriesColors)]
}

// ParseColor accepts SVG color names ("orange", "steelblue") and hex
// notation ("#f80", "#ff8800", "#ff8800cc").
func ParseColor(s string) (color.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil, fmt.Errorf("empty color")
	}
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	if !strings.HasPrefix(s, "#") {
		return nil, fmt.Errorf("unknown color %q", s)
	}

	var alpha uint8 = 0xff
	switch len(s) {
	case 4, 7:
	case 9:
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		alpha = uint8(a)
		s = s[:7]
	default:
		return nil, fmt.Errorf("invalid hex color %q", s)
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// WithOpacity scales the color's alpha by opacity, clamped to [0, 1].
func WithOpacity(c color.Color, opacity float64) color.NRGBA {
	opacity = math.Max(0, math.Min(1, opacity))
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(math.Round(float64(n.A) * opacity))
	return n
}
