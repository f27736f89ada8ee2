package comparison

import (
	"math"
	"strconv"
)

// groupFill is the share of a category slot covered by its bar group when the
// bar width is derived from the series count.
const groupFill = 0.8

// yHeadroom is the fraction of the plotted decades added above the tallest
// bar so its value label stays inside the axes.
const yHeadroom = 0.15

// BarWidth returns the requested width, or groupFill/k when none is set.
func BarWidth(k int, requested float64) float64 {
	if requested > 0 {
		return requested
	}
	if k <= 0 {
		return 0
	}
	return groupFill / float64(k)
}

// Offsets returns the x offset of each series inside a category group. The
// offsets are symmetric around zero so the group is centred on its tick.
func Offsets(k int, w float64) []float64 {
	if k <= 0 {
		return nil
	}
	offsets := make([]float64, k)
	center := float64(k-1) / 2
	for j := range offsets {
		offsets[j] = (float64(j) - center) * w
	}
	return offsets
}

// BarSpan returns the left and right data coordinates of the bar for
// category i placed at the given offset.
func BarSpan(i int, offset, w float64) (left, right float64) {
	x := float64(i) + offset
	return x - w/2, x + w/2
}

// LogRange returns y axis bounds for strictly positive values: the decade at
// or below the smallest value, and the largest value plus headroom.
func LogRange(values []float64) (min, max float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if len(values) == 0 || lo <= 0 {
		return 1, 10
	}

	min = math.Pow(10, math.Floor(math.Log10(lo)))
	if min > lo || min <= 0 {
		min = math.Max(min/10, lo)
	}

	// Padding is applied to the exponent so it cannot overflow for values
	// near the top of the float64 range.
	logMin, logHi := math.Log10(min), math.Log10(hi)
	span := math.Max(logHi-logMin, 1)
	logMax := logHi + span*yHeadroom
	if logMax >= math.Log10(math.MaxFloat64) {
		return min, math.MaxFloat64
	}
	max = math.Pow(10, logMax)
	return min, max
}

// FormatValue renders a measurement the way it is annotated on the chart.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
