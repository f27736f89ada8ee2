package comparison

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func validSpec(output string) ChartSpec {
	return ChartSpec{
		Title:      "Proving Time Comparison",
		XLabel:     "Circuit Size (multiplier_N)",
		YLabel:     "Proving Time (ms, log scale)",
		Categories: []string{"3", "30", "300"},
		Series: []Series{
			{Name: "A", Values: []float64{2.08, 4.76, 30.45}},
			{Name: "B", Values: []float64{91.00, 97.81, 186.71}},
		},
		OutputPath: output,
	}
}

func requireValidationError(t *testing.T, err error) *ValidationError {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	return verr
}

func TestValidate_Valid(t *testing.T) {
	if err := validSpec("out.png").Validate(); err != nil {
		t.Fatalf("expected valid spec, got %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ChartSpec)
		want   string
	}{
		{"no categories", func(s *ChartSpec) { s.Categories = nil }, "at least one category"},
		{"no series", func(s *ChartSpec) { s.Series = nil }, "at least one series"},
		{"no output", func(s *ChartSpec) { s.OutputPath = "" }, "output path"},
		{"empty name", func(s *ChartSpec) { s.Series[1].Name = "" }, "series 1 has no name"},
		{"duplicate name", func(s *ChartSpec) { s.Series[1].Name = "A" }, "duplicate series name"},
		{"length mismatch", func(s *ChartSpec) { s.Series[0].Values = []float64{1, 2} }, "has 2 values, expected 3"},
		{"negative", func(s *ChartSpec) { s.Series[1].Values[2] = -4 }, "greater than 0"},
		{"nan", func(s *ChartSpec) { s.Series[0].Values[0] = math.NaN() }, "not finite"},
		{"inf", func(s *ChartSpec) { s.Series[0].Values[0] = math.Inf(1) }, "not finite"},
		{"bar width overflow", func(s *ChartSpec) { s.BarWidth = 0.6 }, "too wide"},
		{"negative bar width", func(s *ChartSpec) { s.BarWidth = -0.1 }, "must not be negative"},
		{"opacity", func(s *ChartSpec) { s.Opacity = 1.5 }, "opacity"},
		{"figure", func(s *ChartSpec) { s.FigureHeight = -1 }, "figure size"},
		{"dpi", func(s *ChartSpec) { s.DPI = -300 }, "dpi"},
		{"legend", func(s *ChartSpec) { s.Legend = "center" }, "legend position"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := validSpec("out.png")
			tc.mutate(&spec)
			verr := requireValidationError(t, spec.Validate())
			if !strings.Contains(verr.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %q", tc.want, verr.Error())
			}
		})
	}
}

func TestValidate_ZeroValueNamesSeriesAndIndex(t *testing.T) {
	spec := validSpec("out.png")
	spec.Series[0].Values[1] = 0

	verr := requireValidationError(t, spec.Validate())
	if verr.Series != "A" || verr.Index != 1 {
		t.Fatalf("expected series A index 1, got series %q index %d", verr.Series, verr.Index)
	}
	if !strings.Contains(verr.Error(), `series "A" value 1`) {
		t.Fatalf("unexpected message %q", verr.Error())
	}
}

func TestWithDefaults(t *testing.T) {
	spec := validSpec("out.png")
	d := spec.withDefaults()

	if d.FigureWidth != DefaultFigureWidth || d.FigureHeight != DefaultFigureHeight || d.DPI != DefaultDPI {
		t.Fatalf("unexpected figure defaults: %vx%v@%d", d.FigureWidth, d.FigureHeight, d.DPI)
	}
	if d.Opacity != DefaultOpacity || d.Legend != LegendTopLeft {
		t.Fatalf("unexpected style defaults: opacity=%v legend=%q", d.Opacity, d.Legend)
	}
	if math.Abs(d.BarWidth-0.4) > 1e-12 {
		t.Fatalf("expected derived bar width 0.4, got %v", d.BarWidth)
	}
	for _, s := range d.Series {
		if s.Color == nil {
			t.Fatalf("series %q has no color after defaults", s.Name)
		}
	}
	if spec.Series[0].Color != nil {
		t.Fatalf("defaults must not modify the caller's series")
	}
}

func TestValidationError_Messages(t *testing.T) {
	cases := []struct {
		err  *ValidationError
		want string
	}{
		{&ValidationError{Index: -1, Reason: "boom"}, "invalid chart spec: boom"},
		{&ValidationError{Series: "A", Index: -1, Reason: "boom"}, `invalid chart spec: series "A": boom`},
		{&ValidationError{Series: "A", Index: 3, Reason: "boom"}, `invalid chart spec: series "A" value 3: boom`},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}
