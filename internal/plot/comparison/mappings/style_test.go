package mappings

import (
	"image/color"
	"testing"
)

func TestParseColor_Names(t *testing.T) {
	c, err := ParseColor("Orange")
	if err != nil {
		t.Fatalf("ParseColor: %v", err)
	}
	want := color.RGBA{R: 255, G: 165, B: 0, A: 255}
	if c != want {
		t.Fatalf("expected %v, got %v", want, c)
	}
}

func TestParseColor_Hex(t *testing.T) {
	cases := map[string]color.NRGBA{
		"#f80":      {R: 0xff, G: 0x88, B: 0x00, A: 0xff},
		"#1f77b4":   {R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
		"#1f77b480": {R: 0x1f, G: 0x77, B: 0xb4, A: 0x80},
		"#FF8800":   {R: 0xff, G: 0x88, B: 0x00, A: 0xff},
	}
	for in, want := range cases {
		got, err := ParseColor(in)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseColor(%q): expected %v, got %v", in, want, got)
		}
	}
}

func TestParseColor_Invalid(t *testing.T) {
	for _, in := range []string{"", "notacolor", "#12", "#zzzzzz", "#1f77b4zz", "#1f77b4808"} {
		if _, err := ParseColor(in); err == nil {
			t.Fatalf("ParseColor(%q): expected error", in)
		}
	}
}

func TestGetSeriesColor_Cycles(t *testing.T) {
	if GetSeriesColor(0) != GetSeriesColor(len(SeriesColors)) {
		t.Fatalf("expected palette to wrap around")
	}
	if GetSeriesColor(-3) != GetSeriesColor(0) {
		t.Fatalf("expected negative index to fall back to first color")
	}
}

func TestWithOpacity(t *testing.T) {
	got := WithOpacity(color.RGBA{R: 0, G: 0, B: 255, A: 255}, 0.5)
	want := color.NRGBA{R: 0, G: 0, B: 255, A: 128}
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if WithOpacity(color.White, 2).A != 255 {
		t.Fatalf("expected opacity to clamp at 1")
	}
}
