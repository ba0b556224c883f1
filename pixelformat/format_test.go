package pixelformat

import "testing"

func TestRowSize(t *testing.T) {
	tests := []struct {
		name             string
		width, depth     int
		rowAlign         int
		want             int
	}{
		{name: "8bpp no align", width: 10, depth: 8, rowAlign: 0, want: 10},
		{name: "32bpp no align", width: 4, depth: 32, rowAlign: 0, want: 16},
		{name: "4bpp rounds up to whole byte", width: 3, depth: 4, rowAlign: 0, want: 2},
		{name: "align to 4 bytes", width: 3, depth: 8, rowAlign: 4, want: 4},
		{name: "already aligned", width: 8, depth: 8, rowAlign: 4, want: 8},
		{name: "zero width", width: 0, depth: 8, rowAlign: 0, want: 0},
		{name: "zero depth", width: 8, depth: 0, rowAlign: 0, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := RowSize(tc.width, tc.depth, tc.rowAlign); got != tc.want {
				t.Errorf("RowSize(%d, %d, %d) = %d, want %d", tc.width, tc.depth, tc.rowAlign, got, tc.want)
			}
		})
	}
}

func TestDataSize(t *testing.T) {
	if got := DataSize(16, 4); got != 64 {
		t.Errorf("DataSize(16, 4) = %d, want 64", got)
	}
	if got := DataSize(-1, 4); got != 0 {
		t.Errorf("DataSize(-1, 4) = %d, want 0", got)
	}
}

func TestNeedsConversion(t *testing.T) {
	base := Layout{Format: FormatRGBA8888, Depth: 32, RowAlign: 1, ColorOrder: OrderRGBA, PaletteType: PaletteNone}

	tests := []struct {
		name string
		dst  Layout
		want bool
	}{
		{name: "identical layout", dst: base, want: false},
		{name: "different format", dst: Layout{Format: FormatRGB888, Depth: 32, RowAlign: 1, ColorOrder: OrderRGBA}, want: true},
		{name: "different depth", dst: Layout{Format: FormatRGBA8888, Depth: 24, RowAlign: 1, ColorOrder: OrderRGBA}, want: true},
		{name: "different row align", dst: Layout{Format: FormatRGBA8888, Depth: 32, RowAlign: 4, ColorOrder: OrderRGBA}, want: true},
		{name: "different color order", dst: Layout{Format: FormatRGBA8888, Depth: 32, RowAlign: 1, ColorOrder: OrderBGRA}, want: true},
		{name: "different palette type", dst: Layout{Format: FormatRGBA8888, Depth: 32, RowAlign: 1, ColorOrder: OrderRGBA, PaletteType: Palette8Bit}, want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NeedsConversion(base, tc.dst); got != tc.want {
				t.Errorf("NeedsConversion = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRescale(t *testing.T) {
	tests := []struct {
		name               string
		value              uint32
		srcBits, dstBits   int
		want               uint32
	}{
		{name: "same precision is a no-op", value: 7, srcBits: 4, dstBits: 4, want: 7},
		{name: "4-bit to 8-bit max maps to max", value: 15, srcBits: 4, dstBits: 8, want: 255},
		{name: "4-bit to 8-bit zero maps to zero", value: 0, srcBits: 4, dstBits: 8, want: 0},
		{name: "8-bit to 4-bit max maps to max", value: 255, srcBits: 8, dstBits: 4, want: 15},
		{name: "zero src bits is a no-op", value: 5, srcBits: 0, dstBits: 8, want: 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Rescale(tc.value, tc.srcBits, tc.dstBits); got != tc.want {
				t.Errorf("Rescale(%d, %d, %d) = %d, want %d", tc.value, tc.srcBits, tc.dstBits, got, tc.want)
			}
		})
	}
}

func TestColorModelOf(t *testing.T) {
	tests := []struct {
		format RasterFormat
		want   ColorModel
	}{
		{FormatRGBA8888, ModelRGBA},
		{FormatLum8, ModelLuminance},
		{FormatLumAlpha, ModelLuminance},
		{FormatDefault, ModelUnknown},
	}

	for _, tc := range tests {
		if got := ColorModelOf(tc.format); got != tc.want {
			t.Errorf("ColorModelOf(%v) = %v, want %v", tc.format, got, tc.want)
		}
	}
}

func TestCanHaveAlpha(t *testing.T) {
	if !CanHaveAlpha(FormatRGBA8888) {
		t.Error("RGBA8888 should be able to carry alpha")
	}
	if CanHaveAlpha(FormatRGB888) {
		t.Error("RGB888 should not be able to carry alpha")
	}
	if CanHaveAlpha(FormatLum8) {
		t.Error("LUM8 should not be able to carry alpha")
	}
}

func TestPaletteItemCount(t *testing.T) {
	tests := []struct {
		t    PaletteType
		want int
	}{
		{PaletteNone, 0},
		{Palette4Bit, 16},
		{Palette8Bit, 256},
	}

	for _, tc := range tests {
		if got := PaletteItemCount(tc.t); got != tc.want {
			t.Errorf("PaletteItemCount(%v) = %d, want %d", tc.t, got, tc.want)
		}
	}
}
