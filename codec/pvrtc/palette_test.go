package pvrtc

import (
	"image/color"
	"testing"

	"texengine/palette"
	"texengine/pixelformat"
	"texengine/streamio"
)

func makeRamp(n int) []byte {
	data := make([]byte, n*4)
	for i := 0; i < n; i++ {
		v := byte((i * 255) / (n - 1))
		data[i*4+0] = v
		data[i*4+1] = byte(255 - v)
		data[i*4+2] = v / 2
		data[i*4+3] = 255
	}
	return data
}

func TestExportImportPaletteRoundTrip(t *testing.T) {
	want := makeRamp(16)

	s := streamio.NewMemoryStream(nil)
	if err := ExportPalette(s, pixelformat.Palette4Bit, want); err != nil {
		t.Fatalf("ExportPalette: %v", err)
	}

	s.Seek(0, streamio.SeekBeg)
	paletteType, got, err := ImportPalette(s)
	if err != nil {
		t.Fatalf("ImportPalette: %v", err)
	}
	if paletteType != pixelformat.Palette4Bit {
		t.Fatalf("paletteType = %v, want Palette4Bit", paletteType)
	}
	if len(got) != len(want) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestImportPaletteQuantizesOversizedPalette(t *testing.T) {
	// A RIFF document wider than the largest PVRTC palette slot count (256,
	// for Palette8Bit) forces ImportPalette's quantizeToCapacity path.
	const n = 300
	pal := make(color.Palette, n)
	for i := range pal {
		v := byte((i * 255) / (n - 1))
		pal[i] = color.RGBA{R: v, G: 255 - v, B: v / 2, A: 255}
	}

	s := streamio.NewMemoryStream(nil)
	if _, err := palette.WriteTo(s, []color.Palette{pal}); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	s.Seek(0, streamio.SeekBeg)
	paletteType, data, err := ImportPalette(s)
	if err != nil {
		t.Fatalf("ImportPalette: %v", err)
	}
	if paletteType != pixelformat.Palette8Bit {
		t.Fatalf("paletteType = %v, want Palette8Bit", paletteType)
	}
	if want := pixelformat.PaletteItemCount(pixelformat.Palette8Bit) * 4; len(data) != want {
		t.Fatalf("len(data) = %d, want %d", len(data), want)
	}
}

func TestImportPaletteAllZeroPalette(t *testing.T) {
	s := streamio.NewMemoryStream(nil)
	if err := ExportPalette(s, pixelformat.Palette4Bit, nil); err != nil {
		t.Fatalf("ExportPalette: %v", err)
	}

	s.Seek(0, streamio.SeekBeg)
	if _, _, err := ImportPalette(s); err != nil {
		t.Fatalf("ImportPalette of an all-empty palette should still succeed, got %v", err)
	}
}
