package pvrtc

import (
	"fmt"
	"image/color"

	"texengine/engine"
	"texengine/okcolor"
	"texengine/palette"
	"texengine/pixelformat"
	"texengine/streamio"
)

// ExportPalette writes paletteData as a sibling RIFF .pal file, for
// palettised debug/interchange. PVRTC itself has no palettised variant on
// real hardware -- this is strictly additive and never touches a texture's
// own bit-exact wire format.
func ExportPalette(s streamio.Stream, paletteType pixelformat.PaletteType, paletteData []byte) error {
	if paletteType == pixelformat.PaletteNone {
		return fmt.Errorf("pvrtc: export palette: %w", engine.ErrInvalidArgument)
	}

	count := pixelformat.PaletteItemCount(paletteType)
	pal := make(color.Palette, count)
	for i := range pal {
		off := i * 4
		if off+3 < len(paletteData) {
			pal[i] = color.RGBA{R: paletteData[off], G: paletteData[off+1], B: paletteData[off+2], A: paletteData[off+3]}
		} else {
			pal[i] = color.RGBA{}
		}
	}

	_, err := palette.WriteTo(s, []color.Palette{pal})
	return err
}

// ImportPalette is ExportPalette's inverse: it reads the first palette
// chunk from a RIFF .pal stream and packs it back into 4-byte RGBA entries,
// selecting Palette4Bit or Palette8Bit by entry count. A RIFF palette entry
// carries no alpha, so every imported entry comes back opaque.
func ImportPalette(s streamio.Stream) (pixelformat.PaletteType, []byte, error) {
	pals, err := palette.ReadFrom(s)
	if err != nil {
		return pixelformat.PaletteNone, nil, fmt.Errorf("pvrtc: import palette: %w", err)
	}
	if len(pals) == 0 {
		return pixelformat.PaletteNone, nil, fmt.Errorf("pvrtc: import palette: empty RIFF document: %w", engine.ErrStreamMalformed)
	}

	pal := pals[0]

	var paletteType pixelformat.PaletteType
	switch {
	case len(pal) <= 16:
		paletteType = pixelformat.Palette4Bit
	default:
		paletteType = pixelformat.Palette8Bit
	}

	if capacity := pixelformat.PaletteItemCount(paletteType); len(pal) > capacity {
		pal = quantizeToCapacity(pal, capacity)
	}

	data := make([]byte, pixelformat.PaletteItemCount(paletteType)*4)
	for i, c := range pal {
		if i*4+3 >= len(data) {
			break
		}
		r, g, b, a := c.RGBA()
		data[i*4+0] = byte(r >> 8)
		data[i*4+1] = byte(g >> 8)
		data[i*4+2] = byte(b >> 8)
		data[i*4+3] = byte(a >> 8)
	}

	return paletteType, data, nil
}

// quantizeToCapacity reduces pal to capacity entries when an imported RIFF
// palette is wider than the target PVRTC palette slot count allows. Seed
// colors are sampled evenly across pal, every source entry is assigned to
// its perceptually nearest seed in CIELAB space via palette.Lab, and each
// seed is replaced by the mean of the entries assigned to it -- a single
// k-means pass rather than a naive truncation to the first capacity colors.
func quantizeToCapacity(pal color.Palette, capacity int) color.Palette {
	seeds := make(color.Palette, capacity)
	step := float64(len(pal)) / float64(capacity)
	for i := range seeds {
		idx := int(float64(i) * step)
		if idx >= len(pal) {
			idx = len(pal) - 1
		}
		seeds[i] = pal[idx]
	}

	lab := palette.NewLabPalette(seeds)

	type labSum struct{ l, a, b, alpha float64 }
	sums := make([]labSum, capacity)
	counts := make([]int, capacity)
	for _, c := range pal {
		lc := okcolor.LabModel.Convert(c).(okcolor.Lab)
		idx := lab.Index(lc)
		sums[idx].l += lc.L
		sums[idx].a += lc.A
		sums[idx].b += lc.B
		sums[idx].alpha += float64(lc.Alpha)
		counts[idx]++
	}

	out := make(color.Palette, capacity)
	for i := range out {
		if counts[i] == 0 {
			out[i] = seeds[i]
			continue
		}
		n := float64(counts[i])
		mean := okcolor.Lab{L: sums[i].l / n, A: sums[i].a / n, B: sums[i].b / n, Alpha: uint16(sums[i].alpha / n)}
		out[i] = color.RGBAModel.Convert(mean)
	}

	return out
}
