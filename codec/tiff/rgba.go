package tiff

import (
	"image"
	"image/color"
)

// rgbaView adapts a packed RGBA8888 buffer to image.Image for the fallback
// encoder, without the copy a full image.NRGBA conversion would cost.
type rgbaView struct {
	pix           []byte
	width, height int
}

func (v *rgbaView) ColorModel() color.Model { return color.NRGBAModel }

func (v *rgbaView) Bounds() image.Rectangle {
	return image.Rect(0, 0, v.width, v.height)
}

func (v *rgbaView) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= v.width || y >= v.height {
		return color.NRGBA{}
	}
	off := (y*v.width + x) * 4
	return color.NRGBA{R: v.pix[off], G: v.pix[off+1], B: v.pix[off+2], A: v.pix[off+3]}
}
