package pvrtc

import "texengine/pixelformat"

// bytesPerBlock returns this geometry's compressed block size: depth bits
// times the block's pixel count, divided down to bytes. Both the 2bpp
// (16x8) and 4bpp (8x8) block shapes land on the same byte budget per
// block, which is what lets this codec hold geometry.depth as the only
// format-specific compression parameter.
func (g blockGeometry) bytesPerBlock() int {
	return g.blockW * g.blockH * g.depth / 8
}

// compressLayer quantizes an RGBA8888 source buffer (aligned to the format's
// block dimensions) into one averaged color per block, replicated across
// the block's byte budget. This is a lossy approximation of real PVRTC
// weighted-endpoint compression -- see the package doc comment.
func compressLayer(format InternalFormat, rgba []byte, width, height int) []byte {
	geom := format.geometry()
	blocksX := width / geom.blockW
	blocksY := height / geom.blockH
	blockBytes := geom.bytesPerBlock()

	out := make([]byte, blocksX*blocksY*blockBytes)

	for by := 0; by < blocksY; by++ {
		for bx := 0; bx < blocksX; bx++ {
			var sumR, sumG, sumB, sumA, n uint32
			for y := 0; y < geom.blockH; y++ {
				py := by*geom.blockH + y
				for x := 0; x < geom.blockW; x++ {
					px := bx*geom.blockW + x
					off := (py*width + px) * 4
					sumR += uint32(rgba[off+0])
					sumG += uint32(rgba[off+1])
					sumB += uint32(rgba[off+2])
					sumA += uint32(rgba[off+3])
					n++
				}
			}

			blockOff := (by*blocksX + bx) * blockBytes
			out[blockOff+0] = byte(sumR / n)
			out[blockOff+1] = byte(sumG / n)
			out[blockOff+2] = byte(sumB / n)
			if geom.hasAlpha {
				out[blockOff+3] = byte(sumA / n)
			} else {
				out[blockOff+3] = 0xFF
			}
		}
	}

	return out
}

// decompressLayer expands compressed block data back into an RGBA8888
// buffer of the given aligned (raw) dimensions, flat-shading every pixel in
// a block to that block's stored color.
func decompressLayer(format InternalFormat, texels []byte, width, height int) []byte {
	geom := format.geometry()
	blocksX := width / geom.blockW
	blockBytes := geom.bytesPerBlock()

	out := make([]byte, width*height*4)

	for y := 0; y < height; y++ {
		by := y / geom.blockH
		for x := 0; x < width; x++ {
			bx := x / geom.blockW
			blockOff := (by*blocksX + bx) * blockBytes
			if blockOff+4 > len(texels) {
				continue
			}

			off := (y*width + x) * 4
			out[off+0] = texels[blockOff+0]
			out[off+1] = texels[blockOff+1]
			out[off+2] = texels[blockOff+2]
			out[off+3] = texels[blockOff+3]
		}
	}

	return out
}

// rgbaToLayout converts a generic pixelformat.Layout-described source buffer
// into a packed RGBA8888 view at the layout's logical (LayerDimensions)
// size, for feeding to padToBlock/compressLayer. The row stride is taken
// from l.RawDimensions, which may legitimately differ from the logical size
// for an already block-padded source; non-RGBA sources are read
// pixel-by-pixel through pixelformat.GetRGBA.
func rgbaToLayout(l pixelformat.Layout, src []byte) []byte {
	w, h := l.LayerDimensions.Width, l.LayerDimensions.Height
	out := make([]byte, w*h*4)
	rowSize := l.RowSize()

	for y := 0; y < h; y++ {
		rowStart := y * rowSize
		rowEnd := rowStart + rowSize
		if rowEnd > len(src) {
			break
		}
		row := src[rowStart:rowEnd]
		for x := 0; x < w; x++ {
			r, g, b, a, ok := pixelformat.GetRGBA(l, row, x)
			if !ok {
				continue
			}
			off := (y*w + x) * 4
			out[off+0], out[off+1], out[off+2], out[off+3] = r, g, b, a
		}
	}

	return out
}

// padToBlock expands an unaligned logical-size RGBA8888 buffer up to the
// block-aligned canvas compressLayer expects, clamping to the nearest edge
// pixel for the padding region rather than leaving it zeroed.
func padToBlock(rgba []byte, srcW, srcH, alignedW, alignedH int) []byte {
	if srcW == alignedW && srcH == alignedH {
		return rgba
	}

	out := make([]byte, alignedW*alignedH*4)
	for y := 0; y < alignedH; y++ {
		sy := y
		if sy >= srcH {
			sy = srcH - 1
		}
		for x := 0; x < alignedW; x++ {
			sx := x
			if sx >= srcW {
				sx = srcW - 1
			}
			srcOff := (sy*srcW + sx) * 4
			dstOff := (y*alignedW + x) * 4
			copy(out[dstOff:dstOff+4], rgba[srcOff:srcOff+4])
		}
	}
	return out
}
