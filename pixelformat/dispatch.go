package pixelformat

// GetRGBA reads the pixel at (x) in the given row of an uncompressed
// layout, returning false (and zeroing the outputs) when the layout or
// index is not one this dispatcher can read -- a compressed format, or a
// palette index past the palette's size.
func GetRGBA(l Layout, row []byte, x int) (r, g, b, a uint8, ok bool) {
	switch l.PaletteType {
	case Palette4Bit, Palette8Bit:
		return getPaletteRGBA(l, row, x)
	}

	switch l.Format {
	case FormatRGBA8888:
		return getChannelRGBA(row, x, 4, l.ColorOrder, true)
	case FormatRGB888:
		return getChannelRGBA(row, x, 3, l.ColorOrder, false)
	case FormatLum8:
		v := sampleLum(row, x, 1)
		return v, v, v, 0xFF, true
	case FormatLumAlpha:
		off := x * 2
		if off+1 >= len(row) {
			return 0, 0, 0, 0, false
		}
		v := row[off]
		return v, v, v, row[off+1], true
	default:
		return 0, 0, 0, 0, false
	}
}

// SetRGBA writes an RGBA value into the pixel at (x) in row, for the
// uncompressed, non-palettised formats GetRGBA reads. It dispatches on
// l.Format only and never writes palette indices.
func SetRGBA(l Layout, row []byte, x int, r, g, b, a uint8) bool {
	switch l.Format {
	case FormatRGBA8888:
		return setChannelRGBA(row, x, 4, l.ColorOrder, true, r, g, b, a)
	case FormatRGB888:
		return setChannelRGBA(row, x, 3, l.ColorOrder, false, r, g, b, a)
	case FormatLum8:
		off := x
		if off >= len(row) {
			return false
		}
		row[off] = luminanceOf(r, g, b)
		return true
	case FormatLumAlpha:
		off := x * 2
		if off+1 >= len(row) {
			return false
		}
		row[off] = luminanceOf(r, g, b)
		row[off+1] = a
		return true
	default:
		return false
	}
}

func luminanceOf(r, g, b uint8) uint8 {
	// Plain integer average of the three channels, matching the unweighted average the reference
	// TIFF codec uses for its grayscale destinations.
	return uint8((uint32(r) + uint32(g) + uint32(b)) / 3)
}

func sampleLum(row []byte, x, stride int) uint8 {
	off := x * stride
	if off >= len(row) {
		return 0
	}
	return row[off]
}

func getChannelRGBA(row []byte, x, channels int, order ColorOrder, hasAlpha bool) (r, g, b, a uint8, ok bool) {
	off := x * channels
	if off+channels > len(row) {
		return 0, 0, 0, 0, false
	}

	a = 0xFF
	switch order {
	case OrderRGBA:
		r, g, b = row[off], row[off+1], row[off+2]
		if hasAlpha {
			a = row[off+3]
		}
	case OrderBGRA:
		b, g, r = row[off], row[off+1], row[off+2]
		if hasAlpha {
			a = row[off+3]
		}
	case OrderABGR:
		if hasAlpha {
			a = row[off]
			b, g, r = row[off+1], row[off+2], row[off+3]
		} else {
			b, g, r = row[off], row[off+1], row[off+2]
		}
	case OrderARGB:
		if hasAlpha {
			a = row[off]
			r, g, b = row[off+1], row[off+2], row[off+3]
		} else {
			r, g, b = row[off], row[off+1], row[off+2]
		}
	default:
		return 0, 0, 0, 0, false
	}

	return r, g, b, a, true
}

func setChannelRGBA(row []byte, x, channels int, order ColorOrder, hasAlpha bool, r, g, b, a uint8) bool {
	off := x * channels
	if off+channels > len(row) {
		return false
	}

	switch order {
	case OrderRGBA:
		row[off], row[off+1], row[off+2] = r, g, b
		if hasAlpha {
			row[off+3] = a
		}
	case OrderBGRA:
		row[off], row[off+1], row[off+2] = b, g, r
		if hasAlpha {
			row[off+3] = a
		}
	case OrderABGR:
		if hasAlpha {
			row[off] = a
			row[off+1], row[off+2], row[off+3] = b, g, r
		} else {
			row[off], row[off+1], row[off+2] = b, g, r
		}
	case OrderARGB:
		if hasAlpha {
			row[off] = a
			row[off+1], row[off+2], row[off+3] = r, g, b
		} else {
			row[off], row[off+1], row[off+2] = r, g, b
		}
	default:
		return false
	}

	return true
}

func getPaletteRGBA(l Layout, row []byte, x int) (r, g, b, a uint8, ok bool) {
	idx, ok := paletteIndexAt(l, row, x)
	if !ok {
		return 0, 0, 0, 0, false
	}

	entrySize := 4
	off := idx * entrySize
	if off+entrySize > len(l.PaletteData) {
		return 0, 0, 0, 0, false
	}

	p := l.PaletteData[off : off+entrySize]
	return p[0], p[1], p[2], p[3], true
}

func paletteIndexAt(l Layout, row []byte, x int) (int, bool) {
	switch l.PaletteType {
	case Palette4Bit:
		byteOff := x / 2
		if byteOff >= len(row) {
			return 0, false
		}
		b := row[byteOff]
		if x%2 == 0 {
			return int(b & 0x0F), true
		}
		return int(b >> 4), true
	case Palette8Bit:
		if x >= len(row) {
			return 0, false
		}
		return int(row[x]), true
	default:
		return 0, false
	}
}
