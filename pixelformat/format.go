// Package pixelformat implements the pure functions and value types of the
// pixel layout model: raster format, depth, row alignment, color order,
// palette type, and the byte-layout math that binds them together.
package pixelformat

// RasterFormat enumerates the destination pixel formats the engine moves
// data between. DEFAULT means "whatever the platform's native format is",
// used by providers that don't need a generic raster format.
type RasterFormat int

const (
	FormatDefault RasterFormat = iota
	FormatRGBA8888
	FormatRGB888
	FormatLum8
	FormatLumAlpha
	FormatPalette4
	FormatPalette8
	FormatDXT1
	FormatDXT2
	FormatDXT3
	FormatDXT4
	FormatDXT5
	FormatPVRTCRGB2BPP
	FormatPVRTCRGB4BPP
	FormatPVRTCRGBA2BPP
	FormatPVRTCRGBA4BPP
)

func (f RasterFormat) String() string {
	switch f {
	case FormatDefault:
		return "DEFAULT"
	case FormatRGBA8888:
		return "RGBA8888"
	case FormatRGB888:
		return "RGB888"
	case FormatLum8:
		return "LUM8"
	case FormatLumAlpha:
		return "LUM_ALPHA"
	case FormatPalette4:
		return "PALETTE4"
	case FormatPalette8:
		return "PALETTE8"
	case FormatDXT1:
		return "DXT1"
	case FormatDXT2:
		return "DXT2"
	case FormatDXT3:
		return "DXT3"
	case FormatDXT4:
		return "DXT4"
	case FormatDXT5:
		return "DXT5"
	case FormatPVRTCRGB2BPP:
		return "PVRTC_RGB_2BPP"
	case FormatPVRTCRGB4BPP:
		return "PVRTC_RGB_4BPP"
	case FormatPVRTCRGBA2BPP:
		return "PVRTC_RGBA_2BPP"
	case FormatPVRTCRGBA4BPP:
		return "PVRTC_RGBA_4BPP"
	default:
		return "UNKNOWN"
	}
}

// ColorOrder is the in-memory channel ordering of an uncompressed raster.
type ColorOrder int

const (
	OrderRGBA ColorOrder = iota
	OrderBGRA
	OrderABGR
	OrderARGB
)

// PaletteType selects the index width of a palettised layer, or NONE for
// raw (non-indexed) layers.
type PaletteType int

const (
	PaletteNone PaletteType = iota
	Palette4Bit
	Palette8Bit
)

// PaletteItemCount returns the number of palette slots a palette type
// provides: 16 for 4-bit, 256 for 8-bit, 0 for NONE.
func PaletteItemCount(t PaletteType) int {
	switch t {
	case Palette4Bit:
		return 16
	case Palette8Bit:
		return 256
	default:
		return 0
	}
}

// CompressionType distinguishes raw raster data from block-compressed
// formats; most of the layout math in this package only applies to RAW.
type CompressionType int

const (
	CompressionNone CompressionType = iota
	CompressionDXT
	CompressionPVRTC
)

// ColorModel buckets a RasterFormat into the broad class of channel data it
// carries colorModelOf.
type ColorModel int

const (
	ModelUnknown ColorModel = iota
	ModelRGBA
	ModelLuminance
	ModelDepth
)

// ColorModelOf classifies a raster format's channel model.
func ColorModelOf(f RasterFormat) ColorModel {
	switch f {
	case FormatRGBA8888, FormatRGB888, FormatPalette4, FormatPalette8,
		FormatDXT1, FormatDXT2, FormatDXT3, FormatDXT4, FormatDXT5,
		FormatPVRTCRGB2BPP, FormatPVRTCRGB4BPP, FormatPVRTCRGBA2BPP, FormatPVRTCRGBA4BPP:
		return ModelRGBA
	case FormatLum8, FormatLumAlpha:
		return ModelLuminance
	default:
		return ModelUnknown
	}
}

// CanHaveAlpha reports whether a raster format is capable of carrying an
// alpha channel. Palettised formats answer through their palette entries,
// which this function cannot see, so it conservatively reports true for
// them; the actual alpha presence flag on Layout governs those cases.
func CanHaveAlpha(f RasterFormat) bool {
	switch f {
	case FormatRGBA8888, FormatLumAlpha, FormatPalette4, FormatPalette8,
		FormatDXT2, FormatDXT3, FormatDXT4, FormatDXT5,
		FormatPVRTCRGBA2BPP, FormatPVRTCRGBA4BPP:
		return true
	default:
		return false
	}
}

// RowSize computes the number of bytes in one scanline of width pixels at
// the given bit depth, rounded up to rowAlign bytes. rowAlign of 0 or 1
// means no alignment beyond whole bytes.
func RowSize(width, depth, rowAlign int) int {
	if width <= 0 || depth <= 0 {
		return 0
	}

	bits := width * depth
	bytes := (bits + 7) / 8

	if rowAlign > 1 {
		bytes = ((bytes + rowAlign - 1) / rowAlign) * rowAlign
	}

	return bytes
}

// DataSize computes the byte size of height scanlines of the given row
// size.
func DataSize(rowSize, height int) int {
	if rowSize < 0 || height < 0 {
		return 0
	}
	return rowSize * height
}

// NeedsConversion reports whether src and dst describe byte layouts that
// differ in a way that changes how raw bytes must be interpreted: format,
// depth, row alignment, color order, or palette type.
func NeedsConversion(src, dst Layout) bool {
	return src.Format != dst.Format ||
		src.Depth != dst.Depth ||
		src.RowAlign != dst.RowAlign ||
		src.ColorOrder != dst.ColorOrder ||
		src.PaletteType != dst.PaletteType
}

// Rescale linearly maps a value of srcBits precision to dstBits precision,
// rounding toward zero.
func Rescale(value uint32, srcBits, dstBits int) uint32 {
	if srcBits <= 0 || dstBits <= 0 || srcBits == dstBits {
		return value
	}

	srcMax := uint64(1)<<uint(srcBits) - 1
	dstMax := uint64(1)<<uint(dstBits) - 1

	if srcMax == 0 {
		return 0
	}

	return uint32(uint64(value) * dstMax / srcMax)
}
