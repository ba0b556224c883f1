// Package tiff implements the Native-Image codec for Tagged Image File
// Format streams: a Baseline-subset fast path for uncompressed,
// top-left-oriented grayscale/RGB/palette images, and a fallback to
// golang.org/x/image/tiff's general decoder for everything else.
package tiff

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	ximage "golang.org/x/image/tiff"

	"texengine/engine"
	"texengine/nativeimage"
	"texengine/nativetexture"
	"texengine/pixelformat"
	"texengine/streamio"
)

// imageData is the codec's private payload: either the fast-path's own
// layout-described pixel buffer, or a generic RGBA buffer produced by the
// fallback decoder.
type imageData struct {
	width, height int

	format     pixelformat.RasterFormat
	depth      int
	colorOrder pixelformat.ColorOrder

	paletteType pixelformat.PaletteType
	paletteData []byte

	hasAlpha bool
	pixels   []byte // height rows of rowSize bytes each, top-to-bottom, no padding
}

func (d *imageData) layout() pixelformat.Layout {
	dims := pixelformat.Dimensions{Width: d.width, Height: d.height}
	return pixelformat.Layout{
		LayerDimensions: dims,
		RawDimensions:   dims,
		Format:          d.format,
		Depth:           d.depth,
		RowAlign:        1,
		ColorOrder:      d.colorOrder,
		PaletteType:     d.paletteType,
		PaletteData:     d.paletteData,
		Compression:     pixelformat.CompressionNone,
		HasAlpha:        d.hasAlpha,
	}
}

// Codec implements nativeimage.TypeManager for TIFF streams. texProviders
// lets it exchange pixel data with a platform texture (e.g. PVR) without
// importing that package directly, per DESIGN.md's registry-mediated coupling.
type Codec struct {
	texProviders *nativetexture.ProviderRegistry
}

// New creates a TIFF codec bound to a texture-provider registry, used when
// fetching from / putting to a raster whose platform data is some other
// registered provider's payload.
func New(texProviders *nativetexture.ProviderRegistry) *Codec {
	return &Codec{texProviders: texProviders}
}

// Descriptor builds the CodecDescriptor to register with a nativeimage.Registry.
func (c *Codec) Descriptor() *nativeimage.CodecDescriptor {
	return &nativeimage.CodecDescriptor{
		TypeName:     "TIFF",
		FriendlyName: "Tagged Image File Format",
		FileExtensions: []nativeimage.FileExtension{
			{Name: "tif", IsDefault: true},
			{Name: "tiff"},
		},
		SupportedNativeTexture: []nativeimage.SupportedNativeTexture{
			{NativeTexName: "PVR"},
		},
		TypeMan: c,
	}
}

func (c *Codec) ConstructImage() (any, error) {
	return &imageData{}, nil
}

func (c *Codec) CopyConstructImage(src any) (any, error) {
	s, ok := src.(*imageData)
	if !ok {
		return nil, fmt.Errorf("tiff: copy construct: %w", engine.ErrInvalidArgument)
	}

	cp := *s
	cp.pixels = append([]byte(nil), s.pixels...)
	cp.paletteData = append([]byte(nil), s.paletteData...)
	return &cp, nil
}

// DestroyImage has nothing to release: imageData holds no resource beyond
// Go-GC'd slices.
func (c *Codec) DestroyImage(payload any) {}

// --- header probing -----------------------------------------------------

type header struct {
	order  binary.ByteOrder
	ifdOff uint32
}

func readHeader(s streamio.Stream) (header, bool, error) {
	var buf [8]byte
	if _, err := io.ReadFull(s, buf[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return header{}, false, nil
		}
		return header{}, false, err
	}

	var order binary.ByteOrder
	switch {
	case buf[0] == 'I' && buf[1] == 'I':
		order = binary.LittleEndian
	case buf[0] == 'M' && buf[1] == 'M':
		order = binary.BigEndian
	default:
		return header{}, false, nil
	}

	if order.Uint16(buf[2:4]) != 42 {
		return header{}, false, nil
	}

	return header{order: order, ifdOff: order.Uint32(buf[4:8])}, true, nil
}

// walkIFDChain validates that every IFD offset in the chain starting at
// h.ifdOff resolves to a plausible directory: an in-range entry count
// followed by a next-offset that does not revisit an already-seen
// directory. It is a defensive walk of the chain rather than a full parse
// of every entry.
func walkIFDChain(s streamio.Stream, h header) (bool, error) {
	size, err := s.Size()
	if err != nil {
		return false, err
	}

	seen := make(map[uint32]bool)
	offset := h.ifdOff

	for offset != 0 {
		if seen[offset] || int64(offset)+2 > size {
			return false, nil
		}
		seen[offset] = true

		if _, err := s.Seek(int64(offset), streamio.SeekBeg); err != nil {
			return false, err
		}

		var countBuf [2]byte
		if _, err := io.ReadFull(s, countBuf[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return false, nil
			}
			return false, err
		}
		count := h.order.Uint16(countBuf[:])
		if count == 0 || count > 4096 {
			return false, nil
		}

		entriesEnd := int64(offset) + 2 + int64(count)*12
		if entriesEnd+4 > size {
			return false, nil
		}

		if _, err := s.Seek(entriesEnd, streamio.SeekBeg); err != nil {
			return false, err
		}
		var nextBuf [4]byte
		if _, err := io.ReadFull(s, nextBuf[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return false, nil
			}
			return false, err
		}
		offset = h.order.Uint32(nextBuf[:])
	}

	return true, nil
}

func (c *Codec) IsStreamNativeImage(s streamio.Stream) (bool, error) {
	return streamio.Probe(s, func() (bool, error) {
		h, ok, err := readHeader(s)
		if err != nil || !ok {
			return false, err
		}
		return walkIFDChain(s, h)
	})
}

// --- IFD parsing for the fast decode path --------------------------------

type entry struct {
	tag   uint16
	typ   uint16
	count uint32
	raw   [4]byte
}

func (e entry) asUint(order binary.ByteOrder) uint32 {
	switch e.typ {
	case dtShort:
		return uint32(order.Uint16(e.raw[:2]))
	case dtLong:
		return order.Uint32(e.raw[:4])
	case dtByte:
		return uint32(e.raw[0])
	default:
		return 0
	}
}

func readIFD(s streamio.Stream, order binary.ByteOrder, offset uint32) (map[uint16]entry, uint32, error) {
	if _, err := s.Seek(int64(offset), streamio.SeekBeg); err != nil {
		return nil, 0, err
	}

	var countBuf [2]byte
	if _, err := io.ReadFull(s, countBuf[:]); err != nil {
		return nil, 0, err
	}
	count := order.Uint16(countBuf[:])

	entries := make(map[uint16]entry, count)
	var rec [12]byte
	for i := 0; i < int(count); i++ {
		if _, err := io.ReadFull(s, rec[:]); err != nil {
			return nil, 0, err
		}
		var e entry
		e.tag = order.Uint16(rec[0:2])
		e.typ = order.Uint16(rec[2:4])
		e.count = order.Uint32(rec[4:8])
		copy(e.raw[:], rec[8:12])
		entries[e.tag] = e
	}

	var nextBuf [4]byte
	if _, err := io.ReadFull(s, nextBuf[:]); err != nil {
		return nil, 0, err
	}

	return entries, order.Uint32(nextBuf[:]), nil
}

func uintField(entries map[uint16]entry, order binary.ByteOrder, tag uint16, def uint32) uint32 {
	e, ok := entries[tag]
	if !ok {
		return def
	}
	return e.asUint(order)
}

// readStrips concatenates every strip's bytes, in strip order, into one
// contiguous top-to-bottom pixel buffer.
func readStrips(s streamio.Stream, order binary.ByteOrder, entries map[uint16]entry) ([]byte, error) {
	offEntry, ok := entries[tagStripOffsets]
	if !ok {
		return nil, fmt.Errorf("tiff: missing strip offsets: %w", engine.ErrStreamMalformed)
	}
	cntEntry, ok := entries[tagStripByteCounts]
	if !ok {
		return nil, fmt.Errorf("tiff: missing strip byte counts: %w", engine.ErrStreamMalformed)
	}

	offsets, err := entryValues(s, order, offEntry)
	if err != nil {
		return nil, err
	}
	counts, err := entryValues(s, order, cntEntry)
	if err != nil {
		return nil, err
	}
	if len(offsets) != len(counts) {
		return nil, fmt.Errorf("tiff: strip table mismatch: %w", engine.ErrStreamMalformed)
	}

	var out bytes.Buffer
	for i := range offsets {
		if _, err := s.Seek(int64(offsets[i]), streamio.SeekBeg); err != nil {
			return nil, err
		}
		buf := make([]byte, counts[i])
		if _, err := io.ReadFull(s, buf); err != nil {
			return nil, fmt.Errorf("tiff: strip %d: %w", i, engine.ErrStreamTruncated)
		}
		out.Write(buf)
	}

	return out.Bytes(), nil
}

// entryValues resolves an IFD entry to its full list of uint32 values,
// following the offset when count*size exceeds the 4-byte inline slot.
func entryValues(s streamio.Stream, order binary.ByteOrder, e entry) ([]uint32, error) {
	size := fieldTypeSize(e.typ)
	if size == 0 {
		return nil, fmt.Errorf("tiff: unsupported field type %d: %w", e.typ, engine.ErrUnsupported)
	}

	total := size * int(e.count)
	var raw []byte
	if total <= 4 {
		raw = e.raw[:total]
	} else {
		off := order.Uint32(e.raw[:4])
		if _, err := s.Seek(int64(off), streamio.SeekBeg); err != nil {
			return nil, err
		}
		raw = make([]byte, total)
		if _, err := io.ReadFull(s, raw); err != nil {
			return nil, fmt.Errorf("tiff: entry values: %w", engine.ErrStreamTruncated)
		}
	}

	out := make([]uint32, e.count)
	for i := range out {
		chunk := raw[i*size : i*size+size]
		switch e.typ {
		case dtByte:
			out[i] = uint32(chunk[0])
		case dtShort:
			out[i] = uint32(order.Uint16(chunk))
		case dtLong:
			out[i] = order.Uint32(chunk)
		}
	}
	return out, nil
}

// ReadNativeImage decodes s into payload. The fast path handles
// uncompressed, top-left-oriented 8-bit grayscale, grayscale+alpha, RGB,
// RGBA and palette images directly off the strip table; anything else falls
// back to golang.org/x/image/tiff's general decoder, converted into an
// RGBA8888 buffer.
func (c *Codec) ReadNativeImage(payload any, s streamio.Stream) error {
	d, ok := payload.(*imageData)
	if !ok {
		return fmt.Errorf("tiff: read: %w", engine.ErrInvalidArgument)
	}

	startPos, err := s.Tell()
	if err != nil {
		return err
	}

	h, ok, err := readHeader(s)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("tiff: not a TIFF stream: %w", engine.ErrStreamMalformed)
	}

	entries, _, err := readIFD(s, h.order, h.ifdOff)
	if err != nil {
		return fmt.Errorf("tiff: read IFD: %w", engine.ErrStreamMalformed)
	}

	orientation := uintField(entries, h.order, tagOrientation, orientationTopLeft)
	compression := uintField(entries, h.order, tagCompression, compressionNone)
	photometric := uintField(entries, h.order, tagPhotometric, photometricMinIsBlack)
	bitsPerSample := uintField(entries, h.order, tagBitsPerSample, 8)
	samplesPerPixel := uintField(entries, h.order, tagSamplesPerPixel, 1)
	planar := uintField(entries, h.order, tagPlanarConfig, planarConfigChunky)

	fastPathEligible := orientation == orientationTopLeft &&
		compression == compressionNone &&
		bitsPerSample == 8 &&
		planar == planarConfigChunky &&
		(photometric == photometricMinIsWhite || photometric == photometricMinIsBlack ||
			photometric == photometricRGB || photometric == photometricPalette)

	if !fastPathEligible {
		return readFallback(d, s, startPos)
	}

	width := uintField(entries, h.order, tagImageWidth, 0)
	height := uintField(entries, h.order, tagImageLength, 0)
	if width == 0 || height == 0 {
		return fmt.Errorf("tiff: zero dimensions: %w", engine.ErrStreamMalformed)
	}

	pixels, err := readStrips(s, h.order, entries)
	if err != nil {
		return err
	}

	extraSamples := samplesPerPixel > 1 && (photometric == photometricMinIsWhite || photometric == photometricMinIsBlack)

	switch photometric {
	case photometricMinIsWhite, photometricMinIsBlack:
		if photometric == photometricMinIsWhite {
			invertLuminance(pixels)
		}
		if extraSamples {
			d.format, d.depth, d.hasAlpha = pixelformat.FormatLumAlpha, 16, true
		} else {
			d.format, d.depth, d.hasAlpha = pixelformat.FormatLum8, 8, false
		}
	case photometricRGB:
		if samplesPerPixel >= 4 {
			d.format, d.depth, d.hasAlpha = pixelformat.FormatRGBA8888, 32, true
		} else {
			d.format, d.depth, d.hasAlpha = pixelformat.FormatRGB888, 24, false
		}
		d.colorOrder = pixelformat.OrderRGBA
	case photometricPalette:
		colorMapEntry, ok := entries[tagColorMap]
		if !ok {
			return fmt.Errorf("tiff: palette image missing color map: %w", engine.ErrStreamMalformed)
		}
		palette, err := readColorMap(s, h.order, colorMapEntry)
		if err != nil {
			return err
		}
		d.format, d.depth = pixelformat.FormatRGB888, 8
		d.paletteType = pixelformat.Palette8Bit
		d.paletteData = palette
	}

	d.width, d.height = int(width), int(height)
	d.pixels = pixels

	return nil
}

// invertLuminance flips MINISWHITE samples (0 = white) into the engine's
// MINISBLACK-equivalent convention (0 = black) in place.
func invertLuminance(pixels []byte) {
	for i, v := range pixels {
		pixels[i] = 0xFF - v
	}
}

// readColorMap resolves a ColorMap entry (3 planes of 16-bit samples,
// red plane then green then blue) into an 8-bit-per-channel RGBA palette,
// rescaling each 16-bit sample down to 8 bits.
func readColorMap(s streamio.Stream, order binary.ByteOrder, e entry) ([]byte, error) {
	values, err := entryValues(s, order, e)
	if err != nil {
		return nil, err
	}
	n := len(values) / 3
	if n == 0 {
		return nil, fmt.Errorf("tiff: empty color map: %w", engine.ErrStreamMalformed)
	}

	out := make([]byte, n*4)
	for i := 0; i < n; i++ {
		out[i*4+0] = byte(pixelformat.Rescale(values[i], 16, 8))
		out[i*4+1] = byte(pixelformat.Rescale(values[n+i], 16, 8))
		out[i*4+2] = byte(pixelformat.Rescale(values[2*n+i], 16, 8))
		out[i*4+3] = 0xFF
	}
	return out, nil
}

// readFallback rewinds to startPos and decodes via the generic library
// reader, materializing the result as an owned RGBA8888 buffer.
func readFallback(d *imageData, s streamio.Stream, startPos int64) error {
	if _, err := s.Seek(startPos, streamio.SeekBeg); err != nil {
		return err
	}

	img, err := ximage.Decode(s)
	if err != nil {
		return fmt.Errorf("tiff: fallback decode: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, width*height*4)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			off := (y*width + x) * 4
			pixels[off+0] = byte(r >> 8)
			pixels[off+1] = byte(g >> 8)
			pixels[off+2] = byte(b >> 8)
			pixels[off+3] = byte(a >> 8)
		}
	}

	d.width, d.height = width, height
	d.format, d.depth, d.hasAlpha = pixelformat.FormatRGBA8888, 32, true
	d.colorOrder = pixelformat.OrderRGBA
	d.paletteType = pixelformat.PaletteNone
	d.paletteData = nil
	d.pixels = pixels

	return nil
}

// WriteNativeImage serializes payload as a single-strip, top-left-oriented
// Baseline TIFF for the formats the fast path understands, mirroring
// ReadNativeImage's photometric dispatch. Other formats are converted to
// RGBA8888 and written through golang.org/x/image/tiff.
func (c *Codec) WriteNativeImage(payload any, s streamio.Stream) error {
	d, ok := payload.(*imageData)
	if !ok {
		return fmt.Errorf("tiff: write: %w", engine.ErrInvalidArgument)
	}
	if d.width == 0 || d.height == 0 || d.pixels == nil {
		return fmt.Errorf("tiff: empty image: %w", engine.ErrInvalidArgument)
	}

	if d.paletteType != pixelformat.PaletteNone && d.paletteData != nil {
		return writeFastPathPalette(d, s)
	}

	switch d.format {
	case pixelformat.FormatLum8, pixelformat.FormatLumAlpha, pixelformat.FormatRGB888, pixelformat.FormatRGBA8888:
		return writeFastPath(d, s)
	default:
		return writeFallback(d, s)
	}
}

// writeFastPathPalette serializes an 8-bit palette image: one byte per
// pixel of palette index, a ColorMap tag holding the 16-bit-per-channel
// R/G/B planes the read path's readColorMap expects, and photometric
// Palette Color.
func writeFastPathPalette(d *imageData, s streamio.Stream) error {
	order := binary.LittleEndian

	n := pixelformat.PaletteItemCount(d.paletteType)
	colorMap := make([]byte, n*3*2)
	for i := 0; i < n; i++ {
		off := i * 4
		var r, g, b uint32
		if off+2 < len(d.paletteData) {
			r = uint32(d.paletteData[off+0])
			g = uint32(d.paletteData[off+1])
			b = uint32(d.paletteData[off+2])
		}
		writeUint16At(colorMap, i*2, order, uint16(pixelformat.Rescale(r, 8, 16)))
		writeUint16At(colorMap, (n+i)*2, order, uint16(pixelformat.Rescale(g, 8, 16)))
		writeUint16At(colorMap, (2*n+i)*2, order, uint16(pixelformat.Rescale(b, 8, 16)))
	}

	const headerSize = 8
	ifdOffset := uint32(headerSize)

	type fieldSpec struct {
		tag   uint16
		typ   uint16
		count uint32
		value uint32
	}

	stripByteCount := uint32(len(d.pixels))

	fields := []fieldSpec{
		{tagImageWidth, dtLong, 1, uint32(d.width)},
		{tagImageLength, dtLong, 1, uint32(d.height)},
		{tagBitsPerSample, dtShort, 1, 8},
		{tagCompression, dtShort, 1, compressionNone},
		{tagPhotometric, dtShort, 1, photometricPalette},
		{tagStripOffsets, dtLong, 1, 0},
		{tagOrientation, dtShort, 1, orientationTopLeft},
		{tagSamplesPerPixel, dtShort, 1, 1},
		{tagRowsPerStrip, dtLong, 1, uint32(d.height)},
		{tagStripByteCounts, dtLong, 1, stripByteCount},
		{tagPlanarConfig, dtShort, 1, planarConfigChunky},
		{tagResolutionUnit, dtShort, 1, resolutionUnitInch},
		{tagColorMap, dtShort, uint32(3 * n), 0},
	}

	entryCount := uint32(len(fields))
	ifdSize := 2 + entryCount*12 + 4
	colorMapOffset := ifdOffset + ifdSize
	fields[len(fields)-1].value = colorMapOffset
	fields[5].value = colorMapOffset + uint32(len(colorMap))

	if _, err := s.Write(headerBytes(order, ifdOffset)); err != nil {
		return err
	}

	var ifd bytes.Buffer
	writeUint16(&ifd, order, uint16(entryCount))
	for _, f := range fields {
		writeUint16(&ifd, order, f.tag)
		writeUint16(&ifd, order, f.typ)
		writeUint32(&ifd, order, f.count)
		if f.tag == tagColorMap {
			writeUint32(&ifd, order, f.value)
		} else {
			writeInlineValue(&ifd, order, f.typ, f.value)
		}
	}
	writeUint32(&ifd, order, 0) // no next IFD

	if _, err := s.Write(ifd.Bytes()); err != nil {
		return err
	}
	if _, err := s.Write(colorMap); err != nil {
		return err
	}

	_, err := s.Write(d.pixels)
	return err
}

func writeUint16At(buf []byte, off int, order binary.ByteOrder, v uint16) {
	order.PutUint16(buf[off:off+2], v)
}

func writeFastPath(d *imageData, s streamio.Stream) error {
	order := binary.LittleEndian

	var samplesPerPixel, bitsPerSample uint32
	var photometric uint32
	var extraSamples bool

	switch d.format {
	case pixelformat.FormatLum8:
		samplesPerPixel, bitsPerSample, photometric = 1, 8, photometricMinIsBlack
	case pixelformat.FormatLumAlpha:
		samplesPerPixel, bitsPerSample, photometric = 2, 8, photometricMinIsBlack
		extraSamples = true
	case pixelformat.FormatRGB888:
		samplesPerPixel, bitsPerSample, photometric = 3, 8, photometricRGB
	case pixelformat.FormatRGBA8888:
		samplesPerPixel, bitsPerSample, photometric = 4, 8, photometricRGB
		extraSamples = true
	}

	const headerSize = 8
	ifdOffset := uint32(headerSize)

	type fieldSpec struct {
		tag   uint16
		typ   uint16
		count uint32
		value uint32
	}

	stripByteCount := uint32(len(d.pixels))

	// Entries must appear in ascending tag order, per Baseline TIFF 6.0.
	// StripOffsets' value is patched in below once entryCount is known.
	fields := []fieldSpec{
		{tagImageWidth, dtLong, 1, uint32(d.width)},
		{tagImageLength, dtLong, 1, uint32(d.height)},
		{tagBitsPerSample, dtShort, 1, bitsPerSample},
		{tagCompression, dtShort, 1, compressionNone},
		{tagPhotometric, dtShort, 1, photometric},
		{tagStripOffsets, dtLong, 1, 0},
		{tagOrientation, dtShort, 1, orientationTopLeft},
		{tagSamplesPerPixel, dtShort, 1, samplesPerPixel},
		{tagRowsPerStrip, dtLong, 1, uint32(d.height)},
		{tagStripByteCounts, dtLong, 1, stripByteCount},
		{tagPlanarConfig, dtShort, 1, planarConfigChunky},
		{tagResolutionUnit, dtShort, 1, resolutionUnitInch},
	}
	if extraSamples {
		fields = append(fields, fieldSpec{tagExtraSamples, dtShort, 1, 2}) // 2 = unassociated alpha
	}

	entryCount := uint32(len(fields))
	ifdSize := 2 + entryCount*12 + 4
	fields[5].value = ifdOffset + ifdSize

	if _, err := s.Write(headerBytes(order, ifdOffset)); err != nil {
		return err
	}

	var ifd bytes.Buffer
	writeUint16(&ifd, order, uint16(entryCount))
	for _, f := range fields {
		writeUint16(&ifd, order, f.tag)
		writeUint16(&ifd, order, f.typ)
		writeUint32(&ifd, order, f.count)
		writeInlineValue(&ifd, order, f.typ, f.value)
	}
	writeUint32(&ifd, order, 0) // no next IFD

	if _, err := s.Write(ifd.Bytes()); err != nil {
		return err
	}

	_, err := s.Write(d.pixels)
	return err
}

func headerBytes(order binary.ByteOrder, ifdOffset uint32) []byte {
	buf := make([]byte, 8)
	if order == binary.LittleEndian {
		buf[0], buf[1] = 'I', 'I'
	} else {
		buf[0], buf[1] = 'M', 'M'
	}
	order.PutUint16(buf[2:4], 42)
	order.PutUint32(buf[4:8], ifdOffset)
	return buf
}

func writeUint16(buf *bytes.Buffer, order binary.ByteOrder, v uint16) {
	var b [2]byte
	order.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeUint32(buf *bytes.Buffer, order binary.ByteOrder, v uint32) {
	var b [4]byte
	order.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeInlineValue(buf *bytes.Buffer, order binary.ByteOrder, typ uint16, value uint32) {
	switch typ {
	case dtShort:
		writeUint16(buf, order, uint16(value))
		writeUint16(buf, order, 0)
	default:
		writeUint32(buf, order, value)
	}
}

// writeFallback converts an otherwise-unhandled layout into RGBA8888 and
// writes it via the general-purpose library encoder.
func writeFallback(d *imageData, s streamio.Stream) error {
	rgba := make([]byte, d.width*d.height*4)
	l := d.layout()
	rowSize := l.RowSize()

	for y := 0; y < d.height; y++ {
		row := d.pixels[y*rowSize : (y+1)*rowSize]
		for x := 0; x < d.width; x++ {
			r, g, b, a, ok := pixelformat.GetRGBA(l, row, x)
			if !ok {
				continue
			}
			off := (y*d.width + x) * 4
			rgba[off+0], rgba[off+1], rgba[off+2], rgba[off+3] = r, g, b, a
		}
	}

	img := &rgbaView{pix: rgba, width: d.width, height: d.height}
	return ximage.Encode(s, img, nil)
}
