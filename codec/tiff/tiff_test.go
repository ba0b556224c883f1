package tiff

import (
	"bytes"
	"testing"

	"texengine/nativetexture"
	"texengine/pixelformat"
	"texengine/streamio"
)

func newCodec() *Codec {
	return New(nativetexture.NewProviderRegistry())
}

func TestWriteReadRoundTripRGBA8888(t *testing.T) {
	c := newCodec()

	src := &imageData{
		width: 3, height: 2,
		format: pixelformat.FormatRGBA8888, depth: 32, colorOrder: pixelformat.OrderRGBA,
		hasAlpha: true,
		pixels:   bytes.Repeat([]byte{10, 20, 30, 255}, 6),
	}

	s := streamio.NewMemoryStream(nil)
	if err := c.WriteNativeImage(src, s); err != nil {
		t.Fatalf("WriteNativeImage: %v", err)
	}

	if _, err := s.Seek(0, streamio.SeekBeg); err != nil {
		t.Fatalf("Seek: %v", err)
	}

	dst := &imageData{}
	if err := c.ReadNativeImage(dst, s); err != nil {
		t.Fatalf("ReadNativeImage: %v", err)
	}

	if dst.width != src.width || dst.height != src.height {
		t.Errorf("dimensions = %dx%d, want %dx%d", dst.width, dst.height, src.width, src.height)
	}
	if dst.format != pixelformat.FormatRGBA8888 {
		t.Errorf("format = %v, want FormatRGBA8888", dst.format)
	}
	if !bytes.Equal(dst.pixels, src.pixels) {
		t.Errorf("pixels = %v, want %v", dst.pixels, src.pixels)
	}
}

func TestWriteReadRoundTripLum8(t *testing.T) {
	c := newCodec()

	src := &imageData{
		width: 4, height: 4,
		format: pixelformat.FormatLum8, depth: 8,
		pixels: []byte{0, 64, 128, 192, 0, 64, 128, 192, 0, 64, 128, 192, 0, 64, 128, 192},
	}

	s := streamio.NewMemoryStream(nil)
	if err := c.WriteNativeImage(src, s); err != nil {
		t.Fatalf("WriteNativeImage: %v", err)
	}
	if _, err := s.Seek(0, streamio.SeekBeg); err != nil {
		t.Fatalf("Seek: %v", err)
	}

	dst := &imageData{}
	if err := c.ReadNativeImage(dst, s); err != nil {
		t.Fatalf("ReadNativeImage: %v", err)
	}

	if dst.format != pixelformat.FormatLum8 || dst.hasAlpha {
		t.Errorf("format/hasAlpha = %v/%v, want FormatLum8/false", dst.format, dst.hasAlpha)
	}
	if !bytes.Equal(dst.pixels, src.pixels) {
		t.Errorf("pixels = %v, want %v", dst.pixels, src.pixels)
	}
}

func TestWriteReadRoundTripPalette(t *testing.T) {
	c := newCodec()

	pal := make([]byte, 256*4)
	for i := 0; i < 256; i++ {
		pal[i*4+0] = byte(i)
		pal[i*4+1] = byte(255 - i)
		pal[i*4+2] = byte(i / 2)
		pal[i*4+3] = 0xFF
	}

	src := &imageData{
		width: 2, height: 2,
		format: pixelformat.FormatRGB888, depth: 8,
		paletteType: pixelformat.Palette8Bit,
		paletteData: pal,
		pixels:      []byte{0, 10, 200, 255},
	}

	s := streamio.NewMemoryStream(nil)
	if err := c.WriteNativeImage(src, s); err != nil {
		t.Fatalf("WriteNativeImage: %v", err)
	}
	if _, err := s.Seek(0, streamio.SeekBeg); err != nil {
		t.Fatalf("Seek: %v", err)
	}

	dst := &imageData{}
	if err := c.ReadNativeImage(dst, s); err != nil {
		t.Fatalf("ReadNativeImage: %v", err)
	}

	if dst.paletteType != pixelformat.Palette8Bit {
		t.Fatalf("paletteType = %v, want Palette8Bit", dst.paletteType)
	}
	if !bytes.Equal(dst.pixels, src.pixels) {
		t.Errorf("indices = %v, want %v", dst.pixels, src.pixels)
	}
	if len(dst.paletteData) != len(pal) {
		t.Fatalf("paletteData len = %d, want %d", len(dst.paletteData), len(pal))
	}
	// 8-to-16-to-8 bit rescale is exact when 255 divides 65535 evenly, which
	// it does, so every channel should round-trip byte for byte.
	for i := 0; i < 256; i++ {
		if dst.paletteData[i*4+0] != pal[i*4+0] {
			t.Errorf("palette entry %d red = %d, want %d", i, dst.paletteData[i*4+0], pal[i*4+0])
			break
		}
	}
}

func TestIsStreamNativeImageDetectsValidHeader(t *testing.T) {
	c := newCodec()
	src := &imageData{width: 1, height: 1, format: pixelformat.FormatLum8, depth: 8, pixels: []byte{42}}

	s := streamio.NewMemoryStream(nil)
	if err := c.WriteNativeImage(src, s); err != nil {
		t.Fatalf("WriteNativeImage: %v", err)
	}
	if _, err := s.Seek(0, streamio.SeekBeg); err != nil {
		t.Fatalf("Seek: %v", err)
	}

	ok, err := c.IsStreamNativeImage(s)
	if err != nil {
		t.Fatalf("IsStreamNativeImage: %v", err)
	}
	if !ok {
		t.Error("IsStreamNativeImage should accept a stream this codec just wrote")
	}
}

func TestIsStreamNativeImageRejectsGarbage(t *testing.T) {
	c := newCodec()
	s := streamio.NewMemoryStream([]byte("not a tiff file at all, just text"))

	ok, err := c.IsStreamNativeImage(s)
	if err != nil {
		t.Fatalf("IsStreamNativeImage: %v", err)
	}
	if ok {
		t.Error("IsStreamNativeImage should reject a non-TIFF stream")
	}
}

func TestIsStreamNativeImageRejectsTruncatedHeader(t *testing.T) {
	c := newCodec()
	s := streamio.NewMemoryStream([]byte("II"))

	ok, err := c.IsStreamNativeImage(s)
	if err != nil {
		t.Fatalf("IsStreamNativeImage: %v", err)
	}
	if ok {
		t.Error("IsStreamNativeImage should reject a truncated header")
	}
}

func TestReadNativeImageRejectsNonTIFFStream(t *testing.T) {
	c := newCodec()
	s := streamio.NewMemoryStream([]byte("definitely not a tiff"))

	err := c.ReadNativeImage(&imageData{}, s)
	if err == nil {
		t.Error("ReadNativeImage should fail on a non-TIFF stream")
	}
}

func TestReadNativeImageRejectsWrongPayloadType(t *testing.T) {
	c := newCodec()
	s := streamio.NewMemoryStream(nil)

	err := c.ReadNativeImage("not an imageData", s)
	if err == nil {
		t.Error("ReadNativeImage should reject a payload of the wrong type")
	}
}

func TestClearImageDataResetsFields(t *testing.T) {
	c := newCodec()
	d := &imageData{width: 4, height: 4, format: pixelformat.FormatRGBA8888, hasAlpha: true, pixels: []byte{1, 2, 3, 4}}

	c.ClearImageData(d, true)

	if d.width != 0 || d.height != 0 || d.pixels != nil || d.hasAlpha {
		t.Errorf("imageData not reset: %+v", d)
	}
}

func TestClearPaletteDataResetsPalette(t *testing.T) {
	c := newCodec()
	d := &imageData{paletteType: pixelformat.Palette8Bit, paletteData: []byte{1, 2, 3, 4}}

	c.ClearPaletteData(d, true)

	if d.paletteType != pixelformat.PaletteNone || d.paletteData != nil {
		t.Errorf("palette not reset: %+v", d)
	}
}

func TestPaletteOf(t *testing.T) {
	c := newCodec()
	d := &imageData{paletteType: pixelformat.Palette8Bit, paletteData: []byte{1, 2, 3, 4}}

	pt, data := c.PaletteOf(d)
	if pt != pixelformat.Palette8Bit || len(data) != 4 {
		t.Errorf("PaletteOf = %v, %v, want Palette8Bit, 4 bytes", pt, data)
	}

	if pt, data := c.PaletteOf("wrong type"); pt != pixelformat.PaletteNone || data != nil {
		t.Errorf("PaletteOf on a bad payload = %v, %v, want PaletteNone, nil", pt, data)
	}
}

func TestWriteNativeImageRejectsEmptyImage(t *testing.T) {
	c := newCodec()
	s := streamio.NewMemoryStream(nil)

	err := c.WriteNativeImage(&imageData{}, s)
	if err == nil {
		t.Error("WriteNativeImage should reject an image with no pixel data")
	}
}

func TestFetchAndPutWithUnknownProvider(t *testing.T) {
	c := newCodec()
	d := &imageData{width: 1, height: 1, pixels: []byte{1, 2, 3, 4}, format: pixelformat.FormatRGBA8888}

	if _, err := c.ReadFromNativeTexture(&imageData{}, "MISSING", nil); err == nil {
		t.Error("ReadFromNativeTexture with an unregistered provider name should fail")
	}
	if _, err := c.WriteToNativeTexture(d, "MISSING", nil); err == nil {
		t.Error("WriteToNativeTexture with an unregistered provider name should fail")
	}
}

func TestReadNativeImageRejectsZeroDimensions(t *testing.T) {
	c := newCodec()

	src := &imageData{width: 0, height: 0, format: pixelformat.FormatLum8, depth: 8}
	// Forge a minimal valid Baseline header/IFD with zero width by writing
	// through a sibling with nonzero size, then patching ImageWidth to 0.
	s := streamio.NewMemoryStream(nil)
	good := &imageData{width: 1, height: 1, format: pixelformat.FormatLum8, depth: 8, pixels: []byte{7}}
	if err := c.WriteNativeImage(good, s); err != nil {
		t.Fatalf("WriteNativeImage: %v", err)
	}

	buf := s.Bytes()
	// ImageWidth is the first IFD entry: 8-byte header + 2-byte entry count
	// puts the entry at offset 10; its inline value is the last 4 bytes of
	// the 12-byte entry, at offset 18.
	buf[18], buf[19], buf[20], buf[21] = 0, 0, 0, 0

	corrupted := streamio.NewMemoryStream(buf)
	if err := c.ReadNativeImage(src, corrupted); err == nil {
		t.Error("ReadNativeImage should reject zero width/height")
	}
}
