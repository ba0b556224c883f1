package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"texengine/streamio"
)

func TestPackRGBA8888OpaqueImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}

	data, w, h, hasAlpha := packRGBA8888(img)

	if w != 2 || h != 2 {
		t.Fatalf("dimensions = %dx%d, want 2x2", w, h)
	}
	if hasAlpha {
		t.Error("hasAlpha = true, want false for a fully opaque image")
	}
	if len(data) != 2*2*4 {
		t.Fatalf("data len = %d, want %d", len(data), 2*2*4)
	}
	if data[0] != 10 || data[1] != 20 || data[2] != 30 || data[3] != 255 {
		t.Errorf("first pixel = %v, want (10,20,30,255)", data[0:4])
	}
}

func TestPackRGBA8888DetectsAlpha(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 1, G: 2, B: 3, A: 128})

	_, _, _, hasAlpha := packRGBA8888(img)
	if !hasAlpha {
		t.Error("hasAlpha = false, want true for a partially transparent pixel")
	}
}

func TestPackRGBA8888RespectsBoundsOffset(t *testing.T) {
	full := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			full.SetRGBA(x, y, color.RGBA{R: byte(x), G: byte(y), B: 0, A: 255})
		}
	}
	sub := full.SubImage(image.Rect(1, 1, 3, 3))

	data, w, h, _ := packRGBA8888(sub)
	if w != 2 || h != 2 {
		t.Fatalf("dimensions = %dx%d, want 2x2", w, h)
	}
	if data[0] != 1 || data[1] != 1 {
		t.Errorf("first packed pixel = %v, want origin (1,1) sample", data[0:2])
	}
}

func TestAlignUp(t *testing.T) {
	cases := []struct{ dim, block, want int }{
		{10, 8, 16},
		{16, 8, 16},
		{1, 0, 1},
		{5, 16, 16},
	}
	for _, c := range cases {
		if got := alignUp(c.dim, c.block); got != c.want {
			t.Errorf("alignUp(%d, %d) = %d, want %d", c.dim, c.block, got, c.want)
		}
	}
}

// writeTestPNG writes a w x h PNG with every pixel set to fill under dir,
// returning its path.
func writeTestPNG(t *testing.T, dir string, w, h int, fill color.RGBA) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, fill)
		}
	}

	path := filepath.Join(dir, "src.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}

	return path
}

func TestCompressFileToPVRProducesDeserializableTexture(t *testing.T) {
	tk := newToolkit()
	dir := t.TempDir()
	src := writeTestPNG(t, dir, 17, 10, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	payload, err := compressFileToPVR(tk, "rgb", src)
	if err != nil {
		t.Fatalf("compressFileToPVR: %v", err)
	}
	if payload == nil {
		t.Fatal("compressFileToPVR returned a nil payload")
	}

	dst := filepath.Join(dir, "out.pvr")
	dstStream, err := streamio.OpenFileStream(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		t.Fatalf("open dst: %v", err)
	}
	if err := tk.pvr.SerializeTexture(dstStream, payload); err != nil {
		dstStream.Close()
		t.Fatalf("serialize: %v", err)
	}
	dstStream.Close()

	srcStream, err := streamio.OpenFileStream(dst, os.O_RDONLY, 0)
	if err != nil {
		t.Fatalf("open for reread: %v", err)
	}
	defer srcStream.Close()

	if _, err := tk.pvr.DeserializeTexture(srcStream); err != nil {
		t.Fatalf("deserialize round trip: %v", err)
	}
}

func TestRunConvertWritesFile(t *testing.T) {
	tk := newToolkit()
	dir := t.TempDir()
	src := writeTestPNG(t, dir, 8, 8, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	dst := filepath.Join(dir, "out.pvr")

	if err := runConvert(tk, "rgb", src, dst); err != nil {
		t.Fatalf("runConvert: %v", err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Size() == 0 {
		t.Error("output file is empty")
	}
}
