package main

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"strings"

	"texengine/codec/pvrtc"
	"texengine/pixelformat"
	"texengine/raster"
	"texengine/streamio"
)

// packRGBA8888 copies img into a tightly packed RGBA8888 buffer, the raster
// format a TIFF payload and pvrtc.Provider both expect as their source
// layout.
func packRGBA8888(img image.Image) (data []byte, width, height int, hasAlpha bool) {
	bounds := img.Bounds()
	width, height = bounds.Dx(), bounds.Dy()
	data = make([]byte, width*height*4)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			off := (y*width + x) * 4
			data[off+0] = byte(r >> 8)
			data[off+1] = byte(g >> 8)
			data[off+2] = byte(b >> 8)
			data[off+3] = byte(a >> 8)
			if a>>8 != 0xff {
				hasAlpha = true
			}
		}
	}

	return data, width, height, hasAlpha
}

// alignUp rounds dim up to the next multiple of block, leaving dim alone if
// block is non-positive.
func alignUp(dim, block int) int {
	if block <= 0 {
		return dim
	}
	return (dim + block - 1) / block * block
}

// compressFileToPVR decodes src with any registered stdlib/x-image decoder,
// puts its pixel data through a raster.Raster, and PutToRaster's it into a
// fresh PVRTC texture payload via the TIFF codec -- the same codec-to-
// codec transfer path runExtract exercises in the opposite direction, not
// a direct call into the PVRTC provider.
func compressFileToPVR(tk *toolkit, target, src string) (any, error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer srcFile.Close()

	img, _, err := image.Decode(srcFile)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", src, err)
	}

	blockW, blockH := pvrtc.MaxBlockDimensions()
	bounds := img.Bounds()
	if alignedW, alignedH := alignUp(bounds.Dx(), blockW), alignUp(bounds.Dy(), blockH); alignedW != bounds.Dx() || alignedH != bounds.Dy() {
		logger := slog.Default().With("src", src, "width", alignedW, "height", alignedH)
		resized, err := resize(logger, img, alignedW, alignedH, false, color.Transparent)
		if err != nil {
			return nil, fmt.Errorf("resize %s to block boundary: %w", src, err)
		}
		img = resized
	}

	data, width, height, detectedAlpha := packRGBA8888(img)
	hasAlpha := detectedAlpha || strings.Contains(target, "rgba")

	dims := pixelformat.Dimensions{Width: width, Height: height}
	srcRaster := raster.New(pixelformat.FormatRGBA8888, 32, 1, pixelformat.OrderRGBA)
	func() {
		srcRaster.Lock().Lock()
		defer srcRaster.Lock().Unlock()
		srcRaster.SetMipmaps(pixelformat.FormatRGBA8888, 32, 1, pixelformat.OrderRGBA,
			pixelformat.PaletteNone, nil, pixelformat.CompressionNone, hasAlpha,
			[]raster.Mipmap{{Dimensions: dims, RawDimensions: dims, Data: data}})
	}()

	img2, err := tk.images.CreateNativeImage(tk.eng, "TIFF")
	if err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}
	defer tk.images.DeleteNativeImage(tk.eng, img2)

	err = func() error {
		srcRaster.Lock().RLock()
		defer srcRaster.Lock().RUnlock()

		return img2.WithPayload(func(payload any) error {
			return tk.tiff.SetImageFromRaster(payload, srcRaster)
		})
	}()
	if err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}

	payload := pvrtc.NewTexture()
	destRaster := raster.New(0, 0, 0, 0)
	func() {
		destRaster.Lock().Lock()
		defer destRaster.Lock().Unlock()
		destRaster.SetPlatformData(tk.pvr.Name(), payload)
	}()

	if err := img2.PutToRaster(destRaster); err != nil {
		return nil, fmt.Errorf("compress: put to raster: %w", err)
	}

	pvrPayload, _ := destRaster.PlatformData()
	return pvrPayload, nil
}

// runConvert compresses src into a PVRTC texture block and writes it to dst.
func runConvert(tk *toolkit, target, src, dst string) error {
	payload, err := compressFileToPVR(tk, target, src)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	dstStream, err := streamio.OpenFileStream(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	defer dstStream.Close()

	if err := tk.pvr.SerializeTexture(dstStream, payload); err != nil {
		return fmt.Errorf("convert: serialize: %w", err)
	}

	return nil
}
