package tiff

import (
	"fmt"

	"texengine/engine"
	"texengine/nativetexture"
	"texengine/pixelformat"
)

// ReadFromNativeTexture pulls the base mipmap level out of a platform
// texture (TIFF carries no mipmap chain) via the registered provider for
// nativeTexName. When the provider's raw and logical dimensions agree it
// aliases the level's bytes directly -- TIFF's in-memory representation is
// just a pixelformat.Layout-described buffer, so no conversion is needed
// before a later WriteNativeImage re-encodes it. Otherwise it crops the
// level into a fresh buffer and reports no direct acquire.
func (c *Codec) ReadFromNativeTexture(payload any, nativeTexName string, nativeTex any) (nativetexture.AcquireFeedback, error) {
	d, ok := payload.(*imageData)
	if !ok {
		return nativetexture.AcquireFeedback{}, fmt.Errorf("tiff: fetch: %w", engine.ErrInvalidArgument)
	}

	provider, ok := c.texProviders.Get(nativeTexName)
	if !ok {
		return nativetexture.AcquireFeedback{}, fmt.Errorf("tiff: fetch: no provider for %q: %w", nativeTexName, engine.ErrUnsupported)
	}

	traversal, err := provider.GetPixelDataFromTexture(nativeTex)
	if err != nil {
		return nativetexture.AcquireFeedback{}, err
	}
	if len(traversal.Mipmaps) == 0 {
		return nativetexture.AcquireFeedback{}, fmt.Errorf("tiff: fetch: texture has no mipmaps: %w", engine.ErrInvalidArgument)
	}

	base := traversal.Mipmaps[0]
	dims := base.MipmapDimensions()
	rawDims := base.MipmapRawDimensions()

	d.width, d.height = dims.Width, dims.Height
	d.format = traversal.Format
	d.depth = traversal.Depth
	d.colorOrder = traversal.ColorOrder
	d.paletteType = traversal.PaletteType
	d.paletteData = traversal.PaletteData
	if traversal.HasAlpha != nil {
		d.hasAlpha = *traversal.HasAlpha
	} else {
		d.hasAlpha = pixelformat.CanHaveAlpha(traversal.Format)
	}

	// TIFF's own buffer is always tightly packed at its logical width
	// (RowAlign 1, raw == logical). A block-compressed provider's raw
	// dimensions are padded up to its block size, so a direct alias is
	// only safe when the provider's alignment happens to match TIFF's.
	directAcquire := true
	pixels := base.MipmapData()
	if rawDims != dims {
		pixels = cropToLogical(pixelformat.Layout{
			RawDimensions: rawDims,
			Depth:         traversal.Depth,
			RowAlign:      traversal.RowAlign,
		}, pixels, dims)
		directAcquire = false
	}
	d.pixels = pixels

	return nativetexture.AcquireFeedback{
		HasDirectlyAcquired:        directAcquire,
		HasDirectlyAcquiredPalette: d.paletteData != nil,
	}, nil
}

// cropToLogical copies a block-padded raw buffer down to a tightly packed
// buffer of dims, dropping the alignment padding a compressed provider's
// decompressed mipmap carries past its logical width/height.
func cropToLogical(rawLayout pixelformat.Layout, raw []byte, dims pixelformat.Dimensions) []byte {
	srcRowSize := rawLayout.RowSize()
	dstRowSize := pixelformat.RowSize(dims.Width, rawLayout.Depth, 1)

	out := make([]byte, dstRowSize*dims.Height)
	for y := 0; y < dims.Height; y++ {
		srcStart := y * srcRowSize
		srcEnd := srcStart + dstRowSize
		if srcEnd > len(raw) {
			break
		}
		copy(out[y*dstRowSize:(y+1)*dstRowSize], raw[srcStart:srcEnd])
	}
	return out
}

// WriteToNativeTexture hands TIFF's current buffer to nativeTexName's
// provider as a single-mipmap traversal and forwards whatever acquisition
// feedback the provider reports.
func (c *Codec) WriteToNativeTexture(payload any, nativeTexName string, nativeTex any) (nativetexture.AcquireFeedback, error) {
	d, ok := payload.(*imageData)
	if !ok {
		return nativetexture.AcquireFeedback{}, fmt.Errorf("tiff: put: %w", engine.ErrInvalidArgument)
	}
	if d.pixels == nil {
		return nativetexture.AcquireFeedback{}, fmt.Errorf("tiff: put: no pixel data: %w", engine.ErrInvalidArgument)
	}

	provider, ok := c.texProviders.Get(nativeTexName)
	if !ok {
		return nativetexture.AcquireFeedback{}, fmt.Errorf("tiff: put: no provider for %q: %w", nativeTexName, engine.ErrUnsupported)
	}

	dims := pixelformat.Dimensions{Width: d.width, Height: d.height}
	hasAlpha := d.hasAlpha
	traversal := nativetexture.PixelDataTraversal{
		Mipmaps:     []nativetexture.TraversalMipmap{nativetexture.NewMipmap(dims, dims, d.pixels)},
		Format:      d.format,
		Depth:       d.depth,
		RowAlign:    1,
		ColorOrder:  d.colorOrder,
		PaletteType: d.paletteType,
		PaletteData: d.paletteData,
		Compression: pixelformat.CompressionNone,
		HasAlpha:    &hasAlpha,
	}

	return provider.SetPixelDataToTexture(nativeTex, traversal)
}

// ClearPaletteData drops the payload's palette bytes. shouldFree has no
// bearing under garbage collection: whether the raster/provider still
// aliases these bytes or not, dropping this payload's own reference is
// always safe.
func (c *Codec) ClearPaletteData(payload any, shouldFree bool) {
	d, ok := payload.(*imageData)
	if !ok {
		return
	}
	d.paletteData = nil
	d.paletteType = pixelformat.PaletteNone
}

// ClearImageData drops the payload's pixel buffer and dimensions.
func (c *Codec) ClearImageData(payload any, shouldFree bool) {
	d, ok := payload.(*imageData)
	if !ok {
		return
	}
	d.pixels = nil
	d.width, d.height = 0, 0
	d.format = pixelformat.FormatDefault
	d.hasAlpha = false
}

// GetBestSupportedNativeTexture reports the single platform target this
// codec declares support for.
func (c *Codec) GetBestSupportedNativeTexture(payload any) string {
	return "PVR"
}

// PaletteOf returns payload's current palette type and raw palette bytes,
// for a host that wants to export a decoded palette (e.g. to a companion
// RIFF .pal file) without going through a raster/native-texture transfer.
func (c *Codec) PaletteOf(payload any) (pixelformat.PaletteType, []byte) {
	d, ok := payload.(*imageData)
	if !ok {
		return pixelformat.PaletteNone, nil
	}
	return d.paletteType, d.paletteData
}
