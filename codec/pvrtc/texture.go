package pvrtc

import (
	"fmt"

	"texengine/engine"
	"texengine/nativetexture"
	"texengine/pixelformat"
)

// NewTexture constructs an empty PVR texture payload, for a host building a
// texture from scratch before calling SetPixelDataToTexture.
func NewTexture() any {
	return &texture{internalFormat: FormatRGB4BPP}
}

// verifyMipmapChain enforces the mipmap chain size rule: every level after
// the first must be exactly the halving of the one before it.
func verifyMipmapChain(mipmaps []nativetexture.TraversalMipmap) bool {
	for i := 1; i < len(mipmaps); i++ {
		want := mipmaps[i-1].MipmapDimensions().HalveForMipmap()
		got := mipmaps[i].MipmapDimensions()
		if got != want {
			return false
		}
	}
	return true
}

// chooseInternalFormat implements the acquire-time format selection rule:
// 2bpp above the 100x100 pixel threshold, else 4bpp; RGBA variant iff
// hasAlpha.
func chooseInternalFormat(width, height int, hasAlpha bool) InternalFormat {
	highRes := width*height >= 100*100

	switch {
	case hasAlpha && highRes:
		return FormatRGBA2BPP
	case hasAlpha && !highRes:
		return FormatRGBA4BPP
	case !hasAlpha && highRes:
		return FormatRGB2BPP
	default:
		return FormatRGB4BPP
	}
}

// SetPixelDataToTexture compresses the codec-neutral traversal into this
// format's block layout. Compression is always performed -- this provider
// never aliases the source bytes -- so feedback always reports
// HasDirectlyAcquired = false scenario 3.
func (p Provider) SetPixelDataToTexture(payload any, data nativetexture.PixelDataTraversal) (nativetexture.AcquireFeedback, error) {
	t, ok := payload.(*texture)
	if !ok {
		return nativetexture.AcquireFeedback{}, fmt.Errorf("pvrtc: put: %w", engine.ErrInvalidArgument)
	}
	if data.Compression != pixelformat.CompressionNone {
		return nativetexture.AcquireFeedback{}, fmt.Errorf("pvrtc: put: source must be uncompressed: %w", engine.ErrInvalidArgument)
	}
	if len(data.Mipmaps) == 0 {
		return nativetexture.AcquireFeedback{}, fmt.Errorf("pvrtc: put: no mipmaps: %w", engine.ErrInvalidArgument)
	}
	if !verifyMipmapChain(data.Mipmaps) {
		return nativetexture.AcquireFeedback{}, fmt.Errorf("pvrtc: put: %w", engine.ErrSizeRuleViolation)
	}

	hasAlpha := data.HasAlpha != nil && *data.HasAlpha
	base := data.Mipmaps[0].MipmapDimensions()
	format := chooseInternalFormat(base.Width, base.Height, hasAlpha)
	geom := format.geometry()

	srcLayout := pixelformat.Layout{
		Format:      data.Format,
		Depth:       data.Depth,
		RowAlign:    data.RowAlign,
		ColorOrder:  data.ColorOrder,
		PaletteType: data.PaletteType,
		PaletteData: data.PaletteData,
		HasAlpha:    hasAlpha,
	}

	mipmaps := make([]mipLevel, len(data.Mipmaps))
	for i, m := range data.Mipmaps {
		dims := m.MipmapDimensions()
		alignedW := alignToBlock(dims.Width, geom.blockW)
		alignedH := alignToBlock(dims.Height, geom.blockH)

		layerLayout := srcLayout
		layerLayout.LayerDimensions = dims
		layerLayout.RawDimensions = m.MipmapRawDimensions()

		rgba := rgbaToLayout(layerLayout, m.MipmapData())
		rgba = padToBlock(rgba, dims.Width, dims.Height, alignedW, alignedH)
		texels := compressLayer(format, rgba, alignedW, alignedH)

		mipmaps[i] = mipLevel{layerWidth: dims.Width, layerHeight: dims.Height, texels: texels}
	}

	t.hasAlpha = hasAlpha
	t.internalFormat = format
	t.mipmaps = mipmaps

	return nativetexture.AcquireFeedback{HasDirectlyAcquired: false, HasDirectlyAcquiredPalette: false}, nil
}

// GetPixelDataFromTexture decompresses every mipmap level into the
// codec-neutral traversal shape. HasAlpha is always known here, since this
// provider's internal format always names RGB or RGBA explicitly.
func (p Provider) GetPixelDataFromTexture(payload any) (nativetexture.PixelDataTraversal, error) {
	t, ok := payload.(*texture)
	if !ok {
		return nativetexture.PixelDataTraversal{}, fmt.Errorf("pvrtc: fetch: %w", engine.ErrInvalidArgument)
	}
	if len(t.mipmaps) == 0 {
		return nativetexture.PixelDataTraversal{}, fmt.Errorf("pvrtc: fetch: no mipmaps: %w", engine.ErrInvalidArgument)
	}

	geom := t.internalFormat.geometry()

	out := make([]nativetexture.TraversalMipmap, len(t.mipmaps))
	for i, m := range t.mipmaps {
		alignedW := alignToBlock(m.layerWidth, geom.blockW)
		alignedH := alignToBlock(m.layerHeight, geom.blockH)

		rgba := decompressLayer(t.internalFormat, m.texels, alignedW, alignedH)

		out[i] = nativetexture.NewMipmap(
			pixelformat.Dimensions{Width: m.layerWidth, Height: m.layerHeight},
			pixelformat.Dimensions{Width: alignedW, Height: alignedH},
			rgba,
		)
	}

	hasAlpha := t.hasAlpha

	return nativetexture.PixelDataTraversal{
		Mipmaps:     out,
		Format:      pixelformat.FormatRGBA8888,
		Depth:       32,
		RowAlign:    1,
		ColorOrder:  pixelformat.OrderRGBA,
		PaletteType: pixelformat.PaletteNone,
		Compression: pixelformat.CompressionNone,
		HasAlpha:    &hasAlpha,
	}, nil
}

// UnsetPixelDataFromTexture drops this payload's mipmap levels.
// deallocate has no bearing under garbage collection.
func (p Provider) UnsetPixelDataFromTexture(payload any, deallocate bool) {
	if t, ok := payload.(*texture); ok {
		t.mipmaps = nil
	}
}

// GetMipmapLayer returns mipmap level idx's compressed bytes as-is: PVRTC's
// "native encoding" is the same block format GetPixelDataFromTexture would
// otherwise decompress out of.
func (p Provider) GetMipmapLayer(payload any, idx int) (nativetexture.RawMipmapLayer, error) {
	t, ok := payload.(*texture)
	if !ok {
		return nativetexture.RawMipmapLayer{}, fmt.Errorf("pvrtc: get mipmap: %w", engine.ErrInvalidArgument)
	}
	if idx < 0 || idx >= len(t.mipmaps) {
		return nativetexture.RawMipmapLayer{}, fmt.Errorf("pvrtc: get mipmap %d: %w", idx, engine.ErrInvalidArgument)
	}

	m := t.mipmaps[idx]
	return nativetexture.RawMipmapLayer{
		Dimensions: pixelformat.Dimensions{Width: m.layerWidth, Height: m.layerHeight},
		Data:       m.texels,
	}, nil
}

// AddMipmapLayer appends a mipmap level already in PVRTC's native encoding.
// The layer is aliased directly, not copied, so feedback always reports a
// direct acquire.
func (p Provider) AddMipmapLayer(payload any, layer nativetexture.RawMipmapLayer) (nativetexture.AcquireFeedback, error) {
	t, ok := payload.(*texture)
	if !ok {
		return nativetexture.AcquireFeedback{}, fmt.Errorf("pvrtc: add mipmap: %w", engine.ErrInvalidArgument)
	}

	t.mipmaps = append(t.mipmaps, mipLevel{
		layerWidth:  layer.Dimensions.Width,
		layerHeight: layer.Dimensions.Height,
		texels:      layer.Data,
	})

	return nativetexture.AcquireFeedback{HasDirectlyAcquired: true}, nil
}

// ClearMipmaps drops every mipmap level.
func (p Provider) ClearMipmaps(payload any) {
	if t, ok := payload.(*texture); ok {
		t.mipmaps = nil
	}
}

// GetTextureInfo summarizes the mipmap chain shape.
func (p Provider) GetTextureInfo(payload any) nativetexture.TextureInfo {
	t, ok := payload.(*texture)
	if !ok || len(t.mipmaps) == 0 {
		return nativetexture.TextureInfo{}
	}

	return nativetexture.TextureInfo{
		MipmapCount: len(t.mipmaps),
		BaseWidth:   t.mipmaps[0].layerWidth,
		BaseHeight:  t.mipmaps[0].layerHeight,
	}
}

// GetTextureFormatString returns a short human-readable description of the
// payload's internal format, e.g. "PVR RGBA 4bit".
func (p Provider) GetTextureFormatString(payload any) string {
	t, ok := payload.(*texture)
	if !ok {
		return "PVR"
	}
	return t.internalFormat.String()
}
