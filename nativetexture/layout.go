package nativetexture

import "texengine/pixelformat"

// LayoutForMipmap adapts traversal mipmap idx into a pixelformat.Layout,
// the shape codecs' internal decode/encode helpers operate on. Codecs
// build a PixelDataTraversal to hand to/from the Native-Image layer but
// want Layout's row/data-size math internally; this helper bridges the two
// for one traversal mipmap (the tiff and pvrtc codecs build their Layouts
// directly instead).
func LayoutForMipmap(t PixelDataTraversal, idx int) pixelformat.Layout {
	m := t.Mipmaps[idx]

	hasAlpha := false
	if t.HasAlpha != nil {
		hasAlpha = *t.HasAlpha
	}

	return pixelformat.Layout{
		LayerDimensions: m.MipmapDimensions(),
		RawDimensions:   m.MipmapRawDimensions(),
		Format:          t.Format,
		Depth:           t.Depth,
		RowAlign:        t.RowAlign,
		ColorOrder:      t.ColorOrder,
		PaletteType:     t.PaletteType,
		PaletteData:     t.PaletteData,
		Compression:     t.Compression,
		HasAlpha:        hasAlpha,
	}
}
