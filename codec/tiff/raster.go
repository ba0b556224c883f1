package tiff

import (
	"fmt"

	"texengine/engine"
	"texengine/raster"
)

// SetImageFromRaster populates payload directly from r's own generic
// mipmap/layout data (raster.Raster.Layout/Mipmap/MipmapCount), the path a
// host takes when it already has decoded pixel bytes sitting in a Raster
// and wants a TIFF payload to carry them through a PutToRaster transfer,
// rather than decoding a TIFF stream byte-for-byte. Only the base mipmap
// level is taken, since TIFF itself carries no mipmap chain. Callers must
// hold at least r's read lock.
func (c *Codec) SetImageFromRaster(payload any, r *raster.Raster) error {
	d, ok := payload.(*imageData)
	if !ok {
		return fmt.Errorf("tiff: set from raster: %w", engine.ErrInvalidArgument)
	}
	if r.MipmapCount() == 0 {
		return fmt.Errorf("tiff: set from raster: raster has no mipmap data: %w", engine.ErrInvalidArgument)
	}

	layout := r.Layout(0)
	base := r.Mipmap(0)

	d.width, d.height = layout.LayerDimensions.Width, layout.LayerDimensions.Height
	d.format = layout.Format
	d.depth = layout.Depth
	d.colorOrder = layout.ColorOrder
	d.paletteType = layout.PaletteType
	d.paletteData = layout.PaletteData
	d.hasAlpha = layout.HasAlpha
	d.pixels = base.Data

	return nil
}
