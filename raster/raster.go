// Package raster implements the Raster entity: the owner of mipmap pixel
// data and its palette, with a reader/writer lock and a const-reference
// count that pins immutability while codecs borrow its bytes.
package raster

import (
	"sync"
	"sync/atomic"

	"texengine/pixelformat"
)

// Mipmap is one level of a Raster's pixel data, sharing the Raster's
// pixel-layout descriptor except for its own dimensions.
type Mipmap struct {
	Dimensions    pixelformat.Dimensions
	RawDimensions pixelformat.Dimensions
	Data          []byte
}

// Raster owns an ordered sequence of mipmap layers, an optional palette,
// a read/write lock, and the const-reference count that NativeImage
// handles pin when they borrow pixel bytes directly.
type Raster struct {
	lock sync.RWMutex

	format      pixelformat.RasterFormat
	depth       int
	rowAlign    int
	colorOrder  pixelformat.ColorOrder
	paletteType pixelformat.PaletteType
	paletteData []byte
	compression pixelformat.CompressionType
	hasAlpha    bool

	mipmaps []Mipmap

	// platformData is the opaque platform-native texture payload this
	// raster was deserialized from or is about to be serialized into; it is
	// nil for a raster that only ever holds generic pixel data.
	platformData       any
	nativeDataTypeName string

	constRefCount atomic.Int32
	ownerRefCount atomic.Int32
}

// New creates a Raster with one owner reference and zero const references.
func New(format pixelformat.RasterFormat, depth, rowAlign int, order pixelformat.ColorOrder) *Raster {
	r := &Raster{
		format:     format,
		depth:      depth,
		rowAlign:   rowAlign,
		colorOrder: order,
	}
	r.ownerRefCount.Store(1)
	return r
}

// Lock returns the Raster's reader/writer lock, exposed so callers can hold
// it across a multi-step read or write.
func (r *Raster) Lock() *sync.RWMutex {
	return &r.lock
}

// Layout returns the pixel layout descriptor for mipmap level idx. Callers
// must hold at least a read lock.
func (r *Raster) Layout(idx int) pixelformat.Layout {
	m := r.mipmaps[idx]
	return pixelformat.Layout{
		LayerDimensions: m.Dimensions,
		RawDimensions:   m.RawDimensions,
		Format:          r.format,
		Depth:           r.depth,
		RowAlign:        r.rowAlign,
		ColorOrder:      r.colorOrder,
		PaletteType:     r.paletteType,
		PaletteData:     r.paletteData,
		Compression:     r.compression,
		HasAlpha:        r.hasAlpha,
	}
}

// MipmapCount returns the number of mipmap levels. Callers must hold at
// least a read lock.
func (r *Raster) MipmapCount() int {
	return len(r.mipmaps)
}

// Mipmap returns mipmap level idx's descriptor by value. Its bytes are not
// copied: the returned Data slice aliases the raster's own buffer. Callers
// must hold at least a read lock.
func (r *Raster) Mipmap(idx int) Mipmap {
	return r.mipmaps[idx]
}

// PlatformData returns the opaque platform-native payload, if any, and its
// type name.
func (r *Raster) PlatformData() (any, string) {
	return r.platformData, r.nativeDataTypeName
}

// NativeDataTypeName returns the type name of the platform-native payload,
// or "" if none is set.
func (r *Raster) NativeDataTypeName() string {
	return r.nativeDataTypeName
}

// SetPlatformData installs the raster's platform-native payload, replacing
// any previous payload; the raster's own mipmap and palette data are left
// as they are. Callers must hold the write lock.
func (r *Raster) SetPlatformData(typeName string, data any) {
	r.platformData = data
	r.nativeDataTypeName = typeName
}

// SetMipmaps replaces the raster's mipmap layers and layout metadata.
// Callers must hold the write lock, and must not call this while
// ConstRefCount() > 0.
func (r *Raster) SetMipmaps(format pixelformat.RasterFormat, depth, rowAlign int, order pixelformat.ColorOrder,
	paletteType pixelformat.PaletteType, paletteData []byte, compression pixelformat.CompressionType,
	hasAlpha bool, mipmaps []Mipmap) {

	r.format = format
	r.depth = depth
	r.rowAlign = rowAlign
	r.colorOrder = order
	r.paletteType = paletteType
	r.paletteData = paletteData
	r.compression = compression
	r.hasAlpha = hasAlpha
	r.mipmaps = mipmaps
}

// Clear drops all mipmap, palette and platform data and resets the palette
// type to NONE; the other layout fields (format, depth, row alignment,
// color order, compression, alpha flag) keep their values. Callers must
// hold the write lock.
func (r *Raster) Clear() {
	r.paletteData = nil
	r.mipmaps = nil
	r.paletteType = pixelformat.PaletteNone
	r.platformData = nil
	r.nativeDataTypeName = ""
}

// ConstRefCount returns the current const-reference count.
func (r *Raster) ConstRefCount() int32 {
	return r.constRefCount.Load()
}

// AddConstRef increments the const-reference count, pinning the raster's
// pixel/palette bytes as immutable until a matching RemConstRef.
func (r *Raster) AddConstRef() {
	r.constRefCount.Add(1)
}

// RemConstRef decrements the const-reference count. It panics if the count
// would go negative, since that indicates a ref-counting bug at the call
// site.
func (r *Raster) RemConstRef() {
	if r.constRefCount.Add(-1) < 0 {
		panic("raster: const-reference count went negative")
	}
}

// Acquire increments the owner-reference count and returns r, so call
// sites can write `raster = raster.Acquire()`-style chains.
func (r *Raster) Acquire() *Raster {
	r.ownerRefCount.Add(1)
	return r
}

// Delete decrements the owner-reference count. The raster is considered
// destroyed once both the owner-reference count and the const-reference
// count reach zero; Delete reports whether that point was reached on this
// call.
func (r *Raster) Delete() (destroyed bool) {
	if r.ownerRefCount.Add(-1) > 0 {
		return false
	}

	return r.constRefCount.Load() <= 0
}
