// Package nativetexture defines the platform-texture provider contract:
// probing a stream for a platform header, (de)serializing a texture block,
// and exchanging pixel data with a raster.Raster in a codec-neutral
// traversal shape.
package nativetexture

import (
	"texengine/pixelformat"
	"texengine/streamio"
)

// Compatibility is the three-valued result of probing a stream for a
// platform's texture header.
type Compatibility int

const (
	CompatNone Compatibility = iota
	CompatMaybe
	CompatAbsolute
)

// TextureInfo summarizes a texture's mipmap chain shape.
type TextureInfo struct {
	MipmapCount int
	BaseWidth   int
	BaseHeight  int
}

// RawMipmapLayer is one mipmap level in a platform's own native encoding,
// used by GetMipmapLayer/AddMipmapLayer.
type RawMipmapLayer struct {
	Dimensions pixelformat.Dimensions
	Data       []byte
}

// AcquireFeedback reports how a pixel-data transfer treated the source
// bytes: whether the destination now aliases them (true, "direct acquire")
// or holds an independently materialized copy (false). The granularity is
// coarse, all-mipmaps-at-once; see DESIGN.md's OQ-1.
type AcquireFeedback struct {
	HasDirectlyAcquired        bool
	HasDirectlyAcquiredPalette bool
}

// PixelDataTraversal is the codec-neutral view of a texture's pixel data
// that flows between a NativeTexture provider and a NativeImage codec:
// mipmaps, raster format, palette, compression, and alpha presence.
// HasAlpha is a pointer because some providers cannot determine alpha
// presence on decode; nil means unknown rather than false.
type PixelDataTraversal struct {
	Mipmaps []TraversalMipmap

	Format      pixelformat.RasterFormat
	Depth       int
	RowAlign    int
	ColorOrder  pixelformat.ColorOrder
	PaletteType pixelformat.PaletteType
	PaletteData []byte
	Compression pixelformat.CompressionType
	HasAlpha    *bool
}

// TraversalMipmap mirrors raster.Mipmap's shape without importing the raster
// package, which would create an import cycle (raster is a leaf package;
// nativetexture sits above it but below nativeimage, which imports both).
type TraversalMipmap struct {
	Dimensions    pixelformat.Dimensions
	RawDimensions pixelformat.Dimensions
	Data          []byte
}

// NewMipmap builds a TraversalMipmap-shaped entry for a PixelDataTraversal.
func NewMipmap(dims, rawDims pixelformat.Dimensions, data []byte) TraversalMipmap {
	return TraversalMipmap{Dimensions: dims, RawDimensions: rawDims, Data: data}
}

// MipmapDimensions returns a traversal mipmap's logical dimensions.
func (m TraversalMipmap) MipmapDimensions() pixelformat.Dimensions { return m.Dimensions }

// MipmapRawDimensions returns a traversal mipmap's raw (aligned) dimensions.
func (m TraversalMipmap) MipmapRawDimensions() pixelformat.Dimensions { return m.RawDimensions }

// MipmapData returns a traversal mipmap's bytes.
func (m TraversalMipmap) MipmapData() []byte { return m.Data }

// Provider is the per-platform texture implementation: probing a stream,
// (de)serializing a texture block, and exchanging pixel data with the
// codec-neutral traversal shape. One Provider instance serves every
// texture of its platform; the texture payload itself is an opaque `any`
// the provider type-asserts internally.
type Provider interface {
	// Name is the provider's type name as registered in the Native-Texture
	// type tree (e.g. "PVR").
	Name() string

	// IsCompatibleTextureBlock probes a stream for this platform's header,
	// reading from the current position and leaving the stream advanced past
	// what it read, match or not; restoring the position is the caller's
	// responsibility via streamio.Probe.
	IsCompatibleTextureBlock(s streamio.Stream) (Compatibility, error)

	// SerializeTexture writes payload's struct block (header + per-mipmap
	// sizes + pixel bytes) to s.
	SerializeTexture(s streamio.Stream, payload any) error

	// DeserializeTexture is SerializeTexture's inverse, producing a new
	// platform payload.
	DeserializeTexture(s streamio.Stream) (payload any, err error)

	// GetPixelDataFromTexture produces a codec-neutral traversal view of
	// payload's pixel data, decompressing if the platform format is
	// compressed.
	GetPixelDataFromTexture(payload any) (PixelDataTraversal, error)

	// SetPixelDataToTexture accepts a codec-neutral traversal view,
	// validating dimensions against the platform's size rules and
	// compressing to the platform format as needed.
	SetPixelDataToTexture(payload any, data PixelDataTraversal) (AcquireFeedback, error)

	// UnsetPixelDataFromTexture releases payload's mipmaps. If deallocate
	// is false the caller has taken ownership and must not free them again.
	UnsetPixelDataFromTexture(payload any, deallocate bool)

	// GetMipmapLayer returns mipmap level idx in the platform's own native
	// encoding.
	GetMipmapLayer(payload any, idx int) (RawMipmapLayer, error)

	// AddMipmapLayer appends a mipmap level already in the platform's
	// native encoding.
	AddMipmapLayer(payload any, layer RawMipmapLayer) (AcquireFeedback, error)

	// ClearMipmaps drops all of payload's mipmap levels.
	ClearMipmaps(payload any)

	// GetTextureInfo summarizes payload's mipmap chain shape.
	GetTextureInfo(payload any) TextureInfo

	// GetTextureFormatString returns a short human-readable description of
	// payload's native format, for diagnostics.
	GetTextureFormatString(payload any) string
}
