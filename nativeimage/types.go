// Package nativeimage implements the Native-Image layer: a codec-side
// handle that either owns its pixel/palette bytes or borrows them from a
// raster.Raster, and the codec registry that lets a host probe a stream for
// its native-image type and dispatch to the matching codec.
//
// Two-phase construction cleanup paths are expressed as ordinary Go error
// returns, and reader/writer-lock discipline becomes an explicit
// sync.RWMutex per Image.
package nativeimage

import (
	"texengine/nativetexture"
	"texengine/streamio"
)

// FileExtension is one entry in a codec's extension table.
type FileExtension struct {
	Name      string
	IsDefault bool
}

// SupportedNativeTexture names a platform texture type a codec can read
// from / write to via fetchFromRaster / putToRaster.
type SupportedNativeTexture struct {
	NativeTexName string
}

// TypeManager is the codec registration vtable: the operations a format
// plug-in must supply. No method takes an *engine.Engine; a codec that
// reports warnings (truncated names, unknown tags) holds its own engine
// handle.
type TypeManager interface {
	// ConstructImage/CopyConstructImage/DestroyImage manage the codec's own
	// per-instance payload, constructed and torn down in two phases.
	ConstructImage() (payload any, err error)
	CopyConstructImage(src any) (payload any, err error)
	DestroyImage(payload any)

	// IsStreamNativeImage probes s for this codec's header. It must never
	// mutate s's position on return (the caller, getNativeImageTypeForStream,
	// also restores it defensively, but codecs are expected to behave).
	IsStreamNativeImage(s streamio.Stream) (bool, error)

	ReadNativeImage(payload any, s streamio.Stream) error
	WriteNativeImage(payload any, s streamio.Stream) error

	ReadFromNativeTexture(payload any, nativeTexName string, nativeTex any) (nativetexture.AcquireFeedback, error)
	WriteToNativeTexture(payload any, nativeTexName string, nativeTex any) (nativetexture.AcquireFeedback, error)

	// ClearPaletteData/ClearImageData release payload's color data.
	// shouldFree is false when the bytes are (or were) borrowed by a
	// raster and must not be freed here.
	ClearPaletteData(payload any, shouldFree bool)
	ClearImageData(payload any, shouldFree bool)

	GetBestSupportedNativeTexture(payload any) string
}

// CodecDescriptor is the per-codec static record: friendly name, extension
// table, and supported-target-texture list, plus the registered TypeManager
// and type name.
type CodecDescriptor struct {
	TypeName               string
	FriendlyName           string
	FileExtensions         []FileExtension
	SupportedNativeTexture []SupportedNativeTexture

	TypeMan TypeManager
}

func (d *CodecDescriptor) supportsNativeTexture(nativeTexName string) bool {
	for _, s := range d.SupportedNativeTexture {
		if s.NativeTexName == nativeTexName {
			return true
		}
	}
	return false
}

// ownershipState is purely documentary here -- Image's four fields encode
// the ownership state machine directly -- but naming the states helps
// readers reason about the transitions below.
type ownershipState int

const (
	stateEmpty ownershipState = iota
	stateOwned
	stateBorrowed
)

func (img *Image) state() ownershipState {
	switch {
	case img.pixelOwner == nil:
		return stateEmpty
	case img.hasPaletteDataRef || img.hasPixelDataRef:
		return stateBorrowed
	default:
		return stateOwned
	}
}
