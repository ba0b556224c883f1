package nativeimage

import (
	"fmt"
	"sync"

	"texengine/engine"
	"texengine/raster"
	"texengine/streamio"
)

// Image is a codec-side handle that either owns or borrows pixel/palette
// bytes NativeImage entity.
type Image struct {
	lock sync.RWMutex

	eng     *engine.Engine
	desc    *CodecDescriptor
	payload any

	hasPaletteDataRef bool
	hasPixelDataRef   bool
	pixelOwner        *raster.Raster
	externalRasterRef bool
}

// TypeName returns the codec's registered type name (e.g. "TIFF").
// Immutable after construction, so no lock is needed.
func (img *Image) TypeName() string {
	return img.desc.TypeName
}

// RecommendedNativeTextureTarget delegates to the codec's
// GetBestSupportedNativeTexture, under a read lock.
func (img *Image) RecommendedNativeTextureTarget() string {
	img.lock.RLock()
	defer img.lock.RUnlock()

	return img.desc.TypeMan.GetBestSupportedNativeTexture(img.payload)
}

// Engine returns the engine this image was created from.
func (img *Image) Engine() *engine.Engine {
	return img.eng
}

// clearImageData releases all color data and any raster reference,
// restoring the four ownership fields to their empty state. Must be called
// under the image's write lock invariant.
func (img *Image) clearImageData() {
	typeMan := img.desc.TypeMan

	typeMan.ClearPaletteData(img.payload, !img.hasPaletteDataRef)
	typeMan.ClearImageData(img.payload, !img.hasPixelDataRef)

	img.hasPaletteDataRef = false
	img.hasPixelDataRef = false

	if owner := img.pixelOwner; owner != nil {
		if !img.externalRasterRef {
			owner.RemConstRef()
		}
		owner.Delete()
		img.pixelOwner = nil
	}

	img.externalRasterRef = false
}

// ClearImageData is the exported, locking form of clearImageData. It is
// idempotent
func (img *Image) ClearImageData() {
	img.lock.Lock()
	defer img.lock.Unlock()

	img.clearImageData()
}

// fetchFromRasterInternal performs the codec call and updates the
// ownership fields; it does not itself acquire any lock. raster must
// already be read-locked (or otherwise known immutable) by the caller.
func fetchFromRasterInternal(img *Image, r *raster.Raster, nativeTexName string) (needsRef bool, err error) {
	nativeTex, _ := r.PlatformData()
	if nativeTex == nil {
		return false, fmt.Errorf("nativeimage: raster has no native data: %w", engine.ErrInvalidArgument)
	}

	feedback, err := img.desc.TypeMan.ReadFromNativeTexture(img.payload, nativeTexName, nativeTex)
	if err != nil {
		return false, err
	}

	img.hasPaletteDataRef = feedback.HasDirectlyAcquiredPalette
	img.hasPixelDataRef = feedback.HasDirectlyAcquired

	if feedback.HasDirectlyAcquiredPalette || feedback.HasDirectlyAcquired {
		img.pixelOwner = r.Acquire()
		return true, nil
	}

	return false, nil
}

// FetchFromRaster pulls pixel data from r into img, borrowing r's bytes
// directly when the codec's direct-acquire feedback allows it. Locking
// order is fixed: image write-lock, then raster read-lock
func (img *Image) FetchFromRaster(r *raster.Raster) error {
	img.lock.Lock()
	defer img.lock.Unlock()

	img.clearImageData()

	r.AddConstRef()

	needsRef := false
	var err error
	func() {
		r.Lock().RLock()
		defer r.Lock().RUnlock()

		needsRef, err = fetchFromRasterInternal(img, r, r.NativeDataTypeName())
		img.externalRasterRef = false
	}()

	if err != nil {
		r.RemConstRef()
		return err
	}

	if !needsRef {
		r.RemConstRef()
	}

	return nil
}

// FetchFromRasterNoLock is FetchFromRaster's no-raster-lock variant: the
// caller must already hold r's read lock and have added a const reference
// before calling. needsRef reports whether the image borrowed r's bytes;
// if true the caller must leave its const reference in place (ownership of
// that reference transfers to img's externalRasterRef bookkeeping).
func (img *Image) FetchFromRasterNoLock(r *raster.Raster, nativeTexName string) (needsRef bool, err error) {
	img.lock.Lock()
	defer img.lock.Unlock()

	img.clearImageData()

	needsRef, err = fetchFromRasterInternal(img, r, nativeTexName)
	img.externalRasterRef = true

	return needsRef, err
}

// PutToRaster pushes img's pixel data into r's platform payload through the
// codec's WriteToNativeTexture; it does not clear r's previous pixel data
// beforehand. It fails with engine.ErrAlreadyOwned if img currently borrows
// its bytes from some raster (including r itself): an image that already
// has a pixelOwner cannot be "moved" a second time without first being
// cleared.
func (img *Image) PutToRaster(r *raster.Raster) error {
	img.lock.Lock()
	defer img.lock.Unlock()

	if img.pixelOwner != nil {
		return fmt.Errorf("nativeimage: put to raster: %w", engine.ErrAlreadyOwned)
	}

	r.Lock().Lock()
	defer r.Lock().Unlock()

	return putToRasterInternal(img, r)
}

// PutToRasterNoLock is PutToRaster's variant for a caller that already
// holds r's write lock.
func (img *Image) PutToRasterNoLock(r *raster.Raster) error {
	img.lock.Lock()
	defer img.lock.Unlock()

	if img.pixelOwner != nil {
		return fmt.Errorf("nativeimage: put to raster: %w", engine.ErrAlreadyOwned)
	}

	return putToRasterInternal(img, r)
}

func putToRasterInternal(img *Image, r *raster.Raster) error {
	nativeTex, nativeTexName := r.PlatformData()
	if nativeTex == nil {
		return fmt.Errorf("nativeimage: no raster native data: %w", engine.ErrInvalidArgument)
	}

	feedback, err := img.desc.TypeMan.WriteToNativeTexture(img.payload, nativeTexName, nativeTex)
	if err != nil {
		return err
	}

	isPaletteRef := feedback.HasDirectlyAcquiredPalette
	isMipmapRef := feedback.HasDirectlyAcquired

	img.desc.TypeMan.ClearPaletteData(img.payload, !isPaletteRef)
	img.desc.TypeMan.ClearImageData(img.payload, !isMipmapRef)

	return nil
}

// WithPayload runs fn against img's own codec-specific payload under img's
// write lock, for a codec's own setter (e.g. a format's "build from
// already-decoded pixel data" helper) that needs to mutate the payload
// directly without going through ReadFromStream or a native-texture
// provider. fn's error, if any, is returned unchanged.
func (img *Image) WithPayload(fn func(payload any) error) error {
	img.lock.Lock()
	defer img.lock.Unlock()

	return fn(img.payload)
}

// ReadFromStream decodes s into img, replacing any previous data. On
// success img owns its bytes outright (both ref flags false). Stream
// position is not restored on error
func (img *Image) ReadFromStream(s streamio.Stream) error {
	img.lock.Lock()
	defer img.lock.Unlock()

	img.clearImageData()

	if err := img.desc.TypeMan.ReadNativeImage(img.payload, s); err != nil {
		return err
	}

	img.hasPaletteDataRef = false
	img.hasPixelDataRef = false

	return nil
}

// WriteToStream serializes img to s under a read lock. Stream position is
// not restored on error
func (img *Image) WriteToStream(s streamio.Stream) error {
	img.lock.RLock()
	defer img.lock.RUnlock()

	return img.desc.TypeMan.WriteNativeImage(img.payload, s)
}
