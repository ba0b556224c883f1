package nativeimage

import (
	"fmt"

	"texengine/engine"
	"texengine/streamio"
	"texengine/typesys"
)

// Registry holds the set of registered Native-Image codecs for one Engine.
// Registration, lookup, and ordered iteration are all typesys.Registry's
// job; each codec is one root type node whose Meta is its *CodecDescriptor
// and whose TypeInterface forwards to the codec's own TypeManager
// construct/copy/destroy methods.
type Registry struct {
	types *typesys.Registry
}

// NewRegistry creates an empty codec registry.
func NewRegistry() *Registry {
	return &Registry{types: typesys.NewRegistry()}
}

// RegisterCodec adds desc to the registry. It swallows a duplicate-name
// registration and reports it via the returned bool rather than an error,
// "codec registration swallows TypeNameConflict" rule.
func (reg *Registry) RegisterCodec(desc *CodecDescriptor) bool {
	iface := typesys.TypeInterface{
		Construct: func(params any) (any, error) {
			return desc.TypeMan.ConstructImage()
		},
		Copy: func(src any) (any, error) {
			return desc.TypeMan.CopyConstructImage(src)
		},
		Destroy: func(payload any) {
			desc.TypeMan.DestroyImage(payload)
		},
	}

	_, err := reg.types.RegisterCommonTypeInterface(desc.TypeName, iface, nil, desc)
	return err == nil
}

// UnregisterCodec removes a codec by name. It reports whether a codec with
// that name was found and removed.
func (reg *Registry) UnregisterCodec(typeName string) bool {
	t := reg.types.FindTypeInfo(typeName, nil)
	if t == nil {
		return false
	}
	reg.types.DeleteType(t)
	return true
}

func (reg *Registry) descriptor(typeName string) (*CodecDescriptor, bool) {
	t := reg.types.FindTypeInfo(typeName, nil)
	if t == nil {
		return nil, false
	}
	desc, ok := t.Meta.(*CodecDescriptor)
	return desc, ok
}

// CreateNativeImage looks up typeName and constructs a fresh, empty Image
// handle. It fails with engine.ErrUnknownFormat if typeName is not
// registered.
func (reg *Registry) CreateNativeImage(eng *engine.Engine, typeName string) (*Image, error) {
	t := reg.types.FindTypeInfo(typeName, nil)
	if t == nil {
		return nil, fmt.Errorf("nativeimage: create %q: %w", typeName, engine.ErrUnknownFormat)
	}

	desc, ok := t.Meta.(*CodecDescriptor)
	if !ok {
		return nil, fmt.Errorf("nativeimage: create %q: %w", typeName, engine.ErrUnknownFormat)
	}

	payload, err := reg.types.Construct(t, nil)
	if err != nil {
		return nil, fmt.Errorf("nativeimage: construct %q: %w", typeName, err)
	}

	return &Image{eng: eng, desc: desc, payload: payload}, nil
}

// DeleteNativeImage destroys img's payload through its codec. A handle
// whose type cannot be recovered emits a warning and returns without
// aborting -- in this Go encoding that case cannot arise (the desc pointer
// is always valid on a live *Image), so this is purely the symmetric
// counterpart to CreateNativeImage.
func (reg *Registry) DeleteNativeImage(eng *engine.Engine, img *Image) {
	if img == nil || img.desc == nil {
		eng.Warn("invalid native image handle passed to DeleteNativeImage")
		return
	}

	img.lock.Lock()
	img.clearImageData()
	img.lock.Unlock()

	img.desc.TypeMan.DestroyImage(img.payload)
}

// GetNativeImageTypeForStream probes every registered codec, in
// registration order, and returns the type name of the first that accepts
// the stream's current position. The stream position is always restored,
// on every path, including a no-match result.
func (reg *Registry) GetNativeImageTypeForStream(s streamio.Stream) (string, error) {
	for _, t := range reg.types.Types() {
		desc, ok := t.Meta.(*CodecDescriptor)
		if !ok {
			continue
		}

		var matched bool
		ok, err := streamio.Probe(s, func() (bool, error) {
			return desc.TypeMan.IsStreamNativeImage(s)
		})
		if err != nil {
			return "", err
		}
		matched = ok

		if matched {
			return desc.TypeName, nil
		}
	}

	return "", nil
}

// GetNativeImageTypesForNativeTexture returns the names of every
// registered codec that declares support for nativeTexName.
func (reg *Registry) GetNativeImageTypesForNativeTexture(nativeTexName string) []string {
	var out []string
	for _, t := range reg.types.Types() {
		desc, ok := t.Meta.(*CodecDescriptor)
		if !ok {
			continue
		}
		if desc.supportsNativeTexture(nativeTexName) {
			out = append(out, desc.TypeName)
		}
	}
	return out
}

// DoesNativeImageSupportNativeTextureFriendly reports whether the codec
// named imageName declares support for nativeTexName.
func (reg *Registry) DoesNativeImageSupportNativeTextureFriendly(imageName, nativeTexName string) bool {
	desc, ok := reg.descriptor(imageName)
	if !ok {
		return false
	}
	return desc.supportsNativeTexture(nativeTexName)
}

// GetNativeImageTypeNameFromFriendlyName reverse-looks-up a codec's type
// name from its friendly name.
func (reg *Registry) GetNativeImageTypeNameFromFriendlyName(friendly string) (string, bool) {
	for _, t := range reg.types.Types() {
		desc, ok := t.Meta.(*CodecDescriptor)
		if !ok {
			continue
		}
		if desc.FriendlyName == friendly {
			return desc.TypeName, true
		}
	}
	return "", false
}

// ImageFormatInfo is the per-format metadata GetNativeImageInfo and
// GetRegisteredNativeImageTypes expose.
type ImageFormatInfo struct {
	TypeName       string
	FriendlyName   string
	FileExtensions []FileExtension
}

// GetNativeImageInfo returns format-specific metadata for a registered
// codec by type name.
func (reg *Registry) GetNativeImageInfo(typeName string) (ImageFormatInfo, bool) {
	desc, ok := reg.descriptor(typeName)
	if !ok {
		return ImageFormatInfo{}, false
	}

	return ImageFormatInfo{
		TypeName:       desc.TypeName,
		FriendlyName:   desc.FriendlyName,
		FileExtensions: desc.FileExtensions,
	}, true
}

// GetRegisteredNativeImageTypes returns metadata for every registered
// codec, in registration order.
func (reg *Registry) GetRegisteredNativeImageTypes() []ImageFormatInfo {
	types := reg.types.Types()
	out := make([]ImageFormatInfo, 0, len(types))
	for _, t := range types {
		desc, ok := t.Meta.(*CodecDescriptor)
		if !ok {
			continue
		}
		out = append(out, ImageFormatInfo{
			TypeName:       desc.TypeName,
			FriendlyName:   desc.FriendlyName,
			FileExtensions: desc.FileExtensions,
		})
	}
	return out
}
