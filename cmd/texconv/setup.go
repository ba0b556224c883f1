package main

import (
	"texengine/codec/pvrtc"
	"texengine/codec/tiff"
	"texengine/engine"
	"texengine/nativeimage"
	"texengine/nativetexture"
)

// toolkit bundles the engine handle and the registries every subcommand
// needs: the Native-Image codec registry and the Native-Texture provider
// registry that codecs use to reach platform texture formats they don't
// import directly.
type toolkit struct {
	eng          *engine.Engine
	images       *nativeimage.Registry
	texProviders *nativetexture.ProviderRegistry
	pvr          pvrtc.Provider
	tiff         *tiff.Codec
}

func newToolkit() *toolkit {
	eng := engine.New()

	texProviders := nativetexture.NewProviderRegistry()
	pvrProvider := pvrtc.New(eng)
	texProviders.Register(pvrProvider)

	tiffCodec := tiff.New(texProviders)

	images := nativeimage.NewRegistry()
	images.RegisterCodec(tiffCodec.Descriptor())

	return &toolkit{eng: eng, images: images, texProviders: texProviders, pvr: pvrProvider, tiff: tiffCodec}
}
