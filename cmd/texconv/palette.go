package main

import (
	"fmt"
	"os"

	"texengine/codec/pvrtc"
	"texengine/streamio"
)

// runPalette exports a palettised TIFF's colormap as a sibling RIFF .pal
// file, exercising codec/pvrtc's optional palette-interchange path. It
// reads src directly through the toolkit's own tiff.Codec rather than the
// Native-Image registry, since inspecting a decoded palette isn't part of
// the registry's codec-neutral contract.
func runPalette(tk *toolkit, src, dst string) error {
	srcStream, err := streamio.OpenFileStream(src, os.O_RDONLY, 0)
	if err != nil {
		return fmt.Errorf("palette: %w", err)
	}
	defer srcStream.Close()

	c := tk.tiff
	payload, err := c.ConstructImage()
	if err != nil {
		return fmt.Errorf("palette: %w", err)
	}

	if err := c.ReadNativeImage(payload, srcStream); err != nil {
		return fmt.Errorf("palette: decode %s: %w", src, err)
	}

	paletteType, paletteData := c.PaletteOf(payload)
	if paletteData == nil {
		return fmt.Errorf("palette: %s has no palette", src)
	}

	dstStream, err := streamio.OpenFileStream(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("palette: %w", err)
	}
	defer dstStream.Close()

	if err := pvrtc.ExportPalette(dstStream, paletteType, paletteData); err != nil {
		return fmt.Errorf("palette: export: %w", err)
	}

	return nil
}
