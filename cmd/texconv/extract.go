package main

import (
	"fmt"
	"os"

	"texengine/raster"
	"texengine/streamio"
)

// runExtract deserializes a PVRTC texture block, hands it to a fresh TIFF
// Native-Image handle via the Raster's platform-data path (the same
// FetchFromRaster a host would call for any codec/platform pairing), and
// writes the TIFF codec's own encoding of those pixels to dst.
func runExtract(tk *toolkit, src, dst string) error {
	srcStream, err := streamio.OpenFileStream(src, os.O_RDONLY, 0)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	defer srcStream.Close()

	payload, err := tk.pvr.DeserializeTexture(srcStream)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	r := raster.New(0, 0, 0, 0)
	func() {
		r.Lock().Lock()
		defer r.Lock().Unlock()
		r.SetPlatformData(tk.pvr.Name(), payload)
	}()

	img, err := tk.images.CreateNativeImage(tk.eng, "TIFF")
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	defer tk.images.DeleteNativeImage(tk.eng, img)

	if err := img.FetchFromRaster(r); err != nil {
		return fmt.Errorf("extract: fetch from raster: %w", err)
	}

	dstStream, err := streamio.OpenFileStream(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	defer dstStream.Close()

	if err := img.WriteToStream(dstStream); err != nil {
		return fmt.Errorf("extract: write: %w", err)
	}

	return nil
}
