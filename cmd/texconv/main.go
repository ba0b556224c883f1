// Command texconv is the reference CLI for the texture-asset engine: probing
// a stream for its native-image type, converting a generic image into a
// PVRTC native texture, extracting a native texture's pixel data back out as
// a TIFF, and batch-converting a folder of images in parallel.
package main

import (
	"fmt"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"

	"github.com/alecthomas/kong"
)

type cli struct {
	Probe struct {
		File string `arg:"" help:"Stream to probe for its native-image type"`
	} `cmd:"" help:"Print the detected native-image type name for a file"`

	Convert struct {
		Target string `help:"PVRTC target; an rgba value forces an alpha channel (images with transparency get one regardless), and the bit rate is chosen from the image size" enum:"pvrtc-rgba-4bpp,pvrtc-rgba-2bpp,pvrtc-rgb-4bpp,pvrtc-rgb-2bpp" default:"pvrtc-rgba-4bpp"`
		Src    string `arg:"" help:"Source image, any stdlib/x-image decodable format"`
		Dst    string `arg:"" help:"Destination PVRTC texture file"`
	} `cmd:"" help:"Convert a generic image into a PVRTC native texture"`

	Extract struct {
		Src string `arg:"" help:"Source PVRTC texture file"`
		Dst string `arg:"" help:"Destination TIFF file"`
	} `cmd:"" help:"Extract a PVRTC native texture's pixel data as TIFF"`

	Batch struct {
		Scan    string `help:"Source folder to scan" default:"."`
		Dest    string `help:"Destination folder for converted textures" default:"converted"`
		Target  string `help:"PVRTC target; an rgba value forces an alpha channel (images with transparency get one regardless), and the bit rate is chosen from the image size" enum:"pvrtc-rgba-4bpp,pvrtc-rgba-2bpp,pvrtc-rgb-4bpp,pvrtc-rgb-2bpp" default:"pvrtc-rgba-4bpp"`
		Workers int    `help:"Worker pool size, 0 means GOMAXPROCS" default:"0"`
	} `cmd:"" help:"Convert every image in a folder to PVRTC in parallel"`

	Palette struct {
		Src string `arg:"" help:"Palettised source TIFF"`
		Dst string `arg:"" help:"Destination RIFF .pal file"`
	} `cmd:"" help:"Export a palettised TIFF's colormap as a RIFF .pal file"`
}

func main() {
	var c cli
	kctx := kong.Parse(&c, kong.Name("texconv"), kong.Description("texture-asset engine CLI"))

	tk := newToolkit()

	var err error
	switch kctx.Command() {
	case "probe <file>":
		err = runProbe(tk, c.Probe.File)
	case "convert <src> <dst>":
		err = runConvert(tk, c.Convert.Target, c.Convert.Src, c.Convert.Dst)
	case "extract <src> <dst>":
		err = runExtract(tk, c.Extract.Src, c.Extract.Dst)
	case "batch":
		err = runBatch(tk, c.Batch.Scan, c.Batch.Dest, c.Batch.Target, c.Batch.Workers)
	case "palette <src> <dst>":
		err = runPalette(tk, c.Palette.Src, c.Palette.Dst)
	default:
		err = fmt.Errorf("unhandled command: %s", kctx.Command())
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
