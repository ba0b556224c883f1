// Package pvrtc implements the PowerVR Texture Compression platform texture
// provider: a struct block of name/maskName/mipmap-count metadata followed
// by per-mipmap size-prefixed compressed texel data, with block-aligned
// 2bpp/4bpp RGB/RGBA variants.
//
// A real PVRTC encoder performs weighted-endpoint texel compression with a
// proprietary toolchain; this codec instead compresses with a block-average
// quantization scheme (see compress.go) that targets the same bit budget and
// block geometry but is not bit-compatible with a real PVRTC encoder -- the
// serialize/deserialize struct block and the compressed-size accounting it
// produces are what this module guarantees byte-exactly, not the texel
// reconstruction math. See DESIGN.md.
package pvrtc

import (
	"encoding/binary"
	"io"

	"texengine/engine"
	"texengine/nativetexture"
	"texengine/streamio"
)

const platformDescriptorPVR = 5 // PLATFORM_PVR, per the struct-block probe

// InternalFormat names one of the four PVRTC variants this codec supports.
type InternalFormat int

const (
	FormatRGB2BPP InternalFormat = iota
	FormatRGB4BPP
	FormatRGBA2BPP
	FormatRGBA4BPP
)

// blockGeometry is the per-format block width/height/bits-per-pixel table.
type blockGeometry struct {
	blockW, blockH int
	depth          int
	hasAlpha       bool
}

var geometryTable = map[InternalFormat]blockGeometry{
	FormatRGB2BPP:  {16, 8, 2, false},
	FormatRGB4BPP:  {8, 8, 4, false},
	FormatRGBA2BPP: {16, 8, 2, true},
	FormatRGBA4BPP: {8, 8, 4, true},
}

func (f InternalFormat) geometry() blockGeometry { return geometryTable[f] }

func (f InternalFormat) String() string {
	switch f {
	case FormatRGB2BPP:
		return "PVR RGB 2bit"
	case FormatRGB4BPP:
		return "PVR RGB 4bit"
	case FormatRGBA2BPP:
		return "PVR RGBA 2bit"
	case FormatRGBA4BPP:
		return "PVR RGBA 4bit"
	default:
		return "PVR unknown"
	}
}

// alignToBlock rounds dim up to the next multiple of blockDim, per
// `ceil(logicalDim / blockDim)·blockDim`.
func alignToBlock(dim, blockDim int) int {
	if blockDim <= 0 {
		return dim
	}
	return (dim + blockDim - 1) / blockDim * blockDim
}

// MaxBlockDimensions returns the widest block geometry across every
// InternalFormat variant this codec supports: the alignment a caller must
// round up to before acquire time if it wants to guarantee no format this
// codec could pick will need further padding. chooseInternalFormat decides
// the actual per-texture format later, by width/height/alpha, not by this
// worst-case figure -- SetPixelDataToTexture still re-aligns to the chosen
// format's own (possibly smaller) block size regardless.
func MaxBlockDimensions() (width, height int) {
	for _, geom := range geometryTable {
		if geom.blockW > width {
			width = geom.blockW
		}
		if geom.blockH > height {
			height = geom.blockH
		}
	}
	return width, height
}

// mipLevel is one compressed mipmap layer.
type mipLevel struct {
	layerWidth, layerHeight int // logical dimensions
	texels                  []byte
}

// texture is the provider's opaque per-instance payload.
type texture struct {
	name, maskName string
	unk1, unk8     uint32
	hasAlpha       bool
	internalFormat InternalFormat
	mipmaps        []mipLevel
}

// Provider implements nativetexture.Provider for PVR texture blocks. eng is
// used only to surface non-fatal warnings, e.g. a truncated texture name.
type Provider struct {
	eng *engine.Engine
}

// New creates a PVR provider bound to eng for warning dispatch.
func New(eng *engine.Engine) Provider {
	return Provider{eng: eng}
}

var _ nativetexture.Provider = Provider{}

func (Provider) Name() string { return "PVR" }

func (p Provider) IsCompatibleTextureBlock(s streamio.Stream) (nativetexture.Compatibility, error) {
	var buf [4]byte
	if _, err := io.ReadFull(s, buf[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nativetexture.CompatNone, nil
		}
		return nativetexture.CompatNone, err
	}

	if binary.LittleEndian.Uint32(buf[:]) == platformDescriptorPVR {
		return nativetexture.CompatAbsolute, nil
	}
	return nativetexture.CompatNone, nil
}
