package pvrtc

import (
	"encoding/binary"
	"fmt"
	"io"

	"texengine/engine"
	"texengine/streamio"
)

const nameFieldSize = 32

var order = binary.LittleEndian

func writeFixedString(buf []byte, s string) (truncated bool) {
	if len(s) > len(buf) {
		s = s[:len(buf)]
		truncated = true
	}
	copy(buf, s)
	for i := len(s); i < len(buf); i++ {
		buf[i] = 0
	}
	return truncated
}

func readFixedString(buf []byte) string {
	n := 0
	for n < len(buf) && buf[n] != 0 {
		n++
	}
	return string(buf[:n])
}

// SerializeTexture writes payload's struct block: platform descriptor,
// format info, name/maskName, mipmap count, unk1, hasAlpha, base
// width/height, internal format, image-data stream size, unk8, per-mip
// sizes, then mip texel bytes concatenated --
func (p Provider) SerializeTexture(s streamio.Stream, payload any) error {
	t, ok := payload.(*texture)
	if !ok {
		return fmt.Errorf("pvrtc: serialize: %w", engine.ErrInvalidArgument)
	}
	if len(t.mipmaps) == 0 {
		return fmt.Errorf("pvrtc: serialize: no mipmap layers: %w", engine.ErrInvalidArgument)
	}

	var nameBuf, maskBuf [nameFieldSize]byte
	if writeFixedString(nameBuf[:], t.name) && p.eng != nil {
		p.eng.Warn("pvrtc: texture name truncated to fit name field", "name", t.name)
	}
	if writeFixedString(maskBuf[:], t.maskName) && p.eng != nil {
		p.eng.Warn("pvrtc: mask name truncated to fit name field", "name", t.maskName)
	}

	var imageDataSize uint32
	for _, m := range t.mipmaps {
		imageDataSize += uint32(len(m.texels)) + 4
	}

	if err := writeUint32(s, platformDescriptorPVR); err != nil {
		return err
	}
	if err := writeUint32(s, 0); err != nil { // format info, opaque/unused by this codec
		return err
	}
	if _, err := s.Write(nameBuf[:]); err != nil {
		return err
	}
	if _, err := s.Write(maskBuf[:]); err != nil {
		return err
	}
	if _, err := s.Write([]byte{byte(len(t.mipmaps))}); err != nil {
		return err
	}
	if err := writeUint32(s, t.unk1); err != nil {
		return err
	}
	if _, err := s.Write([]byte{boolByte(t.hasAlpha)}); err != nil {
		return err
	}
	if _, err := s.Write([]byte{0, 0}); err != nil { // pad
		return err
	}
	if err := writeUint32(s, uint32(t.mipmaps[0].layerWidth)); err != nil {
		return err
	}
	if err := writeUint32(s, uint32(t.mipmaps[0].layerHeight)); err != nil {
		return err
	}
	if err := writeUint32(s, uint32(t.internalFormat)); err != nil {
		return err
	}
	if err := writeUint32(s, imageDataSize); err != nil {
		return err
	}
	if err := writeUint32(s, t.unk8); err != nil {
		return err
	}

	for _, m := range t.mipmaps {
		if err := writeUint32(s, uint32(len(m.texels))); err != nil {
			return err
		}
	}
	for _, m := range t.mipmaps {
		if _, err := s.Write(m.texels); err != nil {
			return err
		}
	}

	return nil
}

// DeserializeTexture is SerializeTexture's inverse.
func (p Provider) DeserializeTexture(s streamio.Stream) (any, error) {
	var descriptor, formatInfo uint32
	var err error

	if descriptor, err = readUint32(s); err != nil {
		return nil, err
	}
	if descriptor != platformDescriptorPVR {
		return nil, fmt.Errorf("pvrtc: deserialize: not a PVR block: %w", engine.ErrStreamMalformed)
	}
	if formatInfo, err = readUint32(s); err != nil {
		return nil, err
	}
	_ = formatInfo

	var nameBuf, maskBuf [nameFieldSize]byte
	if _, err := io.ReadFull(s, nameBuf[:]); err != nil {
		return nil, fmt.Errorf("pvrtc: deserialize: %w", engine.ErrStreamTruncated)
	}
	if _, err := io.ReadFull(s, maskBuf[:]); err != nil {
		return nil, fmt.Errorf("pvrtc: deserialize: %w", engine.ErrStreamTruncated)
	}

	var countBuf [1]byte
	if _, err := io.ReadFull(s, countBuf[:]); err != nil {
		return nil, fmt.Errorf("pvrtc: deserialize: %w", engine.ErrStreamTruncated)
	}
	mipmapCount := int(countBuf[0])

	unk1, err := readUint32(s)
	if err != nil {
		return nil, err
	}

	var alphaBuf [3]byte
	if _, err := io.ReadFull(s, alphaBuf[:]); err != nil {
		return nil, fmt.Errorf("pvrtc: deserialize: %w", engine.ErrStreamTruncated)
	}
	hasAlpha := alphaBuf[0] != 0

	width, err := readUint32(s)
	if err != nil {
		return nil, err
	}
	height, err := readUint32(s)
	if err != nil {
		return nil, err
	}
	internalFormatRaw, err := readUint32(s)
	if err != nil {
		return nil, err
	}
	if _, err := readUint32(s); err != nil { // imageDataStreamSize, recomputed on re-serialize
		return nil, err
	}
	unk8, err := readUint32(s)
	if err != nil {
		return nil, err
	}

	if mipmapCount <= 0 {
		return nil, fmt.Errorf("pvrtc: deserialize: zero mipmaps: %w", engine.ErrStreamMalformed)
	}

	sizes := make([]uint32, mipmapCount)
	for i := range sizes {
		sizes[i], err = readUint32(s)
		if err != nil {
			return nil, err
		}
	}

	format := InternalFormat(internalFormatRaw)
	geom := format.geometry()

	mipmaps := make([]mipLevel, mipmapCount)
	w, h := int(width), int(height)
	for i := range sizes {
		buf := make([]byte, sizes[i])
		if _, err := io.ReadFull(s, buf); err != nil {
			return nil, fmt.Errorf("pvrtc: deserialize: mip %d: %w", i, engine.ErrStreamTruncated)
		}
		mipmaps[i] = mipLevel{layerWidth: w, layerHeight: h, texels: buf}

		w /= 2
		h /= 2
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		_ = geom
	}

	return &texture{
		name:           readFixedString(nameBuf[:]),
		maskName:       readFixedString(maskBuf[:]),
		unk1:           unk1,
		unk8:           unk8,
		hasAlpha:       hasAlpha,
		internalFormat: format,
		mipmaps:        mipmaps,
	}, nil
}

func writeUint32(s streamio.Stream, v uint32) error {
	var buf [4]byte
	order.PutUint32(buf[:], v)
	_, err := s.Write(buf[:])
	return err
}

func readUint32(s streamio.Stream) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(s, buf[:]); err != nil {
		return 0, fmt.Errorf("pvrtc: %w", engine.ErrStreamTruncated)
	}
	return order.Uint32(buf[:]), nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
