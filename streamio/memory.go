package streamio

import (
	"fmt"
	"io"
)

// MemoryStream is a Stream backed by an in-memory byte slice, used by tests
// and by round-trip verification that wants a fresh, empty destination.
type MemoryStream struct {
	buf []byte
	pos int64
}

// NewMemoryStream wraps an existing byte slice for reading and writing.
// Writes past the end of buf grow it.
func NewMemoryStream(buf []byte) *MemoryStream {
	return &MemoryStream{buf: buf}
}

// Bytes returns the stream's current backing slice.
func (m *MemoryStream) Bytes() []byte {
	return m.buf
}

func (m *MemoryStream) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.buf)) {
		return 0, io.EOF
	}

	n := copy(p, m.buf[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *MemoryStream) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}

	n := copy(m.buf[m.pos:end], p)
	m.pos = end
	return n, nil
}

func (m *MemoryStream) Seek(offset int64, whence Whence) (int64, error) {
	var base int64
	switch whence {
	case SeekBeg:
		base = 0
	case SeekCur:
		base = m.pos
	case SeekEnd:
		base = int64(len(m.buf))
	default:
		return 0, fmt.Errorf("streamio: invalid whence %d", whence)
	}

	newPos := base + offset
	if newPos < 0 {
		return 0, fmt.Errorf("streamio: negative seek position %d", newPos)
	}

	m.pos = newPos
	return m.pos, nil
}

func (m *MemoryStream) Tell() (int64, error) {
	return m.pos, nil
}

func (m *MemoryStream) Size() (int64, error) {
	return int64(len(m.buf)), nil
}
