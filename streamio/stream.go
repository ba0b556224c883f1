// Package streamio is the byte-stream abstraction codecs read and write
// through: read/write/seek/tell/size over files, memory, or whatever filter
// stream a host layers in front (stream-compression plug-ins are out of
// core scope; they hand the core an already-decoded Stream).
package streamio

import "io"

// Whence mirrors io.Seeker's constants under platform-neutral names.
type Whence int

const (
	SeekBeg Whence = iota
	SeekCur
	SeekEnd
)

func (w Whence) toIO() int {
	switch w {
	case SeekCur:
		return io.SeekCurrent
	case SeekEnd:
		return io.SeekEnd
	default:
		return io.SeekStart
	}
}

// Stream is the minimal byte-stream contract every codec in this module
// consumes. Short reads/writes are permitted; callers must check the
// returned count against what they asked for.
type Stream interface {
	Read(buf []byte) (n int, err error)
	Write(buf []byte) (n int, err error)
	Seek(offset int64, whence Whence) (int64, error)
	Tell() (int64, error)
	Size() (int64, error)
}

// Probe saves the stream's current position, runs fn, and restores the
// position regardless of fn's outcome -- the pattern every probe routine in
// this package follows.
func Probe(s Stream, fn func() (bool, error)) (bool, error) {
	pos, err := s.Tell()
	if err != nil {
		return false, err
	}

	ok, err := fn()

	if _, seekErr := s.Seek(pos, SeekBeg); seekErr != nil && err == nil {
		err = seekErr
	}

	return ok, err
}
