package streamio

import (
	"fmt"
	"os"
)

// FileStream is a Stream backed by an *os.File, for hosts reading or
// writing texture files directly off disk (the temporary-repository /
// file-translator machinery that normally fronts this is out of core
// scope; this is the minimal concrete Stream a caller needs to hand a
// codec a real file).
type FileStream struct {
	f *os.File
}

// OpenFileStream opens name with flag/perm, as os.OpenFile does.
func OpenFileStream(name string, flag int, perm os.FileMode) (*FileStream, error) {
	f, err := os.OpenFile(name, flag, perm)
	if err != nil {
		return nil, fmt.Errorf("streamio: could not open %q: %w", name, err)
	}
	return &FileStream{f: f}, nil
}

// NewFileStream wraps an already-open file.
func NewFileStream(f *os.File) *FileStream {
	return &FileStream{f: f}
}

func (fs *FileStream) Read(p []byte) (int, error) {
	return fs.f.Read(p)
}

func (fs *FileStream) Write(p []byte) (int, error) {
	return fs.f.Write(p)
}

func (fs *FileStream) Seek(offset int64, whence Whence) (int64, error) {
	return fs.f.Seek(offset, whence.toIO())
}

func (fs *FileStream) Tell() (int64, error) {
	return fs.f.Seek(0, SeekCur.toIO())
}

func (fs *FileStream) Size() (int64, error) {
	info, err := fs.f.Stat()
	if err != nil {
		return 0, fmt.Errorf("streamio: could not stat: %w", err)
	}
	return info.Size(), nil
}

// Close closes the underlying file.
func (fs *FileStream) Close() error {
	return fs.f.Close()
}
