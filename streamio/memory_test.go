package streamio

import (
	"bytes"
	"testing"
)

func TestMemoryStreamReadWrite(t *testing.T) {
	s := NewMemoryStream(nil)

	n, err := s.Write([]byte("hello"))
	if err != nil || n != 5 {
		t.Fatalf("Write = %d, %v, want 5, nil", n, err)
	}

	if _, err := s.Seek(0, SeekBeg); err != nil {
		t.Fatalf("Seek: %v", err)
	}

	buf := make([]byte, 5)
	if n, err := s.Read(buf); err != nil || n != 5 {
		t.Fatalf("Read = %d, %v, want 5, nil", n, err)
	}
	if !bytes.Equal(buf, []byte("hello")) {
		t.Errorf("Read content = %q, want %q", buf, "hello")
	}
}

func TestMemoryStreamSeekWhence(t *testing.T) {
	s := NewMemoryStream([]byte("0123456789"))

	tests := []struct {
		name    string
		offset  int64
		whence  Whence
		want    int64
	}{
		{name: "from beginning", offset: 3, whence: SeekBeg, want: 3},
		{name: "from end", offset: -2, whence: SeekEnd, want: 8},
		{name: "from current", offset: 1, whence: SeekCur, want: 9},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.Seek(tc.offset, tc.whence)
			if err != nil {
				t.Fatalf("Seek: %v", err)
			}
			if got != tc.want {
				t.Errorf("Seek(%d, %v) = %d, want %d", tc.offset, tc.whence, got, tc.want)
			}
		})
	}
}

func TestMemoryStreamNegativeSeekFails(t *testing.T) {
	s := NewMemoryStream([]byte("abc"))
	if _, err := s.Seek(-5, SeekBeg); err == nil {
		t.Error("Seek to negative position should fail")
	}
}

func TestMemoryStreamWritePastEndGrows(t *testing.T) {
	s := NewMemoryStream([]byte("ab"))
	if _, err := s.Seek(0, SeekEnd); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if _, err := s.Write([]byte("cd")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.Equal(s.Bytes(), []byte("abcd")) {
		t.Errorf("Bytes() = %q, want %q", s.Bytes(), "abcd")
	}
}

func TestProbeRestoresPosition(t *testing.T) {
	s := NewMemoryStream([]byte("0123456789"))
	if _, err := s.Seek(4, SeekBeg); err != nil {
		t.Fatalf("Seek: %v", err)
	}

	ok, err := Probe(s, func() (bool, error) {
		if _, err := s.Seek(2, SeekCur); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil || !ok {
		t.Fatalf("Probe = %v, %v, want true, nil", ok, err)
	}

	pos, err := s.Tell()
	if err != nil {
		t.Fatalf("Tell: %v", err)
	}
	if pos != 4 {
		t.Errorf("position after Probe = %d, want 4", pos)
	}
}

func TestProbeRestoresPositionOnError(t *testing.T) {
	s := NewMemoryStream([]byte("0123456789"))
	if _, err := s.Seek(4, SeekBeg); err != nil {
		t.Fatalf("Seek: %v", err)
	}

	wantErr := bytes.ErrTooLarge
	_, err := Probe(s, func() (bool, error) {
		if _, err := s.Seek(2, SeekCur); err != nil {
			return false, err
		}
		return false, wantErr
	})
	if err != wantErr {
		t.Fatalf("Probe error = %v, want %v", err, wantErr)
	}

	pos, _ := s.Tell()
	if pos != 4 {
		t.Errorf("position after failed Probe = %d, want 4", pos)
	}
}
