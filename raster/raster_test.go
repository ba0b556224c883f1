package raster

import (
	"testing"

	"texengine/pixelformat"
)

func TestSetMipmapsAndLayout(t *testing.T) {
	r := New(pixelformat.FormatRGBA8888, 32, 1, pixelformat.OrderRGBA)

	dims := pixelformat.Dimensions{Width: 4, Height: 4}
	data := make([]byte, 4*4*4)
	r.SetMipmaps(pixelformat.FormatRGBA8888, 32, 1, pixelformat.OrderRGBA, pixelformat.PaletteNone, nil, pixelformat.CompressionNone, true,
		[]Mipmap{{Dimensions: dims, RawDimensions: dims, Data: data}})

	if got := r.MipmapCount(); got != 1 {
		t.Fatalf("MipmapCount() = %d, want 1", got)
	}

	layout := r.Layout(0)
	if layout.LayerDimensions != dims {
		t.Errorf("Layout.LayerDimensions = %+v, want %+v", layout.LayerDimensions, dims)
	}
	if !layout.HasAlpha {
		t.Error("Layout.HasAlpha = false, want true")
	}
}

func TestPlatformData(t *testing.T) {
	r := New(pixelformat.FormatDefault, 0, 0, pixelformat.OrderRGBA)

	payload := struct{ x int }{x: 7}
	r.SetPlatformData("PVR", &payload)

	got, name := r.PlatformData()
	if name != "PVR" {
		t.Errorf("NativeDataTypeName = %q, want PVR", name)
	}
	if got.(*struct{ x int }) != &payload {
		t.Error("PlatformData did not return the installed payload")
	}
}

func TestClearDropsMipmapsAndPlatformData(t *testing.T) {
	r := New(pixelformat.FormatRGBA8888, 32, 1, pixelformat.OrderRGBA)
	r.SetPlatformData("PVR", "payload")
	r.SetMipmaps(pixelformat.FormatRGBA8888, 32, 1, pixelformat.OrderRGBA, pixelformat.PaletteNone, nil, pixelformat.CompressionNone, false,
		[]Mipmap{{Dimensions: pixelformat.Dimensions{Width: 1, Height: 1}, Data: []byte{0, 0, 0, 0}}})

	r.Clear()

	if r.MipmapCount() != 0 {
		t.Errorf("MipmapCount() after Clear = %d, want 0", r.MipmapCount())
	}
	if data, name := r.PlatformData(); data != nil || name != "" {
		t.Errorf("PlatformData after Clear = %v, %q, want nil, \"\"", data, name)
	}
}

func TestConstRefCount(t *testing.T) {
	r := New(pixelformat.FormatRGBA8888, 32, 1, pixelformat.OrderRGBA)

	r.AddConstRef()
	r.AddConstRef()
	if got := r.ConstRefCount(); got != 2 {
		t.Fatalf("ConstRefCount() = %d, want 2", got)
	}

	r.RemConstRef()
	if got := r.ConstRefCount(); got != 1 {
		t.Errorf("ConstRefCount() = %d, want 1", got)
	}
}

func TestRemConstRefPanicsBelowZero(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("RemConstRef below zero should panic")
		}
	}()

	r := New(pixelformat.FormatRGBA8888, 32, 1, pixelformat.OrderRGBA)
	r.RemConstRef()
}

func TestAcquireAndDelete(t *testing.T) {
	r := New(pixelformat.FormatRGBA8888, 32, 1, pixelformat.OrderRGBA)

	if r.Acquire() != r {
		t.Error("Acquire should return the same pointer")
	}

	if destroyed := r.Delete(); destroyed {
		t.Error("first Delete should not destroy: owner ref count still 1")
	}
	if destroyed := r.Delete(); !destroyed {
		t.Error("second Delete should destroy: owner ref count reached 0")
	}
}

func TestDeleteWithPendingConstRefDoesNotDestroy(t *testing.T) {
	r := New(pixelformat.FormatRGBA8888, 32, 1, pixelformat.OrderRGBA)
	r.AddConstRef()

	if destroyed := r.Delete(); destroyed {
		t.Error("Delete should not report destroyed while a const ref is pinned")
	}
}
