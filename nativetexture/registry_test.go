package nativetexture

import (
	"testing"

	"texengine/pixelformat"
	"texengine/streamio"
)

type fakeProvider struct{ name string }

func (f fakeProvider) Name() string { return f.name }
func (f fakeProvider) IsCompatibleTextureBlock(s streamio.Stream) (Compatibility, error) {
	return CompatNone, nil
}
func (f fakeProvider) SerializeTexture(s streamio.Stream, payload any) error   { return nil }
func (f fakeProvider) DeserializeTexture(s streamio.Stream) (any, error)      { return nil, nil }
func (f fakeProvider) GetPixelDataFromTexture(payload any) (PixelDataTraversal, error) {
	return PixelDataTraversal{}, nil
}
func (f fakeProvider) SetPixelDataToTexture(payload any, data PixelDataTraversal) (AcquireFeedback, error) {
	return AcquireFeedback{}, nil
}
func (f fakeProvider) UnsetPixelDataFromTexture(payload any, deallocate bool) {}
func (f fakeProvider) GetMipmapLayer(payload any, idx int) (RawMipmapLayer, error) {
	return RawMipmapLayer{}, nil
}
func (f fakeProvider) AddMipmapLayer(payload any, layer RawMipmapLayer) (AcquireFeedback, error) {
	return AcquireFeedback{}, nil
}
func (f fakeProvider) ClearMipmaps(payload any)                  {}
func (f fakeProvider) GetTextureInfo(payload any) TextureInfo    { return TextureInfo{} }
func (f fakeProvider) GetTextureFormatString(payload any) string { return f.name }

var _ Provider = fakeProvider{}

func TestProviderRegistryRegisterAndGet(t *testing.T) {
	r := NewProviderRegistry()

	if ok := r.Register(fakeProvider{name: "PVR"}); !ok {
		t.Fatal("first registration should succeed")
	}

	p, ok := r.Get("PVR")
	if !ok {
		t.Fatal("Get(PVR) should find the registered provider")
	}
	if p.Name() != "PVR" {
		t.Errorf("Name() = %q, want PVR", p.Name())
	}

	if _, ok := r.Get("DXT"); ok {
		t.Error("Get(DXT) should not find an unregistered provider")
	}
}

func TestProviderRegistryDuplicateNameRejected(t *testing.T) {
	r := NewProviderRegistry()

	if ok := r.Register(fakeProvider{name: "PVR"}); !ok {
		t.Fatal("first registration should succeed")
	}
	if ok := r.Register(fakeProvider{name: "PVR"}); ok {
		t.Error("second registration of the same name should fail")
	}
}

func TestNewMipmapAccessors(t *testing.T) {
	dims := pixelformat.Dimensions{Width: 4, Height: 4}
	raw := pixelformat.Dimensions{Width: 8, Height: 8}
	data := []byte{1, 2, 3, 4}

	m := NewMipmap(dims, raw, data)
	if m.MipmapDimensions() != dims {
		t.Errorf("MipmapDimensions() = %+v, want %+v", m.MipmapDimensions(), dims)
	}
	if m.MipmapRawDimensions() != raw {
		t.Errorf("MipmapRawDimensions() = %+v, want %+v", m.MipmapRawDimensions(), raw)
	}
	if string(m.MipmapData()) != string(data) {
		t.Errorf("MipmapData() = %v, want %v", m.MipmapData(), data)
	}
}
