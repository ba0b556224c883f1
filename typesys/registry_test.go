package typesys

import (
	"errors"
	"testing"

	"texengine/engine"
)

func TestRegisterAndFind(t *testing.T) {
	r := NewRegistry()

	base, err := r.RegisterCommonTypeInterface("base", TypeInterface{
		Construct: func(any) (any, error) { return "base-payload", nil },
	}, nil, nil)
	if err != nil {
		t.Fatalf("RegisterCommonTypeInterface(base): %v", err)
	}

	child, err := r.RegisterCommonTypeInterface("child", TypeInterface{
		Construct: func(any) (any, error) { return "child-payload", nil },
	}, base, nil)
	if err != nil {
		t.Fatalf("RegisterCommonTypeInterface(child): %v", err)
	}

	if got := r.FindTypeInfo("child", nil); got != child {
		t.Error("FindTypeInfo(child, nil) should find child")
	}
	if got := r.FindTypeInfo("child", base); got != child {
		t.Error("FindTypeInfo(child, base) should find child since it is a subtype")
	}
	if got := r.FindTypeInfo("base", child); got != nil {
		t.Error("FindTypeInfo(base, child) should fail: base is not a subtype of child")
	}
	if got := r.FindTypeInfo("missing", nil); got != nil {
		t.Error("FindTypeInfo for an unregistered name should return nil")
	}
}

func TestRegisterDuplicateNameConflicts(t *testing.T) {
	r := NewRegistry()
	if _, err := r.RegisterCommonTypeInterface("dup", TypeInterface{}, nil, nil); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := r.RegisterCommonTypeInterface("dup", TypeInterface{}, nil, nil)
	if !errors.Is(err, engine.ErrTypeNameConflict) {
		t.Errorf("second register error = %v, want ErrTypeNameConflict", err)
	}
}

func TestIsSubtypeOf(t *testing.T) {
	r := NewRegistry()
	root, _ := r.RegisterCommonTypeInterface("root", TypeInterface{}, nil, nil)
	mid, _ := r.RegisterCommonTypeInterface("mid", TypeInterface{}, root, nil)
	leaf, _ := r.RegisterCommonTypeInterface("leaf", TypeInterface{}, mid, nil)

	if !leaf.IsSubtypeOf(root) {
		t.Error("leaf should be a subtype of root through mid")
	}
	if root.IsSubtypeOf(leaf) {
		t.Error("root should not be a subtype of leaf")
	}
	if !leaf.IsSubtypeOf(leaf) {
		t.Error("a type should be a subtype of itself")
	}
}

func TestNewHandleAndDestroy(t *testing.T) {
	r := NewRegistry()

	destroyed := false
	ty, _ := r.RegisterCommonTypeInterface("widget", TypeInterface{
		Construct: func(any) (any, error) { return &struct{ n int }{n: 42}, nil },
		Destroy:   func(any) { destroyed = true },
	}, nil, nil)

	h, err := r.NewHandle(ty, nil)
	if err != nil {
		t.Fatalf("NewHandle: %v", err)
	}
	if h.TypeOf() != ty {
		t.Error("TypeOf should recover the originating TypeInfo")
	}

	r.DestroyHandle(h)
	if !destroyed {
		t.Error("DestroyHandle should have invoked the type's Destroy")
	}
}

func TestConstructWithoutConstructorFails(t *testing.T) {
	r := NewRegistry()
	ty, _ := r.RegisterCommonTypeInterface("bare", TypeInterface{}, nil, nil)

	if _, err := r.Construct(ty, nil); err == nil {
		t.Error("Construct on a type with no constructor should fail")
	}
}

func TestDeleteTypeRemovesFromRegistry(t *testing.T) {
	r := NewRegistry()
	ty, _ := r.RegisterCommonTypeInterface("ephemeral", TypeInterface{}, nil, nil)

	r.DeleteType(ty)

	if got := r.FindTypeInfo("ephemeral", nil); got != nil {
		t.Error("FindTypeInfo should not find a deleted type")
	}
	for _, t2 := range r.Types() {
		if t2 == ty {
			t.Error("Types() should not include a deleted type")
		}
	}
}

func TestTypeInfoMetaAndOrderedTypes(t *testing.T) {
	r := NewRegistry()

	a, err := r.RegisterCommonTypeInterface("a", TypeInterface{}, nil, "meta-a")
	if err != nil {
		t.Fatalf("register a: %v", err)
	}
	b, err := r.RegisterCommonTypeInterface("b", TypeInterface{}, nil, "meta-b")
	if err != nil {
		t.Fatalf("register b: %v", err)
	}

	if a.Meta != "meta-a" {
		t.Errorf("a.Meta = %v, want meta-a", a.Meta)
	}
	if b.Meta != "meta-b" {
		t.Errorf("b.Meta = %v, want meta-b", b.Meta)
	}

	types := r.Types()
	if len(types) != 2 || types[0] != a || types[1] != b {
		t.Errorf("Types() = %v, want [a, b] in registration order", types)
	}

	// The slice Types() returns is a defensive copy: mutating it must not
	// affect the registry's own bookkeeping.
	types[0] = b
	if got := r.Types()[0]; got != a {
		t.Error("mutating the slice returned by Types() should not affect the registry")
	}
}
