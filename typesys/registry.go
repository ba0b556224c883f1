// Package typesys implements a hierarchical, name-keyed type registry:
// there is no manual memory layout to manage in Go, so the type tree is
// flattened to a tree of named TypeInfo nodes, each carrying a
// TypeInterface of constructor/destructor closures and a parent-index
// link, held in a registry keyed by name.
package typesys

import (
	"fmt"
	"sync"

	"texengine/engine"
)

// TypeInterface is a type's vtable: how to construct, copy, and destroy a
// payload value. Construct and Copy return the new payload; Destroy
// releases any resources the payload holds. A nil Copy means the type does
// not support cloning.
type TypeInterface struct {
	Construct func(params any) (any, error)
	Copy      func(src any) (any, error)
	Destroy   func(payload any)
}

// TypeInfo is one node of the type tree: a name, its parent (nil for a
// root), the vtable describing how to manage instances of it, and an
// opaque Meta value the registering package can use to hang its own
// per-type metadata (a codec descriptor, a provider instance, ...) off the
// node instead of keeping a second by-name map alongside the registry.
type TypeInfo struct {
	Name   string
	Parent *TypeInfo
	Iface  TypeInterface
	Meta   any
}

// IsSubtypeOf reports whether t is base, or a descendant of base, by
// walking the parent chain.
func (t *TypeInfo) IsSubtypeOf(base *TypeInfo) bool {
	for n := t; n != nil; n = n.Parent {
		if n == base {
			return true
		}
	}
	return false
}

// Registry is a tree of named TypeInfo nodes plus a by-name index and a
// registration-order list, guarded by one lock, standing in for the
// engine's type-system lock.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]*TypeInfo
	ordered []*TypeInfo
}

// NewRegistry creates an empty type registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*TypeInfo)}
}

// RegisterCommonTypeInterface registers a new type node under parent (nil
// for a root type), attaching meta as the node's opaque per-type payload.
// It fails with engine.ErrTypeNameConflict if name is already registered
// anywhere in the registry -- names are global and case-sensitive, a flat
// lookup scope across the whole tree.
func (r *Registry) RegisterCommonTypeInterface(name string, iface TypeInterface, parent *TypeInfo, meta any) (*TypeInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return nil, fmt.Errorf("typesys: register %q: %w", name, engine.ErrTypeNameConflict)
	}

	t := &TypeInfo{Name: name, Parent: parent, Iface: iface, Meta: meta}
	r.byName[name] = t
	r.ordered = append(r.ordered, t)
	return t, nil
}

// DeleteType removes a type node from the registry.
func (r *Registry) DeleteType(t *TypeInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byName, t.Name)
	for i, o := range r.ordered {
		if o == t {
			r.ordered = append(r.ordered[:i], r.ordered[i+1:]...)
			break
		}
	}
}

// Types returns every currently registered type, in registration order.
func (r *Registry) Types() []*TypeInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*TypeInfo, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// FindTypeInfo looks up name, then verifies it is base or a descendant of
// base, searching only the subtree rooted at base. A nil base matches any
// type. Returns nil if not found or out of subtree.
func (r *Registry) FindTypeInfo(name string, base *TypeInfo) *TypeInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byName[name]
	if !ok {
		return nil
	}

	if base != nil && !t.IsSubtypeOf(base) {
		return nil
	}

	return t
}

// Construct builds a new payload instance of t, calling its constructor.
// There is no separate handle allocation to clean up, so a failed Construct
// simply returns an error and no payload is created.
func (r *Registry) Construct(t *TypeInfo, params any) (any, error) {
	if t.Iface.Construct == nil {
		return nil, fmt.Errorf("typesys: type %q has no constructor", t.Name)
	}
	return t.Iface.Construct(params)
}

// CopyConstruct clones src's payload via t's copy constructor.
func (r *Registry) CopyConstruct(t *TypeInfo, src any) (any, error) {
	if t.Iface.Copy == nil {
		return nil, fmt.Errorf("typesys: type %q does not support copy construction", t.Name)
	}
	return t.Iface.Copy(src)
}

// Destroy releases a payload built by Construct/CopyConstruct.
func (r *Registry) Destroy(t *TypeInfo, payload any) {
	if t.Iface.Destroy != nil {
		t.Iface.Destroy(payload)
	}
}

// handleMeta is the minimal "GenericRTTI" bookkeeping a constructed handle
// carries, recovering which TypeInfo built it -- the Go equivalent of
// GetTypeStructFromObject / safe downcast.
type handleMeta struct {
	typeInfo *TypeInfo
}

// Handle wraps a payload with its originating TypeInfo, so that
// GetTypeStructFromObject-style recovery and safe downcasts are just a
// type assertion on Payload plus a TypeInfo comparison.
type Handle struct {
	meta    handleMeta
	Payload any
}

// NewHandle constructs payload via t and wraps it in a Handle.
func (r *Registry) NewHandle(t *TypeInfo, params any) (*Handle, error) {
	payload, err := r.Construct(t, params)
	if err != nil {
		return nil, err
	}
	return &Handle{meta: handleMeta{typeInfo: t}, Payload: payload}, nil
}

// TypeOf recovers the TypeInfo a Handle was constructed with.
func (h *Handle) TypeOf() *TypeInfo {
	return h.meta.typeInfo
}

// DestroyHandle destroys a Handle's payload through its registered type.
func (r *Registry) DestroyHandle(h *Handle) {
	if h == nil || h.meta.typeInfo == nil {
		return
	}
	r.Destroy(h.meta.typeInfo, h.Payload)
}
