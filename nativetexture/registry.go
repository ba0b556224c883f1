package nativetexture

import "texengine/typesys"

// ProviderRegistry maps platform texture type names (as they appear in the
// Native-Texture type tree, e.g. "PVR") to their Provider implementation.
// Native-Image codecs look a provider up by name to read/write pixel data
// through the traversal shape, instead of importing every platform
// package directly. The name-to-payload bookkeeping is typesys.Registry's
// job; a Provider value is just carried as that node's Meta.
type ProviderRegistry struct {
	types *typesys.Registry
}

// NewProviderRegistry creates an empty provider registry.
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{types: typesys.NewRegistry()}
}

// Register adds p under its own Name(), as a root type node with no
// TypeInterface of its own -- a Provider has no separate construct/copy/
// destroy lifecycle, it is the Meta payload itself. It reports false
// without overwriting an existing registration of the same name.
func (r *ProviderRegistry) Register(p Provider) bool {
	_, err := r.types.RegisterCommonTypeInterface(p.Name(), typesys.TypeInterface{}, nil, p)
	return err == nil
}

// Get looks up a provider by platform type name.
func (r *ProviderRegistry) Get(name string) (Provider, bool) {
	t := r.types.FindTypeInfo(name, nil)
	if t == nil {
		return nil, false
	}
	p, ok := t.Meta.(Provider)
	return p, ok
}
