package synth

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"typeforge/errdefs"
	"typeforge/meta"
	"typeforge/typeref"
)

// Universe is the set of named types descriptors may reference, keyed by
// their qualified name ("time.Time", "example.com/shop.Order").
type Universe struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewUniverse creates a Universe that knows the given types plus a few
// common standard ones.
func NewUniverse(types ...reflect.Type) *Universe {
	u := &Universe{types: map[string]reflect.Type{}}
	u.Register(
		reflect.TypeFor[time.Time](),
		reflect.TypeFor[time.Duration](),
		reflect.TypeFor[time.Location](),
		reflect.TypeFor[uuid.UUID](),
		reflect.TypeFor[fmt.Stringer](),
	)
	u.Register(types...)

	return u
}

// Key returns the name t is registered under. Synthesized structs are keyed
// by the name recorded in their header; other named types by their
// canonical type reference. Unnamed types have no key.
func Key(t reflect.Type) string {
	if t == nil {
		return ""
	}

	if d, ok := meta.ReadHeader(t); ok && t.Kind() == reflect.Struct {
		if d.Package == "" {
			return d.Name
		}

		return d.Package + "." + d.Name
	}

	if t.Name() == "" {
		return ""
	}

	return typeref.Of(t).String()
}

// Register adds named types. Unnamed types are ignored.
func (u *Universe) Register(types ...reflect.Type) {
	u.mu.Lock()
	defer u.mu.Unlock()

	for _, t := range types {
		if key := Key(t); key != "" {
			u.types[key] = t
		}
	}
}

// RegisterAs adds t under an explicit name, replacing any previous type.
func (u *Universe) RegisterAs(name string, t reflect.Type) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.types[name] = t
}

// Lookup returns the type registered under name.
func (u *Universe) Lookup(name string) (reflect.Type, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	t, ok := u.types[name]

	return t, ok
}

// Names returns the registered names, sorted.
func (u *Universe) Names() []string {
	u.mu.RLock()
	defer u.mu.RUnlock()

	names := make([]string, 0, len(u.types))
	for name := range u.types {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Resolve returns the reflect.Type of ref. Composite references are built
// from their resolved elements; named ones must be attached to ref or be
// registered.
func (u *Universe) Resolve(ref typeref.TypeRef) (reflect.Type, error) {
	if t, ok := ref.Reflect(); ok {
		return t, nil
	}

	switch ref.Kind {
	case typeref.KindInvalid:
		return nil, errdefs.Unsupported(ref.Name, "type has no portable Go name")

	case typeref.KindPointer, typeref.KindSlice, typeref.KindArray:
		elem, err := u.Resolve(*ref.Elem)
		if err != nil {
			return nil, err
		}

		switch ref.Kind {
		case typeref.KindPointer:
			return reflect.PointerTo(elem), nil
		case typeref.KindSlice:
			return reflect.SliceOf(elem), nil
		default:
			return reflect.ArrayOf(ref.Len, elem), nil
		}

	case typeref.KindMap:
		key, err := u.Resolve(*ref.Key)
		if err != nil {
			return nil, err
		}

		elem, err := u.Resolve(*ref.Elem)
		if err != nil {
			return nil, err
		}

		if !key.Comparable() {
			return nil, errdefs.Unsupported(ref.String(), "map key %s is not comparable", key)
		}

		return reflect.MapOf(key, elem), nil
	}

	if t, ok := u.Lookup(ref.String()); ok {
		return t, nil
	}

	return nil, errdefs.Unsupported(ref.String(), "type is not registered")
}
