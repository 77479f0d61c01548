// Package props exposes the property capability of Go types: for any struct
// type, a stable ordered list of (name, type, read-only, getter, setter)
// descriptors. Lists are computed once per type and cached.
package props

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"unsafe"

	"typeforge/meta"
)

var (
	ErrReadOnly       = errors.New("property is read-only")
	ErrNotAddressable = errors.New("target value is not addressable")
	ErrNotAssignable  = errors.New("value is not assignable to property")
)

// Property describes one field-backed property.
type Property struct {
	Name     string
	Type     reflect.Type
	Index    []int // index path, embedded parents included
	ReadOnly bool
	Exported bool
	Embedded bool // promoted from an embedded struct
	Tag      reflect.StructTag
}

// Get reads the property from a struct value (or pointer to one).
// Unexported properties are read through an addressable copy when needed.
func (p Property) Get(v reflect.Value) reflect.Value {
	v = indirect(v)

	f, ok := field(v, p.Index)
	if !ok {
		return reflect.Zero(p.Type)
	}

	if !p.Exported {
		if !f.CanAddr() {
			cp := reflect.New(v.Type()).Elem()
			cp.Set(v)
			f, _ = field(cp, p.Index)
		}

		return reflect.NewAt(f.Type(), unsafe.Pointer(f.UnsafeAddr())).Elem()
	}

	return f
}

// Set writes x into the property of an addressable struct value.
func (p Property) Set(v, x reflect.Value) error {
	if p.ReadOnly {
		return fmt.Errorf("%s: %w", p.Name, ErrReadOnly)
	}

	return p.set(v, x)
}

// Init writes x regardless of the read-only flag; used when populating a
// freshly constructed instance.
func (p Property) Init(v, x reflect.Value) error {
	return p.set(v, x)
}

func (p Property) set(v, x reflect.Value) error {
	v = indirect(v)
	if !v.CanAddr() {
		return fmt.Errorf("%s: %w", p.Name, ErrNotAddressable)
	}

	f, ok := allocField(v, p.Index)
	if !ok {
		return fmt.Errorf("%s: %w", p.Name, ErrNotAddressable)
	}

	if !p.Exported {
		f = reflect.NewAt(f.Type(), unsafe.Pointer(f.UnsafeAddr())).Elem()
	}

	if !x.IsValid() {
		f.SetZero()
		return nil
	}

	if !x.Type().AssignableTo(f.Type()) {
		return fmt.Errorf("%s: %s to %s: %w", p.Name, x.Type(), f.Type(), ErrNotAssignable)
	}

	f.Set(x)

	return nil
}

// CanWrite reports whether the copy engine may assign the property.
func (p Property) CanWrite(includePrivate bool) bool {
	return !p.ReadOnly && (p.Exported || includePrivate)
}

// Set is the ordered property list of one type.
type Set struct {
	Type   reflect.Type
	list   []Property
	hidden []Property
	byName map[string]int
}

// All returns the properties in declaration order.
func (s *Set) All() []Property {
	return s.list
}

// Hidden returns the embedded fields that an outer or same-depth field of
// the same name keeps out of the list. They are reachable by index only.
func (s *Set) Hidden() []Property {
	return s.hidden
}

// Len returns the number of properties.
func (s *Set) Len() int {
	return len(s.list)
}

// Lookup returns the property with the given name.
func (s *Set) Lookup(name string) (Property, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Property{}, false
	}

	return s.list[i], true
}

// Names returns the property names in declaration order.
func (s *Set) Names() []string {
	out := make([]string, 0, len(s.list))
	for _, p := range s.list {
		out = append(out, p.Name)
	}

	return out
}

var cache sync.Map // reflect.Type -> *Set

// Of returns the property set of a struct type or pointer to struct type.
// Non-struct types have an empty set.
func Of(t reflect.Type) *Set {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if cached, ok := cache.Load(t); ok {
		return cached.(*Set)
	}

	set := build(t)
	actual, _ := cache.LoadOrStore(t, set)

	return actual.(*Set)
}

func build(t reflect.Type) *Set {
	set := &Set{Type: t, byName: map[string]int{}}
	if t == nil || t.Kind() != reflect.Struct {
		return set
	}

	// promotion follows the language: the shallowest field wins and
	// same-depth duplicates hide each other
	visible := map[string]bool{}
	for _, sf := range reflect.VisibleFields(t) {
		visible[fmt.Sprint(sf.Index)] = true
	}

	var walk func(st reflect.Type, prefix []int)
	walk = func(st reflect.Type, prefix []int) {
		for i := range st.NumField() {
			sf := st.Field(i)
			if meta.IsHeader(sf) {
				continue
			}

			index := append(append([]int(nil), prefix...), i)

			if sf.Anonymous && sf.Type.Kind() == reflect.Struct && sf.IsExported() {
				walk(sf.Type, index)
				continue
			}

			p := Property{
				Name:     sf.Name,
				Type:     sf.Type,
				Index:    index,
				ReadOnly: meta.IsReadOnly(sf.Tag),
				Exported: sf.IsExported(),
				Embedded: len(index) > 1,
				Tag:      sf.Tag,
			}

			if !visible[fmt.Sprint(index)] {
				set.hidden = append(set.hidden, p)
				continue
			}

			set.byName[sf.Name] = len(set.list)
			set.list = append(set.list, p)
		}
	}

	walk(t, nil)

	return set
}

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}

		v = v.Elem()
	}

	return v
}

func field(v reflect.Value, index []int) (reflect.Value, bool) {
	if !v.IsValid() {
		return reflect.Value{}, false
	}

	f := v
	for _, i := range index {
		for f.Kind() == reflect.Pointer {
			if f.IsNil() {
				return reflect.Value{}, false
			}

			f = f.Elem()
		}

		f = f.Field(i)
	}

	return f, true
}

func allocField(v reflect.Value, index []int) (reflect.Value, bool) {
	f := v
	for _, i := range index {
		for f.Kind() == reflect.Pointer {
			if f.IsNil() {
				if !f.CanSet() {
					return reflect.Value{}, false
				}

				f.Set(reflect.New(f.Type().Elem()))
			}

			f = f.Elem()
		}

		f = f.Field(i)
	}

	return f, true
}
