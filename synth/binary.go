package synth

import (
	"fmt"
	"reflect"

	"typeforge/descriptor"
	"typeforge/errdefs"
	"typeforge/internal/analyze"
	"typeforge/meta"
)

// BinaryEmitter builds struct types with reflect.StructOf.
type BinaryEmitter struct {
	universe *Universe
}

// NewBinaryEmitter creates a BinaryEmitter resolving named types through u.
func NewBinaryEmitter(u *Universe) *BinaryEmitter {
	return &BinaryEmitter{universe: u}
}

// Header returns the leading field of the struct synthesized for c.
func Header(c descriptor.Class) reflect.StructField {
	return meta.HeaderStructField(meta.Info{
		Name:        c.Name,
		Package:     c.Package,
		Interface:   c.Interface,
		Parents:     c.Parents,
		Annotations: c.Annotations,
	})
}

// PropertyField returns the struct field of p with its meta tag.
func PropertyField(p descriptor.Property, t reflect.Type) reflect.StructField {
	return reflect.StructField{
		Name: p.Name,
		Type: t,
		Tag:  meta.FieldTags(p.ReadOnly, p.Annotations, p.ParamAnnotations).StructTag(),
	}
}

// Emit builds the struct type of a normalized class.
func (e *BinaryEmitter) Emit(c descriptor.Class) (reflect.Type, error) {
	if c.Interface {
		return nil, errdefs.Unsupported(c.Qualified(), "interfaces cannot be built at run time")
	}

	parents, err := e.parents(c, true)
	if err != nil {
		return nil, err
	}

	own := make([]reflect.StructField, 0, len(c.Properties))

	for _, p := range c.Properties {
		t, err := e.universe.Resolve(p.Type)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", p.Name, err)
		}

		own = append(own, PropertyField(p, t))
	}

	fields, err := analyze.Layout(Header(c), parents, own)
	if err != nil {
		return nil, err
	}

	return analyze.Build(c.Qualified(), fields)
}

// parents resolves and validates the parents of c. Interfaces may only
// extend interfaces and structs have at most one struct parent. With strict
// unset, parents missing from the universe are left to the compiler.
func (e *BinaryEmitter) parents(c descriptor.Class, strict bool) ([]reflect.Type, error) {
	var (
		out  []reflect.Type
		base string
	)

	for _, name := range c.Parents {
		t, ok := e.universe.Lookup(name)
		if !ok {
			if strict {
				return nil, errdefs.Unsupported(c.Qualified(), "parent %s is not registered", name)
			}

			continue
		}

		switch t.Kind() {
		case reflect.Interface:
		case reflect.Struct:
			if c.Interface {
				return nil, errdefs.Unsupported(c.Qualified(), "interface cannot extend struct %s", name)
			}

			if base != "" {
				return nil, errdefs.Unsupported(c.Qualified(), "struct parents %s and %s: at most one is allowed", base, name)
			}

			base = name
		default:
			return nil, errdefs.Unsupported(c.Qualified(), "parent %s is a %s, not a struct or interface", name, t.Kind())
		}

		out = append(out, t)
	}

	return out, nil
}
