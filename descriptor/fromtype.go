package descriptor

import (
	"reflect"

	"typeforge/errdefs"
	"typeforge/meta"
	"typeforge/props"
	"typeforge/typeref"
)

// FromType describes an existing struct type: its name, package and the
// exported properties of props.Of(t), with read-only flags. Synthesized
// types are described under the name and parents their header records.
func FromType(t reflect.Type) (Class, error) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == nil || t.Kind() != reflect.Struct {
		return Class{}, errdefs.Unsupported(typeName(t), "only struct types can be described")
	}

	c := Class{Name: t.Name(), Package: t.PkgPath()}
	if h, ok := meta.ReadHeader(t); ok {
		c.Name, c.Package, c.Parents = h.Name, h.Package, h.Parents
	}

	for _, p := range props.Of(t).All() {
		if !p.Exported {
			continue
		}

		ref := typeref.Of(p.Type)
		if !ref.IsValid() {
			return Class{}, errdefs.Unsupported(c.Qualified(), "property %s has type %s with no portable name", p.Name, p.Type)
		}

		c.Properties = append(c.Properties, Property{Name: p.Name, Type: ref, ReadOnly: p.ReadOnly})
	}

	return c, nil
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}
