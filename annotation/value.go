package annotation

import (
	"fmt"
	"reflect"

	"typeforge/errdefs"
	"typeforge/typeref"
)

// FromValue captures an already built annotation value (compiled-instance
// form). Exported fields of boolean, numeric or string kind that hold a
// non-zero value become named arguments, in declaration order.
func FromValue(v any) (Annotation, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Annotation{}, errdefs.Unsupported(fmt.Sprintf("%T", v), "nil annotation value")
		}

		rv = rv.Elem()
	}

	if !rv.IsValid() {
		return Annotation{}, errdefs.Unsupported("<nil>", "nil annotation value")
	}

	rt := rv.Type()
	if rt.Name() == "" {
		return Annotation{}, errdefs.Unsupported(rt.String(), "annotation values must have a named type")
	}

	target := typeref.Of(rt)
	if rt.Kind() != reflect.Struct {
		lit, err := LiteralOf(rv.Interface())
		if err != nil {
			return Annotation{}, errdefs.Unsupported(rt.String(), "%v", err)
		}

		return Constructed(target, lit), nil
	}

	ann := NamedArgs(target)

	for i := range rt.NumField() {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		fv := rv.Field(i)
		if fv.IsZero() {
			continue
		}

		lit, err := LiteralOf(fv.Interface())
		if err != nil {
			continue
		}

		ann.Fields = append(ann.Fields, Field{Name: sf.Name, Value: lit})
	}

	return ann, nil
}

// MustFromValue is like FromValue but panics on error.
func MustFromValue(v any) Annotation {
	ann, err := FromValue(v)
	if err != nil {
		panic(err)
	}

	return ann
}
