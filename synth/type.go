package synth

import (
	"go/types"
	"reflect"

	"typeforge/descriptor"
	"typeforge/errdefs"
	"typeforge/props"
)

// Type is a synthesized type. Handles live as long as the process; two
// requests with the same canonical form return the same handle.
type Type struct {
	Name     string
	Package  string
	Key      string
	Class    descriptor.Class
	Strategy Strategy
	Mode     LoadingMode
	// Source is the rendered file (text strategy only).
	Source []byte

	named *types.Named
	rtype reflect.Type
}

// Reflect returns the run time type. It is nil for interfaces and in the
// reflection-only loading mode.
func (t *Type) Reflect() reflect.Type {
	return t.rtype
}

// Named returns the type-checked object (text strategy only).
func (t *Type) Named() *types.Named {
	return t.named
}

// Qualified returns "package.Name".
func (t *Type) Qualified() string {
	return t.Class.Qualified()
}

// New allocates a zero instance and returns a pointer to it.
func (t *Type) New() (any, error) {
	if t.rtype == nil {
		reason := "type was loaded reflection-only"
		if t.Class.Interface {
			reason = "interface types have no constructor"
		}

		return nil, &errdefs.ConstructionError{Reason: t.Qualified() + ": " + reason}
	}

	if err := errdefs.Constructible(t.rtype); err != nil {
		return nil, err
	}

	return reflect.New(t.rtype).Interface(), nil
}

// Properties returns the property set of the run time type, or an empty set
// when there is none.
func (t *Type) Properties() *props.Set {
	return props.Of(t.rtype)
}

func (t *Type) String() string {
	return t.Strategy.String() + ":" + t.Qualified()
}
