package analyze

import (
	"fmt"
	"reflect"

	"typeforge/errdefs"
	"typeforge/props"
	"typeforge/typeref"
)

// Resolver maps structural type references to reflect types.
type Resolver interface {
	Resolve(ref typeref.TypeRef) (reflect.Type, error)
}

// Materializer rebuilds checked structs as reflect types.
type Materializer struct {
	resolver Resolver
}

// NewMaterializer creates a Materializer resolving named types through r.
func NewMaterializer(r Resolver) *Materializer {
	return &Materializer{resolver: r}
}

// Struct builds the reflect.Type of a checked struct. The header field leads
// the result; embedded fields are parents and contribute their exported
// fields as Layout does.
func (m *Materializer) Struct(info *TypeInfo, header reflect.StructField) (reflect.Type, error) {
	if info == nil || info.Kind != TypeKindStruct {
		return nil, errdefs.Unsupported(typeName(info), "only struct types can be materialized")
	}

	root := NewTypePath(info.ID.Name)

	var (
		parents []reflect.Type
		own     []reflect.StructField
	)

	for _, f := range info.Fields {
		rt, err := m.Type(f.Type, root.Field(f.Name))
		if err != nil {
			return nil, err
		}

		if f.Embedded {
			parents = append(parents, rt)
			continue
		}

		own = append(own, reflect.StructField{Name: f.Name, Type: rt, Tag: f.Tag})
	}

	fields, err := Layout(header, parents, own)
	if err != nil {
		return nil, err
	}

	return Build(info.ID.String(), fields)
}

// Type resolves the reflect.Type of an analyzed type; path names the field
// being resolved in errors.
func (m *Materializer) Type(info *TypeInfo, path *TypePath) (reflect.Type, error) {
	if info == nil || !info.Ref.IsValid() {
		return nil, errdefs.Unsupported(path.String(), "type %s has no portable Go name", typeName(info))
	}

	rt, err := m.resolver.Resolve(info.Ref)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return rt, nil
}

// Layout assembles the fields of a synthesized struct: the header, the
// exported fields of each struct parent in order, then the own fields.
// Interface parents contribute nothing. A parent field hidden by an own
// field or by an earlier parent is dropped, the way Go selectors hide it.
func Layout(header reflect.StructField, parents []reflect.Type, own []reflect.StructField) ([]reflect.StructField, error) {
	taken := make(map[string]struct{}, len(own))
	for _, f := range own {
		taken[f.Name] = struct{}{}
	}

	fields := []reflect.StructField{header}

	for _, parent := range parents {
		switch parent.Kind() {
		case reflect.Interface:
			continue
		case reflect.Struct:
		default:
			return nil, errdefs.Unsupported(parent.String(), "parent is neither a struct nor an interface")
		}

		for _, p := range props.Of(parent).All() {
			if !p.Exported {
				continue
			}

			if _, hidden := taken[p.Name]; hidden {
				continue
			}

			taken[p.Name] = struct{}{}
			fields = append(fields, reflect.StructField{Name: p.Name, Type: p.Type, Tag: p.Tag})
		}
	}

	return append(fields, own...), nil
}

// Build calls reflect.StructOf, turning its panics into errors.
func Build(subject string, fields []reflect.StructField) (t reflect.Type, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errdefs.Unsupported(subject, "%v", r)
		}
	}()

	return reflect.StructOf(fields), nil
}

func typeName(info *TypeInfo) string {
	if info != nil && info.IsNamed() {
		return info.ID.String()
	}

	return Describe(info)
}
