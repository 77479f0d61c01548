// Package typeref describes Go types structurally: a TypeRef is the identity
// of a property or annotation type that both the text and the binary
// emitters understand. It can be built from a reflect.Type, parsed from a
// qualified Go type expression, rendered to source with jennifer and
// resolved back to a reflect.Type when one is attached.
package typeref

import (
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// Kind is the structural category of a TypeRef.
type Kind int

const (
	KindInvalid   Kind = iota
	KindBasic          // predeclared: int, string, bool, any, error, ...
	KindEnum           // named type over a basic kind (type Status string)
	KindStruct         // named struct
	KindInterface      // named interface
	KindNamed          // named type of unknown or other underlying shape
	KindPointer        // *Elem, the nullable wrapper
	KindSlice          // []Elem
	KindArray          // [Len]Elem
	KindMap            // map[Key]Elem
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindBasic:
		return "basic"
	case KindEnum:
		return "enum"
	case KindStruct:
		return "struct"
	case KindInterface:
		return "interface"
	case KindNamed:
		return "named"
	case KindPointer:
		return "pointer"
	case KindSlice:
		return "slice"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return "invalid"
	}
}

// TypeRef is a structural type identity.
type TypeRef struct {
	Kind    Kind
	PkgPath string    // named kinds only
	Name    string    // base name without type arguments
	Args    []TypeRef // type arguments of a generic instance
	Elem    *TypeRef  // pointer, slice, array and map element
	Key     *TypeRef  // map key
	Len     int       // array length

	rtype reflect.Type
}

var basicTypes = map[string]reflect.Type{
	"bool":       reflect.TypeFor[bool](),
	"string":     reflect.TypeFor[string](),
	"int":        reflect.TypeFor[int](),
	"int8":       reflect.TypeFor[int8](),
	"int16":      reflect.TypeFor[int16](),
	"int32":      reflect.TypeFor[int32](),
	"int64":      reflect.TypeFor[int64](),
	"uint":       reflect.TypeFor[uint](),
	"uint8":      reflect.TypeFor[uint8](),
	"uint16":     reflect.TypeFor[uint16](),
	"uint32":     reflect.TypeFor[uint32](),
	"uint64":     reflect.TypeFor[uint64](),
	"uintptr":    reflect.TypeFor[uintptr](),
	"float32":    reflect.TypeFor[float32](),
	"float64":    reflect.TypeFor[float64](),
	"complex64":  reflect.TypeFor[complex64](),
	"complex128": reflect.TypeFor[complex128](),
	"byte":       reflect.TypeFor[byte](),
	"rune":       reflect.TypeFor[rune](),
	"any":        reflect.TypeFor[any](),
	"error":      reflect.TypeFor[error](),
}

// IsBasicName reports whether name is a predeclared Go type.
func IsBasicName(name string) bool {
	_, ok := basicTypes[name]
	return ok
}

// Basic returns the TypeRef of a predeclared type such as "int" or "string".
func Basic(name string) TypeRef {
	return TypeRef{Kind: KindBasic, Name: name, rtype: basicTypes[name]}
}

// Named returns a named type reference, optionally instantiated with type arguments.
func Named(pkgPath, name string, args ...TypeRef) TypeRef {
	if pkgPath == "" && len(args) == 0 && IsBasicName(name) {
		return Basic(name)
	}

	return TypeRef{Kind: KindNamed, PkgPath: pkgPath, Name: name, Args: args}
}

// PointerTo returns *elem.
func PointerTo(elem TypeRef) TypeRef {
	return TypeRef{Kind: KindPointer, Elem: &elem}
}

// SliceOf returns []elem.
func SliceOf(elem TypeRef) TypeRef {
	return TypeRef{Kind: KindSlice, Elem: &elem}
}

// ArrayOf returns [n]elem.
func ArrayOf(n int, elem TypeRef) TypeRef {
	return TypeRef{Kind: KindArray, Len: n, Elem: &elem}
}

// MapOf returns map[key]elem.
func MapOf(key, elem TypeRef) TypeRef {
	return TypeRef{Kind: KindMap, Key: &key, Elem: &elem}
}

// For returns the TypeRef of T.
func For[T any]() TypeRef {
	return Of(reflect.TypeFor[T]())
}

// Of describes a reflect.Type. The reflect.Type stays attached to the result
// so binary emission does not need to resolve it again.
func Of(t reflect.Type) TypeRef {
	if t == nil {
		return TypeRef{}
	}

	ref := describe(t)
	ref.rtype = t

	return ref
}

func describe(t reflect.Type) TypeRef {
	if t.Name() != "" {
		return describeNamed(t)
	}

	switch t.Kind() {
	case reflect.Pointer:
		return PointerTo(Of(t.Elem()))
	case reflect.Slice:
		return SliceOf(Of(t.Elem()))
	case reflect.Array:
		return ArrayOf(t.Len(), Of(t.Elem()))
	case reflect.Map:
		return MapOf(Of(t.Key()), Of(t.Elem()))
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return Basic("any")
		}
	}

	// unnamed structs, funcs and channels have no portable name
	return TypeRef{Kind: KindInvalid, Name: t.String()}
}

func describeNamed(t reflect.Type) TypeRef {
	if t.PkgPath() == "" && IsBasicName(t.Name()) {
		return Basic(t.Name())
	}

	ref := TypeRef{PkgPath: t.PkgPath(), Name: t.Name()}
	if strings.Contains(t.Name(), "[") {
		parsed, err := Parse(t.PkgPath() + "." + t.Name())
		if err == nil {
			ref = parsed
		}
	}

	switch t.Kind() {
	case reflect.Struct:
		ref.Kind = KindStruct
	case reflect.Interface:
		ref.Kind = KindInterface
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		ref.Kind = KindEnum
	default:
		ref.Kind = KindNamed
	}

	return ref
}

// Reflect returns the attached reflect.Type, if any.
func (r TypeRef) Reflect() (reflect.Type, bool) {
	if r.rtype != nil {
		return r.rtype, true
	}

	if r.Kind == KindBasic {
		t, ok := basicTypes[r.Name]
		return t, ok
	}

	return nil, false
}

// WithReflect returns a copy of r with t attached.
func (r TypeRef) WithReflect(t reflect.Type) TypeRef {
	r.rtype = t
	return r
}

// IsValid reports whether r names a renderable type.
func (r TypeRef) IsValid() bool {
	switch r.Kind {
	case KindInvalid:
		return false
	case KindPointer, KindSlice, KindArray:
		return r.Elem != nil && r.Elem.IsValid()
	case KindMap:
		return r.Key != nil && r.Elem != nil && r.Key.IsValid() && r.Elem.IsValid()
	default:
		if r.Name == "" {
			return false
		}

		for _, arg := range r.Args {
			if !arg.IsValid() {
				return false
			}
		}

		return true
	}
}

// IsNullable reports whether r is the nullable (pointer) wrapper of another type.
func (r TypeRef) IsNullable() bool {
	return r.Kind == KindPointer
}

// Unwrap strips nullable wrappers and returns the non-nullable underlying type.
func (r TypeRef) Unwrap() TypeRef {
	for r.Kind == KindPointer && r.Elem != nil {
		r = *r.Elem
	}

	return r
}

// Qualified returns "pkg/path.Name" (or just Name for unqualified types) without type arguments.
func (r TypeRef) Qualified() string {
	if r.PkgPath == "" {
		return r.Name
	}

	return r.PkgPath + "." + r.Name
}

// String returns the canonical form with fully qualified package paths,
// e.g. "map[string][]*example.com/models.Box[int]".
func (r TypeRef) String() string {
	var b strings.Builder
	r.write(&b)

	return b.String()
}

func (r TypeRef) write(b *strings.Builder) {
	switch r.Kind {
	case KindPointer:
		b.WriteString("*")
		r.Elem.write(b)
	case KindSlice:
		b.WriteString("[]")
		r.Elem.write(b)
	case KindArray:
		b.WriteString("[" + strconv.Itoa(r.Len) + "]")
		r.Elem.write(b)
	case KindMap:
		b.WriteString("map[")
		r.Key.write(b)
		b.WriteString("]")
		r.Elem.write(b)
	default:
		b.WriteString(r.Qualified())

		if len(r.Args) > 0 {
			b.WriteString("[")

			for i, arg := range r.Args {
				if i > 0 {
					b.WriteString(",")
				}

				arg.write(b)
			}

			b.WriteString("]")
		}
	}
}

// Equal reports structural equality.
func (r TypeRef) Equal(other TypeRef) bool {
	return r.String() == other.String()
}

// Packages returns the sorted, de-duplicated import paths r references.
func (r TypeRef) Packages() []string {
	set := map[string]struct{}{}
	r.collect(set)

	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}

	slices.Sort(out)

	return out
}

func (r TypeRef) collect(set map[string]struct{}) {
	if r.PkgPath != "" {
		set[r.PkgPath] = struct{}{}
	}

	for _, arg := range r.Args {
		arg.collect(set)
	}

	if r.Elem != nil {
		r.Elem.collect(set)
	}

	if r.Key != nil {
		r.Key.collect(set)
	}
}

// MarshalText renders the canonical form.
func (r TypeRef) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses a qualified Go type expression.
func (r *TypeRef) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}

	*r = parsed

	return nil
}
