package analyze

import (
	"strconv"
	"strings"

	"typeforge/typeref"
)

// TypePath locates a field below a root type for error messages, e.g.
// "Order.Items[].ProductID". Paths are immutable.
type TypePath struct {
	parts []string
}

// NewTypePath starts a path at the named root type.
func NewTypePath(root string) *TypePath {
	return &TypePath{parts: []string{root}}
}

// Field descends into a field.
func (p *TypePath) Field(name string) *TypePath {
	return &TypePath{parts: append(slicesClone(p.parts), name)}
}

// Slice marks the last step as an element of a collection.
func (p *TypePath) Slice() *TypePath {
	return p.editLast(func(s string) string { return s + "[]" })
}

// Pointer marks the last step as dereferenced.
func (p *TypePath) Pointer() *TypePath {
	return p.editLast(func(s string) string { return "*" + s })
}

func (p *TypePath) editLast(edit func(string) string) *TypePath {
	parts := slicesClone(p.parts)
	if len(parts) == 0 {
		parts = []string{""}
	}

	parts[len(parts)-1] = edit(parts[len(parts)-1])

	return &TypePath{parts: parts}
}

func (p *TypePath) String() string {
	return strings.Join(p.parts, ".")
}

func slicesClone(s []string) []string {
	return append(make([]string, 0, len(s)+1), s...)
}

// Describe renders an analyzed type the way it would be spelled inside its
// own package.
func Describe(t *TypeInfo) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind {
	case TypeKindStruct, TypeKindInterface, TypeKindAlias:
		if t.IsNamed() {
			return t.ID.Name
		}

		if t.Kind == TypeKindAlias {
			return Describe(t.Underlying)
		}

		return t.Kind.String() + "{...}"
	case TypeKindPointer:
		return "*" + Describe(t.ElemType)
	case TypeKindSlice:
		return "[]" + Describe(t.ElemType)
	case TypeKindArray:
		n := "?"
		if t.Ref.Kind == typeref.KindArray {
			n = strconv.Itoa(t.Ref.Len)
		}

		return "[" + n + "]" + Describe(t.ElemType)
	case TypeKindMap:
		return "map[" + Describe(t.KeyType) + "]" + Describe(t.ElemType)
	case TypeKindExternal:
		if t.IsNamed() {
			return t.ID.String()
		}
	}

	if t.GoType == nil {
		return "<" + t.Kind.String() + ">"
	}

	return t.GoType.String()
}
