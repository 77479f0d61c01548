package analyze

import (
	"context"
	"fmt"
	"go/types"
	"image"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typeforge/errdefs"
	"typeforge/internal/compiler"
	"typeforge/meta"
	"typeforge/typeref"
)

const shapesSource = `package shapes

import (
	"fmt"
	"image"
)

type Base struct {
	ID    int64
	Label string ` + "`json:\"label\"`" + `
}

type Status string

type Shape struct {
	Base
	fmt.Stringer
	Label   string ` + "`typeforge:\"readonly\"`" + `
	Origin  image.Point
	Tags    []string
	Extra   map[string]*int
	Corners [4]byte
	State   Status
	hidden  int
}
`

type testBase struct {
	ID    int64
	Label string `json:"label"`
}

type testStatus string

type mapResolver map[string]reflect.Type

func (r mapResolver) Resolve(ref typeref.TypeRef) (reflect.Type, error) {
	switch ref.Kind {
	case typeref.KindPointer, typeref.KindSlice, typeref.KindArray:
		elem, err := r.Resolve(*ref.Elem)
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
		key, err := r.Resolve(*ref.Key)
		if err != nil {
			return nil, err
		}

		elem, err := r.Resolve(*ref.Elem)
		if err != nil {
			return nil, err
		}

		return reflect.MapOf(key, elem), nil
	}

	if t, ok := ref.Reflect(); ok {
		return t, nil
	}

	if t, ok := r[ref.String()]; ok {
		return t, nil
	}

	return nil, errdefs.Unsupported(ref.String(), "unknown type")
}

func shapesResolver() mapResolver {
	return mapResolver{
		"example.com/shapes.Base":   reflect.TypeFor[testBase](),
		"example.com/shapes.Status": reflect.TypeFor[testStatus](),
		"image.Point":               reflect.TypeFor[image.Point](),
		"fmt.Stringer":              reflect.TypeFor[fmt.Stringer](),
	}
}

func checkShapes(t *testing.T) *types.Package {
	t.Helper()

	pkg, err := compiler.NewChecker().Compile(context.Background(), compiler.Unit{
		Name:    "shapes",
		Package: "example.com/shapes",
		Source:  []byte(shapesSource),
	})
	require.NoError(t, err)

	return pkg
}

func field(t *testing.T, info *TypeInfo, name string) *FieldInfo {
	t.Helper()

	for i := range info.Fields {
		if info.Fields[i].Name == name {
			return &info.Fields[i]
		}
	}

	t.Fatalf("field %s not found in %s", name, info.ID)

	return nil
}

func TestAnalyzer_AddPackage(t *testing.T) {
	t.Parallel()

	analyzer := NewAnalyzer()
	pkgInfo := analyzer.AddPackage(checkShapes(t))

	assert.Equal(t, "shapes", pkgInfo.Name)
	assert.ElementsMatch(t, []TypeID{
		{PkgPath: "example.com/shapes", Name: "Base"},
		{PkgPath: "example.com/shapes", Name: "Shape"},
		{PkgPath: "example.com/shapes", Name: "Status"},
	}, pkgInfo.Types)

	status := analyzer.Graph().GetType(TypeID{PkgPath: "example.com/shapes", Name: "Status"})
	require.NotNil(t, status)
	assert.Equal(t, TypeKindAlias, status.Kind)
	assert.Equal(t, typeref.KindEnum, status.Ref.Kind)

	shape, err := analyzer.GetStruct("example.com/shapes", "Shape")
	require.NoError(t, err)

	var names []string
	for _, f := range shape.Fields {
		names = append(names, f.Name)
	}

	assert.Equal(t, []string{"Base", "Stringer", "Label", "Origin", "Tags", "Extra", "Corners", "State"}, names)

	assert.True(t, field(t, shape, "Base").Embedded)
	assert.Equal(t, TypeKindInterface, field(t, shape, "Stringer").Type.Kind)
	assert.Equal(t, []string{"String"}, field(t, shape, "Stringer").Type.Methods)

	extra := field(t, shape, "Extra").Type
	assert.Equal(t, TypeKindMap, extra.Kind)
	assert.Equal(t, TypeKindBasic, extra.KeyType.Kind)
	assert.Equal(t, TypeKindPointer, extra.ElemType.Kind)
	assert.Equal(t, "map[string]*int", extra.Ref.String())

	assert.Equal(t, "image.Point", field(t, shape, "Origin").Type.Ref.String())
	assert.Equal(t, "[4]byte", field(t, shape, "Corners").Type.Ref.String())
	assert.True(t, field(t, shape, "Label").HasTag("typeforge"))

	_, err = analyzer.GetStruct("example.com/shapes", "Status")
	require.Error(t, err)

	_, err = analyzer.GetStruct("example.com/shapes", "Missing")
	require.Error(t, err)
}

func TestMaterializer_Struct(t *testing.T) {
	t.Parallel()

	analyzer := NewAnalyzer()
	analyzer.AddPackage(checkShapes(t))

	shape, err := analyzer.GetStruct("example.com/shapes", "Shape")
	require.NoError(t, err)

	header := meta.HeaderStructField(meta.Info{Name: "Shape", Package: "example.com/shapes"})

	rt, err := NewMaterializer(shapesResolver()).Struct(shape, header)
	require.NoError(t, err)

	want := reflect.StructOf([]reflect.StructField{
		header,
		{Name: "ID", Type: reflect.TypeFor[int64]()},
		{Name: "Label", Type: reflect.TypeFor[string](), Tag: `typeforge:"readonly"`},
		{Name: "Origin", Type: reflect.TypeFor[image.Point]()},
		{Name: "Tags", Type: reflect.TypeFor[[]string]()},
		{Name: "Extra", Type: reflect.TypeFor[map[string]*int]()},
		{Name: "Corners", Type: reflect.TypeFor[[4]byte]()},
		{Name: "State", Type: reflect.TypeFor[testStatus]()},
	})

	assert.Equal(t, want, rt)
}

func TestMaterializer_UnknownType(t *testing.T) {
	t.Parallel()

	analyzer := NewAnalyzer()
	analyzer.AddPackage(checkShapes(t))

	shape, err := analyzer.GetStruct("example.com/shapes", "Shape")
	require.NoError(t, err)

	resolver := shapesResolver()
	delete(resolver, "image.Point")

	_, err = NewMaterializer(resolver).Struct(shape, meta.HeaderStructField(meta.Info{Name: "Shape"}))
	require.ErrorIs(t, err, errdefs.ErrUnsupportedDescription)
	assert.Contains(t, err.Error(), "Shape.Origin")
}

func TestLayout(t *testing.T) {
	t.Parallel()

	header := meta.HeaderStructField(meta.Info{Name: "X"})

	fields, err := Layout(header,
		[]reflect.Type{reflect.TypeFor[fmt.Stringer](), reflect.TypeFor[testBase](), reflect.TypeFor[image.Point]()},
		[]reflect.StructField{{Name: "ID", Type: reflect.TypeFor[string]()}},
	)
	require.NoError(t, err)

	var names []string
	for _, f := range fields {
		names = append(names, f.Name)
	}

	assert.Equal(t, []string{meta.HeaderField, "Label", "X", "Y", "ID"}, names)
	assert.Equal(t, reflect.TypeFor[string](), fields[4].Type)

	_, err = Layout(header, []reflect.Type{reflect.TypeFor[int]()}, nil)
	require.ErrorIs(t, err, errdefs.ErrUnsupportedDescription)
}

func TestBuild(t *testing.T) {
	t.Parallel()

	_, err := Build("dup", []reflect.StructField{
		{Name: "A", Type: reflect.TypeFor[int]()},
		{Name: "A", Type: reflect.TypeFor[int]()},
	})
	require.ErrorIs(t, err, errdefs.ErrUnsupportedDescription)
}

func TestRefOf(t *testing.T) {
	t.Parallel()

	ref, err := RefOf(types.NewSlice(types.NewPointer(types.Typ[types.Int])))
	require.NoError(t, err)
	assert.Equal(t, "[]*int", ref.String())

	ref, err = RefOf(types.Universe.Lookup("error").Type())
	require.NoError(t, err)
	assert.Equal(t, typeref.Basic("error"), ref)

	_, err = RefOf(types.NewStruct(nil, nil))
	require.ErrorIs(t, err, errdefs.ErrUnsupportedDescription)

	_, err = RefOf(types.NewChan(types.SendRecv, types.Typ[types.Int]))
	require.ErrorIs(t, err, errdefs.ErrUnsupportedDescription)
}

func TestTypeID_String(t *testing.T) {
	t.Parallel()

	id := TypeID{PkgPath: "example.com/shapes", Name: "Shape"}
	assert.Equal(t, "example.com/shapes.Shape", id.String())

	idNoPkg := TypeID{Name: "int"}
	assert.Equal(t, "int", idNoPkg.String())
}

func TestTypeKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "basic", TypeKindBasic.String())
	assert.Equal(t, "struct", TypeKindStruct.String())
	assert.Equal(t, "pointer", TypeKindPointer.String())
	assert.Equal(t, "slice", TypeKindSlice.String())
	assert.Equal(t, "map", TypeKindMap.String())
	assert.Equal(t, "interface", TypeKindInterface.String())
	assert.Equal(t, "alias", TypeKindAlias.String())
	assert.Equal(t, "external", TypeKindExternal.String())
	assert.Equal(t, "unknown", TypeKindUnknown.String())
}
