package analyze

import (
	"fmt"
	"go/types"
	"reflect"

	"typeforge/errdefs"
	"typeforge/typeref"
)

// Analyzer builds a type graph from checked packages.
type Analyzer struct {
	graph     *TypeGraph
	typeCache map[types.Type]*TypeInfo // Cache to handle recursive types
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		graph:     NewTypeGraph(),
		typeCache: make(map[types.Type]*TypeInfo),
	}
}

// AddPackage extracts the exported named types of pkg into the graph.
func (a *Analyzer) AddPackage(pkg *types.Package) *PackageInfo {
	if info, ok := a.graph.Packages[pkg.Path()]; ok {
		return info
	}

	pkgInfo := &PackageInfo{
		Path: pkg.Path(),
		Name: pkg.Name(),
	}

	// Registered first so types of pkg are not classified as external.
	a.graph.Packages[pkg.Path()] = pkgInfo

	scope := pkg.Scope()
	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !typeName.Exported() {
			continue
		}

		typeID := TypeID{
			PkgPath: pkg.Path(),
			Name:    name,
		}

		typeInfo := a.analyzeType(typeName.Type())
		typeInfo.ID = typeID

		a.graph.Types[typeID] = typeInfo
		pkgInfo.Types = append(pkgInfo.Types, typeID)
	}

	return pkgInfo
}

// Graph returns the current type graph.
func (a *Analyzer) Graph() *TypeGraph {
	return a.graph
}

// analyzeType recursively analyzes a go/types.Type and returns a TypeInfo.
func (a *Analyzer) analyzeType(t types.Type) *TypeInfo {
	t = types.Unalias(t)

	if cached, ok := a.typeCache[t]; ok {
		return cached
	}

	info := &TypeInfo{
		GoType: t,
	}

	// Pre-cache to handle recursive types (we'll fill in details)
	a.typeCache[t] = info

	if ref, err := RefOf(t); err == nil {
		info.Ref = ref
	}

	switch tt := t.(type) {
	case *types.Named:
		a.analyzeNamedType(tt, info)

	case *types.Basic:
		info.Kind = TypeKindBasic

	case *types.Pointer:
		info.Kind = TypeKindPointer
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Slice:
		info.Kind = TypeKindSlice
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Array:
		info.Kind = TypeKindArray
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Map:
		info.Kind = TypeKindMap
		info.KeyType = a.analyzeType(tt.Key())
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Struct:
		info.Kind = TypeKindStruct
		a.analyzeStructFields(tt, info)

	case *types.Interface:
		info.Kind = TypeKindInterface
		a.analyzeMethods(tt, info)

	default:
		// Channels, functions and signatures have no synthesized form.
		info.Kind = TypeKindUnknown
	}

	return info
}

// analyzeNamedType analyzes a named type.
func (a *Analyzer) analyzeNamedType(named *types.Named, info *TypeInfo) {
	obj := named.Obj()

	pkgPath := ""
	if obj.Pkg() != nil {
		pkgPath = obj.Pkg().Path()
	}

	info.ID = TypeID{
		PkgPath: pkgPath,
		Name:    obj.Name(),
	}

	underlying := named.Underlying()

	switch ut := underlying.(type) {
	case *types.Struct:
		info.Kind = TypeKindStruct
		a.analyzeStructFields(ut, info)

	case *types.Interface:
		info.Kind = TypeKindInterface
		a.analyzeMethods(ut, info)

	default:
		if a.isExternalPackage(pkgPath) {
			info.Kind = TypeKindExternal
		} else {
			info.Kind = TypeKindAlias
		}

		info.Underlying = a.analyzeType(ut)
	}
}

// isExternalPackage returns true if the package is not in our analyzed set.
func (a *Analyzer) isExternalPackage(pkgPath string) bool {
	_, ok := a.graph.Packages[pkgPath]
	return !ok
}

// analyzeStructFields extracts the exported fields of a struct type.
func (a *Analyzer) analyzeStructFields(st *types.Struct, info *TypeInfo) {
	for i := range st.NumFields() {
		field := st.Field(i)
		if !field.Exported() {
			continue
		}

		info.Fields = append(info.Fields, FieldInfo{
			Name:     field.Name(),
			Exported: field.Exported(),
			Type:     a.analyzeType(field.Type()),
			Tag:      reflect.StructTag(st.Tag(i)),
			Embedded: field.Embedded(),
			Index:    i,
		})
	}
}

func (a *Analyzer) analyzeMethods(it *types.Interface, info *TypeInfo) {
	for i := range it.NumExplicitMethods() {
		info.Methods = append(info.Methods, it.ExplicitMethod(i).Name())
	}
}

// GetStruct returns the TypeInfo for a named struct.
func (a *Analyzer) GetStruct(pkgPath, typeName string) (*TypeInfo, error) {
	id := TypeID{PkgPath: pkgPath, Name: typeName}

	info := a.graph.GetType(id)
	if info == nil {
		return nil, fmt.Errorf("type %s not found", id)
	}

	if info.Kind != TypeKindStruct {
		return nil, fmt.Errorf("type %s is not a struct (kind: %s)", id, info.Kind)
	}

	return info, nil
}

// RefOf describes a go/types type structurally. Types without a portable
// name (unnamed structs, funcs, channels, non-empty unnamed interfaces)
// are unsupported.
func RefOf(t types.Type) (typeref.TypeRef, error) {
	switch tt := types.Unalias(t).(type) {
	case *types.Basic:
		if !typeref.IsBasicName(tt.Name()) {
			return typeref.TypeRef{}, errdefs.Unsupported(tt.Name(), "basic type has no reflect counterpart")
		}

		return typeref.Basic(tt.Name()), nil

	case *types.Pointer:
		elem, err := RefOf(tt.Elem())
		if err != nil {
			return typeref.TypeRef{}, err
		}

		return typeref.PointerTo(elem), nil

	case *types.Slice:
		elem, err := RefOf(tt.Elem())
		if err != nil {
			return typeref.TypeRef{}, err
		}

		return typeref.SliceOf(elem), nil

	case *types.Array:
		elem, err := RefOf(tt.Elem())
		if err != nil {
			return typeref.TypeRef{}, err
		}

		return typeref.ArrayOf(int(tt.Len()), elem), nil

	case *types.Map:
		key, err := RefOf(tt.Key())
		if err != nil {
			return typeref.TypeRef{}, err
		}

		elem, err := RefOf(tt.Elem())
		if err != nil {
			return typeref.TypeRef{}, err
		}

		return typeref.MapOf(key, elem), nil

	case *types.Interface:
		if tt.Empty() {
			return typeref.Basic("any"), nil
		}

	case *types.Named:
		return namedRef(tt)
	}

	return typeref.TypeRef{}, errdefs.Unsupported(t.String(), "type has no portable Go name")
}

func namedRef(named *types.Named) (typeref.TypeRef, error) {
	obj := named.Obj()
	if obj.Pkg() == nil {
		// predeclared: error, comparable
		if typeref.IsBasicName(obj.Name()) {
			return typeref.Basic(obj.Name()), nil
		}

		return typeref.TypeRef{}, errdefs.Unsupported(obj.Name(), "predeclared type has no reflect counterpart")
	}

	var args []typeref.TypeRef

	if list := named.TypeArgs(); list != nil {
		for i := range list.Len() {
			arg, err := RefOf(list.At(i))
			if err != nil {
				return typeref.TypeRef{}, err
			}

			args = append(args, arg)
		}
	}

	ref := typeref.Named(obj.Pkg().Path(), obj.Name(), args...)

	switch ut := named.Underlying().(type) {
	case *types.Struct:
		ref.Kind = typeref.KindStruct
	case *types.Interface:
		ref.Kind = typeref.KindInterface
	case *types.Basic:
		if ut.Info()&(types.IsBoolean|types.IsNumeric|types.IsString) != 0 {
			ref.Kind = typeref.KindEnum
		}
	}

	return ref, nil
}
