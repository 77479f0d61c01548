package node

import (
	"reflect"

	"typeforge/primitive"
)

// Route is the dispatch decision for a src/dst type pair together with the
// pointer depths stripped from both sides.
type Route struct {
	Kind               DispatcherEnum
	SrcDepth, DstDepth int
	SrcBase, DstBase   reflect.Type
}

// Classify dispatches the pair after stripping pointers from both sides.
func Classify(src, dst reflect.Type) Route {
	srcDepth, srcBase := ptrDepthAndBase(src)
	dstDepth, dstBase := ptrDepthAndBase(dst)

	return Route{
		Kind:     Dispatch(srcBase, dstBase),
		SrcDepth: srcDepth,
		DstDepth: dstDepth,
		SrcBase:  srcBase,
		DstBase:  dstBase,
	}
}

// Dispatch classifies a pair of non-pointer types by the shape of dst.
func Dispatch(src, dst reflect.Type) DispatcherEnum {
	if src == nil || dst == nil {
		return DispatcherUnknown
	}

	if src.Kind() == reflect.Pointer || dst.Kind() == reflect.Pointer {
		panic("dispatcher is not allowing pointer reflect types")
	}

	if dst.Kind() == reflect.Interface {
		return DispatcherInterface
	}

	if dst.Kind() == reflect.Slice || dst.Kind() == reflect.Array {
		if src.Kind() == reflect.Slice || src.Kind() == reflect.Array {
			return DispatcherSlice
		}

		return DispatcherUnknown
	}

	if dst.Kind() == reflect.Map {
		if src.Kind() == reflect.Map {
			return DispatcherMap
		}

		return DispatcherUnknown
	}

	dstKind := primitive.FromReflectType(dst)
	if dstKind != 0 {
		srcKind := primitive.FromReflectType(src)
		if srcKind != 0 {
			return DispatcherPrimitive
		}

		return DispatcherUnknown
	}

	if dst.Kind() == reflect.Struct {
		if src.Kind() == reflect.Struct {
			return DispatcherStruct
		}

		return DispatcherUnknown
	}

	return DispatcherUnknown
}

// Base strips every pointer level from t.
func Base(t reflect.Type) reflect.Type {
	_, base := ptrDepthAndBase(t)
	return base
}

// ptrDepthAndBase returns the pointer depth and the final base type.
func ptrDepthAndBase(t reflect.Type) (depth int, base reflect.Type) {
	depth, base = 0, t
	for base != nil && base.Kind() == reflect.Pointer {
		depth++
		base = base.Elem()
	}

	return
}

// StructPairs returns the struct pairs a src to dst copy descends into:
// the pair itself, or the pairs of collection elements and map keys.
func StructPairs(src, dst reflect.Type) []StructPair {
	route := Classify(src, dst)

	switch route.Kind {
	case DispatcherStruct:
		return []StructPair{{Src: route.SrcBase, Dst: route.DstBase}}
	case DispatcherSlice:
		return StructPairs(route.SrcBase.Elem(), route.DstBase.Elem())
	case DispatcherMap:
		return append(StructPairs(route.SrcBase.Key(), route.DstBase.Key()),
			StructPairs(route.SrcBase.Elem(), route.DstBase.Elem())...)
	default:
		return nil
	}
}
