package match

import (
	"reflect"
)

// TypeCompatibility represents the level of compatibility between two types.
type TypeCompatibility int

const (
	// TypeIncompatible means the types cannot be converted.
	TypeIncompatible TypeCompatibility = iota
	// TypeNeedsTransform means values only carry over element by element or
	// through a pointer dereference.
	TypeNeedsTransform
	// TypeConvertible means types are convertible using Go's type conversion.
	TypeConvertible
	// TypeAssignable means the source type can be directly assigned to the target.
	TypeAssignable
	// TypeIdentical means the types are exactly the same.
	TypeIdentical
)

const (
	VerdictIdentical      = "identical"
	VerdictAssignable     = "assignable"
	VerdictConvertible    = "convertible"
	VerdictNeedsTransform = "needs_transform"
	VerdictIncompatible   = "incompatible"
)

// String returns a human-readable name for the compatibility level.
func (c TypeCompatibility) String() string {
	switch c {
	case TypeIdentical:
		return VerdictIdentical
	case TypeAssignable:
		return VerdictAssignable
	case TypeConvertible:
		return VerdictConvertible
	case TypeNeedsTransform:
		return VerdictNeedsTransform
	case TypeIncompatible:
		return VerdictIncompatible
	default:
		return "unknown"
	}
}

// Score returns a numeric score for sorting (higher is better).
func (c TypeCompatibility) Score() int {
	return int(c)
}

// TypeCompatibilityResult contains detailed information about type compatibility.
type TypeCompatibilityResult struct {
	Compatibility TypeCompatibility
	Reason        string
	SourceType    string
	TargetType    string
}

func result(c TypeCompatibility, reason string, source, target reflect.Type) TypeCompatibilityResult {
	return TypeCompatibilityResult{
		Compatibility: c,
		Reason:        reason,
		SourceType:    typeString(source),
		TargetType:    typeString(target),
	}
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}

// ScoreTypeCompatibility determines the compatibility between a source and target type.
func ScoreTypeCompatibility(source, target reflect.Type) TypeCompatibilityResult {
	switch {
	case source == nil || target == nil:
		return result(TypeIncompatible, "type information unavailable", source, target)
	case source == target:
		return result(TypeIdentical, "types are identical", source, target)
	case source.AssignableTo(target):
		return result(TypeAssignable, "source is assignable to target", source, target)
	case source.ConvertibleTo(target) && !lossyConversion(source, target):
		return result(TypeConvertible, "source is convertible to target", source, target)
	case needsTransform(source, target):
		return result(TypeNeedsTransform, "types require a transform", source, target)
	default:
		return result(TypeIncompatible, "types are not compatible", source, target)
	}
}

// lossyConversion rejects conversions reflect allows but that reinterpret
// the value, such as int to string.
func lossyConversion(source, target reflect.Type) bool {
	return IsNumericType(source) && IsStringType(target)
}

// needsTransform checks for cases where types might be convertible via a transform.
func needsTransform(source, target reflect.Type) bool {
	sourceIsPtr := source.Kind() == reflect.Pointer
	targetIsPtr := target.Kind() == reflect.Pointer

	if sourceIsPtr && !targetIsPtr {
		// *T -> T (dereference possible if not nil)
		if ScoreTypeCompatibility(source.Elem(), target).Compatibility >= TypeConvertible {
			return true
		}
	}

	if !sourceIsPtr && targetIsPtr {
		// T -> *T (take address)
		if ScoreTypeCompatibility(source, target.Elem()).Compatibility >= TypeConvertible {
			return true
		}
	}

	sk, tk := source.Kind(), target.Kind()

	if (sk == reflect.Slice || sk == reflect.Array) && (tk == reflect.Slice || tk == reflect.Array) {
		return ScoreTypeCompatibility(source.Elem(), target.Elem()).Compatibility >= TypeNeedsTransform
	}

	if sk == reflect.Map && tk == reflect.Map {
		return ScoreTypeCompatibility(source.Key(), target.Key()).Compatibility >= TypeNeedsTransform &&
			ScoreTypeCompatibility(source.Elem(), target.Elem()).Compatibility >= TypeNeedsTransform
	}

	// Struct to struct (might have compatible fields)
	return sk == reflect.Struct && tk == reflect.Struct
}

// IsNumericType returns true if the type is of a numeric kind.
func IsNumericType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	default:
		return false
	}
}

// IsStringType returns true if the type is of string kind.
func IsStringType(t reflect.Type) bool {
	return t.Kind() == reflect.String
}
