package primitive

import (
	"reflect"
	"strconv"
	"time"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

// KindEnum is the conversion kind of an atomic Go type. The zero value means
// the type takes no part in primitive conversion.
type KindEnum int

const (
	_ KindEnum = iota

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindTime
	KindDuration
	// KindPrimitiveEnum is a named int or string type other than the ones above.
	KindPrimitiveEnum

	// KindTotal is one past the last kind, for loops over all kinds.
	KindTotal = int(iota)
)

// exact maps the predeclared types, time.Time and time.Duration to their kind.
var exact = map[reflect.Type]KindEnum{
	reflect.TypeFor[int]():           KindInt,
	reflect.TypeFor[int8]():          KindInt8,
	reflect.TypeFor[int16]():         KindInt16,
	reflect.TypeFor[int32]():         KindInt32,
	reflect.TypeFor[int64]():         KindInt64,
	reflect.TypeFor[uint]():          KindUint,
	reflect.TypeFor[uint8]():         KindUint8,
	reflect.TypeFor[uint16]():        KindUint16,
	reflect.TypeFor[uint32]():        KindUint32,
	reflect.TypeFor[uint64]():        KindUint64,
	reflect.TypeFor[float32]():       KindFloat32,
	reflect.TypeFor[float64]():       KindFloat64,
	reflect.TypeFor[bool]():          KindBool,
	reflect.TypeFor[string]():        KindString,
	reflect.TypeFor[time.Time]():     KindTime,
	reflect.TypeFor[time.Duration](): KindDuration,
}

func (k KindEnum) IsNumber() bool { return k >= KindInt && k <= KindFloat64 }

func (k KindEnum) IsInteger() bool { return k >= KindInt && k <= KindUint64 }

func (k KindEnum) IsFloat() bool { return k == KindFloat32 || k == KindFloat64 }

func (k KindEnum) IsSigned() bool { return k >= KindInt && k <= KindInt64 }

func (k KindEnum) IsUnsigned() bool { return k >= KindUint && k <= KindUint64 }

// Bits returns the size of a number kind. It panics for other kinds.
func (k KindEnum) Bits() int {
	switch k {
	case KindInt, KindUint:
		return strconv.IntSize
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32, KindFloat32:
		return 32
	case KindInt64, KindUint64, KindFloat64:
		return 64
	}

	panic("primitive: Bits of non-number kind " + k.String())
}

// FromReflectType classifies rtype. Named types keep their underlying
// number or bool kind only when they are one of the exact types; other named
// int and string types are enums.
func FromReflectType(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	if k, ok := exact[rtype]; ok {
		return k
	}

	switch rtype.Kind() {
	case reflect.Int, reflect.String:
		return KindPrimitiveEnum
	default:
		return 0
	}
}
