package primitive

import (
	"fmt"
	"strings"
)

// CategoryEnum is a set of conversion categories.
type CategoryEnum int

// ConversionPair is a source and target kind.
type ConversionPair struct {
	From, To KindEnum
}

const (
	CategorySafeNumber   CategoryEnum = 1 << iota // number to number, every value representable
	CategoryUnsafeNumber                          // number to number that may overflow or lose precision
	CategoryTextNumber                            // number <-> decimal string
	CategoryNumericBool                           // integer <-> bool as 0 and 1
	CategoryTextualBool                           // string <-> bool: yes/no, on/off, true/false
	CategoryDatetime                              // string (RFC 3339) <-> time.Time
	CategoryTimestamp                             // integer Unix seconds <-> time.Time
	CategoryDuration                              // string ("2h45m") <-> time.Duration
	CategoryNanoseconds                           // integer nanoseconds <-> time.Duration
	CategorySeconds                               // float seconds <-> time.Duration
	CategoryEnumString                            // string <-> enum, enum <-> enum

	CategoryAll  = (1 << iota) - 1
	CategoryNone = 0
)

// Category returns the category of the p conversion, or CategoryNone when
// no conversion exists.
func Category(p ConversionPair) CategoryEnum {
	from, to := p.From, p.To

	switch {
	case from.IsNumber() && to.IsNumber():
		if safeNumber(from, to) {
			return CategorySafeNumber
		}

		return CategoryUnsafeNumber
	case either(p, KindString, KindEnum.IsNumber):
		return CategoryTextNumber
	case either(p, KindBool, KindEnum.IsInteger):
		return CategoryNumericBool
	case either(p, KindBool, is(KindString)):
		return CategoryTextualBool
	case either(p, KindTime, is(KindString)):
		return CategoryDatetime
	case either(p, KindTime, KindEnum.IsInteger):
		return CategoryTimestamp
	case either(p, KindDuration, is(KindString)):
		return CategoryDuration
	case either(p, KindDuration, func(k KindEnum) bool { return k.IsInteger() && k != KindUint64 }):
		return CategoryNanoseconds
	case either(p, KindDuration, KindEnum.IsFloat):
		return CategorySeconds
	case from == KindPrimitiveEnum && (to == KindString || to == KindPrimitiveEnum),
		to == KindPrimitiveEnum && from == KindString:
		return CategoryEnumString
	}

	return CategoryNone
}

func is(k KindEnum) func(KindEnum) bool {
	return func(other KindEnum) bool { return other == k }
}

// either reports whether one side of p is k and the other satisfies other.
func either(p ConversionPair, k KindEnum, other func(KindEnum) bool) bool {
	return (p.From == k && other(p.To)) || (p.To == k && other(p.From))
}

// valueBits is the number of bits that carry the magnitude of a number kind.
// int and uint are taken at their widest as a source and their narrowest
// as a target, so the result holds on every platform.
func valueBits(k KindEnum, source bool) int {
	switch k {
	case KindFloat32:
		return 24
	case KindFloat64:
		return 53
	}

	bits := k.Bits()
	if k == KindInt || k == KindUint {
		bits = 32
		if source {
			bits = 64
		}
	}

	if k.IsSigned() {
		bits--
	}

	return bits
}

func safeNumber(from, to KindEnum) bool {
	switch {
	case from == to:
		return true
	case from.IsFloat():
		return to.IsFloat() && valueBits(from, true) <= valueBits(to, false)
	case from.IsSigned() && to.IsUnsigned():
		return false
	}

	return valueBits(from, true) <= valueBits(to, false)
}

var categoryNames = map[string]CategoryEnum{
	"safe-number":   CategorySafeNumber,
	"unsafe-number": CategoryUnsafeNumber,
	"text-number":   CategoryTextNumber,
	"numeric-bool":  CategoryNumericBool,
	"textual-bool":  CategoryTextualBool,
	"datetime":      CategoryDatetime,
	"timestamp":     CategoryTimestamp,
	"duration":      CategoryDuration,
	"nanoseconds":   CategoryNanoseconds,
	"seconds":       CategorySeconds,
	"enum-string":   CategoryEnumString,
	"all":           CategoryAll,
	"none":          CategoryNone,
}

// ParseCategories combines categories given by name, e.g. "safe-number".
func ParseCategories(names ...string) (CategoryEnum, error) {
	var res CategoryEnum

	for _, name := range names {
		category, ok := categoryNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return 0, fmt.Errorf("unknown conversion category %q", name)
		}

		res |= category
	}

	return res, nil
}
