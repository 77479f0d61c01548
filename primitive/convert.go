package primitive

import (
	"encoding"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNotAllowed     = errors.New("conversion is not allowed")
	ErrOutOfRange     = errors.New("value is out of range")
	ErrInvalidLiteral = errors.New("invalid literal")
)

// converter turns src into a value of exactly type dst.
type converter func(src reflect.Value, dst reflect.Type) (reflect.Value, error)

var converters map[ConversionPair]converter

// Supports reports whether a src to dst conversion exists in the allowed categories.
func Supports(src, dst reflect.Type, allowed CategoryEnum) bool {
	pair := ConversionPair{FromReflectType(src), FromReflectType(dst)}
	if pair.From == 0 || pair.To == 0 {
		return false
	}

	return Category(pair)&allowed != 0
}

// Convert converts src into a value of type dst using the conversions of
// the allowed categories. A conversion that is not allowed fails with
// ErrNotAllowed; a value that cannot be represented fails with
// ErrOutOfRange or ErrInvalidLiteral.
func Convert(src reflect.Value, dst reflect.Type, allowed CategoryEnum) (reflect.Value, error) {
	if !src.IsValid() {
		return reflect.Value{}, fmt.Errorf("invalid source value: %w", ErrNotAllowed)
	}

	if !Supports(src.Type(), dst, allowed) {
		return reflect.Value{}, fmt.Errorf("%s to %s: %w", src.Type(), dst, ErrNotAllowed)
	}

	pair := ConversionPair{FromReflectType(src.Type()), FromReflectType(dst)}

	conv, ok := converters[pair]
	if !ok {
		return reflect.Value{}, fmt.Errorf("%s to %s: %w", src.Type(), dst, ErrNotAllowed)
	}

	out, err := conv(src, dst)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%s to %s: %w", src.Type(), dst, err)
	}

	return out, nil
}

func init() {
	converters = map[ConversionPair]converter{}

	// CategorySafeNumber
	// CategoryUnsafeNumber
	for fromKind := KindEnum(0); int(fromKind) < KindTotal; fromKind++ {
		if !fromKind.IsNumber() {
			continue
		}

		for toKind := KindEnum(0); int(toKind) < KindTotal; toKind++ {
			if !toKind.IsNumber() {
				continue
			}

			converters[ConversionPair{fromKind, toKind}] = numberToNumber
		}
	}

	// CategoryTextNumber
	for numberKind := KindEnum(0); int(numberKind) < KindTotal; numberKind++ {
		if !numberKind.IsNumber() {
			continue
		}

		converters[ConversionPair{numberKind, KindString}] = numberToString
		converters[ConversionPair{KindString, numberKind}] = stringToNumber
	}

	// CategoryNumericBool
	// CategoryTimestamp
	// CategoryNanoseconds
	for integerKind := KindEnum(0); int(integerKind) < KindTotal; integerKind++ {
		if !integerKind.IsInteger() {
			continue
		}

		converters[ConversionPair{integerKind, KindBool}] = integerToBool
		converters[ConversionPair{KindBool, integerKind}] = boolToInteger
		converters[ConversionPair{integerKind, KindTime}] = unixToTime
		converters[ConversionPair{KindTime, integerKind}] = timeToUnix
		converters[ConversionPair{integerKind, KindDuration}] = numberToNumber
		converters[ConversionPair{KindDuration, integerKind}] = numberToNumber
	}

	// CategoryTextualBool
	converters[ConversionPair{KindString, KindBool}] = stringToBool
	converters[ConversionPair{KindBool, KindString}] = boolToString

	// CategoryDatetime
	converters[ConversionPair{KindString, KindTime}] = stringToTime
	converters[ConversionPair{KindTime, KindString}] = timeToString

	// CategoryDuration
	converters[ConversionPair{KindString, KindDuration}] = stringToDuration
	converters[ConversionPair{KindDuration, KindString}] = durationToString

	// CategorySeconds
	converters[ConversionPair{KindFloat32, KindDuration}] = secondsToDuration
	converters[ConversionPair{KindFloat64, KindDuration}] = secondsToDuration
	converters[ConversionPair{KindDuration, KindFloat32}] = durationToSeconds
	converters[ConversionPair{KindDuration, KindFloat64}] = durationToSeconds

	// CategoryEnumString
	converters[ConversionPair{KindString, KindPrimitiveEnum}] = stringToEnum
	converters[ConversionPair{KindPrimitiveEnum, KindString}] = enumToString
	converters[ConversionPair{KindPrimitiveEnum, KindPrimitiveEnum}] = enumToEnum
}

func numberToNumber(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
	out := reflect.New(dst).Elem()

	switch {
	case src.CanInt():
		i := src.Int()
		switch {
		case out.CanInt():
			if out.OverflowInt(i) {
				return reflect.Value{}, ErrOutOfRange
			}

			out.SetInt(i)
		case out.CanUint():
			if i < 0 || out.OverflowUint(uint64(i)) {
				return reflect.Value{}, ErrOutOfRange
			}

			out.SetUint(uint64(i))
		default:
			out.SetFloat(float64(i))
		}

	case src.CanUint():
		u := src.Uint()
		switch {
		case out.CanInt():
			if u > math.MaxInt64 || out.OverflowInt(int64(u)) {
				return reflect.Value{}, ErrOutOfRange
			}

			out.SetInt(int64(u))
		case out.CanUint():
			if out.OverflowUint(u) {
				return reflect.Value{}, ErrOutOfRange
			}

			out.SetUint(u)
		default:
			out.SetFloat(float64(u))
		}

	default:
		f := src.Float()
		switch {
		case out.CanInt():
			if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 || out.OverflowInt(int64(f)) {
				return reflect.Value{}, ErrOutOfRange
			}

			out.SetInt(int64(f))
		case out.CanUint():
			if math.IsNaN(f) || f < 0 || f >= math.MaxUint64 || out.OverflowUint(uint64(f)) {
				return reflect.Value{}, ErrOutOfRange
			}

			out.SetUint(uint64(f))
		default:
			if !math.IsInf(f, 0) && out.OverflowFloat(f) {
				return reflect.Value{}, ErrOutOfRange
			}

			out.SetFloat(f)
		}
	}

	return out, nil
}

func numberToString(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
	out := reflect.New(dst).Elem()

	switch {
	case src.CanInt():
		out.SetString(strconv.FormatInt(src.Int(), 10))
	case src.CanUint():
		out.SetString(strconv.FormatUint(src.Uint(), 10))
	default:
		out.SetString(strconv.FormatFloat(src.Float(), 'f', -1, src.Type().Bits()))
	}

	return out, nil
}

func stringToNumber(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
	out := reflect.New(dst).Elem()
	s := strings.TrimSpace(src.String())

	switch {
	case out.CanInt():
		i, err := strconv.ParseInt(s, 10, dst.Bits())
		if err != nil {
			return reflect.Value{}, parseError(err)
		}

		out.SetInt(i)
	case out.CanUint():
		u, err := strconv.ParseUint(s, 10, dst.Bits())
		if err != nil {
			return reflect.Value{}, parseError(err)
		}

		out.SetUint(u)
	default:
		f, err := strconv.ParseFloat(s, dst.Bits())
		if err != nil {
			return reflect.Value{}, parseError(err)
		}

		out.SetFloat(f)
	}

	return out, nil
}

func parseError(err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return fmt.Errorf("%w: %w", ErrOutOfRange, err)
	}

	return fmt.Errorf("%w: %w", ErrInvalidLiteral, err)
}

// 0, 1 - valid, other numbers is error
func integerToBool(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
	out := reflect.New(dst).Elem()

	var n uint64
	if src.CanInt() {
		if src.Int() < 0 {
			return reflect.Value{}, fmt.Errorf("only numbers 0 and 1 are allowed for bool, got %d: %w", src.Int(), ErrOutOfRange)
		}

		n = uint64(src.Int())
	} else {
		n = src.Uint()
	}

	if n > 1 {
		return reflect.Value{}, fmt.Errorf("only numbers 0 and 1 are allowed for bool, got %d: %w", n, ErrOutOfRange)
	}

	out.SetBool(n == 1)

	return out, nil
}

func boolToInteger(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
	out := reflect.New(dst).Elem()

	var n int64
	if src.Bool() {
		n = 1
	}

	if out.CanInt() {
		out.SetInt(n)
	} else {
		out.SetUint(uint64(n))
	}

	return out, nil
}

func stringToBool(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
	out := reflect.New(dst).Elem()

	switch strings.ToLower(strings.TrimSpace(src.String())) {
	default:
		return reflect.Value{}, fmt.Errorf("only strings true/false, yes/no, on/off are allowed for bool, got %q: %w",
			src.String(), ErrInvalidLiteral)
	case "true", "yes", "on":
		out.SetBool(true)
	case "false", "no", "off":
		out.SetBool(false)
	}

	return out, nil
}

func boolToString(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
	out := reflect.New(dst).Elem()
	out.SetString(strconv.FormatBool(src.Bool()))

	return out, nil
}

func stringToTime(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(src.String()))
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w: %w", ErrInvalidLiteral, err)
	}

	return reflect.ValueOf(t).Convert(dst), nil
}

func timeToString(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
	t := src.Interface().(time.Time)

	out := reflect.New(dst).Elem()
	out.SetString(t.Format(time.RFC3339Nano))

	return out, nil
}

func unixToTime(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
	var sec int64
	if src.CanInt() {
		sec = src.Int()
	} else {
		if src.Uint() > math.MaxInt64 {
			return reflect.Value{}, ErrOutOfRange
		}

		sec = int64(src.Uint())
	}

	return reflect.ValueOf(time.Unix(sec, 0).UTC()).Convert(dst), nil
}

func timeToUnix(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
	return numberToNumber(reflect.ValueOf(src.Interface().(time.Time).Unix()), dst)
}

func stringToDuration(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
	d, err := time.ParseDuration(strings.TrimSpace(src.String()))
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w: %w", ErrInvalidLiteral, err)
	}

	return reflect.ValueOf(d).Convert(dst), nil
}

func durationToString(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
	out := reflect.New(dst).Elem()
	out.SetString(time.Duration(src.Int()).String())

	return out, nil
}

func secondsToDuration(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
	ns := src.Float() * float64(time.Second)
	if math.IsNaN(ns) || ns < math.MinInt64 || ns >= math.MaxInt64 {
		return reflect.Value{}, ErrOutOfRange
	}

	return reflect.ValueOf(time.Duration(ns)).Convert(dst), nil
}

func durationToSeconds(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
	out := reflect.New(dst).Elem()
	out.SetFloat(time.Duration(src.Int()).Seconds())

	return out, nil
}

var (
	stringerType      = reflect.TypeFor[fmt.Stringer]()
	validatorType     = reflect.TypeFor[interface{ IsValid() bool }]()
	textUnmarshalType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// stringToEnum accepts string enums directly and integer enums through
// encoding.TextUnmarshaler. Enums with an IsValid method are checked.
func stringToEnum(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
	s := src.String()
	ptr := reflect.New(dst)

	switch {
	case reflect.PointerTo(dst).Implements(textUnmarshalType):
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %w", ErrInvalidLiteral, err)
		}
	case dst.Kind() == reflect.String:
		ptr.Elem().SetString(s)
	default:
		return reflect.Value{}, fmt.Errorf("%s has no textual form: %w", dst, ErrNotAllowed)
	}

	out := ptr.Elem()
	if dst.Implements(validatorType) && !out.Interface().(interface{ IsValid() bool }).IsValid() {
		return reflect.Value{}, fmt.Errorf("%q is not a valid value for %s: %w", s, dst, ErrInvalidLiteral)
	}

	return out, nil
}

func enumToString(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
	var s string

	switch {
	case src.Type().Implements(stringerType):
		s = src.Interface().(fmt.Stringer).String()
	case src.Kind() == reflect.String:
		s = src.String()
	default:
		return reflect.Value{}, fmt.Errorf("%s has no textual form: %w", src.Type(), ErrNotAllowed)
	}

	out := reflect.New(dst).Elem()
	out.SetString(s)

	return out, nil
}

func enumToEnum(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
	text, err := enumToString(src, reflect.TypeFor[string]())
	if err != nil {
		return reflect.Value{}, err
	}

	return stringToEnum(text, dst)
}
