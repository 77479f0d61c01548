package annotation

import (
	"fmt"
	"reflect"
	"strconv"
)

// Literal is a constant annotation argument: nil, bool, int64, uint64, float64 or string.
type Literal struct {
	value any
}

func String(s string) Literal { return Literal{value: s} }
func Int(i int64) Literal { return Literal{value: i} }
func Uint(u uint64) Literal { return Literal{value: u} }
func Float(f float64) Literal { return Literal{value: f} }
func Bool(b bool) Literal { return Literal{value: b} }
func Nil() Literal { return Literal{} }
func (l Literal) Value() any { return l.value }
func (l Literal) IsNil() bool { return l.value == nil }
func (l Literal) String() string { return l.GoString() }

// LiteralOf converts a Go constant value into a Literal. Only booleans,
// integers, floats and strings (including named types over them) qualify.
func LiteralOf(v any) (Literal, error) {
	if v == nil {
		return Nil(), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Uint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return String(rv.String()), nil
	default:
		return Literal{}, fmt.Errorf("%T is not a literal kind", v)
	}
}

// GoString renders the literal as untyped Go constant syntax.
func (l Literal) GoString() string {
	switch v := l.value.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		s := strconv.FormatFloat(v, 'g', -1, 64)
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			s += ".0"
		}

		return s
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprint(v)
	}
}

// TagString renders the literal for a struct tag value: strings stay unquoted.
func (l Literal) TagString() string {
	switch v := l.value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return l.GoString()
	}
}
