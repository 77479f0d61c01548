package node

import (
	"reflect"
	"strconv"
)

// TypeString renders t with fully qualified package paths.
func TypeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Pointer:
		return "*" + TypeString(t.Elem())
	case reflect.Slice:
		return "[]" + TypeString(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + TypeString(t.Elem())
	case reflect.Map:
		return "map[" + TypeString(t.Key()) + "]" + TypeString(t.Elem())
	default:
		if t.PkgPath() == "" {
			return t.String()
		}

		return t.PkgPath() + "." + t.Name()
	}
}

var errorType = reflect.TypeFor[error]()

func isError(t reflect.Type) bool {
	if t == nil {
		return false
	}

	return t.Implements(errorType)
}
