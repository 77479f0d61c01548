package node

import (
	"errors"
	"path"
	"reflect"
	"runtime"
	"strings"

	"typeforge/utils"
)

var (
	ErrIsNotACaster         = errors.New("provided function is not a recognizable caster")
	ErrCasterIsNotAFunction = errors.New("provided caster is not a function")
	ErrDoublePointer        = errors.New("caster function does not support double pointers")
)

type Caster struct {
	Src, Dst     reflect.Type
	PackageAlias string
	Name         string
	HasBool      bool
	HasErr       bool

	fn reflect.Value
}

// ParseCaster inspects the provided function and returns a Caster struct if it is a valid caster function.
//
// Supports interfaces:
//   - func(src Type) (dst Type)
//   - func(src Type) (dst Type, bool)
//   - func(src Type) (dst Type, error)
//   - func(src Type) (dst Type, bool, error)
func ParseCaster(fn any) (Caster, error) {
	fnVal := reflect.ValueOf(fn)
	if !fnVal.IsValid() || fnVal.Kind() != reflect.Func || fnVal.IsNil() {
		return Caster{}, ErrCasterIsNotAFunction
	}

	fnType := fnVal.Type()
	if fnType.NumIn() != 1 || fnType.NumOut() == 0 || fnType.IsVariadic() {
		return Caster{}, ErrIsNotACaster
	}

	src := fnType.In(0)
	if src.Kind() == reflect.Pointer && src.Elem().Kind() == reflect.Pointer {
		return Caster{}, ErrDoublePointer
	}

	dst := fnType.Out(0)
	if dst.Kind() == reflect.Pointer && dst.Elem().Kind() == reflect.Pointer {
		return Caster{}, ErrDoublePointer
	}

	fnPC := runtime.FuncForPC(fnVal.Pointer())
	alias, name := utils.Unpack2(strings.SplitN(path.Base(fnPC.Name()), ".", 2))

	caster := Caster{
		Src:          src,
		Dst:          dst,
		Name:         name,
		PackageAlias: alias,
		fn:           fnVal,
	}

	switch fnType.NumOut() {
	default:
		return Caster{}, ErrIsNotACaster

	case 1:
		return caster, nil

	case 2:
		last := fnType.Out(1)

		switch {
		default:
			return Caster{}, ErrIsNotACaster
		case last.Kind() == reflect.Bool:
			caster.HasBool = true
		case isError(last):
			caster.HasErr = true
		}

		return caster, nil

	case 3:
		tbool, terr := fnType.Out(1), fnType.Out(2)
		if tbool.Kind() != reflect.Bool || !isError(terr) {
			return Caster{}, ErrIsNotACaster
		}

		caster.HasBool = true
		caster.HasErr = true

		return caster, nil
	}
}

// ParseCasters parses every function, stopping at the first invalid one.
func ParseCasters(fns ...any) ([]Caster, error) {
	out := make([]Caster, 0, len(fns))

	for _, fn := range fns {
		c, err := ParseCaster(fn)
		if err != nil {
			return nil, err
		}

		out = append(out, c)
	}

	return out, nil
}

// Accepts reports whether the caster converts src values into dst values.
func (c Caster) Accepts(src, dst reflect.Type) bool {
	return src != nil && src.AssignableTo(c.Src) && c.Dst.AssignableTo(dst)
}

// Call runs the caster. ok is false when the caster reported the value as
// not convertible, either through its bool result or its error.
func (c Caster) Call(v reflect.Value) (out reflect.Value, ok bool, err error) {
	if !c.fn.IsValid() {
		return reflect.Value{}, false, ErrCasterIsNotAFunction
	}

	res := c.fn.Call([]reflect.Value{v})

	if c.HasErr {
		if errVal := res[len(res)-1]; !errVal.IsNil() {
			return reflect.Value{}, false, errVal.Interface().(error)
		}
	}

	if c.HasBool && !res[1].Bool() {
		return reflect.Value{}, false, nil
	}

	return res[0], true, nil
}
