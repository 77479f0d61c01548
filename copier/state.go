package copier

import (
	"fmt"
	"reflect"
	"time"

	"typeforge/node"
	"typeforge/options"
	"typeforge/primitive"
	"typeforge/props"
)

type visitKey struct {
	ptr uintptr
	typ reflect.Type
}

// state is the per-call copy state.
type state struct {
	engine  *Engine
	cfg     options.Copy
	casters []node.Caster
	visited map[visitKey]reflect.Value
	nested  bool
}

func (st *state) copyStruct(src, dst reflect.Value, fresh bool) error {
	top := !st.nested
	st.nested = true

	p := st.engine.plan(src.Type(), dst.Type(), st.cfg.IncludePrivate, fresh)

	for _, f := range p.fields {
		if top && !st.cfg.Selects(f.src.Name) {
			continue
		}

		var val reflect.Value
		if top {
			var err error
			if val, err = st.cfg.Resolver(f.src, src, dst); err != nil {
				return fmt.Errorf("resolve %s: %w", f.src.Name, err)
			}
		} else {
			val = f.src.Get(src)
		}

		if st.cfg.SkipNulls && isNull(val) {
			continue
		}

		from := f.src.Type
		if val.IsValid() && !val.Type().AssignableTo(from) {
			from = val.Type()
		}

		out, ok, err := st.value(val, from, f.dst.Type)
		if err != nil {
			return fmt.Errorf("%s: %w", f.src.Name, err)
		}

		if !ok {
			st.skipped(f.src.Name, from, f.dst.Type, nil)
			continue
		}

		if err := f.dst.Init(dst, out); err != nil {
			st.skipped(f.src.Name, from, f.dst.Type, err)
		}
	}

	return nil
}

func (st *state) skipped(name string, from, to reflect.Type, err error) {
	st.engine.logger.Debug().
		Err(err).
		Str("property", name).
		Str("from", node.TypeString(from)).
		Str("to", node.TypeString(to)).
		Msg("property skipped")
}

// value produces the value assigned to a property of type to from v, read
// from a property of type from. ok is false when no conversion applies.
func (st *state) value(v reflect.Value, from, to reflect.Type) (reflect.Value, bool, error) {
	if !v.IsValid() {
		return reflect.Zero(to), true, nil
	}

	if from == to {
		out, err := st.clone(v)
		return out, err == nil, err
	}

	route := node.Classify(from, to)

	if st.cfg.CompareUnderlyingNullable && route.SrcBase == route.DstBase {
		base, ok := deref(v)
		if !ok {
			return reflect.Zero(to), nullable(to), nil
		}

		out, err := st.clone(base)
		if err != nil {
			return reflect.Value{}, false, err
		}

		return wrap(out, to), true, nil
	}

	if !st.cfg.AttemptConversion {
		return reflect.Value{}, false, nil
	}

	return st.convert(v, route, to)
}

func (st *state) convert(v reflect.Value, route node.Route, to reflect.Type) (reflect.Value, bool, error) {
	if out, ok := st.cast(v, to); ok {
		return out, true, nil
	}

	if v.Type().AssignableTo(to) {
		out, err := st.clone(v)
		if err != nil {
			return reflect.Value{}, false, err
		}

		res := reflect.New(to).Elem()
		res.Set(out)

		return res, true, nil
	}

	base, ok := deref(v)
	if !ok {
		return reflect.Zero(to), nullable(to), nil
	}

	if out, ok := st.cast(base, route.DstBase); ok {
		return wrap(out, to), true, nil
	}

	var (
		out reflect.Value
		err error
	)

	switch route.Kind {
	case node.DispatcherInterface:
		if !base.Type().AssignableTo(route.DstBase) {
			return reflect.Value{}, false, nil
		}

		if out, err = st.clone(base); err != nil {
			return reflect.Value{}, false, err
		}

		iv := reflect.New(route.DstBase).Elem()
		iv.Set(out)
		out = iv

	case node.DispatcherPrimitive:
		out, err = primitive.Convert(base, route.DstBase, st.cfg.Conversions)
		if err != nil {
			if out, ok = goConvert(base, route.DstBase); !ok {
				st.skipped("", base.Type(), route.DstBase, err)
				return reflect.Value{}, false, nil
			}
		}

	case node.DispatcherStruct:
		if v.Kind() == reflect.Pointer {
			if seen, ok := st.visited[visitKey{v.Pointer(), to}]; ok {
				return seen, true, nil
			}
		}

		ptr := reflect.New(route.DstBase)
		if v.Kind() == reflect.Pointer && route.DstDepth == 1 {
			st.visited[visitKey{v.Pointer(), to}] = ptr
		}

		if err = st.copyStruct(base, ptr.Elem(), true); err != nil {
			return reflect.Value{}, false, err
		}

		if route.DstDepth == 1 {
			return ptr, true, nil
		}

		out = ptr.Elem()

	case node.DispatcherSlice:
		if out, ok, err = st.convertSequence(base, route.DstBase); !ok || err != nil {
			return reflect.Value{}, false, err
		}

	case node.DispatcherMap:
		if out, ok, err = st.convertMap(base, route.DstBase); !ok || err != nil {
			return reflect.Value{}, false, err
		}

	default:
		if out, ok = goConvert(base, route.DstBase); !ok {
			return reflect.Value{}, false, nil
		}
	}

	return wrap(out, to), true, nil
}

func (st *state) cast(v reflect.Value, to reflect.Type) (reflect.Value, bool) {
	for _, c := range st.casters {
		if !c.Accepts(v.Type(), to) {
			continue
		}

		out, ok, err := c.Call(v)
		if err != nil || !ok {
			st.skipped(c.Name, v.Type(), to, err)
			return reflect.Value{}, false
		}

		res := reflect.New(to).Elem()
		res.Set(out)

		return res, true
	}

	return reflect.Value{}, false
}

func (st *state) convertSequence(src reflect.Value, to reflect.Type) (reflect.Value, bool, error) {
	if src.Kind() == reflect.Slice && src.IsNil() {
		return reflect.Zero(to), true, nil
	}

	n := src.Len()

	var out reflect.Value
	if to.Kind() == reflect.Slice {
		out = reflect.MakeSlice(to, n, n)
	} else {
		out = reflect.New(to).Elem()

		if n > to.Len() {
			if st.cfg.Arrays&options.ArrayUnsafe == 0 {
				return reflect.Value{}, false, nil
			}

			n = to.Len()
		} else if st.cfg.Arrays&(options.ArraySafe|options.ArrayUnsafe) == 0 {
			return reflect.Value{}, false, nil
		}
	}

	from := src.Type().Elem()

	for i := range n {
		elem, ok, err := st.value(src.Index(i), from, to.Elem())
		if !ok || err != nil {
			return reflect.Value{}, false, err
		}

		out.Index(i).Set(elem)
	}

	return out, true, nil
}

func (st *state) convertMap(src reflect.Value, to reflect.Type) (reflect.Value, bool, error) {
	if src.IsNil() {
		return reflect.Zero(to), true, nil
	}

	out := reflect.MakeMapWithSize(to, src.Len())
	keyFrom, elemFrom := src.Type().Key(), src.Type().Elem()

	iter := src.MapRange()
	for iter.Next() {
		k, ok, err := st.value(iter.Key(), keyFrom, to.Key())
		if !ok || err != nil {
			return reflect.Value{}, false, err
		}

		e, ok, err := st.value(iter.Value(), elemFrom, to.Elem())
		if !ok || err != nil {
			return reflect.Value{}, false, err
		}

		out.SetMapIndex(k, e)
	}

	return out, true, nil
}

// clone deep-copies v into a value of the same type.
func (st *state) clone(v reflect.Value) (reflect.Value, error) {
	if !v.IsValid() {
		return v, nil
	}

	t := v.Type()
	if isAtomic(t) {
		return v, nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return v, nil
		}

		key := visitKey{v.Pointer(), t}
		if seen, ok := st.visited[key]; ok {
			return seen, nil
		}

		ptr := reflect.New(t.Elem())
		st.visited[key] = ptr

		if t.Elem().Kind() == reflect.Struct {
			return ptr, st.cloneStruct(v.Elem(), ptr.Elem())
		}

		elem, err := st.clone(v.Elem())
		if err != nil {
			return reflect.Value{}, err
		}

		ptr.Elem().Set(elem)

		return ptr, nil

	case reflect.Struct:
		out := reflect.New(t).Elem()
		return out, st.cloneStruct(v, out)

	case reflect.Slice:
		if v.IsNil() {
			return v, nil
		}

		out := reflect.MakeSlice(t, v.Len(), v.Len())
		for i := range v.Len() {
			elem, err := st.clone(v.Index(i))
			if err != nil {
				return reflect.Value{}, err
			}

			out.Index(i).Set(elem)
		}

		return out, nil

	case reflect.Array:
		out := reflect.New(t).Elem()
		for i := range v.Len() {
			elem, err := st.clone(v.Index(i))
			if err != nil {
				return reflect.Value{}, err
			}

			out.Index(i).Set(elem)
		}

		return out, nil

	case reflect.Map:
		if v.IsNil() {
			return v, nil
		}

		out := reflect.MakeMapWithSize(t, v.Len())

		iter := v.MapRange()
		for iter.Next() {
			k, err := st.clone(iter.Key())
			if err != nil {
				return reflect.Value{}, err
			}

			e, err := st.clone(iter.Value())
			if err != nil {
				return reflect.Value{}, err
			}

			out.SetMapIndex(k, e)
		}

		return out, nil

	case reflect.Interface:
		if v.IsNil() {
			return v, nil
		}

		elem, err := st.clone(v.Elem())
		if err != nil {
			return reflect.Value{}, err
		}

		out := reflect.New(t).Elem()
		out.Set(elem)

		return out, nil

	default:
		// funcs, channels and unsafe pointers are shared
		return v, nil
	}
}

// cloneStruct copies the properties of src and then the embedded fields that
// an outer field shadows, which a by-name plan never reaches.
func (st *state) cloneStruct(src, dst reflect.Value) error {
	if err := st.copyStruct(src, dst, true); err != nil {
		return err
	}

	for _, p := range props.Of(src.Type()).Hidden() {
		if !p.Exported && !st.cfg.IncludePrivate {
			continue
		}

		out, err := st.clone(p.Get(src))
		if err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}

		if err := p.Init(dst, out); err != nil {
			st.skipped(p.Name, p.Type, p.Type, err)
		}
	}

	return nil
}

var timeType = reflect.TypeFor[time.Time]()

// isAtomic reports whether values of t are copied by value and never
// recursed into.
func isAtomic(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Struct:
		return t == timeType
	case reflect.Array:
		return isAtomic(t.Elem())
	default:
		return false
	}
}

func isNull(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

func nullable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return true
	default:
		return false
	}
}

// deref follows pointers down to the base value; ok is false on a nil pointer.
func deref(v reflect.Value) (reflect.Value, bool) {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, false
		}

		v = v.Elem()
	}

	return v, true
}

// wrap takes the address of base as many times as to has pointer levels.
func wrap(base reflect.Value, to reflect.Type) reflect.Value {
	levels := []reflect.Type{}
	for t := to; t.Kind() == reflect.Pointer; t = t.Elem() {
		levels = append(levels, t)
	}

	cur := base
	for i := len(levels) - 1; i >= 0; i-- {
		ptr := reflect.New(levels[i].Elem())
		ptr.Elem().Set(cur)
		cur = ptr
	}

	return cur
}

// goConvert applies a Go conversion between types of the same scalar family,
// e.g. a named float64 to float64. Integer to string is excluded.
func goConvert(v reflect.Value, to reflect.Type) (reflect.Value, bool) {
	if family(v.Kind()) == 0 || family(v.Kind()) != family(to.Kind()) || !v.Type().ConvertibleTo(to) {
		return reflect.Value{}, false
	}

	return v.Convert(to), true
}

func family(k reflect.Kind) int {
	switch k {
	case reflect.Bool:
		return 1
	case reflect.String:
		return 2
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return 3
	default:
		return 0
	}
}
