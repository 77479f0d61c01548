package copier

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/rs/zerolog"

	"typeforge/errdefs"
	"typeforge/node"
	"typeforge/options"
)

var (
	ErrNilTarget     = errors.New("copy target must be a non-nil pointer")
	ErrNotAStruct    = errors.New("copy source and target must be structs")
	ErrInvalidCaster = errors.New("invalid caster")
)

// Engine copies and clones values. Copy plans are cached per type pair, so
// an Engine is meant to be long-lived and shared; it is safe for concurrent
// use.
type Engine struct {
	logger zerolog.Logger
	plans  sync.Map // planKey -> *plan
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used to report skipped properties.
func WithLogger(logger zerolog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// New returns an Engine.
func New(opts ...EngineOption) *Engine {
	e := &Engine{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

var std = New()

// Copy copies src into the struct dst points to, using the shared engine.
func Copy(src, dst any, opts ...options.Option) error {
	return std.Copy(src, dst, opts...)
}

// DeepClone clones v using the shared engine.
func DeepClone(v any) (any, error) {
	return std.DeepClone(v)
}

// Clone deep-clones v keeping its static type.
func Clone[T any](v T, opts ...options.Option) (T, error) {
	return CloneWith(std, v, opts...)
}

// CloneWith is Clone on a specific engine.
func CloneWith[T any](e *Engine, v T, opts ...options.Option) (T, error) {
	rv := reflect.ValueOf(&v).Elem()

	out, err := e.clone(rv, options.New(opts...))
	if err != nil {
		var zero T
		return zero, err
	}

	return out.Interface().(T), nil
}

// Copy copies the properties of src (a struct or pointer to one) into the
// struct dst points to.
func (e *Engine) Copy(src, dst any, opts ...options.Option) error {
	dv := reflect.ValueOf(dst)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return fmt.Errorf("%T: %w", dst, ErrNilTarget)
	}

	return e.CopyValue(reflect.ValueOf(src), dv.Elem(), opts...)
}

// CopyValue copies src into the addressable struct value dst.
func (e *Engine) CopyValue(src, dst reflect.Value, opts ...options.Option) error {
	orig := src

	src = indirect(src)
	if !src.IsValid() {
		return nil
	}

	if src.Kind() != reflect.Struct || dst.Kind() != reflect.Struct {
		return fmt.Errorf("%s to %s: %w", src.Type(), dst.Type(), ErrNotAStruct)
	}

	if !dst.CanAddr() {
		return fmt.Errorf("%s: %w", dst.Type(), ErrNilTarget)
	}

	cfg := options.New(opts...)

	st, err := e.newState(cfg)
	if err != nil {
		return err
	}

	// a cycle back to the source root lands on the target root
	if orig.Kind() == reflect.Pointer && orig.Type() == dst.Addr().Type() {
		st.visited[visitKey{orig.Pointer(), orig.Type()}] = dst.Addr()
	}

	return st.copyStruct(src, dst, false)
}

// DeepClone returns a referentially independent copy of v. nil and atomic
// values are returned as they are.
func (e *Engine) DeepClone(v any, opts ...options.Option) (any, error) {
	if v == nil {
		return nil, nil
	}

	rv := reflect.ValueOf(v)
	if isAtomic(rv.Type()) {
		return v, nil
	}

	out, err := e.clone(rv, options.New(opts...))
	if err != nil {
		return nil, err
	}

	return out.Interface(), nil
}

// Instantiate returns a pointer to a new instance of t populated from src.
// t must be constructible: a struct, or any other non-interface,
// non-function type.
func (e *Engine) Instantiate(t reflect.Type, src any, opts ...options.Option) (reflect.Value, error) {
	if err := errdefs.Constructible(t); err != nil {
		return reflect.Value{}, err
	}

	out := reflect.New(t)
	if src == nil || t.Kind() != reflect.Struct {
		return out, nil
	}

	sv := indirect(reflect.ValueOf(src))
	if !sv.IsValid() {
		return out, nil
	}

	if sv.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%s to %s: %w", sv.Type(), t, ErrNotAStruct)
	}

	st, err := e.newState(options.New(opts...))
	if err != nil {
		return reflect.Value{}, err
	}

	if err := st.copyStruct(sv, out.Elem(), true); err != nil {
		return reflect.Value{}, err
	}

	return out, nil
}

func (e *Engine) clone(v reflect.Value, cfg options.Copy) (reflect.Value, error) {
	st, err := e.newState(cfg)
	if err != nil {
		return reflect.Value{}, err
	}

	// include, exclude and the resolver apply to a root struct only
	st.nested = node.Base(v.Type()).Kind() != reflect.Struct

	return st.clone(v)
}

func (e *Engine) newState(cfg options.Copy) (*state, error) {
	casters, err := node.ParseCasters(cfg.Casters...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCaster, err)
	}

	return &state{
		engine:  e,
		cfg:     cfg,
		casters: casters,
		visited: map[visitKey]reflect.Value{},
	}, nil
}

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}

		v = v.Elem()
	}

	return v
}
