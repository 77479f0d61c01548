package inject

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"go.uber.org/dig"
)

// TagKey marks the fields a Dig injector fills: `inject:""`,
// `inject:"name=primary"`, `inject:"optional"`.
const TagKey = "inject"

// Dig fills tagged fields from a dig container.
type Dig struct {
	container *dig.Container
	logger    zerolog.Logger
}

// DigOption configures a Dig injector.
type DigOption func(*Dig)

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) DigOption {
	return func(d *Dig) { d.logger = logger }
}

// NewDig creates an injector resolving values from c.
func NewDig(c *dig.Container, opts ...DigOption) *Dig {
	d := &Dig{container: c, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Container returns the underlying container.
func (d *Dig) Container() *dig.Container {
	return d.container
}

type target struct {
	index    []int
	typ      reflect.Type
	name     string
	optional bool
}

// Inject resolves every tagged field of the struct instance points to in
// one container invocation. Optional fields missing from the container are
// left untouched.
func (d *Dig) Inject(instance any) error {
	v := reflect.ValueOf(instance)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%T: %w", instance, ErrNotAStructPointer)
	}

	v = v.Elem()

	targets, err := collect(v.Type())
	if err != nil {
		return err
	}

	if len(targets) == 0 {
		return nil
	}

	params := []reflect.StructField{{
		Name:      "In",
		Type:      reflect.TypeFor[dig.In](),
		Anonymous: true,
	}}

	for i, tg := range targets {
		var tag []string
		if tg.name != "" {
			tag = append(tag, `name:`+strconv.Quote(tg.name))
		}

		if tg.optional {
			tag = append(tag, `optional:"true"`)
		}

		params = append(params, reflect.StructField{
			Name: "P" + strconv.Itoa(i),
			Type: tg.typ,
			Tag:  reflect.StructTag(strings.Join(tag, " ")),
		})
	}

	paramType := reflect.StructOf(params)
	fnType := reflect.FuncOf([]reflect.Type{paramType}, nil, false)

	var setErr error

	fn := reflect.MakeFunc(fnType, func(args []reflect.Value) []reflect.Value {
		in := args[0]
		for i, tg := range targets {
			value := in.Field(i + 1)
			if tg.optional && value.IsZero() {
				continue
			}

			f, err := settable(v, tg.index)
			if err != nil {
				setErr = err
				return nil
			}

			f.Set(value)
		}

		return nil
	})

	if err := d.container.Invoke(fn.Interface()); err != nil {
		return fmt.Errorf("injecting %s: %w", v.Type(), err)
	}

	if setErr != nil {
		return fmt.Errorf("injecting %s: %w", v.Type(), setErr)
	}

	d.logger.Debug().
		Str("type", v.Type().String()).
		Int("fields", len(targets)).
		Msg("instance injected")

	return nil
}

func collect(t reflect.Type) ([]target, error) {
	var out []target

	for _, f := range reflect.VisibleFields(t) {
		raw, ok := f.Tag.Lookup(TagKey)
		if !ok {
			continue
		}

		if !f.IsExported() {
			return nil, fmt.Errorf("%s.%s: injected fields must be exported", t, f.Name)
		}

		tg := target{index: f.Index, typ: f.Type}

		for _, opt := range strings.Split(raw, ",") {
			key, value, _ := strings.Cut(strings.TrimSpace(opt), "=")
			switch key {
			case "":
			case "name":
				tg.name = value
			case "optional":
				tg.optional = true
			default:
				return nil, fmt.Errorf("%s.%s: unknown inject option %q", t, f.Name, key)
			}
		}

		out = append(out, tg)
	}

	return out, nil
}

// settable walks index from v, allocating nil embedded pointers on the way.
func settable(v reflect.Value, index []int) (reflect.Value, error) {
	f := v
	for i, x := range index {
		if i > 0 && f.Kind() == reflect.Pointer {
			if f.IsNil() {
				if !f.CanSet() {
					return reflect.Value{}, fmt.Errorf("%s: %w", f.Type(), ErrNilEmbedded)
				}

				f.Set(reflect.New(f.Type().Elem()))
			}

			f = f.Elem()
		}

		f = f.Field(x)
	}

	return f, nil
}
