package override

import (
	"fmt"
	"reflect"
	"strings"

	"typeforge/descriptor"
	"typeforge/errdefs"
	"typeforge/internal/match"
	"typeforge/options"
	"typeforge/props"
	"typeforge/typeref"
)

// InjectedType returns t with its override applied, or t itself when no
// entry applies. An exact match is layered on the entry's base type, an
// inherited one on t. A pointer type yields a pointer to the injected
// element type.
func (r *Registry) InjectedType(t reflect.Type) (reflect.Type, error) {
	it, _, err := r.resolve(t)

	return it, err
}

func (r *Registry) resolve(t reflect.Type) (reflect.Type, *Entry, error) {
	if t == nil {
		return nil, nil, errdefs.Unsupported("<nil>", "type is nil")
	}

	if t.Kind() == reflect.Pointer {
		it, e, err := r.resolve(t.Elem())
		if err != nil {
			return nil, nil, err
		}

		return reflect.PointerTo(it), e, nil
	}

	r.mu.RLock()
	e, exact := r.lookup(t)
	if e != nil {
		e = e.clone()
	}
	r.mu.RUnlock()

	if e == nil {
		return t, nil, nil
	}

	it, err := r.compose(e, t, exact)
	if err != nil {
		return nil, nil, err
	}

	return it, e, nil
}

// compose layers the additions of e onto t, or onto the base of e when
// exact. Properties the type already has are not added again.
func (r *Registry) compose(e *Entry, t reflect.Type, exact bool) (reflect.Type, error) {
	cur := t
	if exact {
		cur = e.Base()
	}

	if len(e.Properties) == 0 && len(e.PropertyAnnotations) == 0 && len(e.ClassAnnotations) == 0 {
		return cur, nil
	}

	if cur.Kind() != reflect.Struct {
		return nil, errdefs.Unsupported(cur.String(), "only struct types can be injected")
	}

	var err error

	for _, p := range e.Properties {
		if _, ok := props.Of(cur).Lookup(p.Name); ok {
			continue
		}

		if cur, err = r.synth.InjectProperty(cur, p); err != nil {
			return nil, fmt.Errorf("injecting %s: %w", e.Original, err)
		}
	}

	for _, g := range e.PropertyAnnotations {
		set := props.Of(cur)
		if _, ok := set.Lookup(g.Name); !ok {
			return nil, unknownProperty(cur, g.Name, set.Names())
		}

		if cur, err = r.synth.InjectPropertyAnnotations(cur, g.Name, g.Annotations...); err != nil {
			return nil, fmt.Errorf("injecting %s: %w", e.Original, err)
		}
	}

	if cur, err = r.synth.InjectClassAnnotations(cur, e.ClassAnnotations...); err != nil {
		return nil, fmt.Errorf("injecting %s: %w", e.Original, err)
	}

	return cur, nil
}

func unknownProperty(t reflect.Type, name string, names []string) error {
	err := fmt.Errorf("%w %s on %s", ErrUnknownProperty, name, t)

	if hints := match.Suggest(name, names, 3); len(hints) > 0 {
		err = fmt.Errorf("%w (did you mean %s?)", err, strings.Join(hints, ", "))
	}

	return err
}

// Spawn returns a pointer to a new instance of the injected type of t,
// after the entry's spawn hooks and injector ran on it.
func (r *Registry) Spawn(t reflect.Type) (any, error) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	it, e, err := r.resolve(t)
	if err != nil {
		return nil, err
	}

	return r.spawn(it, e)
}

func (r *Registry) spawn(it reflect.Type, e *Entry) (any, error) {
	if err := errdefs.Constructible(it); err != nil {
		return nil, err
	}

	instance := reflect.New(it).Interface()
	if e == nil {
		return instance, nil
	}

	var err error

	for _, hook := range e.hooks {
		if instance, err = hook(instance); err != nil {
			return nil, fmt.Errorf("spawning %s: %w", e.Original, err)
		}
	}

	if e.Injector != nil {
		if err := e.Injector.Inject(instance); err != nil {
			return nil, fmt.Errorf("injecting %s: %w", e.Original, err)
		}
	}

	return instance, nil
}

// Inject spawns the injected type of obj's type and copies obj into it.
// Null properties of obj leave the spawned defaults in place.
func (r *Registry) Inject(obj any) (any, error) {
	if obj == nil {
		return nil, errdefs.Unsupported("<nil>", "cannot inject a nil object")
	}

	instance, err := r.Spawn(reflect.TypeOf(obj))
	if err != nil {
		return nil, err
	}

	if err := r.copier.Copy(obj, instance, options.WithSkipNulls()); err != nil {
		return nil, err
	}

	return instance, nil
}

// WithProperty returns a copy of obj whose type additionally has the
// property name. The registry itself is left unchanged.
func (r *Registry) WithProperty(obj any, name string, typ typeref.TypeRef) (any, error) {
	if obj == nil {
		return nil, errdefs.Unsupported("<nil>", "cannot extend a nil object")
	}

	p := descriptor.NewProperty(name, typ)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	r.mu.RLock()
	e, exact := r.lookup(t)
	if e != nil {
		e = e.clone()
	}
	r.mu.RUnlock()

	if e == nil {
		e, exact = &Entry{Original: t}, true
	}

	if _, ok := e.Property(name); !ok {
		e.Properties = append(e.Properties, p)
	}

	it, err := r.compose(e, t, exact)
	if err != nil {
		return nil, err
	}

	instance, err := r.spawn(it, e)
	if err != nil {
		return nil, err
	}

	if err := r.copier.Copy(obj, instance, options.WithSkipNulls()); err != nil {
		return nil, err
	}

	return instance, nil
}

// Dispatch hands action to every ActionHandler mapper of the entry applying
// to model. Struct originals receive a copy of model as a new instance of
// the original type; interface originals receive model itself.
func (r *Registry) Dispatch(model any, action string, param any) error {
	if model == nil {
		return fmt.Errorf("dispatching %q to nil: %w", action, ErrNoOverride)
	}

	r.mu.RLock()
	e, _ := r.lookup(reflect.TypeOf(model))
	if e != nil {
		e = e.clone()
	}
	r.mu.RUnlock()

	if e == nil {
		return fmt.Errorf("dispatching %q to %T: %w", action, model, ErrNoOverride)
	}

	for _, m := range e.Mappers {
		handler, ok := m.(ActionHandler)
		if !ok {
			continue
		}

		arg := model

		if e.Original.Kind() == reflect.Struct {
			v, err := r.copier.Instantiate(e.Original, model)
			if err != nil {
				return fmt.Errorf("dispatching %q to %T: %w", action, m, err)
			}

			arg = v.Interface()
		}

		if err := handler.HandleAction(arg, action, param); err != nil {
			return fmt.Errorf("dispatching %q to %T: %w", action, m, err)
		}
	}

	return nil
}
