package override

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"typeforge/annotation"
	"typeforge/descriptor"
	"typeforge/typeref"
)

// SpawnHook transforms a freshly spawned instance. It may return a
// different value.
type SpawnHook func(instance any) (any, error)

// PropertyAnnotations are the annotations added to one property.
type PropertyAnnotations struct {
	Name        string
	Annotations []annotation.Annotation
}

// Mapping collects what a mapper adds to its original type. Methods chain;
// the first invalid call is reported by Err.
type Mapping struct {
	original            reflect.Type
	replacement         reflect.Type
	properties          []descriptor.Property
	propertyAnnotations []PropertyAnnotations
	classAnnotations    []annotation.Annotation
	hooks               []SpawnHook
	errs                []error
}

func newMapping(original reflect.Type) *Mapping {
	return &Mapping{original: original}
}

// Original returns the type being mapped.
func (m *Mapping) Original() reflect.Type {
	return m.original
}

// Replace makes t the starting point of the injected type instead of the
// original.
func (m *Mapping) Replace(t reflect.Type) *Mapping {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == nil {
		m.errs = append(m.errs, errors.New("replacement type is nil"))
		return m
	}

	m.replacement = t

	return m
}

// AddProperty adds a read-write property.
func (m *Mapping) AddProperty(name string, typ typeref.TypeRef, anns ...annotation.Annotation) *Mapping {
	return m.Property(descriptor.NewProperty(name, typ, anns...))
}

// Property adds p.
func (m *Mapping) Property(p descriptor.Property) *Mapping {
	if err := p.Validate(); err != nil {
		m.errs = append(m.errs, err)
		return m
	}

	m.properties = append(m.properties, p)

	return m
}

// AddPropertyAnnotation annotates an existing or added property.
func (m *Mapping) AddPropertyAnnotation(name string, anns ...annotation.Annotation) *Mapping {
	if name == "" {
		m.errs = append(m.errs, errors.New("property annotation needs a property name"))
		return m
	}

	for _, a := range anns {
		if err := a.Validate(); err != nil {
			m.errs = append(m.errs, fmt.Errorf("property %s: %w", name, err))
			return m
		}
	}

	m.propertyAnnotations = addAnnotations(m.propertyAnnotations, name, anns)

	return m
}

// AddClassAnnotation annotates the type itself.
func (m *Mapping) AddClassAnnotation(anns ...annotation.Annotation) *Mapping {
	for _, a := range anns {
		if err := a.Validate(); err != nil {
			m.errs = append(m.errs, err)
			return m
		}
	}

	m.classAnnotations = append(m.classAnnotations, anns...)

	return m
}

// OnSpawn registers a hook run on every spawned instance, before the
// injector.
func (m *Mapping) OnSpawn(hook SpawnHook) *Mapping {
	if hook != nil {
		m.hooks = append(m.hooks, hook)
	}

	return m
}

// Err returns the errors of invalid calls.
func (m *Mapping) Err() error {
	return errors.Join(m.errs...)
}

// addAnnotations appends anns to the group of name, keeping groups in order
// of first mention.
func addAnnotations(groups []PropertyAnnotations, name string, anns []annotation.Annotation) []PropertyAnnotations {
	for i := range groups {
		if groups[i].Name == name {
			groups[i].Annotations = append(groups[i].Annotations, anns...)
			return groups
		}
	}

	return append(groups, PropertyAnnotations{Name: name, Annotations: slices.Clone(anns)})
}

// Entry is everything registered for one original type.
type Entry struct {
	Original reflect.Type
	// Replacement is nil unless a mapper replaced the original.
	Replacement         reflect.Type
	Properties          []descriptor.Property
	PropertyAnnotations []PropertyAnnotations
	ClassAnnotations    []annotation.Annotation
	Mappers             []Mapper
	Injector            Injector

	hooks []SpawnHook
}

// Base returns the type the injected type is layered on for exact matches.
func (e *Entry) Base() reflect.Type {
	if e.Replacement != nil {
		return e.Replacement
	}

	return e.Original
}

// Property returns the added property name.
func (e *Entry) Property(name string) (descriptor.Property, bool) {
	for _, p := range e.Properties {
		if p.Name == name {
			return p, true
		}
	}

	return descriptor.Property{}, false
}

func (e *Entry) clone() *Entry {
	out := *e
	out.Properties = slices.Clone(e.Properties)
	out.ClassAnnotations = slices.Clone(e.ClassAnnotations)
	out.Mappers = slices.Clone(e.Mappers)
	out.hooks = slices.Clone(e.hooks)

	out.PropertyAnnotations = make([]PropertyAnnotations, len(e.PropertyAnnotations))
	for i, g := range e.PropertyAnnotations {
		out.PropertyAnnotations[i] = PropertyAnnotations{Name: g.Name, Annotations: slices.Clone(g.Annotations)}
	}

	return &out
}

// conflict describes a property added twice with different types.
type conflict struct {
	name       string
	kept, lost typeref.TypeRef
}

// merge folds m into e. Properties are unioned by name, the first
// declaration wins; annotations and hooks accumulate.
func (e *Entry) merge(mapper Mapper, m *Mapping) []conflict {
	var conflicts []conflict

	if e.Replacement == nil {
		e.Replacement = m.replacement
	}

	for _, p := range m.properties {
		if kept, ok := e.Property(p.Name); ok {
			if !kept.Type.Equal(p.Type) {
				conflicts = append(conflicts, conflict{name: p.Name, kept: kept.Type, lost: p.Type})
			}

			continue
		}

		e.Properties = append(e.Properties, p)
	}

	for _, g := range m.propertyAnnotations {
		e.PropertyAnnotations = addAnnotations(e.PropertyAnnotations, g.Name, g.Annotations)
	}

	e.ClassAnnotations = append(e.ClassAnnotations, m.classAnnotations...)
	e.hooks = append(e.hooks, m.hooks...)
	e.Mappers = append(e.Mappers, mapper)

	return conflicts
}
