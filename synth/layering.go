package synth

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/goccy/go-json"

	"typeforge/annotation"
	"typeforge/descriptor"
	"typeforge/errdefs"
	"typeforge/internal/analyze"
	"typeforge/meta"
)

// Layering kinds, used in cache keys and metric labels.
const (
	layerProperty            = "property"
	layerPropertyAnnotations = "property_annotations"
	layerClassAnnotations    = "class_annotations"
)

// InjectProperty returns base extended with the property p. base is either
// a synthesized struct, whose fields are kept as they are, or any struct,
// whose exported fields are flattened behind a new header.
func (s *Synthesizer) InjectProperty(base reflect.Type, p descriptor.Property) (reflect.Type, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	arg, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding property %s: %w", p.Name, err)
	}

	return s.layer(base, layerProperty, string(arg), func(fields []reflect.StructField) ([]reflect.StructField, error) {
		if fieldIndex(fields, p.Name) >= 0 {
			return nil, errdefs.Unsupported(base.String(), "property %s already exists", p.Name)
		}

		t, err := s.universe.Resolve(p.Type)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", p.Name, err)
		}

		return append(fields, PropertyField(p, t)), nil
	})
}

// InjectPropertyAnnotations returns base with anns added to the property name.
func (s *Synthesizer) InjectPropertyAnnotations(base reflect.Type, name string, anns ...annotation.Annotation) (reflect.Type, error) {
	if len(anns) == 0 {
		return base, nil
	}

	return s.layer(base, layerPropertyAnnotations, name+"|"+annotationsArg(anns), func(fields []reflect.StructField) ([]reflect.StructField, error) {
		i := fieldIndex(fields, name)
		if i < 0 {
			return nil, errdefs.Unsupported(base.String(), "no property %s", name)
		}

		tags := meta.Tags{}
		tags.Annotate("", anns...)
		fields[i].Tag = meta.Merge(fields[i].Tag, tags)

		return fields, nil
	})
}

// InjectClassAnnotations returns base with anns added to its header.
func (s *Synthesizer) InjectClassAnnotations(base reflect.Type, anns ...annotation.Annotation) (reflect.Type, error) {
	if len(anns) == 0 {
		return base, nil
	}

	return s.layer(base, layerClassAnnotations, annotationsArg(anns), func(fields []reflect.StructField) ([]reflect.StructField, error) {
		tags := meta.Tags{}
		tags.Annotate("", anns...)
		fields[0].Tag = meta.Merge(fields[0].Tag, tags)

		return fields, nil
	})
}

func (s *Synthesizer) layer(
	base reflect.Type,
	kind, arg string,
	apply func([]reflect.StructField) ([]reflect.StructField, error),
) (reflect.Type, error) {
	if base == nil || base.Kind() != reflect.Struct {
		return nil, errdefs.Unsupported(fmt.Sprint(base), "only struct types can be layered")
	}

	key := "layer:" + s.ids.key(base) + ":" + kind + ":" + arg

	t, _, err := s.layers.Do(key, kind, StrategyBinary.String(), func() (reflect.Type, error) {
		fields, err := layerFields(base)
		if err != nil {
			return nil, err
		}

		fields, err = apply(fields)
		if err != nil {
			return nil, err
		}

		t, err := analyze.Build(base.String(), fields)
		if err != nil {
			return nil, err
		}

		s.logger.Debug().
			Str("base", base.String()).
			Str("layer", kind).
			Msg("type layered")

		return t, nil
	})

	return t, err
}

// layerFields returns the fields a layered copy of base starts from.
func layerFields(base reflect.Type) ([]reflect.StructField, error) {
	if _, ok := meta.ReadHeader(base); ok {
		fields := make([]reflect.StructField, 0, base.NumField())
		for i := range base.NumField() {
			f := base.Field(i)
			fields = append(fields, reflect.StructField{Name: f.Name, Type: f.Type, Tag: f.Tag})
		}

		return fields, nil
	}

	info := meta.Info{Name: base.Name(), Package: base.PkgPath()}
	if key := Key(base); key != "" {
		info.Parents = []string{key}
	}

	header := meta.HeaderStructField(info)

	return analyze.Layout(header, []reflect.Type{base}, nil)
}

func fieldIndex(fields []reflect.StructField, name string) int {
	for i, f := range fields {
		if f.Name == name && f.Type != meta.HeaderType {
			return i
		}
	}

	return -1
}

func annotationsArg(anns []annotation.Annotation) string {
	parts := make([]string, 0, len(anns))
	for _, ann := range anns {
		parts = append(parts, ann.String())
	}

	return strings.Join(parts, "|")
}
