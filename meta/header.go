package meta

import (
	"reflect"
	"strings"

	"typeforge/annotation"
)

// Info is the class-level metadata stored in the header tag.
type Info struct {
	Name        string
	Package     string
	Interface   bool
	Parents     []string
	Annotations []annotation.Annotation
}

// HeaderTags encodes info for the header field.
func HeaderTags(info Info) Tags {
	tags := Tags{}

	kind := "struct"
	if info.Interface {
		kind = "interface"
	}

	parts := []string{"name=" + info.Name, "kind=" + kind}
	if info.Package != "" {
		parts = append(parts, "package="+info.Package)
	}

	if len(info.Parents) > 0 {
		parts = append(parts, "parents="+strings.Join(info.Parents, "|"))
	}

	tags.Add(TagKey, strings.Join(parts, ","))
	tags.Annotate("", info.Annotations...)

	return tags
}

// HeaderStructField builds the leading struct field for info.
func HeaderStructField(info Info) reflect.StructField {
	return reflect.StructField{
		Name: HeaderField,
		Type: HeaderType,
		Tag:  HeaderTags(info).StructTag(),
	}
}

// Described is the header data read back from a synthesized type.
type Described struct {
	Name    string
	Package string
	Kind    string
	Parents []string
	// Annotations holds the class annotation tag entries, excluding typeforge's own.
	Annotations []Entry
}

// ReadHeader returns the header of a synthesized struct type.
func ReadHeader(t reflect.Type) (Described, bool) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == nil || t.Kind() != reflect.Struct || t.NumField() == 0 {
		return Described{}, false
	}

	field := t.Field(0)
	if field.Type != HeaderType {
		return Described{}, false
	}

	var d Described

	for _, e := range ParseTags(field.Tag) {
		if e.Key != TagKey {
			d.Annotations = append(d.Annotations, e)
			continue
		}

		for _, part := range strings.Split(e.Value, ",") {
			key, value, _ := strings.Cut(part, "=")
			switch key {
			case "name":
				d.Name = value
			case "package":
				d.Package = value
			case "kind":
				d.Kind = value
			case "parents":
				d.Parents = strings.Split(value, "|")
			}
		}
	}

	return d, true
}

// IsHeader reports whether f is a header field.
func IsHeader(f reflect.StructField) bool {
	return f.Type == HeaderType
}
