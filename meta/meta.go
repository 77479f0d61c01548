// Package meta encodes synthesized-type metadata into struct tags. Both the
// text and the binary emitters go through it, so a type built either way
// carries byte-identical tags.
package meta

import (
	"reflect"
	"slices"
	"strconv"
	"strings"

	"typeforge/annotation"
)

const (
	// TagKey is the tag key for typeforge's own flags and header data.
	TagKey = "typeforge"
	// ReadOnly marks a property without a setter.
	ReadOnly = "readonly"
	// ParamPrefix prefixes tag keys of annotations on a setter's value parameter.
	ParamPrefix = "param."
	// HeaderField is the name of the leading zero-size field of synthesized structs.
	HeaderField = "TypeMeta"
)

// Header is the zero-size marker type of the leading field of a synthesized
// struct. Its tag carries the type name, package, parents and class
// annotations, which also gives distinct identities to structurally equal
// shapes with different names.
type Header struct{}

// HeaderType is reflect.TypeFor[Header]().
var HeaderType = reflect.TypeFor[Header]()

// Tags accumulates tag entries. Values under a repeated key are joined with ';'.
type Tags map[string]string

// Add appends value under key.
func (t Tags) Add(key, value string) {
	if prev, ok := t[key]; ok {
		t[key] = prev + ";" + value
		return
	}

	t[key] = value
}

// Annotate adds the tag encoding of each annotation, prefixing keys.
func (t Tags) Annotate(prefix string, anns ...annotation.Annotation) {
	for _, ann := range anns {
		t.Add(prefix+ann.TagKey(), ann.TagValue())
	}
}

// StructTag renders the entries sorted by key as `k1:"v1" k2:"v2"`.
func (t Tags) StructTag() reflect.StructTag {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+":"+strconv.Quote(t[k]))
	}

	return reflect.StructTag(strings.Join(parts, " "))
}

// FieldTags returns the tag entries of a property field.
func FieldTags(readOnly bool, anns, params []annotation.Annotation) Tags {
	tags := Tags{}
	if readOnly {
		tags.Add(TagKey, ReadOnly)
	}

	tags.Annotate("", anns...)
	tags.Annotate(ParamPrefix, params...)

	return tags
}

// IsReadOnly reports whether the tag marks a read-only property.
func IsReadOnly(tag reflect.StructTag) bool {
	value, ok := tag.Lookup(TagKey)
	if !ok {
		return false
	}

	return slices.Contains(strings.Split(value, ";"), ReadOnly)
}

// Entry is one key/value pair of a struct tag.
type Entry struct {
	Key, Value string
}

// ParseTags splits a struct tag into its entries, in order. Malformed
// trailing input is ignored, as reflect.StructTag.Lookup does.
func ParseTags(tag reflect.StructTag) []Entry {
	var out []Entry

	s := string(tag)
	for s != "" {
		s = strings.TrimLeft(s, " ")

		i := 0
		for i < len(s) && s[i] > ' ' && s[i] != ':' && s[i] != '"' && s[i] != 0x7f {
			i++
		}

		if i == 0 || i+1 >= len(s) || s[i] != ':' || s[i+1] != '"' {
			break
		}

		key := s[:i]
		s = s[i+1:]

		i = 1
		for i < len(s) && s[i] != '"' {
			if s[i] == '\\' {
				i++
			}
			i++
		}

		if i >= len(s) {
			break
		}

		value, err := strconv.Unquote(s[:i+1])
		if err != nil {
			break
		}

		out = append(out, Entry{Key: key, Value: value})
		s = s[i+1:]
	}

	return out
}

// Merge layers additional entries onto an existing tag.
func Merge(tag reflect.StructTag, extra Tags) reflect.StructTag {
	tags := Tags{}
	for _, e := range ParseTags(tag) {
		tags.Add(e.Key, e.Value)
	}

	for _, k := range sortedKeys(extra) {
		tags.Add(k, extra[k])
	}

	return tags.StructTag()
}

func sortedKeys(t Tags) []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
