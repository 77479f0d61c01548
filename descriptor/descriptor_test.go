package descriptor_test

import (
	"errors"
	"reflect"
	"testing"
	"unicode"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typeforge/annotation"
	"typeforge/descriptor"
	"typeforge/errdefs"
	"typeforge/typeref"
)

func sample() descriptor.Class {
	return descriptor.Class{
		Name:    "Person",
		Package: "example.com/models",
		Parents: []string{"example.com/base.Entity", "example.com/base.Audited", "example.com/base.Entity"},
		Properties: []descriptor.Property{
			descriptor.NewProperty("Name", typeref.Basic("string"), annotation.MustParse("example.com/validate.MaxLength(64)")),
			descriptor.NewProperty("Age", typeref.Basic("int")).AsReadOnly(),
		},
		Imports: []string{"fmt", "example.com/extra", "fmt"},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		class descriptor.Class
		ok    bool
	}{
		{name: "valid", class: sample(), ok: true},
		{name: "anonymous", class: descriptor.Class{}, ok: true},
		{name: "unexported name", class: descriptor.Class{Name: "person"}},
		{name: "bad package", class: descriptor.Class{Package: "example.com/my-models"}},
		{name: "duplicate property", class: sample().WithProperty(descriptor.NewProperty("Age", typeref.Basic("int")))},
		{name: "empty property name", class: sample().WithProperty(descriptor.Property{Type: typeref.Basic("int")})},
		{name: "unexported property", class: sample().WithProperty(descriptor.NewProperty("age2", typeref.Basic("int")))},
		{name: "reserved header name", class: sample().WithProperty(descriptor.NewProperty("TypeMeta", typeref.Basic("int")))},
		{name: "invalid type", class: sample().WithProperty(descriptor.NewProperty("Fn", typeref.Of(reflect.TypeFor[func()]())))},
		{name: "basic parent", class: sample().WithParents("int")},
		{name: "self parent", class: sample().WithParents("example.com/models.Person")},
		{name: "bad import", class: descriptor.Class{Imports: []string{"bad path"}}},
		{
			name: "param annotations on read-only",
			class: descriptor.Class{Properties: []descriptor.Property{{
				Name:             "ID",
				Type:             typeref.Basic("int"),
				ReadOnly:         true,
				ParamAnnotations: []annotation.Annotation{annotation.MustParse("v.NotNil{}")},
			}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.class.Validate()
			if tt.ok {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, errdefs.ErrUnsupportedDescription)

			var ude *errdefs.UnsupportedDescriptionError
			assert.True(t, errors.As(err, &ude))
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	in := sample()
	n, err := in.Normalize()
	require.NoError(t, err)

	assert.Equal(t, []string{"example.com/base.Audited", "example.com/base.Entity"}, n.Parents)
	assert.Equal(t, []string{"example.com/extra", "fmt"}, n.Imports)
	assert.Equal(t, []string{"example.com/base.Entity", "example.com/base.Audited", "example.com/base.Entity"}, in.Parents,
		"input must not be mutated")

	anon, err := descriptor.Class{}.Normalize()
	require.NoError(t, err)
	assert.Len(t, anon.Name, 32)
	assert.True(t, unicode.IsUpper(rune(anon.Name[0])))
	assert.Equal(t, descriptor.DefaultPackage, anon.Package)
	assert.Equal(t, anon.Qualified(), descriptor.DefaultPackage+"."+anon.Name)
}

func TestRandomName(t *testing.T) {
	t.Parallel()

	a, b := descriptor.RandomName(), descriptor.RandomName()
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^[A-P][a-p]{31}$`, a)
}

func TestKeyIsStructural(t *testing.T) {
	t.Parallel()

	a, err := sample().Normalize()
	require.NoError(t, err)

	b, err := sample().Normalize()
	require.NoError(t, err)

	ka, err := a.Key()
	require.NoError(t, err)

	kb, err := b.Key()
	require.NoError(t, err)

	assert.Equal(t, ka, kb)

	c, err := sample().WithName("Other").Normalize()
	require.NoError(t, err)

	kc, err := c.Key()
	require.NoError(t, err)
	assert.NotEqual(t, ka, kc)
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	n, err := sample().Normalize()
	require.NoError(t, err)

	data, err := n.CanonicalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"string"`)
	assert.Contains(t, string(data), `"example.com/validate.MaxLength{64}"`)

	var back descriptor.Class
	require.NoError(t, json.Unmarshal(data, &back))

	again, err := back.CanonicalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestAsInterface(t *testing.T) {
	t.Parallel()

	c := descriptor.Class{
		Name: "Pair",
		Properties: []descriptor.Property{
			descriptor.NewProperty("A", typeref.Basic("string")),
			descriptor.NewProperty("B", typeref.Basic("int")),
		},
	}

	iface := c.AsInterface().WithName("IPair")
	assert.True(t, iface.Interface)
	assert.False(t, c.Interface)
	assert.Equal(t, "IPair", iface.Name)
	require.Len(t, iface.Properties, 2)

	for _, p := range iface.Properties {
		assert.False(t, p.ReadOnly)
	}
}

type Audited struct {
	CreatedBy string
}

type Document struct {
	Audited
	Title  string
	Tags   []string
	Pages  int `typeforge:"readonly"`
	secret string
}

func TestFromType(t *testing.T) {
	t.Parallel()

	c, err := descriptor.FromType(reflect.TypeFor[*Document]())
	require.NoError(t, err)

	assert.Equal(t, "Document", c.Name)
	assert.Equal(t, "typeforge/descriptor_test", c.Package)

	names := make([]string, 0, len(c.Properties))
	for _, p := range c.Properties {
		names = append(names, p.Name)
	}

	assert.Equal(t, []string{"CreatedBy", "Title", "Tags", "Pages"}, names)

	pages, ok := c.Property("Pages")
	require.True(t, ok)
	assert.True(t, pages.ReadOnly)

	tags, _ := c.Property("Tags")
	assert.Equal(t, "[]string", tags.Type.String())

	_, err = descriptor.FromType(reflect.TypeFor[int]())
	require.ErrorIs(t, err, errdefs.ErrUnsupportedDescription)
}
