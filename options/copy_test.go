package options_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typeforge/options"
	"typeforge/primitive"
	"typeforge/props"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	c := options.New()
	assert.False(t, c.IncludePrivate)
	assert.False(t, c.SkipNulls)
	assert.True(t, c.AttemptConversion)
	assert.True(t, c.CompareUnderlyingNullable)
	assert.Equal(t, primitive.CategoryEnum(primitive.CategoryAll), c.Conversions)
	require.NotNil(t, c.Resolver)
}

func TestSelects(t *testing.T) {
	t.Parallel()

	c := options.New(options.WithExclude("B"))
	assert.True(t, c.Selects("A"))
	assert.False(t, c.Selects("B"))

	c = options.New(options.WithExclude("B"), options.WithInclude("B", "C"))
	assert.False(t, c.Selects("A"))
	assert.True(t, c.Selects("B"), "include takes precedence over exclude")

	nested := c.Nested()
	assert.True(t, nested.Selects("A"))
}

func TestNilResolverFallsBack(t *testing.T) {
	t.Parallel()

	type pair struct{ A int }

	c := options.New(options.WithResolver(nil))
	p, _ := props.Of(reflect.TypeFor[pair]()).Lookup("A")

	v, err := c.Resolver(p, reflect.ValueOf(pair{A: 3}), reflect.Value{})
	require.NoError(t, err)
	assert.Equal(t, 3, v.Interface())
}
