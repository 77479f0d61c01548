// Package options holds the policy of a single copy or clone call.
package options

import (
	"reflect"
	"slices"

	"typeforge/primitive"
	"typeforge/props"
)

// Resolver supplies the value copied for a source property. The default
// reads the property from src.
type Resolver func(p props.Property, src, dst reflect.Value) (reflect.Value, error)

// DefaultResolver reads p from src.
func DefaultResolver(p props.Property, src, _ reflect.Value) (reflect.Value, error) {
	return p.Get(src), nil
}

// Copy is the copy policy. Include, Exclude and Resolver apply to the
// top-level pair only; nested values are deep-copied with the rest of the
// policy.
type Copy struct {
	IncludePrivate            bool
	SkipNulls                 bool
	Exclude                   []string
	Include                   []string
	Resolver                  Resolver
	AttemptConversion         bool
	CompareUnderlyingNullable bool
	Conversions               primitive.CategoryEnum
	Arrays                    ArrayCategoryEnum
	Casters                   []any
}

// Option customizes a Copy.
type Option func(*Copy)

// New returns the default policy with opts applied: exported properties
// only, nulls copied, no exclusions, direct reads, conversion and nullable
// unwrapping on, every conversion category.
func New(opts ...Option) Copy {
	c := Copy{
		Resolver:                  DefaultResolver,
		AttemptConversion:         true,
		CompareUnderlyingNullable: true,
		Conversions:               primitive.CategoryAll,
		Arrays:                    ArrayAll,
	}

	for _, opt := range opts {
		opt(&c)
	}

	if c.Resolver == nil {
		c.Resolver = DefaultResolver
	}

	return c
}

func WithIncludePrivate() Option {
	return func(c *Copy) { c.IncludePrivate = true }
}

func WithSkipNulls() Option {
	return func(c *Copy) { c.SkipNulls = true }
}

func WithExclude(names ...string) Option {
	return func(c *Copy) { c.Exclude = append(c.Exclude, names...) }
}

// WithInclude restricts the copy to the named properties; it takes
// precedence over exclusions.
func WithInclude(names ...string) Option {
	return func(c *Copy) { c.Include = append(c.Include, names...) }
}

func WithResolver(r Resolver) Option {
	return func(c *Copy) { c.Resolver = r }
}

func WithoutConversion() Option {
	return func(c *Copy) { c.AttemptConversion = false }
}

func WithoutNullableUnwrap() Option {
	return func(c *Copy) { c.CompareUnderlyingNullable = false }
}

func WithConversions(categories primitive.CategoryEnum) Option {
	return func(c *Copy) { c.Conversions = categories }
}

func WithArrays(categories ArrayCategoryEnum) Option {
	return func(c *Copy) { c.Arrays = categories }
}

// WithCasters adds custom conversion functions, see node.ParseCaster for
// the accepted signatures. They are tried before the built-in conversions.
func WithCasters(fns ...any) Option {
	return func(c *Copy) { c.Casters = append(c.Casters, fns...) }
}

// Selects reports whether a source property takes part in the copy.
func (c Copy) Selects(name string) bool {
	if len(c.Include) > 0 {
		return slices.Contains(c.Include, name)
	}

	return !slices.Contains(c.Exclude, name)
}

// Nested returns the policy for values below the top-level pair.
func (c Copy) Nested() Copy {
	c.Include, c.Exclude = nil, nil
	c.Resolver = DefaultResolver

	return c
}
