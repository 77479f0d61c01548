package override

import (
	"errors"
	"reflect"

	"typeforge/inject"
)

// Injector populates spawned instances.
type Injector = inject.Injector

var (
	// ErrNoDefaultConstructor is returned by factories whose mapper cannot
	// be built without arguments. Initialize skips such factories.
	ErrNoDefaultConstructor = errors.New("mapper has no default constructor")
	ErrUnknownProperty      = errors.New("unknown property")
	ErrNoOverride           = errors.New("no override registered")
	ErrNoOriginal           = errors.New("mapper has no original type")
)

// Mapper augments one original type.
type Mapper interface {
	Original() reflect.Type
	Configure(m *Mapping) error
}

// For implements Mapper.Original for T. Embed it in mapper structs.
type For[T any] struct{}

// Original returns T.
func (For[T]) Original() reflect.Type {
	return reflect.TypeFor[T]()
}

// InjectorAware mappers are told about the injector the registry hands to
// their entry, on the first initialization and whenever it changes.
type InjectorAware interface {
	OnInjectorLoaded(injector Injector)
}

// ActionHandler mappers receive the actions dispatched to their type.
type ActionHandler interface {
	HandleAction(model any, action string, param any) error
}

// Factory builds a mapper.
type Factory func() (Mapper, error)

// Default returns a factory building a zero M.
func Default[M any, PM interface {
	*M
	Mapper
}]() Factory {
	return func() (Mapper, error) {
		return PM(new(M)), nil
	}
}

// Instance returns a factory yielding m.
func Instance(m Mapper) Factory {
	return func() (Mapper, error) {
		if m == nil {
			return nil, ErrNoDefaultConstructor
		}

		return m, nil
	}
}

// Catalog is the ordered set of factories a registry scans.
type Catalog struct {
	factories []Factory
}

// NewCatalog returns a catalog of factories.
func NewCatalog(factories ...Factory) *Catalog {
	c := &Catalog{}
	c.Add(factories...)

	return c
}

// Add appends factories, ignoring nil ones.
func (c *Catalog) Add(factories ...Factory) *Catalog {
	for _, f := range factories {
		if f != nil {
			c.factories = append(c.factories, f)
		}
	}

	return c
}

// Len returns the number of factories.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}

	return len(c.factories)
}

// Mappers wraps ready-made mappers in a catalog.
func Mappers(ms ...Mapper) *Catalog {
	c := &Catalog{}
	for _, m := range ms {
		c.Add(Instance(m))
	}

	return c
}
