// Package inject post-processes freshly spawned instances.
//
// An Injector receives a pointer to a new instance and fills in whatever it
// manages. Injectors are compared by identity when a registry is
// re-initialized, so implementations must be comparable; pointers are.
package inject

import (
	"errors"
)

// Injector populates a new instance.
type Injector interface {
	Inject(instance any) error
}

// Func adapts a function to an Injector.
type Func struct {
	fn func(instance any) error
}

// FromFunc returns an Injector calling fn. Every call returns a distinct
// Injector.
func FromFunc(fn func(instance any) error) *Func {
	return &Func{fn: fn}
}

// Inject calls the wrapped function.
func (f *Func) Inject(instance any) error {
	if f == nil || f.fn == nil {
		return nil
	}

	return f.fn(instance)
}

// Chain runs injectors in order and stops at the first error.
type Chain []Injector

// Inject implements Injector.
func (c *Chain) Inject(instance any) error {
	for _, inj := range *c {
		if inj == nil {
			continue
		}

		if err := inj.Inject(instance); err != nil {
			return err
		}
	}

	return nil
}

// NewChain returns a chain of the non-nil injectors.
func NewChain(injectors ...Injector) *Chain {
	c := make(Chain, 0, len(injectors))
	for _, inj := range injectors {
		if inj != nil {
			c = append(c, inj)
		}
	}

	return &c
}

var (
	ErrNotAStructPointer = errors.New("instance must be a non-nil pointer to a struct")
	ErrNilEmbedded       = errors.New("nil embedded pointer cannot be allocated")
)
