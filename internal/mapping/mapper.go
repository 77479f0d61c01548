package mapping

import (
	"fmt"
	"reflect"

	"typeforge/override"
	"typeforge/synth"
)

// FileMapper applies one Override of a file.
type FileMapper struct {
	original    reflect.Type
	replacement reflect.Type
	def         Override
}

// NewMapper resolves the types of o through u.
func NewMapper(o Override, u *synth.Universe) (*FileMapper, error) {
	original, ok := u.Lookup(o.Type)
	if !ok {
		return nil, fmt.Errorf("override %s: type is not registered", o.Type)
	}

	m := &FileMapper{original: original, def: o}

	if o.Replace != "" {
		if m.replacement, ok = u.Lookup(o.Replace); !ok {
			return nil, fmt.Errorf("override %s: replacement %s is not registered", o.Type, o.Replace)
		}
	}

	return m, nil
}

// Original implements override.Mapper.
func (m *FileMapper) Original() reflect.Type {
	return m.original
}

// Configure implements override.Mapper.
func (m *FileMapper) Configure(mp *override.Mapping) error {
	if m.replacement != nil {
		mp.Replace(m.replacement)
	}

	for _, p := range m.def.Properties {
		mp.Property(p)
	}

	for _, g := range m.def.PropertyAnnotations {
		mp.AddPropertyAnnotation(g.Name, g.Annotations...)
	}

	mp.AddClassAnnotation(m.def.Annotations...)

	return nil
}

// Definition returns the override the mapper was built from.
func (m *FileMapper) Definition() Override {
	return m.def
}

// Catalog returns a catalog with one mapper per override of the files, in
// file order.
func Catalog(u *synth.Universe, files ...*File) (*override.Catalog, error) {
	catalog := override.NewCatalog()

	for _, f := range files {
		for _, o := range f.Overrides {
			m, err := NewMapper(o, u)
			if err != nil {
				if f.Path != "" {
					return nil, fmt.Errorf("%s: %w", f.Path, err)
				}

				return nil, err
			}

			catalog.Add(override.Instance(m))
		}
	}

	return catalog, nil
}
