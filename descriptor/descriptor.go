// Package descriptor holds the pure-data declarations handed to the
// synthesizer: a Class with its Properties, parents, imports and
// annotations. A Class is treated as immutable once handed over; every
// operation in this package returns a new value.
package descriptor

import (
	"slices"

	"typeforge/annotation"
	"typeforge/typeref"
)

// DefaultPackage is the package path of classes that do not name one.
const DefaultPackage = "dyn"

// Property describes one property of a class.
type Property struct {
	Name     string          `json:"name" yaml:"name"`
	Type     typeref.TypeRef `json:"type" yaml:"type"`
	ReadOnly bool            `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
	// Annotations attach to the property itself.
	Annotations []annotation.Annotation `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	// ParamAnnotations attach to the value parameter of the setter.
	ParamAnnotations []annotation.Annotation `json:"paramAnnotations,omitempty" yaml:"paramAnnotations,omitempty"`
}

// NewProperty returns a read-write property.
func NewProperty(name string, typ typeref.TypeRef, anns ...annotation.Annotation) Property {
	return Property{Name: name, Type: typ, Annotations: anns}
}

// AsReadOnly returns a copy of p without a setter.
func (p Property) AsReadOnly() Property {
	p.ReadOnly = true
	p.ParamAnnotations = nil

	return p
}

func (p Property) clone() Property {
	p.Annotations = slices.Clone(p.Annotations)
	p.ParamAnnotations = slices.Clone(p.ParamAnnotations)

	return p
}

// Class describes a struct or interface type.
type Class struct {
	Name        string                  `json:"name,omitempty" yaml:"name,omitempty"`
	Package     string                  `json:"package,omitempty" yaml:"package,omitempty"`
	Interface   bool                    `json:"interface,omitempty" yaml:"interface,omitempty"`
	Parents     []string                `json:"parents,omitempty" yaml:"parents,omitempty"`
	Properties  []Property              `json:"properties,omitempty" yaml:"properties,omitempty"`
	Imports     []string                `json:"imports,omitempty" yaml:"imports,omitempty"`
	Annotations []annotation.Annotation `json:"annotations,omitempty" yaml:"annotations,omitempty"`
}

// Clone returns a deep copy of c.
func (c Class) Clone() Class {
	c.Parents = slices.Clone(c.Parents)
	c.Imports = slices.Clone(c.Imports)
	c.Annotations = slices.Clone(c.Annotations)

	props := make([]Property, 0, len(c.Properties))
	for _, p := range c.Properties {
		props = append(props, p.clone())
	}

	if c.Properties != nil {
		c.Properties = props
	}

	return c
}

// WithName returns a copy of c renamed to name.
func (c Class) WithName(name string) Class {
	c = c.Clone()
	c.Name = name

	return c
}

// WithPackage returns a copy of c in package pkg.
func (c Class) WithPackage(pkg string) Class {
	c = c.Clone()
	c.Package = pkg

	return c
}

// WithProperty returns a copy of c with p appended.
func (c Class) WithProperty(p Property) Class {
	c = c.Clone()
	c.Properties = append(c.Properties, p.clone())

	return c
}

// WithParents returns a copy of c with parents added.
func (c Class) WithParents(parents ...string) Class {
	c = c.Clone()
	c.Parents = append(c.Parents, parents...)

	return c
}

// WithAnnotations returns a copy of c with class annotations added.
func (c Class) WithAnnotations(anns ...annotation.Annotation) Class {
	c = c.Clone()
	c.Annotations = append(c.Annotations, anns...)

	return c
}

// AsInterface returns the interface form of c: the same properties, each
// exposed through a getter and, unless read-only, a setter.
func (c Class) AsInterface() Class {
	c = c.Clone()
	c.Interface = true

	return c
}

// Property returns the property named name.
func (c Class) Property(name string) (Property, bool) {
	i := slices.IndexFunc(c.Properties, func(p Property) bool { return p.Name == name })
	if i < 0 {
		return Property{}, false
	}

	return c.Properties[i], true
}

// Qualified returns "package.Name".
func (c Class) Qualified() string {
	if c.Package == "" {
		return c.Name
	}

	return c.Package + "." + c.Name
}

// Kind returns "interface" or "struct".
func (c Class) Kind() string {
	if c.Interface {
		return "interface"
	}

	return "struct"
}
