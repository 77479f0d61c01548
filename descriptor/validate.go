package descriptor

import (
	"errors"
	"go/token"

	"golang.org/x/mod/module"

	"typeforge/errdefs"
	"typeforge/internal/common"
	"typeforge/meta"
	"typeforge/typeref"
)

// Validate checks that c can be emitted. All problems are reported, joined;
// each one is an *errdefs.UnsupportedDescriptionError.
func (c Class) Validate() error {
	var errs []error

	subject := c.Qualified()
	if subject == "" {
		subject = "<anonymous " + c.Kind() + ">"
	}

	if c.Name != "" && !exportedIdent(c.Name) {
		errs = append(errs, errdefs.Unsupported(subject, "type name %q is not an exported identifier", c.Name))
	}

	if c.Package != "" {
		if alias := common.PkgAlias(c.Package); !token.IsIdentifier(alias) {
			errs = append(errs, errdefs.Unsupported(subject, "package %q does not end in a valid package name", c.Package))
		}
	}

	seen := make(map[string]struct{}, len(c.Properties))

	for _, p := range c.Properties {
		if err := p.validate(subject, c.Interface); err != nil {
			errs = append(errs, err)
		}

		if _, dup := seen[p.Name]; dup {
			errs = append(errs, errdefs.Unsupported(subject, "duplicate property %s", p.Name))
		}

		seen[p.Name] = struct{}{}
	}

	for _, parent := range c.Parents {
		ref, err := typeref.Parse(parent)
		if err != nil || ref.Kind == typeref.KindBasic || ref.Kind == typeref.KindInvalid {
			errs = append(errs, errdefs.Unsupported(subject, "parent %q is not a named type", parent))
			continue
		}

		if c.Name != "" && ref.Qualified() == c.Qualified() {
			errs = append(errs, errdefs.Unsupported(subject, "type lists itself as a parent"))
		}
	}

	for _, imp := range c.Imports {
		if err := module.CheckImportPath(imp); err != nil {
			errs = append(errs, errdefs.Unsupported(subject, "import: %v", err))
		}
	}

	for _, ann := range c.Annotations {
		if err := ann.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (p Property) validate(subject string, iface bool) error {
	var errs []error

	switch {
	case p.Name == "":
		errs = append(errs, errdefs.Unsupported(subject, "property without a name"))
	case !exportedIdent(p.Name):
		errs = append(errs, errdefs.Unsupported(subject, "property %q is not an exported identifier", p.Name))
	case p.Name == meta.HeaderField && !iface:
		errs = append(errs, errdefs.Unsupported(subject, "property name %s is reserved", p.Name))
	}

	if !p.Type.IsValid() {
		errs = append(errs, errdefs.Unsupported(subject, "property %s has invalid type %q", p.Name, p.Type.String()))
	}

	if p.ReadOnly && len(p.ParamAnnotations) > 0 {
		errs = append(errs, errdefs.Unsupported(subject, "read-only property %s has no setter parameter to annotate", p.Name))
	}

	for _, ann := range p.Annotations {
		if err := ann.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	for _, ann := range p.ParamAnnotations {
		if err := ann.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func exportedIdent(name string) bool {
	return token.IsIdentifier(name) && token.IsExported(name)
}

// Validate checks p as a property of a struct.
func (p Property) Validate() error {
	return p.validate(p.Name, false)
}
