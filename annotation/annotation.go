// Package annotation describes metadata attached to synthesized types,
// properties and setter parameters.
//
// An Annotation is a tagged variant:
//   - Constructed: a target type plus ordered literal arguments, rendered as
//     a positional composite literal (pkg.MaxLength{10})
//   - NamedArgs: a target type plus named literal fields, rendered as a keyed
//     composite literal (pkg.Range{Min: 1, Max: 5})
//
// Arguments are evaluated when the annotation is described; only literal
// constants are accepted.
package annotation

import (
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/stoewer/go-strcase"

	"typeforge/errdefs"
	"typeforge/internal/common"
	"typeforge/typeref"
)

// Form distinguishes the two annotation variants.
type Form int

const (
	FormConstructed Form = iota
	FormNamedArgs
)

// Field is one named argument.
type Field struct {
	Name  string
	Value Literal
}

// Annotation is a metadata annotation in either form.
type Annotation struct {
	Target typeref.TypeRef
	Form   Form
	Args   []Literal // FormConstructed
	Fields []Field   // FormNamedArgs
}

// Constructed returns a positional annotation.
func Constructed(target typeref.TypeRef, args ...Literal) Annotation {
	return Annotation{Target: target, Form: FormConstructed, Args: args}
}

// NamedArgs returns a keyed annotation.
func NamedArgs(target typeref.TypeRef, fields ...Field) Annotation {
	return Annotation{Target: target, Form: FormNamedArgs, Fields: fields}
}

// Validate checks that the annotation can be rendered.
func (a Annotation) Validate() error {
	switch a.Target.Kind {
	case typeref.KindNamed, typeref.KindStruct, typeref.KindEnum:
	default:
		return errdefs.Unsupported(a.Target.String(), "annotation target must be a named type")
	}

	if a.Target.Name == "" {
		return errdefs.Unsupported("annotation", "annotation target has no name")
	}

	if a.Form == FormNamedArgs {
		seen := map[string]struct{}{}
		for _, f := range a.Fields {
			if f.Name == "" {
				return errdefs.Unsupported(a.Target.String(), "named argument without a name")
			}

			if _, dup := seen[f.Name]; dup {
				return errdefs.Unsupported(a.Target.String(), "duplicate named argument %s", f.Name)
			}

			seen[f.Name] = struct{}{}
		}
	}

	return nil
}

// TagKey is the struct tag key the annotation is encoded under: the lower
// camel case name of its target type.
func (a Annotation) TagKey() string {
	return strcase.LowerCamelCase(a.Target.Name)
}

// TagValue renders the arguments for a struct tag: "10,abc" or "min=1,max=5".
func (a Annotation) TagValue() string {
	parts := make([]string, 0, max(len(a.Args), len(a.Fields)))

	if a.Form == FormNamedArgs {
		for _, f := range a.Fields {
			parts = append(parts, strcase.LowerCamelCase(f.Name)+"="+f.Value.TagString())
		}
	} else {
		for _, arg := range a.Args {
			parts = append(parts, arg.TagString())
		}
	}

	return strings.Join(parts, ",")
}

// conversion reports whether the annotation renders as a conversion T(x)
// rather than a composite literal.
func (a Annotation) conversion() bool {
	return a.Form == FormConstructed && a.Target.Kind == typeref.KindEnum && len(a.Args) == 1
}

// Code renders the annotation as a Go expression.
func (a Annotation) Code() (*jen.Statement, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	target, err := a.Target.Code()
	if err != nil {
		return nil, err
	}

	if a.conversion() {
		return target.Call(jen.Id(a.Args[0].GoString())), nil
	}

	values := make([]jen.Code, 0, max(len(a.Args), len(a.Fields)))
	if a.Form == FormNamedArgs {
		for _, f := range a.Fields {
			values = append(values, jen.Id(f.Name).Op(":").Id(f.Value.GoString()))
		}
	} else {
		for _, arg := range a.Args {
			values = append(values, jen.Id(arg.GoString()))
		}
	}

	return target.Values(values...), nil
}

// Expr renders the annotation as Go source using the package name as qualifier,
// e.g. `validate.Range{Min: 1, Max: 5}`.
func (a Annotation) Expr() string {
	return a.render(common.PkgAlias(a.Target.PkgPath))
}

// String renders the canonical form with the full package path as qualifier.
// Parse accepts it back.
func (a Annotation) String() string {
	return a.render(a.Target.PkgPath)
}

func (a Annotation) render(qualifier string) string {
	var b strings.Builder
	if qualifier != "" {
		b.WriteString(qualifier + ".")
	}

	b.WriteString(a.Target.Name)

	if a.conversion() {
		b.WriteString("(" + a.Args[0].GoString() + ")")
		return b.String()
	}

	b.WriteString("{")

	if a.Form == FormNamedArgs {
		for i, f := range a.Fields {
			if i > 0 {
				b.WriteString(", ")
			}

			b.WriteString(f.Name + ": " + f.Value.GoString())
		}
	} else {
		for i, arg := range a.Args {
			if i > 0 {
				b.WriteString(", ")
			}

			b.WriteString(arg.GoString())
		}
	}

	b.WriteString("}")

	return b.String()
}

// MarshalText renders the canonical form.
func (a Annotation) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses an annotation expression.
func (a *Annotation) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}

	*a = parsed

	return nil
}
