package gen

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"
	"github.com/stoewer/go-strcase"

	"typeforge/annotation"
	"typeforge/descriptor"
	"typeforge/errdefs"
	"typeforge/internal/common"
	"typeforge/meta"
	"typeforge/typeref"
)

// Directive prefixes of annotation lines.
const (
	AnnotationDirective = "//typeforge:annotation "
	ParamDirective      = "//typeforge:param "
)

// DefaultHeader is the header comment of rendered files.
const DefaultHeader = "Code generated by typeforge. DO NOT EDIT."

// EmitterConfig holds configuration for rendering.
type EmitterConfig struct {
	// Header is the comment above the package clause; empty disables it.
	Header string
	// Constructors enables NewName functions for struct types.
	Constructors bool
	// SetterParam is the name of the value parameter of interface setters.
	SetterParam string
}

// DefaultEmitterConfig returns the default rendering configuration.
func DefaultEmitterConfig() EmitterConfig {
	return EmitterConfig{
		Header:       DefaultHeader,
		Constructors: true,
		SetterParam:  "value",
	}
}

// TextEmitter renders class descriptors as Go source.
type TextEmitter struct {
	config EmitterConfig
}

// NewTextEmitter creates a TextEmitter with the given configuration.
func NewTextEmitter(config EmitterConfig) *TextEmitter {
	if config.SetterParam == "" {
		config.SetterParam = "value"
	}

	return &TextEmitter{config: config}
}

// Render returns the formatted source of c, which must be normalized.
func (e *TextEmitter) Render(c descriptor.Class) ([]byte, error) {
	f, err := e.File(c)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("formatting %s: %w", c.Qualified(), err)
	}

	return buf.Bytes(), nil
}

// Generate renders c into a GeneratedFile named after the type.
func (e *TextEmitter) Generate(c descriptor.Class) (GeneratedFile, error) {
	content, err := e.Render(c)
	if err != nil {
		return GeneratedFile{}, err
	}

	return GeneratedFile{Filename: Filename(c), Content: content}, nil
}

// Filename returns the snake case file name of c, e.g. "order_line.go".
func Filename(c descriptor.Class) string {
	return strcase.SnakeCase(c.Name) + ".go"
}

// File builds the jennifer file of c.
func (e *TextEmitter) File(c descriptor.Class) (*jen.File, error) {
	if c.Name == "" || c.Package == "" {
		return nil, errdefs.Unsupported(c.Qualified(), "descriptor is not normalized")
	}

	f := jen.NewFilePathName(c.Package, common.PkgAlias(c.Package))
	if e.config.Header != "" {
		f.HeaderComment(e.config.Header)
	}

	if len(c.Imports) > 0 {
		f.Anon(c.Imports...)
	}

	for _, ann := range c.Annotations {
		f.Comment(AnnotationDirective + ann.String())
	}

	var (
		decl *jen.Statement
		err  error
	)

	if c.Interface {
		decl, err = e.interfaceDecl(c)
	} else {
		decl, err = e.structDecl(c)
	}

	if err != nil {
		return nil, err
	}

	f.Add(decl)

	if !c.Interface && e.config.Constructors {
		f.Line()
		f.Commentf("New%s returns a zero %s.", c.Name, c.Name)
		f.Func().Id("New"+c.Name).Params().Op("*").Id(c.Name).Block(
			jen.Return(jen.Op("&").Id(c.Name).Values()),
		)
	}

	refs, err := annotationRefs(c)
	if err != nil {
		return nil, err
	}

	if len(refs) > 0 {
		f.Line()
		f.Var().Defs(refs...)
	}

	return f, nil
}

func (e *TextEmitter) structDecl(c descriptor.Class) (*jen.Statement, error) {
	parents, err := parentCodes(c)
	if err != nil {
		return nil, err
	}

	fields := make([]jen.Code, 0, len(parents)+3*len(c.Properties))
	fields = append(fields, parents...)

	for _, p := range c.Properties {
		typ, err := p.Type.Code()
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", p.Name, err)
		}

		fields = append(fields, directives(AnnotationDirective, p.Annotations)...)
		fields = append(fields, directives(ParamDirective, p.ParamAnnotations)...)

		field := jen.Id(p.Name).Add(typ)
		if tags := meta.FieldTags(p.ReadOnly, p.Annotations, p.ParamAnnotations); len(tags) > 0 {
			field.Tag(map[string]string(tags))
		}

		fields = append(fields, field)
	}

	return jen.Type().Id(c.Name).Struct(fields...), nil
}

func (e *TextEmitter) interfaceDecl(c descriptor.Class) (*jen.Statement, error) {
	parents, err := parentCodes(c)
	if err != nil {
		return nil, err
	}

	methods := make([]jen.Code, 0, len(parents)+4*len(c.Properties))
	methods = append(methods, parents...)

	taken := make(map[string]string, 2*len(c.Properties))
	claim := func(method, property string) error {
		if owner, dup := taken[method]; dup {
			return errdefs.Unsupported(c.Qualified(), "method %s of property %s collides with property %s", method, property, owner)
		}

		taken[method] = property

		return nil
	}

	for _, p := range c.Properties {
		if err := claim(p.Name, p.Name); err != nil {
			return nil, err
		}

		getter, err := p.Type.Code()
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", p.Name, err)
		}

		methods = append(methods, directives(AnnotationDirective, p.Annotations)...)
		methods = append(methods, jen.Id(p.Name).Params().Add(getter))

		if p.ReadOnly {
			continue
		}

		if err := claim("Set"+p.Name, p.Name); err != nil {
			return nil, err
		}

		param, err := p.Type.Code()
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", p.Name, err)
		}

		methods = append(methods, directives(ParamDirective, p.ParamAnnotations)...)
		methods = append(methods, jen.Id("Set"+p.Name).Params(jen.Id(e.config.SetterParam).Add(param)))
	}

	return jen.Type().Id(c.Name).Interface(methods...), nil
}

func parentCodes(c descriptor.Class) ([]jen.Code, error) {
	out := make([]jen.Code, 0, len(c.Parents))

	for _, parent := range c.Parents {
		ref, err := typeref.Parse(parent)
		if err != nil {
			return nil, errdefs.Unsupported(c.Qualified(), "parent %q: %v", parent, err)
		}

		code, err := ref.Code()
		if err != nil {
			return nil, err
		}

		out = append(out, code)
	}

	return out, nil
}

func directives(prefix string, anns []annotation.Annotation) []jen.Code {
	out := make([]jen.Code, 0, len(anns))
	for _, ann := range anns {
		out = append(out, jen.Comment(prefix+ann.String()))
	}

	return out
}

// annotationRefs returns one `_ = literal` definition per distinct annotation
// of c, in order of first appearance.
func annotationRefs(c descriptor.Class) ([]jen.Code, error) {
	var (
		out  []jen.Code
		seen = map[string]struct{}{}
	)

	add := func(anns []annotation.Annotation) error {
		for _, ann := range anns {
			key := ann.String()
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}

			code, err := ann.Code()
			if err != nil {
				return err
			}

			out = append(out, jen.Id("_").Op("=").Add(code))
		}

		return nil
	}

	if err := add(c.Annotations); err != nil {
		return nil, err
	}

	for _, p := range c.Properties {
		if err := add(p.Annotations); err != nil {
			return nil, err
		}

		if err := add(p.ParamAnnotations); err != nil {
			return nil, err
		}
	}

	return out, nil
}
