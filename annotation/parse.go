package annotation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"typeforge/errdefs"
	"typeforge/internal/common"
	"typeforge/typeref"
)

// exprAST accepts the call form (pkg.MaxLength(10)) and the composite form
// (pkg.MaxLength{10}, pkg.Range{Min: 1, Max: 5}).
type exprAST struct {
	Target    string        `parser:"@Ident"`
	Call      *callAST      `parser:"( '(' @@ ')'"`
	Composite *compositeAST `parser:"| '{' @@ '}' )?"`
}

type callAST struct {
	Args []*valueAST `parser:"( @@ ( ',' @@ )* ','? )?"`
}

type compositeAST struct {
	Elements []*elementAST `parser:"( @@ ( ',' @@ )* ','? )?"`
}

type elementAST struct {
	Field *fieldAST `parser:"  @@"`
	Value *valueAST `parser:"| @@"`
}

type fieldAST struct {
	Name  string    `parser:"@Ident ':'"`
	Value *valueAST `parser:"@@"`
}

type valueAST struct {
	String *string  `parser:"  @String"`
	Number *string  `parser:"| @Number"`
	Neg    *string  `parser:"| '-' @Number"`
	Bool   *string  `parser:"| @('true' | 'false')"`
	Nil    bool     `parser:"| @'nil'"`
	Ref    *callRef `parser:"| @@"`
}

// callRef captures identifiers and calls so they can be reported as
// non-constant arguments instead of syntax errors.
type callRef struct {
	Name string   `parser:"@Ident"`
	Call *callAST `parser:"( '(' @@ ')' )?"`
}

var exprParser = participle.MustBuild[exprAST](
	participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
		{Name: "String", Pattern: "\"(\\\\.|[^\"\\\\])*\"|`[^`]*`"},
		{Name: "Ident", Pattern: `([\w.\-~]+/)*[A-Za-z_][\w.]*`},
		{Name: "Number", Pattern: `[0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?`},
		{Name: "Punct", Pattern: `[(){},:\-]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// Parse parses an annotation expression. The target may be qualified with a
// full package path ("example.com/validate.MaxLength(10)"). Arguments must
// be literal constants; anything else fails with UnsupportedExpressionError.
func Parse(expr string) (Annotation, error) {
	ast, err := exprParser.ParseString("", expr)
	if err != nil {
		return Annotation{}, &errdefs.UnsupportedExpressionError{Expression: expr, Reason: err.Error()}
	}

	pkgPath, name := common.SplitQualified(ast.Target)
	if typeref.IsBasicName(name) && pkgPath == "" {
		return Annotation{}, &errdefs.UnsupportedExpressionError{
			Expression: expr,
			Reason:     "annotation target must be a named type, got " + name,
		}
	}

	ann := Annotation{Target: typeref.Named(pkgPath, name)}

	switch {
	case ast.Call != nil:
		ann.Args, err = literals(expr, ast.Call.Args)

	case ast.Composite != nil:
		ann, err = composite(expr, ann, ast.Composite.Elements)
	}

	if err != nil {
		return Annotation{}, err
	}

	return ann, nil
}

// MustParse is like Parse but panics on error.
func MustParse(expr string) Annotation {
	ann, err := Parse(expr)
	if err != nil {
		panic(err)
	}

	return ann
}

func composite(expr string, ann Annotation, elements []*elementAST) (Annotation, error) {
	var named, positional int
	for _, el := range elements {
		if el.Field != nil {
			named++
		} else {
			positional++
		}
	}

	if named > 0 && positional > 0 {
		return Annotation{}, &errdefs.UnsupportedExpressionError{
			Expression: expr,
			Reason:     "mixture of field:value and value elements",
		}
	}

	if named == 0 {
		values := make([]*valueAST, 0, len(elements))
		for _, el := range elements {
			values = append(values, el.Value)
		}

		args, err := literals(expr, values)
		ann.Args = args

		return ann, err
	}

	ann.Form = FormNamedArgs

	for _, el := range elements {
		lit, err := el.Field.Value.literal(expr)
		if err != nil {
			return Annotation{}, err
		}

		ann.Fields = append(ann.Fields, Field{Name: el.Field.Name, Value: lit})
	}

	return ann, ann.Validate()
}

func literals(expr string, values []*valueAST) ([]Literal, error) {
	if len(values) == 0 {
		return nil, nil
	}

	out := make([]Literal, 0, len(values))
	for _, v := range values {
		lit, err := v.literal(expr)
		if err != nil {
			return nil, err
		}

		out = append(out, lit)
	}

	return out, nil
}

func (v *valueAST) literal(expr string) (Literal, error) {
	switch {
	case v.String != nil:
		s, err := strconv.Unquote(*v.String)
		if err != nil {
			return Literal{}, &errdefs.UnsupportedExpressionError{Expression: expr, Reason: err.Error()}
		}

		return String(s), nil

	case v.Number != nil:
		return number(expr, *v.Number, false)

	case v.Neg != nil:
		return number(expr, *v.Neg, true)

	case v.Bool != nil:
		return Bool(*v.Bool == "true"), nil

	case v.Nil:
		return Nil(), nil

	default:
		what := v.Ref.Name
		if v.Ref.Call != nil {
			what += "(...)"
		}

		return Literal{}, &errdefs.UnsupportedExpressionError{
			Expression: expr,
			Reason:     fmt.Sprintf("argument %s is not a literal constant", what),
		}
	}
}

func number(expr, text string, negative bool) (Literal, error) {
	if !strings.ContainsAny(text, ".eE") {
		if negative {
			i, err := strconv.ParseInt("-"+text, 10, 64)
			if err == nil {
				return Int(i), nil
			}
		} else {
			i, err := strconv.ParseInt(text, 10, 64)
			if err == nil {
				return Int(i), nil
			}

			u, err := strconv.ParseUint(text, 10, 64)
			if err == nil {
				return Uint(u), nil
			}
		}
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Literal{}, &errdefs.UnsupportedExpressionError{Expression: expr, Reason: err.Error()}
	}

	if negative {
		f = -f
	}

	return Float(f), nil
}
