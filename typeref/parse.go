package typeref

import (
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"typeforge/errdefs"
	"typeforge/internal/common"
)

// typeExpr is the grammar of a qualified Go type expression, the notation
// reflect uses for generic instances ("Box[example.com/models.Item]").
type typeExpr struct {
	Pointer *typeExpr  `parser:"  '*' @@"`
	Map     *mapExpr   `parser:"| @@"`
	Array   *arrayExpr `parser:"| @@"`
	Named   *namedExpr `parser:"| @@"`
}

type mapExpr struct {
	Key   *typeExpr `parser:"'map' '[' @@ ']'"`
	Value *typeExpr `parser:"@@"`
}

type arrayExpr struct {
	Len  *string   `parser:"'[' @Int? ']'"`
	Elem *typeExpr `parser:"@@"`
}

type namedExpr struct {
	Name string      `parser:"@Ident"`
	Args []*typeExpr `parser:"( '[' @@ ( ',' @@ )* ']' )?"`
}

var typeParser = participle.MustBuild[typeExpr](
	participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Ident", Pattern: `([\w.\-~]+/)*[A-Za-z_][\w.]*`},
		{Name: "Int", Pattern: `[0-9]+`},
		{Name: "Punct", Pattern: `[\[\]*,]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// Parse parses a qualified Go type expression such as "[]*time.Time" or
// "map[string]example.com/models.Box[int]".
func Parse(expr string) (TypeRef, error) {
	parsed, err := typeParser.ParseString("", expr)
	if err != nil {
		return TypeRef{}, errdefs.Unsupported(expr, "invalid type expression: %v", err)
	}

	return parsed.ref()
}

// MustParse is like Parse but panics on error.
func MustParse(expr string) TypeRef {
	ref, err := Parse(expr)
	if err != nil {
		panic(err)
	}

	return ref
}

func (e *typeExpr) ref() (TypeRef, error) {
	switch {
	case e.Pointer != nil:
		elem, err := e.Pointer.ref()
		if err != nil {
			return TypeRef{}, err
		}

		return PointerTo(elem), nil

	case e.Map != nil:
		key, err := e.Map.Key.ref()
		if err != nil {
			return TypeRef{}, err
		}

		value, err := e.Map.Value.ref()
		if err != nil {
			return TypeRef{}, err
		}

		return MapOf(key, value), nil

	case e.Array != nil:
		elem, err := e.Array.Elem.ref()
		if err != nil {
			return TypeRef{}, err
		}

		if e.Array.Len == nil {
			return SliceOf(elem), nil
		}

		n, err := strconv.Atoi(*e.Array.Len)
		if err != nil {
			return TypeRef{}, errdefs.Unsupported(*e.Array.Len, "invalid array length")
		}

		return ArrayOf(n, elem), nil

	default:
		pkgPath, name := common.SplitQualified(e.Named.Name)

		args := make([]TypeRef, 0, len(e.Named.Args))
		for _, a := range e.Named.Args {
			arg, err := a.ref()
			if err != nil {
				return TypeRef{}, err
			}

			args = append(args, arg)
		}

		if len(args) == 0 {
			args = nil
		}

		return Named(pkgPath, name, args...), nil
	}
}
