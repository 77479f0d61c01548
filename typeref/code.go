package typeref

import (
	"github.com/dave/jennifer/jen"

	"typeforge/errdefs"
)

// Code renders r as jennifer code. Package qualifiers go through jen.Qual so
// the enclosing file collects and de-duplicates imports, and generic
// arguments are expanded recursively.
func (r TypeRef) Code() (*jen.Statement, error) {
	switch r.Kind {
	case KindInvalid:
		return nil, errdefs.Unsupported(r.Name, "type has no portable Go name")

	case KindPointer:
		elem, err := r.Elem.Code()
		if err != nil {
			return nil, err
		}

		return jen.Op("*").Add(elem), nil

	case KindSlice:
		elem, err := r.Elem.Code()
		if err != nil {
			return nil, err
		}

		return jen.Index().Add(elem), nil

	case KindArray:
		elem, err := r.Elem.Code()
		if err != nil {
			return nil, err
		}

		return jen.Index(jen.Lit(r.Len)).Add(elem), nil

	case KindMap:
		key, err := r.Key.Code()
		if err != nil {
			return nil, err
		}

		elem, err := r.Elem.Code()
		if err != nil {
			return nil, err
		}

		return jen.Map(key).Add(elem), nil

	case KindBasic:
		return jen.Id(r.Name), nil

	default:
		stmt := jen.Qual(r.PkgPath, r.Name)
		if len(r.Args) == 0 {
			return stmt, nil
		}

		args := make([]jen.Code, 0, len(r.Args))
		for _, arg := range r.Args {
			code, err := arg.Code()
			if err != nil {
				return nil, err
			}

			args = append(args, code)
		}

		return stmt.Types(args...), nil
	}
}
