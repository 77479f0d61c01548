package compiler

import (
	"context"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"sync"

	"typeforge/diagnostic"
)

// Checker type-checks units in-process with go/types.
type Checker struct {
	settings

	mu       sync.Mutex
	fset     *token.FileSet
	fallback types.Importer
	units    map[string]*types.Package
}

// NewChecker creates a Checker. Standard library imports are checked from
// source once and cached for the lifetime of the Checker.
func NewChecker(opts ...Option) *Checker {
	fset := token.NewFileSet()

	return &Checker{
		settings: newSettings(opts),
		fset:     fset,
		fallback: importer.ForCompiler(fset, "source", nil),
		units:    map[string]*types.Package{},
	}
}

// Compile parses and type-checks unit. A checked unit is importable by the
// units compiled after it.
func (c *Checker) Compile(ctx context.Context, unit Unit) (*types.Package, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(unit.References) > 0 {
		c.logger.Warn().
			Str("unit", unit.Name).
			Int("references", len(unit.References)).
			Msg("checker backend ignores module references")
	}

	var diags diagnostic.Diagnostics

	file, err := parser.ParseFile(c.fset, unit.Filename(), unit.Source, parser.ParseComments|parser.AllErrors)
	if err != nil {
		collect(&diags, unit.Name, err)
		return nil, failure(unit, diags)
	}

	conf := types.Config{
		Importer: importerFunc(c.importPackage),
		Error:    func(err error) { collect(&diags, unit.Name, err) },
	}

	pkg, _ := conf.Check(unit.Package, c.fset, []*ast.File{file}, nil)
	if diags.HasErrors() {
		return nil, failure(unit, diags)
	}

	c.units[unit.Package] = pkg

	c.logger.Debug().
		Str("unit", unit.Name).
		Str("package", unit.Package).
		Msg("unit checked")

	return pkg, nil
}

// importPackage runs under c.mu, held by Compile.
func (c *Checker) importPackage(path string) (*types.Package, error) {
	if pkg, ok := c.units[path]; ok {
		return pkg, nil
	}

	return c.fallback.Import(path)
}

type importerFunc func(path string) (*types.Package, error)

func (f importerFunc) Import(path string) (*types.Package, error) {
	return f(path)
}
