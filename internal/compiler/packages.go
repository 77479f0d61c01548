package compiler

import (
	"context"
	"fmt"
	"go/types"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/mod/modfile"
	"golang.org/x/tools/go/packages"

	"typeforge/diagnostic"
	"typeforge/utils"
)

// LoadMode specifies what information to load for a unit.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// unreleased is the version required for references that are replaced by a
// local directory and carry no version of their own.
const unreleased = "v0.0.0-00010101000000-000000000000"

// Packages type-checks units as temporary modules loaded with go/packages.
type Packages struct {
	settings

	mu   sync.Mutex
	stem *utils.Stem
}

// NewPackages creates a Packages backend. Temporary modules are created
// under WithRoot, or under a fresh directory in os.TempDir.
func NewPackages(opts ...Option) *Packages {
	p := &Packages{settings: newSettings(opts)}
	p.stem = utils.NewStem("unit", p.exists)

	return p
}

// exists reports whether a unit directory is already present under the
// root, which matters when WithRoot points at a reused directory.
func (p *Packages) exists(name string) bool {
	if p.root == "" {
		return false
	}

	_, err := os.Stat(filepath.Join(p.root, name))

	return err == nil
}

// Compile writes unit into a temporary module and loads it.
func (p *Packages) Compile(ctx context.Context, unit Unit) (*types.Package, error) {
	dir, err := p.workspace()
	if err != nil {
		return nil, err
	}

	if !p.keep {
		defer os.RemoveAll(dir)
	}

	gomod, err := ModFile(unit.Package, p.goVersion, unit.References)
	if err != nil {
		return nil, fmt.Errorf("unit %s: %w", unit.Name, err)
	}

	if err := os.WriteFile(filepath.Join(dir, "go.mod"), gomod, 0o644); err != nil {
		return nil, fmt.Errorf("writing go.mod: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, unit.Filename()), unit.Source, 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", unit.Filename(), err)
	}

	env := append(os.Environ(), "GOWORK=off", "GOFLAGS=-mod=mod", "GOTOOLCHAIN=local")

	cfg := &packages.Config{
		Mode:    LoadMode,
		Context: ctx,
		Dir:     dir,
		Env:     append(env, p.env...),
		Logf: func(format string, args ...any) {
			p.logger.Trace().Str("unit", unit.Name).Msgf(format, args...)
		},
	}

	var diags diagnostic.Diagnostics

	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		collect(&diags, unit.Name, err)

		return nil, failure(unit, diags)
	}

	if len(pkgs) != 1 {
		diags.AddError(CodeLoad, fmt.Sprintf("expected one package, loaded %d", len(pkgs)), unit.Name, diagnostic.Span{})
		return nil, failure(unit, diags)
	}

	pkg := pkgs[0]
	for _, e := range pkg.Errors {
		collect(&diags, unit.Name, e)
	}

	if diags.HasErrors() || pkg.Types == nil {
		if !diags.HasErrors() {
			diags.AddError(CodeLoad, "no type information", unit.Name, diagnostic.Span{})
		}

		return nil, failure(unit, diags)
	}

	p.logger.Debug().
		Str("unit", unit.Name).
		Str("package", unit.Package).
		Str("dir", dir).
		Msg("unit loaded")

	return pkg.Types, nil
}

func (p *Packages) workspace() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.root == "" {
		root, err := os.MkdirTemp("", "typeforge-")
		if err != nil {
			return "", fmt.Errorf("creating module root: %w", err)
		}

		p.root = root
	}

	dir := filepath.Join(p.root, p.stem.Next())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating unit directory: %w", err)
	}

	return dir, nil
}

// ModFile renders the go.mod of a temporary module. References with a Dir
// become replace directives pointing at the absolute directory.
func ModFile(modulePath, goVersion string, refs []Reference) ([]byte, error) {
	f := new(modfile.File)

	if err := f.AddModuleStmt(modulePath); err != nil {
		return nil, fmt.Errorf("module %s: %w", modulePath, err)
	}

	if err := f.AddGoStmt(goVersion); err != nil {
		return nil, fmt.Errorf("go %s: %w", goVersion, err)
	}

	for _, ref := range refs {
		version := ref.Version
		if version == "" {
			version = unreleased
		}

		if err := f.AddRequire(ref.Module, version); err != nil {
			return nil, fmt.Errorf("require %s: %w", ref.Module, err)
		}

		if ref.Dir == "" {
			continue
		}

		dir, err := filepath.Abs(ref.Dir)
		if err != nil {
			return nil, fmt.Errorf("replace %s: %w", ref.Module, err)
		}

		if err := f.AddReplace(ref.Module, "", dir, ""); err != nil {
			return nil, fmt.Errorf("replace %s: %w", ref.Module, err)
		}
	}

	f.Cleanup()

	return f.Format()
}
