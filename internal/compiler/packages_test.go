package compiler_test

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/mod/modfile"

	"typeforge/errdefs"
	"typeforge/internal/compiler"
)

func TestModFile(t *testing.T) {
	t.Parallel()

	local := t.TempDir()

	data, err := compiler.ModFile("example.com/dyn", "1.22", []compiler.Reference{
		{Module: "example.com/lib", Version: "v1.2.3"},
		{Module: "example.com/local", Dir: local},
	})
	require.NoError(t, err)

	f, err := modfile.Parse("go.mod", data, nil)
	require.NoError(t, err)

	assert.Equal(t, "example.com/dyn", f.Module.Mod.Path)
	assert.Equal(t, "1.22", f.Go.Version)

	require.Len(t, f.Require, 2)
	assert.Equal(t, "example.com/lib", f.Require[0].Mod.Path)
	assert.Equal(t, "v1.2.3", f.Require[0].Mod.Version)
	assert.Equal(t, "example.com/local", f.Require[1].Mod.Path)

	require.Len(t, f.Replace, 1)
	assert.Equal(t, "example.com/local", f.Replace[0].Old.Path)
	assert.Equal(t, filepath.Clean(local), f.Replace[0].New.Path)
}

func TestModFileInvalidVersion(t *testing.T) {
	t.Parallel()

	_, err := compiler.ModFile("example.com/dyn", "one.two", nil)
	require.Error(t, err)
}

func requireGo(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("loads packages with the go command")
	}

	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not available")
	}
}

func TestPackagesCompile(t *testing.T) {
	t.Parallel()
	requireGo(t)

	backend := compiler.NewPackages(compiler.WithRoot(t.TempDir()))

	pkg, err := backend.Compile(context.Background(), compiler.Unit{
		Name:    "person",
		Package: "example.com/people",
		Source:  []byte(personSource),
	})
	require.NoError(t, err)
	assert.Equal(t, "example.com/people", pkg.Path())
	require.NotNil(t, pkg.Scope().Lookup("Person"))
}

func TestPackagesDiagnostics(t *testing.T) {
	t.Parallel()
	requireGo(t)

	backend := compiler.NewPackages(compiler.WithRoot(t.TempDir()))

	_, err := backend.Compile(context.Background(), compiler.Unit{
		Name:    "broken",
		Package: "example.com/broken",
		Source:  []byte("package broken\n\ntype T struct {\n\tX Missing\n}\n"),
	})
	require.ErrorIs(t, err, errdefs.ErrCompilation)

	var cerr *errdefs.CompilationError
	require.True(t, errors.As(err, &cerr))
	require.NotEmpty(t, cerr.Diagnostics)
	assert.Equal(t, compiler.CodeType, cerr.Diagnostics[0].Code)
	assert.Equal(t, 4, cerr.Diagnostics[0].Location.Line)
	assert.Contains(t, cerr.Diagnostics[0].Message, "Missing")
}
