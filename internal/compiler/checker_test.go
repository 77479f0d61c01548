package compiler_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typeforge/errdefs"
	"typeforge/internal/compiler"
)

const personSource = `package people

import "image"

type Person struct {
	Name string
	At   image.Point
}
`

func TestCheckerCompile(t *testing.T) {
	t.Parallel()

	checker := compiler.NewChecker()

	pkg, err := checker.Compile(context.Background(), compiler.Unit{
		Name:    "person",
		Package: "example.com/people",
		Source:  []byte(personSource),
	})
	require.NoError(t, err)

	assert.Equal(t, "example.com/people", pkg.Path())
	assert.Equal(t, "people", pkg.Name())
	require.NotNil(t, pkg.Scope().Lookup("Person"))
}

func TestCheckerImportsEarlierUnits(t *testing.T) {
	t.Parallel()

	checker := compiler.NewChecker()
	ctx := context.Background()

	_, err := checker.Compile(ctx, compiler.Unit{
		Name:    "person",
		Package: "example.com/people",
		Source:  []byte(personSource),
	})
	require.NoError(t, err)

	pkg, err := checker.Compile(ctx, compiler.Unit{
		Name:    "team",
		Package: "example.com/teams",
		Source: []byte(`package teams

import "example.com/people"

type Team struct {
	Lead    people.Person
	Members []*people.Person
}
`),
	})
	require.NoError(t, err)
	require.NotNil(t, pkg.Scope().Lookup("Team"))
}

func TestCheckerDiagnostics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		code   string
		line   int
	}{
		{
			name:   "syntax",
			source: "package broken\n\ntype T struct {\n",
			code:   compiler.CodeSyntax,
		},
		{
			name:   "undefined type",
			source: "package broken\n\ntype T struct {\n\tX Missing\n}\n",
			code:   compiler.CodeType,
			line:   4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := compiler.NewChecker().Compile(context.Background(), compiler.Unit{
				Name:    "broken",
				Package: "broken",
				Source:  []byte(tt.source),
			})
			require.ErrorIs(t, err, errdefs.ErrCompilation)

			var cerr *errdefs.CompilationError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, "broken", cerr.Unit)
			require.NotEmpty(t, cerr.Diagnostics)

			first := cerr.Diagnostics[0]
			assert.Equal(t, tt.code, first.Code)
			assert.Equal(t, "broken.go", first.Location.File)

			if tt.line > 0 {
				assert.Equal(t, tt.line, first.Location.Line)
			}

			assert.Contains(t, err.Error(), "ID:"+tt.code)
		})
	}
}

func TestCheckerCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := compiler.NewChecker().Compile(ctx, compiler.Unit{Name: "x", Package: "x", Source: []byte("package x\n")})
	require.ErrorIs(t, err, context.Canceled)
}
