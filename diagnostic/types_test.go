package diagnostic_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typeforge/diagnostic"
)

func TestDiagnostics(t *testing.T) {
	t.Parallel()

	var d diagnostic.Diagnostics
	assert.True(t, d.IsValid())
	require.NoError(t, d.Error())

	d.AddWarning("W1", "shadowed", "unit", diagnostic.Span{})
	d.AddError("E1", "undefined: Foo", "unit", diagnostic.Span{File: "a.go", Line: 3, Column: 7})
	d.AddInfo("I1", "note", "", diagnostic.Span{})

	assert.True(t, d.HasErrors())
	assert.Len(t, d.All(), 3)
	assert.Equal(t, "E1", d.All()[0].Code)
	require.EqualError(t, d.Error(), "[unit] a.go:3:7: [E1] undefined: Foo")

	var other diagnostic.Diagnostics
	other.AddError("E2", "second", "", diagnostic.Span{})
	d.Merge(other)
	assert.Len(t, d.Errors, 2)
}

func ExampleDiagnostic_Detail() {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Code:     "UndeclaredName",
		Message:  "undefined: Foo",
		Location: diagnostic.Span{File: "unit.go", Line: 4, Column: 2},
	}

	fmt.Println(d.Detail())
	fmt.Println(diagnostic.Severity(42))

	// Output:
	// ID:UndeclaredName, Message:undefined: Foo, Location:unit.go:4:2, Severity:error
	// unknown
}
