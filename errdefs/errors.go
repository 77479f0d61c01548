// Package errdefs defines the error taxonomy shared by the synthesis, copy
// and override packages. Callers match categories with errors.Is against the
// sentinels and extract details with errors.As.
package errdefs

import (
	"errors"
	"fmt"
	"reflect"

	"typeforge/diagnostic"
)

var (
	ErrUnsupportedDescription = errors.New("unsupported description")
	ErrCompilation            = errors.New("compilation failed")
	ErrConstruction           = errors.New("construction failed")
)

// UnsupportedDescriptionError reports a descriptor shape that cannot be rendered or emitted.
type UnsupportedDescriptionError struct {
	Subject string
	Reason  string
}

func (e *UnsupportedDescriptionError) Error() string {
	if e.Subject == "" {
		return "unsupported description: " + e.Reason
	}

	return fmt.Sprintf("unsupported description %s: %s", e.Subject, e.Reason)
}

func (e *UnsupportedDescriptionError) Is(target error) bool {
	return target == ErrUnsupportedDescription
}

// Unsupported is a shorthand for a formatted UnsupportedDescriptionError.
func Unsupported(subject, format string, args ...any) error {
	return &UnsupportedDescriptionError{Subject: subject, Reason: fmt.Sprintf(format, args...)}
}

// UnsupportedExpressionError reports an annotation expression whose arguments are not literal constants.
type UnsupportedExpressionError struct {
	Expression string
	Reason     string
}

func (e *UnsupportedExpressionError) Error() string {
	return fmt.Sprintf("unsupported annotation expression %q: %s", e.Expression, e.Reason)
}

func (e *UnsupportedExpressionError) Is(target error) bool {
	return target == ErrUnsupportedDescription
}

// CompilationError carries every diagnostic the compiler produced for a unit.
type CompilationError struct {
	Unit        string
	Diagnostics []diagnostic.Diagnostic
}

func (e *CompilationError) Error() string {
	switch len(e.Diagnostics) {
	case 0:
		return fmt.Sprintf("compilation of %s failed", e.Unit)
	case 1:
		return fmt.Sprintf("compilation of %s failed: %s", e.Unit, e.Diagnostics[0].Detail())
	default:
		return fmt.Sprintf("compilation of %s failed: %s (and %d more)",
			e.Unit, e.Diagnostics[0].Detail(), len(e.Diagnostics)-1)
	}
}

func (e *CompilationError) Is(target error) bool {
	return target == ErrCompilation
}

// ConstructionError reports a type that cannot be instantiated.
type ConstructionError struct {
	Type   reflect.Type
	Reason string
}

func (e *ConstructionError) Error() string {
	name := "<nil>"
	if e.Type != nil {
		name = e.Type.String()
	}

	return fmt.Sprintf("cannot construct %s: %s", name, e.Reason)
}

func (e *ConstructionError) Is(target error) bool {
	return target == ErrConstruction
}

// Constructible reports whether a zero value of t can be allocated and populated.
// It returns a ConstructionError describing why not otherwise.
func Constructible(t reflect.Type) error {
	if t == nil {
		return &ConstructionError{Reason: "type is nil"}
	}

	switch t.Kind() {
	case reflect.Interface:
		return &ConstructionError{Type: t, Reason: "interface types have no constructor"}
	case reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Invalid:
		return &ConstructionError{Type: t, Reason: "kind " + t.Kind().String() + " has no parameterless constructor"}
	default:
		return nil
	}
}
