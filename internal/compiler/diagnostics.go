package compiler

import (
	"errors"
	"go/scanner"
	"go/token"
	"go/types"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"typeforge/diagnostic"
	"typeforge/errdefs"
)

// Diagnostic identifiers.
const (
	CodeSyntax = "syntax_error"
	CodeType   = "type_error"
	CodeList   = "list_error"
	CodeLoad   = "load_failed"
)

// collect converts compiler errors into diagnostics.
func collect(diags *diagnostic.Diagnostics, subject string, err error) {
	var list scanner.ErrorList
	if errors.As(err, &list) {
		for _, e := range list {
			diags.AddError(CodeSyntax, e.Msg, subject, span(e.Pos))
		}

		return
	}

	var serr *scanner.Error
	if errors.As(err, &serr) {
		diags.AddError(CodeSyntax, serr.Msg, subject, span(serr.Pos))
		return
	}

	var terr types.Error
	if errors.As(err, &terr) {
		diags.AddError(CodeType, terr.Msg, subject, span(terr.Fset.Position(terr.Pos)))
		return
	}

	var perr packages.Error
	if errors.As(err, &perr) {
		code := CodeType

		switch perr.Kind {
		case packages.ParseError:
			code = CodeSyntax
		case packages.ListError:
			code = CodeList
		}

		diags.AddError(code, perr.Msg, subject, parseSpan(perr.Pos))

		return
	}

	diags.AddError(CodeLoad, err.Error(), subject, diagnostic.Span{})
}

func failure(unit Unit, diags diagnostic.Diagnostics) error {
	return &errdefs.CompilationError{Unit: unit.Name, Diagnostics: diags.All()}
}

func span(pos token.Position) diagnostic.Span {
	return diagnostic.Span{
		File:   filepath.Base(pos.Filename),
		Line:   pos.Line,
		Column: pos.Column,
	}
}

// parseSpan reads the "file:line:col" positions of go/packages errors.
func parseSpan(pos string) diagnostic.Span {
	if pos == "" || pos == "-" {
		return diagnostic.Span{}
	}

	var nums []int

	rest := pos
	for range 2 {
		i := strings.LastIndex(rest, ":")
		if i < 0 {
			break
		}

		n, err := strconv.Atoi(rest[i+1:])
		if err != nil {
			break
		}

		nums = append([]int{n}, nums...)
		rest = rest[:i]
	}

	s := diagnostic.Span{File: filepath.Base(rest)}
	if len(nums) > 0 {
		s.Line = nums[0]
	}

	if len(nums) > 1 {
		s.Column = nums[1]
	}

	return s
}
