package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"typeforge/diagnostic"
)

// reporter prints diagnostics in a compact, colored form.
type reporter struct {
	w        io.Writer
	errors   int
	warnings int
}

func newReporter(w io.Writer) *reporter {
	return &reporter{w: w}
}

var (
	errorLabel   = color.New(color.FgRed, color.Bold)
	warningLabel = color.New(color.FgYellow, color.Bold)
	infoLabel    = color.New(color.FgCyan)
	okLabel      = color.New(color.FgGreen, color.Bold)
	faint        = color.New(color.Faint)
)

func (r *reporter) label(s diagnostic.Severity) *color.Color {
	switch s {
	case diagnostic.SeverityError:
		return errorLabel
	case diagnostic.SeverityWarning:
		return warningLabel
	default:
		return infoLabel
	}
}

// Report prints every diagnostic.
func (r *reporter) Report(ds ...diagnostic.Diagnostic) {
	for _, d := range ds {
		switch d.Severity {
		case diagnostic.SeverityError:
			r.errors++
		case diagnostic.SeverityWarning:
			r.warnings++
		}

		r.label(d.Severity).Fprintf(r.w, "%-7s ", d.Severity)

		if !d.Location.IsZero() {
			faint.Fprintf(r.w, "%s ", d.Location)
		}

		if d.Subject != "" {
			fmt.Fprintf(r.w, "%s: ", d.Subject)
		}

		fmt.Fprintf(r.w, "%s", d.Message)

		if d.Code != "" {
			faint.Fprintf(r.w, " [%s]", d.Code)
		}

		fmt.Fprintln(r.w)

		if len(d.Suggestions) > 0 {
			fmt.Fprintf(r.w, "        did you mean %s?\n", strings.Join(d.Suggestions, ", "))
		}
	}
}

// Error reports err as an error diagnostic about subject.
func (r *reporter) Error(subject string, err error) {
	r.Report(diagnostic.Diagnostic{Severity: diagnostic.SeverityError, Subject: subject, Message: err.Error()})
}

// OK reports a subject that passed.
func (r *reporter) OK(subject string) {
	okLabel.Fprintf(r.w, "%-7s ", "ok")
	fmt.Fprintln(r.w, subject)
}

// Summary prints the totals.
func (r *reporter) Summary() {
	fmt.Fprintf(r.w, "%d error(s), %d warning(s)\n", r.errors, r.warnings)
}
