package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"typeforge/internal/common"
)

// Diagnostics holds diagnostics split by severity.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Location is the source span the diagnostic points at (may be zero).
	Location Span
	// Subject names the type or compilation unit this relates to (if any).
	Subject string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// Span is a source location range. Lines and columns are 1-based; zero means unknown.
type Span struct {
	File      string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// IsZero reports whether the span carries no location.
func (s Span) IsZero() bool {
	return s.File == "" && s.Line == 0
}

// String renders the span as file:line:col.
func (s Span) String() string {
	if s.IsZero() {
		return "-"
	}

	out := s.File
	if s.Line > 0 {
		out += fmt.Sprintf(":%d", s.Line)
		if s.Column > 0 {
			out += fmt.Sprintf(":%d", s.Column)
		}
	}

	return out
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Add appends a diagnostic to the bucket matching its severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	switch diag.Severity {
	case SeverityError:
		d.Errors = append(d.Errors, diag)
	case SeverityWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, subject string, loc Span) {
	d.Add(Diagnostic{Severity: SeverityError, Code: code, Message: message, Subject: subject, Location: loc})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, subject string, loc Span) {
	d.Add(Diagnostic{Severity: SeverityWarning, Code: code, Message: message, Subject: subject, Location: loc})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, subject string, loc Span) {
	d.Add(Diagnostic{Severity: SeverityInfo, Code: code, Message: message, Subject: subject, Location: loc})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// All returns every diagnostic ordered by severity, errors first.
func (d *Diagnostics) All() []Diagnostic {
	out := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))
	out = append(out, d.Errors...)
	out = append(out, d.Warnings...)

	return append(out, d.Infos...)
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// Detail renders the diagnostic in the "ID:..., Message:..., Location:..., Severity:..." form.
func (d Diagnostic) Detail() string {
	return fmt.Sprintf("ID:%s, Message:%s, Location:%s, Severity:%s", d.Code, d.Message, d.Location, d.Severity)
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Subject != "" {
		prefix = append(prefix, "["+d.Subject+"]")
	}

	if !d.Location.IsZero() {
		prefix = append(prefix, d.Location.String())
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
