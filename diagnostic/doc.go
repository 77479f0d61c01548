// Package diagnostic provides structured compiler and synthesis diagnostics.
//
// Key capabilities:
//   - Diagnostic identifiers, messages, severities and source spans
//   - Collections split by severity with merge and error folding
//   - Suggestions attached to a diagnostic (e.g. "did you mean" names)
package diagnostic
