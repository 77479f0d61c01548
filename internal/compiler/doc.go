// Package compiler type-checks rendered source units.
//
// Two backends implement the same contract: a Unit goes in, a checked
// *types.Package or an *errdefs.CompilationError with every diagnostic comes
// out.
//
//   - Checker parses and checks in-process with go/types. Imports resolve to
//     previously checked units first, then to the standard library and
//     GOPATH sources. References are ignored.
//   - Packages writes a temporary module (go.mod through x/mod/modfile,
//     References as require and replace directives) and loads it with
//     golang.org/x/tools/go/packages, so third-party imports resolve.
//
// Checking is blocking. Neither backend retries.
package compiler
