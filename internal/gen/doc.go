// Package gen renders class descriptors as Go source.
//
// Rendering goes through jennifer, which collects and de-duplicates imports
// and gofmt-s the result, so identical normalized descriptors always give
// identical bytes.
//
// Output shape:
//   - class annotations as //typeforge:annotation directive lines above the
//     type declaration
//   - parents as embedded types, sorted
//   - struct fields carrying the meta tag encoding, or interface getters and
//     setters (//typeforge:param lines before a setter)
//   - a NewName constructor for struct types
//   - a trailing `var ( _ = pkg.Ann{...} )` block that keeps every
//     annotation literal type-checked
package gen
