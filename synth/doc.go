// Package synth turns class descriptors into Go types at run time.
//
// Two strategies produce a type from a descriptor:
//
//   - StrategyBinary builds the struct directly with reflect.StructOf.
//   - StrategyText renders Go source, type-checks it with a Compiler and, in
//     the Live loading mode, materializes the checked struct as a
//     reflect.Type. In the ReflectionOnly mode only the go/types object is
//     kept, which is also the only way to synthesize interfaces.
//
// Both strategies yield the same reflect.Type for the same struct
// descriptor. Every synthesized struct starts with a zero-size meta.Header
// field whose tag carries the type name, package, parents and class
// annotations.
//
// Results are cached by their canonical form: the structural hash of the
// normalized descriptor for binary emission, the hash of the rendered
// source for text emission. Concurrent requests for the same form share a
// single synthesis, so callers always observe one type identity per shape.
//
// The Universe resolves named types referenced by descriptors. Synthesized
// types register themselves under their qualified name, so later
// descriptors may use them as property types or parents.
package synth
