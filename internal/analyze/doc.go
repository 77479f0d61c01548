// Package analyze turns checked go/types packages into a type graph and
// materializes the graph's structs as reflect types.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: describes kind (basic/struct/pointer/slice/array/map/
//     interface/alias/external), the structural typeref and the fields
//   - FieldInfo: describes field name, type, tags, and embedding
//   - Materializer: rebuilds a checked struct with reflect.StructOf through
//     a Resolver of known reflect types
package analyze
