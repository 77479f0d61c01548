// Package override keeps a table of mappers that augment existing Go types.
//
// A Mapper names an original type and configures a Mapping: extra
// properties, annotations on existing or extra properties, class
// annotations, an optional replacement type and spawn hooks. A Registry
// instantiates the mappers of a Catalog once, merges every mapper of the
// same original type into one Entry and answers lookups for any type: an
// exact match first, then registered interfaces the type implements, then
// the structs it embeds.
//
// InjectedType composes the final type by layering the entry's additions
// through the synthesizer's cached layering operations, so repeated calls
// return the identical reflect.Type. Spawn and Inject build instances of
// the injected type.
//
// A Registry is an ordinary value: construct it at startup and pass it to
// its consumers. Reads are safe for concurrent use; Initialize and Merge
// take the write lock.
package override
