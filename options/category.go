package options

// ArrayCategoryEnum selects how slices are copied into fixed size arrays.
type ArrayCategoryEnum int

const (
	ArraySafe   ArrayCategoryEnum = 1 << iota // slice <-> array: slice perfectly fits into an array
	ArrayUnsafe                               // slice <-> array: slice does not fit into an array, slices are cut, arrays leaved with zero values

	ArrayAll  = (1 << iota) - 1 // all categories combined
	ArrayNone = 0               // no categories selected
)
