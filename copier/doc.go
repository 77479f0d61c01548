// Package copier implements the property-by-property copy engine and deep
// clone on top of the props capability.
//
// A copy selects the source properties (options.Copy include/exclude
// rules), resolves each value, and assigns it to the same-named writable
// target property. Values of the same type are deep-cloned; values of other
// types are converted best-effort (custom casters, Go conversions,
// primitive.Convert categories, struct to struct by property name,
// collections element-wise). A failed conversion leaves the target property
// untouched and is only logged at debug level.
//
// Cloned graphs keep their shape: a pointer reached twice is cloned once,
// cycles included.
package copier
